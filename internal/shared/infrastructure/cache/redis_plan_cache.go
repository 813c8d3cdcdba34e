package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no export is cached for a plan.
var ErrCacheMiss = errors.New("plan not in cache")

// RedisPlanCache stores exported plan documents keyed by plan ID so the
// read API can serve repeated fetches without re-reading the database.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisPlanCache creates a cache over an existing client.
func NewRedisPlanCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisPlanCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisPlanCache{client: client, ttl: ttl, logger: logger}
}

func planKey(id uuid.UUID) string {
	return "vitaplan:plan:" + id.String()
}

// Set stores an exported plan document.
func (c *RedisPlanCache) Set(ctx context.Context, id uuid.UUID, doc []byte) error {
	if err := c.client.Set(ctx, planKey(id), doc, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache plan %s: %w", id, err)
	}
	return nil
}

// Get fetches an exported plan document, or ErrCacheMiss.
func (c *RedisPlanCache) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	doc, err := c.client.Get(ctx, planKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("fetch cached plan %s: %w", id, err)
	}
	return doc, nil
}

// Invalidate drops a cached plan document.
func (c *RedisPlanCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, planKey(id)).Err()
}
