// Package app wires the application together: storage, event bus, cache,
// the scheduling engine, and the command/query handlers.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vitaplan/vitaplan/internal/scheduling/application/commands"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/queries"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/services"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
	"github.com/vitaplan/vitaplan/internal/scheduling/infrastructure/persistence"
	"github.com/vitaplan/vitaplan/internal/shared/infrastructure/cache"
	"github.com/vitaplan/vitaplan/internal/shared/infrastructure/eventbus"
	"github.com/vitaplan/vitaplan/pkg/config"
)

// Container holds the application's wired dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	PlanRepo  domain.PlanRepository
	Publisher eventbus.Publisher
	PlanCache *cache.RedisPlanCache

	Engine *services.Engine

	RunPlanHandler   *commands.RunPlanHandler
	GetPlanHandler   *queries.GetPlanHandler
	ListPlansHandler *queries.ListPlansHandler

	sqliteDB *sql.DB
	pgPool   *pgxpool.Pool
	redis    *redis.Client
}

// NewContainer builds the container for the configured mode. Local mode
// uses SQLite and skips every external service.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	if cfg.IsSQLite() {
		if err := ensureDir(cfg.SQLitePath); err != nil {
			return nil, err
		}
		db, err := persistence.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.sqliteDB = db
		c.PlanRepo = persistence.NewSQLitePlanRepository(db)
		logger.Info("using sqlite storage", "path", cfg.SQLitePath)
	} else {
		pool, err := persistence.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.pgPool = pool
		c.PlanRepo = persistence.NewPostgresPlanRepository(pool)
		logger.Info("using postgres storage")
	}

	if cfg.EventsEnabled && !cfg.LocalMode {
		pub, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, falling back to in-process bus", "error", err)
			c.Publisher = eventbus.NewInProcessBus(logger)
		} else {
			c.Publisher = pub
		}
	} else {
		c.Publisher = eventbus.NewInProcessBus(logger)
	}

	if cfg.CacheEnabled && !cfg.LocalMode {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid redis url, cache disabled", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unavailable, cache disabled", "error", err)
				_ = client.Close()
			} else {
				c.redis = client
				c.PlanCache = cache.NewRedisPlanCache(client, cfg.PlanCacheTTL, logger)
			}
		}
	}

	c.Engine = services.NewEngine(schedulerConfig(cfg), logger)
	c.RunPlanHandler = commands.NewRunPlanHandler(c.Engine, c.PlanRepo, c.Publisher, logger)
	c.GetPlanHandler = queries.NewGetPlanHandler(c.PlanRepo)
	c.ListPlansHandler = queries.NewListPlansHandler(c.PlanRepo)

	return c, nil
}

// Close releases every held connection.
func (c *Container) Close() error {
	var firstErr error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.sqliteDB != nil {
		if err := c.sqliteDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.pgPool != nil {
		c.pgPool.Close()
	}
	return firstErr
}

func schedulerConfig(cfg *config.Config) services.Config {
	sc := services.DefaultConfig()
	if cfg.DayStartMinutes > 0 {
		sc.DayStart = domain.Clock(cfg.DayStartMinutes)
	}
	if cfg.DayEndMinutes > 0 {
		sc.DayEnd = domain.Clock(cfg.DayEndMinutes)
	}
	if cfg.SlotStepMinutes > 0 {
		sc.SlotStepMinutes = cfg.SlotStepMinutes
	}
	if cfg.CandidateCap > 0 {
		sc.CandidateCap = cfg.CandidateCap
	}
	if cfg.LightDayThreshold > 0 {
		sc.LightDayThreshold = cfg.LightDayThreshold
	}
	return sc
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %q: %w", dir, err)
	}
	return nil
}
