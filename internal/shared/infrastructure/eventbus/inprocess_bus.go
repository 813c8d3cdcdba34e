package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler consumes a published payload for one routing key.
type Handler func(ctx context.Context, payload []byte)

// InProcessBus is a synchronous in-memory publisher used in local mode
// and in tests. Handlers run on the publishing goroutine.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	closed   bool
}

// NewInProcessBus creates an empty in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for a routing key.
func (b *InProcessBus) Subscribe(routingKey string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], h)
}

// Publish delivers the payload to every subscriber of the routing key.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[routingKey]...)
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return nil
	}
	for _, h := range handlers {
		h(ctx, payload)
	}
	b.logger.Debug("event delivered in-process",
		"routing_key", routingKey,
		"subscribers", len(handlers),
	)
	return nil
}

// Close stops delivery; further publishes are dropped silently.
func (b *InProcessBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
