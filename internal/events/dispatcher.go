package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler consumes a published account event.
type EventHandler func(context.Context, Event) error

// Dispatcher publishes account events to subscribed handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// accountEventBus delivers events synchronously, in subscription order. A
// failing handler is reported and skipped: notification stubs must not
// interfere with the admin operation that emitted the event, and a sync-failure
// event must reach every remaining listener.
type accountEventBus struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	listeners map[EventType][]EventHandler
}

// NewAccountEventBus creates an in-process dispatcher.
func NewAccountEventBus(logger *zap.Logger) Dispatcher {
	return &accountEventBus{
		logger:    logger,
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers subscribed to the event's type.
func (d *accountEventBus) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Warn("account event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.String("user_id", event.UserID),
				zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *accountEventBus) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
