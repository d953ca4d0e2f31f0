// Package events provides the in-process publish/subscribe bus that services
// receive as their EventPublisher.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spinzar/bigcapital/internal/core/domain"
	portssvc "github.com/spinzar/bigcapital/internal/core/ports/services"
	"github.com/spinzar/bigcapital/internal/middleware"
)

// Bus dispatches events synchronously to the handlers subscribed to their
// name, in subscription order. Handlers added with OnSuccess run afterwards,
// and only for events every subscriber handled without error.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[string][]portssvc.EventHandler
	onSuccess []portssvc.EventHandler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]portssvc.EventHandler)}
}

var (
	_ portssvc.EventPublisher  = (*Bus)(nil)
	_ portssvc.EventSubscriber = (*Bus)(nil)
)

// Subscribe registers handler for eventName.
func (b *Bus) Subscribe(eventName string, handler portssvc.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// OnSuccess registers handler for every event whose subscribers all
// succeeded. It is skipped for events any subscriber failed.
func (b *Bus) OnSuccess(handler portssvc.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSuccess = append(b.onSuccess, handler)
}

// Publish runs every handler for the event. All handlers run even when one
// fails; their errors are joined and the OnSuccess handlers are skipped.
func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	handlers := append([]portssvc.EventHandler(nil), b.handlers[event.EventName()]...)
	followers := append([]portssvc.EventHandler(nil), b.onSuccess...)
	b.mu.RUnlock()

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Debug("Publishing event", slog.String("event", event.EventName()), slog.Int("handlers", len(handlers)))

	var errs []error
	for i, h := range handlers {
		if err := h(ctx, event); err != nil {
			logger.Error("Event handler failed",
				slog.String("event", event.EventName()),
				slog.Int("handler", i),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.EventName(), i, err))
		}
	}
	if len(errs) > 0 {
		if len(followers) > 0 {
			logger.Warn("Skipping success handlers for failed event",
				slog.String("event", event.EventName()),
				slog.Int("skipped", len(followers)))
		}
		return errors.Join(errs...)
	}

	for i, h := range followers {
		if err := h(ctx, event); err != nil {
			logger.Error("Success handler failed",
				slog.String("event", event.EventName()),
				slog.Int("handler", i),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s success handler %d: %w", event.EventName(), i, err))
		}
	}
	return errors.Join(errs...)
}
