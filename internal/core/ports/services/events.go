package services

import (
	"context"

	"github.com/spinzar/bigcapital/internal/core/domain"
)

// EventPublisher delivers domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventHandler handles one published event.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventSubscriber registers handlers by event name.
type EventSubscriber interface {
	Subscribe(eventName string, handler EventHandler)
}
