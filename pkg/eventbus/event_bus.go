// Package eventbus provides the publish/subscribe infrastructure for taskflow
// lifecycle events.
package eventbus

import (
	"context"

	"github.com/pepperonas/taskflow-platform/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// EventPublisher is the slice of the bus producers depend on. The engine and
// the task service take it as an optional dependency; a nil publisher simply
// disables event emission.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventHandler func(ctx context.Context, event any) error

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
