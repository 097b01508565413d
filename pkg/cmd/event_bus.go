package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/pepperonas/taskflow-platform/pkg/channels/kafka"
	"github.com/pepperonas/taskflow-platform/pkg/eventbus"
)

// NewEventBus creates the event bus for the given provider. An empty provider
// returns nil: event publishing is optional and a nil bus disables it.
func NewEventBus(provider string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch provider {
	case "":
		return nil, nil
	case "kafka":
		brokers := kafka.BrokersFromEnv()
		wlogger := watermill.NewSlogLogger(logger)

		pub, err := kafka.NewPublisher(brokers, wlogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
		}

		sub, err := kafka.NewSubscriber(brokers, "taskflow", wlogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
