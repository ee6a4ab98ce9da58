package cmd

import (
	"log/slog"

	"github.com/dataflow-hq/dataflow/pkg/eventbus"
)

// NewEventBus creates an event bus instance based on the provider. Lifecycle
// events are consumed in-process, so the in-memory bus is the default.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "", "memory", "gochannel":
		return eventbus.NewGoChannelEventBus(logger)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
