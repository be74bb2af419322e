// Package ports define the EventBus interface for event-driven communication.
// The event bus lets diagnostics and the CLI observe services without callbacks.
package ports

import (
	"github.com/tejashwikalptaru/playvideo/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// Thread-safety: Implementations must be thread-safe as events may be published
// from the control loop while button adapters or signal handlers subscribe.
//
// Example usage:
//
//	// In service: Publish an event
//	bus.Publish(domain.NewVideoStartedEvent(video, pid, title, cmdline))
//
//	// In a diagnostics subscriber
//	subID := bus.Subscribe(domain.EventVideoError, func(event domain.Event) {
//	    e := event.(domain.VideoErrorEvent)
//	    logger.Warn("video failed", slog.Any("error", e.Error))
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// Handlers run synchronously and must return quickly.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// Each subscription gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	Close() error
}
