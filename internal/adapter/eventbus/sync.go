// Package eventbus provides the synchronous EventBus used by the jukebox.
package eventbus

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/playvideo/internal/domain"
	"github.com/tejashwikalptaru/playvideo/internal/ports"
)

// allEvents is the key under which wildcard subscriptions are stored.
const allEvents domain.EventType = "*"

// SyncEventBus delivers events to handlers on the publishing goroutine,
// in subscription order.
//
// Thread-safety: This implementation is thread-safe. Handlers are called
// without the lock held, so a handler may subscribe or unsubscribe.
type SyncEventBus struct {
	logger *slog.Logger

	// subscribers maps event types (and allEvents) to their subscriptions
	subscribers map[domain.EventType][]subscription

	mu     sync.RWMutex
	nextID uint64
	closed bool
}

// a subscription represents a single event subscription.
type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish publishes an event to all subscribers of that event type,
// then to wildcard subscribers.
//
// Panics in handlers are recovered and logged, but do not stop other handlers
// from being called.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := slices.Concat(bus.subscribers[event.Type()], bus.subscribers[allEvents])
	bus.mu.RUnlock()

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

// deliver calls one handler and recovers from its panic.
func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()

	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, "sub", handler)
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(allEvents, "sub-all", handler)
}

func (bus *SyncEventBus) add(key domain.EventType, prefix string, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))
	bus.subscribers[key] = append(bus.subscribers[key], subscription{id: id, handler: handler})

	return id
}

// Unsubscribe removes a previously registered event handler.
// If the subscription ID is invalid or already unsubscribed, this is a no-op.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for key, subs := range bus.subscribers {
		i := slices.IndexFunc(subs, func(s subscription) bool { return s.id == id })
		if i < 0 {
			continue
		}
		// copy so that a Publish already iterating the old slice is unaffected
		bus.subscribers[key] = slices.Delete(slices.Clone(subs), i, i+1)
		return
	}
}

// HasSubscribers returns true if there are any active subscriptions for the given event type.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.subscribers[eventType]) > 0 || len(bus.subscribers[allEvents]) > 0
}

// Close shuts down the event bus and clears all subscriptions.
// Returns an error if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus already closed")
	}

	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)

	return nil
}

// SubscriberCount returns the number of active subscriptions, wildcard included.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := 0
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
