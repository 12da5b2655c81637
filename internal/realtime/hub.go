package realtime

import (
	"sync"

	"docvault-backend/internal/shared/telemetry"
)

// Event is one message fanned out to live subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Subscriber receives published events. Send must not block indefinitely;
// a failed Send only affects that subscriber.
type Subscriber interface {
	Send(event Event) error
}

// Hub fans events out to the currently connected subscribers. The subscriber
// set is mutated concurrently by connect/disconnect, so Publish iterates a
// snapshot: a subscriber disconnecting mid-publish cannot corrupt iteration.
// Delivery is best-effort and at-most-once.
type Hub struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[Subscriber]struct{})}
}

// Subscribe registers a subscriber for future publishes.
func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
}

// Unsubscribe removes a subscriber. Unknown subscribers are a no-op.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}

// Publish delivers the event to every current subscriber. Failures are
// logged and the failing subscriber dropped; they never propagate to the
// publisher.
func (h *Hub) Publish(eventType string, payload any) {
	event := Event{Type: eventType, Payload: payload}

	h.mu.RLock()
	snapshot := make([]Subscriber, 0, len(h.subs))
	for s := range h.subs {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	for _, s := range snapshot {
		if err := s.Send(event); err != nil {
			telemetry.Warn("realtime.publish_failed", map[string]any{
				"event_type": eventType,
				"error":      err.Error(),
			})
			h.Unsubscribe(s)
		}
	}
}

// SubscriberCount reports the current number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
