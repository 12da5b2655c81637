package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// Handler processes one received event payload.
type Handler func(payload json.RawMessage)

// Client is the capability surface a live-transport client implements.
// Transport selection is a pure configuration switch: callers hold this
// interface and never know whether WebSocket or SSE is underneath.
// Implementations reconnect automatically with a fixed backoff and
// re-register handlers idempotently: registering the same event twice
// replaces the handler, never duplicating delivery.
type Client interface {
	Connect(ctx context.Context) error
	Close() error
	On(event string, handler Handler)
	Off(event string)
}

// handlerRegistry is the shared idempotent handler table used by both
// transport clients.
type handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{handlers: make(map[string]Handler)}
}

func (r *handlerRegistry) on(event string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[event] = handler
}

func (r *handlerRegistry) off(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, event)
}

func (r *handlerRegistry) dispatch(event string, payload json.RawMessage) {
	r.mu.RLock()
	handler := r.handlers[event]
	r.mu.RUnlock()
	if handler != nil {
		handler(payload)
	}
}
