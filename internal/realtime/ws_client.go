package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"docvault-backend/internal/shared/telemetry"
)

// DefaultReconnectBackoff is the fixed delay between reconnect attempts.
const DefaultReconnectBackoff = 5 * time.Second

// WSClient is a reconnecting WebSocket subscriber. Handlers survive
// reconnects: the registry is consulted on every received event, so a
// reconnect never requires (or duplicates) re-registration.
type WSClient struct {
	URL     string
	Backoff time.Duration

	registry *handlerRegistry

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

func NewWSClient(url string) *WSClient {
	return &WSClient{
		URL:      url,
		Backoff:  DefaultReconnectBackoff,
		registry: newHandlerRegistry(),
	}
}

// Connect starts the receive loop. It returns once the loop is running;
// connection failures are retried with a fixed backoff until Close or
// context cancellation.
func (c *WSClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("client already connected")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.started = true

	go c.run(runCtx)
	return nil
}

// Close stops the receive loop and any pending reconnect.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.started = false
	return nil
}

// On registers a handler for an event type. Re-registering the same event
// replaces the previous handler.
func (c *WSClient) On(event string, handler Handler) {
	c.registry.on(event, handler)
}

// Off removes the handler for an event type.
func (c *WSClient) Off(event string) {
	c.registry.off(event)
}

func (c *WSClient) run(ctx context.Context) {
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = DefaultReconnectBackoff
	}

	for {
		if err := c.receiveOnce(ctx); err != nil && ctx.Err() == nil {
			telemetry.Warn("realtime.ws_client_disconnected", map[string]any{
				"url":   c.URL,
				"error": err.Error(),
			})
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

func (c *WSClient) receiveOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var event struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&event); err != nil {
			return err
		}
		c.registry.dispatch(event.Type, event.Payload)
	}
}

var _ Client = (*WSClient)(nil)
