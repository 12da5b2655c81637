package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SSEClient is a reconnecting Server-Sent Events subscriber implementing
// the same capability surface as WSClient.
type SSEClient struct {
	URL     string
	Backoff time.Duration

	registry   *handlerRegistry
	httpClient *http.Client

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

func NewSSEClient(url string) *SSEClient {
	return &SSEClient{
		URL:        url,
		Backoff:    DefaultReconnectBackoff,
		registry:   newHandlerRegistry(),
		httpClient: &http.Client{},
	}
}

// Connect starts the receive loop, retrying with a fixed backoff.
func (c *SSEClient) Connect(ctx context.Context) error {
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

// Close stops the receive loop.
func (c *SSEClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.started = false
	return nil
}

// On registers a handler for an event type, replacing any previous one.
func (c *SSEClient) On(event string, handler Handler) {
	c.registry.on(event, handler)
}

// Off removes the handler for an event type.
func (c *SSEClient) Off(event string) {
	c.registry.off(event)
}

func (c *SSEClient) run(ctx context.Context) {
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = DefaultReconnectBackoff
	}

	for {
		_ = c.receiveOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

func (c *SSEClient) receiveOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sse stream status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var eventType string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if eventType != "" && data.Len() > 0 {
				c.registry.dispatch(eventType, json.RawMessage(data.String()))
			}
			eventType = ""
			data.Reset()
		}
	}
	return scanner.Err()
}

var _ Client = (*SSEClient)(nil)
