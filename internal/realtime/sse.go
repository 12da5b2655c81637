package realtime

import (
	"io"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

const sseSendBuffer = 16

// SSEHandler streams hub events to clients over Server-Sent Events. It is
// the second live transport next to WebSocket; both sit behind the same
// hub, so transport selection never leaks into business logic.
type SSEHandler struct {
	Hub *Hub
}

func NewSSEHandler(hub *Hub) *SSEHandler {
	return &SSEHandler{Hub: hub}
}

// Serve handles one SSE subscriber connection.
func (h *SSEHandler) Serve(c *gin.Context) {
	sub := &sseSubscriber{send: make(chan Event, sseSendBuffer)}
	h.Hub.Subscribe(sub)
	defer h.Hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event := <-sub.send:
			sse.Encode(w, sse.Event{
				Event: event.Type,
				Data:  event.Payload,
			})
			return true
		}
	})
}

type sseSubscriber struct {
	send chan Event
}

func (s *sseSubscriber) Send(event Event) error {
	select {
	case s.send <- event:
		return nil
	default:
		return errSubscriberGone
	}
}
