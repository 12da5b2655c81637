package realtime

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"docvault-backend/internal/shared/telemetry"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 45 * time.Second
	wsSendBuffer = 16
)

var errSubscriberGone = errors.New("subscriber connection closed")

// WSHandler upgrades HTTP connections to WebSocket and registers each
// connection as a hub subscriber.
type WSHandler struct {
	Hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin access is enforced by the CORS middleware; the
			// upgrade itself accepts any origin carrying a valid token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles one WebSocket subscriber connection.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Warn("realtime.ws_upgrade_failed", map[string]any{"error": err.Error()})
		return
	}

	sub := &wsSubscriber{
		conn: conn,
		send: make(chan Event, wsSendBuffer),
		done: make(chan struct{}),
	}
	h.Hub.Subscribe(sub)

	go sub.writeLoop()
	sub.readLoop() // blocks until the client disconnects

	h.Hub.Unsubscribe(sub)
	sub.close()
}

type wsSubscriber struct {
	conn *websocket.Conn
	send chan Event
	done chan struct{}
}

// Send queues the event for delivery. A full buffer counts as a failed
// delivery rather than blocking the publisher.
func (s *wsSubscriber) Send(event Event) error {
	select {
	case <-s.done:
		return errSubscriberGone
	case s.send <- event:
		return nil
	default:
		return errors.New("subscriber send buffer full")
	}
}

func (s *wsSubscriber) writeLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case event := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *wsSubscriber) readLoop() {
	s.conn.SetReadLimit(1024)
	s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *wsSubscriber) close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.conn.Close()
}
