package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/Hanan11240/chat-app/domain/chat"
	"github.com/Hanan11240/chat-app/modules/broadcast"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	defaultMaxFrameBytes = 1 << 20
	defaultMessageRate   = 10
	defaultMessageBurst  = 20
)

// errRateLimited marks a message event dropped by the per-connection limiter.
var errRateLimited = errors.New("rate limit exceeded")

// handleWebSocket handles WebSocket connections at /ws.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	id := uuid.New().String()
	client := broadcast.NewClient(id, m.clientBuffer)

	if err := m.hub.Register(client); err != nil {
		m.logger.Warn("Rejecting websocket connection", "connectionID", id, "error", err)
		_ = c.Close()
		return
	}

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		m.writePump(c, client)
	}()

	m.logger.Info("WebSocket client connected", "connectionID", id)
	m.sessions.Connect(id)

	m.readPump(c, id)

	// Leave the hub first so the departing connection receives none of its
	// own leave notices.
	m.hub.Unregister(id)
	m.sessions.Disconnect(id)
	<-pumpDone

	m.logger.Info("WebSocket client disconnected", "connectionID", id)
}

// readPump reads frames until the peer goes away or a read fails.
func (m *APIModule) readPump(c *websocket.Conn, id string) {
	limiter := rate.NewLimiter(rate.Limit(m.cfg.MessageRate), m.cfg.MessageBurst)

	c.SetReadLimit(int64(m.cfg.MaxFrameBytes))
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				m.logger.Warn("WebSocket read error", "connectionID", id, "error", err)
			}
			return
		}

		if err := m.dispatch(id, data, limiter); err != nil {
			m.logger.Debug("Ignoring inbound frame", "connectionID", id, "error", err)
		}
	}
}

// writePump drains the client's send queue onto the connection and keeps
// the connection alive with pings. It closes the connection on return so
// that a blocked readPump is released.
func (m *APIModule) writePump(c *websocket.Conn, client *broadcast.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case frame, ok := <-client.Send():
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				m.logger.Debug("WebSocket write failed", "connectionID", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-m.hub.Done():
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// dispatch decodes one inbound frame and applies it to the session.
// Malformed frames and unknown events are reported and otherwise ignored.
func (m *APIModule) dispatch(id string, data []byte, limiter *rate.Limiter) error {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}

	switch frame.Event {
	case domain.EventEnterRoom:
		var p EnterRoomPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			return fmt.Errorf("invalid %s payload: %w", frame.Event, err)
		}
		m.sessions.EnterRoom(id, p.Name, p.Room)
	case domain.EventMessage:
		if limiter != nil && !limiter.Allow() {
			return errRateLimited
		}
		var p MessagePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			return fmt.Errorf("invalid %s payload: %w", frame.Event, err)
		}
		m.sessions.Message(id, p.Name, p.Text)
	case domain.EventActivity:
		var name string
		if err := json.Unmarshal(frame.Data, &name); err != nil {
			return fmt.Errorf("invalid %s payload: %w", frame.Event, err)
		}
		m.sessions.Activity(id, name)
	default:
		return fmt.Errorf("unknown event %q", frame.Event)
	}
	return nil
}
