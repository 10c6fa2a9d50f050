// internal/websocket/client.go
package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ak736/GuardianX/internal/events"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Must be less than pongWait.
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer in front of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errUnknownAction = errors.New("unknown action")

// Control is a room membership request sent by a client, e.g.
// {"action":"join","channel":"alerts-updates"} or
// {"action":"join-infrastructure","id":"..."}.
type Control struct {
	Action  string `json:"action"`
	Channel string `json:"channel,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Room resolves a control message to the channel it names and whether the
// client is joining or leaving it.
func (c Control) Room() (string, bool, error) {
	switch c.Action {
	case "join", "leave":
		if c.Channel == "" {
			return "", false, errors.New("channel is required")
		}
		return c.Channel, c.Action == "join", nil
	case "join-dashboard":
		return events.DashboardChannel, true, nil
	case "join-alerts":
		return events.AlertsChannel, true, nil
	case "join-infrastructure", "join-sensor":
		if c.ID == "" {
			return "", false, errors.New("id is required")
		}
		if c.Action == "join-sensor" {
			return events.SensorChannel(c.ID), true, nil
		}
		return events.InfrastructureChannel(c.ID), true, nil
	}
	return "", false, errUnknownAction
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger
}

func (c *Client) remote() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), logger: h.logger}
	if !h.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump applies room control messages until the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", zap.String("remote", c.remote()), zap.Error(err))
			}
			return
		}

		var ctl Control
		if err := json.Unmarshal(raw, &ctl); err != nil {
			c.logger.Debug("ignoring malformed websocket message", zap.String("remote", c.remote()))
			continue
		}
		channel, join, err := ctl.Room()
		if err != nil {
			c.logger.Debug("ignoring websocket message", zap.String("action", ctl.Action), zap.Error(err))
			continue
		}
		c.hub.Join(c, channel, join)
	}
}

// writePump pumps messages from the hub to the websocket connection. Each
// event is its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write error", zap.String("remote", c.remote()), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
