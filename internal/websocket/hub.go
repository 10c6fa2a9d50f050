// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ak736/GuardianX/internal/events"
	"github.com/ak736/GuardianX/internal/metrics"
	"go.uber.org/zap"
)

// Envelope is the wire format of every pushed event.
type Envelope struct {
	Channel string `json:"channel"`
	events.Event
}

type message struct {
	channel string
	data    []byte
}

type subscription struct {
	client  *Client
	channel string
	join    bool
}

// Hub maintains the set of active clients and the rooms they joined.
// Publish implements events.Publisher.
type Hub struct {
	clients    map[*Client]map[string]bool
	rooms      map[string]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]map[string]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations, room changes and broadcasts until ctx is
// cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = make(map[string]bool)
			metrics.WebsocketClients.Inc()
			h.logger.Debug("websocket client registered", zap.String("remote", client.remote()))

		case client := <-h.unregister:
			h.remove(client)

		case sub := <-h.subscribe:
			rooms, ok := h.clients[sub.client]
			if !ok {
				continue
			}
			if sub.join {
				if h.rooms[sub.channel] == nil {
					h.rooms[sub.channel] = make(map[*Client]bool)
				}
				h.rooms[sub.channel][sub.client] = true
				rooms[sub.channel] = true
			} else {
				delete(h.rooms[sub.channel], sub.client)
				delete(rooms, sub.channel)
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.channel] {
				select {
				case client.send <- msg.data:
				default:
					h.logger.Warn("websocket client send buffer full, removing", zap.String("remote", client.remote()))
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	rooms, ok := h.clients[client]
	if !ok {
		return
	}
	for channel := range rooms {
		delete(h.rooms[channel], client)
		if len(h.rooms[channel]) == 0 {
			delete(h.rooms, channel)
		}
	}
	delete(h.clients, client)
	close(client.send)
	metrics.WebsocketClients.Dec()
	h.logger.Debug("websocket client unregistered", zap.String("remote", client.remote()))
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })
	for client := range h.clients {
		h.remove(client)
	}
}

// Publish queues ev for the clients in channel. It returns immediately once
// the hub has stopped.
func (h *Hub) Publish(channel string, ev events.Event) {
	data, err := json.Marshal(Envelope{Channel: channel, Event: ev})
	if err != nil {
		h.logger.Error("marshal websocket event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{channel: channel, data: data}:
	case <-h.done:
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join adds client to a room. Leaving is Join with join=false.
func (h *Hub) Join(client *Client, channel string, join bool) {
	select {
	case h.subscribe <- subscription{client: client, channel: channel, join: join}:
	case <-h.done:
	}
}
