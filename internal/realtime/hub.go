package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

// Client is one open SSE connection.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message
}

// Hub tracks connections per channel and fans bus messages out to them.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		log:           baseLog.With("component", "Hub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Register opens a client subscribed to its own user channel.
func (h *Hub) Register(userID uuid.UUID) *Client {
	c := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	channel := userID.String()
	clients, ok := h.subscriptions[channel]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[c] = true

	h.log.Debug("sse client connected", "user_id", userID.String())
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	channel := c.UserID.String()
	if clients, ok := h.subscriptions[channel]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.Outbound)
		}
		if len(clients) == 0 {
			delete(h.subscriptions, channel)
		}
	}
}

// Dispatch delivers to every client on the message's channel. Slow clients
// drop messages instead of blocking the hub.
func (h *Hub) Dispatch(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			h.log.Warn("sse client buffer full, dropping event",
				"user_id", c.UserID.String(), "event", string(msg.Event))
		}
	}
}

// ClientCount reports connected clients on one channel.
func (h *Hub) ClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[channel])
}
