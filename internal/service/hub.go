package service

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"live_portal/internal/domain"
	"live_portal/pkg/logger"
)

// Envelope is the wire format of every hub event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// HubClient is one WebSocket connection known to the hub.
type HubClient struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Role     string
	Conn     *websocket.Conn
	Send     chan []byte
}

// WritePump drains the send channel into the connection. Run in its own
// goroutine; returns when the channel is closed by the hub.
func (c *HubClient) WritePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	_ = c.Conn.Close()
}

// Hub groups connected clients into rooms and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*HubClient]struct{}
	rooms   map[string]map[*HubClient]struct{}
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*HubClient]struct{}),
		rooms:   make(map[string]map[*HubClient]struct{}),
		log:     log,
	}
}

// Register adds an authenticated connection and returns a cleanup
// function. Admins join the admin room; every authenticated client
// joins the stream room.
func (h *Hub) Register(user *domain.User, conn *websocket.Conn) (*HubClient, func()) {
	c := &HubClient{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Conn:     conn,
		Send:     make(chan []byte, 64),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if user.IsAdmin() {
		h.joinLocked(RoomAdmin, c)
	}
	h.joinLocked(RoomStream, c)
	h.mu.Unlock()

	h.log.Info("Client connected", "user_id", c.UserID, "username", c.Username, "role", c.Role)

	cleanup := func() {
		h.unregister(c)
	}
	return c, cleanup
}

func (h *Hub) joinLocked(room string, c *HubClient) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*HubClient]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) unregister(c *HubClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.Send)
	h.mu.Unlock()

	h.log.Info("Client disconnected", "user_id", c.UserID, "username", c.Username)
}

func (h *Hub) ToRoom(room, event string, payload interface{}) {
	raw, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		h.push(c, raw, event)
	}
}

func (h *Hub) ToUser(userID uuid.UUID, event string, payload interface{}) {
	raw, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.UserID == userID {
			h.push(c, raw, event)
		}
	}
}

func (h *Hub) ToAll(event string, payload interface{}) {
	raw, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.push(c, raw, event)
	}
}

func (h *Hub) encode(event string, payload interface{}) ([]byte, bool) {
	raw, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.log.Error("Failed to encode event", "error", err, "event", event)
		return nil, false
	}
	return raw, true
}

// push is non-blocking: a full send buffer drops the event for that
// client only, delivery to the others continues. Called under the read
// lock so a client cannot be unregistered mid-push.
func (h *Hub) push(c *HubClient, raw []byte, event string) {
	select {
	case c.Send <- raw:
	default:
		h.log.Warn("Client send buffer full, dropping event", "user_id", c.UserID, "event", event)
	}
}

// RoomSize reports current membership, used by tests and diagnostics.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
