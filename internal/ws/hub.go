// Package ws pushes live updates (new messages, thread changes, order and
// cart changes) to connected clients.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// PresenceFunc flips the tailor's "currently chatting" flag when their
// conversation view attaches or detaches.
type PresenceFunc func(ctx context.Context, tailorID string, active bool) error

type Envelope struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

type command struct {
	Action     string `json:"action"`
	CustomerID string `json:"customerId"`
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	connID   string
	role     model.Role
	attached bool
}

type Hub struct {
	mu       sync.RWMutex
	conns    map[string]map[string]*client // userID -> connID -> client
	presence PresenceFunc
}

func NewHub(presence PresenceFunc) *Hub {
	return &Hub{
		conns:    make(map[string]map[string]*client),
		presence: presence,
	}
}

// Serve owns the connection until it closes: it registers the client, runs
// the write pump, and processes attach/detach commands from the socket.
func (h *Hub) Serve(conn *websocket.Conn, user *model.User) {
	c := &client{
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: user.ID,
		connID: uuid.NewString(),
		role:   user.Role,
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Printf("ws: bad command from %s: %v", c.userID, err)
			continue
		}
		switch cmd.Action {
		case "attach":
			h.setPresence(c, true)
		case "detach":
			h.setPresence(c, false)
		}
	}
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c.userID] == nil {
		h.conns[c.userID] = make(map[string]*client)
	}
	h.conns[c.userID][c.connID] = c
	log.Printf("ws: client connected user=%s conn=%s", c.userID, c.connID)
}

func (h *Hub) unregister(c *client) {
	h.setPresence(c, false)
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.conns[c.userID]; ok {
		if _, ok := peers[c.connID]; ok {
			delete(peers, c.connID)
			close(c.send)
		}
		if len(peers) == 0 {
			delete(h.conns, c.userID)
		}
	}
	_ = c.conn.Close()
	log.Printf("ws: client disconnected user=%s conn=%s", c.userID, c.connID)
}

func (h *Hub) setPresence(c *client, active bool) {
	if h.presence == nil || c.role != model.RoleTailor || c.attached == active {
		return
	}
	c.attached = active
	if err := h.presence(context.Background(), c.userID, active); err != nil {
		log.Printf("ws: presence update for %s failed: %v", c.userID, err)
	}
}

// SendToUser fans an event out to every open connection of one user. Slow
// consumers are dropped rather than blocking delivery to the rest.
func (h *Hub) SendToUser(userID string, env Envelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		log.Printf("ws: marshal envelope: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns[userID] {
		select {
		case c.send <- raw:
		default:
			log.Printf("ws: dropping slow consumer user=%s conn=%s", userID, c.connID)
		}
	}
}
