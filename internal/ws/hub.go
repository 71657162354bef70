package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const clientBuffer = 256

// Client is one connected dashboard.
type Client struct {
	id     string
	remote string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte

	// dropped counts messages skipped because send was full. Guarded by hub.mu.
	dropped int
}

func newClient(hub *Hub, conn *websocket.Conn, remote string) *Client {
	return &Client{
		id:     uuid.NewString(),
		remote: remote,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, clientBuffer),
	}
}

// Hub tracks connected dashboards and fans engine events out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.log.Debug().Str("client_id", c.id).Str("remote_addr", c.remote).Int("clients", len(h.clients)).Msg("dashboard connected")
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.log.Debug().Str("client_id", c.id).Int("dropped", c.dropped).Int("clients", len(h.clients)).Msg("dashboard disconnected")
}

// Broadcast queues msg for every client and returns how many accepted it.
// A client whose buffer is full misses the message; the next sim:state or
// dashboard:view brings it back in sync.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.clients {
		select {
		case c.send <- msg:
			delivered++
		default:
			c.dropped++
			h.log.Warn().
				Str("client_id", c.id).
				Str("remote_addr", c.remote).
				Int("dropped", c.dropped).
				Msg("dashboard buffer full, dropping message")
		}
	}
	return delivered
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
