package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"FlowAtlas/internal/metrics"
	"FlowAtlas/internal/store"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64 // buffered channel size, drops when full
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessage is the envelope pushed to dashboard clients.
type WSMessage struct {
	Type   string        `json:"type"`
	Update *store.Update `json:"update,omitempty"`
}

// WSClient wraps one websocket connection with an async send buffer.
type WSClient struct {
	conn   *websocket.Conn
	hub    *Hub
	sendCh chan WSMessage
	done   chan struct{}
	once   sync.Once
}

// Send queues a message for async delivery. Non-blocking: drops if the
// buffer is full so a slow client never stalls the store fanout.
func (c *WSClient) Send(msg WSMessage) {
	select {
	case c.sendCh <- msg:
	default:
		metrics.WSMessagesDroppedTotal.Inc()
	}
}

func (c *WSClient) writeLoop() {
	defer c.close()
	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop discards inbound frames; its job is to notice the close.
func (c *WSClient) readLoop() {
	defer c.close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *WSClient) close() {
	c.once.Do(func() {
		c.hub.Unregister(c)
		close(c.done)
		c.conn.Close()
	})
}

// Hub tracks connected websocket clients and broadcasts messages to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*WSClient]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*WSClient]bool)}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	metrics.WSClientsActive.Inc()
}

// Unregister removes a client from the broadcast set.
func (h *Hub) Unregister(c *WSClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		metrics.WSClientsActive.Dec()
	}
	h.mu.Unlock()
}

// Broadcast queues a message to every connected client.
func (h *Hub) Broadcast(msg WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Send(msg)
	}
}

// handleWS upgrades the connection and starts the client loops.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		hub:    s.hub,
		sendCh: make(chan WSMessage, sendBuffer),
		done:   make(chan struct{}),
	}
	s.hub.Register(client)

	go client.writeLoop()
	go client.readLoop()
}
