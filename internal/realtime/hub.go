package realtime

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/shipnix/shipnix-express/internal/metrics"
)

// Envelope is the JSON frame pushed to every subscriber.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with a write lock; gorilla
// connections do not support concurrent writers.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *connection) send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(env)
}

// Hub is the registry of open websocket connections. It is owned by the
// server process and injected wherever updates need to be published.
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*connection]struct{})}
}

func (h *Hub) add(c *connection) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Len reports the number of currently open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast pushes {type, data} to every open connection. Connections that
// fail to accept the write are closed and dropped from the registry. There
// is no filtering, ordering guarantee across clients, or replay.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	h.mu.RLock()
	targets := make([]*connection, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	env := Envelope{Type: msgType, Data: data}
	for _, c := range targets {
		if err := c.send(env); err != nil {
			h.remove(c)
			_ = c.ws.Close()
		}
	}
	metrics.BroadcastsTotal.Inc()
}
