package socket

import (
	"sync"
)

// Conn is the subset of a websocket connection the hub needs. The real
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is the registry of connected dashboard clients. Webhook events are
// broadcast to every registered connection; a write failure drops the
// connection rather than failing the broadcast.
type Hub struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[Conn]struct{}),
	}
}

func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) Deregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Count reports the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends one event to every connected client. Dead connections are
// closed and removed along the way.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	message := map[string]interface{}{
		"event":   event,
		"payload": payload,
	}

	for _, c := range targets {
		if err := c.WriteJSON(message); err != nil {
			c.Close()
			h.Deregister(c)
		}
	}
}
