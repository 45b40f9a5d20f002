package sync

import (
	"sync"

	"duomate/internal/observability"
)

// Hub fans change signals out to connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Add registers a client.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	observability.SyncClients.Set(float64(len(h.clients)))
}

// Remove unregisters a client and closes its send queue.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
	observability.SyncClients.Set(float64(len(h.clients)))
}

// Broadcast queues a message for every client. Clients that cannot keep
// up are dropped rather than blocking the watcher.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	var slow []string
	for id, c := range h.clients {
		select {
		case c.send <- message:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.Remove(id)
	}
	observability.SyncSignals.Inc()
}
