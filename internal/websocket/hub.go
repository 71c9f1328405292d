// Package websocket pushes trash bin change events to connected map
// clients, optionally filtered by the area a client subscribed to.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound events to fan out
	broadcast chan *Event

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Event is one change notification, scoped to an area. An empty AreaID
// reaches every client.
type Event struct {
	Type   string
	Data   interface{}
	AreaID string
}

// frame is the wire shape every client receives.
type frame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected (total: %d)", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected (remaining: %d)", len(h.clients))
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(frame{
				Type:      event.Type,
				Data:      event.Data,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				log.Printf("❌ Failed to marshal broadcast event: %v", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				if !client.wantsArea(event.AreaID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, client)
					log.Printf("⚠️ Client buffer full, disconnecting")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every client subscribed to the area.
func (h *Hub) Broadcast(msgType string, data interface{}, areaID string) {
	h.broadcast <- &Event{Type: msgType, Data: data, AreaID: areaID}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
