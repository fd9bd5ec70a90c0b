package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dsaidov/mebelplaza-backend/pkg/logger"
)

// Event is the envelope every hub message travels in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

const EventCatalogUpdated = "catalog.updated"

// Client is one storefront websocket subscriber. Clients do not address each
// other; the hub only pushes server-side events out.
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

// Hub fans server events out to every connected storefront client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"total":      total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id": client.SessionID,
				"total":      total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send buffer full, drop the connection asynchronously.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": client.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast marshals the event and queues it for every client. When the
// broadcast queue is full the event is dropped; subscribers treat events as
// re-fetch hints, not data, so losing one is harmless.
func (h *Hub) Broadcast(eventType string, payload interface{}) error {
	data, err := json.Marshal(Event{
		Type:    eventType,
		Payload: payload,
		SentAt:  time.Now(),
	})
	if err != nil {
		logger.Error("Failed to marshal hub event", err, map[string]interface{}{
			"type": eventType,
		})
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
	return nil
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
