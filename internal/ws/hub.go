package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"batepapo-service/internal/models"
	"batepapo-service/internal/observability"
	"batepapo-service/internal/policy"
)

// Hub maintains the active feed connections. There is a single room; each
// connection carries the viewer identity used for visibility filtering.
type Hub struct {
	clients map[*websocket.Conn]ConnInfo
	mu      sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]ConnInfo)}
}

// AddClient registers a feed connection.
func (h *Hub) AddClient(conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = info
}

// RemoveClient removes a feed connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// BroadcastMessage pushes a new log entry to every viewer allowed to see it.
func (h *Hub) BroadcastMessage(msg models.Message) {
	h.send("message", msg)
}

// BroadcastEdit pushes an edited message to every viewer allowed to see it.
func (h *Hub) BroadcastEdit(msg models.Message) {
	h.send("message_edited", msg)
}

// BroadcastDeletion notifies all viewers that a message is gone. Only the
// opaque id leaks, so no visibility filter applies.
func (h *Hub) BroadcastDeletion(messageID string) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := models.RoomEvent{Type: "message_deleted", MessageID: messageID}
	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		h.write(conn, payload)
	}
	observability.IncWSEvent("message_deleted")
}

func (h *Hub) send(eventType string, msg models.Message) {
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.clients))
	for conn, info := range h.clients {
		if policy.Visible(msg, info.Viewer) {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	event := models.RoomEvent{Type: eventType, Message: &msg}
	payload, _ := json.Marshal(event)
	for _, conn := range targets {
		h.write(conn, payload)
	}
	observability.IncWSEvent(eventType)
}

func (h *Hub) write(conn *websocket.Conn, payload []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write error: %v", err)
		conn.Close()
		h.RemoveClient(conn)
		observability.IncWSEvent("ws_error")
	}
}
