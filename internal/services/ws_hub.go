package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSEvent is the envelope pushed over the live feed. For new_message
// events only the connection ID travels; clients respond by re-fetching
// the full ordered message list, which makes duplicate or out-of-order
// delivery harmless.
type WSEvent struct {
	Type         string `json:"type"`
	ConnectionID uint   `json:"connection_id,omitempty"`
	Message      string `json:"message,omitempty"`
}

// wsClient pairs a connection with a write lock. gorilla/websocket
// forbids concurrent writers, and two HTTP sends to the same recipient
// can deliver at the same time.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages one WebSocket connection per online user.
type WSHub struct {
	mu      sync.RWMutex
	clients map[uint]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[uint]*wsClient)}
}

// Register registers a connection for a user, closing any previous one.
func (h *WSHub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[userID]; ok {
		existing.conn.Close()
	}
	h.clients[userID] = &wsClient{conn: conn}
	log.Printf("WebSocket registered for user %d", userID)
}

// Unregister removes a user's connection if the given conn is still the
// active one.
func (h *WSHub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[userID]; ok && current.conn == conn {
		current.conn.Close()
		delete(h.clients, userID)
		log.Printf("WebSocket unregistered for user %d", userID)
	}
}

// IsOnline reports whether a user currently holds a connection.
func (h *WSHub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser delivers an event to a user if they are online.
func (h *WSHub) SendToUser(userID uint, event WSEvent) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := client.write(data); err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

// BroadcastNewMessage tells both participants of a connection that its
// message list changed. Offline participants are skipped silently; they
// catch up from the in-app notification row.
func (h *WSHub) BroadcastNewMessage(connectionID uint, participants ...uint) {
	event := WSEvent{Type: "new_message", ConnectionID: connectionID}
	for _, userID := range participants {
		_ = h.SendToUser(userID, event)
	}
}
