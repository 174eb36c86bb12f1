package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/civilconnect/marketplace/backend/internal/middleware"
	"github.com/civilconnect/marketplace/backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP layer
	},
}

// WSHandler upgrades clients onto the live message feed
type WSHandler struct {
	hub       *services.WSHub
	jwtSecret string
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *services.WSHub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// HandleWebSocket authenticates via a token query parameter (browsers
// cannot set headers on WebSocket dials), registers the connection in
// the hub and then just keeps the socket alive. All events flow
// server-to-client; clients react to new_message events by re-fetching
// the message list over HTTP.
func (h *WSHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token required")
	}

	claims, err := middleware.ParseToken(h.jwtSecret, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for user %d: %v", claims.UserID, err)
		return nil
	}

	h.hub.Register(claims.UserID, conn)
	defer h.hub.Unregister(claims.UserID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %d: %v", claims.UserID, err)
			}
			break
		}
	}
	return nil
}
