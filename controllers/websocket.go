package controllers

import (
	"campushub_go/middleware"
	ws "campushub_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	hub *ws.Hub
}

func NewWebSocketController(hub *ws.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// UpgradeRequired rejects plain HTTP requests on the websocket route
func (wc *WebSocketController) UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle upgrades the connection and attaches it to the hub. The JWT
// middleware has already resolved the principal into locals.
func (wc *WebSocketController) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		principal, ok := conn.Locals("principal").(*middleware.Principal)
		if !ok {
			conn.Close()
			return
		}
		wc.hub.HandleConnection(conn, principal.UserID)
	})
}

// Stats reports hub connection counts
func (wc *WebSocketController) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_users": wc.hub.ConnectedUsers(),
		"connections":     wc.hub.ConnectionCount(),
	})
}
