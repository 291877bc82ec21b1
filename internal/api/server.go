package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"

	"github.com/nfonseca1/chat-app-server/internal/ws"
)

// NewServer builds the fiber app: the request interface plus the realtime
// upgrade endpoint.
func NewServer(h *Handlers, wsrv *ws.Server) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/users", h.CreateUser)
	app.Post("/conversation", h.CreateConversation)
	app.Get("/conversations/:username", h.GetConversations)
	app.Get("/messages/:conversationId", h.GetMessages)

	app.Get("/ws", wsrv.Upgrade, websocket.New(wsrv.Handler()))

	return app
}
