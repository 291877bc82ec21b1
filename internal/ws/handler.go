package ws

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Server wires incoming websocket connections to the hub and dispatcher.
type Server struct {
	hub        *Hub
	dispatcher *Dispatcher
}

func NewServer(hub *Hub, dispatcher *Dispatcher) *Server {
	return &Server{hub: hub, dispatcher: dispatcher}
}

// Upgrade gates the route to websocket upgrade requests.
func (s *Server) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler runs the per-connection read loop: register, feed text frames to
// the dispatcher, unregister on exit. A handler that is already processing a
// frame is not cancelled when the connection drops.
func (s *Server) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		id := s.hub.Register(conn)
		defer func() {
			s.hub.Unregister(id)
			_ = conn.Close()
		}()
		for {
			mt, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			s.dispatcher.Handle(context.Background(), id, frame)
		}
	}
}
