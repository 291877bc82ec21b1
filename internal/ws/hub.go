package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/metrics"
)

// Conn is the slice of *websocket.Conn the hub needs. Connections are
// anonymous at this layer.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub owns the set of live realtime connections and delivers broadcast
// events to them. Delivery is fire-and-forget: a failed send is logged and
// the connection stays registered.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]Conn)}
}

// Register adds the connection and returns its id.
func (h *Hub) Register(c Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()
	metrics.Connections.Inc()
	log.Info().Str("conn", id).Msg("ws connected")
	return id
}

// Unregister removes the connection; a no-op if it is already gone.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	_, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		metrics.Connections.Dec()
		log.Info().Str("conn", id).Msg("ws disconnected")
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast delivers the payload to every registered connection. The payload
// is marshalled once; per-connection failures are isolated.
func (h *Hub) Broadcast(payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("marshal broadcast payload")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			metrics.BroadcastFailures.Inc()
			log.Error().Err(err).Str("conn", id).Msg("broadcast send")
			continue
		}
		metrics.BroadcastDeliveries.Inc()
	}
}

// SendTo delivers the payload to a single connection, with the same
// failure isolation as Broadcast.
func (h *Hub) SendTo(id string, payload any) {
	h.mu.RLock()
	c, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("marshal direct payload")
		return
	}
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		metrics.BroadcastFailures.Inc()
		log.Error().Err(err).Str("conn", id).Msg("direct send")
	}
}
