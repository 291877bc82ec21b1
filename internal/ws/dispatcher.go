package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/chat"
	"github.com/nfonseca1/chat-app-server/internal/metrics"
	"github.com/nfonseca1/chat-app-server/internal/models"
)

// MessagePublisher forwards enriched messages to the event stream.
// Best-effort; a publish failure never blocks delivery.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}

// Dispatcher parses inbound realtime frames into typed actions and routes
// them. It is stateless across frames.
type Dispatcher struct {
	messages *chat.MessageStore
	hub      *Hub
	producer MessagePublisher
}

func NewDispatcher(messages *chat.MessageStore, hub *Hub, producer MessagePublisher) *Dispatcher {
	return &Dispatcher{messages: messages, hub: hub, producer: producer}
}

// Handle processes one inbound text frame from the given connection.
// Malformed frames and unknown action tags are dropped without a reply.
func (d *Dispatcher) Handle(ctx context.Context, connID string, frame []byte) {
	var env models.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		metrics.FramesRejected.Inc()
		log.Debug().Str("conn", connID).Err(err).Msg("malformed frame")
		return
	}
	switch env.Action {
	case models.ActionMessage:
		d.handleMessage(ctx, connID, env.Data)
	case models.ActionLike:
		d.handleLike(connID, env.Data)
	default:
		metrics.FramesRejected.Inc()
		log.Debug().Str("conn", connID).Str("action", env.Action).Msg("unknown action")
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, connID string, data json.RawMessage) {
	var draft models.MessageDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		metrics.FramesRejected.Inc()
		log.Debug().Str("conn", connID).Err(err).Msg("malformed message payload")
		return
	}
	if draft.ConversationID == "" || draft.Username == "" {
		metrics.FramesRejected.Inc()
		log.Debug().Str("conn", connID).Msg("message payload missing conversationId or username")
		return
	}

	msg, err := d.messages.Ingest(ctx, &draft)
	if err != nil {
		if !errors.Is(err, chat.ErrPersistence) {
			log.Error().Err(err).Str("conn", connID).Msg("ingest message")
			return
		}
		// Delivery is decoupled from durability: the enriched message is
		// still broadcast even though the write failed.
		metrics.PersistenceFailures.Inc()
		log.Error().Err(err).Str("message", msg.MessageID).Msg("persist message")
	}
	metrics.MessagesIngested.Inc()

	d.hub.Broadcast(models.Outbound{Action: models.ActionMessage, Data: msg})

	if d.producer != nil {
		b, _ := json.Marshal(msg)
		if err := d.producer.PublishMessage(ctx, msg.ConversationID, b); err != nil {
			log.Error().Err(err).Str("message", msg.MessageID).Msg("kafka publish")
		}
	}
}

// handleLike validates the envelope shape and stops there. The outbound
// contract is {action:"like", data:{messageId, conversationId, likes}}, but
// the aggregation policy (increment vs set, per-user de-duplication) is
// still undecided, so no like is recorded or broadcast.
func (d *Dispatcher) handleLike(connID string, data json.RawMessage) {
	var req models.LikeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		metrics.FramesRejected.Inc()
		log.Debug().Str("conn", connID).Err(err).Msg("malformed like payload")
		return
	}
	log.Debug().Str("conn", connID).Str("message", req.MessageID).Msg("like action not implemented")
}
