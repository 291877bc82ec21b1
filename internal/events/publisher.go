package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

const SubjectConversationCreated = "conversation.created"

type ConversationCreatedEvent struct {
	ConversationID   string   `json:"conversationId"`
	Name             string   `json:"name"`
	Users            []string `json:"users"`
	CreationDateTime int64    `json:"creationDateTime"`
}

// Publisher emits conversation lifecycle events over NATS. A nil Publisher
// is safe to call.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) PublishConversationCreated(c *models.Conversation) error {
	if p == nil || p.nc == nil {
		return nil
	}
	ev := ConversationCreatedEvent{
		ConversationID:   c.ConversationID,
		Name:             c.Name,
		Users:            c.Users,
		CreationDateTime: c.CreationDateTime,
	}
	b, _ := json.Marshal(ev)
	return p.nc.Publish(SubjectConversationCreated, b)
}

func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
