package models

import "encoding/json"

// Realtime frame envelopes. Inbound frames carry one of the Action* tags;
// anything else is dropped by the dispatcher.
const (
	ActionMessage      = "message"
	ActionLike         = "like"
	ActionID           = "id"
	ActionConversation = "conversation"
)

// Envelope is the raw inbound frame; Data is decoded per Action tag.
type Envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Outbound is the broadcast envelope.
type Outbound struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// LikeRequest is the inbound "like" payload.
type LikeRequest struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// LikeEvent is the outbound "like" payload.
type LikeEvent struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	Likes          int64  `json:"likes"`
}

// IDEvent reconciles a client's tentative message id with the server-assigned
// one. Declared for clients; the server currently has no emitting path.
type IDEvent struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	TempID         string `json:"tempId"`
	DateTime       int64  `json:"dateTime"`
}
