package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nfonseca1/chat-app-server/internal/models"
	"github.com/nfonseca1/chat-app-server/internal/store"
)

// ErrPersistence marks a message that was enriched but not durably stored.
// The enriched message is still returned alongside it so the caller can
// decide whether delivery should proceed.
var ErrPersistence = errors.New("message persistence failed")

const DefaultQueryLimit = 30

// MessageStore assigns server-side ids and timestamps to drafts and serves
// time-ordered history.
type MessageStore struct {
	store store.Store
}

func NewMessageStore(s store.Store) *MessageStore {
	return &MessageStore{store: s}
}

// Ingest builds the full message record from a draft and writes it. The
// draft's tentative id and timestamp are discarded; messageId and dateTime
// (epoch ms) are always assigned here. On a store failure the enriched
// message is returned together with an ErrPersistence-wrapped error.
func (s *MessageStore) Ingest(ctx context.Context, draft *models.MessageDraft) (*models.Message, error) {
	msg := &models.Message{
		MessageID:      uuid.NewString(),
		ConversationID: draft.ConversationID,
		Username:       draft.Username,
		DateTime:       time.Now().UnixMilli(),
		Content:        draft.Content,
		IsMedia:        draft.IsMedia,
		RootID:         draft.RootID,
		Options:        draft.Options,
		MetaData:       draft.MetaData,
	}
	if err := s.store.PutMessage(ctx, msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msg, nil
}

// Query returns up to limit messages of the conversation strictly older than
// before (epoch ms), newest first. Zero values select the defaults: now and
// DefaultQueryLimit. Paginate backwards by passing the oldest returned
// dateTime as the next before.
func (s *MessageStore) Query(ctx context.Context, conversationID string, before int64, limit int64) ([]*models.Message, error) {
	if before <= 0 {
		before = time.Now().UnixMilli()
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	msgs, err := s.store.QueryMessages(ctx, conversationID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages for conversation %s: %w", conversationID, err)
	}
	return msgs, nil
}
