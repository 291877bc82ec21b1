package store

import (
	"context"
	"errors"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict means a conditional user update lost to a concurrent
	// writer; the caller should re-read and retry.
	ErrVersionConflict = errors.New("user version conflict")
)

// Store is the key-value table contract over the Users, Conversations and
// Messages tables. Batch gets skip missing keys and preserve request order
// for the keys that exist.
type Store interface {
	PutUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	BatchGetUsers(ctx context.Context, usernames []string) ([]*models.User, error)
	// UpdateUserConversations replaces the user's conversation index only if
	// the stored record still carries expectedVersion. Returns
	// ErrVersionConflict otherwise.
	UpdateUserConversations(ctx context.Context, username string, conversations []string, expectedVersion int64) error

	PutConversation(ctx context.Context, c *models.Conversation) error
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	BatchGetConversations(ctx context.Context, ids []string) ([]*models.Conversation, error)

	PutMessage(ctx context.Context, m *models.Message) error
	// QueryMessages returns up to limit messages of the conversation with
	// dateTime strictly before the given epoch-millisecond bound, newest first.
	QueryMessages(ctx context.Context, conversationID string, before int64, limit int64) ([]*models.Message, error)
}
