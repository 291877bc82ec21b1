package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/models"
	"github.com/nfonseca1/chat-app-server/internal/store"
)

// ErrConversationCreate aborts a conversation create. Writes committed before
// the failure (the conversation record, some member index updates) are not
// rolled back.
var ErrConversationCreate = errors.New("failed to create conversation")

// casAttempts bounds the per-user retry loop during index fan-out.
const casAttempts = 5

// ConversationCache is an optional read-through cache for conversation
// lookups.
type ConversationCache interface {
	GetConversation(ctx context.Context, id string) (*models.Conversation, bool)
	SetConversation(ctx context.Context, c *models.Conversation)
}

// ConversationEvents receives best-effort notifications after a conversation
// is created.
type ConversationEvents interface {
	PublishConversationCreated(c *models.Conversation) error
}

// ConversationIndex owns the denormalized user -> conversation index: the
// create fan-out that appends a new conversation id to every member's user
// record, and the reverse lookup that resolves a user's conversations
// through that index.
type ConversationIndex struct {
	store  store.Store
	cache  ConversationCache
	events ConversationEvents
}

func NewConversationIndex(s store.Store, cache ConversationCache, events ConversationEvents) *ConversationIndex {
	return &ConversationIndex{store: s, cache: cache, events: events}
}

type CreateParams struct {
	Name             string
	Users            []string
	ConversationID   string
	CreationDateTime int64
}

// Create writes the conversation record, then fans the new id out into each
// member's conversation index. Each member update is a version-checked
// compare-and-swap retried on conflict, so two concurrent creates naming the
// same member cannot silently drop each other's id. Members missing from the
// Users table are skipped. Any store failure aborts with
// ErrConversationCreate; no rollback of already-committed writes.
func (ix *ConversationIndex) Create(ctx context.Context, params CreateParams) (*models.Conversation, error) {
	conv := &models.Conversation{
		ConversationID:   params.ConversationID,
		Name:             params.Name,
		Users:            normalizeUsernames(params.Users),
		CreationDateTime: params.CreationDateTime,
	}
	if err := ix.store.PutConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: put conversation: %v", ErrConversationCreate, err)
	}

	members, err := ix.store.BatchGetUsers(ctx, conv.Users)
	if err != nil {
		return nil, fmt.Errorf("%w: batch get users: %v", ErrConversationCreate, err)
	}
	for _, member := range members {
		if err := ix.appendToIndex(ctx, member, conv.ConversationID); err != nil {
			return nil, fmt.Errorf("%w: index user %s: %v", ErrConversationCreate, member.Username, err)
		}
	}

	if ix.cache != nil {
		ix.cache.SetConversation(ctx, conv)
	}
	if ix.events != nil {
		if err := ix.events.PublishConversationCreated(conv); err != nil {
			log.Error().Err(err).Str("conversation", conv.ConversationID).Msg("publish conversation.created")
		}
	}
	return conv, nil
}

func (ix *ConversationIndex) appendToIndex(ctx context.Context, u *models.User, conversationID string) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		updated := appendUnique(u.Conversations, conversationID)
		if len(updated) == len(u.Conversations) {
			return nil // already indexed
		}
		err := ix.store.UpdateUserConversations(ctx, u.Username, updated, u.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return err
		}
		fresh, err := ix.store.GetUser(ctx, u.Username)
		if err != nil {
			return err
		}
		u = fresh
	}
	return fmt.Errorf("gave up after %d conflicting updates for user %s", casAttempts, u.Username)
}

// UsersConversations resolves the user's conversation index to full records.
// Ids whose conversation record is missing are dropped from the result; the
// index itself is left untouched.
func (ix *ConversationIndex) UsersConversations(ctx context.Context, username string) ([]*models.Conversation, error) {
	u, err := ix.store.GetUser(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if len(u.Conversations) == 0 {
		return []*models.Conversation{}, nil
	}
	convs, err := ix.store.BatchGetConversations(ctx, u.Conversations)
	if err != nil {
		return nil, fmt.Errorf("batch get conversations for %s: %w", username, err)
	}
	if len(convs) < len(u.Conversations) {
		log.Warn().Str("user", u.Username).
			Int("indexed", len(u.Conversations)).Int("found", len(convs)).
			Msg("conversation index references missing conversations")
	}
	return convs, nil
}

func (ix *ConversationIndex) ConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	if ix.cache != nil {
		if c, ok := ix.cache.GetConversation(ctx, id); ok {
			return c, nil
		}
	}
	c, err := ix.store.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if ix.cache != nil {
		ix.cache.SetConversation(ctx, c)
	}
	return c, nil
}

func normalizeUsernames(users []string) []string {
	out := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		name := strings.ToLower(strings.TrimSpace(u))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(append([]string(nil), ids...), id)
}
