package store

import (
	"context"
	"sort"
	"sync"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

// MemoryStore keeps all three tables in process memory. Used by tests and
// dev mode; same contract as the Mongo store.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	conversations map[string]*models.Conversation
	messages      map[string][]*models.Message // conversationId -> messages
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]*models.Message),
	}
}

func (s *MemoryStore) PutUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	cp.Conversations = append([]string(nil), u.Conversations...)
	s.users[u.Username] = &cp
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	cp.Conversations = append([]string(nil), u.Conversations...)
	return &cp, nil
}

func (s *MemoryStore) BatchGetUsers(_ context.Context, usernames []string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(usernames))
	for _, name := range usernames {
		if u, ok := s.users[name]; ok {
			cp := *u
			cp.Conversations = append([]string(nil), u.Conversations...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateUserConversations(_ context.Context, username string, conversations []string, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return ErrNotFound
	}
	if u.Version != expectedVersion {
		return ErrVersionConflict
	}
	u.Conversations = append([]string(nil), conversations...)
	u.Version++
	return nil
}

func (s *MemoryStore) PutConversation(_ context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.Users = append([]string(nil), c.Users...)
	s.conversations[c.ConversationID] = &cp
	return nil
}

func (s *MemoryStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.Users = append([]string(nil), c.Users...)
	return &cp, nil
}

func (s *MemoryStore) BatchGetConversations(_ context.Context, ids []string) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Conversation, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.conversations[id]; ok {
			cp := *c
			cp.Users = append([]string(nil), c.Users...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) PutMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], &cp)
	return nil
}

func (s *MemoryStore) QueryMessages(_ context.Context, conversationID string, before int64, limit int64) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Message
	for _, m := range s.messages[conversationID] {
		if m.DateTime < before {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime > out[j].DateTime })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
