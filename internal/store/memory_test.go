package store

import (
	"context"
	"errors"
	"testing"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

func TestMemoryStore_UserRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetUser(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u := &models.User{Username: "alice", Conversations: []string{}}
	if err := s.PutUser(ctx, u); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	got, err := s.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("expected username alice, got %q", got.Username)
	}

	// mutating the returned copy must not leak into the store
	got.Conversations = append(got.Conversations, "c1")
	again, _ := s.GetUser(ctx, "alice")
	if len(again.Conversations) != 0 {
		t.Errorf("store state mutated through returned copy")
	}
}

func TestMemoryStore_BatchGetUsersSkipsMissingAndKeepsOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, name := range []string{"carol", "alice"} {
		if err := s.PutUser(ctx, &models.User{Username: name}); err != nil {
			t.Fatalf("PutUser(%s): %v", name, err)
		}
	}

	got, err := s.BatchGetUsers(ctx, []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("BatchGetUsers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	if got[0].Username != "alice" || got[1].Username != "carol" {
		t.Errorf("expected request order [alice carol], got [%s %s]", got[0].Username, got[1].Username)
	}
}

func TestMemoryStore_UpdateUserConversationsCAS(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.PutUser(ctx, &models.User{Username: "alice"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	if err := s.UpdateUserConversations(ctx, "alice", []string{"c1"}, 0); err != nil {
		t.Fatalf("first update: %v", err)
	}
	// stale version must lose
	err := s.UpdateUserConversations(ctx, "alice", []string{"c2"}, 0)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	// fresh version wins
	if err := s.UpdateUserConversations(ctx, "alice", []string{"c1", "c2"}, 1); err != nil {
		t.Fatalf("second update: %v", err)
	}

	u, _ := s.GetUser(ctx, "alice")
	if len(u.Conversations) != 2 {
		t.Errorf("expected 2 conversations, got %v", u.Conversations)
	}
	if u.Version != 2 {
		t.Errorf("expected version 2, got %d", u.Version)
	}

	if err := s.UpdateUserConversations(ctx, "nobody", []string{"c1"}, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestMemoryStore_QueryMessages(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		err := s.PutMessage(ctx, &models.Message{
			MessageID:      string(rune('a' + i)),
			ConversationID: "conv",
			DateTime:       i * 100,
		})
		if err != nil {
			t.Fatalf("PutMessage: %v", err)
		}
	}

	got, err := s.QueryMessages(ctx, "conv", 450, 2)
	if err != nil {
		t.Fatalf("QueryMessages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].DateTime != 400 || got[1].DateTime != 300 {
		t.Errorf("expected newest-first [400 300], got [%d %d]", got[0].DateTime, got[1].DateTime)
	}
	for _, m := range got {
		if m.DateTime >= 450 {
			t.Errorf("message at %d not strictly before bound", m.DateTime)
		}
	}

	empty, err := s.QueryMessages(ctx, "other", 1000, 10)
	if err != nil {
		t.Fatalf("QueryMessages(other): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no messages for unknown conversation, got %d", len(empty))
	}
}
