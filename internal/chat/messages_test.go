package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfonseca1/chat-app-server/internal/models"
	"github.com/nfonseca1/chat-app-server/internal/store"
)

func TestIngest_AssignsServerIDAndTimestamp(t *testing.T) {
	s := NewMessageStore(store.NewMemoryStore())
	draft := &models.MessageDraft{
		ConversationID: "conv1",
		Username:       "alice",
		Content:        "hello",
		TempMessageID:  "temp-123",
		TempDateTime:   42,
	}

	msg, err := s.Ingest(context.Background(), draft)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if msg.MessageID == "" {
		t.Error("messageId not assigned")
	}
	if msg.MessageID == draft.TempMessageID {
		t.Error("messageId must not reuse the client's tentative id")
	}
	if msg.DateTime == draft.TempDateTime {
		t.Error("dateTime must be server-assigned, not the client's tentative value")
	}
	if now := time.Now().UnixMilli(); msg.DateTime > now || msg.DateTime < now-5000 {
		t.Errorf("dateTime %d not close to now %d", msg.DateTime, now)
	}

	other, err := s.Ingest(context.Background(), draft)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if other.MessageID == msg.MessageID {
		t.Error("messageIds must be unique across ingests")
	}
}

type failingMessageStore struct {
	store.Store
}

func (f *failingMessageStore) PutMessage(context.Context, *models.Message) error {
	return errors.New("table unavailable")
}

func TestIngest_PersistenceFailureStillReturnsEnrichedMessage(t *testing.T) {
	s := NewMessageStore(&failingMessageStore{Store: store.NewMemoryStore()})

	msg, err := s.Ingest(context.Background(), &models.MessageDraft{
		ConversationID: "conv1",
		Username:       "alice",
		Content:        "hello",
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if msg == nil || msg.MessageID == "" {
		t.Fatal("enriched message must be returned despite the failed write")
	}
}

func TestQuery_BoundsAndDefaults(t *testing.T) {
	mem := store.NewMemoryStore()
	s := NewMessageStore(mem)
	ctx := context.Background()

	base := time.Now().UnixMilli() - 10_000
	for i := int64(0); i < 40; i++ {
		err := mem.PutMessage(ctx, &models.Message{
			MessageID:      "m",
			ConversationID: "conv1",
			DateTime:       base + i,
		})
		if err != nil {
			t.Fatalf("PutMessage: %v", err)
		}
	}

	msgs, err := s.Query(ctx, "conv1", 0, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(msgs) != DefaultQueryLimit {
		t.Errorf("expected default limit %d, got %d", DefaultQueryLimit, len(msgs))
	}

	before := base + 20
	msgs, err = s.Query(ctx, "conv1", before, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(msgs) > 5 {
		t.Errorf("limit exceeded: %d", len(msgs))
	}
	for _, m := range msgs {
		if m.DateTime >= before {
			t.Errorf("message at %d not strictly before %d", m.DateTime, before)
		}
	}

	// backward pagination: page two starts where page one ended
	page1, _ := s.Query(ctx, "conv1", 0, 10)
	page2, _ := s.Query(ctx, "conv1", page1[len(page1)-1].DateTime, 10)
	if len(page2) == 0 {
		t.Fatal("expected a second page")
	}
	if page2[0].DateTime >= page1[len(page1)-1].DateTime {
		t.Error("second page overlaps the first")
	}
}
