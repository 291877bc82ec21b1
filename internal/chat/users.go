package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nfonseca1/chat-app-server/internal/models"
	"github.com/nfonseca1/chat-app-server/internal/store"
)

// Users creates and resolves user records. Usernames are the primary key,
// case-normalized to lowercase.
type Users struct {
	store store.Store
}

func NewUsers(s store.Store) *Users {
	return &Users{store: s}
}

// Create writes a user record with an empty conversation index and returns a
// generated id.
func (u *Users) Create(ctx context.Context, username string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if name == "" {
		return "", fmt.Errorf("username is required")
	}
	user := &models.User{
		Username:      name,
		Conversations: []string{},
	}
	if err := u.store.PutUser(ctx, user); err != nil {
		return "", fmt.Errorf("create user %s: %w", name, err)
	}
	return uuid.NewString(), nil
}

func (u *Users) Get(ctx context.Context, username string) (*models.User, error) {
	return u.store.GetUser(ctx, strings.ToLower(username))
}
