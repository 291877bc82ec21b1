package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

// Client is a read-through cache for conversation records.
type Client struct {
	cli *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) (*Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{cli: r, ttl: ttl}, nil
}

func (c *Client) Close() error { return c.cli.Close() }

func convKey(id string) string { return "conversation:" + id }

func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, bool) {
	b, err := c.cli.Get(ctx, convKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("conversation", id).Msg("cache get")
		return nil, false
	}
	var conv models.Conversation
	if err := json.Unmarshal(b, &conv); err != nil {
		return nil, false
	}
	return &conv, true
}

func (c *Client) SetConversation(ctx context.Context, conv *models.Conversation) {
	b, err := json.Marshal(conv)
	if err != nil {
		return
	}
	if err := c.cli.Set(ctx, convKey(conv.ConversationID), b, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("conversation", conv.ConversationID).Msg("cache set")
	}
}
