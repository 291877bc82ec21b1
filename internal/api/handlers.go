package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nfonseca1/chat-app-server/internal/chat"
	"github.com/nfonseca1/chat-app-server/internal/metrics"
	"github.com/nfonseca1/chat-app-server/internal/models"
	"github.com/nfonseca1/chat-app-server/internal/store"
)

const requestTimeout = 5 * time.Second

type Handlers struct {
	users    *chat.Users
	index    *chat.ConversationIndex
	messages *chat.MessageStore
}

func NewHandlers(users *chat.Users, index *chat.ConversationIndex, messages *chat.MessageStore) *Handlers {
	return &Handlers{users: users, index: index, messages: messages}
}

func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&body); err != nil || body.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()
	id, err := h.users.Create(ctx, body.Username)
	if err != nil {
		log.Error().Err(err).Msg("create user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handlers) CreateConversation(c *fiber.Ctx) error {
	var body struct {
		Name  string   `json:"name"`
		Users []string `json:"users"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Users) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "users are required"})
	}
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()
	conv, err := h.index.Create(ctx, chat.CreateParams{
		Name:             body.Name,
		Users:            body.Users,
		ConversationID:   uuid.NewString(),
		CreationDateTime: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Error().Err(err).Msg("create conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": chat.ErrConversationCreate.Error()})
	}
	metrics.ConversationsCreated.Inc()
	return c.JSON(conv)
}

func (h *Handlers) GetConversations(c *fiber.Ctx) error {
	username := c.Params("username")
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()
	convs, err := h.index.UsersConversations(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		log.Error().Err(err).Str("user", username).Msg("get conversations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get conversations"})
	}
	return c.JSON(convs)
}

func (h *Handlers) GetMessages(c *fiber.Ctx) error {
	conversationID := c.Params("conversationId")
	limit := int64(c.QueryInt("limit"))
	before := int64(c.QueryInt("before"))
	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()
	msgs, err := h.messages.Query(ctx, conversationID, before, limit)
	if err != nil {
		log.Error().Err(err).Str("conversation", conversationID).Msg("get messages")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get messages"})
	}
	if msgs == nil {
		msgs = []*models.Message{} // never null on the wire
	}
	return c.JSON(msgs)
}
