package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nfonseca1/chat-app-server/internal/models"
)

// MongoStore backs the three logical tables with one collection each.
type MongoStore struct {
	users         *mongo.Collection
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	s := &MongoStore{
		users:         db.Collection("users"),
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_idx"),
	})
	_, _ = s.conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversationId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("conversation_id_idx"),
	})
	_, _ = s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversationId", Value: 1}, {Key: "dateTime", Value: -1}},
		Options: options.Index().SetName("conversation_time_idx"),
	})
	return s
}

func (s *MongoStore) PutUser(ctx context.Context, u *models.User) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.users.ReplaceOne(ctx, bson.M{"username": u.Username}, u, opts)
	return err
}

func (s *MongoStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) BatchGetUsers(ctx context.Context, usernames []string) ([]*models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"username": bson.M{"$in": usernames}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	byName := make(map[string]*models.User, len(usernames))
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		byName[u.Username] = &u
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(byName))
	for _, name := range usernames {
		if u, ok := byName[name]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MongoStore) UpdateUserConversations(ctx context.Context, username string, conversations []string, expectedVersion int64) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username, "version": expectedVersion},
		bson.M{"$set": bson.M{"conversations": conversations}, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetUser(ctx, username); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *MongoStore) PutConversation(ctx context.Context, c *models.Conversation) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.conversations.ReplaceOne(ctx, bson.M{"conversationId": c.ConversationID}, c, opts)
	return err
}

func (s *MongoStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	if err := s.conversations.FindOne(ctx, bson.M{"conversationId": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) BatchGetConversations(ctx context.Context, ids []string) ([]*models.Conversation, error) {
	cur, err := s.conversations.Find(ctx, bson.M{"conversationId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	byID := make(map[string]*models.Conversation, len(ids))
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		byID[c.ConversationID] = &c
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	out := make([]*models.Conversation, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MongoStore) PutMessage(ctx context.Context, m *models.Message) error {
	_, err := s.messages.InsertOne(ctx, m)
	return err
}

func (s *MongoStore) QueryMessages(ctx context.Context, conversationID string, before int64, limit int64) ([]*models.Message, error) {
	filter := bson.M{"conversationId": conversationID, "dateTime": bson.M{"$lt": before}}
	opts := options.Find().SetSort(bson.D{{Key: "dateTime", Value: -1}}).SetLimit(limit)
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
