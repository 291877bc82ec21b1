package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Broadcaster delivers an event to every local realtime connection.
type Broadcaster interface {
	Broadcast(payload any)
}

// Consumer relays message events produced elsewhere (another instance, a
// backfill job) to the local hub.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r}
}

// Run reads until ctx is cancelled, forwarding each event to the
// broadcaster. Read errors are logged and retried.
func (c *Consumer) Run(ctx context.Context, b Broadcaster) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("kafka read")
			time.Sleep(time.Second)
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(m.Value, &payload); err != nil {
			log.Debug().Err(err).Msg("skip malformed kafka event")
			continue
		}
		b.Broadcast(payload)
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
