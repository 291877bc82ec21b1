package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer publishes enriched message events, keyed by conversation id so a
// conversation's events stay on one partition.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Producer{writer: w}
}

func (p *Producer) PublishMessage(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{Key: []byte(key), Value: value, Time: time.Now()}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error { return p.writer.Close() }
