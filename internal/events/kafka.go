package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by batch id.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
		topic: topic,
	}
}

// New returns a KafkaPublisher when brokers are given, Noop otherwise.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}

	return NewKafkaPublisher(brokers, topic)
}

// PublishLoadCompleted writes e to the topic.
func (p *KafkaPublisher) PublishLoadCompleted(ctx context.Context, e LoadCompleted) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.BatchID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("load_completed")},
		},
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("topic", p.topic).Msg("event publish failed")
		return err
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
