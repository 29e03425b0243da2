package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/bonusledger/internal/domain"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaTransport writes messages to a topic keyed by account id, keeping each
// holder's notifications in order within one partition.
type KafkaTransport struct {
	writer kafkaWriter
}

// NewKafkaWriter creates a writer for the notification topic.
func NewKafkaWriter(brokers []string, topic string, logger zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn().Msgf(msg, args...)
		}),
	}
}

// NewKafkaTransport creates a new KafkaTransport.
func NewKafkaTransport(writer *kafka.Writer) *KafkaTransport {
	return &KafkaTransport{writer: writer}
}

// Send writes msg.
func (t *KafkaTransport) Send(ctx context.Context, msg *domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AccountID),
		Value: data,
		Time:  msg.CreatedAt,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(msg.ID)},
			{Key: "type", Value: []byte(msg.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (t *KafkaTransport) Close() error {
	return t.writer.Close()
}
