// Package messaging consumes back-office events from NATS JetStream.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// Stream layout
const (
	DefaultStream   = "LEDGER_INGEST"
	DefaultConsumer = "bonusledger"
	SubjectPost     = "ledger.events.post"
	SubjectDelete   = "ledger.events.delete"
)

// Message results
const (
	ResultAcked  = "acked"
	ResultTermed = "termed"
	ResultNaked  = "naked"
)

// EventPoster applies posted events.
type EventPoster interface {
	Post(ctx context.Context, input usecase.PostEventInput) (*usecase.PostResult, error)
}

// DocumentDeleter reverses documents.
type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error)
}

// Metrics receives ingress metrics.
type Metrics interface {
	RecordIngress(subject, result string)
}

// Config for Consumer.
type Config struct {
	Stream     string
	Durable    string
	AckWait    time.Duration
	MaxDeliver int
	Timeout    time.Duration // Per-message processing timeout
}

// Consumer feeds JetStream messages into the posting and reversal engines.
// Each message is acked once the ledger accepted it, or recognized it as a
// replay; malformed or rejected events are terminated; anything else is
// redelivered.
type Consumer struct {
	js      jetstream.JetStream
	poster  EventPoster
	deleter DocumentDeleter
	metrics Metrics
	logger  zerolog.Logger
	cfg     Config
	cc      jetstream.ConsumeContext
}

// NewConsumer creates a new Consumer.
func NewConsumer(
	js jetstream.JetStream,
	poster EventPoster,
	deleter DocumentDeleter,
	metrics Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Consumer {
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.Durable == "" {
		cfg.Durable = DefaultConsumer
	}
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = usecase.DefaultTransactionTimeout
	}

	return &Consumer{
		js:      js,
		poster:  poster,
		deleter: deleter,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Connect establishes a NATS connection and returns a JetStream context.
func Connect(url string, logger zerolog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.Name("bonusledger"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info().Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	return nc, js, nil
}

// EnsureStream creates the ingest stream if it does not exist.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       name,
		Subjects:   []string{"ledger.events.>"},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     72 * time.Hour,
		Duplicates: 2 * time.Minute,
		Replicas:   1,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", name, err)
	}
	return nil
}

// Start creates the durable consumer and begins processing messages.
func (c *Consumer) Start(ctx context.Context) error {
	if err := EnsureStream(ctx, c.js, c.cfg.Stream); err != nil {
		return err
	}

	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.cfg.Stream, jetstream.ConsumerConfig{
		Durable:        c.cfg.Durable,
		FilterSubjects: []string{SubjectPost, SubjectDelete},
		AckPolicy:      jetstream.AckExplicitPolicy,
		AckWait:        c.cfg.AckWait,
		MaxDeliver:     c.cfg.MaxDeliver,
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", c.cfg.Durable, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		c.Handle(ctx, msg)
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		c.logger.Warn().Err(err).Msg("jetstream consume error")
	}))
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Durable, err)
	}
	c.cc = cc

	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("consumer", c.cfg.Durable).
		Msg("ingress consumer started")

	return nil
}

// Stop stops consuming. Messages in flight are redelivered after AckWait.
func (c *Consumer) Stop() {
	if c.cc != nil {
		c.cc.Stop()
		c.logger.Info().Msg("ingress consumer stopped")
	}
}

// Handle processes one message and settles it.
func (c *Consumer) Handle(ctx context.Context, msg jetstream.Msg) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	subject := msg.Subject()
	err := c.process(ctx, subject, msg.Data())

	log := c.logger.With().Str("subject", subject).Logger()

	var result string
	switch {
	case err == nil || errors.Is(err, domain.ErrDuplicateEvent):
		result = ResultAcked
		if ackErr := msg.Ack(); ackErr != nil {
			log.Warn().Err(ackErr).Msg("ack failed")
		}
	case isTerminal(err):
		result = ResultTermed
		log.Warn().Err(err).Msg("ingress message rejected")
		if termErr := msg.TermWithReason(err.Error()); termErr != nil {
			log.Warn().Err(termErr).Msg("term failed")
		}
	default:
		result = ResultNaked
		log.Error().Err(err).Msg("ingress message failed, will be redelivered")
		if nakErr := msg.NakWithDelay(time.Second); nakErr != nil {
			log.Warn().Err(nakErr).Msg("nak failed")
		}
	}

	if c.metrics != nil {
		c.metrics.RecordIngress(subject, result)
	}
}

var errMalformed = errors.New("malformed message")

func (c *Consumer) process(ctx context.Context, subject string, data []byte) error {
	switch subject {
	case SubjectPost:
		var req dto.PostEventRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		input, err := req.ToUseCaseInput()
		if err != nil {
			return err
		}
		_, err = c.poster.Post(ctx, input)
		return err

	case SubjectDelete:
		var req dto.DeleteDocumentRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		_, err := c.deleter.DeleteDocument(ctx, req.ToUseCaseInput())
		return err

	default:
		return fmt.Errorf("%w: unexpected subject %q", errMalformed, subject)
	}
}

// isTerminal reports whether redelivering the message cannot succeed.
func isTerminal(err error) bool {
	for _, target := range []error{
		errMalformed,
		domain.ErrInvalidEvent,
		domain.ErrInvalidKind,
		domain.ErrInvalidAmount,
		domain.ErrInvalidDate,
		domain.ErrInvalidPhone,
		domain.ErrAccountNotFound,
		domain.ErrInsufficientBalance,
		domain.ErrNothingToDelete,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
