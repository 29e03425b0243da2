package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/domain"
)

// Delivery statuses
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

var (
	// ErrQueueFull is returned when the backlog is at capacity.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("notification dispatcher is closed")
)

// Transport sends rendered messages to an external system.
type Transport interface {
	Send(ctx context.Context, msg *domain.Message) error
}

// Metrics receives delivery metrics.
type Metrics interface {
	RecordNotification(status string)
	SetNotificationQueue(n int)
}

// Config for Dispatcher.
type Config struct {
	Transport  Transport
	Metrics    Metrics
	Logger     zerolog.Logger
	QueueSize  int           // Backlog capacity
	Workers    int           // Number of delivery goroutines
	Timeout    time.Duration // Per-attempt timeout
	MaxRetries uint64        // Retries after the first attempt
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
}

// Dispatcher renders notifications and delivers them in the background.
// Notify never waits for delivery.
type Dispatcher struct {
	transport Transport
	metrics   Metrics
	logger    zerolog.Logger
	queue     chan *domain.Notification
	workers   int
	timeout   time.Duration
	retries   uint64
	interval  time.Duration
	newID     func() string

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}

	return &Dispatcher{
		transport: cfg.Transport,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		queue:     make(chan *domain.Notification, cfg.QueueSize),
		workers:   cfg.Workers,
		timeout:   cfg.Timeout,
		retries:   cfg.MaxRetries,
		interval:  cfg.InitialInterval,
		newID:     uuid.NewString,
	}
}

// Notify queues n for delivery.
func (d *Dispatcher) Notify(_ context.Context, n *domain.Notification) error {
	if n == nil {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- n:
		d.setQueue()
		return nil
	default:
		d.record(StatusDropped)
		return ErrQueueFull
	}
}

// Start launches the delivery workers. They run until Close, or until ctx is
// cancelled, in which case the backlog is dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	d.logger.Info().
		Int("workers", d.workers).
		Int("queue_size", cap(d.queue)).
		Msg("notification dispatcher started")

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Close stops accepting notifications and waits until the backlog is delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info().Msg("notification dispatcher stopped")
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.queue:
			if !ok {
				return
			}
			d.setQueue()
			d.deliver(ctx, n)
		}
	}
}

// deliver sends one notification, retrying with exponential backoff.
func (d *Dispatcher) deliver(ctx context.Context, n *domain.Notification) {
	msg := Format(n, d.newID())

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.interval
	b.MaxElapsedTime = 0

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		return d.transport.Send(attemptCtx, msg)
	}, backoff.WithContext(backoff.WithMaxRetries(b, d.retries), ctx))

	if err != nil {
		d.record(StatusFailed)
		d.logger.Warn().
			Err(err).
			Str("message_id", msg.ID).
			Str("account_id", msg.AccountID).
			Str("type", msg.Type).
			Int("attempts", attempts).
			Msg("notification delivery failed")
		return
	}

	d.record(StatusSent)
	d.logger.Debug().
		Str("message_id", msg.ID).
		Str("account_id", msg.AccountID).
		Str("type", msg.Type).
		Msg("notification delivered")
}

func (d *Dispatcher) record(status string) {
	if d.metrics != nil {
		d.metrics.RecordNotification(status)
	}
}

func (d *Dispatcher) setQueue() {
	if d.metrics != nil {
		d.metrics.SetNotificationQueue(len(d.queue))
	}
}
