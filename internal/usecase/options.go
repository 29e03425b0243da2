package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/domain"
)

// MetricsRecorder receives ledger operation metrics.
type MetricsRecorder interface {
	RecordEvent(kind, outcome string)
	RecordCascade(operation string, rows int64)
	RecordDuration(operation string, d time.Duration)
	RecordReversal()
	RecordChainBreak()
	RecordRegistration()
}

// deps are the collaborators shared by the ledger use cases.
type deps struct {
	retrier  Retrier
	notifier Notifier
	lookup   AccountLookupCache
	metrics  MetricsRecorder
	logger   zerolog.Logger
	clock    Clock
	location *time.Location
}

func defaultDeps() deps {
	return deps{
		logger:   zerolog.Nop(),
		clock:    func() time.Time { return time.Now().UTC() },
		location: time.UTC,
	}
}

// Option configures a use case.
type Option func(*deps)

// WithRetrier retries whole transactions on transient store conflicts.
func WithRetrier(r Retrier) Option {
	return func(d *deps) { d.retrier = r }
}

// WithNotifier sets the notifier used after committed changes.
func WithNotifier(n Notifier) Option {
	return func(d *deps) { d.notifier = n }
}

// WithLookupCache caches phone number resolution.
func WithLookupCache(c AccountLookupCache) Option {
	return func(d *deps) { d.lookup = c }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(d *deps) { d.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(d *deps) { d.clock = c }
}

// WithLocation sets the ledger time zone used for calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(d *deps) {
		if loc != nil {
			d.location = loc
		}
	}
}

func applyOptions(opts []Option) deps {
	d := defaultDeps()
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// retry runs op through the retrier when one is configured.
func (d *deps) retry(ctx context.Context, op func() error) error {
	if d.retrier == nil {
		return op()
	}
	return d.retrier.Retry(ctx, op)
}

// notify hands n to the notifier. Failures are logged and never returned.
func (d *deps) notify(ctx context.Context, n *domain.Notification) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn().
			Err(err).
			Str("account_id", n.AccountID).
			Str("type", string(n.Type)).
			Msg("notification not delivered")
	}
}

// resolveAccount turns an account reference into an account ID. Phone numbers
// are looked up through the cache first; anything else is taken as an ID.
func (d *deps) resolveAccount(ctx context.Context, repo AccountRepository, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: account reference is required", domain.ErrInvalidEvent)
	}
	if !domain.LooksLikePhone(ref) {
		return ref, nil
	}

	phone, err := domain.NormalizePhone(ref)
	if err != nil {
		return "", err
	}

	if d.lookup != nil {
		id, ok, err := d.lookup.LookupAccountID(ctx, phone)
		if err != nil {
			d.logger.Warn().Err(err).Msg("account lookup cache unavailable")
		} else if ok {
			return id, nil
		}
	}

	account, err := repo.GetByPhone(ctx, nil, phone)
	if err != nil {
		return "", err
	}

	if d.lookup != nil {
		if err := d.lookup.RememberAccountID(ctx, phone, account.ID); err != nil {
			d.logger.Warn().Err(err).Msg("failed to cache account lookup")
		}
	}

	return account.ID, nil
}

func (d *deps) recordEvent(kind domain.Kind, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordEvent(string(kind), outcome)
	}
}

func (d *deps) recordCascade(operation string, rows int64) {
	if d.metrics != nil {
		d.metrics.RecordCascade(operation, rows)
	}
}

func (d *deps) recordDuration(operation string, start time.Time) {
	if d.metrics != nil {
		d.metrics.RecordDuration(operation, time.Since(start))
	}
}
