package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/domain"
)

// SQLSTATE codes of transactions that may succeed when rerun.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// Retrier reruns a ledger transaction that lost a serialization race, was
// chosen as a deadlock victim or could not reach the database. Any other
// error ends the call at once.
type Retrier struct {
	maxRetries uint64
	initial    time.Duration
	max        time.Duration
	maxElapsed time.Duration
	logger     zerolog.Logger
}

// NewRetrier creates a Retrier allowing three reruns.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries: 3,
		initial:    50 * time.Millisecond,
		max:        time.Second,
		maxElapsed: 10 * time.Second,
		logger:     logger,
	}
}

// Retry runs operation until it succeeds, fails permanently or the retry
// budget is spent. The last error is returned unwrapped.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initial
	policy.MaxInterval = r.max
	policy.MaxElapsedTime = r.maxElapsed

	attempt := func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Warn().
			Err(err).
			Str("sqlstate", sqlState(err)).
			Dur("wait", wait).
			Msg("ledger transaction conflict, retrying")
	}

	return backoff.RetryNotify(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx), notify)
}

func isRetryableError(err error) bool {
	switch sqlState(err) {
	case pgErrDeadlock, pgErrSerializationFailure:
		return true
	}
	return errors.Is(err, domain.ErrStoreUnavailable) || pgconn.SafeToRetry(err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
