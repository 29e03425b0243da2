package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/bonusledger/internal/domain"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

// Constraint names from the migrations.
const (
	constraintAccountsPkey  = "accounts_pkey"
	constraintAccountsPhone = "accounts_phone_key"
	constraintEntriesKey    = "entries_key"
)

// mapError translates pgx errors into domain errors. notFound replaces
// pgx.ErrNoRows when set. Serialization failures and deadlocks pass through
// untouched so the Retrier can classify them.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintEntriesKey:
				return fmt.Errorf("%w: %s", domain.ErrDuplicateEvent, pgErr.Detail)
			case constraintAccountsPkey, constraintAccountsPhone:
				return fmt.Errorf("%w: %s", domain.ErrAccountExists, pgErr.Detail)
			}
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, pgErr.Detail)
		}
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	return err
}
