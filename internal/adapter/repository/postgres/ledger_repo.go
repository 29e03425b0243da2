package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bonusledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(pool)}
}

// CheckConsistency returns the sum of all balances of kind and the sum of all entry amounts of kind.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, tx usecase.Transaction, kind domain.Kind) (int64, int64, error) {
	result, err := queriesFor(r.queries, tx).CheckLedgerConsistency(ctx, string(kind))
	if err != nil {
		return 0, 0, mapError(err, nil)
	}

	return result.TotalAccountBalance, result.TotalEntryAmount, nil
}
