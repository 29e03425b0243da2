package memory

import (
	"context"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency sums account balances and entry amounts of kind.
func (r *LedgerRepository) CheckConsistency(ctx context.Context, tx usecase.Transaction, kind domain.Kind) (int64, int64, error) {
	var totalBalance, totalAmount int64
	err := r.store.read(tx, func(s *state) error {
		for _, a := range s.accounts {
			totalBalance += a.Balance(kind)
		}
		for _, e := range s.entries {
			if e.Kind == kind {
				totalAmount += e.Amount
			}
		}
		return nil
	})
	return totalBalance, totalAmount, err
}
