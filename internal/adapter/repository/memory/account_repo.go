package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.store.write(ctx, tx, func(s *state) error {
		if _, ok := s.accounts[account.ID]; ok {
			return domain.ErrAccountExists
		}
		if _, ok := s.phones[account.Phone]; ok {
			return domain.ErrAccountExists
		}
		cp := *account
		s.accounts[account.ID] = &cp
		s.phones[account.Phone] = account.ID
		return nil
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.read(tx, func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return domain.ErrAccountNotFound
		}
		cp := *a
		out = &cp
		return nil
	})
	return out, err
}

// GetByPhone retrieves an account by normalized phone number.
func (r *AccountRepository) GetByPhone(ctx context.Context, tx usecase.Transaction, phone string) (*domain.Account, error) {
	var out *domain.Account
	err := r.store.read(tx, func(s *state) error {
		id, ok := s.phones[phone]
		if !ok {
			return domain.ErrAccountNotFound
		}
		cp := *s.accounts[id]
		out = &cp
		return nil
	})
	return out, err
}

// GetByIDForUpdate retrieves an account inside a transaction.
// The writer lock held by the transaction already serializes access.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.GetByID(ctx, tx, id)
}

// UpdateBalances stores both balances and bumps the version.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.store.write(ctx, tx, func(s *state) error {
		a, ok := s.accounts[account.ID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		a.MoneyBalance = account.MoneyBalance
		a.BonusBalance = account.BonusBalance
		a.Version++
		a.UpdatedAt = account.UpdatedAt
		account.Version = a.Version
		return nil
	})
}

// UpdateProfile stores the contact and locale fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return r.store.write(ctx, tx, func(s *state) error {
		a, ok := s.accounts[account.ID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		a.ChatID = account.ChatID
		a.Name = account.Name
		a.Locale = account.Locale
		a.UpdatedAt = account.UpdatedAt
		return nil
	})
}

// UpdateRole stores the account role.
func (r *AccountRepository) UpdateRole(ctx context.Context, tx usecase.Transaction, id string, role domain.Role, updatedAt time.Time) error {
	return r.store.write(ctx, tx, func(s *state) error {
		a, ok := s.accounts[id]
		if !ok {
			return domain.ErrAccountNotFound
		}
		a.Role = role
		a.UpdatedAt = updatedAt
		return nil
	})
}

// List lists accounts ordered by creation.
func (r *AccountRepository) List(ctx context.Context, tx usecase.Transaction, limit, offset int) ([]*domain.Account, error) {
	var out []*domain.Account
	err := r.store.read(tx, func(s *state) error {
		all := make([]*domain.Account, 0, len(s.accounts))
		for _, a := range s.accounts {
			cp := *a
			all = append(all, &cp)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID < all[j].ID
			}
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
