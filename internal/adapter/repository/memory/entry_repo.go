package memory

import (
	"context"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create inserts a new entry. A second entry with the same key is rejected.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	return r.store.write(ctx, tx, func(s *state) error {
		if _, ok := s.accounts[entry.AccountID]; !ok {
			return domain.ErrAccountNotFound
		}
		key := entry.Key()
		for _, e := range s.entries {
			if e.Key() == key {
				return domain.ErrDuplicateEvent
			}
		}
		cp := *entry
		s.entries[entry.ID] = &cp
		return nil
	})
}

// Update stores amount, description and snapshots of an existing entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	entry.Recompute()
	return r.store.write(ctx, tx, func(s *state) error {
		e, ok := s.entries[entry.ID]
		if !ok {
			return domain.ErrEntryNotFound
		}
		e.Amount = entry.Amount
		e.Description = entry.Description
		e.EventDate = entry.EventDate
		e.OldBalance = entry.OldBalance
		e.NewBalance = entry.NewBalance
		e.UpdatedAt = entry.UpdatedAt
		return nil
	})
}

// GetByKey retrieves the entry with the given key.
func (r *EntryRepository) GetByKey(ctx context.Context, tx usecase.Transaction, key domain.EntryKey) (*domain.Entry, error) {
	var out *domain.Entry
	err := r.store.read(tx, func(s *state) error {
		for _, e := range s.entries {
			if e.Key() == key {
				cp := *e
				out = &cp
				return nil
			}
		}
		return domain.ErrEntryNotFound
	})
	return out, err
}

// ListByAccount lists an account's entries in creation order.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.Kind) ([]*domain.Entry, error) {
	var out []*domain.Entry
	err := r.store.read(tx, func(s *state) error {
		out = collect(s, func(e *domain.Entry) bool {
			return e.AccountID == accountID && (kind == "" || e.Kind == kind)
		})
		return nil
	})
	return out, err
}

// ShiftAfter moves the snapshots of every later entry of the same chain by delta.
func (r *EntryRepository) ShiftAfter(ctx context.Context, tx usecase.Transaction, after *domain.Entry, delta int64) (int64, error) {
	var shifted int64
	err := r.store.write(ctx, tx, func(s *state) error {
		for _, e := range s.entries {
			if e.AccountID != after.AccountID || e.Kind != after.Kind || !after.Before(e) {
				continue
			}
			e.Shift(delta)
			shifted++
		}
		return nil
	})
	return shifted, err
}

// FindByDocument lists entries of a document in creation order.
func (r *EntryRepository) FindByDocument(ctx context.Context, tx usecase.Transaction, documentID, agentID string) ([]*domain.Entry, error) {
	var out []*domain.Entry
	err := r.store.read(tx, func(s *state) error {
		out = collect(s, func(e *domain.Entry) bool {
			return e.DocumentID == documentID && (agentID == "" || e.AgentID == agentID)
		})
		return nil
	})
	return out, err
}

// DeleteByIDs removes entries by ID.
func (r *EntryRepository) DeleteByIDs(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	var deleted int64
	err := r.store.write(ctx, tx, func(s *state) error {
		for _, id := range ids {
			if _, ok := s.entries[id]; ok {
				delete(s.entries, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// Sum returns the sum of an account's entry amounts of kind.
func (r *EntryRepository) Sum(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.Kind) (int64, error) {
	var total int64
	err := r.store.read(tx, func(s *state) error {
		for _, e := range s.entries {
			if e.AccountID == accountID && e.Kind == kind {
				total += e.Amount
			}
		}
		return nil
	})
	return total, err
}

// ListPage lists an account's entries newest first.
func (r *EntryRepository) ListPage(ctx context.Context, accountID string, kind domain.Kind, limit, offset int) ([]*domain.Entry, error) {
	entries, err := r.ListByAccount(ctx, nil, accountID, kind)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return page(entries, limit, offset), nil
}

func collect(s *state, match func(*domain.Entry) bool) []*domain.Entry {
	out := make([]*domain.Entry, 0)
	for _, e := range s.entries {
		if match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	domain.SortEntries(out)
	return out
}
