package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bonusledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	err := queriesFor(r.queries, tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:          entry.ID,
		AccountID:   entry.AccountID,
		DocumentID:  entry.DocumentID,
		AgentID:     entry.AgentID,
		Kind:        string(entry.Kind),
		Amount:      entry.Amount,
		Description: entry.Description,
		OldBalance:  entry.OldBalance,
		NewBalance:  entry.NewBalance,
		EventDate:   timeToPgTimestamptz(entry.EventDate),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})

	return mapError(err, nil)
}

// Update stores amount, description and snapshots of an existing entry.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	entry.Recompute()

	n, err := queriesFor(r.queries, tx).UpdateEntry(ctx, generated.UpdateEntryParams{
		ID:          entry.ID,
		Amount:      entry.Amount,
		Description: entry.Description,
		OldBalance:  entry.OldBalance,
		NewBalance:  entry.NewBalance,
		EventDate:   timeToPgTimestamptz(entry.EventDate),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByKey retrieves the entry with the given key, locking it inside a transaction.
func (r *EntryRepository) GetByKey(ctx context.Context, tx usecase.Transaction, key domain.EntryKey) (*domain.Entry, error) {
	var (
		row generated.Entry
		err error
	)
	if tx == nil {
		row, err = r.queries.GetEntryByKey(ctx, generated.GetEntryByKeyParams{
			AccountID:  key.AccountID,
			DocumentID: key.DocumentID,
			AgentID:    key.AgentID,
			Kind:       string(key.Kind),
		})
	} else {
		row, err = queriesFor(r.queries, tx).GetEntryByKeyForUpdate(ctx, generated.GetEntryByKeyForUpdateParams{
			AccountID:  key.AccountID,
			DocumentID: key.DocumentID,
			AgentID:    key.AgentID,
			Kind:       string(key.Kind),
		})
	}
	if err != nil {
		return nil, mapError(err, domain.ErrEntryNotFound)
	}

	return rowToEntry(row), nil
}

// ListByAccount lists an account's entries in creation order.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.Kind) ([]*domain.Entry, error) {
	q := queriesFor(r.queries, tx)

	var (
		rows []generated.Entry
		err  error
	)
	if kind == "" {
		rows, err = q.ListEntriesByAccount(ctx, accountID)
	} else {
		rows, err = q.ListEntriesByAccountKind(ctx, generated.ListEntriesByAccountKindParams{
			AccountID: accountID,
			Kind:      string(kind),
		})
	}
	if err != nil {
		return nil, mapError(err, nil)
	}

	return rowsToEntries(rows), nil
}

// ShiftAfter moves both snapshots of every later entry of the same chain by delta.
func (r *EntryRepository) ShiftAfter(ctx context.Context, tx usecase.Transaction, after *domain.Entry, delta int64) (int64, error) {
	n, err := queriesFor(r.queries, tx).ShiftEntriesAfter(ctx, generated.ShiftEntriesAfterParams{
		Delta:     delta,
		AccountID: after.AccountID,
		Kind:      string(after.Kind),
		CreatedAt: timeToPgTimestamptz(after.CreatedAt),
		ID:        after.ID,
	})
	if err != nil {
		return 0, mapError(err, nil)
	}

	return n, nil
}

// FindByDocument lists entries of a document, of any agent when agentID is empty.
func (r *EntryRepository) FindByDocument(ctx context.Context, tx usecase.Transaction, documentID, agentID string) ([]*domain.Entry, error) {
	q := queriesFor(r.queries, tx)

	var (
		rows []generated.Entry
		err  error
	)
	if agentID == "" {
		rows, err = q.FindEntriesByDocument(ctx, documentID)
	} else {
		rows, err = q.FindEntriesByDocumentAndAgent(ctx, generated.FindEntriesByDocumentAndAgentParams{
			DocumentID: documentID,
			AgentID:    agentID,
		})
	}
	if err != nil {
		return nil, mapError(err, nil)
	}

	return rowsToEntries(rows), nil
}

// DeleteByIDs deletes entries and returns how many were removed.
func (r *EntryRepository) DeleteByIDs(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := queriesFor(r.queries, tx).DeleteEntriesByIDs(ctx, ids)
	if err != nil {
		return 0, mapError(err, nil)
	}

	return n, nil
}

// Sum returns the sum of an account's entry amounts of kind.
func (r *EntryRepository) Sum(ctx context.Context, tx usecase.Transaction, accountID string, kind domain.Kind) (int64, error) {
	total, err := queriesFor(r.queries, tx).SumEntriesByAccountKind(ctx, generated.SumEntriesByAccountKindParams{
		AccountID: accountID,
		Kind:      string(kind),
	})
	if err != nil {
		return 0, mapError(err, nil)
	}

	return total, nil
}

// ListPage lists entries newest first.
func (r *EntryRepository) ListPage(ctx context.Context, accountID string, kind domain.Kind, limit, offset int) ([]*domain.Entry, error) {
	var (
		rows []generated.Entry
		err  error
	)
	if kind == "" {
		rows, err = r.queries.ListEntriesPage(ctx, generated.ListEntriesPageParams{
			AccountID: accountID,
			Limit:     int32(limit),
			Offset:    int32(offset),
		})
	} else {
		rows, err = r.queries.ListEntriesPageByKind(ctx, generated.ListEntriesPageByKindParams{
			AccountID: accountID,
			Kind:      string(kind),
			Limit:     int32(limit),
			Offset:    int32(offset),
		})
	}
	if err != nil {
		return nil, mapError(err, nil)
	}

	return rowsToEntries(rows), nil
}

func rowsToEntries(rows []generated.Entry) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:          row.ID,
		AccountID:   row.AccountID,
		DocumentID:  row.DocumentID,
		AgentID:     row.AgentID,
		Kind:        domain.Kind(row.Kind),
		Amount:      row.Amount,
		Description: row.Description,
		OldBalance:  row.OldBalance,
		NewBalance:  row.NewBalance,
		EventDate:   row.EventDate.Time,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
