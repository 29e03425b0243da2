package usecase

import (
	"context"
	"time"

	"github.com/iho/bonusledger/internal/domain"
)

// AccountRepository defines data access for accounts.
// A nil Transaction runs the call outside of any transaction.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByPhone(ctx context.Context, tx Transaction, phone string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalances(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateProfile(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateRole(ctx context.Context, tx Transaction, id string, role domain.Role, updatedAt time.Time) error
	List(ctx context.Context, tx Transaction, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
// Entries are returned in creation order (created_at, id) unless stated otherwise.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// Update persists amount, description and snapshots. NewBalance is always
	// recomputed from OldBalance and Amount.
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// GetByKey returns domain.ErrEntryNotFound when no entry matches.
	// Inside a transaction the row is locked.
	GetByKey(ctx context.Context, tx Transaction, key domain.EntryKey) (*domain.Entry, error)
	// ListByAccount lists an account's entries of kind, or of every kind when kind is empty.
	ListByAccount(ctx context.Context, tx Transaction, accountID string, kind domain.Kind) ([]*domain.Entry, error)
	// ShiftAfter adds delta to both snapshots of every entry of the same account
	// and kind recorded after the given entry. Returns the number of shifted rows.
	ShiftAfter(ctx context.Context, tx Transaction, after *domain.Entry, delta int64) (int64, error)
	// FindByDocument lists entries of a document, of any agent when agentID is empty.
	FindByDocument(ctx context.Context, tx Transaction, documentID, agentID string) ([]*domain.Entry, error)
	DeleteByIDs(ctx context.Context, tx Transaction, ids []string) (int64, error)
	Sum(ctx context.Context, tx Transaction, accountID string, kind domain.Kind) (int64, error)
	// ListPage lists entries newest first.
	ListPage(ctx context.Context, accountID string, kind domain.Kind, limit, offset int) ([]*domain.Entry, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all account balances and the sum of
	// all entry amounts of kind.
	CheckConsistency(ctx context.Context, tx Transaction, kind domain.Kind) (totalBalance, totalAmount int64, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	// BeginReadOnly starts a read-only transaction reading one consistent snapshot.
	BeginReadOnly(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique, creation-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// AccountLookupCache caches phone number to account ID resolution.
type AccountLookupCache interface {
	LookupAccountID(ctx context.Context, phone string) (string, bool, error)
	RememberAccountID(ctx context.Context, phone, accountID string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Notifier delivers account notifications after a ledger change is committed.
// Implementations must not block on delivery.
type Notifier interface {
	Notify(ctx context.Context, notification *domain.Notification) error
}

// StatementRenderer turns a computed statement into a paginated document.
type StatementRenderer interface {
	Render(ctx context.Context, statement *domain.Statement, locale string, pageSize int) (*domain.Document, error)
}

// Clock returns the current time.
type Clock func() time.Time
