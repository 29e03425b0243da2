package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/bonusledger/internal/domain"
)

var (
	accountColumns = []string{"id", "phone", "chat_id", "name", "locale", "role", "money_balance", "bonus_balance", "version", "created_at", "updated_at"}
	entryColumns   = []string{"id", "account_id", "document_id", "agent_id", "kind", "amount", "description", "old_balance", "new_balance", "event_date", "created_at", "updated_at"}
)

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newAccountRepository(mockPool)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "998901234567", int64(42), "Alice", "ru", "admin", int64(150), int64(30), int64(4), ts(now), ts(now)))

	account, err := repo.GetByID(context.Background(), nil, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Role != domain.RoleAdmin || account.MoneyBalance != 150 || account.BonusBalance != 30 {
		t.Errorf("unexpected account: %+v", account)
	}
	if !account.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", account.CreatedAt, now)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newAccountRepository(mockPool)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE phone = $1")).
		WithArgs("998900000000").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByPhone(context.Background(), nil, "998900000000")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCreateDuplicatePhone(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newAccountRepository(mockPool)
	now := time.Now()

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintAccountsPhone})

	err := repo.Create(context.Background(), nil, &domain.Account{
		ID:        "acc-1",
		Phone:     "998901234567",
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdateBalancesInTransaction(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newAccountRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs("acc-1", int64(-20), int64(5), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(8)))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	account := &domain.Account{ID: "acc-1", MoneyBalance: -20, BonusBalance: 5, UpdatedAt: time.Now()}
	if err := repo.UpdateBalances(ctx, tx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Version != 8 {
		t.Errorf("Version = %d, want 8", account.Version)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdateRoleMissing(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newAccountRepository(mockPool)

	mockPool.ExpectExec(regexp.QuoteMeta("SET role = $2")).
		WithArgs("missing", "admin", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRole(context.Background(), nil, "missing", domain.RoleAdmin, time.Now())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryCreateDuplicate(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO entries")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintEntriesKey})

	err := repo.Create(context.Background(), nil, &domain.Entry{ID: "e1", AccountID: "acc-1", Kind: domain.KindMoney, Amount: 10})
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryGetByKeyLocksInTransaction(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)
	manager := newTxManagerWithPool(mockPool)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("acc-1", "doc-1", "agent-1", "bonus").
		WillReturnRows(pgxmock.NewRows(entryColumns).
			AddRow("e1", "acc-1", "doc-1", "agent-1", "bonus", int64(-30), "", int64(100), int64(70), ts(now), ts(now), ts(now)))
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := manager.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx)

	entry, err := repo.GetByKey(ctx, tx, domain.EntryKey{AccountID: "acc-1", DocumentID: "doc-1", AgentID: "agent-1", Kind: domain.KindBonus})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != domain.KindBonus || entry.Amount != -30 || entry.NewBalance != 70 {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestEntryRepositoryGetByKeyNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM entries")).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByKey(context.Background(), nil, domain.EntryKey{AccountID: "acc-1", DocumentID: "doc-1", Kind: domain.KindMoney})
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryShiftAfter(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)
	after := &domain.Entry{ID: "e1", AccountID: "acc-1", Kind: domain.KindMoney, CreatedAt: time.Now()}

	mockPool.ExpectExec(regexp.QuoteMeta("SET old_balance = old_balance + $1")).
		WithArgs(int64(-100), "acc-1", "money", pgxmock.AnyArg(), "e1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := repo.ShiftAfter(context.Background(), nil, after, -100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("shifted = %d, want 2", n)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryUpdateRecomputes(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE entries")).
		WithArgs("e1", int64(150), "corrected", int64(30), int64(180), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	entry := &domain.Entry{ID: "e1", Amount: 150, Description: "corrected", OldBalance: 30, NewBalance: 130}
	if err := repo.Update(context.Background(), nil, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.NewBalance != 180 {
		t.Errorf("NewBalance = %d, want 180", entry.NewBalance)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryFindByDocument(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)
	now := time.Now()

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE document_id = $1 AND agent_id = $2")).
		WithArgs("doc-1", "agent-1").
		WillReturnRows(pgxmock.NewRows(entryColumns).
			AddRow("e1", "acc-1", "doc-1", "agent-1", "money", int64(10), "", int64(0), int64(10), ts(now), ts(now), ts(now)).
			AddRow("e2", "acc-2", "doc-1", "agent-1", "money", int64(20), "", int64(0), int64(20), ts(now), ts(now), ts(now)))

	entries, err := repo.FindByDocument(context.Background(), nil, "doc-1", "agent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 || entries[1].AccountID != "acc-2" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryDeleteByIDsEmpty(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newEntryRepository(mockPool)

	n, err := repo.DeleteByIDs(context.Background(), nil, nil)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got n=%d err=%v", n, err)
	}

	assertExpectations(t, mockPool)
}

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	mockPool := newMockPool(t)
	repo := &LedgerRepository{queries: newEntryRepository(mockPool).queries}

	mockPool.ExpectQuery(regexp.QuoteMeta("total_account_balance")).
		WithArgs("bonus").
		WillReturnRows(pgxmock.NewRows([]string{"total_account_balance", "total_entry_amount"}).AddRow(int64(70), int64(75)))

	balances, amounts, err := repo.CheckConsistency(context.Background(), nil, domain.KindBonus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balances != 70 || amounts != 75 {
		t.Errorf("got balances=%d amounts=%d", balances, amounts)
	}

	assertExpectations(t, mockPool)
}

type droppedConnErr struct{}

func (droppedConnErr) Error() string     { return "connection reset by peer" }
func (droppedConnErr) SafeToRetry() bool { return true }

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
	}{
		{"nil", nil, nil, nil},
		{"no rows", pgx.ErrNoRows, domain.ErrEntryNotFound, domain.ErrEntryNotFound},
		{"duplicate entry", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintEntriesKey}, nil, domain.ErrDuplicateEvent},
		{"duplicate account", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintAccountsPkey}, nil, domain.ErrAccountExists},
		{"missing account", &pgconn.PgError{Code: pgErrForeignKeyViolation}, nil, domain.ErrAccountNotFound},
		{"connection dropped", droppedConnErr{}, nil, domain.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, tt.notFound)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}

	deadlock := &pgconn.PgError{Code: pgErrDeadlock}
	if got := mapError(deadlock, nil); !isRetryableError(got) {
		t.Errorf("deadlocks must stay retryable, got %v", got)
	}
}
