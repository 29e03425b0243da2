package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bonusledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := queriesFor(r.queries, tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:           account.ID,
		Phone:        account.Phone,
		ChatID:       account.ChatID,
		Name:         account.Name,
		Locale:       account.Locale,
		Role:         string(account.Role),
		MoneyBalance: account.MoneyBalance,
		BonusBalance: account.BonusBalance,
		Version:      account.Version,
		CreatedAt:    timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})

	return mapError(err, nil)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := queriesFor(r.queries, tx).GetAccountByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByPhone retrieves an account by its normalized phone number.
func (r *AccountRepository) GetByPhone(ctx context.Context, tx usecase.Transaction, phone string) (*domain.Account, error) {
	row, err := queriesFor(r.queries, tx).GetAccountByPhone(ctx, phone)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := queriesFor(r.queries, tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// UpdateBalances stores both balances and bumps the version.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	version, err := queriesFor(r.queries, tx).UpdateAccountBalances(ctx, generated.UpdateAccountBalancesParams{
		ID:           account.ID,
		MoneyBalance: account.MoneyBalance,
		BonusBalance: account.BonusBalance,
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapError(err, domain.ErrAccountNotFound)
	}

	account.Version = version
	return nil
}

// UpdateProfile stores the contact and locale fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	n, err := queriesFor(r.queries, tx).UpdateAccountProfile(ctx, generated.UpdateAccountProfileParams{
		ID:        account.ID,
		ChatID:    account.ChatID,
		Name:      account.Name,
		Locale:    account.Locale,
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateRole stores the account's role.
func (r *AccountRepository) UpdateRole(ctx context.Context, tx usecase.Transaction, id string, role domain.Role, updatedAt time.Time) error {
	n, err := queriesFor(r.queries, tx).UpdateAccountRole(ctx, generated.UpdateAccountRoleParams{
		ID:        id,
		Role:      string(role),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts in registration order.
func (r *AccountRepository) List(ctx context.Context, tx usecase.Transaction, limit, offset int) ([]*domain.Account, error) {
	rows, err := queriesFor(r.queries, tx).ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err, nil)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:           row.ID,
		Phone:        row.Phone,
		ChatID:       row.ChatID,
		Name:         row.Name,
		Locale:       row.Locale,
		Role:         domain.Role(row.Role),
		MoneyBalance: row.MoneyBalance,
		BonusBalance: row.BonusBalance,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
