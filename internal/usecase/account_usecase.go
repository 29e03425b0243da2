package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/iho/bonusledger/internal/domain"
)

// AccountUseCase handles account registration and lookup.
type AccountUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
	projection  *ProjectionUseCase
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	projection *ProjectionUseCase,
	idGen IDGenerator,
	opts ...Option,
) *AccountUseCase {
	return &AccountUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
		projection:  projection,
		idGen:       idGen,
	}
}

// RegisterInput represents a registration event.
type RegisterInput struct {
	Phone  string
	ChatID int64
	Name   string
	Locale string
}

// Register creates the account on first registration and refreshes the
// contact details on later ones. Balances are rebuilt from the entries
// afterwards. The boolean reports whether the account was created.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, bool, error) {
	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, false, err
	}
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, false, err
	}

	account, created, err := uc.upsert(ctx, phone, input)
	if errors.Is(err, domain.ErrAccountExists) {
		// Lost a race with a concurrent registration of the same phone.
		account, created, err = uc.upsert(ctx, phone, input)
	}
	if err != nil {
		return nil, false, err
	}

	if uc.lookup != nil {
		if err := uc.lookup.RememberAccountID(ctx, phone, account.ID); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to cache account lookup")
		}
	}

	if uc.projection != nil {
		if _, err := uc.projection.Rebuild(ctx, account.ID); err != nil {
			return nil, false, err
		}
		if account, err = uc.accountRepo.GetByID(ctx, nil, account.ID); err != nil {
			return nil, false, err
		}
	}

	if created {
		if uc.metrics != nil {
			uc.metrics.RecordRegistration()
		}
		uc.logger.Info().Str("account_id", account.ID).Msg("account registered")
	}

	return account, created, nil
}

func (uc *AccountUseCase) upsert(ctx context.Context, phone string, input RegisterInput) (*domain.Account, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	now := uc.clock()
	created := false

	account, err := uc.accountRepo.GetByPhone(ctx, tx, phone)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		account = &domain.Account{
			ID:        uc.idGen.Generate(),
			Phone:     phone,
			ChatID:    input.ChatID,
			Name:      strings.TrimSpace(input.Name),
			Locale:    domain.NormalizeLocale(input.Locale),
			Role:      domain.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	default:
		if input.ChatID != 0 {
			account.ChatID = input.ChatID
		}
		if name := strings.TrimSpace(input.Name); name != "" {
			account.Name = name
		}
		if input.Locale != "" {
			account.Locale = domain.NormalizeLocale(input.Locale)
		}
		account.UpdatedAt = now
		if err := uc.accountRepo.UpdateProfile(ctx, tx, account); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}

	return account, created, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, nil, id)
}

// GetAccountByRef retrieves an account by ID or phone number.
func (uc *AccountUseCase) GetAccountByRef(ctx context.Context, ref string) (*domain.Account, error) {
	id, err := uc.resolveAccount(ctx, uc.accountRepo, ref)
	if err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, nil, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, nil, limit, offset)
}
