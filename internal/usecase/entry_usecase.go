package usecase

import (
	"context"

	"github.com/iho/bonusledger/internal/domain"
)

// EntryUseCase handles entry history.
type EntryUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Kind      domain.Kind
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	if input.Kind != "" {
		if _, err := domain.ParseKind(string(input.Kind)); err != nil {
			return nil, err
		}
	}

	if _, err := uc.accountRepo.GetByID(ctx, nil, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListPage(ctx, input.AccountID, input.Kind, limit, offset)
}
