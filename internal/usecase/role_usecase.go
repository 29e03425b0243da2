package usecase

import (
	"context"
	"errors"

	"github.com/iho/bonusledger/internal/domain"
)

// RoleUseCase grants and revokes administrative roles.
type RoleUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
}

// NewRoleUseCase creates a new RoleUseCase.
func NewRoleUseCase(txManager TransactionManager, accountRepo AccountRepository, opts ...Option) *RoleUseCase {
	return &RoleUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
	}
}

// GrantRoleInput represents a role change requested by CallerRole.
// When CallerID names a registered account, the caller's stored role caps
// CallerRole, so a revoked token holder loses rights before the token expires.
type GrantRoleInput struct {
	CallerID   string
	CallerRole domain.Role
	AccountID  string
	Role       domain.Role
}

// RevokeRoleInput represents a role revocation requested by CallerRole.
type RevokeRoleInput struct {
	CallerID   string
	CallerRole domain.Role
	AccountID  string
}

// Grant sets the account's role. The caller must rank at least as high as
// both the granted role and the account's current role.
func (uc *RoleUseCase) Grant(ctx context.Context, input GrantRoleInput) (*domain.Account, error) {
	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	return uc.setRole(ctx, caller{id: input.CallerID, role: input.CallerRole}, input.AccountID, input.Role, domain.NotificationRoleGranted)
}

// Revoke resets the account's role to user under the same rule as Grant.
func (uc *RoleUseCase) Revoke(ctx context.Context, input RevokeRoleInput) (*domain.Account, error) {
	return uc.setRole(ctx, caller{id: input.CallerID, role: input.CallerRole}, input.AccountID, domain.RoleUser, domain.NotificationRoleRevoked)
}

type caller struct {
	id   string
	role domain.Role
}

// effectiveRole returns the lower of the claimed role and the caller's stored
// role. Callers without a registered account keep the claimed role.
func (uc *RoleUseCase) effectiveRole(ctx context.Context, tx Transaction, c caller) (domain.Role, error) {
	if c.id == "" {
		return c.role, nil
	}

	account, err := uc.accountRepo.GetByID(ctx, tx, c.id)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return c.role, nil
	}
	if err != nil {
		return "", err
	}

	if account.Role.Rank() < c.role.Rank() {
		return account.Role, nil
	}
	return c.role, nil
}

func (uc *RoleUseCase) setRole(
	ctx context.Context,
	by caller,
	accountID string,
	role domain.Role,
	notificationType domain.NotificationType,
) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	callerRole, err := uc.effectiveRole(ctx, tx, by)
	if err != nil {
		return nil, err
	}
	if !callerRole.CanGrant(account.Role, role) {
		return nil, domain.ErrInsufficientRole
	}

	previous := account.Role
	now := uc.clock()
	if err := uc.accountRepo.UpdateRole(ctx, tx, account.ID, role, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Role = role
	account.UpdatedAt = now

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("from", string(previous)).
		Str("to", string(role)).
		Str("by", string(callerRole)).
		Msg("role changed")

	uc.notify(ctx, &domain.Notification{
		Type:      notificationType,
		AccountID: account.ID,
		ChatID:    account.ChatID,
		Locale:    account.Locale,
		Role:      role,
		CreatedAt: now,
	})

	return account, nil
}
