package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/bonusledger/internal/domain"
)

// ProjectionUseCase derives balances from entries and checks them against the
// denormalized account balances.
type ProjectionUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
}

// NewProjectionUseCase creates a new projection use case
func NewProjectionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	opts ...Option,
) *ProjectionUseCase {
	return &ProjectionUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// KindReconciliation compares one balance kind of an account
type KindReconciliation struct {
	Kind              domain.Kind
	RecordedBalance   int64
	CalculatedBalance int64
	Difference        int64
	Entries           int
	ChainBreak        *domain.ChainBreak
	Rewritten         int
}

// Reconciled reports whether the balance matches and the chain is intact.
func (k KindReconciliation) Reconciled() bool {
	return k.Difference == 0 && k.ChainBreak == nil
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID    string
	Kinds        []KindReconciliation
	IsReconciled bool
	LastChecked  time.Time
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// Project returns the sum of an account's entries of kind.
func (uc *ProjectionUseCase) Project(ctx context.Context, accountID string, kind domain.Kind) (int64, error) {
	if _, err := uc.accountRepo.GetByID(ctx, nil, accountID); err != nil {
		return 0, err
	}
	return uc.entryRepo.Sum(ctx, nil, accountID, kind)
}

// Reconcile compares recorded and projected balances of every kind and
// verifies the running-balance chains, all from one snapshot.
func (uc *ProjectionUseCase) Reconcile(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.BeginReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := uc.reconcile(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ProjectionUseCase) reconcile(ctx context.Context, tx Transaction, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	result := &ReconciliationResult{
		AccountID:    accountID,
		IsReconciled: true,
		LastChecked:  uc.clock(),
	}

	for _, kind := range domain.Kinds {
		entries, err := uc.entryRepo.ListByAccount(ctx, tx, accountID, kind)
		if err != nil {
			return nil, err
		}

		projected := domain.SumAmounts(entries)
		check := KindReconciliation{
			Kind:              kind,
			RecordedBalance:   account.Balance(kind),
			CalculatedBalance: projected,
			Difference:        account.Balance(kind) - projected,
			Entries:           len(entries),
		}

		var brk *domain.ChainBreak
		if err := domain.VerifyChain(entries); errors.As(err, &brk) {
			check.ChainBreak = brk
			if uc.metrics != nil {
				uc.metrics.RecordChainBreak()
			}
		}

		if !check.Reconciled() {
			result.IsReconciled = false
		}
		result.Kinds = append(result.Kinds, check)
	}

	return result, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ProjectionUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconcileBatchSize {
		accounts, err := uc.accountRepo.List(ctx, nil, reconcileBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.Reconcile(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < reconcileBatchSize {
			return results, nil
		}
	}
}

// CheckLedgerConsistency verifies that, per kind, the sum of all account
// balances equals the sum of all entry amounts.
func (uc *ProjectionUseCase) CheckLedgerConsistency(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.BeginReadOnly(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var errs []error
	for _, kind := range domain.Kinds {
		totalBalance, totalAmount, err := uc.ledgerRepo.CheckConsistency(ctx, tx, kind)
		if err != nil {
			return err
		}

		if totalBalance != totalAmount {
			errs = append(errs, fmt.Errorf(
				"%w for %s: balances=%d entries=%d difference=%d",
				domain.ErrLedgerInconsistent,
				kind,
				totalBalance,
				totalAmount,
				totalBalance-totalAmount,
			))
		}
	}

	return errors.Join(errs...)
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ProjectionUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	// Reconcile all accounts
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	// Check ledger consistency
	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil {
		uc.logger.Warn().Err(ledgerErr).Msg("ledger consistency check failed")
	}

	// Build report
	report := &ReconciliationReport{
		TotalAccounts:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        uc.clock(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

// Rebuild re-walks every chain of the account from zero, rewrites snapshots
// that drifted and sets the balances to the projection. The result describes
// the state found before the repair; IsReconciled is false when anything was fixed.
func (uc *ProjectionUseCase) Rebuild(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	start := time.Now()
	defer uc.recordDuration("rebuild", start)

	var result *ReconciliationResult
	err := uc.retry(ctx, func() error {
		var err error
		result, err = uc.rebuild(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	rewritten := 0
	for _, k := range result.Kinds {
		rewritten += k.Rewritten
	}
	if rewritten > 0 {
		uc.logger.Warn().
			Str("account_id", accountID).
			Int("rewritten", rewritten).
			Msg("rebuild repaired drifted entries")
	}

	return result, nil
}

func (uc *ProjectionUseCase) rebuild(ctx context.Context, accountID string) (*ReconciliationResult, error) {
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

	now := uc.clock()
	result := &ReconciliationResult{
		AccountID:    accountID,
		IsReconciled: true,
		LastChecked:  now,
	}

	changed := false
	for _, kind := range domain.Kinds {
		entries, err := uc.entryRepo.ListByAccount(ctx, tx, accountID, kind)
		if err != nil {
			return nil, err
		}

		check := KindReconciliation{
			Kind:            kind,
			RecordedBalance: account.Balance(kind),
			Entries:         len(entries),
		}

		var running int64
		for _, e := range entries {
			if e.OldBalance != running || e.NewBalance != running+e.Amount {
				e.OldBalance = running
				e.UpdatedAt = now
				if err := uc.entryRepo.Update(ctx, tx, e); err != nil {
					return nil, err
				}
				check.Rewritten++
			}
			running = e.NewBalance
		}

		check.CalculatedBalance = running
		check.Difference = check.RecordedBalance - running
		if check.Difference != 0 || check.Rewritten > 0 {
			result.IsReconciled = false
		}
		if account.Balance(kind) != running {
			account.SetBalance(kind, running)
			changed = true
		}
		result.Kinds = append(result.Kinds, check)
	}

	if changed {
		account.UpdatedAt = now
		if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}
