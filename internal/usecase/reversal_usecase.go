package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/bonusledger/internal/domain"
)

// ReversalUseCase removes every entry of a document and repairs the affected chains.
type ReversalUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	concurrency int
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	opts ...Option,
) *ReversalUseCase {
	return &ReversalUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		concurrency: DefaultReversalConcurrency,
	}
}

// WithConcurrency bounds how many accounts are repaired in parallel.
func (uc *ReversalUseCase) WithConcurrency(n int) *ReversalUseCase {
	if n > 0 {
		uc.concurrency = n
	}
	return uc
}

// DeleteDocumentInput selects the entries to remove.
type DeleteDocumentInput struct {
	DocumentID string
	AgentID    string
}

// AccountReversal is the effect of a reversal on one account chain.
type AccountReversal struct {
	AccountID     string
	Kind          domain.Kind
	NetAdjustment int64
	Removed       int
	Shifted       int
	Balance       int64
}

// AccountFailure reports an account whose reversal was not applied.
type AccountFailure struct {
	AccountID string
	Err       error
}

// DeleteDocumentResult lists the repaired chains and the accounts that failed.
type DeleteDocumentResult struct {
	DocumentID string
	Accounts   []AccountReversal
	Failed     []AccountFailure
}

// DeleteDocument removes the document's entries account by account. Each
// account is repaired atomically; a failing account does not undo the others
// and is reported in both the result and the joined error.
func (uc *ReversalUseCase) DeleteDocument(ctx context.Context, input DeleteDocumentInput) (*DeleteDocumentResult, error) {
	start := time.Now()
	defer uc.recordDuration("reversal", start)

	input.DocumentID = strings.TrimSpace(input.DocumentID)
	input.AgentID = strings.TrimSpace(input.AgentID)
	if err := domain.ValidateDocumentID(input.DocumentID); err != nil {
		return nil, err
	}

	matches, err := uc.entryRepo.FindByDocument(ctx, nil, input.DocumentID, input.AgentID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrNothingToDelete
	}

	accountIDs := uniqueAccountIDs(matches)

	var (
		mu     sync.Mutex
		result = &DeleteDocumentResult{DocumentID: input.DocumentID}
		errs   []error
	)

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for _, accountID := range accountIDs {
		g.Go(func() error {
			var (
				reversals     []AccountReversal
				notifications []*domain.Notification
			)
			err := uc.retry(ctx, func() error {
				var err error
				reversals, notifications, err = uc.reverseAccount(ctx, accountID, input)
				return err
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				uc.logger.Error().
					Err(err).
					Str("account_id", accountID).
					Str("document_id", input.DocumentID).
					Msg("document reversal failed for account")
				result.Failed = append(result.Failed, AccountFailure{AccountID: accountID, Err: err})
				errs = append(errs, fmt.Errorf("account %s: %w", accountID, err))
				return nil
			}

			result.Accounts = append(result.Accounts, reversals...)
			for _, n := range notifications {
				uc.notify(ctx, n)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Accounts, func(i, j int) bool {
		if result.Accounts[i].AccountID == result.Accounts[j].AccountID {
			return result.Accounts[i].Kind < result.Accounts[j].Kind
		}
		return result.Accounts[i].AccountID < result.Accounts[j].AccountID
	})
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].AccountID < result.Failed[j].AccountID
	})

	if len(result.Accounts) == 0 && len(errs) == 0 {
		// Every match disappeared before its account could be locked.
		return nil, domain.ErrNothingToDelete
	}

	var shifted int64
	for _, r := range result.Accounts {
		shifted += int64(r.Shifted)
	}
	uc.recordCascade("reversal", shifted)
	if len(result.Accounts) > 0 && uc.metrics != nil {
		uc.metrics.RecordReversal()
	}

	uc.logger.Info().
		Str("document_id", input.DocumentID).
		Int("accounts", len(result.Accounts)).
		Int("failed", len(result.Failed)).
		Msg("document reversed")

	return result, errors.Join(errs...)
}

// reverseAccount removes the document's entries of one account in a single transaction.
func (uc *ReversalUseCase) reverseAccount(
	ctx context.Context,
	accountID string,
	input DeleteDocumentInput,
) ([]AccountReversal, []*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}

	// Re-read the matches under the account lock
	matches, err := uc.entryRepo.FindByDocument(ctx, tx, input.DocumentID, input.AgentID)
	if err != nil {
		return nil, nil, err
	}

	removed := make(map[string]bool)
	for _, e := range matches {
		if e.AccountID == accountID {
			removed[e.ID] = true
		}
	}
	if len(removed) == 0 {
		return nil, nil, nil
	}

	now := uc.clock()
	var (
		reversals     []AccountReversal
		notifications []*domain.Notification
		ids           []string
	)

	for _, kind := range domain.Kinds {
		chain, err := uc.entryRepo.ListByAccount(ctx, tx, accountID, kind)
		if err != nil {
			return nil, nil, err
		}

		rev, err := uc.repairChain(ctx, tx, chain, removed)
		if err != nil {
			return nil, nil, err
		}
		if rev.Removed == 0 {
			continue
		}

		for _, e := range chain {
			if removed[e.ID] {
				ids = append(ids, e.ID)
			}
		}

		rev.AccountID = accountID
		rev.Kind = kind
		rev.Balance = account.Balance(kind) - rev.NetAdjustment
		account.SetBalance(kind, rev.Balance)
		reversals = append(reversals, rev)

		notifications = append(notifications, &domain.Notification{
			Type:       domain.NotificationDocumentReversed,
			AccountID:  account.ID,
			ChatID:     account.ChatID,
			Locale:     account.Locale,
			Kind:       kind,
			Amount:     -rev.NetAdjustment,
			Balance:    rev.Balance,
			DocumentID: input.DocumentID,
			CreatedAt:  now,
		})
	}

	if _, err := uc.entryRepo.DeleteByIDs(ctx, tx, ids); err != nil {
		return nil, nil, err
	}

	account.UpdatedAt = now
	if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return reversals, notifications, nil
}

// repairChain shifts every surviving entry of chain by minus the sum of the
// removed amounts recorded before it. chain must be in creation order.
func (uc *ReversalUseCase) repairChain(
	ctx context.Context,
	tx Transaction,
	chain []*domain.Entry,
	removed map[string]bool,
) (AccountReversal, error) {
	var rev AccountReversal
	var cumulative int64

	for _, e := range chain {
		if removed[e.ID] {
			rev.Removed++
			rev.NetAdjustment += e.Amount
			cumulative += e.Amount
			continue
		}
		if cumulative != 0 {
			rev.Shifted++
		}
	}
	if rev.Removed == 0 {
		return rev, nil
	}

	// Each removed entry shifts everything after it; survivors accumulate the
	// amounts of all removed entries that precede them.
	for _, e := range chain {
		if !removed[e.ID] || e.Amount == 0 {
			continue
		}
		if _, err := uc.entryRepo.ShiftAfter(ctx, tx, e, -e.Amount); err != nil {
			return rev, err
		}
	}

	return rev, nil
}

func uniqueAccountIDs(entries []*domain.Entry) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true
			ids = append(ids, e.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}
