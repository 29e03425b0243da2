package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/bonusledger/internal/domain"
)

// Post outcomes
const (
	OutcomeCreated   = "created"
	OutcomeCorrected = "corrected"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

// PostingUseCase records incoming events: it creates an entry for a new key,
// rejects a replay of the same amount and corrects an entry whose amount changed,
// repairing the running balances of every later entry.
type PostingUseCase struct {
	deps

	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	opts ...Option,
) *PostingUseCase {
	return &PostingUseCase{
		deps:        applyOptions(opts),
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// PostEventInput represents an incoming back-office event.
type PostEventInput struct {
	AccountRef  string
	DocumentID  string
	AgentID     string
	Kind        string
	Operation   string
	Amount      int64
	Description string
	Date        string
}

// PostResult describes what an event did to the ledger.
type PostResult struct {
	Outcome        string
	Entry          *domain.Entry
	PreviousAmount int64
	Delta          int64
	Cascaded       int64
	Balance        int64
}

type postEvent struct {
	accountID   string
	documentID  string
	agentID     string
	kind        domain.Kind
	amount      int64
	description string
	date        time.Time
}

func (e *postEvent) key() domain.EntryKey {
	return domain.EntryKey{
		AccountID:  e.accountID,
		DocumentID: e.documentID,
		AgentID:    e.agentID,
		Kind:       e.kind,
	}
}

// Post applies an event. A replay of an already recorded amount returns
// domain.ErrDuplicateEvent without touching the ledger.
func (uc *PostingUseCase) Post(ctx context.Context, input PostEventInput) (*PostResult, error) {
	start := time.Now()
	defer uc.recordDuration("post", start)

	// 0. Validate inputs before touching the store
	ev, err := uc.validate(input)
	if err != nil {
		return nil, err
	}

	// 1. Resolve account
	ev.accountID, err = uc.resolveAccount(ctx, uc.accountRepo, input.AccountRef)
	if err != nil {
		return nil, err
	}

	var (
		result       *PostResult
		notification *domain.Notification
	)
	err = uc.retry(ctx, func() error {
		var err error
		result, notification, err = uc.apply(ctx, ev)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEvent):
			uc.recordEvent(ev.kind, OutcomeDuplicate)
		case errors.Is(err, domain.ErrInsufficientBalance):
			uc.recordEvent(ev.kind, OutcomeRejected)
		}
		return nil, err
	}

	uc.recordEvent(ev.kind, result.Outcome)
	uc.recordCascade("correction", result.Cascaded)

	uc.logger.Info().
		Str("account_id", ev.accountID).
		Str("document_id", ev.documentID).
		Str("kind", string(ev.kind)).
		Str("outcome", result.Outcome).
		Int64("amount", result.Entry.Amount).
		Int64("cascaded", result.Cascaded).
		Msg("event posted")

	uc.notify(ctx, notification)

	return result, nil
}

func (uc *PostingUseCase) validate(input PostEventInput) (*postEvent, error) {
	documentID := strings.TrimSpace(input.DocumentID)
	agentID := strings.TrimSpace(input.AgentID)

	date, err := domain.ParseDate(input.Date, uc.location)
	if err != nil {
		return nil, err
	}

	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err)
	}

	op, err := domain.ParseOperation(input.Operation)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err)
	}

	if err := domain.ValidateDocumentID(documentID); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	return &postEvent{
		documentID:  documentID,
		agentID:     agentID,
		kind:        kind,
		amount:      op.Signed(input.Amount),
		description: input.Description,
		date:        date,
	}, nil
}

// apply runs one attempt of the write path in a single transaction.
func (uc *PostingUseCase) apply(ctx context.Context, ev *postEvent) (*PostResult, *domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// 3. Lock account
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, ev.accountID)
	if err != nil {
		return nil, nil, err
	}

	// 4. Look up the entry for this key
	existing, err := uc.entryRepo.GetByKey(ctx, tx, ev.key())
	if err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, nil, err
	}

	var (
		result       *PostResult
		notification *domain.Notification
	)
	switch {
	case existing == nil:
		result, notification, err = uc.create(ctx, tx, account, ev)
	case existing.Amount == ev.amount:
		return nil, nil, domain.ErrDuplicateEvent
	default:
		result, notification, err = uc.correct(ctx, tx, account, existing, ev)
	}
	if err != nil {
		return nil, nil, err
	}

	// 5. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return result, notification, nil
}

func (uc *PostingUseCase) create(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	ev *postEvent,
) (*PostResult, *domain.Notification, error) {
	if err := account.ValidateRemoval(ev.kind, ev.amount); err != nil {
		return nil, nil, err
	}

	now := uc.clock()
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		DocumentID:  ev.documentID,
		AgentID:     ev.agentID,
		Kind:        ev.kind,
		Amount:      ev.amount,
		Description: ev.description,
		OldBalance:  account.Balance(ev.kind),
		EventDate:   ev.date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entry.Recompute()

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	account.SetBalance(ev.kind, entry.NewBalance)
	account.UpdatedAt = now
	if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	notificationType := domain.NotificationEntryAdded
	if entry.Amount < 0 {
		notificationType = domain.NotificationEntryRemoved
	}

	return &PostResult{
			Outcome: OutcomeCreated,
			Entry:   entry,
			Delta:   entry.Amount,
			Balance: entry.NewBalance,
		}, &domain.Notification{
			Type:        notificationType,
			AccountID:   account.ID,
			ChatID:      account.ChatID,
			Locale:      account.Locale,
			Kind:        entry.Kind,
			Amount:      entry.Amount,
			Balance:     entry.NewBalance,
			DocumentID:  entry.DocumentID,
			Description: entry.Description,
			CreatedAt:   now,
		}, nil
}

func (uc *PostingUseCase) correct(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	entry *domain.Entry,
	ev *postEvent,
) (*PostResult, *domain.Notification, error) {
	previous := entry.Amount
	delta := ev.amount - previous

	if err := account.ValidateRemoval(ev.kind, delta); err != nil {
		return nil, nil, err
	}

	now := uc.clock()
	entry.Amount = ev.amount
	if ev.description != "" {
		entry.Description = ev.description
	}
	entry.EventDate = ev.date
	entry.UpdatedAt = now

	if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	// Cascade the delta to every later entry of the chain
	shifted, err := uc.entryRepo.ShiftAfter(ctx, tx, entry, delta)
	if err != nil {
		return nil, nil, err
	}

	balance := account.Balance(ev.kind) + delta
	account.SetBalance(ev.kind, balance)
	account.UpdatedAt = now
	if err := uc.accountRepo.UpdateBalances(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	return &PostResult{
			Outcome:        OutcomeCorrected,
			Entry:          entry,
			PreviousAmount: previous,
			Delta:          delta,
			Cascaded:       shifted,
			Balance:        balance,
		}, &domain.Notification{
			Type:           domain.NotificationEntryCorrected,
			AccountID:      account.ID,
			ChatID:         account.ChatID,
			Locale:         account.Locale,
			Kind:           entry.Kind,
			Amount:         entry.Amount,
			PreviousAmount: previous,
			Balance:        balance,
			DocumentID:     entry.DocumentID,
			Description:    entry.Description,
			CreatedAt:      now,
		}, nil
}
