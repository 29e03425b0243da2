package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/bonusledger/internal/adapter/repository/memory"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
	"github.com/iho/bonusledger/internal/usecase/mocks"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now advances the clock by one second per call so every entry gets a distinct timestamp.
func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store     *memory.Store
	txManager *memory.TxManager
	accounts  *memory.AccountRepository
	entries   *memory.EntryRepository
	ledger    *memory.LedgerRepository
	ids       *mocks.SequentialIDGenerator
	notifier  *mocks.RecordingNotifier
	clock     *testClock

	posting    *usecase.PostingUseCase
	reversal   *usecase.ReversalUseCase
	statements *usecase.StatementUseCase
	projection *usecase.ProjectionUseCase
	registry   *usecase.AccountUseCase
	roles      *usecase.RoleUseCase
	history    *usecase.EntryUseCase
}

func newFixture(t *testing.T, opts ...usecase.Option) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:     store,
		txManager: memory.NewTxManager(store),
		accounts:  memory.NewAccountRepository(store),
		entries:   memory.NewEntryRepository(store),
		ledger:    memory.NewLedgerRepository(store),
		ids:       mocks.NewSequentialIDGenerator(),
		notifier:  mocks.NewRecordingNotifier(),
		clock:     &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}

	base := []usecase.Option{
		usecase.WithNotifier(f.notifier),
		usecase.WithClock(f.clock.Now),
	}
	opts = append(base, opts...)

	f.projection = usecase.NewProjectionUseCase(f.txManager, f.accounts, f.entries, f.ledger, opts...)
	f.posting = usecase.NewPostingUseCase(f.txManager, f.accounts, f.entries, f.ids, opts...)
	f.reversal = usecase.NewReversalUseCase(f.txManager, f.accounts, f.entries, opts...)
	f.statements = usecase.NewStatementUseCase(f.txManager, f.accounts, f.entries, nil, 0, opts...)
	f.registry = usecase.NewAccountUseCase(f.txManager, f.accounts, f.projection, f.ids, opts...)
	f.roles = usecase.NewRoleUseCase(f.txManager, f.accounts, opts...)
	f.history = usecase.NewEntryUseCase(f.accounts, f.entries)

	return f
}

func (f *fixture) register(t *testing.T, phone string) *domain.Account {
	t.Helper()

	account, created, err := f.registry.Register(context.Background(), usecase.RegisterInput{
		Phone:  phone,
		ChatID: 42,
		Name:   "Holder " + phone,
		Locale: "en",
	})
	require.NoError(t, err)
	require.True(t, created)
	return account
}

func (f *fixture) post(t *testing.T, accountID, documentID string, kind domain.Kind, amount int64) *usecase.PostResult {
	t.Helper()

	result, err := f.posting.Post(context.Background(), event(accountID, documentID, "agent-1", kind, amount))
	require.NoError(t, err)
	return result
}

func event(accountID, documentID, agentID string, kind domain.Kind, amount int64) usecase.PostEventInput {
	op := domain.OperationAdd
	if amount < 0 {
		op = domain.OperationRemove
		amount = -amount
	}
	return usecase.PostEventInput{
		AccountRef:  accountID,
		DocumentID:  documentID,
		AgentID:     agentID,
		Kind:        string(kind),
		Operation:   string(op),
		Amount:      amount,
		Description: "document " + documentID,
		Date:        "01.03.2024",
	}
}

func (f *fixture) account(t *testing.T, id string) *domain.Account {
	t.Helper()

	account, err := f.accounts.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return account
}

func (f *fixture) entry(t *testing.T, accountID, documentID string, kind domain.Kind) *domain.Entry {
	t.Helper()

	entry, err := f.entries.GetByKey(context.Background(), nil, domain.EntryKey{
		AccountID:  accountID,
		DocumentID: documentID,
		AgentID:    "agent-1",
		Kind:       kind,
	})
	require.NoError(t, err)
	return entry
}

// requireConsistent checks that every balance equals its projection and every chain is intact.
func (f *fixture) requireConsistent(t *testing.T, accountID string) {
	t.Helper()

	ctx := context.Background()
	account := f.account(t, accountID)

	for _, kind := range domain.Kinds {
		projected, err := f.projection.Project(ctx, accountID, kind)
		require.NoError(t, err)
		require.Equal(t, projected, account.Balance(kind), "%s balance must equal the sum of entries", kind)

		chain, err := f.entries.ListByAccount(ctx, nil, accountID, kind)
		require.NoError(t, err)
		require.NoError(t, domain.VerifyChain(chain), "%s chain", kind)
	}
}

// failingEntries fails the chosen chain writes after the preceding ones have run.
type failingEntries struct {
	usecase.EntryRepository
	shiftErr  error
	deleteErr error
}

func (r *failingEntries) ShiftAfter(ctx context.Context, tx usecase.Transaction, after *domain.Entry, delta int64) (int64, error) {
	if r.shiftErr != nil {
		return 0, r.shiftErr
	}
	return r.EntryRepository.ShiftAfter(ctx, tx, after, delta)
}

func (r *failingEntries) DeleteByIDs(ctx context.Context, tx usecase.Transaction, ids []string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	return r.EntryRepository.DeleteByIDs(ctx, tx, ids)
}
