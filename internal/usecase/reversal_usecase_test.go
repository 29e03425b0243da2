package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

func TestReversalUseCase_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	acc := f.register(t, "998901234567")
	ctx := context.Background()

	f.post(t, acc.ID, "E1", domain.KindMoney, 100)
	f.post(t, acc.ID, "E2", domain.KindMoney, 50)
	f.post(t, acc.ID, "E3", domain.KindMoney, -20)
	f.notifier.Reset()

	result, err := f.reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "E1"})
	require.NoError(t, err)

	require.Len(t, result.Accounts, 1)
	rev := result.Accounts[0]
	assert.Equal(t, acc.ID, rev.AccountID)
	assert.Equal(t, domain.KindMoney, rev.Kind)
	assert.Equal(t, int64(100), rev.NetAdjustment)
	assert.Equal(t, 1, rev.Removed)
	assert.Equal(t, 2, rev.Shifted)
	assert.Equal(t, int64(30), rev.Balance)

	e2 := f.entry(t, acc.ID, "E2", domain.KindMoney)
	assert.Equal(t, int64(0), e2.OldBalance)
	assert.Equal(t, int64(50), e2.NewBalance)

	e3 := f.entry(t, acc.ID, "E3", domain.KindMoney)
	assert.Equal(t, int64(50), e3.OldBalance)
	assert.Equal(t, int64(30), e3.NewBalance)

	_, err = f.entries.GetByKey(ctx, nil, domain.EntryKey{AccountID: acc.ID, DocumentID: "E1", AgentID: "agent-1", Kind: domain.KindMoney})
	require.ErrorIs(t, err, domain.ErrEntryNotFound)

	assert.Equal(t, int64(30), f.account(t, acc.ID).MoneyBalance)

	notifications := f.notifier.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationDocumentReversed, notifications[0].Type)
	assert.Equal(t, int64(-100), notifications[0].Amount)
	assert.Equal(t, int64(30), notifications[0].Balance)

	f.requireConsistent(t, acc.ID)
}

func TestReversalUseCase_NothingToDelete(t *testing.T) {
	f := newFixture(t)
	f.register(t, "998901234567")

	_, err := f.reversal.DeleteDocument(context.Background(), usecase.DeleteDocumentInput{DocumentID: "missing"})
	require.ErrorIs(t, err, domain.ErrNothingToDelete)

	_, err = f.reversal.DeleteDocument(context.Background(), usecase.DeleteDocumentInput{DocumentID: ""})
	require.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestReversalUseCase_NonContiguousEntries(t *testing.T) {
	f := newFixture(t)
	acc := f.register(t, "998901234567")
	ctx := context.Background()

	mustPost := func(doc, agent string, amount int64) {
		t.Helper()
		_, err := f.posting.Post(ctx, event(acc.ID, doc, agent, domain.KindMoney, amount))
		require.NoError(t, err)
	}

	mustPost("X", "agent-1", 100)
	mustPost("Y", "agent-1", 50)
	mustPost("X", "agent-2", 30)
	mustPost("Z", "agent-1", 10)

	result, err := f.reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "X"})
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)
	assert.Equal(t, int64(130), result.Accounts[0].NetAdjustment)
	assert.Equal(t, 2, result.Accounts[0].Removed)
	assert.Equal(t, 2, result.Accounts[0].Shifted)

	y := f.entry(t, acc.ID, "Y", domain.KindMoney)
	assert.Equal(t, int64(0), y.OldBalance)
	assert.Equal(t, int64(50), y.NewBalance)

	z := f.entry(t, acc.ID, "Z", domain.KindMoney)
	assert.Equal(t, int64(50), z.OldBalance)
	assert.Equal(t, int64(60), z.NewBalance)

	assert.Equal(t, int64(60), f.account(t, acc.ID).MoneyBalance)
	f.requireConsistent(t, acc.ID)
}

func TestReversalUseCase_BothKinds(t *testing.T) {
	f := newFixture(t)
	acc := f.register(t, "998901234567")

	f.post(t, acc.ID, "D", domain.KindMoney, 100)
	f.post(t, acc.ID, "D", domain.KindBonus, 40)
	f.post(t, acc.ID, "other", domain.KindBonus, 5)

	result, err := f.reversal.DeleteDocument(context.Background(), usecase.DeleteDocumentInput{DocumentID: "D"})
	require.NoError(t, err)
	require.Len(t, result.Accounts, 2)
	assert.Equal(t, domain.KindBonus, result.Accounts[0].Kind)
	assert.Equal(t, domain.KindMoney, result.Accounts[1].Kind)

	got := f.account(t, acc.ID)
	assert.Equal(t, int64(0), got.MoneyBalance)
	assert.Equal(t, int64(5), got.BonusBalance)
	f.requireConsistent(t, acc.ID)
}

func TestReversalUseCase_AgentFilterAndManyAccounts(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "998901111111")
	b := f.register(t, "998902222222")
	ctx := context.Background()

	_, err := f.posting.Post(ctx, event(a.ID, "D", "agent-a", domain.KindMoney, 10))
	require.NoError(t, err)
	_, err = f.posting.Post(ctx, event(b.ID, "D", "agent-b", domain.KindMoney, 20))
	require.NoError(t, err)

	result, err := f.reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "D", AgentID: "agent-a"})
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)
	assert.Equal(t, a.ID, result.Accounts[0].AccountID)
	assert.Equal(t, int64(0), f.account(t, a.ID).MoneyBalance)
	assert.Equal(t, int64(20), f.account(t, b.ID).MoneyBalance)

	_, err = f.posting.Post(ctx, event(a.ID, "D", "agent-a", domain.KindMoney, 10))
	require.NoError(t, err)

	result, err = f.reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "D"})
	require.NoError(t, err)
	assert.Len(t, result.Accounts, 2)
	assert.Equal(t, int64(0), f.account(t, a.ID).MoneyBalance)
	assert.Equal(t, int64(0), f.account(t, b.ID).MoneyBalance)

	f.requireConsistent(t, a.ID)
	f.requireConsistent(t, b.ID)
}

// lockFailingAccounts fails to lock one account.
type lockFailingAccounts struct {
	usecase.AccountRepository
	failID string
	err    error
}

func (r *lockFailingAccounts) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if id == r.failID {
		return nil, r.err
	}
	return r.AccountRepository.GetByIDForUpdate(ctx, tx, id)
}

func TestReversalUseCase_FailureIsPerAccount(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "998901111111")
	b := f.register(t, "998902222222")
	ctx := context.Background()

	f.post(t, a.ID, "D", domain.KindMoney, 10)
	f.post(t, b.ID, "D", domain.KindMoney, 20)

	injected := errors.New("connection reset")
	accounts := &lockFailingAccounts{AccountRepository: f.accounts, failID: b.ID, err: injected}
	reversal := usecase.NewReversalUseCase(f.txManager, accounts, f.entries).WithConcurrency(2)

	result, err := reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "D"})
	require.ErrorIs(t, err, injected)
	require.NotNil(t, result)

	require.Len(t, result.Accounts, 1)
	assert.Equal(t, a.ID, result.Accounts[0].AccountID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, b.ID, result.Failed[0].AccountID)

	assert.Equal(t, int64(0), f.account(t, a.ID).MoneyBalance)
	assert.Equal(t, int64(20), f.account(t, b.ID).MoneyBalance)
	f.requireConsistent(t, a.ID)
	f.requireConsistent(t, b.ID)
}

func TestReversalUseCase_ThenPostAgain(t *testing.T) {
	f := newFixture(t)
	acc := f.register(t, "998901234567")
	ctx := context.Background()

	f.post(t, acc.ID, "D", domain.KindMoney, 10)
	f.post(t, acc.ID, "E", domain.KindMoney, 5)

	_, err := f.reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "D"})
	require.NoError(t, err)

	// The key is free again after deletion.
	result := f.post(t, acc.ID, "D", domain.KindMoney, 10)
	assert.Equal(t, usecase.OutcomeCreated, result.Outcome)
	assert.Equal(t, int64(5), result.Entry.OldBalance)
	f.requireConsistent(t, acc.ID)
}

func TestReversalUseCase_FailedDeleteRollsBack(t *testing.T) {
	f := newFixture(t)
	acc := f.register(t, "998901234567")
	ctx := context.Background()

	f.post(t, acc.ID, "E1", domain.KindMoney, 100)
	f.post(t, acc.ID, "E2", domain.KindMoney, 50)
	f.post(t, acc.ID, "E3", domain.KindMoney, -20)

	entries := &failingEntries{EntryRepository: f.entries, deleteErr: domain.ErrStoreUnavailable}
	reversal := usecase.NewReversalUseCase(f.txManager, f.accounts, entries)

	result, err := reversal.DeleteDocument(ctx, usecase.DeleteDocumentInput{DocumentID: "E1"})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.NotNil(t, result)
	require.Len(t, result.Failed, 1)
	assert.Empty(t, result.Accounts)

	assert.Equal(t, int64(100), f.entry(t, acc.ID, "E1", domain.KindMoney).Amount)
	e3 := f.entry(t, acc.ID, "E3", domain.KindMoney)
	assert.Equal(t, int64(150), e3.OldBalance)
	assert.Equal(t, int64(130), e3.NewBalance)
	assert.Equal(t, int64(130), f.account(t, acc.ID).MoneyBalance)
	f.requireConsistent(t, acc.ID)
}
