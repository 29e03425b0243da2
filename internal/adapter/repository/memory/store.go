// Package memory implements the ledger repositories in process memory.
// Transactions work on a private copy of the committed state and writers are
// serialized, so every transaction observes one consistent snapshot.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

var errTxDone = errors.New("transaction already closed")

type state struct {
	accounts map[string]*domain.Account
	phones   map[string]string
	entries  map[string]*domain.Entry
}

func newState() *state {
	return &state{
		accounts: make(map[string]*domain.Account),
		phones:   make(map[string]string),
		entries:  make(map[string]*domain.Entry),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts: make(map[string]*domain.Account, len(s.accounts)),
		phones:   make(map[string]string, len(s.phones)),
		entries:  make(map[string]*domain.Entry, len(s.entries)),
	}
	for id, a := range s.accounts {
		cp := *a
		c.accounts[id] = &cp
	}
	for phone, id := range s.phones {
		c.phones[phone] = id
	}
	for id, e := range s.entries {
		cp := *e
		c.entries[id] = &cp
	}
	return c
}

// Store holds the committed ledger state.
type Store struct {
	writer chan struct{}
	state  *state
	mu     sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		writer: make(chan struct{}, 1),
		state:  newState(),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

// read runs fn against the transaction's state, or the committed state when tx is nil.
func (s *Store) read(tx usecase.Transaction, fn func(*state) error) error {
	if t, ok := tx.(*Tx); ok && t != nil {
		if t.done {
			return errTxDone
		}
		return fn(t.state)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write runs fn against the transaction's state. Without a transaction the
// change is applied to the committed state under the writer lock.
func (s *Store) write(ctx context.Context, tx usecase.Transaction, fn func(*state) error) error {
	if t, ok := tx.(*Tx); ok && t != nil {
		if t.done {
			return errTxDone
		}
		if t.readOnly {
			return errors.New("write in read-only transaction")
		}
		return fn(t.state)
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Tx is a memory transaction.
type Tx struct {
	store    *Store
	state    *state
	readOnly bool
	done     bool
}

// Commit publishes the transaction's state.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	if t.readOnly {
		return nil
	}
	t.store.mu.Lock()
	t.store.state = t.state
	t.store.mu.Unlock()
	t.store.release()
	return nil
}

// Rollback discards the transaction's state. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	if !t.readOnly {
		t.store.release()
	}
	return nil
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the writer lock and starts a transaction on a copy of the committed state.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := m.store.acquire(ctx); err != nil {
		return nil, err
	}
	m.store.mu.RLock()
	snapshot := m.store.state.clone()
	m.store.mu.RUnlock()
	return &Tx{store: m.store, state: snapshot}, nil
}

// BeginReadOnly starts a transaction on a copy of the committed state without blocking writers.
func (m *TxManager) BeginReadOnly(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.store.mu.RLock()
	snapshot := m.store.state.clone()
	m.store.mu.RUnlock()
	return &Tx{store: m.store, state: snapshot, readOnly: true}, nil
}
