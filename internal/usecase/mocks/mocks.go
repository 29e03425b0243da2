package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc         func(ctx context.Context) (usecase.Transaction, error)
	BeginReadOnlyFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

func (m *MockTransactionManager) BeginReadOnly(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginReadOnlyFunc != nil {
		return m.BeginReadOnlyFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// SequentialIDGenerator generates ordered IDs: id-000001, id-000002, ...
type SequentialIDGenerator struct {
	Prefix  string
	counter int
	mu      sync.Mutex
}

func NewSequentialIDGenerator() *SequentialIDGenerator {
	return &SequentialIDGenerator{Prefix: "id-"}
}

func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s%06d", g.Prefix, g.counter)
}

// RecordingNotifier collects notifications.
type RecordingNotifier struct {
	mu            sync.Mutex
	notifications []*domain.Notification

	NotifyFunc func(ctx context.Context, n *domain.Notification) error
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()
	if r.NotifyFunc != nil {
		return r.NotifyFunc(ctx, n)
	}
	return nil
}

// Notifications returns a copy of the collected notifications.
func (r *RecordingNotifier) Notifications() []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Notification(nil), r.notifications...)
}

// Reset forgets the collected notifications.
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}

// StepClock returns a clock that advances by step on every call.
func StepClock(start time.Time, step time.Duration) usecase.Clock {
	var mu sync.Mutex
	now := start.Add(-step)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
