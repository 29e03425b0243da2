package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind is the balance an entry moves.
type Kind string

const (
	KindMoney Kind = "money"
	KindBonus Kind = "bonus"
)

// Kinds lists every balance kind in a stable order.
var Kinds = []Kind{KindMoney, KindBonus}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMoney:
		return KindMoney, nil
	case KindBonus:
		return KindBonus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Operation is the direction of an incoming event.
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationRemove Operation = "remove"
)

// ParseOperation parses an operation name.
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToLower(strings.TrimSpace(s))) {
	case OperationAdd:
		return OperationAdd, nil
	case OperationRemove:
		return OperationRemove, nil
	default:
		return "", fmt.Errorf("%w: unknown operation %q", ErrInvalidEvent, s)
	}
}

// Signed returns the stored amount for a magnitude m: removals are negative.
func (o Operation) Signed(m int64) int64 {
	if o == OperationRemove {
		return -m
	}
	return m
}

// EntryKey identifies at most one entry.
type EntryKey struct {
	AccountID  string
	DocumentID string
	AgentID    string
	Kind       Kind
}

// Entry is one signed movement of money or points tied to an external document.
type Entry struct {
	ID          string
	AccountID   string
	DocumentID  string
	AgentID     string
	Kind        Kind
	Amount      int64
	Description string
	OldBalance  int64
	NewBalance  int64
	EventDate   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the idempotence key of the entry.
func (e *Entry) Key() EntryKey {
	return EntryKey{
		AccountID:  e.AccountID,
		DocumentID: e.DocumentID,
		AgentID:    e.AgentID,
		Kind:       e.Kind,
	}
}

// Recompute sets NewBalance from OldBalance and Amount.
func (e *Entry) Recompute() {
	e.NewBalance = e.OldBalance + e.Amount
}

// Shift moves both balance snapshots by delta.
func (e *Entry) Shift(delta int64) {
	e.OldBalance += delta
	e.NewBalance += delta
}

// Before reports whether e was recorded before other.
// Entries created in the same instant are ordered by their sortable IDs.
func (e *Entry) Before(other *Entry) bool {
	if e.CreatedAt.Equal(other.CreatedAt) {
		return e.ID < other.ID
	}
	return e.CreatedAt.Before(other.CreatedAt)
}

// SortEntries orders entries by creation.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(entries[j])
	})
}

// ChainBreak describes the first entry whose snapshots do not follow its predecessor.
type ChainBreak struct {
	Index    int
	EntryID  string
	Expected int64
	Actual   int64
	Reason   string
}

func (b *ChainBreak) Error() string {
	return fmt.Sprintf("%s at entry %s (#%d): expected %d, got %d", b.Reason, b.EntryID, b.Index, b.Expected, b.Actual)
}

func (b *ChainBreak) Unwrap() error {
	return ErrBrokenChain
}

// VerifyChain checks the running-balance chain of entries of one account and kind,
// ordered by creation. The first entry must start from zero.
func VerifyChain(entries []*Entry) error {
	var running int64
	for i, e := range entries {
		if e.OldBalance != running {
			return &ChainBreak{Index: i, EntryID: e.ID, Expected: running, Actual: e.OldBalance, Reason: "old balance mismatch"}
		}
		if e.NewBalance != e.OldBalance+e.Amount {
			return &ChainBreak{Index: i, EntryID: e.ID, Expected: e.OldBalance + e.Amount, Actual: e.NewBalance, Reason: "new balance mismatch"}
		}
		running = e.NewBalance
	}
	return nil
}

// SumAmounts returns the sum of the entries' amounts.
func SumAmounts(entries []*Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}
