package domain

import (
	"errors"
	"testing"
	"time"
)

func chain(amounts ...int64) []*Entry {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := make([]*Entry, 0, len(amounts))
	var running int64
	for i, a := range amounts {
		e := &Entry{
			ID:         string(rune('A' + i)),
			Kind:       KindMoney,
			Amount:     a,
			OldBalance: running,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		e.Recompute()
		running = e.NewBalance
		entries = append(entries, e)
	}
	return entries
}

func TestVerifyChain(t *testing.T) {
	t.Run("empty chain", func(t *testing.T) {
		if err := VerifyChain(nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("valid chain", func(t *testing.T) {
		if err := VerifyChain(chain(100, 50, -20)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("old balance gap", func(t *testing.T) {
		entries := chain(100, 50, -20)
		entries[2].OldBalance = 140
		entries[2].Recompute()

		err := VerifyChain(entries)
		if !errors.Is(err, ErrBrokenChain) {
			t.Fatalf("expected ErrBrokenChain, got %v", err)
		}
		var brk *ChainBreak
		if !errors.As(err, &brk) || brk.Index != 2 || brk.Expected != 150 {
			t.Errorf("unexpected break: %+v", brk)
		}
	})

	t.Run("new balance not recomputed", func(t *testing.T) {
		entries := chain(100, 50)
		entries[1].Amount = 70

		if err := VerifyChain(entries); !errors.Is(err, ErrBrokenChain) {
			t.Errorf("expected ErrBrokenChain, got %v", err)
		}
	})

	t.Run("first entry must start at zero", func(t *testing.T) {
		entries := chain(100)
		entries[0].Shift(5)

		if err := VerifyChain(entries); !errors.Is(err, ErrBrokenChain) {
			t.Errorf("expected ErrBrokenChain, got %v", err)
		}
	})
}

func TestSortEntries(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []*Entry{
		{ID: "02", CreatedAt: at},
		{ID: "03", CreatedAt: at.Add(-time.Second)},
		{ID: "01", CreatedAt: at},
	}

	SortEntries(entries)

	got := entries[0].ID + entries[1].ID + entries[2].ID
	if got != "030102" {
		t.Errorf("expected order 03,01,02, got %s", got)
	}
}

func TestEntry_Shift(t *testing.T) {
	e := &Entry{Amount: 30, OldBalance: 100, NewBalance: 130}
	e.Shift(50)

	if e.OldBalance != 150 || e.NewBalance != 180 {
		t.Errorf("expected 150/180, got %d/%d", e.OldBalance, e.NewBalance)
	}
}

func TestOperation_Signed(t *testing.T) {
	if OperationAdd.Signed(30) != 30 {
		t.Error("add must keep the sign")
	}
	if OperationRemove.Signed(30) != -30 {
		t.Error("remove must negate")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"money", KindMoney, false},
		{" BONUS ", KindBonus, false},
		{"points", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKind) {
				t.Errorf("ParseKind(%q): expected ErrInvalidKind, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}
