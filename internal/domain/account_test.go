package domain

import (
	"errors"
	"testing"
)

func TestAccount_ValidateRemoval(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		balance     int64
		delta       int64
		expectError bool
	}{
		{
			name:        "money may go negative",
			kind:        KindMoney,
			balance:     10,
			delta:       -50,
			expectError: false,
		},
		{
			name:        "bonus removal above balance",
			kind:        KindBonus,
			balance:     20,
			delta:       -30,
			expectError: true,
		},
		{
			name:        "bonus removal of exact balance",
			kind:        KindBonus,
			balance:     20,
			delta:       -20,
			expectError: false,
		},
		{
			name:        "bonus addition",
			kind:        KindBonus,
			balance:     0,
			delta:       5,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{}
			acc.SetBalance(tt.kind, tt.balance)

			err := acc.ValidateRemoval(tt.kind, tt.delta)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInsufficientBalanceError(t *testing.T) {
	acc := &Account{BonusBalance: 20}

	err := acc.ValidateRemoval(KindBonus, -30)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	var ibe *InsufficientBalanceError
	if !errors.As(err, &ibe) {
		t.Fatalf("expected InsufficientBalanceError, got %T", err)
	}
	if ibe.Balance != 20 || ibe.Requested != 30 {
		t.Errorf("expected balance 20 and requested 30, got %+v", ibe)
	}
}

func TestAccount_BalancePerKind(t *testing.T) {
	acc := &Account{}
	acc.SetBalance(KindMoney, 100)
	acc.SetBalance(KindBonus, 7)

	if acc.Balance(KindMoney) != 100 || acc.MoneyBalance != 100 {
		t.Errorf("expected money balance 100, got %d", acc.Balance(KindMoney))
	}
	if acc.Balance(KindBonus) != 7 || acc.BonusBalance != 7 {
		t.Errorf("expected bonus balance 7, got %d", acc.Balance(KindBonus))
	}
}
