package domain

import (
	"time"
)

// Account is a ledger account holder with denormalized balances per kind.
// Balances always equal the sum of the account's entries of the matching kind.
type Account struct {
	ID           string
	Phone        string
	ChatID       int64
	Name         string
	Locale       string
	Role         Role
	MoneyBalance int64
	BonusBalance int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Balance returns the current balance of the given kind.
func (a *Account) Balance(kind Kind) int64 {
	if kind == KindBonus {
		return a.BonusBalance
	}
	return a.MoneyBalance
}

// SetBalance replaces the balance of the given kind.
func (a *Account) SetBalance(kind Kind, balance int64) {
	if kind == KindBonus {
		a.BonusBalance = balance
		return
	}
	a.MoneyBalance = balance
}

// ValidateRemoval checks whether delta can be applied to the balance of kind.
// Only bonus balances have a floor at zero; money balances may go negative.
func (a *Account) ValidateRemoval(kind Kind, delta int64) error {
	if kind != KindBonus || delta >= 0 {
		return nil
	}
	if a.BonusBalance+delta < 0 {
		return &InsufficientBalanceError{
			Kind:      kind,
			Balance:   a.BonusBalance,
			Requested: -delta,
		}
	}
	return nil
}
