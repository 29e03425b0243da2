package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPhone        = errors.New("invalid phone number")

	// Role and authentication errors
	ErrInvalidRole      = errors.New("invalid role")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")

	// Event errors
	ErrDuplicateEvent  = errors.New("duplicate event")
	ErrInvalidEvent    = errors.New("invalid event")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrNothingToDelete = errors.New("nothing to delete")
	ErrBrokenChain     = errors.New("broken balance chain")

	// Ledger-wide errors
	ErrLedgerInconsistent = errors.New("ledger inconsistency detected")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientBalanceError reports a rejected removal together with the current balance.
type InsufficientBalanceError struct {
	Kind      Kind
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: have %d, requested %d", e.Kind, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
