package domain

import (
	"fmt"
	"strings"
)

// Role represents an account's administrative access level
type Role string

const (
	// RoleUser is an ordinary account holder
	RoleUser Role = "user"

	// RoleOperator can post events and read statements of any account
	RoleOperator Role = "operator"

	// RoleAdmin can additionally delete documents and rebuild balances
	RoleAdmin Role = "admin"

	// RoleOwner can grant every role
	RoleOwner Role = "owner"
)

var roleRanks = map[Role]int{
	RoleUser:     0,
	RoleOperator: 1,
	RoleAdmin:    2,
	RoleOwner:    3,
}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the position of the role in the hierarchy, -1 for unknown roles.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r ranks equal to or above other.
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r.Rank() >= other.Rank()
}

// CanGrant reports whether a holder of r may set target's role from current to granted.
func (r Role) CanGrant(current, granted Role) bool {
	return r.AtLeast(granted) && r.AtLeast(current)
}
