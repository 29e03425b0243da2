package domain

import "time"

// StatementRow summarizes one calendar day of money movements.
type StatementRow struct {
	Date           time.Time
	OpeningBalance int64
	Additions      int64
	Removals       int64
}

// ClosingBalance returns the balance at the end of the row's day.
func (r StatementRow) ClosingBalance() int64 {
	return r.OpeningBalance + r.Additions - r.Removals
}

// Statement is a date-ranged summary of an account's money balance.
// It is computed on request and never persisted.
type Statement struct {
	AccountID      string
	StartDate      time.Time
	EndDate        time.Time
	OpeningBalance int64
	TotalAdditions int64
	TotalRemovals  int64
	ClosingBalance int64
	Rows           []StatementRow
}

// Document is a rendered statement.
type Document struct {
	ContentType string
	Pages       []string
}
