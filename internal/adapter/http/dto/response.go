package dto

import (
	"time"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	ChatID       int64     `json:"chat_id"`
	Name         string    `json:"name"`
	Locale       string    `json:"locale"`
	Role         string    `json:"role"`
	MoneyBalance int64     `json:"money_balance"`
	BonusBalance int64     `json:"bonus_balance"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		Phone:        a.Phone,
		ChatID:       a.ChatID,
		Name:         a.Name,
		Locale:       a.Locale,
		Role:         string(a.Role),
		MoneyBalance: a.MoneyBalance,
		BonusBalance: a.BonusBalance,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// RegisterAccountResponse represents a registration result.
type RegisterAccountResponse struct {
	Account *AccountResponse `json:"account"`
	Created bool             `json:"created"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	DocumentID  string    `json:"document_id"`
	AgentID     string    `json:"agent_id,omitempty"`
	Kind        string    `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	OldBalance  int64     `json:"old_balance"`
	NewBalance  int64     `json:"new_balance"`
	EventDate   string    `json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		DocumentID:  e.DocumentID,
		AgentID:     e.AgentID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		Description: e.Description,
		OldBalance:  e.OldBalance,
		NewBalance:  e.NewBalance,
		EventDate:   domain.FormatDate(e.EventDate),
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostEventResponse represents what an event did to the ledger.
type PostEventResponse struct {
	Status         string         `json:"status"`
	Entry          *EntryResponse `json:"entry,omitempty"`
	PreviousAmount int64          `json:"previous_amount,omitempty"`
	Delta          int64          `json:"delta,omitempty"`
	Cascaded       int64          `json:"cascaded,omitempty"`
	Balance        int64          `json:"balance"`
}

// PostResultToResponse converts a post result to response.
func PostResultToResponse(r *usecase.PostResult) *PostEventResponse {
	return &PostEventResponse{
		Status:         r.Outcome,
		Entry:          EntryFromDomain(r.Entry),
		PreviousAmount: r.PreviousAmount,
		Delta:          r.Delta,
		Cascaded:       r.Cascaded,
		Balance:        r.Balance,
	}
}

// DuplicateResponse is returned for a replayed event.
type DuplicateResponse struct {
	Status string `json:"status"`
}

// AccountReversalResponse represents the repair of one account and kind.
type AccountReversalResponse struct {
	AccountID     string `json:"account_id"`
	Kind          string `json:"kind"`
	NetAdjustment int64  `json:"net_adjustment"`
	Removed       int    `json:"removed"`
	Shifted       int    `json:"shifted"`
	Balance       int64  `json:"balance"`
}

// AccountFailureResponse represents an account whose repair failed.
type AccountFailureResponse struct {
	AccountID string `json:"account_id"`
	Error     string `json:"error"`
}

// DeleteDocumentResponse represents a document reversal.
type DeleteDocumentResponse struct {
	DocumentID string                    `json:"document_id"`
	Accounts   []AccountReversalResponse `json:"accounts"`
	Failed     []AccountFailureResponse  `json:"failed,omitempty"`
}

// DeleteResultToResponse converts a reversal result to response.
func DeleteResultToResponse(r *usecase.DeleteDocumentResult) *DeleteDocumentResponse {
	resp := &DeleteDocumentResponse{
		DocumentID: r.DocumentID,
		Accounts:   make([]AccountReversalResponse, 0, len(r.Accounts)),
	}
	for _, a := range r.Accounts {
		resp.Accounts = append(resp.Accounts, AccountReversalResponse{
			AccountID:     a.AccountID,
			Kind:          string(a.Kind),
			NetAdjustment: a.NetAdjustment,
			Removed:       a.Removed,
			Shifted:       a.Shifted,
			Balance:       a.Balance,
		})
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, AccountFailureResponse{
			AccountID: f.AccountID,
			Error:     f.Err.Error(),
		})
	}
	return resp
}

// StatementRowResponse represents one day of a statement.
type StatementRowResponse struct {
	Date           string `json:"date"`
	OpeningBalance int64  `json:"opening_balance"`
	Additions      int64  `json:"additions"`
	Removals       int64  `json:"removals"`
	ClosingBalance int64  `json:"closing_balance"`
}

// StatementResponse represents a statement in API responses.
type StatementResponse struct {
	AccountID      string                 `json:"account_id"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	OpeningBalance int64                  `json:"opening_balance"`
	TotalAdditions int64                  `json:"total_additions"`
	TotalRemovals  int64                  `json:"total_removals"`
	ClosingBalance int64                  `json:"closing_balance"`
	Rows           []StatementRowResponse `json:"rows"`
}

// StatementFromDomain converts a statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	resp := &StatementResponse{
		AccountID:      s.AccountID,
		StartDate:      domain.FormatDate(s.StartDate),
		EndDate:        domain.FormatDate(s.EndDate),
		OpeningBalance: s.OpeningBalance,
		TotalAdditions: s.TotalAdditions,
		TotalRemovals:  s.TotalRemovals,
		ClosingBalance: s.ClosingBalance,
		Rows:           make([]StatementRowResponse, 0, len(s.Rows)),
	}
	for _, row := range s.Rows {
		resp.Rows = append(resp.Rows, StatementRowResponse{
			Date:           domain.FormatDate(row.Date),
			OpeningBalance: row.OpeningBalance,
			Additions:      row.Additions,
			Removals:       row.Removals,
			ClosingBalance: row.ClosingBalance(),
		})
	}
	return resp
}

// ChainBreakResponse represents the first broken entry of a chain.
type ChainBreakResponse struct {
	Index    int    `json:"index"`
	EntryID  string `json:"entry_id"`
	Expected int64  `json:"expected"`
	Actual   int64  `json:"actual"`
	Reason   string `json:"reason"`
}

// KindReconciliationResponse represents one balance kind of a reconciliation.
type KindReconciliationResponse struct {
	Kind              string              `json:"kind"`
	RecordedBalance   int64               `json:"recorded_balance"`
	CalculatedBalance int64               `json:"calculated_balance"`
	Difference        int64               `json:"difference"`
	Entries           int                 `json:"entries"`
	ChainBreak        *ChainBreakResponse `json:"chain_break,omitempty"`
	Rewritten         int                 `json:"rewritten,omitempty"`
}

// ReconciliationResponse represents an account reconciliation.
type ReconciliationResponse struct {
	AccountID    string                       `json:"account_id"`
	IsReconciled bool                         `json:"is_reconciled"`
	LastChecked  time.Time                    `json:"last_checked"`
	Kinds        []KindReconciliationResponse `json:"kinds"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		AccountID:    r.AccountID,
		IsReconciled: r.IsReconciled,
		LastChecked:  r.LastChecked,
		Kinds:        make([]KindReconciliationResponse, 0, len(r.Kinds)),
	}
	for _, k := range r.Kinds {
		item := KindReconciliationResponse{
			Kind:              string(k.Kind),
			RecordedBalance:   k.RecordedBalance,
			CalculatedBalance: k.CalculatedBalance,
			Difference:        k.Difference,
			Entries:           k.Entries,
			Rewritten:         k.Rewritten,
		}
		if k.ChainBreak != nil {
			item.ChainBreak = &ChainBreakResponse{
				Index:    k.ChainBreak.Index,
				EntryID:  k.ChainBreak.EntryID,
				Expected: k.ChainBreak.Expected,
				Actual:   k.ChainBreak.Actual,
				Reason:   k.ChainBreak.Reason,
			}
		}
		resp.Kinds = append(resp.Kinds, item)
	}
	return resp
}

// ReconciliationReportResponse represents a ledger-wide reconciliation report.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	LedgerConsistent   bool                      `json:"ledger_consistent"`
	CheckedAt          time.Time                 `json:"checked_at"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
}

// ReportFromDomain converts a reconciliation report to response.
func ReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		LedgerConsistent:   r.LedgerConsistent,
		CheckedAt:          r.CheckedAt,
		Discrepancies:      make([]*ReconciliationResponse, 0, len(r.Discrepancies)),
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, ReconciliationFromResult(d))
	}
	return resp
}

// ConsistencyResponse represents a ledger-wide consistency check.
type ConsistencyResponse struct {
	Consistent bool   `json:"consistent"`
	Error      string `json:"error,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Balance *int64 `json:"balance,omitempty"`
}
