package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// PostEventRequest represents a back-office add or remove event.
// Account is an account ID or a phone number.
type PostEventRequest struct {
	Account     string          `json:"account"`
	DocumentID  string          `json:"document_id"`
	AgentID     string          `json:"agent_id"`
	Kind        string          `json:"kind"`
	Operation   string          `json:"operation"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEventRequest) ToUseCaseInput() (usecase.PostEventInput, error) {
	amount, err := domain.ParseAmount(r.Amount.String())
	if err != nil {
		return usecase.PostEventInput{}, err
	}

	return usecase.PostEventInput{
		AccountRef:  r.Account,
		DocumentID:  r.DocumentID,
		AgentID:     r.AgentID,
		Kind:        r.Kind,
		Operation:   r.Operation,
		Amount:      amount,
		Description: r.Description,
		Date:        r.Date,
	}, nil
}

// DeleteDocumentRequest represents a document cancellation.
// An empty AgentID matches entries of every agent.
type DeleteDocumentRequest struct {
	DocumentID string `json:"document_id"`
	AgentID    string `json:"agent_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DeleteDocumentRequest) ToUseCaseInput() usecase.DeleteDocumentInput {
	return usecase.DeleteDocumentInput{
		DocumentID: r.DocumentID,
		AgentID:    r.AgentID,
	}
}

// RegisterAccountRequest represents a registration event.
type RegisterAccountRequest struct {
	Phone  string `json:"phone"`
	ChatID int64  `json:"chat_id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterAccountRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Phone:  r.Phone,
		ChatID: r.ChatID,
		Name:   r.Name,
		Locale: r.Locale,
	}
}

// GrantRoleRequest represents a role change.
type GrantRoleRequest struct {
	Role string `json:"role"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
