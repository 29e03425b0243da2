package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.Account, bool, error)
	GetAccountByRef(ctx context.Context, ref string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
}

// EntryService defines the entry history reads needed by AccountHandler.
type EntryService interface {
	GetEntriesByAccount(ctx context.Context, input usecase.GetEntriesByAccountInput) ([]*domain.Entry, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	entryUC   EntryService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, entryUC EntryService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, entryUC: entryUC}
}

// Register creates an account for a phone number or refreshes its profile.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, created, err := h.accountUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to register account", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.RegisterAccountResponse{
		Account: dto.AccountFromDomain(account),
		Created: created,
	})
}

// Get retrieves an account by ID or phone number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccountByRef(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Entries lists an account's entries, newest first, optionally of one kind.
func (h *AccountHandler) Entries(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	page := parsePagination(r)
	entries, err := h.entryUC.GetEntriesByAccount(r.Context(), usecase.GetEntriesByAccountInput{
		AccountID: accountID,
		Kind:      domain.Kind(r.URL.Query().Get("kind")),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
