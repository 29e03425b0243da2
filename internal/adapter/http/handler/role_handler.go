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

// RoleService defines the behavior needed by RoleHandler.
type RoleService interface {
	Grant(ctx context.Context, input usecase.GrantRoleInput) (*domain.Account, error)
	Revoke(ctx context.Context, input usecase.RevokeRoleInput) (*domain.Account, error)
}

// RoleHandler grants and revokes administrative roles.
type RoleHandler struct {
	roleUC RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleUC RoleService) *RoleHandler {
	return &RoleHandler{roleUC: roleUC}
}

// Grant sets the role named in the body on the account.
func (h *RoleHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req dto.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeDomainError(w, "invalid role", err)
		return
	}

	account, err := h.roleUC.Grant(r.Context(), usecase.GrantRoleInput{
		CallerID:   callerID(r),
		CallerRole: callerRole(r),
		AccountID:  chi.URLParam(r, "id"),
		Role:       role,
	})
	if err != nil {
		writeDomainError(w, "failed to grant role", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Revoke resets the account to the user role.
func (h *RoleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	account, err := h.roleUC.Revoke(r.Context(), usecase.RevokeRoleInput{
		CallerID:   callerID(r),
		CallerRole: callerRole(r),
		AccountID:  chi.URLParam(r, "id"),
	})
	if err != nil {
		writeDomainError(w, "failed to revoke role", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
