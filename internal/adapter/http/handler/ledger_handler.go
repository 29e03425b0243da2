package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// ProjectionService defines the behavior needed by LedgerHandler.
type ProjectionService interface {
	Reconcile(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	Rebuild(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	CheckLedgerConsistency(ctx context.Context) error
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// LedgerHandler handles projection checks and repairs.
type LedgerHandler struct {
	projectionUC ProjectionService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(projectionUC ProjectionService) *LedgerHandler {
	return &LedgerHandler{projectionUC: projectionUC}
}

// CheckConsistency checks that every kind's balances add up to its entries.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	err := h.projectionUC.CheckLedgerConsistency(r.Context())
	if errors.Is(err, domain.ErrLedgerInconsistent) {
		writeJSON(w, http.StatusConflict, dto.ConsistencyResponse{
			Consistent: false,
			Error:      err.Error(),
		})
		return
	}
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: true})
}

// Report reconciles every account and lists the ones that disagree.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.projectionUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to build reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

// Reconcile compares an account's stored balances with its entries.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.projectionUC.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// Rebuild rewrites an account's snapshots and balances from its entries.
func (h *LedgerHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	result, err := h.projectionUC.Rebuild(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to rebuild account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}
