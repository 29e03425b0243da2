package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/usecase"
)

// DocumentService defines the behavior needed by DocumentHandler.
type DocumentService interface {
	DeleteDocument(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error)
}

// DocumentHandler handles document cancellations.
type DocumentHandler struct {
	reversalUC DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(reversalUC DocumentService) *DocumentHandler {
	return &DocumentHandler{reversalUC: reversalUC}
}

// Delete removes every entry of the document, optionally narrowed to one
// agent, and repairs the affected chains. Accounts repaired before another
// account failed stay repaired and the response is 207.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req := dto.DeleteDocumentRequest{
		DocumentID: chi.URLParam(r, "documentID"),
		AgentID:    r.URL.Query().Get("agent_id"),
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	result, err := h.reversalUC.DeleteDocument(r.Context(), req.ToUseCaseInput())
	if result == nil {
		writeDomainError(w, "failed to delete document", err)
		return
	}

	status := http.StatusOK
	switch {
	case err != nil && len(result.Accounts) > 0:
		status = http.StatusMultiStatus
	case err != nil:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, dto.DeleteResultToResponse(result))
}
