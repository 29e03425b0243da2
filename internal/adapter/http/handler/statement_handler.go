package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// pageBreak separates rendered statement pages in a text response.
const pageBreak = "\f\n"

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	Generate(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error)
	Render(ctx context.Context, input usecase.RenderStatementInput) (*domain.Statement, *domain.Document, error)
}

// StatementHandler serves per-day account statements.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Get builds the statement for ?from=dd.mm.yyyy&to=dd.mm.yyyy. With
// format=text it returns the rendered pages instead of JSON.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := usecase.StatementInput{
		AccountID: chi.URLParam(r, "id"),
		StartDate: query.Get("from"),
		EndDate:   query.Get("to"),
	}
	if input.StartDate == "" || input.EndDate == "" {
		writeError(w, http.StatusBadRequest, "missing 'from' or 'to' parameter", "dates use dd.mm.yyyy")
		return
	}

	switch query.Get("format") {
	case "", "json":
		statement, err := h.statementUC.Generate(r.Context(), input)
		if err != nil {
			writeDomainError(w, "failed to build statement", err)
			return
		}
		writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))

	case "text":
		_, doc, err := h.statementUC.Render(r.Context(), usecase.RenderStatementInput{
			StatementInput: input,
			Locale:         query.Get("locale"),
			PageSize:       parseIntQuery(r, "page_size", 0),
		})
		if err != nil {
			writeDomainError(w, "failed to render statement", err)
			return
		}
		w.Header().Set("Content-Type", doc.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strings.Join(doc.Pages, pageBreak)))

	default:
		writeError(w, http.StatusBadRequest, "unsupported format", "use json or text")
	}
}
