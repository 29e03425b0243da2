package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

type statementServiceStub struct {
	generateFn func(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error)
	renderFn   func(ctx context.Context, input usecase.RenderStatementInput) (*domain.Statement, *domain.Document, error)
}

func (s *statementServiceStub) Generate(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
	return s.generateFn(ctx, input)
}

func (s *statementServiceStub) Render(ctx context.Context, input usecase.RenderStatementInput) (*domain.Statement, *domain.Document, error) {
	return s.renderFn(ctx, input)
}

func TestStatementHandler_JSON(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	var captured usecase.StatementInput
	handler := NewStatementHandler(&statementServiceStub{
		generateFn: func(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
			captured = input
			return &domain.Statement{
				AccountID:      input.AccountID,
				StartDate:      day,
				EndDate:        day,
				OpeningBalance: 10,
				TotalAdditions: 5,
				TotalRemovals:  3,
				ClosingBalance: 12,
				Rows:           []domain.StatementRow{{Date: day, OpeningBalance: 10, Additions: 5, Removals: 3}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement?from=05.03.2024&to=05.03.2024", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.StartDate != "05.03.2024" || captured.EndDate != "05.03.2024" {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].ClosingBalance != 12 || resp.StartDate != "05.03.2024" {
		t.Fatalf("unexpected statement: %+v", resp)
	}
}

func TestStatementHandler_Text(t *testing.T) {
	var captured usecase.RenderStatementInput
	handler := NewStatementHandler(&statementServiceStub{
		renderFn: func(ctx context.Context, input usecase.RenderStatementInput) (*domain.Statement, *domain.Document, error) {
			captured = input
			return &domain.Statement{}, &domain.Document{
				ContentType: "text/plain; charset=utf-8",
				Pages:       []string{"page one\n", "page two\n"},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement?from=01.03.2024&to=31.03.2024&format=text&locale=ru&page_size=5", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Locale != "ru" || captured.PageSize != 5 || captured.AccountID != "acc-1" {
		t.Fatalf("unexpected input: %+v", captured)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if got := rec.Body.String(); got != "page one\n\f\npage two\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestStatementHandler_Errors(t *testing.T) {
	stub := &statementServiceStub{
		generateFn: func(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
			return nil, domain.ErrInvalidRange
		},
	}

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"missing dates", "/accounts/acc-1/statement?from=01.03.2024", http.StatusBadRequest},
		{"unknown format", "/accounts/acc-1/statement?from=01.03.2024&to=02.03.2024&format=pdf", http.StatusBadRequest},
		{"reversed range", "/accounts/acc-1/statement?from=02.03.2024&to=01.03.2024", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = setChiURLParam(req, "id", "acc-1")
			rec := httptest.NewRecorder()

			NewStatementHandler(stub).Get(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
