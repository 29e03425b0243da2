package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

type projectionServiceStub struct {
	reconcileFn   func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	rebuildFn     func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	consistencyFn func(ctx context.Context) error
	reportFn      func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *projectionServiceStub) Reconcile(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, accountID)
}

func (s *projectionServiceStub) Rebuild(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	return s.rebuildFn(ctx, accountID)
}

func (s *projectionServiceStub) CheckLedgerConsistency(ctx context.Context) error {
	return s.consistencyFn(ctx)
}

func (s *projectionServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantConsistent bool
	}{
		{"consistent", nil, http.StatusOK, true},
		{"inconsistent", fmt.Errorf("%w for bonus", domain.ErrLedgerInconsistent), http.StatusConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&projectionServiceStub{
				consistencyFn: func(ctx context.Context) error { return tt.err },
			})

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Consistent != tt.wantConsistent {
				t.Fatalf("expected consistent=%v, got %+v", tt.wantConsistent, resp)
			}
		})
	}
}

func TestLedgerHandler_CheckConsistency_StoreDown(t *testing.T) {
	handler := NewLedgerHandler(&projectionServiceStub{
		consistencyFn: func(ctx context.Context) error { return domain.ErrStoreUnavailable },
	})

	rec := httptest.NewRecorder()
	handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLedgerHandler_Report(t *testing.T) {
	handler := NewLedgerHandler(&projectionServiceStub{
		reportFn: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
			return &usecase.ReconciliationReport{
				TotalAccounts:      2,
				ReconciledAccounts: 1,
				LedgerConsistent:   false,
				CheckedAt:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				Discrepancies:      []*usecase.ReconciliationResult{{AccountID: "acc-2"}},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Report(rec, httptest.NewRequest(http.MethodGet, "/ledger/reconciliation", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ReconciliationReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalAccounts != 2 || len(resp.Discrepancies) != 1 || resp.Discrepancies[0].AccountID != "acc-2" {
		t.Fatalf("unexpected report: %+v", resp)
	}
}

func TestLedgerHandler_ReconcileAndRebuild(t *testing.T) {
	result := &usecase.ReconciliationResult{
		AccountID:    "acc-1",
		IsReconciled: true,
		Kinds: []usecase.KindReconciliation{
			{Kind: domain.KindMoney, RecordedBalance: 10, CalculatedBalance: 10, Entries: 2},
		},
	}
	var calls []string
	handler := NewLedgerHandler(&projectionServiceStub{
		reconcileFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			calls = append(calls, "reconcile:"+accountID)
			return result, nil
		},
		rebuildFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			calls = append(calls, "rebuild:"+accountID)
			return result, nil
		},
	})

	for _, serve := range []http.HandlerFunc{handler.Reconcile, handler.Rebuild} {
		req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "acc-1")
		rec := httptest.NewRecorder()
		serve(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp dto.ReconciliationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.IsReconciled || len(resp.Kinds) != 1 || resp.Kinds[0].Entries != 2 {
			t.Fatalf("unexpected reconciliation: %+v", resp)
		}
	}

	if len(calls) != 2 || calls[0] != "reconcile:acc-1" || calls[1] != "rebuild:acc-1" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestLedgerHandler_Reconcile_NotFound(t *testing.T) {
	handler := NewLedgerHandler(&projectionServiceStub{
		reconcileFn: func(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "missing")
	rec := httptest.NewRecorder()
	handler.Reconcile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
