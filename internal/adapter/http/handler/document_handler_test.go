package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

type documentServiceStub struct {
	deleteFn func(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error)
}

func (s *documentServiceStub) DeleteDocument(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error) {
	return s.deleteFn(ctx, input)
}

func TestDocumentHandler_Delete(t *testing.T) {
	repaired := usecase.AccountReversal{AccountID: "acc-1", Kind: domain.KindMoney, NetAdjustment: -100, Removed: 1, Shifted: 2, Balance: 50}
	failure := usecase.AccountFailure{AccountID: "acc-2", Err: domain.ErrStoreUnavailable}

	tests := []struct {
		name       string
		result     *usecase.DeleteDocumentResult
		err        error
		wantStatus int
		wantFailed int
	}{
		{
			name:       "all accounts repaired",
			result:     &usecase.DeleteDocumentResult{DocumentID: "DOC-1", Accounts: []usecase.AccountReversal{repaired}},
			wantStatus: http.StatusOK,
		},
		{
			name: "partial failure",
			result: &usecase.DeleteDocumentResult{
				DocumentID: "DOC-1",
				Accounts:   []usecase.AccountReversal{repaired},
				Failed:     []usecase.AccountFailure{failure},
			},
			err:        errors.Join(failure.Err),
			wantStatus: http.StatusMultiStatus,
			wantFailed: 1,
		},
		{
			name:       "every account failed",
			result:     &usecase.DeleteDocumentResult{DocumentID: "DOC-1", Failed: []usecase.AccountFailure{failure}},
			err:        errors.Join(failure.Err),
			wantStatus: http.StatusInternalServerError,
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.DeleteDocumentInput
			handler := NewDocumentHandler(&documentServiceStub{
				deleteFn: func(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error) {
					captured = input
					return tt.result, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodDelete, "/documents/DOC-1?agent_id=agent-7", nil)
			req = setChiURLParam(req, "documentID", "DOC-1")
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if captured.DocumentID != "DOC-1" || captured.AgentID != "agent-7" {
				t.Fatalf("unexpected input: %+v", captured)
			}

			var resp dto.DeleteDocumentResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Failed) != tt.wantFailed {
				t.Fatalf("expected %d failures, got %+v", tt.wantFailed, resp.Failed)
			}
		})
	}
}

func TestDocumentHandler_Delete_NothingToDelete(t *testing.T) {
	handler := NewDocumentHandler(&documentServiceStub{
		deleteFn: func(ctx context.Context, input usecase.DeleteDocumentInput) (*usecase.DeleteDocumentResult, error) {
			return nil, domain.ErrNothingToDelete
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/documents/DOC-404", nil)
	req = setChiURLParam(req, "documentID", "DOC-404")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
