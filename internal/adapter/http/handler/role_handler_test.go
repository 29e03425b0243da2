package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

type roleServiceStub struct {
	grantFn  func(ctx context.Context, input usecase.GrantRoleInput) (*domain.Account, error)
	revokeFn func(ctx context.Context, input usecase.RevokeRoleInput) (*domain.Account, error)
}

func (s *roleServiceStub) Grant(ctx context.Context, input usecase.GrantRoleInput) (*domain.Account, error) {
	return s.grantFn(ctx, input)
}

func (s *roleServiceStub) Revoke(ctx context.Context, input usecase.RevokeRoleInput) (*domain.Account, error) {
	return s.revokeFn(ctx, input)
}

func TestRoleHandler_Grant(t *testing.T) {
	var captured usecase.GrantRoleInput
	handler := NewRoleHandler(&roleServiceStub{
		grantFn: func(ctx context.Context, input usecase.GrantRoleInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: input.AccountID, Role: input.Role}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/roles", bytes.NewBufferString(`{"role":"operator"}`))
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Grant(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.Role != domain.RoleOperator || captured.CallerRole != domain.RoleOwner {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestRoleHandler_Grant_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"unknown role", `{"role":"root"}`, nil, http.StatusBadRequest},
		{"caller outranked", `{"role":"owner"}`, domain.ErrInsufficientRole, http.StatusForbidden},
		{"missing account", `{"role":"admin"}`, domain.ErrAccountNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRoleHandler(&roleServiceStub{
				grantFn: func(ctx context.Context, input usecase.GrantRoleInput) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/accounts/acc-1/roles", bytes.NewBufferString(tt.body))
			req = setChiURLParam(req, "id", "acc-1")
			rec := httptest.NewRecorder()

			handler.Grant(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRoleHandler_Revoke(t *testing.T) {
	var captured usecase.RevokeRoleInput
	handler := NewRoleHandler(&roleServiceStub{
		revokeFn: func(ctx context.Context, input usecase.RevokeRoleInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: input.AccountID, Role: domain.RoleUser}, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/accounts/acc-1/roles", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Revoke(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.AccountID != "acc-1" {
		t.Fatalf("unexpected input: %+v", captured)
	}
}
