package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/adapter/http/middleware"
	"github.com/iho/bonusledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it.
// A rejected removal also carries the kind and the balance it was checked against.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	}

	var insufficient *domain.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		balance := insufficient.Balance
		resp.Kind = string(insufficient.Kind)
		resp.Balance = &balance
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrNothingToDelete):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrDuplicateEvent),
		errors.Is(err, domain.ErrLedgerInconsistent):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePagination reads limit and offset query parameters.
func parsePagination(r *http.Request) dto.PaginationRequest {
	return dto.PaginationRequest{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}
}

// callerRole returns the role of the authenticated caller. Without an
// authenticated principal the router runs unauthenticated and the caller
// acts as owner.
// callerID returns the account named by the token, empty without authentication.
func callerID(r *http.Request) string {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.AccountID
	}
	return ""
}

func callerRole(r *http.Request) domain.Role {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.Role
	}
	return domain.RoleOwner
}
