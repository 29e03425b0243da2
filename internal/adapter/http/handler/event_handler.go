package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/bonusledger/internal/adapter/http/dto"
	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	Post(ctx context.Context, input usecase.PostEventInput) (*usecase.PostResult, error)
}

// EventHandler accepts back-office add and remove events.
type EventHandler struct {
	postingUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(postingUC EventService) *EventHandler {
	return &EventHandler{postingUC: postingUC}
}

// Post records, corrects or ignores an event. A replay answers 200 with a
// duplicate status so the caller can stop retrying.
func (h *EventHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid amount", err)
		return
	}

	result, err := h.postingUC.Post(r.Context(), input)
	if errors.Is(err, domain.ErrDuplicateEvent) {
		writeJSON(w, http.StatusOK, dto.DuplicateResponse{Status: usecase.OutcomeDuplicate})
		return
	}
	if err != nil {
		writeDomainError(w, "failed to post event", err)
		return
	}

	status := http.StatusOK
	if result.Outcome == usecase.OutcomeCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.PostResultToResponse(result))
}
