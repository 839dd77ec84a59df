package handler

import (
	"encoding/json"
	"net/http"

	"promo-api/internal/domain"
	"promo-api/internal/service"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

// EntryHandler handles receipt submission requests
type EntryHandler struct {
	submissions service.SubmissionService
	logger      *logger.Logger
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(submissions service.SubmissionService, log *logger.Logger) *EntryHandler {
	return &EntryHandler{
		submissions: submissions,
		logger:      log,
	}
}

// Submit handles POST /api/submissions. The response always carries the
// submission envelope: accepted and rejected are both HTTP 200 business
// outcomes, while transport and storage faults use the error envelope.
func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("request body must be valid JSON", nil), h.logger)
		return
	}

	resp, err := h.submissions.Submit(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, resp, h.logger)
}
