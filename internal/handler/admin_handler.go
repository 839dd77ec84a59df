package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"promo-api/internal/service"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

// AdminHandler handles operator edits to ledger entries. All routes here sit
// behind the admin JWT middleware.
type AdminHandler struct {
	admin  service.AdminService
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: log,
	}
}

// SetWinnerRequest is the body for PUT /api/admin/entries/{receiptNumber}/winner
type SetWinnerRequest struct {
	IsWinner bool `json:"is_winner"`
}

// UpdateStatusRequest is the body for PATCH /api/admin/entries/{receiptNumber}/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AdminActionResponse acknowledges a completed admin edit
type AdminActionResponse struct {
	Status        string `json:"status"`
	ReceiptNumber string `json:"receipt_number"`
}

// SetWinner handles PUT /api/admin/entries/{receiptNumber}/winner
func (h *AdminHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	receiptNumber := chi.URLParam(r, "receiptNumber")

	var req SetWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("request body must be valid JSON", nil), h.logger)
		return
	}

	if err := h.admin.SetWinner(r.Context(), receiptNumber, req.IsWinner); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, AdminActionResponse{
		Status:        "success",
		ReceiptNumber: receiptNumber,
	}, h.logger)
}

// UpdateStatus handles PATCH /api/admin/entries/{receiptNumber}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	receiptNumber := chi.URLParam(r, "receiptNumber")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("request body must be valid JSON", nil), h.logger)
		return
	}

	if err := h.admin.UpdateStatus(r.Context(), receiptNumber, req.Status); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, AdminActionResponse{
		Status:        "success",
		ReceiptNumber: receiptNumber,
	}, h.logger)
}
