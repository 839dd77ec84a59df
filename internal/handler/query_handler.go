package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"promo-api/internal/service"
	"promo-api/pkg/logger"
)

// QueryHandler handles the campaign read endpoints
type QueryHandler struct {
	queries service.QueryService
	logger  *logger.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries service.QueryService, log *logger.Logger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		logger:  log,
	}
}

// DataResponse wraps read results in the success envelope
type DataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ReceiptCheckResponse reports whether a receipt number is taken
type ReceiptCheckResponse struct {
	Status string `json:"status"`
	Exists bool   `json:"exists"`
}

// Winners handles GET /api/winners
func (h *QueryHandler) Winners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.queries.Winners(r.Context())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Status: "success", Data: winners}, h.logger)
}

// SubmissionsByOwner handles GET /api/submissions/{ownerID}
func (h *QueryHandler) SubmissionsByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")

	submissions, err := h.queries.SubmissionsByOwner(r.Context(), ownerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Status: "success", Data: submissions}, h.logger)
}

// CheckReceipt handles GET /api/receipts/check?receipt_number=...
// A blank receipt number reads as not taken rather than an error, matching
// the form client which polls this while the user types.
func (h *QueryHandler) CheckReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNumber := r.URL.Query().Get("receipt_number")

	exists, err := h.queries.ReceiptExists(r.Context(), receiptNumber)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, ReceiptCheckResponse{Status: "success", Exists: exists}, h.logger)
}
