package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

// respondJSON writes a JSON body with the given status code
func respondJSON(w http.ResponseWriter, status int, body interface{}, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// respondError writes the structured error envelope. Non-AppError values are
// masked as internal errors so backend details never reach the client.
func respondError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Info("Request rejected")
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.GetReqID(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response, log)
}
