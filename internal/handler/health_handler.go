package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"promo-api/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health. The ledger check decides the overall status;
// a cache outage only degrades.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	ctx := r.Context()

	checks := map[string]string{}
	status := "healthy"
	code := http.StatusOK

	if err := h.container.GetLedger().Health(ctx); err != nil {
		logger.WithError(err).Error("Ledger health check failed")
		checks["ledger"] = "unreachable"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		checks["ledger"] = "ok"
	}

	if h.container.HasRedis() {
		if err := h.container.GetRedisClient().Health(ctx); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			checks["cache"] = "unreachable"
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["cache"] = "ok"
		}
	} else {
		checks["cache"] = "disabled"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   "promo-api",
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode health check response")
	}
}
