package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-api/pkg/logger"
)

func corsHandler(t *testing.T, origins []string) http.Handler {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)

	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = origins

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return CORS(cfg, log)(next)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := corsHandler(t, []string{"https://promo.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/winners", nil)
	req.Header.Set("Origin", "https://promo.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://promo.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	handler := corsHandler(t, []string{"https://promo.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/winners", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	handler := corsHandler(t, []string{"https://promo.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/submissions", nil)
	req.Header.Set("Origin", "https://promo.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
