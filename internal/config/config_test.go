package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, LedgerBackendSheets, cfg.LedgerBackend)
	assert.Equal(t, TrackingKeyNRIC, cfg.TrackingKey)
	assert.Equal(t, "Submissions", cfg.SheetName)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxImageBytes)
	assert.Equal(t, time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), cfg.PromoStart)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), cfg.PromoEnd)
	assert.True(t, cfg.RequireEmail)
}

func TestLoadPromoWindowOverride(t *testing.T) {
	t.Setenv("PROMO_START", "2026-03-01")
	t.Setenv("PROMO_END", "2026-03-31")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", cfg.PromoStart.Format("2006-01-02"))
	assert.Equal(t, "2026-03-31", cfg.PromoEnd.Format("2006-01-02"))
}

func TestLoadRejectsInvertedPromoWindow(t *testing.T) {
	t.Setenv("PROMO_START", "2026-03-31")
	t.Setenv("PROMO_END", "2026-03-01")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROMO_END")
}

func TestLoadRejectsMalformedPromoDate(t *testing.T) {
	t.Setenv("PROMO_START", "26/12/2025")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLedgerBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "dynamo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_BACKEND")
}

func TestLoadRejectsUnknownTrackingKey(t *testing.T) {
	t.Setenv("TRACKING_KEY", "passport")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACKING_KEY")
}

func TestParseOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://promo.example.com , https://www.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://promo.example.com", "https://www.example.com"}, cfg.AllowedOrigins)
}
