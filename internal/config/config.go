package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Ledger backends selectable via LEDGER_BACKEND
const (
	LedgerBackendSheets   = "sheets"
	LedgerBackendPostgres = "postgres"
)

// Tracking keys: which identifier the campaign uses to look up a
// participant's submission history.
const (
	TrackingKeyNRIC  = "nric"
	TrackingKeyPhone = "phone"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	RedisURL string

	LedgerBackend string
	DatabaseURL   string

	GoogleCredentialsFile string
	SpreadsheetID         string
	SheetName             string
	DriveFolderID         string

	AdminJWTSecret string

	// Campaign rules. Injected here so business logic never hard-codes them.
	PromoStart             time.Time
	PromoEnd               time.Time
	TrackingKey            string
	OwnerIDPattern         string
	PhonePattern           string
	RequireEmail           bool
	RequirePhone           bool
	MaxImageBytes          int64
	AllowedImageMIMEPrefix string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	promoStart, err := parseDate(getEnv("PROMO_START", "2025-12-26"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROMO_START: %w", err)
	}
	promoEnd, err := parseDate(getEnv("PROMO_END", "2026-02-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROMO_END: %w", err)
	}
	if promoEnd.Before(promoStart) {
		return nil, fmt.Errorf("PROMO_END %s is before PROMO_START %s", promoEnd.Format("2006-01-02"), promoStart.Format("2006-01-02"))
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		RedisURL: getEnv("REDIS_URL", ""),

		LedgerBackend: getEnv("LEDGER_BACKEND", LedgerBackendSheets),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		SheetName:             getEnv("SHEET_NAME", "Submissions"),
		DriveFolderID:         getEnv("DRIVE_FOLDER_ID", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		PromoStart:             promoStart,
		PromoEnd:               promoEnd,
		TrackingKey:            getEnv("TRACKING_KEY", TrackingKeyNRIC),
		OwnerIDPattern:         getEnv("OWNER_ID_PATTERN", `^\d{12}$`),
		PhonePattern:           getEnv("PHONE_PATTERN", `^\+60\d{9,10}$`),
		RequireEmail:           getBoolEnv("REQUIRE_EMAIL", true),
		RequirePhone:           getBoolEnv("REQUIRE_PHONE", true),
		MaxImageBytes:          getInt64Env("MAX_IMAGE_BYTES", 5*1024*1024),
		AllowedImageMIMEPrefix: getEnv("ALLOWED_IMAGE_MIME_PREFIX", "image/"),
	}

	switch cfg.LedgerBackend {
	case LedgerBackendSheets, LedgerBackendPostgres:
	default:
		return nil, fmt.Errorf("unknown LEDGER_BACKEND %q", cfg.LedgerBackend)
	}

	switch cfg.TrackingKey {
	case TrackingKeyNRIC, TrackingKeyPhone:
	default:
		return nil, fmt.Errorf("unknown TRACKING_KEY %q", cfg.TrackingKey)
	}

	return cfg, nil
}

// parseDate parses a calendar date in 2006-01-02 form
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getInt64Env gets an integer environment variable with a fallback value
func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
