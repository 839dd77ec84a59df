// Package gauth builds authorized HTTP clients for the Google APIs the
// service talks to (Sheets for the entry ledger, Drive for receipt images).
package gauth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes requested for the service account. Spreadsheets for ledger rows,
// Drive file scope for uploading receipt images and sharing them.
var scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveFileScope,
}

// NewHTTPClient reads a service-account credentials file and returns an
// authorized HTTP client suitable for both the Sheets and Drive services.
func NewHTTPClient(ctx context.Context, credentialsFile string) (*http.Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read Google credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return conf.Client(ctx), nil
}
