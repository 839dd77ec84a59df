// Package drive stores receipt images in a Google Drive folder and shares
// them by link, so the image column in the ledger stays a plain URL that
// campaign staff can open directly.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"promo-api/pkg/logger"
)

// ImageStore uploads receipt images into a fixed Drive folder
type ImageStore struct {
	svc      *drive.Service
	folderID string
	logger   *logger.Logger
}

// NewImageStore creates a Drive-backed image store
func NewImageStore(ctx context.Context, client *http.Client, folderID string, log *logger.Logger) (*ImageStore, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &ImageStore{
		svc:      svc,
		folderID: folderID,
		logger:   log,
	}, nil
}

// Upload stores the image and returns its anyone-with-link view URL
func (s *ImageStore) Upload(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{s.folderID},
	}

	file, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	// Shared read-only by link; the ledger link must open without a Google
	// account.
	_, err = s.svc.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to share image: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"file_id": file.Id,
		"name":    name,
		"bytes":   len(data),
	}).Debug("receipt image uploaded")

	return file.WebViewLink, nil
}
