package service

import (
	"context"

	"promo-api/internal/domain"
)

// ImageStore defines the interface for receipt image storage
type ImageStore interface {
	// Upload stores an image and returns a publicly shareable link
	Upload(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// SubmissionService defines the interface for receipt submission
type SubmissionService interface {
	// Submit runs a submission end to end: validation, duplicate suppression,
	// image upload and the ledger append. A non-nil response with status
	// "rejected" is a business outcome, not an error; errors mean the
	// submission could not be attempted and is safe to retry.
	Submit(ctx context.Context, req *domain.SubmissionRequest) (*domain.SubmissionResponse, error)
}

// QueryService defines the interface for campaign read operations
type QueryService interface {
	// Winners returns the public winners list in ledger order
	Winners(ctx context.Context) ([]*domain.Winner, error)

	// SubmissionsByOwner returns a participant's submission history in
	// ledger order
	SubmissionsByOwner(ctx context.Context, ownerID string) ([]*domain.OwnerSubmission, error)

	// ReceiptExists reports whether a receipt number is already in the
	// ledger. Blank input reads as absent.
	ReceiptExists(ctx context.Context, receiptNumber string) (bool, error)
}

// AdminService defines the interface for operator mutations
type AdminService interface {
	// SetWinner flips an entry's winner flag
	SetWinner(ctx context.Context, receiptNumber string, isWinner bool) error

	// UpdateStatus moves an entry to a new lifecycle status
	UpdateStatus(ctx context.Context, receiptNumber, status string) error
}

// Services aggregates all service interfaces
type Services struct {
	Submission SubmissionService
	Query      QueryService
	Admin      AdminService
}
