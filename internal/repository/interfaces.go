package repository

import (
	"context"

	"promo-api/internal/domain"
)

// Ledger defines the interface for the entry ledger, the append-mostly store
// of campaign submissions. Implementations exist for Google Sheets (the
// original campaign store) and Postgres.
type Ledger interface {
	// Append stores a new entry unconditionally and returns its row ID
	Append(ctx context.Context, entry *domain.Entry) (int64, error)

	// AppendIfAbsent stores the entry only if no entry with the same receipt
	// number exists. It returns the row ID and whether the entry was inserted.
	// The check and insert are a single atomic step against the backing store.
	AppendIfAbsent(ctx context.Context, entry *domain.Entry) (int64, bool, error)

	// ScanAll returns every entry in insertion order
	ScanAll(ctx context.Context) ([]*domain.Entry, error)

	// FindByReceipt retrieves the entry with the given receipt number, or
	// (nil, nil) when none exists. Matching is trim-then-exact.
	FindByReceipt(ctx context.Context, receiptNumber string) (*domain.Entry, error)

	// SetWinner flips the winner flag for the entry with the given receipt
	// number. Returns domain.ErrEntryNotFound when no such entry exists.
	SetWinner(ctx context.Context, receiptNumber string, isWinner bool) error

	// UpdateStatus moves the entry with the given receipt number to a new
	// lifecycle status. Returns domain.ErrEntryNotFound when no such entry
	// exists.
	UpdateStatus(ctx context.Context, receiptNumber, status string) error

	// Health checks connectivity to the backing store
	Health(ctx context.Context) error
}
