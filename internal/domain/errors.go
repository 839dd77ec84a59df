package domain

import "errors"

var (
	// ErrEntryNotFound is returned by ledger mutations targeting a receipt
	// number that has no stored entry.
	ErrEntryNotFound = errors.New("entry not found")
)
