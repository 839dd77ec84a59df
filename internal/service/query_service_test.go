package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-api/internal/domain"
	apperrors "promo-api/pkg/errors"
)

func seededLedger() *fakeLedger {
	return &fakeLedger{entries: []*domain.Entry{
		{
			Timestamp:     time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
			FullName:      "Aisyah Rahman",
			OwnerID:       "990101105678",
			ReceiptNumber: "RC-1",
			Status:        domain.StatusVerified,
			IsWinner:      true,
		},
		{
			Timestamp:     time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC),
			FullName:      "Mei Ling Tan",
			OwnerID:       "880202085432",
			ReceiptNumber: "RC-2",
			Status:        domain.StatusSubmitted,
		},
		{
			Timestamp:     time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC),
			FullName:      "Aisyah Rahman",
			OwnerID:       "990101105678",
			ReceiptNumber: "RC-3",
			Status:        domain.StatusSubmitted,
		},
		{
			Timestamp:     time.Date(2026, 1, 13, 11, 0, 0, 0, time.UTC),
			FullName:      "Kumar Raj",
			OwnerID:       "770303071234",
			ReceiptNumber: "RC-4",
			Status:        domain.StatusVerified,
			IsWinner:      true,
		},
	}}
}

func TestWinnersReturnsFlaggedEntriesInOrder(t *testing.T) {
	svc := NewQueryService(seededLedger(), nil, testLogger(t))

	winners, err := svc.Winners(context.Background())
	require.NoError(t, err)

	require.Len(t, winners, 2)
	assert.Equal(t, "RC-1", winners[0].ReceiptNumber)
	assert.Equal(t, "Aisyah Rahman", winners[0].Name)
	assert.Equal(t, "RC-4", winners[1].ReceiptNumber)
}

func TestWinnersEmptyWhenNoneFlagged(t *testing.T) {
	ledger := seededLedger()
	for _, e := range ledger.entries {
		e.IsWinner = false
	}

	svc := NewQueryService(ledger, nil, testLogger(t))

	winners, err := svc.Winners(context.Background())
	require.NoError(t, err)
	assert.Empty(t, winners)
	assert.NotNil(t, winners)
}

func TestWinnersServedFromCacheOnSecondRead(t *testing.T) {
	ledger := seededLedger()
	cache, _ := testCache(t)

	svc := NewQueryService(ledger, cache, testLogger(t))

	first, err := svc.Winners(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Break the ledger; the cached projection must still serve
	ledger.failAll = true

	second, err := svc.Winners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQueryLedgerFailureIsStorageFault(t *testing.T) {
	ledger := seededLedger()
	ledger.failAll = true
	svc := NewQueryService(ledger, nil, testLogger(t))

	_, winnersErr := svc.Winners(context.Background())
	_, ownerErr := svc.SubmissionsByOwner(context.Background(), "990101105678")
	_, receiptErr := svc.ReceiptExists(context.Background(), "RC-2")

	for _, err := range []error{winnersErr, ownerErr, receiptErr} {
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrorTypeStorage, appErr.Type)
	}
}

func TestSubmissionsByOwnerTrimMatch(t *testing.T) {
	svc := NewQueryService(seededLedger(), nil, testLogger(t))

	subs, err := svc.SubmissionsByOwner(context.Background(), "  990101105678  ")
	require.NoError(t, err)

	require.Len(t, subs, 2)
	assert.Equal(t, "RC-1", subs[0].ReceiptNumber)
	assert.Equal(t, domain.StatusVerified, subs[0].Status)
	assert.Equal(t, "RC-3", subs[1].ReceiptNumber)
}

func TestSubmissionsByOwnerUnknownOwner(t *testing.T) {
	svc := NewQueryService(seededLedger(), nil, testLogger(t))

	subs, err := svc.SubmissionsByOwner(context.Background(), "000000000000")
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.NotNil(t, subs)
}

func TestSubmissionsByOwnerBlankInput(t *testing.T) {
	svc := NewQueryService(seededLedger(), nil, testLogger(t))

	subs, err := svc.SubmissionsByOwner(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestReceiptExists(t *testing.T) {
	svc := NewQueryService(seededLedger(), nil, testLogger(t))

	tests := []struct {
		name    string
		receipt string
		want    bool
	}{
		{"known receipt", "RC-2", true},
		{"known receipt with padding", "  RC-2  ", true},
		{"unknown receipt", "RC-999", false},
		{"empty input", "", false},
		{"whitespace input", "   ", false},
		{"case sensitive", "rc-2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := svc.ReceiptExists(context.Background(), tt.receipt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestReceiptExistsPopulatesCache(t *testing.T) {
	ledger := seededLedger()
	cache, mr := testCache(t)

	svc := NewQueryService(ledger, cache, testLogger(t))

	exists, err := svc.ReceiptExists(context.Background(), "RC-2")
	require.NoError(t, err)
	require.True(t, exists)
	assert.True(t, mr.Exists("staging:entry:receipt:RC-2:seen"))

	// Served from cache even when the ledger is down
	ledger.failAll = true
	exists, err = svc.ReceiptExists(context.Background(), "RC-2")
	require.NoError(t, err)
	assert.True(t, exists)
}
