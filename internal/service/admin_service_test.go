package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-api/internal/domain"
	apperrors "promo-api/pkg/errors"
)

func TestSetWinnerFlagsEntry(t *testing.T) {
	ledger := seededLedger()
	svc := NewAdminService(ledger, nil, testLogger(t))

	require.NoError(t, svc.SetWinner(context.Background(), "RC-2", true))
	assert.True(t, ledger.entries[1].IsWinner)

	require.NoError(t, svc.SetWinner(context.Background(), "RC-2", false))
	assert.False(t, ledger.entries[1].IsWinner)
}

func TestSetWinnerUnknownReceipt(t *testing.T) {
	svc := NewAdminService(seededLedger(), nil, testLogger(t))

	err := svc.SetWinner(context.Background(), "RC-999", true)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestSetWinnerInvalidatesWinnersCache(t *testing.T) {
	ledger := seededLedger()
	cache, mr := testCache(t)

	queries := NewQueryService(ledger, cache, testLogger(t))
	admin := NewAdminService(ledger, cache, testLogger(t))

	winners, err := queries.Winners(context.Background())
	require.NoError(t, err)
	require.Len(t, winners, 2)
	require.True(t, mr.Exists("staging:entry:winners"))

	require.NoError(t, admin.SetWinner(context.Background(), "RC-2", true))
	assert.False(t, mr.Exists("staging:entry:winners"))

	winners, err = queries.Winners(context.Background())
	require.NoError(t, err)
	assert.Len(t, winners, 3)
}

func TestUpdateStatus(t *testing.T) {
	ledger := seededLedger()
	svc := NewAdminService(ledger, nil, testLogger(t))

	require.NoError(t, svc.UpdateStatus(context.Background(), "RC-2", domain.StatusVerified))
	assert.Equal(t, domain.StatusVerified, ledger.entries[1].Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewAdminService(seededLedger(), nil, testLogger(t))

	err := svc.UpdateStatus(context.Background(), "RC-2", "Shipped")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestUpdateStatusUnknownReceipt(t *testing.T) {
	svc := NewAdminService(seededLedger(), nil, testLogger(t))

	err := svc.UpdateStatus(context.Background(), "RC-999", domain.StatusRejected)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestAdminBlankReceiptNumber(t *testing.T) {
	svc := NewAdminService(seededLedger(), nil, testLogger(t))

	assert.Error(t, svc.SetWinner(context.Background(), "  ", true))
	assert.Error(t, svc.UpdateStatus(context.Background(), "", domain.StatusVerified))
}
