package service

import (
	"context"
	"errors"

	"promo-api/internal/domain"
	"promo-api/internal/repository"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
	"promo-api/pkg/utils"
)

// adminService applies operator edits to the ledger: winner selection and
// verification status. Every edit invalidates the winners cache so the
// public page reflects it within one read.
type adminService struct {
	ledger repository.Ledger
	cache  *CacheService // nil when Redis is not configured
	logger *logger.Logger
}

// NewAdminService creates the operator mutation service
func NewAdminService(ledger repository.Ledger, cache *CacheService, log *logger.Logger) AdminService {
	return &adminService{
		ledger: ledger,
		cache:  cache,
		logger: log,
	}
}

func (s *adminService) SetWinner(ctx context.Context, receiptNumber string, isWinner bool) error {
	target := utils.NormalizeReceiptNumber(receiptNumber)
	if target == "" {
		return apperrors.NewValidationError("receipt number is required", nil)
	}

	if err := s.ledger.SetWinner(ctx, target, isWinner); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return apperrors.NewNotFoundError("no entry with that receipt number")
		}
		return apperrors.NewStorageError("winner flag could not be updated", err)
	}

	if s.cache != nil {
		s.cache.InvalidateWinners(ctx)
	}

	s.logger.WithFields(map[string]interface{}{
		"receipt_number": target,
		"is_winner":      isWinner,
	}).Info("winner flag updated")
	return nil
}

func (s *adminService) UpdateStatus(ctx context.Context, receiptNumber, status string) error {
	target := utils.NormalizeReceiptNumber(receiptNumber)
	if target == "" {
		return apperrors.NewValidationError("receipt number is required", nil)
	}

	switch status {
	case domain.StatusSubmitted, domain.StatusVerified, domain.StatusRejected:
	default:
		return apperrors.NewValidationError("unknown submission status", map[string]interface{}{
			"status": status,
		})
	}

	if err := s.ledger.UpdateStatus(ctx, target, status); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return apperrors.NewNotFoundError("no entry with that receipt number")
		}
		return apperrors.NewStorageError("submission status could not be updated", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"receipt_number": target,
		"status":         status,
	}).Info("submission status updated")
	return nil
}
