package service

import (
	"context"
	"strings"

	"promo-api/internal/domain"
	"promo-api/internal/repository"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
	"promo-api/pkg/utils"
)

// queryService serves the campaign read paths off the ledger, with the
// winners projection cached because it backs the public winners page.
type queryService struct {
	ledger repository.Ledger
	cache  *CacheService // nil when Redis is not configured
	logger *logger.Logger
}

// NewQueryService creates the campaign read service
func NewQueryService(ledger repository.Ledger, cache *CacheService, log *logger.Logger) QueryService {
	return &queryService{
		ledger: ledger,
		cache:  cache,
		logger: log,
	}
}

func (s *queryService) Winners(ctx context.Context) ([]*domain.Winner, error) {
	if s.cache != nil {
		if winners := s.cache.GetWinners(ctx); winners != nil {
			return winners, nil
		}
	}

	entries, err := s.ledger.ScanAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("winners list is temporarily unavailable", err)
	}

	winners := make([]*domain.Winner, 0)
	for _, entry := range entries {
		if !entry.IsWinner {
			continue
		}
		winners = append(winners, &domain.Winner{
			Name:          entry.FullName,
			OwnerID:       entry.OwnerID,
			ReceiptNumber: entry.ReceiptNumber,
		})
	}

	if s.cache != nil {
		s.cache.SetWinners(ctx, winners)
	}
	return winners, nil
}

func (s *queryService) SubmissionsByOwner(ctx context.Context, ownerID string) ([]*domain.OwnerSubmission, error) {
	target := strings.TrimSpace(ownerID)
	if target == "" {
		return []*domain.OwnerSubmission{}, nil
	}

	entries, err := s.ledger.ScanAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("submission history is temporarily unavailable", err)
	}

	submissions := make([]*domain.OwnerSubmission, 0)
	for _, entry := range entries {
		if strings.TrimSpace(entry.OwnerID) != target {
			continue
		}
		submissions = append(submissions, &domain.OwnerSubmission{
			OwnerID:       entry.OwnerID,
			Name:          entry.FullName,
			SubmittedAt:   entry.Timestamp,
			ReceiptNumber: entry.ReceiptNumber,
			Status:        entry.Status,
		})
	}
	return submissions, nil
}

func (s *queryService) ReceiptExists(ctx context.Context, receiptNumber string) (bool, error) {
	target := utils.NormalizeReceiptNumber(receiptNumber)
	if target == "" {
		return false, nil
	}

	if s.cache != nil && s.cache.ReceiptSeen(ctx, target) {
		return true, nil
	}

	entry, err := s.ledger.FindByReceipt(ctx, target)
	if err != nil {
		return false, apperrors.NewStorageError("receipt check is temporarily unavailable", err)
	}
	if entry == nil {
		return false, nil
	}

	if s.cache != nil {
		s.cache.MarkReceiptSeen(ctx, target)
	}
	return true, nil
}
