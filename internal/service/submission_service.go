package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promo-api/internal/domain"
	"promo-api/internal/repository"
	"promo-api/internal/validate"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

// submissionService runs the submission pipeline: validate, guard against
// in-flight duplicates, upload the receipt image and append to the ledger.
// The ledger append is the commit point; everything before it leaves no
// ledger trace, so any failure up to then is retryable.
type submissionService struct {
	rules  *validate.Rules
	ledger repository.Ledger
	images ImageStore
	cache  *CacheService // nil when Redis is not configured
	logger *logger.Logger
	now    func() time.Time
}

// NewSubmissionService creates the submission orchestrator
func NewSubmissionService(rules *validate.Rules, ledger repository.Ledger, images ImageStore, cache *CacheService, log *logger.Logger) SubmissionService {
	return &submissionService{
		rules:  rules,
		ledger: ledger,
		images: images,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, req *domain.SubmissionRequest) (*domain.SubmissionResponse, error) {
	candidate, err := s.rules.Validate(req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			return rejected(appErr.Message), nil
		}
		return nil, err
	}

	entry := &candidate.Entry
	if candidate.Timestamp != nil {
		entry.Timestamp = *candidate.Timestamp
	} else {
		entry.Timestamp = s.now()
	}

	log := s.logger.WithFields(map[string]interface{}{
		"receipt_number": entry.ReceiptNumber,
		"segment":        entry.Segment,
	})

	if s.cache != nil {
		if !s.cache.AcquireSubmitLock(ctx, entry.ReceiptNumber) {
			log.Info("submission already in flight")
			return rejected("a submission for this receipt is already being processed"), nil
		}

		if s.cache.ReceiptSeen(ctx, entry.ReceiptNumber) {
			log.Info("duplicate receipt rejected from cache")
			return rejected("this receipt number has already been submitted"), nil
		}
	}

	// The ledger is authoritative for duplicates. Checking here, before the
	// image upload, keeps the duplicate path free of writes; AppendIfAbsent
	// below remains the race-safe final gate.
	existing, err := s.ledger.FindByReceipt(ctx, entry.ReceiptNumber)
	if err != nil {
		if s.cache != nil {
			s.cache.ReleaseSubmitLock(ctx, entry.ReceiptNumber)
		}
		log.WithError(err).Error("duplicate check failed")
		return nil, apperrors.NewStorageError("submission could not be checked, please try again", err)
	}
	if existing != nil {
		if s.cache != nil {
			s.cache.MarkReceiptSeen(ctx, entry.ReceiptNumber)
		}
		log.Info("duplicate receipt rejected by ledger")
		return rejected("this receipt number has already been submitted"), nil
	}

	// Upload failures do not block the submission; the sentinel link marks
	// the row for manual reconciliation.
	entry.ImageURL = s.uploadImage(ctx, candidate, log)

	rowID, inserted, err := s.ledger.AppendIfAbsent(ctx, entry)
	if err != nil {
		if s.cache != nil {
			s.cache.ReleaseSubmitLock(ctx, entry.ReceiptNumber)
		}
		log.WithError(err).Error("ledger append failed")
		return nil, apperrors.NewStorageError("submission could not be stored, please try again", err)
	}

	if s.cache != nil {
		s.cache.MarkReceiptSeen(ctx, entry.ReceiptNumber)
	}

	if !inserted {
		log.Info("duplicate receipt rejected by ledger")
		return rejected("this receipt number has already been submitted"), nil
	}

	log.WithField("row_id", rowID).Info("submission accepted")
	return &domain.SubmissionResponse{
		Status:  domain.SubmissionAccepted,
		Message: "submission received",
		RowID:   rowID,
	}, nil
}

// uploadImage stores the receipt image, returning the sentinel link when the
// store is unavailable or the upload fails.
func (s *submissionService) uploadImage(ctx context.Context, candidate *validate.Candidate, log *logger.Logger) string {
	if s.images == nil {
		return domain.ImageUploadFailedSentinel
	}

	name := candidate.ImageName
	if name == "" {
		name = fmt.Sprintf("receipt-%s-%d", candidate.Entry.ReceiptNumber, candidate.Entry.Timestamp.Unix())
	}

	url, err := s.images.Upload(ctx, name, candidate.ImageMIME, candidate.ImageData)
	if err != nil {
		log.WithError(err).Warn("image upload failed, recording sentinel link")
		return domain.ImageUploadFailedSentinel
	}
	return url
}

func rejected(message string) *domain.SubmissionResponse {
	return &domain.SubmissionResponse{
		Status:  domain.SubmissionRejected,
		Message: message,
	}
}
