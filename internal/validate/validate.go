// Package validate holds the single source of truth for submission
// validation. The campaign previously drifted between per-client copies of
// these rules; every transport must go through Rules instead.
package validate

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"promo-api/internal/config"
	"promo-api/internal/domain"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/utils"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Candidate is a validated, normalized submission ready for the
// orchestrator. ImageData is decoded but not yet uploaded.
type Candidate struct {
	Entry     domain.Entry
	Timestamp *time.Time
	ImageData []byte
	ImageMIME string
	ImageName string
}

// Rules evaluates submission candidates against the configured campaign.
// All checks are pure and deterministic; no side effects, no network.
type Rules struct {
	promoStart   time.Time
	promoEnd     time.Time
	trackingKey  string
	ownerIDRe    *regexp.Regexp
	phoneRe      *regexp.Regexp
	requireEmail bool
	requirePhone bool
	maxImage     int64
	mimePrefix   string
}

// NewRules compiles the configured patterns into a rule set
func NewRules(cfg *config.Config) (*Rules, error) {
	ownerIDRe, err := regexp.Compile(cfg.OwnerIDPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id pattern: %w", err)
	}
	phoneRe, err := regexp.Compile(cfg.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid phone pattern: %w", err)
	}

	return &Rules{
		promoStart:   cfg.PromoStart,
		promoEnd:     cfg.PromoEnd,
		trackingKey:  cfg.TrackingKey,
		ownerIDRe:    ownerIDRe,
		phoneRe:      phoneRe,
		requireEmail: cfg.RequireEmail,
		requirePhone: cfg.RequirePhone,
		maxImage:     cfg.MaxImageBytes,
		mimePrefix:   cfg.AllowedImageMIMEPrefix,
	}, nil
}

// Validate checks a submission request and returns the normalized candidate,
// or a validation error with a human-readable reason.
func (r *Rules) Validate(req *domain.SubmissionRequest) (*Candidate, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("submission payload is required", nil)
	}

	segment := strings.TrimSpace(req.Segment)
	if segment == "" {
		return nil, invalid("segment is required")
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, invalid("full name is required")
	}

	ownerID, err := r.normalizeOwnerID(req.OwnerID)
	if err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" && r.requirePhone {
		return nil, invalid("mobile number is required")
	}
	if phone != "" {
		normalized, err := utils.NormalizePhoneNumber(phone)
		if err != nil || !r.phoneRe.MatchString(normalized) {
			return nil, invalid("mobile number format is invalid")
		}
		phone = normalized
	}

	email := strings.TrimSpace(req.Email)
	if email == "" && r.requireEmail {
		return nil, invalid("email address is required")
	}
	if email != "" && !emailRegex.MatchString(email) {
		return nil, invalid("email address format is invalid")
	}

	receiptNumber := utils.NormalizeReceiptNumber(req.ReceiptNumber)
	if receiptNumber == "" {
		return nil, invalid("receipt number is required")
	}

	receiptDate, err := r.parseReceiptDate(req.ReceiptDate)
	if err != nil {
		return nil, err
	}

	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, invalid("answer is required")
	}

	if !req.TermsAccepted {
		return nil, invalid("terms and conditions must be accepted")
	}

	imageMIME, imageData, err := r.parseImage(req.Image)
	if err != nil {
		return nil, err
	}

	var timestamp *time.Time
	if strings.TrimSpace(req.Timestamp) != "" {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Timestamp))
		if err != nil {
			return nil, invalid("timestamp must be RFC 3339")
		}
		timestamp = &ts
	}

	return &Candidate{
		Entry: domain.Entry{
			Segment:       segment,
			FullName:      fullName,
			OwnerID:       ownerID,
			Phone:         phone,
			Email:         email,
			ReceiptNumber: receiptNumber,
			ReceiptDate:   receiptDate,
			Answer:        answer,
			Status:        domain.StatusSubmitted,
		},
		Timestamp: timestamp,
		ImageData: imageData,
		ImageMIME: imageMIME,
		ImageName: strings.TrimSpace(req.ImageName),
	}, nil
}

// normalizeOwnerID validates the tracking identifier against the configured
// scheme: a 12-digit NRIC, or a Malaysian mobile number normalized to +60.
func (r *Rules) normalizeOwnerID(raw string) (string, error) {
	ownerID := strings.TrimSpace(raw)
	if ownerID == "" {
		return "", invalid("owner identifier is required")
	}

	if r.trackingKey == config.TrackingKeyPhone {
		normalized, err := utils.NormalizePhoneNumber(ownerID)
		if err != nil || !r.phoneRe.MatchString(normalized) {
			return "", invalid("owner identifier must be a valid mobile number")
		}
		return normalized, nil
	}

	if !r.ownerIDRe.MatchString(ownerID) {
		return "", invalid("owner identifier must be a 12-digit NRIC")
	}
	return ownerID, nil
}

// parseReceiptDate parses and range-checks the receipt date. Both window
// bounds are inclusive.
func (r *Rules) parseReceiptDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, invalid("receipt date is required")
	}

	date, err := time.Parse(domain.ReceiptDateLayout, value)
	if err != nil {
		return time.Time{}, invalid("receipt date must be in YYYY-MM-DD format")
	}

	if date.Before(r.promoStart) || date.After(r.promoEnd) {
		return time.Time{}, invalid(fmt.Sprintf(
			"receipt date must fall between %s and %s",
			r.promoStart.Format(domain.ReceiptDateLayout),
			r.promoEnd.Format(domain.ReceiptDateLayout)))
	}

	return date, nil
}

// parseImage decodes a base64 data URL and enforces MIME type and size
// limits before any network call is made.
func (r *Rules) parseImage(dataURL string) (string, []byte, error) {
	if strings.TrimSpace(dataURL) == "" {
		return "", nil, invalid("receipt image is required")
	}

	mime, payload, err := splitDataURL(dataURL)
	if err != nil {
		return "", nil, invalid("receipt image must be a base64 data URL")
	}

	if !strings.HasPrefix(mime, r.mimePrefix) {
		return "", nil, invalid("receipt image must be an image file")
	}

	// Cheap upper bound from the encoded length, so an oversized payload is
	// rejected without decoding it first.
	if estimated := int64(len(payload)) * 3 / 4; estimated > r.maxImage {
		return "", nil, r.imageTooLarge()
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, invalid("receipt image is not valid base64")
	}
	if int64(len(data)) > r.maxImage {
		return "", nil, r.imageTooLarge()
	}

	return mime, data, nil
}

func (r *Rules) imageTooLarge() error {
	return invalid(fmt.Sprintf("receipt image must be %d MB or smaller", r.maxImage/(1024*1024)))
}

// splitDataURL splits "data:<mime>;base64,<payload>" into its parts
func splitDataURL(dataURL string) (mime, payload string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", fmt.Errorf("not a data URL")
	}
	rest := strings.TrimPrefix(dataURL, "data:")

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("missing data URL payload")
	}

	mime, _, _ = strings.Cut(meta, ";")
	if mime == "" {
		return "", "", fmt.Errorf("missing data URL media type")
	}
	if !strings.Contains(meta, "base64") {
		return "", "", fmt.Errorf("data URL is not base64 encoded")
	}

	return mime, payload, nil
}

func invalid(reason string) error {
	return apperrors.NewValidationError(reason, nil)
}
