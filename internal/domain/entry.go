package domain

import (
	"strings"
	"time"
)

// Submission lifecycle status values stored in the ledger
const (
	StatusSubmitted = "Submitted"
	StatusVerified  = "Verified"
	StatusRejected  = "Rejected"
)

// ImageUploadFailedSentinel is recorded in ImageURL when the image store
// fails. The submission still proceeds; operators reconcile from logs.
const ImageUploadFailedSentinel = "Error uploading image"

// ReceiptDateLayout is the wire format for receipt dates
const ReceiptDateLayout = "2006-01-02"

// Entry is one stored submission record. Once appended it is immutable
// except for Status and IsWinner, which only the admin surface may change.
type Entry struct {
	Timestamp     time.Time `json:"timestamp"`
	Segment       string    `json:"segment"`
	FullName      string    `json:"full_name"`
	OwnerID       string    `json:"owner_id"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	ReceiptNumber string    `json:"receipt_number"`
	ReceiptDate   time.Time `json:"receipt_date"`
	ImageURL      string    `json:"image_url"`
	Answer        string    `json:"answer"`
	Status        string    `json:"status"`
	IsWinner      bool      `json:"is_winner"`
}

// SubmissionRequest is the inbound payload for a receipt submission.
// Image travels as a base64 data URL, mirroring the original form client.
type SubmissionRequest struct {
	Segment       string `json:"segment"`
	FullName      string `json:"full_name"`
	OwnerID       string `json:"owner_id"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ReceiptNumber string `json:"receipt_number"`
	ReceiptDate   string `json:"receipt_date"`
	Answer        string `json:"answer"`
	Image         string `json:"image"`
	ImageName     string `json:"image_name"`
	TermsAccepted bool   `json:"terms_accepted"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// Submission outcome statuses returned to the transport layer
const (
	SubmissionAccepted = "accepted"
	SubmissionRejected = "rejected"
	SubmissionFailed   = "failed"
)

// SubmissionResponse is the orchestrator's terminal result. Rejected is a
// business outcome; Failed is a fault and is safe to retry.
type SubmissionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RowID   int64  `json:"row_id,omitempty"`
}

// Winner is the public winners-list projection of an Entry
type Winner struct {
	Name          string `json:"name"`
	OwnerID       string `json:"owner_id"`
	ReceiptNumber string `json:"receipt_number"`
}

// OwnerSubmission is one row of a participant's submission history
type OwnerSubmission struct {
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	SubmittedAt   time.Time `json:"submitted_at"`
	ReceiptNumber string    `json:"receipt_number"`
	Status        string    `json:"status"`
}

// ParseWinnerFlag normalizes the weakly typed winner column. The backing
// sheet historically stored true, "TRUE" and "true" interchangeably; all are
// folded to a proper boolean here so the ambiguity never leaks past the
// ledger read boundary.
func ParseWinnerFlag(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
