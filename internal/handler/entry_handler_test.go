package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-api/internal/domain"
	apperrors "promo-api/pkg/errors"
	"promo-api/pkg/logger"
)

type stubSubmissionService struct {
	resp    *domain.SubmissionResponse
	err     error
	lastReq *domain.SubmissionRequest
}

func (s *stubSubmissionService) Submit(ctx context.Context, req *domain.SubmissionRequest) (*domain.SubmissionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	return log
}

func TestSubmitAccepted(t *testing.T) {
	svc := &stubSubmissionService{resp: &domain.SubmissionResponse{
		Status:  domain.SubmissionAccepted,
		Message: "submission received",
		RowID:   7,
	}}
	h := NewEntryHandler(svc, testLog(t))

	body, _ := json.Marshal(domain.SubmissionRequest{
		FullName:      "Aisyah Rahman",
		ReceiptNumber: "RC-1001",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SubmissionAccepted, resp.Status)
	assert.Equal(t, int64(7), resp.RowID)

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "RC-1001", svc.lastReq.ReceiptNumber)
}

func TestSubmitRejectedBusinessOutcome(t *testing.T) {
	svc := &stubSubmissionService{resp: &domain.SubmissionResponse{
		Status:  domain.SubmissionRejected,
		Message: "this receipt number has already been submitted",
	}}
	h := NewEntryHandler(svc, testLog(t))

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.SubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SubmissionRejected, resp.Status)
	assert.Zero(t, resp.RowID)
}

func TestSubmitMalformedBody(t *testing.T) {
	svc := &stubSubmissionService{}
	h := NewEntryHandler(svc, testLog(t))

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastReq)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrorTypeValidation, resp.Error.Type)
}

func TestSubmitStorageFailure(t *testing.T) {
	svc := &stubSubmissionService{err: apperrors.NewStorageError("submission could not be stored, please try again", nil)}
	h := NewEntryHandler(svc, testLog(t))

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrorTypeStorage, resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "try again")
}
