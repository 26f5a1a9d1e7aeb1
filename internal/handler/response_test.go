package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"docinsight/internal/domain"
	"docinsight/internal/handler"
	"docinsight/internal/llm"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidPolicy, http.StatusBadRequest, "INVALID_POLICY"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrTooManyFiles, http.StatusBadRequest, "TOO_MANY_FILES"},
		{domain.ErrNoFiles, http.StatusBadRequest, "NO_FILES"},
		{domain.ErrExtractionFailed, http.StatusUnprocessableEntity, "EXTRACTION_FAILED"},
		{domain.ErrEmptyDocument, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"},
		{domain.ErrMissingAPIKey, http.StatusBadRequest, "MISSING_API_KEY"},
		{domain.ErrInvalidAnalysisType, http.StatusBadRequest, "INVALID_ANALYSIS_TYPE"},
		{domain.ErrNoCriteria, http.StatusBadRequest, "NO_CRITERIA"},
		{domain.ErrEmptyQuery, http.StatusBadRequest, "EMPTY_QUERY"},
		{domain.ErrInvalidTool, http.StatusBadRequest, "INVALID_TOOL"},
		{domain.ErrLLMUnavailable, http.StatusBadGateway, "LLM_UNAVAILABLE"},
		{llm.NewRateLimitError("openai", errors.New("429"), 5), http.StatusTooManyRequests, "LLM_RATE_LIMITED"},
		{fmt.Errorf("processing a.pdf: %w", domain.ErrExtractionFailed), http.StatusUnprocessableEntity, "EXTRACTION_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestHandleError_RateLimitSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(c, fmt.Errorf("scoring: %w", llm.NewRateLimitError("all", errors.New("429"), 30)))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "LLM_RATE_LIMITED", errorCode(t, w))
}

func TestHandleError_InternalHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
