package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockai/internal/services/analysis"
	"stockai/pkg/errors"
)

type stubAnalyzer struct {
	report *analysis.Report
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, message string) (*analysis.Report, error) {
	return s.report, s.err
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{
		report: &analysis.Report{Message: "보고서", Reliability: "high"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"삼성전자 어때?"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "보고서", resp.Result.Message)
}

func TestAnalyzeHandlerRejectsEmptyMessage(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerRejectsGet(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeHandlerNoEntity(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{err: errors.ErrNoStockEntity})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"안녕"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "no stock entity")
}

func TestAnalyzeHandlerInternalError(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalyzer{err: errors.ErrInternal})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"삼성전자"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
