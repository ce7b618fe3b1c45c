package api

import (
	"context"
	"encoding/json"
	"net/http"

	"stockai/internal/services/analysis"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// Analyzer runs the full pipeline for one chat query.
type Analyzer interface {
	Analyze(ctx context.Context, message string) (*analysis.Report, error)
}

// AnalyzeHandler serves the REST analysis endpoint.
type AnalyzeHandler struct {
	analyzer Analyzer
	log      *logger.Logger
}

// NewAnalyzeHandler creates the REST handler.
func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		log:      logger.Get().With("component", "api_analyze"),
	}
}

type analyzeRequest struct {
	Message string `json:"message"`
}

type analyzeResponse struct {
	Success bool             `json:"success"`
	Result  *analysis.Report `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/analyze.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, analyzeResponse{
			Success: false,
			Error:   "method not allowed",
		})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Success: false,
			Error:   "message is required",
		})
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "analysis failed"
		if errors.Is(err, errors.ErrNoStockEntity) {
			status = http.StatusUnprocessableEntity
			msg = "no stock entity found in query"
		} else {
			h.log.Errorf("Analysis failed: %v", err)
		}
		writeJSON(w, status, analyzeResponse{Success: false, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Result: report})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
