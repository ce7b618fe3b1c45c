package agents

import (
	"context"
	"time"

	"stockai/internal/metrics"

	domain "stockai/internal/domain/sentiment"
)

// Query describes what a source agent should fetch.
type Query struct {
	Symbol   string // resolved market symbol, e.g. "005930.KS" or "AAPL"
	Name     string // display name, e.g. "삼성전자"
	IsKorean bool
}

// SourceAgent fetches one source's payload for a query. Fetch is total:
// network errors, timeouts, and missing credentials all degrade to a
// synthesized mock payload with identical shape, so callers only see
// the provenance tag change.
type SourceAgent interface {
	Kind() domain.SourceKind
	Fetch(ctx context.Context, q Query) domain.Payload
}

// observeFetch records metrics for one fetch attempt. fetchErr is the
// error that caused a mock fallback, nil on a real fetch.
func observeFetch(kind domain.SourceKind, provenance domain.Provenance, start time.Time, fetchErr error) {
	metrics.RecordSourceFetch(string(kind), string(provenance), time.Since(start), fetchErr)
}
