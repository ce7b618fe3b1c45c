package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/errors"
)

func TestTemplateRecommenderBuckets(t *testing.T) {
	rec := NewTemplateRecommender()

	tests := []struct {
		sentiment float64
		marker    string
	}{
		{0.7, "강한 매수 신호"},
		{0.5, "강한 매수 신호"},
		{0.3, "온건한 매수 기회"},
		{0.0, "관망 권장"},
		{-0.3, "주의 필요"},
		{-0.5, "주의 필요"},
		{-0.8, "위험 신호"},
	}

	for _, tt := range tests {
		text, err := rec.Recommend(context.Background(), Subject{}, tt.sentiment, nil)
		require.NoError(t, err)
		assert.Contains(t, text, tt.marker, "sentiment %v", tt.sentiment)
	}
}

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func TestDelegateRecommenderUsesProviderText(t *testing.T) {
	rec := NewDelegateRecommender(&stubGenerator{text: "generated analysis"}, time.Second)

	text, err := rec.Recommend(context.Background(), Subject{Symbol: "005930", Name: "삼성전자"}, 0.4, nil)

	require.NoError(t, err)
	assert.Equal(t, "generated analysis", text)
}

func TestDelegateRecommenderFallsBackOnError(t *testing.T) {
	rec := NewDelegateRecommender(&stubGenerator{err: errors.ErrUnavailable}, time.Second)

	text, err := rec.Recommend(context.Background(), Subject{Symbol: "AAPL"}, 0.7, nil)

	require.NoError(t, err)
	assert.Contains(t, text, "강한 매수 신호")
}

func TestDelegateRecommenderFallsBackOnEmptyText(t *testing.T) {
	rec := NewDelegateRecommender(&stubGenerator{text: ""}, time.Second)

	text, err := rec.Recommend(context.Background(), Subject{}, -0.8, nil)

	require.NoError(t, err)
	assert.Contains(t, text, "위험 신호")
}

func TestBuildRecommendationPromptIncludesScores(t *testing.T) {
	scores := map[domain.SourceKind]domain.Score{
		domain.SourceNews: {Sentiment: 0.5, Confidence: 0.8},
	}

	prompt, err := buildRecommendationPrompt(Subject{Symbol: "005930", Name: "삼성전자"}, 0.42, scores)

	require.NoError(t, err)
	assert.Contains(t, prompt, "삼성전자(005930)")
	assert.Contains(t, prompt, "0.42")
	assert.Contains(t, prompt, "news")
}
