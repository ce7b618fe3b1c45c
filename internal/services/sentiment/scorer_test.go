package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockai/internal/domain/sentiment"
)

// midRand pins jitter to the middle of its band (zero).
func midRand() float64 { return 0.5 }

func floatPtr(v float64) *float64 { return &v }

func TestScoreEmptyPayload(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	for _, kind := range []domain.SourceKind{
		domain.SourceDisclosure,
		domain.SourceNews,
		domain.SourceReddit,
		domain.SourceStockTwits,
	} {
		score := scorer.Score(domain.Payload{Kind: kind, Provenance: domain.MockData})
		assert.Equal(t, 0.0, score.Sentiment, "kind %s", kind)
		assert.Equal(t, 0.0, score.Confidence, "kind %s", kind)
		assert.Equal(t, 0, score.ItemCount, "kind %s", kind)
		assert.Equal(t, domain.MockData, score.Provenance, "kind %s", kind)
	}
}

func TestScoreDisclosuresPositive(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	score := scorer.Score(domain.Payload{
		Kind:       domain.SourceDisclosure,
		Provenance: domain.RealData,
		Items: []domain.Item{
			{Title: "신제품 출시 공시"}, // two positive matches, capped at 0.8
		},
	})

	assert.InDelta(t, 0.8, score.Sentiment, 1e-9)
	assert.InDelta(t, 0.1, score.Confidence, 1e-9)
	assert.Equal(t, domain.RealData, score.Provenance)
}

func TestScoreDisclosuresNegative(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	score := scorer.Score(domain.Payload{
		Kind:       domain.SourceDisclosure,
		Provenance: domain.RealData,
		Items: []domain.Item{
			{Title: "해외 사업 철수"},
		},
	})

	assert.InDelta(t, -0.7, score.Sentiment, 1e-9)
}

func TestScoreDisclosuresNeutralJitterBands(t *testing.T) {
	// rng=0.75 sits three quarters into the band
	scorer := NewScorerWithRand(func() float64 { return 0.75 })

	withNeutralKeyword := scorer.Score(domain.Payload{
		Kind:  domain.SourceDisclosure,
		Items: []domain.Item{{Title: "분기 보고서 제출"}},
	})
	assert.InDelta(t, 0.125, withNeutralKeyword.Sentiment, 1e-9) // -0.25 + 0.75*0.5

	noSignal := scorer.Score(domain.Payload{
		Kind:  domain.SourceDisclosure,
		Items: []domain.Item{{Title: "zzz"}},
	})
	assert.InDelta(t, 0.075, noSignal.Sentiment, 1e-9) // -0.15 + 0.75*0.3
}

func TestScoreDisclosuresConfidenceSaturation(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	items := make([]domain.Item, 25)
	for i := range items {
		items[i] = domain.Item{Title: "신제품 출시"}
	}

	score := scorer.Score(domain.Payload{Kind: domain.SourceDisclosure, Items: items})

	assert.Equal(t, 1.0, score.Confidence)
	assert.Equal(t, 25, score.ItemCount)
	// Only the first 10 are scanned, all positive.
	assert.InDelta(t, 0.8, score.Sentiment, 1e-9)
}

func TestScoreNewsSpecialPatterns(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	tests := []struct {
		name     string
		title    string
		expected float64
	}{
		{"target price raised", "증권가 목표가 상향 조정", 0.7},
		{"mixed keyword only", "내년 업황 전망 발표", 0.05},
		{"gated pattern without co-occurrence", "트럼프 대통령 연설", 0.0},
		{"gated pattern with co-occurrence", "트럼프 발언에 삼성 투자자 촉각", -0.5},
		{"dividend", "주주환원 정책 확대 검토", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(domain.Payload{
				Kind:  domain.SourceNews,
				Items: []domain.Item{{Title: tt.title}},
			})
			assert.InDelta(t, tt.expected, score.Sentiment, 1e-9)
		})
	}
}

func TestScoreNewsClampsToRange(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	// Keyword hit plus two stacked special patterns pushes past -1.
	score := scorer.Score(domain.Payload{
		Kind:  domain.SourceNews,
		Items: []domain.Item{{Title: "외국인 매도 행렬에 급락"}},
	})

	require.GreaterOrEqual(t, score.Sentiment, -1.0)
	assert.Equal(t, -1.0, score.Sentiment)
}

func TestScoreNewsConfidence(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	items := make([]domain.Item, 6)
	score := scorer.Score(domain.Payload{Kind: domain.SourceNews, Items: items})

	assert.InDelta(t, 0.4, score.Confidence, 1e-9) // 6/15
}

func TestScoreSocialEngagementWeighted(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	score := scorer.Score(domain.Payload{
		Kind: domain.SourceReddit,
		Items: []domain.Item{
			{Sentiment: floatPtr(1.0), Score: 8, Comments: 2},
			{Sentiment: floatPtr(-1.0), Score: 0, Comments: 0},
		},
	})

	// The unengaged post contributes nothing to the weighted average.
	assert.InDelta(t, 1.0, score.Sentiment, 1e-9)
}

func TestScoreSocialZeroEngagementFallsBackToMean(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	score := scorer.Score(domain.Payload{
		Kind: domain.SourceStockTwits,
		Items: []domain.Item{
			{Sentiment: floatPtr(0.6)},
			{Sentiment: floatPtr(0.2)},
		},
	})

	assert.InDelta(t, 0.4, score.Sentiment, 1e-9)
	assert.InDelta(t, 2.0/30.0, score.Confidence, 1e-9)
}

func TestQuickSentiment(t *testing.T) {
	assert.InDelta(t, 0.4, quickSentiment("to the moon 🚀"), 1e-9)
	assert.InDelta(t, -0.6, quickSentiment("crash incoming, sell your puts"), 1e-9)
	assert.Equal(t, 0.0, quickSentiment("earnings call next week"))
}

func TestScoreSocialQuickFallbackForUnlabeledPosts(t *testing.T) {
	scorer := NewScorerWithRand(midRand)

	score := scorer.Score(domain.Payload{
		Kind: domain.SourceReddit,
		Items: []domain.Item{
			{Title: "buy the dip, going long 📈"},
		},
	})

	assert.InDelta(t, 0.6, score.Sentiment, 1e-9) // buy + long + 📈
}
