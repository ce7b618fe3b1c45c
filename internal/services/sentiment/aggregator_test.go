package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockai/internal/domain/sentiment"
)

func TestAggregateWeightedAverage(t *testing.T) {
	agg := NewAggregator(nil)

	scores := map[domain.SourceKind]domain.Score{
		domain.SourceDisclosure: {Sentiment: 0.8, Confidence: 0.9},
		domain.SourceNews:       {Sentiment: -0.2, Confidence: 0.5},
	}

	result := agg.Aggregate(context.Background(), Subject{Symbol: "005930"}, scores)

	// effective weights: 1.5*0.9=1.35, 1.0*0.5=0.5
	// overall = (0.8*1.35 - 0.2*0.5) / 1.85
	assert.InDelta(t, 0.541, result.OverallSentiment, 0.001)
	assert.Equal(t, domain.LabelPositive, result.Label)
}

func TestAggregateNoSources(t *testing.T) {
	agg := NewAggregator(nil)

	result := agg.Aggregate(context.Background(), Subject{Symbol: "AAPL"}, nil)

	assert.Equal(t, 0.0, result.OverallSentiment)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.KeyFactors)
	assert.Equal(t, domain.LabelNeutral, result.Label)
	assert.NotEmpty(t, result.Recommendation)
}

func TestAggregateZeroConfidenceSourceHasNoEffect(t *testing.T) {
	agg := NewAggregator(nil)

	base := map[domain.SourceKind]domain.Score{
		domain.SourceNews: {Sentiment: 0.4, Confidence: 0.8},
	}
	withDeadSource := map[domain.SourceKind]domain.Score{
		domain.SourceNews:       {Sentiment: 0.4, Confidence: 0.8},
		domain.SourceDisclosure: {Sentiment: -1.0, Confidence: 0.0},
	}

	a := agg.Aggregate(context.Background(), Subject{}, base)
	b := agg.Aggregate(context.Background(), Subject{}, withDeadSource)

	assert.Equal(t, a.OverallSentiment, b.OverallSentiment)
}

func TestAggregateAllZeroConfidence(t *testing.T) {
	agg := NewAggregator(nil)

	scores := map[domain.SourceKind]domain.Score{
		domain.SourceNews:       {Sentiment: 1.0, Confidence: 0.0},
		domain.SourceDisclosure: {Sentiment: -1.0, Confidence: 0.0},
	}

	result := agg.Aggregate(context.Background(), Subject{}, scores)
	assert.Equal(t, 0.0, result.OverallSentiment)
}

func TestAggregateRangeInvariant(t *testing.T) {
	agg := NewAggregator(nil)

	scores := map[domain.SourceKind]domain.Score{
		domain.SourceDisclosure: {Sentiment: 1.0, Confidence: 1.0},
		domain.SourceFinancial:  {Sentiment: 1.0, Confidence: 1.0},
		domain.SourceNews:       {Sentiment: 1.0, Confidence: 1.0},
		domain.SourceReddit:     {Sentiment: 1.0, Confidence: 1.0},
	}

	result := agg.Aggregate(context.Background(), Subject{}, scores)

	assert.LessOrEqual(t, result.OverallSentiment, 1.0)
	assert.GreaterOrEqual(t, result.OverallSentiment, -1.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
}

func TestLabelBoundaries(t *testing.T) {
	tests := []struct {
		sentiment float64
		expected  domain.Label
	}{
		{0.6, domain.LabelVeryPositive},
		{0.5999, domain.LabelPositive},
		{0.2, domain.LabelPositive},
		{0.1999, domain.LabelNeutral},
		{-0.2, domain.LabelNeutral},
		{-0.2001, domain.LabelNegative},
		{-0.6, domain.LabelNegative},
		{-0.6001, domain.LabelVeryNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelFor(tt.sentiment), "sentiment %v", tt.sentiment)
	}
}

func TestAggregateConfidenceDiversityBonus(t *testing.T) {
	scores := map[domain.SourceKind]domain.Score{
		domain.SourceNews:       {Confidence: 0.9},
		domain.SourceDisclosure: {Confidence: 0.5},
	}

	// mean 0.7 + two-source bonus 0.2
	assert.InDelta(t, 0.9, aggregateConfidence(scores), 1e-9)

	// Bonus caps at 0.3 and the total clamps at 1.0.
	many := map[domain.SourceKind]domain.Score{
		domain.SourceNews:       {Confidence: 0.9},
		domain.SourceDisclosure: {Confidence: 0.9},
		domain.SourceReddit:     {Confidence: 0.9},
		domain.SourceStockTwits: {Confidence: 0.9},
	}
	assert.Equal(t, 1.0, aggregateConfidence(many))
}

func TestKeyFactorsRankingAndThreshold(t *testing.T) {
	scores := map[domain.SourceKind]domain.Score{
		domain.SourceDisclosure: {Sentiment: 0.9, Confidence: 1.0},
		domain.SourceNews:       {Sentiment: -0.8, Confidence: 1.0},
		domain.SourceReddit:     {Sentiment: 0.5, Confidence: 1.0},
		domain.SourceStockTwits: {Sentiment: 0.4, Confidence: 1.0},
		domain.SourceFinancial:  {Sentiment: 0.2, Confidence: 1.0}, // below |0.3|, excluded
	}

	factors := keyFactors(scores)

	require.Len(t, factors, 3)
	assert.Equal(t, "공시: 긍정적 내용 다수", factors[0])
	assert.Equal(t, "뉴스: 악재 보도 집중", factors[1])
	assert.Equal(t, "Reddit: 매수 심리 우세", factors[2])
}

func TestKeyFactorsNeverPadded(t *testing.T) {
	scores := map[domain.SourceKind]domain.Score{
		domain.SourceNews:   {Sentiment: 0.31, Confidence: 0.5},
		domain.SourceReddit: {Sentiment: 0.1, Confidence: 1.0},
	}

	factors := keyFactors(scores)
	assert.Len(t, factors, 1)
}

func TestKeyFactorsWeakTopSourceHoldsItsSlot(t *testing.T) {
	// StockTwits ranks first by |s|x c but its sentiment sits on the 0.3
	// threshold, so its slot is dropped, not handed to 4th-ranked Reddit.
	scores := map[domain.SourceKind]domain.Score{
		domain.SourceStockTwits: {Sentiment: 0.3, Confidence: 1.0},  // 0.300
		domain.SourceDisclosure: {Sentiment: 0.9, Confidence: 0.31}, // 0.279
		domain.SourceNews:       {Sentiment: 0.8, Confidence: 0.30}, // 0.240
		domain.SourceReddit:     {Sentiment: 0.7, Confidence: 0.30}, // 0.210
	}

	factors := keyFactors(scores)

	require.Len(t, factors, 2)
	assert.Equal(t, "공시: 긍정적 내용 다수", factors[0])
	assert.Equal(t, "뉴스: 호재 보도 집중", factors[1])
	assert.NotContains(t, factors, "Reddit: 매수 심리 우세")
}

func TestAggregatePerSourceIsCopied(t *testing.T) {
	agg := NewAggregator(nil)

	scores := map[domain.SourceKind]domain.Score{
		domain.SourceNews: {Sentiment: 0.4, Confidence: 0.8},
	}

	result := agg.Aggregate(context.Background(), Subject{}, scores)

	scores[domain.SourceNews] = domain.Score{Sentiment: -1.0, Confidence: 1.0}
	assert.Equal(t, 0.4, result.PerSource[domain.SourceNews].Sentiment)
}
