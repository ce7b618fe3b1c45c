package sentiment

import (
	"context"
	"fmt"
	"sort"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/logger"
)

// sourceWeights is the fixed a priori trust table. Official filings
// outrank news, news outranks casual social chatter.
var sourceWeights = map[domain.SourceKind]float64{
	domain.SourceDisclosure: 1.5,
	domain.SourceFinancial:  1.2,
	domain.SourceNews:       1.0,
	domain.SourceStockTwits: 0.8,
	domain.SourceReddit:     0.7,
	domain.SourceTwitter:    0.6,
}

const defaultSourceWeight = 0.5

// Label thresholds, inclusive on the lower bound.
var labelThresholds = []struct {
	min   float64
	label domain.Label
}{
	{0.6, domain.LabelVeryPositive},
	{0.2, domain.LabelPositive},
	{-0.2, domain.LabelNeutral},
	{-0.6, domain.LabelNegative},
}

// Subject identifies what is being analyzed, for recommendation context.
type Subject struct {
	Symbol string
	Name   string
}

// Aggregator combines per-source scores into one overall result.
// Total function: any subset of sources, including none, yields a
// well-formed result.
type Aggregator struct {
	recommender Recommender
	log         *logger.Logger
}

// NewAggregator creates an aggregator. A nil recommender falls back to
// canned templates.
func NewAggregator(rec Recommender) *Aggregator {
	if rec == nil {
		rec = NewTemplateRecommender()
	}
	return &Aggregator{
		recommender: rec,
		log:         logger.Get().With("component", "sentiment_aggregator"),
	}
}

// Aggregate combines the given source scores. Missing sources simply do
// not contribute; order of map iteration never affects the result.
func (a *Aggregator) Aggregate(ctx context.Context, subject Subject, scores map[domain.SourceKind]domain.Score) domain.AggregateResult {
	overall := weightedSentiment(scores)

	result := domain.AggregateResult{
		OverallSentiment: overall,
		Label:            LabelFor(overall),
		Confidence:       aggregateConfidence(scores),
		PerSource:        copyScores(scores),
		KeyFactors:       keyFactors(scores),
	}

	recommendation, err := a.recommender.Recommend(ctx, subject, overall, scores)
	if err != nil {
		// The template path cannot fail; delegate implementations fall
		// back internally, so this is belt and braces.
		a.log.Warnf("Recommendation failed for %s: %v", subject.Symbol, err)
		recommendation, _ = NewTemplateRecommender().Recommend(ctx, subject, overall, scores)
	}
	result.Recommendation = recommendation

	return result
}

// weightedSentiment computes the confidence-adjusted weighted average.
// Returns 0.0 when no source carries weight.
func weightedSentiment(scores map[domain.SourceKind]domain.Score) float64 {
	var weightedSum, totalWeight float64

	for kind, score := range scores {
		weight, ok := sourceWeights[kind]
		if !ok {
			weight = defaultSourceWeight
		}

		effective := weight * score.Confidence
		weightedSum += score.Sentiment * effective
		totalWeight += effective
	}

	if totalWeight <= 0 {
		return 0.0
	}
	return clamp(weightedSum/totalWeight, -1, 1)
}

// aggregateConfidence is the mean per-source confidence plus a diversity
// bonus of 0.1 per distinct source, capped at 0.3.
func aggregateConfidence(scores map[domain.SourceKind]domain.Score) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var sum float64
	for _, score := range scores {
		sum += score.Confidence
	}
	avg := sum / float64(len(scores))

	bonus := min(0.3, float64(len(scores))*0.1)
	return min(1.0, avg+bonus)
}

// LabelFor maps an overall sentiment value to its bucket.
func LabelFor(sentiment float64) domain.Label {
	for _, t := range labelThresholds {
		if sentiment >= t.min {
			return t.label
		}
	}
	return domain.LabelVeryNegative
}

// keyFactors ranks sources by |sentiment| x confidence, keeps the top
// 3 slots, and emits a phrase for each slot whose |sentiment| exceeds
// 0.3. A weak source inside the top 3 still occupies its slot;
// lower-ranked sources are never promoted. Never padded.
func keyFactors(scores map[domain.SourceKind]domain.Score) []string {
	type ranked struct {
		kind  domain.SourceKind
		score domain.Score
	}

	sources := make([]ranked, 0, len(scores))
	for kind, score := range scores {
		sources = append(sources, ranked{kind, score})
	}

	sort.Slice(sources, func(i, j int) bool {
		wi := abs(sources[i].score.Sentiment) * sources[i].score.Confidence
		wj := abs(sources[j].score.Sentiment) * sources[j].score.Confidence
		if wi != wj {
			return wi > wj
		}
		return sources[i].kind < sources[j].kind
	})

	if len(sources) > 3 {
		sources = sources[:3]
	}

	factors := make([]string, 0, 3)
	for _, src := range sources {
		if abs(src.score.Sentiment) <= 0.3 {
			continue
		}
		factors = append(factors, factorPhrase(src.kind, src.score.Sentiment))
	}
	return factors
}

func factorPhrase(kind domain.SourceKind, sentiment float64) string {
	positive := sentiment > 0
	switch kind {
	case domain.SourceDisclosure:
		if positive {
			return "공시: 긍정적 내용 다수"
		}
		return "공시: 부정적 내용 다수"
	case domain.SourceNews:
		if positive {
			return "뉴스: 호재 보도 집중"
		}
		return "뉴스: 악재 보도 집중"
	case domain.SourceReddit:
		if positive {
			return "Reddit: 매수 심리 우세"
		}
		return "Reddit: 매도 심리 우세"
	case domain.SourceStockTwits:
		if positive {
			return "StockTwits: 강세 전망"
		}
		return "StockTwits: 약세 전망"
	case domain.SourceFinancial:
		if positive {
			return "재무: 펀더멘털 양호"
		}
		return "재무: 펀더멘털 부진"
	default:
		if positive {
			return fmt.Sprintf("%s: 긍정 신호 우세", kind)
		}
		return fmt.Sprintf("%s: 부정 신호 우세", kind)
	}
}

func copyScores(scores map[domain.SourceKind]domain.Score) map[domain.SourceKind]domain.Score {
	out := make(map[domain.SourceKind]domain.Score, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
