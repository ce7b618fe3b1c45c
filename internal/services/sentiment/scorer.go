package sentiment

import (
	"math/rand"
	"strings"

	domain "stockai/internal/domain/sentiment"
)

// Saturation constants: confidence reaches 1.0 once this many items
// back a source's score, independent of their content.
const (
	disclosureSaturation = 10
	newsSaturation       = 15
	socialSaturation     = 30
)

// Scorer converts raw source payloads into normalized scores. Pure
// transformation, no I/O, never fails. The rand source is injectable
// so tests run deterministically.
type Scorer struct {
	rng func() float64 // uniform [0,1)
}

// NewScorer creates a scorer with the default rand source.
func NewScorer() *Scorer {
	return &Scorer{rng: rand.Float64}
}

// NewScorerWithRand creates a scorer with a caller-supplied rand source.
func NewScorerWithRand(rng func() float64) *Scorer {
	return &Scorer{rng: rng}
}

// Score produces a normalized score for one payload. An empty payload
// yields a zero score with the payload's provenance preserved.
func (s *Scorer) Score(p domain.Payload) domain.Score {
	var sc domain.Score
	switch p.Kind {
	case domain.SourceDisclosure, domain.SourceFinancial:
		sc = s.scoreDisclosures(p.Items)
	case domain.SourceNews:
		sc = s.scoreNews(p.Items)
	case domain.SourceReddit, domain.SourceStockTwits, domain.SourceTwitter:
		sc = s.scoreSocial(p.Items)
	default:
		sc = s.scoreNews(p.Items)
	}
	sc.Provenance = p.Provenance
	return sc
}

// scoreDisclosures scans the most recent filings. Dominant keyword
// polarity wins per title; titles with no signal get a small jitter so
// a batch of routine filings does not collapse to an all-zero average.
func (s *Scorer) scoreDisclosures(items []domain.Item) domain.Score {
	if len(items) == 0 {
		return domain.Score{}
	}

	scanned := items
	if len(scanned) > disclosureSaturation {
		scanned = scanned[:disclosureSaturation]
	}

	var sum float64
	for _, item := range scanned {
		title := strings.ToLower(item.Title + item.Body)

		pos := countMatches(title, disclosurePositive)
		neg := countMatches(title, disclosureNegative)
		neutral := countMatches(title, disclosureNeutral)

		var score float64
		switch {
		case pos > neg:
			score = min(0.8, float64(pos)*0.7)
		case neg > pos:
			score = max(-0.8, -float64(neg)*0.7)
		case neutral > 0:
			score = s.uniform(-0.25, 0.25)
		default:
			score = s.uniform(-0.15, 0.15)
		}
		sum += score
	}

	return domain.Score{
		Sentiment:  clamp(sum/float64(len(scanned)), -1, 1),
		Confidence: min(1.0, float64(len(scanned))/disclosureSaturation),
		ItemCount:  len(items),
	}
}

// scoreNews scores each headline independently: strong keyword matches,
// weak mixed-keyword nudges, then the special pattern table on top.
func (s *Scorer) scoreNews(items []domain.Item) domain.Score {
	if len(items) == 0 {
		return domain.Score{}
	}

	scanned := items
	if len(scanned) > newsSaturation {
		scanned = scanned[:newsSaturation]
	}

	var sum float64
	for _, item := range scanned {
		title := strings.ToLower(item.Title)

		var score float64

		if pos := countMatches(title, newsPositive); pos > 0 {
			score += min(1.0, float64(pos)*0.8)
		}
		if neg := countMatches(title, newsNegative); neg > 0 {
			score -= min(1.0, float64(neg)*0.8)
		}

		for _, mk := range newsMixed {
			if strings.Contains(title, mk.keyword) {
				score += mk.delta
			}
		}

		for _, sp := range newsSpecials {
			if !containsAny(title, sp.patterns) {
				continue
			}
			if len(sp.requires) > 0 && !containsAny(title, sp.requires) {
				continue
			}
			score += sp.delta
		}

		sum += score
	}

	return domain.Score{
		Sentiment:  clamp(sum/float64(len(scanned)), -1, 1),
		Confidence: min(1.0, float64(len(scanned))/newsSaturation),
		ItemCount:  len(items),
	}
}

// scoreSocial computes an engagement-weighted average over posts.
// A post's own sentiment value wins when present; otherwise a quick
// emoji/keyword scan fills in. Zero total engagement falls back to the
// unweighted mean.
func (s *Scorer) scoreSocial(items []domain.Item) domain.Score {
	if len(items) == 0 {
		return domain.Score{}
	}

	type weighted struct {
		sentiment  float64
		engagement float64
	}

	posts := make([]weighted, 0, len(items))
	var totalEngagement float64

	for _, item := range items {
		var sentiment float64
		if item.Sentiment != nil {
			sentiment = *item.Sentiment
		} else {
			sentiment = quickSentiment(strings.ToLower(item.Title + " " + item.Body))
		}

		engagement := float64(item.Score + item.Comments)
		posts = append(posts, weighted{sentiment, engagement})
		totalEngagement += engagement
	}

	var avg float64
	if totalEngagement > 0 {
		var sum float64
		for _, p := range posts {
			sum += p.sentiment * p.engagement
		}
		avg = sum / totalEngagement
	} else {
		var sum float64
		for _, p := range posts {
			sum += p.sentiment
		}
		avg = sum / float64(len(posts))
	}

	return domain.Score{
		Sentiment:  clamp(avg, -1, 1),
		Confidence: min(1.0, float64(len(items))/socialSaturation),
		ItemCount:  len(items),
	}
}

// quickSentiment is the rule-based fallback for posts without an
// explicit sentiment value.
func quickSentiment(text string) float64 {
	var bullish, bearish int

	bullish += countMatches(text, bullishEmojis)
	bearish += countMatches(text, bearishEmojis)
	bullish += countMatches(text, bullishKeywords)
	bearish += countMatches(text, bearishKeywords)

	switch {
	case bullish > bearish:
		return min(1.0, float64(bullish)*0.2)
	case bearish > bullish:
		return max(-1.0, -float64(bearish)*0.2)
	default:
		return 0.0
	}
}

func (s *Scorer) uniform(lo, hi float64) float64 {
	return lo + s.rng()*(hi-lo)
}

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

func containsAny(text string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
