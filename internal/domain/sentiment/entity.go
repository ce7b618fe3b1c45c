package sentiment

import "time"

// SourceKind identifies one external data provider category.
type SourceKind string

const (
	SourceDisclosure SourceKind = "disclosure"
	SourceFinancial  SourceKind = "financial"
	SourceNews       SourceKind = "news"
	SourceReddit     SourceKind = "reddit"
	SourceStockTwits SourceKind = "stocktwits"
	SourceTwitter    SourceKind = "twitter"
)

// Provenance marks whether a payload was fetched from the real API or
// synthesized as fallback data.
type Provenance string

const (
	RealData Provenance = "REAL_DATA"
	MockData Provenance = "MOCK_DATA"
)

// Item is one text-bearing record inside a source payload. Score and
// Comments are engagement metrics, populated for social sources only.
type Item struct {
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Score     int       `json:"score,omitempty"`
	Comments  int       `json:"comments,omitempty"`
	Sentiment *float64  `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	URL       string    `json:"url,omitempty"`
}

// Payload is the normalized envelope every source agent returns.
// A failed or credential-less fetch yields the same shape with
// Provenance set to MockData.
type Payload struct {
	Kind       SourceKind `json:"source"`
	Provenance Provenance `json:"data_source"`
	Items      []Item     `json:"items"`
}

// Score is the normalized (sentiment, confidence, count) triple
// produced from one payload.
type Score struct {
	Sentiment  float64    `json:"sentiment"`
	Confidence float64    `json:"confidence"`
	ItemCount  int        `json:"item_count"`
	Provenance Provenance `json:"data_source"`
}

// AggregateResult is the outcome of combining all available source
// scores for one analysis request. Built once, never mutated.
type AggregateResult struct {
	OverallSentiment float64              `json:"overall_sentiment"`
	Label            Label                `json:"label"`
	Confidence       float64              `json:"confidence"`
	PerSource        map[SourceKind]Score `json:"per_source"`
	KeyFactors       []string             `json:"key_factors"`
	Recommendation   string               `json:"recommendation"`
}

// Label is the human-readable bucket for an overall sentiment value.
type Label string

const (
	LabelVeryPositive Label = "very positive"
	LabelPositive     Label = "positive"
	LabelNeutral      Label = "neutral"
	LabelNegative     Label = "negative"
	LabelVeryNegative Label = "very negative"
)
