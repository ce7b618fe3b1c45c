package analysis

import (
	"context"
	"sync"
	"time"

	"stockai/internal/agents"
	quotedomain "stockai/internal/domain/quote"
	domain "stockai/internal/domain/sentiment"
	"stockai/internal/events"
	"stockai/internal/metrics"
	"stockai/internal/services/nlu"
	"stockai/internal/services/sentiment"
	"stockai/internal/services/technical"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// defaultFetchTimeout bounds each source fetch so one slow provider
// cannot stall the whole analysis.
const defaultFetchTimeout = 5 * time.Second

// Reliability levels derived from the real/mock provenance mix.
const (
	ReliabilityHigh  = "high"
	ReliabilityMixed = "mixed"
	ReliabilityLow   = "low"
	ReliabilityNone  = "none"
)

// PriceProvider supplies quotes and candle history for stock symbols.
type PriceProvider interface {
	GetQuote(ctx context.Context, symbol string) (quotedomain.Quote, error)
	GetHistory(ctx context.Context, symbol, period string) (quotedomain.History, error)
}

// CryptoProvider supplies spot quotes for crypto tickers.
type CryptoProvider interface {
	GetQuote(ctx context.Context, ticker string) (quotedomain.Quote, error)
}

// StockAnalysis is the full result for one subject.
type StockAnalysis struct {
	Name        string                       `json:"name"`
	Symbol      string                       `json:"symbol"`
	IsCrypto    bool                         `json:"is_crypto"`
	Sentiment   domain.AggregateResult       `json:"sentiment"`
	Quote       *quotedomain.Quote           `json:"quote,omitempty"`
	Technical   *technical.Analysis          `json:"technical,omitempty"`
	Summary     map[domain.Provenance]int    `json:"data_source_summary"`
	PerSource   map[domain.SourceKind]domain.Score `json:"sources"`
	Reliability string                       `json:"reliability"`
}

// Report is what one chat query produces: structured analyses plus a
// rendered Korean message.
type Report struct {
	Query       nlu.Result      `json:"query"`
	Analyses    []StockAnalysis `json:"analyses"`
	Message     string          `json:"message"`
	Reliability string          `json:"reliability"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Orchestrator runs the full pipeline: query parsing, parallel source
// collection, scoring, aggregation, and report rendering.
type Orchestrator struct {
	parser       *nlu.Parser
	sources      []agents.SourceAgent
	scorer       *sentiment.Scorer
	aggregator   *sentiment.Aggregator
	prices       PriceProvider
	crypto       CryptoProvider
	publisher    *events.Publisher
	fetchTimeout time.Duration
	log          *logger.Logger
}

// Options tune orchestrator behavior. Zero values select defaults.
type Options struct {
	FetchTimeout time.Duration
}

// NewOrchestrator wires the pipeline. prices, crypto, and publisher
// may be nil, disabling their respective report sections.
func NewOrchestrator(
	parser *nlu.Parser,
	sources []agents.SourceAgent,
	scorer *sentiment.Scorer,
	aggregator *sentiment.Aggregator,
	prices PriceProvider,
	crypto CryptoProvider,
	publisher *events.Publisher,
	opts Options,
) *Orchestrator {
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Orchestrator{
		parser:       parser,
		sources:      sources,
		scorer:       scorer,
		aggregator:   aggregator,
		prices:       prices,
		crypto:       crypto,
		publisher:    publisher,
		fetchTimeout: timeout,
		log:          logger.Get().With("component", "orchestrator"),
	}
}

// Analyze processes one chat query end to end.
func (o *Orchestrator) Analyze(ctx context.Context, message string) (*Report, error) {
	start := time.Now()
	parsed := o.parser.Analyze(message)

	if len(parsed.Stocks) == 0 && len(parsed.CryptoTickers) == 0 {
		metrics.RecordAnalysis(string(parsed.Intent), time.Since(start), errors.ErrNoStockEntity)
		o.publisher.AnalysisFailed(ctx, message, "no stock entity found")
		return nil, errors.Wrapf(errors.ErrNoStockEntity, "query %q", parsed.NormalizedQuery)
	}

	subjects := buildSubjects(parsed)
	analyses := make([]StockAnalysis, 0, len(subjects))
	for _, s := range subjects {
		analyses = append(analyses, o.analyzeOne(ctx, s))
	}

	report := &Report{
		Query:       parsed,
		Analyses:    analyses,
		Reliability: overallReliability(analyses),
		GeneratedAt: time.Now().UTC(),
	}
	report.Message = renderReport(report)

	for _, a := range analyses {
		o.publisher.AnalysisCompleted(ctx, a.Symbol, a.Name, string(parsed.Intent), a.Sentiment, a.Reliability)
	}
	metrics.RecordAnalysis(string(parsed.Intent), time.Since(start), nil)

	return report, nil
}

type subject struct {
	name     string
	symbol   string
	isKorean bool
	isCrypto bool
}

// buildSubjects resolves parsed entities to concrete subjects. A
// comparison query keeps two stocks; everything else takes the first
// entity only.
func buildSubjects(parsed nlu.Result) []subject {
	var out []subject
	for _, name := range parsed.Stocks {
		symbol := agents.ResolveSymbol(name)
		out = append(out, subject{
			name:     name,
			symbol:   symbol,
			isKorean: agents.IsKoreanSymbol(symbol),
		})
	}
	for _, ticker := range parsed.CryptoTickers {
		out = append(out, subject{name: ticker, symbol: ticker, isCrypto: true})
	}

	if parsed.Intent == nlu.IntentCompareStocks && len(out) >= 2 {
		return out[:2]
	}
	return out[:1]
}

func (o *Orchestrator) analyzeOne(ctx context.Context, s subject) StockAnalysis {
	payloads := o.collect(ctx, s)

	scores := make(map[domain.SourceKind]domain.Score, len(payloads))
	summary := map[domain.Provenance]int{domain.RealData: 0, domain.MockData: 0}
	for _, p := range payloads {
		scores[p.Kind] = o.scorer.Score(p)
		summary[p.Provenance]++
	}

	result := o.aggregator.Aggregate(ctx, sentiment.Subject{Symbol: s.symbol, Name: s.name}, scores)

	analysis := StockAnalysis{
		Name:        s.name,
		Symbol:      s.symbol,
		IsCrypto:    s.isCrypto,
		Sentiment:   result,
		Summary:     summary,
		PerSource:   scores,
		Reliability: reliabilityLevel(summary),
	}

	o.attachQuote(ctx, s, &analysis)
	o.attachTechnical(ctx, s, &analysis)
	return analysis
}

// collect fans out to every applicable source agent and gathers their
// payloads. Each fetch gets its own timeout; Fetch is total, so every
// agent contributes exactly one payload.
func (o *Orchestrator) collect(ctx context.Context, s subject) []domain.Payload {
	q := agents.Query{Symbol: s.symbol, Name: s.name, IsKorean: s.isKorean}

	applicable := make([]agents.SourceAgent, 0, len(o.sources))
	for _, agent := range o.sources {
		if s.isCrypto && !cryptoCapable(agent.Kind()) {
			continue
		}
		applicable = append(applicable, agent)
	}

	payloads := make([]domain.Payload, len(applicable))
	var wg sync.WaitGroup
	for i, agent := range applicable {
		wg.Add(1)
		go func(i int, agent agents.SourceAgent) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
			defer cancel()
			payloads[i] = agent.Fetch(fetchCtx, q)
		}(i, agent)
	}
	wg.Wait()
	return payloads
}

// cryptoCapable reports whether a source kind carries signal for
// crypto assets. Filings and fundamentals only exist for equities.
func cryptoCapable(kind domain.SourceKind) bool {
	switch kind {
	case domain.SourceNews, domain.SourceReddit, domain.SourceStockTwits, domain.SourceTwitter:
		return true
	}
	return false
}

func (o *Orchestrator) attachQuote(ctx context.Context, s subject, analysis *StockAnalysis) {
	var (
		q   quotedomain.Quote
		err error
	)
	switch {
	case s.isCrypto && o.crypto != nil:
		q, err = o.crypto.GetQuote(ctx, s.symbol)
	case !s.isCrypto && o.prices != nil:
		q, err = o.prices.GetQuote(ctx, s.symbol)
	default:
		return
	}
	if err != nil {
		o.log.Warnf("Quote lookup failed for %s: %v", s.symbol, err)
		return
	}
	analysis.Quote = &q
}

func (o *Orchestrator) attachTechnical(ctx context.Context, s subject, analysis *StockAnalysis) {
	if s.isCrypto || o.prices == nil {
		return
	}
	history, err := o.prices.GetHistory(ctx, s.symbol, "6mo")
	if err != nil {
		o.log.Warnf("History lookup failed for %s: %v", s.symbol, err)
		return
	}
	ta, err := technical.Analyze(history)
	if err != nil {
		o.log.Warnf("Technical analysis skipped for %s: %v", s.symbol, err)
		return
	}
	analysis.Technical = &ta
}

// reliabilityLevel buckets the provenance mix of one analysis.
func reliabilityLevel(summary map[domain.Provenance]int) string {
	real, mock := summary[domain.RealData], summary[domain.MockData]
	switch {
	case mock == 0 && real > 0:
		return ReliabilityHigh
	case real > 0:
		return ReliabilityMixed
	case mock > 0:
		return ReliabilityLow
	default:
		return ReliabilityNone
	}
}

// overallReliability is the weakest level across all analyses.
func overallReliability(analyses []StockAnalysis) string {
	rank := map[string]int{
		ReliabilityHigh:  3,
		ReliabilityMixed: 2,
		ReliabilityLow:   1,
		ReliabilityNone:  0,
	}
	overall := ReliabilityHigh
	if len(analyses) == 0 {
		return ReliabilityNone
	}
	for _, a := range analyses {
		if rank[a.Reliability] < rank[overall] {
			overall = a.Reliability
		}
	}
	return overall
}
