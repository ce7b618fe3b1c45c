package agents

import (
	"context"
	"time"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/logger"
)

// StockTwitsAgent serves trader chatter. The public StockTwits API
// requires a partner agreement, so this agent always synthesizes its
// payload and tags it accordingly.
type StockTwitsAgent struct {
	log *logger.Logger
}

// NewStockTwitsAgent creates the StockTwits source agent.
func NewStockTwitsAgent() *StockTwitsAgent {
	return &StockTwitsAgent{log: logger.Get().With("agent", "stocktwits")}
}

// Kind returns the source kind.
func (a *StockTwitsAgent) Kind() domain.SourceKind { return domain.SourceStockTwits }

// Fetch returns trader messages for the query.
func (a *StockTwitsAgent) Fetch(ctx context.Context, q Query) domain.Payload {
	start := time.Now()
	now := time.Now()
	bull, bear := 0.7, -0.3

	payload := domain.Payload{
		Kind:       domain.SourceStockTwits,
		Provenance: domain.MockData,
		Items: []domain.Item{
			{
				Title:     "$" + q.Symbol + " Bullish momentum building 📈",
				Score:     45,
				Comments:  12,
				Sentiment: &bull,
				CreatedAt: now.Add(-time.Hour),
			},
			{
				Title:     "$" + q.Symbol + " Might pull back before next leg up",
				Score:     23,
				Comments:  5,
				Sentiment: &bear,
				CreatedAt: now.Add(-3 * time.Hour),
			},
		},
	}
	observeFetch(a.Kind(), payload.Provenance, start, nil)
	return payload
}
