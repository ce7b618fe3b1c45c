package workers

import (
	"context"
	"time"

	"stockai/internal/api/ws"
	quotedomain "stockai/internal/domain/quote"
	"stockai/internal/events"
	"stockai/internal/metrics"
)

// QuoteFetcher supplies realtime quotes for tracked symbols.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (quotedomain.Quote, error)
}

// defaultWatchlist covers the symbols chat users ask about most.
var defaultWatchlist = []string{
	"005930.KS", "000660.KS", "035420.KS", "035720.KS",
	"AAPL", "TSLA", "NVDA",
}

// PriceTrackerWorker polls quotes for a watchlist and pushes ticks to
// connected chat clients and the event bus.
type PriceTrackerWorker struct {
	*BaseWorker
	fetcher   QuoteFetcher
	hub       *ws.Hub
	publisher *events.Publisher
	symbols   []string
}

// NewPriceTrackerWorker creates the price tracker. hub and publisher
// may be nil; each missing sink is simply skipped. An empty symbols
// slice selects the default watchlist.
func NewPriceTrackerWorker(
	fetcher QuoteFetcher,
	hub *ws.Hub,
	publisher *events.Publisher,
	symbols []string,
	interval time.Duration,
	enabled bool,
) *PriceTrackerWorker {
	if len(symbols) == 0 {
		symbols = defaultWatchlist
	}
	return &PriceTrackerWorker{
		BaseWorker: NewBaseWorker("price_tracker", interval, enabled),
		fetcher:    fetcher,
		hub:        hub,
		publisher:  publisher,
		symbols:    symbols,
	}
}

// Run fetches one quote per tracked symbol and fans the ticks out.
// Individual symbol failures are logged and skipped so one bad symbol
// cannot starve the rest of the watchlist.
func (w *PriceTrackerWorker) Run(ctx context.Context) error {
	start := time.Now()

	// Pointless work when nobody is listening.
	if w.hub != nil && w.hub.ClientCount() == 0 && w.publisher == nil {
		return nil
	}

	for _, symbol := range w.symbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		q, err := w.fetcher.GetQuote(ctx, symbol)
		if err != nil {
			w.Log().Warnf("Price tick failed for %s: %v", symbol, err)
			continue
		}
		w.emit(ctx, q)
	}

	metrics.RecordWorkerExecution(w.Name(), time.Since(start), nil)
	w.RecordRun(time.Since(start))
	return nil
}

func (w *PriceTrackerWorker) emit(ctx context.Context, q quotedomain.Quote) {
	if w.hub != nil {
		w.hub.Broadcast(ws.Envelope{
			Type: ws.TypePriceUpdate,
			Data: q,
		})
	}
	if w.publisher != nil {
		w.publisher.PriceUpdate(ctx, events.PriceUpdate{
			Symbol:        q.Symbol,
			Price:         q.Price.String(),
			ChangePercent: q.ChangePercent.String(),
			IsMock:        q.IsMock,
			OccurredAt:    q.Timestamp,
		})
	}
}
