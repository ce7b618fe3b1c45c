package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quotedomain "stockai/internal/domain/quote"
	"stockai/pkg/errors"
)

type stubFetcher struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]bool
}

func (s *stubFetcher) GetQuote(ctx context.Context, symbol string) (quotedomain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = append(s.fetched, symbol)
	if s.fail[symbol] {
		return quotedomain.Quote{}, errors.ErrSourceUnavailable
	}
	return quotedomain.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromInt(100),
		Timestamp: time.Now().UTC(),
	}, nil
}

func TestPriceTrackerFetchesWatchlist(t *testing.T) {
	fetcher := &stubFetcher{}
	w := NewPriceTrackerWorker(fetcher, nil, nil, []string{"AAPL", "TSLA"}, time.Second, true)

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, []string{"AAPL", "TSLA"}, fetcher.fetched)
	assert.Equal(t, int64(1), w.Health().RunCount)
}

func TestPriceTrackerSkipsFailedSymbol(t *testing.T) {
	fetcher := &stubFetcher{fail: map[string]bool{"AAPL": true}}
	w := NewPriceTrackerWorker(fetcher, nil, nil, []string{"AAPL", "TSLA"}, time.Second, true)

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, []string{"AAPL", "TSLA"}, fetcher.fetched)
}

func TestPriceTrackerDefaultWatchlist(t *testing.T) {
	w := NewPriceTrackerWorker(&stubFetcher{}, nil, nil, nil, time.Second, true)
	assert.Equal(t, defaultWatchlist, w.symbols)
	assert.Equal(t, "price_tracker", w.Name())
}

func TestPriceTrackerStopsOnCancel(t *testing.T) {
	fetcher := &stubFetcher{}
	w := NewPriceTrackerWorker(fetcher, nil, nil, []string{"AAPL", "TSLA"}, time.Second, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.fetched)
}
