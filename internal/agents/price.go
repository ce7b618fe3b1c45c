package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	domain "stockai/internal/domain/quote"
	quotesvc "stockai/internal/services/quote"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

// mockBasePrices seed synthesized quotes so repeated requests for the
// same symbol stay plausible.
var mockBasePrices = map[string]float64{
	"005930.KS": 71000,
	"000660.KS": 178000,
	"035420.KS": 215000,
	"035720.KS": 41000,
	"AAPL":      228.5,
	"TSLA":      342.1,
	"NVDA":      176.8,
}

// PriceAgent fetches market quotes and candle history from the Yahoo
// Finance chart API, caching results between calls.
type PriceAgent struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   *quotesvc.Cache
	log     *logger.Logger
}

// NewPriceAgent creates the price agent. cache may be nil, which
// disables read-through caching.
func NewPriceAgent(cache *quotesvc.Cache, timeout time.Duration) *PriceAgent {
	return &PriceAgent{
		baseURL: yahooChartURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		cache:   cache,
		log:     logger.Get().With("agent", "price"),
	}
}

// GetQuote returns the realtime quote for a symbol. Cache first, then
// Yahoo, then a synthesized quote tagged IsMock.
func (a *PriceAgent) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if a.cache != nil {
		if cached, err := a.cache.GetQuote(ctx, symbol); err == nil {
			return cached, nil
		}
	}

	q, err := a.fetchQuote(ctx, symbol)
	if err != nil {
		a.log.Warnf("Quote fetch failed for %s, serving mock: %v", symbol, err)
		return mockQuote(symbol), nil
	}

	if a.cache != nil {
		if err := a.cache.SetQuote(ctx, q); err != nil {
			a.log.Warnf("Failed to cache quote for %s: %v", symbol, err)
		}
	}
	return q, nil
}

// GetHistory returns daily candles for a symbol over a Yahoo range
// string such as "1mo", "3mo", "1y".
func (a *PriceAgent) GetHistory(ctx context.Context, symbol, period string) (domain.History, error) {
	if a.cache != nil {
		if cached, err := a.cache.GetHistory(ctx, symbol, period); err == nil {
			return cached, nil
		}
	}

	h, err := a.fetchHistory(ctx, symbol, period)
	if err != nil {
		a.log.Warnf("History fetch failed for %s, serving mock: %v", symbol, err)
		return mockHistory(symbol, period), nil
	}

	if a.cache != nil {
		if err := a.cache.SetHistory(ctx, h); err != nil {
			a.log.Warnf("Failed to cache history for %s: %v", symbol, err)
		}
	}
	return h, nil
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				RegularMarketVolume int64  `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (a *PriceAgent) fetchChart(ctx context.Context, symbol, interval, period string) (*yahooChartResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	chartURL := fmt.Sprintf(a.baseURL, symbol) + "?interval=" + interval + "&range=" + period
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chart request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stockai/1.0)")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "chart request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(errors.ErrInvalidSymbol, "unknown symbol %s", symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "yahoo returned %d", resp.StatusCode)
	}

	var body yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode chart response")
	}
	if body.Chart.Error != nil {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "yahoo error %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, errors.ErrEmptyPayload
	}
	return &body, nil
}

func (a *PriceAgent) fetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	body, err := a.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return domain.Quote{}, err
	}

	meta := body.Chart.Result[0].Meta
	price := decimal.NewFromFloat(meta.RegularMarketPrice)
	prev := decimal.NewFromFloat(meta.ChartPreviousClose)
	change := price.Sub(prev)

	changePct := decimal.Zero
	if !prev.IsZero() {
		changePct = change.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        meta.RegularMarketVolume,
		Currency:      meta.Currency,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (a *PriceAgent) fetchHistory(ctx context.Context, symbol, period string) (domain.History, error) {
	body, err := a.fetchChart(ctx, symbol, "1d", period)
	if err != nil {
		return domain.History{}, err
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return domain.History{}, errors.ErrEmptyPayload
	}
	bars := result.Indicators.Quote[0]

	// Yahoo's indicator arrays can come back ragged; index only up to
	// the shortest one.
	n := len(result.Timestamp)
	for _, l := range []int{len(bars.Open), len(bars.High), len(bars.Low), len(bars.Close), len(bars.Volume)} {
		if l < n {
			n = l
		}
	}

	candles := make([]domain.Candle, 0, n)
	for i := 0; i < n; i++ {
		ts := result.Timestamp[i]
		candles = append(candles, domain.Candle{
			Open:      bars.Open[i],
			High:      bars.High[i],
			Low:       bars.Low[i],
			Close:     bars.Close[i],
			Volume:    bars.Volume[i],
			Timestamp: time.Unix(ts, 0).UTC(),
		})
	}
	if len(candles) == 0 {
		return domain.History{}, errors.ErrEmptyPayload
	}

	return domain.History{
		Symbol:  symbol,
		Period:  period,
		Candles: candles,
	}, nil
}

func mockQuote(symbol string) domain.Quote {
	base, ok := mockBasePrices[symbol]
	if !ok {
		base = 100
	}
	price := decimal.NewFromFloat(base)
	change := price.Mul(decimal.NewFromFloat(0.012)).Round(2)

	currency := "USD"
	if IsKoreanSymbol(symbol) {
		currency = "KRW"
	}

	return domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: decimal.NewFromFloat(1.2),
		Volume:        1_000_000,
		Currency:      currency,
		IsMock:        true,
		Timestamp:     time.Now().UTC(),
	}
}

// mockHistory produces a gentle uptrend so indicator math downstream
// has a full series to work with.
func mockHistory(symbol, period string) domain.History {
	base, ok := mockBasePrices[symbol]
	if !ok {
		base = 100
	}

	const days = 120
	now := time.Now().UTC()
	candles := make([]domain.Candle, 0, days)
	price := base * 0.9
	for i := days; i > 0; i-- {
		drift := base * 0.001
		if i%7 < 2 {
			drift = -base * 0.0015
		}
		price += drift
		candles = append(candles, domain.Candle{
			Open:      price - drift,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    900_000 + float64(i%10)*25_000,
			Timestamp: now.AddDate(0, 0, -i),
		})
	}

	return domain.History{
		Symbol:  symbol,
		Period:  period,
		Candles: candles,
		IsMock:  true,
	}
}
