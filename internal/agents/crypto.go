package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	domain "stockai/internal/domain/quote"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

const coinGeckoPriceURL = "https://api.coingecko.com/api/v3/simple/price"

// CryptoAgent fetches spot prices from the CoinGecko public API.
type CryptoAgent struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewCryptoAgent creates the crypto price agent.
func NewCryptoAgent(timeout time.Duration) *CryptoAgent {
	return &CryptoAgent{
		baseURL: coinGeckoPriceURL,
		client:  &http.Client{Timeout: timeout},
		// CoinGecko's free tier allows roughly 10-30 calls per minute.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 1),
		log:     logger.Get().With("agent", "crypto"),
	}
}

// GetQuote returns the USD spot price for a crypto ticker such as
// "BTC". Unknown tickers fail with ErrInvalidSymbol.
func (a *CryptoAgent) GetQuote(ctx context.Context, ticker string) (domain.Quote, error) {
	coinID := CryptoID(ticker)
	if coinID == "" {
		return domain.Quote{}, errors.Wrapf(errors.ErrInvalidSymbol, "unknown crypto ticker %s", ticker)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, err
	}

	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	params.Set("include_24hr_vol", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Quote{}, errors.Wrap(err, "failed to build coingecko request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.Quote{}, errors.Wrap(err, "coingecko request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.Quote{}, errors.Wrap(errors.ErrRateLimitExceeded, "coingecko rate limit hit")
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, errors.Wrapf(errors.ErrSourceUnavailable, "coingecko returned %d", resp.StatusCode)
	}

	var body map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
		USD24hVol    float64 `json:"usd_24h_vol"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Quote{}, errors.Wrap(err, "failed to decode coingecko response")
	}

	entry, ok := body[coinID]
	if !ok {
		return domain.Quote{}, errors.ErrEmptyPayload
	}

	price := decimal.NewFromFloat(entry.USD)
	changePct := decimal.NewFromFloat(entry.USD24hChange).Round(2)
	change := price.Mul(changePct).Div(decimal.NewFromInt(100)).Round(4)

	return domain.Quote{
		Symbol:        strings.ToUpper(ticker),
		Name:          coinID,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        int64(entry.USD24hVol),
		Currency:      "USD",
		Timestamp:     time.Now().UTC(),
	}, nil
}
