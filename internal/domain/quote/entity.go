package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a realtime price snapshot for one symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        int64           `json:"volume"`
	MarketCap     int64           `json:"market_cap,omitempty"`
	Currency      string          `json:"currency"`
	IsMock        bool            `json:"is_mock"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Candle is one OHLCV bar.
type Candle struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// History is a symbol's candle series over one period.
type History struct {
	Symbol  string   `json:"symbol"`
	Period  string   `json:"period"`
	Candles []Candle `json:"candles"`
	IsMock  bool     `json:"is_mock"`
}

// Closes extracts the close series, oldest first.
func (h History) Closes() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high series, oldest first.
func (h History) Highs() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low series, oldest first.
func (h History) Lows() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Low
	}
	return out
}

// Volumes extracts the volume series, oldest first.
func (h History) Volumes() []float64 {
	out := make([]float64, len(h.Candles))
	for i, c := range h.Candles {
		out[i] = c.Volume
	}
	return out
}
