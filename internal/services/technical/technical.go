package technical

import (
	talib "github.com/markcheno/go-talib"

	domain "stockai/internal/domain/quote"
	"stockai/pkg/errors"
)

// minCandles is the shortest history the indicator set stays
// meaningful on.
const minCandles = 60

// Indicators holds one snapshot of the computed indicator values.
type Indicators struct {
	MA5   float64 `json:"ma5"`
	MA20  float64 `json:"ma20"`
	MA60  float64 `json:"ma60"`
	MA120 float64 `json:"ma120"`

	RSI           float64 `json:"rsi"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`

	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`
	ATR             float64 `json:"atr"`

	OBV         float64 `json:"obv"`
	VolumeRatio float64 `json:"volume_ratio"`

	Pivot       float64 `json:"pivot"`
	Resistance1 float64 `json:"resistance1"`
	Resistance2 float64 `json:"resistance2"`
	Support1    float64 `json:"support1"`
	Support2    float64 `json:"support2"`
}

// Trend labels.
const (
	TrendUp       = "상승"
	TrendDown     = "하락"
	TrendSideways = "횡보"
)

// Momentum labels.
const (
	MomentumOverbought = "과매수"
	MomentumOversold   = "과매도"
	MomentumNeutral    = "중립"
)

// Trade signals.
const (
	SignalBuy  = "매수"
	SignalSell = "매도"
	SignalHold = "관망"
)

// Analysis is the full technical read on one symbol's history.
type Analysis struct {
	Indicators Indicators         `json:"indicators"`
	Trend      string             `json:"trend"`
	Momentum   string             `json:"momentum"`
	Signal     string             `json:"signal"`
	Strength   float64            `json:"strength"`
	KeyLevels  map[string]float64 `json:"key_levels"`
	LastClose  float64            `json:"current_price"`
	IsMock     bool               `json:"is_mock"`
}

// Analyze computes the indicator set over a candle history and derives
// trend, momentum, and a trade signal from it.
func Analyze(h domain.History) (Analysis, error) {
	if len(h.Candles) < minCandles {
		return Analysis{}, errors.Wrapf(errors.ErrInsufficientData,
			"%d candles, need at least %d", len(h.Candles), minCandles)
	}

	closes := h.Closes()
	highs := h.Highs()
	lows := h.Lows()
	volumes := h.Volumes()
	n := len(closes)

	ind := Indicators{
		MA5:  last(talib.Sma(closes, 5)),
		MA20: last(talib.Sma(closes, 20)),
		MA60: last(talib.Sma(closes, 60)),
	}
	if n >= 120 {
		ind.MA120 = last(talib.Sma(closes, 120))
	} else {
		ind.MA120 = ind.MA60
	}

	ind.RSI = last(talib.Rsi(closes, 14))

	macd, macdSignal, macdHist := talib.Macd(closes, 12, 26, 9)
	ind.MACD = last(macd)
	ind.MACDSignal = last(macdSignal)
	ind.MACDHistogram = last(macdHist)

	upper, middle, lower := talib.BBands(closes, 20, 2.0, 2.0, talib.SMA)
	ind.BollingerUpper = last(upper)
	ind.BollingerMiddle = last(middle)
	ind.BollingerLower = last(lower)

	ind.ATR = last(talib.Atr(highs, lows, closes, 14))
	ind.OBV = last(talib.Obv(closes, volumes))

	avgVolume := last(talib.Sma(volumes, 20))
	if avgVolume > 0 {
		ind.VolumeRatio = volumes[n-1] / avgVolume
	} else {
		ind.VolumeRatio = 1.0
	}

	levels := pivotLevels(highs[n-1], lows[n-1], closes[n-1])
	ind.Pivot = levels["pivot"]
	ind.Resistance1 = levels["resistance1"]
	ind.Resistance2 = levels["resistance2"]
	ind.Support1 = levels["support1"]
	ind.Support2 = levels["support2"]

	trend := analyzeTrend(closes[n-1], ind.MA20, ind.MA60)
	momentum := analyzeMomentum(ind.RSI)
	signal, strength := generateSignal(ind)

	return Analysis{
		Indicators: ind,
		Trend:      trend,
		Momentum:   momentum,
		Signal:     signal,
		Strength:   strength,
		KeyLevels:  levels,
		LastClose:  closes[n-1],
		IsMock:     h.IsMock,
	}, nil
}

func pivotLevels(high, low, close float64) map[string]float64 {
	pivot := (high + low + close) / 3
	return map[string]float64{
		"pivot":       pivot,
		"resistance1": 2*pivot - low,
		"resistance2": pivot + (high - low),
		"support1":    2*pivot - high,
		"support2":    pivot - (high - low),
	}
}

func analyzeTrend(current, ma20, ma60 float64) string {
	switch {
	case current > ma20 && ma20 > ma60:
		return TrendUp
	case current < ma20 && ma20 < ma60:
		return TrendDown
	default:
		return TrendSideways
	}
}

func analyzeMomentum(rsi float64) string {
	switch {
	case rsi > 70:
		return MomentumOverbought
	case rsi < 30:
		return MomentumOversold
	default:
		return MomentumNeutral
	}
}

// generateSignal scores RSI, MACD crossover, and short/mid moving
// average alignment around a 0.5 base.
func generateSignal(ind Indicators) (string, float64) {
	score := 0.5

	if ind.RSI < 30 {
		score += 0.2
	} else if ind.RSI > 70 {
		score -= 0.2
	}

	if ind.MACD > ind.MACDSignal {
		score += 0.15
	} else {
		score -= 0.15
	}

	if ind.MA5 > ind.MA20 {
		score += 0.15
	} else {
		score -= 0.15
	}

	switch {
	case score > 0.65:
		return SignalBuy, min(score, 1.0)
	case score < 0.35:
		return SignalSell, 1.0 - score
	default:
		return SignalHold, 0.5
	}
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
