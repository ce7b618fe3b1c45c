package agents

import "strings"

// krStockSymbols maps Korean company names to Yahoo Finance symbols.
// KOSDAQ listings use the .KQ suffix.
var krStockSymbols = map[string]string{
	"삼성전자":     "005930.KS",
	"SK하이닉스":   "000660.KS",
	"네이버":      "035420.KS",
	"카카오":      "035720.KS",
	"LG에너지솔루션": "373220.KS",
	"현대차":      "005380.KS",
	"기아":       "000270.KS",
	"포스코":      "005490.KS",
	"더본코리아":    "354200.KQ",
	"CJ":       "001040.KS",
	"롯데":       "004990.KS",
	"신세계":      "004170.KS",
	"현대백화점":    "069960.KS",
	"이마트":      "139480.KS",
}

// cryptoIDs maps common crypto tickers to CoinGecko coin ids.
var cryptoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"XRP":  "ripple",
	"SOL":  "solana",
	"DOGE": "dogecoin",
	"ADA":  "cardano",
}

// ResolveSymbol maps a stock name to a tradable symbol. Names already
// carrying a market suffix pass through unchanged; unknown names are
// assumed to be US tickers.
func ResolveSymbol(name string) string {
	if strings.Contains(name, ".KS") || strings.Contains(name, ".KQ") {
		return name
	}
	if symbol, ok := krStockSymbols[name]; ok {
		return symbol
	}
	return strings.ToUpper(name)
}

// IsKoreanSymbol reports whether a symbol trades on KRX.
func IsKoreanSymbol(symbol string) bool {
	return strings.HasSuffix(symbol, ".KS") || strings.HasSuffix(symbol, ".KQ")
}

// CryptoID maps a ticker to its CoinGecko id, empty when unknown.
func CryptoID(ticker string) string {
	return cryptoIDs[strings.ToUpper(ticker)]
}
