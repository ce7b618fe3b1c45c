package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Period is the resolved date range a query refers to.
type Period struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
	Days  int       `json:"period_days"`
}

// Result is the structured interpretation of one chat query.
type Result struct {
	OriginalQuery   string   `json:"original_query"`
	NormalizedQuery string   `json:"normalized_query"`
	Intent          Intent   `json:"intent"`
	Stocks          []string `json:"stocks"`
	CryptoTickers   []string `json:"crypto_tickers,omitempty"`
	Period          Period   `json:"period"`
	Language        string   `json:"language"`
	Confidence      float64  `json:"confidence"`
}

// Parser turns free-form Korean or English chat queries into intents
// and entities. All state is immutable after construction, so one
// Parser is safe for concurrent use.
type Parser struct {
	now func() time.Time
}

// NewParser creates a query parser.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Analyze interprets one query.
func (p *Parser) Analyze(query string) Result {
	intent := classifyIntent(query)
	stocks, crypto, periodExpr := extractEntities(query)

	return Result{
		OriginalQuery:   query,
		NormalizedQuery: normalizeQuery(query),
		Intent:          intent,
		Stocks:          stocks,
		CryptoTickers:   crypto,
		Period:          p.parsePeriod(periodExpr),
		Language:        detectLanguage(query),
		Confidence:      calculateConfidence(intent, stocks, crypto, periodExpr, query),
	}
}

func classifyIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(lower) {
				return rule.intent
			}
		}
	}
	return IntentAnalyzeStock
}

// extractEntities pulls stock names, crypto tickers, and the first
// period expression out of a query. Stocks come back alias-normalized
// and deduplicated in match order.
func extractEntities(query string) (stocks, crypto []string, periodExpr string) {
	candidates := make([]string, 0, 4)
	candidates = append(candidates, matchAll(koreanStockPattern, query)...)
	candidates = append(candidates, matchAll(usStockPattern, query)...)
	candidates = append(candidates, matchAll(tickerPattern, query)...)
	candidates = append(candidates, matchAll(unknownKoreanStockPattern, query)...)
	candidates = append(candidates, matchAll(indexETFPattern, query)...)

	seen := make(map[string]struct{})
	for _, raw := range candidates {
		name := strings.TrimSpace(raw)
		if len([]rune(name)) < 2 && !isTickerFormat(name) {
			continue
		}
		if _, stop := stopWords[strings.ToLower(name)]; stop {
			continue
		}
		if canonical, ok := aliasMap[name]; ok {
			name = canonical
		}
		key := strings.ToUpper(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		stocks = append(stocks, name)
	}

	for _, raw := range matchAll(cryptoPattern, query) {
		name := raw
		if canonical, ok := aliasMap[name]; ok {
			name = canonical
		}
		ticker := cryptoTicker(name)
		if ticker == "" {
			continue
		}
		key := strings.ToUpper(ticker)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		crypto = append(crypto, ticker)
	}

	if m := periodPattern.FindString(query); m != "" {
		periodExpr = m
	}
	return stocks, crypto, periodExpr
}

func matchAll(pattern *regexp.Regexp, query string) []string {
	groups := pattern.FindAllStringSubmatch(query, -1)
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g) > 1 && g[1] != "" {
			out = append(out, g[1])
		} else {
			out = append(out, g[0])
		}
	}
	return out
}

func cryptoTicker(name string) string {
	switch strings.ToUpper(name) {
	case "BITCOIN", "BTC":
		return "BTC"
	case "ETHEREUM", "ETH":
		return "ETH"
	case "DOGECOIN", "DOGE":
		return "DOGE"
	case "SOLANA", "SOL":
		return "SOL"
	case "XRP":
		return "XRP"
	}
	return ""
}

var numberRe = regexp.MustCompile(`[0-9]+`)

// parsePeriod resolves a period expression to concrete dates. Absent
// or unrecognized expressions default to the trailing 30 days.
func (p *Parser) parsePeriod(expr string) Period {
	end := p.now()
	start := end.AddDate(0, 0, -30)

	switch {
	case expr == "":
		// default window
	case strings.Contains(expr, "오늘"):
		start = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	case strings.Contains(expr, "어제"):
		start = end.AddDate(0, 0, -1)
		end = start
	case strings.Contains(expr, "주"):
		switch {
		case strings.Contains(expr, "이번"):
			start = end.AddDate(0, 0, -mondayOffset(end))
		case strings.Contains(expr, "지난"):
			start = end.AddDate(0, 0, -(mondayOffset(end) + 7))
			end = start.AddDate(0, 0, 6)
		default:
			weeks := extractNumber(expr, 1)
			start = end.AddDate(0, 0, -7*weeks)
		}
	case strings.Contains(expr, "개월") || strings.Contains(expr, "달"):
		switch {
		case strings.Contains(expr, "이번"):
			start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		case strings.Contains(expr, "지난"):
			firstOfMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
			start = firstOfMonth.AddDate(0, -1, 0)
			end = firstOfMonth.AddDate(0, 0, -1)
		default:
			start = end.AddDate(0, 0, -30*extractNumber(expr, 1))
		}
	case strings.Contains(expr, "년"):
		start = end.AddDate(0, 0, -365*extractNumber(expr, 1))
	case strings.Contains(expr, "일"):
		start = end.AddDate(0, 0, -extractNumber(expr, 1))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	return Period{Start: start, End: end, Days: days}
}

// mondayOffset is the number of days since the current week's Monday.
func mondayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func extractNumber(expr string, fallback int) int {
	if m := numberRe.FindString(expr); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func detectLanguage(query string) string {
	var korean, english int
	for _, r := range query {
		switch {
		case r >= '가' && r <= '힣':
			korean++
		case unicode.IsLetter(r) && r < 128:
			english++
		}
	}
	if korean > english {
		return "ko"
	}
	return "en"
}

var (
	spacesRe    = regexp.MustCompile(`\s+`)
	questionsRe = regexp.MustCompile(`\?+`)
)

func normalizeQuery(query string) string {
	normalized := spacesRe.ReplaceAllString(query, " ")
	normalized = questionsRe.ReplaceAllString(normalized, "?")
	return strings.TrimSpace(normalized)
}

// intentKeywords strengthen intent confidence when explicitly present.
var intentKeywords = map[Intent][]string{
	IntentAnalyzeStock:  {"분석", "analyze", "알려줘", "보여줘", "tell", "show"},
	IntentCompareStocks: {"비교", "compare", "vs", "versus", "차이"},
	IntentGetSentiment:  {"감성", "sentiment", "버즈", "여론", "분위기"},
	IntentGetNews:       {"뉴스", "news", "소식", "최신", "latest", "공시"},
	IntentGetFinancials: {"재무", "financial", "실적", "매출", "revenue", "이익"},
}

// calculateConfidence combines intent clarity, entity quality, and
// overall query consistency into a [0,1] score starting from a 0.3
// base.
func calculateConfidence(intent Intent, stocks, crypto []string, periodExpr, query string) float64 {
	confidence := 0.3
	confidence += intentConfidence(intent, query)
	confidence += entityConfidence(stocks, crypto, periodExpr)
	confidence += consistencyBonus(intent, stocks, query)
	return min(max(confidence, 0.0), 1.0)
}

func intentConfidence(intent Intent, query string) float64 {
	lower := strings.ToLower(query)
	matched := 0
	for _, kw := range intentKeywords[intent] {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	if matched > 0 {
		return min(0.3+float64(matched-1)*0.05, 0.4)
	}
	if intent == IntentAnalyzeStock {
		return 0.1
	}
	return 0.2
}

func entityConfidence(stocks, crypto []string, periodExpr string) float64 {
	score := 0.0

	switch len(stocks) {
	case 0:
		score -= 0.2
	case 1:
		score += 0.25
	case 2:
		score += 0.3
	default:
		score += 0.15
	}

	for _, s := range stocks {
		if _, ok := wellKnownStocks[s]; ok {
			score += 0.05
		}
		if isTickerFormat(s) {
			score += 0.03
		}
	}

	if periodExpr != "" {
		score += 0.05
	}
	if len(crypto) > 0 {
		score += 0.06
	}
	return min(score, 0.4)
}

func consistencyBonus(intent Intent, stocks []string, query string) float64 {
	bonus := 0.0
	lower := strings.ToLower(query)

	if intent == IntentCompareStocks && len(stocks) == 2 {
		bonus += 0.1
	}
	if intent == IntentGetSentiment && containsAny(lower, "감성", "sentiment", "분위기") {
		bonus += 0.08
	}
	if intent == IntentGetNews && containsAny(lower, "뉴스", "news", "최신", "latest") {
		bonus += 0.08
	}
	if containsAny(query, "?", "어떻게", "어떨", "how", "what") {
		bonus += 0.05
	}
	if containsAny(lower, "부탁", "please", "주세요", "알려주세요") {
		bonus += 0.03
	}
	return min(bonus, 0.2)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isTickerFormat(s string) bool {
	if len(s) == 0 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
