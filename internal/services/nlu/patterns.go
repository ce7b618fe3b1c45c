package nlu

import "regexp"

// Intent is the classified purpose of a chat query.
type Intent string

const (
	IntentAnalyzeStock  Intent = "analyze_stock"
	IntentCompareStocks Intent = "compare_stocks"
	IntentGetSentiment  Intent = "get_sentiment"
	IntentGetFinancials Intent = "get_financials"
	IntentGetNews       Intent = "get_news"
)

// intentRule pairs an intent with its trigger patterns. Rules are
// evaluated in order and the first match wins, so the broad
// analyze_stock phrasings stay ahead of the narrower intents.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

var intentRules = []intentRule{
	{IntentAnalyzeStock, compileAll(
		`분석.*해.*줘`, `어때\?*$`, `알려.*줘`, `보여.*줘`, `설명.*해`,
		`analyze`, `tell me about`, `show me`,
	)},
	{IntentCompareStocks, compileAll(
		`비교.*해`, `뭐.*좋`, `vs`, `compare`, `versus`, `차이`,
	)},
	{IntentGetSentiment, compileAll(
		`분위기`, `감성`, `sentiment`, `mood`, `버즈`, `여론`,
	)},
	{IntentGetFinancials, compileAll(
		`재무`, `실적`, `매출`, `이익`, `financials`, `earnings`, `revenue`,
	)},
	{IntentGetNews, compileAll(
		`뉴스`, `소식`, `공시`, `news`, `announcement`, `최근.*소식`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// koreanStockPattern matches known KRX listings by name.
var koreanStockPattern = regexp.MustCompile(
	`(삼성전자|SK하이닉스|sk하이닉스|하이닉스|에스케이하이닉스|LG에너지솔루션|현대차|기아|카카오|네이버|셀트리온|삼성바이오로직스|포스코|KB금융|신한금융|더본코리아|CJ|롯데|신세계|현대백화점|이마트)`,
)

// unknownKoreanStockPattern catches unlisted Korean company names by
// their common corporate suffixes.
var unknownKoreanStockPattern = regexp.MustCompile(
	`([가-힣]{2,8}(?:전자|화학|바이오|제약|건설|유통|식품|통신|금융|보험|증권|카드|코리아|그룹|홀딩스|산업|엔터|게임|테크|미디어))`,
)

// usStockPattern matches well-known US names in English or Korean.
var usStockPattern = regexp.MustCompile(
	`(?i)(AAPL|Apple|애플|MSFT|Microsoft|마이크로소프트|GOOGL|GOOG|Google|구글|AMZN|Amazon|아마존|META|Facebook|페이스북|메타|NVDA|Nvidia|엔비디아|TSLA|Tesla|테슬라|NFLX|Netflix|넷플릭스|DIS|Disney|디즈니|SPOT|Spotify|스포티파이|AMD|INTC|Intel|인텔|QCOM|Qualcomm|퀄컴|JPM|JPMorgan|GS|Goldman Sachs|골드만삭스|JNJ|존슨앤존슨|PFE|Pfizer|화이자|MRNA|Moderna|모더나|KO|코카콜라|PEP|펩시|WMT|Walmart|월마트|MCD|맥도날드|SBUX|Starbucks|스타벅스|UBER|우버|COIN|Coinbase|코인베이스|PYPL|PayPal|페이팔|BA|Boeing|보잉|XOM|엑손모빌|CVX|쉐브론|BABA|Alibaba|알리바바|BIDU|바이두)`,
)

// tickerPattern is a whitelist so arbitrary uppercase words are not
// mistaken for symbols.
var tickerPattern = regexp.MustCompile(
	`\b(AAPL|MSFT|GOOGL|GOOG|AMZN|META|NVDA|TSLA|NFLX|AMD|INTC|TSM|AVGO|QCOM|MU|CRM|ORCL|ADBE|` +
		`JPM|BAC|WFC|GS|MS|BLK|AXP|JNJ|PFE|UNH|ABBV|MRK|LLY|MRNA|` +
		`KO|PEP|WMT|HD|MCD|SBUX|NKE|COST|DIS|CMCSA|VZ|SPOT|SNAP|PINS|` +
		`BA|CAT|GE|HON|UPS|FDX|LMT|XOM|CVX|COP|SLB|` +
		`UBER|LYFT|F|GM|COIN|SQ|PYPL|V|MA|HOOD|` +
		`BABA|JD|PDD|BIDU|NIO|XPEV|LI|RIVN|LCID|PLUG|ENPH)\b`,
)

// indexETFPattern matches broad market funds and leveraged products.
var indexETFPattern = regexp.MustCompile(
	`\b(SPY|QQQ|IWM|VTI|VOO|VEA|VWO|GLD|SLV|TLT|ARKK|SOXL|TQQQ|SPXL)\b`,
)

// cryptoPattern matches supported coins by ticker or common name.
// \b is ASCII-only in RE2, so the Korean names sit outside it.
var cryptoPattern = regexp.MustCompile(
	`(비트코인|이더리움|도지코인|솔라나|리플)|(?i)\b(Bitcoin|BTC|Ethereum|ETH|Dogecoin|DOGE|Solana|SOL|XRP)\b`,
)

// periodPattern matches relative and absolute time expressions.
var periodPattern = regexp.MustCompile(
	`(오늘|어제|이번\s*주|지난\s*주|이번\s*달|지난\s*달|최근|[0-9]+일|[0-9]+주|[0-9]+개월|[0-9]+년)`,
)

// stopWords are common query words that must never be treated as a
// stock name.
var stopWords = map[string]struct{}{
	"stock": {}, "stocks": {}, "share": {}, "shares": {}, "analysis": {},
	"analyze": {}, "report": {}, "show": {}, "tell": {}, "give": {},
	"news": {}, "sentiment": {}, "latest": {}, "recent": {}, "current": {},
	"compare": {}, "vs": {}, "versus": {}, "price": {}, "prices": {},
	"market": {}, "trading": {}, "buy": {}, "sell": {}, "hold": {},
	"performance": {}, "data": {}, "information": {}, "about": {},
	"please": {}, "today": {}, "yesterday": {}, "good": {}, "bad": {},
	"주식": {}, "종목": {}, "기업": {}, "회사": {}, "주가": {}, "시세": {},
	"분석": {}, "예측": {}, "전망": {}, "보고서": {},
	"보여줘": {}, "알려줘": {}, "찾아줘": {},
	"오늘": {}, "어제": {}, "지금": {}, "현재": {}, "최근": {},
	"이번": {}, "지난": {}, "다음": {}, "올해": {}, "작년": {},
}

// aliasMap normalizes nicknames, Korean spellings, and tickers to one
// canonical name per company.
var aliasMap = map[string]string{
	"삼성":        "삼성전자",
	"SAMSUNG":   "삼성전자",
	"sk하이닉스":    "SK하이닉스",
	"에스케이하이닉스":  "SK하이닉스",
	"하이닉스":      "SK하이닉스",
	"NAVER":     "네이버",
	"KAKAO":     "카카오",
	"현대자동차":     "현대차",
	"기아자동차":     "기아",
	"apple":     "Apple",
	"APPLE":     "Apple",
	"애플":        "Apple",
	"microsoft": "Microsoft",
	"마이크로소프트":   "Microsoft",
	"google":    "Google",
	"구글":        "Google",
	"amazon":    "Amazon",
	"아마존":       "Amazon",
	"tesla":     "Tesla",
	"테슬라":       "Tesla",
	"netflix":   "Netflix",
	"넷플릭스":      "Netflix",
	"facebook":  "META",
	"Facebook":  "META",
	"메타":        "META",
	"페이스북":      "META",
	"nvidia":    "Nvidia",
	"엔비디아":      "Nvidia",
	"AAPL":      "Apple",
	"MSFT":      "Microsoft",
	"GOOGL":     "Google",
	"GOOG":      "Google",
	"AMZN":      "Amazon",
	"TSLA":      "Tesla",
	"NFLX":      "Netflix",
	"NVDA":      "Nvidia",
	"INTC":      "Intel",
	"인텔":        "Intel",
	"JPM":       "JPMorgan",
	"GS":        "Goldman Sachs",
	"골드만삭스":     "Goldman Sachs",
	"JNJ":       "Johnson & Johnson",
	"존슨앤존슨":     "Johnson & Johnson",
	"PFE":       "Pfizer",
	"화이자":       "Pfizer",
	"KO":        "Coca Cola",
	"코카콜라":      "Coca Cola",
	"WMT":       "Walmart",
	"월마트":       "Walmart",
	"MCD":       "McDonald's",
	"맥도날드":      "McDonald's",
	"SBUX":      "Starbucks",
	"스타벅스":      "Starbucks",
	"DIS":       "Disney",
	"디즈니":       "Disney",
	"SPOT":      "Spotify",
	"스포티파이":     "Spotify",
	"UBER":      "Uber",
	"우버":        "Uber",
	"COIN":      "Coinbase",
	"코인베이스":     "Coinbase",
	"PYPL":      "PayPal",
	"페이팔":       "PayPal",
	"BABA":      "Alibaba",
	"알리바바":      "Alibaba",
	"BA":        "Boeing",
	"보잉":        "Boeing",
	"비트코인":      "Bitcoin",
	"이더리움":      "Ethereum",
	"도지코인":      "Dogecoin",
	"솔라나":       "Solana",
	"리플":        "XRP",
}

// wellKnownStocks grant a confidence bonus when extracted.
var wellKnownStocks = map[string]struct{}{
	"삼성전자": {}, "SK하이닉스": {}, "네이버": {}, "카카오": {}, "현대차": {},
	"Apple": {}, "Microsoft": {}, "Google": {}, "Amazon": {}, "Tesla": {},
	"Netflix": {}, "META": {}, "Nvidia": {}, "Intel": {}, "Disney": {},
	"Coca Cola": {}, "McDonald's": {},
}
