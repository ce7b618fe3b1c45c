package sentiment

// Keyword tables for rule-based scoring. Korean and English terms are
// mixed because titles arrive from both KRX disclosures and US news feeds.

var disclosurePositive = []string{
	// 재무 긍정
	"증가", "상승", "개선", "신고가", "흑자전환", "실적개선", "성장", "호조", "증익", "배당증가",
	"increase", "rise", "improve", "profit", "growth", "dividend", "beat", "exceed", "strong",
	// 사업 긍정
	"확장", "투자", "계약", "파트너십", "신제품", "혁신", "출시",
	"expansion", "investment", "contract", "partnership", "launch", "innovation",
}

var disclosureNegative = []string{
	// 재무 부정
	"감소", "하락", "악화", "적자", "손실", "감액", "부진", "둔화", "적자전환",
	"decrease", "decline", "loss", "deficit", "warning", "cut", "weak", "miss", "below",
	// 사업 부정
	"철수", "중단", "지연", "취소", "구조조정", "리콜", "위험",
	"withdraw", "suspend", "delay", "cancel", "restructure", "recall", "risk",
}

// Neutral markers widen the jitter band for routine filings.
var disclosureNeutral = []string{
	"보고서", "공시", "발표", "안내", "변경", "결정",
	"report", "disclosure", "announce", "notice", "change", "decision",
}

var newsPositive = []string{
	// 주가/실적 긍정
	"상승", "급등", "신고가", "호조", "급반등", "상승세", "고공행진", "9만전자", "8만", "목표가상향",
	"rise", "surge", "high", "rally", "gain", "beat", "exceed", "strong", "outperform",
	// 사업 긍정
	"계약", "수주", "투자", "협력", "파트너십", "출시", "개발성공", "혁신",
	"contract", "investment", "partnership", "launch", "breakthrough", "innovation",
}

var newsNegative = []string{
	// 주가/실적 부정
	"하락", "급락", "부진", "우려", "위험", "경고", "실망", "부정적", "약세", "매도",
	"fall", "drop", "decline", "concern", "risk", "warning", "disappointing", "weak", "sell",
	// 사업 부정
	"지연", "취소", "중단", "손실", "리콜", "제재", "규제",
	"delay", "cancel", "suspend", "loss", "recall", "sanction", "regulation",
}

// mixedKeyword is a weak signal that nudges a headline score without
// flipping its polarity.
type mixedKeyword struct {
	keyword string
	delta   float64
}

var newsMixed = []mixedKeyword{
	{"기대감", 0.1},
	{"전망", 0.05},
	{"관심", 0.05},
	{"주목", 0.03},
	{"변동", -0.02},
	{"불확실", -0.05},
	{"혼조", 0.0},
}

// specialPattern adds a fixed delta when the pattern substring appears,
// optionally gated on at least one co-occurring substring.
type specialPattern struct {
	patterns []string // any-of
	requires []string // any-of, empty means unconditional
	delta    float64
}

var newsSpecials = []specialPattern{
	{patterns: []string{"9만전자", "8만", "9만"}, delta: 0.7},  // 목표가 관련
	{patterns: []string{"7만"}, delta: 0.5},                  // 현재가 회복
	{patterns: []string{"트럼프"}, requires: []string{"주식", "삼성"}, delta: -0.5}, // 정치적 불확실성
	{patterns: []string{"순매수", "매수"}, delta: 0.6},           // 기관 매수
	{patterns: []string{"매도", "급락"}, delta: -0.6},           // 매도 압력
	{patterns: []string{"실적"}, requires: []string{"호조", "성장"}, delta: 0.6},
	{patterns: []string{"배당", "주주환원"}, delta: 0.5},
	{patterns: []string{"목표가"}, requires: []string{"상향"}, delta: 0.7},
}

var bullishEmojis = []string{"🚀", "🌙", "💎", "🙌", "📈", "🔥", "💪"}
var bearishEmojis = []string{"📉", "🐻", "💔", "😢", "⚠️", "🔻"}

var bullishKeywords = []string{"moon", "rocket", "buy", "long", "bullish", "calls"}
var bearishKeywords = []string{"crash", "sell", "short", "bearish", "puts", "dump"}
