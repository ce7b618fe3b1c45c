package nlu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedParser(t *testing.T) *Parser {
	t.Helper()
	p := NewParser()
	// Thursday
	p.now = func() time.Time {
		return time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	}
	return p
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"삼성전자 분석해줘", IntentAnalyzeStock},
		{"테슬라 어때?", IntentAnalyzeStock},
		{"카카오 최근 뉴스 알려줘", IntentAnalyzeStock},
		{"포스코랑 현대차 뭐가 더 좋아?", IntentCompareStocks},
		{"AAPL vs MSFT", IntentCompareStocks},
		{"테슬라 요즘 분위기 궁금해", IntentGetSentiment},
		{"NVDA 재무제표", IntentGetFinancials},
		{"현대차 공시 내용", IntentGetNews},
		{"삼성전자", IntentAnalyzeStock},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyIntent(tt.query), tt.query)
	}
}

func TestExtractKoreanStocks(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("삼성전자 최근 실적 어때?")
	assert.Equal(t, []string{"삼성전자"}, r.Stocks)

	r = p.Analyze("하이닉스 분석해줘")
	assert.Equal(t, []string{"SK하이닉스"}, r.Stocks)
}

func TestExtractAliasNormalization(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("애플이랑 마이크로소프트 비교해줘")
	assert.Equal(t, []string{"Apple", "Microsoft"}, r.Stocks)
	assert.Equal(t, IntentCompareStocks, r.Intent)
}

func TestExtractTickerDeduplicatesWithName(t *testing.T) {
	p := fixedParser(t)

	// Ticker and Korean name both resolve to Tesla and collapse to one.
	r := p.Analyze("TSLA 테슬라 분석해줘")
	assert.Equal(t, []string{"Tesla"}, r.Stocks)
}

func TestStopWordsNotStocks(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("show me the stock analysis")
	assert.Empty(t, r.Stocks)
}

func TestUnknownKoreanStockBySuffix(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("한미반도체그룹 어때?")
	require.Len(t, r.Stocks, 1)
	assert.Contains(t, r.Stocks[0], "그룹")
}

func TestCryptoExtraction(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("비트코인 지금 사도 돼?")
	assert.Equal(t, []string{"BTC"}, r.CryptoTickers)

	r = p.Analyze("ETH 어때?")
	assert.Equal(t, []string{"ETH"}, r.CryptoTickers)
}

func TestPeriodDefaults(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("삼성전자 분석해줘")
	assert.Equal(t, 31, r.Period.Days)
}

func TestPeriodExpressions(t *testing.T) {
	p := fixedParser(t)
	now := p.now()

	tests := []struct {
		query     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"삼성전자 오늘 주가", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), now},
		{"테슬라 3주 동안 흐름", now.AddDate(0, 0, -21), now},
		{"NVDA 지난 3개월 재무제표 보여줘", now.AddDate(0, 0, -90), now},
		{"엔비디아 1년 실적", now.AddDate(0, 0, -365), now},
	}
	for _, tt := range tests {
		r := p.Analyze(tt.query)
		assert.Equal(t, tt.wantStart, r.Period.Start, tt.query)
		assert.Equal(t, tt.wantEnd, r.Period.End, tt.query)
	}
}

func TestPeriodThisWeekStartsMonday(t *testing.T) {
	p := fixedParser(t)

	r := p.Analyze("LG에너지솔루션 이번주 분석해줘")
	// 2026-08-20 is a Thursday; Monday is the 17th.
	assert.Equal(t, 17, r.Period.Start.Day())
}

func TestLanguageDetection(t *testing.T) {
	assert.Equal(t, "ko", detectLanguage("삼성전자 어때?"))
	assert.Equal(t, "en", detectLanguage("Tell me about Google"))
	assert.Equal(t, "ko", detectLanguage("카카오 vs 네이버"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "삼성전자 어때?", normalizeQuery("  삼성전자   어때???  "))
}

func TestConfidenceOrdering(t *testing.T) {
	p := fixedParser(t)

	clear := p.Analyze("삼성전자 최근 실적 분석해줘")
	vague := p.Analyze("뭐 사면 좋을까")

	assert.Greater(t, clear.Confidence, vague.Confidence)
	assert.GreaterOrEqual(t, clear.Confidence, 0.0)
	assert.LessOrEqual(t, clear.Confidence, 1.0)
}

func TestConfidenceComparisonBonus(t *testing.T) {
	p := fixedParser(t)

	pair := p.Analyze("애플이랑 테슬라 비교해줘")
	single := p.Analyze("애플 비교해줘")

	assert.Greater(t, pair.Confidence, single.Confidence)
}
