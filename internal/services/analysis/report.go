package analysis

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	quotedomain "stockai/internal/domain/quote"
	domain "stockai/internal/domain/sentiment"
)

// renderReport builds the chat-facing Korean report text.
func renderReport(r *Report) string {
	var b strings.Builder
	for i, a := range r.Analyses {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		renderAnalysis(&b, a)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnalysis(b *strings.Builder, a StockAnalysis) {
	fmt.Fprintf(b, "📊 **%s 분석 결과**\n", a.Name)
	b.WriteString(provenanceNotice(a.Summary))

	fmt.Fprintf(b, "**전체 감성**: %s (점수: %.2f)\n", a.Sentiment.Label, a.Sentiment.OverallSentiment)
	fmt.Fprintf(b, "**신뢰도**: %.0f%%\n", a.Sentiment.Confidence*100)

	if a.Quote != nil {
		b.WriteString("\n")
		b.WriteString(quoteLine(*a.Quote))
	}

	if a.Technical != nil {
		fmt.Fprintf(b, "\n**기술적 신호**: %s (강도: %.0f%%, 추세: %s, RSI: %.1f)\n",
			a.Technical.Signal, a.Technical.Strength*100, a.Technical.Trend, a.Technical.Indicators.RSI)
	}

	if len(a.Sentiment.KeyFactors) > 0 {
		b.WriteString("\n**주요 영향 요인:**\n")
		for _, factor := range a.Sentiment.KeyFactors {
			fmt.Fprintf(b, "• %s\n", factor)
		}
	}

	fmt.Fprintf(b, "\n**AI 의견:**\n%s\n", a.Sentiment.Recommendation)
}

// provenanceNotice mirrors the reliability warning shown with every
// analysis: mock data always gets flagged, never silently blended in.
func provenanceNotice(summary map[domain.Provenance]int) string {
	real, mock := summary[domain.RealData], summary[domain.MockData]

	if mock > 0 {
		notice := fmt.Sprintf("\n⚠️ **주의**: 실제 데이터 %d개, 모의 데이터 %d개를 사용한 분석입니다.\n", real, mock)
		if real == 0 {
			notice += "🔸 **데이터 신뢰도 낮음**: 모든 데이터가 모의 데이터입니다. API 키 설정을 확인해주세요.\n\n"
		} else {
			notice += "🔸 **혼합 데이터**: 일부 API가 설정되지 않아 모의 데이터가 포함되었습니다.\n\n"
		}
		return notice
	}
	return fmt.Sprintf("\n✅ **데이터 소스**: %d개의 실제 데이터 소스를 사용한 신뢰성 높은 분석입니다.\n\n", real)
}

func quoteLine(q quotedomain.Quote) string {
	price := q.Price.InexactFloat64()
	changePct := q.ChangePercent.InexactFloat64()

	var rendered string
	if q.Currency == "KRW" {
		rendered = humanize.Comma(int64(price)) + "원"
	} else {
		rendered = "$" + humanize.CommafWithDigits(price, 2)
	}

	arrow := "▲"
	if changePct < 0 {
		arrow = "▼"
	}

	line := fmt.Sprintf("**현재가**: %s (%s%.2f%%, 거래량 %s)\n",
		rendered, arrow, changePct, humanize.Comma(q.Volume))
	if q.IsMock {
		line += "  _모의 시세입니다._\n"
	}
	return line
}
