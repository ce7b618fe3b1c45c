package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

const dartStatementsURL = "https://opendart.fss.or.kr/api/fnlttSinglAcnt.json"

// corpCodeByStock maps KRX stock codes to DART corp codes. DART keys
// statements by its own registry number, not the ticker.
var corpCodeByStock = map[string]string{
	"005930": "00126380", // 삼성전자
	"000660": "00164779", // SK하이닉스
	"005380": "00164742", // 현대차
	"035420": "00226352", // 네이버
	"035720": "00256598", // 카카오
	"373220": "01251716", // LG에너지솔루션
	"207940": "00976610", // 삼성바이오로직스
	"051910": "00190321", // LG화학
}

// financialRatios is the subset of ratios the health score reads.
type financialRatios struct {
	ROE           float64
	OPM           float64
	DebtRatio     float64
	CurrentRatio  float64
	AssetTurnover float64
}

// FinancialAgent fetches annual statements from the DART single-company
// API, derives ratios and a 0-100 health score, and renders them as
// text items. Mock data covers missing keys, non-KRX names, and API
// failures.
type FinancialAgent struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewFinancialAgent creates the fundamentals source agent.
func NewFinancialAgent(apiKey string, timeout time.Duration) *FinancialAgent {
	return &FinancialAgent{
		apiKey:  apiKey,
		baseURL: dartStatementsURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		log:     logger.Get().With("agent", "financial"),
	}
}

// Kind returns the source kind.
func (a *FinancialAgent) Kind() domain.SourceKind { return domain.SourceFinancial }

// Fetch returns fundamentals summaries for the query, mock on any
// failure.
func (a *FinancialAgent) Fetch(ctx context.Context, q Query) domain.Payload {
	start := time.Now()

	items, err := a.fetchReal(ctx, q)
	if err != nil {
		if !errors.Is(err, errors.ErrMissingCredentials) {
			a.log.Warnf("Financial fetch failed for %s, serving mock: %v", q.Name, err)
		}
		payload := mockFinancialPayload(q)
		observeFetch(a.Kind(), payload.Provenance, start, err)
		return payload
	}

	payload := domain.Payload{
		Kind:       domain.SourceFinancial,
		Provenance: domain.RealData,
		Items:      items,
	}
	observeFetch(a.Kind(), payload.Provenance, start, nil)
	return payload
}

type dartStatementsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		AccountNm    string `json:"account_nm"`
		ThstrmAmount string `json:"thstrm_amount"`
	} `json:"list"`
}

func (a *FinancialAgent) fetchReal(ctx context.Context, q Query) ([]domain.Item, error) {
	if a.apiKey == "" {
		return nil, errors.ErrMissingCredentials
	}
	corpCode, ok := corpCodeByStock[strings.TrimSuffix(strings.TrimSuffix(q.Symbol, ".KS"), ".KQ")]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmptyPayload, "no DART corp code for %s", q.Symbol)
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("crtfc_key", a.apiKey)
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", latestAnnualYear(time.Now()))
	params.Set("reprt_code", "11011")
	params.Set("fs_div", "CFS")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dart statements request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "dart statements request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "dart returned %d", resp.StatusCode)
	}

	var body dartStatementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode dart statements")
	}
	if body.Status != "000" {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "dart status %s: %s", body.Status, body.Message)
	}

	accounts := parseStatementAccounts(&body)
	if len(accounts) == 0 {
		return nil, errors.ErrEmptyPayload
	}

	ratios := calculateRatios(accounts)
	score, grade, gradeText := healthScore(ratios)

	now := time.Now()
	items := []domain.Item{
		{
			Title:     fmt.Sprintf("%s 재무 건전성 등급 %s (%s)", q.Name, grade, gradeText),
			Body:      healthEvaluation(score),
			CreatedAt: now,
		},
	}
	for _, point := range investmentPoints(ratios) {
		items = append(items, domain.Item{Title: point, CreatedAt: now})
	}
	return items, nil
}

// latestAnnualYear picks the most recent business year whose annual
// report has been filed. Annual reports land at the end of March.
func latestAnnualYear(now time.Time) string {
	if now.Month() <= time.March {
		return strconv.Itoa(now.Year() - 2)
	}
	return strconv.Itoa(now.Year() - 1)
}

// parseStatementAccounts maps DART account names to the figures the
// ratios need, in millions of won. The first match per account wins;
// consolidated statements repeat account names across sections.
func parseStatementAccounts(body *dartStatementsResponse) map[string]float64 {
	accounts := make(map[string]float64)
	set := func(key string, raw string) {
		if _, done := accounts[key]; done {
			return
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return
		}
		accounts[key] = v / 1_000_000
	}

	for _, item := range body.List {
		name := item.AccountNm
		switch {
		case strings.Contains(name, "자산총계"):
			set("total_assets", item.ThstrmAmount)
		case strings.Contains(name, "부채총계"):
			set("total_liabilities", item.ThstrmAmount)
		case strings.Contains(name, "자본총계"):
			set("total_equity", item.ThstrmAmount)
		case strings.Contains(name, "유동자산") && !strings.Contains(name, "비유동"):
			set("current_assets", item.ThstrmAmount)
		case strings.Contains(name, "유동부채") && !strings.Contains(name, "비유동"):
			set("current_liabilities", item.ThstrmAmount)
		case strings.Contains(name, "매출액"):
			set("revenue", item.ThstrmAmount)
		case strings.Contains(name, "영업이익"):
			set("operating_income", item.ThstrmAmount)
		case strings.Contains(name, "당기순이익"):
			set("net_income", item.ThstrmAmount)
		}
	}
	return accounts
}

func calculateRatios(acc map[string]float64) financialRatios {
	var r financialRatios
	if equity := acc["total_equity"]; equity > 0 {
		r.ROE = acc["net_income"] / equity * 100
		r.DebtRatio = acc["total_liabilities"] / equity * 100
	}
	if revenue := acc["revenue"]; revenue > 0 {
		r.OPM = acc["operating_income"] / revenue * 100
	}
	if liabilities := acc["current_liabilities"]; liabilities > 0 {
		r.CurrentRatio = acc["current_assets"] / liabilities * 100
	}
	if assets := acc["total_assets"]; assets > 0 {
		r.AssetTurnover = acc["revenue"] / assets
	}
	return r
}

// healthScore grades profitability (40), stability (40), and
// efficiency (20) into a 0-100 score with a letter grade.
func healthScore(r financialRatios) (int, string, string) {
	score := 0
	score += bandScore(r.ROE, 15, 10, 5, 0)
	score += bandScore(r.OPM, 15, 10, 5, 0)
	score += bandScore(-r.DebtRatio, -100, -150, -200, -300)
	score += bandScore(r.CurrentRatio, 200, 150, 100, 50)
	score += bandScore(r.AssetTurnover, 1.0, 0.8, 0.5, 0.3)

	switch {
	case score >= 80:
		return score, "A", "매우 우수"
	case score >= 60:
		return score, "B", "우수"
	case score >= 40:
		return score, "C", "보통"
	case score >= 20:
		return score, "D", "주의"
	default:
		return score, "E", "위험"
	}
}

// bandScore awards 20/15/10/5 points for clearing each threshold, in
// descending order of strictness.
func bandScore(v, top, high, mid, low float64) int {
	switch {
	case v > top:
		return 20
	case v > high:
		return 15
	case v > mid:
		return 10
	case v > low:
		return 5
	default:
		return 0
	}
}

func healthEvaluation(score int) string {
	switch {
	case score >= 80:
		return "재무구조가 매우 건전하며 수익성도 우수합니다. 장기투자에 적합한 기업입니다."
	case score >= 60:
		return "안정적인 재무구조와 양호한 수익성을 보이고 있습니다."
	case score >= 40:
		return "재무구조는 평균적이나 일부 개선이 필요한 부분이 있습니다."
	case score >= 20:
		return "재무건전성에 주의가 필요하며, 투자시 신중한 판단이 요구됩니다."
	default:
		return "재무구조가 취약하여 높은 리스크가 존재합니다."
	}
}

func investmentPoints(r financialRatios) []string {
	var points []string
	if r.ROE > 15 {
		points = append(points, fmt.Sprintf("✅ 높은 ROE (%.1f%%): 우수한 자본 효율성", r.ROE))
	}
	if r.OPM > 15 {
		points = append(points, fmt.Sprintf("✅ 높은 영업이익률 (%.1f%%): 강한 본업 경쟁력", r.OPM))
	}
	if r.DebtRatio > 0 && r.DebtRatio < 100 {
		points = append(points, fmt.Sprintf("✅ 낮은 부채비율 (%.1f%%): 안정적인 재무구조", r.DebtRatio))
	}
	if r.CurrentRatio > 200 {
		points = append(points, fmt.Sprintf("✅ 높은 유동비율 (%.1f%%): 단기 지급능력 우수", r.CurrentRatio))
	}
	if r.ROE < 5 {
		points = append(points, fmt.Sprintf("⚠️ 낮은 ROE (%.1f%%): 수익성 개선 필요", r.ROE))
	}
	if r.DebtRatio > 200 {
		points = append(points, fmt.Sprintf("⚠️ 높은 부채비율 (%.1f%%): 재무 리스크 존재", r.DebtRatio))
	}
	return points
}

func mockFinancialPayload(q Query) domain.Payload {
	now := time.Now()
	return domain.Payload{
		Kind:       domain.SourceFinancial,
		Provenance: domain.MockData,
		Items: []domain.Item{
			{
				Title:     fmt.Sprintf("%s 분기 실적 요약", q.Name),
				Body:      "매출 증가 및 영업이익 개선, 흑자 기조 유지",
				CreatedAt: now.AddDate(0, 0, -3),
			},
			{
				Title:     fmt.Sprintf("%s 재무 건전성 지표", q.Name),
				Body:      "부채비율 안정적, 현금흐름 양호",
				CreatedAt: now.AddDate(0, 0, -7),
			},
		},
	}
}
