package agents

import (
	"context"
	"encoding/json"
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

const (
	dartListURL       = "https://opendart.fss.or.kr/api/list.json"
	secSubmissionsURL = "https://data.sec.gov/submissions"

	// SEC blocks requests without an identifying User-Agent.
	secUserAgent = "stockai/1.0 (contact@stockai.dev)"
)

// cikByTicker maps US tickers to their SEC Central Index Key.
var cikByTicker = map[string]string{
	"AAPL":  "0000320193",
	"MSFT":  "0000789019",
	"GOOGL": "0001652044",
	"GOOG":  "0001652044",
	"AMZN":  "0001018724",
	"TSLA":  "0001318605",
	"META":  "0001326801",
	"NVDA":  "0001045810",
	"JPM":   "0000019617",
	"V":     "0001403161",
}

// secFormNames labels the filing types worth surfacing in a report.
var secFormNames = map[string]string{
	"10-K":    "연간 보고서",
	"10-Q":    "분기 보고서",
	"8-K":     "주요 사건 보고",
	"DEF 14A": "위임장 권유 신고서",
	"S-1":     "증권 신고서",
	"SC 13G":  "5% 이상 지분 보고",
	"4":       "내부자 거래 보고",
}

// DisclosureAgent fetches corporate filings: DART for KRX-listed
// names, SEC EDGAR for US tickers.
type DisclosureAgent struct {
	apiKey  string
	baseURL string
	secURL  string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewDisclosureAgent creates the disclosure source agent.
func NewDisclosureAgent(apiKey string, timeout time.Duration) *DisclosureAgent {
	return &DisclosureAgent{
		apiKey:  apiKey,
		baseURL: dartListURL,
		secURL:  secSubmissionsURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		log:     logger.Get().With("agent", "disclosure"),
	}
}

// Kind returns the source kind.
func (a *DisclosureAgent) Kind() domain.SourceKind { return domain.SourceDisclosure }

// Fetch returns recent filings for the query, mock on any failure.
// Korean queries go to DART, everything else to SEC EDGAR.
func (a *DisclosureAgent) Fetch(ctx context.Context, q Query) domain.Payload {
	start := time.Now()

	var items []domain.Item
	var err error
	if q.IsKorean {
		items, err = a.fetchDART(ctx, q)
	} else {
		items, err = a.fetchEDGAR(ctx, q)
	}
	if err != nil {
		if !errors.Is(err, errors.ErrMissingCredentials) {
			a.log.Warnf("Disclosure fetch failed for %s, serving mock: %v", q.Name, err)
		}
		payload := mockDisclosurePayload(q)
		observeFetch(a.Kind(), payload.Provenance, start, err)
		return payload
	}

	payload := domain.Payload{
		Kind:       domain.SourceDisclosure,
		Provenance: domain.RealData,
		Items:      items,
	}
	observeFetch(a.Kind(), payload.Provenance, start, nil)
	return payload
}

type dartListResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	List    []struct {
		CorpName string `json:"corp_name"`
		ReportNm string `json:"report_nm"`
		RceptNo  string `json:"rcept_no"`
		RceptDt  string `json:"rcept_dt"`
	} `json:"list"`
}

func (a *DisclosureAgent) fetchDART(ctx context.Context, q Query) ([]domain.Item, error) {
	if a.apiKey == "" {
		return nil, errors.ErrMissingCredentials
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	params := url.Values{}
	params.Set("crtfc_key", a.apiKey)
	params.Set("bgn_de", now.AddDate(0, 0, -30).Format("20060102"))
	params.Set("end_de", now.Format("20060102"))
	params.Set("page_no", "1")
	params.Set("page_count", strconv.Itoa(10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dart request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "dart request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "dart returned %d", resp.StatusCode)
	}

	var body dartListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode dart response")
	}
	// "000" is DART's success status; "013" means no matching filings.
	if body.Status != "000" {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "dart status %s: %s", body.Status, body.Message)
	}

	items := make([]domain.Item, 0, len(body.List))
	for _, filing := range body.List {
		// Keep only the company under analysis.
		if filing.CorpName != q.Name {
			continue
		}
		created, _ := time.Parse("20060102", filing.RceptDt)
		items = append(items, domain.Item{
			Title:     filing.ReportNm,
			CreatedAt: created,
			URL:       "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=" + filing.RceptNo,
		})
	}

	if len(items) == 0 {
		return nil, errors.ErrEmptyPayload
	}
	return items, nil
}

type secSubmissionsResponse struct {
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// fetchEDGAR pulls the submissions index for the ticker's CIK. EDGAR
// needs no API key, only an identifying User-Agent.
func (a *DisclosureAgent) fetchEDGAR(ctx context.Context, q Query) ([]domain.Item, error) {
	cik, ok := cikByTicker[strings.ToUpper(q.Symbol)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmptyPayload, "no CIK mapping for %s", q.Symbol)
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.secURL+"/CIK"+cik+".json", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build edgar request")
	}
	req.Header.Set("User-Agent", secUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "edgar request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "edgar returned %d", resp.StatusCode)
	}

	var body secSubmissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode edgar response")
	}

	recent := body.Filings.Recent
	// The recent block is parallel arrays; trust only the shortest.
	n := len(recent.AccessionNumber)
	for _, l := range []int{len(recent.FilingDate), len(recent.Form), len(recent.PrimaryDocument)} {
		if l < n {
			n = l
		}
	}

	items := make([]domain.Item, 0, 10)
	for i := 0; i < n && len(items) < 10; i++ {
		form := recent.Form[i]
		title := form
		if desc, ok := secFormNames[form]; ok {
			title = form + " " + desc
		}
		created, _ := time.Parse("2006-01-02", recent.FilingDate[i])
		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		items = append(items, domain.Item{
			Title:     title,
			Body:      body.Name,
			CreatedAt: created,
			URL: "https://www.sec.gov/Archives/edgar/data/" +
				strings.TrimLeft(cik, "0") + "/" + accession + "/" + recent.PrimaryDocument[i],
		})
	}

	if len(items) == 0 {
		return nil, errors.ErrEmptyPayload
	}
	return items, nil
}

func mockDisclosurePayload(q Query) domain.Payload {
	now := time.Now()
	return domain.Payload{
		Kind:       domain.SourceDisclosure,
		Provenance: domain.MockData,
		Items: []domain.Item{
			{
				Title:     "분기보고서 (" + now.Format("2006.01") + ")",
				Body:      "3분기 영업이익 전년 동기 대비 30% 증가",
				CreatedAt: now.AddDate(0, 0, -5),
			},
			{
				Title:     "주요사항보고서(자기주식취득신탁계약체결결정)",
				Body:      "3조원 규모 자사주 매입 결정",
				CreatedAt: now.AddDate(0, 0, -10),
			},
			{
				Title:     "배당금 인상 공시",
				CreatedAt: now.AddDate(0, 0, -15),
			},
		},
	}
}
