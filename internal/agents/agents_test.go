package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "stockai/internal/domain/sentiment"
)

func TestNewsAgentMockWithoutKey(t *testing.T) {
	agent := NewNewsAgent("", time.Second)

	payload := agent.Fetch(context.Background(), Query{Symbol: "AAPL", Name: "Apple"})

	assert.Equal(t, domain.SourceNews, payload.Kind)
	assert.Equal(t, domain.MockData, payload.Provenance)
	require.Len(t, payload.Items, 3)
	assert.Contains(t, payload.Items[0].Title, "Apple")
}

func TestNewsAgentRealFetchFiltersIrrelevant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "ko", r.URL.Query().Get("language"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"articles": []map[string]string{
				{"title": "삼성전자 주가 강세", "description": "실적 호조", "publishedAt": "2026-08-20T09:00:00Z"},
				{"title": "삼성동 맛집 탐방", "description": "주말 나들이", "publishedAt": "2026-08-20T10:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	agent := NewNewsAgent("test-key", time.Second)
	agent.baseURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "005930.KS", Name: "삼성전자", IsKorean: true})

	assert.Equal(t, domain.RealData, payload.Provenance)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "삼성전자 주가 강세", payload.Items[0].Title)
}

func TestNewsAgentFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	agent := NewNewsAgent("test-key", time.Second)
	agent.baseURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "AAPL", Name: "Apple"})

	assert.Equal(t, domain.MockData, payload.Provenance)
	assert.NotEmpty(t, payload.Items)
}

func TestDisclosureAgentMatchesCompanyName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dart-key", r.URL.Query().Get("crtfc_key"))
		assert.NotEmpty(t, r.URL.Query().Get("bgn_de"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "000",
			"list": []map[string]string{
				{"corp_name": "삼성전자", "report_nm": "분기보고서", "rcept_no": "20260801000001", "rcept_dt": "20260801"},
				{"corp_name": "다른회사", "report_nm": "주요사항보고서", "rcept_no": "20260801000002", "rcept_dt": "20260801"},
			},
		})
	}))
	defer srv.Close()

	agent := NewDisclosureAgent("dart-key", time.Second)
	agent.baseURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "005930.KS", Name: "삼성전자", IsKorean: true})

	assert.Equal(t, domain.RealData, payload.Provenance)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "분기보고서", payload.Items[0].Title)
}

func TestDisclosureAgentEDGARForUSTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CIK0000320193.json", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"name": "Apple Inc.",
			"filings": map[string]interface{}{
				"recent": map[string]interface{}{
					"accessionNumber": []string{"0000320193-26-000001", "0000320193-26-000002"},
					"filingDate":      []string{"2026-08-01", "2026-07-15"},
					"form":            []string{"10-Q", "8-K"},
					"primaryDocument": []string{"aapl-10q.htm", "aapl-8k.htm"},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewDisclosureAgent("", time.Second)
	agent.secURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "AAPL", Name: "Apple", IsKorean: false})

	assert.Equal(t, domain.RealData, payload.Provenance)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "10-Q 분기 보고서", payload.Items[0].Title)
	assert.Equal(t, "Apple Inc.", payload.Items[0].Body)
	assert.Contains(t, payload.Items[0].URL, "000032019326000001/aapl-10q.htm")
	assert.Equal(t, "8-K 주요 사건 보고", payload.Items[1].Title)
}

func TestDisclosureAgentEDGARRaggedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name": "Tesla, Inc.",
			"filings": map[string]interface{}{
				"recent": map[string]interface{}{
					"accessionNumber": []string{"0001318605-26-000001", "0001318605-26-000002"},
					"filingDate":      []string{"2026-08-01", "2026-07-15"},
					"form":            []string{"10-Q"},
					"primaryDocument": []string{"tsla-10q.htm", "tsla-8k.htm"},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewDisclosureAgent("", time.Second)
	agent.secURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "TSLA", Name: "Tesla", IsKorean: false})

	assert.Equal(t, domain.RealData, payload.Provenance)
	require.Len(t, payload.Items, 1)
}

func TestDisclosureAgentMockForUnmappedTicker(t *testing.T) {
	agent := NewDisclosureAgent("dart-key", time.Second)

	payload := agent.Fetch(context.Background(), Query{Symbol: "PLTR", Name: "Palantir", IsKorean: false})

	assert.Equal(t, domain.MockData, payload.Provenance)
	assert.NotEmpty(t, payload.Items)
}

func TestFinancialAgentMockWithoutKey(t *testing.T) {
	agent := NewFinancialAgent("", time.Second)

	payload := agent.Fetch(context.Background(), Query{Symbol: "005930.KS", Name: "삼성전자", IsKorean: true})

	assert.Equal(t, domain.SourceFinancial, payload.Kind)
	assert.Equal(t, domain.MockData, payload.Provenance)
	require.Len(t, payload.Items, 2)
	assert.Contains(t, payload.Items[0].Title, "삼성전자")
}

func TestFinancialAgentHealthFromStatements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dart-key", r.URL.Query().Get("crtfc_key"))
		assert.Equal(t, "00126380", r.URL.Query().Get("corp_code"))
		assert.Equal(t, "11011", r.URL.Query().Get("reprt_code"))

		// ROE 20, OPM 20, debt ratio 50, current ratio 300,
		// asset turnover 1.07: every band maxed, grade A.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "000",
			"list": []map[string]string{
				{"account_nm": "자산총계", "thstrm_amount": "140,000,000"},
				{"account_nm": "부채총계", "thstrm_amount": "50,000,000"},
				{"account_nm": "자본총계", "thstrm_amount": "100,000,000"},
				{"account_nm": "유동자산", "thstrm_amount": "60,000,000"},
				{"account_nm": "유동부채", "thstrm_amount": "20,000,000"},
				{"account_nm": "매출액", "thstrm_amount": "150,000,000"},
				{"account_nm": "영업이익", "thstrm_amount": "30,000,000"},
				{"account_nm": "당기순이익", "thstrm_amount": "20,000,000"},
			},
		})
	}))
	defer srv.Close()

	agent := NewFinancialAgent("dart-key", time.Second)
	agent.baseURL = srv.URL

	payload := agent.Fetch(context.Background(), Query{Symbol: "005930.KS", Name: "삼성전자", IsKorean: true})

	assert.Equal(t, domain.RealData, payload.Provenance)
	require.NotEmpty(t, payload.Items)
	assert.Contains(t, payload.Items[0].Title, "재무 건전성 등급 A")
	assert.Contains(t, payload.Items[0].Body, "장기투자에 적합")
	// Four investment points follow the grade summary.
	require.Len(t, payload.Items, 5)
	assert.Contains(t, payload.Items[1].Title, "높은 ROE")
}

func TestFinancialAgentMockForUnmappedStock(t *testing.T) {
	agent := NewFinancialAgent("dart-key", time.Second)

	payload := agent.Fetch(context.Background(), Query{Symbol: "999999.KS", Name: "이름없는회사", IsKorean: true})

	assert.Equal(t, domain.MockData, payload.Provenance)
	require.Len(t, payload.Items, 2)
}

func TestRedditAgentMockWithoutCredentials(t *testing.T) {
	agent := NewRedditAgent("", "", time.Second)

	payload := agent.Fetch(context.Background(), Query{Symbol: "TSLA", Name: "TSLA"})

	assert.Equal(t, domain.MockData, payload.Provenance)
	require.Len(t, payload.Items, 3)
	assert.Equal(t, 1523, payload.Items[0].Score)
	require.NotNil(t, payload.Items[0].Sentiment)
	assert.InDelta(t, 0.8, *payload.Items[0].Sentiment, 1e-9)
}

func TestRedditAgentTokenReuse(t *testing.T) {
	var tokenCalls int
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok-1", "expires_in": 3600})
	}))
	defer tokenSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"children": []map[string]interface{}{
					{"data": map[string]interface{}{
						"title": "TSLA calls printing", "score": 120, "num_comments": 30,
						"created_utc": 1756000000.0, "permalink": "/r/wallstreetbets/abc",
					}},
				},
			},
		})
	}))
	defer apiSrv.Close()

	agent := NewRedditAgent("id", "secret", time.Second)
	agent.tokenURL = tokenSrv.URL
	agent.apiBase = apiSrv.URL

	first := agent.Fetch(context.Background(), Query{Symbol: "TSLA", Name: "TSLA"})
	second := agent.Fetch(context.Background(), Query{Symbol: "TSLA", Name: "TSLA"})

	assert.Equal(t, domain.RealData, first.Provenance)
	assert.Equal(t, domain.RealData, second.Provenance)
	assert.Equal(t, 1, tokenCalls)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 120, first.Items[0].Score)
	assert.Equal(t, 30, first.Items[0].Comments)
}

func TestStockTwitsAgentAlwaysMock(t *testing.T) {
	agent := NewStockTwitsAgent()

	payload := agent.Fetch(context.Background(), Query{Symbol: "NVDA", Name: "NVDA"})

	assert.Equal(t, domain.MockData, payload.Provenance)
	require.Len(t, payload.Items, 2)
	require.NotNil(t, payload.Items[0].Sentiment)
	assert.InDelta(t, 0.7, *payload.Items[0].Sentiment, 1e-9)
	assert.InDelta(t, -0.3, *payload.Items[1].Sentiment, 1e-9)
}

func TestPriceAgentQuoteFromChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chart": map[string]interface{}{
				"result": []map[string]interface{}{
					{
						"meta": map[string]interface{}{
							"currency":            "KRW",
							"regularMarketPrice":  71500.0,
							"chartPreviousClose":  71000.0,
							"regularMarketVolume": 12345678,
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewPriceAgent(nil, time.Second)
	agent.baseURL = srv.URL + "/%s"

	q, err := agent.GetQuote(context.Background(), "005930.KS")
	require.NoError(t, err)

	assert.Equal(t, "005930.KS", q.Symbol)
	assert.Equal(t, "KRW", q.Currency)
	assert.False(t, q.IsMock)
	assert.InDelta(t, 71500, q.Price.InexactFloat64(), 1e-9)
	assert.InDelta(t, 500, q.Change.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.70, q.ChangePercent.InexactFloat64(), 1e-9)
}

func TestPriceAgentMockOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	agent := NewPriceAgent(nil, time.Second)
	agent.baseURL = srv.URL + "/%s"

	q, err := agent.GetQuote(context.Background(), "005930.KS")
	require.NoError(t, err)

	assert.True(t, q.IsMock)
	assert.Equal(t, "KRW", q.Currency)
	assert.InDelta(t, 71000, q.Price.InexactFloat64(), 1e-9)
}

func TestPriceAgentHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chart": map[string]interface{}{
				"result": []map[string]interface{}{
					{
						"meta":      map[string]interface{}{"currency": "USD"},
						"timestamp": []int64{1755500000, 1755586400},
						"indicators": map[string]interface{}{
							"quote": []map[string]interface{}{
								{
									"open":   []float64{100, 102},
									"high":   []float64{103, 105},
									"low":    []float64{99, 101},
									"close":  []float64{102, 104},
									"volume": []float64{1000, 1200},
								},
							},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewPriceAgent(nil, time.Second)
	agent.baseURL = srv.URL + "/%s"

	h, err := agent.GetHistory(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)

	require.Len(t, h.Candles, 2)
	assert.Equal(t, []float64{102, 104}, h.Closes())
	assert.False(t, h.IsMock)
}

func TestPriceAgentHistoryRaggedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Volume lags the other arrays by one entry.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chart": map[string]interface{}{
				"result": []map[string]interface{}{
					{
						"meta":      map[string]interface{}{"currency": "USD"},
						"timestamp": []int64{1755500000, 1755586400},
						"indicators": map[string]interface{}{
							"quote": []map[string]interface{}{
								{
									"open":   []float64{100, 102},
									"high":   []float64{103, 105},
									"low":    []float64{99, 101},
									"close":  []float64{102, 104},
									"volume": []float64{1000},
								},
							},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewPriceAgent(nil, time.Second)
	agent.baseURL = srv.URL + "/%s"

	h, err := agent.GetHistory(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)

	require.Len(t, h.Candles, 1)
	assert.Equal(t, 102.0, h.Candles[0].Close)
	assert.False(t, h.IsMock)
}

func TestMockHistoryLongEnoughForIndicators(t *testing.T) {
	h := mockHistory("AAPL", "6mo")

	assert.True(t, h.IsMock)
	assert.GreaterOrEqual(t, len(h.Candles), 120)
	for _, c := range h.Candles {
		assert.Greater(t, c.Close, 0.0)
		assert.GreaterOrEqual(t, c.High, c.Low)
	}
}

func TestCryptoAgentQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"bitcoin": map[string]float64{
				"usd":            64250.0,
				"usd_24h_change": 2.5,
				"usd_24h_vol":    35000000000,
			},
		})
	}))
	defer srv.Close()

	agent := NewCryptoAgent(time.Second)
	agent.baseURL = srv.URL

	q, err := agent.GetQuote(context.Background(), "btc")
	require.NoError(t, err)

	assert.Equal(t, "BTC", q.Symbol)
	assert.Equal(t, "USD", q.Currency)
	assert.InDelta(t, 2.5, q.ChangePercent.InexactFloat64(), 1e-9)
}

func TestCryptoAgentUnknownTicker(t *testing.T) {
	agent := NewCryptoAgent(time.Second)

	_, err := agent.GetQuote(context.Background(), "SHIB")
	assert.Error(t, err)
}
