package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// financialKeywords filter out headlines that mention the company but
// carry no market-relevant content.
var financialKeywords = []string{
	"주가", "주식", "실적", "매출", "영업이익", "공시", "배당", "투자", "목표가", "증권",
	"stock", "shares", "earnings", "revenue", "profit", "dividend", "price target", "market",
}

// NewsAgent fetches recent headlines from NewsAPI.
type NewsAgent struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewNewsAgent creates the news source agent. An empty apiKey makes the
// agent serve mock headlines permanently.
func NewNewsAgent(apiKey string, timeout time.Duration) *NewsAgent {
	return &NewsAgent{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		log:     logger.Get().With("agent", "news"),
	}
}

// Kind returns the source kind.
func (a *NewsAgent) Kind() domain.SourceKind { return domain.SourceNews }

// Fetch returns recent headlines for the query, mock on any failure.
func (a *NewsAgent) Fetch(ctx context.Context, q Query) domain.Payload {
	start := time.Now()

	items, err := a.fetchReal(ctx, q)
	if err != nil {
		if !errors.Is(err, errors.ErrMissingCredentials) {
			a.log.Warnf("News fetch failed for %s, serving mock: %v", q.Name, err)
		}
		payload := mockNewsPayload(q)
		observeFetch(a.Kind(), payload.Provenance, start, err)
		return payload
	}

	payload := domain.Payload{
		Kind:       domain.SourceNews,
		Provenance: domain.RealData,
		Items:      items,
	}
	observeFetch(a.Kind(), payload.Provenance, start, nil)
	return payload
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (a *NewsAgent) fetchReal(ctx context.Context, q Query) ([]domain.Item, error) {
	if a.apiKey == "" {
		return nil, errors.ErrMissingCredentials
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q.Name)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "20")
	if q.IsKorean {
		params.Set("language", "ko")
	} else {
		params.Set("language", "en")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build news request")
	}
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "news request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "newsapi returned %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode news response")
	}
	if body.Status != "ok" {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "newsapi status %q", body.Status)
	}

	items := make([]domain.Item, 0, len(body.Articles))
	for _, article := range body.Articles {
		if !isFinanciallyRelevant(article.Title + " " + article.Description) {
			continue
		}
		created, _ := time.Parse(time.RFC3339, article.PublishedAt)
		items = append(items, domain.Item{
			Title:     article.Title,
			Body:      article.Description,
			URL:       article.URL,
			CreatedAt: created,
		})
	}

	if len(items) == 0 {
		return nil, errors.ErrEmptyPayload
	}
	return items, nil
}

func isFinanciallyRelevant(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range financialKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// mockNewsPayload mirrors the shape of a real fetch so downstream
// scoring cannot tell them apart structurally.
func mockNewsPayload(q Query) domain.Payload {
	now := time.Now()
	return domain.Payload{
		Kind:       domain.SourceNews,
		Provenance: domain.MockData,
		Items: []domain.Item{
			{
				Title:     fmt.Sprintf("%s Shows Strong Q3 Performance", q.Name),
				Body:      fmt.Sprintf("%s reported better-than-expected earnings", q.Name),
				URL:       "https://example.com/news/1",
				CreatedAt: now,
			},
			{
				Title:     fmt.Sprintf("Analysts Upgrade %s Price Target", q.Name),
				Body:      fmt.Sprintf("Major investment banks raise price targets for %s", q.Name),
				URL:       "https://example.com/news/2",
				CreatedAt: now.Add(-24 * time.Hour),
			},
			{
				Title:     fmt.Sprintf("%s Faces Regulatory Challenges", q.Name),
				Body:      fmt.Sprintf("Regulators scrutinize %s's market practices", q.Name),
				URL:       "https://example.com/news/3",
				CreatedAt: now.Add(-48 * time.Hour),
			},
		},
	}
}
