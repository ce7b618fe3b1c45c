package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	domain "stockai/internal/domain/sentiment"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIBase  = "https://oauth.reddit.com"
	redditUA       = "stockai-sentiment/1.0"
)

// stockSubreddits are searched as one multireddit.
var stockSubreddits = []string{
	"wallstreetbets", "stocks", "investing", "StockMarket",
	"SecurityAnalysis", "ValueInvesting", "options",
}

// RedditAgent fetches retail investor posts via the Reddit OAuth API
// using the application-only client_credentials grant.
type RedditAgent struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiBase      string
	client       *http.Client
	limiter      *rate.Limiter
	log          *logger.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditAgent creates the Reddit source agent.
func NewRedditAgent(clientID, clientSecret string, timeout time.Duration) *RedditAgent {
	return &RedditAgent{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     redditTokenURL,
		apiBase:      redditAPIBase,
		client:       &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 2),
		log:          logger.Get().With("agent", "reddit"),
	}
}

// Kind returns the source kind.
func (a *RedditAgent) Kind() domain.SourceKind { return domain.SourceReddit }

// Fetch returns recent posts mentioning the query, mock on any failure.
func (a *RedditAgent) Fetch(ctx context.Context, q Query) domain.Payload {
	start := time.Now()

	items, err := a.fetchReal(ctx, q)
	if err != nil {
		if !errors.Is(err, errors.ErrMissingCredentials) {
			a.log.Warnf("Reddit fetch failed for %s, serving mock: %v", q.Name, err)
		}
		payload := mockRedditPayload(q)
		observeFetch(a.Kind(), payload.Provenance, start, err)
		return payload
	}

	payload := domain.Payload{
		Kind:       domain.SourceReddit,
		Provenance: domain.RealData,
		Items:      items,
	}
	observeFetch(a.Kind(), payload.Provenance, start, nil)
	return payload
}

func (a *RedditAgent) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build token request")
	}
	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUA)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(errors.ErrSourceUnavailable, "reddit token endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}
	if body.AccessToken == "" {
		return "", errors.Wrap(errors.ErrSourceUnavailable, "reddit returned empty token")
	}

	a.accessToken = body.AccessToken
	// Renew a minute early to avoid racing the expiry.
	a.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Permalink   string  `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (a *RedditAgent) fetchReal(ctx context.Context, q Query) ([]domain.Item, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return nil, errors.ErrMissingCredentials
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q.Name)
	params.Set("restrict_sr", "true")
	params.Set("sort", "hot")
	params.Set("t", "week")
	params.Set("limit", "25")

	searchURL := a.apiBase + "/r/" + strings.Join(stockSubreddits, "+") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build search request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", redditUA)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "reddit search failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "reddit returned %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, errors.Wrap(err, "failed to decode reddit listing")
	}

	items := make([]domain.Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		items = append(items, domain.Item{
			Title:     post.Title,
			Body:      post.Selftext,
			Score:     post.Score,
			Comments:  post.NumComments,
			CreatedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
			URL:       "https://www.reddit.com" + post.Permalink,
		})
	}

	if len(items) == 0 {
		return nil, errors.ErrEmptyPayload
	}
	return items, nil
}

func mockRedditPayload(q Query) domain.Payload {
	now := time.Now()
	s1, s2, s3 := 0.8, 0.5, -0.3
	return domain.Payload{
		Kind:       domain.SourceReddit,
		Provenance: domain.MockData,
		Items: []domain.Item{
			{
				Title:     q.Name + " to the moon! 🚀🚀🚀 Just loaded up on calls",
				Score:     1523,
				Comments:  234,
				Sentiment: &s1,
				CreatedAt: now.Add(-2 * time.Hour),
			},
			{
				Title:     "DD: Why " + q.Name + " is undervalued right now",
				Body:      "Long thesis based on fundamentals and upcoming catalysts",
				Score:     456,
				Comments:  78,
				Sentiment: &s2,
				CreatedAt: now.Add(-6 * time.Hour),
			},
			{
				Title:     "Thinking of selling my " + q.Name + " position, thoughts?",
				Score:     234,
				Comments:  45,
				Sentiment: &s3,
				CreatedAt: now.Add(-12 * time.Hour),
			},
		},
	}
}
