package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newspulse/newspulse/pkg/domain"
)

// GNews fetches live headlines for the web app
type GNews struct {
	endpoint string
	apiKey   string
	language string
	max      int
	client   *http.Client
}

// GNewsParams configures a GNews client
type GNewsParams struct {
	Endpoint string
	APIKey   string
	Language string
	Max      int
	Timeout  time.Duration
}

// Query selects headlines; Keyword and Category are mutually exclusive and Keyword wins
type Query struct {
	Category string
	Keyword  string
}

type gnewsResponse struct {
	TotalArticles int                  `json:"totalArticles"`
	Articles      []domain.LiveArticle `json:"articles"`
	Errors        json.RawMessage      `json:"errors"`
}

// NewGNews makes a live headlines client
func NewGNews(p GNewsParams) *GNews {
	return &GNews{
		endpoint: strings.TrimRight(p.Endpoint, "/"),
		apiKey:   p.APIKey,
		language: p.Language,
		max:      p.Max,
		client:   &http.Client{Timeout: p.Timeout},
	}
}

// Headlines returns top headlines, headlines of a topic, or search results for a keyword
func (g *GNews) Headlines(ctx context.Context, q Query) (res []domain.LiveArticle, err error) {
	defer observe("gnews", time.Now(), &err)

	params := url.Values{}
	params.Set("token", g.apiKey)
	params.Set("lang", g.language)
	params.Set("max", strconv.Itoa(g.max))

	endpoint := g.endpoint + "/top-headlines"
	switch {
	case q.Keyword != "":
		endpoint = g.endpoint + "/search"
		params.Set("q", q.Keyword)
	case q.Category != "":
		params.Set("topic", q.Category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", redact(err, g.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("headlines api status %d", resp.StatusCode)
	}

	var parsed gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode headlines: %w", err)
	}
	return parsed.Articles, nil
}
