package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newspulse/newspulse/pkg/domain"
)

// NewsAPI searches the newsapi.org "everything" endpoint
type NewsAPI struct {
	endpoint string
	apiKey   string
	query    string
	language string
	sortBy   string
	client   *http.Client
}

// NewsAPIParams configures a NewsAPI client
type NewsAPIParams struct {
	Endpoint string
	APIKey   string
	Query    string
	Language string
	SortBy   string
	Timeout  time.Duration
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       *string `json:"title"`
		Description string  `json:"description"`
		Content     string  `json:"content"`
		URL         string  `json:"url"`
		PublishedAt string  `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// NewNewsAPI makes a client for the news search API
func NewNewsAPI(p NewsAPIParams) *NewsAPI {
	return &NewsAPI{
		endpoint: strings.TrimRight(p.Endpoint, "/"),
		apiKey:   p.APIKey,
		query:    p.Query,
		language: p.Language,
		sortBy:   p.SortBy,
		client:   &http.Client{Timeout: p.Timeout},
	}
}

// Name identifies the source in logs and metrics
func (n *NewsAPI) Name() string { return "newsapi" }

// Articles runs the configured query
func (n *NewsAPI) Articles(ctx context.Context) ([]domain.Article, error) {
	return n.Search(ctx, n.query)
}

// Search issues a single request for the query, newest first. There is no paging and no retry.
func (n *NewsAPI) Search(ctx context.Context, query string) (res []domain.Article, err error) {
	defer observe(n.Name(), time.Now(), &err)

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", n.language)
	params.Set("sortBy", n.sortBy)
	params.Set("apiKey", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"/everything?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, redact(err, n.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed newsAPIResponse
	if resp.StatusCode/100 != 2 {
		_ = json.Unmarshal(body, &parsed)
		return nil, fmt.Errorf("news api status %d: %s", resp.StatusCode, parsed.Message)
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	res = make([]domain.Article, 0, len(parsed.Articles))
	for i, a := range parsed.Articles {
		if a.Title == nil {
			return nil, fmt.Errorf("article %d (%s) has no title", i, a.URL)
		}
		res = append(res, domain.Article{
			Title:       *a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return res, nil
}

// redact keeps the API key out of transport errors, which embed the request URL
func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), secret, "****"))
}
