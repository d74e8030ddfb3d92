// Package content pulls the full article text from publisher pages.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"

	"github.com/newspulse/newspulse/pkg/domain"
)

// HTTPExtractor extracts article text from URLs using trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
	minLength int
}

// Params configures an HTTPExtractor
type Params struct {
	Timeout   time.Duration
	UserAgent string
	MinLength int // extracted text shorter than this is rejected
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(p Params) *HTTPExtractor {
	return &HTTPExtractor{
		client:    &http.Client{Timeout: p.Timeout},
		userAgent: p.UserAgent,
		minLength: p.MinLength,
	}
}

// Extract retrieves a page and returns its main text
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; "+e.userAgent+")")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	// pages declared in legacy charsets are converted to utf-8 before parsing
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode charset of %s: %w", urlStr, err)
	}

	result, err := trafilatura.Extract(body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", urlStr)
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}
	if len(text) < e.minLength {
		return "", fmt.Errorf("extracted text from %s too short, %d < %d", urlStr, len(text), e.minLength)
	}
	return text, nil
}

// Enrich replaces the truncated API content of each article with the page text.
// Articles that fail extraction keep their original content.
func (e *HTTPExtractor) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	res := make([]domain.Article, len(articles))
	var replaced int
	for i, a := range articles {
		res[i] = a
		if a.URL == "" {
			continue
		}
		text, err := e.Extract(ctx, a.URL)
		if err != nil {
			log.Printf("[DEBUG] keep api content for %s, %v", a.URL, err)
			continue
		}
		res[i].Content = text
		replaced++
	}
	log.Printf("[INFO] extracted full text for %d of %d articles", replaced, len(articles))
	return res
}
