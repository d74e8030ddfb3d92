package news

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/newspulse/newspulse/pkg/domain"
)

// RSS reads articles from a fixed list of RSS/Atom feeds
type RSS struct {
	parser  *gofeed.Parser
	feeds   []string
	timeout time.Duration
}

// NewRSS creates a feed-backed article source
func NewRSS(feeds []string, timeout time.Duration) *RSS {
	return &RSS{
		parser:  gofeed.NewParser(),
		feeds:   feeds,
		timeout: timeout,
	}
}

// Name identifies the source in logs and metrics
func (r *RSS) Name() string { return "rss" }

// Articles fetches every feed in order; a failed feed fails the whole fetch
func (r *RSS) Articles(ctx context.Context) ([]domain.Article, error) {
	var res []domain.Article
	for _, u := range r.feeds {
		items, err := r.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		res = append(res, items...)
	}
	return res, nil
}

func (r *RSS) fetch(ctx context.Context, feedURL string) (res []domain.Article, err error) {
	defer observe(r.Name(), time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	res = make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := domain.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.Link,
			Source:      feed.Title,
		}
		if a.Content == "" {
			a.Content = item.Description
		}

		// keep the news API timestamp layout so downstream parsing is uniform
		switch {
		case item.PublishedParsed != nil:
			a.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
		case item.UpdatedParsed != nil:
			a.PublishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
		}
		res = append(res, a)
	}
	return res, nil
}
