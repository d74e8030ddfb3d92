package dashboard

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// rssDoc is the root RSS 2.0 element
type rssDoc struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	Source      string   `xml:"author,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

// FeedGenerator renders filtered rows as RSS
type FeedGenerator struct {
	baseURL string
	now     func() time.Time
}

// NewFeedGenerator makes a generator linking back to baseURL
func NewFeedGenerator(baseURL string) *FeedGenerator {
	return &FeedGenerator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateRSS creates an RSS 2.0 feed for rows of the given category ("All" for every category)
func (g *FeedGenerator) GenerateRSS(rows []Row, category string) (string, error) {
	items := make([]*rssItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, g.toItem(r))
	}

	feed := &rssDoc{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:       "Newspulse - " + category,
			Link:        g.baseURL + "/",
			Description: fmt.Sprintf("Classified finance news, category %s", category),
			AtomLink: &atomLink{Href: g.baseURL + "/rss/" + url.PathEscape(category), Rel: "self",
				Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *FeedGenerator) toItem(r Row) *rssItem {
	desc := fmt.Sprintf("Sentiment: %s", r.Sentiment)
	if r.Entities != "" {
		desc += "\nEntities: " + r.Entities
	}
	if r.Description != "" {
		desc += "\n\n" + r.Description
	}

	item := &rssItem{
		Title:       r.Title,
		Link:        r.URL,
		GUID:        r.URL,
		Description: desc,
		Source:      r.Source,
		Categories:  []string{string(r.Category)},
	}
	if ts, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
		item.PubDate = ts.Format(time.RFC1123Z)
	}
	return item
}
