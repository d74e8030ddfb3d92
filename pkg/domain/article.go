package domain

import "strings"

// flat-file column names, in the order each stage appends them
const (
	ColTitle        = "title"
	ColDescription  = "description"
	ColContent      = "content"
	ColURL          = "url"
	ColPublishedAt  = "publishedAt"
	ColSource       = "source"
	ColCleanContent = "clean_content"
	ColCategory     = "category"
	ColSentiment    = "sentiment"
	ColEntities     = "entities"
)

// RawColumns lists the columns written by the fetch stage
var RawColumns = []string{ColTitle, ColDescription, ColContent, ColURL, ColPublishedAt, ColSource}

// Article is a single news record as returned by the news search API.
// Identity is the URL, uniqueness is not enforced.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	PublishedAt string
	Source      string
}

// CleanedArticle is an article with normalized, lemmatized content
type CleanedArticle struct {
	Article
	CleanContent string
}

// ClassifiedArticle is a cleaned article with category, sentiment and named entities
type ClassifiedArticle struct {
	CleanedArticle
	Category  Category
	Sentiment Sentiment
	Entities  string
}

// EntityList splits the comma-joined entities column into trimmed, non-empty items
func (a ClassifiedArticle) EntityList() []string {
	if a.Entities == "" {
		return nil
	}
	parts := strings.Split(a.Entities, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
