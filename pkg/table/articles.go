package table

import (
	"fmt"

	"github.com/newspulse/newspulse/pkg/domain"
)

// FromArticles builds a raw table from fetched articles
func FromArticles(articles []domain.Article) *Table {
	t := New(domain.RawColumns...)
	for _, a := range articles {
		t.Append(map[string]string{
			domain.ColTitle:       a.Title,
			domain.ColDescription: a.Description,
			domain.ColContent:     a.Content,
			domain.ColURL:         a.URL,
			domain.ColPublishedAt: a.PublishedAt,
			domain.ColSource:      a.Source,
		})
	}
	return t
}

// Articles returns the raw article columns of every row
func (t *Table) Articles() ([]domain.Article, error) {
	if err := t.Require(domain.RawColumns...); err != nil {
		return nil, err
	}
	res := make([]domain.Article, t.Len())
	for i := range res {
		res[i] = t.article(i)
	}
	return res, nil
}

// Cleaned returns every row as a cleaned article, only clean_content is required
func (t *Table) Cleaned() ([]domain.CleanedArticle, error) {
	if err := t.Require(domain.ColCleanContent); err != nil {
		return nil, fmt.Errorf("not a cleaned table: %w", err)
	}
	res := make([]domain.CleanedArticle, t.Len())
	for i := range res {
		res[i] = domain.CleanedArticle{Article: t.article(i), CleanContent: t.Value(i, domain.ColCleanContent)}
	}
	return res, nil
}

// Classified returns every row as a classified article.
// Only clean_content and category are required, other derived columns may be absent.
func (t *Table) Classified() ([]domain.ClassifiedArticle, error) {
	if err := t.Require(domain.ColCleanContent, domain.ColCategory); err != nil {
		return nil, fmt.Errorf("not a classified table: %w", err)
	}
	res := make([]domain.ClassifiedArticle, t.Len())
	for i := range res {
		res[i] = domain.ClassifiedArticle{
			CleanedArticle: domain.CleanedArticle{
				Article:      t.article(i),
				CleanContent: t.Value(i, domain.ColCleanContent),
			},
			Category:  domain.Category(t.Value(i, domain.ColCategory)),
			Sentiment: domain.Sentiment(t.Value(i, domain.ColSentiment)),
			Entities:  t.Value(i, domain.ColEntities),
		}
	}
	return res, nil
}

// FromClassified builds a full table from classified articles
func FromClassified(articles []domain.ClassifiedArticle) *Table {
	cols := append(append([]string{}, domain.RawColumns...),
		domain.ColCleanContent, domain.ColCategory, domain.ColSentiment, domain.ColEntities)
	t := New(cols...)
	for _, a := range articles {
		t.Append(map[string]string{
			domain.ColTitle:        a.Title,
			domain.ColDescription:  a.Description,
			domain.ColContent:      a.Content,
			domain.ColURL:          a.URL,
			domain.ColPublishedAt:  a.PublishedAt,
			domain.ColSource:       a.Source,
			domain.ColCleanContent: a.CleanContent,
			domain.ColCategory:     string(a.Category),
			domain.ColSentiment:    string(a.Sentiment),
			domain.ColEntities:     a.Entities,
		})
	}
	return t
}

func (t *Table) article(i int) domain.Article {
	return domain.Article{
		Title:       t.Value(i, domain.ColTitle),
		Description: t.Value(i, domain.ColDescription),
		Content:     t.Value(i, domain.ColContent),
		URL:         t.Value(i, domain.ColURL),
		PublishedAt: t.Value(i, domain.ColPublishedAt),
		Source:      t.Value(i, domain.ColSource),
	}
}
