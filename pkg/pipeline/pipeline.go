// Package pipeline runs the batch stages. Each stage reads one flat file and writes a new one,
// so stages share no state and can be run independently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/table"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Source provides fetched articles
type Source interface {
	Name() string
	Articles(ctx context.Context) ([]domain.Article, error)
}

// Enricher replaces truncated article content with full text
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// TextCleaner normalizes text for matching
type TextCleaner interface {
	CleanText(text string) string
}

// RowClassifier labels cleaned rows, keeping their order
type RowClassifier interface {
	Classify(ctx context.Context, rows []domain.CleanedArticle) ([]domain.ClassifiedArticle, error)
}

// Store persists classified rows
type Store interface {
	Save(ctx context.Context, rows []domain.ClassifiedArticle) error
}

// Fetch pulls articles from src, optionally enriches them, and overwrites out.
// Any source error aborts the stage.
func Fetch(ctx context.Context, src Source, enricher Enricher, out string) (int, error) {
	st := time.Now()
	articles, err := src.Articles(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}
	log.Printf("[INFO] fetched %d articles from %s in %v", len(articles), src.Name(), time.Since(st).Truncate(time.Millisecond))

	if enricher != nil {
		articles = enricher.Enrich(ctx, articles)
	}

	if err := table.FromArticles(articles).Write(out); err != nil {
		return 0, fmt.Errorf("save raw articles: %w", err)
	}
	return len(articles), nil
}

// Clean adds clean_content computed from content to every row of in and writes out.
// Rows are cleaned concurrently by up to workers goroutines.
func Clean(ctx context.Context, cleaner TextCleaner, in, out string, workers int) (int, error) {
	tbl, err := table.Read(in)
	if err != nil {
		return 0, err
	}
	content, err := tbl.Column(domain.ColContent)
	if err != nil {
		return 0, fmt.Errorf("clean %s: %w", in, err)
	}

	cleaned := make([]string, len(content))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, text := range content {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cleaned[i] = cleaner.CleanText(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := tbl.SetColumn(domain.ColCleanContent, cleaned); err != nil {
		return 0, err
	}
	if err := tbl.Write(out); err != nil {
		return 0, fmt.Errorf("save cleaned articles: %w", err)
	}
	log.Printf("[INFO] cleaned %d articles, %s -> %s", tbl.Len(), in, out)
	return tbl.Len(), nil
}

// Classify adds category, sentiment and entities columns to every row of in and writes out.
// Columns already present in the input are kept.
func Classify(ctx context.Context, classifier RowClassifier, in, out string) (int, error) {
	tbl, err := table.Read(in)
	if err != nil {
		return 0, err
	}
	rows, err := tbl.Cleaned()
	if err != nil {
		return 0, fmt.Errorf("classify %s: %w", in, err)
	}

	st := time.Now()
	classified, err := classifier.Classify(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("classify %s: %w", in, err)
	}

	categories := make([]string, len(classified))
	sentiments := make([]string, len(classified))
	entities := make([]string, len(classified))
	for i, c := range classified {
		categories[i] = string(c.Category)
		sentiments[i] = string(c.Sentiment)
		entities[i] = c.Entities
	}
	for _, col := range []struct {
		name   string
		values []string
	}{{domain.ColCategory, categories}, {domain.ColSentiment, sentiments}, {domain.ColEntities, entities}} {
		if err := tbl.SetColumn(col.name, col.values); err != nil {
			return 0, err
		}
	}

	if err := tbl.Write(out); err != nil {
		return 0, fmt.Errorf("save classified articles: %w", err)
	}
	log.Printf("[INFO] classified %d articles in %v, %s -> %s", tbl.Len(), time.Since(st).Truncate(time.Millisecond), in, out)
	return tbl.Len(), nil
}

// Archive copies the classified table at in into store
func Archive(ctx context.Context, store Store, in string) (int, error) {
	tbl, err := table.Read(in)
	if err != nil {
		return 0, err
	}
	rows, err := tbl.Classified()
	if err != nil {
		return 0, fmt.Errorf("archive %s: %w", in, err)
	}
	if err := store.Save(ctx, rows); err != nil {
		return 0, err
	}
	log.Printf("[INFO] archived %d articles from %s", len(rows), in)
	return len(rows), nil
}
