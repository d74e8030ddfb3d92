// Package classify assigns a topic category, a sentiment label and named entities to cleaned articles.
package classify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/newspulse/newspulse/pkg/domain"
)

//go:generate moq -out mocks/sentiment_model.go -pkg mocks -skip-ensure -fmt goimports . SentimentModel
//go:generate moq -out mocks/entity_recognizer.go -pkg mocks -skip-ensure -fmt goimports . EntityRecognizer

// SentimentModel predicts a raw 3-class label for text
type SentimentModel interface {
	Predict(ctx context.Context, text string) (string, error)
}

// EntityRecognizer extracts PERSON, ORG and GPE spans in document order
type EntityRecognizer interface {
	Recognize(text string) ([]domain.Entity, error)
}

// Classifier applies category, sentiment and entity extraction to each row independently
type Classifier struct {
	model    SentimentModel
	ner      EntityRecognizer
	maxChars int
	strict   bool
	workers  int
}

// Params configures a Classifier
type Params struct {
	Model    SentimentModel
	NER      EntityRecognizer
	MaxChars int  // sentiment input is truncated to this many characters
	Strict   bool // fail on sentiment model errors instead of defaulting to neutral
	Workers  int  // rows classified concurrently
}

// New makes a Classifier
func New(p Params) *Classifier {
	return &Classifier{
		model:    p.Model,
		ner:      p.NER,
		maxChars: p.MaxChars,
		strict:   p.Strict,
		workers:  max(p.Workers, 1),
	}
}

// Sentiment labels text: blank text is neutral, otherwise the truncated text goes to the model
// and its label is mapped by substring onto positive, negative or neutral
func (c *Classifier) Sentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentNeutral, nil
	}
	label, err := c.model.Predict(ctx, truncate(text, c.maxChars))
	if err != nil {
		return domain.SentimentNeutral, fmt.Errorf("predict sentiment: %w", err)
	}
	return domain.SentimentFromLabel(label), nil
}

// Entities formats recognized entities as "text (LABEL)" joined by ", ", empty for blank text
func (c *Classifier) Entities(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	ents, err := c.ner.Recognize(text)
	if err != nil {
		return "", fmt.Errorf("recognize entities: %w", err)
	}
	parts := make([]string, 0, len(ents))
	for _, e := range ents {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", "), nil
}

// Classify processes rows with a bounded worker pool; the result keeps input order
func (c *Classifier) Classify(ctx context.Context, rows []domain.CleanedArticle) ([]domain.ClassifiedArticle, error) {
	res := make([]domain.ClassifiedArticle, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, row := range rows {
		g.Go(func() error {
			classified, err := c.classifyRow(gctx, row)
			if err != nil {
				return fmt.Errorf("row %d (%s): %w", i, row.URL, err)
			}
			res[i] = classified
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Classifier) classifyRow(ctx context.Context, row domain.CleanedArticle) (domain.ClassifiedArticle, error) {
	res := domain.ClassifiedArticle{CleanedArticle: row, Category: Categorize(row.CleanContent)}

	sentiment, err := c.Sentiment(ctx, row.CleanContent)
	if err != nil {
		if c.strict {
			return res, err
		}
		log.Printf("[WARN] sentiment for %s defaulted to neutral, %v", row.URL, err)
	}
	res.Sentiment = sentiment

	if res.Entities, err = c.Entities(row.CleanContent); err != nil {
		return res, err
	}
	return res, nil
}

// truncate cuts text to at most n characters
func truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
