package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newspulse/newspulse/pkg/classify/mocks"
	"github.com/newspulse/newspulse/pkg/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want domain.Category
	}{
		{"bitcoin price surge", domain.CategoryCryptocurrency},
		{"mortgage rates rise", domain.CategoryBanking},
		{"gdp growth accelerates", domain.CategoryEconomy},
		{"sunny weather today", domain.CategoryOther},
		{"", domain.CategoryOther},
		{"Nasdaq Closes Higher", domain.CategoryStockMarket},
		{"crypto exchange listing lifts shares", domain.CategoryStockMarket},
		{"central bank raises rate", domain.CategoryBanking},
		{"inflation cools in june", domain.CategoryEconomy},
		{"stablecoin issuer expands", domain.CategoryCryptocurrency},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text))
		})
	}
}

func TestCategorize_KeywordListsOrdered(t *testing.T) {
	require.Len(t, categories, 4)
	assert.Equal(t, domain.CategoryStockMarket, categories[0].category)
	assert.Equal(t, domain.CategoryCryptocurrency, categories[1].category)
	assert.Equal(t, domain.CategoryBanking, categories[2].category)
	assert.Equal(t, domain.CategoryEconomy, categories[3].category)
	assert.Len(t, categories[0].keywords, 20)
	assert.Len(t, categories[1].keywords, 19)
	assert.Len(t, categories[2].keywords, 19)
	assert.Len(t, categories[3].keywords, 21)
}

func TestClassifier_Sentiment(t *testing.T) {
	model := &mocks.SentimentModelMock{PredictFunc: func(_ context.Context, text string) (string, error) {
		switch {
		case strings.HasPrefix(text, "up"):
			return "LABEL_positive", nil
		case strings.HasPrefix(text, "down"):
			return "Negative", nil
		case strings.HasPrefix(text, "fail"):
			return "", errors.New("model unavailable")
		}
		return "neutral", nil
	}}
	c := New(Params{Model: model, MaxChars: 10})

	t.Run("blank text skips the model", func(t *testing.T) {
		res, err := c.Sentiment(context.Background(), "  ")
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentNeutral, res)
		assert.Empty(t, model.PredictCalls())
	})

	t.Run("labels mapped by substring", func(t *testing.T) {
		res, err := c.Sentiment(context.Background(), "up")
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentPositive, res)

		res, err = c.Sentiment(context.Background(), "down")
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentNegative, res)

		res, err = c.Sentiment(context.Background(), "flat")
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentNeutral, res)
	})

	t.Run("input truncated", func(t *testing.T) {
		_, err := c.Sentiment(context.Background(), strings.Repeat("a", 25))
		require.NoError(t, err)
		calls := model.PredictCalls()
		assert.Equal(t, strings.Repeat("a", 10), calls[len(calls)-1].Text)
	})

	t.Run("model error", func(t *testing.T) {
		res, err := c.Sentiment(context.Background(), "fail")
		require.Error(t, err)
		assert.Equal(t, domain.SentimentNeutral, res)
	})
}

func TestClassifier_Entities(t *testing.T) {
	ner := &mocks.EntityRecognizerMock{RecognizeFunc: func(string) ([]domain.Entity, error) {
		return []domain.Entity{{Text: "Jerome Powell", Label: "PERSON"}, {Text: "Fed", Label: "ORG"},
			{Text: "Fed", Label: "ORG"}}, nil
	}}
	c := New(Params{NER: ner})

	res, err := c.Entities("jerome powell fed fed")
	require.NoError(t, err)
	assert.Equal(t, "Jerome Powell (PERSON), Fed (ORG), Fed (ORG)", res)

	res, err = c.Entities("")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Len(t, ner.RecognizeCalls(), 1)
}

func cleaned(url, text string) domain.CleanedArticle {
	return domain.CleanedArticle{Article: domain.Article{URL: url, Title: url}, CleanContent: text}
}

func TestClassifier_Classify(t *testing.T) {
	model := &mocks.SentimentModelMock{PredictFunc: func(_ context.Context, text string) (string, error) {
		switch {
		case strings.Contains(text, "surge"):
			return "positive", nil
		case strings.Contains(text, "outage"):
			return "", errors.New("timeout")
		}
		return "negative", nil
	}}
	ner := &mocks.EntityRecognizerMock{RecognizeFunc: func(text string) ([]domain.Entity, error) {
		if strings.Contains(text, "bitcoin") {
			return []domain.Entity{{Text: "Bitcoin", Label: "ORG"}}, nil
		}
		return nil, nil
	}}

	rows := []domain.CleanedArticle{
		cleaned("u1", "bitcoin price surge"),
		cleaned("u2", "mortgage rates rise"),
		cleaned("u3", "gdp growth accelerates"),
		cleaned("u4", ""),
	}

	t.Run("order preserved with workers", func(t *testing.T) {
		c := New(Params{Model: model, NER: ner, MaxChars: 512, Workers: 3})
		res, err := c.Classify(context.Background(), rows)
		require.NoError(t, err)
		require.Len(t, res, 4)

		assert.Equal(t, "u1", res[0].URL)
		assert.Equal(t, domain.CategoryCryptocurrency, res[0].Category)
		assert.Equal(t, domain.SentimentPositive, res[0].Sentiment)
		assert.Equal(t, "Bitcoin (ORG)", res[0].Entities)

		assert.Equal(t, "u2", res[1].URL)
		assert.Equal(t, domain.CategoryBanking, res[1].Category)
		assert.Equal(t, domain.SentimentNegative, res[1].Sentiment)

		assert.Equal(t, "u3", res[2].URL)
		assert.Equal(t, domain.CategoryEconomy, res[2].Category)

		assert.Equal(t, "u4", res[3].URL)
		assert.Equal(t, domain.CategoryOther, res[3].Category)
		assert.Equal(t, domain.SentimentNeutral, res[3].Sentiment)
		assert.Empty(t, res[3].Entities)
		assert.Equal(t, "gdp growth accelerates", res[2].CleanContent)
	})

	t.Run("model error defaults to neutral", func(t *testing.T) {
		c := New(Params{Model: model, NER: ner, MaxChars: 512})
		res, err := c.Classify(context.Background(), []domain.CleanedArticle{cleaned("u5", "stock outage")})
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentNeutral, res[0].Sentiment)
		assert.Equal(t, domain.CategoryStockMarket, res[0].Category)
	})

	t.Run("strict mode fails", func(t *testing.T) {
		c := New(Params{Model: model, NER: ner, MaxChars: 512, Strict: true})
		_, err := c.Classify(context.Background(), []domain.CleanedArticle{cleaned("u5", "stock outage")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 0 (u5)")
		assert.Contains(t, err.Error(), "timeout")
	})

	t.Run("entity error fails", func(t *testing.T) {
		badNER := &mocks.EntityRecognizerMock{RecognizeFunc: func(string) ([]domain.Entity, error) {
			return nil, errors.New("broken")
		}}
		c := New(Params{Model: model, NER: badNER, MaxChars: 512})
		_, err := c.Classify(context.Background(), []domain.CleanedArticle{cleaned("u6", "bank news")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recognize entities")
	})

	t.Run("empty input", func(t *testing.T) {
		c := New(Params{Model: model, NER: ner})
		res, err := c.Classify(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "ééé", truncate("éééé", 3))
}
