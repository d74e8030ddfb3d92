package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newspulse/newspulse/pkg/classify"
	cmocks "github.com/newspulse/newspulse/pkg/classify/mocks"
	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/pipeline/mocks"
	"github.com/newspulse/newspulse/pkg/table"
)

type upperCleaner struct{}

func (upperCleaner) CleanText(text string) string { return strings.ToLower(strings.TrimSpace(text)) }

func fetched() []domain.Article {
	return []domain.Article{
		{Title: "Bitcoin jumps", Description: "d1", Content: "Bitcoin Price Surge", URL: "https://x.com/1",
			PublishedAt: "2024-03-01T10:00:00Z", Source: "Coindesk"},
		{Title: "Mortgage costs", Description: "d2", Content: "Mortgage Rates Rise", URL: "https://x.com/2",
			PublishedAt: "2024-03-01T09:00:00Z", Source: "Reuters"},
		{Title: "Growth", Description: "d3", Content: "GDP Growth Accelerates", URL: "https://x.com/3",
			PublishedAt: "2024-03-01T08:00:00Z", Source: "BBC"},
	}
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "raw.csv")

	t.Run("writes raw table", func(t *testing.T) {
		src := &mocks.SourceMock{
			NameFunc:     func() string { return "test" },
			ArticlesFunc: func(context.Context) ([]domain.Article, error) { return fetched(), nil },
		}
		n, err := Fetch(context.Background(), src, nil, out)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		tbl, err := table.Read(out)
		require.NoError(t, err)
		assert.Equal(t, domain.RawColumns, tbl.Columns())
		articles, err := tbl.Articles()
		require.NoError(t, err)
		assert.Equal(t, fetched(), articles)
	})

	t.Run("enricher applied", func(t *testing.T) {
		src := &mocks.SourceMock{
			NameFunc:     func() string { return "test" },
			ArticlesFunc: func(context.Context) ([]domain.Article, error) { return fetched(), nil },
		}
		enricher := &mocks.EnricherMock{EnrichFunc: func(_ context.Context, in []domain.Article) []domain.Article {
			in[0].Content = "full text"
			return in
		}}
		_, err := Fetch(context.Background(), src, enricher, out)
		require.NoError(t, err)
		assert.Len(t, enricher.EnrichCalls(), 1)

		tbl, err := table.Read(out)
		require.NoError(t, err)
		assert.Equal(t, "full text", tbl.Value(0, domain.ColContent))
	})

	t.Run("source error is fatal and keeps the old file", func(t *testing.T) {
		before, err := os.ReadFile(out)
		require.NoError(t, err)

		src := &mocks.SourceMock{
			NameFunc:     func() string { return "test" },
			ArticlesFunc: func(context.Context) ([]domain.Article, error) { return nil, errors.New("network down") },
		}
		_, err = Fetch(context.Background(), src, nil, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network down")

		after, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestCleanClassifyArchive(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.csv")
	cleaned := filepath.Join(dir, "cleaned.csv")
	classified := filepath.Join(dir, "classified.csv")

	// extra column must survive every stage
	tbl := table.FromArticles(fetched())
	require.NoError(t, tbl.SetColumn("note", []string{"a", "b", "c"}))
	require.NoError(t, tbl.Write(raw))

	n, err := Clean(context.Background(), upperCleaner{}, raw, cleaned, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ct, err := table.Read(cleaned)
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, domain.RawColumns...), "note", domain.ColCleanContent), ct.Columns())
	col, err := ct.Column(domain.ColCleanContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin price surge", "mortgage rates rise", "gdp growth accelerates"}, col)

	model := &cmocks.SentimentModelMock{PredictFunc: func(_ context.Context, text string) (string, error) {
		if strings.Contains(text, "surge") {
			return "positive", nil
		}
		return "neutral", nil
	}}
	ner := &cmocks.EntityRecognizerMock{RecognizeFunc: func(string) ([]domain.Entity, error) { return nil, nil }}
	classifier := classify.New(classify.Params{Model: model, NER: ner, MaxChars: 512, Workers: 2})

	n, err = Classify(context.Background(), classifier, cleaned, classified)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out, err := table.Read(classified)
	require.NoError(t, err)
	assert.True(t, out.Has("note"))
	cats, err := out.Column(domain.ColCategory)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cryptocurrency", "Banking", "Economy"}, cats)
	sents, err := out.Column(domain.ColSentiment)
	require.NoError(t, err)
	assert.Equal(t, []string{"Positive", "Neutral", "Neutral"}, sents)
	ents, err := out.Column(domain.ColEntities)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", ""}, ents)

	store := &mocks.StoreMock{SaveFunc: func(context.Context, []domain.ClassifiedArticle) error { return nil }}
	n, err = Archive(context.Background(), store, classified)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, store.SaveCalls(), 1)
	saved := store.SaveCalls()[0].Rows
	assert.Equal(t, "https://x.com/1", saved[0].URL)
	assert.Equal(t, domain.CategoryCryptocurrency, saved[0].Category)
	assert.Equal(t, domain.SentimentPositive, saved[0].Sentiment)
}

func TestStages_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, table.New("title", "url").Write(bad))

	_, err := Clean(context.Background(), upperCleaner{}, bad, filepath.Join(dir, "out.csv"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "content" not found`)

	_, err = Classify(context.Background(), classify.New(classify.Params{}), bad, filepath.Join(dir, "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clean_content")

	_, err = Archive(context.Background(), &mocks.StoreMock{}, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a classified table")

	_, err = Clean(context.Background(), upperCleaner{}, filepath.Join(dir, "missing.csv"), filepath.Join(dir, "out.csv"), 1)
	require.Error(t, err)
}
