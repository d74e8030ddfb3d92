package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newspulse/newspulse/pkg/dashboard/mocks"
	"github.com/newspulse/newspulse/pkg/domain"
	"github.com/newspulse/newspulse/pkg/table"
)

func sampleArticles() []domain.ClassifiedArticle {
	return []domain.ClassifiedArticle{
		article("Bitcoin jumps", "2024-03-01T10:00:00Z", "bitcoin price surge", domain.CategoryCryptocurrency, "Positive", "Coinbase (ORG)"),
		article("Mortgage costs", "2024-03-02T20:00:00Z", "mortgage rate rise bank", domain.CategoryBanking, "Negative", ""),
	}
}

func testServer(t *testing.T, loader Loader) *httptest.Server {
	t.Helper()
	srv, err := New(loader, Params{Listen: ":0", Timeout: time.Second, BaseURL: "http://dash.example.com/", Version: "test"})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, u string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(u) //nolint:gosec // test server url
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestServer_Index(t *testing.T) {
	loader := &mocks.LoaderMock{LoadFunc: func(context.Context) ([]domain.ClassifiedArticle, error) {
		return sampleArticles(), nil
	}}
	ts := testServer(t, loader)

	t.Run("all articles", func(t *testing.T) {
		code, body, hdr := get(t, ts.URL+"/")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, hdr.Get("Content-Type"), "text/html")
		assert.Contains(t, body, "Finance News Dashboard")
		assert.Contains(t, body, `<option value="Cryptocurrency">`)
		assert.Contains(t, body, `<option value="All" selected>`)
		assert.Contains(t, body, "Bitcoin jumps")
		assert.Contains(t, body, "(2024-03-03)")
		assert.Contains(t, body, "2024-03-01 15:30:00")
		assert.NotContains(t, body, msgNoResults)
	})

	t.Run("category filter keeps all options", func(t *testing.T) {
		code, body, _ := get(t, ts.URL+"/?category=Banking")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `<option value="Banking" selected>`)
		assert.Contains(t, body, `<option value="Cryptocurrency">`)
		assert.Contains(t, body, "Mortgage costs")
		assert.NotContains(t, body, "Bitcoin jumps")
		assert.Contains(t, body, msgNoEntities)
	})

	t.Run("keyword without match warns", func(t *testing.T) {
		code, body, _ := get(t, ts.URL+"/?keyword=football")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "No news found related to this keyword")
		assert.NotContains(t, body, "Latest News")
		assert.NotContains(t, body, "Search Results")
	})

	t.Run("ping", func(t *testing.T) {
		code, body, _ := get(t, ts.URL+"/ping")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "pong", body)
	})
}

func TestServer_LoadError(t *testing.T) {
	loader := &mocks.LoaderMock{LoadFunc: func(context.Context) ([]domain.ClassifiedArticle, error) {
		return nil, errors.New("no file")
	}}
	ts := testServer(t, loader)

	for _, path := range []string{"/", "/charts", "/api/summary", "/rss/All"} {
		code, _, _ := get(t, ts.URL+path)
		assert.Equal(t, http.StatusInternalServerError, code, path)
	}
}

func TestServer_Summary(t *testing.T) {
	loader := &mocks.LoaderMock{LoadFunc: func(context.Context) ([]domain.ClassifiedArticle, error) {
		return sampleArticles(), nil
	}}
	ts := testServer(t, loader)

	code, body, hdr := get(t, ts.URL+"/api/summary?keyword=bitcoin")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, hdr.Get("Content-Type"), "application/json")
	var s Summary
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, []Count{{"Cryptocurrency", 1}}, s.Categories)
	assert.Equal(t, []Count{{"Positive", 1}, {"Negative", 0}, {"Neutral", 0}}, s.Sentiment)
	assert.Equal(t, "2024-03-01 15:30:00", s.Rows[0].PublishedIST)
	assert.Contains(t, body, `"publishedAt_IST"`)

	code, body, _ = get(t, ts.URL+"/api/summary?keyword=football")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "not finance-related")
}

func TestServer_Charts(t *testing.T) {
	loader := &mocks.LoaderMock{LoadFunc: func(context.Context) ([]domain.ClassifiedArticle, error) {
		return sampleArticles(), nil
	}}
	ts := testServer(t, loader)

	code, body, _ := get(t, ts.URL+"/charts?category=Banking")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Articles per Category")
	assert.Contains(t, body, "Sentiment Distribution")
	assert.Contains(t, body, "Word Cloud")
	assert.Contains(t, body, "wordCloud")
	assert.Contains(t, body, "#ff66b3")
	assert.NotContains(t, body, "Top Named Entities")
}

func TestServer_RSS(t *testing.T) {
	loader := &mocks.LoaderMock{LoadFunc: func(context.Context) ([]domain.ClassifiedArticle, error) {
		return sampleArticles(), nil
	}}
	ts := testServer(t, loader)

	code, body, hdr := get(t, ts.URL+"/rss/Cryptocurrency")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", hdr.Get("Content-Type"))

	var doc rssDoc
	require.NoError(t, xml.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "Newspulse - Cryptocurrency", doc.Channel.Title)
	assert.Contains(t, body, `href="http://dash.example.com/rss/Cryptocurrency"`)
	require.Len(t, doc.Channel.Items, 1)
	assert.Equal(t, "Bitcoin jumps", doc.Channel.Items[0].Title)

	_, body, _ = get(t, ts.URL+"/rss/")
	var all rssDoc
	require.NoError(t, xml.Unmarshal([]byte(body), &all))
	assert.Equal(t, "Newspulse - All", all.Channel.Title)
	assert.Len(t, all.Channel.Items, 2)
}

func TestFeedGenerator_GenerateRSS(t *testing.T) {
	g := NewFeedGenerator("http://localhost:8501/")
	g.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	a := article("Fed holds rates", "2024-03-01T10:00:00Z", "fed hold rate", domain.CategoryEconomy, "Neutral",
		"Fed (ORG), Powell (PERSON)")
	a.Description = "The central bank kept rates."
	rss, err := g.GenerateRSS(NewRows([]domain.ClassifiedArticle{a}), "Stock Market")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rss, xml.Header))
	assert.Contains(t, rss, "<lastBuildDate>Tue, 05 Mar 2024 12:00:00 +0000</lastBuildDate>")
	assert.Contains(t, rss, `href="http://localhost:8501/rss/Stock%20Market"`)
	assert.Contains(t, rss, "<pubDate>Fri, 01 Mar 2024 10:00:00 +0000</pubDate>")
	assert.Contains(t, rss, "<category>Economy</category>")
	assert.Contains(t, rss, "Entities: Fed (ORG), Powell (PERSON)")
	assert.Contains(t, rss, "The central bank kept rates.")

	// unparsable date leaves pubDate out
	b := article("x", "yesterday", "x", domain.CategoryOther, "Neutral", "")
	rss, err = g.GenerateRSS(NewRows([]domain.ClassifiedArticle{b}), "All")
	require.NoError(t, err)
	assert.NotContains(t, rss, "<pubDate>")
}

func TestSummary_Notes(t *testing.T) {
	assert.Equal(t, []string{msgNoLatest, msgNoCategory, msgNoWords, msgNoSentiment, msgNoEntities, msgNoResults},
		Summarize(nil).Notes())
	assert.Equal(t, []string{msgNoEntities}, Summarize(NewRows([]domain.ClassifiedArticle{
		article("a", "2024-03-01T10:00:00Z", "gdp growth", domain.CategoryEconomy, "Neutral", ""),
	})).Notes())
}

func TestRenderCharts_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCharts(&buf, Summarize(nil)))
	assert.NotContains(t, buf.String(), "Articles per Category")
	assert.NotContains(t, buf.String(), "Word Cloud")
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classified.csv")
	require.NoError(t, table.FromClassified(sampleArticles()).Write(path))

	rows, err := FileLoader{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleArticles(), rows)

	raw := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, table.New(domain.RawColumns...).Write(raw))
	_, err = FileLoader{Path: raw}.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a classified table")

	_, err = FileLoader{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load(context.Background())
	require.Error(t, err)
}
