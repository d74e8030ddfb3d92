package main

import (
	"fmt"
	"log"

	"github.com/newspulse/newspulse/pkg/archive"
	"github.com/newspulse/newspulse/pkg/chat"
	"github.com/newspulse/newspulse/pkg/classify"
	"github.com/newspulse/newspulse/pkg/config"
	"github.com/newspulse/newspulse/pkg/content"
	"github.com/newspulse/newspulse/pkg/dashboard"
	"github.com/newspulse/newspulse/pkg/news"
	"github.com/newspulse/newspulse/pkg/nlp"
	"github.com/newspulse/newspulse/pkg/pipeline"
	"github.com/newspulse/newspulse/pkg/textproc"
	"github.com/newspulse/newspulse/server"
)

// FetchCmd writes fetched articles to the raw table
type FetchCmd struct {
	commandBase
	Out string `short:"o" long:"out" description:"output file, overrides files.raw"`
}

// Execute runs the fetch stage
func (c *FetchCmd) Execute(_ []string) error {
	src, err := newSource(c.cfg.News)
	if err != nil {
		return err
	}

	var enricher pipeline.Enricher
	if c.cfg.Extraction.Enabled {
		enricher = content.NewHTTPExtractor(content.Params{
			Timeout:   c.cfg.Extraction.Timeout,
			UserAgent: c.cfg.Extraction.UserAgent,
			MinLength: c.cfg.Extraction.MinTextLength,
		})
	}

	out := orDefault(c.Out, c.cfg.Files.Raw)
	n, err := pipeline.Fetch(c.ctx, src, enricher, out)
	if err != nil {
		return err
	}
	log.Printf("[INFO] saved %d articles to %s", n, out)
	return nil
}

func newSource(cfg config.NewsConfig) (pipeline.Source, error) {
	switch cfg.Source {
	case "newsapi":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("news api key is not set, define NEWSAPI_KEY")
		}
		return news.NewNewsAPI(news.NewsAPIParams{
			Endpoint: cfg.Endpoint,
			APIKey:   cfg.APIKey,
			Query:    cfg.Query,
			Language: cfg.Language,
			SortBy:   cfg.SortBy,
			Timeout:  cfg.Timeout,
		}), nil
	case "rss":
		return news.NewRSS(cfg.Feeds, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown news source %q", cfg.Source)
	}
}

// CleanCmd adds clean_content to the raw table
type CleanCmd struct {
	commandBase
	In  string `short:"i" long:"in" description:"input file, overrides files.raw"`
	Out string `short:"o" long:"out" description:"output file, overrides files.cleaned"`
}

// Execute runs the clean stage
func (c *CleanCmd) Execute(_ []string) error {
	cleaner, err := textproc.New()
	if err != nil {
		return err
	}
	_, err = pipeline.Clean(c.ctx, cleaner, orDefault(c.In, c.cfg.Files.Raw), orDefault(c.Out, c.cfg.Files.Cleaned),
		c.cfg.Clean.Workers)
	return err
}

// ClassifyCmd adds category, sentiment and entities to the cleaned table
type ClassifyCmd struct {
	commandBase
	In  string `short:"i" long:"in" description:"input file, overrides files.cleaned"`
	Out string `short:"o" long:"out" description:"output file, overrides files.classified"`
}

// Execute runs the classify stage
func (c *ClassifyCmd) Execute(_ []string) error {
	model, closeModel, err := nlp.NewSentimentModel(c.cfg.Sentiment)
	if err != nil {
		return fmt.Errorf("init sentiment model: %w", err)
	}
	defer func() {
		if err := closeModel(); err != nil {
			log.Printf("[WARN] failed to release sentiment model: %v", err)
		}
	}()

	classifier := classify.New(classify.Params{
		Model:    model,
		NER:      nlp.NewEntityRecognizer(),
		MaxChars: c.cfg.Sentiment.MaxChars,
		Strict:   c.cfg.Sentiment.Strict,
		Workers:  c.cfg.Classify.Workers,
	})
	_, err = pipeline.Classify(c.ctx, classifier, orDefault(c.In, c.cfg.Files.Cleaned),
		orDefault(c.Out, c.cfg.Files.Classified))
	return err
}

// ArchiveCmd copies the classified table into the archive
type ArchiveCmd struct {
	commandBase
	In string `short:"i" long:"in" description:"input file, overrides files.classified"`
}

// Execute runs the archive stage
func (c *ArchiveCmd) Execute(_ []string) error {
	store, err := archive.New(c.ctx, c.cfg.Archive.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = pipeline.Archive(c.ctx, store, orDefault(c.In, c.cfg.Files.Classified))
	return err
}

// DashboardCmd serves the interactive dashboard
type DashboardCmd struct {
	commandBase
	Listen string `short:"l" long:"listen" description:"listen address, overrides dashboard.listen"`
}

// Execute runs the dashboard server until the context is canceled
func (c *DashboardCmd) Execute(_ []string) error {
	var loader dashboard.Loader = dashboard.FileLoader{Path: c.cfg.Files.Classified}
	if c.cfg.Dashboard.Source == "archive" {
		store, err := archive.New(c.ctx, c.cfg.Archive.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		loader = store
	}

	listen, timeout := c.cfg.GetDashboardConfig()
	srv, err := dashboard.New(loader, dashboard.Params{
		Listen:  orDefault(c.Listen, listen),
		Timeout: timeout,
		BaseURL: c.cfg.Dashboard.BaseURL,
		Version: revision,
		Debug:   c.debug,
	})
	if err != nil {
		return err
	}
	return srv.Run(c.ctx)
}

// ServeCmd serves the live news web app
type ServeCmd struct {
	commandBase
	Listen string `short:"l" long:"listen" description:"listen address, overrides server.listen"`
}

// Execute runs the live server until the context is canceled
func (c *ServeCmd) Execute(_ []string) error {
	if c.cfg.Live.APIKey == config.PlaceholderGNewsKey {
		log.Printf("[WARN] GNEWS_API_KEY is not set, headline requests will fail and pages stay empty")
	}
	headlines := news.NewGNews(news.GNewsParams{
		Endpoint: c.cfg.Live.Endpoint,
		APIKey:   c.cfg.Live.APIKey,
		Language: c.cfg.Live.Language,
		Max:      c.cfg.Live.Max,
		Timeout:  c.cfg.Live.Timeout,
	})

	responder, err := chat.New(c.ctx, c.cfg.Chat)
	if err != nil {
		return fmt.Errorf("init chat responder: %w", err)
	}

	listen, timeout := c.cfg.GetServerConfig()
	srv, err := server.New(
		server.Params{Listen: orDefault(c.Listen, listen), Timeout: timeout, Version: revision, Debug: c.debug},
		server.Deps{
			Headlines: headlines,
			Responder: responder,
			Sentiment: nlp.NewPolarityScorer(),
			NER:       nlp.NewEntityRecognizer(),
		},
	)
	if err != nil {
		return err
	}
	return srv.Run(c.ctx)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
