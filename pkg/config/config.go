package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// placeholder keys shipped in the sample .env; they disable the features they gate
const (
	PlaceholderGNewsKey  = "YOUR_GNEWS_API_KEY_HERE"
	PlaceholderGeminiKey = "YOUR_GEMINI_API_KEY_HERE"
)

// Config holds the application configuration
type Config struct {
	Files      FilesConfig      `yaml:"files" json:"files" jsonschema:"description=Flat files passed between pipeline stages"`
	News       NewsConfig       `yaml:"news" json:"news" jsonschema:"description=Batch news source"`
	Live       LiveConfig       `yaml:"live" json:"live" jsonschema:"description=Live headlines source for the web app"`
	Sentiment  SentimentConfig  `yaml:"sentiment" json:"sentiment" jsonschema:"description=Batch sentiment model"`
	Clean      CleanConfig      `yaml:"clean" json:"clean" jsonschema:"description=Cleaning stage settings"`
	Classify   ClassifyConfig   `yaml:"classify" json:"classify" jsonschema:"description=Classification stage settings"`
	Chat       ChatConfig       `yaml:"chat" json:"chat" jsonschema:"description=Chatbot generative-AI settings"`
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Live web app server"`
	Dashboard  DashboardConfig  `yaml:"dashboard" json:"dashboard" jsonschema:"description=Interactive dashboard server"`
	Archive    ArchiveConfig    `yaml:"archive" json:"archive" jsonschema:"description=SQLite archive of classified articles"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Full-text extraction for fetched articles"`
}

// FilesConfig names the interchange files of each stage
type FilesConfig struct {
	Raw        string `yaml:"raw" json:"raw" jsonschema:"default=finance_news_raw.csv,description=Fetch stage output"`
	Cleaned    string `yaml:"cleaned" json:"cleaned" jsonschema:"default=finance_news_cleaned.csv,description=Clean stage output"`
	Classified string `yaml:"classified" json:"classified" jsonschema:"default=finance_news_classified.csv,description=Classify stage output"`
}

// NewsConfig configures the batch fetcher
type NewsConfig struct {
	Source   string        `yaml:"source" json:"source" jsonschema:"default=newsapi,enum=newsapi,enum=rss,description=Where articles come from"`
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://newsapi.org/v2,description=News search API base URL"`
	APIKey   string        `yaml:"api_key" json:"api_key" jsonschema:"description=News search API key (NEWSAPI_KEY env)"`
	Query    string        `yaml:"query" json:"query" jsonschema:"default=finance,description=Search query"`
	Language string        `yaml:"language" json:"language" jsonschema:"default=en,description=Article language"`
	SortBy   string        `yaml:"sort_by" json:"sort_by" jsonschema:"default=publishedAt,description=Sort order"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	Feeds    []string      `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom feed URLs when source is rss"`
}

// LiveConfig configures the live headlines client
type LiveConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://gnews.io/api/v4,description=Headlines API base URL"`
	APIKey   string        `yaml:"api_key" json:"api_key" jsonschema:"description=Headlines API key (GNEWS_API_KEY env)"`
	Language string        `yaml:"language" json:"language" jsonschema:"default=en,description=Headline language"`
	Max      int           `yaml:"max" json:"max" jsonschema:"default=100,minimum=1,maximum=100,description=Maximum headlines per request"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5s,description=Request timeout"`
}

// SentimentConfig selects and configures the batch sentiment model
type SentimentConfig struct {
	Backend  string     `yaml:"backend" json:"backend" jsonschema:"default=llm,enum=llm,enum=onnx,description=Sentiment model backend"`
	MaxChars int        `yaml:"max_chars" json:"max_chars" jsonschema:"default=512,description=Text is truncated to this many characters"`
	Strict   bool       `yaml:"strict" json:"strict" jsonschema:"default=false,description=Fail the stage on model errors instead of defaulting to Neutral"`
	LLM      LLMConfig  `yaml:"llm" json:"llm" jsonschema:"description=OpenAI-compatible model settings"`
	ONNX     ONNXConfig `yaml:"onnx" json:"onnx" jsonschema:"description=Local ONNX model settings"`
}

// LLMConfig holds settings for an OpenAI-compatible sentiment model
type LLMConfig struct {
	Endpoint          string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.openai.com/v1,description=OpenAI-compatible API endpoint"`
	APIKey            string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (OPENAI_API_KEY env)"`
	Model             string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature       float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0,description=Temperature for response generation"`
	MaxTokens         int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=5,description=Maximum tokens in response"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt      string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute" jsonschema:"default=0,description=Request rate limit, 0 disables"`
	Attempts          int           `yaml:"attempts" json:"attempts" jsonschema:"default=1,minimum=1,description=Attempts per request, 1 disables retries"`
}

// ONNXConfig holds settings for a local pretrained sentiment model
type ONNXConfig struct {
	LibraryPath    string   `yaml:"library_path" json:"library_path" jsonschema:"description=onnxruntime shared library (ONNX_DLL_PATH env)"`
	ModelPath      string   `yaml:"model_path" json:"model_path" jsonschema:"description=Exported 3-class sentiment model"`
	TokenizerPath  string   `yaml:"tokenizer_path" json:"tokenizer_path" jsonschema:"description=tokenizer.json matching the model"`
	SequenceLength int      `yaml:"sequence_length" json:"sequence_length" jsonschema:"default=128,description=Fixed model input length"`
	PadID          int      `yaml:"pad_id" json:"pad_id" jsonschema:"default=1,description=Padding token id"`
	Labels         []string `yaml:"labels" json:"labels" jsonschema:"description=Output labels in logit order"`
}

// CleanConfig holds cleaning stage settings
type CleanConfig struct {
	Workers int `yaml:"workers" json:"workers" jsonschema:"default=1,minimum=1,description=Rows cleaned concurrently"`
}

// ClassifyConfig holds classification stage settings
type ClassifyConfig struct {
	Workers int `yaml:"workers" json:"workers" jsonschema:"default=1,minimum=1,description=Rows classified concurrently"`
}

// ChatConfig configures the chatbot responder
type ChatConfig struct {
	Provider          string `yaml:"provider" json:"provider" jsonschema:"default=gemini,enum=gemini,enum=openai,description=Generative-AI provider"`
	APIKey            string `yaml:"api_key" json:"api_key" jsonschema:"description=Provider API key (GEMINI_API_KEY or OPENAI_API_KEY env by provider)"`
	Model             string `yaml:"model" json:"model" jsonschema:"description=Model name (gemini-2.5-flash or gpt-4o-mini by provider)"`
	Endpoint          string `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint for the openai provider"`
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute" jsonschema:"default=0,description=Request rate limit, 0 disables"`
}

// ServerConfig configures the live web app
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:5000,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=HTTP server timeout"`
}

// DashboardConfig configures the interactive dashboard
type DashboardConfig struct {
	Listen  string `yaml:"listen" json:"listen" jsonschema:"default=:8501,description=HTTP listen address"`
	Source  string `yaml:"source" json:"source" jsonschema:"default=file,enum=file,enum=archive,description=Where classified articles are loaded from"`
	BaseURL string `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8501,description=Public URL used in RSS links"`
}

// ArchiveConfig configures the SQLite archive
type ArchiveConfig struct {
	DSN string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newspulse.db?cache=shared&mode=rwc,description=Database connection string"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Replace truncated API content with extracted page text"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newspulse/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum text length to accept"`
}

// Load reads configuration from a YAML file. An empty path yields defaults
// completed from the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// supplementary check, warn only
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// files
	cfg.Files.Raw = orDefault(cfg.Files.Raw, "finance_news_raw.csv")
	cfg.Files.Cleaned = orDefault(cfg.Files.Cleaned, "finance_news_cleaned.csv")
	cfg.Files.Classified = orDefault(cfg.Files.Classified, "finance_news_classified.csv")

	// batch news
	cfg.News.Source = orDefault(cfg.News.Source, "newsapi")
	cfg.News.Endpoint = orDefault(cfg.News.Endpoint, "https://newsapi.org/v2")
	cfg.News.APIKey = orDefault(cfg.News.APIKey, os.Getenv("NEWSAPI_KEY"))
	cfg.News.Query = orDefault(cfg.News.Query, "finance")
	cfg.News.Language = orDefault(cfg.News.Language, "en")
	cfg.News.SortBy = orDefault(cfg.News.SortBy, "publishedAt")
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = 30 * time.Second
	}

	// live headlines
	cfg.Live.Endpoint = orDefault(cfg.Live.Endpoint, "https://gnews.io/api/v4")
	cfg.Live.APIKey = orDefault(cfg.Live.APIKey, orDefault(os.Getenv("GNEWS_API_KEY"), PlaceholderGNewsKey))
	cfg.Live.Language = orDefault(cfg.Live.Language, "en")
	if cfg.Live.Max == 0 {
		cfg.Live.Max = 100
	}
	if cfg.Live.Timeout == 0 {
		cfg.Live.Timeout = 5 * time.Second
	}

	// sentiment
	cfg.Sentiment.Backend = orDefault(cfg.Sentiment.Backend, "llm")
	if cfg.Sentiment.MaxChars == 0 {
		cfg.Sentiment.MaxChars = 512
	}
	cfg.Sentiment.LLM.Endpoint = orDefault(cfg.Sentiment.LLM.Endpoint, "https://api.openai.com/v1")
	cfg.Sentiment.LLM.APIKey = orDefault(cfg.Sentiment.LLM.APIKey, os.Getenv("OPENAI_API_KEY"))
	cfg.Sentiment.LLM.Model = orDefault(cfg.Sentiment.LLM.Model, "gpt-4o-mini")
	if cfg.Sentiment.LLM.MaxTokens == 0 {
		cfg.Sentiment.LLM.MaxTokens = 5
	}
	if cfg.Sentiment.LLM.Timeout == 0 {
		cfg.Sentiment.LLM.Timeout = 30 * time.Second
	}
	if cfg.Sentiment.LLM.Attempts == 0 {
		cfg.Sentiment.LLM.Attempts = 1
	}
	cfg.Sentiment.ONNX.LibraryPath = orDefault(cfg.Sentiment.ONNX.LibraryPath, os.Getenv("ONNX_DLL_PATH"))
	if cfg.Sentiment.ONNX.SequenceLength == 0 {
		cfg.Sentiment.ONNX.SequenceLength = 128
	}
	if cfg.Sentiment.ONNX.PadID == 0 {
		cfg.Sentiment.ONNX.PadID = 1
	}
	if len(cfg.Sentiment.ONNX.Labels) == 0 {
		cfg.Sentiment.ONNX.Labels = []string{"negative", "neutral", "positive"}
	}

	// clean and classify
	if cfg.Clean.Workers == 0 {
		cfg.Clean.Workers = 1
	}
	if cfg.Classify.Workers == 0 {
		cfg.Classify.Workers = 1
	}

	// chat
	cfg.Chat.Provider = orDefault(cfg.Chat.Provider, "gemini")
	switch cfg.Chat.Provider {
	case "openai":
		cfg.Chat.APIKey = orDefault(cfg.Chat.APIKey, os.Getenv("OPENAI_API_KEY"))
		cfg.Chat.Model = orDefault(cfg.Chat.Model, "gpt-4o-mini")
	default:
		cfg.Chat.APIKey = orDefault(cfg.Chat.APIKey, orDefault(os.Getenv("GEMINI_API_KEY"), PlaceholderGeminiKey))
		cfg.Chat.Model = orDefault(cfg.Chat.Model, "gemini-2.5-flash")
	}

	// servers
	cfg.Server.Listen = orDefault(cfg.Server.Listen, ":5000")
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	cfg.Dashboard.Listen = orDefault(cfg.Dashboard.Listen, ":8501")
	cfg.Dashboard.Source = orDefault(cfg.Dashboard.Source, "file")
	cfg.Dashboard.BaseURL = orDefault(cfg.Dashboard.BaseURL, "http://localhost:8501")

	// archive
	cfg.Archive.DSN = orDefault(cfg.Archive.DSN, "file:newspulse.db?cache=shared&mode=rwc")

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	cfg.Extraction.UserAgent = orDefault(cfg.Extraction.UserAgent, "Newspulse/1.0")
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	switch cfg.News.Source {
	case "newsapi":
	case "rss":
		if len(cfg.News.Feeds) == 0 {
			return fmt.Errorf("news.feeds is required when news.source is rss")
		}
	default:
		return fmt.Errorf("news.source must be newsapi or rss, got %q", cfg.News.Source)
	}

	if cfg.Live.Max < 1 || cfg.Live.Max > 100 {
		return fmt.Errorf("live.max must be between 1 and 100")
	}

	switch cfg.Sentiment.Backend {
	case "llm":
		if cfg.Sentiment.LLM.Temperature < 0 || cfg.Sentiment.LLM.Temperature > 2 {
			return fmt.Errorf("sentiment.llm.temperature must be between 0 and 2")
		}
		if cfg.Sentiment.LLM.Attempts < 1 {
			return fmt.Errorf("sentiment.llm.attempts must be at least 1")
		}
	case "onnx":
		if cfg.Sentiment.ONNX.ModelPath == "" || cfg.Sentiment.ONNX.TokenizerPath == "" {
			return fmt.Errorf("sentiment.onnx.model_path and tokenizer_path are required for the onnx backend")
		}
		if len(cfg.Sentiment.ONNX.Labels) != 3 {
			return fmt.Errorf("sentiment.onnx.labels must list exactly 3 labels")
		}
	default:
		return fmt.Errorf("sentiment.backend must be llm or onnx, got %q", cfg.Sentiment.Backend)
	}
	if cfg.Sentiment.MaxChars < 1 {
		return fmt.Errorf("sentiment.max_chars must be positive")
	}

	if cfg.Clean.Workers < 1 {
		return fmt.Errorf("clean.workers must be at least 1")
	}
	if cfg.Classify.Workers < 1 {
		return fmt.Errorf("classify.workers must be at least 1")
	}

	if cfg.Chat.Provider != "gemini" && cfg.Chat.Provider != "openai" {
		return fmt.Errorf("chat.provider must be gemini or openai, got %q", cfg.Chat.Provider)
	}

	if cfg.Dashboard.Source != "file" && cfg.Dashboard.Source != "archive" {
		return fmt.Errorf("dashboard.source must be file or archive, got %q", cfg.Dashboard.Source)
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns live server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetDashboardConfig returns dashboard server configuration
func (c *Config) GetDashboardConfig() (listen string, timeout time.Duration) {
	return c.Dashboard.Listen, c.Server.Timeout
}

// Enabled reports whether a real generative-AI key is configured
func (c ChatConfig) Enabled() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderGeminiKey
}

// Secrets returns configured keys for log masking
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.News.APIKey, c.Live.APIKey, c.Sentiment.LLM.APIKey, c.Chat.APIKey} {
		if s != "" && s != PlaceholderGNewsKey && s != PlaceholderGeminiKey {
			res = append(res, s)
		}
	}
	return res
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
