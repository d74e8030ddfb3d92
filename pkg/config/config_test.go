package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_NEWS_KEY", "news-secret")
		path := writeConfig(t, `
files:
  raw: data/raw.csv
news:
  api_key: ${TEST_NEWS_KEY}
  query: stocks
live:
  max: 50
  timeout: 3s
sentiment:
  backend: llm
  llm:
    model: gpt-4o
    attempts: 3
clean:
  workers: 2
classify:
  workers: 4
server:
  listen: ":9090"
  timeout: 45s
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "data/raw.csv", cfg.Files.Raw)
		assert.Equal(t, "finance_news_cleaned.csv", cfg.Files.Cleaned)
		assert.Equal(t, "news-secret", cfg.News.APIKey)
		assert.Equal(t, "stocks", cfg.News.Query)
		assert.Equal(t, 50, cfg.Live.Max)
		assert.Equal(t, 3*time.Second, cfg.Live.Timeout)
		assert.Equal(t, "gpt-4o", cfg.Sentiment.LLM.Model)
		assert.Equal(t, 3, cfg.Sentiment.LLM.Attempts)
		assert.Equal(t, 2, cfg.Clean.Workers)
		assert.Equal(t, 4, cfg.Classify.Workers)
		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
	})

	t.Run("defaults without file", func(t *testing.T) {
		t.Setenv("GNEWS_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "finance_news_raw.csv", cfg.Files.Raw)
		assert.Equal(t, "finance_news_classified.csv", cfg.Files.Classified)
		assert.Equal(t, "newsapi", cfg.News.Source)
		assert.Equal(t, "https://newsapi.org/v2", cfg.News.Endpoint)
		assert.Equal(t, "finance", cfg.News.Query)
		assert.Equal(t, "https://gnews.io/api/v4", cfg.Live.Endpoint)
		assert.Equal(t, PlaceholderGNewsKey, cfg.Live.APIKey)
		assert.Equal(t, 100, cfg.Live.Max)
		assert.Equal(t, 5*time.Second, cfg.Live.Timeout)
		assert.Equal(t, 512, cfg.Sentiment.MaxChars)
		assert.Equal(t, 1, cfg.Sentiment.LLM.Attempts)
		assert.Equal(t, []string{"negative", "neutral", "positive"}, cfg.Sentiment.ONNX.Labels)
		assert.Equal(t, "gemini", cfg.Chat.Provider)
		assert.Equal(t, "gemini-2.5-flash", cfg.Chat.Model)
		assert.Equal(t, PlaceholderGeminiKey, cfg.Chat.APIKey)
		assert.False(t, cfg.Chat.Enabled())
		assert.Equal(t, 1, cfg.Clean.Workers)
		assert.Equal(t, 1, cfg.Classify.Workers)
		assert.Equal(t, ":5000", cfg.Server.Listen)
		assert.Equal(t, ":8501", cfg.Dashboard.Listen)
		assert.Equal(t, "file", cfg.Dashboard.Source)
	})

	t.Run("keys from environment", func(t *testing.T) {
		t.Setenv("GNEWS_API_KEY", "gnews-key")
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		t.Setenv("NEWSAPI_KEY", "newsapi-key")
		t.Setenv("OPENAI_API_KEY", "")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "gnews-key", cfg.Live.APIKey)
		assert.Equal(t, "gemini-key", cfg.Chat.APIKey)
		assert.Equal(t, "newsapi-key", cfg.News.APIKey)
		assert.True(t, cfg.Chat.Enabled())
		assert.ElementsMatch(t, []string{"gnews-key", "gemini-key", "newsapi-key"}, cfg.Secrets())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "invalid: yaml: content: ["))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"rss without feeds", "news:\n  source: rss\n", "news.feeds is required"},
		{"unknown source", "news:\n  source: kafka\n", "news.source must be newsapi or rss"},
		{"live max too big", "live:\n  max: 500\n", "live.max must be between 1 and 100"},
		{"unknown backend", "sentiment:\n  backend: magic\n", "sentiment.backend must be llm or onnx"},
		{"onnx without model", "sentiment:\n  backend: onnx\n", "model_path and tokenizer_path are required"},
		{"bad temperature", "sentiment:\n  llm:\n    temperature: 3\n", "temperature must be between 0 and 2"},
		{"negative workers", "classify:\n  workers: -1\n", "classify.workers must be at least 1"},
		{"negative clean workers", "clean:\n  workers: -2\n", "clean.workers must be at least 1"},
		{"bad chat provider", "chat:\n  provider: claude\n", "chat.provider must be gemini or openai"},
		{"bad dashboard source", "dashboard:\n  source: s3\n", "dashboard.source must be file or archive"},
		{"short server timeout", "server:\n  timeout: 10ms\n", "server timeout must be at least 1 second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_RSSSource(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
news:
  source: rss
  feeds:
    - https://example.com/markets.xml
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/markets.xml"}, cfg.News.Feeds)
}

func TestLoad_ChatProviderDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	t.Run("gemini", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "gemini-key", cfg.Chat.APIKey)
		assert.Equal(t, "gemini-2.5-flash", cfg.Chat.Model)
	})

	t.Run("openai", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "chat:\n  provider: openai\n"))
		require.NoError(t, err)
		assert.Equal(t, "openai-key", cfg.Chat.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
		assert.True(t, cfg.Chat.Enabled())
	})

	t.Run("openai without key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg, err := Load(writeConfig(t, "chat:\n  provider: openai\n"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Chat.APIKey)
		assert.False(t, cfg.Chat.Enabled())
	})

	t.Run("explicit model kept", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "chat:\n  provider: openai\n  model: gpt-4o\n"))
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", cfg.Chat.Model)
	})
}

func TestChatConfig_Enabled(t *testing.T) {
	assert.False(t, ChatConfig{}.Enabled())
	assert.False(t, ChatConfig{APIKey: PlaceholderGeminiKey}.Enabled())
	assert.True(t, ChatConfig{APIKey: "key"}.Enabled())
}
