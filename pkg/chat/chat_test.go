package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newspulse/newspulse/pkg/config"
)

func TestNew(t *testing.T) {
	t.Run("placeholder key", func(t *testing.T) {
		r, err := New(context.Background(), config.ChatConfig{Provider: "gemini", APIKey: config.PlaceholderGeminiKey})
		require.NoError(t, err)
		assert.IsType(t, Placeholder{}, r)
	})

	t.Run("empty key", func(t *testing.T) {
		r, err := New(context.Background(), config.ChatConfig{Provider: "openai"})
		require.NoError(t, err)
		assert.IsType(t, Placeholder{}, r)
	})

	t.Run("gemini", func(t *testing.T) {
		r, err := New(context.Background(), config.ChatConfig{Provider: "gemini", APIKey: "key", Model: "gemini-2.5-flash"})
		require.NoError(t, err)
		assert.IsType(t, &Gemini{}, r)
	})

	t.Run("openai", func(t *testing.T) {
		r, err := New(context.Background(), config.ChatConfig{Provider: "openai", APIKey: "key", Model: "gpt-4o-mini",
			RequestsPerMinute: 10})
		require.NoError(t, err)
		require.IsType(t, &OpenAI{}, r)
		assert.NotNil(t, r.(*OpenAI).limiter)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), config.ChatConfig{Provider: "other", APIKey: "key"})
		require.Error(t, err)
	})
}

func TestPlaceholder_Respond(t *testing.T) {
	res := Placeholder{}.Respond(context.Background(), "what is a bear market?")
	assert.Equal(t, "Hello! I received your message: 'what is a bear market?'. I am currently running in placeholder "+
		"mode because the Gemini API key is missing. Please set the GEMINI_API_KEY in your .env file to enable full "+
		"chat functionality.", res)
}

func TestOpenAI_Respond(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			var req openai.ChatCompletionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 2)
			assert.Equal(t, SystemInstruction, req.Messages[0].Content)
			assert.Equal(t, "what is a bear market?", req.Messages[1].Content)
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: " A falling market. "}}}})
		}))
		defer srv.Close()

		r := NewOpenAI(config.ChatConfig{APIKey: "k", Model: "m", Endpoint: srv.URL + "/v1"}, nil)
		assert.Equal(t, "A falling market.", r.Respond(context.Background(), "what is a bear market?"))
	})

	t.Run("failure gives apology", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		r := NewOpenAI(config.ChatConfig{APIKey: "bad", Model: "m", Endpoint: srv.URL + "/v1"}, nil)
		assert.Equal(t, ErrorReply, r.Respond(context.Background(), "hi"))
	})
}

func TestGemini_Respond(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Inflation is rising prices."}]}}]}`))
		}))
		defer srv.Close()

		r, err := NewGemini(context.Background(), config.ChatConfig{APIKey: "k", Model: "gemini-2.5-flash", Endpoint: srv.URL}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Inflation is rising prices.", r.Respond(context.Background(), "what is inflation?"))
	})

	t.Run("failure gives apology", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
		}))
		defer srv.Close()

		r, err := NewGemini(context.Background(), config.ChatConfig{APIKey: "k", Model: "gemini-2.5-flash", Endpoint: srv.URL}, nil)
		require.NoError(t, err)
		assert.Equal(t, ErrorReply, r.Respond(context.Background(), "what is inflation?"))
	})
}
