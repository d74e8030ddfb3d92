// Package nlp holds the language models shared by the pipeline and the live app:
// 3-class sentiment models, a named-entity recognizer and a polarity scorer.
// Models are built once at startup and passed to consumers explicitly.
package nlp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/newspulse/newspulse/pkg/config"
)

// SentimentModel predicts a raw 3-class sentiment label (positive, neutral or negative) for text
type SentimentModel interface {
	Predict(ctx context.Context, text string) (string, error)
}

// default system prompt for sentiment labeling
const defaultSentimentPrompt = `You label the sentiment of financial news text.
Answer with exactly one lowercase word: positive, neutral or negative.
Do not explain.`

// LLMSentiment labels sentiment with an OpenAI-compatible chat model
type LLMSentiment struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	limiter   *rate.Limiter
}

// NewLLMSentiment creates a sentiment model backed by a chat completion API
func NewLLMSentiment(cfg config.LLMConfig) *LLMSentiment {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSentimentPrompt
	}

	res := &LLMSentiment{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
	if cfg.RequestsPerMinute > 0 {
		res.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return res
}

// Predict asks the model for a single sentiment word
func (l *LLMSentiment) Predict(ctx context.Context, text string) (string, error) {
	attempts := max(l.config.Attempts, 1)
	var label string
	retrier := repeater.NewBackoff(attempts, 500*time.Millisecond, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		var err error
		label, err = l.predict(ctx, text)
		return err
	})
	if err != nil {
		return "", err
	}
	return label, nil
}

func (l *LLMSentiment) predict(ctx context.Context, text string) (string, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limit: %w", err)
		}
	}

	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       l.config.Model,
		Temperature: float32(l.config.Temperature),
		MaxTokens:   l.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: l.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
