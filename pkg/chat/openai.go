package chat

import (
	"context"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/newspulse/newspulse/pkg/config"
)

// OpenAI answers with an OpenAI-compatible chat model
type OpenAI struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAI makes a responder for an OpenAI-compatible endpoint
func NewOpenAI(cfg config.ChatConfig, limiter *rate.Limiter) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig), model: cfg.Model, limiter: limiter}
}

// Respond sends the query with the fixed system instruction
func (o *OpenAI) Respond(ctx context.Context, query string) string {
	text, err := o.complete(ctx, query)
	if err != nil {
		log.Printf("[WARN] openai chat failed, %v", err)
		return ErrorReply
	}
	return text
}

func (o *OpenAI) complete(ctx context.Context, query string) (string, error) {
	if err := wait(ctx, o.limiter); err != nil {
		return "", err
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: query},
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
