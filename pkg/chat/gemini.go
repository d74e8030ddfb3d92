package chat

import (
	"context"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/newspulse/newspulse/pkg/config"
)

// Gemini answers with a Google Gemini model
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

// NewGemini makes a Gemini responder; cfg.Endpoint overrides the API base URL when set
func NewGemini(ctx context.Context, cfg config.ChatConfig, limiter *rate.Limiter) (*Gemini, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model, limiter: limiter}, nil
}

// Respond sends the query with the fixed system instruction
func (g *Gemini) Respond(ctx context.Context, query string) string {
	text, err := g.generate(ctx, query)
	if err != nil {
		log.Printf("[WARN] gemini chat failed, %v", err)
		return ErrorReply
	}
	return text
}

func (g *Gemini) generate(ctx context.Context, query string) (string, error) {
	if err := wait(ctx, g.limiter); err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(query, "user")},
		&genai.GenerateContentConfig{SystemInstruction: genai.NewContentFromText(SystemInstruction, "user")})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return text, nil
}
