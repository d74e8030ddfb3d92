// Package chat answers free-text questions about the news with a generative-AI model.
package chat

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/newspulse/newspulse/pkg/config"
)

// fixed replies
const (
	EmptyQueryReply = "Please ask a question."
	ErrorReply      = "Sorry, I'm having trouble connecting to the AI right now. Please check your API key and connection."
	placeholderFmt  = "Hello! I received your message: '%s'. I am currently running in placeholder mode because " +
		"the Gemini API key is missing. Please set the GEMINI_API_KEY in your .env file to enable full chat functionality."
)

// SystemInstruction frames every conversation
const SystemInstruction = "You are the Newspulse Contextual Guide. You help users understand news jargon and answer " +
	"questions based on general knowledge. Keep your answers concise and helpful."

// Responder produces a reply for a non-empty query. It never fails; errors become ErrorReply.
type Responder interface {
	Respond(ctx context.Context, query string) string
}

// New selects the responder once at startup. A missing or placeholder key gives the placeholder responder.
func New(ctx context.Context, cfg config.ChatConfig) (Responder, error) {
	if !cfg.Enabled() {
		log.Printf("[WARN] chat api key is not set, chatbot runs in placeholder mode")
		return Placeholder{}, nil
	}

	limiter := newLimiter(cfg.RequestsPerMinute)
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg, limiter)
	case "openai":
		return NewOpenAI(cfg, limiter), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.Provider)
	}
}

// Placeholder echoes the query with setup instructions
type Placeholder struct{}

// Respond returns the placeholder message
func (Placeholder) Respond(_ context.Context, query string) string {
	return fmt.Sprintf(placeholderFmt, query)
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit: %w", err)
	}
	return nil
}
