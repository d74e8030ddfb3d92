package nlp

import (
	"fmt"

	"github.com/newspulse/newspulse/pkg/config"
)

// NewSentimentModel builds the configured backend. The returned close func releases
// model resources and is safe to call for every backend.
func NewSentimentModel(cfg config.SentimentConfig) (SentimentModel, func() error, error) {
	switch cfg.Backend {
	case "llm":
		return NewLLMSentiment(cfg.LLM), func() error { return nil }, nil
	case "onnx":
		m, err := NewONNXSentiment(cfg.ONNX)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sentiment backend %q", cfg.Backend)
	}
}
