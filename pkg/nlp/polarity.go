package nlp

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/newspulse/newspulse/pkg/domain"
)

// polarity thresholds for the live app labels
const (
	positiveThreshold = 0.3
	negativeThreshold = -0.3
)

// PolarityScorer gives a lexicon-based polarity score in [-1, 1]
type PolarityScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewPolarityScorer loads the sentiment lexicon
func NewPolarityScorer() *PolarityScorer {
	return &PolarityScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound score of text, 0 for empty text
func (p *PolarityScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return p.analyzer.PolarityScores(text).Compound
}

// Label maps text to Positive (> 0.3), Negative (< -0.3) or Neutral, and empty text to N/A
func (p *PolarityScorer) Label(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return domain.SentimentNA
	}
	return LabelPolarity(p.Polarity(text))
}

// LabelPolarity applies the live thresholds to a score
func LabelPolarity(score float64) domain.Sentiment {
	switch {
	case score > positiveThreshold:
		return domain.SentimentPositive
	case score < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
