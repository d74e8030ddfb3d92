package domain

import (
	"fmt"
	"strings"
)

// Category is a topic category assigned by keyword matching
type Category string

// categories, in matching priority order
const (
	CategoryStockMarket    Category = "Stock Market"
	CategoryCryptocurrency Category = "Cryptocurrency"
	CategoryBanking        Category = "Banking"
	CategoryEconomy        Category = "Economy"
	CategoryOther          Category = "Other"
)

// CategoryAll is the dashboard pseudo-category that disables category filtering
const CategoryAll = "All"

// Sentiment is a three-way sentiment label, plus N/A for the live path
type Sentiment string

// sentiment labels
const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNA       Sentiment = "N/A"
)

// Sentiments lists the batch labels in the order charts display them
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// Emoji returns the marker shown next to a live article
func (s Sentiment) Emoji() string {
	switch s {
	case SentimentPositive:
		return "😊"
	case SentimentNegative:
		return "😞"
	case SentimentNeutral:
		return "😐"
	default:
		return "⚪"
	}
}

// SentimentFromLabel maps a raw model label onto the canonical set.
// Anything mentioning "positive" or "negative" wins, everything else is neutral.
func SentimentFromLabel(label string) Sentiment {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "positive"):
		return SentimentPositive
	case strings.Contains(l, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// NormalizeSentiment maps stored sentiment encodings (case variants or -1/0/1 codes)
// onto the canonical labels, defaulting to neutral
func NormalizeSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "1", "1.0":
		return SentimentPositive
	case "negative", "-1", "-1.0":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// entity labels kept by the recognizer
const (
	EntityPerson = "PERSON"
	EntityOrg    = "ORG"
	EntityGPE    = "GPE"
)

// EntityLabels lists the recognized entity types
var EntityLabels = []string{EntityPerson, EntityOrg, EntityGPE}

// IsEntityLabel reports whether the label is one of the recognized entity types
func IsEntityLabel(label string) bool {
	return label == EntityPerson || label == EntityOrg || label == EntityGPE
}

// Entity is a named-entity span
type Entity struct {
	Text  string
	Label string
}

// String formats the entity as "text (LABEL)"
func (e Entity) String() string {
	return fmt.Sprintf("%s (%s)", e.Text, e.Label)
}
