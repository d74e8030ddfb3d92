// Package textproc normalizes article text for keyword matching and entity extraction.
package textproc

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

//go:embed stopwords.txt
var stopwordsData string

var (
	reURL      = regexp.MustCompile(`http\S+`)
	reNonAlpha = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// Cleaner turns free text into a space-joined sequence of lemmas without stopwords.
// It holds the lemmatizer dictionary, so make one per process and share it.
type Cleaner struct {
	lemmatizer *golem.Lemmatizer
	stopwords  map[string]struct{}
}

// New loads the English lemma dictionary and stopword list
func New() (*Cleaner, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &Cleaner{lemmatizer: lemmatizer, stopwords: Stopwords()}, nil
}

// Stopwords returns the English stopword set
func Stopwords() map[string]struct{} {
	res := make(map[string]struct{})
	for _, w := range strings.Fields(stopwordsData) {
		res[w] = struct{}{}
	}
	return res
}

// CleanText strips links and non-letters, lowercases, lemmatizes and drops stopwords
// and lemmas of two characters or less. Empty input gives an empty string.
func (c *Cleaner) CleanText(text string) string {
	text = reURL.ReplaceAllString(text, "")
	text = reNonAlpha.ReplaceAllString(text, "")
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return ""
	}

	res := make([]string, 0, 32)
	for _, tok := range c.tokenize(text) {
		lemma := strings.ToLower(c.lemmatizer.Lemma(tok))
		if len(lemma) <= 2 {
			continue
		}
		// golem lemmatizes "more" and "most" to "many", so the surface form is checked as well
		if c.isStopword(tok) || c.isStopword(lemma) {
			continue
		}
		res = append(res, lemma)
	}
	return strings.Join(res, " ")
}

// isStopword reports whether word is in the NLTK English list
func (c *Cleaner) isStopword(word string) bool {
	_, ok := c.stopwords[word]
	return ok
}

// tokenize splits already-normalized text into word tokens
func (c *Cleaner) tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false), prose.WithSegmentation(false), prose.WithExtraction(false))
	if err != nil {
		return strings.Fields(text)
	}
	tokens := doc.Tokens()
	res := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if w := strings.TrimSpace(t.Text); w != "" {
			res = append(res, w)
		}
	}
	return res
}
