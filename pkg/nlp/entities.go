package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/newspulse/newspulse/pkg/domain"
)

// EntityRecognizer finds person, organization and geopolitical names in text
type EntityRecognizer struct{}

// NewEntityRecognizer makes an entity recognizer backed by the bundled English model
func NewEntityRecognizer() *EntityRecognizer {
	return &EntityRecognizer{}
}

// Recognize returns PERSON, ORG and GPE spans in document order, duplicates kept
func (r *EntityRecognizer) Recognize(text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var res []domain.Entity
	for _, ent := range doc.Entities() {
		label := entityLabel(ent.Label)
		if !domain.IsEntityLabel(label) {
			continue
		}
		res = append(res, domain.Entity{Text: ent.Text, Label: label})
	}
	return res, nil
}

// entityLabel maps prose labels onto the short names used in the entities column
func entityLabel(label string) string {
	if label == "ORGANIZATION" {
		return domain.EntityOrg
	}
	return label
}
