// Package language guesses the language of a question.
package language

import "strings"

// Tag is a supported response language.
type Tag string

const (
	Portuguese Tag = "pt"
	English    Tag = "en"
	Spanish    Tag = "es"
)

// Classifier detects the language of free text.
type Classifier interface {
	Detect(text string) Tag
}

// Rule maps a set of markers to a tag.
type Rule struct {
	Tag     Tag
	Markers []string
}

// KeywordClassifier checks rules in order and returns the first tag with a
// marker occurring anywhere in the lower-cased text. Matching is by
// substring, not by word, so "this" matches "is".
type KeywordClassifier struct {
	rules    []Rule
	fallback Tag
}

// DefaultRules are checked English first, then Spanish.
var DefaultRules = []Rule{
	{Tag: English, Markers: []string{"the", "and", "is"}},
	{Tag: Spanish, Markers: []string{"el", "y", "es"}},
}

// NewKeywordClassifier returns the default classifier. Text with no
// marker, including the empty string, is Portuguese.
func NewKeywordClassifier() *KeywordClassifier {
	return NewKeywordClassifierWithRules(DefaultRules, Portuguese)
}

// NewKeywordClassifierWithRules builds a classifier from custom rules.
func NewKeywordClassifierWithRules(rules []Rule, fallback Tag) *KeywordClassifier {
	return &KeywordClassifier{rules: rules, fallback: fallback}
}

// Detect implements Classifier.
func (c *KeywordClassifier) Detect(text string) Tag {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, marker := range rule.Markers {
			if strings.Contains(lower, marker) {
				return rule.Tag
			}
		}
	}
	return c.fallback
}

// Valid reports whether t is one of the supported tags.
func (t Tag) Valid() bool {
	switch t {
	case Portuguese, English, Spanish:
		return true
	}
	return false
}
