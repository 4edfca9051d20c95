// internal/extract/classifier.go
package extract

import (
	"strings"
)

// Classifier decides whether a comment text announces an event: it must
// contain at least one temporal expression and at least one keyword.
type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

func (c *Classifier) IsEvent(text string) bool {
	return c.hasTemporal(text) && c.hasKeyword(text)
}

func (c *Classifier) hasTemporal(text string) bool {
	for _, p := range c.rules.Temporal {
		if p.Match(text) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range c.rules.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
