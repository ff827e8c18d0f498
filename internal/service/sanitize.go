package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user-supplied text before it is stored
type Sanitizer struct {
	plain *bluemonday.Policy
	rich  *bluemonday.Policy
}

// NewSanitizer creates a sanitizer. Titles and names lose all markup;
// descriptions and comments keep safe formatting.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		plain: bluemonday.StrictPolicy(),
		rich:  bluemonday.UGCPolicy(),
	}
}

// Plain strips every tag and trims whitespace
func (s *Sanitizer) Plain(text string) string {
	return strings.TrimSpace(s.plain.Sanitize(text))
}

// Rich keeps safe formatting tags and trims whitespace
func (s *Sanitizer) Rich(text string) string {
	return strings.TrimSpace(s.rich.Sanitize(text))
}
