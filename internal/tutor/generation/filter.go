package generation

import (
	"fmt"
	"regexp"
	"strings"
)

// ContentFilter rejects generated text containing any denylisted term.
// Matching is case-insensitive on word boundaries.
type ContentFilter struct {
	patterns []*regexp.Regexp
	terms    []string
}

// NewContentFilter compiles the denylist. Invalid terms are skipped rather
// than failing startup.
func NewContentFilter(denylist []string) *ContentFilter {
	f := &ContentFilter{}
	for _, term := range denylist {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		f.patterns = append(f.patterns, re)
		f.terms = append(f.terms, term)
	}
	return f
}

// Check returns the first denylisted term found in text, or an empty
// string when the text is clean.
func (f *ContentFilter) Check(text string) string {
	for i, re := range f.patterns {
		if re.MatchString(text) {
			return f.terms[i]
		}
	}
	return ""
}

// CheckAll scans several text fields and reports the first hit.
func (f *ContentFilter) CheckAll(fields ...string) error {
	for _, field := range fields {
		if term := f.Check(field); term != "" {
			return fmt.Errorf("content contains denylisted term %q", term)
		}
	}
	return nil
}
