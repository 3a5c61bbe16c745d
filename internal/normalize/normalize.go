// Package normalize provides utilities for normalizing and sanitizing text.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TagName converts a raw tag label into its stored form.
// Surrounding whitespace and null bytes are removed and the result is
// NFC-composed so that "café" typed two different ways names one tag.
// Case is preserved. Returns empty string when nothing is left.
func TagName(raw string) string {
	s := strings.TrimSpace(sanitizeString(raw))
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

// TagNames normalizes a list of tag labels, dropping blanks and repeats.
// The first occurrence of each name keeps its position.
func TagNames(raw []string) []string {
	if len(raw) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := TagName(r)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Fold returns the Unicode case-folded form of s, used for
// case-insensitive comparison. "Straße" and "STRASSE" fold to the same value.
func Fold(s string) string {
	// A Caser carries state and is not safe to share across goroutines.
	return cases.Fold().String(s)
}

// sanitizeString removes null bytes, which SQLite and JSON clients
// handle inconsistently.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
