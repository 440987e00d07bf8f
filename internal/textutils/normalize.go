// Package textutils provides text normalization and manipulation utilities.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text for comparison.
//
// The result is lower-cased, stripped of diacritical marks, restricted to
// the letters a-z, ñ and single spaces, and trimmed. Any other character is
// treated as a word separator, so "4manolo." becomes "manolo" and
// "María  José" becomes "maria jose".
//
// Normalize never fails and is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// transform only fails on invalid UTF-8 state; fall back to the lowered text
		stripped = lowered
	}

	var builder strings.Builder
	builder.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		if !isAllowedLetter(r) {
			pendingSpace = builder.Len() > 0
			continue
		}
		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// Words returns the normalized words of text.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}

// EqualNormalized reports whether a and b normalize to the same text.
func EqualNormalized(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func isAllowedLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == 'ñ'
}
