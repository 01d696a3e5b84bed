// Package normalize provides the text normalization used by transcript parsing
// and category matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritical marks after NFD decomposition, so
// "categoría" and "categoria" normalize to the same string.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases text and strips accents, keeping punctuation intact.
// Transcript pattern matching works on folded text so that "categoría" and
// "categoria" behave identically.
func Fold(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)

	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// Transform only fails on malformed input; keep the lowered text.
		return lowered
	}
	return stripped
}

// Normalize lower-cases text, strips accents and punctuation, and trims
// surrounding whitespace. It is deterministic and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	stripped := Fold(text)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
