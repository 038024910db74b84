// =============================================================================
// Freight Tracker - Text Folding
// =============================================================================
//
// Accent-insensitive comparison helpers shared by the status normalizer, the
// city canonicalizer and header matching.
//
// Fold("Prudentópolis ") == "PRUDENTOPOLIS"
//
// =============================================================================

package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes diacritics, uppercases and trims s.
//
// A new transformer chain is built per call; transform.Chain keeps internal
// state and must not be shared between goroutines.
func Fold(s string) string {
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		// Fall back to the unfolded text; matching still works for ASCII input.
		folded = s
	}

	return strings.ToUpper(strings.TrimSpace(folded))
}

// ContainsFold reports whether the folded haystack contains the folded needle.
func ContainsFold(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}
