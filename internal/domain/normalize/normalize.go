// Package normalize folds free text into a comparable form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text lowercases s, strips diacritics, turns every rune that is not a
// letter or digit into a space and collapses whitespace runs.
// "  Univ. Católica-del Perú " becomes "univ catolica del peru".
func Text(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(foldChain(), s)
	if err != nil {
		// Only invalid transformer state can fail here; fall back to the raw input.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		space = true
	}
	return b.String()
}

// Contains reports whether the normalized form of s contains the normalized needle.
// An empty needle never matches.
func Contains(s, needle string) bool {
	n := Text(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Text(s), n)
}

// foldChain is rebuilt per call since transform.Transformer values keep state.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
