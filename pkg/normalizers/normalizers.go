// Package normalizers canonicalizes free-text ingredient names and list tags
// so that spelling variants collapse to a single graph identity.
package normalizers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	bracketedRegex  = regexp.MustCompile(`[(\[].*?[)\]]`)
	punctuationRe   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate folds accented characters to their ASCII base form. Input
// that fails to decompose is returned unchanged.
func Transliterate(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeIngredient canonicalizes a raw ingredient name: lowercase, accents
// folded, bracketed qualifiers and punctuation removed, whitespace collapsed.
// An empty result means the input carried no usable name.
func NormalizeIngredient(raw string) string {
	s := strings.ToLower(raw)
	s = Transliterate(s)
	s = bracketedRegex.ReplaceAllString(s, "")
	s = punctuationRe.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanTag extracts a usable tag value from a decoded list element. Non-string
// elements and blank strings are rejected.
func CleanTag(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", false
	}
	return s, true
}
