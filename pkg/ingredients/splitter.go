// Package ingredients derives structured facts from free-text ingredient
// lists: the individual normalized names, the allergens each name implies,
// and the dietary preferences each name conflicts with.
package ingredients

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yoloeats/foodgraph/pkg/normalizers"
)

var (
	localePrefixRegex = regexp.MustCompile(`^[A-Za-z]{2,3}(?:[-_][A-Za-z]{2,8})?:\s*`)
	parenPercentRe    = regexp.MustCompile(`\s*\(\s*\d+(\.\d+)?\s*%\s*\)\s*$`)
	barePercentRegex  = regexp.MustCompile(`\s*\d+(\.\d+)?\s*%\s*$`)
)

// SplitList breaks a raw ingredient-list string into a sorted set of
// normalized ingredient names. Commas inside parentheses or brackets do not
// split; qualifiers inside them are dropped during normalization.
func SplitList(raw string) []string {
	seen := make(map[string]struct{})
	for _, fragment := range splitTopLevel(raw) {
		name := normalizers.NormalizeIngredient(cleanFragment(fragment))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitTopLevel splits on commas at bracket depth zero. Unbalanced closers
// are clamped so a stray ')' cannot push the depth negative.
func splitTopLevel(raw string) []string {
	var fragments []string
	depth := 0
	start := 0
	for i, r := range raw {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				fragments = append(fragments, raw[start:i])
				start = i + len(",")
			}
		}
	}
	fragments = append(fragments, raw[start:])
	return fragments
}

// cleanFragment strips the list-level decorations a fragment may carry: a
// leading locale tag, an em-dash footnote, and a trailing percentage.
func cleanFragment(fragment string) string {
	s := strings.TrimSpace(fragment)
	s = localePrefixRegex.ReplaceAllString(s, "")
	if idx := strings.IndexAny(s, "–—"); idx >= 0 {
		s = s[:idx]
	}
	s = parenPercentRe.ReplaceAllString(s, "")
	s = barePercentRegex.ReplaceAllString(s, "")
	return s
}
