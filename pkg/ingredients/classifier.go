package ingredients

import (
	"sort"

	"github.com/yoloeats/foodgraph/pkg/catalog"
)

// Allergens returns the sorted set of allergen identifiers a normalized
// ingredient name implies. Every matching keyword pattern contributes;
// duplicates collapse at the set level.
func Allergens(name string) []string {
	seen := make(map[string]struct{})
	for _, mapping := range catalog.IngredientKeywords {
		if mapping.Pattern.MatchString(name) {
			seen[mapping.Allergen] = struct{}{}
		}
	}
	return sorted(seen)
}

// Conflicts returns the sorted set of dietary-preference names a normalized
// ingredient name conflicts with. An ingredient conflicts with a preference
// when a keyword pattern matches it and the pattern's allergen sits in the
// preference's conflict set.
func Conflicts(name string) []string {
	seen := make(map[string]struct{})
	for _, pref := range catalog.DietaryPreferences {
		for _, mapping := range catalog.IngredientKeywords {
			if _, conflicting := pref.Conflicts[mapping.Allergen]; !conflicting {
				continue
			}
			if mapping.Pattern.MatchString(name) {
				seen[pref.Name] = struct{}{}
				break
			}
		}
	}
	return sorted(seen)
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
