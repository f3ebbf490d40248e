package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKnownAllergen(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected bool
	}{
		{
			name:     "catalog allergen",
			tag:      "en:milk",
			expected: true,
		},
		{
			name:     "catalog allergen with compound identifier",
			tag:      "en:sulphur-dioxide-and-sulphites",
			expected: true,
		},
		{
			name:     "tag outside the catalog",
			tag:      "en:kiwi",
			expected: false,
		},
		{
			name:     "missing language prefix",
			tag:      "milk",
			expected: false,
		},
		{
			name:     "empty tag",
			tag:      "",
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsKnownAllergen(test.tag))
		})
	}
}

func TestIngredientKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single keyword",
			input:    "skimmed milk powder",
			expected: []string{"en:milk"},
		},
		{
			name:     "case-insensitive match",
			input:    "Whole MILK",
			expected: []string{"en:milk"},
		},
		{
			name:     "additive number range",
			input:    "preservative e224",
			expected: []string{"en:sulphur-dioxide-and-sulphites"},
		},
		{
			name:     "additive number outside range",
			input:    "preservative e229",
			expected: nil,
		},
		{
			name:     "compound name matches both nut patterns",
			input:    "brazil nuts",
			expected: []string{"en:nuts", "en:nuts"},
		},
		{
			name:     "hazelnut matches only its own pattern",
			input:    "hazelnuts",
			expected: []string{"en:nuts"},
		},
		{
			name:     "no whole-word match inside larger word",
			input:    "coconut oil",
			expected: nil,
		},
		{
			name:     "no match",
			input:    "water",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var matched []string
			for _, mapping := range IngredientKeywords {
				if mapping.Pattern.MatchString(test.input) {
					matched = append(matched, mapping.Allergen)
				}
			}
			assert.Equal(t, test.expected, matched)
		})
	}
}

func TestDietaryPreferences(t *testing.T) {
	byName := make(map[string]DietaryPreference, len(DietaryPreferences))
	for _, pref := range DietaryPreferences {
		byName[pref.Name] = pref
	}
	require.Len(t, byName, 4)

	vegan, ok := byName["vegan"]
	require.True(t, ok)
	assert.Contains(t, vegan.Synonyms, "en:vegan")
	assert.Contains(t, vegan.Conflicts, "en:honey")
	assert.Contains(t, vegan.Conflicts, "en:milk")
	assert.NotContains(t, vegan.Conflicts, "en:gluten")

	vegetarian, ok := byName["vegetarian"]
	require.True(t, ok)
	assert.Contains(t, vegetarian.Conflicts, "en:gelatin")
	assert.NotContains(t, vegetarian.Conflicts, "en:milk")

	glutenFree, ok := byName["gluten_free"]
	require.True(t, ok)
	assert.Contains(t, glutenFree.Synonyms, "sans gluten")
	assert.Equal(t, map[string]struct{}{"en:gluten": {}}, glutenFree.Conflicts)

	lactoseFree, ok := byName["lactose_free"]
	require.True(t, ok)
	assert.Contains(t, lactoseFree.Conflicts, "en:lactose")
	assert.Contains(t, lactoseFree.Conflicts, "en:milk")
}
