package ingredients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple comma list",
			input:    "water, sugar, salt",
			expected: []string{"salt", "sugar", "water"},
		},
		{
			name:     "comma inside parentheses does not split",
			input:    "water, flavour (contains: milk, soy)",
			expected: []string{"flavour", "water"},
		},
		{
			name:     "qualifier with percentage inside parentheses",
			input:    "water, flavour (contains: sulphites, 2%)",
			expected: []string{"flavour", "water"},
		},
		{
			name:     "locale prefix dropped",
			input:    "en: wheat flour, fr:sel",
			expected: []string{"sel", "wheat flour"},
		},
		{
			name:     "em-dash footnote dropped",
			input:    "cocoa mass – min 70%, sugar",
			expected: []string{"cocoa mass", "sugar"},
		},
		{
			name:     "parenthesized percentage stripped",
			input:    "hazelnuts (25.5%), milk",
			expected: []string{"hazelnuts", "milk"},
		},
		{
			name:     "bare percentage stripped",
			input:    "tomatoes 80%, onion",
			expected: []string{"onion", "tomatoes"},
		},
		{
			name:     "duplicates collapse",
			input:    "Sugar, sugar, SUGAR",
			expected: []string{"sugar"},
		},
		{
			name:     "unbalanced close paren",
			input:    "water), salt",
			expected: []string{"salt", "water"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := SplitList(test.input)
			if test.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestAllergens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single allergen",
			input:    "skimmed milk",
			expected: []string{"en:milk"},
		},
		{
			name:     "two patterns same allergen collapse",
			input:    "wheat flour",
			expected: []string{"en:gluten"},
		},
		{
			name:     "two distinct allergens",
			input:    "whey powder and soy lecithin",
			expected: []string{"en:milk", "en:soybeans"},
		},
		{
			name:     "additive code",
			input:    "e220",
			expected: []string{"en:sulphur-dioxide-and-sulphites"},
		},
		{
			name:     "no match",
			input:    "water",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Allergens(test.input))
		})
	}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "milk conflicts with vegan and lactose_free",
			input:    "milk powder",
			expected: []string{"lactose_free", "vegan"},
		},
		{
			name:     "fish conflicts with vegan and vegetarian",
			input:    "smoked salmon",
			expected: []string{"vegan", "vegetarian"},
		},
		{
			name:     "wheat conflicts with gluten_free only",
			input:    "wheat starch",
			expected: []string{"gluten_free"},
		},
		{
			name:     "egg conflicts with vegan only",
			input:    "egg yolk",
			expected: []string{"vegan"},
		},
		{
			name:     "no conflicts",
			input:    "water",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Conflicts(test.input))
		})
	}
}
