package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIngredient(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and trims",
			input:    "  Whole Milk  ",
			expected: "whole milk",
		},
		{
			name:     "folds accents",
			input:    "Crème Fraîche",
			expected: "creme fraiche",
		},
		{
			name:     "removes bracketed qualifiers",
			input:    "flavour (contains: milk)",
			expected: "flavour",
		},
		{
			name:     "removes square brackets",
			input:    "emulsifier [soy lecithin]",
			expected: "emulsifier",
		},
		{
			name:     "strips punctuation but keeps hyphens",
			input:    "semi-skimmed milk!",
			expected: "semi-skimmed milk",
		},
		{
			name:     "collapses interior whitespace",
			input:    "palm \t oil",
			expected: "palm oil",
		},
		{
			name:     "empty after cleaning",
			input:    "(**)",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, NormalizeIngredient(test.input))
		})
	}
}

func TestNormalizeIngredientIdempotent(t *testing.T) {
	inputs := []string{
		"Crème Fraîche (30%)",
		"flavour (contains: milk)",
		"semi-skimmed milk!",
		"water",
	}
	for _, input := range inputs {
		once := NormalizeIngredient(input)
		assert.Equal(t, once, NormalizeIngredient(once))
	}
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "echalote", Transliterate("échalote"))
	assert.Equal(t, "acucar", Transliterate("açúcar"))
	assert.Equal(t, "plain ascii", Transliterate("plain ascii"))
}

func TestCleanTag(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		expected   string
		expectedOK bool
	}{
		{
			name:       "string tag",
			input:      "en:Vegan",
			expected:   "en:vegan",
			expectedOK: true,
		},
		{
			name:       "surrounding whitespace",
			input:      "  en:milk ",
			expected:   "en:milk",
			expectedOK: true,
		},
		{
			name:       "blank string",
			input:      "   ",
			expectedOK: false,
		},
		{
			name:       "non-string element",
			input:      42,
			expectedOK: false,
		},
		{
			name:       "nil element",
			input:      nil,
			expectedOK: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := CleanTag(test.input)
			assert.Equal(t, test.expectedOK, ok)
			assert.Equal(t, test.expected, got)
		})
	}
}
