package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yoloeats/foodgraph/pkg/source"
)

func TestBuildText(t *testing.T) {
	tests := []struct {
		name     string
		rec      source.Record
		expected string
	}{
		{
			name: "all fields",
			rec: source.Record{
				"product_name":     "Choco Bar",
				"categories_tags":  []any{"en:snacks", "en:chocolates"},
				"brands_tags":      []any{"acme"},
				"labels_tags":      []any{"en:organic"},
				"ingredients_text": "cocoa, sugar",
			},
			expected: "Product: Choco Bar Categories: en:snacks, en:chocolates Brands: acme Labels: en:organic Ingredients: cocoa, sugar",
		},
		{
			name: "categories and brands come from the plural document fields",
			rec: source.Record{
				"product_name":  "Choco Bar",
				"category_tags": []any{"en:snacks"},
				"brand_tags":    []any{"acme"},
			},
			expected: "Product: Choco Bar",
		},
		{
			name: "name only",
			rec: source.Record{
				"product_name_en": "Choco Bar",
			},
			expected: "Product: Choco Bar",
		},
		{
			name: "english name preferred",
			rec: source.Record{
				"product_name":    "Barre Choco",
				"product_name_en": "Choco Bar",
			},
			expected: "Product: Choco Bar",
		},
		{
			name:     "no usable fields",
			rec:      source.Record{"code": "123"},
			expected: FallbackText,
		},
		{
			name:     "empty record",
			rec:      source.Record{},
			expected: FallbackText,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, BuildText(test.rec))
		})
	}
}
