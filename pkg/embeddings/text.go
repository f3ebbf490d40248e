// Package embeddings turns product records into embedding vectors for
// similarity search.
package embeddings

import (
	"fmt"
	"strings"

	"github.com/yoloeats/foodgraph/pkg/source"
)

// FallbackText is embedded when a record carries no usable fields, so every
// point still gets a vector.
const FallbackText = "product information unavailable"

// BuildText renders a record into the text that gets embedded: name plus the
// category, brand, label and ingredient signals, in a fixed field order.
func BuildText(rec source.Record) string {
	var parts []string

	if name, ok := rec.FirstString("product_name_en", "product_name", "generic_name_en", "generic_name"); ok {
		parts = append(parts, fmt.Sprintf("Product: %s", name))
	}
	if tags := rec.TagValues("categories_tags"); len(tags) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(tags, ", ")))
	}
	if tags := rec.TagValues("brands_tags"); len(tags) > 0 {
		parts = append(parts, fmt.Sprintf("Brands: %s", strings.Join(tags, ", ")))
	}
	if tags := rec.TagValues("labels_tags"); len(tags) > 0 {
		parts = append(parts, fmt.Sprintf("Labels: %s", strings.Join(tags, ", ")))
	}
	if text, ok := rec.FirstString("ingredients_text_en", "ingredients_text"); ok {
		parts = append(parts, fmt.Sprintf("Ingredients: %s", text))
	}

	if len(parts) == 0 {
		return FallbackText
	}
	return strings.Join(parts, " ")
}
