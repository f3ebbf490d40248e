package processor

import (
	"context"
	"fmt"

	"github.com/yoloeats/foodgraph/pkg/catalog"
	"github.com/yoloeats/foodgraph/pkg/graph"
	"github.com/yoloeats/foodgraph/pkg/source"
)

// reconcileAllergens handles explicit allergen tags. Tags outside the
// 14-allergen catalog are ignored. A tag already explained by an ingredient
// needs no action; an unexplained one gets a proxy ingredient scoped to this
// product so the allergen is still reachable from it.
func (p *Processor) reconcileAllergens(ctx context.Context, rec source.Record, code string, derived map[string]struct{}) error {
	seen := make(map[string]struct{})
	for _, tag := range rec.TagValues("allergens_tags") {
		if !catalog.IsKnownAllergen(tag) {
			continue
		}
		if _, ok := derived[tag]; ok {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		proxy := fmt.Sprintf("%s_source_for_%s", tag, code)
		if _, err := p.emitter.EmitNode(ctx, proxy, graph.LabelIngredient); err != nil {
			return err
		}
		if err := p.emitter.EmitRelationship(ctx, graph.RelHasIngredient, code, graph.LabelProduct, proxy, graph.LabelIngredient); err != nil {
			return err
		}
		if err := p.emitter.EmitRelationship(ctx, graph.RelIsAllergen, proxy, graph.LabelIngredient, tag, graph.LabelAllergen); err != nil {
			return err
		}
	}
	return nil
}

// reconcileTraces links the product straight to each catalog allergen named
// in its trace tags. No ingredient or proxy is involved.
func (p *Processor) reconcileTraces(ctx context.Context, rec source.Record, code string) error {
	seen := make(map[string]struct{})
	for _, tag := range rec.TagValues("traces_tags") {
		if !catalog.IsKnownAllergen(tag) {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		if err := p.emitter.EmitRelationship(ctx, graph.RelMayContainAllergen, code, graph.LabelProduct, tag, graph.LabelAllergen); err != nil {
			return err
		}
	}
	return nil
}

// reconcileLabels matches label tags against each preference's synonym set.
// Suitability is taken from the label at face value; it is not cross-checked
// against the ingredient-derived conflicts, so a mislabeled product keeps
// its claimed suitability.
func (p *Processor) reconcileLabels(ctx context.Context, rec source.Record, code string) error {
	tags := rec.TagValues("labels_tags")
	if len(tags) == 0 {
		return nil
	}

	for _, pref := range catalog.DietaryPreferences {
		suitable := false
		for _, tag := range tags {
			if _, ok := pref.Synonyms[tag]; ok {
				suitable = true
				break
			}
		}
		if !suitable {
			continue
		}

		if err := p.emitter.EmitRelationship(ctx, graph.RelIsSuitableFor, code, graph.LabelProduct, pref.Name, graph.LabelDietaryPreference); err != nil {
			return err
		}
	}
	return nil
}
