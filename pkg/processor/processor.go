// Package processor drives the relationalization pipeline: it pulls product
// records from a source, derives ingredient, allergen and dietary facts, and
// emits the resulting graph rows through an emitter.
package processor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Gobusters/ectologger"

	"github.com/yoloeats/foodgraph/pkg/events"
	"github.com/yoloeats/foodgraph/pkg/graph"
	"github.com/yoloeats/foodgraph/pkg/ingredients"
	"github.com/yoloeats/foodgraph/pkg/source"
	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// Stats are the counters of one pipeline run.
type Stats struct {
	Products         int64
	Rejected         int64
	NodeRows         int64
	RelationshipRows int64
}

// Processor transforms product records into graph rows. Records are processed
// sequentially; the emitter's ledger is the only state carried across them.
type Processor struct {
	provider source.Provider
	emitter  *graph.Emitter
	events   *events.Emitter
	logger   ectologger.Logger

	products int64
	rejected int64
}

// New creates a processor. The events emitter may be nil.
func New(provider source.Provider, emitter *graph.Emitter, eventEmitter *events.Emitter, logger ectologger.Logger) *Processor {
	return &Processor{
		provider: provider,
		emitter:  emitter,
		events:   eventEmitter,
		logger:   logger,
	}
}

// Run writes the catalog nodes, then streams every record through the
// pipeline. The first sink error aborts the run; partial output must be
// discarded by the caller.
func (p *Processor) Run(ctx context.Context) (Stats, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Run")
	defer span.End()

	if err := p.emitter.WriteCatalog(ctx); err != nil {
		return p.stats(), err
	}

	err := p.provider.Each(ctx, p.processRecord)
	stats := p.stats()
	if err != nil {
		return stats, fmt.Errorf("pipeline run failed: %w", err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"products":          stats.Products,
		"rejected":          stats.Rejected,
		"node_rows":         stats.NodeRows,
		"relationship_rows": stats.RelationshipRows,
	}).Info("Pipeline run complete")
	return stats, nil
}

func (p *Processor) stats() Stats {
	return Stats{
		Products:         atomic.LoadInt64(&p.products),
		Rejected:         atomic.LoadInt64(&p.rejected),
		NodeRows:         p.emitter.NodeRows(),
		RelationshipRows: p.emitter.RelationshipRows(),
	}
}

// Rejected returns the number of records dropped so far.
func (p *Processor) Rejected() int64 {
	return atomic.LoadInt64(&p.rejected)
}

// Products returns the number of records processed so far.
func (p *Processor) Products() int64 {
	return atomic.LoadInt64(&p.products)
}

func (p *Processor) processRecord(ctx context.Context, rec source.Record) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.processRecord")
	defer span.End()

	code, ok := rec.String("code")
	if !ok {
		atomic.AddInt64(&p.rejected, 1)
		p.events.EmitRecordRejected(ctx, "missing or unusable product code")
		p.logger.WithContext(ctx).Debug("Rejected record without usable code")
		return nil
	}

	if err := p.emitter.EmitProductNode(ctx, code, p.displayName(rec, code)); err != nil {
		return err
	}

	derived, err := p.processIngredients(ctx, rec, code)
	if err != nil {
		return err
	}

	if err := p.reconcileAllergens(ctx, rec, code, derived); err != nil {
		return err
	}
	if err := p.reconcileTraces(ctx, rec, code); err != nil {
		return err
	}
	if err := p.reconcileLabels(ctx, rec, code); err != nil {
		return err
	}

	atomic.AddInt64(&p.products, 1)
	return nil
}

// displayName picks the product's display name from the four name fields,
// most specific first, falling back to a code-derived placeholder.
func (p *Processor) displayName(rec source.Record, code string) string {
	if name, ok := rec.FirstString("product_name_en", "product_name", "generic_name_en", "generic_name"); ok {
		return name
	}
	return "Product " + code
}

// processIngredients emits the ingredient subgraph for one record and
// returns the set of allergens the ingredients imply.
func (p *Processor) processIngredients(ctx context.Context, rec source.Record, code string) (map[string]struct{}, error) {
	text, ok := rec.FirstString("ingredients_text_en", "ingredients_text")
	derived := make(map[string]struct{})
	if !ok {
		return derived, nil
	}

	for _, name := range ingredients.SplitList(text) {
		first, err := p.emitter.EmitNode(ctx, name, graph.LabelIngredient)
		if err != nil {
			return nil, err
		}
		if err := p.emitter.EmitRelationship(ctx, graph.RelHasIngredient, code, graph.LabelProduct, name, graph.LabelIngredient); err != nil {
			return nil, err
		}

		// Classification edges are a property of the ingredient, not the
		// product, so they ride along with the node's first appearance.
		for _, allergen := range ingredients.Allergens(name) {
			derived[allergen] = struct{}{}
			if !first {
				continue
			}
			if err := p.emitter.EmitRelationship(ctx, graph.RelIsAllergen, name, graph.LabelIngredient, allergen, graph.LabelAllergen); err != nil {
				return nil, err
			}
		}

		if first {
			for _, pref := range ingredients.Conflicts(name) {
				if err := p.emitter.EmitRelationship(ctx, graph.RelConflictsWithDiet, name, graph.LabelIngredient, pref, graph.LabelDietaryPreference); err != nil {
					return nil, err
				}
			}
		}
	}
	return derived, nil
}
