package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/yoloeats/foodgraph/pkg/catalog"
	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// Emitter sequences node and relationship writes to a sink, enforcing the
// one-node-row-per-identity invariant through the ledger. Product nodes are
// the exception: repeated input codes re-emit, by policy.
type Emitter struct {
	sink   RowSink
	ledger *Ledger
	logger ectologger.Logger

	nodeRows int64
	relRows  int64
}

// NewEmitter creates an emitter over the given sink.
func NewEmitter(sink RowSink, logger ectologger.Logger) *Emitter {
	return &Emitter{
		sink:   sink,
		ledger: NewLedger(),
		logger: logger,
	}
}

// WriteCatalog writes the static Allergen and DietaryPreference nodes, once
// each, in catalog order. Called exactly once at run start.
func (e *Emitter) WriteCatalog(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Emitter.WriteCatalog")
	defer span.End()

	for _, allergen := range catalog.Allergens {
		if _, err := e.EmitNode(ctx, allergen, LabelAllergen); err != nil {
			return fmt.Errorf("failed to write allergen catalog: %w", err)
		}
	}
	for _, pref := range catalog.DietaryPreferences {
		if _, err := e.EmitNode(ctx, pref.Name, LabelDietaryPreference); err != nil {
			return fmt.Errorf("failed to write dietary preference catalog: %w", err)
		}
	}

	e.logger.WithContext(ctx).Debug("Wrote catalog nodes")
	return nil
}

// EmitNode writes a node row unless the (label, id) pair was already written
// this run. The id doubles as the node's identity, so the Name column stays
// empty; only Product rows carry a display name. It reports whether this call
// wrote the row, so callers can tie once-per-run emissions to the node's
// first appearance.
func (e *Emitter) EmitNode(ctx context.Context, id, label string) (bool, error) {
	if !e.ledger.MarkWritten(label, id) {
		return false, nil
	}
	if err := e.sink.WriteRow(ctx, NodeRow(id, "", label)); err != nil {
		return false, err
	}
	e.nodeRows++
	return true, nil
}

// EmitProductNode writes a Product node row unconditionally. Repeated codes
// produce repeated rows.
func (e *Emitter) EmitProductNode(ctx context.Context, code, name string) error {
	e.ledger.MarkWritten(LabelProduct, code)
	if err := e.sink.WriteRow(ctx, NodeRow(code, name, LabelProduct)); err != nil {
		return err
	}
	e.nodeRows++
	return nil
}

// EmitRelationship writes a relationship row. Relationships are not deduped
// here; callers dedupe per (source, target) before calling.
func (e *Emitter) EmitRelationship(ctx context.Context, relType, fromID, fromLabel, toID, toLabel string) error {
	if err := e.sink.WriteRow(ctx, RelationshipRow(relType, fromID, fromLabel, toID, toLabel)); err != nil {
		return err
	}
	e.relRows++
	return nil
}

// NodeRows returns the number of node rows written.
func (e *Emitter) NodeRows() int64 { return e.nodeRows }

// RelationshipRows returns the number of relationship rows written.
func (e *Emitter) RelationshipRows() int64 { return e.relRows }
