package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// BoltSink loads rows directly into the graph database. Rows are buffered and
// flushed as batched UNWIND MERGE statements, one statement per node label or
// relationship type.
type BoltSink struct {
	client    *Client
	logger    ectologger.Logger
	batchSize int

	nodes map[string][]map[string]any
	rels  map[relKey][]map[string]any
	rows  int64
}

type relKey struct {
	relType   string
	fromLabel string
	toLabel   string
}

// NewBoltSink creates a sink over an open client. batchSize bounds the number
// of buffered rows before a flush.
func NewBoltSink(client *Client, batchSize int, logger ectologger.Logger) *BoltSink {
	if batchSize < 1 {
		batchSize = 500
	}
	return &BoltSink{
		client:    client,
		logger:    logger,
		batchSize: batchSize,
		nodes:     make(map[string][]map[string]any),
		rels:      make(map[relKey][]map[string]any),
	}
}

// WriteRow buffers one row and flushes when the buffer reaches the batch size.
func (s *BoltSink) WriteRow(ctx context.Context, row Row) error {
	switch row.LineType {
	case LineTypeNode:
		s.nodes[row.Label] = append(s.nodes[row.Label], map[string]any{
			"id":   row.ID,
			"name": row.Name,
		})
	case LineTypeRelationship:
		key := relKey{relType: row.RelationshipType, fromLabel: row.FromLabel, toLabel: row.ToLabel}
		s.rels[key] = append(s.rels[key], map[string]any{
			"from_id": row.FromID,
			"to_id":   row.ToID,
		})
	default:
		return fmt.Errorf("unknown line type %q", row.LineType)
	}

	s.rows++
	if s.rows%int64(s.batchSize) == 0 {
		return s.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered rows in a single transaction. Nodes go first so
// relationship MERGEs always find their endpoints.
func (s *BoltSink) Flush(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "graph.BoltSink.Flush")
	defer span.End()

	if len(s.nodes) == 0 && len(s.rels) == 0 {
		return nil
	}

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for label, batch := range s.nodes {
			cypher := fmt.Sprintf(`
				UNWIND $batch AS props
				MERGE (n:%s {id: props.id})
				SET n.name = props.name
			`, sanitizeLabel(label))
			if _, err := tx.Run(ctx, cypher, map[string]any{"batch": batch}); err != nil {
				return nil, err
			}
		}

		for key, batch := range s.rels {
			cypher := fmt.Sprintf(`
				UNWIND $batch AS props
				MATCH (a:%s {id: props.from_id})
				MATCH (b:%s {id: props.to_id})
				MERGE (a)-[:%s]->(b)
			`, sanitizeLabel(key.fromLabel), sanitizeLabel(key.toLabel), sanitizeLabel(key.relType))
			if _, err := tx.Run(ctx, cypher, map[string]any{"batch": batch}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to flush graph batch: %w", err)
	}

	s.nodes = make(map[string][]map[string]any)
	s.rels = make(map[relKey][]map[string]any)
	return nil
}

// Close flushes any remaining buffered rows. The client is owned by the
// caller and stays open.
func (s *BoltSink) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	s.logger.WithContext(ctx).WithField("rows", s.rows).Info("Closed graph sink")
	return nil
}

// sanitizeLabel ensures the label is safe for Cypher.
func sanitizeLabel(label string) string {
	result := ""
	for _, c := range label {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result += string(c)
		}
	}
	if result == "" {
		return "Entity"
	}
	return result
}
