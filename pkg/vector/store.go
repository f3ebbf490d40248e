// Package vector maintains the product collection in Qdrant.
package vector

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/qdrant/go-client/qdrant"

	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// Payload fields carrying a keyword index for filtered search.
var indexedFields = []string{"code", "category_tags", "brand_tags", "traces_tags", "labels_tags"}

// StoreConfig holds the Qdrant connection and collection settings.
type StoreConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimension  uint64
}

// Point is one product vector with its searchable payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Store wraps the Qdrant client for the product collection.
type Store struct {
	client     *qdrant.Client
	logger     ectologger.Logger
	collection string
	dimension  uint64
}

// NewStore connects to Qdrant.
func NewStore(cfg StoreConfig, logger ectologger.Logger) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Store{
		client:     client,
		logger:     logger,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}, nil
}

// EnsureCollection creates the collection and its payload indexes if they do
// not exist yet.
func (s *Store) EnsureCollection(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "vector.Store.EnsureCollection")
	defer span.End()

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	for _, field := range indexedFields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create payload index on %s: %w", field, err)
		}
	}

	s.logger.WithContext(ctx).WithField("collection", s.collection).Info("Created vector collection")
	return nil
}

// Upsert writes a batch of points, waiting for the write to be applied.
func (s *Store) Upsert(ctx context.Context, points []Point) error {
	ctx, span := tracing.StartSpan(ctx, "vector.Store.Upsert")
	defer span.End()

	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// Close closes the client connection.
func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}
