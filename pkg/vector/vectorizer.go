package vector

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/yoloeats/foodgraph/pkg/embeddings"
	"github.com/yoloeats/foodgraph/pkg/source"
	"github.com/yoloeats/foodgraph/pkg/tracing"
)

// VectorStore receives the vectorizer's output batches.
type VectorStore interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, points []Point) error
}

// VectorizerStats are the counters of one vectorizer run.
type VectorizerStats struct {
	Points  int64
	Skipped int64
}

// Vectorizer embeds product records and upserts them into the vector store
// in batches.
type Vectorizer struct {
	provider  source.Provider
	engine    embeddings.Engine
	store     VectorStore
	logger    ectologger.Logger
	batchSize int
}

// NewVectorizer creates a vectorizer. batchSize bounds both the embedding
// call and the upsert.
func NewVectorizer(provider source.Provider, engine embeddings.Engine, store VectorStore, batchSize int, logger ectologger.Logger) *Vectorizer {
	if batchSize < 1 {
		batchSize = 100
	}
	return &Vectorizer{
		provider:  provider,
		engine:    engine,
		store:     store,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Run ensures the collection exists, then embeds and upserts every record.
// Records without a document id are counted and skipped, as are batches whose
// embedding call fails; an upsert failure aborts the run.
func (v *Vectorizer) Run(ctx context.Context) (VectorizerStats, error) {
	ctx, span := tracing.StartSpan(ctx, "vector.Vectorizer.Run")
	defer span.End()

	var stats VectorizerStats
	if err := v.store.EnsureCollection(ctx); err != nil {
		return stats, err
	}

	var batch []source.Record
	err := v.provider.Each(ctx, func(ctx context.Context, rec source.Record) error {
		if _, ok := rec.DocumentID(); !ok {
			stats.Skipped++
			return nil
		}

		batch = append(batch, rec)
		if len(batch) < v.batchSize {
			return nil
		}
		if err := v.flush(ctx, batch, &stats); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("vectorizer run failed: %w", err)
	}

	if err := v.flush(ctx, batch, &stats); err != nil {
		return stats, fmt.Errorf("vectorizer run failed: %w", err)
	}

	v.logger.WithContext(ctx).WithFields(map[string]any{
		"points":  stats.Points,
		"skipped": stats.Skipped,
	}).Info("Vectorizer run complete")
	return stats, nil
}

func (v *Vectorizer) flush(ctx context.Context, batch []source.Record, stats *VectorizerStats) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, rec := range batch {
		texts[i] = embeddings.BuildText(rec)
	}

	vectors, err := v.engine.EmbedBatch(ctx, texts)
	if err != nil {
		v.logger.WithContext(ctx).WithError(err).WithField("records", len(batch)).Error("Embedding failed, skipping batch")
		stats.Skipped += int64(len(batch))
		return nil
	}
	if len(vectors) != len(batch) {
		v.logger.WithContext(ctx).WithError(fmt.Errorf("expected %d vectors, got %d", len(batch), len(vectors))).Error("Embedding returned a partial batch, skipping it")
		stats.Skipped += int64(len(batch))
		return nil
	}

	points := make([]Point, len(batch))
	for i, rec := range batch {
		points[i] = Point{
			ID:      PointID(rec),
			Vector:  vectors[i],
			Payload: payload(rec),
		}
	}
	if err := v.store.Upsert(ctx, points); err != nil {
		return err
	}

	stats.Points += int64(len(points))
	return nil
}

// PointID derives a stable point id from the record's upstream document id,
// so re-runs overwrite instead of duplicating.
func PointID(rec source.Record) string {
	docID, _ := rec.DocumentID()
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(docID)).String()
}

// payload builds the searchable payload for one record.
func payload(rec source.Record) map[string]any {
	p := make(map[string]any)
	if code, ok := rec.String("code"); ok {
		p["code"] = code
	}
	if name, ok := rec.FirstString("product_name_en", "product_name", "generic_name_en", "generic_name"); ok {
		p["name"] = name
	}
	// Tag fields keep their historical payload names even where the source
	// documents use a different key.
	tagFields := []struct {
		source  string
		payload string
	}{
		{"categories_tags", "category_tags"},
		{"brands_tags", "brand_tags"},
		{"traces_tags", "traces_tags"},
		{"labels_tags", "labels_tags"},
	}
	for _, field := range tagFields {
		tags := rec.TagValues(field.source)
		if len(tags) == 0 {
			continue
		}
		values := make([]any, len(tags))
		for i, tag := range tags {
			values[i] = tag
		}
		p[field.payload] = values
	}
	return p
}
