package vector

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoloeats/foodgraph/pkg/source"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeProvider struct {
	records []source.Record
}

func (p *fakeProvider) Each(ctx context.Context, fn func(ctx context.Context, rec source.Record) error) error {
	for _, rec := range p.records {
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (p *fakeProvider) Close(_ context.Context) error { return nil }

// fakeEngine returns a fixed-size vector per text.
type fakeEngine struct {
	calls int
	fail  bool
}

func (e *fakeEngine) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.fail {
		return nil, fmt.Errorf("embed unavailable")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 2, 3}
	}
	return vectors, nil
}

func (e *fakeEngine) Close() error { return nil }

type fakeStore struct {
	ensured bool
	fail    bool
	batches [][]Point
}

func (s *fakeStore) EnsureCollection(_ context.Context) error {
	s.ensured = true
	return nil
}

func (s *fakeStore) Upsert(_ context.Context, points []Point) error {
	if s.fail {
		return fmt.Errorf("upsert unavailable")
	}
	s.batches = append(s.batches, points)
	return nil
}

func record(code string) source.Record {
	return source.Record{
		"_id":             primitive.NewObjectID(),
		"code":            code,
		"product_name":    "Product " + code,
		"categories_tags": []any{"en:snacks"},
		"brands_tags":     []any{"acme"},
		"labels_tags":     []any{"en:organic"},
	}
}

func TestVectorizerRun(t *testing.T) {
	provider := &fakeProvider{records: []source.Record{
		record("1"), record("2"), record("3"),
	}}
	engine := &fakeEngine{}
	store := &fakeStore{}

	vectorizer := NewVectorizer(provider, engine, store, 2, testLogger())
	stats, err := vectorizer.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, store.ensured)
	assert.Equal(t, int64(3), stats.Points)
	assert.Equal(t, int64(0), stats.Skipped)

	// Two records fill the first batch, the final flush carries the third.
	require.Len(t, store.batches, 2)
	assert.Len(t, store.batches[0], 2)
	assert.Len(t, store.batches[1], 1)
	assert.Equal(t, 2, engine.calls)

	point := store.batches[0][0]
	assert.Equal(t, []float32{1, 2, 3}, point.Vector)
	assert.Equal(t, "1", point.Payload["code"])
	assert.Equal(t, []any{"en:organic"}, point.Payload["labels_tags"])

	// Category and brand tags land under the payload's singular key names.
	assert.Equal(t, []any{"en:snacks"}, point.Payload["category_tags"])
	assert.Equal(t, []any{"acme"}, point.Payload["brand_tags"])
	assert.NotContains(t, point.Payload, "categories_tags")
	assert.NotContains(t, point.Payload, "brands_tags")
}

func TestVectorizerSkipsRecordsWithoutID(t *testing.T) {
	provider := &fakeProvider{records: []source.Record{
		record("1"),
		{"code": "2", "product_name": "No ID"},
	}}
	store := &fakeStore{}

	vectorizer := NewVectorizer(provider, &fakeEngine{}, store, 10, testLogger())
	stats, err := vectorizer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Points)
	assert.Equal(t, int64(1), stats.Skipped)
}

func TestVectorizerSkipsBatchOnEmbedFailure(t *testing.T) {
	provider := &fakeProvider{records: []source.Record{record("1"), record("2")}}
	store := &fakeStore{}

	vectorizer := NewVectorizer(provider, &fakeEngine{fail: true}, store, 10, testLogger())
	stats, err := vectorizer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Points)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Empty(t, store.batches)
}

func TestVectorizerAbortsOnUpsertFailure(t *testing.T) {
	provider := &fakeProvider{records: []source.Record{record("1")}}
	store := &fakeStore{fail: true}

	vectorizer := NewVectorizer(provider, &fakeEngine{}, store, 10, testLogger())
	_, err := vectorizer.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.batches)
}

func TestPointIDStable(t *testing.T) {
	oid := primitive.NewObjectID()
	rec := source.Record{"_id": oid}

	first := PointID(rec)
	second := PointID(rec)
	assert.Equal(t, first, second)

	other := PointID(source.Record{"_id": primitive.NewObjectID()})
	assert.NotEqual(t, first, other)
}
