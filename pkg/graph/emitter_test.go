package graph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// memorySink collects rows in memory for assertions.
type memorySink struct {
	rows   []Row
	closed bool
}

func (s *memorySink) WriteRow(_ context.Context, row Row) error {
	s.rows = append(s.rows, row)
	return nil
}

func (s *memorySink) Close(_ context.Context) error {
	s.closed = true
	return nil
}

func TestEmitterWriteCatalog(t *testing.T) {
	sink := &memorySink{}
	emitter := NewEmitter(sink, testLogger())

	err := emitter.WriteCatalog(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.rows, 18)
	assert.Equal(t, "en:milk", sink.rows[0].ID)
	assert.Empty(t, sink.rows[0].Name)
	assert.Equal(t, LabelAllergen, sink.rows[0].Label)
	assert.Equal(t, "en:lupin", sink.rows[13].ID)
	assert.Equal(t, "vegan", sink.rows[14].ID)
	assert.Equal(t, LabelDietaryPreference, sink.rows[14].Label)
	assert.Equal(t, "lactose_free", sink.rows[17].ID)

	// A second call is a no-op thanks to the ledger.
	err = emitter.WriteCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, sink.rows, 18)
}

func TestEmitterNodeDedup(t *testing.T) {
	sink := &memorySink{}
	emitter := NewEmitter(sink, testLogger())
	ctx := context.Background()

	first, err := emitter.EmitNode(ctx, "milk", LabelIngredient)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = emitter.EmitNode(ctx, "milk", LabelIngredient)
	require.NoError(t, err)
	assert.False(t, first)

	first, err = emitter.EmitNode(ctx, "salt", LabelIngredient)
	require.NoError(t, err)
	assert.True(t, first)

	assert.Len(t, sink.rows, 2)
	assert.Empty(t, sink.rows[0].Name)
	assert.Equal(t, int64(2), emitter.NodeRows())
}

func TestEmitterSameIDDifferentLabels(t *testing.T) {
	sink := &memorySink{}
	emitter := NewEmitter(sink, testLogger())
	ctx := context.Background()

	_, err := emitter.EmitNode(ctx, "en:milk", LabelAllergen)
	require.NoError(t, err)
	first, err := emitter.EmitNode(ctx, "en:milk", LabelIngredient)
	require.NoError(t, err)
	assert.True(t, first)

	assert.Len(t, sink.rows, 2)
}

func TestEmitterProductNodesRepeat(t *testing.T) {
	sink := &memorySink{}
	emitter := NewEmitter(sink, testLogger())
	ctx := context.Background()

	require.NoError(t, emitter.EmitProductNode(ctx, "123", "Cookie"))
	require.NoError(t, emitter.EmitProductNode(ctx, "123", "Cookie"))

	assert.Len(t, sink.rows, 2)
}

func TestEmitterRelationshipRow(t *testing.T) {
	sink := &memorySink{}
	emitter := NewEmitter(sink, testLogger())

	err := emitter.EmitRelationship(context.Background(), RelHasIngredient, "123", LabelProduct, "milk", LabelIngredient)
	require.NoError(t, err)

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	assert.Equal(t, LineTypeRelationship, row.LineType)
	assert.Equal(t, RelHasIngredient, row.RelationshipType)
	assert.Equal(t, "123", row.FromID)
	assert.Equal(t, LabelProduct, row.FromLabel)
	assert.Equal(t, "milk", row.ToID)
	assert.Equal(t, LabelIngredient, row.ToLabel)
	assert.Empty(t, row.ID)
	assert.Empty(t, row.Name)
	assert.Equal(t, int64(1), emitter.RelationshipRows())
}

func TestTSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	sink, err := NewTSVSink(path, testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.WriteRow(ctx, NodeRow("123", "Cookie", LabelProduct)))
	require.NoError(t, sink.WriteRow(ctx, RelationshipRow(RelHasIngredient, "123", LabelProduct, "milk", LabelIngredient)))
	require.NoError(t, sink.Close(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header, "\t"), lines[0])
	assert.Equal(t, "Node\t123\tCookie\tProduct\t\t\t\t\t", lines[1])
	assert.Equal(t, "Relationship\t\t\t\tHAS_INGREDIENT\t123\tProduct\tmilk\tIngredient", lines[2])
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "Product", sanitizeLabel("Product"))
	assert.Equal(t, "HAS_INGREDIENT", sanitizeLabel("HAS_INGREDIENT"))
	assert.Equal(t, "Drop", sanitizeLabel("Drop;--"))
	assert.Equal(t, "Entity", sanitizeLabel("');--"))
}
