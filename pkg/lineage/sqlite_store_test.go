package lineage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credence-labs/credence/pkg/compliance"
	"github.com/credence-labs/credence/pkg/opinion"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteStore(db, 0.5)
	require.NoError(t, err)
	return store
}

func TestSQLiteStore_NodeRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	recorded, err := compliance.New(0.9, 0.02, 0.08, 0.6)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNode(ctx, "raw", recorded, false))

	got, err := store.ErasureOpinion(ctx, "raw")
	require.NoError(t, err)
	assert.True(t, got.Equal(recorded.Opinion), "got %v, want %v", got, recorded)
}

func TestSQLiteStore_UnknownNodeIsVacuous(t *testing.T) {
	store := newSQLiteStore(t)

	got, err := store.ErasureOpinion(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.True(t, got.Equal(compliance.Vacuous(0.5).Opinion), "got %v", got)
}

func TestSQLiteStore_UpsertOverwrites(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	first, err := compliance.New(0.5, 0.3, 0.2, 0.5)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNode(ctx, "raw", first, false))

	second, err := compliance.New(0.95, 0.01, 0.04, 0.5)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNode(ctx, "raw", second, true))

	got, err := store.ErasureOpinion(ctx, "raw")
	require.NoError(t, err)
	assert.True(t, got.Equal(second.Opinion), "got %v, want the second write %v", got, second)

	exempt, err := store.ExemptNodes(ctx)
	require.NoError(t, err)
	assert.True(t, exempt["raw"])
}

func TestSQLiteStore_TransitiveClosureAndScope(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	for _, edge := range [][2]string{
		{"raw", "features"},
		{"raw", "archive"},
		{"features", "model"},
	} {
		require.NoError(t, store.AddEdge(ctx, edge[0], edge[1]))
	}
	archiveHold, err := compliance.New(0.5, 0.2, 0.3, 0.5)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNode(ctx, "archive", archiveHold, true))

	descendants, err := store.Descendants(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "features", "model"}, descendants)

	ancestors, err := store.Ancestors(ctx, "model")
	require.NoError(t, err)
	assert.Equal(t, []string{"features", "raw"}, ancestors)

	scope, err := store.Scope(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, []string{"features", "model", "raw"}, scope,
		"the exempt archive node must stay out of the erasure scope")
}

func TestSQLiteStore_DuplicateEdgeIsIdempotent(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEdge(ctx, "raw", "features"))
	require.NoError(t, store.AddEdge(ctx, "raw", "features"))

	descendants, err := store.Descendants(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, []string{"features"}, descendants)
}

func TestSQLiteStore_RejectsInvalidOpinion(t *testing.T) {
	store := newSQLiteStore(t)

	bad := compliance.FromOpinion(opinion.Opinion{Belief: 0.9, Disbelief: 0.9, Uncertainty: 0.9, BaseRate: 0.5})
	err := store.UpsertNode(context.Background(), "raw", bad, false)
	assert.Error(t, err)
}
