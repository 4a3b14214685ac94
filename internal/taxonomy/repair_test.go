package taxonomy

import (
	"context"
	"testing"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLegacy(t *testing.T, store docstore.Store) {
	t.Helper()
	seedTag(t, store, "a", map[string]any{"name": "A", "sortOrder": 0, "color": "#111111", "createdAt": "2024-01-01T00:00:00Z"})
	seedTag(t, store, "b", map[string]any{"name": "B", "createdAt": "2024-01-02T00:00:00Z"})
	seedTag(t, store, "c", map[string]any{"name": "C", "color": "#333333", "createdAt": "2024-01-03T00:00:00Z"})
	seedPerson(t, store, "p1", "A", "Gone")
	seedPerson(t, store, "p2", "B", "C")
	seedPerson(t, store, "p3", "Gone", "Also Gone")
}

func TestRepairFixesTagsAndReferences(t *testing.T) {
	ctx := context.Background()
	store, r := setup(t)
	seedLegacy(t, store)
	before := store.count()

	res, err := r.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, RepairResult{TagsFixed: 2, PersonnelFixed: 2}, res)
	assert.Equal(t, before+1, store.count(), "repair commits a single batch")

	tags, err := List(ctx, store)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	for _, tag := range tags {
		assert.NotNil(t, tag.SortOrder, tag.Name)
		assert.NotEmpty(t, tag.Color, tag.Name)
	}
	b, err := r.loadTag(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, *b.SortOrder)
	assert.Equal(t, DefaultColor, b.Color)
	c, err := r.loadTag(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, *c.SortOrder)
	assert.Equal(t, "#333333", c.Color)

	assert.Equal(t, []string{"A"}, personTags(t, store, "p1"))
	assert.Equal(t, []string{"B", "C"}, personTags(t, store, "p2"))
	assert.Empty(t, personTags(t, store, "p3"))

	marker, ok, err := r.loadMarker(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, RepairVersion, marker.Version)
	assert.Equal(t, 1, marker.Revision)
	assert.Equal(t, clock, marker.RepairedAt)
}

func TestRepairIdempotent(t *testing.T) {
	ctx := context.Background()
	store, r := setup(t)
	seedLegacy(t, store)

	_, err := r.Repair(ctx)
	require.NoError(t, err)
	after := store.count()

	res, err := r.Repair(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	// A fresh process sees the persisted marker.
	res, err = NewReconciler(store, fixedNow).Repair(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	// Even a forced pass over repaired data writes nothing.
	res, err = NewReconciler(store, fixedNow).Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, after, store.count())
}

func TestRepairNothingToDoWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, r := setup(t)
	_, err := r.Create(ctx, "A", "")
	require.NoError(t, err)
	seedPerson(t, store, "p1", "A")
	before := store.count()

	res, err := r.Repair(ctx)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, before, store.count())

	_, ok, err := r.loadMarker(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no marker without a repair")
}

func TestRepairLosesRaceGracefully(t *testing.T) {
	ctx := context.Background()
	store, _ := setup(t)
	seedLegacy(t, store)

	first := NewReconciler(store, fixedNow)
	second := NewReconciler(store, fixedNow)

	// The other session commits its repair between our read and our commit.
	inner := store.Store
	store.Store = &beforeCommit{Store: inner, hook: func() {
		res, err := NewReconciler(inner, fixedNow).Repair(ctx)
		require.NoError(t, err)
		require.True(t, res.Changed())
	}}

	res, err := second.Repair(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	marker, _, err := first.loadMarker(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, marker.Revision)

	res, err = first.Repair(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestReconcileAfterMarker(t *testing.T) {
	ctx := context.Background()
	store, r := setup(t)
	seedLegacy(t, store)

	_, err := r.Repair(ctx)
	require.NoError(t, err)

	// An out-of-band edit reintroduces a stale reference.
	require.NoError(t, store.CommitBatch(ctx, []docstore.Write{
		docstore.Update("personnel", "p2", map[string]any{"tags": []string{"B", "Stale"}}),
	}))

	res, err := r.Repair(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	res, err = r.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PersonnelFixed)
	assert.Equal(t, []string{"B"}, personTags(t, store, "p2"))

	marker, _, err := r.loadMarker(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, marker.Revision)
}

func TestRepairUsesConfiguredColor(t *testing.T) {
	ctx := context.Background()
	store, _ := setup(t)
	seedLegacy(t, store)

	r := NewReconciler(store, fixedNow).WithDefaultColor("#123456")
	_, err := r.Repair(ctx)
	require.NoError(t, err)

	b, err := r.loadTag(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "#123456", b.Color)
	c, err := r.loadTag(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "#333333", c.Color)
}
