package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTag(t *testing.T, st *studio, name string) taxonomy.Tag {
	t.Helper()
	tag, err := st.tags.Create(context.Background(), name, "")
	require.NoError(t, err)
	return tag
}

func tagsOf(t *testing.T, st *studio, personID string) []string {
	t.Helper()
	p, err := personnel.Get(context.Background(), st.store, personID)
	require.NoError(t, err)
	return p.Tags
}

func TestTagsAddAndList(t *testing.T) {
	st := newTestStudioWith(t, &config.Config{Timezone: "UTC", TagColor: "#123456"})

	cmd, out := newTestCmd()
	require.NoError(t, runTagsAdd(cmd, st, "Gelin Saçı", ""))
	assert.Contains(t, out.String(), "tag 'Gelin Saçı' created")
	assert.Contains(t, out.String(), "gelin-saci")

	tag, err := st.findTag(cmd, "gelin-saci")
	require.NoError(t, err)
	assert.Equal(t, "#123456", tag.Color)

	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"Gelin Saçı"}, Active: true})

	cmd, out = newTestCmd()
	require.NoError(t, runTagsList(cmd, st))
	assert.Contains(t, out.String(), "Gelin Saçı")
	assert.Contains(t, out.String(), "gelin-saci")
}

func TestTagsAddDuplicate(t *testing.T) {
	st := newTestStudio(t)
	addTag(t, st, "VIP")
	cmd, _ := newTestCmd()
	assert.ErrorIs(t, runTagsAdd(cmd, st, "VIP", ""), taxonomy.ErrDuplicateName)
}

func TestTagsListEmpty(t *testing.T) {
	st := newTestStudio(t)
	cmd, out := newTestCmd()
	require.NoError(t, runTagsList(cmd, st))
	assert.Contains(t, out.String(), "No tags found.")
}

func TestTagsListRunsRepairOnce(t *testing.T) {
	st := newTestStudio(t)
	ctx := context.Background()
	require.NoError(t, st.store.CommitBatch(ctx, []docstore.Write{
		docstore.Set(taxonomy.Collection, "legacy", map[string]any{"name": "Legacy"}),
	}))
	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"Legacy", "Gone"}, Active: true})

	cmd, out := newTestCmd()
	require.NoError(t, runTagsList(cmd, st))
	assert.Contains(t, out.String(), "repaired 1 tag(s) and 1 personnel record(s)")
	assert.Equal(t, []string{"Legacy"}, tagsOf(t, st, "Ayşe"))

	cmd, out = newTestCmd()
	require.NoError(t, runTagsList(cmd, st))
	assert.NotContains(t, out.String(), "repaired")
}

func TestTagsRename(t *testing.T) {
	st := newTestStudio(t)
	addTag(t, st, "A")
	addTag(t, st, "B")
	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"A", "B"}, Active: true})

	cmd, out := newTestCmd()
	require.NoError(t, runTagsRename(cmd, st, "A", "A2"))
	assert.Contains(t, out.String(), "tag 'A' renamed to 'A2' on 1 staff record(s)")
	assert.Equal(t, []string{"A2", "B"}, tagsOf(t, st, "Ayşe"))

	cmd, _ = newTestCmd()
	assert.ErrorIs(t, runTagsRename(cmd, st, "A2", "B"), taxonomy.ErrDuplicateName)
	assert.EqualError(t, runTagsRename(cmd, st, "missing", "C"), "tag 'missing' not found")
}

func TestTagsDelete(t *testing.T) {
	st := newTestStudio(t)
	addTag(t, st, "A")
	b := addTag(t, st, "B")
	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"A", "B"}, Active: true})
	addPerson(t, st, personnel.Personnel{Name: "Elif", Tags: []string{"B"}, Active: true})

	var asked string
	confirm := func(prompt string) (bool, error) { asked = prompt; return true, nil }

	cmd, out := newTestCmd()
	require.NoError(t, runTagsDelete(cmd, st, "B", testKit(confirm)))
	assert.Equal(t, "Delete tag 'B' and remove it from 2 staff record(s)?", asked)
	assert.Contains(t, out.String(), "tag 'B' deleted, removed from 2 staff record(s)")

	assert.Equal(t, []string{"A"}, tagsOf(t, st, "Ayşe"))
	assert.Empty(t, tagsOf(t, st, "Elif"))
	_, err := st.store.Get(context.Background(), taxonomy.Collection, b.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestTagsDeleteSelect(t *testing.T) {
	st := newTestStudio(t)
	addTag(t, st, "A")
	addTag(t, st, "B")

	kit := testKit(AlwaysYes())
	kit.Select = func(_ string, options []string) (int, error) {
		assert.Equal(t, []string{"A", "B"}, options)
		return 1, nil
	}

	cmd, out := newTestCmd()
	require.NoError(t, runTagsDelete(cmd, st, "", kit))
	assert.Contains(t, out.String(), "tag 'B' deleted")
}

func TestTagsDeleteDeclined(t *testing.T) {
	st := newTestStudio(t)
	addTag(t, st, "A")

	decline := func(_ string) (bool, error) { return false, nil }
	cmd, _ := newTestCmd()
	assert.ErrorIs(t, runTagsDelete(cmd, st, "A", testKit(decline)), errAborted)

	_, err := st.findTag(cmd, "A")
	assert.NoError(t, err)
}

func TestTagsRepair(t *testing.T) {
	st := newTestStudio(t)
	ctx := context.Background()
	addTag(t, st, "A")

	cmd, out := newTestCmd()
	require.NoError(t, runTagsRepair(cmd, st, false))
	assert.Contains(t, out.String(), "Nothing to repair.")

	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"A", "Stale"}, Active: true})
	cmd, out = newTestCmd()
	require.NoError(t, runTagsRepair(cmd, st, false))
	assert.Contains(t, out.String(), "Tags already repaired")

	cmd, out = newTestCmd()
	require.NoError(t, runTagsRepair(cmd, st, true))
	assert.Contains(t, out.String(), "repaired 0 tag(s) and 1 staff record(s)")
	assert.Equal(t, []string{"A"}, tagsOf(t, st, "Ayşe"))

	_, err := st.store.Get(ctx, taxonomy.MarkerCollection, taxonomy.MarkerID)
	assert.NoError(t, err)
}

func TestTagsResume(t *testing.T) {
	st := newTestStudio(t)
	require.NoError(t, st.store.CommitBatch(context.Background(), []docstore.Write{
		docstore.Set(taxonomy.Collection, "b", map[string]any{"name": "B", "pendingDelete": true}),
	}))
	addPerson(t, st, personnel.Personnel{Name: "Ayşe", Tags: []string{"B"}, Active: true})

	cmd, out := newTestCmd()
	require.NoError(t, runTagsResume(cmd, st))
	assert.Contains(t, out.String(), "tag 'B' deleted")
	assert.Empty(t, tagsOf(t, st, "Ayşe"))

	cmd, out = newTestCmd()
	require.NoError(t, runTagsResume(cmd, st))
	assert.Contains(t, out.String(), "No interrupted deletes.")
}

// failingCommits rejects every batch while fail is set.
type failingCommits struct {
	docstore.Store
	fail bool
}

func (f *failingCommits) CommitBatch(ctx context.Context, writes []docstore.Write) error {
	if f.fail {
		return errors.New("disk I/O error")
	}
	return f.Store.CommitBatch(ctx, writes)
}

func TestTagsListSurvivesFailedRepair(t *testing.T) {
	base := newTestStudio(t)
	ctx := context.Background()
	require.NoError(t, base.store.CommitBatch(ctx, []docstore.Write{
		docstore.Set(taxonomy.Collection, "legacy", map[string]any{"name": "Legacy"}),
	}))

	store := &failingCommits{Store: base.store, fail: true}
	st, err := newStudio(base.cfg, store, base.now)
	require.NoError(t, err)

	cmd, out := newTestCmd()
	errOut := new(bytes.Buffer)
	cmd.SetErr(errOut)
	require.NoError(t, runTagsList(cmd, st))
	assert.Contains(t, out.String(), "Legacy")
	assert.NotContains(t, out.String(), "repaired")
	assert.Contains(t, errOut.String(), "tag repair failed")

	// The next command retries the repair.
	store.fail = false
	cmd, out = newTestCmd()
	require.NoError(t, runTagsList(cmd, st))
	assert.Contains(t, out.String(), "repaired 1 tag(s) and 0 personnel record(s)")
}
