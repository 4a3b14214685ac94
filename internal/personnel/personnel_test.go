package personnel

import (
	"context"
	"testing"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHired(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"valid", "2018-03-01", true},
		{"padded", " 2018-03-01 ", true},
		{"empty", "", false},
		{"malformed", "01/03/2018", false},
		{"impossible", "2018-02-30", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Personnel{HireDate: tt.in}.Hired()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	p, err := Add(ctx, store, Personnel{Name: "  Zeynep ", HireDate: "2020-05-04", Role: "makeup", Active: true})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Zeynep", p.Name)

	got, err := Get(ctx, store, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zeynep", got.Name)
	assert.Equal(t, "2020-05-04", got.HireDate)
	assert.Equal(t, []string{}, got.Tags)
	assert.True(t, got.Active)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	_, err := Add(ctx, store, Personnel{Name: ""})
	assert.Error(t, err)

	_, err = Add(ctx, store, Personnel{Name: "A", HireDate: "yesterday"})
	assert.Error(t, err)

	_, err = Add(ctx, store, Personnel{Name: "A", Schedule: []schedule.ShiftEntry{{RRule: "FREQ=DAILY"}}})
	assert.Error(t, err)
}

func TestAddDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	_, err := Add(ctx, store, Personnel{ID: "p1", Name: "A"})
	require.NoError(t, err)
	_, err = Add(ctx, store, Personnel{ID: "p1", Name: "B"})
	assert.ErrorIs(t, err, docstore.ErrExists)
}

func TestListAndWithTag(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	for _, p := range []Personnel{
		{ID: "p1", Name: "Selin", Tags: []string{"Bridal", "Hair"}},
		{ID: "p2", Name: "Ayse", Tags: []string{"Hair"}},
		{ID: "p3", Name: "Melis"},
	} {
		_, err := Add(ctx, store, p)
		require.NoError(t, err)
	}
	require.NoError(t, store.CommitBatch(ctx, []docstore.Write{
		docstore.Set(Collection, "broken", map[string]any{"name": 42}),
	}))

	all, err := List(ctx, store)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ayse", all[0].Name)
	assert.Equal(t, "Melis", all[1].Name)

	hair, err := WithTag(ctx, store, "Hair")
	require.NoError(t, err)
	require.Len(t, hair, 2)
	assert.True(t, hair[0].HasTag("Hair"))
	assert.False(t, hair[0].HasTag("Nails"))
}
