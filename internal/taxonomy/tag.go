package taxonomy

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
)

// Collection holds the tag taxonomy.
const Collection = "tags"

// DefaultColor is the neutral colour assigned to tags created or repaired
// without one.
const DefaultColor = "#9CA3AF"

const (
	fieldName          = "name"
	fieldColor         = "color"
	fieldSortOrder     = "sortOrder"
	fieldUpdatedAt     = "updatedAt"
	fieldPendingDelete = "pendingDelete"
)

// Tag is a taxonomy entry. Its Name is the join key stored in
// Personnel.Tags. SortOrder is nil and Color empty on records that predate
// those fields; Repair fills them in.
type Tag struct {
	ID            string    `json:"-"`
	Name          string    `json:"name"`
	Color         string    `json:"color,omitempty"`
	SortOrder     *int      `json:"sortOrder,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	PendingDelete bool      `json:"pendingDelete,omitempty"`
}

// FromDocument decodes a tag document.
func FromDocument(doc docstore.Document) (Tag, error) {
	var t Tag
	if err := doc.Decode(&t); err != nil {
		return Tag{}, err
	}
	t.ID = doc.ID
	return t, nil
}

// List returns every tag, ordered by sort order (unsorted tags last), then
// creation time, then ID. Tags pending deletion are included.
func List(ctx context.Context, store docstore.Store) ([]Tag, error) {
	docs, err := store.Query(ctx, docstore.Query{Collection: Collection})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]Tag, 0, len(docs))
	for _, d := range docs {
		t, err := FromDocument(d)
		if err != nil {
			continue
		}
		tags = append(tags, t)
	}

	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		switch {
		case a.SortOrder != nil && b.SortOrder != nil && *a.SortOrder != *b.SortOrder:
			return *a.SortOrder < *b.SortOrder
		case a.SortOrder != nil && b.SortOrder == nil:
			return true
		case a.SortOrder == nil && b.SortOrder != nil:
			return false
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return tags, nil
}

// ValidNames is the set of names personnel records may reference: every tag
// not pending deletion.
func ValidNames(tags []Tag) map[string]bool {
	names := make(map[string]bool, len(tags))
	for _, t := range tags {
		if !t.PendingDelete {
			names[t.Name] = true
		}
	}
	return names
}

// FindByName returns the tag with the given name, or nil.
func FindByName(tags []Tag, name string) *Tag {
	for i := range tags {
		if tags[i].Name == name {
			return &tags[i]
		}
	}
	return nil
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	turkishFolds    = strings.NewReplacer(
		"ı", "i", "İ", "i", "ş", "s", "Ş", "s", "ğ", "g", "Ğ", "g",
		"ç", "c", "Ç", "c", "ö", "o", "Ö", "o", "ü", "u", "Ü", "u",
	)
)

// Slugify turns a tag name into a document ID: Turkish letters are folded to
// ASCII, everything else non-alphanumeric collapses to single hyphens.
func Slugify(name string) string {
	s := strings.ToLower(turkishFolds.Replace(name))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
