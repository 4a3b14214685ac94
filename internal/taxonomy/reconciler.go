// Package taxonomy keeps the tag collection and the tag names stored on
// personnel records consistent. Every mutation is issued as an atomic batch;
// failures are returned to the caller and never retried here.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
)

var (
	ErrInvalidName   = errors.New("tag name must not be empty")
	ErrDuplicateName = errors.New("tag name already in use")
	ErrPendingDelete = errors.New("tag is being deleted")
)

// Reconciler owns every write to Tag.Name and Personnel.Tags.
type Reconciler struct {
	store docstore.Store
	now   func() time.Time
	color string

	mu       sync.Mutex
	repaired bool
}

// NewReconciler returns a Reconciler over store. A nil now uses time.Now.
func NewReconciler(store docstore.Store, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{store: store, now: now}
}

// WithDefaultColor sets the colour given to tags created or repaired without
// one. An empty color keeps DefaultColor.
func (r *Reconciler) WithDefaultColor(color string) *Reconciler {
	r.color = strings.TrimSpace(color)
	return r
}

func (r *Reconciler) defaultColor() string {
	if r.color == "" {
		return DefaultColor
	}
	return r.color
}

func (r *Reconciler) timestamp() time.Time {
	return r.now().UTC()
}

func (r *Reconciler) loadTag(ctx context.Context, id string) (Tag, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		return Tag{}, err
	}
	return FromDocument(doc)
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Create adds a tag at the end of the sort order. The ID is derived from the
// name; a numeric suffix is appended when the slug is taken.
func (r *Reconciler) Create(ctx context.Context, name, color string) (Tag, error) {
	name, err := validName(name)
	if err != nil {
		return Tag{}, err
	}
	tags, err := List(ctx, r.store)
	if err != nil {
		return Tag{}, err
	}
	if FindByName(tags, name) != nil {
		return Tag{}, fmt.Errorf("tag '%s': %w", name, ErrDuplicateName)
	}

	ids := make(map[string]bool, len(tags))
	for _, t := range tags {
		ids[t.ID] = true
	}
	base := Slugify(name)
	if base == "" {
		base = "tag"
	}
	id := base
	for n := 2; ids[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}

	if strings.TrimSpace(color) == "" {
		color = r.defaultColor()
	}
	order := len(tags)
	now := r.timestamp()
	tag := Tag{ID: id, Name: name, Color: color, SortOrder: &order, CreatedAt: now, UpdatedAt: now}

	doc, err := docstore.Encode(id, tag)
	if err != nil {
		return Tag{}, err
	}
	if err := r.store.CommitBatch(ctx, []docstore.Write{
		docstore.CheckMissing(Collection, id),
		docstore.Set(Collection, id, doc.Data),
	}); err != nil {
		return Tag{}, fmt.Errorf("create tag '%s': %w", name, err)
	}
	return tag, nil
}

// Rename changes a tag's name and rewrites every personnel record that
// references the old name, all in one batch. The batch is guarded so it
// fails rather than overwrite a concurrent rename or tag edit. It returns the
// number of personnel records rewritten.
func (r *Reconciler) Rename(ctx context.Context, tagID, newName string) (int, error) {
	newName, err := validName(newName)
	if err != nil {
		return 0, err
	}
	tag, err := r.loadTag(ctx, tagID)
	if err != nil {
		return 0, fmt.Errorf("tag '%s' not found: %w", tagID, err)
	}
	if tag.PendingDelete {
		return 0, fmt.Errorf("tag '%s': %w", tag.Name, ErrPendingDelete)
	}
	if tag.Name == newName {
		return 0, nil
	}

	tags, err := List(ctx, r.store)
	if err != nil {
		return 0, err
	}
	if other := FindByName(tags, newName); other != nil && other.ID != tag.ID {
		return 0, fmt.Errorf("tag '%s': %w", newName, ErrDuplicateName)
	}

	people, err := personnel.WithTag(ctx, r.store, tag.Name)
	if err != nil {
		return 0, err
	}

	writes := []docstore.Write{
		docstore.CheckField(Collection, tag.ID, fieldName, tag.Name),
		docstore.CheckField(Collection, tag.ID, fieldPendingDelete, nil),
		docstore.Update(Collection, tag.ID, map[string]any{
			fieldName:      newName,
			fieldUpdatedAt: r.timestamp(),
		}),
	}
	for _, p := range people {
		writes = append(writes,
			docstore.CheckField(personnel.Collection, p.ID, personnel.FieldTags, p.Tags),
			docstore.Update(personnel.Collection, p.ID, map[string]any{
				personnel.FieldTags: replaceName(p.Tags, tag.Name, newName),
			}),
		)
	}

	if err := r.store.CommitBatch(ctx, writes); err != nil {
		return 0, fmt.Errorf("rename tag '%s' to '%s': %w", tag.Name, newName, err)
	}
	return len(people), nil
}

// replaceName swaps from for to, keeping order and dropping duplicates.
func replaceName(tags []string, from, to string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == from {
			t = to
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// DeleteResult reports what a delete did.
type DeleteResult struct {
	Name             string
	PersonnelUpdated int
	Deleted          bool
}

// Delete removes a tag in two committed steps. The first marks the tag
// pendingDelete and removes its name from every referencing personnel
// record. The second deletes the tag record. A crash between the steps
// leaves the tag marked, and ResumePending finishes it. The first step fails
// with ErrPrecondition if the tag was renamed after it was loaded. Deleting a
// tag that does not exist is a no-op.
func (r *Reconciler) Delete(ctx context.Context, tagID string) (DeleteResult, error) {
	tag, err := r.loadTag(ctx, tagID)
	if errors.Is(err, docstore.ErrNotFound) {
		return DeleteResult{}, nil
	}
	if err != nil {
		return DeleteResult{}, fmt.Errorf("load tag '%s': %w", tagID, err)
	}
	return r.finishDelete(ctx, tag)
}

func (r *Reconciler) finishDelete(ctx context.Context, tag Tag) (DeleteResult, error) {
	res := DeleteResult{Name: tag.Name}

	people, err := personnel.WithTag(ctx, r.store, tag.Name)
	if err != nil {
		return res, err
	}

	if !tag.PendingDelete || len(people) > 0 {
		writes := []docstore.Write{
			docstore.CheckField(Collection, tag.ID, fieldName, tag.Name),
			docstore.Update(Collection, tag.ID, map[string]any{
				fieldPendingDelete: true,
				fieldUpdatedAt:     r.timestamp(),
			}),
		}
		for _, p := range people {
			writes = append(writes, docstore.ArrayRemove(personnel.Collection, p.ID, personnel.FieldTags, tag.Name))
		}
		if err := r.store.CommitBatch(ctx, writes); err != nil {
			return res, fmt.Errorf("remove tag '%s' from personnel: %w", tag.Name, err)
		}
		res.PersonnelUpdated = len(people)
	}

	if err := r.store.CommitBatch(ctx, []docstore.Write{
		docstore.CheckField(Collection, tag.ID, fieldPendingDelete, true),
		docstore.Delete(Collection, tag.ID),
	}); err != nil {
		return res, fmt.Errorf("delete tag '%s': %w", tag.Name, err)
	}
	res.Deleted = true
	return res, nil
}

// ResumePending completes every delete that stopped after its first step.
func (r *Reconciler) ResumePending(ctx context.Context) ([]DeleteResult, error) {
	tags, err := List(ctx, r.store)
	if err != nil {
		return nil, err
	}
	var done []DeleteResult
	for _, t := range tags {
		if !t.PendingDelete {
			continue
		}
		res, err := r.finishDelete(ctx, t)
		if err != nil {
			return done, err
		}
		done = append(done, res)
	}
	return done, nil
}
