package taxonomy

import (
	"context"
	"fmt"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
)

// Assign adds an existing tag name to a personnel record. The batch checks
// that the tag still carries that name, so a concurrent rename or delete
// cannot leave a dangling reference behind.
func (r *Reconciler) Assign(ctx context.Context, personID, name string) error {
	tags, err := List(ctx, r.store)
	if err != nil {
		return err
	}
	tag := FindByName(tags, name)
	if tag == nil {
		return fmt.Errorf("tag '%s' not found", name)
	}
	if tag.PendingDelete {
		return fmt.Errorf("tag '%s': %w", name, ErrPendingDelete)
	}

	doc, err := r.store.Get(ctx, personnel.Collection, personID)
	if err != nil {
		return fmt.Errorf("personnel '%s' not found: %w", personID, err)
	}
	p, err := personnel.FromDocument(doc)
	if err != nil {
		return err
	}
	if p.HasTag(name) {
		return nil
	}

	// Guard on the stored value, which may be absent on older records.
	next := append(append([]string{}, p.Tags...), name)
	err = r.store.CommitBatch(ctx, []docstore.Write{
		docstore.CheckField(Collection, tag.ID, fieldName, name),
		docstore.CheckField(Collection, tag.ID, fieldPendingDelete, nil),
		docstore.CheckField(personnel.Collection, p.ID, personnel.FieldTags, doc.Data[personnel.FieldTags]),
		docstore.Update(personnel.Collection, p.ID, map[string]any{personnel.FieldTags: next}),
	})
	if err != nil {
		return fmt.Errorf("assign tag '%s' to '%s': %w", name, p.Name, err)
	}
	return nil
}

// Unassign removes a tag name from a personnel record. Removing a name the
// record does not carry is a no-op.
func (r *Reconciler) Unassign(ctx context.Context, personID, name string) error {
	p, err := personnel.Get(ctx, r.store, personID)
	if err != nil {
		return err
	}
	if !p.HasTag(name) {
		return nil
	}
	if err := r.store.CommitBatch(ctx, []docstore.Write{
		docstore.ArrayRemove(personnel.Collection, p.ID, personnel.FieldTags, name),
	}); err != nil {
		return fmt.Errorf("remove tag '%s' from '%s': %w", name, p.Name, err)
	}
	return nil
}
