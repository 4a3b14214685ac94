package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
)

// Repair marker location. The marker survives restarts so the repair runs
// once per store, not once per process.
const (
	MarkerCollection = "meta"
	MarkerID         = "tagRepair"
)

// RepairVersion is bumped whenever the repair pass learns a new fix, so
// stores repaired by an older build run it again.
const RepairVersion = 1

const fieldRevision = "revision"

// Marker records the last committed repair.
type Marker struct {
	Version    int       `json:"version"`
	Revision   int       `json:"revision"`
	RepairedAt time.Time `json:"repairedAt"`
}

// RepairResult summarises a repair pass. Skipped is set when nothing ran
// because this process or another session already repaired the store.
type RepairResult struct {
	TagsFixed      int
	PersonnelFixed int
	Skipped        bool
}

// Changed reports whether the pass committed anything.
func (r RepairResult) Changed() bool {
	return r.TagsFixed > 0 || r.PersonnelFixed > 0
}

// Repair runs the one-time repair unless this process already ran it or the
// stored marker is at RepairVersion.
func (r *Reconciler) Repair(ctx context.Context) (RepairResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repaired {
		return RepairResult{Skipped: true}, nil
	}
	marker, _, err := r.loadMarker(ctx)
	if err != nil {
		return RepairResult{}, err
	}
	if marker.Version >= RepairVersion {
		r.repaired = true
		return RepairResult{Skipped: true}, nil
	}

	res, err := r.reconcile(ctx)
	if err != nil {
		return res, err
	}
	r.repaired = true
	return res, nil
}

// Reconcile runs the repair pass regardless of the marker. It is the manual
// path used after a crash or an out-of-band edit left stale references.
func (r *Reconciler) Reconcile(ctx context.Context) (RepairResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.reconcile(ctx)
	if err == nil {
		r.repaired = true
	}
	return res, err
}

func (r *Reconciler) loadMarker(ctx context.Context) (Marker, bool, error) {
	doc, err := r.store.Get(ctx, MarkerCollection, MarkerID)
	if errors.Is(err, docstore.ErrNotFound) {
		return Marker{}, false, nil
	}
	if err != nil {
		return Marker{}, false, fmt.Errorf("load repair marker: %w", err)
	}
	var m Marker
	if err := doc.Decode(&m); err != nil {
		return Marker{}, false, fmt.Errorf("decode repair marker: %w", err)
	}
	return m, true, nil
}

// reconcile fills missing tag defaults and strips unknown tag names from
// personnel in one batch, together with a marker write guarded by the
// marker revision read beforehand. A session that commits first makes the
// guard fail, which is reported as Skipped.
func (r *Reconciler) reconcile(ctx context.Context) (RepairResult, error) {
	marker, exists, err := r.loadMarker(ctx)
	if err != nil {
		return RepairResult{}, err
	}
	tags, err := List(ctx, r.store)
	if err != nil {
		return RepairResult{}, err
	}
	people, err := personnel.List(ctx, r.store)
	if err != nil {
		return RepairResult{}, err
	}

	var res RepairResult
	var writes []docstore.Write
	now := r.timestamp()

	for i, t := range tags {
		fields := map[string]any{}
		if t.SortOrder == nil {
			fields[fieldSortOrder] = i
		}
		if t.Color == "" {
			fields[fieldColor] = r.defaultColor()
		}
		if len(fields) == 0 {
			continue
		}
		fields[fieldUpdatedAt] = now
		writes = append(writes, docstore.Update(Collection, t.ID, fields))
		res.TagsFixed++
	}

	valid := ValidNames(tags)
	for _, p := range people {
		kept, changed := filterNames(p.Tags, valid)
		if !changed {
			continue
		}
		writes = append(writes, docstore.Update(personnel.Collection, p.ID, map[string]any{
			personnel.FieldTags: kept,
		}))
		res.PersonnelFixed++
	}

	if len(writes) == 0 {
		return res, nil
	}

	guard := docstore.CheckMissing(MarkerCollection, MarkerID)
	if exists {
		guard = docstore.CheckField(MarkerCollection, MarkerID, fieldRevision, marker.Revision)
	}
	next := Marker{Version: RepairVersion, Revision: marker.Revision + 1, RepairedAt: now}
	doc, err := docstore.Encode(MarkerID, next)
	if err != nil {
		return RepairResult{}, err
	}
	writes = append([]docstore.Write{guard}, writes...)
	writes = append(writes, docstore.Set(MarkerCollection, MarkerID, doc.Data))

	err = r.store.CommitBatch(ctx, writes)
	if errors.Is(err, docstore.ErrPrecondition) {
		return RepairResult{Skipped: true}, nil
	}
	if err != nil {
		return RepairResult{}, fmt.Errorf("repair tags: %w", err)
	}
	return res, nil
}

// filterNames keeps the names present in valid. changed is false when
// nothing would be removed.
func filterNames(names []string, valid map[string]bool) ([]string, bool) {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if valid[n] {
			kept = append(kept, n)
		}
	}
	return kept, len(kept) != len(names)
}
