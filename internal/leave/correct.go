package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/google/uuid"
)

// AuditCollection is the append-only log of entitlement corrections.
const AuditCollection = "auditLog"

// ActionCorrect tags audit records written by Corrector.Apply.
const ActionCorrect = "leave.entitlement.correct"

var ErrNoGap = errors.New("no positive entitlement gap")

// AuditRecord describes one applied correction.
type AuditRecord struct {
	ID          string    `json:"-"`
	Action      string    `json:"action"`
	PersonID    string    `json:"personId"`
	PersonName  string    `json:"personName"`
	Actor       string    `json:"actor"`
	Before      int       `json:"before"`
	After       int       `json:"after"`
	Delta       int       `json:"delta"`
	TenureYears int       `json:"tenureYears"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Corrector applies entitlement gaps. It never retries; a failed commit is
// returned to the caller.
type Corrector struct {
	Store docstore.Store
	Now   func() time.Time
}

// Apply increments the stored balance by exactly gap.GapDays and appends an
// audit record in the same atomic batch. The batch only commits while the
// stored balance still equals gap.StoredDays, so Before and After are always
// the values actually written.
func (c Corrector) Apply(ctx context.Context, gap Gap, actor string) (AuditRecord, error) {
	if gap.GapDays <= 0 {
		return AuditRecord{}, fmt.Errorf("person '%s': %w", gap.PersonID, ErrNoGap)
	}
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return AuditRecord{}, fmt.Errorf("actor is required")
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	rec := AuditRecord{
		ID:          uuid.NewString(),
		Action:      ActionCorrect,
		PersonID:    gap.PersonID,
		PersonName:  gap.PersonName,
		Actor:       actor,
		Before:      gap.StoredDays,
		After:       gap.StoredDays + gap.GapDays,
		Delta:       gap.GapDays,
		TenureYears: gap.TenureYears,
		CreatedAt:   now().UTC(),
	}
	doc, err := docstore.Encode(rec.ID, rec)
	if err != nil {
		return AuditRecord{}, err
	}

	// The check runs after the increment so a record stored without the field
	// compares as zero. A balance changed since the gap was computed fails the
	// batch with docstore.ErrPrecondition and the gap must be reviewed again.
	err = c.Store.CommitBatch(ctx, []docstore.Write{
		docstore.Increment(personnel.Collection, gap.PersonID, personnel.FieldLeaveEntitlementDays, float64(gap.GapDays)),
		docstore.CheckField(personnel.Collection, gap.PersonID, personnel.FieldLeaveEntitlementDays, rec.After),
		docstore.CheckMissing(AuditCollection, rec.ID),
		docstore.Set(AuditCollection, rec.ID, doc.Data),
	})
	if err != nil {
		return AuditRecord{}, fmt.Errorf("apply entitlement correction for '%s': %w", gap.PersonID, err)
	}
	return rec, nil
}

// History returns the audit records for one person, newest first.
func History(ctx context.Context, store docstore.Store, personID string) ([]AuditRecord, error) {
	docs, err := store.Query(ctx, docstore.Query{
		Collection: AuditCollection,
		Filters:    []docstore.Filter{docstore.Where("personId", docstore.OpEqual, personID)},
		OrderBy:    "createdAt",
		Desc:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}

	out := make([]AuditRecord, 0, len(docs))
	for _, d := range docs {
		var rec AuditRecord
		if err := d.Decode(&rec); err != nil {
			continue
		}
		rec.ID = d.ID
		out = append(out, rec)
	}
	return out, nil
}
