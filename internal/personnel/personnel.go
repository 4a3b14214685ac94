package personnel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/google/uuid"
)

// Collection holds one document per staff member.
const Collection = "personnel"

// Field names shared by the reconcilers that write personnel documents.
const (
	FieldTags                 = "tags"
	FieldLeaveEntitlementDays = "leaveEntitlementDays"
)

// HireDateLayout is the storage format of Personnel.HireDate.
const HireDateLayout = "2006-01-02"

// Personnel is a staff record. Tags references Tag names, not IDs.
type Personnel struct {
	ID                   string                `json:"-"`
	Name                 string                `json:"name"`
	HireDate             string                `json:"hireDate,omitempty"`
	LeaveEntitlementDays int                   `json:"leaveEntitlementDays"`
	Role                 string                `json:"role,omitempty"`
	Tags                 []string              `json:"tags"`
	Active               bool                  `json:"active"`
	Schedule             []schedule.ShiftEntry `json:"schedule,omitempty"`
}

// Hired parses HireDate. ok is false when it is missing or malformed.
func (p Personnel) Hired() (time.Time, bool) {
	s := strings.TrimSpace(p.HireDate)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(HireDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HasTag reports whether the record references the tag name.
func (p Personnel) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// FromDocument decodes a personnel document.
func FromDocument(doc docstore.Document) (Personnel, error) {
	var p Personnel
	if err := doc.Decode(&p); err != nil {
		return Personnel{}, err
	}
	p.ID = doc.ID
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// Document encodes the record for storage.
func (p Personnel) Document() (docstore.Document, error) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return docstore.Encode(p.ID, p)
}

// List returns every personnel record sorted by name. Documents that cannot
// be decoded are skipped.
func List(ctx context.Context, store docstore.Store) ([]Personnel, error) {
	docs, err := store.Query(ctx, docstore.Query{Collection: Collection, OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}
	return decodeAll(docs), nil
}

// WithTag returns the records whose tags contain name.
func WithTag(ctx context.Context, store docstore.Store, name string) ([]Personnel, error) {
	docs, err := store.Query(ctx, docstore.Query{
		Collection: Collection,
		Filters:    []docstore.Filter{docstore.Where(FieldTags, docstore.OpArrayContains, name)},
	})
	if err != nil {
		return nil, fmt.Errorf("query personnel with tag '%s': %w", name, err)
	}
	return decodeAll(docs), nil
}

// Get returns a single record.
func Get(ctx context.Context, store docstore.Store, id string) (Personnel, error) {
	doc, err := store.Get(ctx, Collection, id)
	if err != nil {
		return Personnel{}, fmt.Errorf("personnel '%s' not found: %w", id, err)
	}
	return FromDocument(doc)
}

// Add stores a new hire. An empty ID is replaced with a fresh UUID.
func Add(ctx context.Context, store docstore.Store, p Personnel) (Personnel, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Personnel{}, fmt.Errorf("name is required")
	}
	if p.HireDate != "" {
		if _, ok := p.Hired(); !ok {
			return Personnel{}, fmt.Errorf("invalid hire date %q (expected YYYY-MM-DD)", p.HireDate)
		}
	}
	if err := schedule.Validate(p.Schedule); err != nil {
		return Personnel{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	doc, err := p.Document()
	if err != nil {
		return Personnel{}, err
	}
	if err := store.Append(ctx, Collection, doc); err != nil {
		return Personnel{}, fmt.Errorf("add personnel: %w", err)
	}
	return p, nil
}

func decodeAll(docs []docstore.Document) []Personnel {
	out := make([]Personnel, 0, len(docs))
	for _, d := range docs {
		p, err := FromDocument(d)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
