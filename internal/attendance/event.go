package attendance

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
)

// Collection holds the append-only attendance events.
const Collection = "attendance"

// Type is the kind of attendance event.
type Type string

const (
	CheckIn  Type = "checkIn"
	CheckOut Type = "checkOut"
)

// Event is an immutable check-in or check-out fact.
type Event struct {
	ID         string    `json:"-"`
	PersonID   string    `json:"personId"`
	PersonName string    `json:"personName"`
	Type       Type      `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Location   string    `json:"location,omitempty"`
}

// EventID derives a deterministic 12-character ID from the person, type and
// timestamp, so the same scan recorded twice collides on Append.
func EventID(personID string, typ Type, ts time.Time) string {
	seed := personID + "\x00" + string(typ) + "\x00" + ts.UTC().Format(time.RFC3339Nano)
	hash := sha256.Sum256([]byte(seed))
	return fmt.Sprintf("%x", hash[:6])
}

// FromDocument decodes an event document.
func FromDocument(doc docstore.Document) (Event, error) {
	var e Event
	if err := doc.Decode(&e); err != nil {
		return Event{}, err
	}
	e.ID = doc.ID
	if e.Type != CheckIn && e.Type != CheckOut {
		return Event{}, fmt.Errorf("event %s: unknown type %q", doc.ID, e.Type)
	}
	if e.PersonID == "" || e.Timestamp.IsZero() {
		return Event{}, fmt.Errorf("event %s: missing person or timestamp", doc.ID)
	}
	return e, nil
}

// DecodeEvents decodes a snapshot, skipping malformed events.
func DecodeEvents(docs []docstore.Document) []Event {
	events := make([]Event, 0, len(docs))
	for _, d := range docs {
		e, err := FromDocument(d)
		if err != nil {
			continue
		}
		events = append(events, e)
	}
	return events
}

// DayQuery selects the events whose timestamp falls on day's calendar date in
// day's location, oldest first.
func DayQuery(day time.Time) docstore.Query {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return docstore.Query{
		Collection: Collection,
		Filters: []docstore.Filter{
			docstore.Where("timestamp", docstore.OpGreaterOrEqual, start.UTC()),
			docstore.Where("timestamp", docstore.OpLess, end.UTC()),
		},
		OrderBy: "timestamp",
	}
}

// Recorder appends attendance events to the store.
type Recorder struct {
	Store docstore.Store
	Now   func() time.Time
}

// CheckIn records a check-in for the person at the current time.
func (r Recorder) CheckIn(ctx context.Context, personID, personName, location string) (Event, error) {
	return r.record(ctx, CheckIn, personID, personName, location)
}

// CheckOut records a check-out for the person at the current time.
func (r Recorder) CheckOut(ctx context.Context, personID, personName, location string) (Event, error) {
	return r.record(ctx, CheckOut, personID, personName, location)
}

func (r Recorder) record(ctx context.Context, typ Type, personID, personName, location string) (Event, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return Event{}, fmt.Errorf("person is required")
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	e := Event{
		PersonID:   personID,
		PersonName: personName,
		Type:       typ,
		Timestamp:  now().UTC(),
		Location:   location,
	}
	e.ID = EventID(e.PersonID, e.Type, e.Timestamp)

	doc, err := docstore.Encode(e.ID, e)
	if err != nil {
		return Event{}, err
	}
	if err := r.Store.Append(ctx, Collection, doc); err != nil {
		return Event{}, fmt.Errorf("record %s: %w", typ, err)
	}
	return e, nil
}
