package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Document is a single record in a collection. Data holds JSON-shaped values
// (string, float64, bool, nil, []any, map[string]any).
type Document struct {
	ID   string
	Data map[string]any
}

// Encode converts a struct into a Document using its JSON field names.
func Encode(id string, v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("encode document %s: %w", id, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Document{}, fmt.Errorf("encode document %s: %w", id, err)
	}
	return Document{ID: id, Data: data}, nil
}

// Decode fills v from the document's data.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// normalize converts any Go value into its JSON-shaped equivalent so stored
// values compare consistently regardless of the caller's concrete types.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return map[string]any{}, nil
	}
	out, err := normalize(m)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func cloneData(m map[string]any) map[string]any {
	out, err := normalizeMap(m)
	if err != nil {
		// Stored data is always JSON-shaped already.
		panic(err)
	}
	return out
}

// FilterOp is a comparison used by a Filter.
type FilterOp string

const (
	OpEqual          FilterOp = "=="
	OpArrayContains  FilterOp = "array-contains"
	OpGreaterOrEqual FilterOp = ">="
	OpLess           FilterOp = "<"
)

// Filter restricts a query to documents whose Field satisfies Op against Value.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Where builds a Filter.
func Where(field string, op FilterOp, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Query selects documents from one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string // empty orders by document ID
	Desc       bool
}

// Snapshot is the full set of documents matching a subscription at one point
// in time. It is never a diff.
type Snapshot struct {
	Docs []Document
}

func (q Query) matches(data map[string]any) bool {
	for _, f := range q.Filters {
		want, err := normalize(f.Value)
		if err != nil {
			return false
		}
		got, ok := data[f.Field]
		switch f.Op {
		case OpEqual:
			if !ok || !reflect.DeepEqual(got, want) {
				return false
			}
		case OpArrayContains:
			arr, isArr := got.([]any)
			if !ok || !isArr || !containsValue(arr, want) {
				return false
			}
		case OpGreaterOrEqual:
			if !ok || compareValues(got, want) < 0 {
				return false
			}
		case OpLess:
			if !ok || compareValues(got, want) >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (q Query) sort(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		if q.Desc {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].ID < docs[j].ID
	})
}

// run filters and orders a collection's documents.
func (q Query) run(all map[string]map[string]any) []Document {
	docs := make([]Document, 0, len(all))
	for id, data := range all {
		if q.matches(data) {
			docs = append(docs, Document{ID: id, Data: cloneData(data)})
		}
	}
	q.sort(docs)
	return docs
}

func containsValue(arr []any, v any) bool {
	for _, e := range arr {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

// compareValues orders JSON-shaped values. Missing values sort first, numbers
// numerically, RFC 3339 strings chronologically, other strings lexically.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aErr := time.Parse(time.RFC3339Nano, av)
			bt, bErr := time.Parse(time.RFC3339Nano, bv)
			if aErr == nil && bErr == nil {
				return at.Compare(bt)
			}
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
