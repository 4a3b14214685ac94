package docstore

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrExists       = errors.New("document already exists")
	ErrEmptyBatch   = errors.New("empty batch")
	ErrPrecondition = errors.New("precondition failed")
)

// WriteKind identifies the operation a Write performs.
type WriteKind int

const (
	KindSet WriteKind = iota
	KindUpdate
	KindIncrement
	KindArrayRemove
	KindDelete
	KindCheck
)

func (k WriteKind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindUpdate:
		return "update"
	case KindIncrement:
		return "increment"
	case KindArrayRemove:
		return "array-remove"
	case KindDelete:
		return "delete"
	case KindCheck:
		return "check"
	}
	return "unknown"
}

// Write is one operation inside an atomic batch.
type Write struct {
	Kind       WriteKind
	Collection string
	ID         string

	Data   map[string]any // Set, Update
	Field  string         // Increment, ArrayRemove, Check
	Amount float64        // Increment
	Values []any          // ArrayRemove

	Expect        any  // Check: expected field value
	ExpectMissing bool // Check: document must not exist
}

// Set creates or replaces a document.
func Set(collection, id string, data map[string]any) Write {
	return Write{Kind: KindSet, Collection: collection, ID: id, Data: data}
}

// Update merges fields into an existing document.
func Update(collection, id string, fields map[string]any) Write {
	return Write{Kind: KindUpdate, Collection: collection, ID: id, Data: fields}
}

// Increment adds amount to a numeric field of an existing document. A missing
// field counts as zero.
func Increment(collection, id, field string, amount float64) Write {
	return Write{Kind: KindIncrement, Collection: collection, ID: id, Field: field, Amount: amount}
}

// ArrayRemove removes every occurrence of values from an array field of an
// existing document, leaving other elements untouched.
func ArrayRemove(collection, id, field string, values ...any) Write {
	return Write{Kind: KindArrayRemove, Collection: collection, ID: id, Field: field, Values: values}
}

// Delete removes a document. Deleting a missing document is not an error.
func Delete(collection, id string) Write {
	return Write{Kind: KindDelete, Collection: collection, ID: id}
}

// CheckField fails the batch unless the document exists and field equals value.
func CheckField(collection, id, field string, value any) Write {
	return Write{Kind: KindCheck, Collection: collection, ID: id, Field: field, Expect: value}
}

// CheckMissing fails the batch if the document exists.
func CheckMissing(collection, id string) Write {
	return Write{Kind: KindCheck, Collection: collection, ID: id, ExpectMissing: true}
}

type docKey struct {
	collection string
	id         string
}

// change is the staged end state of one document after a batch.
type change struct {
	key     docKey
	data    map[string]any
	deleted bool
	touched bool
}

// loadFunc reads the committed state of a document; ok is false when missing.
type loadFunc func(collection, id string) (data map[string]any, ok bool, err error)

// stage applies writes in order against a private view of the affected
// documents. Nothing is visible to readers until the caller persists the
// returned changes, so a failing write leaves the store untouched.
func stage(writes []Write, load loadFunc) ([]change, error) {
	if len(writes) == 0 {
		return nil, ErrEmptyBatch
	}

	view := make(map[docKey]*change)
	var order []docKey

	current := func(k docKey) (*change, error) {
		if c, ok := view[k]; ok {
			return c, nil
		}
		data, ok, err := load(k.collection, k.id)
		if err != nil {
			return nil, err
		}
		c := &change{key: k, data: data, deleted: !ok}
		view[k] = c
		order = append(order, k)
		return c, nil
	}

	for i, w := range writes {
		if w.Collection == "" || w.ID == "" {
			return nil, fmt.Errorf("write %d (%s): collection and id are required", i, w.Kind)
		}
		c, err := current(docKey{w.Collection, w.ID})
		if err != nil {
			return nil, fmt.Errorf("write %d (%s %s/%s): %w", i, w.Kind, w.Collection, w.ID, err)
		}
		if err := applyWrite(c, w); err != nil {
			return nil, fmt.Errorf("write %d (%s %s/%s): %w", i, w.Kind, w.Collection, w.ID, err)
		}
	}

	var changes []change
	for _, k := range order {
		c := view[k]
		if c.dirty() {
			changes = append(changes, *c)
		}
	}
	return changes, nil
}

// dirty reports whether the batch modified the document. Documents loaded
// only for a Check are left out of the persisted changes.
func (c *change) dirty() bool {
	return c.touched
}

func applyWrite(c *change, w Write) error {
	switch w.Kind {
	case KindCheck:
		if w.ExpectMissing {
			if !c.deleted {
				return ErrPrecondition
			}
			return nil
		}
		if c.deleted {
			return ErrPrecondition
		}
		want, err := normalize(w.Expect)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(c.data[w.Field], want) {
			return ErrPrecondition
		}
		return nil

	case KindSet:
		data, err := normalizeMap(w.Data)
		if err != nil {
			return err
		}
		c.data, c.deleted, c.touched = data, false, true
		return nil

	case KindDelete:
		if !c.deleted {
			c.data, c.deleted, c.touched = nil, true, true
		}
		return nil
	}

	if c.deleted {
		return ErrNotFound
	}
	next := cloneData(c.data)

	switch w.Kind {
	case KindUpdate:
		fields, err := normalizeMap(w.Data)
		if err != nil {
			return err
		}
		for k, v := range fields {
			next[k] = v
		}

	case KindIncrement:
		var base float64
		if v, ok := next[w.Field]; ok && v != nil {
			n, isNum := v.(float64)
			if !isNum {
				return fmt.Errorf("field %q is not numeric", w.Field)
			}
			base = n
		}
		next[w.Field] = base + w.Amount

	case KindArrayRemove:
		v, ok := next[w.Field]
		if !ok || v == nil {
			break
		}
		arr, isArr := v.([]any)
		if !isArr {
			return fmt.Errorf("field %q is not an array", w.Field)
		}
		remove := make([]any, 0, len(w.Values))
		for _, rv := range w.Values {
			n, err := normalize(rv)
			if err != nil {
				return err
			}
			remove = append(remove, n)
		}
		kept := make([]any, 0, len(arr))
		for _, e := range arr {
			if !containsValue(remove, e) {
				kept = append(kept, e)
			}
		}
		next[w.Field] = kept

	default:
		return fmt.Errorf("unsupported write kind %d", w.Kind)
	}

	c.data, c.touched = next, true
	return nil
}

func isPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
