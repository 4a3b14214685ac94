package docstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]map[string]any // collection -> id -> data
	feed *feed
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	m := &Memory{docs: make(map[string]map[string]map[string]any)}
	m.feed = newFeed(m.Query)
	return m
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return Document{ID: id, Data: cloneData(data)}, nil
}

func (m *Memory) Query(_ context.Context, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return q.run(m.docs[q.Collection]), nil
}

func (m *Memory) Subscribe(ctx context.Context, q Query) (<-chan Snapshot, error) {
	return m.feed.subscribe(ctx, q)
}

func (m *Memory) CommitBatch(ctx context.Context, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	changes, err := stage(writes, func(collection, id string) (map[string]any, bool, error) {
		data, ok := m.docs[collection][id]
		if !ok {
			return nil, false, nil
		}
		return cloneData(data), true, nil
	})
	if err != nil {
		m.mu.Unlock()
		return err
	}
	for _, c := range changes {
		coll := m.docs[c.key.collection]
		if c.deleted {
			delete(coll, c.key.id)
			continue
		}
		if coll == nil {
			coll = make(map[string]map[string]any)
			m.docs[c.key.collection] = coll
		}
		coll[c.key.id] = c.data
	}
	m.mu.Unlock()

	m.feed.publish(touched(changes))
	return nil
}

func (m *Memory) Append(ctx context.Context, collection string, doc Document) error {
	err := m.CommitBatch(ctx, []Write{
		CheckMissing(collection, doc.ID),
		Set(collection, doc.ID, doc.Data),
	})
	if err != nil && isPrecondition(err) {
		return fmt.Errorf("%s/%s: %w", collection, doc.ID, ErrExists)
	}
	return err
}

func (m *Memory) Close() error {
	m.feed.closeAll()
	return nil
}
