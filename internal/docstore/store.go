// Package docstore is a small document store with real-time subscriptions
// and atomic multi-document batches. Collections are schemaless; every
// subscription receives the full matching set on each committed change.
package docstore

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when subscribing to a closed store.
var ErrClosed = errors.New("store closed")

// Store is the document store capability used by the engine.
type Store interface {
	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query returns the current documents matching q.
	Query(ctx context.Context, q Query) ([]Document, error)
	// Subscribe delivers the current matching set immediately and again after
	// every committed batch touching q.Collection. The channel is closed when
	// ctx is done. Slow consumers only ever see the latest snapshot.
	Subscribe(ctx context.Context, q Query) (<-chan Snapshot, error)
	// CommitBatch applies writes atomically: either all take effect or none.
	CommitBatch(ctx context.Context, writes []Write) error
	// Append inserts a new document and fails with ErrExists if the ID is taken.
	Append(ctx context.Context, collection string, doc Document) error
	Close() error
}

type runQueryFunc func(ctx context.Context, q Query) ([]Document, error)

// feed fans committed changes out to subscribers.
type feed struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	run    runQueryFunc
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

type subscriber struct {
	mu     sync.Mutex
	query  Query
	ch     chan Snapshot
	closed bool
}

func newFeed(run runQueryFunc) *feed {
	return &feed{
		subs: make(map[*subscriber]struct{}),
		run:  run,
		done: make(chan struct{}),
	}
}

func (f *feed) subscribe(ctx context.Context, q Query) (<-chan Snapshot, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	docs, err := f.run(ctx, q)
	if err != nil {
		return nil, err
	}

	s := &subscriber{query: q, ch: make(chan Snapshot, 1)}
	s.ch <- Snapshot{Docs: docs}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	f.subs[s] = struct{}{}
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		select {
		case <-ctx.Done():
		case <-f.done:
		}
		f.mu.Lock()
		delete(f.subs, s)
		f.mu.Unlock()
		s.close()
	}()

	return s.ch, nil
}

// publish re-runs every subscription on the touched collections.
func (f *feed) publish(collections map[string]bool) {
	f.publishMatching(func(q Query) bool { return collections[q.Collection] })
}

// publishAll re-runs every subscription.
func (f *feed) publishAll() {
	f.publishMatching(func(Query) bool { return true })
}

func (f *feed) publishMatching(match func(Query) bool) {
	f.mu.Lock()
	var targets []*subscriber
	for s := range f.subs {
		if match(s.query) {
			targets = append(targets, s)
		}
	}
	f.mu.Unlock()

	for _, s := range targets {
		docs, err := f.run(context.Background(), s.query)
		if err != nil {
			continue
		}
		s.deliver(Snapshot{Docs: docs})
	}
}

// closeAll ends every subscription and waits for their goroutines.
func (f *feed) closeAll() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
	subs := f.subs
	f.subs = make(map[*subscriber]struct{})
	f.mu.Unlock()

	for s := range subs {
		s.close()
	}
	f.wg.Wait()
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// deliver replaces any undelivered snapshot with the newer one.
func (s *subscriber) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

func touched(changes []change) map[string]bool {
	out := make(map[string]bool, len(changes))
	for _, c := range changes {
		out[c.key.collection] = true
	}
	return out
}
