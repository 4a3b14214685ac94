package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE TABLE IF NOT EXISTS changes (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	origin     TEXT NOT NULL
);`

// changeLogSize is how many change rows are kept for other handles to read.
const changeLogSize = 1000

// changePollInterval is how often a handle looks for batches committed by
// other handles, including other processes.
const changePollInterval = 200 * time.Millisecond

// SQLite is a Store persisted in a single SQLite file, one JSON document per
// row. Each batch is one SQL transaction and appends the touched collections
// to a change log. Every handle polls that log so subscribers also see
// batches committed by other handles on the same file.
type SQLite struct {
	db     *sql.DB
	feed   *feed
	origin string

	lastSeq   int64 // owned by the watch goroutine
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &SQLite{db: db, origin: uuid.NewString(), stop: make(chan struct{})}
	if err := db.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM changes").Scan(&s.lastSeq); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read change log: %w", err)
	}
	s.feed = newFeed(s.Query)

	s.wg.Add(1)
	go s.watch(changePollInterval)
	return s, nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}

	data, err := decodeRow(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (s *SQLite) Query(ctx context.Context, q Query) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM documents WHERE collection = ?",
		q.Collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	all := make(map[string]map[string]any)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		data, err := decodeRow(raw)
		if err != nil {
			// not a JSON object
			continue
		}
		all[id] = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return q.run(all), nil
}

func (s *SQLite) Subscribe(ctx context.Context, q Query) (<-chan Snapshot, error) {
	return s.feed.subscribe(ctx, q)
}

func (s *SQLite) CommitBatch(ctx context.Context, writes []Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	changes, err := stage(writes, func(collection, id string) (map[string]any, bool, error) {
		var raw string
		err := tx.QueryRowContext(ctx,
			"SELECT data FROM documents WHERE collection = ? AND id = ?",
			collection, id,
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		data, err := decodeRow(raw)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	})
	if err != nil {
		return err
	}

	for _, c := range changes {
		if c.deleted {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM documents WHERE collection = ? AND id = ?",
				c.key.collection, c.key.id,
			); err != nil {
				return fmt.Errorf("delete %s/%s: %w", c.key.collection, c.key.id, err)
			}
			continue
		}
		raw, err := json.Marshal(c.data)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", c.key.collection, c.key.id, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO documents (collection, id, data) VALUES (?, ?, ?)",
			c.key.collection, c.key.id, string(raw),
		); err != nil {
			return fmt.Errorf("write %s/%s: %w", c.key.collection, c.key.id, err)
		}
	}

	collections := touched(changes)
	for collection := range collections {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO changes (collection, origin) VALUES (?, ?)",
			collection, s.origin,
		); err != nil {
			return fmt.Errorf("log change: %w", err)
		}
	}
	if len(collections) > 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM changes WHERE seq <= (SELECT MAX(seq) FROM changes) - ?",
			changeLogSize,
		); err != nil {
			return fmt.Errorf("trim change log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.feed.publish(collections)
	return nil
}

func (s *SQLite) Append(ctx context.Context, collection string, doc Document) error {
	err := s.CommitBatch(ctx, []Write{
		CheckMissing(collection, doc.ID),
		Set(collection, doc.ID, doc.Data),
	})
	if err != nil && isPrecondition(err) {
		return fmt.Errorf("%s/%s: %w", collection, doc.ID, ErrExists)
	}
	return err
}

func (s *SQLite) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.feed.closeAll()
		err = s.db.Close()
	})
	return err
}

// watch publishes batches committed by other handles until Close.
func (s *SQLite) watch(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		collections, missed, err := s.readChanges()
		if err != nil {
			continue
		}
		if missed {
			s.feed.publishAll()
		} else if len(collections) > 0 {
			s.feed.publish(collections)
		}
	}
}

// readChanges returns the collections touched by other handles since the
// last call. missed is set when trimmed rows were never seen.
func (s *SQLite) readChanges() (map[string]bool, bool, error) {
	rows, err := s.db.Query(
		"SELECT seq, collection, origin FROM changes WHERE seq > ? ORDER BY seq",
		s.lastSeq,
	)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	collections := make(map[string]bool)
	missed := false
	for rows.Next() {
		var (
			seq                int64
			collection, origin string
		)
		if err := rows.Scan(&seq, &collection, &origin); err != nil {
			return nil, false, err
		}
		if seq > s.lastSeq+1 {
			missed = true
		}
		s.lastSeq = seq
		if origin != s.origin {
			collections[collection] = true
		}
	}
	return collections, missed, rows.Err()
}

func decodeRow(raw string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
