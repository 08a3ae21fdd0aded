package datatree

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store that persists committed operations to a
// modernc.org/sqlite table, keyed by the JSON encoding of a path literal.
// Unlike MemStore, it enforces a real create/set distinction - a create
// against a path that already has a row is rejected - so a Facade backed
// by a SQLiteStore genuinely exercises the commit-with-one-retry rule
// rather than always succeeding on the first attempt.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) a sqlite database at dsn
// and ensures its single entries table exists.
func OpenSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("datatree: open sqlite store: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (path TEXT PRIMARY KEY, data TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("datatree: init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func pathKey(path any) (string, error) {
	b, err := json.Marshal(path)
	if err != nil {
		return "", fmt.Errorf("datatree: path is not serializable: %w", err)
	}
	return string(b), nil
}

// Read returns the current value stored at path, if any.
func (s *SQLiteStore) Read(path any) (any, bool) {
	key, err := pathKey(path)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var raw string
	if err := s.db.QueryRow(`SELECT data FROM entries WHERE path = ?`, key).Scan(&raw); err != nil {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

// Commit applies every operation in ops inside a single SQL transaction,
// rejecting the whole buffer (and rolling back) the moment any operation
// fails - including a create whose path already has a row.
func (s *SQLiteStore) Commit(ops []Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return false
	}

	for _, op := range ops {
		key, err := pathKey(op.Path)
		if err != nil {
			tx.Rollback()
			return false
		}

		switch op.Kind {
		case OpCreate:
			var exists int
			if err := tx.QueryRow(`SELECT 1 FROM entries WHERE path = ?`, key).Scan(&exists); err == nil {
				tx.Rollback()
				return false
			}
			raw, err := json.Marshal(op.Data)
			if err != nil {
				tx.Rollback()
				return false
			}
			if _, err := tx.Exec(`INSERT INTO entries(path, data) VALUES (?, ?)`, key, string(raw)); err != nil {
				tx.Rollback()
				return false
			}
		case OpSet, OpAction:
			raw, err := json.Marshal(op.Data)
			if err != nil {
				tx.Rollback()
				return false
			}
			if _, err := tx.Exec(
				`INSERT INTO entries(path, data) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET data = excluded.data`,
				key, string(raw),
			); err != nil {
				tx.Rollback()
				return false
			}
		case OpDelete:
			if _, err := tx.Exec(`DELETE FROM entries WHERE path = ?`, key); err != nil {
				tx.Rollback()
				return false
			}
		}
	}

	return tx.Commit() == nil
}
