// Package notestore provides the embedded SQLite record store for notes.
//
// The store is opened in WAL mode so concurrent readers are never blocked by
// an in-progress writer; writers are serialized by SQLite itself with a
// bounded busy wait, after which operations fail with apperr.ErrBusy rather
// than queuing indefinitely. Nothing is retried internally.
package notestore

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/starford/dagaz/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL CHECK (length(trim(title)) > 0),
	body       TEXT NOT NULL CHECK (length(trim(body)) > 0 AND length(body) <= 2000),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps a sql.DB with note-specific operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the
// schema. Applying the schema is idempotent and never destroys existing
// rows, so Open is safe to call on every process startup.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("notestore: open db: %w", errors.Join(apperr.ErrUnavailable, err))
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: ping: %w", errors.Join(apperr.ErrUnavailable, err))
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: apply schema: %w", errors.Join(apperr.ErrUnavailable, err))
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// mapSQLiteErr translates driver errors into the apperr taxonomy.
// SQLITE_BUSY/SQLITE_LOCKED mean the busy timeout expired; constraint
// violations surface as validation failures (the CHECK constraints mirror
// the Go-side rules as defense in depth); everything else means the store
// file itself is in trouble.
func mapSQLiteErr(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("notestore: %s: %w", op, errors.Join(apperr.ErrBusy, err))
		case sqlite3.ErrConstraint:
			return fmt.Errorf("notestore: %s: %w", op, errors.Join(apperr.ErrValidation, err))
		}
	}
	return fmt.Errorf("notestore: %s: %w", op, errors.Join(apperr.ErrUnavailable, err))
}
