package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/uche09/rolodex/internal/contact"
	rdxerr "github.com/uche09/rolodex/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	tag        TEXT NOT NULL DEFAULT '',
	deleted    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore persists the collection in a single-table SQLite database.
// WAL mode plus a single-connection pool keeps concurrent CLI invocations
// from tripping over each other.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, rdxerr.Wrap(rdxerr.CodeStorageRead, err)
	}

	// Single writer to prevent lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "initializing schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load implements Storage.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]contact.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, email, tag, deleted, created_at, updated_at FROM contacts`)
	if err != nil {
		return nil, rdxerr.Wrap(rdxerr.CodeStorageRead, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]contact.Contact)
	for rows.Next() {
		var (
			c                contact.Contact
			deleted          int
			created, updated string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Tag,
			&deleted, &created, &updated); err != nil {
			return nil, rdxerr.Wrap(rdxerr.CodeStorageRead, err)
		}
		c.Deleted = deleted != 0
		if c.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "created timestamp", err)
		}
		if c.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, rdxerr.StorageError(rdxerr.CodeStorageCorrupt, "updated timestamp", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, rdxerr.Wrap(rdxerr.CodeStorageRead, err)
	}
	return out, nil
}

// Save implements Storage. The whole snapshot replaces the table inside
// one transaction, mirroring the atomic rewrite the file backends do.
func (s *SQLiteStore) Save(ctx context.Context, contacts map[string]contact.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contacts (id, name, phone, email, tag, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range sortedByID(contacts) {
		deleted := 0
		if c.Deleted {
			deleted = 1
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Phone, c.Email, c.Tag,
			deleted,
			c.CreatedAt.Format(time.RFC3339Nano),
			c.UpdatedAt.Format(time.RFC3339Nano)); err != nil {
			return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return rdxerr.Wrap(rdxerr.CodeStorageWrite, err)
	}
	return nil
}
