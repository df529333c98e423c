package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/spraywall/internal/artwork"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS artworks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	base_image   TEXT NOT NULL DEFAULT '',
	artwork_data TEXT NOT NULL,
	frame_index  INTEGER NOT NULL CHECK (frame_index BETWEEN 0 AND 3),
	created_at   INTEGER NOT NULL,
	artist_name  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS artworks_frame_created ON artworks (frame_index, created_at DESC);
`

var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

const maxBusyRetries = 3

// SQLite stores records in an embedded SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the database at path. ":memory:"
// gives a private in-memory database on a single connection.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, p := range sqlitePragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Insert adds rec.
func (s *SQLite) Insert(ctx context.Context, rec artwork.Record) error {
	query, args := sqliteDialect.insertQuery(rec)
	if _, err := execRetry(ctx, s.db, query, args...); err != nil {
		return fmt.Errorf("sqlite: insert %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes records matching f.
func (s *SQLite) Delete(ctx context.Context, f artwork.Filter) (int64, error) {
	query, args := sqliteDialect.deleteQuery(f)
	res, err := execRetry(ctx, s.db, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete: %w", err)
	}
	return res.RowsAffected()
}

// SelectAll returns matching records, newest first.
func (s *SQLite) SelectAll(ctx context.Context, q Query) ([]artwork.Record, error) {
	query, args := sqliteDialect.selectQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: select: %w", err)
	}
	defer rows.Close()

	var out []artwork.Record
	for rows.Next() {
		var (
			rec  artwork.Record
			nano int64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.BaseImage, &rec.ArtworkData, &rec.FrameIndex, &nano, &rec.ArtistName); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		rec.CreatedAt = time.Unix(0, nano).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// isBusy reports whether err is an SQLite BUSY condition.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// execRetry retries statements that hit SQLITE_BUSY with 100/200/300 ms
// pauses.
func execRetry(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	var lastErr error
	for i := range maxBusyRetries {
		res, err := db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isBusy(err) || i == maxBusyRetries-1 {
			break
		}
		t := time.NewTimer(time.Duration(100*(i+1)) * time.Millisecond)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, lastErr
}
