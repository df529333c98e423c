package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/spraywall/internal/artwork"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS artworks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	base_image   TEXT NOT NULL DEFAULT '',
	artwork_data TEXT NOT NULL,
	frame_index  INTEGER NOT NULL CHECK (frame_index BETWEEN 0 AND 3),
	created_at   TIMESTAMPTZ NOT NULL,
	artist_name  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS artworks_frame_created ON artworks (frame_index, created_at DESC);
`

// Postgres stores records in PostgreSQL. Timestamps keep microsecond
// precision.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing postgresql DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("error creating postgresql pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Insert adds rec.
func (p *Postgres) Insert(ctx context.Context, rec artwork.Record) error {
	query, args := postgresDialect.insertQuery(rec)
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes records matching f.
func (p *Postgres) Delete(ctx context.Context, f artwork.Filter) (int64, error) {
	query, args := postgresDialect.deleteQuery(f)
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SelectAll returns matching records, newest first.
func (p *Postgres) SelectAll(ctx context.Context, q Query) ([]artwork.Record, error) {
	query, args := postgresDialect.selectQuery(q)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: select: %w", err)
	}
	defer rows.Close()

	var out []artwork.Record
	for rows.Next() {
		var rec artwork.Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.BaseImage, &rec.ArtworkData, &rec.FrameIndex, &rec.CreatedAt, &rec.ArtistName); err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
