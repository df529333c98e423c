package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/spraywall/internal/artwork"
)

// Memory keeps records in process memory.
type Memory struct {
	mu   sync.RWMutex
	recs []artwork.Record
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// Insert adds rec. Duplicate IDs are rejected like a primary key would be.
func (m *Memory) Insert(_ context.Context, rec artwork.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		if r.ID == rec.ID {
			return fmt.Errorf("memory: duplicate id %s", rec.ID)
		}
	}
	m.recs = append(m.recs, rec)
	return nil
}

// Delete removes records matching f.
func (m *Memory) Delete(_ context.Context, f artwork.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.recs[:0]
	var n int64
	for _, r := range m.recs {
		if f.Match(r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.recs = kept
	return n, nil
}

// SelectAll returns matching records, newest first.
func (m *Memory) SelectAll(_ context.Context, q Query) ([]artwork.Record, error) {
	m.mu.RLock()
	var out []artwork.Record
	for _, r := range m.recs {
		if q.Filter.Match(r) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()
	SortNewestFirst(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
