package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/spraywall/internal/artwork"
)

const pixel = "data:image/png;base64,iVBORw0KGgo="

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func rec(id string, frame int, offset time.Duration) artwork.Record {
	return artwork.Record{
		ID:          id,
		Title:       "t-" + id,
		BaseImage:   "builtin:background",
		ArtworkData: pixel,
		FrameIndex:  frame,
		CreatedAt:   t0.Add(offset),
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func ids(recs []artwork.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Insert(ctx, rec("a", 0, time.Second)))
			require.NoError(t, s.Insert(ctx, rec("b", 0, 2*time.Second)))
			require.NoError(t, s.Insert(ctx, rec("c", 2, time.Second)))
			require.NoError(t, s.Insert(ctx, rec("d", 2, time.Second)))
			require.Error(t, s.Insert(ctx, rec("a", 1, 0)), "duplicate ids must be rejected")

			all, err := s.SelectAll(ctx, Query{})
			require.NoError(t, err)
			require.Equal(t, []string{"b", "d", "c", "a"}, ids(all))
			require.True(t, all[0].CreatedAt.Equal(t0.Add(2*time.Second)))
			require.Equal(t, "t-b", all[0].Title)
			require.Equal(t, pixel, all[0].ArtworkData)

			limited, err := s.SelectAll(ctx, Query{Limit: 2})
			require.NoError(t, err)
			require.Len(t, limited, 2)

			frame2, err := s.SelectAll(ctx, Query{Filter: artwork.ForFrame(2)})
			require.NoError(t, err)
			require.Equal(t, []string{"d", "c"}, ids(frame2))

			f := artwork.ForFrame(0)
			f.CreatedBefore = t0.Add(2 * time.Second)
			n, err := s.Delete(ctx, f)
			require.NoError(t, err)
			require.EqualValues(t, 1, n)

			n, err = s.Delete(ctx, artwork.Filter{ExcludeIDs: []string{"d"}})
			require.NoError(t, err)
			require.EqualValues(t, 2, n)
			left, err := s.SelectAll(ctx, Query{})
			require.NoError(t, err)
			require.Equal(t, []string{"d"}, ids(left))
		})
	}
}

func TestPruneKeepsNewestPerFrame(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"f0-1", "f0-2", "f0-3", "f0-4"} {
				require.NoError(t, s.Insert(ctx, rec(id, 0, time.Duration(i)*time.Second)))
			}
			require.NoError(t, s.Insert(ctx, rec("f1-1", 1, 0)))
			require.NoError(t, s.Insert(ctx, rec("f3-tie-a", 3, 0)))
			require.NoError(t, s.Insert(ctx, rec("f3-tie-b", 3, 0)))

			n, err := Prune(ctx, s, 1)
			require.NoError(t, err)
			require.EqualValues(t, 4, n)

			left, err := s.SelectAll(ctx, Query{})
			require.NoError(t, err)
			require.ElementsMatch(t, []string{"f0-4", "f1-1", "f3-tie-b"}, ids(left))

			_, err = Prune(ctx, s, 0)
			require.Error(t, err)
		})
	}
}

func TestOpenDispatch(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "memory:")
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	s, err = Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "redis://localhost")
	require.True(t, errors.Is(err, ErrUnknownBackend))

	require.Equal(t, "postgres", Backend("postgres://x"))
	require.Equal(t, "sqlite", Backend("sqlite:wall.db"))
}

func TestSQLiteFilePersists(t *testing.T) {
	path := t.TempDir() + "/nested/wall.db"
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), rec("x", 1, 0)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.SelectAll(context.Background(), Query{Filter: artwork.ForFrame(1)})
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, ids(got))
}
