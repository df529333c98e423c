package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/spraywall/internal/artwork"
)

const selectColumns = "id, title, base_image, artwork_data, frame_index, created_at, artist_name"

// dialect captures what differs between the SQL backends.
type dialect struct {
	placeholder func(n int) string
	timeValue   func(t time.Time) any
}

var (
	sqliteDialect = dialect{
		placeholder: func(int) string { return "?" },
		timeValue:   func(t time.Time) any { return t.UTC().UnixNano() },
	}
	postgresDialect = dialect{
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		timeValue:   func(t time.Time) any { return t.UTC() },
	}
)

// where renders f as a WHERE clause (empty when f matches everything).
func (d dialect) where(f artwork.Filter, args []any) (string, []any) {
	var conds []string
	if f.FrameIndex != nil {
		args = append(args, *f.FrameIndex)
		conds = append(conds, "frame_index = "+d.placeholder(len(args)))
	}
	if !f.CreatedBefore.IsZero() {
		args = append(args, d.timeValue(f.CreatedBefore))
		conds = append(conds, "created_at < "+d.placeholder(len(args)))
	}
	if len(f.ExcludeIDs) > 0 {
		marks := make([]string, len(f.ExcludeIDs))
		for i, id := range f.ExcludeIDs {
			args = append(args, id)
			marks[i] = d.placeholder(len(args))
		}
		conds = append(conds, "id NOT IN ("+strings.Join(marks, ", ")+")")
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (d dialect) selectQuery(q Query) (string, []any) {
	where, args := d.where(q.Filter, nil)
	query := "SELECT " + selectColumns + " FROM artworks" + where + " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += " LIMIT " + d.placeholder(len(args))
	}
	return query, args
}

func (d dialect) deleteQuery(f artwork.Filter) (string, []any) {
	where, args := d.where(f, nil)
	return "DELETE FROM artworks" + where, args
}

func (d dialect) insertQuery(rec artwork.Record) (string, []any) {
	marks := make([]string, 7)
	for i := range marks {
		marks[i] = d.placeholder(i + 1)
	}
	return "INSERT INTO artworks (" + selectColumns + ") VALUES (" + strings.Join(marks, ", ") + ")",
		[]any{rec.ID, rec.Title, rec.BaseImage, rec.ArtworkData, rec.FrameIndex, d.timeValue(rec.CreatedAt), rec.ArtistName}
}
