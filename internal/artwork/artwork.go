// Package artwork holds the submission record shared by the store, the API
// boundary, the submission service and the gallery.
package artwork

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FrameCount is the number of shared frame slots on the wall.
const FrameCount = 4

// DefaultTitle is used when a submission arrives without one.
const DefaultTitle = "Untitled"

// Record is one submitted artwork. Records are immutable once created; a
// newer record for the same frame supersedes older ones for display.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	BaseImage   string    `json:"base_image"`
	ArtworkData string    `json:"artwork_data"`
	FrameIndex  int       `json:"frame_index"`
	CreatedAt   time.Time `json:"created_at"`
	ArtistName  string    `json:"artist_name,omitempty"`
}

// ErrFrameOutOfRange reports a frame index outside 0..FrameCount-1.
var ErrFrameOutOfRange = errors.New("frame index out of range")

// ValidFrame reports whether idx names one of the fixed frame slots.
func ValidFrame(idx int) bool {
	return idx >= 0 && idx < FrameCount
}

// Validate checks the fields every stored record must carry.
func (r Record) Validate() error {
	if !ValidFrame(r.FrameIndex) {
		return fmt.Errorf("%w: %d", ErrFrameOutOfRange, r.FrameIndex)
	}
	if r.ArtworkData == "" {
		return errors.New("artwork_data is required")
	}
	if _, _, err := SplitDataURI(r.ArtworkData); err != nil {
		return err
	}
	return nil
}

// Newer reports whether r should be displayed instead of other when both
// target the same frame. Ties on CreatedAt fall back to the greater ID so
// every viewer picks the same record.
func (r Record) Newer(other Record) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.After(other.CreatedAt)
	}
	return r.ID > other.ID
}

// NewID returns a time-sortable UUIDv7 identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Filter narrows store operations. Zero value matches every record.
type Filter struct {
	// FrameIndex, when set, restricts to a single frame.
	FrameIndex *int
	// CreatedBefore, when non-zero, matches records strictly older than it.
	CreatedBefore time.Time
	// ExcludeIDs drops the listed records from the match.
	ExcludeIDs []string
}

// ForFrame returns a filter matching one frame.
func ForFrame(idx int) Filter {
	return Filter{FrameIndex: &idx}
}

// Match reports whether rec satisfies f.
func (f Filter) Match(rec Record) bool {
	if f.FrameIndex != nil && rec.FrameIndex != *f.FrameIndex {
		return false
	}
	if !f.CreatedBefore.IsZero() && !rec.CreatedAt.Before(f.CreatedBefore) {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if rec.ID == id {
			return false
		}
	}
	return true
}

// DisplayState maps every frame index to its currently displayed record, or
// nil when the frame shows only the background.
type DisplayState map[int]*Record

// EmptyDisplayState returns a state with every frame present and empty.
func EmptyDisplayState() DisplayState {
	s := make(DisplayState, FrameCount)
	for i := 0; i < FrameCount; i++ {
		s[i] = nil
	}
	return s
}

// Occupied reports whether frame idx currently shows an artwork.
func (s DisplayState) Occupied(idx int) bool {
	return s[idx] != nil
}
