// Package submit stores finished artwork through the API boundary.
//
// Submissions are append-only: every submit inserts a new record and the
// gallery's latest-per-frame rule hides older ones. A single insert is the
// only write, so a failed submit never leaves a frame empty. History is
// trimmed separately by store.Prune.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/spraywall/internal/api"
	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/frames"
)

// Status receives the transient messages shown to the artist.
type Status interface {
	Submitted(frame string)
	Failed(reason string)
}

// Request is one submission.
type Request struct {
	// Raster is the PNG-encoded artwork.
	Raster     []byte
	Slot       int
	SlotName   string
	Title      string
	BaseImage  string
	ArtistName string
}

// Session is the part of a canvas session the service needs.
type Session interface {
	ExportPNG() ([]byte, error)
	Slot() frames.Slot
	MarkSubmitted(rec artwork.Record)
}

// Occupancy is patched after a successful submission.
type Occupancy interface {
	MarkOccupied(idx int)
}

// Meta carries the artist-supplied fields of a session submission.
type Meta struct {
	Title      string
	BaseImage  string
	ArtistName string
}

// Service submits artwork.
type Service struct {
	boundary api.Boundary
	status   Status
	logger   zerolog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithStatus sets where status messages go.
func WithStatus(s Status) Option {
	return func(svc *Service) { svc.status = s }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(svc *Service) { svc.logger = logger }
}

// NewService returns a service writing through b.
func NewService(b api.Boundary, opts ...Option) *Service {
	s := &Service{boundary: b, logger: log.Logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit stores req and returns the created record. Failures are reported
// to the status sink and returned; the caller's raster is never touched.
func (s *Service) Submit(ctx context.Context, req Request) (artwork.Record, error) {
	rec, err := s.submit(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Int("frame_index", req.Slot).Msg("submission failed")
		if s.status != nil {
			s.status.Failed(reason(err))
		}
		return artwork.Record{}, err
	}
	name := req.SlotName
	if name == "" {
		name = fmt.Sprintf("Frame %d", req.Slot+1)
	}
	s.logger.Info().Int("frame_index", rec.FrameIndex).Str("record_id", rec.ID).Msg("artwork submitted")
	if s.status != nil {
		s.status.Submitted(name)
	}
	return rec, nil
}

func (s *Service) submit(ctx context.Context, req Request) (artwork.Record, error) {
	if !artwork.ValidFrame(req.Slot) {
		return artwork.Record{}, fmt.Errorf("%w: %d", frames.ErrSlotOutOfRange, req.Slot)
	}
	if len(req.Raster) == 0 {
		return artwork.Record{}, errors.New("empty raster")
	}
	return s.boundary.Create(ctx, api.NewArtwork{
		Title:       req.Title,
		BaseImage:   req.BaseImage,
		ArtworkData: artwork.DataURIFromPNG(req.Raster),
		FrameIndex:  req.Slot,
		ArtistName:  req.ArtistName,
	})
}

// SubmitSession exports sess at native resolution and submits it to the
// session's active frame. On success the session's unsaved flag clears and
// occ, when given, marks the frame occupied.
func (s *Service) SubmitSession(ctx context.Context, sess Session, occ Occupancy, meta Meta) (artwork.Record, error) {
	slot := sess.Slot()
	data, err := sess.ExportPNG()
	if err != nil {
		err = fmt.Errorf("export artwork: %w", err)
		if s.status != nil {
			s.status.Failed(reason(err))
		}
		return artwork.Record{}, err
	}
	rec, err := s.Submit(ctx, Request{
		Raster:     data,
		Slot:       slot.Index,
		SlotName:   slot.Name,
		Title:      meta.Title,
		BaseImage:  meta.BaseImage,
		ArtistName: meta.ArtistName,
	})
	if err != nil {
		return artwork.Record{}, err
	}
	sess.MarkSubmitted(rec)
	if occ != nil {
		occ.MarkOccupied(rec.FrameIndex)
	}
	return rec, nil
}

func reason(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
