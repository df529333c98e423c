// Package api is the thin request/response boundary in front of the record
// store: fetch-all and create-one, with failures folded into one error shape.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/metrics"
	"github.com/example/spraywall/internal/store"
)

// Boundary limits.
const (
	// DefaultHistoryLimit caps fetch-all results per frame.
	DefaultHistoryLimit = 16
	MaxBodyBytes        = 16 << 20
)

// NewArtwork is the body of a create-one call.
type NewArtwork struct {
	Title       string `json:"title"`
	BaseImage   string `json:"base_image"`
	ArtworkData string `json:"artwork_data"`
	FrameIndex  int    `json:"frame_index"`
	ArtistName  string `json:"artist_name,omitempty"`
}

// Boundary is what the submission service and the gallery talk to. Both
// the in-process Server and the HTTP Client implement it.
type Boundary interface {
	FetchAll(ctx context.Context) ([]artwork.Record, error)
	Create(ctx context.Context, in NewArtwork) (artwork.Record, error)
}

// Server fronts a store.Store.
type Server struct {
	store   store.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
	clock   *Clock
	limit   int
}

// ServerOption customises a Server.
type ServerOption func(*Server)

// WithMetrics enables instrumentation and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithServerLogger sets the logger.
func WithServerLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithClock sets the timestamp source.
func WithClock(c *Clock) ServerOption {
	return func(s *Server) { s.clock = c }
}

// WithHistoryLimit bounds fetch-all results per frame.
func WithHistoryLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewServer returns a boundary over st.
func NewServer(st store.Store, opts ...ServerOption) *Server {
	s := &Server{
		store:  st,
		logger: log.Logger,
		clock:  NewClock(nil),
		limit:  DefaultHistoryLimit,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FetchAll returns the most recent records of every frame, newest first.
// Store failures are logged and yield an empty list.
func (s *Server) FetchAll(ctx context.Context) ([]artwork.Record, error) {
	return s.fetch(ctx, s.limit), nil
}

// fetch reads up to limit records per frame, so a busy frame never pushes
// another frame's latest record out of the result.
func (s *Server) fetch(ctx context.Context, limit int) []artwork.Record {
	var out []artwork.Record
	for i := 0; i < artwork.FrameCount; i++ {
		recs, err := s.store.SelectAll(ctx, store.Query{Filter: artwork.ForFrame(i), Limit: limit})
		if err != nil {
			s.metrics.ObserveFetch(0, err)
			s.logger.Error().Err(err).Int("frame_index", i).Msg("fetch artworks")
			return []artwork.Record{}
		}
		out = append(out, recs...)
	}
	s.metrics.ObserveFetch(len(out), nil)
	if out == nil {
		return []artwork.Record{}
	}
	store.SortNewestFirst(out)
	return out
}

// Create validates in, stamps identity and creation time, and stores it.
// Failures are returned as *Error.
func (s *Server) Create(ctx context.Context, in NewArtwork) (artwork.Record, error) {
	rec := artwork.Record{
		ID:          artwork.NewID(),
		Title:       strings.TrimSpace(in.Title),
		BaseImage:   in.BaseImage,
		ArtworkData: in.ArtworkData,
		FrameIndex:  in.FrameIndex,
		ArtistName:  strings.TrimSpace(in.ArtistName),
	}
	if rec.Title == "" {
		rec.Title = artwork.DefaultTitle
	}
	if err := rec.Validate(); err != nil {
		s.metrics.ObserveSubmission(in.FrameIndex, err)
		return artwork.Record{}, errorf(http.StatusBadRequest, "%v", err)
	}
	rec.CreatedAt = s.clock.Now()
	if err := s.store.Insert(ctx, rec); err != nil {
		s.metrics.ObserveSubmission(rec.FrameIndex, err)
		s.logger.Error().Err(err).Int("frame_index", rec.FrameIndex).Str("record_id", rec.ID).Msg("store artwork")
		return artwork.Record{}, errorf(http.StatusInternalServerError, "failed to store artwork")
	}
	s.metrics.ObserveSubmission(rec.FrameIndex, nil)
	s.logger.Info().Int("frame_index", rec.FrameIndex).Str("record_id", rec.ID).Msg("artwork stored")
	return rec, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Get("/api/artworks", s.handleList)
	r.Post("/api/artworks", s.handleCreate)
	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := s.limit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.fetch(r.Context(), limit))
}

type createBody struct {
	Title       string `json:"title"`
	BaseImage   string `json:"base_image"`
	ArtworkData string `json:"artwork_data"`
	FrameIndex  *int   `json:"frame_index"`
	ArtistName  string `json:"artist_name"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", MaxBodyBytes))
			return
		}
		writeError(w, errorf(http.StatusBadRequest, "invalid request body"))
		return
	}
	if body.FrameIndex == nil {
		writeError(w, errorf(http.StatusBadRequest, "frame_index is required"))
		return
	}
	rec, err := s.Create(r.Context(), NewArtwork{
		Title:       body.Title,
		BaseImage:   body.BaseImage,
		ArtworkData: body.ArtworkData,
		FrameIndex:  *body.FrameIndex,
		ArtistName:  body.ArtistName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
