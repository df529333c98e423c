// Package canvas holds one artist's drawing session: a native-resolution
// surface composited from a background and spray strokes, restricted by the
// active frame's mask.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/assets"
	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/mask"
	"github.com/example/spraywall/internal/spray"
)

// Default surface size.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

var (
	// ErrNotReady is returned by operations that need a loaded surface.
	ErrNotReady = errors.New("canvas not ready")
	// ErrSuperseded is returned by a Load that lost to a later Load.
	ErrSuperseded = errors.New("canvas load superseded")
)

// State is the session lifecycle state.
type State int

const (
	Empty State = iota
	BackgroundLoading
	Ready
	Drawing
	Idle
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case BackgroundLoading:
		return "loading"
	case Ready:
		return "ready"
	case Drawing:
		return "drawing"
	case Idle:
		return "idle"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AssetSource supplies fitted backgrounds and resampled masks. Background
// must always return a usable surface, even alongside an error.
type AssetSource interface {
	Background(ctx context.Context, ref string, w, h int) (*image.RGBA, error)
	Mask(ctx context.Context, ref string, w, h int) (*mask.Mask, error)
}

// OccupantSource reports the artwork a frame currently displays. It returns
// nil for an empty frame.
type OccupantSource interface {
	Occupant(ctx context.Context, idx int) (image.Image, error)
}

// SlotSource resolves frame slot indexes.
type SlotSource interface {
	Slot(idx int) (frames.Slot, error)
}

// Config fixes the surface for a session.
type Config struct {
	Width      int
	Height     int
	Background string
	Brush      spray.Brush
}

// DefaultConfig returns the wall defaults.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: assets.BuiltinBackground,
		Brush:      spray.DefaultBrush(),
	}
}

// Session is a single artist's canvas. Drawing calls never block on I/O.
type Session struct {
	mu sync.Mutex

	cfg       Config
	assets    AssetSource
	slots     SlotSource
	occupants OccupantSource
	emitter   *spray.Emitter
	logger    zerolog.Logger

	state      State
	gen        int
	slot       frames.Slot
	background *image.RGBA
	surface    *image.RGBA
	mask       *mask.Mask
	occupant   image.Image
	dirty      bool

	viewW, viewH float64
	lastX, lastY float64
}

// Option customises a Session.
type Option func(*Session)

// WithEmitter sets the spray emitter, typically a seeded one in tests.
func WithEmitter(e *spray.Emitter) Option {
	return func(s *Session) { s.emitter = e }
}

// WithOccupants makes Load fetch the slot's displayed artwork, which Clear
// then restores.
func WithOccupants(src OccupantSource) Option {
	return func(s *Session) { s.occupants = src }
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession returns an Empty session.
func NewSession(cfg Config, src AssetSource, slots SlotSource, opts ...Option) *Session {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	cfg.Brush.Radius = spray.ClampRadius(cfg.Brush.Radius)
	s := &Session{
		cfg:    cfg,
		assets: src,
		slots:  slots,
		logger: log.Logger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.emitter == nil {
		s.emitter = spray.NewEmitter(nil)
	}
	return s
}

// Load makes slot idx active: its mask and the background are fetched
// concurrently while pointer input is dropped. Asset failures fall back
// locally; only cancellation and unknown slots are returned as errors.
func (s *Session) Load(ctx context.Context, idx int) error {
	slot, err := s.slots.Slot(idx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = BackgroundLoading
	s.slot = slot
	s.background = nil
	s.surface = nil
	s.mask = nil
	s.occupant = nil
	s.dirty = false
	w, h := s.cfg.Width, s.cfg.Height
	bgRef := s.cfg.Background
	s.mu.Unlock()

	var (
		bg  *image.RGBA
		m   *mask.Mask
		occ image.Image
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bg, err = s.assets.Background(gctx, bgRef, w, h)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	})
	g.Go(func() error {
		var err error
		m, err = s.assets.Mask(gctx, slot.MaskRef, w, h)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	})
	if s.occupants != nil {
		g.Go(func() error {
			var err error
			occ, err = s.occupants.Occupant(gctx, slot.Index)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn().Err(err).Int("frame_index", slot.Index).Msg("load displayed artwork")
				occ = nil
			}
			return nil
		})
	}
	err = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	if err != nil {
		s.state = Empty
		return err
	}
	if bg == nil || bg.Bounds() != image.Rect(0, 0, w, h) {
		if bg == nil {
			bg = assets.PlainBackground(w, h)
		} else {
			bg = assets.Fit(bg, w, h)
		}
	}
	if m != nil && m.Bounds() != bg.Bounds() {
		s.logger.Warn().Int("frame_index", slot.Index).Msg("mask size mismatch, painting unrestricted")
		m = nil
	}
	s.background = bg
	s.surface = clone(bg)
	s.mask = m
	s.occupant = occ
	s.state = Ready
	s.logger.Debug().Int("frame_index", slot.Index).Bool("masked", m != nil).Bool("occupied", occ != nil).Msg("canvas ready")
	return nil
}

// ChangeSlot discards current strokes and loads slot idx.
func (s *Session) ChangeSlot(ctx context.Context, idx int) error {
	if !artwork.ValidFrame(idx) {
		return fmt.Errorf("%w: %d", frames.ErrSlotOutOfRange, idx)
	}
	return s.Load(ctx, idx)
}

// SetViewport records the on-screen size the input coordinates refer to.
// Non-positive values mean input is already in surface units.
func (s *Session) SetViewport(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewW, s.viewH = w, h
}

// SetBrushRadius applies the artist's brush-size control.
func (s *Session) SetBrushRadius(r float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Brush = s.cfg.Brush.WithRadius(r)
}

// Brush returns the current brush.
func (s *Session) Brush() spray.Brush {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Brush
}

func (s *Session) toSurface(x, y float64) (float64, float64) {
	if s.viewW > 0 {
		x = x * float64(s.cfg.Width) / s.viewW
	}
	if s.viewH > 0 {
		y = y * float64(s.cfg.Height) / s.viewH
	}
	return x, y
}

// StartStroke begins a stroke with one deposit at the viewport point
// (x, y). It reports false when the input was dropped.
func (s *Session) StartStroke(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready && s.state != Idle {
		return false
	}
	s.state = Drawing
	sx, sy := s.toSurface(x, y)
	if s.reach().contains(sx, sy) {
		s.deposit(sx, sy)
	}
	s.lastX, s.lastY = sx, sy
	return true
}

// maxSegmentDeposits bounds the deposits one ContinueStroke call makes.
const maxSegmentDeposits = 1024

// ContinueStroke deposits at (x, y). Jumps longer than the brush radius are
// filled with evenly spaced deposits along the segment. Only the part of the
// segment that can still land paint on the surface is filled.
func (s *Session) ContinueStroke(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Drawing {
		return false
	}
	sx, sy := s.toSurface(x, y)
	ax, ay, bx, by, ok := s.reach().clip(s.lastX, s.lastY, sx, sy)
	s.lastX, s.lastY = sx, sy
	if !ok {
		return true
	}
	dist := math.Hypot(bx-ax, by-ay)
	step := s.cfg.Brush.Radius
	if dist <= step {
		s.deposit(bx, by)
		return true
	}
	n := int(math.Ceil(dist / step))
	if n > maxSegmentDeposits {
		n = maxSegmentDeposits
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s.deposit(ax+(bx-ax)*t, ay+(by-ay)*t)
	}
	return true
}

// reach is the area where a deposit can still put paint on the surface:
// the surface grown by the brush radius.
func (s *Session) reach() box {
	r := s.cfg.Brush.Radius
	return box{-r, -r, float64(s.cfg.Width) + r, float64(s.cfg.Height) + r}
}

type box struct{ x0, y0, x1, y1 float64 }

func (b box) contains(x, y float64) bool {
	return x >= b.x0 && x <= b.x1 && y >= b.y0 && y <= b.y1
}

// clip cuts the segment a-b to the box (Liang-Barsky). Endpoints already
// inside are returned unchanged.
func (b box) clip(ax, ay, bx, by float64) (float64, float64, float64, float64, bool) {
	dx, dy := bx-ax, by-ay
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, ax - b.x0},
		{dx, b.x1 - ax},
		{-dy, ay - b.y0},
		{dy, b.y1 - ay},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	cax, cay, cbx, cby := ax, ay, bx, by
	if t0 > 0 {
		cax, cay = ax+t0*dx, ay+t0*dy
	}
	if t1 < 1 {
		cbx, cby = ax+t1*dx, ay+t1*dy
	}
	return cax, cay, cbx, cby, true
}

// EndStroke finishes the stroke in progress.
func (s *Session) EndStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Drawing {
		s.state = Idle
	}
}

func (s *Session) deposit(x, y float64) {
	s.emitter.Spray(s.surface, s.mask, x, y, s.cfg.Brush)
	s.dirty = true
}

// Clear discards strokes. The background is repainted and, when known, the
// slot's last submitted artwork is drawn back over it.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.background == nil {
		return ErrNotReady
	}
	s.surface = clone(s.background)
	if s.occupant != nil {
		draw.Draw(s.surface, s.surface.Bounds(), assets.Fit(s.occupant, s.cfg.Width, s.cfg.Height), image.Point{}, draw.Src)
	}
	s.dirty = false
	s.state = Ready
	return nil
}

// SetOccupant records the artwork currently displayed for the active slot,
// which Clear restores.
func (s *Session) SetOccupant(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupant = img
}

// MarkSubmitted clears the unsaved flag after rec was stored. When rec
// belongs to the active slot the current surface becomes the occupant.
func (s *Session) MarkSubmitted(rec artwork.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	if s.surface != nil && rec.FrameIndex == s.slot.Index {
		s.occupant = clone(s.surface)
	}
}

// Export returns a copy of the composite at native resolution.
func (s *Session) Export() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surface == nil {
		return nil, ErrNotReady
	}
	return clone(s.surface), nil
}

// ExportPNG encodes Export as PNG.
func (s *Session) ExportPNG() ([]byte, error) {
	img, err := s.Export()
	if err != nil {
		return nil, err
	}
	return artwork.EncodePNG(img)
}

// DataURI encodes Export as a PNG data URI.
func (s *Session) DataURI() (string, error) {
	img, err := s.Export()
	if err != nil {
		return "", err
	}
	return artwork.EncodeDataURI(img)
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Slot returns the active slot.
func (s *Session) Slot() frames.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot
}

// Dirty reports unsaved strokes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Masked reports whether a mask restricts painting.
func (s *Session) Masked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mask != nil
}

// Size returns the native surface size.
func (s *Session) Size() (int, int) {
	return s.cfg.Width, s.cfg.Height
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
