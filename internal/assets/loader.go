// Package assets fetches and decodes the read-only images the wall needs:
// backgrounds and frame masks, by URL, file path or builtin reference.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	builtin "github.com/example/spraywall/assets"
	"github.com/example/spraywall/internal/mask"
)

// Reference forms understood by the loader.
const (
	BuiltinPrefix     = "builtin:"
	BuiltinBackground = "builtin:background"
	builtinMaskPrefix = "builtin:mask/"
	ClipboardRef      = "clipboard:"
)

// FallbackFill is the plain background used when a background cannot load.
var FallbackFill = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}

// MaxAssetBytes bounds a single remote or local asset.
const MaxAssetBytes = 32 << 20

// ErrNotFound is returned for references that name nothing.
var ErrNotFound = errors.New("asset not found")

// Loader resolves references to decoded images.
type Loader struct {
	client    *http.Client
	logger    zerolog.Logger
	clipboard func() (image.Image, error)
}

// Option customises a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithLogger sets the loader's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithClipboard enables the clipboard: reference.
func WithClipboard(read func() (image.Image, error)) Option {
	return func(l *Loader) { l.clipboard = read }
}

// NewLoader returns a loader with a 30s HTTP timeout.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: log.Logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Open fetches and decodes ref. Builtin references are generated at w x h.
func (l *Loader) Open(ctx context.Context, ref string, w, h int) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrNotFound
	case ref == BuiltinBackground:
		return builtin.Background(w, h)
	case strings.HasPrefix(ref, builtinMaskPrefix):
		idx, err := strconv.Atoi(strings.TrimPrefix(ref, builtinMaskPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return builtin.Mask(idx, w, h)
	case strings.HasPrefix(ref, BuiltinPrefix):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case ref == ClipboardRef:
		if l.clipboard == nil {
			return nil, fmt.Errorf("%w: clipboard not available", ErrNotFound)
		}
		return l.clipboard()
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetchHTTP(ctx, ref)
	default:
		return l.openFile(strings.TrimPrefix(ref, "file://"))
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, MaxAssetBytes))
}

func (l *Loader) openFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return decode(io.LimitReader(f, MaxAssetBytes))
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Background loads ref and letterboxes it onto a w x h surface. On failure
// it returns a plain FallbackFill surface together with the error, so the
// caller can log and carry on.
func (l *Loader) Background(ctx context.Context, ref string, w, h int) (*image.RGBA, error) {
	img, err := l.Open(ctx, ref, w, h)
	if err != nil {
		l.logger.Warn().Err(err).Str("ref", ref).Msg("background unavailable, using plain fill")
		return PlainBackground(w, h), err
	}
	return Fit(img, w, h), nil
}

// Mask loads ref and resamples it to w x h. On failure it returns a nil mask,
// which paints everywhere.
func (l *Loader) Mask(ctx context.Context, ref string, w, h int) (*mask.Mask, error) {
	img, err := l.Open(ctx, ref, w, h)
	if err != nil {
		l.logger.Warn().Err(err).Str("ref", ref).Msg("mask unavailable, painting unrestricted")
		return nil, err
	}
	return mask.New(Resample(img, w, h)), nil
}

// PlainBackground returns a w x h surface filled with FallbackFill.
func PlainBackground(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(FallbackFill), image.Point{}, draw.Src)
	return dst
}

// FitRect returns the largest rectangle with src's aspect ratio centred in
// a w x h surface.
func FitRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	scale := min(float64(w)/float64(sw), float64(h)/float64(sh))
	dw := int(float64(sw)*scale + 0.5)
	dh := int(float64(sh)*scale + 0.5)
	x := (w - dw) / 2
	y := (h - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}

// Fit draws src aspect-preserving and centred onto a new w x h surface
// pre-filled with FallbackFill.
func Fit(src image.Image, w, h int) *image.RGBA {
	dst := PlainBackground(w, h)
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, FitRect(src.Bounds(), w, h), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// Resample stretches src to exactly w x h with nearest-neighbour sampling so
// mask edges stay binary.
func Resample(src image.Image, w, h int) image.Image {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
