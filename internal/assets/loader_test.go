package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newTestLoader() *Loader {
	return NewLoader(WithLogger(zerolog.Nop()))
}

func TestOpenBuiltin(t *testing.T) {
	l := newTestLoader()
	img, err := l.Open(context.Background(), "builtin:mask/1", 40, 20)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	_, err = l.Open(context.Background(), "builtin:mask/9", 40, 20)
	require.Error(t, err)
	_, err = l.Open(context.Background(), "builtin:nothing", 40, 20)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, solid(4, 2, color.White)), 0o600))

	img, err := newTestLoader().Open(context.Background(), "file://"+path, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dx())

	_, err = newTestLoader().Open(context.Background(), filepath.Join(t.TempDir(), "missing.png"), 0, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenHTTP(t *testing.T) {
	data := encodePNG(t, solid(3, 3, color.Black))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(data)
		case "/broken.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := newTestLoader()
	img, err := l.Open(context.Background(), srv.URL+"/ok.png", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dy())

	_, err = l.Open(context.Background(), srv.URL+"/gone.png", 0, 0)
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = l.Open(context.Background(), srv.URL+"/broken.png", 0, 0)
	require.Error(t, err)
}

func TestBackgroundFallsBackToPlainFill(t *testing.T) {
	bg, err := newTestLoader().Background(context.Background(), "/definitely/missing.png", 10, 5)
	require.Error(t, err)
	require.NotNil(t, bg)
	require.Equal(t, FallbackFill, bg.RGBAAt(9, 4))
}

func TestMaskFailureIsNil(t *testing.T) {
	m, err := newTestLoader().Mask(context.Background(), "", 10, 5)
	require.Error(t, err)
	require.Nil(t, m)
	require.True(t, m.At(3, 3))
}

func TestMaskIsResampledToSurface(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(1, 0, color.NRGBA{A: 255})
	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, src), 0o600))

	m, err := newTestLoader().Mask(context.Background(), path, 20, 10)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 10), m.Bounds())
	require.False(t, m.At(2, 5))
	require.True(t, m.At(17, 5))
}

func TestFitRectLetterboxes(t *testing.T) {
	r := FitRect(image.Rect(0, 0, 100, 100), 200, 100)
	require.Equal(t, image.Rect(50, 0, 150, 100), r)

	r = FitRect(image.Rect(0, 0, 400, 100), 200, 100)
	require.Equal(t, image.Rect(0, 25, 200, 75), r)

	require.True(t, FitRect(image.Rectangle{}, 10, 10).Empty())
}

func TestFitKeepsBarsPlain(t *testing.T) {
	out := Fit(solid(10, 10, color.Black), 40, 20)
	require.Equal(t, FallbackFill, out.RGBAAt(2, 10))
	require.Equal(t, color.RGBA{A: 255}, out.RGBAAt(20, 10))
}

func TestOpenClipboard(t *testing.T) {
	_, err := newTestLoader().Open(context.Background(), ClipboardRef, 10, 10)
	require.ErrorIs(t, err, ErrNotFound)

	want := solid(3, 3, color.Black)
	l := NewLoader(WithLogger(zerolog.Nop()), WithClipboard(func() (image.Image, error) { return want, nil }))
	img, err := l.Open(context.Background(), ClipboardRef, 10, 10)
	require.NoError(t, err)
	require.Equal(t, want, img)
}
