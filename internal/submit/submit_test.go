package submit

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/example/spraywall/internal/api"
	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/assets"
	"github.com/example/spraywall/internal/canvas"
	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/spray"
	"github.com/example/spraywall/internal/store"
)

type recordedStatus struct {
	submitted []string
	failed    []string
}

func (r *recordedStatus) Submitted(frame string) { r.submitted = append(r.submitted, frame) }
func (r *recordedStatus) Failed(reason string)   { r.failed = append(r.failed, reason) }

type failingBoundary struct{ calls int }

func (f *failingBoundary) FetchAll(context.Context) ([]artwork.Record, error) { return nil, nil }
func (f *failingBoundary) Create(context.Context, api.NewArtwork) (artwork.Record, error) {
	f.calls++
	return artwork.Record{}, &api.Error{Status: http.StatusInternalServerError, Message: "failed to store artwork"}
}

func newServer() *api.Server {
	return api.NewServer(store.NewMemory(), api.WithServerLogger(zerolog.Nop()))
}

func newSession(t *testing.T, slot int) (*canvas.Session, *frames.Registry) {
	t.Helper()
	reg := frames.NewRegistry(nil)
	cfg := canvas.DefaultConfig()
	cfg.Width, cfg.Height = 80, 40
	s := canvas.NewSession(cfg, assets.NewLoader(assets.WithLogger(zerolog.Nop())), reg,
		canvas.WithEmitter(spray.NewSeededEmitter(1)), canvas.WithLogger(zerolog.Nop()))
	require.NoError(t, s.Load(context.Background(), slot))
	return s, reg
}

func TestSubmitStoresDataURI(t *testing.T) {
	srv := newServer()
	status := &recordedStatus{}
	svc := NewService(srv, WithStatus(status), WithLogger(zerolog.Nop()))

	png, err := artwork.EncodePNG(assets.PlainBackground(4, 4))
	require.NoError(t, err)
	rec, err := svc.Submit(context.Background(), Request{Raster: png, Slot: 1, Title: "Hello", BaseImage: "builtin:background"})
	require.NoError(t, err)
	require.Equal(t, 1, rec.FrameIndex)
	require.Equal(t, "Hello", rec.Title)
	require.Equal(t, artwork.DataURIFromPNG(png), rec.ArtworkData)
	require.Equal(t, []string{"Frame 2"}, status.submitted)

	all, err := srv.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSubmitRejectsBadSlotWithoutCallingStore(t *testing.T) {
	b := &failingBoundary{}
	status := &recordedStatus{}
	svc := NewService(b, WithStatus(status), WithLogger(zerolog.Nop()))
	_, err := svc.Submit(context.Background(), Request{Raster: []byte{1}, Slot: 4})
	require.ErrorIs(t, err, frames.ErrSlotOutOfRange)
	require.Zero(t, b.calls)
	require.Len(t, status.failed, 1)
}

func TestSubmitFailureReportsAndKeepsRaster(t *testing.T) {
	b := &failingBoundary{}
	status := &recordedStatus{}
	svc := NewService(b, WithStatus(status), WithLogger(zerolog.Nop()))
	sess, reg := newSession(t, 2)
	sess.StartStroke(40, 20)
	sess.EndStroke()
	before, err := sess.Export()
	require.NoError(t, err)

	_, err = svc.SubmitSession(context.Background(), sess, reg, Meta{Title: "x"})
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, []string{"failed to store artwork"}, status.failed)
	require.Empty(t, status.submitted)

	after, err := sess.Export()
	require.NoError(t, err)
	require.Equal(t, before.Pix, after.Pix)
	require.True(t, sess.Dirty())
	require.False(t, reg.Occupancy()[2])
}

func TestSubmitSessionSideEffects(t *testing.T) {
	srv := newServer()
	status := &recordedStatus{}
	svc := NewService(srv, WithStatus(status), WithLogger(zerolog.Nop()))
	sess, reg := newSession(t, 3)
	sess.StartStroke(40, 20)
	sess.ContinueStroke(50, 22)
	sess.EndStroke()
	require.True(t, sess.Dirty())

	rec, err := svc.SubmitSession(context.Background(), sess, reg, Meta{Title: "Tag", ArtistName: "ana"})
	require.NoError(t, err)
	require.Equal(t, 3, rec.FrameIndex)
	require.Equal(t, "ana", rec.ArtistName)
	require.False(t, sess.Dirty())
	require.True(t, reg.Occupancy()[3])
	require.Equal(t, []string{"Frame 4"}, status.submitted)

	img, err := rec.Image()
	require.NoError(t, err)
	require.Equal(t, 80, img.Bounds().Dx())
}

func TestClearThenSubmitStillCreatesRecord(t *testing.T) {
	srv := newServer()
	svc := NewService(srv, WithLogger(zerolog.Nop()))
	sess, reg := newSession(t, 0)
	sess.StartStroke(40, 20)
	sess.EndStroke()
	require.NoError(t, sess.Clear())

	rec, err := svc.SubmitSession(context.Background(), sess, reg, Meta{})
	require.NoError(t, err)
	require.Equal(t, artwork.DefaultTitle, rec.Title)

	all, err := srv.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSubmitUnloadedSessionFails(t *testing.T) {
	status := &recordedStatus{}
	svc := NewService(newServer(), WithStatus(status), WithLogger(zerolog.Nop()))
	sess := canvas.NewSession(canvas.DefaultConfig(), assets.NewLoader(), frames.NewRegistry(nil))
	_, err := svc.SubmitSession(context.Background(), sess, nil, Meta{})
	require.ErrorIs(t, err, canvas.ErrNotReady)
	require.Len(t, status.failed, 1)
}
