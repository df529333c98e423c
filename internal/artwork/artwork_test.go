package artwork

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewerPrefersLaterTimestamp(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := Record{ID: "b", CreatedAt: base}
	newer := Record{ID: "a", CreatedAt: base.Add(time.Second)}
	require.True(t, newer.Newer(older))
	require.False(t, older.Newer(newer))
}

func TestNewerBreaksTiesByID(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Record{ID: "a", CreatedAt: ts}
	b := Record{ID: "b", CreatedAt: ts}
	require.True(t, b.Newer(a))
	require.False(t, a.Newer(b))
}

func TestFilterMatch(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{ID: "x", FrameIndex: 2, CreatedAt: ts}

	require.True(t, Filter{}.Match(rec))
	require.True(t, ForFrame(2).Match(rec))
	require.False(t, ForFrame(1).Match(rec))
	require.False(t, Filter{CreatedBefore: ts}.Match(rec))
	require.True(t, Filter{CreatedBefore: ts.Add(time.Nanosecond)}.Match(rec))
	require.False(t, Filter{ExcludeIDs: []string{"x"}}.Match(rec))
}

func TestDataURIRoundTripKeepsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	uri, err := EncodeDataURI(img)
	require.NoError(t, err)
	require.Contains(t, uri, "data:image/png;base64,")

	got, err := DecodeDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), got.Bounds())
	r, g, b, a := got.At(1, 1).RGBA()
	require.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestSplitDataURIRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"",
		"http://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,%%%",
	} {
		_, _, err := SplitDataURI(in)
		require.ErrorIs(t, err, ErrInvalidDataURI, "input %q", in)
	}
}

func TestValidate(t *testing.T) {
	uri := DataURIFromPNG([]byte{1, 2, 3})
	require.NoError(t, Record{FrameIndex: 3, ArtworkData: uri}.Validate())
	require.ErrorIs(t, Record{FrameIndex: 4, ArtworkData: uri}.Validate(), ErrFrameOutOfRange)
	require.ErrorIs(t, Record{FrameIndex: -1, ArtworkData: uri}.Validate(), ErrFrameOutOfRange)
	require.Error(t, Record{FrameIndex: 0}.Validate())
}

func TestEmptyDisplayStateHasEveryFrame(t *testing.T) {
	s := EmptyDisplayState()
	require.Len(t, s, FrameCount)
	for i := 0; i < FrameCount; i++ {
		v, ok := s[i]
		require.True(t, ok)
		require.Nil(t, v)
		require.False(t, s.Occupied(i))
	}
}
