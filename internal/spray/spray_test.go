package spray

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/spraywall/internal/mask"
)

// halfMask protects every column left of split.
func halfMask(w, h, split int) *mask.Mask {
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := split; x < w; x++ {
			img.SetAlpha(x, y, color.Alpha{A: 0xff})
		}
	}
	return mask.New(img)
}

func TestSprayNeverTouchesProtectedPixels(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 80, 60))
	m := halfMask(80, 60, 40)
	e := NewSeededEmitter(7, WithDripChance(1))
	b := DefaultBrush().WithRadius(MaxRadius)

	for i := 0; i < 40; i++ {
		e.Spray(dst, m, 40+float64(i%3)-1, 30, b)
	}
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			if dst.RGBAAt(x, y) != (color.RGBA{}) {
				t.Fatalf("protected pixel (%d,%d) was painted: %+v", x, y, dst.RGBAAt(x, y))
			}
		}
	}
	painted := false
	for y := 0; y < 60 && !painted; y++ {
		for x := 40; x < 80; x++ {
			if dst.RGBAAt(x, y).A > 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatal("expected paint on the paintable half")
	}
}

func TestSprayFullyProtectedSurfaceStaysBlank(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	m := mask.New(image.NewAlpha(dst.Bounds()))
	st := NewSeededEmitter(1).Spray(dst, m, 20, 20, DefaultBrush())
	if st.Placed != 0 || st.GlowPixels != 0 {
		t.Fatalf("expected nothing placed, got %+v", st)
	}
	if st.Rejected == 0 {
		t.Fatal("expected rejections to be counted")
	}
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("surface changed")
		}
	}
}

func TestSprayWithoutMaskPaints(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	st := NewSeededEmitter(3, WithDripChance(0)).Spray(dst, nil, 20, 20, DefaultBrush())
	if st.Placed == 0 || st.Rejected != 0 || st.Drip {
		t.Fatalf("unexpected stats %+v", st)
	}
	if dst.RGBAAt(20, 20).A == 0 {
		t.Fatal("expected the centre to receive paint")
	}
	if dst.RGBAAt(0, 0).A != 0 {
		t.Fatal("expected far corner to stay clear")
	}
}

func TestSprayIsDeterministicPerSeed(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 50, 50))
	b := image.NewRGBA(image.Rect(0, 0, 50, 50))
	ea, eb := NewSeededEmitter(42), NewSeededEmitter(42)
	for i := 0; i < 5; i++ {
		ea.Spray(a, nil, 25, float64(10+i*5), DefaultBrush())
		eb.Spray(b, nil, 25, float64(10+i*5), DefaultBrush())
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("same seed produced different surfaces")
	}
}

func TestDripChanceControlsDrip(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 80))
	if st := NewSeededEmitter(5, WithDripChance(1)).Spray(dst, nil, 20, 20, DefaultBrush()); !st.Drip {
		t.Fatal("expected drip when chance is 1")
	}
	if st := NewSeededEmitter(5, WithDripChance(0)).Spray(dst, nil, 20, 20, DefaultBrush()); st.Drip {
		t.Fatal("expected no drip when chance is 0")
	}
}

func TestSprayOffSurfaceIsHarmless(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	NewSeededEmitter(9).Spray(dst, nil, -500, -500, DefaultBrush())
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("surface changed by a far off-surface spray")
		}
	}
}

func TestRasteriserReusedPerSurface(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	m := halfMask(40, 40, 20)
	e := NewSeededEmitter(3)
	b := DefaultBrush()

	e.Spray(dst, m, 30, 20, b)
	first := e.dc
	e.Spray(dst, m, 25, 20, b)
	if e.dc != first {
		t.Fatalf("rasteriser rebuilt for the same surface and mask")
	}
	e.Spray(dst, nil, 25, 20, b)
	if e.dc == first {
		t.Fatalf("rasteriser kept after the mask changed")
	}
	other := image.NewRGBA(dst.Bounds())
	e.Spray(other, nil, 25, 20, b)
	if e.dcDst != other {
		t.Fatalf("rasteriser not rebuilt for a new surface")
	}
}

func TestClampRadius(t *testing.T) {
	cases := map[float64]float64{0: MinRadius, 1.5: MinRadius, 7: 7, 25: MaxRadius}
	for in, want := range cases {
		if got := ClampRadius(in); got != want {
			t.Errorf("ClampRadius(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{in: "#00FFFF", want: NeonBlue},
		{in: "red", want: color.RGBA{R: 255, A: 255}},
		{in: "#11223344", want: color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{in: "", err: true},
		{in: "#12", err: true},
		{in: "nope", err: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
	if FormatColor(NeonBlue) != "#00FFFF" {
		t.Errorf("FormatColor = %s", FormatColor(NeonBlue))
	}
}
