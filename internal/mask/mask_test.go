package mask

import (
	"image"
	"image/color"
	"testing"
)

func halfMask() *Mask {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}
	return New(img)
}

func TestIsPaintableNilMaskFailsOpen(t *testing.T) {
	if !IsPaintable(nil, 3, 3) {
		t.Fatal("expected nil mask to allow paint")
	}
	if !IsPaintable(nil, -100, 1e6) {
		t.Fatal("expected nil mask to allow paint anywhere")
	}
}

func TestIsPaintableSamplesAlpha(t *testing.T) {
	m := halfMask()
	if !IsPaintable(m, 4.9, 2) {
		t.Fatal("expected left half to be paintable")
	}
	if IsPaintable(m, 5.0, 2) {
		t.Fatal("expected right half to be protected")
	}
	if IsPaintable(m, 9.99, 9.99) {
		t.Fatal("expected truncated coordinate inside protected area")
	}
}

func TestIsPaintableOutOfBoundsFailsOpen(t *testing.T) {
	m := halfMask()
	for _, pt := range [][2]float64{{-0.5, 2}, {10, 2}, {2, -1}, {2, 10}, {1e9, 1e9}} {
		if !IsPaintable(m, pt[0], pt[1]) {
			t.Fatalf("expected out-of-bounds sample %v to be paintable", pt)
		}
	}
}

func TestNewKeepsFaintAlphaPaintable(t *testing.T) {
	img := image.NewNRGBA64(image.Rect(0, 0, 1, 1))
	img.SetNRGBA64(0, 0, color.NRGBA64{A: 1})
	m := New(img)
	if !m.At(0, 0) {
		t.Fatal("expected faint alpha to stay paintable")
	}
	if got := m.Clip().AlphaAt(0, 0).A; got != 0xff {
		t.Fatalf("clip alpha = %d, want 255", got)
	}
}

func TestNewRebasesOffsetImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 12))
	img.Set(10, 10, color.RGBA{A: 255})
	m := New(img)
	if m.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", m.Bounds())
	}
	if !m.At(0, 0) || m.At(1, 1) {
		t.Fatal("expected mask to be rebased to the origin")
	}
	if m.PaintableCount() != 1 {
		t.Fatalf("paintable count = %d, want 1", m.PaintableCount())
	}
}
