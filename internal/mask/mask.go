// Package mask answers whether a surface coordinate may receive paint.
package mask

import (
	"image"
	"image/color"
)

// Mask is a read-only paintability map. A pixel with alpha > 0 is paintable,
// alpha == 0 is protected.
type Mask struct {
	alpha *image.Alpha
	clip  *image.Alpha
}

// New snapshots the alpha channel of img. The returned mask is rebased so its
// bounds start at the origin, matching surface coordinates.
func New(img image.Image) *Mask {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	a := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	clip := image.NewAlpha(a.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, av := img.At(x, y).RGBA()
			v := uint8(av >> 8)
			if v == 0 && av > 0 {
				v = 1
			}
			a.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: v})
			if v > 0 {
				clip.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: 0xff})
			}
		}
	}
	return &Mask{alpha: a, clip: clip}
}

// Bounds returns the mask extent, or an empty rectangle for a nil mask.
func (m *Mask) Bounds() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	return m.alpha.Bounds()
}

// At reports whether the pixel containing (x, y) is paintable. Coordinates
// are truncated toward negative infinity. A nil mask and out-of-bounds
// samples are paintable.
func (m *Mask) At(x, y float64) bool {
	if m == nil {
		return true
	}
	px, py := floor(x), floor(y)
	if !image.Pt(px, py).In(m.alpha.Bounds()) {
		return true
	}
	return m.alpha.AlphaAt(px, py).A > 0
}

// Clip returns a binary alpha image (0 or 255 per pixel) for rasterisers that
// clip coverage by an alpha mask. It is nil for a nil mask.
func (m *Mask) Clip() *image.Alpha {
	if m == nil {
		return nil
	}
	return m.clip
}

// PaintableCount returns how many pixels accept paint.
func (m *Mask) PaintableCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, v := range m.alpha.Pix {
		if v > 0 {
			n++
		}
	}
	return n
}

// IsPaintable is the mask evaluator contract: nil masks (not loaded yet) and
// out-of-bounds samples fail open.
func IsPaintable(m *Mask, x, y float64) bool {
	return m.At(x, y)
}

func floor(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
