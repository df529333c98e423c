package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow painted beneath a frame.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns the shadow used for frames on the gallery sheet.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  12,
		Offset:  image.Pt(8, 8),
		Opacity: 0.5,
	}
}

// DrawShadow paints a soft shadow for an opaque rectangle onto dst. The
// shadow is the rectangle's silhouette shifted by Offset and blurred by
// Radius. The rectangle itself is left for the caller to draw on top.
func DrawShadow(dst *image.RGBA, rect image.Rectangle, opts ShadowOptions) {
	if dst == nil || rect.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	shadow := rect.Add(opts.Offset)
	area := shadow.Inset(-2 * radius).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	silhouette := image.NewGray(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(silhouette, shadow.Sub(area.Min), image.NewUniform(color.Gray{Y: 0xff}), image.Point{}, draw.Src)
	blurred := BlurGray(silhouette, radius)

	alpha := image.NewAlpha(blurred.Bounds())
	for i, v := range blurred.Pix {
		alpha.Pix[i] = uint8(float64(v)*opacity + 0.5)
	}
	draw.DrawMask(dst, area, image.Black, image.Point{}, alpha, image.Point{}, draw.Over)
}
