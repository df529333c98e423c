package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelHeight is the height of the caption strip drawn by DrawLabel.
const LabelHeight = 18

// DrawBorder strokes rect with a border of the given thickness drawn inside
// the rectangle.
func DrawBorder(dst *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	if thick <= 0 {
		return
	}
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick),
		image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y),
		image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect), src, image.Point{}, draw.Src)
	}
}

// DrawLabel writes text on a filled strip whose top-left corner is at pt.
// The strip is as wide as the text plus padding.
func DrawLabel(dst *image.RGBA, pt image.Point, text string, fg, bg color.Color) image.Rectangle {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(text).Ceil()
	strip := image.Rect(pt.X, pt.Y, pt.X+w+8, pt.Y+LabelHeight)
	draw.Draw(dst, strip, image.NewUniform(bg), image.Point{}, draw.Src)
	d.Dot = fixed.P(pt.X+4, pt.Y+13)
	d.DrawString(text)
	return strip
}
