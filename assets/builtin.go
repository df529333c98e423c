// Package assets generates the wall's builtin artwork: the brick background
// and the four frame masks. Generated images are cached per size.
package assets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
)

// MaskCount is the number of builtin masks.
const MaskCount = 4

// Builtin mask shapes, in slot order.
var MaskNames = [MaskCount]string{"panel", "disc", "arch", "diamond"}

type key struct {
	kind string
	w, h int
}

var (
	cacheMu sync.Mutex
	cache   = map[key]image.Image{}
)

func cached(k key, build func() image.Image) image.Image {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if img, ok := cache[k]; ok {
		return img
	}
	img := build()
	cache[k] = img
	return img
}

// Background returns the builtin brick wall at w x h. Callers must not
// modify the returned image.
func Background(w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid background size %dx%d", w, h)
	}
	return cached(key{"background", w, h}, func() image.Image { return drawWall(w, h) }), nil
}

// Mask returns builtin mask idx at w x h. Opaque pixels are paintable.
// Callers must not modify the returned image.
func Mask(idx, w, h int) (image.Image, error) {
	if idx < 0 || idx >= MaskCount {
		return nil, fmt.Errorf("builtin mask %d not found", idx)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", w, h)
	}
	return cached(key{MaskNames[idx], w, h}, func() image.Image { return drawMask(idx, w, h) }), nil
}

func drawWall(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB255(0x2b, 0x2b, 0x30)
	dc.Clear()

	brickH := math.Max(float64(h)/12, 8)
	brickW := brickH * 2.2
	mortar := math.Max(brickH/10, 1)
	for row := 0; float64(row)*brickH < float64(h); row++ {
		y := float64(row) * brickH
		offset := 0.0
		if row%2 == 1 {
			offset = -brickW / 2
		}
		for x := offset; x < float64(w); x += brickW {
			shade := 0x55 + (row*7+int(x/brickW)*13)%24
			dc.SetRGB255(shade, shade/2+0x10, shade/3+0x10)
			dc.DrawRectangle(x+mortar/2, y+mortar/2, brickW-mortar, brickH-mortar)
			dc.Fill()
		}
	}
	return dc.Image()
}

func drawMask(idx, w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	fw, fh := float64(w), float64(h)
	cx, cy := fw/2, fh/2
	switch idx {
	case 0:
		mx, my := fw*0.08, fh*0.08
		dc.DrawRoundedRectangle(mx, my, fw-2*mx, fh-2*my, math.Min(fw, fh)*0.05)
	case 1:
		dc.DrawEllipse(cx, cy, fw*0.42, fh*0.42)
	case 2:
		r := math.Min(fw*0.35, fh*0.4)
		top := fh*0.08 + r
		dc.DrawArc(cx, top, r, math.Pi, 2*math.Pi)
		dc.LineTo(cx+r, fh*0.92)
		dc.LineTo(cx-r, fh*0.92)
		dc.ClosePath()
	case 3:
		dc.MoveTo(cx, fh*0.06)
		dc.LineTo(fw*0.94, cy)
		dc.LineTo(cx, fh*0.94)
		dc.LineTo(fw*0.06, cy)
		dc.ClosePath()
	}
	dc.Fill()
	return dc.Image()
}
