// Package spray deposits stochastic spray-can paint onto a raster surface,
// honouring a paintability mask per particle.
package spray

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Brush radius bounds in surface units.
const (
	MinRadius = 2
	MaxRadius = 20
)

// Brush describes one spray can. Only Radius is meant to change during a
// session; the rest is fixed per composition run.
type Brush struct {
	Color       color.RGBA
	Radius      float64
	Density     int
	GlowBlur    int
	GlowOpacity float64
}

// NeonBlue is the default paint colour.
var NeonBlue = color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}

// DefaultBrush returns the wall's standard neon spray can.
func DefaultBrush() Brush {
	return Brush{
		Color:       NeonBlue,
		Radius:      15,
		Density:     100,
		GlowBlur:    20,
		GlowOpacity: 0.15,
	}
}

// ClampRadius bounds r to [MinRadius, MaxRadius].
func ClampRadius(r float64) float64 {
	if r < MinRadius {
		return MinRadius
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}

// WithRadius returns a copy of b with a clamped radius.
func (b Brush) WithRadius(r float64) Brush {
	b.Radius = ClampRadius(r)
	return b
}

// ParseColor accepts a colour name (CSS names) or #RRGGBB / #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(spec, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// FormatColor renders c in the form ParseColor accepts.
func FormatColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
