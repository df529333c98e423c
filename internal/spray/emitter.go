package spray

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"

	"github.com/example/spraywall/internal/mask"
	"github.com/example/spraywall/internal/render"
)

// DripChance is the probability that one spray deposit also runs a drip.
const DripChance = 0.15

type layer struct {
	spread  float64 // disc radius as a fraction of the brush radius
	share   float64 // particle count as a fraction of density
	minSize float64
	maxSize float64
	opacity float64
}

var layers = [...]layer{
	{spread: 0.3, share: 1, minSize: 0.5, maxSize: 2.0, opacity: 0.8},
	{spread: 0.6, share: 0.5, minSize: 0.75, maxSize: 2.25, opacity: 0.6},
	{spread: 1.0, share: 0.25, minSize: 1.0, maxSize: 3.0, opacity: 0.3},
}

const glowSpread = 0.7

// Stats summarises one deposit.
type Stats struct {
	Placed     int
	Rejected   int
	Drip       bool
	GlowPixels int
}

// Emitter owns the random source used for particle placement. It is not
// safe for concurrent use; one session drives one emitter.
type Emitter struct {
	rng        *rand.Rand
	dripChance float64

	// dc rasterises into dcDst clipped by dcMask; rebuilt when either changes.
	dc     *gg.Context
	dcDst  *image.RGBA
	dcMask *mask.Mask
}

// EmitterOption customises an Emitter.
type EmitterOption func(*Emitter)

// WithDripChance overrides DripChance, mainly for tests.
func WithDripChance(p float64) EmitterOption {
	return func(e *Emitter) { e.dripChance = p }
}

// NewEmitter returns an emitter drawing randomness from rng. A nil rng gets
// a randomly seeded PCG source.
func NewEmitter(rng *rand.Rand, opts ...EmitterOption) *Emitter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e := &Emitter{rng: rng, dripChance: DripChance}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewSeededEmitter returns an emitter whose output is fully determined by seed.
func NewSeededEmitter(seed uint64, opts ...EmitterOption) *Emitter {
	return NewEmitter(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// Spray deposits one spray sample centred at (x, y) in surface coordinates.
// Every particle is checked against m before it is drawn, and the rasteriser
// additionally clips coverage to m so antialiased edges never reach a
// protected pixel. A nil mask paints everywhere. m, when set, must match the
// surface size.
func (e *Emitter) Spray(dst *image.RGBA, m *mask.Mask, x, y float64, b Brush) Stats {
	var st Stats
	if dst == nil || dst.Bounds().Empty() {
		return st
	}
	radius := ClampRadius(b.Radius)
	dc := e.context(dst, m)

	for _, l := range layers {
		n := int(math.Round(float64(b.Density) * l.share))
		setColor(dc, b.Color, l.opacity)
		for i := 0; i < n; i++ {
			px, py := e.inDisc(x, y, radius*l.spread)
			size := l.minSize + e.rng.Float64()*(l.maxSize-l.minSize)
			if !m.At(px, py) {
				st.Rejected++
				continue
			}
			dc.DrawCircle(px, py, size)
			dc.Fill()
			st.Placed++
		}
	}

	if e.rng.Float64() < e.dripChance {
		st.Drip = true
		e.drip(dc, m, x, y, radius, b.Color, &st)
	}

	st.GlowPixels = e.glow(dst, m, x, y, radius, b)
	return st
}

// context returns a rasteriser for dst clipped by m, reusing the previous
// one while the pair is unchanged.
func (e *Emitter) context(dst *image.RGBA, m *mask.Mask) *gg.Context {
	if e.dc != nil && e.dcDst == dst && e.dcMask == m {
		return e.dc
	}
	dc := gg.NewContextForRGBA(dst)
	if clip := m.Clip(); clip != nil && clip.Bounds() == dst.Bounds() {
		// SetMask only fails on a size mismatch, ruled out above.
		_ = dc.SetMask(clip)
	}
	e.dc, e.dcDst, e.dcMask = dc, dst, m
	return dc
}

// drip runs a gravity trail below the centre. Width and opacity taper to
// zero with distance.
func (e *Emitter) drip(dc *gg.Context, m *mask.Mask, x, y, radius float64, col color.RGBA, st *Stats) {
	length := radius * (1.5 + 1.5*e.rng.Float64())
	maxWidth := 0.35 * radius
	x0 := x + (e.rng.Float64()*2-1)*0.3*radius
	y0 := y + 0.3*radius*e.rng.Float64()
	for d := 0.0; d < length; d++ {
		t := d / length
		w := maxWidth * (1 - t)
		setColor(dc, col, 0.7*(1-t))
		n := 1 + int(w)
		for i := 0; i < n; i++ {
			px := x0 + (e.rng.Float64()*2-1)*w
			py := y0 + d
			size := 0.5 + (1-t)*1.5*e.rng.Float64()
			if !m.At(px, py) {
				st.Rejected++
				continue
			}
			dc.DrawCircle(px, py, size)
			dc.Fill()
			st.Placed++
		}
	}
}

// glow adds a blurred bloom using additive (plus) compositing, restricted to
// paintable pixels. It returns how many pixels received light.
func (e *Emitter) glow(dst *image.RGBA, m *mask.Mask, x, y, radius float64, b Brush) int {
	if b.GlowOpacity <= 0 || b.Density <= 0 {
		return 0
	}
	blur := b.GlowBlur / 4
	if blur < 1 {
		blur = 1
	}
	half := int(math.Ceil(radius*glowSpread)) + blur + 2
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	area := image.Rect(cx-half, cy-half, cx+half+1, cy+half+1).Intersect(dst.Bounds())
	if area.Empty() {
		return 0
	}

	seeds := image.NewGray(image.Rect(0, 0, area.Dx(), area.Dy()))
	for i := 0; i < b.Density/2; i++ {
		px, py := e.inDisc(x, y, radius*glowSpread)
		size := 0.5 + 1.5*e.rng.Float64()
		if !m.At(px, py) {
			continue
		}
		stampDisc(seeds, px-float64(area.Min.X), py-float64(area.Min.Y), size)
	}
	blurred := render.BlurGray(seeds, blur)

	lit := 0
	for yy := 0; yy < area.Dy(); yy++ {
		for xx := 0; xx < area.Dx(); xx++ {
			v := blurred.Pix[yy*blurred.Stride+xx]
			if v == 0 {
				continue
			}
			sx, sy := area.Min.X+xx, area.Min.Y+yy
			if !m.At(float64(sx), float64(sy)) {
				continue
			}
			k := float64(v) / 255 * b.GlowOpacity
			addPixel(dst, sx, sy, b.Color, k)
			lit++
		}
	}
	return lit
}

func (e *Emitter) inDisc(x, y, r float64) (float64, float64) {
	d := r * math.Sqrt(e.rng.Float64())
	theta := 2 * math.Pi * e.rng.Float64()
	return x + d*math.Cos(theta), y + d*math.Sin(theta)
}

func setColor(dc *gg.Context, c color.RGBA, opacity float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255*opacity)
}

func stampDisc(dst *image.Gray, x, y, r float64) {
	b := dst.Bounds()
	x0, x1 := int(math.Floor(x-r)), int(math.Ceil(x+r))
	y0, y1 := int(math.Floor(y-r)), int(math.Ceil(y+r))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			if !image.Pt(px, py).In(b) {
				continue
			}
			dx := float64(px) + 0.5 - x
			dy := float64(py) + 0.5 - y
			if dx*dx+dy*dy <= r*r+0.25 {
				dst.Pix[py*dst.Stride+px] = 0xff
			}
		}
	}
}

// addPixel implements "lighter" compositing on premultiplied RGBA.
func addPixel(dst *image.RGBA, x, y int, c color.RGBA, k float64) {
	i := dst.PixOffset(x, y)
	a := float64(c.A) / 255 * k
	p := dst.Pix[i : i+4 : i+4]
	p[0] = addClamp(p[0], float64(c.R)*a)
	p[1] = addClamp(p[1], float64(c.G)*a)
	p[2] = addClamp(p[2], float64(c.B)*a)
	p[3] = addClamp(p[3], 255*a)
}

func addClamp(v uint8, d float64) uint8 {
	s := float64(v) + d + 0.5
	if s >= 255 {
		return 255
	}
	return uint8(s)
}
