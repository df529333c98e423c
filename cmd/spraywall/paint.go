package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/api"
	"github.com/example/spraywall/internal/assets"
	"github.com/example/spraywall/internal/canvas"
	"github.com/example/spraywall/internal/clipboard"
	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/gallery"
	"github.com/example/spraywall/internal/spray"
	"github.com/example/spraywall/internal/submit"
)

type point struct{ X, Y float64 }

type paintOptions struct {
	r *root

	slot        int
	strokes     []string
	scribbles   int
	seed        uint64
	viewport    string
	color       string
	radius      float64
	background  string
	output      string
	toClipboard bool
	submit      bool
	meta        submit.Meta
}

func paintCmd(r *root) *cobra.Command {
	p := &paintOptions{r: r}
	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Spray scripted strokes onto a frame",
		Long: `Spray scripted strokes onto a frame and optionally save, copy or submit the result.

Each --stroke is a list of viewport points "x,y x,y ...". Points are mapped from the
--viewport size onto the native surface. A --stroke of "clear" discards everything
painted so far and restores the artwork the frame currently displays.`,
		Example: `  spraywall paint --slot 2 --stroke "10,10 200,40 400,90" --submit --title Tag
  spraywall paint --scribble 20 --seed 7 --output wall.png
  spraywall paint --slot 1 --stroke "5,5 90,90" --stroke clear --output frame.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p.color != "" {
				c, err := spray.ParseColor(p.color)
				if err != nil {
					return err
				}
				r.config.Brush.Color = c
			}
			if cmd.Flags().Changed("radius") {
				r.config.Brush.Radius = spray.ClampRadius(p.radius)
			}
			if p.background != "" {
				r.config.Background = p.background
			}
			return p.Run(cmd.Context(), cmd)
		},
	}
	f := cmd.Flags()
	f.IntVar(&p.slot, "slot", -1, "frame index 0..3; default follows start_slot")
	f.StringArrayVar(&p.strokes, "stroke", nil, `stroke as "x,y x,y ..." in viewport units, or "clear" (repeatable)`)
	f.IntVar(&p.scribbles, "scribble", 0, "add this many random strokes")
	f.Uint64Var(&p.seed, "seed", 0, "seed for spray particles and scribbles; 0 picks one at random")
	f.StringVar(&p.viewport, "viewport", "", "viewport size WxH the stroke points refer to; default is the surface size")
	f.StringVar(&p.color, "color", "", "brush color name or #RRGGBB[AA]")
	f.Float64Var(&p.radius, "radius", spray.DefaultBrush().Radius, "brush radius, clamped to [2, 20]")
	f.StringVar(&p.background, "background", "", `background reference (URL, file, builtin:background or clipboard:)`)
	f.StringVarP(&p.output, "output", "o", "", "write the exported PNG to this file")
	f.BoolVar(&p.toClipboard, "to-clipboard", false, "copy the exported PNG to the clipboard")
	f.BoolVar(&p.submit, "submit", false, "submit the artwork to its frame")
	f.StringVar(&p.meta.Title, "title", "", "artwork title")
	f.StringVar(&p.meta.ArtistName, "artist", "", "artist name")
	return cmd
}

func (p *paintOptions) Run(ctx context.Context, cmd *cobra.Command) error {
	if !p.submit && p.output == "" && !p.toClipboard {
		return errors.New("nothing to do: use --output, --to-clipboard or --submit")
	}
	cfg := p.r.config

	strokes, err := parseStrokes(p.strokes)
	if err != nil {
		return err
	}
	seed := p.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))

	reg := frames.NewRegistry(cfg.FrameSlots())
	slot, err := p.pickSlot(reg, rng)
	if err != nil {
		return err
	}

	opts := []canvas.Option{canvas.WithEmitter(spray.NewSeededEmitter(seed))}
	var (
		b   api.Boundary
		gal *gallery.Reconstructor
	)
	if p.submit || hasClear(strokes) {
		var closeFn func()
		b, closeFn, err = p.r.boundary(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		gal = gallery.New(b, gallery.WithRetry(cfg.RetryPolicy()))
		opts = append(opts, canvas.WithOccupants(gal))
	}

	loader := assets.NewLoader(assets.WithClipboard(clipboard.ReadImage))
	sess := canvas.NewSession(canvas.Config{
		Width:      cfg.CanvasWidth,
		Height:     cfg.CanvasHeight,
		Background: cfg.Background,
		Brush:      cfg.SprayBrush(),
	}, loader, reg, opts...)
	if err := sess.Load(ctx, slot.Index); err != nil {
		return fmt.Errorf("load frame %d: %w", slot.Index, err)
	}

	vw, vh := float64(cfg.CanvasWidth), float64(cfg.CanvasHeight)
	if p.viewport != "" {
		if vw, vh, err = parseSize(p.viewport); err != nil {
			return err
		}
		sess.SetViewport(vw, vh)
	}
	for i := 0; i < p.scribbles; i++ {
		strokes = append(strokes, scribble(rng, vw, vh))
	}
	for _, s := range strokes {
		if s == nil {
			if err := sess.Clear(); err != nil {
				return err
			}
			continue
		}
		paintStroke(sess, s)
	}
	log.Debug().Int("frame_index", slot.Index).Int("strokes", len(strokes)).Uint64("seed", seed).Msg("strokes painted")

	n := p.r.notifier()
	out := cmd.OutOrStdout()
	if p.output != "" {
		data, err := sess.ExportPNG()
		if err != nil {
			return err
		}
		if err := os.WriteFile(p.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to save file: %w", err)
		}
		n.Exported(p.output)
		fmt.Fprintf(out, "saved %s\n", p.output)
	}
	if p.toClipboard {
		img, err := sess.Export()
		if err != nil {
			return err
		}
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		n.Copied(slot.Name, img)
		fmt.Fprintln(out, "copied to clipboard")
	}
	if p.submit {
		reg.Refresh(gal.Load(ctx))
		svc := submit.NewService(b, submit.WithStatus(n))
		rec, err := svc.SubmitSession(ctx, sess, reg, p.meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "submitted %s to %s\n", rec.ID, slot.Name)
	}
	return nil
}

func (p *paintOptions) pickSlot(reg *frames.Registry, rng *rand.Rand) (frames.Slot, error) {
	if p.slot >= 0 {
		return reg.SetSlot(p.slot)
	}
	policy, err := p.r.config.StartPolicy()
	if err != nil {
		return frames.Slot{}, err
	}
	return reg.Start(policy, rng), nil
}

func paintStroke(sess *canvas.Session, pts []point) {
	if len(pts) == 0 {
		return
	}
	sess.StartStroke(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		sess.ContinueStroke(pt.X, pt.Y)
	}
	sess.EndStroke()
}

func scribble(rng *rand.Rand, w, h float64) []point {
	n := 2 + rng.IntN(5)
	pts := make([]point, n)
	for i := range pts {
		pts[i] = point{X: rng.Float64() * w, Y: rng.Float64() * h}
	}
	return pts
}

// clearStroke marks a script step that clears the canvas.
const clearStroke = "clear"

// parseStrokes parses --stroke values. A clear step is returned as a nil
// stroke.
func parseStrokes(specs []string) ([][]point, error) {
	var strokes [][]point
	for _, spec := range specs {
		if strings.EqualFold(strings.TrimSpace(spec), clearStroke) {
			strokes = append(strokes, nil)
			continue
		}
		var pts []point
		for _, field := range strings.Fields(spec) {
			xs, ys, ok := strings.Cut(field, ",")
			if !ok {
				return nil, fmt.Errorf("invalid stroke point %q: want x,y", field)
			}
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid stroke point %q: %w", field, err)
			}
			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid stroke point %q: %w", field, err)
			}
			pts = append(pts, point{X: x, Y: y})
		}
		if len(pts) == 0 {
			return nil, fmt.Errorf("empty stroke")
		}
		strokes = append(strokes, pts)
	}
	return strokes, nil
}

func hasClear(strokes [][]point) bool {
	for _, s := range strokes {
		if s == nil {
			return true
		}
	}
	return false
}

func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	return w, h, nil
}
