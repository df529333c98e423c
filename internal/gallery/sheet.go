package gallery

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"

	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/render"
	"github.com/example/spraywall/internal/theme"
)

// SheetOptions lays out the gallery sheet.
type SheetOptions struct {
	// FrameWidth is the width of each frame on the sheet.
	FrameWidth int
	// Aspect is the surface height divided by its width.
	Aspect float64
	Margin int
	Border int
	Shadow render.ShadowOptions
	// Theme colors the sheet; nil means theme.Default.
	Theme *theme.Theme
}

// DefaultSheetOptions matches the 2:1 wall surface.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		FrameWidth: 320,
		Aspect:     0.5,
		Margin:     40,
		Border:     4,
		Shadow:     render.DefaultShadowOptions(),
		Theme:      theme.Default(),
	}
}

// RenderSheet draws every slot side by side over wall. Occupied frames show
// their artwork; empty frames show background, or wall when background is
// nil.
func RenderSheet(state artwork.DisplayState, slots []frames.Slot, wall, background image.Image, opts SheetOptions) *image.RGBA {
	if opts.FrameWidth <= 0 {
		opts = DefaultSheetOptions()
	}
	pal := opts.Theme
	if pal == nil {
		pal = theme.Default()
	}
	fw := opts.FrameWidth
	fh := int(float64(fw)*opts.Aspect + 0.5)
	n := len(slots)
	w := n*fw + (n+1)*opts.Margin
	h := fh + 2*opts.Margin + render.LabelHeight + 8

	sheet := image.NewRGBA(image.Rect(0, 0, w, h))
	if wall != nil {
		xdraw.ApproxBiLinear.Scale(sheet, sheet.Bounds(), wall, wall.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(sheet, sheet.Bounds(), image.NewUniform(pal.Wall), image.Point{}, draw.Src)
	}
	if background == nil {
		background = wall
	}

	for i, slot := range slots {
		x := opts.Margin + i*(fw+opts.Margin)
		rect := image.Rect(x, opts.Margin, x+fw, opts.Margin+fh)
		render.DrawShadow(sheet, rect, opts.Shadow)

		content := background
		if rec := state[slot.Index]; rec != nil {
			img, err := rec.Image()
			if err != nil {
				log.Warn().Err(err).Int("frame_index", slot.Index).Str("record_id", rec.ID).Msg("undecodable artwork, showing background")
			} else {
				content = img
			}
		}
		if content != nil {
			xdraw.CatmullRom.Scale(sheet, rect, content, content.Bounds(), draw.Src, nil)
		} else {
			draw.Draw(sheet, rect, image.NewUniform(pal.EmptyFrame), image.Point{}, draw.Src)
		}
		render.DrawBorder(sheet, rect, pal.FrameBorder, opts.Border)
		render.DrawLabel(sheet, image.Pt(x, rect.Max.Y+6), caption(slot, state[slot.Index]), pal.LabelText, pal.LabelBackground)
	}
	return sheet
}

func caption(slot frames.Slot, rec *artwork.Record) string {
	if rec == nil {
		return slot.Name + " - empty"
	}
	if rec.ArtistName != "" {
		return fmt.Sprintf("%s - %s by %s", slot.Name, rec.Title, rec.ArtistName)
	}
	return fmt.Sprintf("%s - %s", slot.Name, rec.Title)
}

// WriteFrames writes the image of every occupied frame into dir as
// frame-N.<ext> and returns the written paths.
func WriteFrames(dir string, state artwork.DisplayState) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for i := 0; i < artwork.FrameCount; i++ {
		rec := state[i]
		if rec == nil {
			continue
		}
		mediaType, data, err := artwork.SplitDataURI(rec.ArtworkData)
		if err != nil {
			return paths, fmt.Errorf("frame %d: %w", i, err)
		}
		ext := strings.TrimPrefix(mediaType, "image/")
		if ext == "jpeg" {
			ext = "jpg"
		}
		path := filepath.Join(dir, fmt.Sprintf("frame-%d.%s", i+1, ext))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
