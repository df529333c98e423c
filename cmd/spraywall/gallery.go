package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/assets"
	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/gallery"
)

func galleryCmd(r *root) *cobra.Command {
	var (
		sheet      string
		exportDir  string
		frameWidth int
	)
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Show the latest artwork of every frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := frames.NewRegistry(r.config.FrameSlots())
			state, err := loadState(ctx, r)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), reg.Slots(), state)

			n := r.notifier()
			if sheet != "" {
				opts := gallery.DefaultSheetOptions()
				if frameWidth > 0 {
					opts.FrameWidth = frameWidth
				}
				opts.Aspect = float64(r.config.CanvasHeight) / float64(r.config.CanvasWidth)
				pal, err := r.config.SheetPalette()
				if err != nil {
					return err
				}
				opts.Theme = pal
				wall, _ := assets.NewLoader().Background(ctx, r.config.Background, r.config.CanvasWidth, r.config.CanvasHeight)
				img := gallery.RenderSheet(state, reg.Slots(), wall, nil, opts)
				data, err := artwork.EncodePNG(img)
				if err != nil {
					return err
				}
				if err := os.WriteFile(sheet, data, 0o644); err != nil {
					return fmt.Errorf("failed to save file: %w", err)
				}
				n.Exported(sheet)
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", sheet)
			}
			if exportDir != "" {
				paths, err := gallery.WriteFrames(exportDir, state)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", p)
				}
				if len(paths) > 0 {
					n.Exported(exportDir)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "render all frames side by side into this PNG")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "write each occupied frame's image into this directory")
	cmd.Flags().IntVar(&frameWidth, "frame-width", 0, "width of each frame on the sheet")
	return cmd
}

// loadState reconstructs the display state through the configured boundary.
func loadState(ctx context.Context, r *root) (artwork.DisplayState, error) {
	b, closeFn, err := r.boundary(ctx)
	if err != nil {
		return artwork.EmptyDisplayState(), err
	}
	defer closeFn()
	return gallery.New(b, gallery.WithRetry(r.config.RetryPolicy())).Load(ctx), nil
}

func printState(w io.Writer, slots []frames.Slot, state artwork.DisplayState) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tTITLE\tARTIST\tCREATED\tID")
	for _, s := range slots {
		rec := state[s.Index]
		if rec == nil {
			fmt.Fprintf(tw, "%s\t(empty)\t\t\t\n", s.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, rec.Title, rec.ArtistName, rec.CreatedAt.Local().Format(time.DateTime), rec.ID)
	}
	_ = tw.Flush()
}
