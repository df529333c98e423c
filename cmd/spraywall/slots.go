package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/frames"
)

func slotsCmd(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List frame slots, their masks and occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := frames.NewRegistry(r.config.FrameSlots())
			state, err := loadState(cmd.Context(), r)
			if err != nil {
				return err
			}
			reg.Refresh(state)
			occupied := reg.Occupancy()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tNAME\tMASK\tSTATUS")
			for _, s := range reg.Slots() {
				status := "empty"
				if occupied[s.Index] {
					status = "occupied"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Index, s.Name, s.MaskRef, status)
			}
			return tw.Flush()
		},
	}
}
