package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/spraywall/internal/store"
)

func pruneCmd(r *root) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old submissions, keeping the newest per frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), r.config.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := store.Prune(cmd.Context(), st, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d records\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 1, "records to keep per frame (at least 1)")
	return cmd
}
