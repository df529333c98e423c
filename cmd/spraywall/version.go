package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spraywall version %s", version)
			if commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s", commit)
				if date != "" {
					fmt.Fprintf(cmd.OutOrStdout(), ", %s", date)
				}
				fmt.Fprint(cmd.OutOrStdout(), ")")
			}
			fmt.Fprintf(cmd.OutOrStdout(), " %s\n", runtime.Version())
		},
	}
}
