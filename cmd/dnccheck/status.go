package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved numbers and result counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			restored := a.restore(cmd.Context())
			state := a.batch.Snapshot()
			out := cmd.OutOrStdout()

			if len(state.Numbers) == 0 && !restored {
				fmt.Fprintln(out, "No saved state.")
				return nil
			}

			summary := a.batch.Summary()
			fmt.Fprintf(out, "Saved numbers: %d\n", len(state.Numbers))
			if !restored {
				fmt.Fprintln(out, "No recent results (results older than one hour are discarded).")
				return nil
			}
			fmt.Fprintf(out, "Processed: %d\n  Clean:   %d\n  DNC:     %d\n  Invalid: %d\n  Clean rate: %d%%\n",
				summary.Processed, summary.Clean, summary.DNC, summary.Invalid, summary.CleanRate)
			return nil
		},
	}
}
