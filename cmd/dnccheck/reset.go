package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved numbers and results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.batch.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved state cleared.")
			return nil
		},
	}
}
