package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/kursadbilgin/dnc-checker/internal/service"
	"github.com/spf13/cobra"
)

func copyCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy all buckets to the clipboard as labeled sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			a.restore(cmd.Context())
			text := service.FormatAllResults(a.batch.Snapshot().Results)

			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("failed to copy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All results copied to clipboard!")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the sections instead of copying them")

	return cmd
}
