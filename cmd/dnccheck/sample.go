package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sampleNumbers = []string{
	"+12345678901",
	"+12345678902",
	"+12345678903",
	"+12345678904",
	"+12345678905",
	"+12345678906",
	"+12345678907",
	"+12345678908",
	"+12345678909",
	"+12345678910",
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print sample numbers, one per line",
		Long:  "Print sample numbers, one per line. Pipe them into check: dnccheck sample | dnccheck check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, number := range sampleNumbers {
				fmt.Fprintln(cmd.OutOrStdout(), number)
			}
			return nil
		},
	}
}
