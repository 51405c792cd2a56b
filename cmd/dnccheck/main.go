package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dnccheck",
	Short: "Check US phone numbers against do-not-call lookup services",
	Long: `dnccheck normalizes a list of US phone numbers, checks each one against the
upstream lookup services in order, and sorts them into clean, dnc and invalid
buckets. Results are saved between runs and can be exported or copied.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(copyCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(sampleCmd())
	rootCmd.AddCommand(watchCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
