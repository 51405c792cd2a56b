package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/kursadbilgin/dnc-checker/internal/service"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:       "export <clean|dnc|invalid>",
		Short:     "Write one result bucket to <bucket>_numbers_<date>.txt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"clean", "dnc", "invalid"},
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatusFromString(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			a.restore(cmd.Context())
			results := a.batch.Snapshot().Results

			text, err := service.ExportBucket(results, status)
			if errors.Is(err, domain.ErrNothingToExport) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s numbers to export!\n", status)
				return nil
			}
			if err != nil {
				return err
			}

			path := filepath.Join(dir, service.ExportFileName(status, time.Now()))
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s numbers to %s\n", len(results.Bucket(status)), status, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the export file to")

	return cmd
}
