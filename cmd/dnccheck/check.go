package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kursadbilgin/dnc-checker/internal/cli"
	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var file, metricsFile string

	cmd := &cobra.Command{
		Use:   "check [numbers...]",
		Short: "Check phone numbers and sort them into clean, dnc and invalid",
		Long: `Check reads numbers from the arguments, from --file, or from piped stdin.
Numbers may be separated by commas, newlines or whitespace. Without any input
the saved number list from the previous run is checked again.

The first interrupt stops the batch after the number in flight; a second
interrupt aborts immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, file, metricsFile)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read numbers from a file (- for stdin)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write lookup metrics to a Prometheus textfile when done")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, file string, metricsFile string) error {
	out := cmd.OutOrStdout()

	a, err := newApp(cli.NewProgressObserver(cmd.ErrOrStderr(), nil))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a.restore(ctx)

	input, err := readInput(cmd, args, file)
	if err != nil {
		return err
	}

	numbers := domain.NormalizeNumbers(input)
	if len(numbers) == 0 && strings.TrimSpace(input) == "" {
		numbers = a.batch.Snapshot().Numbers
	}
	if len(numbers) == 0 {
		return domain.ErrNothingToCheck
	}

	stopSignals := handleInterrupts(ctx, a, cancel)
	defer stopSignals()

	fmt.Fprintf(out, "Checking %d numbers...\n", len(numbers))
	if _, err := a.batch.Run(ctx, numbers); err != nil {
		return err
	}

	if metricsFile != "" {
		if err := a.metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// handleInterrupts maps the first SIGINT/SIGTERM to a cooperative stop and
// the second to cancellation.
func handleInterrupts(ctx context.Context, a *app, cancel context.CancelFunc) func() {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		stopped := false
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-signals:
				if !stopped {
					stopped = true
					a.logger.Info("stop requested, finishing current number")
					a.batch.Stop()
					continue
				}
				a.logger.Info("aborting batch")
				cancel()
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	parts := make([]string, 0, 2)
	if len(args) > 0 {
		parts = append(parts, strings.Join(args, "\n"))
	}

	switch {
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		parts = append(parts, string(data))
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		parts = append(parts, string(data))
	case len(args) == 0 && stdinIsPiped(cmd.InOrStdin()):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		parts = append(parts, string(data))
	}

	return strings.Join(parts, "\n"), nil
}

func stdinIsPiped(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
