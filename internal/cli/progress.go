package cli

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ProgressObserver renders batch progress as a terminal progress bar and
// prints the completion summary.
type ProgressObserver struct {
	writer io.Writer
	logger *zap.Logger

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func NewProgressObserver(writer io.Writer, logger *zap.Logger) *ProgressObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressObserver{writer: writer, logger: logger}
}

func (p *ProgressObserver) OnResult(domain.LookupResult) {}

func (p *ProgressObserver) OnProgress(current int, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Checking numbers..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					p.logger.Warn("failed to write newline after progress bar", zap.Error(err))
				}
			}),
		)
	}

	if err := p.bar.Set(current); err != nil {
		p.logger.Warn("failed to update progress bar", zap.Error(err))
	}
}

func (p *ProgressObserver) OnComplete(summary domain.BatchSummary) {
	p.mu.Lock()
	if p.bar != nil && summary.Canceled {
		if err := p.bar.Exit(); err != nil {
			p.logger.Warn("failed to close progress bar", zap.Error(err))
		}
		if _, err := fmt.Fprintln(p.writer); err != nil {
			p.logger.Warn("failed to write output", zap.Error(err))
		}
	}
	p.bar = nil
	p.mu.Unlock()

	if err := WriteSummary(p.writer, summary); err != nil {
		p.logger.Warn("failed to write summary", zap.Error(err))
	}
}

// WriteSummary prints bucket counts and elapsed whole seconds.
func WriteSummary(w io.Writer, summary domain.BatchSummary) error {
	title := "Processing complete!"
	if summary.Canceled {
		title = fmt.Sprintf("Processing stopped after %d of %d numbers.", summary.Processed, summary.Total)
	}

	_, err := fmt.Fprintf(w,
		"%s\n\nResults:\n  Clean:   %d\n  DNC:     %d\n  Invalid: %d\n  Clean rate: %d%%\n\nTime: %d seconds\n",
		title,
		summary.Clean,
		summary.DNC,
		summary.Invalid,
		summary.CleanRate,
		int(math.Round(summary.Elapsed.Seconds())),
	)
	return err
}
