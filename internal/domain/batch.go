package domain

import (
	"math"
	"time"
)

// SavedStateMaxAge bounds how old persisted results may be and still be restored.
const SavedStateMaxAge = time.Hour

// BatchState is the owned state of a batch run.
type BatchState struct {
	ID         string
	Numbers    []string
	Results    Results
	Processing bool
	StartedAt  *time.Time
	Total      int
	Processed  int
}

func (s BatchState) Clone() BatchState {
	clone := s
	clone.Numbers = append([]string{}, s.Numbers...)
	clone.Results = s.Results.Clone()
	if s.StartedAt != nil {
		startedAt := *s.StartedAt
		clone.StartedAt = &startedAt
	}
	return clone
}

// Summary computes statistics as of now.
func (s BatchState) Summary(now time.Time) BatchSummary {
	summary := BatchSummary{
		Total:     s.Total,
		Processed: s.Processed,
		Clean:     len(s.Results.Clean),
		DNC:       len(s.Results.DNC),
		Invalid:   len(s.Results.Invalid),
	}
	if summary.Processed > 0 {
		summary.CleanRate = int(math.Round(float64(summary.Clean) / float64(summary.Processed) * 100))
	}
	if s.StartedAt != nil {
		summary.Elapsed = now.Sub(*s.StartedAt)
	}
	return summary
}

// BatchSummary is the statistics view shown at completion.
type BatchSummary struct {
	Total     int
	Processed int
	Clean     int
	DNC       int
	Invalid   int
	CleanRate int
	Elapsed   time.Duration
	Canceled  bool
}

// SavedState is the persisted one-slot snapshot.
type SavedState struct {
	Numbers   []string  `json:"numbers"`
	Results   *Results  `json:"results,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsFresh reports whether the saved results are recent enough to restore.
func (s SavedState) IsFresh(now time.Time) bool {
	return now.Sub(s.Timestamp) < SavedStateMaxAge
}
