package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/dnc-checker/internal/domain"
	"github.com/kursadbilgin/dnc-checker/internal/observability"
	"github.com/kursadbilgin/dnc-checker/internal/repository"
	"go.uber.org/zap"
)

const (
	batchOutcomeCompleted = "completed"
	batchOutcomeCanceled  = "canceled"
)

// NumberChecker classifies a single number.
type NumberChecker interface {
	Check(ctx context.Context, number string) domain.LookupResult
}

// BatchService runs numbers through the checker one at a time and owns the
// batch state. At most one batch runs at a time.
type BatchService struct {
	checker  NumberChecker
	store    repository.StateStore
	observer BatchObserver
	logger   *zap.Logger
	metrics  *observability.Metrics
	delay    time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	newID    func() string

	mu    sync.Mutex
	state domain.BatchState
	stop  atomic.Bool
}

func NewBatchService(
	checker NumberChecker,
	store repository.StateStore,
	observer BatchObserver,
	delay time.Duration,
	logger *zap.Logger,
) (*BatchService, error) {
	if checker == nil {
		return nil, fmt.Errorf("checker is required")
	}
	if store == nil {
		store = repository.NewMemoryStateStore()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	if delay < 0 {
		delay = defaultRequestDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchService{
		checker:  checker,
		store:    store,
		observer: observer,
		logger:   logger,
		delay:    delay,
		now:      time.Now,
		sleep:    sleepWithContext,
		newID:    uuid.NewString,
		state:    domain.BatchState{Results: domain.NewResults()},
	}, nil
}

func (s *BatchService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Run processes numbers sequentially. It returns ErrNothingToCheck for an
// empty list and ErrBatchInProgress, without touching state, when another
// run is active. A stopped run returns its partial summary with Canceled set.
func (s *BatchService) Run(ctx context.Context, numbers []string) (domain.BatchSummary, error) {
	if len(numbers) == 0 {
		return domain.BatchSummary{}, domain.ErrNothingToCheck
	}

	s.mu.Lock()
	if s.state.Processing {
		s.mu.Unlock()
		return domain.BatchSummary{}, domain.ErrBatchInProgress
	}
	startedAt := s.now()
	s.state = domain.BatchState{
		ID:         s.newID(),
		Numbers:    append([]string{}, numbers...),
		Results:    domain.NewResults(),
		Processing: true,
		StartedAt:  &startedAt,
		Total:      len(numbers),
	}
	batchID := s.state.ID
	s.stop.Store(false)
	s.mu.Unlock()

	logger := s.logger.With(zap.String("batchId", batchID))
	logger.Info("batch started", zap.Int("total", len(numbers)))

	// Persistence outlives a canceled run context.
	persistCtx := context.WithoutCancel(ctx)
	s.persist(persistCtx)

	canceled := false
	for i, number := range numbers {
		if s.stop.Load() || ctx.Err() != nil {
			canceled = true
			break
		}

		result := s.checker.Check(ctx, number)
		if ctx.Err() != nil {
			logger.Info("dropping aborted lookup", zap.String("number", number))
			canceled = true
			break
		}

		s.mu.Lock()
		s.state.Results.Add(result)
		s.state.Processed = i + 1
		s.mu.Unlock()

		s.metrics.IncLookupResult(result.Status.String())
		s.observer.OnResult(result)
		s.observer.OnProgress(i+1, len(numbers))
		s.persist(persistCtx)

		if i < len(numbers)-1 {
			if err := s.sleep(ctx, s.delay); err != nil {
				canceled = true
				break
			}
		}
	}

	s.mu.Lock()
	s.state.Processing = false
	summary := s.state.Summary(s.now())
	s.mu.Unlock()
	summary.Canceled = canceled

	s.persist(persistCtx)

	outcome := batchOutcomeCompleted
	if canceled {
		outcome = batchOutcomeCanceled
	}
	s.metrics.IncBatch(outcome)
	logger.Info("batch finished",
		zap.String("outcome", outcome),
		zap.Int("processed", summary.Processed),
		zap.Int("clean", summary.Clean),
		zap.Int("dnc", summary.DNC),
		zap.Int("invalid", summary.Invalid),
		zap.Duration("elapsed", summary.Elapsed),
	)

	s.observer.OnComplete(summary)
	return summary, nil
}

// Stop asks a running batch to finish after the current number. It reports
// whether a batch was running.
func (s *BatchService) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Processing {
		return false
	}
	s.stop.Store(true)
	return true
}

func (s *BatchService) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Processing
}

// CurrentID returns the id of the running or most recent batch.
func (s *BatchService) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ID
}

func (s *BatchService) Snapshot() domain.BatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *BatchService) Summary() domain.BatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Summary(s.now())
}

// Restore loads the saved snapshot. Numbers are always restored; results
// only when the snapshot is younger than domain.SavedStateMaxAge. Unreadable
// state is logged and treated as absent. It reports whether results were
// restored.
func (s *BatchService) Restore(ctx context.Context) (bool, error) {
	saved, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load saved state, starting fresh", zap.Error(err))
		return false, nil
	}
	if saved == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Processing {
		return false, domain.ErrBatchInProgress
	}

	state := domain.BatchState{
		Numbers: append([]string{}, saved.Numbers...),
		Results: domain.NewResults(),
		Total:   len(saved.Numbers),
	}

	restoredResults := false
	if saved.Results != nil && saved.IsFresh(s.now()) {
		state.Results = saved.Results.Clone()
		state.Processed = state.Results.Len()
		if state.Processed > state.Total {
			state.Total = state.Processed
		}
		restoredResults = true
	}

	s.state = state
	return restoredResults, nil
}

// Reset discards the in-memory state and the saved slot.
func (s *BatchService) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Processing {
		s.mu.Unlock()
		return domain.ErrBatchInProgress
	}
	s.state = domain.BatchState{Results: domain.NewResults()}
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear saved state: %w", err)
	}
	return nil
}

func (s *BatchService) persist(ctx context.Context) {
	s.mu.Lock()
	results := s.state.Results.Clone()
	saved := domain.SavedState{
		Numbers:   append([]string{}, s.state.Numbers...),
		Results:   &results,
		Timestamp: s.now().UTC(),
	}
	s.mu.Unlock()

	if err := s.store.Save(ctx, saved); err != nil {
		s.logger.Warn("failed to persist batch state", zap.Error(err))
	}
}
