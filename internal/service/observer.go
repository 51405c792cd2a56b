package service

import "github.com/kursadbilgin/dnc-checker/internal/domain"

// BatchObserver receives batch events. Calls happen on the batch goroutine,
// in order, and must not block for long.
type BatchObserver interface {
	OnResult(result domain.LookupResult)
	OnProgress(current int, total int)
	// OnComplete fires once per run; summary.Canceled marks a stopped run.
	OnComplete(summary domain.BatchSummary)
}

type NopObserver struct{}

func (NopObserver) OnResult(domain.LookupResult)   {}
func (NopObserver) OnProgress(int, int)            {}
func (NopObserver) OnComplete(domain.BatchSummary) {}

// Observers fans events out to every member in order.
type Observers []BatchObserver

func (o Observers) OnResult(result domain.LookupResult) {
	for _, observer := range o {
		observer.OnResult(result)
	}
}

func (o Observers) OnProgress(current int, total int) {
	for _, observer := range o {
		observer.OnProgress(current, total)
	}
}

func (o Observers) OnComplete(summary domain.BatchSummary) {
	for _, observer := range o {
		observer.OnComplete(summary)
	}
}
