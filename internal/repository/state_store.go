package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
)

// StateSlotKey names the single persisted slot in every backend.
const StateSlotKey = "dncCheckerState"

// StateStore persists the one-slot batch snapshot. Load returns nil, nil
// when nothing has been saved.
type StateStore interface {
	Load(ctx context.Context) (*domain.SavedState, error)
	Save(ctx context.Context, state domain.SavedState) error
	Clear(ctx context.Context) error
}

func EncodeSavedState(state domain.SavedState) ([]byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode saved state: %w", err)
	}
	return payload, nil
}

// DecodeSavedState parses a persisted snapshot and fills missing buckets.
func DecodeSavedState(payload []byte) (*domain.SavedState, error) {
	var state domain.SavedState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode saved state: %w", err)
	}

	if state.Numbers == nil {
		state.Numbers = []string{}
	}
	if state.Results != nil {
		results := domain.NewResults()
		results.Clean = append(results.Clean, state.Results.Clean...)
		results.DNC = append(results.DNC, state.Results.DNC...)
		results.Invalid = append(results.Invalid, state.Results.Invalid...)
		state.Results = &results
	}

	return &state, nil
}

// MemoryStateStore keeps the encoded snapshot in process memory.
type MemoryStateStore struct {
	mu      sync.RWMutex
	payload []byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) Load(ctx context.Context) (*domain.SavedState, error) {
	s.mu.RLock()
	payload := s.payload
	s.mu.RUnlock()

	if payload == nil {
		return nil, nil
	}
	return DecodeSavedState(payload)
}

func (s *MemoryStateStore) Save(ctx context.Context, state domain.SavedState) error {
	payload, err := EncodeSavedState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.payload = nil
	s.mu.Unlock()
	return nil
}
