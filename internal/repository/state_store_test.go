package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
)

func sampleSavedState() domain.SavedState {
	results := domain.NewResults()
	results.Add(domain.LookupResult{
		Number:    "+12345678901",
		Status:    domain.StatusDNC,
		Source:    "tcpa",
		Data:      []byte(`{"dnc":true}`),
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	results.Add(domain.LookupResult{
		Number:    "555",
		Status:    domain.StatusInvalid,
		Reason:    domain.ReasonInvalidFormat,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 1, 0, time.UTC),
	})

	return domain.SavedState{
		Numbers:   []string{"+12345678901", "555"},
		Results:   &results,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC),
	}
}

func assertSavedState(t *testing.T, got *domain.SavedState) {
	t.Helper()

	if got == nil {
		t.Fatal("Load() returned nil state")
	}
	if len(got.Numbers) != 2 || got.Numbers[0] != "+12345678901" {
		t.Fatalf("Numbers = %v", got.Numbers)
	}
	if got.Results == nil {
		t.Fatal("Results should be restored")
	}
	if len(got.Results.DNC) != 1 || got.Results.DNC[0].Source != "tcpa" {
		t.Fatalf("DNC bucket = %+v", got.Results.DNC)
	}
	if string(got.Results.DNC[0].Data) != `{"dnc":true}` {
		t.Fatalf("DNC data = %s", got.Results.DNC[0].Data)
	}
	if len(got.Results.Invalid) != 1 || got.Results.Invalid[0].Reason != domain.ReasonInvalidFormat {
		t.Fatalf("Invalid bucket = %+v", got.Results.Invalid)
	}
	if got.Results.Clean == nil {
		t.Fatal("Clean bucket should be an empty slice, not nil")
	}
	if !got.Timestamp.Equal(time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC)) {
		t.Fatalf("Timestamp = %v", got.Timestamp)
	}
}

func TestMemoryStateStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStateStore()

	got, err := store.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on empty store = %v, %v; want nil, nil", got, err)
	}

	if err := store.Save(ctx, sampleSavedState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSavedState(t, got)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := store.Load(ctx); got != nil {
		t.Fatal("Load() after Clear() should be nil")
	}
}

func TestFileStateStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store, err := NewFileStateStore(path)
	if err != nil {
		t.Fatalf("NewFileStateStore() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on missing file = %v, %v; want nil, nil", got, err)
	}

	if err := store.Save(ctx, sampleSavedState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, key := range []string{`"numbers"`, `"results"`, `"clean"`, `"dnc"`, `"invalid"`, `"timestamp"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("state file missing key %s: %s", key, raw)
		}
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSavedState(t, got)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}

func TestFileStateStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store, err := NewFileStateStore(path)
	if err != nil {
		t.Fatalf("NewFileStateStore() error = %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for corrupt file")
	}
}

func TestNewFileStateStoreRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := NewFileStateStore("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDecodeSavedStateWithoutResults(t *testing.T) {
	t.Parallel()

	got, err := DecodeSavedState([]byte(`{"timestamp":"2026-03-01T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("DecodeSavedState() error = %v", err)
	}
	if got.Numbers == nil || len(got.Numbers) != 0 {
		t.Fatalf("Numbers = %v, want empty slice", got.Numbers)
	}
	if got.Results != nil {
		t.Fatalf("Results = %+v, want nil", got.Results)
	}
}
