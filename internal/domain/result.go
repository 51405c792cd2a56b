package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the tri-state classification of a looked-up number.
type Status string

const (
	StatusClean   Status = "clean"
	StatusDNC     Status = "dnc"
	StatusInvalid Status = "invalid"
)

// ReasonAllChecksFailed is recorded when no endpoint produced a conclusive answer.
const ReasonAllChecksFailed = "All API checks failed"

// ReasonCanceled marks a lookup aborted before any endpoint answered. Such a
// result is never stored.
const ReasonCanceled = "Check canceled"

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusClean, StatusDNC, StatusInvalid:
		return true
	}
	return false
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid bucket %q", ErrValidation, s)
	}
	return st, nil
}

// Statuses lists the result buckets in display order.
func Statuses() []Status {
	return []Status{StatusClean, StatusDNC, StatusInvalid}
}

// LookupResult is the outcome for one number. Reason is set for local or
// exhaustion outcomes, Source for answers produced by an endpoint.
type LookupResult struct {
	Number    string          `json:"number"`
	Status    Status          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Source    string          `json:"source,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Results holds the three ordered result buckets.
type Results struct {
	Clean   []LookupResult `json:"clean"`
	DNC     []LookupResult `json:"dnc"`
	Invalid []LookupResult `json:"invalid"`
}

func NewResults() Results {
	return Results{
		Clean:   []LookupResult{},
		DNC:     []LookupResult{},
		Invalid: []LookupResult{},
	}
}

// Add appends r to the bucket matching its status. Unknown statuses land in
// the invalid bucket so that every number is accounted for.
func (r *Results) Add(result LookupResult) {
	switch result.Status {
	case StatusClean:
		r.Clean = append(r.Clean, result)
	case StatusDNC:
		r.DNC = append(r.DNC, result)
	default:
		result.Status = StatusInvalid
		r.Invalid = append(r.Invalid, result)
	}
}

func (r Results) Bucket(status Status) []LookupResult {
	switch status {
	case StatusClean:
		return r.Clean
	case StatusDNC:
		return r.DNC
	case StatusInvalid:
		return r.Invalid
	}
	return nil
}

func (r Results) Len() int {
	return len(r.Clean) + len(r.DNC) + len(r.Invalid)
}

func (r Results) Clone() Results {
	return Results{
		Clean:   append([]LookupResult{}, r.Clean...),
		DNC:     append([]LookupResult{}, r.DNC...),
		Invalid: append([]LookupResult{}, r.Invalid...),
	}
}
