package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/dnc-checker/internal/domain"
)

// ExportFileName returns <bucket>_numbers_<YYYY-MM-DD>.txt for the UTC date of now.
func ExportFileName(status domain.Status, now time.Time) string {
	return fmt.Sprintf("%s_numbers_%s.txt", status, now.UTC().Format(time.DateOnly))
}

// ExportBucket renders one bucket as newline-delimited numbers.
func ExportBucket(results domain.Results, status domain.Status) (string, error) {
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown bucket %q", domain.ErrValidation, status)
	}

	bucket := results.Bucket(status)
	if len(bucket) == 0 {
		return "", fmt.Errorf("%s bucket: %w", status, domain.ErrNothingToExport)
	}

	return joinNumbers(bucket), nil
}

// FormatAllResults renders every bucket under a labeled header, with a blank
// line between buckets.
func FormatAllResults(results domain.Results) string {
	lines := make([]string, 0, results.Len()+5)
	for i, status := range domain.Statuses() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, fmt.Sprintf("=== %s NUMBERS ===", strings.ToUpper(status.String())))
		for _, result := range results.Bucket(status) {
			lines = append(lines, result.Number)
		}
	}
	return strings.Join(lines, "\n")
}

func joinNumbers(bucket []domain.LookupResult) string {
	numbers := make([]string, 0, len(bucket))
	for _, result := range bucket {
		numbers = append(numbers, result.Number)
	}
	return strings.Join(numbers, "\n")
}
