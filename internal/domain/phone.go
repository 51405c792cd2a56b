package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	ReasonInvalidFormat   = "Invalid format"
	ReasonInvalidAreaCode = "Invalid area code"

	minAreaCode = 200
	maxAreaCode = 999
)

var usNumberPattern = regexp.MustCompile(`^\+1\d{10}$`)

// ValidationOutcome is the result of the local format check that runs before any lookup.
type ValidationOutcome struct {
	Valid  bool
	Reason string
}

// NormalizeNumbers splits free-form text on newlines, commas and whitespace
// and returns canonical candidates in first-seen order without duplicates.
// A line segment that collapses to one canonical number, such as
// "+1 (234) 567-8901", is kept whole instead of being split on its spaces.
func NormalizeNumbers(input string) []string {
	segments := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	numbers := make([]string, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))
	add := func(number string) {
		if number == "" {
			return
		}
		if _, ok := seen[number]; ok {
			return
		}
		seen[number] = struct{}{}
		numbers = append(numbers, number)
	}

	for _, segment := range segments {
		if whole := NormalizeNumber(segment); usNumberPattern.MatchString(whole) {
			add(whole)
			continue
		}
		for _, token := range strings.FieldsFunc(segment, unicode.IsSpace) {
			add(NormalizeNumber(token))
		}
	}

	return numbers
}

// NormalizeNumber formats a single token. Lengths other than 10 digits or
// 11 digits with a leading 1 are returned as-is and fail validation later.
func NormalizeNumber(token string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(token) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}

	switch {
	case len(cleaned) == 10:
		return "+1" + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "1"):
		return "+" + cleaned
	}
	return cleaned
}

// ValidateNumber checks the +1 and 10 digit shape and the area code bounds.
func ValidateNumber(number string) ValidationOutcome {
	if !usNumberPattern.MatchString(number) {
		return ValidationOutcome{Reason: ReasonInvalidFormat}
	}

	areaCode, err := strconv.Atoi(number[2:5])
	if err != nil || areaCode < minAreaCode || areaCode > maxAreaCode {
		return ValidationOutcome{Reason: ReasonInvalidAreaCode}
	}

	return ValidationOutcome{Valid: true}
}
