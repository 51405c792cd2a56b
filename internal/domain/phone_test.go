package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "ten digits get country code", input: "1234567890", want: []string{"+11234567890"}},
		{name: "eleven digits with leading one", input: "11234567890", want: []string{"+11234567890"}},
		{name: "formatted with spaces inside a line", input: "+1 999 999 9999", want: []string{"+19999999999"}},
		{name: "punctuation is stripped", input: "(234) 567-8901", want: []string{"+12345678901"}},
		{name: "two numbers on one line", input: "2345678901 3456789012", want: []string{"+12345678901", "+13456789012"}},
		{name: "fragments split on whitespace", input: "+1 999", want: []string{"+1", "999"}},
		{name: "short number passes through", input: "555", want: []string{"555"}},
		{name: "foreign number kept", input: "+44123", want: []string{"+44123"}},
		{name: "mixed delimiters", input: "2345678901, 3456789012\n\n4567890123\t5678901234", want: []string{
			"+12345678901", "+13456789012", "+14567890123", "+15678901234",
		}},
		{name: "duplicates keep first occurrence order", input: "3456789012\n2345678901\n+13456789012\n13456789012", want: []string{
			"+13456789012", "+12345678901",
		}},
		{name: "tokens without digits are dropped", input: "abc, 2345678901, --", want: []string{"+12345678901"}},
		{name: "empty input", input: "   \n\t ", want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeNumbers(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NormalizeNumbers(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNumberSingleToken(t *testing.T) {
	t.Parallel()

	if got := NormalizeNumber("(234)567-8901"); got != "+12345678901" {
		t.Fatalf("NormalizeNumber() = %q, want +12345678901", got)
	}
	if got := NormalizeNumber("1-999-999-9999"); got != "+19999999999" {
		t.Fatalf("NormalizeNumber() = %q, want +19999999999", got)
	}
	if got := NormalizeNumber("12+34"); got != "1234" {
		t.Fatalf("NormalizeNumber() = %q, want 1234", got)
	}
	if got := NormalizeNumber("+"); got != "+" {
		t.Fatalf("NormalizeNumber() = %q, want +", got)
	}
}

func TestNormalizeNumbersKeepsLonePlusAsInvalid(t *testing.T) {
	t.Parallel()

	got := NormalizeNumbers("+\nabc\n+12345678901")
	if want := []string{"+", "+12345678901"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeNumbers() = %v, want %v", got, want)
	}
	if ValidateNumber(got[0]).Reason != ReasonInvalidFormat {
		t.Fatalf("ValidateNumber(%q).Reason = %q, want %q", got[0], ValidateNumber(got[0]).Reason, ReasonInvalidFormat)
	}
}

func TestNormalizeNumbersIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"1234567890",
		"+1 (234) 567-8901, 12345678901\n2345678901",
		"555 +44123 1-800-555-0199",
		"++12345678901 ++",
		"",
	}

	for _, input := range inputs {
		once := NormalizeNumbers(input)
		twice := NormalizeNumbers(strings.Join(once, "\n"))
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("normalize not idempotent for %q: %v then %v", input, once, twice)
		}

		seen := make(map[string]struct{}, len(once))
		for _, n := range once {
			if _, ok := seen[n]; ok {
				t.Fatalf("duplicate %q in %v", n, once)
			}
			seen[n] = struct{}{}
		}
	}
}

func TestValidateNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		number     string
		wantValid  bool
		wantReason string
	}{
		{name: "area code 123 is below range", number: "+11234567890", wantReason: ReasonInvalidAreaCode},
		{name: "typical number", number: "+12345678901", wantValid: true},
		{name: "lower bound", number: "+12005550100", wantValid: true},
		{name: "upper bound", number: "+19999999999", wantValid: true},
		{name: "area code 100", number: "+11005550100", wantReason: ReasonInvalidAreaCode},
		{name: "area code 199", number: "+11995550100", wantReason: ReasonInvalidAreaCode},
		{name: "foreign prefix", number: "+44123", wantReason: ReasonInvalidFormat},
		{name: "short", number: "555", wantReason: ReasonInvalidFormat},
		{name: "too long", number: "+123456789012", wantReason: ReasonInvalidFormat},
		{name: "missing plus", number: "12345678901", wantReason: ReasonInvalidFormat},
		{name: "non ascii digits", number: "+1２３４５６７８９０１", wantReason: ReasonInvalidFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ValidateNumber(tt.number)
			if got.Valid != tt.wantValid {
				t.Fatalf("ValidateNumber(%q).Valid = %v, want %v", tt.number, got.Valid, tt.wantValid)
			}
			if got.Reason != tt.wantReason {
				t.Fatalf("ValidateNumber(%q).Reason = %q, want %q", tt.number, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestNormalizeThenValidateScenarios(t *testing.T) {
	t.Parallel()

	got := NormalizeNumbers("1234567890")
	if len(got) != 1 || got[0] != "+11234567890" {
		t.Fatalf("NormalizeNumbers() = %v, want [+11234567890]", got)
	}

	got = NormalizeNumbers("+1 999 999 9999")
	if len(got) != 1 || got[0] != "+19999999999" || !ValidateNumber(got[0]).Valid {
		t.Fatalf("expected +19999999999 to validate, got %v", got)
	}

	got = NormalizeNumbers("555")
	if len(got) != 1 || ValidateNumber(got[0]).Reason != ReasonInvalidFormat {
		t.Fatalf("expected 555 to fail format validation, got %v", got)
	}
}
