package security

import (
	"net/http"
	"strings"
	"testing"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain string", "label:bug", "label:bug"},
		{"newline escaped", "line1\nline2", "line1\\nline2"},
		{"carriage return escaped", "a\rb", "a\\rb"},
		{"tab escaped", "a\tb", "a\\tb"},
		{"control characters removed", "a\x00\x1bb", "ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForLog(tt.input); got != tt.want {
				t.Errorf("SanitizeForLog(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeForLog_Truncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := SanitizeForLog(long)
	if !strings.HasSuffix(got, "...") {
		t.Error("long input must be truncated with ellipsis")
	}
	if len(got) > 210 {
		t.Errorf("truncated output is %d chars", len(got))
	}
}

func TestSanitizeQuery(t *testing.T) {
	if got := SanitizeQuery("  label:bug \x00state:open  "); got != "label:bug state:open" {
		t.Errorf("SanitizeQuery = %q", got)
	}
	if got := SanitizeQuery(""); got != "" {
		t.Errorf("SanitizeQuery(\"\") = %q", got)
	}
}

func TestMaskSensitiveHeaders(t *testing.T) {
	headers := http.Header{
		"Authorization": {"Bearer secret"},
		"X-Api-Key":     {"abc123"},
		"Content-Type":  {"application/json"},
	}

	masked := MaskSensitiveHeaders(headers)

	if masked.Get("Authorization") != "[REDACTED]" {
		t.Error("Authorization must be masked")
	}
	if masked.Get("X-Api-Key") != "[REDACTED]" {
		t.Error("X-Api-Key must be masked")
	}
	if masked.Get("Content-Type") != "application/json" {
		t.Error("Content-Type must pass through unmasked")
	}

	// Original must be untouched.
	if headers.Get("Authorization") != "Bearer secret" {
		t.Error("masking must not mutate the input headers")
	}
}
