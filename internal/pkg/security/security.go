// Package security provides security utilities for input validation,
// sanitization, and sensitive data masking.
package security

import (
	"net/http"
	"strings"
	"unicode"
)

// SanitizeForLog sanitizes a string for safe logging.
// It prevents log injection by:
// - Replacing newlines with escaped versions
// - Replacing carriage returns
// - Removing other control characters
// - Truncating to a maximum length
func SanitizeForLog(s string) string {
	return SanitizeForLogWithLength(s, 200)
}

// SanitizeForLogWithLength sanitizes a string for logging with a custom max length.
func SanitizeForLogWithLength(s string, maxLen int) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(min(len(s), maxLen+10))

	count := 0
	for _, r := range s {
		if count >= maxLen {
			b.WriteString("...")
			break
		}

		switch r {
		case '\n':
			b.WriteString("\\n")
			count += 2
		case '\r':
			b.WriteString("\\r")
			count += 2
		case '\t':
			b.WriteString("\\t")
			count += 2
		default:
			// Remove other control characters, keep printable
			if !unicode.IsControl(r) || r == ' ' {
				b.WriteRune(r)
				count++
			}
		}
	}

	return b.String()
}

// SanitizeQuery sanitizes a search query string.
// It removes control characters while preserving normal whitespace.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}

	sanitized := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		// Remove other control characters
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, query)

	return strings.TrimSpace(sanitized)
}

// sensitiveHeaders are HTTP header names that contain sensitive data.
// These should be masked in logs.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"x-api-key":           true,
	"api-key":             true,
	"x-auth-token":        true,
	"cookie":              true,
	"set-cookie":          true,
	"x-csrf-token":        true,
	"x-xsrf-token":        true,
	"proxy-authorization": true,
}

// sensitiveFieldPatterns are patterns in header names that indicate sensitive data.
var sensitiveFieldPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
}

// MaskSensitiveHeaders creates a copy of headers with sensitive values masked.
// This is safe to use for logging.
func MaskSensitiveHeaders(headers http.Header) http.Header {
	if headers == nil {
		return nil
	}

	masked := make(http.Header, len(headers))
	for key, values := range headers {
		if isSensitiveHeader(key) {
			masked[key] = []string{"[REDACTED]"}
		} else {
			masked[key] = append([]string(nil), values...)
		}
	}
	return masked
}

// isSensitiveHeader checks if a header name contains sensitive data.
func isSensitiveHeader(name string) bool {
	lower := strings.ToLower(name)

	if sensitiveHeaders[lower] {
		return true
	}

	for _, pattern := range sensitiveFieldPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
