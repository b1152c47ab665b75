package security

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Validation limits.
const (
	// Query limits.
	MinQueryLength = 1
	MaxQueryLength = 1024

	// Repository name limits, matching the hosting platform's rules.
	MaxOwnerLength = 39
	MaxRepoLength  = 100

	// Result limits.
	MinLimit = 1
	MaxLimit = 1000
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field      string
	Value      interface{}
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed for %s: %s (got: %v)", e.Field, e.Constraint, e.Value)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Constraint)
}

// ownerRegex matches valid repository owners: alphanumeric and hyphen,
// no leading or trailing hyphen.
var ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// repoRegex matches valid repository names: alphanumeric, dot, hyphen, underscore.
var repoRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateQuery validates a search query string.
// Requirements: 1-1024 chars, valid UTF-8. An empty query is allowed;
// it means "no filter".
func ValidateQuery(query string) error {
	return ValidateQueryWithLimit(query, MaxQueryLength)
}

// ValidateQueryWithLimit is ValidateQuery with a configurable maximum
// length. A non-positive max falls back to MaxQueryLength.
func ValidateQueryWithLimit(query string, max int) error {
	if query == "" {
		return nil
	}
	if max <= 0 {
		max = MaxQueryLength
	}

	length := utf8.RuneCountInString(query)
	if length > max {
		return &ValidationError{
			Field:      "q",
			Value:      length,
			Constraint: fmt.Sprintf("maximum length is %d characters", max),
		}
	}

	if !utf8.ValidString(query) {
		return &ValidationError{
			Field:      "q",
			Constraint: "must be valid UTF-8",
		}
	}

	return nil
}

// ValidateRepoName validates an owner/repo pair.
func ValidateRepoName(owner, repo string) error {
	if owner == "" {
		return &ValidationError{Field: "owner", Constraint: "required"}
	}
	if len(owner) > MaxOwnerLength {
		return &ValidationError{
			Field:      "owner",
			Value:      len(owner),
			Constraint: fmt.Sprintf("maximum length is %d characters", MaxOwnerLength),
		}
	}
	if !ownerRegex.MatchString(owner) {
		return &ValidationError{
			Field:      "owner",
			Value:      SanitizeForLog(owner),
			Constraint: "must contain only alphanumeric characters and hyphens, and not start or end with a hyphen",
		}
	}

	if repo == "" {
		return &ValidationError{Field: "repo", Constraint: "required"}
	}
	if len(repo) > MaxRepoLength {
		return &ValidationError{
			Field:      "repo",
			Value:      len(repo),
			Constraint: fmt.Sprintf("maximum length is %d characters", MaxRepoLength),
		}
	}
	if !repoRegex.MatchString(repo) {
		return &ValidationError{
			Field:      "repo",
			Value:      SanitizeForLog(repo),
			Constraint: "must contain only alphanumeric characters, dots, hyphens, and underscores",
		}
	}

	return nil
}

// ValidateLimit validates a result limit parameter.
// Requirements: 1-1000.
func ValidateLimit(limit int) error {
	if limit < MinLimit {
		return &ValidationError{
			Field:      "limit",
			Value:      limit,
			Constraint: fmt.Sprintf("minimum value is %d", MinLimit),
		}
	}

	if limit > MaxLimit {
		return &ValidationError{
			Field:      "limit",
			Value:      limit,
			Constraint: fmt.Sprintf("maximum value is %d", MaxLimit),
		}
	}

	return nil
}
