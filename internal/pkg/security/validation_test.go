package security

import (
	"strings"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"empty query means no filter", "", false},
		{"simple query", "label:bug state:open", false},
		{"quoted value", `label:"good first issue"`, false},
		{"at max length", strings.Repeat("a", MaxQueryLength), false},
		{"over max length", strings.Repeat("a", MaxQueryLength+1), true},
		{"invalid utf-8", "label:\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepoName(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"valid pair", "octocat", "spoon-knife", false},
		{"dots and underscores in repo", "golang", "go_x.tools", false},
		{"empty owner", "", "repo", true},
		{"empty repo", "owner", "", true},
		{"owner with slash", "a/b", "repo", true},
		{"owner leading hyphen", "-octo", "repo", true},
		{"owner trailing hyphen", "octo-", "repo", true},
		{"repo with space", "owner", "my repo", true},
		{"owner too long", strings.Repeat("a", MaxOwnerLength+1), "repo", true},
		{"repo too long", "owner", strings.Repeat("a", MaxRepoLength+1), true},
		{"single char owner", "a", "b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoName(tt.owner, tt.repo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoName(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(0); err == nil {
		t.Error("limit 0 must be rejected")
	}
	if err := ValidateLimit(MaxLimit + 1); err == nil {
		t.Error("limit above maximum must be rejected")
	}
	if err := ValidateLimit(20); err != nil {
		t.Errorf("ValidateLimit(20) = %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "q", Value: 2000, Constraint: "maximum length is 1024 characters"}
	if !strings.Contains(err.Error(), "q") || !strings.Contains(err.Error(), "2000") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
