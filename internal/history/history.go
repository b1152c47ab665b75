// Package history keeps the user's past repository searches, most
// recent first, for the suggestion ranker.
package history

import (
	"context"
	"strings"
	"time"
)

// MaxRecords caps how many distinct repository searches a store retains;
// the least recently used entry is evicted first.
const MaxRecords = 50

// Record is one past repository search.
type Record struct {
	Owner    string    `json:"owner"`
	Repo     string    `json:"repo"`
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

// DisplayName returns the "owner/repo" form of the record.
func (r Record) DisplayName() string {
	return r.Owner + "/" + r.Repo
}

// Store records and lists past repository searches.
type Store interface {
	// Touch records a search of owner/repo, bumping its recency and
	// use count.
	Touch(ctx context.Context, owner, repo string) error

	// Recent returns up to limit records, most recently used first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// SplitRepo splits an "owner/repo" name into its parts. Repo is empty
// when the name has no slash.
func SplitRepo(name string) (owner, repo string) {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}
