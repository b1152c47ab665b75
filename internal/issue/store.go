package issue

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Store holds materialized issue collections keyed by repository
// ("owner/repo"). It is safe for concurrent use; reads return copies so
// callers can sort and filter without holding the lock.
type Store struct {
	mu    sync.RWMutex
	repos map[string][]Issue
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{repos: make(map[string][]Issue)}
}

// Put replaces the issue collection for a repository.
func (s *Store) Put(repo string, issues []Issue) {
	copied := make([]Issue, len(issues))
	copy(copied, issues)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[normalizeRepo(repo)] = copied
}

// Get returns a copy of the issue collection for a repository.
func (s *Store) Get(repo string) ([]Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues, ok := s.repos[normalizeRepo(repo)]
	if !ok {
		return nil, false
	}
	out := make([]Issue, len(issues))
	copy(out, issues)
	return out, true
}

// Repos lists the stored repository names in sorted order.
func (s *Store) Repos() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.repos))
	for name := range s.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of issues stored for a repository.
func (s *Store) Count(repo string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.repos[normalizeRepo(repo)])
}

func normalizeRepo(repo string) string {
	return strings.ToLower(strings.TrimSpace(repo))
}

// LoadFile reads issue collections from a JSON file mapping "owner/repo"
// to issue arrays. Used by the CLI to rank issues without a server.
func LoadFile(path string) (map[string][]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading issue file: %w", err)
	}

	byRepo := make(map[string][]Issue)
	if err := json.Unmarshal(data, &byRepo); err != nil {
		// Fall back to a bare issue array for single-repo files.
		var issues []Issue
		if err2 := json.Unmarshal(data, &issues); err2 != nil {
			return nil, fmt.Errorf("parsing issue file: %w", err)
		}
		byRepo[""] = issues
	}
	return byRepo, nil
}
