package history

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps search history in process memory. It is the default
// store and the fallback when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record // keyed by lowercased "owner/repo"
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// NewMemoryStoreAt creates a store with a fixed clock for tests.
func NewMemoryStoreAt(now func() time.Time) *MemoryStore {
	s := NewMemoryStore()
	s.now = now
	return s
}

// Touch records a search of owner/repo. When the store is full the least
// recently used record is evicted.
func (s *MemoryStore) Touch(_ context.Context, owner, repo string) error {
	key := strings.ToLower(owner + "/" + repo)

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok {
		rec.LastUsed = s.now()
		rec.UseCount++
		return nil
	}

	if len(s.records) >= MaxRecords {
		s.evictOldest()
	}

	s.records[key] = &Record{
		Owner:    owner,
		Repo:     repo,
		LastUsed: s.now(),
		UseCount: 1,
	}
	return nil
}

// Recent returns up to limit records, most recently used first. A
// non-positive limit returns everything.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastUsed.Equal(out[j].LastUsed) {
			return out[i].LastUsed.After(out[j].LastUsed)
		}
		return out[i].DisplayName() < out[j].DisplayName()
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// evictOldest removes the least recently used record. Caller holds the lock.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, rec := range s.records {
		if oldestKey == "" || rec.LastUsed.Before(oldest) {
			oldestKey = key
			oldest = rec.LastUsed
		}
	}
	if oldestKey != "" {
		delete(s.records, oldestKey)
	}
}
