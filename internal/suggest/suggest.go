// Package suggest ranks repository suggestions for the search box,
// blending the user's own history with a curated set of repositories
// known to welcome first-time contributors.
package suggest

import (
	"sort"
	"strings"
	"time"

	"github.com/issuescout/issue-scout/internal/history"
)

// MaxSuggestions caps how many suggestions a single request returns.
const MaxSuggestions = 5

// Origin says where a suggestion came from.
type Origin string

const (
	// OriginHistory marks a suggestion drawn from the user's own
	// past searches.
	OriginHistory Origin = "history"

	// OriginPopular marks a curated beginner-friendly repository.
	OriginPopular Origin = "popular"
)

// Suggestion is one ranked repository suggestion.
type Suggestion struct {
	Origin      Origin    `json:"origin"`
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	DisplayName string    `json:"display_name"`
	Score       float64   `json:"score"`
	LastUsed    time.Time `json:"last_used,omitempty"`
	UseCount    int       `json:"use_count,omitempty"`
}

// Rank builds up to MaxSuggestions suggestions for a query prefix.
// History entries outrank popular ones: the i-th most recent search
// scores max(100−10i, 10), while popular candidates score 0 and fill
// whatever room is left. Duplicates are collapsed case-insensitively
// with the history entry winning. An empty prefix matches everything.
func Rank(records []history.Record, prefix string) []Suggestion {
	suggestions := make([]Suggestion, 0, len(records)+len(popularRepos))
	seen := make(map[string]bool)

	for i, rec := range records {
		name := rec.DisplayName()
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		score := 100.0 - 10.0*float64(i)
		if score < 10 {
			score = 10
		}
		suggestions = append(suggestions, Suggestion{
			Origin:      OriginHistory,
			Owner:       rec.Owner,
			Repo:        rec.Repo,
			DisplayName: name,
			Score:       score,
			LastUsed:    rec.LastUsed,
			UseCount:    rec.UseCount,
		})
	}

	for _, cand := range Popular() {
		key := strings.ToLower(cand.DisplayName)
		if seen[key] {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, cand)
	}

	suggestions = filterPrefix(suggestions, prefix)

	// Stable by construction: history precedes popular in the input,
	// so equal scores keep that order.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// filterPrefix keeps suggestions whose display name or bare repository
// name starts with the query, ignoring case.
func filterPrefix(suggestions []Suggestion, prefix string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(prefix))
	if q == "" {
		return suggestions
	}

	out := suggestions[:0]
	for _, s := range suggestions {
		if strings.HasPrefix(strings.ToLower(s.DisplayName), q) ||
			strings.HasPrefix(strings.ToLower(s.Repo), q) {
			out = append(out, s)
		}
	}
	return out
}
