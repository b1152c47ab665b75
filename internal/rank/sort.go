package rank

import (
	"sort"

	"github.com/issuescout/issue-scout/internal/issue"
)

// Criterion selects the sort key.
type Criterion string

const (
	ByRelevance Criterion = "relevance"
	ByDate      Criterion = "date"
	ByComments  Criterion = "comments"
	ByReactions Criterion = "reactions"
)

// Direction orders results ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseCriterion maps a request string onto a criterion, defaulting to
// relevance for empty or unknown input.
func ParseCriterion(s string) Criterion {
	switch Criterion(s) {
	case ByDate, ByComments, ByReactions:
		return Criterion(s)
	default:
		return ByRelevance
	}
}

// DefaultDirection returns the documented default for a criterion.
// Comments defaults ascending: low-discussion issues make easier entry
// points for a first contribution.
func DefaultDirection(c Criterion) Direction {
	if c == ByComments {
		return Asc
	}
	return Desc
}

type scoredIssue struct {
	issue issue.Issue
	key   float64
}

// Sort returns a new collection ordered by the criterion and direction;
// the input is never mutated. An empty direction uses the criterion's
// default. The sort is stable and breaks remaining ties by ascending
// issue number, so output order is deterministic.
func (s *Scorer) Sort(issues []issue.Issue, criterion Criterion, dir Direction) []issue.Issue {
	if dir == "" {
		dir = DefaultDirection(criterion)
	}

	items := make([]scoredIssue, len(issues))
	for i, iss := range issues {
		items[i] = scoredIssue{issue: iss, key: s.sortKey(iss, criterion)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].key != items[j].key {
			if dir == Asc {
				return items[i].key < items[j].key
			}
			return items[i].key > items[j].key
		}
		return items[i].issue.Number < items[j].issue.Number
	})

	out := make([]issue.Issue, len(items))
	for i, it := range items {
		out[i] = it.issue
	}
	return out
}

func (s *Scorer) sortKey(iss issue.Issue, criterion Criterion) float64 {
	switch criterion {
	case ByDate:
		return float64(iss.CreatedAt.Unix())
	case ByComments:
		return float64(iss.Comments)
	case ByReactions:
		return float64(iss.Reactions.Total())
	default:
		return s.Score(iss)
	}
}
