package issue

import (
	"strings"

	"github.com/issuescout/issue-scout/internal/query"
)

// Matches reports whether an issue satisfies a parsed filter. A nil
// filter matches everything.
func Matches(iss Issue, filter query.Node) bool {
	switch t := filter.(type) {
	case nil:
		return true
	case *query.Cond:
		ok := matchCond(iss, t.Field, t.Value)
		if t.Negated {
			return !ok
		}
		return ok
	case *query.And:
		return Matches(iss, t.Left) && Matches(iss, t.Right)
	case *query.Or:
		return Matches(iss, t.Left) || Matches(iss, t.Right)
	case *query.Group:
		return Matches(iss, t.Inner)
	}
	return true
}

// Filter returns the issues satisfying the parsed filter, preserving
// input order. The input slice is never mutated.
func Filter(issues []Issue, filter query.Node) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, iss := range issues {
		if Matches(iss, filter) {
			out = append(out, iss)
		}
	}
	return out
}

func matchCond(iss Issue, field, value string) bool {
	switch field {
	case query.FieldLabel:
		return iss.HasLabel(value)
	case query.FieldAuthor:
		return equalFold(iss.Author, value)
	case query.FieldState:
		return equalFold(iss.State, value)
	case query.FieldAssignee:
		if equalFold(value, "none") {
			return iss.Assignee == ""
		}
		return equalFold(iss.Assignee, value)
	case query.FieldIs:
		switch strings.ToLower(value) {
		case "open", "closed":
			return equalFold(iss.State, value)
		case "assigned":
			return iss.Assignee != ""
		case "unassigned":
			return iss.Assignee == ""
		}
		return false
	}
	// The lexer only emits vocabulary fields, so this is unreachable for
	// parsed queries; hand-built conditions with unknown fields match
	// nothing.
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
