package issue

import (
	"testing"

	"github.com/issuescout/issue-scout/internal/query"
)

func parseFilter(t *testing.T, q string) query.Node {
	t.Helper()
	ast := query.Parse(query.Tokenize(q))
	if ast == nil {
		t.Fatalf("no filter parsed from %q", q)
	}
	return ast
}

func sample() []Issue {
	return []Issue{
		{
			Number: 1, Title: "crash on startup", State: "open",
			Author: "alice", Labels: []string{"bug", "Good First Issue"},
		},
		{
			Number: 2, Title: "add dark mode", State: "open",
			Author: "bob", Assignee: "carol", Labels: []string{"feature"},
		},
		{
			Number: 3, Title: "typo in docs", State: "closed",
			Author: "alice", Labels: []string{"docs"},
		},
	}
}

func numbers(issues []Issue) []int {
	out := make([]int, len(issues))
	for i, iss := range issues {
		out[i] = iss.Number
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "unquoted multiword label matches nothing", query: "label:good first issue", want: nil},
		{name: "quoted label matches case-insensitively", query: `label:"good first issue"`, want: []int{1}},
		{name: "author", query: "author:alice", want: []int{1, 3}},
		{name: "state", query: "state:open", want: []int{1, 2}},
		{name: "negated author", query: "-author:alice", want: []int{2}},
		{name: "and", query: "author:alice state:open", want: []int{1}},
		{name: "or", query: "label:bug,label:feature", want: []int{1, 2}},
		{name: "group then and", query: "(label:bug OR label:docs) author:alice", want: []int{1, 3}},
		{name: "is open", query: "is:open", want: []int{1, 2}},
		{name: "is unassigned", query: "is:unassigned", want: []int{1, 3}},
		{name: "is assigned", query: "is:assigned", want: []int{2}},
		{name: "assignee", query: "assignee:carol", want: []int{2}},
		{name: "assignee none", query: "assignee:none", want: []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := query.ParseQuery(tt.query)
			if !res.Success {
				// Unparseable query means no filter at all.
				if tt.want != nil {
					t.Fatalf("query %q did not parse", tt.query)
				}
				return
			}
			got := numbers(Filter(sample(), res.AST))
			if len(got) != len(tt.want) {
				t.Fatalf("got issues %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got issues %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMatches_NilFilterMatchesAll(t *testing.T) {
	for _, iss := range sample() {
		if !Matches(iss, nil) {
			t.Errorf("issue #%d must match nil filter", iss.Number)
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sample()
	Filter(in, parseFilter(t, "state:closed"))
	if in[0].Number != 1 || in[1].Number != 2 || in[2].Number != 3 {
		t.Error("input slice mutated")
	}
}
