package rank

import (
	"testing"

	"github.com/issuescout/issue-scout/internal/issue"
)

func sortSample() []issue.Issue {
	return []issue.Issue{
		{
			Number:    1,
			CreatedAt: testNow.AddDate(0, 0, -40),
			Comments:  10,
			Reactions: issue.Reactions{PlusOne: 1, Eyes: 9},
		},
		{
			Number:    2,
			CreatedAt: testNow.AddDate(0, 0, -1),
			Comments:  0,
			Labels:    []string{"good first issue"},
			Reactions: issue.Reactions{PlusOne: 3},
		},
		{
			Number:    3,
			CreatedAt: testNow.AddDate(0, 0, -10),
			Comments:  4,
			Reactions: issue.Reactions{Heart: 2, MinusOne: 6},
		},
	}
}

func sortedNumbers(t *testing.T, c Criterion, dir Direction) []int {
	t.Helper()
	out := fixedScorer().Sort(sortSample(), c, dir)
	nums := make([]int, len(out))
	for i, iss := range out {
		nums[i] = iss.Number
	}
	return nums
}

func assertOrder(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSort_DefaultDirections(t *testing.T) {
	// relevance desc: #2 (fresh, labeled, reactions) > #3 > #1.
	assertOrder(t, sortedNumbers(t, ByRelevance, ""), []int{2, 3, 1})

	// date desc: newest first.
	assertOrder(t, sortedNumbers(t, ByDate, ""), []int{2, 3, 1})

	// comments asc: least-discussed first.
	assertOrder(t, sortedNumbers(t, ByComments, ""), []int{2, 3, 1})

	// reactions desc by total across all kinds: #1 (10) > #3 (8) > #2 (3).
	assertOrder(t, sortedNumbers(t, ByReactions, ""), []int{1, 3, 2})
}

func TestSort_DirectionFlipReversesOrder(t *testing.T) {
	for _, c := range []Criterion{ByRelevance, ByDate, ByComments, ByReactions} {
		asc := sortedNumbers(t, c, Asc)
		desc := sortedNumbers(t, c, Desc)
		for i := range asc {
			if asc[i] != desc[len(desc)-1-i] {
				t.Errorf("criterion %s: asc %v is not the reverse of desc %v", c, asc, desc)
				break
			}
		}
	}
}

func TestSort_EdgeCases(t *testing.T) {
	s := fixedScorer()

	if out := s.Sort(nil, ByRelevance, Desc); len(out) != 0 {
		t.Errorf("sorting empty input returned %d issues", len(out))
	}

	single := []issue.Issue{{Number: 7}}
	out := s.Sort(single, ByDate, Asc)
	if len(out) != 1 || out[0].Number != 7 {
		t.Errorf("singleton sort = %v", out)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := sortSample()
	fixedScorer().Sort(in, ByComments, Desc)
	if in[0].Number != 1 || in[1].Number != 2 || in[2].Number != 3 {
		t.Error("input slice mutated by Sort")
	}
}

func TestSort_TiesBreakByIssueNumber(t *testing.T) {
	issues := []issue.Issue{
		{Number: 9, Comments: 3},
		{Number: 2, Comments: 3},
		{Number: 5, Comments: 3},
	}
	out := fixedScorer().Sort(issues, ByComments, Asc)
	if out[0].Number != 2 || out[1].Number != 5 || out[2].Number != 9 {
		t.Errorf("tie-break order = %v, want ascending issue numbers", out)
	}
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in   string
		want Criterion
	}{
		{"date", ByDate},
		{"comments", ByComments},
		{"reactions", ByReactions},
		{"relevance", ByRelevance},
		{"", ByRelevance},
		{"bogus", ByRelevance},
	}
	for _, tt := range tests {
		if got := ParseCriterion(tt.in); got != tt.want {
			t.Errorf("ParseCriterion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultDirection(t *testing.T) {
	if DefaultDirection(ByComments) != Asc {
		t.Error("comments must default ascending")
	}
	for _, c := range []Criterion{ByRelevance, ByDate, ByReactions} {
		if DefaultDirection(c) != Desc {
			t.Errorf("%s must default descending", c)
		}
	}
}
