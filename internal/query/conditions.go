package query

import (
	"strconv"
	"sync/atomic"
)

// Condition is one atomic filter in the flattened, chip-oriented view of
// a query. Conditions are derived, never authoritative: they are
// regenerated from the AST on every extraction, and IDs are process-local
// and not stable across extractions.
type Condition struct {
	ID      string `json:"id"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Negated bool   `json:"negated"`
	Label   string `json:"label"`
}

var conditionSeq atomic.Uint64

func nextConditionID() string {
	return "cond-" + strconv.FormatUint(conditionSeq.Add(1), 10)
}

// ExtractConditions flattens an AST into its leaf conditions in
// left-to-right textual order. Operator and grouping structure is not
// preserved; the chip view is an intentionally lossy projection for the
// visual builder, which only authors conjunctions.
func ExtractConditions(root Node) []Condition {
	out := []Condition{}
	collect(root, &out)
	return out
}

func collect(n Node, out *[]Condition) {
	switch t := n.(type) {
	case nil:
	case *Cond:
		*out = append(*out, Condition{
			ID:      nextConditionID(),
			Field:   t.Field,
			Value:   t.Value,
			Negated: t.Negated,
			Label:   ConditionLabel(t.Field, t.Value, t.Negated),
		})
	case *And:
		collect(t.Left, out)
		collect(t.Right, out)
	case *Or:
		collect(t.Left, out)
		collect(t.Right, out)
	case *Group:
		collect(t.Inner, out)
	}
}

// ConditionLabel renders the human-readable form of one condition:
// "field:value", or "NOT field:value" when negated.
func ConditionLabel(field, value string, negated bool) string {
	label := field + ":" + value
	if negated {
		return "NOT " + label
	}
	return label
}
