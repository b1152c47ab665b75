package query

import "strings"

// ToCanonicalQuery renders an AST into its single canonical textual
// form: space joins conjunctions, comma joins disjunctions, parentheses
// reproduce explicit groups, '-' marks negation, and values containing
// spaces, commas, or other delimiters are double-quoted.
func ToCanonicalQuery(root Node) string {
	switch t := root.(type) {
	case nil:
		return ""
	case *Cond:
		return renderCond(t.Field, t.Value, t.Negated)
	case *And:
		return ToCanonicalQuery(t.Left) + " " + ToCanonicalQuery(t.Right)
	case *Or:
		return ToCanonicalQuery(t.Left) + "," + ToCanonicalQuery(t.Right)
	case *Group:
		return "(" + ToCanonicalQuery(t.Inner) + ")"
	}
	return ""
}

// ChipsToQuery renders a flat condition list as a conjunction-only
// query. This is the inverse used by the visual builder; OR structure
// and grouping from an original query are not reproduced, by design.
func ChipsToQuery(conditions []Condition) string {
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, renderCond(c.Field, c.Value, c.Negated))
	}
	return strings.Join(parts, " ")
}

func renderCond(field, value string, negated bool) string {
	s := field + ":" + quoteValue(value)
	if negated {
		return "-" + s
	}
	return s
}

// quoteValue wraps a value in double quotes when it contains characters
// the lexer would otherwise treat as delimiters, escaping embedded
// quotes and backslashes.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, " \t\n,()\"'") {
		return v
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('"')
	return b.String()
}
