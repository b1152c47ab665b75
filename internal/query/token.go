package query

// Kind identifies the lexical class of a token.
type Kind int

const (
	// KindFilter is a field:value condition, possibly negated.
	KindFilter Kind = iota
	// KindAnd is a conjunction, explicit ("AND") or implicit (whitespace).
	KindAnd
	// KindOr is a disjunction, explicit ("OR") or a comma.
	KindOr
	// KindLParen opens an explicit group.
	KindLParen
	// KindRParen closes an explicit group.
	KindRParen
	// KindEOF terminates every token stream and carries the final offset.
	KindEOF
)

// String returns the token kind name for error messages and tests.
func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "FILTER"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindLParen:
		return "LPAREN"
	case KindRParen:
		return "RPAREN"
	case KindEOF:
		return "EOF"
	}
	return "UNKNOWN"
}

// Span marks the byte range a token occupies in the source query.
type Span struct {
	Start int
	End   int
}

// Token is one lexical unit of a filter query. Field, Value, and Negated
// are meaningful only for KindFilter tokens. Tokens are immutable once
// produced by the lexer.
type Token struct {
	Kind    Kind
	Field   string
	Value   string
	Negated bool
	Span    Span
}
