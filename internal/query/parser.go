package query

// Grammar, lowest precedence first:
//
//	or   := and (OR and)*
//	and  := atom (AND atom)*
//	atom := FILTER | '(' or ')'
//
// Negation is not a grammar level; the lexer bakes it into the filter
// token. Both operators are left-associative: a AND b AND c parses as
// And(And(a,b),c).

// Parse builds a filter AST from a token stream. It returns nil when the
// stream yields no usable conditions; that means "no filter", not an
// error. A group missing its closing paren is tolerated and parsed as if
// the paren were present.
func Parse(tokens []Token) Node {
	p := parser{tokens: tokens}
	return p.parseOr()
}

// ParseResult is the outcome of parsing a raw filter query.
type ParseResult struct {
	Success    bool        `json:"success"`
	AST        Node        `json:"-"`
	Conditions []Condition `json:"conditions"`
	Err        string      `json:"error,omitempty"`
	ErrOffset  int         `json:"error_offset,omitempty"`
}

// ParseQuery runs the full lexer, parser, and extractor pipeline. The
// single failure mode is a query with no recognizable conditions at all;
// everything else degrades silently per the lexer's lenience rules.
func ParseQuery(input string) ParseResult {
	tokens := Tokenize(input)
	ast := Parse(tokens)
	if ast == nil {
		return ParseResult{
			Conditions: []Condition{},
			Err:        "no filters recognized",
			ErrOffset:  tokens[len(tokens)-1].Span.Start,
		}
	}
	return ParseResult{
		Success:    true,
		AST:        ast,
		Conditions: ExtractConditions(ast),
	}
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: KindEOF}
}

func (p *parser) parseOr() Node {
	left := p.parseAnd()
	for p.peek().Kind == KindOr {
		p.pos++
		right := p.parseAnd()
		if right == nil {
			break
		}
		left = NewOr(left, right)
	}
	return left
}

func (p *parser) parseAnd() Node {
	left := p.parseAtom()
	for p.peek().Kind == KindAnd {
		p.pos++
		right := p.parseAtom()
		if right == nil {
			break
		}
		left = NewAnd(left, right)
	}
	return left
}

func (p *parser) parseAtom() Node {
	switch tok := p.peek(); tok.Kind {
	case KindFilter:
		p.pos++
		return NewCond(tok.Field, tok.Value, tok.Negated)
	case KindLParen:
		p.pos++
		inner := p.parseOr()
		if p.peek().Kind == KindRParen {
			p.pos++
		}
		return NewGroup(inner)
	default:
		return nil
	}
}
