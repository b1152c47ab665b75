// Package query implements the filter-query language: a lexer, a
// precedence-climbing parser, a typed AST, the canonical serializer, and
// the flattened condition view used by the visual query builder.
package query

import (
	"strings"
	"unicode"
)

// Tokenize converts a raw filter query into a flat token stream. It is
// total and never fails: unrecognized characters and unknown fields are
// silently dropped (lenient-parser policy, not a defect), and the stream
// always terminates with a single EOF token carrying the final offset.
//
// Whitespace between two operands emits an implicit AND; a comma emits
// OR; parentheses pass through; a leading '-' negates the condition that
// follows it. Values may be quoted with ' or " to admit spaces and
// commas, with backslash escaping the next character; an unterminated
// quote consumes to end of input.
func Tokenize(input string) []Token {
	lx := lexer{input: input}
	return lx.run()
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) run() []Token {
	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			break
		}
		start := l.pos
		switch l.input[l.pos] {
		case '(':
			l.pos++
			l.emitOperand(Token{Kind: KindLParen, Span: Span{Start: start, End: l.pos}})
		case ')':
			l.pos++
			l.emit(Token{Kind: KindRParen, Span: Span{Start: start, End: l.pos}})
		case ',':
			l.pos++
			l.emit(Token{Kind: KindOr, Span: Span{Start: start, End: l.pos}})
		default:
			l.word()
		}
	}
	l.emit(Token{Kind: KindEOF, Span: Span{Start: len(l.input), End: len(l.input)}})
	return l.tokens
}

// word consumes one whitespace-delimited word: an AND/OR keyword, a
// possibly negated field:value condition, or something unrecognized,
// which is consumed and dropped.
func (l *lexer) word() {
	start := l.pos

	negated := false
	if l.input[l.pos] == '-' {
		if l.pos+1 < len(l.input) && isLetter(l.input[l.pos+1]) {
			negated = true
			l.pos++
		} else {
			// A bare '-' is not a recognized token.
			l.pos++
			return
		}
	}

	nameStart := l.pos
	for l.pos < len(l.input) && !isTerminator(l.input[l.pos]) && l.input[l.pos] != ':' {
		l.pos++
	}
	name := l.input[nameStart:l.pos]

	if l.pos >= len(l.input) || l.input[l.pos] != ':' {
		// Bare word: only the AND/OR keywords mean anything. Negated
		// bare words do not fall back to literal-text matching.
		if !negated {
			switch strings.ToUpper(name) {
			case "AND":
				l.emit(Token{Kind: KindAnd, Span: Span{Start: start, End: l.pos}})
				return
			case "OR":
				l.emit(Token{Kind: KindOr, Span: Span{Start: start, End: l.pos}})
				return
			}
		}
		return
	}

	l.pos++ // consume ':'
	value := l.value()

	if !KnownField(name) {
		// Unknown field: the whole word, value included, is dropped.
		return
	}

	l.emitOperand(Token{
		Kind:    KindFilter,
		Field:   strings.ToLower(name),
		Value:   value,
		Negated: negated,
		Span:    Span{Start: start, End: l.pos},
	})
}

// value consumes a condition value: quoted with ' or " (backslash
// escapes the next character, an unterminated quote runs to end of
// input) or bare text up to the next terminator.
func (l *lexer) value() string {
	if l.pos < len(l.input) && (l.input[l.pos] == '"' || l.input[l.pos] == '\'') {
		quote := l.input[l.pos]
		l.pos++
		var b strings.Builder
		for l.pos < len(l.input) && l.input[l.pos] != quote {
			if l.input[l.pos] == '\\' && l.pos+1 < len(l.input) {
				l.pos++
			}
			b.WriteByte(l.input[l.pos])
			l.pos++
		}
		if l.pos < len(l.input) {
			l.pos++ // closing quote
		}
		return b.String()
	}

	start := l.pos
	for l.pos < len(l.input) && !isTerminator(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

// emitOperand emits a token that starts an operand (a filter or an
// opening paren), inserting an implicit AND when the previous token
// ended one. Explicit AND/OR keywords and commas emit operator tokens
// themselves, so no duplicate operator can appear.
func (l *lexer) emitOperand(tok Token) {
	if n := len(l.tokens); n > 0 {
		switch l.tokens[n-1].Kind {
		case KindFilter, KindRParen:
			l.emit(Token{Kind: KindAnd, Span: Span{Start: tok.Span.Start, End: tok.Span.Start}})
		}
	}
	l.emit(tok)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func isTerminator(ch byte) bool {
	return unicode.IsSpace(rune(ch)) || ch == '(' || ch == ')' || ch == ','
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}
