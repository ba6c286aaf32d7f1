package sanity

import "fmt"

// TokenKind classifies the lexeme held by a Token. The lexer tags every token with exactly one kind; the parser
// disambiguates keywords from plain identifiers later, based on the token's source text rather than its kind.
type TokenKind int

const (
	// KindIdentifier denotes an identifier-or-keyword token: a run of [A-Za-z0-9_] starting with [A-Za-z_]. Whether
	// the text is a keyword ("extern", "let", "int", "string") or a plain name is decided by the parser.
	KindIdentifier TokenKind = iota
	// KindInteger denotes a maximal run of decimal digits.
	KindInteger
	// KindChar denotes a single-quoted character literal, already escape-decoded.
	KindChar
	// KindString denotes a double-quoted string literal, already escape-decoded.
	KindString
	// KindPunct denotes punctuation: single characters, the "->" digraph, and keyword-like symbols such as ":" and
	// ";" that aren't spelled out as their own kind.
	KindPunct
)

func (k TokenKind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindInteger:
		return "integer-literal"
	case KindChar:
		return "char-literal"
	case KindString:
		return "string-literal"
	case KindPunct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Span records a token's source location as a 1-based, half-open range: Line is 1-based, StartCol is the 1-based
// column of the token's first rune and EndCol is the 1-based column one past the token's last rune. A zero Span
// (every field 0) means the token carries no provenance, which should never happen for a token produced by Lex.
type Span struct {
	Line     int
	StartCol int
	EndCol   int
}

func (s Span) String() string {
	return fmt.Sprintf("line %d, col %d-%d", s.Line, s.StartCol, s.EndCol)
}

// Token is an immutable lexeme record. Once produced by the lexer, a Token is never mutated and may be freely
// shared by reference between the parser and any diagnostic consumer.
type Token struct {
	// Text is the token's decoded source text. For string and char literals this is the decoded value (escapes
	// already resolved), not the raw source bytes.
	Text string
	// Kind classifies the token.
	Kind TokenKind
	// Loc is the token's source span, used for diagnostics.
	Loc Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Loc)
}
