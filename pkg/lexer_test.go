package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgp1130/sanity-lang/internal/fuzztoken"
)

func TestLex(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		fail   bool
		expect []Token
	}{
		{
			name: "extern declaration",
			src:  "extern putchar: (int) -> int;",
			expect: []Token{
				{Text: "extern", Kind: KindIdentifier},
				{Text: "putchar", Kind: KindIdentifier},
				{Text: ":", Kind: KindPunct},
				{Text: "(", Kind: KindPunct},
				{Text: "int", Kind: KindIdentifier},
				{Text: ")", Kind: KindPunct},
				{Text: "->", Kind: KindPunct},
				{Text: "int", Kind: KindIdentifier},
				{Text: ";", Kind: KindPunct},
			},
		},
		{
			name: "line comment dropped",
			src:  "// a comment\nlet",
			expect: []Token{
				{Text: "let", Kind: KindIdentifier},
			},
		},
		{
			name: "block comment dropped",
			src:  "/* a\nmulti-line comment */let",
			expect: []Token{
				{Text: "let", Kind: KindIdentifier},
			},
		},
		{
			name: "unterminated block comment is fatal",
			src:  "/* never closed",
			fail: true,
		},
		{
			name: "string literal with escapes",
			src:  `"a\nb\"c"`,
			expect: []Token{
				{Text: "a\nb\"c", Kind: KindString},
			},
		},
		{
			name: "bare single quote in string is rejected",
			src:  `"it's"`,
			fail: true,
		},
		{
			name: "unterminated string is fatal",
			src:  `"oops`,
			fail: true,
		},
		{
			name: "char literal",
			src:  `'a'`,
			expect: []Token{
				{Text: "a", Kind: KindChar},
			},
		},
		{
			name: "escaped char literal",
			src:  `'\n'`,
			expect: []Token{
				{Text: "\n", Kind: KindChar},
			},
		},
		{
			name: "unrecognized escape is fatal",
			src:  `"\q"`,
			fail: true,
		},
		{
			name: "integer literal",
			src:  "12345",
			expect: []Token{
				{Text: "12345", Kind: KindInteger},
			},
		},
		{
			name: "empty input yields no tokens",
			src:  "",
			expect: nil,
		},
		{
			name: "whitespace-only input yields no tokens",
			src:  "  \t\n\n  ",
			expect: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Lex(c.src)

			if c.fail {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, len(c.expect), len(toks))
			for i := range c.expect {
				assert.Equal(t, c.expect[i].Text, toks[i].Text)
				assert.Equal(t, c.expect[i].Kind, toks[i].Kind)
			}
		})
	}
}

// TestLex_TokenSpansAreContiguous checks the provenance invariant: each token's span is one contiguous column range
// covering exactly the token's own text (no trivia, no escapes on this line), i.e. spans aren't off by one.
func TestLex_TokenSpansAreContiguous(t *testing.T) {
	toks, err := Lex("let x: int = 1 + 2;")
	assert.NoError(t, err)
	assert.NotEmpty(t, toks)

	for _, tok := range toks {
		assert.GreaterOrEqual(t, tok.Loc.EndCol, tok.Loc.StartCol)
		assert.Equal(t, len(tok.Text), tok.Loc.EndCol-tok.Loc.StartCol)
	}
}

func TestLex_RandomTokenSoupNeverPanics(t *testing.T) {
	for i := 0; i < 20; i++ {
		src := fuzztoken.GetRandomTokens(50)
		assert.NotPanics(t, func() {
			_, _ = Lex(src)
		})
	}
}
