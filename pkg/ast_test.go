package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFile_String_RendersParenthesizedBinaryOperators(t *testing.T) {
	file := &File{
		Stmts: []Stmt{
			&ExprStmt{Expr: &Binary{
				Op:    OpAdd,
				Left:  &IntLit{Value: 1},
				Right: &Binary{Op: OpMul, Left: &IntLit{Value: 2}, Right: &IntLit{Value: 3}},
			}},
		},
	}

	assert.Equal(t, "(1) + ((2) * (3));\n", file.String())
}

func TestFile_String_RendersExternAndLet(t *testing.T) {
	file := &File{
		Externs: []*Extern{
			{Name: "putchar", Proto: FuncProto{Params: []Type{IntType{}}, Ret: IntType{}}},
		},
		Stmts: []Stmt{
			&LetStmt{Name: "x", Type: IntType{}, Init: &IntLit{Value: 5}},
		},
	}

	assert.Equal(t, "extern putchar: (int) -> int;\nlet x: int = 5;\n", file.String())
}

func TestFile_String_EmptyFileIsEmptyString(t *testing.T) {
	assert.Equal(t, "", (&File{}).String())
}

func TestEscapeForPrint(t *testing.T) {
	cases := []struct {
		in   rune
		want string
	}{
		{'\n', `\n`},
		{'\t', `\t`},
		{'\'', `\'`},
		{'a', "a"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, escapeForPrint(c.in))
	}
}

func TestEscapeStringForPrint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hi", "hi"},
		{"a\nb", `a\nb`},
		{"say \"hi\"", `say \"hi\"`},
		{"it\\'s", `it\\\'s`},
		// A raw control byte outside decodeEscape's table (here, a bell) isn't in the escape set lexString
		// requires, so it must pass through unescaped rather than turning into a Go-only \x07/\a sequence.
		{"bell:\a", "bell:\a"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, escapeStringForPrint(c.in))
	}
}

// TestFile_PrettyPrintIsIdempotentForControlBytes guards the round-trip property specifically for a string
// literal containing a byte that isn't in decodeEscape's escape table: such a byte must survive pretty-printing
// and re-lexing unchanged, rather than %q-style escaping producing a sequence decodeEscape rejects.
func TestFile_PrettyPrintIsIdempotentForControlBytes(t *testing.T) {
	file := &File{
		Stmts: []Stmt{
			&ExprStmt{Expr: &StringLit{Value: "bell:\a"}},
		},
	}

	printed := file.String()

	toks, err := Lex(printed)
	assert.NoError(t, err)

	file2, err := Parse(toks)
	assert.NoError(t, err)

	assert.Equal(t, printed, file2.String())
}
