package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseSrc(t *testing.T, src string) (*File, error) {
	t.Helper()

	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	return Parse(toks)
}

func TestParse_LeftAssociativity(t *testing.T) {
	file, err := parseSrc(t, "1 - 2 - 3;")
	assert.NoError(t, err)
	assert.Len(t, file.Stmts, 1)

	stmt, ok := file.Stmts[0].(*ExprStmt)
	assert.True(t, ok)

	top, ok := stmt.Expr.(*Binary)
	assert.True(t, ok)
	assert.Equal(t, OpSub, top.Op)

	// (1 - 2) - 3, not 1 - (2 - 3): the left child is itself a Binary, the right child is a leaf.
	left, ok := top.Left.(*Binary)
	assert.True(t, ok)
	assert.Equal(t, OpSub, left.Op)

	_, rightIsLeaf := top.Right.(*IntLit)
	assert.True(t, rightIsLeaf)
}

func TestParse_PrecedenceBindsMulTighterThanAdd(t *testing.T) {
	file, err := parseSrc(t, "1 + 2 * 3;")
	assert.NoError(t, err)

	stmt := file.Stmts[0].(*ExprStmt)
	top, ok := stmt.Expr.(*Binary)
	assert.True(t, ok)
	assert.Equal(t, OpAdd, top.Op)

	right, ok := top.Right.(*Binary)
	assert.True(t, ok)
	assert.Equal(t, OpMul, right.Op)

	_, leftIsLeaf := top.Left.(*IntLit)
	assert.True(t, leftIsLeaf)
}

func TestParse_IdentifierVsCallDisambiguation(t *testing.T) {
	file, err := parseSrc(t, "x; f();")
	assert.NoError(t, err)
	assert.Len(t, file.Stmts, 2)

	_, identOk := file.Stmts[0].(*ExprStmt).Expr.(*Ident)
	assert.True(t, identOk)

	call, callOk := file.Stmts[1].(*ExprStmt).Expr.(*Call)
	assert.True(t, callOk)
	assert.Equal(t, "f", call.Callee)
	assert.Empty(t, call.Args)
}

func TestParse_CallWithArgs(t *testing.T) {
	file, err := parseSrc(t, "f(1, 2, x);")
	assert.NoError(t, err)

	call := file.Stmts[0].(*ExprStmt).Expr.(*Call)
	assert.Equal(t, "f", call.Callee)
	assert.Len(t, call.Args, 3)
}

func TestParse_ExternDeclaration(t *testing.T) {
	file, err := parseSrc(t, "extern putchar: (int) -> int;")
	assert.NoError(t, err)
	assert.Len(t, file.Externs, 1)

	ext := file.Externs[0]
	assert.Equal(t, "putchar", ext.Name)
	assert.Len(t, ext.Proto.Params, 1)
	assert.Equal(t, IntType{}, ext.Proto.Params[0])
	assert.Equal(t, IntType{}, ext.Proto.Ret)
}

func TestParse_LetBinding(t *testing.T) {
	file, err := parseSrc(t, "let x: int = 1 + 2;")
	assert.NoError(t, err)
	assert.Len(t, file.Stmts, 1)

	let, ok := file.Stmts[0].(*LetStmt)
	assert.True(t, ok)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, IntType{}, let.Type)
}

func TestParse_EmptyFileIsValid(t *testing.T) {
	file, err := parseSrc(t, "")
	assert.NoError(t, err)
	assert.Empty(t, file.Externs)
	assert.Empty(t, file.Stmts)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"missing semicolon", "1 + 2"},
		{"unclosed paren", "(1 + 2;"},
		{"unknown type", "let x: nonsense = 1;"},
		{"eof mid expression", "1 +"},
		{"bad extern syntax", "extern foo int;"},
		{"trailing comma in func type params", "extern f: (int,) -> int;"},
		{"trailing comma in call args", "f(1,);"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parseSrc(t, c.src)
			assert.Error(t, err)
		})
	}
}

func TestFile_PrettyPrintIsIdempotentUnderReparse(t *testing.T) {
	srcs := []string{
		"extern putchar: (int) -> int;\nlet x: int = 1 + 2 * 3;\nputchar(x);\n",
		"extern f: (int, string) -> int;\nf(1, \"hi\");\n",
	}

	for _, src := range srcs {
		file, err := parseSrc(t, src)
		assert.NoError(t, err)

		printed := file.String()

		toks2, err := Lex(printed)
		assert.NoError(t, err)

		file2, err := Parse(toks2)
		assert.NoError(t, err)

		assert.Equal(t, printed, file2.String())
	}
}
