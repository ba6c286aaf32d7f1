package sanity

import (
	"fmt"
	"io"
	"strings"
)

// The AST is a closed family of nodes: Expr, Type, and Stmt are sum types implemented as interfaces with an
// unexported marker method, so no type outside this package can join the family. Every type switch over a node
// kind ends in a default branch that handles an unknown node. This replaces
// the original sanity-lang's double-dispatch visitor (AST node calls Generator, Generator overloads by node type)
// per the redesign note in §9: the same lowering semantics fall out of a type switch in the emitter (see
// ir.go) without needing a visitor interface at all.

// Expr is any expression node: literals, identifier references, calls, and binary operations.
type Expr interface {
	isExpr()
}

// IntLit is a 32-bit signed integer literal.
type IntLit struct {
	Value int32
	Loc   Span
}

func (*IntLit) isExpr() {}

// CharLit is a single-code-point character literal, stored widened to 32 bits (see §9's open question: the
// original widens char literals to int32 specifically so they work as putchar's argument, and this rebuild
// preserves that choice rather than inventing an 8-bit character type).
type CharLit struct {
	Value int32
	Loc   Span
}

func (*CharLit) isExpr() {}

// StringLit is a string literal holding its raw decoded bytes (escapes already resolved by the lexer).
type StringLit struct {
	Value string
	Loc   Span
}

func (*StringLit) isExpr() {}

// Ident is a bare identifier reference, resolved against the emitter's symbol environment.
type Ident struct {
	Name string
	Loc  Span
}

func (*Ident) isExpr() {}

// Call is a function call: a callee name plus ordered argument expressions.
type Call struct {
	Callee string
	Args   []Expr
	Loc    Span
}

func (*Call) isExpr() {}

// BinOp names a binary operator. Only add/sub/mul/div exist; "*" and "/" bind tighter than "+" and "-", and every
// operator is left-associative (see parser.go).
type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
)

// Binary is a binary operator expression. It carries no Span of its own: diagnostics that need a location walk to
// a leaf operand instead, per §3's provenance invariant ("achieved by keeping the originating token reference for
// leaves").
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*Binary) isExpr() {}

// Type is any type node: the two basic types, or a function prototype.
type Type interface {
	isType()
}

// IntType is the 32-bit signed integer type.
type IntType struct{}

func (IntType) isType() {}

// StringType is the pointer-to-byte string type.
type StringType struct{}

func (StringType) isType() {}

// FuncProto is a function prototype: ordered parameter types plus a return type. It is never variadic.
type FuncProto struct {
	Params []Type
	Ret    Type
}

func (FuncProto) isType() {}

// Stmt is any top-level statement: an expression evaluated for its side effects, or a let-binding.
type Stmt interface {
	isStmt()
}

// ExprStmt evaluates Expr and discards the result.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) isStmt() {}

// LetStmt binds Name, declared as Type, to the value of Init. The emitter treats this as an SSA binding: no
// alloca, no load/store.
type LetStmt struct {
	Name string
	Type Type
	Init Expr
	Loc  Span
}

func (*LetStmt) isStmt() {}

// Extern is a top-level extern function declaration: a name plus a prototype, with no body.
type Extern struct {
	Name  string
	Proto FuncProto
	Loc   Span
}

// File is the root of a parsed translation unit: an ordered list of extern declarations (order preserved but
// semantically unordered) followed by an ordered list of statements (order is semantically significant — it's
// execution order). A File with zero externs and zero statements is valid.
type File struct {
	Externs []*Extern
	Stmts   []Stmt
}

// String renders the canonical pretty-print form used by golden tests: externs first, then statements, each
// followed by a newline. Pretty-printing an AST and then lexing+parsing the result again yields an AST that
// pretty-prints identically.
func (f *File) String() string {
	var b strings.Builder
	_, _ = f.WriteTo(&b)
	return b.String()
}

// WriteTo implements io.WriterTo, writing the same canonical form as String.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	for _, e := range f.Externs {
		writeExtern(&b, e)
		b.WriteByte('\n')
	}

	for _, s := range f.Stmts {
		writeStmt(&b, s)
		b.WriteByte('\n')
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeExtern(b *strings.Builder, e *Extern) {
	fmt.Fprintf(b, "extern %s: ", e.Name)
	writeType(b, e.Proto)
	b.WriteByte(';')
}

func writeStmt(b *strings.Builder, s Stmt) {
	switch st := s.(type) {
	case *ExprStmt:
		writeExpr(b, st.Expr)
		b.WriteByte(';')
	case *LetStmt:
		fmt.Fprintf(b, "let %s: ", st.Name)
		writeType(b, st.Type)
		b.WriteString(" = ")
		writeExpr(b, st.Init)
		b.WriteByte(';')
	default:
		fmt.Fprintf(b, "<unknown statement %T>;", s)
	}
}

func writeType(b *strings.Builder, t Type) {
	switch ty := t.(type) {
	case IntType:
		b.WriteString("int")
	case StringType:
		b.WriteString("string")
	case FuncProto:
		b.WriteByte('(')
		for i, p := range ty.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, p)
		}
		b.WriteString(") -> ")
		writeType(b, ty.Ret)
	default:
		fmt.Fprintf(b, "<unknown type %T>", t)
	}
}

// writeExpr renders an expression. Binary operators are fully parenthesized on both sides, even for a single
// leaf operand, so associativity stays visible in the printed form (idempotence under reparse depends on this).
func writeExpr(b *strings.Builder, e Expr) {
	switch ex := e.(type) {
	case *IntLit:
		fmt.Fprintf(b, "%d", ex.Value)
	case *CharLit:
		fmt.Fprintf(b, "'%s'", escapeForPrint(ex.Value))
	case *StringLit:
		fmt.Fprintf(b, "\"%s\"", escapeStringForPrint(ex.Value))
	case *Ident:
		b.WriteString(ex.Name)
	case *Call:
		fmt.Fprintf(b, "%s(", ex.Callee)
		for i, a := range ex.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *Binary:
		b.WriteByte('(')
		writeExpr(b, ex.Left)
		b.WriteString(") ")
		b.WriteString(string(ex.Op))
		b.WriteString(" (")
		writeExpr(b, ex.Right)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<unknown expr %T>", e)
	}
}

func escapeForPrint(codePoint int32) string {
	switch codePoint {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\'':
		return `\'`
	case '"':
		return `\"`
	case '\\':
		return `\\`
	default:
		return string(rune(codePoint))
	}
}

// escapeStringForPrint renders a string literal's decoded value back into source form, escaping exactly the
// character set decodeEscape (pkg/lexer.go) knows how to decode and leaving everything else as a raw byte. Using
// fmt's %q here would reach for Go-specific escapes (\xHH, \a, \v, \f, \b, ...) that the lexer doesn't recognize,
// so a literal containing one of those bytes would pretty-print into text that fails to re-lex.
func escapeStringForPrint(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
