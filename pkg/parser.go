package sanity

import (
	"fmt"
	"strconv"
)

// Parser is a recursive-descent parser over a fixed token sequence, with precedence climbing for the binary
// operators. It consumes the sequence strictly front-to-back and never looks more than one token ahead.
//
// Grounded on the teacher's pkg/parser.go (the peek/next/expect/check primitives and the statement/expr/
// additiveExpr/multiplicativeExpr/primary/literal production shape), corrected against spec.md's left-associativity
// invariant: the teacher recurses on the right-hand operand of +/-/*// ("rhs := p.additiveExpr()"), which builds a
// right-associative tree. This rebuild folds the operand list with the iterative loop the teacher already uses for
// function-call argument lists, which is exactly what spec.md §4.3 describes ("left recursion is encoded as
// iteration over the operand list").
type Parser struct {
	toks []Token
	pos  int
}

// NewParser creates a parser over toks. The slice is never mutated; the parser only ever advances its own cursor.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes nothing itself — it consumes an already-produced token sequence — and returns the parsed File. The
// first parse error aborts; there is no error recovery.
func Parse(toks []Token) (*File, error) {
	return NewParser(toks).parseFile()
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *Parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}

// expectKind pops the next token and requires it to have the given kind, else returns a ParseError naming label.
func (p *Parser) expectKind(kind TokenKind, label string) (Token, error) {
	return p.match(func(t Token) bool { return t.Kind == kind }, label)
}

// expectText pops the next token and requires it to be exact punctuation/keyword text, else returns a ParseError.
func (p *Parser) expectText(text string) (Token, error) {
	return p.match(func(t Token) bool { return t.Text == text }, fmt.Sprintf("%q", text))
}

// match pops the next token and requires pred to hold for it, else returns a ParseError naming label.
func (p *Parser) match(pred func(Token) bool, label string) (Token, error) {
	tok, ok := p.next()
	if !ok {
		return Token{}, &ParseError{Message: fmt.Sprintf("Expected %s, but got EOF.", label)}
	}

	if !pred(tok) {
		return Token{}, &ParseError{
			Message: fmt.Sprintf("Expected %s, but got %q (%s).", label, tok.Text, tok.Loc),
		}
	}

	return tok, nil
}

// checkText reports whether the next token (without consuming it) has the given source text.
func (p *Parser) checkText(text string) bool {
	tok, ok := p.peek()
	return ok && tok.Text == text
}

// checkKind reports whether the next token (without consuming it) has the given kind.
func (p *Parser) checkKind(kind TokenKind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

// parseFile implements File := (Extern | Statement)*.
func (p *Parser) parseFile() (*File, error) {
	file := &File{}

	for {
		if _, ok := p.peek(); !ok {
			return file, nil
		}

		if p.checkKind(KindIdentifier) && p.checkText("extern") {
			ext, err := p.parseExtern()
			if err != nil {
				return nil, err
			}

			file.Externs = append(file.Externs, ext)
			continue
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		file.Stmts = append(file.Stmts, stmt)
	}
}

// parseExtern implements Extern := "extern" Name ":" FuncType ";".
func (p *Parser) parseExtern() (*Extern, error) {
	kw, _ := p.next() // "extern", already checked by the caller

	name, err := p.expectKind(KindIdentifier, "an extern name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(":"); err != nil {
		return nil, err
	}

	proto, err := p.parseFuncType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(";"); err != nil {
		return nil, err
	}

	return &Extern{Name: name.Text, Proto: proto, Loc: kw.Loc}, nil
}

// parseStatement implements Statement := "let" Name ":" Type "=" Expr ";" | Expr ";".
func (p *Parser) parseStatement() (Stmt, error) {
	if p.checkKind(KindIdentifier) && p.checkText("let") {
		return p.parseLet()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(";"); err != nil {
		return nil, err
	}

	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseLet() (Stmt, error) {
	kw, _ := p.next() // "let"

	name, err := p.expectKind(KindIdentifier, "a let-binding name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(":"); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText("="); err != nil {
		return nil, err
	}

	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(";"); err != nil {
		return nil, err
	}

	return &LetStmt{Name: name.Text, Type: typ, Init: init, Loc: kw.Loc}, nil
}

// parseType implements Type := "int" | "string" | FuncType.
func (p *Parser) parseType() (Type, error) {
	if p.checkText("(") {
		return p.parseFuncType()
	}

	tok, err := p.expectKind(KindIdentifier, "a type")
	if err != nil {
		return nil, err
	}

	switch tok.Text {
	case "int":
		return IntType{}, nil
	case "string":
		return StringType{}, nil
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("Expected a type, but got %q (%s).", tok.Text, tok.Loc),
		}
	}
}

// parseFuncType implements FuncType := "(" (Type ("," Type)*)? ")" "->" Type.
func (p *Parser) parseFuncType() (FuncProto, error) {
	if _, err := p.expectText("("); err != nil {
		return FuncProto{}, err
	}

	var params []Type
	if !p.checkText(")") {
		t, err := p.parseType()
		if err != nil {
			return FuncProto{}, err
		}

		params = append(params, t)

		for p.checkText(",") {
			_, _ = p.next() // ","

			t, err := p.parseType()
			if err != nil {
				return FuncProto{}, err
			}

			params = append(params, t)
		}
	}

	if _, err := p.expectText(")"); err != nil {
		return FuncProto{}, err
	}

	if _, err := p.expectText("->"); err != nil {
		return FuncProto{}, err
	}

	ret, err := p.parseType()
	if err != nil {
		return FuncProto{}, err
	}

	return FuncProto{Params: params, Ret: ret}, nil
}

// parseExpr implements Expr := AddSub.
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseAddSub()
}

// parseAddSub implements AddSub := MulDiv (("+"|"-") MulDiv)*, left-associative: the operand list folds into a
// left-leaning Binary tree rather than recursing on the right-hand side.
func (p *Parser) parseAddSub() (Expr, error) {
	lhs, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}

	for p.checkText("+") || p.checkText("-") {
		opTok, _ := p.next()

		rhs, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{Op: BinOp(opTok.Text), Left: lhs, Right: rhs}
	}

	return lhs, nil
}

// parseMulDiv implements MulDiv := Paren (("*"|"/") Paren)*, left-associative.
func (p *Parser) parseMulDiv() (Expr, error) {
	lhs, err := p.parseParen()
	if err != nil {
		return nil, err
	}

	for p.checkText("*") || p.checkText("/") {
		opTok, _ := p.next()

		rhs, err := p.parseParen()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{Op: BinOp(opTok.Text), Left: lhs, Right: rhs}
	}

	return lhs, nil
}

// parseParen implements Paren := "(" Expr ")" | Leaf.
func (p *Parser) parseParen() (Expr, error) {
	if !p.checkText("(") {
		return p.parseLeaf()
	}

	_, _ = p.next() // "("

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectText(")"); err != nil {
		return nil, err
	}

	return expr, nil
}

// parseLeaf implements Leaf := CharLit | IntLit | StrLit | Call | IdentRef. Char/int/string literals are
// distinguished by the token's kind, not its text; Call vs IdentRef disambiguates by one-token lookahead for "("
// after consuming the identifier.
func (p *Parser) parseLeaf() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &ParseError{Message: "Expected an expression, but got EOF."}
	}

	switch tok.Kind {
	case KindInteger:
		_, _ = p.next()
		return parseIntLit(tok)
	case KindChar:
		_, _ = p.next()
		return parseCharLit(tok), nil
	case KindString:
		_, _ = p.next()
		return &StringLit{Value: tok.Text, Loc: tok.Loc}, nil
	case KindIdentifier:
		_, _ = p.next()

		if p.checkText("(") {
			return p.parseCallArgs(tok)
		}

		return &Ident{Name: tok.Text, Loc: tok.Loc}, nil
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("Expected an expression, but got %q (%s).", tok.Text, tok.Loc),
		}
	}
}

// parseCallArgs implements Call := Name "(" (Expr ("," Expr)*)? ")", given that Name has already been consumed.
func (p *Parser) parseCallArgs(name Token) (Expr, error) {
	_, _ = p.next() // "("

	var args []Expr
	if !p.checkText(")") {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		for p.checkText(",") {
			_, _ = p.next() // ","

			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}
	}

	if _, err := p.expectText(")"); err != nil {
		return nil, err
	}

	return &Call{Callee: name.Text, Args: args, Loc: name.Loc}, nil
}

func parseIntLit(tok Token) (Expr, error) {
	v, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		return nil, &ParseError{
			Message: fmt.Sprintf("integer literal %q out of range (%s)", tok.Text, tok.Loc),
		}
	}

	return &IntLit{Value: int32(v), Loc: tok.Loc}, nil
}

func parseCharLit(tok Token) Expr {
	runes := []rune(tok.Text)

	var v int32
	if len(runes) > 0 {
		v = runes[0]
	}

	return &CharLit{Value: v, Loc: tok.Loc}
}
