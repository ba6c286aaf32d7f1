package sanity

import "fmt"

// Every compilation failure in this package is one of the kinds below. Each kind is a distinct Go type implementing
// error, named after the taxonomy in the original sanity-lang exception hierarchy
// (models/exceptions.h: AssertionException, FileNotFoundException, IllegalStateException, ParseException,
// SyntaxException, TypeException, UndeclaredException), plus RedeclaredError for the reserved-but-previously-unused
// kind. No stage recovers from an error locally; the first one raised unwinds to the driver.

// FileNotFoundError reports that the input path could not be opened.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("FileNotFound: %s (%s)", e.Path, e.Err)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// SyntaxError reports a lexical error, with the span of the offending input and a message.
type SyntaxError struct {
	Loc     Span
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax: %s (%s)", e.Message, e.Loc)
}

// ParseError reports a parser error. Message is fully formed by the parser (it already names what was expected
// and, unless the failure was at end-of-file, cites the offending token's text and span), since the two cases
// read differently: "Expected <label>, but got EOF." versus "Expected <label>, but got <text> (<span>)."
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse: %s", e.Message)
}

// TypeError reports an arity or type mismatch detected during IR emission.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type: %s", e.Message)
}

// UndeclaredError reports that the emitter could not resolve a name in scope.
type UndeclaredError struct {
	Name string
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("Undeclared: %q is not declared in this scope", e.Name)
}

// RedeclaredError reports that a name was declared more than once where exactly one declaration is allowed, e.g.
// two externs sharing a name.
type RedeclaredError struct {
	Name string
}

func (e *RedeclaredError) Error() string {
	return fmt.Sprintf("Redeclared: %q is already declared", e.Name)
}

// IllegalStateError indicates an internal invariant violation. It should never surface from valid input; its
// presence indicates a bug in this package rather than in the compiled program.
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("IllegalState: %s", e.Reason)
}

// AssertionError guards code paths that should be unreachable. Like IllegalStateError, seeing one means this
// package has a bug.
type AssertionError struct {
	Reason string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion: %s", e.Reason)
}
