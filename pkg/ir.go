package sanity

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Emitter walks a File and lowers it to an LLVM module via github.com/llir/llvm, the same backend IR library the
// teacher (go.maqui.dev) already uses. It owns the module being built, an insertion point inside the synthesized
// entry function, and a symbol environment mapping names to the IR values/functions they're bound to.
//
// Grounded on the teacher's pkg/ir.go (LLVMIRBuilder: mod/block/values fields, the recursive value-producing
// lowering functions) and on the original sanity-lang's src/generator/generator.cpp for the exact lowering
// semantics spec.md §4.5 calls for: 32-bit widening for char literals (so they work as putchar's argument),
// declare-vs-define based on whether a function has a body, and the arity-mismatch message shape.
type Emitter struct {
	mod     *ir.Module
	block   *ir.Block
	externs map[string]*ir.Func
	values  map[string]value.Value

	strConstants int
}

// NewEmitter creates an Emitter with a fresh, empty module. The module, its externs, and the symbol environment
// all live for the duration of one Emit call and are discarded (along with the Emitter) once IR text has been
// produced.
func NewEmitter() *Emitter {
	return &Emitter{
		mod:     ir.NewModule(),
		externs: make(map[string]*ir.Func),
	}
}

// Emit lowers file to an LLVM module: one declared function per extern, and one defined "main" of type () -> i32
// containing the lowered statements followed by "ret i32 0".
//
// State machine (insertion point), per spec.md §4.5: Initial (no function open) -> Externs (declaring functions
// only) -> Body (insertion point inside main's entry block) -> Terminated (after the return instruction, nothing
// further is lowered). The transitions are linear; Emit never re-enters an earlier state.
func Emit(file *File) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if bug, ok := r.(error); ok {
				err = bug
				return
			}

			panic(r)
		}
	}()

	e := NewEmitter()

	for _, ext := range file.Externs {
		if err := e.emitExtern(ext); err != nil {
			return nil, err
		}
	}

	main := e.mod.NewFunc("main", types.I32)
	e.block = main.NewBlock("entry")
	e.values = make(map[string]value.Value)

	for _, stmt := range file.Stmts {
		if err := e.emitStmt(stmt); err != nil {
			return nil, err
		}
	}

	e.block.NewRet(constant.NewInt(types.I32, 0))

	if err := e.verify(main); err != nil {
		return nil, err
	}

	return e.mod, nil
}

// verify runs the one structural check github.com/llir/llvm actually exposes over an assembled function: that
// every block (here, just "entry") ends in a terminator. llir/llvm is a pure IR builder/printer with no bundled
// verifier pass equivalent to LLVM's own llvm::verifyFunction, so this is the closest stand-in available; Emit
// always reaches this with a terminated block (the NewRet above guarantees it), so in practice this only catches
// a bug in Emit itself.
func (e *Emitter) verify(fn *ir.Func) error {
	for _, block := range fn.Blocks {
		if block.Term == nil {
			return &IllegalStateError{Reason: fmt.Sprintf("block %q has no terminator", block.LocalIdent.Name())}
		}
	}

	return nil
}

// emitExtern declares ext's prototype as an external-linkage function in the module. Two externs sharing a name
// is a Redeclared error (spec.md §9 flags this as reserved-but-unexercised in the original; this rebuild exercises
// it).
func (e *Emitter) emitExtern(ext *Extern) error {
	if _, exists := e.externs[ext.Name]; exists {
		return &RedeclaredError{Name: ext.Name}
	}

	params := make([]*ir.Param, len(ext.Proto.Params))
	for i, pt := range ext.Proto.Params {
		params[i] = ir.NewParam(fmt.Sprintf("arg%d", i), e.lowerType(pt))
	}

	fn := e.mod.NewFunc(ext.Name, e.lowerType(ext.Proto.Ret), params...)
	e.externs[ext.Name] = fn

	return nil
}

// lowerType lowers a Type node to its IR type: integer -> i32, string -> pointer-to-i8, function prototype -> a
// non-variadic IR function type with the declared parameter and return types.
func (e *Emitter) lowerType(t Type) types.Type {
	switch tt := t.(type) {
	case IntType:
		return types.I32
	case StringType:
		return types.I8Ptr
	case FuncProto:
		params := make([]types.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = e.lowerType(p)
		}

		return types.NewFunc(e.lowerType(tt.Ret), params...)
	default:
		panic(&AssertionError{Reason: fmt.Sprintf("unreachable type node %T", t)})
	}
}

// emitStmt lowers one top-level statement into the current insertion point.
func (e *Emitter) emitStmt(s Stmt) error {
	switch st := s.(type) {
	case *ExprStmt:
		_, err := e.emitExpr(st.Expr)
		return err
	case *LetStmt:
		v, err := e.emitExpr(st.Init)
		if err != nil {
			return err
		}

		// SSA binding only: no alloca, no load/store.
		e.values[st.Name] = v
		return nil
	default:
		panic(&AssertionError{Reason: fmt.Sprintf("unreachable statement node %T", s)})
	}
}

// emitExpr lowers an expression to the IR value it evaluates to. The result is always usable as an expression
// value, even when the enclosing statement discards it (an ExprStmt just drops the returned value.Value).
func (e *Emitter) emitExpr(expr Expr) (value.Value, error) {
	switch ex := expr.(type) {
	case *IntLit:
		return constant.NewInt(types.I32, int64(ex.Value)), nil
	case *CharLit:
		// Widened to 32 bits: the canonical use case is putchar(), whose parameter width is int. See the open
		// question in spec.md §9.
		return constant.NewInt(types.I32, int64(ex.Value)), nil
	case *StringLit:
		return e.internString(ex.Value), nil
	case *Ident:
		v, ok := e.values[ex.Name]
		if !ok {
			return nil, &UndeclaredError{Name: ex.Name}
		}

		return v, nil
	case *Call:
		return e.emitCall(ex)
	case *Binary:
		return e.emitBinary(ex)
	default:
		panic(&AssertionError{Reason: fmt.Sprintf("unreachable expression node %T", expr)})
	}
}

// internString interns s as a NUL-terminated global byte array and returns a pointer to its first element.
func (e *Emitter) internString(s string) value.Value {
	name := fmt.Sprintf(".str.%d", e.strConstants)
	e.strConstants++

	bytes := append([]byte(s), 0)
	init := constant.NewCharArrayFromString(string(bytes))
	glob := e.mod.NewGlobalDef(name, init)

	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(types.NewArray(uint64(len(bytes)), types.I8), glob, zero, zero)
}

// emitCall looks up the callee, checks its arity, lowers each argument in order, and emits the call.
func (e *Emitter) emitCall(call *Call) (value.Value, error) {
	fn, ok := e.externs[call.Callee]
	if !ok {
		return nil, &UndeclaredError{Name: call.Callee}
	}

	if len(call.Args) != len(fn.Params) {
		return nil, &TypeError{
			Message: fmt.Sprintf("function %q expects %d argument(s), got %d", call.Callee, len(fn.Params), len(call.Args)),
		}
	}

	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return e.block.NewCall(fn, args...), nil
}

// emitBinary lowers both operands, then emits the corresponding arithmetic instruction with a short name hint
// (add/sub/mul use ordinary signed semantics; division always lowers to signed division, since int is the only
// numeric type this language has).
func (e *Emitter) emitBinary(b *Binary) (value.Value, error) {
	l, err := e.emitExpr(b.Left)
	if err != nil {
		return nil, err
	}

	r, err := e.emitExpr(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case OpAdd:
		inst := e.block.NewAdd(l, r)
		inst.LocalIdent.SetName("addtmp")
		return inst, nil
	case OpSub:
		inst := e.block.NewSub(l, r)
		inst.LocalIdent.SetName("subtmp")
		return inst, nil
	case OpMul:
		inst := e.block.NewMul(l, r)
		inst.LocalIdent.SetName("multmp")
		return inst, nil
	case OpDiv:
		inst := e.block.NewSDiv(l, r)
		inst.LocalIdent.SetName("divtmp")
		return inst, nil
	default:
		panic(&AssertionError{Reason: fmt.Sprintf("unreachable binary operator %q", b.Op)})
	}
}
