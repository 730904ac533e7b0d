// Package lowerer walks an analyzer-annotated AST and emits one vm.Function
// per FunDef: packed 32-bit instructions over a bounded register file, plus
// the shared constant pool the VM links against (spec.md §3.8-§4.2). It is
// grounded on informatter-nilan/compiler/compiler.go's addConstant/emit
// idiom, re-targeted from a byte-stream stack machine to Amai's
// register-addressed encoding.
package lowerer

import (
	"fmt"

	"amai/ast"
	"amai/value"
	"amai/vm"
)

// Lowerer turns a whole module into the VM's function table and shared
// constant pool. Functions are registered in declaration order, which
// keeps their constant-pool segments contiguous in that same order — the
// addressing scheme vm.CallFunction relies on (see its doc comment).
type Lowerer struct {
	funcIndex map[string]int
	functions []*vm.Function
	constants []value.Value
}

// New constructs a Lowerer.
func New() *Lowerer {
	return &Lowerer{funcIndex: make(map[string]int)}
}

// unsupportedError reports an expression whose type cannot be represented
// by the VM's scalar NaN-boxed value domain or whose operator has no
// corresponding opcode. spec.md §4.2's opcode table only covers Int/Float/
// Bool scalar operations; String and Vector values, and the range/concat/
// shift operators, have no bytecode representation, so programs using them
// pass semantic analysis (which is backend-agnostic) but are rejected here
// rather than silently miscompiled.
type unsupportedError struct {
	what string
}

func (e *unsupportedError) Error() string {
	return fmt.Sprintf("lowerer: %s is not representable in the bytecode backend", e.what)
}

func unsupported(format string, args ...any) error {
	return &unsupportedError{what: fmt.Sprintf(format, args...)}
}

// Lower compiles every top-level FunDef in module into the VM's function
// table, returning it alongside the shared constant pool. Forward
// references (spec.md §8 scenario 5) are resolved by a first pass that
// assigns every function its id before any body is lowered, mirroring the
// analyzer's own collect-then-validate structure.
func (lw *Lowerer) Lower(module *ast.Module) ([]*vm.Function, []value.Value, error) {
	funDefs := collectFunDefs(module)

	for i, fn := range funDefs {
		lw.funcIndex[fn.Name] = i
	}

	for _, fn := range funDefs {
		compiled, err := lw.lowerFunDef(fn)
		if err != nil {
			return nil, nil, fmt.Errorf("function %q: %w", fn.Name, err)
		}
		lw.functions = append(lw.functions, compiled)
	}

	return lw.functions, lw.constants, nil
}

func collectFunDefs(module *ast.Module) []*ast.FunDef {
	var out []*ast.FunDef
	for _, n := range module.Nodes {
		out = append(out, unwrapFunDef(n))
	}
	return out
}

func unwrapFunDef(n ast.Node) *ast.FunDef {
	switch v := n.(type) {
	case *ast.FunDef:
		return v
	case *ast.Semi:
		return unwrapFunDef(v.Inner)
	default:
		return nil
	}
}

func (lw *Lowerer) lowerFunDef(fn *ast.FunDef) (*vm.Function, error) {
	fl := &funcLowerer{
		lw:      lw,
		interns: make(map[value.Value]uint16),
		scopes:  []map[string]uint8{{}},
	}

	for _, p := range fn.Params {
		fl.bindVar(p.Name, fl.newReg())
	}

	bodyDest := fl.newReg()
	if err := fl.lowerNode(fn.Body, bodyDest); err != nil {
		return nil, err
	}
	if bodyDest != 0 {
		fl.emit(vm.MakeRR(vm.MOVE, 0, bodyDest))
	}
	fl.emit(vm.MakeO(vm.RETN))

	lw.constants = append(lw.constants, fl.consts...)

	return &vm.Function{
		Bytecode:      fl.code,
		ConstantCount: len(fl.consts),
		Name:          fn.Name,
		Arity:         len(fn.Params),
	}, nil
}
