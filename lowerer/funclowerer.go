package lowerer

import (
	"fmt"

	"amai/ast"
	"amai/types"
	"amai/value"
	"amai/vm"
)

// funcLowerer lowers a single FunDef's body. Registers are never reused
// (a flat bump allocator over the frame's fixed register file) — simple
// and correct for the programs in scope, at the cost of register pressure
// a smarter allocator would avoid.
type funcLowerer struct {
	lw      *Lowerer
	code    []vm.Instruction
	consts  []value.Value
	interns map[value.Value]uint16
	scopes  []map[string]uint8
	nextReg int
}

func (fl *funcLowerer) emit(i vm.Instruction) { fl.code = append(fl.code, i) }

func (fl *funcLowerer) newReg() uint8 {
	r := fl.nextReg
	fl.nextReg++
	if fl.nextReg > vm.NumRegisters {
		panic(unsupported("function needs more than %d registers", vm.NumRegisters))
	}
	return uint8(r)
}

func (fl *funcLowerer) pushScope() { fl.scopes = append(fl.scopes, map[string]uint8{}) }
func (fl *funcLowerer) popScope()  { fl.scopes = fl.scopes[:len(fl.scopes)-1] }

func (fl *funcLowerer) bindVar(name string, reg uint8) {
	fl.scopes[len(fl.scopes)-1][name] = reg
}

func (fl *funcLowerer) resolveVar(name string) (uint8, bool) {
	for i := len(fl.scopes) - 1; i >= 0; i-- {
		if r, ok := fl.scopes[i][name]; ok {
			return r, true
		}
	}
	return 0, false
}

// constant interns v into this function's constant segment, returning its
// index relative to the frame's ConstantIdxBase, matching
// informatter-nilan/compiler/compiler.go's addConstant de-duplication.
func (fl *funcLowerer) constant(v value.Value) uint16 {
	if idx, ok := fl.interns[v]; ok {
		return idx
	}
	idx := uint16(len(fl.consts))
	fl.consts = append(fl.consts, v)
	fl.interns[v] = idx
	return idx
}

func (fl *funcLowerer) loadConstant(dest uint8, v value.Value) {
	fl.emit(vm.MakeRI16(vm.LOAD, dest, fl.constant(v)))
}

// lowerNode emits code that leaves n's value in dest.
func (fl *funcLowerer) lowerNode(n ast.Node, dest uint8) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ue, ok := r.(*unsupportedError); ok {
				err = ue
				return
			}
			panic(r)
		}
	}()

	switch node := n.(type) {
	case *ast.IntLit:
		fl.loadConstant(dest, value.FromInt(node.Value))
	case *ast.FloatLit:
		fl.loadConstant(dest, value.FromFloat(node.Value))
	case *ast.BoolLit:
		fl.loadConstant(dest, value.FromBool(node.Value))
	case *ast.UnitLit:
		fl.loadConstant(dest, value.Nil())
	case *ast.StringLit:
		return unsupported("string literals")
	case *ast.Identifier:
		reg, ok := fl.resolveVar(node.Name)
		if !ok {
			return fmt.Errorf("lowerer: unresolved variable %q (analyzer should have rejected this)", node.Name)
		}
		if reg != dest {
			fl.emit(vm.MakeRR(vm.MOVE, dest, reg))
		}
	case *ast.Semi:
		scratch := fl.newReg()
		return fl.lowerNode(node.Inner, scratch)
	case *ast.Block:
		return fl.lowerBlock(node, dest)
	case *ast.LetDecl:
		return fl.lowerLetDecl(node, dest)
	case *ast.BinaryOp:
		return fl.lowerBinaryOp(node, dest)
	case *ast.UnaryOp:
		return fl.lowerUnaryOp(node, dest)
	case *ast.If:
		return fl.lowerIf(node, dest)
	case *ast.While:
		return fl.lowerWhile(node, dest)
	case *ast.FunCall:
		return fl.lowerFunCall(node, dest)
	case *ast.FunDef:
		// Already hoisted and compiled by lowerBlock's pre-scan; as a
		// statement it contributes Unit, same as LetDecl.
		fl.loadConstant(dest, value.Nil())
	default:
		return fmt.Errorf("lowerer: unhandled node type %T", n)
	}
	return nil
}

// lowerBlock lowers every statement for effect, except the last — which,
// unless it's Semi-terminated, is the block's tail expression and
// determines its value (spec.md's Unit-by-default block semantics).
func (fl *funcLowerer) lowerBlock(b *ast.Block, dest uint8) error {
	fl.pushScope()
	defer fl.popScope()

	// Nested FunDefs are hoisted and compiled up front, mirroring the
	// analyzer's own "recollect" pass over inner FunDefs — a call earlier
	// in the block to a function defined later in the same block must
	// already resolve.
	for _, n := range b.Nodes {
		if fd := unwrapFunDef(n); fd != nil {
			if err := fl.hoistNestedFunDef(fd); err != nil {
				return err
			}
		}
	}

	if len(b.Nodes) == 0 {
		fl.loadConstant(dest, value.Nil())
		return nil
	}
	for _, n := range b.Nodes[:len(b.Nodes)-1] {
		if unwrapFunDef(n) != nil {
			continue // already hoisted above
		}
		if err := fl.lowerNode(n, fl.newReg()); err != nil {
			return err
		}
	}
	last := b.Nodes[len(b.Nodes)-1]
	if unwrapFunDef(last) != nil {
		fl.loadConstant(dest, value.Nil())
		return nil
	}
	if _, isSemi := last.(*ast.Semi); isSemi {
		if err := fl.lowerNode(last, fl.newReg()); err != nil {
			return err
		}
		fl.loadConstant(dest, value.Nil())
		return nil
	}
	return fl.lowerNode(last, dest)
}

// hoistNestedFunDef compiles a block-local function definition into its
// own vm.Function and registers it in the shared function table. Amai has
// no closures (Non-goal), so a nested FunDef captures nothing from its
// enclosing scope — it lowers exactly like a top-level one.
func (fl *funcLowerer) hoistNestedFunDef(fd *ast.FunDef) error {
	if _, exists := fl.lw.funcIndex[fd.Name]; exists {
		return nil
	}
	compiled, err := fl.lw.lowerFunDef(fd)
	if err != nil {
		return err
	}
	fl.lw.functions = append(fl.lw.functions, compiled)
	fl.lw.funcIndex[fd.Name] = len(fl.lw.functions) - 1
	return nil
}

func (fl *funcLowerer) lowerLetDecl(n *ast.LetDecl, dest uint8) error {
	reg := fl.newReg()
	if n.Init != nil {
		if err := fl.lowerNode(n.Init, reg); err != nil {
			return err
		}
	} else {
		fl.loadConstant(reg, value.Nil())
	}
	fl.bindVar(n.Name, reg)
	fl.loadConstant(dest, value.Nil())
	return nil
}

func (fl *funcLowerer) lowerUnaryOp(n *ast.UnaryOp, dest uint8) error {
	src := fl.newReg()
	if err := fl.lowerNode(n.Operand, src); err != nil {
		return err
	}
	switch n.Op {
	case ast.Neg:
		if n.OpTy != nil && n.OpTy.Kind == types.Float {
			fl.emit(vm.MakeRR(vm.FNEG, dest, src))
		} else {
			fl.emit(vm.MakeRR(vm.INEG, dest, src))
		}
	case ast.BitNot:
		fl.emit(vm.MakeRR(vm.BNOT, dest, src))
	case ast.LogNot:
		fl.emit(vm.MakeRR(vm.LNOT, dest, src))
	default:
		return unsupported("unary operator %s", n.Op)
	}
	return nil
}

