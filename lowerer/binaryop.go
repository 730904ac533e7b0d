package lowerer

import (
	"amai/ast"
	"amai/types"
	"amai/value"
	"amai/vm"
)

var assignmentOps = map[ast.Operator]bool{
	ast.Assign: true, ast.AddAssign: true, ast.SubAssign: true,
	ast.MulAssign: true, ast.DivAssign: true, ast.RemAssign: true,
}

func (fl *funcLowerer) lowerBinaryOp(n *ast.BinaryOp, dest uint8) error {
	if assignmentOps[n.Op] {
		return fl.lowerAssignment(n, dest)
	}

	left := fl.newReg()
	if err := fl.lowerNode(n.Left, left); err != nil {
		return err
	}
	right := fl.newReg()
	if err := fl.lowerNode(n.Right, right); err != nil {
		return err
	}

	isFloat := n.OpTys != nil && n.OpTys.Left.Kind == types.Float

	switch n.Op {
	case ast.Add:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FADD, vm.IADD), dest, left, right))
	case ast.Sub:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FSUB, vm.ISUB), dest, left, right))
	case ast.Mul:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FMUL, vm.IMUL), dest, left, right))
	case ast.Div:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FDIV, vm.IDIV), dest, left, right))
	case ast.Rem:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FREM, vm.IREM), dest, left, right))
	case ast.BitOr:
		fl.emit(vm.MakeRRR(vm.BOR, dest, left, right))
	case ast.BitAnd:
		fl.emit(vm.MakeRRR(vm.BAND, dest, left, right))
	case ast.BitXor:
		fl.emit(vm.MakeRRR(vm.BXOR, dest, left, right))
	case ast.LogOr:
		fl.emit(vm.MakeRRR(vm.LOR, dest, left, right))
	case ast.LogAnd:
		fl.emit(vm.MakeRRR(vm.LAND, dest, left, right))
	case ast.Eq:
		fl.emit(vm.MakeRRR(vm.CMEQ, dest, left, right))
	case ast.Ne:
		fl.emit(vm.MakeRRR(vm.CMNE, dest, left, right))
	case ast.Gt:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FCGT, vm.ICGT), dest, left, right))
	case ast.Lt:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FCLT, vm.ICLT), dest, left, right))
	case ast.Ge:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FCGE, vm.ICGE), dest, left, right))
	case ast.Le:
		fl.emit(vm.MakeRRR(pick(isFloat, vm.FCLE, vm.ICLE), dest, left, right))
	default:
		return unsupported("operator %s", n.Op)
	}
	return nil
}

func pick(useA bool, a, b vm.Opcode) vm.Opcode {
	if useA {
		return a
	}
	return b
}

// lowerAssignment handles `=` and the compound arithmetic assignments; the
// analyzer has already checked the left-hand side is an identifier and,
// for compound forms, that its type is numeric (checker.go's
// validateAssignment).
func (fl *funcLowerer) lowerAssignment(n *ast.BinaryOp, dest uint8) error {
	ident := n.Left.(*ast.Identifier)
	varReg, ok := fl.resolveVar(ident.Name)
	if !ok {
		return unsupported("assignment to unresolved variable %q", ident.Name)
	}

	if n.Op == ast.Assign {
		if err := fl.lowerNode(n.Right, varReg); err != nil {
			return err
		}
		fl.loadConstant(dest, value.Nil())
		return nil
	}

	rhs := fl.newReg()
	if err := fl.lowerNode(n.Right, rhs); err != nil {
		return err
	}
	isFloat := n.OpTys != nil && n.OpTys.Left.Kind == types.Float
	var op vm.Opcode
	switch n.Op {
	case ast.AddAssign:
		op = pick(isFloat, vm.FADD, vm.IADD)
	case ast.SubAssign:
		op = pick(isFloat, vm.FSUB, vm.ISUB)
	case ast.MulAssign:
		op = pick(isFloat, vm.FMUL, vm.IMUL)
	case ast.DivAssign:
		op = pick(isFloat, vm.FDIV, vm.IDIV)
	case ast.RemAssign:
		op = pick(isFloat, vm.FREM, vm.IREM)
	default:
		return unsupported("compound assignment operator %s", n.Op)
	}
	fl.emit(vm.MakeRRR(op, varReg, varReg, rhs))
	fl.loadConstant(dest, value.Nil())
	return nil
}
