package analyzer

import (
	"amai/ast"
	"amai/types"
)

// infixOutput implements spec.md §4.1's operator typing table, ported from
// original_source/crates/amaic_analyzer/src/lib.rs's `TyExt::infix_output`.
// It returns the result type and true, or false if no rule matches.
func infixOutput(op ast.Operator, lhs, rhs types.Type) (types.Type, bool) {
	switch op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Rem:
		switch {
		case lhs.Kind == types.Int && rhs.Kind == types.Int:
			return types.Prim(types.Int), true
		case lhs.Kind == types.Float && rhs.Kind == types.Float:
			return types.Prim(types.Float), true
		default:
			return types.Type{}, false
		}
	case ast.Gt, ast.Lt, ast.Ge, ast.Le:
		if (lhs.Kind == types.Int && rhs.Kind == types.Int) ||
			(lhs.Kind == types.Float && rhs.Kind == types.Float) {
			return types.Prim(types.Bool), true
		}
		return types.Type{}, false
	case ast.Concat:
		if lhs.Kind == types.String && rhs.Kind == types.String {
			return types.Prim(types.String), true
		}
		if lhs.Kind == types.Vector && rhs.Kind == types.Vector && lhs.Elem.Equal(*rhs.Elem) {
			return types.MakeVector(*lhs.Elem), true
		}
		return types.Type{}, false
	case ast.BitOr, ast.BitAnd, ast.BitXor, ast.Shl, ast.Shr:
		if lhs.Kind == types.Int && rhs.Kind == types.Int {
			return types.Prim(types.Int), true
		}
		return types.Type{}, false
	case ast.Range, ast.RangeIncl:
		if lhs.Kind == types.Int && rhs.Kind == types.Int {
			return types.MakeVector(types.Prim(types.Int)), true
		}
		return types.Type{}, false
	case ast.LogOr, ast.LogAnd:
		if lhs.Kind == types.Bool && rhs.Kind == types.Bool {
			return types.Prim(types.Bool), true
		}
		return types.Type{}, false
	case ast.Eq, ast.Ne:
		if lhs.Equal(rhs) {
			return types.Prim(types.Bool), true
		}
		return types.Type{}, false
	default:
		// Assignment operators and prefix-only operators never reach
		// infixOutput; validateBinaryOp handles assignment separately.
		return types.Type{}, false
	}
}

// prefixOutput implements §4.1's prefix operator table.
func prefixOutput(op ast.Operator, operand types.Type) (types.Type, bool) {
	switch op {
	case ast.Add, ast.Neg:
		if operand.Kind == types.Int || operand.Kind == types.Float {
			return operand, true
		}
		return types.Type{}, false
	case ast.BitNot:
		if operand.Kind == types.Int {
			return types.Prim(types.Int), true
		}
		return types.Type{}, false
	case ast.LogNot:
		if operand.Kind == types.Bool {
			return types.Prim(types.Bool), true
		}
		return types.Type{}, false
	default:
		return types.Type{}, false
	}
}
