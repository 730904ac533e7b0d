package ast

// Operator is Amai's closed set of binary and unary operators (spec.md
// §3.6). It is a single enum rather than separate Binary/Unary types
// because a handful of tokens (Minus) are overloaded between the two, and
// the analyzer's typing tables key off exactly this set.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
	Rem
	Neg // unary minus

	BitOr
	BitAnd
	BitXor
	BitNot // unary
	Shl
	Shr

	LogOr
	LogAnd
	LogNot // unary

	Eq
	Ne
	Gt
	Lt
	Ge
	Le

	Concat
	Range
	RangeIncl

	Assign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	RemAssign
)

var operatorNames = map[Operator]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%", Neg: "-",
	BitOr: "|", BitAnd: "&", BitXor: "^", BitNot: "~", Shl: "<<", Shr: ">>",
	LogOr: "or", LogAnd: "and", LogNot: "!",
	Eq: "==", Ne: "!=", Gt: ">", Lt: "<", Ge: ">=", Le: "<=",
	Concat: "++", Range: "..", RangeIncl: "..=",
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=",
	DivAssign: "/=", RemAssign: "%=",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "<unknown operator>"
}

// IsCompoundAssign reports whether op is a `+=`-style operator: a
// read-modify-write of its left-hand operand.
func (op Operator) IsCompoundAssign() bool {
	switch op {
	case AddAssign, SubAssign, MulAssign, DivAssign, RemAssign:
		return true
	}
	return false
}

// Underlying returns the plain arithmetic operator a compound-assign
// operator desugars to (AddAssign -> Add).
func (op Operator) Underlying() Operator {
	switch op {
	case AddAssign:
		return Add
	case SubAssign:
		return Sub
	case MulAssign:
		return Mul
	case DivAssign:
		return Div
	case RemAssign:
		return Rem
	}
	return op
}
