// Package types defines Amai's semantic type system: the closed set of
// types the analyzer assigns to expressions, as distinct from the surface
// syntax types a programmer writes (see amai/ast.FrontendType).
package types

import "fmt"

// Kind tags which variant of Type is populated.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Bool
	Unit
	// Unknown is an inference placeholder: only ever produced by a
	// LetDecl with no type annotation and no initializer, and must be
	// resolved by the first mutation of the variable (see analyzer).
	Unknown
	Vector
	Func
)

// Type is Amai's semantic type: a closed sum of primitives, Vector(T), and
// Func(params, ret). Comparison is structural via Equal; Vector has no
// subtyping, only equality of its element type.
type Type struct {
	Kind Kind

	// Elem is populated for Kind == Vector.
	Elem *Type

	// Params/Ret are populated for Kind == Func.
	Params []Type
	Ret    *Type
}

func Prim(k Kind) Type { return Type{Kind: k} }

func MakeVector(elem Type) Type {
	return Type{Kind: Vector, Elem: &elem}
}

func MakeFunc(params []Type, ret Type) Type {
	return Type{Kind: Func, Params: params, Ret: &ret}
}

// Equal reports structural equality. Vector is covariant-by-equality only:
// Vector(Int) == Vector(Int), never Vector(Int) == Vector(Float).
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Vector:
		return t.Elem.Equal(*other.Elem)
	case Func:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return t.Ret.Equal(*other.Ret)
	default:
		return true
	}
}

// Display renders the type the way diagnostics quote it, e.g. "int",
// "[int]", "func(int, float) -> bool".
func (t Type) Display() string {
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Unit:
		return "()"
	case Unknown:
		return "{unknown}"
	case Vector:
		return fmt.Sprintf("[%s]", t.Elem.Display())
	case Func:
		params := ""
		for i, p := range t.Params {
			if i > 0 {
				params += ", "
			}
			params += p.Display()
		}
		return fmt.Sprintf("func(%s) -> %s", params, t.Ret.Display())
	default:
		return "?"
	}
}
