package ast

import (
	"amai/span"
	"amai/types"
)

// Node is the common interface over every AST shape in spec.md §3.5. Accept
// follows informatter-nilan's visitor convention (ast/interfaces.go) but,
// unlike nilan's value-receiver expressions, every concrete node below is
// used through a pointer so the analyzer can annotate a node's resolved
// type in place and have later visits — and the lowerer — see it.
type Node interface {
	Span() span.Span
	Accept(v Visitor) any
}

// base carries the one piece of state every node needs regardless of kind:
// its source span, and the slot the analyzer fills in with the node's
// resolved type. Ty starts nil; the analyzer fills it for identifiers,
// blocks, operators, declarations, loops, function definitions, calls and
// expression-position `if`s, but not for literals, Semi nodes or
// statement-position `if`s.
type base struct {
	SpanVal span.Span
	Ty      *types.Type
}

func (b *base) Span() span.Span { return b.SpanVal }

// ResolvedType returns the type the analyzer assigned this node, or nil if
// analysis has not reached it yet.
func (b *base) ResolvedType() *types.Type { return b.Ty }

// SetResolvedType is how the analyzer records a node's type. The
// Unknown-to-concrete back-fill of a variable happens on its scope symbol,
// not through this slot.
func (b *base) SetResolvedType(t types.Type) { b.Ty = &t }

// Visitor dispatches over every concrete Node type, following
// informatter-nilan's pattern of one Visitor interface consumed by
// multiple backends (interpreter.go and compiler/ast_compiler.go both
// implement ast.ExpressionVisitor there). Neither the semantic analyzer
// nor the lowerer implements it; both use a type switch over Node.
type Visitor interface {
	VisitIntLit(n *IntLit) any
	VisitFloatLit(n *FloatLit) any
	VisitStringLit(n *StringLit) any
	VisitBoolLit(n *BoolLit) any
	VisitUnitLit(n *UnitLit) any
	VisitIdentifier(n *Identifier) any
	VisitSemi(n *Semi) any
	VisitBlock(n *Block) any
	VisitBinaryOp(n *BinaryOp) any
	VisitUnaryOp(n *UnaryOp) any
	VisitLetDecl(n *LetDecl) any
	VisitIf(n *If) any
	VisitWhile(n *While) any
	VisitFunDef(n *FunDef) any
	VisitFunCall(n *FunCall) any
}

type IntLit struct {
	base
	Value int64
}

func (n *IntLit) Accept(v Visitor) any { return v.VisitIntLit(n) }

type FloatLit struct {
	base
	Value float64
}

func (n *FloatLit) Accept(v Visitor) any { return v.VisitFloatLit(n) }

type StringLit struct {
	base
	Value string
}

func (n *StringLit) Accept(v Visitor) any { return v.VisitStringLit(n) }

type BoolLit struct {
	base
	Value bool
}

func (n *BoolLit) Accept(v Visitor) any { return v.VisitBoolLit(n) }

// UnitLit is the `()` literal — the sole inhabitant of the Unit type.
type UnitLit struct {
	base
}

func (n *UnitLit) Accept(v Visitor) any { return v.VisitUnitLit(n) }

type Identifier struct {
	base
	Name string
}

func (n *Identifier) Accept(v Visitor) any { return v.VisitIdentifier(n) }

// Semi wraps a statement-position expression whose value is discarded,
// e.g. `f(x);`. Its own type is always Unit.
type Semi struct {
	base
	Inner Node
}

func (n *Semi) Accept(v Visitor) any { return v.VisitSemi(n) }

// Block is a `{ ... }` sequence; its type is the type of its last node, or
// Unit if empty or the last node is a Semi.
type Block struct {
	base
	Nodes []Node
}

func (n *Block) Accept(v Visitor) any { return v.VisitBlock(n) }

// OpTypes is the pair of operand types the analyzer resolves for a binary
// operator once both sides have been visited — spec.md's "op_tys"
// annotation. It is a separate allocation (rather than two fields on
// BinaryOp directly) so analyzer code can pass it around as the single
// "has this operator been typed yet" signal.
type OpTypes struct {
	Left  types.Type
	Right types.Type
}

type BinaryOp struct {
	base
	Op          Operator
	Left, Right Node
	OpTys       *OpTypes
}

func (n *BinaryOp) Accept(v Visitor) any { return v.VisitBinaryOp(n) }

type UnaryOp struct {
	base
	Op      Operator
	Operand Node
	OpTy    *types.Type
}

func (n *UnaryOp) Accept(v Visitor) any { return v.VisitUnaryOp(n) }

// LetDecl declares a binding, optionally typed (`let x: int = 1;`) and
// optionally initialized (`let x: int;`, later assigned). TypeAnno is the
// parser's syntactic annotation; ResolvedTy is the type the analyzer
// gives the declaration — the annotation, else the initializer's type,
// else Unknown. A later assignment's back-fill updates the variable's
// symbol, not this field.
type LetDecl struct {
	base
	Name       string
	TypeAnno   *FrontendType
	Init       Node // nil when uninitialized
	ResolvedTy *types.Type
}

func (n *LetDecl) Accept(v Visitor) any { return v.VisitLetDecl(n) }

// If holds an optional Else, matching the surface grammar: a bare `if`
// with no `else` parses with Else == nil. Used at an expression position
// (spec.md's "force-exhaustive" typing, §4.1) a missing Else is a
// diagnostic, not a synthesized Unit branch.
type If struct {
	base
	Cond, Then Node
	Else       Node
}

func (n *If) Accept(v Visitor) any { return v.VisitIf(n) }

type While struct {
	base
	Cond, Body Node
}

func (n *While) Accept(v Visitor) any { return v.VisitWhile(n) }

type Param struct {
	Name     string
	TypeAnno FrontendType
	Span     span.Span
}

type FunDef struct {
	base
	Name       string
	Params     []Param
	ReturnType *FrontendType // nil means Unit
	Body       Node
}

func (n *FunDef) Accept(v Visitor) any { return v.VisitFunDef(n) }

type FunCall struct {
	base
	Callee string
	Args   []Node
}

func (n *FunCall) Accept(v Visitor) any { return v.VisitFunCall(n) }

// Module is the root of a parsed file: a flat sequence of top-level nodes.
// Only FunDef (optionally Semi-wrapped) survives analysis at root context;
// every other variant is rejected with an "X can't be a root-level item"
// diagnostic (spec.md §4.1).
type Module struct {
	Path  string
	Nodes []Node
}
