package ast

import "amai/span"

// FrontendTypeKind distinguishes the syntactic forms a type annotation can
// take in source text (spec.md §3.2), before the analyzer resolves it to a
// types.Type.
type FrontendTypeKind int

const (
	NamedType FrontendTypeKind = iota
	VectorType
	UnitType
)

// FrontendType is the parser's untyped rendering of a `: T` annotation —
// `int`, `[int]`, `()` — kept separate from types.Type because the parser
// has no symbol table to resolve names against.
type FrontendType struct {
	Kind FrontendTypeKind
	Name string // NamedType only: "int", "float", "string", "bool"
	Elem *FrontendType
	Span span.Span
}
