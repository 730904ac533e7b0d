package analyzer

import (
	"amai/span"
	"amai/types"
)

// symbol is one scope entry (spec.md §3.3). It is always stored and looked
// up through a pointer so mutateSymbol's Unknown-back-fill — changing ty in
// place on first mutation — is visible to every alias of the scope map
// entry, mirroring the `&mut Symbol` the Rust checker holds during
// mutate_symbol.
type symbol struct {
	ty            types.Type
	uninitialized bool
	definedAt     span.Span
}
