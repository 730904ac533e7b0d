package analyzer

// context tracks whether the node currently being validated sits at module
// root (where only FunDef survives) or inside a function body.
type context int

const (
	ctxRoot context = iota
	ctxFunctionDecl
)
