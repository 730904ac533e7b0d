// Package analyzer implements Amai's two-pass semantic checker: symbol
// resolution, operator-type dispatch, and exhaustive-branch unification
// over a parsed ast.Module, annotating BinaryOp/UnaryOp nodes in place.
//
// Ported from original_source/crates/amaic_analyzer/src/lib.rs's
// SemanticChecker, generalized from Rust's match-on-enum-variant dispatch
// to a Go type switch over ast.Node implementations — a deliberate
// departure from this module's own ast.Visitor pattern, since validateNode
// needs two extra per-call parameters (forceExhaustive, recollect) that a
// fixed Visitor method set cannot carry without inventing a context
// object for every call site.
package analyzer

import (
	"fmt"

	"amai/ast"
	"amai/diag"
	"amai/span"
	"amai/types"
)

// Checker is Amai's semantic analyzer (spec.md §4.1). It owns the scope
// stack and type registry for exactly one module; create one per file.
type Checker struct {
	path         string
	scopes       []map[string]*symbol
	typeRegistry map[string]types.Type
	context      context
}

// New creates a Checker seeded with the four built-in primitive type names.
func New(path string) *Checker {
	return &Checker{
		path:   path,
		scopes: []map[string]*symbol{make(map[string]*symbol)},
		typeRegistry: map[string]types.Type{
			"int":    types.Prim(types.Int),
			"float":  types.Prim(types.Float),
			"string": types.Prim(types.String),
			"bool":   types.Prim(types.Bool),
		},
		context: ctxRoot,
	}
}

func (c *Checker) defineSymbol(name string, ty types.Type, uninitialized bool, at span.Span) {
	scope := c.scopes[len(c.scopes)-1]
	scope[name] = &symbol{ty: ty, uninitialized: uninitialized, definedAt: at}
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, make(map[string]*symbol)) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

// mutateSymbol resolves name inside-out and either back-fills its Unknown
// type on first mutation or checks the mutation's type against what was
// already established.
func (c *Checker) mutateSymbol(name string, ty types.Type, at span.Span) *diag.Diagnostic {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		sym, ok := c.scopes[i][name]
		if !ok {
			continue
		}
		if sym.ty.Kind == types.Unknown {
			sym.ty = ty
			sym.uninitialized = false
		}
		if !sym.ty.Equal(ty) {
			d := diag.New(c.path, fmt.Sprintf(
				"Variable `%s` is defined as `%s` but found `%s`", name, sym.ty.Display(), ty.Display(),
			), at).WithSecondary("Variable was defined here:", sym.definedAt)
			return &d
		}
		return nil
	}
	d := diag.New(c.path, fmt.Sprintf("Couldn't find variable `%s` in scope", name), at)
	return &d
}

func (c *Checker) findSymbol(name string, at span.Span) (*symbol, *diag.Diagnostic) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i][name]; ok {
			return sym, nil
		}
	}
	d := diag.New(c.path, fmt.Sprintf("Couldn't find variable `%s` in scope", name), at)
	return nil, &d
}

func (c *Checker) resolveType(ft *ast.FrontendType) (types.Type, *diag.Diagnostic) {
	switch ft.Kind {
	case ast.NamedType:
		if t, ok := c.typeRegistry[ft.Name]; ok {
			return t, nil
		}
		d := diag.New(c.path, fmt.Sprintf("Cannot find type `%s`", ft.Name), ft.Span)
		return types.Type{}, &d
	case ast.UnitType:
		return types.Prim(types.Unit), nil
	case ast.VectorType:
		elem, d := c.resolveType(ft.Elem)
		if d != nil {
			return types.Type{}, d
		}
		return types.MakeVector(elem), nil
	default:
		d := diag.New(c.path, "Cannot find type", ft.Span)
		return types.Type{}, &d
	}
}

// funDefAt unwraps a node that is either a *ast.FunDef or a *ast.Semi
// wrapping one, returning nil if neither.
func funDefAt(node ast.Node) *ast.FunDef {
	switch n := node.(type) {
	case *ast.FunDef:
		return n
	case *ast.Semi:
		return funDefAt(n.Inner)
	default:
		return nil
	}
}

// collectFunction binds name -> Func(params, ret) for a single top-level
// FunDef (or Semi-wrapped FunDef), permitting forward references within
// the pass that calls it.
func (c *Checker) collectFunction(node ast.Node) *diag.Diagnostic {
	fn := funDefAt(node)
	if fn == nil {
		return nil
	}
	paramTys := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		t, d := c.resolveType(&p.TypeAnno)
		if d != nil {
			return d
		}
		paramTys[i] = t
	}
	retTy := types.Prim(types.Unit)
	if fn.ReturnType != nil {
		t, d := c.resolveType(fn.ReturnType)
		if d != nil {
			return d
		}
		retTy = t
	}
	c.defineSymbol(fn.Name, types.MakeFunc(paramTys, retTy), false, fn.Span())
	return nil
}

// Validate runs the two-pass algorithm over module and annotates its tree
// in place. It returns every diagnostic collected across all top-level
// nodes (spec.md's "diagnostic collection policy") rather than stopping at
// the first one.
func (c *Checker) Validate(module *ast.Module) []diag.Diagnostic {
	var diags []diag.Diagnostic

	for _, node := range module.Nodes {
		if d := c.collectFunction(node); d != nil {
			diags = append(diags, *d)
		}
	}

	for _, node := range module.Nodes {
		if _, nodeDiags := c.validateNode(node, false, false); nodeDiags != nil {
			diags = append(diags, nodeDiags...)
		}
	}

	return diags
}

// validateNode is the core recursive rule table of spec.md §4.1. When
// recollect is true, any top-level FunDef directly at node is (re)bound
// before it is visited, so nested function definitions can forward-
// reference each other within their enclosing block. forceExhaustive
// controls whether an `if` at this position must produce a value.
func (c *Checker) validateNode(node ast.Node, forceExhaustive, recollect bool) (types.Type, []diag.Diagnostic) {
	if recollect {
		if d := c.collectFunction(node); d != nil {
			return types.Type{}, []diag.Diagnostic{*d}
		}
	}

	switch n := node.(type) {
	case *ast.IntLit:
		return c.literalType(types.Prim(types.Int), "Integer literals", n)
	case *ast.FloatLit:
		return c.literalType(types.Prim(types.Float), "Float literals", n)
	case *ast.StringLit:
		return c.literalType(types.Prim(types.String), "String literals", n)
	case *ast.BoolLit:
		return c.literalType(types.Prim(types.Bool), "Booleans", n)
	case *ast.UnitLit:
		return c.literalType(types.Prim(types.Unit), "Units", n)
	case *ast.Identifier:
		return c.validateIdentifier(n)
	case *ast.Semi:
		return c.validateSemi(n)
	case *ast.Block:
		return c.validateBlock(n, forceExhaustive)
	case *ast.BinaryOp:
		return c.validateBinaryOp(n)
	case *ast.UnaryOp:
		return c.validateUnaryOp(n)
	case *ast.LetDecl:
		return c.validateLetDecl(n)
	case *ast.If:
		return c.validateIf(n, forceExhaustive)
	case *ast.While:
		return c.validateWhile(n, forceExhaustive)
	case *ast.FunDef:
		return c.validateFunDef(n)
	case *ast.FunCall:
		return c.validateFunCall(n)
	default:
		d := diag.New(c.path, "Unrecognized AST node", node.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}
}

func (c *Checker) literalType(t types.Type, label string, node ast.Node) (types.Type, []diag.Diagnostic) {
	if c.context != ctxRoot {
		return t, nil
	}
	d := diag.New(c.path, fmt.Sprintf("%s can't be a root-level item", label), node.Span())
	return types.Type{}, []diag.Diagnostic{d}
}

func (c *Checker) validateIdentifier(n *ast.Identifier) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Identifiers can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}
	sym, d := c.findSymbol(n.Name, n.Span())
	if d != nil {
		return types.Type{}, []diag.Diagnostic{*d}
	}
	n.SetResolvedType(sym.ty)
	return sym.ty, nil
}

func (c *Checker) validateSemi(n *ast.Semi) (types.Type, []diag.Diagnostic) {
	if _, d := c.validateNode(n.Inner, false, true); d != nil {
		return types.Type{}, d
	}
	return types.Prim(types.Unit), nil
}

// validateBlock checks every statement in order; the last one is the
// block's value, so it inherits forceExhaustive while earlier ones do not.
func (c *Checker) validateBlock(n *ast.Block, forceExhaustive bool) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Blocks can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}
	for _, stmt := range n.Nodes {
		if d := c.collectFunction(stmt); d != nil {
			return types.Type{}, []diag.Diagnostic{*d}
		}
	}
	last := types.Prim(types.Unit)
	for i, stmt := range n.Nodes {
		t, d := c.validateNode(stmt, forceExhaustive && i == len(n.Nodes)-1, false)
		if d != nil {
			return types.Type{}, d
		}
		last = t
	}
	n.SetResolvedType(last)
	return last, nil
}

var assignmentOps = map[ast.Operator]bool{
	ast.Assign: true, ast.AddAssign: true, ast.SubAssign: true,
	ast.MulAssign: true, ast.DivAssign: true, ast.RemAssign: true,
}

func (c *Checker) validateBinaryOp(n *ast.BinaryOp) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Binary operations can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	if assignmentOps[n.Op] {
		return c.validateAssignment(n)
	}

	lhsTy, d := c.validateNode(n.Left, true, true)
	if d != nil {
		return types.Type{}, d
	}
	rhsTy, d2 := c.validateNode(n.Right, true, true)
	if d2 != nil {
		return types.Type{}, d2
	}

	out, ok := infixOutput(n.Op, lhsTy, rhsTy)
	if !ok {
		err := diag.New(c.path, fmt.Sprintf(
			"Cannot apply `%s` as an infix operator on types `%s` and `%s`", n.Op, lhsTy.Display(), rhsTy.Display(),
		), n.Span())
		return types.Type{}, []diag.Diagnostic{err}
	}
	n.OpTys = &ast.OpTypes{Left: lhsTy, Right: rhsTy}
	n.SetResolvedType(out)
	return out, nil
}

func (c *Checker) validateAssignment(n *ast.BinaryOp) (types.Type, []diag.Diagnostic) {
	ident, ok := n.Left.(*ast.Identifier)
	if !ok {
		d := diag.New(c.path, "Can only mutate variables", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	rhsTy, d := c.validateNode(n.Right, true, true)
	if d != nil {
		return types.Type{}, d
	}
	if md := c.mutateSymbol(ident.Name, rhsTy, n.Span()); md != nil {
		return types.Type{}, []diag.Diagnostic{*md}
	}
	sym, fd := c.findSymbol(ident.Name, n.Span())
	if fd != nil {
		return types.Type{}, []diag.Diagnostic{*fd}
	}
	if n.Op != ast.Assign && sym.ty.Kind != types.Int && sym.ty.Kind != types.Float {
		err := diag.New(c.path, fmt.Sprintf(
			"Cannot use arithmetic mutation on variable of type `%s`", sym.ty.Display(),
		), n.Span()).WithSecondary(fmt.Sprintf("Variable `%s` was defined here:", ident.Name), sym.definedAt)
		return types.Type{}, []diag.Diagnostic{err}
	}
	varTy := sym.ty
	n.OpTys = &ast.OpTypes{Left: varTy, Right: rhsTy}
	unit := types.Prim(types.Unit)
	n.SetResolvedType(unit)
	return unit, nil
}

func (c *Checker) validateUnaryOp(n *ast.UnaryOp) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Unary operations can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}
	operandTy, d := c.validateNode(n.Operand, true, true)
	if d != nil {
		return types.Type{}, d
	}
	out, ok := prefixOutput(n.Op, operandTy)
	if !ok {
		err := diag.New(c.path, fmt.Sprintf(
			"Cannot apply `%s` as a unary operator on type `%s`", n.Op, operandTy.Display(),
		), n.Span())
		return types.Type{}, []diag.Diagnostic{err}
	}
	n.OpTy = &operandTy
	n.SetResolvedType(out)
	return out, nil
}

func (c *Checker) validateLetDecl(n *ast.LetDecl) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Variable declarations can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	varTy := types.Prim(types.Unknown)
	if n.TypeAnno != nil {
		t, d := c.resolveType(n.TypeAnno)
		if d != nil {
			return types.Type{}, []diag.Diagnostic{*d}
		}
		varTy = t
	}

	if n.Init != nil {
		initTy, d := c.validateNode(n.Init, true, true)
		if d != nil {
			return types.Type{}, d
		}
		if varTy.Kind == types.Unknown {
			varTy = initTy
		}
		if !initTy.Equal(varTy) {
			err := diag.New(c.path, fmt.Sprintf(
				"Variable `%s` is declared as `%s` but initialized as `%s`", n.Name, varTy.Display(), initTy.Display(),
			), n.Init.Span())
			return types.Type{}, []diag.Diagnostic{err}
		}
		c.defineSymbol(n.Name, varTy, false, n.Span())
	} else {
		c.defineSymbol(n.Name, varTy, true, n.Span())
	}

	n.ResolvedTy = &varTy
	unit := types.Prim(types.Unit)
	n.SetResolvedType(unit)
	return unit, nil
}

// validateIf follows original_source's control flow exactly, including its
// quirk that a hard error validating the then/else branch discards any
// condition diagnostics collected so far (see DESIGN.md) — condition
// diagnostics only surface merged into the final result when the branches
// themselves validate cleanly. At statement position (forceExhaustive
// false) they are discarded as well.
func (c *Checker) validateIf(n *ast.If, forceExhaustive bool) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "`if` conditionals can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	var errs []diag.Diagnostic
	condTy, d := c.validateNode(n.Cond, true, true)
	if d != nil {
		errs = append(errs, d...)
	} else if condTy.Kind != types.Bool {
		errs = append(errs, diag.New(c.path, "Expected boolean condition in `if`", n.Cond.Span()))
	}

	thenTy, d := c.validateNode(n.Then, forceExhaustive, true)
	if d != nil {
		return types.Type{}, d
	}

	if !forceExhaustive {
		return types.Prim(types.Unit), nil
	}

	if n.Else == nil {
		errs = append(errs, diag.New(c.path, fmt.Sprintf(
			"Missing `else` clause that evaluates to type `%s`", thenTy.Display(),
		), n.Span()))
		return types.Type{}, errs
	}

	elseTy, d := c.validateNode(n.Else, forceExhaustive, true)
	if d != nil {
		return types.Type{}, d
	}
	if !elseTy.Equal(thenTy) {
		errs = append(errs, diag.New(c.path, fmt.Sprintf(
			"`if`'s clauses has different return types: `%s` and `%s`", thenTy.Display(), elseTy.Display(),
		), n.Span()))
		return types.Type{}, errs
	}
	if len(errs) > 0 {
		return types.Type{}, errs
	}
	n.SetResolvedType(thenTy)
	return thenTy, nil
}

func (c *Checker) validateWhile(n *ast.While, forceExhaustive bool) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "`while` loops can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	condTy, d := c.validateNode(n.Cond, true, true)
	if d != nil {
		return types.Type{}, d
	}
	var errs []diag.Diagnostic
	if condTy.Kind != types.Bool {
		errs = append(errs, diag.New(c.path, "Expected boolean condition in `while`", n.Cond.Span()))
	}

	c.pushScope()
	_, bodyDiags := c.validateNode(n.Body, false, true)
	c.popScope()
	errs = append(errs, bodyDiags...)
	if len(errs) > 0 {
		return types.Type{}, errs
	}
	unit := types.Prim(types.Unit)
	n.SetResolvedType(unit)
	return unit, nil
}

func (c *Checker) validateFunDef(n *ast.FunDef) (types.Type, []diag.Diagnostic) {
	scope := make(map[string]*symbol)
	for _, p := range n.Params {
		t, d := c.resolveType(&p.TypeAnno)
		if d != nil {
			return types.Type{}, []diag.Diagnostic{*d}
		}
		scope[p.Name] = &symbol{ty: t, uninitialized: false, definedAt: p.Span}
	}
	c.scopes = append(c.scopes, scope)
	prevCtx := c.context
	c.context = ctxFunctionDecl

	bodyTy, d := c.validateNode(n.Body, true, true)
	if d != nil {
		c.popScope()
		c.context = prevCtx
		return types.Type{}, d
	}

	retTy := types.Prim(types.Unit)
	if n.ReturnType != nil {
		t, rd := c.resolveType(n.ReturnType)
		if rd != nil {
			c.popScope()
			c.context = prevCtx
			return types.Type{}, []diag.Diagnostic{*rd}
		}
		retTy = t
	}

	if !bodyTy.Equal(retTy) {
		err := diag.New(c.path, fmt.Sprintf(
			"Function `%s` is declared as a function of return type `%s`, but body returns `%s`",
			n.Name, retTy.Display(), bodyTy.Display(),
		), n.Body.Span())
		c.popScope()
		c.context = prevCtx
		return types.Type{}, []diag.Diagnostic{err}
	}

	c.popScope()
	c.context = prevCtx
	n.SetResolvedType(retTy)
	return retTy, nil
}

func (c *Checker) validateFunCall(n *ast.FunCall) (types.Type, []diag.Diagnostic) {
	if c.context == ctxRoot {
		d := diag.New(c.path, "Function calls can't be a root-level item", n.Span())
		return types.Type{}, []diag.Diagnostic{d}
	}

	sym, d := c.findSymbol(n.Callee, n.Span())
	if d != nil {
		return types.Type{}, []diag.Diagnostic{*d}
	}
	if sym.ty.Kind != types.Func {
		err := diag.New(c.path, fmt.Sprintf("Identifier %s is not a function", n.Callee), n.Span())
		return types.Type{}, []diag.Diagnostic{err}
	}
	if len(n.Args) != len(sym.ty.Params) {
		err := diag.New(c.path, fmt.Sprintf(
			"Function `%s` expects %d argument(s) but found %d", n.Callee, len(sym.ty.Params), len(n.Args),
		), n.Span())
		return types.Type{}, []diag.Diagnostic{err}
	}
	for i, arg := range n.Args {
		argTy, ad := c.validateNode(arg, true, true)
		if ad != nil {
			return types.Type{}, ad
		}
		if !argTy.Equal(sym.ty.Params[i]) {
			err := diag.New(c.path, fmt.Sprintf(
				"Function has argument #%d as type `%s` but found `%s`", i, sym.ty.Params[i].Display(), argTy.Display(),
			), n.Span())
			return types.Type{}, []diag.Diagnostic{err}
		}
	}
	retTy := *sym.ty.Ret
	n.SetResolvedType(retTy)
	return retTy, nil
}
