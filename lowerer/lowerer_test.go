package lowerer

import (
	"testing"

	"amai/ast"
	"amai/span"
	"amai/vm"
)

func sp() span.Span { return span.Make(0, 1) }

func runModule(t *testing.T, module *ast.Module, entry string) *vm.VM {
	t.Helper()
	functions, constants, err := New().Lower(module)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	m := vm.New(constants, false)
	ids := make(map[string]int)
	for i, fn := range functions {
		id, err := m.AddFunction(fn)
		if err != nil {
			t.Fatalf("AddFunction: %v", err)
		}
		ids[fn.Name] = id
		_ = i
	}
	m.CallFunction(ids[entry])
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return m
}

// func main() -> int { 2 + 3 * 4 } — spec.md §8 scenario 1 (return-as-sugar
// already stripped by the parser; here built directly as the AST the
// parser would produce).
func TestArithmeticProgramComputes14(t *testing.T) {
	mul := ast.NewBinaryOp(ast.Mul, ast.NewIntLit(3, sp()), ast.NewIntLit(4, sp()), sp())
	add := ast.NewBinaryOp(ast.Add, ast.NewIntLit(2, sp()), mul, sp())
	body := ast.NewBlock([]ast.Node{add}, sp())
	fn := ast.NewFunDef("main", nil, nil, body, sp())
	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fn}}

	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 14 {
		t.Errorf("result = %d, want 14", got)
	}
}

// func a() -> int { b() }  func b() -> int { 3 } — forward reference.
func TestForwardReferenceCallReturnsCallee(t *testing.T) {
	callB := ast.NewFunCall("b", nil, sp())
	bodyA := ast.NewBlock([]ast.Node{callB}, sp())
	fnA := ast.NewFunDef("a", nil, nil, bodyA, sp())

	bodyB := ast.NewBlock([]ast.Node{ast.NewIntLit(3, sp())}, sp())
	fnB := ast.NewFunDef("b", nil, nil, bodyB, sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fnA, fnB}}
	m := runModule(t, module, "a")
	if got := m.Frames[0].Registers[0].ToInt(); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

// func add(a: int, b: int) -> int { a + b }  func main() -> int { add(2, 5) }
func TestFunctionCallWithArgumentsReturnsSum(t *testing.T) {
	addBody := ast.NewBlock([]ast.Node{
		ast.NewBinaryOp(ast.Add, ast.NewIdentifier("a", sp()), ast.NewIdentifier("b", sp()), sp()),
	}, sp())
	params := []ast.Param{{Name: "a", Span: sp()}, {Name: "b", Span: sp()}}
	fnAdd := ast.NewFunDef("add", params, nil, addBody, sp())

	call := ast.NewFunCall("add", []ast.Node{ast.NewIntLit(2, sp()), ast.NewIntLit(5, sp())}, sp())
	fnMain := ast.NewFunDef("main", nil, nil, ast.NewBlock([]ast.Node{call}, sp()), sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fnAdd, fnMain}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 7 {
		t.Errorf("result = %d, want 7", got)
	}
}

// var x = 9; x = 9; noop(1); x — a let-bound variable survives a call made afterward
// that stages an unrelated argument through register 0.
func TestVariableSurvivesSubsequentCall(t *testing.T) {
	noop := ast.NewFunDef("noop", []ast.Param{{Name: "n", Span: sp()}}, nil,
		ast.NewBlock([]ast.Node{ast.NewUnitLit(sp())}, sp()), sp())

	letX := ast.NewLetDecl("x", nil, ast.NewIntLit(9, sp()), sp())
	assignSemi := ast.NewSemi(
		ast.NewBinaryOp(ast.Assign, ast.NewIdentifier("x", sp()), ast.NewIntLit(9, sp()), sp()), sp())
	call := ast.NewSemi(ast.NewFunCall("noop", []ast.Node{ast.NewIntLit(1, sp())}, sp()), sp())
	tail := ast.NewIdentifier("x", sp())
	body := ast.NewBlock([]ast.Node{letX, assignSemi, call, tail}, sp())
	fnMain := ast.NewFunDef("main", nil, nil, body, sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{noop, fnMain}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 9 {
		t.Errorf("result = %d, want 9 (x must survive the intervening call)", got)
	}
}

// while x < 3 { x = x + 1 }  then x — loop counts up to 3.
func TestWhileLoopCountsToThree(t *testing.T) {
	letX := ast.NewLetDecl("x", nil, ast.NewIntLit(0, sp()), sp())
	cond := ast.NewBinaryOp(ast.Lt, ast.NewIdentifier("x", sp()), ast.NewIntLit(3, sp()), sp())
	incr := ast.NewBinaryOp(ast.Assign, ast.NewIdentifier("x", sp()),
		ast.NewBinaryOp(ast.Add, ast.NewIdentifier("x", sp()), ast.NewIntLit(1, sp()), sp()), sp())
	loop := ast.NewWhile(cond, ast.NewBlock([]ast.Node{incr}, sp()), sp())
	body := ast.NewBlock([]ast.Node{letX, ast.NewSemi(loop, sp()), ast.NewIdentifier("x", sp())}, sp())
	fn := ast.NewFunDef("main", nil, nil, body, sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fn}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 3 {
		t.Errorf("result = %d, want 3", got)
	}
}

// if true { 1 } else { 2 } — the then-branch is taken.
func TestIfTrueTakesThenBranch(t *testing.T) {
	ifNode := ast.NewIf(ast.NewBoolLit(true, sp()),
		ast.NewBlock([]ast.Node{ast.NewIntLit(1, sp())}, sp()),
		ast.NewBlock([]ast.Node{ast.NewIntLit(2, sp())}, sp()), sp())
	fn := ast.NewFunDef("main", nil, nil, ast.NewBlock([]ast.Node{ifNode}, sp()), sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fn}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 1 {
		t.Errorf("result = %d, want 1", got)
	}
}

// if false { 1 } else { 2 } — the else-branch is taken.
func TestIfFalseTakesElseBranch(t *testing.T) {
	ifNode := ast.NewIf(ast.NewBoolLit(false, sp()),
		ast.NewBlock([]ast.Node{ast.NewIntLit(1, sp())}, sp()),
		ast.NewBlock([]ast.Node{ast.NewIntLit(2, sp())}, sp()), sp())
	fn := ast.NewFunDef("main", nil, nil, ast.NewBlock([]ast.Node{ifNode}, sp()), sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fn}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 2 {
		t.Errorf("result = %d, want 2", got)
	}
}

// func drop(x: int) -> int { 0 }
// func addOne(n: int) -> int { drop(99); n + 1 }
//
// n is addOne's sole parameter, so it is bound to register 0 — the exact
// register the call to drop(99) must stage its argument through. Without
// the save/restore around CALL, drop(99) would overwrite n with 99 before
// `n + 1` ever runs.
func TestParameterInRegisterZeroSurvivesNestedCall(t *testing.T) {
	dropBody := ast.NewBlock([]ast.Node{ast.NewIntLit(0, sp())}, sp())
	fnDrop := ast.NewFunDef("drop", []ast.Param{{Name: "x", Span: sp()}}, nil, dropBody, sp())

	dropCall := ast.NewSemi(ast.NewFunCall("drop", []ast.Node{ast.NewIntLit(99, sp())}, sp()), sp())
	sum := ast.NewBinaryOp(ast.Add, ast.NewIdentifier("n", sp()), ast.NewIntLit(1, sp()), sp())
	addOneBody := ast.NewBlock([]ast.Node{dropCall, sum}, sp())
	fnAddOne := ast.NewFunDef("addOne", []ast.Param{{Name: "n", Span: sp()}}, nil, addOneBody, sp())

	call := ast.NewFunCall("addOne", []ast.Node{ast.NewIntLit(41, sp())}, sp())
	fnMain := ast.NewFunDef("main", nil, nil, ast.NewBlock([]ast.Node{call}, sp()), sp())

	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fnDrop, fnAddOne, fnMain}}
	m := runModule(t, module, "main")
	if got := m.Frames[0].Registers[0].ToInt(); got != 42 {
		t.Errorf("result = %d, want 42 (n must survive drop(99) clobbering register 0)", got)
	}
}

func TestStringLiteralIsRejectedByLowerer(t *testing.T) {
	fn := ast.NewFunDef("main", nil, nil,
		ast.NewBlock([]ast.Node{ast.NewStringLit("hi", sp())}, sp()), sp())
	module := &ast.Module{Path: "t.amai", Nodes: []ast.Node{fn}}

	_, _, err := New().Lower(module)
	if err == nil {
		t.Fatal("expected an error lowering a string literal")
	}
}
