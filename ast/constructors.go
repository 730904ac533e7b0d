package ast

import "amai/span"

// Constructors for every node kind. base is unexported, so the parser
// (a different package) builds nodes through these rather than struct
// literals naming the embedded field directly.

func NewIntLit(value int64, sp span.Span) *IntLit {
	return &IntLit{base: base{SpanVal: sp}, Value: value}
}

func NewFloatLit(value float64, sp span.Span) *FloatLit {
	return &FloatLit{base: base{SpanVal: sp}, Value: value}
}

func NewStringLit(value string, sp span.Span) *StringLit {
	return &StringLit{base: base{SpanVal: sp}, Value: value}
}

func NewBoolLit(value bool, sp span.Span) *BoolLit {
	return &BoolLit{base: base{SpanVal: sp}, Value: value}
}

func NewUnitLit(sp span.Span) *UnitLit {
	return &UnitLit{base: base{SpanVal: sp}}
}

func NewIdentifier(name string, sp span.Span) *Identifier {
	return &Identifier{base: base{SpanVal: sp}, Name: name}
}

func NewSemi(inner Node, sp span.Span) *Semi {
	return &Semi{base: base{SpanVal: sp}, Inner: inner}
}

func NewBlock(nodes []Node, sp span.Span) *Block {
	return &Block{base: base{SpanVal: sp}, Nodes: nodes}
}

func NewBinaryOp(op Operator, left, right Node, sp span.Span) *BinaryOp {
	return &BinaryOp{base: base{SpanVal: sp}, Op: op, Left: left, Right: right}
}

func NewUnaryOp(op Operator, operand Node, sp span.Span) *UnaryOp {
	return &UnaryOp{base: base{SpanVal: sp}, Op: op, Operand: operand}
}

func NewLetDecl(name string, typeAnno *FrontendType, init Node, sp span.Span) *LetDecl {
	return &LetDecl{base: base{SpanVal: sp}, Name: name, TypeAnno: typeAnno, Init: init}
}

func NewIf(cond, then, els Node, sp span.Span) *If {
	return &If{base: base{SpanVal: sp}, Cond: cond, Then: then, Else: els}
}

func NewWhile(cond, body Node, sp span.Span) *While {
	return &While{base: base{SpanVal: sp}, Cond: cond, Body: body}
}

func NewFunDef(name string, params []Param, returnType *FrontendType, body Node, sp span.Span) *FunDef {
	return &FunDef{base: base{SpanVal: sp}, Name: name, Params: params, ReturnType: returnType, Body: body}
}

func NewFunCall(callee string, args []Node, sp span.Span) *FunCall {
	return &FunCall{base: base{SpanVal: sp}, Callee: callee, Args: args}
}
