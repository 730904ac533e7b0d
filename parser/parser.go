// Package parser builds Amai's AST from a token stream. It is a
// generalization of informatter-nilan's parser/parser.go: the same
// ladder of precedence methods (or -> and -> equality -> comparison ->
// ... -> unary -> primary) returning (ast.Node, error) pairs, widened for
// Amai's larger operator set (bitwise, shift, range, concat, compound
// assignment) and grammar (FunDef/FunCall, typed LetDecl).
package parser

import (
	"amai/ast"
	"amai/span"
	"amai/token"
)

// Parser holds the token stream and the parser's current read position,
// matching nilan's Parser shape (parser/parser.go).
type Parser struct {
	tokens []token.Token
	pos    int
}

// Make constructs a Parser over a finished token stream (nilan's own
// parser.Make naming).
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token     { return p.tokens[p.pos] }
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) isFinished() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, &SyntaxError{Span: p.peek().Span, Message: message}
}

func mergeSpan(a, b span.Span) span.Span { return a.Merge(b) }

// Parse runs the parser to completion, building a module from a flat
// sequence of top-level items. It collects diagnostics across top-level
// items rather than stopping at the first error — the same "diagnostic
// collection policy" spec.md §4.1 applies to the analyzer, applied one
// layer up the pipeline — and resynchronizes at the next `func` keyword
// after an error so later functions can still be reported.
func (p *Parser) Parse(path string) (*ast.Module, []error) {
	var nodes []ast.Node
	var errs []error

	for !p.isFinished() {
		node, err := p.topLevelItem()
		if err != nil {
			errs = append(errs, err)
			p.synchronize()
			continue
		}
		nodes = append(nodes, node)
	}

	return &ast.Module{Path: path, Nodes: nodes}, errs
}

func (p *Parser) synchronize() {
	for !p.isFinished() {
		if p.check(token.FUNC_KW) {
			return
		}
		p.advance()
	}
}

// topLevelItem parses a FunDef, optionally Semi-wrapped, matching the
// root-level restriction of spec.md §4.1.
func (p *Parser) topLevelItem() (ast.Node, error) {
	fn, err := p.funDef()
	if err != nil {
		return nil, err
	}
	if p.match(token.SEMI) {
		return ast.NewSemi(fn, mergeSpan(fn.Span(), p.previous().Span)), nil
	}
	return fn, nil
}

func (p *Parser) funDef() (*ast.FunDef, error) {
	start, err := p.consume(token.FUNC_KW, "expected 'func'")
	if err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENT, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RPAREN) {
		pname, err := p.consume(token.IDENT, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' after parameter name"); err != nil {
			return nil, err
		}
		pty, err := p.frontendType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Lexeme, TypeAnno: *pty, Span: mergeSpan(pname.Span, pty.Span)})
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	var retTy *ast.FrontendType
	if p.match(token.ARROW) {
		t, err := p.frontendType()
		if err != nil {
			return nil, err
		}
		retTy = t
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFunDef(name.Lexeme, params, retTy, body, mergeSpan(start.Span, body.Span())), nil
}

// frontendType parses `int`, `[int]`, or `()` (spec.md §3.2).
func (p *Parser) frontendType() (*ast.FrontendType, error) {
	if p.check(token.LPAREN) {
		lparen := p.advance()
		rparen, err := p.consume(token.RPAREN, "expected ')' to close unit type")
		if err != nil {
			return nil, err
		}
		return &ast.FrontendType{Kind: ast.UnitType, Span: mergeSpan(lparen.Span, rparen.Span)}, nil
	}
	if p.match(token.LBRACKET) {
		elem, err := p.frontendType()
		if err != nil {
			return nil, err
		}
		rbrack, err := p.consume(token.RBRACKET, "expected ']' to close vector type")
		if err != nil {
			return nil, err
		}
		return &ast.FrontendType{Kind: ast.VectorType, Elem: elem, Span: mergeSpan(elem.Span, rbrack.Span)}, nil
	}
	name, err := p.consume(token.IDENT, "expected a type")
	if err != nil {
		return nil, err
	}
	return &ast.FrontendType{Kind: ast.NamedType, Name: name.Lexeme, Span: name.Span}, nil
}
