package parser

import (
	"amai/ast"
	"amai/token"
)

// statement parses one item inside a block: a `var`/`const` LetDecl, an
// `if`, a `while`, a nested `func`, or an expression — optionally
// `return`-prefixed and/or `;`-terminated. `return` has no dedicated AST
// node (spec.md §3.5 does not define one — the original Rust parser never
// consumes it either); it is accepted and discarded as a prefix on the
// trailing expression.
func (p *Parser) statement() (ast.Node, error) {
	switch {
	case p.check(token.VAR_KW), p.check(token.CONST_KW):
		return p.letDecl()
	case p.check(token.IF_KW):
		return p.ifExpr()
	case p.check(token.WHILE_KW):
		return p.whileStmt()
	case p.check(token.FUNC_KW):
		return p.funDef()
	case p.check(token.RETURN_KW):
		p.advance()
		return p.expressionStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) expressionStatement() (ast.Node, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(token.SEMI) {
		return ast.NewSemi(expr, mergeSpan(expr.Span(), p.previous().Span)), nil
	}
	return expr, nil
}

func (p *Parser) letDecl() (ast.Node, error) {
	start := p.advance() // `var` or `const`
	name, err := p.consume(token.IDENT, "expected variable name")
	if err != nil {
		return nil, err
	}
	var anno *ast.FrontendType
	if p.match(token.COLON) {
		t, err := p.frontendType()
		if err != nil {
			return nil, err
		}
		anno = t
	}
	var init ast.Node
	if p.match(token.ASSIGN) {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		init = e
	}
	end := name.Span
	if init != nil {
		end = init.Span()
	}
	if p.match(token.SEMI) {
		end = p.previous().Span
	}
	return ast.NewLetDecl(name.Lexeme, anno, init, mergeSpan(start.Span, end)), nil
}

func (p *Parser) ifExpr() (ast.Node, error) {
	start := p.advance() // `if`
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	end := then.Span()
	var els ast.Node
	if p.match(token.ELSE_KW) {
		if p.check(token.IF_KW) {
			elseIf, err := p.ifExpr()
			if err != nil {
				return nil, err
			}
			els = elseIf
		} else {
			elseBlock, err := p.block()
			if err != nil {
				return nil, err
			}
			els = elseBlock
		}
		end = els.Span()
	}
	return ast.NewIf(cond, then, els, mergeSpan(start.Span, end)), nil
}

func (p *Parser) whileStmt() (ast.Node, error) {
	start := p.advance() // `while`
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body, mergeSpan(start.Span, body.Span())), nil
}

func (p *Parser) block() (*ast.Block, error) {
	start, err := p.consume(token.LBRACE, "expected '{'")
	if err != nil {
		return nil, err
	}
	var nodes []ast.Node
	for !p.check(token.RBRACE) && !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmt)
	}
	end, err := p.consume(token.RBRACE, "expected '}'")
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(nodes, mergeSpan(start.Span, end.Span)), nil
}

// expression is the top of the precedence ladder: lowest-binding
// assignment, widening down through logical, equality, comparison,
// bitwise, shift, range, concat, additive, multiplicative, unary, then
// call/primary — generalized from nilan's assignment->or->and->equality->
// comparison->term->factor->unary->primary ladder to Amai's larger
// operator set.
func (p *Parser) expression() (ast.Node, error) {
	return p.assignment()
}

var compoundAssignOps = map[token.Kind]ast.Operator{
	token.ASSIGN:     ast.Assign,
	token.PLUS_EQ:    ast.AddAssign,
	token.MINUS_EQ:   ast.SubAssign,
	token.STAR_EQ:    ast.MulAssign,
	token.SLASH_EQ:   ast.DivAssign,
	token.PERCENT_EQ: ast.RemAssign,
}

func (p *Parser) assignment() (ast.Node, error) {
	left, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := compoundAssignOps[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right, mergeSpan(left.Span(), right.Span()))
	}
}

func (p *Parser) logicalOr() (ast.Node, error) {
	return p.leftAssocBinary(p.logicalAnd, map[token.Kind]ast.Operator{token.OR_KW: ast.LogOr})
}

func (p *Parser) logicalAnd() (ast.Node, error) {
	return p.leftAssocBinary(p.equality, map[token.Kind]ast.Operator{token.AND_KW: ast.LogAnd})
}

func (p *Parser) equality() (ast.Node, error) {
	return p.leftAssocBinary(p.comparison, map[token.Kind]ast.Operator{token.EQ: ast.Eq, token.NE: ast.Ne})
}

func (p *Parser) comparison() (ast.Node, error) {
	return p.leftAssocBinary(p.bitwiseOr, map[token.Kind]ast.Operator{
		token.GT: ast.Gt, token.LT: ast.Lt, token.GE: ast.Ge, token.LE: ast.Le,
	})
}

func (p *Parser) bitwiseOr() (ast.Node, error) {
	return p.leftAssocBinary(p.bitwiseXor, map[token.Kind]ast.Operator{token.PIPE: ast.BitOr})
}

func (p *Parser) bitwiseXor() (ast.Node, error) {
	return p.leftAssocBinary(p.bitwiseAnd, map[token.Kind]ast.Operator{token.CARET: ast.BitXor})
}

func (p *Parser) bitwiseAnd() (ast.Node, error) {
	return p.leftAssocBinary(p.shift, map[token.Kind]ast.Operator{token.AMP: ast.BitAnd})
}

func (p *Parser) shift() (ast.Node, error) {
	return p.leftAssocBinary(p.rangeExpr, map[token.Kind]ast.Operator{token.SHL: ast.Shl, token.SHR: ast.Shr})
}

func (p *Parser) rangeExpr() (ast.Node, error) {
	return p.leftAssocBinary(p.concat, map[token.Kind]ast.Operator{
		token.RANGE: ast.Range, token.RANGE_INCL: ast.RangeIncl,
	})
}

func (p *Parser) concat() (ast.Node, error) {
	return p.leftAssocBinary(p.term, map[token.Kind]ast.Operator{token.CONCAT: ast.Concat})
}

func (p *Parser) term() (ast.Node, error) {
	return p.leftAssocBinary(p.factor, map[token.Kind]ast.Operator{token.PLUS: ast.Add, token.MINUS: ast.Sub})
}

func (p *Parser) factor() (ast.Node, error) {
	return p.leftAssocBinary(p.unary, map[token.Kind]ast.Operator{
		token.STAR: ast.Mul, token.SLASH: ast.Div, token.PERCENT: ast.Rem,
	})
}

// leftAssocBinary folds a left-associative chain of same-precedence binary
// operators, matching nilan's or/and/equality/comparison/term/factor
// methods which all share this exact shape.
func (p *Parser) leftAssocBinary(next func() (ast.Node, error), ops map[token.Kind]ast.Operator) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right, mergeSpan(left.Span(), right.Span()))
	}
}

var unaryOps = map[token.Kind]ast.Operator{
	token.MINUS: ast.Neg, token.PLUS: ast.Add, token.TILDE: ast.BitNot, token.BANG: ast.LogNot,
}

func (p *Parser) unary() (ast.Node, error) {
	if op, ok := unaryOps[p.peek().Kind]; ok {
		start := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(op, operand, mergeSpan(start.Span, operand.Span())), nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return ast.NewIntLit(tok.Literal.(int64), tok.Span), nil
	case token.FLOAT:
		p.advance()
		return ast.NewFloatLit(tok.Literal.(float64), tok.Span), nil
	case token.STRING:
		p.advance()
		return ast.NewStringLit(tok.Literal.(string), tok.Span), nil
	case token.TRUE_KW:
		p.advance()
		return ast.NewBoolLit(true, tok.Span), nil
	case token.FALSE_KW:
		p.advance()
		return ast.NewBoolLit(false, tok.Span), nil
	case token.IDENT:
		p.advance()
		if p.check(token.LPAREN) {
			return p.finishCall(tok)
		}
		return ast.NewIdentifier(tok.Lexeme, tok.Span), nil
	case token.LPAREN:
		p.advance()
		if p.check(token.RPAREN) {
			end := p.advance()
			return ast.NewUnitLit(mergeSpan(tok.Span, end.Span)), nil
		}
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACE:
		return p.block()
	case token.IF_KW:
		return p.ifExpr()
	case token.WHILE_KW:
		return p.whileStmt()
	default:
		return nil, &SyntaxError{Span: tok.Span, Message: "expected an expression"}
	}
}

func (p *Parser) finishCall(callee token.Token) (ast.Node, error) {
	if _, err := p.consume(token.LPAREN, "expected '(' after callee"); err != nil {
		return nil, err
	}
	var args []ast.Node
	for !p.check(token.RPAREN) {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	end, err := p.consume(token.RPAREN, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return ast.NewFunCall(callee.Lexeme, args, mergeSpan(callee.Span, end.Span)), nil
}
