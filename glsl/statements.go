// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "github.com/gogpu/essl/ir"

func (p *Parser) statement() ir.Node {
	if p.check(TokenLeftBrace) {
		return p.compoundStatement()
	}
	return p.simpleStatement()
}

func (p *Parser) simpleStatement() ir.Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenIf:
		return p.ifStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenDo:
		return p.doWhileStatement()
	case TokenFor:
		return p.forStatement()
	case TokenContinue:
		return p.jump(ir.OpContinue)
	case TokenBreak:
		return p.jump(ir.OpBreak)
	case TokenDiscard:
		return p.jump(ir.OpKill)
	case TokenReturn:
		p.advance()
		if p.match(TokenSemicolon) {
			return p.ctx.AddBranch(ir.OpReturn, tok.Loc)
		}
		e := p.expression()
		p.expect(TokenSemicolon)
		return p.ctx.AddReturn(e, tok.Loc)
	case TokenSemicolon:
		p.advance()
		return nil
	case TokenSwitch, TokenCase, TokenDefault:
		p.syntaxError(tok)
		return nil
	}

	if p.startsDeclaration() {
		return p.declaration(false)
	}
	e := p.expression()
	p.expect(TokenSemicolon)
	return e
}

func (p *Parser) jump(op ir.Operator) ir.Node {
	tok := p.advance()
	p.expect(TokenSemicolon)
	return p.ctx.AddBranch(op, tok.Loc)
}

// compoundStatement parses a block that opens its own scope.
func (p *Parser) compoundStatement() ir.Node {
	lb := p.advance()
	p.ctx.PushScope()
	stmts := p.statementList()
	p.expect(TokenRightBrace)
	p.ctx.PopScope()
	return p.ctx.AddCompoundStatement(stmts, lb.Loc)
}

// compoundStatementNoNewScope parses a block whose declarations land in
// the enclosing scope, as for function bodies.
func (p *Parser) compoundStatementNoNewScope() ir.Node {
	lb, ok := p.expect(TokenLeftBrace)
	if !ok {
		return nil
	}
	stmts := p.statementList()
	p.expect(TokenRightBrace)
	return p.ctx.AddCompoundStatement(stmts, lb.Loc)
}

func (p *Parser) statementList() []ir.Node {
	var stmts []ir.Node
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		before := p.current
		if s := p.statement(); !ir.IsNil(s) {
			stmts = append(stmts, s)
		}
		if p.panicking {
			p.synchronize()
		}
		if p.current == before {
			p.advance()
		}
	}
	return stmts
}

// statementWithScope parses the branch of an if or the body of a do
// loop; it gets a scope of its own even without braces.
func (p *Parser) statementWithScope() ir.Node {
	p.ctx.PushScope()
	defer p.ctx.PopScope()
	if p.check(TokenLeftBrace) {
		return p.compoundStatementNoNewScope()
	}
	return p.simpleStatement()
}

// statementNoNewScope parses a for or while body, which shares the scope
// of the loop header.
func (p *Parser) statementNoNewScope() ir.Node {
	if p.check(TokenLeftBrace) {
		return p.compoundStatementNoNewScope()
	}
	return p.simpleStatement()
}

func (p *Parser) ifStatement() ir.Node {
	tok := p.advance()
	p.expect(TokenLeftParen)
	cond := p.expression()
	p.expect(TokenRightParen)

	t := p.statementWithScope()
	var f ir.Node
	if p.match(TokenElse) {
		f = p.statementWithScope()
	}
	return p.ctx.AddIfStatement(cond, t, f, tok.Loc)
}

func (p *Parser) whileStatement() ir.Node {
	tok := p.advance()
	p.ctx.BeginLoop(ir.LoopWhile)
	p.expect(TokenLeftParen)
	cond := p.condition()
	p.expect(TokenRightParen)
	body := p.statementNoNewScope()
	return p.ctx.EndLoop(ir.LoopWhile, nil, cond, nil, body, tok.Loc)
}

func (p *Parser) doWhileStatement() ir.Node {
	p.advance()
	p.ctx.BeginLoop(ir.LoopDoWhile)
	body := p.statementWithScope()

	while := p.peek()
	p.expect(TokenWhile)
	p.expect(TokenLeftParen)
	cond := p.expression()
	p.expect(TokenRightParen)
	p.expect(TokenSemicolon)
	return p.ctx.EndLoop(ir.LoopDoWhile, nil, cond, nil, body, while.Loc)
}

func (p *Parser) forStatement() ir.Node {
	tok := p.advance()
	p.ctx.BeginLoop(ir.LoopFor)
	p.expect(TokenLeftParen)

	var init ir.Node
	switch {
	case p.startsDeclaration():
		init = p.declaration(false)
	case p.match(TokenSemicolon):
	default:
		init = p.expression()
		p.expect(TokenSemicolon)
	}

	var cond ir.Typed
	if !p.check(TokenSemicolon) {
		cond = p.condition()
	}
	p.expect(TokenSemicolon)

	var expr ir.Typed
	if !p.check(TokenRightParen) {
		expr = p.expression()
	}
	p.expect(TokenRightParen)

	body := p.statementNoNewScope()
	return p.ctx.EndLoop(ir.LoopFor, init, cond, expr, body, tok.Loc)
}

// condition parses a loop condition: a boolean expression or a
// declaration with an initializer.
func (p *Parser) condition() ir.Typed {
	if p.startsDeclaration() {
		qual, hasQual := p.typeQualifier()
		pt := p.fullySpecifiedType(qual, hasQual)
		id, ok := p.expect(TokenIdent)
		if !ok {
			return nil
		}
		if _, ok := p.expect(TokenEqual); !ok {
			return nil
		}
		init := p.assignmentExpression()
		return p.ctx.AddConditionDeclaration(pt, id.Text, id.Loc, init)
	}

	e := p.expression()
	p.ctx.BoolErrorCheck(e.Pos(), e)
	return e
}
