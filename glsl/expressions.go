// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// Binary operator tables, one per precedence level. OpNull marks an
// operator the language reserves but the compiler does not implement.
var (
	logicalOrOps  = map[TokenKind]ir.Operator{TokenPipePipe: ir.OpLogicalOr}
	logicalXorOps = map[TokenKind]ir.Operator{TokenCaretCaret: ir.OpLogicalXor}
	logicalAndOps = map[TokenKind]ir.Operator{TokenAmpAmp: ir.OpLogicalAnd}
	bitOrOps      = map[TokenKind]ir.Operator{TokenPipe: ir.OpNull}
	bitXorOps     = map[TokenKind]ir.Operator{TokenCaret: ir.OpNull}
	bitAndOps     = map[TokenKind]ir.Operator{TokenAmpersand: ir.OpNull}
	equalityOps   = map[TokenKind]ir.Operator{
		TokenEqualEqual: ir.OpEqual,
		TokenBangEqual:  ir.OpNotEqual,
	}
	relationalOps = map[TokenKind]ir.Operator{
		TokenLess:         ir.OpLessThan,
		TokenGreater:      ir.OpGreaterThan,
		TokenLessEqual:    ir.OpLessThanEqual,
		TokenGreaterEqual: ir.OpGreaterThanEqual,
	}
	shiftOps = map[TokenKind]ir.Operator{
		TokenLeftShift:  ir.OpNull,
		TokenRightShift: ir.OpNull,
	}
	additiveOps = map[TokenKind]ir.Operator{
		TokenPlus:  ir.OpAdd,
		TokenMinus: ir.OpSub,
	}
	multiplicativeOps = map[TokenKind]ir.Operator{
		TokenStar:    ir.OpMul,
		TokenSlash:   ir.OpDiv,
		TokenPercent: ir.OpNull,
	}
	assignmentOps = map[TokenKind]ir.Operator{
		TokenEqual:      ir.OpAssign,
		TokenPlusEqual:  ir.OpAddAssign,
		TokenMinusEqual: ir.OpSubAssign,
		TokenStarEqual:  ir.OpMulAssign,
		TokenSlashEqual: ir.OpDivAssign,
	}
)

// expression parses a comma-separated expression.
func (p *Parser) expression() ir.Typed {
	e := p.assignmentExpression()
	for p.check(TokenComma) {
		comma := p.advance()
		right := p.assignmentExpression()
		e = p.ctx.AddCommaExpression(e, right, comma.Loc)
	}
	return e
}

// constantExpression parses a conditional expression that must fold to a
// constant, as in array sizes.
func (p *Parser) constantExpression() ir.Typed {
	e := p.conditionalExpression()
	p.ctx.ConstErrorCheck(e)
	return e
}

func (p *Parser) assignmentExpression() ir.Typed {
	left := p.conditionalExpression()
	tok := p.peek()
	if !tok.Kind.IsAssignment() {
		return left
	}
	p.advance()
	right := p.assignmentExpression()

	op, ok := assignmentOps[tok.Kind]
	if !ok {
		p.unsupportedOperator(tok)
		return left
	}
	return p.ctx.AddAssignment(op, left, right, tok.Loc)
}

func (p *Parser) conditionalExpression() ir.Typed {
	cond := p.logicalOrExpression()
	if !p.check(TokenQuestion) {
		return cond
	}
	q := p.advance()
	t := p.expression()
	p.expect(TokenColon)
	f := p.assignmentExpression()
	return p.ctx.AddTernaryExpression(cond, t, f, q.Loc)
}

// binary parses a left-associative chain of the operators in ops over
// operands produced by next.
func (p *Parser) binary(next func() ir.Typed, ops map[TokenKind]ir.Operator) ir.Typed {
	left := next()
	for {
		tok := p.peek()
		op, ok := ops[tok.Kind]
		if !ok {
			return left
		}
		p.advance()
		right := next()
		if op == ir.OpNull {
			p.unsupportedOperator(tok)
			continue
		}
		left = p.ctx.AddBinaryExpression(op, left, right, tok.Loc)
	}
}

func (p *Parser) logicalOrExpression() ir.Typed {
	return p.binary(p.logicalXorExpression, logicalOrOps)
}

func (p *Parser) logicalXorExpression() ir.Typed {
	return p.binary(p.logicalAndExpression, logicalXorOps)
}

func (p *Parser) logicalAndExpression() ir.Typed {
	return p.binary(p.inclusiveOrExpression, logicalAndOps)
}

func (p *Parser) inclusiveOrExpression() ir.Typed {
	return p.binary(p.exclusiveOrExpression, bitOrOps)
}

func (p *Parser) exclusiveOrExpression() ir.Typed {
	return p.binary(p.andExpression, bitXorOps)
}

func (p *Parser) andExpression() ir.Typed {
	return p.binary(p.equalityExpression, bitAndOps)
}

func (p *Parser) equalityExpression() ir.Typed {
	return p.binary(p.relationalExpression, equalityOps)
}

func (p *Parser) relationalExpression() ir.Typed {
	return p.binary(p.shiftExpression, relationalOps)
}

func (p *Parser) shiftExpression() ir.Typed {
	return p.binary(p.additiveExpression, shiftOps)
}

func (p *Parser) additiveExpression() ir.Typed {
	return p.binary(p.multiplicativeExpression, additiveOps)
}

func (p *Parser) multiplicativeExpression() ir.Typed {
	return p.binary(p.unaryExpression, multiplicativeOps)
}

func (p *Parser) unaryExpression() ir.Typed {
	tok := p.peek()
	var op ir.Operator
	switch tok.Kind {
	case TokenPlusPlus:
		op = ir.OpPreIncrement
	case TokenMinusMinus:
		op = ir.OpPreDecrement
	case TokenPlus:
		op = ir.OpNull
	case TokenMinus:
		op = ir.OpNegative
	case TokenBang:
		op = ir.OpLogicalNot
	case TokenTilde:
		p.advance()
		operand := p.unaryExpression()
		p.unsupportedOperator(tok)
		return operand
	default:
		return p.postfixExpression()
	}
	p.advance()
	operand := p.unaryExpression()
	return p.ctx.AddUnaryExpression(op, operand, tok.Loc)
}

func (p *Parser) postfixExpression() ir.Typed {
	e := p.primaryExpression()
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenLeftBracket:
			p.advance()
			index := p.expression()
			p.expect(TokenRightBracket)
			p.ctx.IntegerErrorCheck(index, "[]")
			e = p.ctx.AddIndexExpression(e, tok.Loc, index)

		case TokenDot:
			p.advance()
			field, ok := p.expect(TokenIdent)
			if !ok {
				return e
			}
			if p.check(TokenLeftParen) {
				p.callArguments()
				e = p.ctx.AddMethodCall(field.Text, field.Loc)
				continue
			}
			e = p.ctx.AddFieldSelectionExpression(e, tok.Loc, field.Text, field.Loc)

		case TokenPlusPlus:
			p.advance()
			e = p.ctx.AddUnaryExpression(ir.OpPostIncrement, e, tok.Loc)

		case TokenMinusMinus:
			p.advance()
			e = p.ctx.AddUnaryExpression(ir.OpPostDecrement, e, tok.Loc)

		default:
			return e
		}
	}
}

func (p *Parser) primaryExpression() ir.Typed {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral:
		p.advance()
		return p.intLiteral(tok)
	case TokenUIntLiteral:
		p.advance()
		return p.uintLiteral(tok)
	case TokenFloatLiteral:
		p.advance()
		return p.floatLiteral(tok)
	case TokenTrue, TokenFalse:
		p.advance()
		return p.ctx.AddBoolLiteral(tok.Kind == TokenTrue, tok.Loc)
	case TokenLeftParen:
		p.advance()
		e := p.expression()
		p.expect(TokenRightParen)
		return e
	case TokenType:
		if p.peekAt(1).Kind == TokenLeftParen {
			return p.functionCall()
		}
	case TokenIdent:
		if p.peekAt(1).Kind == TokenLeftParen {
			return p.functionCall()
		}
		p.advance()
		return p.ctx.AddVariableReference(tok.Text, tok.Loc)
	}

	p.syntaxError(tok)
	return p.ctx.AddFloatLiteral(0, tok.Loc)
}

// functionCall parses a call or a constructor: "name(args)" or
// "type(args)".
func (p *Parser) functionCall() ir.Typed {
	tok := p.peek()
	var fn *symbols.Function
	if tok.Kind == TokenType || p.isTypeName(tok) {
		fn = p.ctx.AddConstructorFunc(p.typeSpecifierNonArray())
	} else {
		p.advance()
		fn = p.ctx.AddFunctionName(tok.Loc, tok.Text)
	}
	args := p.callArguments()
	return p.ctx.AddFunctionCall(fn, args, tok.Loc)
}

// callArguments parses "(args)". "(void)" is an empty list.
func (p *Parser) callArguments() []ir.Typed {
	p.expect(TokenLeftParen)
	var args []ir.Typed
	switch {
	case p.check(TokenRightParen):
	case p.peek().Kind == TokenType && p.peek().Text == "void" && p.peekAt(1).Kind == TokenRightParen:
		p.advance()
	default:
		for {
			args = append(args, p.assignmentExpression())
			if !p.match(TokenComma) {
				break
			}
		}
	}
	p.expect(TokenRightParen)
	return args
}

func (p *Parser) unsupportedOperator(tok Token) {
	p.ctx.Error(tok.Loc, "unsupported operator", tok.Text)
}

func trimIntSuffix(text string) string {
	return strings.TrimRight(text, "uU")
}

// parseIntText parses a decimal, octal or hex literal. Values out of
// range saturate so the caller can report the overflow.
func (p *Parser) parseIntText(tok Token) uint64 {
	v, err := strconv.ParseUint(trimIntSuffix(tok.Text), 0, 64)
	switch {
	case err == nil:
		return v
	case errors.Is(err, strconv.ErrRange):
		return math.MaxUint64
	}
	p.ctx.Error(tok.Loc, "invalid integer constant", tok.Text)
	return 0
}

func (p *Parser) intLiteral(tok Token) ir.Typed {
	v := p.parseIntText(tok)
	if v > math.MaxInt64 {
		v = math.MaxInt64
	}
	return p.ctx.AddIntLiteral(int64(v), tok.Loc)
}

func (p *Parser) uintLiteral(tok Token) ir.Typed {
	return p.ctx.AddUIntLiteral(p.parseIntText(tok), tok.Loc)
}

func (p *Parser) floatLiteral(tok Token) ir.Typed {
	text := strings.TrimRight(tok.Text, "fF")
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.ctx.Error(tok.Loc, "float constant overflow", tok.Text)
		} else {
			p.ctx.Error(tok.Loc, "invalid float constant", tok.Text)
		}
		v = 0
	}
	return p.ctx.AddFloatLiteral(float32(v), tok.Loc)
}
