// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sema"
)

// Parser drives the semantic actions of a sema.Context over a token
// stream. Syntax errors are reported through the context as well; after
// one the parser skips to the end of the statement and carries on, so a
// single parse reports every problem in the shader.
type Parser struct {
	ctx     *sema.Context
	tokens  []Token
	current int

	// panicking suppresses further syntax errors until the parser has
	// resynchronized.
	panicking bool
}

// NewParser creates a new parser for the given tokens, which must end
// with TokenEOF as produced by Lexer.Tokenize.
func NewParser(ctx *sema.Context, tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}
	return &Parser{
		ctx:    ctx,
		tokens: tokens,
	}
}

// Parse parses a translation unit and returns its root, which is also
// recorded as the context's tree root.
func (p *Parser) Parse() *ir.Aggregate {
	start := p.peek().Loc
	var decls []ir.Node

	for !p.isAtEnd() {
		before := p.current
		if d := p.externalDeclaration(); !ir.IsNil(d) {
			decls = append(decls, d)
		}
		if p.panicking {
			p.synchronize()
		}
		if p.current == before {
			p.advance()
		}
	}

	return p.ctx.AddTranslationUnit(decls, start)
}

// externalDeclaration parses a function definition or a declaration.
func (p *Parser) externalDeclaration() ir.Node {
	if !p.startsDeclaration() {
		p.syntaxError(p.peek())
		return nil
	}
	return p.declaration(true)
}

// peek returns the current token. Directive tokens in front of it are
// applied and consumed first, so they take effect in stream order.
func (p *Parser) peek() Token {
	for p.tokens[p.current].Kind == TokenDirective {
		tok := p.tokens[p.current]
		p.current++
		p.directive(tok)
	}
	return p.tokens[p.current]
}

// peekAt looks n tokens past the current one without applying
// directives.
func (p *Parser) peekAt(n int) Token {
	p.peek()
	for i := p.current; ; i++ {
		tok := p.tokens[i]
		if tok.Kind == TokenEOF {
			return tok
		}
		if tok.Kind == TokenDirective {
			continue
		}
		if n == 0 {
			return tok
		}
		n--
	}
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind or reports a syntax error.
// Reaching the ';' that ends a statement also ends panic mode.
func (p *Parser) expect(kind TokenKind) (Token, bool) {
	if p.check(kind) {
		if kind == TokenSemicolon {
			p.panicking = false
		}
		return p.advance(), true
	}
	tok := p.peek()
	p.syntaxError(tok)
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) syntaxError(tok Token) {
	if p.panicking {
		return
	}
	p.panicking = true
	text := tok.Text
	if text == "" {
		text = tok.Kind.String()
	}
	p.ctx.SyntaxError(tok.Loc, text)
}

// synchronize skips to the end of the current statement: past the next
// ';', or up to the next '}'.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case TokenSemicolon:
			p.advance()
			p.panicking = false
			return
		case TokenRightBrace:
			p.panicking = false
			return
		}
		p.advance()
	}
	p.panicking = false
}

// isTypeName reports whether tok is an identifier naming a struct type in
// the current scope.
func (p *Parser) isTypeName(tok Token) bool {
	return tok.Kind == TokenIdent && p.ctx.Symbols().IsTypeName(tok.Text, p.ctx.ShaderVersion())
}

// startsDeclaration reports whether the current token begins a
// declaration rather than an expression. A type followed by '(' is a
// constructor call.
func (p *Parser) startsDeclaration() bool {
	tok := p.peek()
	switch tok.Kind {
	case TokenConst, TokenAttribute, TokenVarying, TokenUniform, TokenIn, TokenOut,
		TokenCentroid, TokenFlat, TokenSmooth, TokenLayout, TokenInvariant,
		TokenPrecision, TokenHighp, TokenMediump, TokenLowp, TokenStruct:
		return true
	case TokenType:
		return p.peekAt(1).Kind != TokenLeftParen
	case TokenIdent:
		return p.isTypeName(tok) && p.peekAt(1).Kind != TokenLeftParen
	}
	return false
}
