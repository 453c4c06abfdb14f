// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// Lexer tokenizes GLSL ES source strings. Each string is a separate file
// for locations; tokens never span strings. Lexical errors are reported
// to the sink and the offending characters are skipped.
type Lexer struct {
	sources []string
	sink    *diag.Sink

	file   int
	source string
	pos    int
	line   int
	column int
	start  int

	startLine   int
	startColumn int

	// lineStart is set while only whitespace has been seen on the line.
	lineStart bool
	// sawToken is set after the first token that is not #version.
	sawToken bool
	version  int

	tokens []Token
}

// NewLexer creates a new lexer for the given sources.
func NewLexer(sources []string, sink *diag.Sink) *Lexer {
	total := 0
	for _, s := range sources {
		total += len(s)
	}
	// Estimate ~1 token per 5 characters of source.
	est := total / 5
	if est < 16 {
		est = 16
	}
	return &Lexer{
		sources: sources,
		sink:    sink,
		version: symbols.Version100,
		tokens:  make([]Token, 0, est),
	}
}

// Version is the shader version selected by #version, or 100.
func (l *Lexer) Version() int { return l.version }

// Tokenize returns all tokens of all sources, ending with TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for i, src := range l.sources {
		l.file = i
		l.source = src
		l.pos = 0
		l.line = 1
		l.column = 1
		l.lineStart = true
		for !l.isAtEnd() {
			l.start = l.pos
			l.startLine = l.line
			l.startColumn = l.column
			l.scanToken()
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind: TokenEOF,
		Loc:  ir.Loc{File: l.file, Line: l.line, Column: l.column},
	})
	return l.tokens
}

func (l *Lexer) loc() ir.Loc {
	return ir.Loc{File: l.file, Line: l.startLine, Column: l.startColumn}
}

func (l *Lexer) error(reason, token string) {
	l.sink.WriteInfo(diag.Error, l.loc(), reason, token, "")
}

func (l *Lexer) scanToken() {
	c := l.advance()

	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return
	case '\n':
		l.newline()
		return
	case '#':
		if l.lineStart {
			l.directive()
			return
		}
		l.error("unexpected character", "#")
		return
	}
	l.lineStart = false

	switch c {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case ',':
		l.addToken(TokenComma)
	case ';':
		l.addToken(TokenSemicolon)
	case ':':
		l.addToken(TokenColon)
	case '?':
		l.addToken(TokenQuestion)
	case '~':
		l.addToken(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(TokenDot)
		}

	// Operators that could be one or two characters
	case '+':
		l.addToken(l.pick('+', TokenPlusPlus, '=', TokenPlusEqual, TokenPlus))
	case '-':
		l.addToken(l.pick('-', TokenMinusMinus, '=', TokenMinusEqual, TokenMinus))
	case '*':
		l.addToken(l.pick('=', TokenStarEqual, 0, 0, TokenStar))
	case '%':
		l.addToken(l.pick('=', TokenPercentEqual, 0, 0, TokenPercent))
	case '=':
		l.addToken(l.pick('=', TokenEqualEqual, 0, 0, TokenEqual))
	case '!':
		l.addToken(l.pick('=', TokenBangEqual, 0, 0, TokenBang))
	case '&':
		l.addToken(l.pick('&', TokenAmpAmp, '=', TokenAmpEqual, TokenAmpersand))
	case '|':
		l.addToken(l.pick('|', TokenPipePipe, '=', TokenPipeEqual, TokenPipe))
	case '^':
		l.addToken(l.pick('^', TokenCaretCaret, '=', TokenCaretEqual, TokenCaret))
	case '<':
		if l.match('<') {
			l.addToken(l.pick('=', TokenLeftEqual, 0, 0, TokenLeftShift))
		} else {
			l.addToken(l.pick('=', TokenLessEqual, 0, 0, TokenLess))
		}
	case '>':
		if l.match('>') {
			l.addToken(l.pick('=', TokenRightEqual, 0, 0, TokenRightShift))
		} else {
			l.addToken(l.pick('=', TokenGreaterEqual, 0, 0, TokenGreater))
		}
	case '/':
		switch {
		case l.match('/'):
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(l.pick('=', TokenSlashEqual, 0, 0, TokenSlash))
		}

	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.identifier()
		default:
			l.error("unexpected character", string(c))
		}
	}
}

// pick consumes a second character a or b and returns the matching kind,
// or def when neither follows.
func (l *Lexer) pick(a byte, ka TokenKind, b byte, kb TokenKind, def TokenKind) TokenKind {
	if l.match(a) {
		return ka
	}
	if b != 0 && l.match(b) {
		return kb
	}
	return def
}

func (l *Lexer) newline() {
	l.line++
	l.column = 1
	l.lineStart = true
}

func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.advance() == '\n' {
			l.line++
			l.column = 1
		}
	}
	l.error("unterminated comment", "/*")
}

// directive consumes a preprocessor line. #version is also interpreted
// here because it changes how later words are classified.
func (l *Lexer) directive() {
	for !l.isAtEnd() && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekNext() == '\n' {
			l.advance()
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		if l.peek() == '/' && l.peekNext() == '/' {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
			break
		}
		l.advance()
	}

	text := l.source[l.start+1 : l.pos]
	text = strings.ReplaceAll(text, "\\\n", " ")
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	name, rest := splitDirective(text)
	if name == "version" {
		if l.sawToken {
			l.error("#version directive must occur before anything else in the program", "version")
		} else if fields := strings.Fields(rest); len(fields) > 0 {
			if v, err := strconv.Atoi(fields[0]); err == nil && (v == symbols.Version100 || v == symbols.Version300) {
				l.version = v
			}
		}
	}
	if name != "" {
		l.sawToken = true
	}

	l.tokens = append(l.tokens, Token{Kind: TokenDirective, Text: text, Loc: l.loc()})
}

func (l *Lexer) number() {
	// Hex literals
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		l.intSuffix()
		return
	}

	float := l.source[l.start] == '.'
	for isDigit(l.peek()) {
		l.advance()
	}
	if !float && l.peek() == '.' {
		float = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && l.pos+2 < len(l.source) && isDigit(l.source[l.pos+2])) {
			float = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	if float {
		if l.peek() == 'f' || l.peek() == 'F' {
			l.advance()
			if l.version < symbols.Version300 {
				l.error("floating-point suffix unsupported prior to GLSL ES 3.00", l.source[l.start:l.pos])
			}
		}
		l.addToken(TokenFloatLiteral)
		return
	}
	l.intSuffix()
}

func (l *Lexer) intSuffix() {
	if l.peek() == 'u' || l.peek() == 'U' {
		l.advance()
		if l.version < symbols.Version300 {
			l.error("unsigned integers are unsupported prior to GLSL ES 3.00", l.source[l.start:l.pos])
		}
		l.addToken(TokenUIntLiteral)
		return
	}
	l.addToken(TokenIntLiteral)
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.pos]
	kind, reserved := classify(text, l.version)
	if reserved {
		l.error("Illegal use of reserved word", text)
	}
	l.addToken(kind)
}

func (l *Lexer) addToken(kind TokenKind) {
	l.sawToken = true
	l.tokens = append(l.tokens, Token{
		Kind: kind,
		Text: l.source[l.start:l.pos],
		Loc:  l.loc(),
	})
}

func (l *Lexer) advance() byte {
	c := l.source[l.pos]
	l.pos++
	l.column++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) match(expected byte) bool {
	if expected == 0 || l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// GLSL ES source is ASCII; identifiers are letters, digits and '_'.
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
