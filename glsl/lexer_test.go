// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"testing"

	"github.com/gogpu/essl/diag"
	"github.com/nalgeon/be"
)

func tokenize(src ...string) ([]Token, *diag.Sink) {
	sink := diag.NewSink()
	return NewLexer(src, sink).Tokenize(), sink
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"+ - * /", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenEOF}},
		{"( ) { }", []TokenKind{TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace, TokenEOF}},
		{"[ ] , .", []TokenKind{TokenLeftBracket, TokenRightBracket, TokenComma, TokenDot, TokenEOF}},
		{": ; ?", []TokenKind{TokenColon, TokenSemicolon, TokenQuestion, TokenEOF}},
		{"a.x", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		tokens, sink := tokenize(tt.input)
		be.Equal(t, sink.NumErrors(), 0)
		be.Equal(t, kinds(tokens), tt.expected)
	}
}

func TestLexerOperators(t *testing.T) {
	input := "== != <= >= && || ^^ << >> ++ -- += -= *= /= %= <<= >>= &= ^= |="
	expected := []TokenKind{
		TokenEqualEqual, TokenBangEqual, TokenLessEqual, TokenGreaterEqual,
		TokenAmpAmp, TokenPipePipe, TokenCaretCaret, TokenLeftShift, TokenRightShift,
		TokenPlusPlus, TokenMinusMinus,
		TokenPlusEqual, TokenMinusEqual, TokenStarEqual, TokenSlashEqual, TokenPercentEqual,
		TokenLeftEqual, TokenRightEqual, TokenAmpEqual, TokenCaretEqual, TokenPipeEqual,
		TokenEOF,
	}

	tokens, sink := tokenize(input)
	be.Equal(t, sink.NumErrors(), 0)
	be.Equal(t, kinds(tokens), expected)
	for _, tok := range tokens[11:21] {
		if !tok.Kind.IsAssignment() {
			t.Errorf("%s: expected an assignment operator", tok.Text)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		text  string
	}{
		{"42", TokenIntLiteral, "42"},
		{"0x1F", TokenIntLiteral, "0x1F"},
		{"017", TokenIntLiteral, "017"},
		{"1.5", TokenFloatLiteral, "1.5"},
		{".5", TokenFloatLiteral, ".5"},
		{"1.", TokenFloatLiteral, "1."},
		{"2e3", TokenFloatLiteral, "2e3"},
		{"2.5E-1", TokenFloatLiteral, "2.5E-1"},
	}

	for _, tt := range tests {
		tokens, sink := tokenize(tt.input)
		be.Equal(t, sink.NumErrors(), 0)
		be.Equal(t, len(tokens), 2)
		be.Equal(t, tokens[0].Kind, tt.kind)
		be.Equal(t, tokens[0].Text, tt.text)
	}
}

func TestLexerSuffixesNeedES3(t *testing.T) {
	tests := []struct {
		input   string
		kind    TokenKind
		wantErr string
	}{
		{"3u", TokenUIntLiteral, "unsigned integers are unsupported prior to GLSL ES 3.00"},
		{"1.0f", TokenFloatLiteral, "floating-point suffix unsupported prior to GLSL ES 3.00"},
		{"#version 300 es\n3u", TokenUIntLiteral, ""},
		{"#version 300 es\n1.0f", TokenFloatLiteral, ""},
	}

	for _, tt := range tests {
		tokens, sink := tokenize(tt.input)
		last := tokens[len(tokens)-2]
		be.Equal(t, last.Kind, tt.kind)
		if tt.wantErr == "" {
			be.Equal(t, sink.NumErrors(), 0)
		} else {
			be.True(t, sink.Contains(tt.wantErr))
		}
	}
}

func TestLexerKeywordsByVersion(t *testing.T) {
	tests := []struct {
		word     string
		es2, es3 TokenKind
	}{
		{"attribute", TokenAttribute, TokenIdent},
		{"varying", TokenVarying, TokenIdent},
		{"layout", TokenIdent, TokenLayout},
		{"flat", TokenIdent, TokenFlat},
		{"centroid", TokenIdent, TokenCentroid},
		{"uint", TokenIdent, TokenType},
		{"vec3", TokenType, TokenType},
		{"const", TokenConst, TokenConst},
		{"highp", TokenHighp, TokenHighp},
	}

	for _, tt := range tests {
		tokens, _ := tokenize(tt.word)
		be.Equal(t, tokens[0].Kind, tt.es2)

		tokens, _ = tokenize("#version 300 es\n" + tt.word)
		be.Equal(t, tokens[1].Kind, tt.es3)
	}
}

func TestLexerReservedWords(t *testing.T) {
	tests := []struct {
		input    string
		reserved bool
	}{
		{"half", true},
		{"goto", true},
		{"switch", true},
		{"mat2x3", true},
		{"packed", true},
		{"#version 300 es\npacked", false},
		{"#version 300 es\nswitch", false},
		{"#version 300 es\nattribute", true},
		{"halfway", false},
	}

	for _, tt := range tests {
		_, sink := tokenize(tt.input)
		be.Equal(t, sink.Contains("Illegal use of reserved word"), tt.reserved)
	}
}

func TestLexerComments(t *testing.T) {
	tokens, sink := tokenize("a // line comment\n/* block\ncomment */ b")
	be.Equal(t, sink.NumErrors(), 0)
	be.Equal(t, kinds(tokens), []TokenKind{TokenIdent, TokenIdent, TokenEOF})
	be.Equal(t, tokens[1].Loc.Line, 3)

	_, sink = tokenize("/* never closed")
	be.True(t, sink.Contains("unterminated comment"))
}

func TestLexerLocations(t *testing.T) {
	tokens, _ := tokenize("float a;\n  vec2 b;", "int c;")

	be.Equal(t, tokens[0].Loc.Line, 1)
	be.Equal(t, tokens[0].Loc.Column, 1)
	be.Equal(t, tokens[3].Text, "vec2")
	be.Equal(t, tokens[3].Loc.Line, 2)
	be.Equal(t, tokens[3].Loc.Column, 3)
	be.Equal(t, tokens[6].Text, "int")
	be.Equal(t, tokens[6].Loc.File, 1)
	be.Equal(t, tokens[6].Loc.Line, 1)
}

func TestLexerDirectives(t *testing.T) {
	tokens, sink := tokenize("#version 300 es\n  #extension GL_OES_standard_derivatives : enable // note\nfloat x;")
	be.Equal(t, sink.NumErrors(), 0)
	be.Equal(t, tokens[0].Kind, TokenDirective)
	be.Equal(t, tokens[0].Text, "version 300 es")
	be.Equal(t, tokens[1].Kind, TokenDirective)
	be.Equal(t, tokens[1].Text, "extension GL_OES_standard_derivatives : enable")
	be.Equal(t, tokens[2].Kind, TokenType)

	tokens, _ = tokenize("#pragma a \\\nb\nx")
	be.Equal(t, tokens[0].Text, "pragma a  b")
	be.Equal(t, tokens[1].Loc.Line, 3)

	_, sink = tokenize("float x;\n#version 100")
	be.True(t, sink.Contains("#version directive must occur before anything else in the program"))

	_, sink = tokenize("float x # y;")
	be.True(t, sink.Contains("unexpected character"))
}
