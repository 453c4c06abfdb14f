// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "github.com/gogpu/essl/ir"

// TokenKind represents the type of a lexical token.
type TokenKind uint8

const (
	// Special tokens
	TokenEOF TokenKind = iota
	TokenError
	TokenDirective // a whole preprocessor line; Text is everything after '#'

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenUIntLiteral
	TokenFloatLiteral

	// Operators
	TokenPlus          // +
	TokenMinus         // -
	TokenStar          // *
	TokenSlash         // /
	TokenPercent       // %
	TokenPlusPlus      // ++
	TokenMinusMinus    // --
	TokenEqual         // =
	TokenPlusEqual     // +=
	TokenMinusEqual    // -=
	TokenStarEqual     // *=
	TokenSlashEqual    // /=
	TokenPercentEqual  // %=
	TokenLeftEqual     // <<=
	TokenRightEqual    // >>=
	TokenAmpEqual      // &=
	TokenCaretEqual    // ^=
	TokenPipeEqual     // |=
	TokenEqualEqual    // ==
	TokenBangEqual     // !=
	TokenLess          // <
	TokenGreater       // >
	TokenLessEqual     // <=
	TokenGreaterEqual  // >=
	TokenAmpAmp        // &&
	TokenPipePipe      // ||
	TokenCaretCaret    // ^^
	TokenBang          // !
	TokenTilde         // ~
	TokenLeftShift     // <<
	TokenRightShift    // >>
	TokenAmpersand     // &
	TokenPipe          // |
	TokenCaret         // ^
	TokenQuestion      // ?
	TokenColon         // :
	TokenSemicolon     // ;
	TokenComma         // ,
	TokenDot           // .
	TokenLeftParen     // (
	TokenRightParen    // )
	TokenLeftBracket   // [
	TokenRightBracket  // ]
	TokenLeftBrace     // {
	TokenRightBrace    // }

	// Keywords
	TokenAttribute
	TokenConst
	TokenUniform
	TokenVarying
	TokenIn
	TokenOut
	TokenInOut
	TokenCentroid
	TokenFlat
	TokenSmooth
	TokenLayout
	TokenInvariant
	TokenPrecision
	TokenHighp
	TokenMediump
	TokenLowp
	TokenStruct
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenDo
	TokenBreak
	TokenContinue
	TokenReturn
	TokenDiscard
	TokenSwitch
	TokenCase
	TokenDefault
	TokenTrue
	TokenFalse

	// TokenType is a built-in type keyword such as vec3 or sampler2D.
	TokenType
)

var tokenNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenDirective:     "#",
	TokenIdent:         "identifier",
	TokenIntLiteral:    "integer constant",
	TokenUIntLiteral:   "unsigned integer constant",
	TokenFloatLiteral:  "float constant",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenPlusPlus:      "++",
	TokenMinusMinus:    "--",
	TokenEqual:         "=",
	TokenPlusEqual:     "+=",
	TokenMinusEqual:    "-=",
	TokenStarEqual:     "*=",
	TokenSlashEqual:    "/=",
	TokenPercentEqual:  "%=",
	TokenLeftEqual:     "<<=",
	TokenRightEqual:    ">>=",
	TokenAmpEqual:      "&=",
	TokenCaretEqual:    "^=",
	TokenPipeEqual:     "|=",
	TokenEqualEqual:    "==",
	TokenBangEqual:     "!=",
	TokenLess:          "<",
	TokenGreater:       ">",
	TokenLessEqual:     "<=",
	TokenGreaterEqual:  ">=",
	TokenAmpAmp:        "&&",
	TokenPipePipe:      "||",
	TokenCaretCaret:    "^^",
	TokenBang:          "!",
	TokenTilde:         "~",
	TokenLeftShift:     "<<",
	TokenRightShift:    ">>",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenLeftParen:     "(",
	TokenRightParen:    ")",
	TokenLeftBracket:   "[",
	TokenRightBracket:  "]",
	TokenLeftBrace:     "{",
	TokenRightBrace:    "}",
	TokenAttribute:     "attribute",
	TokenConst:         "const",
	TokenUniform:       "uniform",
	TokenVarying:       "varying",
	TokenIn:            "in",
	TokenOut:           "out",
	TokenInOut:         "inout",
	TokenCentroid:      "centroid",
	TokenFlat:          "flat",
	TokenSmooth:        "smooth",
	TokenLayout:        "layout",
	TokenInvariant:     "invariant",
	TokenPrecision:     "precision",
	TokenHighp:         "highp",
	TokenMediump:       "mediump",
	TokenLowp:          "lowp",
	TokenStruct:        "struct",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenFor:           "for",
	TokenWhile:         "while",
	TokenDo:            "do",
	TokenBreak:         "break",
	TokenContinue:      "continue",
	TokenReturn:        "return",
	TokenDiscard:       "discard",
	TokenSwitch:        "switch",
	TokenCase:          "case",
	TokenDefault:       "default",
	TokenTrue:          "true",
	TokenFalse:         "false",
	TokenType:          "type",
}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Token represents a lexical token.
type Token struct {
	Kind TokenKind
	Text string
	Loc  ir.Loc
}

// IsAssignment reports whether k is = or a compound assignment.
func (k TokenKind) IsAssignment() bool {
	return k >= TokenEqual && k <= TokenPipeEqual
}
