// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// es2Use says what an ESSL 3.00 keyword is in a 1.00 shader.
type es2Use uint8

const (
	es2Keyword  es2Use = iota // a keyword in both versions
	es2Ident                  // a plain identifier in 1.00
	es2Reserved               // a reserved word in 1.00
)

type keyword struct {
	kind TokenKind
	es2  es2Use
}

var keywords = map[string]keyword{
	"attribute": {kind: TokenAttribute},
	"const":     {kind: TokenConst},
	"uniform":   {kind: TokenUniform},
	"varying":   {kind: TokenVarying},
	"in":        {kind: TokenIn},
	"out":       {kind: TokenOut},
	"inout":     {kind: TokenInOut},
	"invariant": {kind: TokenInvariant},
	"precision": {kind: TokenPrecision},
	"highp":     {kind: TokenHighp},
	"mediump":   {kind: TokenMediump},
	"lowp":      {kind: TokenLowp},
	"struct":    {kind: TokenStruct},
	"if":        {kind: TokenIf},
	"else":      {kind: TokenElse},
	"for":       {kind: TokenFor},
	"while":     {kind: TokenWhile},
	"do":        {kind: TokenDo},
	"break":     {kind: TokenBreak},
	"continue":  {kind: TokenContinue},
	"return":    {kind: TokenReturn},
	"discard":   {kind: TokenDiscard},
	"true":      {kind: TokenTrue},
	"false":     {kind: TokenFalse},

	"centroid": {kind: TokenCentroid, es2: es2Ident},
	"flat":     {kind: TokenFlat, es2: es2Ident},
	"smooth":   {kind: TokenSmooth, es2: es2Ident},
	"layout":   {kind: TokenLayout, es2: es2Ident},
	"switch":   {kind: TokenSwitch, es2: es2Reserved},
	"case":     {kind: TokenCase, es2: es2Reserved},
	"default":  {kind: TokenDefault, es2: es2Reserved},
}

// typeKeyword is the shape a built-in type keyword denotes.
type typeKeyword struct {
	basic      ir.BasicType
	cols, rows int
	es2        es2Use
}

var typeKeywords = map[string]typeKeyword{
	"void":  {basic: ir.BasicVoid, cols: 1, rows: 1},
	"float": {basic: ir.BasicFloat, cols: 1, rows: 1},
	"int":   {basic: ir.BasicInt, cols: 1, rows: 1},
	"bool":  {basic: ir.BasicBool, cols: 1, rows: 1},
	"vec2":  {basic: ir.BasicFloat, cols: 2, rows: 1},
	"vec3":  {basic: ir.BasicFloat, cols: 3, rows: 1},
	"vec4":  {basic: ir.BasicFloat, cols: 4, rows: 1},
	"ivec2": {basic: ir.BasicInt, cols: 2, rows: 1},
	"ivec3": {basic: ir.BasicInt, cols: 3, rows: 1},
	"ivec4": {basic: ir.BasicInt, cols: 4, rows: 1},
	"bvec2": {basic: ir.BasicBool, cols: 2, rows: 1},
	"bvec3": {basic: ir.BasicBool, cols: 3, rows: 1},
	"bvec4": {basic: ir.BasicBool, cols: 4, rows: 1},
	"mat2":  {basic: ir.BasicFloat, cols: 2, rows: 2},
	"mat3":  {basic: ir.BasicFloat, cols: 3, rows: 3},
	"mat4":  {basic: ir.BasicFloat, cols: 4, rows: 4},

	"sampler2D":          {basic: ir.BasicSampler2D, cols: 1, rows: 1},
	"samplerCube":        {basic: ir.BasicSamplerCube, cols: 1, rows: 1},
	"samplerExternalOES": {basic: ir.BasicSamplerExternalOES, cols: 1, rows: 1},
	"sampler2DRect":      {basic: ir.BasicSampler2DRect, cols: 1, rows: 1},

	"uint":  {basic: ir.BasicUInt, cols: 1, rows: 1, es2: es2Ident},
	"uvec2": {basic: ir.BasicUInt, cols: 2, rows: 1, es2: es2Ident},
	"uvec3": {basic: ir.BasicUInt, cols: 3, rows: 1, es2: es2Ident},
	"uvec4": {basic: ir.BasicUInt, cols: 4, rows: 1, es2: es2Ident},

	"mat2x2": {basic: ir.BasicFloat, cols: 2, rows: 2, es2: es2Reserved},
	"mat2x3": {basic: ir.BasicFloat, cols: 2, rows: 3, es2: es2Reserved},
	"mat2x4": {basic: ir.BasicFloat, cols: 2, rows: 4, es2: es2Reserved},
	"mat3x2": {basic: ir.BasicFloat, cols: 3, rows: 2, es2: es2Reserved},
	"mat3x3": {basic: ir.BasicFloat, cols: 3, rows: 3, es2: es2Reserved},
	"mat3x4": {basic: ir.BasicFloat, cols: 3, rows: 4, es2: es2Reserved},
	"mat4x2": {basic: ir.BasicFloat, cols: 4, rows: 2, es2: es2Reserved},
	"mat4x3": {basic: ir.BasicFloat, cols: 4, rows: 3, es2: es2Reserved},
	"mat4x4": {basic: ir.BasicFloat, cols: 4, rows: 4, es2: es2Reserved},

	"sampler3D":            {basic: ir.BasicSampler3D, cols: 1, rows: 1, es2: es2Reserved},
	"sampler2DShadow":      {basic: ir.BasicSampler2DShadow, cols: 1, rows: 1, es2: es2Reserved},
	"sampler2DArray":       {basic: ir.BasicSampler2DArray, cols: 1, rows: 1, es2: es2Ident},
	"samplerCubeShadow":    {basic: ir.BasicSamplerCubeShadow, cols: 1, rows: 1, es2: es2Ident},
	"sampler2DArrayShadow": {basic: ir.BasicSampler2DArrayShadow, cols: 1, rows: 1, es2: es2Ident},
	"isampler2D":           {basic: ir.BasicISampler2D, cols: 1, rows: 1, es2: es2Ident},
	"isampler3D":           {basic: ir.BasicISampler3D, cols: 1, rows: 1, es2: es2Ident},
	"isamplerCube":         {basic: ir.BasicISamplerCube, cols: 1, rows: 1, es2: es2Ident},
	"isampler2DArray":      {basic: ir.BasicISampler2DArray, cols: 1, rows: 1, es2: es2Ident},
	"usampler2D":           {basic: ir.BasicUSampler2D, cols: 1, rows: 1, es2: es2Ident},
	"usampler3D":           {basic: ir.BasicUSampler3D, cols: 1, rows: 1, es2: es2Ident},
	"usamplerCube":         {basic: ir.BasicUSamplerCube, cols: 1, rows: 1, es2: es2Ident},
	"usampler2DArray":      {basic: ir.BasicUSampler2DArray, cols: 1, rows: 1, es2: es2Ident},
}

// reservedWords may not be used by a shader at all.
var reservedWords = map[string]struct{}{
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {}, "this": {},
	"goto": {}, "inline": {}, "noinline": {}, "volatile": {}, "public": {}, "static": {},
	"extern": {}, "external": {}, "interface": {}, "long": {}, "short": {}, "double": {},
	"half": {}, "fixed": {}, "unsigned": {}, "superp": {}, "input": {}, "output": {},
	"hvec2": {}, "hvec3": {}, "hvec4": {}, "dvec2": {}, "dvec3": {}, "dvec4": {},
	"fvec2": {}, "fvec3": {}, "fvec4": {},
	"sampler1D": {}, "sampler1DShadow": {}, "sampler2DRectShadow": {}, "sampler3DRect": {},
	"sizeof": {}, "cast": {}, "namespace": {}, "using": {},
	"resource": {}, "noperspective": {}, "patch": {}, "sample": {}, "subroutine": {},
	"common": {}, "partition": {}, "active": {}, "filter": {},
	"image1D": {}, "image2D": {}, "image3D": {}, "imageCube": {},
	"iimage1D": {}, "iimage2D": {}, "iimage3D": {}, "iimageCube": {},
	"uimage1D": {}, "uimage2D": {}, "uimage3D": {}, "uimageCube": {},
	"image1DArray": {}, "image2DArray": {}, "imageBuffer": {},
	"sampler1DArray": {}, "sampler1DArrayShadow": {}, "samplerBuffer": {},
	"coherent": {}, "restrict": {}, "readonly": {}, "writeonly": {},
}

// reservedInES3 are keywords of 1.00 that 3.00 took away.
var reservedInES3 = map[string]struct{}{
	"attribute": {}, "varying": {},
}

// classify returns the kind of an identifier-shaped word for the given
// shader version, and whether the word is reserved.
func classify(word string, version int) (TokenKind, bool) {
	es3 := version >= symbols.Version300
	if es3 {
		if _, ok := reservedInES3[word]; ok {
			return TokenIdent, true
		}
	} else if word == "packed" {
		return TokenIdent, true
	}
	if _, ok := reservedWords[word]; ok {
		return TokenIdent, true
	}

	if kw, ok := keywords[word]; ok {
		return applyES2(kw.kind, kw.es2, es3)
	}
	if tk, ok := typeKeywords[word]; ok {
		return applyES2(TokenType, tk.es2, es3)
	}
	return TokenIdent, false
}

func applyES2(kind TokenKind, use es2Use, es3 bool) (TokenKind, bool) {
	if es3 {
		return kind, false
	}
	switch use {
	case es2Ident:
		return TokenIdent, false
	case es2Reserved:
		return TokenIdent, true
	}
	return kind, false
}
