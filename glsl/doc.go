// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl is the GLSL ES 1.00 / 3.00 front-end: a hand-written lexer
// and a recursive-descent grammar driver.
//
// The parser does not build a syntax tree of its own. Every reduction of
// the grammar calls the matching action of a sema.Context, which checks
// the construct and returns its intermediate tree, so the result of a
// parse is the typed ir tree and the diagnostics collected in the
// context's sink.
//
// # Basic Usage
//
//	ctx := sema.NewContext(sema.Config{
//	    ShaderType: symbols.FragmentShader,
//	    Spec:       symbols.SpecWebGL,
//	    Resources:  symbols.DefaultResources(),
//	})
//	tokens := glsl.NewLexer(sources, ctx.Sink()).Tokenize()
//	root := glsl.NewParser(ctx, tokens).Parse()
//
// # Directives
//
// The lexer recognises #version, #extension, #pragma and #line and passes
// them to the parser as directive tokens, so that they take effect at
// their position in the token stream. Macro expansion is not performed;
// other directives are reported and skipped.
//
// # Type Names
//
// An identifier that names a struct type is a type specifier rather than
// a variable. Because struct declarations change the answer while the
// shader is parsed, the parser asks the symbol table when it meets each
// identifier instead of the lexer deciding up front.
package glsl
