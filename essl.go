// Package essl is a Pure Go front-end for the OpenGL ES Shading Language.
//
// essl checks GLSL ES 1.00 and 3.00 shaders and produces a typed, constant
// folded intermediate tree:
//   - Lexing and directive handling (#version, #extension, #pragma)
//   - Parsing with semantic checks, reported all at once
//   - Optional validation of the restricted WebGL loop and index profile
//
// The package provides a simple, high-level API as well as access to the
// individual stages through the glsl, sema and limits packages.
//
// Example usage:
//
//	source := `
//	precision mediump float;
//	void main() {
//	    gl_FragColor = vec4(1.0);
//	}
//	`
//	opts := essl.DefaultOptions()
//	opts.ShaderType = symbols.FragmentShader
//	result, err := essl.Compile([]string{source}, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(ir.Dump(result.Root))
//
// For finer control, drive a context directly:
//
//	ctx := sema.NewContext(sema.Config{ShaderType: symbols.VertexShader})
//	if essl.ParseStrings(ctx, sources) != 0 {
//	    fmt.Print(ctx.Sink())
//	}
package essl

import (
	"github.com/pkg/errors"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/glsl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/limits"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/symbols"
)

// Options configures a compile.
type Options struct {
	// ShaderType is the pipeline stage (vertex or fragment)
	ShaderType symbols.ShaderType

	// Spec selects the dialect: GLES2, WebGL or CSS shaders
	Spec symbols.Spec

	// Resources holds implementation limits and extension switches
	Resources symbols.Resources

	// ValidateLimitations enforces the loop and index restrictions of
	// GLSL ES Appendix A after a successful parse
	ValidateLimitations bool

	// AllowIndexArithmetic accepts index expressions such as a[i+1]
	// built from loop indices and constants
	AllowIndexArithmetic bool

	// ChecksPrecisionErrors reports float and int declarations with no
	// precision
	ChecksPrecisionErrors bool

	// Debug records a trace of every semantic action
	Debug bool
}

// DefaultOptions returns options for a GLES2 vertex shader with the
// minimum resources.
func DefaultOptions() Options {
	return Options{
		ShaderType:            symbols.VertexShader,
		Spec:                  symbols.SpecGLES2,
		Resources:             symbols.DefaultResources(),
		ChecksPrecisionErrors: true,
	}
}

// WebGLOptions returns options for a WebGL shader of the given stage,
// with the restricted loop and index profile enforced.
func WebGLOptions(shader symbols.ShaderType) Options {
	opts := DefaultOptions()
	opts.ShaderType = shader
	opts.Spec = symbols.SpecWebGL
	opts.ValidateLimitations = true
	return opts
}

// Result is the outcome of a compile. It is returned even when the shader
// has errors, so callers can show every diagnostic.
type Result struct {
	// Root is the translation unit, or nil if nothing was parsed
	Root ir.Node

	// Diagnostics lists errors and warnings in report order
	Diagnostics diag.List

	// Symbols is the table the shader was checked against; the global
	// scope still holds the shader's declarations
	Symbols *symbols.Table

	// ShaderVersion is 100 or 300
	ShaderVersion int

	// Pragma is the state left by #pragma directives
	Pragma sema.Pragma

	// Debug is the semantic trace when Options.Debug is set
	Debug []string
}

// NumErrors counts the error diagnostics of r.
func (r *Result) NumErrors() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity != diag.Warning {
			n++
		}
	}
	return n
}

// ParseStrings compiles sources, concatenated in order, into ctx. It
// returns 0 when the shader is free of errors and 1 otherwise; with no
// sources it returns 1 without touching ctx. The tree and diagnostics are
// left in ctx.
func ParseStrings(ctx *sema.Context, sources []string) int {
	if len(sources) == 0 {
		return 1
	}

	tokens := glsl.NewLexer(sources, ctx.Sink()).Tokenize()
	glsl.NewParser(ctx, tokens).Parse()

	if ctx.NumErrors() != 0 {
		return 1
	}
	return 0
}

// Compile checks sources with opts.
//
// The pipeline is:
//  1. Lex and parse into a folded tree, running every semantic check
//  2. Validate the restricted profile (if enabled and parsing succeeded)
//
// The returned error wraps the error diagnostics; the Result is returned
// in either case.
func Compile(sources []string, opts Options) (*Result, error) {
	if len(sources) == 0 {
		return nil, errors.New("no shader sources")
	}

	ctx := sema.NewContext(sema.Config{
		ShaderType:            opts.ShaderType,
		Spec:                  opts.Spec,
		Resources:             opts.Resources,
		ChecksPrecisionErrors: opts.ChecksPrecisionErrors,
		Trace:                 opts.Debug,
	})

	failed := ParseStrings(ctx, sources) != 0
	if !failed && opts.ValidateLimitations {
		limits.Validate(ctx.TreeRoot(), ctx.Symbols(), ctx.Sink(), limits.Options{
			ShaderType:           opts.ShaderType,
			ShaderVersion:        ctx.ShaderVersion(),
			AllowIndexArithmetic: opts.AllowIndexArithmetic,
		})
	}

	result := &Result{
		Root:          ctx.TreeRoot(),
		Diagnostics:   ctx.Sink().Diagnostics(),
		Symbols:       ctx.Symbols(),
		ShaderVersion: ctx.ShaderVersion(),
		Pragma:        ctx.Pragma(),
		Debug:         ctx.Sink().Debug(),
	}

	if err := ctx.Sink().Err(); err != nil {
		return result, errors.Wrapf(err, "%s shader", opts.ShaderType)
	}
	return result, nil
}
