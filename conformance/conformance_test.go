// Package conformance_test runs annotated shaders through the full
// front-end and checks the diagnostics they produce.
//
// Each shader in testdata/in/ (.vert or .frag) starts with comment lines
// that state what is expected:
//
//	// options: webgl limits index-arithmetic precision-high
//	// error: undeclared identifier
//	// warning: extension is being used
//	// errors: 2
//
// A shader with no error lines must compile cleanly. "errors" fixes the
// exact error count; without it, at least one error per error line is
// required.
package conformance_test

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// ---------------------------------------------------------------------------
// Test Runner
// ---------------------------------------------------------------------------

// shaderFile represents an annotated input shader loaded from disk.
type shaderFile struct {
	name   string // file name (e.g., "loop_while.frag")
	source string // GLSL ES source code

	stage     symbols.ShaderType
	options   []string
	errors    []string
	warnings  []string
	numErrors int // -1 when not fixed
}

// TestConformance loads all annotated shaders, compiles each and compares
// the diagnostics with the annotations.
func TestConformance(t *testing.T) {
	shaders := loadInputShaders(t, "testdata/in")
	if len(shaders) == 0 {
		t.Fatal("no input shaders found in testdata/in/")
	}

	for i := range shaders {
		shader := &shaders[i]
		t.Run(shader.name, func(t *testing.T) {
			opts := shader.compileOptions(t)
			res, err := essl.Compile([]string{shader.source}, opts)
			if res == nil {
				t.Fatalf("no result: %v", err)
			}
			errs, warns := split(res.Diagnostics)

			if len(shader.errors) == 0 && shader.numErrors < 0 {
				if err != nil {
					t.Fatalf("expected a clean compile, got:\n%s", res.Diagnostics.FormatAll([]string{shader.source}))
				}
				if res.Root == nil {
					t.Fatal("expected a tree")
				}
				checkTree(t, res.Root)
			}

			for _, want := range shader.errors {
				if !contains(errs, want) {
					t.Errorf("expected error %q, got:\n%s", want, format(errs))
				}
			}
			for _, want := range shader.warnings {
				if !contains(warns, want) {
					t.Errorf("expected warning %q, got:\n%s", want, format(warns))
				}
			}
			if shader.numErrors >= 0 && len(errs) != shader.numErrors {
				t.Errorf("expected %d errors, got %d:\n%s", shader.numErrors, len(errs), format(errs))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Shader Loading
// ---------------------------------------------------------------------------

// loadInputShaders reads all .vert and .frag files from the given directory.
func loadInputShaders(t *testing.T, dir string) []shaderFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var shaders []shaderFile
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".vert" && ext != ".frag") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read shader %q: %v", entry.Name(), readErr)
		}
		shader := shaderFile{name: entry.Name(), source: string(data), numErrors: -1}
		if ext == ".frag" {
			shader.stage = symbols.FragmentShader
		}
		shader.parseAnnotations(t)
		shaders = append(shaders, shader)
	}

	// Sort for deterministic test order
	sort.Slice(shaders, func(i, j int) bool {
		return shaders[i].name < shaders[j].name
	})

	return shaders
}

// parseAnnotations reads the leading "// key: value" comment lines.
func (s *shaderFile) parseAnnotations(t *testing.T) {
	for _, line := range strings.Split(s.source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "//") {
			return
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "//")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "options":
			s.options = strings.Fields(value)
		case "error":
			s.errors = append(s.errors, value)
		case "warning":
			s.warnings = append(s.warnings, value)
		case "errors":
			n, err := strconv.Atoi(value)
			if err != nil {
				t.Fatalf("[%s] bad error count %q", s.name, value)
			}
			s.numErrors = n
		}
	}
}

// compileOptions maps the options annotation onto essl.Options.
func (s *shaderFile) compileOptions(t *testing.T) essl.Options {
	t.Helper()

	opts := essl.DefaultOptions()
	opts.ShaderType = s.stage
	for _, o := range s.options {
		switch o {
		case "webgl":
			opts.Spec = symbols.SpecWebGL
		case "css":
			opts.Spec = symbols.SpecCSSShaders
		case "limits":
			opts.ValidateLimitations = true
		case "index-arithmetic":
			opts.AllowIndexArithmetic = true
		case "precision-high":
			opts.Resources.FragmentPrecisionHigh = true
		case "no-precision-check":
			opts.ChecksPrecisionErrors = false
		default:
			if !opts.Resources.EnableExtension(o) {
				t.Fatalf("[%s] unknown option %q", s.name, o)
			}
		}
	}
	return opts
}

// ---------------------------------------------------------------------------
// Diagnostic Comparison
// ---------------------------------------------------------------------------

func split(list diag.List) (errs, warns diag.List) {
	for _, d := range list {
		if d.Severity == diag.Warning {
			warns = append(warns, d)
		} else {
			errs = append(errs, d)
		}
	}
	return errs, warns
}

func contains(list diag.List, substr string) bool {
	for _, d := range list {
		if strings.Contains(d.Message(), substr) {
			return true
		}
	}
	return false
}

func format(list diag.List) string {
	if len(list) == 0 {
		return "  (none)"
	}
	var sb strings.Builder
	for _, d := range list {
		sb.WriteString("  " + d.Error() + "\n")
	}
	return sb.String()
}

// checkTree asserts structural properties every clean tree has: a
// sequence at the root, and typed nodes everywhere below it.
func checkTree(t *testing.T, root ir.Node) {
	t.Helper()

	agg, ok := root.(*ir.Aggregate)
	if !ok || agg.Op != ir.OpSequence {
		t.Fatalf("expected a sequence at the root, got %T", root)
	}

	ir.Walk(root, &ir.Callbacks{
		Binary: func(_ ir.Visit, b *ir.Binary) bool {
			if ir.IsNil(b.Left) || ir.IsNil(b.Right) {
				t.Errorf("binary %s with a missing operand", b.Op)
			}
			return true
		},
		Unary: func(_ ir.Visit, u *ir.Unary) bool {
			if ir.IsNil(u.Operand) {
				t.Errorf("unary %s with a missing operand", u.Op)
			}
			return true
		},
	})

	if dump := ir.Dump(root); strings.TrimSpace(dump) == "" {
		t.Error("expected a non-empty dump")
	}
}
