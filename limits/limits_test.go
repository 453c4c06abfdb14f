package limits

import (
	"fmt"
	"testing"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/glsl"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/symbols"
	"github.com/nalgeon/be"
)

// validate compiles src and runs the validator over the tree. Compile
// errors fail the test; the returned sink holds only limitation errors.
func validate(t *testing.T, shader symbols.ShaderType, opts Options, src string) (int, *diag.Sink) {
	t.Helper()
	ctx := sema.NewContext(sema.Config{
		ShaderType: shader,
		Spec:       symbols.SpecWebGL,
		Resources:  symbols.DefaultResources(),
	})
	tokens := glsl.NewLexer([]string{src}, ctx.Sink()).Tokenize()
	root := glsl.NewParser(ctx, tokens).Parse()
	if ctx.NumErrors() != 0 {
		t.Fatalf("compile failed:\n%s", ctx.Sink().String())
	}

	opts.ShaderType = shader
	opts.ShaderVersion = ctx.ShaderVersion()
	sink := diag.NewSink()
	n := Validate(root, ctx.Symbols(), sink, opts)
	be.Equal(t, n, sink.NumErrors())
	return n, sink
}

func fragment(body string) string {
	return "precision mediump float;\nvoid main() {\n" + body + "\n}\n"
}

func TestBoundedForLoopsPass(t *testing.T) {
	for _, op := range []string{"<", "<=", ">", ">=", "==", "!="} {
		src := fragment(fmt.Sprintf("for (int i = 0; i %s 10; i++) { }", op))
		n, sink := validate(t, symbols.FragmentShader, Options{}, src)
		if n != 0 {
			t.Errorf("%s: expected no errors, got:\n%s", op, sink.String())
		}
	}

	steps := []string{
		"for (int i = 10; i > 0; i--) { }",
		"for (int i = 0; i < 10; ++i) { }",
		"for (int i = 0; i < 10; i += 2) { }",
		"for (float f = 0.0; f < 1.0; f += 0.25) { }",
	}
	for _, loop := range steps {
		n, sink := validate(t, symbols.FragmentShader, Options{}, fragment(loop))
		if n != 0 {
			t.Errorf("%s: expected no errors, got:\n%s", loop, sink.String())
		}
	}
}

func TestWhileLoopsFail(t *testing.T) {
	tests := []string{
		"bool b = true; while (b) { b = false; }",
		"bool b = true; do { b = false; } while (b);",
	}
	for _, body := range tests {
		n, sink := validate(t, symbols.FragmentShader, Options{}, fragment(body))
		be.Equal(t, n, 1)
		be.True(t, sink.Contains("This type of loop is not allowed"))
	}
}

func TestLoopIndexAssignment(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"for (int i = 0; i < 10; i++) { i = 5; }", 1},
		{"for (int i = 0; i < 10; i++) { i += 1; }", 1},
		{"for (int i = 0; i < 10; i++) { int j = i; j++; }", 0},
		{"for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { i++; } }", 1},
		{"for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { } }", 0},
	}

	for _, tt := range tests {
		n, sink := validate(t, symbols.FragmentShader, Options{}, fragment(tt.body))
		if n != tt.want {
			t.Errorf("%s: expected %d errors, got:\n%s", tt.body, tt.want, sink.String())
		}
		if tt.want > 0 {
			be.True(t, sink.Contains("cannot be statically assigned to"))
		}
	}
}

func TestLoopHeaderErrors(t *testing.T) {
	tests := []struct {
		src     string
		wantErr string
	}{
		{fragment("int i = 0; for (; i < 10; i++) { }"), "Missing init declaration"},
		{fragment("int n = 3; for (int i = n; i < 10; i++) { }"), "Loop index cannot be initialized with non-constant expression"},
		{fragment("for (bool b = false; b == false; b = true) { }"), "Invalid type for loop index"},
		{fragment("for (int i = 0, j = 1; i < 10; i++) { }"), "Invalid init declaration"},
		{"precision mediump float;\nuniform int n;\nvoid main() { for (int i = 0; i < n; i++) { } }", "Loop index cannot be compared with non-constant expression"},
		{fragment("for (int i = 0; 10 > i; i++) { }"), "Invalid condition"},
		{fragment("for (int i = 0; i < 10; ) { }"), "Missing expression"},
		{fragment("for (int i = 0; i < 10; i *= 2) { }"), "Invalid operator"},
		{fragment("int k = 1; for (int i = 0; i < 10; i += k) { }"), "Loop index cannot be modified by non-constant expression"},
		{fragment("int k = 1; for (int i = 0; i < 10; k++) { }"), "Expected loop index"},
	}

	for _, tt := range tests {
		n, sink := validate(t, symbols.FragmentShader, Options{}, tt.src)
		if n == 0 || !sink.Contains(tt.wantErr) {
			t.Errorf("expected %q, got:\n%s", tt.wantErr, sink.String())
		}
	}
}

func TestConditionAndStepReportedTogether(t *testing.T) {
	src := "precision mediump float;\nuniform int n;\nvoid main() { for (int i = 0; i < n; i *= 2) { } }"
	n, sink := validate(t, symbols.FragmentShader, Options{}, src)
	be.Equal(t, n, 2)
	be.True(t, sink.Contains("Loop index cannot be compared with non-constant expression"))
	be.True(t, sink.Contains("Invalid operator"))
}

func TestLoopIndexAsOutArgument(t *testing.T) {
	src := `precision mediump float;
void set(out int x) { x = 1; }
void get(int x) { }
void main() {
	for (int i = 0; i < 3; i++) {
		get(i);
		set(i);
	}
}`
	n, sink := validate(t, symbols.FragmentShader, Options{}, src)
	be.Equal(t, n, 1)
	be.True(t, sink.Contains("Loop index cannot be used as argument to a function out or inout parameter"))
}

func TestIndexExpressions(t *testing.T) {
	tests := []struct {
		name   string
		shader symbols.ShaderType
		opts   Options
		src    string
		want   int
	}{
		{
			name:   "loop index",
			shader: symbols.FragmentShader,
			src:    fragment("float a[11]; for (int i = 0; i < 10; i++) { a[i] = 0.0; }"),
		},
		{
			name:   "constant",
			shader: symbols.FragmentShader,
			src:    fragment("float a[11]; a[3] = 0.0;"),
		},
		{
			name:   "index arithmetic is strict by default",
			shader: symbols.FragmentShader,
			src:    fragment("float a[11]; for (int i = 0; i < 10; i++) { a[i+1] = 0.0; }"),
			want:   1,
		},
		{
			name:   "index arithmetic when allowed",
			shader: symbols.FragmentShader,
			opts:   Options{AllowIndexArithmetic: true},
			src:    fragment("float a[11]; for (int i = 0; i < 10; i++) { a[i+1] = 0.0; }"),
		},
		{
			name:   "variable index",
			shader: symbols.FragmentShader,
			opts:   Options{AllowIndexArithmetic: true},
			src:    fragment("float a[11]; int k = 2; a[k] = 0.0;"),
			want:   1,
		},
		{
			name:   "uniform in vertex shader",
			shader: symbols.VertexShader,
			src: `uniform float u[11];
void main() {
	float s = 0.0;
	for (int i = 0; i < 10; i++) { s += u[i+1]; }
	gl_Position = vec4(s);
}`,
		},
		{
			name:   "uniform in fragment shader",
			shader: symbols.FragmentShader,
			src: `precision mediump float;
uniform float u[11];
void main() {
	float s = 0.0;
	for (int i = 0; i < 10; i++) { s += u[i+1]; }
	gl_FragColor = vec4(s);
}`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, sink := validate(t, tt.shader, tt.opts, tt.src)
			if n != tt.want {
				t.Fatalf("expected %d errors, got:\n%s", tt.want, sink.String())
			}
			if tt.want > 0 {
				be.True(t, sink.Contains("Index expression must be constant"))
			}
		})
	}
}

func TestViolationsAreAllReported(t *testing.T) {
	src := fragment(`bool b = true;
while (b) { b = false; }
for (int i = 0; i < 4; i++) { i = 2; }
do { b = true; } while (!b);`)
	n, sink := validate(t, symbols.FragmentShader, Options{}, src)
	be.Equal(t, n, 3)
	be.True(t, sink.Contains("This type of loop is not allowed"))
	be.True(t, sink.Contains("cannot be statically assigned to"))
}

func TestLoopStack(t *testing.T) {
	var s LoopStack
	be.True(t, s.Empty())
	s.Push(3)
	s.Push(7)
	be.True(t, s.IsIndex(3))
	be.True(t, s.IsIndex(7))
	s.Pop()
	be.True(t, !s.IsIndex(7))
	s.Pop()
	s.Pop()
	be.True(t, s.Empty())
}
