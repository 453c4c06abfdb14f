package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/essl/ir"
)

func TestDiagnostic_Error(t *testing.T) {
	tests := []struct {
		name     string
		diag     *Diagnostic
		expected string
	}{
		{
			name: "with extra",
			diag: &Diagnostic{
				Severity: Error,
				Loc:      ir.Loc{File: 0, Line: 5},
				Reason:   "extension",
				Token:    "GL_OES_foo",
				Extra:    "is not supported",
			},
			expected: "ERROR: 0:5: 'GL_OES_foo' : extension is not supported",
		},
		{
			name: "warning",
			diag: &Diagnostic{
				Severity: Warning,
				Loc:      ir.Loc{File: 1, Line: 2},
				Reason:   "extension",
				Token:    "GL_EXT_frag_depth",
			},
			expected: "WARNING: 1:2: 'GL_EXT_frag_depth' : extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.diag.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDiagnostic_FormatWithContext(t *testing.T) {
	source := `precision mediump float;
void main() {
    gl_FragColor = vec4(1.0)
}`

	d := &Diagnostic{
		Severity: Error,
		Loc:      ir.Loc{File: 0, Line: 3, Column: 5},
		Reason:   "syntax error",
		Token:    "}",
	}

	formatted := d.FormatWithContext([]string{source})

	if !strings.Contains(formatted, "error: syntax error '}'") {
		t.Errorf("missing message, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "  --> 0:3:5") {
		t.Errorf("missing location, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "  3|     gl_FragColor = vec4(1.0)") {
		t.Errorf("missing source line, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "   |     ^") {
		t.Errorf("missing caret, got:\n%s", formatted)
	}
}

func TestDiagnostic_FormatWithContextOutOfRange(t *testing.T) {
	d := &Diagnostic{Loc: ir.Loc{File: 3, Line: 1}, Reason: "oops"}
	if got := d.FormatWithContext([]string{"x"}); got != d.Error() {
		t.Errorf("expected plain error for unknown file, got %q", got)
	}
}

func TestSink_Counts(t *testing.T) {
	s := NewSink()
	if s.Err() != nil {
		t.Fatal("empty sink must not report an error")
	}

	s.WriteInfo(Warning, ir.Loc{Line: 1}, "extension", "GL_EXT_frag_depth", "is being used")
	s.WriteInfo(Error, ir.Loc{Line: 2}, "undeclared identifier", "foo", "")
	s.WriteInfo(Error, ir.Loc{Line: 3}, "redefinition", "bar", "")
	s.WriteDebug("trace")

	if s.NumErrors() != 2 {
		t.Errorf("expected 2 errors, got %d", s.NumErrors())
	}
	if s.NumWarnings() != 1 {
		t.Errorf("expected 1 warning, got %d", s.NumWarnings())
	}
	if len(s.Diagnostics()) != 3 {
		t.Errorf("expected 3 diagnostics, got %d", len(s.Diagnostics()))
	}
	if len(s.Debug()) != 1 {
		t.Errorf("expected 1 debug line, got %d", len(s.Debug()))
	}

	err := s.Err()
	var list List
	if !errors.As(err, &list) {
		t.Fatalf("expected List error, got %T", err)
	}
	if list.Len() != 2 {
		t.Errorf("expected 2 errors in list, got %d", list.Len())
	}
	if !strings.Contains(err.Error(), "and 1 more errors") {
		t.Errorf("unexpected summary %q", err.Error())
	}
	if !s.Contains("redefinition") {
		t.Error("Contains should find reason text")
	}
	if lines := strings.Count(s.String(), "\n"); lines != 3 {
		t.Errorf("expected 3 log lines, got %d", lines)
	}
}
