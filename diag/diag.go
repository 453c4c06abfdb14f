// Package diag collects the errors and warnings produced while a shader
// is compiled.
//
// Every check reports through a Sink exactly once, at the point the
// problem is found, and compilation continues. A compile has failed when
// NumErrors is non-zero at the end.
package diag

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ir"
)

// Severity is the kind of a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	// InternalError marks a broken front-end invariant. It counts as an
	// error.
	InternalError
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "WARNING"
	case InternalError:
		return "INTERNAL ERROR"
	}
	return "ERROR"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Loc      ir.Loc
	Reason   string
	Token    string
	Extra    string
}

// Error formats d as "ERROR: 0:3: 'token' : reason extra".
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: '%s' : %s", d.Severity, d.Loc, d.Token, d.Reason)
	if d.Extra != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Extra)
	}
	return sb.String()
}

// Message is the reason, token and extra text without location.
func (d *Diagnostic) Message() string {
	msg := strings.TrimSpace(d.Reason)
	if d.Token != "" {
		msg += " '" + d.Token + "'"
	}
	if d.Extra != "" {
		msg += " " + d.Extra
	}
	return msg
}

// FormatWithContext renders d with the offending source line and a caret
// under the reported column. sources are the strings passed to the
// compiler, indexed by Loc.File.
func (d *Diagnostic) FormatWithContext(sources []string) string {
	if d.Loc.File < 0 || d.Loc.File >= len(sources) || d.Loc.Line == 0 {
		return d.Error()
	}

	lines := strings.Split(sources[d.Loc.File], "\n")
	lineNum := d.Loc.Line
	if lineNum < 1 || lineNum > len(lines) {
		return d.Error()
	}

	line := lines[lineNum-1]
	col := d.Loc.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", strings.ToLower(d.Severity.String()), d.Message())
	fmt.Fprintf(&sb, "  --> %d:%d:%d\n", d.Loc.File, lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

// List is a list of diagnostics usable as an error.
type List []*Diagnostic

// Error implements the error interface.
func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// FormatAll returns all diagnostics formatted with context.
func (l List) FormatAll(sources []string) string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.FormatWithContext(sources))
	}
	return sb.String()
}

// Len returns the number of diagnostics.
func (l List) Len() int {
	return len(l)
}

// Sink accumulates diagnostics and debug output for one compile.
type Sink struct {
	diags       List
	debug       []string
	numErrors   int
	numWarnings int
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// WriteInfo records one diagnostic.
func (s *Sink) WriteInfo(sev Severity, loc ir.Loc, reason, token, extra string) {
	s.diags = append(s.diags, &Diagnostic{
		Severity: sev,
		Loc:      loc,
		Reason:   reason,
		Token:    token,
		Extra:    extra,
	})
	if sev == Warning {
		s.numWarnings++
	} else {
		s.numErrors++
	}
}

// WriteDebug records trace output.
func (s *Sink) WriteDebug(text string) {
	s.debug = append(s.debug, text)
}

// NumErrors is the number of errors reported so far.
func (s *Sink) NumErrors() int { return s.numErrors }

// NumWarnings is the number of warnings reported so far.
func (s *Sink) NumWarnings() int { return s.numWarnings }

// Diagnostics returns every diagnostic in report order.
func (s *Sink) Diagnostics() List { return s.diags }

// Debug returns the trace output.
func (s *Sink) Debug() []string { return s.debug }

// Errors returns only the error diagnostics.
func (s *Sink) Errors() List {
	var out List
	for _, d := range s.diags {
		if d.Severity != Warning {
			out = append(out, d)
		}
	}
	return out
}

// Err returns the errors as an error value, or nil when there are none.
func (s *Sink) Err() error {
	if s.numErrors == 0 {
		return nil
	}
	return s.Errors()
}

// String is the info log: one diagnostic per line.
func (s *Sink) String() string {
	var sb strings.Builder
	for _, d := range s.diags {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Contains reports whether any diagnostic's reason, token or extra text
// contains substr.
func (s *Sink) Contains(substr string) bool {
	for _, d := range s.diags {
		if strings.Contains(d.Reason, substr) || strings.Contains(d.Token, substr) || strings.Contains(d.Extra, substr) {
			return true
		}
	}
	return false
}
