package ir

import (
	"fmt"
	"strings"
)

// Dump renders the tree rooted at n, one node per line, each prefixed
// with its source location and indented by depth.
func Dump(n Node) string {
	var out strings.Builder
	d := &dumper{out: &out}
	cb := &Callbacks{
		Symbol: func(s *Symbol) {
			d.line(s, d.cb.Depth, fmt.Sprintf("'%s' (%s)", s.Name, s.Type().CompleteString()))
		},
		ConstantUnion: d.constant,
		Unary: func(_ Visit, u *Unary) bool {
			d.line(u, d.cb.Depth, fmt.Sprintf("%s (%s)", u.Op, u.Type().CompleteString()))
			return true
		},
		Binary: func(_ Visit, b *Binary) bool {
			d.line(b, d.cb.Depth, fmt.Sprintf("%s (%s)", b.Op, b.Type().CompleteString()))
			return true
		},
		Aggregate: func(_ Visit, a *Aggregate) bool {
			switch {
			case a.Op == OpNull:
				d.line(a, d.cb.Depth, "ERROR: node is still EOpNull!")
			case a.Op == OpFunction || a.Op == OpFunctionCall || a.Op == OpPrototype:
				d.line(a, d.cb.Depth, fmt.Sprintf("%s: %s (%s)", a.Op, a.Name, a.Type().CompleteString()))
			case a.Op == OpSequence || a.Op == OpParameters || a.Op == OpDeclaration || a.Op == OpInvariantDeclaration:
				d.line(a, d.cb.Depth, a.Op.String())
			default:
				d.line(a, d.cb.Depth, fmt.Sprintf("%s (%s)", a.Op, a.Type().CompleteString()))
			}
			return true
		},
		Selection: func(_ Visit, s *Selection) bool {
			d.line(s, d.cb.Depth, fmt.Sprintf("Test condition and select (%s)", s.Type().CompleteString()))
			d.cb.Depth++
			d.label(s, "Condition")
			d.sub(s.Condition)
			if !IsNil(s.TrueBlock) {
				d.label(s, "true case")
				d.sub(s.TrueBlock)
			} else {
				d.label(s, "true case is null")
			}
			if !IsNil(s.FalseBlock) {
				d.label(s, "false case")
				d.sub(s.FalseBlock)
			}
			d.cb.Depth--
			return false
		},
		Loop: func(_ Visit, l *Loop) bool {
			d.line(l, d.cb.Depth, fmt.Sprintf("Loop with condition tested first (%s)", l.Kind))
			d.cb.Depth++
			if !IsNil(l.Init) {
				d.label(l, "Loop Initialization:")
				d.sub(l.Init)
			}
			if !IsNil(l.Condition) {
				d.label(l, "Loop Condition")
				d.sub(l.Condition)
			} else {
				d.label(l, "No loop condition")
			}
			if !IsNil(l.Body) {
				d.label(l, "Loop Body")
				d.sub(l.Body)
			} else {
				d.label(l, "No loop body")
			}
			if !IsNil(l.Expression) {
				d.label(l, "Loop Terminal Expression")
				d.sub(l.Expression)
			}
			d.cb.Depth--
			return false
		},
		Branch: func(_ Visit, b *Branch) bool {
			if IsNil(b.Expression) {
				d.line(b, d.cb.Depth, b.Op.String())
				return false
			}
			d.line(b, d.cb.Depth, b.Op.String()+" with expression")
			return true
		},
	}
	d.cb = cb
	Walk(n, cb)
	return out.String()
}

type dumper struct {
	out *strings.Builder
	cb  *Callbacks
}

func (d *dumper) line(n Node, depth int, text string) {
	fmt.Fprintf(d.out, "%s: %s%s\n", n.Pos(), strings.Repeat("  ", depth), text)
}

func (d *dumper) label(n Node, text string) {
	d.line(n, d.cb.Depth, text)
}

// sub walks a child one level deeper than the current label.
func (d *dumper) sub(n Node) {
	if IsNil(n) {
		return
	}
	d.cb.Depth++
	Walk(n, d.cb)
	d.cb.Depth--
}

func (d *dumper) constant(c *ConstantUnion) {
	for i := 0; i < c.Values.Len(); i++ {
		v := c.Values.At(i)
		d.line(c, d.cb.Depth, fmt.Sprintf("%s (const %s)", v, v.Kind))
	}
}
