// Package constfold evaluates compile-time constant expressions.
//
// ParseConstTree flattens a constructor whose arguments are all constant
// into a single value buffer. Fold evaluates unary and binary operators
// over constant operands.
package constfold

import (
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

// ParseConstTree evaluates root, a constructor aggregate whose arguments
// are all constant nodes, into a buffer of t's object size with every
// value cast to t's basic type. singleConstantParam selects broadcast
// (vector) or diagonal (matrix) filling from a lone argument.
//
// Any non-constant node found under root is reported and the result is
// (nil buffer, false); the caller then keeps the unfolded constructor.
func ParseConstTree(sink *diag.Sink, loc ir.Loc, root ir.Node, op ir.Operator, t ir.Type, singleConstantParam bool) (ir.ConstantBuffer, bool) {
	if ir.IsNil(root) {
		return ir.ConstantBuffer{}, false
	}

	ct := &constTraverser{
		sink:        sink,
		out:         make([]ir.Constant, t.ObjectSize()),
		typ:         t,
		loc:         loc,
		constructor: op,
		single:      singleConstantParam,
	}
	if ct.single {
		ct.size = t.ObjectSize()
	}
	ir.Walk(root, ct.callbacks())
	if ct.failed {
		return ir.ConstantBuffer{}, false
	}
	return ir.NewConstantBuffer(ct.out), true
}

type constTraverser struct {
	sink *diag.Sink
	out  []ir.Constant
	typ  ir.Type
	loc  ir.Loc

	index       int
	constructor ir.Operator
	single      bool
	size        int

	diagonal   bool
	matrixCols int
	matrixRows int
	fromMatrix *ir.Type

	failed bool
}

func (ct *constTraverser) internal(loc ir.Loc, msg string) {
	ct.sink.WriteInfo(diag.InternalError, loc, msg, "", "")
	ct.failed = true
}

func (ct *constTraverser) nonConstant(loc ir.Loc) {
	ct.sink.WriteInfo(diag.Error, loc, "assigning non-constant to "+ct.typ.CompleteString(), "constructor", "")
	ct.failed = true
}

func (ct *constTraverser) symbol(s *ir.Symbol) {
	ct.internal(s.Pos(), "Symbol Node found in constant constructor")
}

func (ct *constTraverser) unary(_ ir.Visit, u *ir.Unary) bool {
	ct.nonConstant(u.Pos())
	return false
}

func (ct *constTraverser) binary(_ ir.Visit, b *ir.Binary) bool {
	if b.Type().Qualifier != ir.QualConst {
		ct.nonConstant(b.Pos())
		return false
	}
	ct.internal(b.Pos(), "Binary Node found in constant constructor of "+ct.constructor.String())
	return false
}

func (ct *constTraverser) selection(_ ir.Visit, s *ir.Selection) bool {
	ct.internal(s.Pos(), "Selection Node found in constant constructor")
	return false
}

func (ct *constTraverser) loop(_ ir.Visit, l *ir.Loop) bool {
	ct.internal(l.Pos(), "Loop Node found in constant constructor")
	return false
}

func (ct *constTraverser) branch(_ ir.Visit, b *ir.Branch) bool {
	ct.internal(b.Pos(), "Branch Node found in constant constructor")
	return false
}

func (ct *constTraverser) aggregate(_ ir.Visit, a *ir.Aggregate) bool {
	if !a.IsConstructor() && a.Op != ir.OpComma {
		ct.nonConstant(a.Pos())
		return false
	}
	if len(a.Sequence) == 0 {
		ct.internal(ct.loc, "constructor without arguments found in constant constructor")
		return false
	}

	arg := ir.AsConstant(a.Sequence[0])
	lone := len(a.Sequence) == 1 && arg != nil
	if lone {
		ct.single = true
		ct.constructor = a.Op
		ct.size = a.Type().ObjectSize()
		if a.Type().IsMatrix() {
			switch {
			case arg.Type().IsMatrix():
				ct.fromMatrix = arg.Type()
			case arg.Type().ObjectSize() == 1:
				ct.diagonal = true
			}
			ct.matrixCols = a.Type().Cols()
			ct.matrixRows = a.Type().Rows()
		}
	}

	for _, child := range a.Sequence {
		if a.Op == ir.OpComma {
			ct.index = 0
		}
		ir.Walk(child, ct.callbacks())
		if ct.failed {
			break
		}
	}

	if lone {
		ct.single = false
		ct.constructor = ir.OpNull
		ct.size = 0
		ct.diagonal = false
		ct.fromMatrix = nil
		ct.matrixCols = 0
		ct.matrixRows = 0
	}
	return false
}

func (ct *constTraverser) callbacks() *ir.Callbacks {
	return &ir.Callbacks{
		Symbol:        ct.symbol,
		ConstantUnion: ct.constant,
		Unary:         ct.unary,
		Binary:        ct.binary,
		Aggregate:     ct.aggregate,
		Selection:     ct.selection,
		Loop:          ct.loop,
		Branch:        ct.branch,
	}
}

func (ct *constTraverser) constant(c *ir.ConstantUnion) {
	if c.Values.IsNil() {
		return
	}
	instanceSize := len(ct.out)
	basic := ct.typ.Basic
	if ct.index >= instanceSize {
		return
	}

	switch {
	case !ct.single:
		for i := 0; i < c.Values.Len(); i++ {
			if ct.index >= instanceSize {
				return
			}
			ct.out[ct.index] = c.Values.At(i).Cast(basic)
			ct.index++
		}

	case ct.diagonal:
		i := 0
		for col := 0; col < ct.matrixCols; col++ {
			for row := 0; row < ct.matrixRows; row++ {
				if col == row {
					ct.out[i] = c.Values.At(0).Cast(basic)
				} else {
					ct.out[i] = ir.FloatConst(0).Cast(basic)
				}
				i++
				ct.index++
			}
		}

	case ct.fromMatrix != nil:
		// Columns and rows present in the argument are copied; the rest
		// of the result is the identity matrix.
		srcRows := ct.fromMatrix.Rows()
		i := 0
		for col := 0; col < ct.matrixCols; col++ {
			for row := 0; row < ct.matrixRows; row++ {
				switch {
				case col < ct.fromMatrix.Cols() && row < srcRows:
					ct.out[i] = c.Values.At(col*srcRows + row).Cast(basic)
				case col == row:
					ct.out[i] = ir.FloatConst(1).Cast(basic)
				default:
					ct.out[i] = ir.FloatConst(0).Cast(basic)
				}
				i++
				ct.index++
			}
		}

	default:
		total := ct.index + ct.size
		count := 0
		for i := ct.index; i < total; i++ {
			if i >= instanceSize || count >= c.Values.Len() {
				return
			}
			ct.out[i] = c.Values.At(count).Cast(basic)
			ct.index++
			if c.Values.Len() > 1 {
				count++
			}
		}
	}
}
