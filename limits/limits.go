// Package limits checks a finished tree against the restricted shader
// profile of GLSL ES Appendix A: loops must be for loops with a constant
// trip count, loop indices may not be written in the loop body, and arrays
// are indexed only by constant-index-expressions.
//
// The validator is a second set of ir.Callbacks over the same walker the
// constant folder uses. All violations are reported; a failing loop does
// not stop the walk of its siblings.
package limits

import (
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// Options selects the shader the tree was compiled for and how strict the
// index rule is.
type Options struct {
	ShaderType    symbols.ShaderType
	ShaderVersion int

	// AllowIndexArithmetic accepts index expressions built from loop
	// indices, const variables and constants, such as a[i+1]. Without it
	// an index must be a constant or a bare loop index.
	AllowIndexArithmetic bool
}

// LoopStack holds the index symbol IDs of the for loops enclosing the
// node being validated, innermost last.
type LoopStack struct {
	ids []int
}

// Push enters the body of a loop whose index has the given symbol ID.
func (s *LoopStack) Push(id int) { s.ids = append(s.ids, id) }

// Pop leaves the innermost loop body.
func (s *LoopStack) Pop() {
	if len(s.ids) > 0 {
		s.ids = s.ids[:len(s.ids)-1]
	}
}

// Empty reports whether no loop body is being validated.
func (s *LoopStack) Empty() bool { return len(s.ids) == 0 }

// IsIndex reports whether id is the index of an enclosing loop.
func (s *LoopStack) IsIndex(id int) bool {
	for _, x := range s.ids {
		if x == id {
			return true
		}
	}
	return false
}

type validator struct {
	table *symbols.Table
	sink  *diag.Sink
	opts  Options

	loops     LoopStack
	numErrors int
	cb        ir.Callbacks
}

// Validate walks root and reports every violation of the restricted
// profile to sink. table is the symbol table of the compile, used to look
// up the parameter qualifiers of called functions. It returns the number
// of violations.
func Validate(root ir.Node, table *symbols.Table, sink *diag.Sink, opts Options) int {
	if opts.ShaderVersion == 0 {
		opts.ShaderVersion = symbols.Version100
	}
	v := &validator{table: table, sink: sink, opts: opts}
	v.cb = ir.Callbacks{
		Unary:     v.visitUnary,
		Binary:    v.visitBinary,
		Aggregate: v.visitAggregate,
		Loop:      v.visitLoop,
	}
	ir.Walk(root, &v.cb)
	return v.numErrors
}

func (v *validator) error(loc ir.Loc, reason, token string) {
	v.sink.WriteInfo(diag.Error, loc, reason, token, "")
	v.numErrors++
}

func (v *validator) isLoopIndex(n ir.Node) (*ir.Symbol, bool) {
	sym := ir.AsSymbol(n)
	return sym, sym != nil && v.loops.IsIndex(sym.ID)
}

func (v *validator) visitUnary(_ ir.Visit, n *ir.Unary) bool {
	v.validateOperation(n.Op, n.Pos(), n.Operand)
	return true
}

func (v *validator) visitBinary(_ ir.Visit, n *ir.Binary) bool {
	v.validateOperation(n.Op, n.Pos(), n.Left)
	if n.Op == ir.OpIndexDirect || n.Op == ir.OpIndexIndirect {
		v.validateIndexing(n)
	}
	return true
}

func (v *validator) visitAggregate(_ ir.Visit, n *ir.Aggregate) bool {
	if n.Op == ir.OpFunctionCall {
		v.validateFunctionCall(n)
	}
	return true
}

func (v *validator) visitLoop(_ ir.Visit, n *ir.Loop) bool {
	if n.Kind != ir.LoopFor {
		token := "while"
		if n.Kind == ir.LoopDoWhile {
			token = "do"
		}
		v.error(n.Pos(), "This type of loop is not allowed", token)
		return false
	}

	index, ok := v.validateForLoopHeader(n)
	if !ok {
		return false
	}
	if !ir.IsNil(n.Body) {
		v.loops.Push(index)
		ir.Walk(n.Body, &v.cb)
		v.loops.Pop()
	}
	// The header has been checked and the body walked.
	return false
}

// validateOperation reports an assignment, increment or decrement whose
// target is the index of an enclosing loop.
func (v *validator) validateOperation(op ir.Operator, loc ir.Loc, target ir.Node) {
	if v.loops.Empty() || !op.IsAssignment() {
		return
	}
	if sym, ok := v.isLoopIndex(target); ok {
		v.error(loc, "Loop index cannot be statically assigned to within the body of the loop", sym.Name)
	}
}

// validateFunctionCall reports a loop index passed to an out or inout
// parameter.
func (v *validator) validateFunctionCall(call *ir.Aggregate) {
	if v.loops.Empty() {
		return
	}

	var indices []int
	for i, arg := range call.Sequence {
		if _, ok := v.isLoopIndex(arg); ok {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return
	}

	sym, _, _ := v.table.Find(call.Name, v.opts.ShaderVersion)
	fn, ok := sym.(*symbols.Function)
	if !ok {
		return
	}
	for _, i := range indices {
		if i >= len(fn.Params) {
			continue
		}
		switch fn.Params[i].Type.Qualifier {
		case ir.QualOut, ir.QualInOut:
			v.error(call.Sequence[i].Pos(), "Loop index cannot be used as argument to a function out or inout parameter", fn.Name())
		}
	}
}

// validateIndexing checks that an index is an integer
// constant-index-expression. Uniforms may be indexed freely in vertex
// shaders.
func (v *validator) validateIndexing(n *ir.Binary) {
	index := n.Right
	if !index.Type().IsScalarInt() {
		v.error(index.Pos(), "Index expression must have integral type", index.Type().CompleteString())
	}

	skip := v.opts.ShaderType == symbols.VertexShader && n.Left.Type().Qualifier == ir.QualUniform
	if !skip && !v.isConstIndexExpr(index) {
		v.error(index.Pos(), "Index expression must be constant", "[]")
	}
}

func (v *validator) isConstIndexExpr(n ir.Typed) bool {
	if isConstExpr(n) {
		return true
	}
	if _, ok := v.isLoopIndex(n); ok {
		return true
	}
	if !v.opts.AllowIndexArithmetic {
		return false
	}

	valid := true
	ir.Walk(n, &ir.Callbacks{
		Symbol: func(s *ir.Symbol) {
			if !v.loops.IsIndex(s.ID) && s.Type().Qualifier != ir.QualConst {
				valid = false
			}
		},
		Aggregate: func(_ ir.Visit, a *ir.Aggregate) bool {
			if a.Op == ir.OpFunctionCall && a.UserDefined {
				valid = false
			}
			return valid
		},
	})
	return valid
}

func isConstExpr(n ir.Node) bool {
	return ir.AsConstant(n) != nil
}
