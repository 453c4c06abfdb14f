package limits

import "github.com/gogpu/essl/ir"

// validateForLoopHeader checks "for (type i = const; i op const; step)"
// and returns the symbol ID of the loop index. The condition and the
// step are checked independently once the index is known.
func (v *validator) validateForLoopHeader(n *ir.Loop) (int, bool) {
	index, ok := v.validateForLoopInit(n)
	if !ok {
		return 0, false
	}
	condOK := v.validateForLoopCond(n, index)
	exprOK := v.validateForLoopExpr(n, index)
	return index, condOK && exprOK
}

// validateForLoopInit accepts a single declaration of an int, uint or
// float variable initialized with a constant.
func (v *validator) validateForLoopInit(n *ir.Loop) (int, bool) {
	if ir.IsNil(n.Init) {
		v.error(n.Pos(), "Missing init declaration", "for")
		return 0, false
	}

	decl, ok := n.Init.(*ir.Aggregate)
	if !ok || decl.Op != ir.OpDeclaration {
		v.error(n.Init.Pos(), "Invalid init declaration", "for")
		return 0, false
	}
	if len(decl.Sequence) != 1 {
		v.error(decl.Pos(), "Invalid init declaration", "for")
		return 0, false
	}
	init, ok := decl.Sequence[0].(*ir.Binary)
	if !ok || init.Op != ir.OpInitialize {
		v.error(decl.Pos(), "Invalid init declaration", "for")
		return 0, false
	}
	sym := ir.AsSymbol(init.Left)
	if sym == nil {
		v.error(init.Pos(), "Invalid init declaration", "for")
		return 0, false
	}

	switch basic := sym.Type().Basic; basic {
	case ir.BasicInt, ir.BasicUInt, ir.BasicFloat:
	default:
		v.error(sym.Pos(), "Invalid type for loop index", basic.String())
		return 0, false
	}
	if !isConstExpr(init.Right) {
		v.error(init.Pos(), "Loop index cannot be initialized with non-constant expression", sym.Name)
		return 0, false
	}
	return sym.ID, true
}

// validateForLoopCond accepts "index op constant" where op is one of the
// six relational operators.
func (v *validator) validateForLoopCond(n *ir.Loop, index int) bool {
	if ir.IsNil(n.Condition) {
		v.error(n.Pos(), "Missing condition", "for")
		return false
	}

	bin, ok := n.Condition.(*ir.Binary)
	if !ok {
		v.error(n.Pos(), "Invalid condition", "for")
		return false
	}
	sym := ir.AsSymbol(bin.Left)
	if sym == nil {
		v.error(bin.Pos(), "Invalid condition", "for")
		return false
	}
	if sym.ID != index {
		v.error(sym.Pos(), "Expected loop index", sym.Name)
		return false
	}

	valid := true
	if !bin.Op.IsRelational() {
		v.error(bin.Pos(), "Invalid relational operator", bin.Op.String())
		valid = false
	}
	if !isConstExpr(bin.Right) {
		v.error(bin.Pos(), "Loop index cannot be compared with non-constant expression", sym.Name)
		valid = false
	}
	return valid
}

// validateForLoopExpr accepts ++ and -- in either position, and += or
// -= of a constant, applied to the loop index.
func (v *validator) validateForLoopExpr(n *ir.Loop, index int) bool {
	if ir.IsNil(n.Expression) {
		v.error(n.Pos(), "Missing expression", "for")
		return false
	}

	var (
		op  ir.Operator
		sym *ir.Symbol
		bin *ir.Binary
	)
	switch e := n.Expression.(type) {
	case *ir.Unary:
		op, sym = e.Op, ir.AsSymbol(e.Operand)
	case *ir.Binary:
		op, sym, bin = e.Op, ir.AsSymbol(e.Left), e
	}
	if sym == nil {
		v.error(n.Expression.Pos(), "Invalid expression", "for")
		return false
	}
	if sym.ID != index {
		v.error(sym.Pos(), "Expected loop index", sym.Name)
		return false
	}

	switch op {
	case ir.OpPostIncrement, ir.OpPostDecrement, ir.OpPreIncrement, ir.OpPreDecrement:
	case ir.OpAddAssign, ir.OpSubAssign:
		if !isConstExpr(bin.Right) {
			v.error(bin.Pos(), "Loop index cannot be modified by non-constant expression", sym.Name)
			return false
		}
	default:
		v.error(n.Expression.Pos(), "Invalid operator", op.String())
		return false
	}
	return true
}
