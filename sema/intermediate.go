package sema

import (
	"github.com/gogpu/essl/constfold"
	"github.com/gogpu/essl/ir"
)

// This file builds IR nodes. Builders return nil when the operand types do
// not combine; callers turn that into a diagnostic.

func (c *Context) addSymbol(id int, name string, t ir.Type, loc ir.Loc) *ir.Symbol {
	return ir.NewSymbol(id, name, t, loc)
}

// growAggregate appends right to left, making left a sequence first when
// it is not an aggregate yet.
func growAggregate(left, right ir.Node, loc ir.Loc) *ir.Aggregate {
	if ir.IsNil(left) && ir.IsNil(right) {
		return nil
	}
	var agg *ir.Aggregate
	if !ir.IsNil(left) {
		agg = ir.AsAggregate(left)
		if agg == nil || agg.Op != ir.OpNull {
			agg = ir.NewAggregate(ir.OpNull, loc, left)
		}
	} else {
		agg = ir.NewAggregate(ir.OpNull, loc)
	}
	agg.Append(right)
	return agg
}

// makeAggregate wraps a single node in an aggregate.
func makeAggregate(n ir.Node, loc ir.Loc) *ir.Aggregate {
	if ir.IsNil(n) {
		return nil
	}
	return ir.NewAggregate(ir.OpNull, loc, n)
}

// setAggregateOperator gives n the operator op, wrapping it first when it
// is not an operator-less aggregate.
func setAggregateOperator(n ir.Node, op ir.Operator, loc ir.Loc) *ir.Aggregate {
	var agg *ir.Aggregate
	if !ir.IsNil(n) {
		agg = ir.AsAggregate(n)
		if agg == nil || agg.Op != ir.OpNull {
			agg = ir.NewAggregate(ir.OpNull, loc, n)
		}
	} else {
		agg = ir.NewAggregate(ir.OpNull, loc)
	}
	agg.Op = op
	agg.SetPos(loc)
	return agg
}

// addBinaryMath builds left op right, folding it when both sides are
// constant.
func (c *Context) addBinaryMath(op ir.Operator, left, right ir.Typed, loc ir.Loc) ir.Typed {
	lt, rt := left.Type(), right.Type()
	switch op {
	case ir.OpEqual, ir.OpNotEqual:
		if lt.Array {
			return nil
		}
	case ir.OpLessThan, ir.OpGreaterThan, ir.OpLessThanEqual, ir.OpGreaterThanEqual:
		if lt.IsMatrix() || lt.Array || lt.IsVector() || lt.Basic == ir.BasicStruct {
			return nil
		}
	case ir.OpLogicalOr, ir.OpLogicalXor, ir.OpLogicalAnd:
		if lt.Basic != ir.BasicBool || lt.IsMatrix() || lt.Array || lt.IsVector() {
			return nil
		}
	case ir.OpAdd, ir.OpSub, ir.OpDiv, ir.OpMul:
		if lt.Basic == ir.BasicBool || rt.Basic == ir.BasicBool {
			return nil
		}
	}
	if lt.Basic != rt.Basic {
		return nil
	}

	node := ir.NewBinary(op, left, right, loc)
	if !promoteBinary(node) {
		return nil
	}

	lc, rc := ir.AsConstant(left), ir.AsConstant(right)
	if lc != nil && rc != nil {
		if folded := constfold.Fold(c.sink, node.Op, lc, rc); folded != nil {
			return folded
		}
	}
	return node
}

// addAssign builds an assignment or initialization.
func (c *Context) addAssign(op ir.Operator, left, right ir.Typed, loc ir.Loc) ir.Typed {
	lt, rt := left.Type(), right.Type()
	if lt.Struct != nil || rt.Struct != nil {
		if !lt.Equal(rt) {
			return nil
		}
	}
	if lt.Array || rt.Array {
		if !lt.Equal(rt) {
			return nil
		}
	}
	node := ir.NewBinary(op, left, right, loc)
	if !promoteBinary(node) {
		return nil
	}
	return node
}

// promoteBinary sets the result type of b and rewrites products into
// their matrix and vector forms. It reports false when the operands do
// not combine.
func promoteBinary(b *ir.Binary) bool {
	lt, rt := b.Left.Type(), b.Right.Type()
	if lt.Basic != rt.Basic {
		return false
	}

	t := *lt
	prec := ir.HigherPrecision(lt.Precision, rt.Precision)
	t.Precision = prec
	if lt.Qualifier != ir.QualConst || rt.Qualifier != ir.QualConst {
		t.Qualifier = ir.QualTemporary
	}
	b.SetType(t)

	primary := max(lt.NominalSize(), rt.NominalSize())
	boolResult := ir.Scalar(ir.BasicBool, ir.PrecisionUndefined, ir.QualTemporary)

	if primary == 1 && lt.SecondarySize == 1 && rt.SecondarySize == 1 {
		switch b.Op {
		case ir.OpEqual, ir.OpNotEqual, ir.OpLessThan, ir.OpGreaterThan, ir.OpLessThanEqual, ir.OpGreaterThanEqual:
			b.SetType(boolResult)
		case ir.OpLogicalAnd, ir.OpLogicalOr, ir.OpLogicalXor:
			if lt.Basic != ir.BasicBool || rt.Basic != ir.BasicBool {
				return false
			}
			b.SetType(boolResult)
		}
		return true
	}

	basic := lt.Basic
	temp := func(cols, rows int) ir.Type {
		return ir.NewType(basic, prec, ir.QualTemporary, cols, rows)
	}

	switch b.Op {
	case ir.OpMul:
		switch {
		case !lt.IsMatrix() && rt.IsMatrix():
			if lt.IsVector() {
				if lt.NominalSize() != rt.Rows() {
					return false
				}
				b.Op = ir.OpVectorTimesMatrix
				b.SetType(temp(rt.Cols(), 1))
			} else {
				b.Op = ir.OpMatrixTimesScalar
				b.SetType(temp(rt.Cols(), rt.Rows()))
			}
		case lt.IsMatrix() && !rt.IsMatrix():
			if rt.IsVector() {
				if lt.Cols() != rt.NominalSize() {
					return false
				}
				b.Op = ir.OpMatrixTimesVector
				b.SetType(temp(lt.Rows(), 1))
			} else {
				b.Op = ir.OpMatrixTimesScalar
			}
		case lt.IsMatrix() && rt.IsMatrix():
			if lt.Cols() != rt.Rows() {
				return false
			}
			b.Op = ir.OpMatrixTimesMatrix
			b.SetType(temp(rt.Cols(), lt.Rows()))
		default:
			switch {
			case lt.IsVector() && rt.IsVector():
				if lt.NominalSize() != rt.NominalSize() {
					return false
				}
			case lt.IsVector() || rt.IsVector():
				b.Op = ir.OpVectorTimesScalar
				b.SetType(temp(primary, 1))
			}
		}

	case ir.OpMulAssign:
		switch {
		case !lt.IsMatrix() && rt.IsMatrix():
			if !lt.IsVector() || lt.NominalSize() != rt.Rows() || rt.Cols() != rt.Rows() {
				return false
			}
			b.Op = ir.OpVectorTimesMatrixAssign
		case lt.IsMatrix() && !rt.IsMatrix():
			if rt.IsVector() {
				return false
			}
			b.Op = ir.OpMatrixTimesScalarAssign
		case lt.IsMatrix() && rt.IsMatrix():
			if lt.Cols() != rt.Rows() || rt.Cols() != rt.Rows() {
				return false
			}
			b.Op = ir.OpMatrixTimesMatrixAssign
		default:
			switch {
			case lt.IsVector() && rt.IsVector():
				if lt.NominalSize() != rt.NominalSize() {
					return false
				}
			case lt.IsVector() || rt.IsVector():
				if !lt.IsVector() {
					return false
				}
				b.Op = ir.OpVectorTimesScalarAssign
				b.SetType(temp(lt.NominalSize(), 1))
			}
		}

	case ir.OpAssign, ir.OpInitialize, ir.OpAdd, ir.OpSub, ir.OpDiv,
		ir.OpAddAssign, ir.OpSubAssign, ir.OpDivAssign:
		if (lt.IsMatrix() && rt.IsVector()) || (lt.IsVector() && rt.IsMatrix()) {
			return false
		}
		if lt.NominalSize() != rt.NominalSize() || lt.Rows() != rt.Rows() {
			if !lt.IsScalar() && !rt.IsScalar() {
				return false
			}
			if b.Op == ir.OpAssign || b.Op == ir.OpInitialize {
				return false
			}
			// the compound forms only accept a scalar on the right
			if b.Op.IsAssignment() && lt.IsScalar() {
				return false
			}
		}
		b.SetType(temp(primary, max(lt.Rows(), rt.Rows())))

	case ir.OpEqual, ir.OpNotEqual, ir.OpLessThan, ir.OpGreaterThan,
		ir.OpLessThanEqual, ir.OpGreaterThanEqual:
		if lt.NominalSize() != rt.NominalSize() || lt.Rows() != rt.Rows() {
			return false
		}
		b.SetType(boolResult)

	default:
		return false
	}

	if t := b.Type(); lt.Qualifier == ir.QualConst && rt.Qualifier == ir.QualConst {
		t.Qualifier = ir.QualConst
	}
	return true
}

// addUnaryMath builds op applied to child, folding constant operands.
func (c *Context) addUnaryMath(op ir.Operator, child ir.Typed, loc ir.Loc) ir.Typed {
	t := child.Type()
	switch op {
	case ir.OpLogicalNot:
		if t.Basic != ir.BasicBool || t.IsMatrix() || t.Array || t.IsVector() {
			return nil
		}
	case ir.OpPostIncrement, ir.OpPreIncrement, ir.OpPostDecrement, ir.OpPreDecrement, ir.OpNegative:
		if t.Basic == ir.BasicStruct || t.Basic == ir.BasicBool || t.Array || t.Basic.IsSampler() || t.Basic == ir.BasicVoid {
			return nil
		}
	}

	node := ir.NewUnary(op, child, loc)
	rt := *t
	rt.Qualifier = ir.QualTemporary
	node.SetType(rt)

	if k := ir.AsConstant(child); k != nil {
		if folded := constfold.Fold(c.sink, op, k, nil); folded != nil {
			return folded
		}
	}
	return node
}

// addIndex builds an indexing node typed as the base; callers refine the
// type.
func (c *Context) addIndex(op ir.Operator, base, index ir.Typed, loc ir.Loc) *ir.Binary {
	node := ir.NewBinary(op, base, index, loc)
	node.SetType(*base.Type())
	return node
}

// addSwizzle encodes swizzle offsets as a sequence of int constants.
func (c *Context) addSwizzle(offsets []int, loc ir.Loc) *ir.Aggregate {
	agg := ir.NewAggregate(ir.OpSequence, loc)
	for _, off := range offsets {
		agg.Append(intConstant(off, loc))
	}
	return agg
}

func intConstant(v int, loc ir.Loc) *ir.ConstantUnion {
	return ir.NewConstantUnion(
		ir.SingleConstant(ir.IntConst(int32(v))),
		ir.Scalar(ir.BasicInt, ir.PrecisionHigh, ir.QualConst), loc)
}

func floatConstant(v float32, loc ir.Loc) *ir.ConstantUnion {
	return ir.NewConstantUnion(
		ir.SingleConstant(ir.FloatConst(v)),
		ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualConst), loc)
}

func boolConstant(v bool, loc ir.Loc) *ir.ConstantUnion {
	return ir.NewConstantUnion(
		ir.SingleConstant(ir.BoolConst(v)),
		ir.Scalar(ir.BasicBool, ir.PrecisionUndefined, ir.QualConst), loc)
}

// addSelection builds an if statement. A constant condition keeps only
// the branch that is taken.
func (c *Context) addSelection(cond ir.Typed, trueBlock, falseBlock ir.Node, loc ir.Loc) ir.Node {
	if k := ir.AsConstant(cond); k != nil {
		taken := falseBlock
		if k.BConst(0) {
			taken = trueBlock
		}
		if ir.IsNil(taken) {
			return nil
		}
		return setAggregateOperator(taken, ir.OpSequence, taken.Pos())
	}
	return ir.NewSelection(cond, trueBlock, falseBlock, loc)
}

// addTernary builds cond ? trueExpr : falseExpr. Both branches must have
// the same type.
func (c *Context) addTernary(cond, trueExpr, falseExpr ir.Typed, loc ir.Loc) ir.Typed {
	if !trueExpr.Type().Equal(falseExpr.Type()) {
		return nil
	}
	if k := ir.AsConstant(cond); k != nil && ir.AsConstant(trueExpr) != nil && ir.AsConstant(falseExpr) != nil {
		if k.BConst(0) {
			return trueExpr
		}
		return falseExpr
	}
	node := ir.NewSelection(cond, trueExpr, falseExpr, loc)
	t := *trueExpr.Type()
	t.Qualifier = ir.QualTemporary
	node.SetType(t)
	return node
}

// addComma builds left, right. Two constant operands reduce to right.
func (c *Context) addComma(left, right ir.Typed, loc ir.Loc) ir.Typed {
	if left.Type().Qualifier == ir.QualConst && right.Type().Qualifier == ir.QualConst {
		return right
	}
	agg := growAggregate(left, right, loc)
	agg.Op = ir.OpComma
	t := *right.Type()
	t.Qualifier = ir.QualTemporary
	agg.SetType(t)
	return agg
}

func (c *Context) addLoop(kind ir.LoopKind, init ir.Node, cond, expr ir.Typed, body ir.Node, loc ir.Loc) *ir.Loop {
	return ir.NewLoop(kind, init, cond, expr, body, loc)
}

func (c *Context) addBranch(op ir.Operator, expr ir.Typed, loc ir.Loc) *ir.Branch {
	return ir.NewBranch(op, expr, loc)
}
