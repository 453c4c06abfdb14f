package constfold

import (
	"math"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

// Fold evaluates op over constant operands and returns the folded node,
// or nil when the operation is not folded. right is nil for unary
// operators. op is the operator after promotion, so products already
// distinguish matrix, vector and scalar operands.
func Fold(sink *diag.Sink, op ir.Operator, left, right *ir.ConstantUnion) *ir.ConstantUnion {
	if left == nil || left.Values.IsNil() {
		return nil
	}
	if right == nil {
		return foldUnary(sink, op, left)
	}
	if right.Values.IsNil() {
		return nil
	}
	return foldBinary(sink, op, left, right)
}

func foldUnary(sink *diag.Sink, op ir.Operator, operand *ir.ConstantUnion) *ir.ConstantUnion {
	n := operand.Values.Len()
	out := make([]ir.Constant, n)
	for i := 0; i < n; i++ {
		v := operand.Values.At(i)
		switch op {
		case ir.OpNegative:
			switch operand.Type().Basic {
			case ir.BasicFloat:
				out[i] = ir.FloatConst(-v.F)
			case ir.BasicInt:
				out[i] = ir.IntConst(-v.I)
			case ir.BasicUInt:
				out[i] = ir.UIntConst(uint32(-int32(v.U)))
			default:
				sink.WriteInfo(diag.InternalError, operand.Pos(), "Unary operation not folded into constant", "", "")
				return nil
			}
		case ir.OpLogicalNot, ir.OpVectorLogicalNot:
			if operand.Type().Basic != ir.BasicBool {
				sink.WriteInfo(diag.InternalError, operand.Pos(), "Unary operation not folded into constant", "", "")
				return nil
			}
			out[i] = ir.BoolConst(!v.B)
		default:
			return nil
		}
	}
	t := *operand.Type()
	t.Qualifier = ir.QualConst
	return ir.NewConstantUnion(ir.NewConstantBuffer(out), t, operand.Pos())
}

func boolType() ir.Type {
	return ir.Scalar(ir.BasicBool, ir.PrecisionUndefined, ir.QualConst)
}

func foldBinary(sink *diag.Sink, op ir.Operator, left, right *ir.ConstantUnion) *ir.ConstantUnion {
	loc := left.Pos()
	lhs := left.Values
	rhs := right.Values
	size := left.Type().ObjectSize()
	resultType := *left.Type()

	// A scalar operand is applied to every component of the other one.
	rightSize := right.Type().ObjectSize()
	switch {
	case rightSize == 1 && size > 1:
		rhs = broadcast(rhs.At(0), size)
	case rightSize > 1 && size == 1:
		lhs = broadcast(lhs.At(0), rightSize)
		resultType = *right.Type()
		size = rightSize
	}

	var out []ir.Constant
	switch op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpVectorTimesScalar, ir.OpMatrixTimesScalar:
		out = make([]ir.Constant, size)
		for i := range out {
			out[i] = arith(op, lhs.At(i), rhs.At(i))
		}

	case ir.OpDiv:
		out = make([]ir.Constant, size)
		for i := range out {
			a, b := lhs.At(i), rhs.At(i)
			switch left.Type().Basic {
			case ir.BasicFloat:
				if b.F == 0 {
					divideByZero(sink, loc)
					if a.F < 0 {
						out[i] = ir.FloatConst(-math.MaxFloat32)
					} else {
						out[i] = ir.FloatConst(math.MaxFloat32)
					}
				} else {
					out[i] = ir.FloatConst(a.F / b.F)
				}
			case ir.BasicInt:
				if b.I == 0 {
					divideByZero(sink, loc)
					out[i] = ir.IntConst(math.MaxInt32)
				} else {
					out[i] = ir.IntConst(a.I / b.I)
				}
			case ir.BasicUInt:
				if b.U == 0 {
					divideByZero(sink, loc)
					out[i] = ir.UIntConst(math.MaxUint32)
				} else {
					out[i] = ir.UIntConst(a.U / b.U)
				}
			default:
				sink.WriteInfo(diag.InternalError, loc, `Constant folding cannot be done for "/"`, "", "")
				return nil
			}
		}

	case ir.OpMatrixTimesMatrix:
		if left.Type().Basic != ir.BasicFloat || right.Type().Basic != ir.BasicFloat {
			sink.WriteInfo(diag.InternalError, loc, "Constant Folding cannot be done for matrix multiply", "", "")
			return nil
		}
		leftCols, leftRows := left.Type().Cols(), left.Type().Rows()
		rightCols, rightRows := right.Type().Cols(), right.Type().Rows()
		out = make([]ir.Constant, rightCols*leftRows)
		for row := 0; row < leftRows; row++ {
			for col := 0; col < rightCols; col++ {
				var sum float32
				for i := 0; i < leftCols; i++ {
					sum += lhs.At(i*leftRows+row).F * rhs.At(col*rightRows+i).F
				}
				out[leftRows*col+row] = ir.FloatConst(sum)
			}
		}
		resultType.PrimarySize = rightCols
		resultType.SecondarySize = leftRows

	case ir.OpMatrixTimesVector:
		if right.Type().Basic != ir.BasicFloat {
			sink.WriteInfo(diag.InternalError, loc, "Constant Folding cannot be done for matrix times vector", "", "")
			return nil
		}
		cols, rows := left.Type().Cols(), left.Type().Rows()
		out = make([]ir.Constant, rows)
		for row := 0; row < rows; row++ {
			var sum float32
			for col := 0; col < cols; col++ {
				sum += lhs.At(col*rows+row).F * rhs.At(col).F
			}
			out[row] = ir.FloatConst(sum)
		}
		resultType = *right.Type()
		resultType.PrimarySize = rows

	case ir.OpVectorTimesMatrix:
		if left.Type().Basic != ir.BasicFloat {
			sink.WriteInfo(diag.InternalError, loc, "Constant Folding cannot be done for vector times matrix", "", "")
			return nil
		}
		cols, rows := right.Type().Cols(), right.Type().Rows()
		out = make([]ir.Constant, cols)
		for col := 0; col < cols; col++ {
			var sum float32
			for row := 0; row < rows; row++ {
				sum += lhs.At(row).F * rhs.At(col*rows+row).F
			}
			out[col] = ir.FloatConst(sum)
		}
		resultType.PrimarySize = cols

	case ir.OpLogicalAnd, ir.OpLogicalOr, ir.OpLogicalXor:
		out = make([]ir.Constant, size)
		for i := range out {
			a, b := lhs.At(i), rhs.At(i)
			if a.Kind != ir.BasicBool {
				sink.WriteInfo(diag.InternalError, loc, "Constant folding cannot be done for logical operator", "", "")
				return nil
			}
			switch op {
			case ir.OpLogicalAnd:
				out[i] = ir.BoolConst(a.B && b.B)
			case ir.OpLogicalOr:
				out[i] = ir.BoolConst(a.B || b.B)
			default:
				out[i] = ir.BoolConst(a.B != b.B)
			}
		}

	case ir.OpLessThan, ir.OpGreaterThan, ir.OpLessThanEqual, ir.OpGreaterThanEqual:
		a, b := lhs.At(0), rhs.At(0)
		var r bool
		switch op {
		case ir.OpLessThan:
			r = a.Less(b)
		case ir.OpGreaterThan:
			r = b.Less(a)
		case ir.OpLessThanEqual:
			r = !b.Less(a)
		default:
			r = !a.Less(b)
		}
		return ir.NewConstantUnion(ir.SingleConstant(ir.BoolConst(r)), boolType(), loc)

	case ir.OpEqual, ir.OpNotEqual:
		equal := lhs.Len() == rhs.Len()
		for i := 0; equal && i < lhs.Len(); i++ {
			equal = lhs.At(i).Equal(rhs.At(i))
		}
		if op == ir.OpNotEqual {
			equal = !equal
		}
		return ir.NewConstantUnion(ir.SingleConstant(ir.BoolConst(equal)), boolType(), loc)

	default:
		sink.WriteInfo(diag.InternalError, loc, "Invalid operator for constant folding", "", "")
		return nil
	}

	resultType.Qualifier = ir.QualConst
	return ir.NewConstantUnion(ir.NewConstantBuffer(out), resultType, loc)
}

func broadcast(c ir.Constant, n int) ir.ConstantBuffer {
	vals := make([]ir.Constant, n)
	for i := range vals {
		vals[i] = c
	}
	return ir.NewConstantBuffer(vals)
}

func divideByZero(sink *diag.Sink, loc ir.Loc) {
	sink.WriteInfo(diag.Warning, loc, "Divide by zero error during constant folding", "", "")
}

func arith(op ir.Operator, a, b ir.Constant) ir.Constant {
	switch a.Kind {
	case ir.BasicFloat:
		switch op {
		case ir.OpAdd:
			return ir.FloatConst(a.F + b.F)
		case ir.OpSub:
			return ir.FloatConst(a.F - b.F)
		default:
			return ir.FloatConst(a.F * b.F)
		}
	case ir.BasicInt:
		switch op {
		case ir.OpAdd:
			return ir.IntConst(a.I + b.I)
		case ir.OpSub:
			return ir.IntConst(a.I - b.I)
		default:
			return ir.IntConst(a.I * b.I)
		}
	case ir.BasicUInt:
		switch op {
		case ir.OpAdd:
			return ir.UIntConst(a.U + b.U)
		case ir.OpSub:
			return ir.UIntConst(a.U - b.U)
		default:
			return ir.UIntConst(a.U * b.U)
		}
	}
	return a
}
