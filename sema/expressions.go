package sema

import (
	"fmt"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// MaxIntLiteral bounds the magnitude of integer literals.
const MaxIntLiteral = 1 << 16

// AddIntLiteral builds a constant int node.
func (c *Context) AddIntLiteral(v int64, loc ir.Loc) ir.Typed {
	if v >= MaxIntLiteral || v <= -MaxIntLiteral {
		c.Error(loc, " integer constant overflow", "")
	}
	return ir.NewConstantUnion(ir.SingleConstant(ir.IntConst(int32(v))),
		ir.Scalar(ir.BasicInt, ir.PrecisionUndefined, ir.QualConst), loc)
}

// AddUIntLiteral builds a constant uint node.
func (c *Context) AddUIntLiteral(v uint64, loc ir.Loc) ir.Typed {
	if v >= MaxIntLiteral {
		c.Error(loc, " integer constant overflow", "")
	}
	return ir.NewConstantUnion(ir.SingleConstant(ir.UIntConst(uint32(v))),
		ir.Scalar(ir.BasicUInt, ir.PrecisionUndefined, ir.QualConst), loc)
}

// AddFloatLiteral builds a constant float node.
func (c *Context) AddFloatLiteral(v float32, loc ir.Loc) ir.Typed {
	return ir.NewConstantUnion(ir.SingleConstant(ir.FloatConst(v)),
		ir.Scalar(ir.BasicFloat, ir.PrecisionUndefined, ir.QualConst), loc)
}

// AddBoolLiteral builds a constant bool node.
func (c *Context) AddBoolLiteral(v bool, loc ir.Loc) ir.Typed {
	return ir.NewConstantUnion(ir.SingleConstant(ir.BoolConst(v)),
		ir.Scalar(ir.BasicBool, ir.PrecisionUndefined, ir.QualConst), loc)
}

// AddVariableReference resolves an identifier used as an expression.
// Const variables with a known value become constant nodes. An undeclared
// name is reported once and then declared as a float.
func (c *Context) AddVariableReference(name string, loc ir.Loc) ir.Typed {
	sym, builtIn, _ := c.table.Find(name, c.shaderVersion)

	var v *symbols.Variable
	switch s := sym.(type) {
	case nil:
		c.Error(loc, "undeclared identifier", name)
		v = symbols.NewVariable(name, ir.Scalar(ir.BasicFloat, ir.PrecisionUndefined, ir.QualTemporary))
		c.table.Declare(v)
	case *symbols.Variable:
		v = s
		if v.UserType {
			c.Error(loc, "variable expected", name)
		}
		if builtIn && v.Extension != "" {
			c.ExtensionErrorCheck(loc, v.Extension)
		}
	default:
		c.Error(loc, "variable expected", name)
		return floatConstant(0, loc)
	}

	if v.Type.Qualifier == ir.QualConst && !v.ConstBuffer().IsNil() {
		return ir.NewConstantUnion(v.ConstBuffer(), v.Type, loc)
	}
	return c.addSymbol(v.ID(), v.Name(), v.Type, loc)
}

// AddUnaryExpression applies -, ! or a prefix or postfix ++/--. A unary
// plus returns the operand.
func (c *Context) AddUnaryExpression(op ir.Operator, operand ir.Typed, loc ir.Loc) ir.Typed {
	if op == ir.OpNull {
		return operand
	}
	tok := unaryToken(op)
	switch op {
	case ir.OpPostIncrement, ir.OpPostDecrement, ir.OpPreIncrement, ir.OpPreDecrement:
		if c.LValueErrorCheck(loc, tok, operand) {
			return operand
		}
	}
	n := c.addUnaryMath(op, operand, loc)
	if n == nil {
		c.unaryOpError(loc, tok, operand.Type().CompleteString())
		return operand
	}
	return n
}

func unaryToken(op ir.Operator) string {
	switch op {
	case ir.OpPostIncrement, ir.OpPreIncrement:
		return "++"
	case ir.OpPostDecrement, ir.OpPreDecrement:
		return "--"
	case ir.OpNegative:
		return "-"
	case ir.OpLogicalNot:
		return "!"
	}
	return op.String()
}

var binaryTokens = map[ir.Operator]string{
	ir.OpMul:              "*",
	ir.OpDiv:              "/",
	ir.OpAdd:              "+",
	ir.OpSub:              "-",
	ir.OpLessThan:         "<",
	ir.OpGreaterThan:      ">",
	ir.OpLessThanEqual:    "<=",
	ir.OpGreaterThanEqual: ">=",
	ir.OpEqual:            "==",
	ir.OpNotEqual:         "!=",
	ir.OpLogicalAnd:       "&&",
	ir.OpLogicalXor:       "^^",
	ir.OpLogicalOr:        "||",
}

// AddBinaryExpression builds left op right. When the operands do not
// combine, arithmetic falls back to the left operand and comparisons and
// logical operators to false.
func (c *Context) AddBinaryExpression(op ir.Operator, left, right ir.Typed, loc ir.Loc) ir.Typed {
	n := c.addBinaryMath(op, left, right, loc)
	if n != nil {
		return n
	}
	c.binaryOpError(loc, binaryTokens[op], left.Type().CompleteString(), right.Type().CompleteString())
	switch op {
	case ir.OpMul, ir.OpDiv, ir.OpAdd, ir.OpSub:
		return left
	}
	return boolConstant(false, loc)
}

// AddTernaryExpression builds cond ? trueExpr : falseExpr.
func (c *Context) AddTernaryExpression(cond, trueExpr, falseExpr ir.Typed, loc ir.Loc) ir.Typed {
	c.BoolErrorCheck(loc, cond)
	n := c.addTernary(cond, trueExpr, falseExpr, loc)
	if n == nil {
		c.binaryOpError(loc, ":", trueExpr.Type().CompleteString(), falseExpr.Type().CompleteString())
		return falseExpr
	}
	return n
}

// AddAssignment builds left op= right. When left is not assignable no
// node is built and left is returned.
func (c *Context) AddAssignment(op ir.Operator, left, right ir.Typed, loc ir.Loc) ir.Typed {
	if c.LValueErrorCheck(loc, "assign", left) {
		return left
	}
	n := c.addAssign(op, left, right, loc)
	if n == nil {
		c.assignError(loc, "assign", left.Type().CompleteString(), right.Type().CompleteString())
		return left
	}
	return n
}

// AddCommaExpression builds left, right.
func (c *Context) AddCommaExpression(left, right ir.Typed, loc ir.Loc) ir.Typed {
	n := c.addComma(left, right, loc)
	if n == nil {
		c.binaryOpError(loc, ",", left.Type().CompleteString(), right.Type().CompleteString())
		return right
	}
	return n
}

// AddMethodCall reports a method call such as a.length().
func (c *Context) AddMethodCall(name string, loc ir.Loc) ir.Typed {
	c.Error(loc, "methods are not supported", "", fmt.Sprintf("'%s'", name))
	return floatConstant(0, loc)
}
