package sema

import (
	"testing"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
	"github.com/nalgeon/be"
)

var loc = ir.Loc{Line: 1, Column: 1}

func newContext(shader symbols.ShaderType) *Context {
	return NewContext(Config{
		ShaderType: shader,
		Spec:       symbols.SpecGLES2,
		Resources:  symbols.DefaultResources(),
	})
}

// declare adds a highp global of the given shape and returns a reference
// to it. rows is 1 for scalars and vectors.
func declare(c *Context, name string, basic ir.BasicType, cols, rows int) ir.Typed {
	pt := c.NewBasicType(basic, loc)
	pt.SetMatrix(cols, rows)
	pt.Precision = ir.PrecisionHigh
	c.ParseSingleDeclaration(&pt, loc, name)
	return c.AddVariableReference(name, loc)
}

func construct(c *Context, basic ir.BasicType, cols, rows int, args ...ir.Typed) ir.Typed {
	pt := c.NewBasicType(basic, loc)
	pt.SetMatrix(cols, rows)
	return c.AddFunctionCall(c.AddConstructorFunc(pt), args, loc)
}

func floats(n ir.Typed) []float32 {
	k := ir.AsConstant(n)
	if k == nil {
		return nil
	}
	var out []float32
	for _, v := range k.Values.Values() {
		out = append(out, v.F)
	}
	return out
}

func TestParseVectorFields(t *testing.T) {
	tests := []struct {
		comp    string
		size    int
		want    []int
		wantErr string
	}{
		{"x", 4, []int{0}, ""},
		{"wzyx", 4, []int{3, 2, 1, 0}, ""},
		{"rgb", 3, []int{0, 1, 2}, ""},
		{"ts", 2, []int{1, 0}, ""},
		{"xyzwx", 4, nil, "illegal vector field selection"},
		{"xq", 4, nil, "illegal - vector component fields not from the same set"},
		{"z", 2, nil, "vector field selection out of range"},
		{"xm", 4, nil, "illegal vector field selection"},
	}
	for _, tt := range tests {
		t.Run(tt.comp, func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			f, ok := c.ParseVectorFields(tt.comp, tt.size, loc)
			if tt.wantErr != "" {
				be.True(t, !ok)
				be.True(t, c.Sink().Contains(tt.wantErr))
				return
			}
			be.True(t, ok)
			be.Equal(t, f.Slice(), tt.want)
			be.Equal(t, c.NumErrors(), 0)
		})
	}
}

func TestParseMatrixFields(t *testing.T) {
	c := newContext(symbols.FragmentShader)

	f, ok := c.ParseMatrixFields("_1", 3, 3, loc)
	be.True(t, ok)
	be.True(t, f.WholeCol)
	be.Equal(t, f.Col, 1)

	f, ok = c.ParseMatrixFields("21", 3, 3, loc)
	be.True(t, ok)
	be.Equal(t, f.Row, 2)
	be.Equal(t, f.Col, 1)

	_, ok = c.ParseMatrixFields("3_", 3, 3, loc)
	be.True(t, !ok)
	be.True(t, c.Sink().Contains("matrix field selection out of range"))
}

func TestConstVariableSizesArray(t *testing.T) {
	c := newContext(symbols.FragmentShader)

	n := c.NewBasicType(ir.BasicInt, loc)
	n.Qualifier = ir.QualConst
	n.Precision = ir.PrecisionHigh
	be.True(t, c.ParseSingleInitDeclaration(&n, loc, "N", loc, c.AddIntLiteral(4, loc)) == nil)

	a := c.NewBasicType(ir.BasicFloat, loc)
	a.Precision = ir.PrecisionHigh
	c.ParseSingleArrayDeclaration(&a, loc, "a", loc, c.AddVariableReference("N", loc))

	be.Equal(t, c.NumErrors(), 0)
	sym, _, _ := c.Symbols().Find("a", symbols.Version100)
	v := sym.(*symbols.Variable)
	be.True(t, v.Type.Array)
	be.Equal(t, v.Type.ArraySize, 4)
}

func TestConstVariableSharesInitializer(t *testing.T) {
	c := newContext(symbols.FragmentShader)

	pt := c.NewBasicType(ir.BasicFloat, loc)
	pt.SetAggregate(3)
	pt.Qualifier = ir.QualConst
	init := construct(c, ir.BasicFloat, 3, 1, c.AddFloatLiteral(2, loc))
	c.ParseSingleInitDeclaration(&pt, loc, "k", loc, init)

	sym, _, _ := c.Symbols().Find("k", symbols.Version100)
	v := sym.(*symbols.Variable)
	be.True(t, v.ConstBuffer().SameStorage(ir.AsConstant(init).Values))
	be.Equal(t, floats(c.AddVariableReference("k", loc)), []float32{2, 2, 2})
}

func TestConstInitializerMustBeConstant(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	x := declare(c, "x", ir.BasicFloat, 1, 1)

	pt := c.NewBasicType(ir.BasicFloat, loc)
	pt.Qualifier = ir.QualConst
	c.ParseSingleInitDeclaration(&pt, loc, "k", loc, x)

	be.True(t, c.Sink().Contains("assigning non-constant to"))
	sym, _, _ := c.Symbols().Find("k", symbols.Version100)
	be.Equal(t, sym.(*symbols.Variable).Type.Qualifier, ir.QualTemporary)
}

func TestConstructorFolding(t *testing.T) {
	tests := []struct {
		name string
		cols int
		rows int
		args []float32
		want []float32
	}{
		{"vec3 broadcast", 3, 1, []float32{1}, []float32{1, 1, 1}},
		{"vec4 components", 4, 1, []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}},
		{"mat2 diagonal", 2, 2, []float32{5}, []float32{5, 0, 0, 5}},
		{"mat2 column-major", 2, 2, []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			var args []ir.Typed
			for _, a := range tt.args {
				args = append(args, c.AddFloatLiteral(a, loc))
			}
			n := construct(c, ir.BasicFloat, tt.cols, tt.rows, args...)
			be.Equal(t, c.NumErrors(), 0)
			be.Equal(t, floats(n), tt.want)
			be.Equal(t, n.Type().Qualifier, ir.QualConst)
		})
	}
}

func TestConstructorArity(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		rows    int
		args    int
		wantErr string
	}{
		{"too few", 3, 1, 2, "not enough data provided for construction"},
		{"too many", 2, 1, 3, "too many arguments"},
		{"exact", 3, 1, 3, ""},
		{"exact vec2", 2, 1, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			var args []ir.Typed
			for i := 0; i < tt.args; i++ {
				args = append(args, c.AddFloatLiteral(float32(i), loc))
			}
			construct(c, ir.BasicFloat, tt.cols, tt.rows, args...)
			if tt.wantErr == "" {
				be.Equal(t, c.NumErrors(), 0)
				return
			}
			be.Equal(t, c.NumErrors(), 1)
			be.True(t, c.Sink().Contains(tt.wantErr))
		})
	}
}

func TestConstructorMatrixFromMatrix(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	m := declare(c, "m", ir.BasicFloat, 3, 3)

	n := construct(c, ir.BasicFloat, 2, 2, m)
	be.Equal(t, c.NumErrors(), 0)
	be.Equal(t, ir.AsAggregate(n).Op, ir.OpConstructMat2)

	construct(c, ir.BasicFloat, 2, 2, m, c.AddFloatLiteral(1, loc))
	be.True(t, c.Sink().Contains("constructing matrix from matrix can only take one argument"))
}

func TestAssignToDuplicateSwizzle(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	v := declare(c, "v", ir.BasicFloat, 4, 1)

	left := c.AddFieldSelectionExpression(v, loc, "xx", loc)
	right := construct(c, ir.BasicFloat, 2, 1, c.AddFloatLiteral(1, loc))
	got := c.AddAssignment(ir.OpAssign, left, right, loc)

	be.True(t, got == left)
	be.True(t, c.Sink().Contains("l-value of swizzle cannot have duplicate components"))
}

func TestAssignToSwizzle(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	v := declare(c, "v", ir.BasicFloat, 4, 1)

	left := c.AddFieldSelectionExpression(v, loc, "zx", loc)
	right := construct(c, ir.BasicFloat, 2, 1, c.AddFloatLiteral(1, loc))
	got := c.AddAssignment(ir.OpAssign, left, right, loc)

	be.Equal(t, c.NumErrors(), 0)
	b, ok := got.(*ir.Binary)
	be.True(t, ok)
	be.Equal(t, b.Op, ir.OpAssign)
	be.Equal(t, b.Type().NominalSize(), 2)
}

func TestLValueQualifiers(t *testing.T) {
	tests := []struct {
		name string
		qual ir.Qualifier
		want string
	}{
		{"uniform", ir.QualUniform, "can't modify a uniform"},
		{"varying", ir.QualVaryingIn, "can't modify a varying"},
		{"const", ir.QualConst, "can't modify a const"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			sym := ir.NewSymbol(1, "u", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, tt.qual), loc)
			be.True(t, c.LValueErrorCheck(loc, "assign", sym))
			be.True(t, c.Sink().Contains(tt.want))
		})
	}
}

func TestBinaryPromotion(t *testing.T) {
	tests := []struct {
		name   string
		op     ir.Operator
		left   [2]int
		right  [2]int
		wantOp ir.Operator
		want   [2]int
	}{
		{"vector times matrix", ir.OpMul, [2]int{3, 1}, [2]int{3, 3}, ir.OpVectorTimesMatrix, [2]int{3, 1}},
		{"matrix times vector", ir.OpMul, [2]int{3, 3}, [2]int{3, 1}, ir.OpMatrixTimesVector, [2]int{3, 1}},
		{"matrix times matrix", ir.OpMul, [2]int{2, 2}, [2]int{2, 2}, ir.OpMatrixTimesMatrix, [2]int{2, 2}},
		{"vector times scalar", ir.OpMul, [2]int{4, 1}, [2]int{1, 1}, ir.OpVectorTimesScalar, [2]int{4, 1}},
		{"matrix times scalar", ir.OpMul, [2]int{1, 1}, [2]int{4, 4}, ir.OpMatrixTimesScalar, [2]int{4, 4}},
		{"vector plus scalar", ir.OpAdd, [2]int{3, 1}, [2]int{1, 1}, ir.OpAdd, [2]int{3, 1}},
		{"component-wise", ir.OpMul, [2]int{2, 1}, [2]int{2, 1}, ir.OpMul, [2]int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			l := declare(c, "l", ir.BasicFloat, tt.left[0], tt.left[1])
			r := declare(c, "r", ir.BasicFloat, tt.right[0], tt.right[1])
			n := c.AddBinaryExpression(tt.op, l, r, loc)
			be.Equal(t, c.NumErrors(), 0)
			b := n.(*ir.Binary)
			be.Equal(t, b.Op, tt.wantOp)
			be.Equal(t, b.Type().PrimarySize, tt.want[0])
			be.Equal(t, b.Type().SecondarySize, tt.want[1])
			be.Equal(t, b.Type().Qualifier, ir.QualTemporary)
		})
	}
}

func TestBinaryMismatch(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	l := declare(c, "l", ir.BasicFloat, 2, 1)
	r := declare(c, "r", ir.BasicFloat, 3, 1)

	got := c.AddBinaryExpression(ir.OpAdd, l, r, loc)
	be.True(t, got == l)
	be.True(t, c.Sink().Contains("wrong operand types"))

	got = c.AddBinaryExpression(ir.OpEqual, l, r, loc)
	k := ir.AsConstant(got)
	be.True(t, k != nil)
	be.True(t, !k.BConst(0))
}

func TestComparisonYieldsBool(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	l := declare(c, "l", ir.BasicFloat, 3, 1)
	r := declare(c, "r", ir.BasicFloat, 3, 1)

	n := c.AddBinaryExpression(ir.OpEqual, l, r, loc)
	be.Equal(t, n.Type().Basic, ir.BasicBool)
	be.True(t, n.Type().IsScalar())
}

func TestConstantFoldingOfExpressions(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	sum := c.AddBinaryExpression(ir.OpAdd, c.AddFloatLiteral(1, loc), c.AddFloatLiteral(2, loc), loc)
	be.Equal(t, floats(sum), []float32{3})

	neg := c.AddUnaryExpression(ir.OpNegative, c.AddFloatLiteral(2, loc), loc)
	be.Equal(t, floats(neg), []float32{-2})
}

func TestIndexOutOfRangeIsClamped(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	v := declare(c, "v", ir.BasicFloat, 4, 1)

	n := c.AddIndexExpression(v, loc, c.AddIntLiteral(5, loc))
	be.True(t, c.Sink().Contains("field selection out of range '5'"))
	b := n.(*ir.Binary)
	be.Equal(t, b.Op, ir.OpIndexDirect)
	be.Equal(t, ir.AsConstant(b.Right).IConst(0), 3)
	be.True(t, b.Type().IsScalar())
}

func TestArrayIndexOutOfRange(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	pt := c.NewBasicType(ir.BasicFloat, loc)
	pt.Precision = ir.PrecisionHigh
	c.ParseSingleArrayDeclaration(&pt, loc, "a", loc, c.AddIntLiteral(3, loc))
	a := c.AddVariableReference("a", loc)

	n := c.AddIndexExpression(a, loc, c.AddIntLiteral(3, loc))
	be.True(t, c.Sink().Contains("array index out of range '3'"))
	be.Equal(t, ir.AsConstant(n.(*ir.Binary).Right).IConst(0), 2)
	be.True(t, !n.Type().Array)
}

func TestConstantIndexFolds(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	var args []ir.Typed
	for i := 1; i <= 4; i++ {
		args = append(args, c.AddFloatLiteral(float32(i), loc))
	}
	v := construct(c, ir.BasicFloat, 4, 1, args...)

	be.Equal(t, floats(c.AddIndexExpression(v, loc, c.AddIntLiteral(2, loc))), []float32{3})
	be.Equal(t, c.NumErrors(), 0)

	be.Equal(t, floats(c.AddIndexExpression(v, loc, c.AddIntLiteral(9, loc))), []float32{4})
	be.True(t, c.Sink().Contains("vector field selection out of range '9'"))
}

func TestConstantMatrixColumn(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	m := construct(c, ir.BasicFloat, 2, 2, c.AddFloatLiteral(5, loc))

	col := c.AddIndexExpression(m, loc, c.AddIntLiteral(1, loc))
	be.Equal(t, floats(col), []float32{0, 5})
	be.Equal(t, col.Type().NominalSize(), 2)
}

// Indexing a constant scalar falls back to a float zero. The fallback is
// reported so that it stays visible.
func TestIndexFallback(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	n := c.AddIndexExpression(c.AddFloatLiteral(1, loc), loc, c.AddIntLiteral(0, loc))

	be.True(t, c.Sink().Contains("left of '[' is not of type array, matrix, or vector"))
	be.True(t, c.Sink().Contains("could not build index expression; substituting 0.0"))
	be.Equal(t, floats(n), []float32{0})
}

func TestUndeclaredIdentifier(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	n := c.AddVariableReference("nope", loc)
	be.Equal(t, c.NumErrors(), 1)
	be.Equal(t, n.Type().Basic, ir.BasicFloat)

	c.AddVariableReference("nope", loc)
	be.Equal(t, c.NumErrors(), 1)
}

func TestIntLiteralOverflow(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	c.AddIntLiteral(MaxIntLiteral-1, loc)
	be.Equal(t, c.NumErrors(), 0)
	c.AddIntLiteral(MaxIntLiteral, loc)
	be.True(t, c.Sink().Contains("integer constant overflow"))
}

func TestArraySizes(t *testing.T) {
	tests := []struct {
		name    string
		size    func(c *Context) ir.Typed
		want    int
		wantErr string
	}{
		{"positive", func(*Context) ir.Typed { return intConstant(3, loc) }, 3, ""},
		{"largest", func(*Context) ir.Typed { return intConstant(MaxArraySize, loc) }, MaxArraySize, ""},
		{"zero", func(*Context) ir.Typed { return intConstant(0, loc) }, 1, "array size must be greater than zero"},
		{"negative", func(*Context) ir.Typed { return intConstant(-1, loc) }, 1, "array size must be non-negative"},
		{"too large", func(*Context) ir.Typed { return intConstant(70000, loc) }, 1, "array size too large"},
		{"float", func(*Context) ir.Typed { return floatConstant(2, loc) }, 1, "array size must be a constant integer expression"},
		{"not constant", func(c *Context) ir.Typed { return declare(c, "n", ir.BasicInt, 1, 1) }, 1, "array size must be a constant integer expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(symbols.VertexShader)
			pt := c.NewBasicType(ir.BasicFloat, loc)
			pt.Precision = ir.PrecisionHigh
			c.ParseSingleArrayDeclaration(&pt, loc, "a", loc, tt.size(c))

			if tt.wantErr == "" {
				be.Equal(t, c.NumErrors(), 0)
			} else {
				be.Equal(t, c.NumErrors(), 1)
				be.True(t, c.Sink().Contains(tt.wantErr))
			}
			sym, _, _ := c.Symbols().Find("a", symbols.Version100)
			v := sym.(*symbols.Variable)
			be.True(t, v.Type.Array)
			be.Equal(t, v.Type.ArraySize, tt.want)
		})
	}
}

func TestConstInitializedFromShadowedConst(t *testing.T) {
	c := newContext(symbols.VertexShader)
	constFloat := func() ir.PublicType {
		pt := c.NewBasicType(ir.BasicFloat, loc)
		pt.Qualifier = ir.QualConst
		pt.Precision = ir.PrecisionHigh
		return pt
	}

	outerType := constFloat()
	c.ParseSingleInitDeclaration(&outerType, loc, "x", loc, c.AddFloatLiteral(3, loc))
	sym, _, _ := c.Symbols().Find("x", symbols.Version100)
	outer := sym.(*symbols.Variable)
	ref := ir.NewSymbol(outer.ID(), outer.Name(), outer.Type, loc)

	// const float x = x; in an inner scope reads the outer x.
	c.Symbols().Push()
	innerType := constFloat()
	c.ParseSingleInitDeclaration(&innerType, loc, "x", loc, ref)

	be.Equal(t, c.NumErrors(), 0)
	sym, _, _ = c.Symbols().Find("x", symbols.Version100)
	inner := sym.(*symbols.Variable)
	be.True(t, inner != outer)
	be.Equal(t, inner.Type.Qualifier, ir.QualConst)
	be.True(t, inner.ConstBuffer().SameStorage(outer.ConstBuffer()))
	be.Equal(t, floats(c.AddVariableReference("x", loc)), []float32{3})
	c.Symbols().Pop()
}
