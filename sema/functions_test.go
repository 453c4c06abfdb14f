package sema

import (
	"testing"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
	"github.com/nalgeon/be"
)

func highp(c *Context, basic ir.BasicType, size int) ir.PublicType {
	pt := c.NewBasicType(basic, loc)
	pt.SetAggregate(size)
	pt.Precision = ir.PrecisionHigh
	return pt
}

// defineFunction parses "float name(float x) { return x; }" or, with
// returns unset, a body without a return statement.
func defineFunction(c *Context, name string, paramQual ir.Qualifier, returns bool) *ir.Aggregate {
	fn := c.ParseFunctionHeader(highp(c, ir.BasicFloat, 1), name, loc)
	p := c.ParseParameterDeclarator(highp(c, ir.BasicFloat, 1), "x", loc)
	c.AddParameter(fn, c.ApplyParameterQualifiers(loc, ir.QualTemporary, paramQual, p), loc, true)
	fn = c.ParseFunctionDeclarator(fn, loc)

	params := c.ParseFunctionDefinitionHeader(fn, loc)
	var stmts []ir.Node
	if returns {
		stmts = append(stmts, c.AddReturn(c.AddVariableReference("x", loc), loc))
	}
	return c.ParseFunctionDefinition(fn, params, c.AddCompoundStatement(stmts, loc), loc)
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	def := defineFunction(c, "f", ir.QualIn, true)
	be.Equal(t, c.NumErrors(), 0)
	be.Equal(t, def.Op, ir.OpFunction)
	be.Equal(t, def.Name, "f(f1;")
	be.Equal(t, ir.AsAggregate(def.Sequence[0]).Op, ir.OpParameters)
	be.True(t, c.Symbols().AtGlobalLevel())

	call := c.AddFunctionCall(c.AddFunctionName(loc, "f"), []ir.Typed{c.AddFloatLiteral(1, loc)}, loc)
	agg := ir.AsAggregate(call)
	be.Equal(t, c.NumErrors(), 0)
	be.Equal(t, agg.Op, ir.OpFunctionCall)
	be.Equal(t, agg.Name, "f(f1;")
	be.True(t, agg.UserDefined)
	be.Equal(t, agg.Type().Basic, ir.BasicFloat)
}

func TestFunctionWithoutReturn(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	defineFunction(c, "f", ir.QualIn, false)
	be.True(t, c.Sink().Contains("function does not return a value:"))
}

func TestFunctionRedefinition(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	defineFunction(c, "f", ir.QualIn, true)
	defineFunction(c, "f", ir.QualIn, true)
	be.True(t, c.Sink().Contains("function already has a body"))
}

func TestConstantPassedAsOut(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	defineFunction(c, "g", ir.QualOut, true)
	be.Equal(t, c.NumErrors(), 0)

	c.AddFunctionCall(c.AddFunctionName(loc, "g"), []ir.Typed{c.AddFloatLiteral(1, loc)}, loc)
	be.True(t, c.Sink().Contains("Constant value cannot be passed for 'out' or 'inout' parameters."))
}

func TestCallUnknownFunction(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	n := c.AddFunctionCall(c.AddFunctionName(loc, "nope"), nil, loc)
	be.True(t, c.Sink().Contains("no matching overloaded function found"))
	be.Equal(t, floats(n), []float32{0})

	declare(c, "v", ir.BasicFloat, 1, 1)
	c.AddFunctionCall(c.AddFunctionName(loc, "v"), nil, loc)
	be.True(t, c.Sink().Contains("function name expected"))
}

func TestBuiltInCalls(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	a := declare(c, "a", ir.BasicFloat, 3, 1)
	b := declare(c, "b", ir.BasicFloat, 3, 1)

	s := c.AddFunctionCall(c.AddFunctionName(loc, "sin"), []ir.Typed{a}, loc)
	u, ok := s.(*ir.Unary)
	be.True(t, ok)
	be.Equal(t, u.Op, ir.OpSin)
	be.Equal(t, u.Type().NominalSize(), 3)
	be.Equal(t, u.Type().Precision, ir.PrecisionHigh)

	d := ir.AsAggregate(c.AddFunctionCall(c.AddFunctionName(loc, "dot"), []ir.Typed{a, b}, loc))
	be.Equal(t, d.Op, ir.OpDot)
	be.True(t, d.Type().IsScalar())

	bad := c.AddFunctionCall(c.AddFunctionName(loc, "cross"), []ir.Typed{a}, loc)
	be.True(t, c.Sink().Contains("no matching overloaded function found"))
	be.Equal(t, floats(bad), []float32{0})
}

func TestMainSignature(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	defineFunction(c, "main", ir.QualIn, true)
	be.True(t, c.Sink().Contains("function cannot take any parameter(s)"))
	be.True(t, c.Sink().Contains("main function cannot return a value"))
}

func TestOverloadReturnType(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	fn := c.ParseFunctionHeader(highp(c, ir.BasicFloat, 1), "h", loc)
	c.ParseFunctionPrototype(c.ParseFunctionDeclarator(fn, loc), loc)

	fn = c.ParseFunctionHeader(highp(c, ir.BasicInt, 1), "h", loc)
	proto := c.ParseFunctionPrototype(c.ParseFunctionDeclarator(fn, loc), loc)
	be.True(t, c.Sink().Contains("overloaded functions must have the same return type"))
	be.Equal(t, proto.Op, ir.OpPrototype)
}

func TestVoidParameters(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	fn := c.ParseFunctionHeader(c.NewBasicType(ir.BasicVoid, loc), "v", loc)
	void := symbols.Param{Type: ir.Scalar(ir.BasicVoid, ir.PrecisionUndefined, ir.QualIn)}
	c.AddParameter(fn, void, loc, true)
	be.Equal(t, fn.ParamCount(), 0)
	be.Equal(t, c.NumErrors(), 0)

	c.AddParameter(fn, void, loc, false)
	be.True(t, c.Sink().Contains("cannot be an argument type except for '(void)'"))
}

func TestBranches(t *testing.T) {
	tests := []struct {
		name    string
		shader  symbols.ShaderType
		op      ir.Operator
		inLoop  bool
		wantErr string
	}{
		{"break in loop", symbols.FragmentShader, ir.OpBreak, true, ""},
		{"break outside loop", symbols.FragmentShader, ir.OpBreak, false, "break statement only allowed in loops"},
		{"continue outside loop", symbols.FragmentShader, ir.OpContinue, false, "continue statement only allowed in loops"},
		{"discard in fragment", symbols.FragmentShader, ir.OpKill, false, ""},
		{"discard in vertex", symbols.VertexShader, ir.OpKill, false, "supported in fragment shaders only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(tt.shader)
			if tt.inLoop {
				c.BeginLoop(ir.LoopWhile)
			}
			n := c.AddBranch(tt.op, loc)
			be.Equal(t, n.(*ir.Branch).Op, tt.op)
			if tt.inLoop {
				c.EndLoop(ir.LoopWhile, nil, c.AddBoolLiteral(true, loc), nil, nil, loc)
				be.Equal(t, c.LoopNestingLevel, 0)
			}
			if tt.wantErr == "" {
				be.Equal(t, c.NumErrors(), 0)
				return
			}
			be.True(t, c.Sink().Contains(tt.wantErr))
		})
	}
}

func TestIfWithConstantCondition(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	x := declare(c, "x", ir.BasicFloat, 1, 1)
	assign := c.AddAssignment(ir.OpAssign, x, c.AddFloatLiteral(1, loc), loc)

	n := c.AddIfStatement(c.AddBoolLiteral(true, loc), assign, nil, loc)
	agg := ir.AsAggregate(n)
	be.Equal(t, agg.Op, ir.OpSequence)
	be.True(t, agg.Sequence[0] == ir.Node(assign))

	be.True(t, c.AddIfStatement(c.AddBoolLiteral(false, loc), assign, nil, loc) == nil)

	c.AddIfStatement(x, assign, nil, loc)
	be.True(t, c.Sink().Contains("boolean expression expected"))
}

func TestStructDeclaration(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	c.EnterStructDeclaration(loc, "S")
	fields := c.AddStructDeclaratorList(highp(c, ir.BasicFloat, 1), []*ir.Field{
		c.ParseStructDeclarator("a", loc),
		c.ParseStructArrayDeclarator("b", loc, loc, c.AddIntLiteral(2, loc)),
	})
	list := c.AppendStructFields(nil, fields)
	list = c.AppendStructFields(list, c.AddStructDeclaratorList(highp(c, ir.BasicFloat, 3), []*ir.Field{
		c.ParseStructDeclarator("a", loc),
	}))
	pt := c.AddStructure(loc, loc, "S", list)

	be.True(t, c.Sink().Contains("duplicate field name in structure:"))
	be.Equal(t, c.StructNestingLevel, 0)
	be.True(t, c.Symbols().IsTypeName("S", symbols.Version100))
	be.Equal(t, pt.UserDef.Struct.Fields[1].Type.ArraySize, 2)
	be.Equal(t, pt.UserDef.ObjectSize(), 1+2+3)
}

func TestEmbeddedStruct(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	be.True(t, !c.EnterStructDeclaration(loc, "A"))
	be.True(t, c.EnterStructDeclaration(loc, "B"))
	be.True(t, c.Sink().Contains("Embedded struct definitions are not allowed"))
}

func TestStructFieldSelection(t *testing.T) {
	c := newContext(symbols.FragmentShader)
	c.EnterStructDeclaration(loc, "S")
	fields := c.AddStructDeclaratorList(highp(c, ir.BasicFloat, 2), []*ir.Field{c.ParseStructDeclarator("p", loc)})
	pt := c.AddStructure(loc, loc, "S", c.AppendStructFields(nil, fields))

	c.ParseSingleDeclaration(&pt, loc, "s")
	s := c.AddVariableReference("s", loc)
	p := c.AddFieldSelectionExpression(s, loc, "p", loc)
	b := p.(*ir.Binary)
	be.Equal(t, b.Op, ir.OpIndexDirectStruct)
	be.Equal(t, b.Type().NominalSize(), 2)

	c.AddFieldSelectionExpression(s, loc, "q", loc)
	be.True(t, c.Sink().Contains("no such field in structure"))
}

func TestInterfaceBlock(t *testing.T) {
	c := newContext(symbols.VertexShader)
	c.HandleVersion(loc, symbols.Version300)

	c.EnterStructDeclaration(loc, "B")
	fields := c.AddStructDeclaratorList(highp(c, ir.BasicFloat, 4), []*ir.Field{c.ParseStructDeclarator("color", loc)})
	q := c.ParseStorageQualifier("uniform", loc)
	q.Layout = c.ParseLayoutQualifier("std140", loc)
	decl := c.AddInterfaceBlock(q, loc, "B", fields, "", loc, nil, loc)

	be.Equal(t, c.NumErrors(), 0)
	be.Equal(t, decl.Op, ir.OpDeclaration)
	color := c.AddVariableReference("color", loc)
	be.Equal(t, color.Type().Qualifier, ir.QualUniform)
	be.Equal(t, color.Type().Layout.MatrixPacking, ir.PackingColumnMajor)
}

func TestInterfaceBlockInstance(t *testing.T) {
	c := newContext(symbols.VertexShader)
	c.HandleVersion(loc, symbols.Version300)

	c.EnterStructDeclaration(loc, "B")
	fields := c.AddStructDeclaratorList(highp(c, ir.BasicFloat, 4), []*ir.Field{c.ParseStructDeclarator("color", loc)})
	c.AddInterfaceBlock(c.ParseStorageQualifier("uniform", loc), loc, "B", fields, "b", loc, nil, loc)

	b := c.AddVariableReference("b", loc)
	f := c.AddFieldSelectionExpression(b, loc, "color", loc)
	be.Equal(t, f.(*ir.Binary).Op, ir.OpIndexDirectInterfaceBlock)
	be.Equal(t, c.NumErrors(), 0)
}

func TestJoinInterpolationQualifiers(t *testing.T) {
	tests := []struct {
		interp  ir.Qualifier
		storage ir.Qualifier
		want    ir.Qualifier
	}{
		{ir.QualSmooth, ir.QualFragmentIn, ir.QualSmoothIn},
		{ir.QualFlat, ir.QualFragmentIn, ir.QualFlatIn},
		{ir.QualFlat, ir.QualCentroidIn, ir.QualFlatIn},
		{ir.QualSmooth, ir.QualVertexOut, ir.QualSmoothOut},
		{ir.QualFlat, ir.QualCentroidOut, ir.QualFlatOut},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			c := newContext(symbols.FragmentShader)
			pt := c.JoinInterpolationQualifiers(loc, tt.interp, loc, tt.storage)
			be.Equal(t, pt.Qualifier, tt.want)
			be.Equal(t, c.NumErrors(), 0)
		})
	}

	c := newContext(symbols.FragmentShader)
	pt := c.JoinInterpolationQualifiers(loc, ir.QualFlat, loc, ir.QualUniform)
	be.Equal(t, pt.Qualifier, ir.QualUniform)
	be.True(t, c.Sink().Contains("interpolation qualifier requires a fragment 'in' or vertex 'out' storage qualifier"))
}

func TestLayoutQualifiers(t *testing.T) {
	c := newContext(symbols.VertexShader)
	joined := JoinLayoutQualifiers(
		c.ParseLayoutQualifier("row_major", loc),
		c.ParseLayoutQualifierValue("location", loc, "2", 2, loc),
	)
	be.Equal(t, joined.MatrixPacking, ir.PackingRowMajor)
	be.Equal(t, joined.Location, 2)
	be.Equal(t, c.NumErrors(), 0)

	c.ParseLayoutQualifier("bogus", loc)
	be.True(t, c.Sink().Contains("invalid layout qualifier"))
	c.ParseLayoutQualifierValue("std140", loc, "1", 1, loc)
	be.True(t, c.Sink().Contains("only location may have arguments"))
}
