package sema

import (
	"github.com/gogpu/essl/constfold"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// AddConstructorFunc returns the callee for a constructor of pt. Its Op
// is the constructor operator; arguments are added as parameters while
// the call is parsed.
func (c *Context) AddConstructorFunc(pt ir.PublicType) *symbols.Function {
	op := ir.OpNull
	if pt.UserDef != nil {
		op = ir.OpConstructStruct
	} else {
		switch pt.Basic {
		case ir.BasicFloat:
			if pt.IsMatrix() {
				switch pt.PrimarySize {
				case 2:
					op = ir.OpConstructMat2
				case 3:
					op = ir.OpConstructMat3
				case 4:
					op = ir.OpConstructMat4
				}
			} else {
				op = vectorConstructor(pt.PrimarySize, ir.OpConstructFloat, ir.OpConstructVec2, ir.OpConstructVec3, ir.OpConstructVec4)
			}
		case ir.BasicInt:
			op = vectorConstructor(pt.PrimarySize, ir.OpConstructInt, ir.OpConstructIVec2, ir.OpConstructIVec3, ir.OpConstructIVec4)
		case ir.BasicUInt:
			op = vectorConstructor(pt.PrimarySize, ir.OpConstructUInt, ir.OpConstructUVec2, ir.OpConstructUVec3, ir.OpConstructUVec4)
		case ir.BasicBool:
			op = vectorConstructor(pt.PrimarySize, ir.OpConstructBool, ir.OpConstructBVec2, ir.OpConstructBVec3, ir.OpConstructBVec4)
		}
	}

	if op == ir.OpNull {
		c.Error(pt.Loc, "cannot construct this type", pt.Basic.String())
		pt.Basic = ir.BasicFloat
		pt.PrimarySize, pt.SecondarySize = 1, 1
		op = ir.OpConstructFloat
	}

	t := pt.Type()
	if pt.UserDef != nil {
		t = *pt.UserDef
		t.Array, t.ArraySize = pt.Array, pt.ArraySize
	}
	t.Qualifier = ir.QualTemporary
	return symbols.NewFunction("", t, op)
}

func vectorConstructor(size int, ops ...ir.Operator) ir.Operator {
	if size < 1 || size > len(ops) {
		return ir.OpNull
	}
	return ops[size-1]
}

// ConstructorErrorCheck validates the arguments of a constructor call and
// returns the constructed type, const-qualified when every argument is
// constant.
func (c *Context) ConstructorErrorCheck(loc ir.Loc, args []ir.Typed, fn *symbols.Function, op ir.Operator) (ir.Type, bool) {
	t := fn.Return
	constructingMatrix := op == ir.OpConstructMat2 || op == ir.OpConstructMat3 || op == ir.OpConstructMat4

	// Enough components may be left over from the last argument, but an
	// argument that contributes none is an error.
	size := 0
	constType := true
	full, overFull := false, false
	matrixInMatrix, arrayArg := false, false
	for _, p := range fn.Params {
		size += p.Type.ObjectSize()
		if constructingMatrix && p.Type.IsMatrix() {
			matrixInMatrix = true
		}
		if full {
			overFull = true
		}
		if op != ir.OpConstructStruct && !t.Array && size >= t.ObjectSize() {
			full = true
		}
		if p.Type.Qualifier != ir.QualConst {
			constType = false
		}
		if p.Type.Array {
			arrayArg = true
		}
	}
	if constType {
		t.Qualifier = ir.QualConst
	}

	fail := func(reason string) (ir.Type, bool) {
		c.Error(loc, reason, "constructor")
		return t, true
	}

	n := fn.ParamCount()
	switch {
	case t.Array && t.ArraySize != n:
		return fail("array constructor needs one argument per array element")
	case arrayArg && op != ir.OpConstructStruct:
		return fail("constructing from a non-dereferenced array")
	case matrixInMatrix && !t.Array && n != 1:
		return fail("constructing matrix from matrix can only take one argument")
	case overFull:
		return fail("too many arguments")
	case op == ir.OpConstructStruct && !t.Array && t.Struct != nil && len(t.Struct.Fields) != n:
		return fail("Number of constructor parameters does not match the number of structure fields")
	}

	if !t.IsMatrix() || !matrixInMatrix {
		if (op != ir.OpConstructStruct && size != 1 && size < t.ObjectSize()) ||
			(op == ir.OpConstructStruct && size < t.ObjectSize()) {
			return fail("not enough data provided for construction")
		}
	}

	if len(args) == 0 {
		return fail("constructor argument does not have a type")
	}
	for _, a := range args {
		if op != ir.OpConstructStruct && a.Type().Basic.IsSampler() {
			return fail("cannot convert a sampler")
		}
		if a.Type().Basic == ir.BasicVoid {
			return fail("cannot convert a void")
		}
	}
	return t, false
}

// AddConstructor builds the constructor node, folded to a constant when
// every argument is constant. It returns nil when the arguments of a
// struct constructor do not match its fields.
func (c *Context) AddConstructor(args []ir.Typed, t ir.Type, op ir.Operator, loc ir.Loc) ir.Typed {
	if op == ir.OpConstructStruct && t.Struct != nil {
		fields := t.Struct.Fields
		for i, a := range args {
			if i >= len(fields) || !fields[i].Type.Equal(a.Type()) {
				c.Error(loc, "Structure constructor arguments do not match structure fields", "Error")
				return nil
			}
		}
	}

	seq := make([]ir.Node, len(args))
	for i, a := range args {
		seq[i] = a
	}
	agg := ir.NewAggregate(op, loc, seq...)
	if folded := c.FoldConstConstructor(agg, t); folded != nil {
		return folded
	}
	return agg
}

// AreAllChildConst reports whether agg is a constructor whose arguments
// are all constant nodes.
func AreAllChildConst(agg *ir.Aggregate) bool {
	if !agg.IsConstructor() {
		return false
	}
	for _, n := range agg.Sequence {
		if ir.AsConstant(n) == nil {
			return false
		}
	}
	return true
}

// FoldConstConstructor sets the type of agg and, when all of its
// arguments are constant, returns the folded value.
func (c *Context) FoldConstConstructor(agg *ir.Aggregate, t ir.Type) *ir.ConstantUnion {
	foldable := AreAllChildConst(agg)
	agg.SetType(t)
	if !foldable {
		return nil
	}
	buf, ok := constfold.ParseConstTree(c.sink, agg.Pos(), agg, agg.Op, t, len(agg.Sequence) == 1)
	if !ok {
		return nil
	}
	return ir.NewConstantUnion(buf, t, agg.Pos())
}
