package sema

import (
	"fmt"

	"github.com/gogpu/essl/ir"
)

// ExtDrawBuffers enables indexing gl_FragData past element zero.
const ExtDrawBuffers = "GL_EXT_draw_buffers"

func clampedIndex(c *Context, loc ir.Loc, index, size int, what string) int {
	if index < size {
		return index
	}
	c.Error(loc, "", "[", fmt.Sprintf("%s out of range '%d'", what, index))
	return max(size-1, 0)
}

// addConstVectorNode picks the given components out of a constant vector.
func (c *Context) addConstVectorNode(offsets []int, node ir.Typed, loc ir.Loc) *ir.ConstantUnion {
	k := ir.AsConstant(node)
	if k == nil {
		c.Error(loc, "Cannot offset into the vector", "Error")
		return nil
	}
	size := node.Type().NominalSize()
	out := make([]ir.Constant, len(offsets))
	for i, off := range offsets {
		off = clampedIndex(c, loc, off, size, "vector field selection")
		out[i] = k.Values.At(off)
	}
	return ir.NewConstantUnion(ir.NewConstantBuffer(out), *node.Type(), loc)
}

// addConstMatrixNode returns column index of a constant matrix.
func (c *Context) addConstMatrixNode(index int, node ir.Typed, loc ir.Loc) *ir.ConstantUnion {
	k := ir.AsConstant(node)
	if k == nil {
		c.Error(loc, "Cannot offset into the matrix", "Error")
		return nil
	}
	t := node.Type()
	index = clampedIndex(c, loc, index, t.Cols(), "matrix field selection")
	rows := t.Rows()
	return ir.NewConstantUnion(k.Values.Slice(rows*index, rows), *t, loc)
}

// addConstArrayNode returns element index of a constant array.
func (c *Context) addConstArrayNode(index int, node ir.Typed, loc ir.Loc) *ir.ConstantUnion {
	k := ir.AsConstant(node)
	if k == nil {
		c.Error(loc, "Cannot offset into the array", "Error")
		return nil
	}
	t := *node.Type()
	index = clampedIndex(c, loc, index, t.ArraySize, "array field selection")
	t.ClearArrayness()
	size := t.ObjectSize()
	return ir.NewConstantUnion(k.Values.Slice(size*index, size), t, loc)
}

// addConstStruct returns the named field of a constant struct.
func (c *Context) addConstStruct(field string, node ir.Typed, loc ir.Loc) *ir.ConstantUnion {
	k := ir.AsConstant(node)
	if k == nil {
		c.Error(loc, "Cannot offset into the structure", "Error")
		return nil
	}
	offset := 0
	var ft *ir.Type
	for _, f := range node.Type().Struct.Fields {
		if f.Name == field {
			ft = f.Type
			break
		}
		offset += f.Type.ObjectSize()
	}
	if ft == nil {
		return nil
	}
	t := *ft
	t.Qualifier = ir.QualConst
	return ir.NewConstantUnion(k.Values.Slice(offset, ft.ObjectSize()), t, loc)
}

// AddIndexExpression builds base[index]. Constant indices are range
// checked and clamped; constant bases fold to the selected value.
func (c *Context) AddIndexExpression(base ir.Typed, loc ir.Loc, index ir.Typed) ir.Typed {
	bt := base.Type()
	if !bt.Array && !bt.IsMatrix() && !bt.IsVector() {
		name := "expression"
		if sym := ir.AsSymbol(base); sym != nil {
			name = sym.Name
		}
		c.Error(loc, " left of '[' is not of type array, matrix, or vector ", name)
	}

	var result ir.Typed
	if k := ir.AsConstant(index); k != nil && index.Type().Qualifier == ir.QualConst {
		i := k.IConst(0)
		if i < 0 {
			c.Error(loc, "negative index", fmt.Sprint(i))
			i = 0
		}

		if ir.AsConstant(base) != nil && bt.Qualifier == ir.QualConst {
			switch {
			case bt.Array:
				result = c.addConstArrayNode(i, base, loc)
			case bt.IsVector():
				result = c.addConstVectorNode([]int{i}, base, loc)
			case bt.IsMatrix():
				result = c.addConstMatrixNode(i, base, loc)
			}
		} else {
			switch {
			case bt.Array:
				if bt.ArraySize > 0 && i >= bt.ArraySize {
					c.Error(loc, "", "[", fmt.Sprintf("array index out of range '%d'", i))
					i = bt.ArraySize - 1
				} else if bt.Qualifier == ir.QualFragData && i > 0 && !c.IsExtensionEnabled(ExtDrawBuffers) {
					c.Error(loc, "", "[", "array indexes for gl_FragData must be zero when GL_EXT_draw_buffers is disabled")
					i = 0
				}
			case (bt.IsVector() || bt.IsMatrix()) && bt.NominalSize() <= i:
				c.Error(loc, "", "[", fmt.Sprintf("field selection out of range '%d'", i))
				i = bt.NominalSize() - 1
			}
			result = c.addIndex(ir.OpIndexDirect, base, intConstant(i, index.Pos()), loc)
		}
	} else {
		switch {
		case bt.IsInterfaceBlock():
			c.Error(loc, "", "[", "array indexes for interface blocks arrays must be constant integral expressions")
		case bt.Qualifier == ir.QualFragmentOut:
			c.Error(loc, "", "[", "array indexes for fragment outputs must be constant integral expressions")
		}
		result = c.addIndex(ir.OpIndexIndirect, base, index, loc)
	}

	if ir.IsNil(result) {
		// a constant base that is not an array, matrix or vector
		c.Error(loc, "", "[", "could not build index expression; substituting 0.0")
		return floatConstant(0, loc)
	}

	qual := ir.QualTemporary
	if bt.Qualifier == ir.QualConst {
		qual = ir.QualConst
	}
	var t ir.Type
	switch {
	case bt.Array:
		t = *bt
		t.ClearArrayness()
		if t.Struct == nil && t.Block == nil {
			t.Layout = ir.NoLayout()
		}
		t.Qualifier = qual
	case bt.IsMatrix():
		t = ir.Vector(bt.Basic, bt.Precision, qual, bt.Rows())
	case bt.IsVector():
		t = ir.Scalar(bt.Basic, bt.Precision, qual)
	default:
		t = *bt
	}
	result.SetType(t)
	return result
}

// AddFieldSelectionExpression builds base.field for swizzles, matrix
// selectors, struct fields and interface block fields.
func (c *Context) AddFieldSelectionExpression(base ir.Typed, dotLoc ir.Loc, field string, fieldLoc ir.Loc) ir.Typed {
	bt := base.Type()
	if bt.Array {
		c.Error(fieldLoc, "cannot apply dot operator to an array", ".")
	}

	switch {
	case bt.IsVector():
		fields, ok := c.ParseVectorFields(field, bt.NominalSize(), fieldLoc)
		if !ok {
			fields = VectorFields{Num: 1}
		}
		if ir.AsConstant(base) != nil && bt.Qualifier == ir.QualConst {
			k := c.addConstVectorNode(fields.Slice(), base, fieldLoc)
			if k == nil {
				return base
			}
			k.SetType(ir.Vector(bt.Basic, bt.Precision, ir.QualConst, fields.Num))
			return k
		}
		swizzle := c.addSwizzle(fields.Slice(), fieldLoc)
		n := ir.NewBinary(ir.OpVectorSwizzle, base, swizzle, dotLoc)
		n.SetType(ir.Vector(bt.Basic, bt.Precision, ir.QualTemporary, fields.Num))
		return n

	case bt.IsMatrix():
		fields, ok := c.ParseMatrixFields(field, bt.Cols(), bt.Rows(), fieldLoc)
		if !ok {
			fields = MatrixFields{Row: 0, Col: 0}
		}
		if fields.WholeRow || fields.WholeCol {
			c.Error(dotLoc, " non-scalar fields not implemented yet", ".")
			n := c.addIndex(ir.OpIndexDirect, base, intConstant(0, fieldLoc), dotLoc)
			n.SetType(ir.NewType(bt.Basic, bt.Precision, ir.QualTemporary, bt.Cols(), bt.Rows()))
			return n
		}
		n := c.addIndex(ir.OpIndexDirect, base, intConstant(fields.Col*bt.Rows()+fields.Row, fieldLoc), dotLoc)
		n.SetType(ir.Scalar(bt.Basic, bt.Precision, ir.QualTemporary))
		return n

	case bt.Basic == ir.BasicStruct && bt.Struct != nil:
		fields := bt.Struct.Fields
		if len(fields) == 0 {
			c.Error(dotLoc, "structure has no fields", "Internal Error")
			return base
		}
		i := bt.Struct.Field(field)
		if i < 0 {
			c.Error(dotLoc, " no such field in structure", field)
			return base
		}
		if ir.AsConstant(base) != nil && bt.Qualifier == ir.QualConst {
			if k := c.addConstStruct(field, base, dotLoc); k != nil {
				return k
			}
			return base
		}
		n := c.addIndex(ir.OpIndexDirectStruct, base, intConstant(i, fieldLoc), dotLoc)
		n.SetType(*fields[i].Type)
		return n

	case bt.IsInterfaceBlock() && bt.Block != nil:
		fields := bt.Block.Fields
		if len(fields) == 0 {
			c.Error(dotLoc, "interface block has no fields", "Internal Error")
			return base
		}
		i := bt.Block.Field(field)
		if i < 0 {
			c.Error(dotLoc, " no such field in interface block", field)
			return base
		}
		n := c.addIndex(ir.OpIndexDirectInterfaceBlock, base, intConstant(i, fieldLoc), dotLoc)
		n.SetType(*fields[i].Type)
		return n
	}

	if c.shaderVersion < 300 {
		c.Error(dotLoc, " field selection requires structure, vector, or matrix on left hand side", field)
	} else {
		c.Error(dotLoc, " field selection requires structure, vector, matrix, or interface block on left hand side", field)
	}
	return base
}
