package sema

import (
	"fmt"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// MaxWebGLStructNesting bounds struct nesting in WebGL shaders.
const MaxWebGLStructNesting = 4

// EnterStructDeclaration opens a struct or interface block body. Struct
// definitions may not nest.
func (c *Context) EnterStructDeclaration(loc ir.Loc, ident string) bool {
	c.StructNestingLevel++
	if c.StructNestingLevel > 1 {
		c.Error(loc, "", "Embedded struct definitions are not allowed")
		return true
	}
	return false
}

func (c *Context) exitStructDeclaration() {
	c.StructNestingLevel--
}

// StructNestingErrorCheck enforces the WebGL limit on how deeply struct
// types may reference each other.
func (c *Context) StructNestingErrorCheck(loc ir.Loc, f *ir.Field) bool {
	if !c.cfg.Spec.IsWebGLBased() || f.Type.Basic != ir.BasicStruct || f.Type.Struct == nil {
		return false
	}
	if 1+f.Type.DeepestStructNesting() > MaxWebGLStructNesting {
		reason := fmt.Sprintf("Reference of struct type %s exceeds maximum allowed nesting level of %d",
			f.Type.Struct.Name, MaxWebGLStructNesting)
		c.Error(loc, reason, f.Name)
		return true
	}
	return false
}

// ParseStructDeclarator starts a field named ident; its type is filled in
// by AddStructDeclaratorList.
func (c *Context) ParseStructDeclarator(ident string, loc ir.Loc) *ir.Field {
	c.ReservedErrorCheck(loc, ident)
	t := ir.Scalar(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary)
	return &ir.Field{Name: ident, Type: &t, Loc: loc}
}

// ParseStructArrayDeclarator starts an array field "ident[size]".
func (c *Context) ParseStructArrayDeclarator(ident string, loc ir.Loc, sizeLoc ir.Loc, size ir.Typed) *ir.Field {
	f := c.ParseStructDeclarator(ident, loc)
	n, _ := c.ArraySizeErrorCheck(sizeLoc, size)
	f.Type.SetArraySize(n)
	return f
}

// AddStructDeclaratorList gives the declarators of one member declaration
// the type spec.
func (c *Context) AddStructDeclaratorList(spec ir.PublicType, fields []*ir.Field) []*ir.Field {
	if len(fields) > 0 {
		c.VoidErrorCheck(spec.Loc, fields[0].Name, &spec)
	}
	for _, f := range fields {
		t := f.Type
		t.Basic = spec.Basic
		t.PrimarySize = spec.PrimarySize
		t.SecondarySize = spec.SecondarySize
		t.Precision = spec.Precision
		t.Qualifier = spec.Qualifier
		t.Layout = spec.Layout

		if t.Array {
			c.ArrayTypeErrorCheck(spec.Loc, &spec)
		}
		if spec.Array {
			t.SetArraySize(spec.ArraySize)
		}
		if spec.UserDef != nil {
			t.Struct = spec.UserDef.Struct
		}
		c.StructNestingErrorCheck(spec.Loc, f)
	}
	return fields
}

// AppendStructFields adds the fields of one member declaration to the
// member list, reporting duplicate names.
func (c *Context) AppendStructFields(list, fields []*ir.Field) []*ir.Field {
	for _, f := range fields {
		for _, prev := range list {
			if prev.Name == f.Name {
				c.Error(f.Loc, "duplicate field name in structure:", "struct", f.Name)
			}
		}
		list = append(list, f)
	}
	return list
}

// AddStructure finishes a struct specifier and declares its name as a
// type.
func (c *Context) AddStructure(structLoc, nameLoc ir.Loc, name string, fields []*ir.Field) ir.PublicType {
	s := ir.NewStructure(name, fields, symbols.NextUniqueID())
	st := ir.StructType(s)

	if name != "" {
		c.ReservedErrorCheck(nameLoc, name)
		if !c.table.Declare(symbols.NewUserType(name, st)) {
			c.Error(nameLoc, "redefinition", name, "struct")
		}
	}

	for _, f := range fields {
		switch f.Type.Qualifier {
		case ir.QualGlobal, ir.QualTemporary:
		default:
			c.Error(f.Loc, "invalid qualifier on struct member", f.Type.Qualifier.String())
		}
	}

	var pt ir.PublicType
	pt.SetBasic(ir.BasicStruct, ir.QualTemporary, structLoc)
	pt.UserDef = &st
	c.exitStructDeclaration()
	return pt
}

// AddInterfaceBlock declares a uniform block. Without an instance name
// its members become globals; with one, a single variable of the block
// type is declared. arraySize may be nil.
func (c *Context) AddInterfaceBlock(qualifier ir.PublicType, nameLoc ir.Loc, blockName string, fields []*ir.Field,
	instanceName string, instanceLoc ir.Loc, arraySize ir.Typed, arrayLoc ir.Loc) *ir.Aggregate {
	c.ReservedErrorCheck(nameLoc, blockName)

	if qualifier.Qualifier != ir.QualUniform {
		c.Error(qualifier.Loc, "invalid qualifier:", qualifier.Qualifier.String(), "interface blocks must be uniform")
	}

	layout := qualifier.Layout
	c.LayoutLocationErrorCheck(qualifier.Loc, layout)
	if layout.MatrixPacking == ir.PackingUnspecified {
		layout.MatrixPacking = c.defaultMatrixPacking
	}
	if layout.BlockStorage == ir.StorageUnspecified {
		layout.BlockStorage = c.defaultBlockStorage
	}

	if !c.table.Declare(symbols.NewInterfaceBlockName(blockName)) {
		c.Error(nameLoc, "redefinition", blockName, "interface block name")
	}

	for _, f := range fields {
		t := f.Type
		if t.Basic.IsSampler() {
			c.Error(f.Loc, "unsupported type", t.Basic.String(), "sampler types are not allowed in interface blocks")
		}
		switch t.Qualifier {
		case ir.QualGlobal, ir.QualUniform:
		default:
			c.Error(f.Loc, "invalid qualifier on interface block member", t.Qualifier.String())
		}

		fl := t.Layout
		c.LayoutLocationErrorCheck(f.Loc, fl)
		if fl.BlockStorage != ir.StorageUnspecified {
			c.Error(f.Loc, "invalid layout qualifier:", fl.BlockStorage.String(), "cannot be used here")
		}
		if fl.MatrixPacking == ir.PackingUnspecified {
			fl.MatrixPacking = layout.MatrixPacking
		} else if !t.IsMatrix() {
			c.Error(f.Loc, "invalid layout qualifier:", fl.MatrixPacking.String(), "can only be used on matrix types")
		}
		t.Layout = fl
	}

	size := 0
	if !ir.IsNil(arraySize) {
		size, _ = c.ArraySizeErrorCheck(arrayLoc, arraySize)
	}

	block := &ir.InterfaceBlock{
		Name:         blockName,
		InstanceName: instanceName,
		Fields:       fields,
		ArraySize:    size,
		Layout:       layout,
	}
	blockType := ir.BlockType(block, qualifier.Qualifier, layout, size)

	symbolName, symbolID := "", 0
	if instanceName == "" {
		for _, f := range fields {
			ft := *f.Type
			ft.Qualifier = qualifier.Qualifier
			if !c.table.Declare(symbols.NewVariable(f.Name, ft)) {
				c.Error(f.Loc, "redefinition", f.Name, "interface block member name")
			}
		}
	} else {
		v := symbols.NewVariable(instanceName, blockType)
		if !c.table.Declare(v) {
			c.Error(instanceLoc, "redefinition", instanceName, "interface block instance name")
		}
		symbolName, symbolID = v.Name(), v.ID()
	}

	agg := makeAggregate(c.addSymbol(symbolID, symbolName, blockType, qualifier.Loc), nameLoc)
	agg.Op = ir.OpDeclaration
	c.exitStructDeclaration()
	return agg
}

// ParseLayoutQualifier parses an argument-less layout qualifier id.
func (c *Context) ParseLayoutQualifier(id string, loc ir.Loc) ir.LayoutQualifier {
	q := ir.NoLayout()
	switch id {
	case "shared":
		q.BlockStorage = ir.StorageShared
	case "packed":
		q.BlockStorage = ir.StoragePacked
	case "std140":
		q.BlockStorage = ir.StorageStd140
	case "row_major":
		q.MatrixPacking = ir.PackingRowMajor
	case "column_major":
		q.MatrixPacking = ir.PackingColumnMajor
	case "location":
		c.Error(loc, "invalid layout qualifier", id, "location requires an argument")
	default:
		c.Error(loc, "invalid layout qualifier", id)
	}
	return q
}

// ParseLayoutQualifierValue parses "id = value"; only location takes a
// value.
func (c *Context) ParseLayoutQualifierValue(id string, loc ir.Loc, valueText string, value int, valueLoc ir.Loc) ir.LayoutQualifier {
	q := ir.NoLayout()
	switch {
	case id != "location":
		c.Error(loc, "invalid layout qualifier", id, "only location may have arguments")
	case value < 0:
		c.Error(valueLoc, "out of range:", valueText, "location must be non-negative")
	default:
		q.Location = value
	}
	return q
}

// JoinLayoutQualifiers merges two qualifiers of one layout(...) list;
// settings in right win.
func JoinLayoutQualifiers(left, right ir.LayoutQualifier) ir.LayoutQualifier {
	joined := left
	if right.Location != -1 {
		joined.Location = right.Location
	}
	if right.MatrixPacking != ir.PackingUnspecified {
		joined.MatrixPacking = right.MatrixPacking
	}
	if right.BlockStorage != ir.StorageUnspecified {
		joined.BlockStorage = right.BlockStorage
	}
	return joined
}

// JoinInterpolationQualifiers merges smooth or flat with a storage
// qualifier.
func (c *Context) JoinInterpolationQualifiers(interpLoc ir.Loc, interp ir.Qualifier, storageLoc ir.Loc, storage ir.Qualifier) ir.PublicType {
	flat := interp == ir.QualFlat
	var merged ir.Qualifier
	switch storage {
	case ir.QualFragmentIn:
		merged = ir.QualSmoothIn
		if flat {
			merged = ir.QualFlatIn
		}
	case ir.QualCentroidIn:
		merged = ir.QualCentroidIn
		if flat {
			merged = ir.QualFlatIn
		}
	case ir.QualVertexOut:
		merged = ir.QualSmoothOut
		if flat {
			merged = ir.QualFlatOut
		}
	case ir.QualCentroidOut:
		merged = ir.QualCentroidOut
		if flat {
			merged = ir.QualFlatOut
		}
	default:
		c.Error(interpLoc, "interpolation qualifier requires a fragment 'in' or vertex 'out' storage qualifier", interp.String())
		merged = storage
	}

	var pt ir.PublicType
	pt.SetBasic(ir.BasicVoid, merged, storageLoc)
	return pt
}
