package sema

import (
	"fmt"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// ExecuteInitializer declares ident and binds init to it. A const target
// takes init's value, shared rather than copied, and yields no node; any
// other target yields an initialization node. On error the variable is
// still declared, demoted to a temporary when it was const.
func (c *Context) ExecuteInitializer(loc ir.Loc, ident string, pt *ir.PublicType, init ir.Typed) (ir.Node, bool) {
	t := pt.Type()

	if c.ReservedErrorCheck(loc, ident) {
		return nil, true
	}
	if c.VoidErrorCheck(loc, ident, pt) {
		return nil, true
	}
	// Resolved before ident is declared, which would shadow it.
	initVar := c.constVariable(init)

	v := symbols.NewVariable(ident, t)
	if !c.table.Declare(v) {
		c.Error(loc, "redefinition", ident)
		return nil, true
	}

	qual := v.Type.Qualifier
	if qual != ir.QualTemporary && qual != ir.QualGlobal && qual != ir.QualConst {
		c.Error(loc, " cannot initialize this type of qualifier ", qual.String())
		return nil, true
	}

	if qual == ir.QualConst {
		it := init.Type()
		if it.Qualifier != ir.QualConst {
			c.Error(loc, " assigning non-constant to", "=", fmt.Sprintf("'%s'", v.Type.CompleteString()))
			v.DemoteConst()
			return nil, true
		}
		if !t.Equal(it) {
			c.Error(loc, " non-matching types for const initializer ", qual.String())
			v.DemoteConst()
			return nil, true
		}
		if k := ir.AsConstant(init); k != nil {
			v.ShareConstBuffer(k.Values)
			return nil, false
		}
		if initVar != nil && !initVar.ConstBuffer().IsNil() {
			v.ShareConstBuffer(initVar.ConstBuffer())
			return nil, false
		}
		c.Error(loc, " cannot assign to", "=", fmt.Sprintf("'%s'", v.Type.CompleteString()))
		v.DemoteConst()
		return nil, true
	}

	sym := c.addSymbol(v.ID(), v.Name(), v.Type, loc)
	node := c.addAssign(ir.OpInitialize, sym, init, loc)
	if node == nil {
		c.assignError(loc, "=", sym.Type().CompleteString(), init.Type().CompleteString())
		return nil, true
	}
	return node, false
}

// constVariable returns the variable a symbol node refers to, matched by
// ID, or nil when init is not a symbol.
func (c *Context) constVariable(init ir.Typed) *symbols.Variable {
	sym := ir.AsSymbol(init)
	if sym == nil {
		return nil
	}
	src, _, _ := c.table.Find(sym.Name, c.shaderVersion)
	v, ok := src.(*symbols.Variable)
	if !ok || v.ID() != sym.ID {
		return nil
	}
	return v
}

// AddFullySpecifiedType combines storage and layout qualifiers with a type
// specifier.
func (c *Context) AddFullySpecifiedType(qual ir.Qualifier, layout ir.LayoutQualifier, spec ir.PublicType) ir.PublicType {
	pt := spec
	pt.Qualifier = qual
	pt.Layout = layout

	if spec.Array {
		c.Error(spec.Loc, "not supported", "first-class array")
		pt.SetArray(false, 0)
	}

	if c.shaderVersion < symbols.Version300 {
		switch qual {
		case ir.QualAttribute, ir.QualVaryingIn, ir.QualVaryingOut, ir.QualInvariantVaryingIn, ir.QualInvariantVaryingOut:
			if spec.Basic == ir.BasicBool || spec.Basic == ir.BasicInt {
				c.Error(spec.Loc, "cannot be bool or int", qual.String())
			}
		}
		return pt
	}

	switch qual {
	case ir.QualSmoothIn, ir.QualSmoothOut, ir.QualVertexOut, ir.QualFragmentIn, ir.QualCentroidOut, ir.QualCentroidIn:
		if spec.Basic == ir.BasicBool {
			c.Error(spec.Loc, "cannot be bool", qual.String())
		}
		if spec.Basic == ir.BasicInt || spec.Basic == ir.BasicUInt {
			c.Error(spec.Loc, "must use 'flat' interpolation here", qual.String())
		}
	case ir.QualVertexIn, ir.QualFragmentOut, ir.QualFlatIn, ir.QualFlatOut:
		if spec.Basic == ir.BasicBool {
			c.Error(spec.Loc, "cannot be bool", qual.String())
		}
	}
	return pt
}

// ParseSingleDeclaration handles "type name;" and the bare "type;" form.
func (c *Context) ParseSingleDeclaration(pt *ir.PublicType, loc ir.Loc, ident string) *ir.Aggregate {
	sym := c.addSymbol(0, ident, pt.Type(), loc)
	agg := makeAggregate(sym, loc)
	if ident == "" {
		return agg
	}

	c.SingleDeclarationErrorCheck(pt, loc, ident)
	c.NonInitConstErrorCheck(loc, ident, pt, false)
	if v, _ := c.NonInitErrorCheck(loc, ident, pt); v != nil {
		sym.ID = v.ID()
		sym.SetType(v.Type)
	}
	return agg
}

// ParseSingleArrayDeclaration handles "type name[size];".
func (c *Context) ParseSingleArrayDeclaration(pt *ir.PublicType, loc ir.Loc, ident string, indexLoc ir.Loc, size ir.Typed) *ir.Aggregate {
	c.SingleDeclarationErrorCheck(pt, loc, ident)
	c.NonInitConstErrorCheck(loc, ident, pt, true)
	if !c.ArrayTypeErrorCheck(indexLoc, pt) {
		c.ArrayQualifierErrorCheck(indexLoc, pt)
	}

	arrayType := *pt
	n, _ := c.ArraySizeErrorCheck(loc, size)
	arrayType.SetArray(true, n)

	sym := c.addSymbol(0, ident, arrayType.Type(), loc)
	agg := makeAggregate(sym, loc)
	if v, _ := c.ArrayErrorCheck(loc, ident, &arrayType); v != nil {
		sym.ID = v.ID()
		sym.SetType(v.Type)
	}
	return agg
}

// ParseSingleInitDeclaration handles "type name = init;". The result is
// nil for const declarations and on error.
func (c *Context) ParseSingleInitDeclaration(pt *ir.PublicType, loc ir.Loc, ident string, initLoc ir.Loc, init ir.Typed) *ir.Aggregate {
	c.SingleDeclarationErrorCheck(pt, loc, ident)
	node, failed := c.ExecuteInitializer(loc, ident, pt, init)
	if failed || ir.IsNil(node) {
		return nil
	}
	return makeAggregate(node, initLoc)
}

// ParseInvariantDeclaration handles "invariant name;" for an already
// declared output.
func (c *Context) ParseInvariantDeclaration(invariantLoc, loc ir.Loc, ident string) *ir.Aggregate {
	if c.cfg.ShaderType != symbols.VertexShader {
		c.Error(invariantLoc, " supported in vertex shaders only ", "invariant declaration")
	}
	c.GlobalErrorCheck(invariantLoc, c.table.AtGlobalLevel(), "invariant varying")

	sym, _, _ := c.table.Find(ident, c.shaderVersion)
	if sym == nil {
		c.Error(loc, "undeclared identifier declared as invariant", ident)
		return nil
	}
	if ident == "gl_FrontFacing" {
		c.Error(loc, "identifier should not be declared as invariant", ident)
		return nil
	}
	c.table.AddInvariantVarying(ident)
	v := c.GetNamedVariable(loc, ident, sym)
	node := c.addSymbol(v.ID(), ident, v.Type, loc)
	agg := makeAggregate(node, loc)
	agg.Op = ir.OpInvariantDeclaration
	return agg
}

// ParseDeclarator appends ", name" to a declaration.
func (c *Context) ParseDeclarator(pt *ir.PublicType, list *ir.Aggregate, loc ir.Loc, ident string) *ir.Aggregate {
	sym := c.addSymbol(0, ident, pt.Type(), loc)
	agg := growAggregate(list, sym, loc)

	c.StructQualifierErrorCheck(loc, pt)
	c.LocationDeclaratorListCheck(loc, pt)
	c.NonInitConstErrorCheck(loc, ident, pt, false)
	if v, _ := c.NonInitErrorCheck(loc, ident, pt); v != nil {
		sym.ID = v.ID()
		sym.SetType(v.Type)
	}
	return agg
}

// ParseArrayDeclarator appends ", name[size]" or ", name[]" to a
// declaration. An unsized declarator declares the variable but adds no
// node.
func (c *Context) ParseArrayDeclarator(pt *ir.PublicType, loc ir.Loc, ident string, arrayLoc ir.Loc, list *ir.Aggregate, size ir.Typed) *ir.Aggregate {
	c.StructQualifierErrorCheck(loc, pt)
	c.LocationDeclaratorListCheck(loc, pt)
	c.NonInitConstErrorCheck(loc, ident, pt, true)

	if c.ArrayTypeErrorCheck(arrayLoc, pt) || c.ArrayQualifierErrorCheck(arrayLoc, pt) {
		return list
	}

	arrayType := *pt
	if ir.IsNil(size) {
		arrayType.SetArray(true, 0)
		c.ArrayErrorCheck(arrayLoc, ident, &arrayType)
		return list
	}

	n, _ := c.ArraySizeErrorCheck(arrayLoc, size)
	arrayType.SetArray(true, n)
	v, _ := c.ArrayErrorCheck(arrayLoc, ident, &arrayType)
	id := 0
	if v != nil {
		id = v.ID()
	}
	t := arrayType.Type()
	t.SetArraySize(n)
	return growAggregate(list, c.addSymbol(id, ident, t, loc), loc)
}

// ParseInitDeclarator appends ", name = init" to a declaration. On error
// the list is returned unchanged.
func (c *Context) ParseInitDeclarator(pt *ir.PublicType, list *ir.Aggregate, loc ir.Loc, ident string, initLoc ir.Loc, init ir.Typed) *ir.Aggregate {
	c.StructQualifierErrorCheck(loc, pt)
	c.LocationDeclaratorListCheck(loc, pt)

	node, failed := c.ExecuteInitializer(loc, ident, pt, init)
	if failed || ir.IsNil(node) {
		return list
	}
	return growAggregate(list, node, initLoc)
}

// ParseDeclarationStatement turns a declarator list into a declaration
// node.
func (c *Context) ParseDeclarationStatement(list *ir.Aggregate, loc ir.Loc) *ir.Aggregate {
	if list != nil && list.Op == ir.OpInvariantDeclaration {
		return list
	}
	return setAggregateOperator(list, ir.OpDeclaration, loc)
}

// ParseGlobalLayoutQualifier handles "layout(...) uniform;", which sets
// the defaults for later interface blocks.
func (c *Context) ParseGlobalLayoutQualifier(pt ir.PublicType) {
	if pt.Qualifier != ir.QualUniform {
		c.Error(pt.Loc, "invalid qualifier:", pt.Qualifier.String(), "global layout must be uniform")
		return
	}
	if c.shaderVersion < symbols.Version300 {
		c.Error(pt.Loc, "layout qualifiers supported in GLSL ES 3.00 only", "layout")
		return
	}
	if c.LayoutLocationErrorCheck(pt.Loc, pt.Layout) {
		return
	}
	if pt.Layout.MatrixPacking != ir.PackingUnspecified {
		c.defaultMatrixPacking = pt.Layout.MatrixPacking
	}
	if pt.Layout.BlockStorage != ir.StorageUnspecified {
		c.defaultBlockStorage = pt.Layout.BlockStorage
	}
}

// ParsePrecisionStatement handles "precision highp float;".
func (c *Context) ParsePrecisionStatement(loc ir.Loc, prec ir.Precision, pt ir.PublicType) {
	if prec == ir.PrecisionHigh && c.cfg.ShaderType == symbols.FragmentShader && !c.cfg.Resources.FragmentPrecisionHigh {
		c.Error(loc, "precision is not supported in fragment shader", "highp")
	}
	if pt.IsAggregate() || !c.table.SetDefaultPrecision(pt.Basic, prec) {
		c.Error(loc, "illegal type argument for default precision qualifier", pt.Basic.String())
	}
}

// ParseTypeSpecifier applies the default precision and the scope
// qualifier to a type specifier without an explicit precision.
func (c *Context) ParseTypeSpecifier(pt ir.PublicType, prec ir.Precision, hasPrecision bool) ir.PublicType {
	if hasPrecision {
		pt.Precision = prec
		return pt
	}
	pt.Precision = c.table.DefaultPrecision(pt.Basic)
	c.PrecisionErrorCheck(pt.Loc, pt.Precision, pt.Basic)
	return pt
}

// NewBasicType starts a type specifier. Types at global scope are
// qualified Global and others Temporary.
func (c *Context) NewBasicType(basic ir.BasicType, loc ir.Loc) ir.PublicType {
	qual := ir.QualTemporary
	if c.table.AtGlobalLevel() {
		qual = ir.QualGlobal
	}
	var pt ir.PublicType
	pt.SetBasic(basic, qual, loc)
	return pt
}

// Extensions that make their sampler types available.
const (
	ExtEGLImageExternal = "GL_OES_EGL_image_external"
	ExtTextureRectangle = "GL_ARB_texture_rectangle"
)

// SamplerExtensionCheck reports sampler types that need an extension the
// implementation does not support.
func (c *Context) SamplerExtensionCheck(basic ir.BasicType, loc ir.Loc) {
	var ext string
	switch basic {
	case ir.BasicSamplerExternalOES:
		ext = ExtEGLImageExternal
	case ir.BasicSampler2DRect:
		ext = ExtTextureRectangle
	default:
		return
	}
	if !c.SupportsExtension(ext) {
		c.Error(loc, "unsupported type", basic.String())
	}
}

// ParseStorageQualifier turns a storage keyword into a qualifier for the
// current stage and scope. keyword is one of attribute, varying,
// "invariant varying", uniform, const, in, out, "centroid in" and
// "centroid out".
func (c *Context) ParseStorageQualifier(keyword string, loc ir.Loc) ir.PublicType {
	global := c.table.AtGlobalLevel()
	vertex := c.cfg.ShaderType == symbols.VertexShader
	var qual ir.Qualifier

	switch keyword {
	case "const":
		qual = ir.QualConst
	case "attribute":
		if !vertex {
			c.Error(loc, " supported in vertex shaders only ", "attribute")
		}
		c.GlobalErrorCheck(loc, global, "attribute")
		qual = ir.QualAttribute
	case "varying", "invariant varying":
		c.GlobalErrorCheck(loc, global, keyword)
		switch {
		case keyword == "varying" && vertex:
			qual = ir.QualVaryingOut
		case keyword == "varying":
			qual = ir.QualVaryingIn
		case vertex:
			qual = ir.QualInvariantVaryingOut
		default:
			qual = ir.QualInvariantVaryingIn
		}
	case "uniform":
		c.GlobalErrorCheck(loc, global, "uniform")
		qual = ir.QualUniform
	case "in", "out", "centroid in", "centroid out":
		if c.shaderVersion < symbols.Version300 {
			c.Error(loc, "storage qualifier supported in GLSL ES 3.00 only", keyword)
		}
		c.GlobalErrorCheck(loc, global, keyword)
		switch keyword {
		case "in":
			qual = ir.QualFragmentIn
			if vertex {
				qual = ir.QualVertexIn
			}
		case "out":
			qual = ir.QualFragmentOut
			if vertex {
				qual = ir.QualVertexOut
			}
		case "centroid in":
			if vertex {
				c.Error(loc, "invalid storage qualifier", "it is an error to use 'centroid in' in the vertex shader")
			}
			qual = ir.QualCentroidIn
		default:
			if !vertex {
				c.Error(loc, "invalid storage qualifier", "it is an error to use 'centroid out' in the fragment shader")
			}
			qual = ir.QualCentroidOut
		}
	default:
		c.Error(loc, "unknown storage qualifier", keyword)
		qual = ir.QualTemporary
	}

	var pt ir.PublicType
	pt.SetBasic(ir.BasicVoid, qual, loc)
	return pt
}

// ParseParameterQualifier maps in, out and inout; an absent qualifier is
// in.
func ParseParameterQualifier(keyword string) ir.Qualifier {
	switch keyword {
	case "out":
		return ir.QualOut
	case "inout":
		return ir.QualInOut
	}
	return ir.QualIn
}
