package sema

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// The checks below report at most one diagnostic and return true when
// they did. Callers keep going either way.

// MaxArraySize bounds declared array sizes.
const MaxArraySize = 65536

// PrecisionErrorCheck reports float and int declarations without a
// precision when the context checks precisions.
func (c *Context) PrecisionErrorCheck(loc ir.Loc, prec ir.Precision, basic ir.BasicType) bool {
	if !c.cfg.ChecksPrecisionErrors || prec != ir.PrecisionUndefined {
		return false
	}
	switch basic {
	case ir.BasicFloat:
		c.Error(loc, "No precision specified for (float)", "")
		return true
	case ir.BasicInt:
		c.Error(loc, "No precision specified (int)", "")
		return true
	}
	return false
}

// LValueErrorCheck reports node if it cannot be the target of op: the
// root of every index, field and swizzle chain must be a writable
// variable, and a swizzle must not name a component twice.
func (c *Context) LValueErrorCheck(loc ir.Loc, op string, node ir.Typed) bool {
	if b, ok := node.(*ir.Binary); ok {
		switch b.Op {
		case ir.OpIndexDirect, ir.OpIndexIndirect, ir.OpIndexDirectStruct, ir.OpIndexDirectInterfaceBlock:
			return c.LValueErrorCheck(loc, op, b.Left)
		case ir.OpVectorSwizzle:
			if c.LValueErrorCheck(loc, op, b.Left) {
				return true
			}
			var seen [4]int
			if agg := ir.AsAggregate(b.Right); agg != nil {
				for _, n := range agg.Sequence {
					k := ir.AsConstant(n)
					if k == nil {
						continue
					}
					off := k.IConst(0)
					if off < 0 || off > 3 {
						continue
					}
					seen[off]++
					if seen[off] > 1 {
						c.Error(loc, " l-value of swizzle cannot have duplicate components", op)
						return true
					}
				}
			}
			return false
		}
		c.Error(loc, " l-value required", op)
		return true
	}

	sym := ir.AsSymbol(node)
	t := node.Type()

	var message string
	switch t.Qualifier {
	case ir.QualConst, ir.QualConstReadOnly:
		message = "can't modify a const"
	case ir.QualAttribute:
		message = "can't modify an attribute"
	case ir.QualFragmentIn, ir.QualVertexIn, ir.QualSmoothIn, ir.QualFlatIn, ir.QualCentroidIn:
		message = "can't modify an input"
	case ir.QualUniform:
		message = "can't modify a uniform"
	case ir.QualVaryingIn, ir.QualInvariantVaryingIn:
		message = "can't modify a varying"
	case ir.QualFragCoord:
		message = "can't modify gl_FragCoord"
	case ir.QualFrontFacing:
		message = "can't modify gl_FrontFacing"
	case ir.QualPointCoord:
		message = "can't modify gl_PointCoord"
	default:
		switch {
		case t.Basic == ir.BasicVoid:
			message = "can't modify void"
		case t.Basic.IsSampler():
			message = "can't modify a sampler"
		}
	}

	if message == "" && sym == nil {
		c.Error(loc, " l-value required", op)
		return true
	}
	if message == "" {
		return false
	}

	if sym != nil {
		c.Error(loc, " l-value required", op, fmt.Sprintf("%q (%s)", sym.Name, message))
	} else {
		c.Error(loc, " l-value required", op, "("+message+")")
	}
	return true
}

// ConstErrorCheck reports a node that is not a constant expression.
func (c *Context) ConstErrorCheck(node ir.Typed) bool {
	if node.Type().Qualifier == ir.QualConst {
		return false
	}
	c.Error(node.Pos(), "constant expression required", "")
	return true
}

// IntegerErrorCheck reports a node that is not a scalar integer.
func (c *Context) IntegerErrorCheck(node ir.Typed, token string) bool {
	if node.Type().IsScalarInt() {
		return false
	}
	c.Error(node.Pos(), "integer expression required", token)
	return true
}

// GlobalErrorCheck reports a construct that is only valid at global scope.
func (c *Context) GlobalErrorCheck(loc ir.Loc, global bool, token string) bool {
	if global {
		return false
	}
	c.Error(loc, "only allowed at global scope", token)
	return true
}

// ReservedErrorCheck reports identifiers reserved for the implementation.
// Built-in declarations are exempt.
func (c *Context) ReservedErrorCheck(loc ir.Loc, ident string) bool {
	const reserved = "reserved built-in name"
	if c.table.AtBuiltInLevel() {
		return false
	}
	if strings.HasPrefix(ident, "gl_") {
		c.Error(loc, reserved, "gl_")
		return true
	}
	if c.cfg.Spec.IsWebGLBased() {
		if strings.HasPrefix(ident, "webgl_") {
			c.Error(loc, reserved, "webgl_")
			return true
		}
		if strings.HasPrefix(ident, "_webgl_") {
			c.Error(loc, reserved, "_webgl_")
			return true
		}
		if c.cfg.Spec == symbols.SpecCSSShaders && strings.HasPrefix(ident, "css_") {
			c.Error(loc, reserved, "css_")
			return true
		}
	}
	if strings.Contains(ident, "__") {
		c.Error(loc, "identifiers containing two consecutive underscores (__) are reserved as possible future keywords", ident)
		return true
	}
	return false
}

// VoidErrorCheck reports a variable declared void.
func (c *Context) VoidErrorCheck(loc ir.Loc, ident string, pt *ir.PublicType) bool {
	if pt.Basic != ir.BasicVoid {
		return false
	}
	c.Error(loc, "illegal use of type 'void'", ident)
	return true
}

// BoolErrorCheck reports a condition that is not a scalar bool.
func (c *Context) BoolErrorCheck(loc ir.Loc, node ir.Typed) bool {
	t := node.Type()
	if t.Basic == ir.BasicBool && !t.Array && !t.IsMatrix() && !t.IsVector() {
		return false
	}
	c.Error(loc, "boolean expression expected", "")
	return true
}

// BoolTypeErrorCheck is BoolErrorCheck for a declared condition variable.
func (c *Context) BoolTypeErrorCheck(loc ir.Loc, pt *ir.PublicType) bool {
	if pt.Basic == ir.BasicBool && !pt.IsAggregate() {
		return false
	}
	c.Error(loc, "boolean expression expected", "")
	return true
}

// SamplerErrorCheck reports sampler types, and structs holding samplers,
// with the given reason.
func (c *Context) SamplerErrorCheck(loc ir.Loc, pt *ir.PublicType, reason string) bool {
	if pt.Basic == ir.BasicStruct {
		if pt.UserDef != nil && ContainsSampler(pt.UserDef) {
			c.Error(loc, reason, pt.Basic.String(), "(structure contains a sampler)")
			return true
		}
		return false
	}
	if pt.Basic.IsSampler() {
		c.Error(loc, reason, pt.Basic.String())
		return true
	}
	return false
}

// StructQualifierErrorCheck reports structs on inputs and outputs and
// samplers outside uniforms.
func (c *Context) StructQualifierErrorCheck(loc ir.Loc, pt *ir.PublicType) bool {
	switch pt.Qualifier {
	case ir.QualVaryingIn, ir.QualVaryingOut, ir.QualAttribute, ir.QualVertexIn, ir.QualFragmentOut:
		if pt.Basic == ir.BasicStruct {
			c.Error(loc, "cannot be used with a structure", pt.Qualifier.String())
			return true
		}
	}
	if pt.Qualifier != ir.QualUniform && c.SamplerErrorCheck(loc, pt, "samplers must be uniform") {
		return true
	}
	return false
}

// LocationDeclaratorListCheck reports a location on a declarator list.
func (c *Context) LocationDeclaratorListCheck(loc ir.Loc, pt *ir.PublicType) bool {
	if pt.Layout.Location == -1 {
		return false
	}
	c.Error(loc, "location must only be specified for a single input or output variable", "location")
	return true
}

// ParameterSamplerErrorCheck reports samplers passed as out or inout.
func (c *Context) ParameterSamplerErrorCheck(loc ir.Loc, qual ir.Qualifier, t *ir.Type) bool {
	if (qual == ir.QualOut || qual == ir.QualInOut) && t.Basic != ir.BasicStruct && t.Basic.IsSampler() {
		c.Error(loc, "samplers cannot be output parameters", t.Basic.String())
		return true
	}
	return false
}

// ContainsSampler reports whether t is, or has a field that is, a sampler.
func ContainsSampler(t *ir.Type) bool {
	if t.Basic.IsSampler() {
		return true
	}
	var fields []*ir.Field
	switch {
	case t.Struct != nil:
		fields = t.Struct.Fields
	case t.Block != nil:
		fields = t.Block.Fields
	}
	for _, f := range fields {
		if ContainsSampler(f.Type) {
			return true
		}
	}
	return false
}

// ArraySizeErrorCheck evaluates an array size expression. On error the
// returned size is 1 so the declaration can still be built.
func (c *Context) ArraySizeErrorCheck(loc ir.Loc, expr ir.Typed) (int, bool) {
	k := ir.AsConstant(expr)
	if k == nil || !k.Type().IsScalarInt() || k.Values.Len() == 0 {
		c.Error(loc, "array size must be a constant integer expression", "")
		return 1, true
	}

	var size int64
	if k.Type().Basic == ir.BasicUInt {
		size = int64(k.Values.At(0).U)
	} else {
		size = int64(k.Values.At(0).I)
		if size < 0 {
			c.Error(loc, "array size must be non-negative", "")
			return 1, true
		}
	}

	switch {
	case size == 0:
		c.Error(loc, "array size must be greater than zero", "")
		return 1, true
	case size > MaxArraySize:
		c.Error(loc, "array size too large", "")
		return 1, true
	}
	return int(size), false
}

// ArrayQualifierErrorCheck reports arrays of attributes, vertex inputs and
// constants.
func (c *Context) ArrayQualifierErrorCheck(loc ir.Loc, pt *ir.PublicType) bool {
	switch pt.Qualifier {
	case ir.QualAttribute, ir.QualVertexIn, ir.QualConst:
		t := pt.Type()
		c.Error(loc, "cannot declare arrays of this qualifier", t.CompleteString())
		return true
	}
	return false
}

// ArrayTypeErrorCheck reports arrays of arrays.
func (c *Context) ArrayTypeErrorCheck(loc ir.Loc, pt *ir.PublicType) bool {
	if !pt.Array {
		return false
	}
	t := pt.Type()
	c.Error(loc, "cannot declare arrays of arrays", t.CompleteString())
	return true
}

// ArrayErrorCheck declares an array variable, or sizes an unsized array
// already declared in the current scope.
func (c *Context) ArrayErrorCheck(loc ir.Loc, ident string, pt *ir.PublicType) (*symbols.Variable, bool) {
	sym, _, sameScope := c.table.Find(ident, c.shaderVersion)

	var v *symbols.Variable
	if sym == nil || !sameScope {
		if c.ReservedErrorCheck(loc, ident) {
			return nil, true
		}
		v = symbols.NewVariable(ident, pt.Type())
		if pt.ArraySize > 0 {
			v.Type.SetArraySize(pt.ArraySize)
		}
		if !c.table.Declare(v) {
			c.Error(loc, "INTERNAL ERROR inserting new symbol", ident)
			return nil, true
		}
	} else {
		var ok bool
		v, ok = sym.(*symbols.Variable)
		if !ok {
			c.Error(loc, "variable expected", ident)
			return nil, true
		}
		if !v.Type.Array {
			c.Error(loc, "redeclaring non-array as array", ident)
			return v, true
		}
		if v.Type.ArraySize > 0 {
			c.Error(loc, "redeclaration of array with size", ident)
			return v, true
		}
		t := pt.Type()
		if !v.Type.SameElementType(&t) {
			c.Error(loc, "redeclaration of array with a different type", ident)
			return v, true
		}
		if pt.ArraySize > 0 {
			v.Type.SetArraySize(pt.ArraySize)
		}
	}

	if c.VoidErrorCheck(loc, ident, pt) {
		return v, true
	}
	return v, false
}

// NonInitConstErrorCheck reports a const declaration without initializer
// and demotes pt to a temporary.
func (c *Context) NonInitConstErrorCheck(loc ir.Loc, ident string, pt *ir.PublicType, array bool) bool {
	if pt.Qualifier != ir.QualConst {
		return false
	}
	pt.Qualifier = ir.QualTemporary
	switch {
	case array:
		c.Error(loc, "arrays may not be declared constant since they cannot be initialized", ident)
	case pt.IsStructureContainingArrays():
		c.Error(loc, "structures containing arrays may not be declared constant since they cannot be initialized", ident)
	default:
		c.Error(loc, "variables with qualifier 'const' must be initialized", ident)
	}
	return true
}

// NonInitErrorCheck declares a variable that has no initializer.
func (c *Context) NonInitErrorCheck(loc ir.Loc, ident string, pt *ir.PublicType) (*symbols.Variable, bool) {
	c.ReservedErrorCheck(loc, ident)

	v := symbols.NewVariable(ident, pt.Type())
	if !c.table.Declare(v) {
		c.Error(loc, "redefinition", ident)
		return nil, true
	}
	if c.VoidErrorCheck(loc, ident, pt) {
		return v, true
	}
	return v, false
}

// ParamErrorCheck validates the qualifiers of a parameter and stores the
// resulting parameter qualifier in t.
func (c *Context) ParamErrorCheck(loc ir.Loc, qual, paramQual ir.Qualifier, t *ir.Type) bool {
	if qual != ir.QualConst && qual != ir.QualTemporary {
		c.Error(loc, "qualifier not allowed on function parameter", qual.String())
		return true
	}
	if qual == ir.QualConst && paramQual != ir.QualIn {
		c.Error(loc, "qualifier not allowed with ", qual.String(), paramQual.String())
		return true
	}
	if qual == ir.QualConst {
		t.Qualifier = ir.QualConstReadOnly
	} else {
		t.Qualifier = paramQual
	}
	return false
}

// SingleDeclarationErrorCheck validates the qualifiers of the first
// declarator of a declaration.
func (c *Context) SingleDeclarationErrorCheck(pt *ir.PublicType, loc ir.Loc, ident string) bool {
	if c.StructQualifierErrorCheck(loc, pt) {
		return true
	}
	if pt.Layout.MatrixPacking != ir.PackingUnspecified {
		c.Error(loc, "layout qualifier", pt.Layout.MatrixPacking.String(), "only valid for interface blocks")
		return true
	}
	if pt.Layout.BlockStorage != ir.StorageUnspecified {
		c.Error(loc, "layout qualifier", pt.Layout.BlockStorage.String(), "only valid for interface blocks")
		return true
	}
	if pt.Qualifier != ir.QualVertexIn && pt.Qualifier != ir.QualFragmentOut &&
		c.LayoutLocationErrorCheck(loc, pt.Layout) {
		return true
	}
	return false
}

// LayoutLocationErrorCheck reports a location outside program inputs and
// outputs.
func (c *Context) LayoutLocationErrorCheck(loc ir.Loc, layout ir.LayoutQualifier) bool {
	if layout.Location == -1 {
		return false
	}
	c.Error(loc, "invalid layout qualifier:", "location", "only valid on program inputs and outputs")
	return true
}
