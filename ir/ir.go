package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Loc is a source location. File is the index of the source string the
// token came from.
type Loc struct {
	File   int
	Line   int
	Column int
}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.File, l.Line)
}

// BasicType is the scalar, sampler or aggregate kind of a Type.
type BasicType uint8

const (
	BasicVoid BasicType = iota
	BasicFloat
	BasicInt
	BasicUInt
	BasicBool
	guardSamplerBegin
	BasicSampler2D
	BasicSampler3D
	BasicSamplerCube
	BasicSampler2DArray
	BasicSamplerExternalOES
	BasicSampler2DRect
	BasicISampler2D
	BasicISampler3D
	BasicISamplerCube
	BasicISampler2DArray
	BasicUSampler2D
	BasicUSampler3D
	BasicUSamplerCube
	BasicUSampler2DArray
	BasicSampler2DShadow
	BasicSamplerCubeShadow
	BasicSampler2DArrayShadow
	guardSamplerEnd
	BasicStruct
	BasicInterfaceBlock
)

var basicNames = [...]string{
	BasicVoid:                 "void",
	BasicFloat:                "float",
	BasicInt:                  "int",
	BasicUInt:                 "uint",
	BasicBool:                 "bool",
	BasicSampler2D:            "sampler2D",
	BasicSampler3D:            "sampler3D",
	BasicSamplerCube:          "samplerCube",
	BasicSampler2DArray:       "sampler2DArray",
	BasicSamplerExternalOES:   "samplerExternalOES",
	BasicSampler2DRect:        "sampler2DRect",
	BasicISampler2D:           "isampler2D",
	BasicISampler3D:           "isampler3D",
	BasicISamplerCube:         "isamplerCube",
	BasicISampler2DArray:      "isampler2DArray",
	BasicUSampler2D:           "usampler2D",
	BasicUSampler3D:           "usampler3D",
	BasicUSamplerCube:         "usamplerCube",
	BasicUSampler2DArray:      "usampler2DArray",
	BasicSampler2DShadow:      "sampler2DShadow",
	BasicSamplerCubeShadow:    "samplerCubeShadow",
	BasicSampler2DArrayShadow: "sampler2DArrayShadow",
	BasicStruct:               "structure",
	BasicInterfaceBlock:       "interface block",
}

func (b BasicType) String() string {
	if int(b) < len(basicNames) && basicNames[b] != "" {
		return basicNames[b]
	}
	return "unknown type"
}

// IsSampler reports whether b is one of the sampler types.
func (b BasicType) IsSampler() bool {
	return b > guardSamplerBegin && b < guardSamplerEnd
}

// mangled returns the short code used in function signatures.
func (b BasicType) mangled() string {
	switch b {
	case BasicFloat:
		return "f"
	case BasicInt:
		return "i"
	case BasicUInt:
		return "u"
	case BasicBool:
		return "b"
	case BasicSampler2D:
		return "s2"
	case BasicSampler3D:
		return "s3"
	case BasicSamplerCube:
		return "sC"
	case BasicSampler2DArray:
		return "s2a"
	case BasicSamplerExternalOES:
		return "sext"
	case BasicSampler2DRect:
		return "s2r"
	case BasicISampler2D:
		return "is2"
	case BasicISampler3D:
		return "is3"
	case BasicISamplerCube:
		return "isC"
	case BasicISampler2DArray:
		return "is2a"
	case BasicUSampler2D:
		return "us2"
	case BasicUSampler3D:
		return "us3"
	case BasicUSamplerCube:
		return "usC"
	case BasicUSampler2DArray:
		return "us2a"
	case BasicSampler2DShadow:
		return "s2s"
	case BasicSamplerCubeShadow:
		return "sCs"
	case BasicSampler2DArrayShadow:
		return "s2as"
	}
	return ""
}

// Precision is a GLSL ES precision qualifier.
type Precision uint8

const (
	PrecisionUndefined Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionHigh:
		return "highp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionLow:
		return "lowp"
	default:
		return "mediump"
	}
}

// HigherPrecision returns the higher of two precisions.
func HigherPrecision(a, b Precision) Precision {
	if a > b {
		return a
	}
	return b
}

// Qualifier is a storage, parameter or built-in qualifier.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualGlobal
	QualConst
	QualAttribute
	QualVaryingIn
	QualVaryingOut
	QualInvariantVaryingIn
	QualInvariantVaryingOut
	QualUniform

	QualVertexIn
	QualFragmentOut
	QualVertexOut
	QualFragmentIn

	// function parameters
	QualIn
	QualOut
	QualInOut
	QualConstReadOnly

	// built-in variables
	QualPosition
	QualPointSize
	QualFragCoord
	QualFrontFacing
	QualPointCoord
	QualFragColor
	QualFragData
	QualFragDepth

	// interpolation
	QualSmooth
	QualFlat
	QualSmoothOut
	QualFlatOut
	QualSmoothIn
	QualFlatIn
	QualCentroidIn
	QualCentroidOut
)

var qualifierNames = [...]string{
	QualTemporary:           "Temporary",
	QualGlobal:              "Global",
	QualConst:               "const",
	QualAttribute:           "attribute",
	QualVaryingIn:           "varying",
	QualVaryingOut:          "varying",
	QualInvariantVaryingIn:  "invariant varying",
	QualInvariantVaryingOut: "invariant varying",
	QualUniform:             "uniform",
	QualVertexIn:            "in",
	QualFragmentOut:         "out",
	QualVertexOut:           "out",
	QualFragmentIn:          "in",
	QualIn:                  "in",
	QualOut:                 "out",
	QualInOut:               "inout",
	QualConstReadOnly:       "const",
	QualPosition:            "Position",
	QualPointSize:           "PointSize",
	QualFragCoord:           "FragCoord",
	QualFrontFacing:         "FrontFacing",
	QualPointCoord:          "PointCoord",
	QualFragColor:           "FragColor",
	QualFragData:            "FragData",
	QualFragDepth:           "FragDepth",
	QualSmooth:              "smooth",
	QualFlat:                "flat",
	QualSmoothOut:           "smooth out",
	QualFlatOut:             "flat out",
	QualSmoothIn:            "smooth in",
	QualFlatIn:              "flat in",
	QualCentroidIn:          "centroid in",
	QualCentroidOut:         "centroid out",
}

func (q Qualifier) String() string {
	if int(q) < len(qualifierNames) {
		return qualifierNames[q]
	}
	return "unknown qualifier"
}

// MatrixPacking is the row_major / column_major layout qualifier.
type MatrixPacking uint8

const (
	PackingUnspecified MatrixPacking = iota
	PackingRowMajor
	PackingColumnMajor
)

func (m MatrixPacking) String() string {
	switch m {
	case PackingRowMajor:
		return "row_major"
	case PackingColumnMajor:
		return "column_major"
	}
	return "unspecified"
}

// BlockStorage is the shared / packed / std140 layout qualifier.
type BlockStorage uint8

const (
	StorageUnspecified BlockStorage = iota
	StorageShared
	StoragePacked
	StorageStd140
)

func (s BlockStorage) String() string {
	switch s {
	case StorageShared:
		return "shared"
	case StoragePacked:
		return "packed"
	case StorageStd140:
		return "std140"
	}
	return "unspecified"
}

// LayoutQualifier groups the layout(...) settings of a declaration.
// Location is -1 when unset.
type LayoutQualifier struct {
	Location      int
	MatrixPacking MatrixPacking
	BlockStorage  BlockStorage
}

// NoLayout returns a layout qualifier with nothing set.
func NoLayout() LayoutQualifier {
	return LayoutQualifier{Location: -1}
}

// IsEmpty reports whether no layout setting is present.
func (l LayoutQualifier) IsEmpty() bool {
	return l.Location == -1 && l.MatrixPacking == PackingUnspecified && l.BlockStorage == StorageUnspecified
}

// Field is a named member of a structure or interface block.
type Field struct {
	Name string
	Type *Type
	Loc  Loc
}

// Structure is a user-defined struct type.
type Structure struct {
	Name   string
	Fields []*Field
	ID     int

	deepestNesting int
}

// NewStructure creates a structure with the given fields.
func NewStructure(name string, fields []*Field, id int) *Structure {
	return &Structure{Name: name, Fields: fields, ID: id}
}

// ObjectSize is the number of scalar components of one instance.
func (s *Structure) ObjectSize() int {
	size := 0
	for _, f := range s.Fields {
		fs := f.Type.ObjectSize()
		if fs > math.MaxInt32-size {
			return math.MaxInt32
		}
		size += fs
	}
	return size
}

// DeepestNesting returns 1 plus the nesting of the most deeply nested
// struct-typed field.
func (s *Structure) DeepestNesting() int {
	if s.deepestNesting == 0 {
		max := 0
		for _, f := range s.Fields {
			if n := f.Type.DeepestStructNesting(); n > max {
				max = n
			}
		}
		s.deepestNesting = 1 + max
	}
	return s.deepestNesting
}

// ContainsArrays reports whether any field, directly or through nested
// structs, is an array.
func (s *Structure) ContainsArrays() bool {
	for _, f := range s.Fields {
		if f.Type.Array || f.Type.IsStructureContainingArrays() {
			return true
		}
	}
	return false
}

// Field returns the index of the named field or -1.
func (s *Structure) Field(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *Structure) mangled() string {
	var b strings.Builder
	b.WriteString("struct-")
	b.WriteString(s.Name)
	b.WriteByte('-')
	for _, f := range s.Fields {
		b.WriteString(f.Type.MangledName())
	}
	return b.String()
}

// InterfaceBlock is a GLSL ES 3.00 uniform block.
type InterfaceBlock struct {
	Name         string
	InstanceName string
	Fields       []*Field
	ArraySize    int
	Layout       LayoutQualifier
}

// HasInstanceName reports whether the block was declared with an instance name.
func (b *InterfaceBlock) HasInstanceName() bool {
	return b.InstanceName != ""
}

// Field returns the index of the named field or -1.
func (b *InterfaceBlock) Field(name string) int {
	for i, f := range b.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ObjectSize is the number of scalar components of one block instance.
func (b *InterfaceBlock) ObjectSize() int {
	size := 0
	for _, f := range b.Fields {
		size += f.Type.ObjectSize()
	}
	return size
}

// Type is a fully resolved GLSL ES type.
//
// PrimarySize is the vector size or the number of matrix columns;
// SecondarySize is the number of matrix rows and 1 otherwise.
type Type struct {
	Basic         BasicType
	Precision     Precision
	Qualifier     Qualifier
	Layout        LayoutQualifier
	PrimarySize   int
	SecondarySize int
	Array         bool
	ArraySize     int
	Invariant     bool

	Struct *Structure
	Block  *InterfaceBlock
}

// NewType returns a non-array type of the given shape.
func NewType(basic BasicType, prec Precision, qual Qualifier, primary, secondary int) Type {
	return Type{
		Basic:         basic,
		Precision:     prec,
		Qualifier:     qual,
		Layout:        NoLayout(),
		PrimarySize:   primary,
		SecondarySize: secondary,
	}
}

// Scalar returns a scalar type.
func Scalar(basic BasicType, prec Precision, qual Qualifier) Type {
	return NewType(basic, prec, qual, 1, 1)
}

// Vector returns a vector (or scalar when size is 1) type.
func Vector(basic BasicType, prec Precision, qual Qualifier, size int) Type {
	return NewType(basic, prec, qual, size, 1)
}

// StructType returns the type of a value of structure s.
func StructType(s *Structure) Type {
	t := NewType(BasicStruct, PrecisionUndefined, QualTemporary, 1, 1)
	t.Struct = s
	return t
}

// BlockType returns the type of an interface block instance.
func BlockType(b *InterfaceBlock, qual Qualifier, layout LayoutQualifier, arraySize int) Type {
	t := NewType(BasicInterfaceBlock, PrecisionUndefined, qual, 1, 1)
	t.Layout = layout
	t.Block = b
	if arraySize > 0 {
		t.Array = true
		t.ArraySize = arraySize
	}
	return t
}

func (t *Type) IsMatrix() bool        { return t.PrimarySize > 1 && t.SecondarySize > 1 }
func (t *Type) IsVector() bool        { return t.PrimarySize > 1 && t.SecondarySize == 1 }
func (t *Type) IsScalar() bool        { return t.PrimarySize == 1 && t.SecondarySize == 1 && t.Struct == nil && t.Block == nil }
func (t *Type) IsScalarInt() bool     { return t.IsScalar() && !t.Array && (t.Basic == BasicInt || t.Basic == BasicUInt) }
func (t *Type) IsInterfaceBlock() bool { return t.Basic == BasicInterfaceBlock }
func (t *Type) Cols() int             { return t.PrimarySize }
func (t *Type) Rows() int             { return t.SecondarySize }
func (t *Type) NominalSize() int      { return t.PrimarySize }

// ObjectSize is the total number of scalar components, with array
// lengths multiplied in and the result capped at MaxInt32.
func (t *Type) ObjectSize() int {
	var total int
	switch {
	case t.Basic == BasicStruct && t.Struct != nil:
		total = t.Struct.ObjectSize()
	case t.Basic == BasicInterfaceBlock && t.Block != nil:
		total = t.Block.ObjectSize()
	default:
		total = t.PrimarySize * t.SecondarySize
	}
	if t.Array && t.ArraySize > 0 && total > 0 {
		if t.ArraySize > math.MaxInt32/total {
			return math.MaxInt32
		}
		total *= t.ArraySize
	}
	return total
}

// SameElementType reports whether t and o agree on everything but array-ness.
func (t *Type) SameElementType(o *Type) bool {
	return t.Basic == o.Basic &&
		t.PrimarySize == o.PrimarySize &&
		t.SecondarySize == o.SecondarySize &&
		t.Struct == o.Struct
}

// Equal is structural type equality including array state. Precision and
// qualifiers are ignored.
func (t *Type) Equal(o *Type) bool {
	return t.SameElementType(o) &&
		t.Array == o.Array &&
		(!t.Array || t.ArraySize == o.ArraySize) &&
		t.Block == o.Block
}

// ClearArrayness turns an array type into its element type.
func (t *Type) ClearArrayness() {
	t.Array = false
	t.ArraySize = 0
}

// SetArraySize marks t as an array of the given size.
func (t *Type) SetArraySize(size int) {
	t.Array = true
	t.ArraySize = size
}

// DeepestStructNesting is 0 for non-struct types.
func (t *Type) DeepestStructNesting() int {
	if t.Struct == nil {
		return 0
	}
	return t.Struct.DeepestNesting()
}

// IsStructureContainingArrays reports whether t is a struct with an array
// somewhere in its fields.
func (t *Type) IsStructureContainingArrays() bool {
	return t.Struct != nil && t.Struct.ContainsArrays()
}

// CompleteString describes t for diagnostics, for example
// "const highp 3-component vector of float".
func (t *Type) CompleteString() string {
	var b strings.Builder
	if t.Qualifier != QualTemporary && t.Qualifier != QualGlobal {
		b.WriteString(t.Qualifier.String())
		b.WriteByte(' ')
		b.WriteString(t.Precision.String())
		b.WriteByte(' ')
	}
	if t.Array {
		fmt.Fprintf(&b, "array[%d] of ", t.ArraySize)
	}
	if t.IsMatrix() {
		fmt.Fprintf(&b, "%dX%d matrix of ", t.Cols(), t.Rows())
	} else if t.IsVector() {
		fmt.Fprintf(&b, "%d-component vector of ", t.NominalSize())
	}
	b.WriteString(t.Basic.String())
	return b.String()
}

// MangledName encodes t for function signatures.
func (t *Type) MangledName() string {
	var b strings.Builder
	if t.IsMatrix() {
		b.WriteByte('m')
	} else if t.IsVector() {
		b.WriteByte('v')
	}
	switch t.Basic {
	case BasicStruct:
		if t.Struct != nil {
			b.WriteString(t.Struct.mangled())
		}
	case BasicInterfaceBlock:
		if t.Block != nil {
			b.WriteString("iblock-" + t.Block.Name)
		}
	default:
		b.WriteString(t.Basic.mangled())
	}
	if t.IsMatrix() {
		b.WriteString(strconv.Itoa(t.Cols()))
		b.WriteByte('x')
		b.WriteString(strconv.Itoa(t.Rows()))
	} else {
		b.WriteString(strconv.Itoa(t.NominalSize()))
	}
	if t.Array {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.ArraySize))
		b.WriteByte(']')
	}
	return b.String()
}

func (t Type) String() string {
	return t.CompleteString()
}

// PublicType is the type under construction while a declaration is being
// parsed: the type specifier plus the qualifiers gathered so far.
type PublicType struct {
	Basic         BasicType
	Layout        LayoutQualifier
	Qualifier     Qualifier
	Precision     Precision
	PrimarySize   int
	SecondarySize int
	Array         bool
	ArraySize     int
	Invariant     bool
	UserDef       *Type
	Loc           Loc
}

// SetBasic resets p to a scalar of the given basic type.
func (p *PublicType) SetBasic(basic BasicType, qual Qualifier, loc Loc) {
	*p = PublicType{
		Basic:         basic,
		Layout:        NoLayout(),
		Qualifier:     qual,
		PrimarySize:   1,
		SecondarySize: 1,
		Loc:           loc,
	}
}

// SetAggregate makes p a vector of the given size.
func (p *PublicType) SetAggregate(size int) {
	p.PrimarySize = size
}

// SetMatrix makes p a cols x rows matrix.
func (p *PublicType) SetMatrix(cols, rows int) {
	p.PrimarySize = cols
	p.SecondarySize = rows
}

// SetArray marks p as an array (size 0 means unsized).
func (p *PublicType) SetArray(array bool, size int) {
	p.Array = array
	p.ArraySize = size
}

func (p *PublicType) IsMatrix() bool    { return p.PrimarySize > 1 && p.SecondarySize > 1 }
func (p *PublicType) IsVector() bool    { return p.PrimarySize > 1 && p.SecondarySize == 1 }
func (p *PublicType) IsAggregate() bool { return p.Array || p.IsMatrix() || p.IsVector() }

// IsStructureContainingArrays reports whether p names a struct with arrays.
func (p *PublicType) IsStructureContainingArrays() bool {
	return p.UserDef != nil && p.UserDef.IsStructureContainingArrays()
}

// Type converts p into a resolved Type.
func (p *PublicType) Type() Type {
	t := Type{
		Basic:         p.Basic,
		Precision:     p.Precision,
		Qualifier:     p.Qualifier,
		Layout:        p.Layout,
		PrimarySize:   p.PrimarySize,
		SecondarySize: p.SecondarySize,
		Array:         p.Array,
		ArraySize:     p.ArraySize,
		Invariant:     p.Invariant,
	}
	if p.UserDef != nil {
		t.Struct = p.UserDef.Struct
	}
	return t
}
