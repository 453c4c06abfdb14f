package sema

import (
	"github.com/gogpu/essl/ir"
)

// VectorFields is a parsed swizzle: one component offset per selector
// character.
type VectorFields struct {
	Offsets [4]int
	Num     int
}

// Slice returns the offsets in use.
func (f VectorFields) Slice() []int { return f.Offsets[:f.Num] }

// MatrixFields is a parsed matrix selector. Row and Col are -1 when the
// selector picks a whole column or row.
type MatrixFields struct {
	WholeRow bool
	WholeCol bool
	Row      int
	Col      int
}

type componentSet uint8

const (
	setXYZW componentSet = iota
	setRGBA
	setSTPQ
)

var componentTable = map[byte]struct {
	offset int
	set    componentSet
}{
	'x': {0, setXYZW}, 'y': {1, setXYZW}, 'z': {2, setXYZW}, 'w': {3, setXYZW},
	'r': {0, setRGBA}, 'g': {1, setRGBA}, 'b': {2, setRGBA}, 'a': {3, setRGBA},
	's': {0, setSTPQ}, 't': {1, setSTPQ}, 'p': {2, setSTPQ}, 'q': {3, setSTPQ},
}

// ParseVectorFields maps a swizzle such as "xzy" to component offsets of a
// vector with vecSize components. All characters must come from one of
// the sets xyzw, rgba or stpq.
func (c *Context) ParseVectorFields(comp string, vecSize int, loc ir.Loc) (VectorFields, bool) {
	var fields VectorFields
	if len(comp) > 4 || len(comp) == 0 {
		c.Error(loc, "illegal vector field selection", comp)
		return fields, false
	}
	fields.Num = len(comp)

	var sets [4]componentSet
	for i := 0; i < len(comp); i++ {
		e, ok := componentTable[comp[i]]
		if !ok {
			c.Error(loc, "illegal vector field selection", comp)
			return fields, false
		}
		fields.Offsets[i] = e.offset
		sets[i] = e.set
	}

	for i := 0; i < fields.Num; i++ {
		if fields.Offsets[i] >= vecSize {
			c.Error(loc, "vector field selection out of range", comp)
			return fields, false
		}
		if i > 0 && sets[i] != sets[i-1] {
			c.Error(loc, "illegal - vector component fields not from the same set", comp)
			return fields, false
		}
	}
	return fields, true
}

func isSelectorDigit(b byte) bool { return b >= '0' && b <= '3' }

// ParseMatrixFields parses a two character matrix selector: "_N" is
// column N, "N_" is row N and "NM" is the element at row N, column M.
func (c *Context) ParseMatrixFields(comp string, cols, rows int, loc ir.Loc) (MatrixFields, bool) {
	fields := MatrixFields{Row: -1, Col: -1}
	if len(comp) != 2 {
		c.Error(loc, "illegal length of matrix field selection", comp)
		return fields, false
	}

	switch {
	case comp[0] == '_':
		if !isSelectorDigit(comp[1]) {
			c.Error(loc, "illegal matrix field selection", comp)
			return fields, false
		}
		fields.WholeCol = true
		fields.Col = int(comp[1] - '0')
	case comp[1] == '_':
		if !isSelectorDigit(comp[0]) {
			c.Error(loc, "illegal matrix field selection", comp)
			return fields, false
		}
		fields.WholeRow = true
		fields.Row = int(comp[0] - '0')
	default:
		if !isSelectorDigit(comp[0]) || !isSelectorDigit(comp[1]) {
			c.Error(loc, "illegal matrix field selection", comp)
			return fields, false
		}
		fields.Row = int(comp[0] - '0')
		fields.Col = int(comp[1] - '0')
	}

	if fields.Row >= rows || fields.Col >= cols {
		c.Error(loc, "matrix field selection out of range", comp)
		return fields, false
	}
	return fields, true
}
