package ir

import (
	"math"
	"strconv"
)

// Constant is one scalar compile-time value. Kind selects which of the
// value fields is meaningful.
type Constant struct {
	Kind BasicType
	F    float32
	I    int32
	U    uint32
	B    bool
}

// FloatConst returns a float constant.
func FloatConst(f float32) Constant { return Constant{Kind: BasicFloat, F: f} }

// IntConst returns an int constant.
func IntConst(i int32) Constant { return Constant{Kind: BasicInt, I: i} }

// UIntConst returns a uint constant.
func UIntConst(u uint32) Constant { return Constant{Kind: BasicUInt, U: u} }

// BoolConst returns a bool constant.
func BoolConst(b bool) Constant { return Constant{Kind: BasicBool, B: b} }

// Cast converts c to the given basic type using the GLSL ES
// constructor conversion rules.
func (c Constant) Cast(to BasicType) Constant {
	switch to {
	case BasicFloat:
		switch c.Kind {
		case BasicInt:
			return FloatConst(float32(c.I))
		case BasicUInt:
			return FloatConst(float32(c.U))
		case BasicBool:
			if c.B {
				return FloatConst(1)
			}
			return FloatConst(0)
		}
	case BasicInt:
		switch c.Kind {
		case BasicFloat:
			return IntConst(int32(c.F))
		case BasicUInt:
			return IntConst(int32(c.U))
		case BasicBool:
			if c.B {
				return IntConst(1)
			}
			return IntConst(0)
		}
	case BasicUInt:
		switch c.Kind {
		case BasicFloat:
			return UIntConst(uint32(c.F))
		case BasicInt:
			return UIntConst(uint32(c.I))
		case BasicBool:
			if c.B {
				return UIntConst(1)
			}
			return UIntConst(0)
		}
	case BasicBool:
		switch c.Kind {
		case BasicFloat:
			return BoolConst(c.F != 0)
		case BasicInt:
			return BoolConst(c.I != 0)
		case BasicUInt:
			return BoolConst(c.U != 0)
		}
	}
	return c
}

// Equal compares two constants of the same kind.
func (c Constant) Equal(o Constant) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case BasicFloat:
		return c.F == o.F
	case BasicInt:
		return c.I == o.I
	case BasicUInt:
		return c.U == o.U
	case BasicBool:
		return c.B == o.B
	}
	return false
}

// Less compares two numeric constants of the same kind.
func (c Constant) Less(o Constant) bool {
	switch c.Kind {
	case BasicFloat:
		return c.F < o.F
	case BasicInt:
		return c.I < o.I
	case BasicUInt:
		return c.U < o.U
	}
	return false
}

// Int returns c as an int regardless of kind.
func (c Constant) Int() int {
	switch c.Kind {
	case BasicFloat:
		return int(c.F)
	case BasicInt:
		return int(c.I)
	case BasicUInt:
		if c.U > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(c.U)
	case BasicBool:
		if c.B {
			return 1
		}
	}
	return 0
}

func (c Constant) String() string {
	switch c.Kind {
	case BasicFloat:
		return strconv.FormatFloat(float64(c.F), 'g', -1, 32)
	case BasicInt:
		return strconv.FormatInt(int64(c.I), 10)
	case BasicUInt:
		return strconv.FormatUint(uint64(c.U), 10) + "u"
	case BasicBool:
		return strconv.FormatBool(c.B)
	}
	return "?"
}

// ConstantBuffer is an immutable flat sequence of constants. Views made
// with Slice share the backing storage; nothing writes through a buffer
// after NewConstantBuffer returns, so a const variable and the node that
// initialized it may hold the same buffer.
type ConstantBuffer struct {
	vals []Constant
}

// NewConstantBuffer takes ownership of vals.
func NewConstantBuffer(vals []Constant) ConstantBuffer {
	return ConstantBuffer{vals: vals}
}

// SingleConstant returns a one-element buffer.
func SingleConstant(c Constant) ConstantBuffer {
	return ConstantBuffer{vals: []Constant{c}}
}

// Len is the number of scalars in the view.
func (b ConstantBuffer) Len() int { return len(b.vals) }

// IsNil reports whether the buffer has no storage at all.
func (b ConstantBuffer) IsNil() bool { return b.vals == nil }

// At returns the i-th scalar.
func (b ConstantBuffer) At(i int) Constant { return b.vals[i] }

// Slice returns a view of n scalars starting at off, clipped to the
// available storage.
func (b ConstantBuffer) Slice(off, n int) ConstantBuffer {
	if off > len(b.vals) {
		off = len(b.vals)
	}
	end := off + n
	if end > len(b.vals) || n < 0 {
		end = len(b.vals)
	}
	return ConstantBuffer{vals: b.vals[off:end:end]}
}

// Values returns a copy of the scalars.
func (b ConstantBuffer) Values() []Constant {
	out := make([]Constant, len(b.vals))
	copy(out, b.vals)
	return out
}

// SameStorage reports whether two views start at the same backing element.
func (b ConstantBuffer) SameStorage(o ConstantBuffer) bool {
	if len(b.vals) == 0 || len(o.vals) == 0 {
		return len(b.vals) == len(o.vals)
	}
	return &b.vals[0] == &o.vals[0]
}
