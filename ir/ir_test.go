package ir

import (
	"strings"
	"testing"
)

func TestType_ObjectSize(t *testing.T) {
	inner := NewStructure("Inner", []*Field{
		{Name: "a", Type: typePtr(Vector(BasicFloat, PrecisionHigh, QualTemporary, 3))},
		{Name: "b", Type: typePtr(Scalar(BasicInt, PrecisionHigh, QualTemporary))},
	}, 1)

	arr := Scalar(BasicFloat, PrecisionHigh, QualTemporary)
	arr.SetArraySize(5)

	mat := NewType(BasicFloat, PrecisionHigh, QualTemporary, 3, 3)

	tests := []struct {
		name string
		typ  Type
		want int
	}{
		{"scalar", Scalar(BasicFloat, PrecisionHigh, QualTemporary), 1},
		{"vec4", Vector(BasicFloat, PrecisionHigh, QualTemporary, 4), 4},
		{"mat3", mat, 9},
		{"float[5]", arr, 5},
		{"struct", StructType(inner), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.ObjectSize(); got != tt.want {
				t.Errorf("expected object size %d, got %d", tt.want, got)
			}
		})
	}
}

func TestType_ObjectSizeSaturates(t *testing.T) {
	big := NewType(BasicFloat, PrecisionHigh, QualTemporary, 4, 4)
	big.SetArraySize(1 << 30)
	if got := big.ObjectSize(); got != 1<<31-1 {
		t.Errorf("expected saturated size, got %d", got)
	}
}

func TestType_Equality(t *testing.T) {
	a := Vector(BasicFloat, PrecisionHigh, QualConst, 3)
	b := Vector(BasicFloat, PrecisionLow, QualTemporary, 3)
	if !a.Equal(&b) {
		t.Error("precision and qualifier must not affect equality")
	}

	c := b
	c.SetArraySize(2)
	if b.Equal(&c) {
		t.Error("array and non-array types must differ")
	}
	if !b.SameElementType(&c) {
		t.Error("array-ness must not affect SameElementType")
	}

	d := c
	d.ArraySize = 3
	if c.Equal(&d) {
		t.Error("arrays of different size must differ")
	}
}

func TestType_CompleteString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Vector(BasicFloat, PrecisionHigh, QualConst, 3), "const highp 3-component vector of float"},
		{NewType(BasicFloat, PrecisionMedium, QualTemporary, 2, 2), "2X2 matrix of float"},
		{Scalar(BasicInt, PrecisionUndefined, QualUniform), "uniform mediump int"},
	}
	for _, tt := range tests {
		if got := tt.typ.CompleteString(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}

	arr := Scalar(BasicBool, PrecisionUndefined, QualTemporary)
	arr.SetArraySize(4)
	if got := arr.CompleteString(); got != "array[4] of bool" {
		t.Errorf("unexpected array string %q", got)
	}
}

func TestType_MangledName(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Scalar(BasicFloat, PrecisionHigh, QualTemporary), "f1"},
		{Vector(BasicInt, PrecisionHigh, QualTemporary, 3), "vi3"},
		{NewType(BasicFloat, PrecisionHigh, QualTemporary, 4, 4), "mf4x4"},
		{Scalar(BasicSampler2D, PrecisionLow, QualUniform), "s21"},
	}
	for _, tt := range tests {
		if got := tt.typ.MangledName(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestStructure_Nesting(t *testing.T) {
	s1 := NewStructure("S1", []*Field{{Name: "x", Type: typePtr(Scalar(BasicFloat, PrecisionHigh, QualTemporary))}}, 1)
	t1 := StructType(s1)
	s2 := NewStructure("S2", []*Field{{Name: "s", Type: &t1}}, 2)
	t2 := StructType(s2)

	if got := t1.DeepestStructNesting(); got != 1 {
		t.Errorf("expected nesting 1, got %d", got)
	}
	if got := t2.DeepestStructNesting(); got != 2 {
		t.Errorf("expected nesting 2, got %d", got)
	}
	if t2.IsStructureContainingArrays() {
		t.Error("S2 does not contain arrays")
	}

	arr := Scalar(BasicFloat, PrecisionHigh, QualTemporary)
	arr.SetArraySize(2)
	s3 := NewStructure("S3", []*Field{{Name: "a", Type: &arr}}, 3)
	t3 := StructType(s3)
	s4 := NewStructure("S4", []*Field{{Name: "s", Type: &t3}}, 4)
	t4 := StructType(s4)
	if !t4.IsStructureContainingArrays() {
		t.Error("S4 contains an array through S3")
	}
}

func TestPublicType_Type(t *testing.T) {
	var p PublicType
	p.SetBasic(BasicFloat, QualUniform, Loc{Line: 3})
	p.SetMatrix(3, 3)
	p.Precision = PrecisionHigh

	got := p.Type()
	if !got.IsMatrix() || got.Cols() != 3 || got.Rows() != 3 {
		t.Errorf("expected mat3, got %s", got.CompleteString())
	}
	if got.Qualifier != QualUniform {
		t.Errorf("expected uniform, got %s", got.Qualifier)
	}
	if got.Layout.Location != -1 {
		t.Errorf("expected unset location, got %d", got.Layout.Location)
	}
}

func TestConstant_Cast(t *testing.T) {
	tests := []struct {
		in   Constant
		to   BasicType
		want Constant
	}{
		{IntConst(3), BasicFloat, FloatConst(3)},
		{FloatConst(2.75), BasicInt, IntConst(2)},
		{BoolConst(true), BasicFloat, FloatConst(1)},
		{FloatConst(0), BasicBool, BoolConst(false)},
		{IntConst(-1), BasicBool, BoolConst(true)},
		{UIntConst(7), BasicInt, IntConst(7)},
	}
	for _, tt := range tests {
		if got := tt.in.Cast(tt.to); !got.Equal(tt.want) {
			t.Errorf("%s cast to %s: expected %s, got %s", tt.in, tt.to, tt.want, got)
		}
	}
}

func TestConstantBuffer_SliceShares(t *testing.T) {
	buf := NewConstantBuffer([]Constant{FloatConst(1), FloatConst(2), FloatConst(3), FloatConst(4)})
	col := buf.Slice(2, 2)
	if col.Len() != 2 || col.At(0).F != 3 {
		t.Fatalf("unexpected slice %v", col.Values())
	}
	if !col.SameStorage(buf.Slice(2, 1)) {
		t.Error("views at the same offset must share storage")
	}
	if col.SameStorage(buf) {
		t.Error("views at different offsets must not report shared start")
	}

	vals := buf.Values()
	vals[0] = FloatConst(99)
	if buf.At(0).F != 1 {
		t.Error("Values must return a copy")
	}

	clipped := buf.Slice(3, 10)
	if clipped.Len() != 1 {
		t.Errorf("expected clipped length 1, got %d", clipped.Len())
	}
}

func TestWalk_Order(t *testing.T) {
	loc := Loc{Line: 1}
	x := NewSymbol(1, "x", Scalar(BasicInt, PrecisionHigh, QualTemporary), loc)
	one := NewConstantUnion(SingleConstant(IntConst(1)), Scalar(BasicInt, PrecisionHigh, QualConst), loc)
	add := NewBinary(OpAdd, x, one, loc)
	init := NewAggregate(OpDeclaration, loc, x)
	cond := NewBinary(OpLessThan, x, one, loc)
	incr := NewUnary(OpPostIncrement, x, loc)
	loop := NewLoop(LoopFor, init, cond, incr, NewAggregate(OpSequence, loc, add), loc)

	var order []string
	cb := &Callbacks{
		Symbol:        func(s *Symbol) { order = append(order, s.Name) },
		ConstantUnion: func(c *ConstantUnion) { order = append(order, c.Values.At(0).String()) },
		Unary: func(_ Visit, u *Unary) bool {
			order = append(order, "++")
			return true
		},
		Binary: func(_ Visit, b *Binary) bool {
			order = append(order, b.Op.String())
			return true
		},
	}
	Walk(loop, cb)

	want := "x Compare Less Than x 1 add x 1 ++ x"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	loc := Loc{}
	x := NewSymbol(1, "x", Scalar(BasicInt, PrecisionHigh, QualTemporary), loc)
	agg := NewAggregate(OpSequence, loc, NewUnary(OpNegative, x, loc))

	visited := 0
	Walk(agg, &Callbacks{
		Symbol: func(*Symbol) { visited++ },
		Unary:  func(Visit, *Unary) bool { return false },
	})
	if visited != 0 {
		t.Errorf("expected children to be skipped, visited %d", visited)
	}
}

func TestDump(t *testing.T) {
	loc := Loc{Line: 2}
	x := NewSymbol(1, "x", Vector(BasicFloat, PrecisionHigh, QualTemporary, 2), loc)
	vals := NewConstantUnion(NewConstantBuffer([]Constant{FloatConst(1), FloatConst(0.5)}),
		Vector(BasicFloat, PrecisionHigh, QualConst, 2), loc)
	assign := NewBinary(OpAssign, x, vals, loc)
	assign.SetType(*x.Type())
	root := NewAggregate(OpSequence, loc, assign)

	got := Dump(root)
	for _, want := range []string{
		"0:2: Sequence",
		"0:2:   move second child to first child (2-component vector of float)",
		"0:2:     'x' (2-component vector of float)",
		"0:2:     0.5 (const float)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("dump missing %q:\n%s", want, got)
		}
	}
}

func typePtr(t Type) *Type { return &t }
