package ir

// Node is a node of the intermediate tree. The set of node kinds is
// closed: *Symbol, *ConstantUnion, *Unary, *Binary, *Aggregate,
// *Selection, *Loop and *Branch.
type Node interface {
	Pos() Loc
	SetPos(Loc)
	node()
}

// Typed is a node that produces a value.
type Typed interface {
	Node
	Type() *Type
	SetType(Type)
}

type base struct {
	loc Loc
}

func (b *base) Pos() Loc     { return b.loc }
func (b *base) SetPos(l Loc) { b.loc = l }
func (b *base) node()        {}

type typed struct {
	base
	typ Type
}

func (t *typed) Type() *Type     { return &t.typ }
func (t *typed) SetType(ty Type) { t.typ = ty }

// Symbol references a variable by unique ID.
type Symbol struct {
	typed
	ID   int
	Name string
}

// NewSymbol creates a symbol reference node.
func NewSymbol(id int, name string, t Type, loc Loc) *Symbol {
	n := &Symbol{ID: id, Name: name}
	n.typ = t
	n.loc = loc
	return n
}

// ConstantUnion is a folded compile-time value.
type ConstantUnion struct {
	typed
	Values ConstantBuffer
}

// NewConstantUnion creates a constant node over vals. The buffer is
// shared, not copied.
func NewConstantUnion(vals ConstantBuffer, t Type, loc Loc) *ConstantUnion {
	n := &ConstantUnion{Values: vals}
	n.typ = t
	n.loc = loc
	return n
}

// IConst returns component i as an int.
func (c *ConstantUnion) IConst(i int) int {
	if i >= c.Values.Len() {
		return 0
	}
	return c.Values.At(i).Int()
}

// BConst returns component i as a bool.
func (c *ConstantUnion) BConst(i int) bool {
	if i >= c.Values.Len() {
		return false
	}
	return c.Values.At(i).Cast(BasicBool).B
}

// Unary is a one-operand operation, including built-in calls that take a
// single argument.
type Unary struct {
	typed
	Op      Operator
	Operand Typed
}

// NewUnary creates a unary node. Its type is left for the caller to set.
func NewUnary(op Operator, operand Typed, loc Loc) *Unary {
	n := &Unary{Op: op, Operand: operand}
	n.loc = loc
	return n
}

// Binary is a two-operand operation: arithmetic, comparison, indexing,
// swizzles and assignments.
type Binary struct {
	typed
	Op    Operator
	Left  Typed
	Right Typed
}

// NewBinary creates a binary node. Its type is left for the caller to set.
func NewBinary(op Operator, left, right Typed, loc Loc) *Binary {
	n := &Binary{Op: op, Left: left, Right: right}
	n.loc = loc
	return n
}

// Aggregate is an n-ary node: sequences, declarations, constructors,
// function calls and function definitions.
type Aggregate struct {
	typed
	Op          Operator
	Sequence    []Node
	Name        string
	UserDefined bool
	Optimize    bool
	Debug       bool
}

// NewAggregate creates an aggregate with the given children.
func NewAggregate(op Operator, loc Loc, seq ...Node) *Aggregate {
	n := &Aggregate{Op: op, Sequence: seq}
	n.typ = Scalar(BasicVoid, PrecisionUndefined, QualTemporary)
	n.loc = loc
	return n
}

// Append adds a child; nil is ignored.
func (a *Aggregate) Append(n Node) {
	if n == nil || isNilNode(n) {
		return
	}
	a.Sequence = append(a.Sequence, n)
}

// IsConstructor reports whether the aggregate is a constructor call.
func (a *Aggregate) IsConstructor() bool {
	return a.Op.IsConstructor()
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Symbol:
		return v == nil
	case *ConstantUnion:
		return v == nil
	case *Unary:
		return v == nil
	case *Binary:
		return v == nil
	case *Aggregate:
		return v == nil
	case *Selection:
		return v == nil
	case *Loop:
		return v == nil
	case *Branch:
		return v == nil
	}
	return n == nil
}

// IsNil reports whether n is nil or a typed nil pointer.
func IsNil(n Node) bool {
	return n == nil || isNilNode(n)
}

// AsConstant returns n as a constant node, or nil.
func AsConstant(n Node) *ConstantUnion {
	c, _ := n.(*ConstantUnion)
	return c
}

// AsSymbol returns n as a symbol node, or nil.
func AsSymbol(n Node) *Symbol {
	s, _ := n.(*Symbol)
	return s
}

// AsAggregate returns n as an aggregate node, or nil.
func AsAggregate(n Node) *Aggregate {
	a, _ := n.(*Aggregate)
	return a
}
