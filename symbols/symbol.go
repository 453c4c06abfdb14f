// Package symbols implements the scoped symbol table of the GLSL ES
// front-end: variables, functions and interface block names, the
// built-in declarations of each shader stage, default precisions and the
// set of invariant varyings.
package symbols

import (
	"strings"
	"sync/atomic"

	"github.com/gogpu/essl/ir"
)

var uniqueID atomic.Int64

// NextUniqueID returns a process-wide unique, increasing ID. It is safe
// for concurrent use, so independent compiles may run in parallel.
func NextUniqueID() int {
	return int(uniqueID.Add(1))
}

// Symbol is an entry of the symbol table: *Variable, *Function or
// *InterfaceBlockName.
type Symbol interface {
	ID() int
	Name() string
	symbol()
}

type symbolBase struct {
	id   int
	name string
}

func (s *symbolBase) ID() int      { return s.id }
func (s *symbolBase) Name() string { return s.name }
func (s *symbolBase) symbol()      {}

// Variable is a declared variable, a built-in variable, or a user-defined
// type name (UserType set).
type Variable struct {
	symbolBase
	Type      ir.Type
	UserType  bool
	Extension string

	consts ir.ConstantBuffer
}

// NewVariable creates a variable symbol with a fresh unique ID.
func NewVariable(name string, t ir.Type) *Variable {
	return &Variable{symbolBase: symbolBase{id: NextUniqueID(), name: name}, Type: t}
}

// NewUserType creates the symbol that makes a struct name usable as a type.
func NewUserType(name string, t ir.Type) *Variable {
	v := NewVariable(name, t)
	v.UserType = true
	return v
}

// ConstBuffer returns the value of a const variable; it is nil until an
// initializer has been folded.
func (v *Variable) ConstBuffer() ir.ConstantBuffer { return v.consts }

// ShareConstBuffer makes v refer to buf without copying it.
func (v *Variable) ShareConstBuffer(buf ir.ConstantBuffer) { v.consts = buf }

// DemoteConst turns a const variable whose initializer is not constant
// into a temporary so that later uses do not cascade errors.
func (v *Variable) DemoteConst() {
	if v.Type.Qualifier == ir.QualConst {
		v.Type.Qualifier = ir.QualTemporary
	}
}

// Param is a function parameter. Type.Qualifier is one of QualIn, QualOut,
// QualInOut or QualConstReadOnly. Name is empty for unnamed parameters.
type Param struct {
	Name string
	Type ir.Type
}

// Function is a user-defined or built-in function. Built-ins that map
// directly to an operator carry it in Op; others use ir.OpNull.
type Function struct {
	symbolBase
	Return    ir.Type
	Params    []Param
	Op        ir.Operator
	Defined   bool
	Extension string

	mangled string
}

// NewFunction creates a function with no parameters.
func NewFunction(name string, ret ir.Type, op ir.Operator) *Function {
	return &Function{
		symbolBase: symbolBase{id: NextUniqueID(), name: name},
		Return:     ret,
		Op:         op,
		mangled:    name + "(",
	}
}

// AddParam appends a parameter and extends the mangled name.
func (f *Function) AddParam(p Param) {
	f.Params = append(f.Params, p)
	f.mangled += p.Type.MangledName() + ";"
}

// MangledName is "name(" followed by each parameter's mangled type and ';'.
func (f *Function) MangledName() string { return f.mangled }

// ParamCount is the number of parameters.
func (f *Function) ParamCount() int { return len(f.Params) }

// MangledCallName builds the lookup key for a call with the given
// argument types.
func MangledCallName(name string, args []*ir.Type) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for _, a := range args {
		b.WriteString(a.MangledName())
		b.WriteByte(';')
	}
	return b.String()
}

// InterfaceBlockName reserves the name of an interface block.
type InterfaceBlockName struct {
	symbolBase
}

// NewInterfaceBlockName creates a block-name symbol.
func NewInterfaceBlockName(name string) *InterfaceBlockName {
	return &InterfaceBlockName{symbolBase: symbolBase{id: NextUniqueID(), name: name}}
}
