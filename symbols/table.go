package symbols

import (
	"github.com/gogpu/essl/ir"
)

// BuiltInLevel and GlobalLevel are the fixed outer levels of a Table.
const (
	BuiltInLevel = 0
	GlobalLevel  = 1
)

type entry struct {
	sym Symbol
	// minVersion and maxVersion restrict built-ins to shader versions;
	// zero means unrestricted.
	minVersion int
	maxVersion int
}

func (e entry) visible(version int) bool {
	if e.minVersion != 0 && version < e.minVersion {
		return false
	}
	if e.maxVersion != 0 && version > e.maxVersion {
		return false
	}
	return true
}

type level struct {
	entries   map[string]entry
	precision map[ir.BasicType]ir.Precision
}

func newLevel() *level {
	return &level{
		entries:   make(map[string]entry),
		precision: make(map[ir.BasicType]ir.Precision),
	}
}

// Table is a stack of scopes. Level 0 holds the built-ins and is not
// modified once InitBuiltIns has run; level 1 is the global scope of the
// shader being compiled.
type Table struct {
	levels []*level

	invariantVaryings map[string]bool
	globalInvariant   bool
}

// New returns a table containing only an empty built-in level.
func New() *Table {
	t := &Table{invariantVaryings: make(map[string]bool)}
	t.Push()
	return t
}

// Push opens a new innermost scope.
func (t *Table) Push() {
	t.levels = append(t.levels, newLevel())
}

// Pop closes the innermost scope. The built-in level is never popped.
func (t *Table) Pop() {
	if len(t.levels) > 1 {
		t.levels = t.levels[:len(t.levels)-1]
	}
}

// Level is the index of the innermost scope.
func (t *Table) Level() int { return len(t.levels) - 1 }

// AtBuiltInLevel reports whether only the built-in level is open.
func (t *Table) AtBuiltInLevel() bool { return t.Level() <= BuiltInLevel }

// AtGlobalLevel reports whether the innermost scope is the global one (or
// the built-in one).
func (t *Table) AtGlobalLevel() bool { return t.Level() <= GlobalLevel }

// Declare inserts sym into the innermost scope and reports whether it
// was added. It fails when the name is already bound in that scope.
// Functions are keyed by mangled name; their plain name is also bound so
// a variable and a function cannot share a name in one scope, while
// overloads can.
func (t *Table) Declare(sym Symbol) bool {
	return t.insert(t.levels[len(t.levels)-1], sym, 0, 0)
}

func (t *Table) insert(l *level, sym Symbol, minVersion, maxVersion int) bool {
	e := entry{sym: sym, minVersion: minVersion, maxVersion: maxVersion}
	fn, isFunc := sym.(*Function)
	if !isFunc {
		if _, ok := l.entries[sym.Name()]; ok {
			return false
		}
		l.entries[sym.Name()] = e
		return true
	}

	if prev, ok := l.entries[fn.Name()]; ok {
		if _, prevFunc := prev.sym.(*Function); !prevFunc {
			return false
		}
	} else {
		l.entries[fn.Name()] = e
	}
	if _, ok := l.entries[fn.MangledName()]; ok {
		return false
	}
	l.entries[fn.MangledName()] = e
	return true
}

// Find looks name up from the innermost scope outwards. builtIn reports
// whether the hit came from the built-in level and sameScope whether it
// came from the innermost scope. Built-ins not available in the given
// shader version are skipped.
func (t *Table) Find(name string, version int) (sym Symbol, builtIn, sameScope bool) {
	for i := len(t.levels) - 1; i >= 0; i-- {
		e, ok := t.levels[i].entries[name]
		if !ok || !e.visible(version) {
			continue
		}
		return e.sym, i == BuiltInLevel, i == len(t.levels)-1
	}
	return nil, false, false
}

// FindBuiltIn looks name up in the built-in level only.
func (t *Table) FindBuiltIn(name string, version int) Symbol {
	e, ok := t.levels[BuiltInLevel].entries[name]
	if !ok || !e.visible(version) {
		return nil
	}
	return e.sym
}

// IsTypeName reports whether name resolves to a user-defined type.
func (t *Table) IsTypeName(name string, version int) bool {
	sym, _, _ := t.Find(name, version)
	v, ok := sym.(*Variable)
	return ok && v.UserType
}

func supportsPrecision(b ir.BasicType) bool {
	return b == ir.BasicFloat || b == ir.BasicInt || b == ir.BasicUInt || b.IsSampler()
}

// SetDefaultPrecision records a default precision for basic in the
// innermost scope. It returns false for types that take no precision.
func (t *Table) SetDefaultPrecision(basic ir.BasicType, prec ir.Precision) bool {
	if !supportsPrecision(basic) {
		return false
	}
	t.levels[len(t.levels)-1].precision[basic] = prec
	return true
}

// DefaultPrecision returns the innermost default precision for basic.
// Unsigned integers share the signed integer default.
func (t *Table) DefaultPrecision(basic ir.BasicType) ir.Precision {
	if !supportsPrecision(basic) {
		return ir.PrecisionUndefined
	}
	if basic == ir.BasicUInt {
		basic = ir.BasicInt
	}
	for i := len(t.levels) - 1; i >= 0; i-- {
		if p, ok := t.levels[i].precision[basic]; ok {
			return p
		}
	}
	return ir.PrecisionUndefined
}

// AddInvariantVarying marks a varying as declared invariant.
func (t *Table) AddInvariantVarying(name string) {
	t.invariantVaryings[name] = true
}

// IsInvariantVarying reports whether name was declared invariant, either
// directly or through "#pragma STDGL invariant(all)".
func (t *Table) IsInvariantVarying(name string) bool {
	return t.globalInvariant || t.invariantVaryings[name]
}

// SetGlobalInvariant makes every varying invariant.
func (t *Table) SetGlobalInvariant() {
	t.globalInvariant = true
}

// DeclareOuter inserts sym into the scope enclosing the innermost one.
// Function prototypes are parsed inside the parameter scope but belong to
// the scope that contains the function.
func (t *Table) DeclareOuter(sym Symbol) bool {
	if len(t.levels) < 2 {
		return t.Declare(sym)
	}
	return t.insert(t.levels[len(t.levels)-2], sym, 0, 0)
}
