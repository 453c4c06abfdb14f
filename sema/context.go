// Package sema implements the semantic actions of the GLSL ES front-end.
//
// A Context is driven by the grammar: each reduction calls one of its
// methods, which checks the construct, reports problems through the
// diagnostics sink and returns the IR for it. Checks never abort. After
// reporting, they substitute a usable value (a clamped index, a sentinel
// array size, a demoted qualifier) so that parsing can continue and every
// problem in a shader is reported in one pass.
package sema

import (
	"fmt"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// Behavior is the state of an extension set by #extension.
type Behavior uint8

const (
	BehaviorRequire Behavior = iota
	BehaviorEnable
	BehaviorWarn
	BehaviorDisable
	BehaviorUndefined
)

func (b Behavior) String() string {
	switch b {
	case BehaviorRequire:
		return "require"
	case BehaviorEnable:
		return "enable"
	case BehaviorWarn:
		return "warn"
	case BehaviorDisable:
		return "disable"
	}
	return "undefined"
}

// ParseBehavior maps the behavior word of an #extension directive.
func ParseBehavior(s string) Behavior {
	switch s {
	case "require":
		return BehaviorRequire
	case "enable":
		return BehaviorEnable
	case "warn":
		return BehaviorWarn
	case "disable":
		return BehaviorDisable
	}
	return BehaviorUndefined
}

// Pragma holds the state set by #pragma directives.
type Pragma struct {
	Optimize     bool
	Debug        bool
	InvariantAll bool
}

// Config selects the stage, dialect and limits a Context compiles for.
type Config struct {
	ShaderType symbols.ShaderType
	Spec       symbols.Spec
	Resources  symbols.Resources

	// ChecksPrecisionErrors reports declarations of float or int
	// variables that end up without any precision.
	ChecksPrecisionErrors bool

	// Trace records every semantic action on the sink's debug channel.
	Trace bool
}

// Context is the state of one compile. It is not safe for concurrent
// use; independent compiles use independent contexts.
type Context struct {
	cfg   Config
	sink  *diag.Sink
	table *symbols.Table

	shaderVersion int
	versionSet    bool

	// LoopNestingLevel counts enclosing loops; break and continue are
	// only valid when it is positive.
	LoopNestingLevel int
	// StructNestingLevel counts enclosing struct declarations.
	StructNestingLevel int

	currentFunctionType  *ir.Type
	functionReturnsValue bool

	defaultMatrixPacking ir.MatrixPacking
	defaultBlockStorage  ir.BlockStorage

	extensions map[string]Behavior
	pragma     Pragma

	treeRoot ir.Node
}

// NewContext returns a context with the built-ins for cfg declared and the
// global scope open.
func NewContext(cfg Config) *Context {
	table := symbols.New()
	table.InitBuiltIns(cfg.ShaderType, cfg.Spec, cfg.Resources)

	c := &Context{
		cfg:                  cfg,
		sink:                 diag.NewSink(),
		table:                table,
		shaderVersion:        symbols.Version100,
		defaultMatrixPacking: ir.PackingColumnMajor,
		defaultBlockStorage:  ir.StorageShared,
		extensions:           make(map[string]Behavior),
		pragma:               Pragma{Optimize: true},
	}
	for _, ext := range cfg.Resources.Extensions() {
		c.extensions[ext] = BehaviorUndefined
	}
	return c
}

// Sink returns the diagnostics of this compile.
func (c *Context) Sink() *diag.Sink { return c.sink }

// Symbols returns the symbol table.
func (c *Context) Symbols() *symbols.Table { return c.table }

// ShaderType returns the stage being compiled.
func (c *Context) ShaderType() symbols.ShaderType { return c.cfg.ShaderType }

// Spec returns the dialect being compiled.
func (c *Context) Spec() symbols.Spec { return c.cfg.Spec }

// ShaderVersion is 100 unless a #version directive selected 300.
func (c *Context) ShaderVersion() int { return c.shaderVersion }

// Pragma returns the pragma state.
func (c *Context) Pragma() Pragma { return c.pragma }

// ExtensionBehavior returns the current behavior of every supported
// extension.
func (c *Context) ExtensionBehavior() map[string]Behavior { return c.extensions }

// TreeRoot returns the root set by SetTreeRoot.
func (c *Context) TreeRoot() ir.Node { return c.treeRoot }

// NumErrors is the number of errors reported so far.
func (c *Context) NumErrors() int { return c.sink.NumErrors() }

// Error reports an error.
func (c *Context) Error(loc ir.Loc, reason, token string, extra ...string) {
	c.sink.WriteInfo(diag.Error, loc, reason, token, joinExtra(extra))
}

// Warning reports a warning.
func (c *Context) Warning(loc ir.Loc, reason, token string, extra ...string) {
	c.sink.WriteInfo(diag.Warning, loc, reason, token, joinExtra(extra))
}

// Trace records text on the debug channel when tracing is on.
func (c *Context) Trace(format string, args ...any) {
	if c.cfg.Trace {
		c.sink.WriteDebug(fmt.Sprintf(format, args...))
	}
}

func joinExtra(extra []string) string {
	if len(extra) == 0 {
		return ""
	}
	return extra[0]
}

func (c *Context) assignError(loc ir.Loc, op, left, right string) {
	c.Error(loc, "", op, fmt.Sprintf("cannot convert from '%s' to '%s'", right, left))
}

func (c *Context) unaryOpError(loc ir.Loc, op, operand string) {
	c.Error(loc, " wrong operand type", op,
		fmt.Sprintf("no operation '%s' exists that takes an operand of type %s (or there is no acceptable conversion)", op, operand))
}

func (c *Context) binaryOpError(loc ir.Loc, op, left, right string) {
	c.Error(loc, " wrong operand types ", op,
		fmt.Sprintf("no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s' (or there is no acceptable conversion)", op, left, right))
}

// HandleVersion applies a #version directive.
func (c *Context) HandleVersion(loc ir.Loc, version int) {
	if version == symbols.Version100 || version == symbols.Version300 {
		c.shaderVersion = version
		c.versionSet = true
		return
	}
	c.Error(loc, "version number", fmt.Sprint(version), "not supported")
}

// HandleExtensionDirective applies "#extension name : behavior".
func (c *Context) HandleExtensionDirective(loc ir.Loc, name, behavior string) {
	b := ParseBehavior(behavior)
	if b == BehaviorUndefined {
		c.Error(loc, "behavior", name, "invalid")
		return
	}

	if name == "all" {
		switch b {
		case BehaviorRequire:
			c.Error(loc, "extension", name, "cannot have 'require' behavior")
		case BehaviorEnable:
			c.Error(loc, "extension", name, "cannot have 'enable' behavior")
		default:
			for ext := range c.extensions {
				c.extensions[ext] = b
			}
		}
		return
	}

	if _, ok := c.extensions[name]; ok {
		c.extensions[name] = b
		return
	}

	if b == BehaviorRequire {
		c.Error(loc, "extension", name, "is not supported")
	} else {
		c.Warning(loc, "extension", name, "is not supported")
	}
}

// HandlePragmaDirective applies "#pragma name(value)". stdgl is set for
// pragmas prefixed by STDGL, which are accepted silently when unknown.
func (c *Context) HandlePragmaDirective(loc ir.Loc, name, value string, stdgl bool) {
	if stdgl {
		if name == "invariant" && value == "all" {
			c.pragma.InvariantAll = true
			c.table.SetGlobalInvariant()
		}
		return
	}

	var target *bool
	switch name {
	case "optimize":
		target = &c.pragma.Optimize
	case "debug":
		target = &c.pragma.Debug
	default:
		c.Warning(loc, "unrecognized pragma", name)
		return
	}
	switch value {
	case "on":
		*target = true
	case "off":
		*target = false
	default:
		c.Error(loc, "invalid pragma value", value, "'on' or 'off' expected")
	}
}

// SupportsExtension reports whether the implementation supports ext.
func (c *Context) SupportsExtension(ext string) bool {
	_, ok := c.extensions[ext]
	return ok
}

// IsExtensionEnabled reports whether ext was enabled or required.
func (c *Context) IsExtensionEnabled(ext string) bool {
	b, ok := c.extensions[ext]
	return ok && (b == BehaviorEnable || b == BehaviorRequire)
}

// ExtensionErrorCheck reports use of an extension that is unsupported or
// disabled, and warns when its behavior is warn.
func (c *Context) ExtensionErrorCheck(loc ir.Loc, ext string) bool {
	b, ok := c.extensions[ext]
	if !ok {
		c.Error(loc, "extension", ext, "is not supported")
		return true
	}
	switch b {
	case BehaviorDisable, BehaviorUndefined:
		c.Error(loc, "extension", ext, "is disabled")
		return true
	case BehaviorWarn:
		c.Warning(loc, "extension", ext, "is being used")
	}
	return false
}

// SetTreeRoot records the translation unit. A root that is not a sequence
// is wrapped in one.
func (c *Context) SetTreeRoot(root ir.Node) {
	if ir.IsNil(root) {
		c.treeRoot = nil
		return
	}
	if agg := ir.AsAggregate(root); agg != nil && agg.Op == ir.OpSequence {
		c.treeRoot = agg
		return
	}
	c.treeRoot = ir.NewAggregate(ir.OpSequence, root.Pos(), root)
}
