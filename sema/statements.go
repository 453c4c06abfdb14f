package sema

import (
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// PushScope opens a block scope.
func (c *Context) PushScope() { c.table.Push() }

// PopScope closes the innermost block scope.
func (c *Context) PopScope() { c.table.Pop() }

// AddCompoundStatement turns the statement list of a block into a
// sequence node; an empty block yields nil.
func (c *Context) AddCompoundStatement(stmts []ir.Node, loc ir.Loc) ir.Node {
	var agg *ir.Aggregate
	for _, s := range stmts {
		agg = growAggregate(agg, s, loc)
	}
	if agg == nil {
		return nil
	}
	return setAggregateOperator(agg, ir.OpSequence, loc)
}

// AddIfStatement builds "if (cond) t else f"; f may be nil.
func (c *Context) AddIfStatement(cond ir.Typed, t, f ir.Node, loc ir.Loc) ir.Node {
	c.BoolErrorCheck(loc, cond)
	return c.addSelection(cond, t, f, loc)
}

// AddConditionDeclaration handles "type name = init" used as the condition
// of a while or for loop.
func (c *Context) AddConditionDeclaration(pt ir.PublicType, ident string, loc ir.Loc, init ir.Typed) ir.Typed {
	c.StructQualifierErrorCheck(loc, &pt)
	c.BoolTypeErrorCheck(loc, &pt)

	node, failed := c.ExecuteInitializer(loc, ident, &pt, init)
	if failed {
		return nil
	}
	n, _ := node.(ir.Typed)
	return n
}

// BeginLoop is called when a loop header is entered. For and while loops
// get a scope for declarations made in their header.
func (c *Context) BeginLoop(kind ir.LoopKind) {
	if kind != ir.LoopDoWhile {
		c.table.Push()
	}
	c.LoopNestingLevel++
}

// EndLoop builds the loop node and undoes BeginLoop.
func (c *Context) EndLoop(kind ir.LoopKind, init ir.Node, cond, expr ir.Typed, body ir.Node, loc ir.Loc) *ir.Loop {
	if kind == ir.LoopDoWhile && !ir.IsNil(cond) {
		c.BoolErrorCheck(loc, cond)
	}
	if kind != ir.LoopDoWhile {
		c.table.Pop()
	}
	c.LoopNestingLevel--
	return c.addLoop(kind, init, cond, expr, body, loc)
}

// AddBranch builds break, continue or discard.
func (c *Context) AddBranch(op ir.Operator, loc ir.Loc) ir.Node {
	switch op {
	case ir.OpContinue:
		if c.LoopNestingLevel <= 0 {
			c.Error(loc, "continue statement only allowed in loops", "")
		}
	case ir.OpBreak:
		if c.LoopNestingLevel <= 0 {
			c.Error(loc, "break statement only allowed in loops", "")
		}
	case ir.OpKill:
		if c.cfg.ShaderType != symbols.FragmentShader {
			c.Error(loc, " supported in fragment shaders only ", "discard")
		}
	case ir.OpReturn:
		if c.currentFunctionType != nil && c.currentFunctionType.Basic != ir.BasicVoid {
			c.Error(loc, "non-void function must return a value", "return")
		}
	}
	return c.addBranch(op, nil, loc)
}

// AddReturn builds "return expr".
func (c *Context) AddReturn(expr ir.Typed, loc ir.Loc) ir.Node {
	c.functionReturnsValue = true
	switch {
	case c.currentFunctionType == nil || c.currentFunctionType.Basic == ir.BasicVoid:
		c.Error(loc, "void function cannot return a value", "return")
	case !c.currentFunctionType.Equal(expr.Type()):
		c.Error(loc, "function return is not matching type:", "return")
	}
	return c.addBranch(ir.OpReturn, expr, loc)
}

// SyntaxError reports an unexpected token.
func (c *Context) SyntaxError(loc ir.Loc, token string) {
	c.Error(loc, "syntax error", token)
}

// AddTranslationUnit combines the external declarations into the root
// node of the shader.
func (c *Context) AddTranslationUnit(decls []ir.Node, loc ir.Loc) *ir.Aggregate {
	var agg *ir.Aggregate
	for _, d := range decls {
		agg = growAggregate(agg, d, loc)
	}
	root := setAggregateOperator(agg, ir.OpSequence, loc)
	c.SetTreeRoot(root)
	return root
}
