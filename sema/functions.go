package sema

import (
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/symbols"
)

// GetNamedVariable returns sym as a variable. Names that do not resolve to
// a variable are reported and declared as a float so that later uses do
// not report again.
func (c *Context) GetNamedVariable(loc ir.Loc, name string, sym symbols.Symbol) *symbols.Variable {
	switch s := sym.(type) {
	case nil:
		c.Error(loc, "undeclared identifier", name)
	case *symbols.Variable:
		if !s.UserType {
			if _, builtIn, _ := c.table.Find(name, c.shaderVersion); builtIn && s.Extension != "" {
				c.ExtensionErrorCheck(loc, s.Extension)
			}
			return s
		}
		c.Error(loc, "variable expected", name)
	default:
		c.Error(loc, "variable expected", name)
	}

	v := symbols.NewVariable(name, ir.Scalar(ir.BasicFloat, ir.PrecisionUndefined, ir.QualTemporary))
	c.table.Declare(v)
	return v
}

// FindFunction resolves a call. The plain name is looked up first so that
// a variable or struct hiding the function is reported as such; otherwise
// the overload is picked by mangled name.
func (c *Context) FindFunction(loc ir.Loc, call *symbols.Function) (*symbols.Function, bool) {
	sym, builtIn, _ := c.table.Find(call.Name(), c.shaderVersion)
	if _, isFunc := sym.(*symbols.Function); sym == nil || isFunc {
		sym, builtIn, _ = c.table.Find(call.MangledName(), c.shaderVersion)
	}
	if sym == nil {
		c.Error(loc, "no matching overloaded function found", call.Name())
		return nil, false
	}
	fn, ok := sym.(*symbols.Function)
	if !ok {
		c.Error(loc, "function name expected", call.Name())
		return nil, false
	}
	return fn, builtIn
}

// AddFunctionName starts a call to a named function. Arguments are added
// by AddFunctionCall.
func (c *Context) AddFunctionName(loc ir.Loc, name string) *symbols.Function {
	c.ReservedErrorCheck(loc, name)
	return symbols.NewFunction(name, ir.Scalar(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary), ir.OpNull)
}

// AddFunctionCall builds a call of fn, which comes from AddFunctionName
// or AddConstructorFunc. Built-ins that map to an operator become unary
// or aggregate operator nodes; everything else becomes an OpFunctionCall
// aggregate named by the callee's mangled name.
func (c *Context) AddFunctionCall(fn *symbols.Function, args []ir.Typed, loc ir.Loc) ir.Typed {
	for _, a := range args {
		fn.AddParam(symbols.Param{Type: *a.Type()})
	}

	if op := fn.Op; op != ir.OpNull {
		t, failed := c.ConstructorErrorCheck(loc, args, fn, op)
		var n ir.Typed
		if !failed {
			n = c.AddConstructor(args, t, op, loc)
		}
		if ir.IsNil(n) {
			n = setAggregateOperator(nil, op, loc)
		}
		n.SetType(t)
		return n
	}

	callee, builtIn := c.FindFunction(loc, fn)
	if callee == nil {
		return ir.NewConstantUnion(ir.SingleConstant(ir.FloatConst(0)),
			ir.Scalar(ir.BasicFloat, ir.PrecisionUndefined, ir.QualConst), loc)
	}
	if builtIn && callee.Extension != "" {
		c.ExtensionErrorCheck(loc, callee.Extension)
	}

	ret := callee.Return
	if builtIn && ret.Precision == ir.PrecisionUndefined && ret.Basic != ir.BasicBool && ret.Basic != ir.BasicVoid {
		for _, a := range args {
			ret.Precision = ir.HigherPrecision(ret.Precision, a.Type().Precision)
		}
	}

	var n ir.Typed
	switch {
	case builtIn && callee.Op != ir.OpNull && callee.ParamCount() == 1:
		n = c.addUnaryMath(callee.Op, args[0], loc)
		if ir.IsNil(n) {
			c.Error(args[0].Pos(), " wrong operand type", "Internal Error",
				"built in unary operator function.  Type: "+args[0].Type().CompleteString())
			return floatConstant(0, loc)
		}
	case builtIn && callee.Op != ir.OpNull:
		n = setAggregateOperator(argsAggregate(args, loc), callee.Op, loc)
	default:
		agg := setAggregateOperator(argsAggregate(args, loc), ir.OpFunctionCall, loc)
		agg.Name = callee.MangledName()
		agg.UserDefined = !builtIn
		for i, p := range callee.Params {
			q := p.Type.Qualifier
			if (q == ir.QualOut || q == ir.QualInOut) && i < len(args) {
				if c.LValueErrorCheck(loc, "assign", args[i]) {
					c.Error(args[i].Pos(), "Constant value cannot be passed for 'out' or 'inout' parameters.", "Error")
				}
			}
		}
		n = agg
	}
	n.SetType(ret)
	return n
}

func argsAggregate(args []ir.Typed, loc ir.Loc) *ir.Aggregate {
	agg := ir.NewAggregate(ir.OpNull, loc)
	for _, a := range args {
		agg.Append(a)
	}
	return agg
}

// ParseFunctionHeader handles "type name(" and opens the parameter scope.
func (c *Context) ParseFunctionHeader(pt ir.PublicType, name string, loc ir.Loc) *symbols.Function {
	if pt.Qualifier != ir.QualGlobal && pt.Qualifier != ir.QualTemporary {
		c.Error(loc, "no qualifiers allowed for function return", pt.Qualifier.String())
	}
	c.StructQualifierErrorCheck(loc, &pt)

	fn := symbols.NewFunction(name, pt.Type(), ir.OpNull)
	c.table.Push()
	return fn
}

// AddParameter adds p to fn. A void parameter is dropped; it is only
// legal as the sole "(void)" parameter.
func (c *Context) AddParameter(fn *symbols.Function, p symbols.Param, loc ir.Loc, first bool) {
	if p.Type.Basic == ir.BasicVoid {
		if !first {
			c.Error(loc, "cannot be an argument type except for '(void)'", "void")
		}
		return
	}
	fn.AddParam(p)
}

// ParseParameterDeclarator handles "type name" in a parameter list.
func (c *Context) ParseParameterDeclarator(pt ir.PublicType, name string, loc ir.Loc) symbols.Param {
	if pt.Basic == ir.BasicVoid {
		c.Error(loc, "illegal use of type 'void'", name)
	}
	c.ReservedErrorCheck(loc, name)
	return symbols.Param{Name: name, Type: pt.Type()}
}

// ParseParameterArrayDeclarator handles "type name[size]".
func (c *Context) ParseParameterArrayDeclarator(pt ir.PublicType, name string, loc, arrayLoc ir.Loc, size ir.Typed) symbols.Param {
	c.ArrayTypeErrorCheck(arrayLoc, &pt)
	c.ReservedErrorCheck(loc, name)
	n, _ := c.ArraySizeErrorCheck(arrayLoc, size)
	pt.SetArray(true, n)
	return symbols.Param{Name: name, Type: pt.Type()}
}

// ApplyParameterQualifiers sets the qualifier of p from an optional const
// and an optional in, out or inout. typeQual is QualTemporary when const
// is absent.
func (c *Context) ApplyParameterQualifiers(loc ir.Loc, typeQual, paramQual ir.Qualifier, p symbols.Param) symbols.Param {
	if typeQual == ir.QualTemporary {
		c.ParameterSamplerErrorCheck(loc, paramQual, &p.Type)
	}
	c.ParamErrorCheck(loc, typeQual, paramQual, &p.Type)
	return p
}

// ParseFunctionDeclarator finishes a prototype and declares the function
// in the scope enclosing its parameters.
func (c *Context) ParseFunctionDeclarator(fn *symbols.Function, loc ir.Loc) *symbols.Function {
	if prev, _, _ := c.table.Find(fn.MangledName(), c.shaderVersion); prev != nil {
		if prevFn, ok := prev.(*symbols.Function); ok {
			if !prevFn.Return.Equal(&fn.Return) {
				c.Error(loc, "overloaded functions must have the same return type", fn.Return.Basic.String())
			}
			for i, p := range prevFn.Params {
				if i < len(fn.Params) && p.Type.Qualifier != fn.Params[i].Type.Qualifier {
					c.Error(loc, "overloaded functions must have the same parameter qualifiers", fn.Params[i].Type.Qualifier.String())
				}
			}
		}
	}

	if prev, _, _ := c.table.Find(fn.Name(), c.shaderVersion); prev != nil {
		if _, ok := prev.(*symbols.Function); !ok {
			c.Error(loc, "redefinition", fn.Name(), "function")
		}
	}

	// A repeated prototype is not an error; the first declaration stays.
	c.table.DeclareOuter(fn)
	return fn
}

func (c *Context) paramSymbols(agg *ir.Aggregate, fn *symbols.Function, loc ir.Loc, declare bool) {
	for _, p := range fn.Params {
		if p.Name == "" {
			agg.Append(c.addSymbol(0, "", p.Type, loc))
			continue
		}
		v := symbols.NewVariable(p.Name, p.Type)
		if declare && !c.table.Declare(v) {
			c.Error(loc, "redefinition", v.Name())
		}
		agg.Append(c.addSymbol(v.ID(), v.Name(), v.Type, loc))
	}
}

// ParseFunctionPrototype handles a prototype followed by ';' and closes
// the parameter scope.
func (c *Context) ParseFunctionPrototype(fn *symbols.Function, loc ir.Loc) *ir.Aggregate {
	agg := ir.NewAggregate(ir.OpPrototype, loc)
	agg.SetType(fn.Return)
	agg.Name = fn.MangledName()
	c.paramSymbols(agg, fn, loc, false)
	c.table.Pop()
	return agg
}

// ParseFunctionDefinitionHeader runs before the body of a function is
// parsed. It declares the parameters in the open parameter scope and
// returns their OpParameters node.
func (c *Context) ParseFunctionDefinitionHeader(fn *symbols.Function, loc ir.Loc) *ir.Aggregate {
	if c.table.FindBuiltIn(fn.MangledName(), c.shaderVersion) != nil {
		c.Error(loc, "built-in functions cannot be redefined", fn.Name())
	}

	decl := fn
	if prev, _, _ := c.table.Find(fn.MangledName(), c.shaderVersion); prev != nil {
		if prevFn, ok := prev.(*symbols.Function); ok {
			decl = prevFn
		}
	}
	if decl.Defined {
		c.Error(loc, "function already has a body", fn.Name())
	}
	decl.Defined = true

	if fn.Name() == "main" {
		if fn.ParamCount() > 0 {
			c.Error(loc, "function cannot take any parameter(s)", fn.Name())
		}
		if fn.Return.Basic != ir.BasicVoid {
			c.Error(loc, "", fn.Return.Basic.String(), "main function cannot return a value")
		}
	}

	ret := decl.Return
	c.currentFunctionType = &ret
	c.functionReturnsValue = false

	params := ir.NewAggregate(ir.OpParameters, loc)
	c.paramSymbols(params, fn, loc, true)
	c.LoopNestingLevel = 0
	return params
}

// ParseFunctionDefinition combines the parameters and the body into an
// OpFunction node and closes the function scope.
func (c *Context) ParseFunctionDefinition(fn *symbols.Function, params *ir.Aggregate, body ir.Node, loc ir.Loc) *ir.Aggregate {
	if c.currentFunctionType != nil && c.currentFunctionType.Basic != ir.BasicVoid && !c.functionReturnsValue {
		c.Error(loc, "function does not return a value:", "", fn.Name())
	}

	agg := ir.NewAggregate(ir.OpFunction, loc, params)
	agg.Append(body)
	agg.Name = fn.MangledName()
	agg.SetType(fn.Return)
	agg.Optimize = c.pragma.Optimize
	agg.Debug = c.pragma.Debug

	c.currentFunctionType = nil
	c.table.Pop()
	return agg
}
