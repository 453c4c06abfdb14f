// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"

	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/symbols"
)

// declaration parses a declaration including its ';', or a function
// prototype or definition. Function definitions are only accepted when
// global is set.
func (p *Parser) declaration(global bool) ir.Node {
	start := p.peek()
	switch start.Kind {
	case TokenPrecision:
		p.precisionStatement()
		return nil
	case TokenInvariant:
		if next := p.peekAt(1); next.Kind == TokenIdent && !p.isTypeName(next) {
			return p.invariantDeclaration()
		}
	}

	qual, hasQual := p.typeQualifier()
	if hasQual {
		if p.check(TokenSemicolon) {
			p.advance()
			p.ctx.ParseGlobalLayoutQualifier(qual)
			return nil
		}
		if tok := p.peek(); tok.Kind == TokenIdent && !p.isTypeName(tok) && p.peekAt(1).Kind == TokenLeftBrace {
			return p.interfaceBlock(qual)
		}
	}

	pt := p.fullySpecifiedType(qual, hasQual)

	if p.check(TokenSemicolon) {
		semi := p.advance()
		return p.ctx.ParseDeclarationStatement(p.ctx.ParseSingleDeclaration(&pt, start.Loc, ""), semi.Loc)
	}

	name, ok := p.expect(TokenIdent)
	if !ok {
		return nil
	}
	if p.check(TokenLeftParen) {
		return p.function(pt, name, global)
	}

	list := p.initDeclaratorList(&pt, name)
	semi, _ := p.expect(TokenSemicolon)
	if list == nil {
		return nil
	}
	return p.ctx.ParseDeclarationStatement(list, semi.Loc)
}

// fullySpecifiedType parses a type specifier and applies the qualifier
// already parsed in front of it.
func (p *Parser) fullySpecifiedType(qual ir.PublicType, hasQual bool) ir.PublicType {
	spec := p.typeSpecifier()
	if !hasQual {
		return p.ctx.AddFullySpecifiedType(spec.Qualifier, spec.Layout, spec)
	}
	pt := p.ctx.AddFullySpecifiedType(qual.Qualifier, qual.Layout, spec)
	pt.Invariant = qual.Invariant
	return pt
}

// typeQualifier parses "[layout(...)] [invariant] [smooth|flat] storage".
// The boolean is false when no qualifier is present.
func (p *Parser) typeQualifier() (ir.PublicType, bool) {
	start := p.peek()
	layout, hasLayout := ir.NoLayout(), false
	if p.check(TokenLayout) {
		layout = p.layoutQualifier()
		hasLayout = true
	}

	invariant := p.match(TokenInvariant)

	var interp Token
	hasInterp := false
	if p.check(TokenSmooth) || p.check(TokenFlat) {
		interp = p.advance()
		hasInterp = true
	}

	keyword, loc, ok := p.storageKeyword(invariant)
	if !ok {
		if !hasLayout && !invariant && !hasInterp {
			return ir.PublicType{}, false
		}
		if invariant || hasInterp {
			p.syntaxError(p.peek())
		}
		// A layout qualifier on its own, as on block members.
		pt := p.ctx.NewBasicType(ir.BasicVoid, start.Loc)
		pt.Layout = layout
		return pt, true
	}

	pt := p.ctx.ParseStorageQualifier(keyword, loc)
	if hasInterp {
		q := ir.QualSmooth
		if interp.Kind == TokenFlat {
			q = ir.QualFlat
		}
		merged := p.ctx.JoinInterpolationQualifiers(interp.Loc, q, loc, pt.Qualifier)
		pt.Qualifier = merged.Qualifier
	}
	if hasLayout {
		pt.Loc = start.Loc
	}
	pt.Layout = layout
	pt.Invariant = invariant && keyword != "invariant varying"
	return pt, true
}

// storageKeyword consumes a storage qualifier and returns its spelling as
// sema.Context.ParseStorageQualifier expects it.
func (p *Parser) storageKeyword(invariant bool) (string, ir.Loc, bool) {
	tok := p.peek()
	switch tok.Kind {
	case TokenConst, TokenAttribute, TokenUniform, TokenIn, TokenOut:
		p.advance()
		return tok.Text, tok.Loc, true
	case TokenVarying:
		p.advance()
		if invariant {
			return "invariant varying", tok.Loc, true
		}
		return "varying", tok.Loc, true
	case TokenCentroid:
		p.advance()
		switch p.peek().Kind {
		case TokenIn:
			p.advance()
			return "centroid in", tok.Loc, true
		case TokenOut:
			p.advance()
			return "centroid out", tok.Loc, true
		}
		p.syntaxError(p.peek())
		return "centroid in", tok.Loc, true
	}
	return "", tok.Loc, false
}

// layoutQualifier parses "layout(id, id = value, ...)".
func (p *Parser) layoutQualifier() ir.LayoutQualifier {
	p.advance()
	q := ir.NoLayout()
	if _, ok := p.expect(TokenLeftParen); !ok {
		return q
	}

	for {
		id, ok := p.expect(TokenIdent)
		if !ok {
			return q
		}
		var one ir.LayoutQualifier
		if p.match(TokenEqual) {
			// A leading '-' is taken here so a negative location gets a
			// range error rather than a syntax error.
			neg := p.check(TokenMinus) && p.peekAt(1).Kind == TokenIntLiteral
			valueLoc := p.peek().Loc
			if neg {
				p.advance()
			}
			v := p.peek()
			if v.Kind != TokenIntLiteral && v.Kind != TokenUIntLiteral {
				p.syntaxError(v)
				return q
			}
			p.advance()
			n, _ := strconv.ParseInt(trimIntSuffix(v.Text), 0, 32)
			text := v.Text
			if neg {
				n, text = -n, "-"+text
			}
			one = p.ctx.ParseLayoutQualifierValue(id.Text, id.Loc, text, int(n), valueLoc)
		} else {
			one = p.ctx.ParseLayoutQualifier(id.Text, id.Loc)
		}
		q = sema.JoinLayoutQualifiers(q, one)
		if !p.match(TokenComma) {
			break
		}
	}

	p.expect(TokenRightParen)
	return q
}

func (p *Parser) precisionQualifier() (ir.Precision, bool) {
	switch p.peek().Kind {
	case TokenHighp:
		p.advance()
		return ir.PrecisionHigh, true
	case TokenMediump:
		p.advance()
		return ir.PrecisionMedium, true
	case TokenLowp:
		p.advance()
		return ir.PrecisionLow, true
	}
	return ir.PrecisionUndefined, false
}

// typeSpecifier parses an optional precision qualifier and a type.
func (p *Parser) typeSpecifier() ir.PublicType {
	prec, hasPrec := p.precisionQualifier()
	return p.ctx.ParseTypeSpecifier(p.typeSpecifierNoPrec(), prec, hasPrec)
}

// typeSpecifierNoPrec parses a type with an optional "[size]" suffix.
func (p *Parser) typeSpecifierNoPrec() ir.PublicType {
	pt := p.typeSpecifierNonArray()
	if !p.check(TokenLeftBracket) {
		return pt
	}

	lb := p.advance()
	size := p.constantExpression()
	p.expect(TokenRightBracket)
	if p.ctx.ArrayTypeErrorCheck(lb.Loc, &pt) {
		return pt
	}
	n, _ := p.ctx.ArraySizeErrorCheck(lb.Loc, size)
	pt.SetArray(true, n)
	return pt
}

// typeSpecifierNonArray parses a built-in type keyword, a struct
// specifier or a struct type name.
func (p *Parser) typeSpecifierNonArray() ir.PublicType {
	tok := p.peek()
	switch {
	case tok.Kind == TokenType:
		p.advance()
		tk := typeKeywords[tok.Text]
		pt := p.ctx.NewBasicType(tk.basic, tok.Loc)
		switch {
		case tk.rows > 1:
			pt.SetMatrix(tk.cols, tk.rows)
		case tk.cols > 1:
			pt.SetAggregate(tk.cols)
		}
		p.ctx.SamplerExtensionCheck(tk.basic, tok.Loc)
		return pt

	case tok.Kind == TokenStruct:
		return p.structSpecifier()

	case p.isTypeName(tok):
		p.advance()
		sym, _, _ := p.ctx.Symbols().Find(tok.Text, p.ctx.ShaderVersion())
		st := sym.(*symbols.Variable).Type
		pt := p.ctx.NewBasicType(ir.BasicStruct, tok.Loc)
		pt.UserDef = &st
		return pt
	}

	p.syntaxError(tok)
	return p.ctx.NewBasicType(ir.BasicFloat, tok.Loc)
}

// structSpecifier parses "struct [name] { members }".
func (p *Parser) structSpecifier() ir.PublicType {
	structTok := p.advance()
	name, nameLoc := "", structTok.Loc
	if p.check(TokenIdent) {
		tok := p.advance()
		name, nameLoc = tok.Text, tok.Loc
	}
	if _, ok := p.expect(TokenLeftBrace); !ok {
		return p.ctx.NewBasicType(ir.BasicFloat, structTok.Loc)
	}

	p.ctx.EnterStructDeclaration(nameLoc, name)
	fields := p.memberDeclarationList()
	p.expect(TokenRightBrace)

	pt := p.ctx.AddStructure(structTok.Loc, nameLoc, name, fields)
	if p.ctx.Symbols().AtGlobalLevel() {
		pt.Qualifier = ir.QualGlobal
	}
	return pt
}

// memberDeclarationList parses the members of a struct or interface
// block up to the closing brace.
func (p *Parser) memberDeclarationList() []*ir.Field {
	var list []*ir.Field
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		before := p.current

		qual, hasQual := p.typeQualifier()
		spec := p.typeSpecifier()
		if hasQual {
			spec.Qualifier = qual.Qualifier
			spec.Layout = qual.Layout
		}

		var decls []*ir.Field
		for {
			id, ok := p.expect(TokenIdent)
			if !ok {
				break
			}
			if p.check(TokenLeftBracket) {
				lb := p.advance()
				size := p.constantExpression()
				p.expect(TokenRightBracket)
				decls = append(decls, p.ctx.ParseStructArrayDeclarator(id.Text, id.Loc, lb.Loc, size))
			} else {
				decls = append(decls, p.ctx.ParseStructDeclarator(id.Text, id.Loc))
			}
			if !p.match(TokenComma) {
				break
			}
		}
		p.expect(TokenSemicolon)
		list = p.ctx.AppendStructFields(list, p.ctx.AddStructDeclaratorList(spec, decls))

		if p.panicking {
			p.synchronize()
		}
		if p.current == before {
			p.advance()
		}
	}
	return list
}

// interfaceBlock parses "qualifier Name { members } [instance[size]];".
func (p *Parser) interfaceBlock(qual ir.PublicType) ir.Node {
	name := p.advance()
	p.advance()

	p.ctx.EnterStructDeclaration(name.Loc, name.Text)
	fields := p.memberDeclarationList()
	p.expect(TokenRightBrace)

	instance, instanceLoc := "", name.Loc
	var size ir.Typed
	arrayLoc := name.Loc
	if p.check(TokenIdent) {
		tok := p.advance()
		instance, instanceLoc = tok.Text, tok.Loc
		if p.check(TokenLeftBracket) {
			arrayLoc = p.advance().Loc
			size = p.constantExpression()
			p.expect(TokenRightBracket)
		}
	}
	p.expect(TokenSemicolon)

	return p.ctx.AddInterfaceBlock(qual, name.Loc, name.Text, fields, instance, instanceLoc, size, arrayLoc)
}

// precisionStatement parses "precision qualifier type;".
func (p *Parser) precisionStatement() {
	tok := p.advance()
	prec, ok := p.precisionQualifier()
	if !ok {
		p.syntaxError(p.peek())
		return
	}
	pt := p.typeSpecifierNoPrec()
	if _, ok := p.expect(TokenSemicolon); !ok {
		return
	}
	p.ctx.ParsePrecisionStatement(tok.Loc, prec, pt)
}

// invariantDeclaration parses "invariant name, name;" which redeclares
// built-in or user varyings as invariant.
func (p *Parser) invariantDeclaration() ir.Node {
	inv := p.advance()
	var list *ir.Aggregate
	for {
		id, ok := p.expect(TokenIdent)
		if !ok {
			break
		}
		if agg := p.ctx.ParseInvariantDeclaration(inv.Loc, id.Loc, id.Text); agg != nil {
			if list == nil {
				list = agg
			} else {
				list.Sequence = append(list.Sequence, agg.Sequence...)
			}
		}
		if !p.match(TokenComma) {
			break
		}
	}
	p.expect(TokenSemicolon)
	if list == nil {
		return nil
	}
	return list
}

// initDeclaratorList parses the declarators of a declaration. first is
// the already consumed name of the first one.
func (p *Parser) initDeclaratorList(pt *ir.PublicType, first Token) *ir.Aggregate {
	list := p.singleDeclaration(pt, first)
	for p.match(TokenComma) {
		id, ok := p.expect(TokenIdent)
		if !ok {
			return list
		}
		switch {
		case p.check(TokenLeftBracket):
			lb := p.advance()
			var size ir.Typed
			if !p.check(TokenRightBracket) {
				size = p.constantExpression()
			}
			p.expect(TokenRightBracket)
			list = p.ctx.ParseArrayDeclarator(pt, id.Loc, id.Text, lb.Loc, list, size)
		case p.check(TokenEqual):
			eq := p.advance()
			init := p.assignmentExpression()
			list = p.ctx.ParseInitDeclarator(pt, list, id.Loc, id.Text, eq.Loc, init)
		default:
			list = p.ctx.ParseDeclarator(pt, list, id.Loc, id.Text)
		}
	}
	return list
}

func (p *Parser) singleDeclaration(pt *ir.PublicType, name Token) *ir.Aggregate {
	switch {
	case p.check(TokenLeftBracket):
		lb := p.advance()
		if p.match(TokenRightBracket) {
			p.ctx.Error(name.Loc, "unsized array declarations not supported", name.Text)
			return p.ctx.ParseSingleDeclaration(pt, name.Loc, name.Text)
		}
		size := p.constantExpression()
		p.expect(TokenRightBracket)
		return p.ctx.ParseSingleArrayDeclaration(pt, name.Loc, name.Text, lb.Loc, size)
	case p.check(TokenEqual):
		eq := p.advance()
		init := p.assignmentExpression()
		return p.ctx.ParseSingleInitDeclaration(pt, name.Loc, name.Text, eq.Loc, init)
	}
	return p.ctx.ParseSingleDeclaration(pt, name.Loc, name.Text)
}

// function parses the rest of a function prototype or definition after
// its name.
func (p *Parser) function(pt ir.PublicType, name Token, global bool) ir.Node {
	fn := p.ctx.ParseFunctionHeader(pt, name.Text, name.Loc)
	p.advance()

	if !p.check(TokenRightParen) {
		first := true
		for {
			loc := p.peek().Loc
			param := p.parameterDeclaration()
			p.ctx.AddParameter(fn, param, loc, first)
			first = false
			if !p.match(TokenComma) {
				break
			}
		}
	}
	rp, _ := p.expect(TokenRightParen)
	fn = p.ctx.ParseFunctionDeclarator(fn, rp.Loc)

	if !p.check(TokenLeftBrace) {
		p.expect(TokenSemicolon)
		return p.ctx.ParseFunctionPrototype(fn, rp.Loc)
	}

	lb := p.peek()
	if !global {
		p.syntaxError(lb)
		return p.ctx.ParseFunctionPrototype(fn, rp.Loc)
	}

	p.ctx.Trace("function definition %s at %s", name.Text, name.Loc)
	params := p.ctx.ParseFunctionDefinitionHeader(fn, lb.Loc)
	body := p.compoundStatementNoNewScope()
	return p.ctx.ParseFunctionDefinition(fn, params, body, lb.Loc)
}

// parameterDeclaration parses "[const] [in|out|inout] type [name[size]]".
func (p *Parser) parameterDeclaration() symbols.Param {
	typeQual := ir.QualTemporary
	if p.match(TokenConst) {
		typeQual = ir.QualConst
	}
	keyword := ""
	switch p.peek().Kind {
	case TokenIn, TokenOut, TokenInOut:
		keyword = p.advance().Text
	}
	paramQual := sema.ParseParameterQualifier(keyword)

	pt := p.typeSpecifier()
	loc := pt.Loc
	var param symbols.Param
	if p.check(TokenIdent) {
		id := p.advance()
		loc = id.Loc
		if p.check(TokenLeftBracket) {
			lb := p.advance()
			size := p.constantExpression()
			p.expect(TokenRightBracket)
			param = p.ctx.ParseParameterArrayDeclarator(pt, id.Text, id.Loc, lb.Loc, size)
		} else {
			param = p.ctx.ParseParameterDeclarator(pt, id.Text, id.Loc)
		}
	} else {
		param = symbols.Param{Type: pt.Type()}
	}
	return p.ctx.ApplyParameterQualifiers(loc, typeQual, paramQual, param)
}
