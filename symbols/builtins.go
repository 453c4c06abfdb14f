package symbols

import (
	"github.com/gogpu/essl/ir"
)

// InitBuiltIns fills the built-in level with the variables, constants,
// functions and default precisions of the given stage and dialect, then
// opens the global scope. It must be called on a table returned by New.
func (t *Table) InitBuiltIns(shader ShaderType, spec Spec, res Resources) {
	b := &builtinSet{t: t, l: t.levels[BuiltInLevel]}
	b.commonFunctions()
	b.relationalFunctions()
	b.textureFunctions(shader, &res)
	b.essl3Functions(shader)
	b.variables(shader, &res)
	b.constants(spec, &res)
	b.precisions(shader)
	t.Push()
}

type builtinSet struct {
	t *Table
	l *level
}

func vecf(n int) ir.Type {
	return ir.Vector(ir.BasicFloat, ir.PrecisionUndefined, ir.QualTemporary, n)
}

func veci(n int) ir.Type {
	return ir.Vector(ir.BasicInt, ir.PrecisionUndefined, ir.QualTemporary, n)
}

func vecu(n int) ir.Type {
	return ir.Vector(ir.BasicUInt, ir.PrecisionUndefined, ir.QualTemporary, n)
}

func vecb(n int) ir.Type {
	return ir.Vector(ir.BasicBool, ir.PrecisionUndefined, ir.QualTemporary, n)
}

func mat(n int) ir.Type {
	return ir.NewType(ir.BasicFloat, ir.PrecisionUndefined, ir.QualTemporary, n, n)
}

func sampler(b ir.BasicType) ir.Type {
	return ir.Scalar(b, ir.PrecisionUndefined, ir.QualTemporary)
}

type fnOpts struct {
	minVersion int
	maxVersion int
	extension  string
}

var (
	anyVersion = fnOpts{}
	essl1Only  = fnOpts{maxVersion: Version100}
	essl3Only  = fnOpts{minVersion: Version300}
)

func (o fnOpts) ext(name string) fnOpts {
	o.extension = name
	return o
}

func (b *builtinSet) fn(o fnOpts, name string, op ir.Operator, ret ir.Type, params ...ir.Type) {
	f := NewFunction(name, ret, op)
	f.Extension = o.extension
	f.Defined = true
	for _, p := range params {
		p.Qualifier = ir.QualIn
		f.AddParam(Param{Type: p})
	}
	b.t.insert(b.l, f, o.minVersion, o.maxVersion)
}

func (b *builtinSet) commonFunctions() {
	unary := []struct {
		name string
		op   ir.Operator
	}{
		{"radians", ir.OpRadians}, {"degrees", ir.OpDegrees},
		{"sin", ir.OpSin}, {"cos", ir.OpCos}, {"tan", ir.OpTan},
		{"asin", ir.OpAsin}, {"acos", ir.OpAcos}, {"atan", ir.OpAtan},
		{"exp", ir.OpExp}, {"log", ir.OpLog}, {"exp2", ir.OpExp2}, {"log2", ir.OpLog2},
		{"sqrt", ir.OpSqrt}, {"inversesqrt", ir.OpInverseSqrt},
		{"abs", ir.OpAbs}, {"sign", ir.OpSign}, {"floor", ir.OpFloor},
		{"ceil", ir.OpCeil}, {"fract", ir.OpFract}, {"normalize", ir.OpNormalize},
	}
	f := vecf(1)
	for n := 1; n <= 4; n++ {
		g := vecf(n)
		for _, u := range unary {
			b.fn(anyVersion, u.name, u.op, g, g)
		}
		b.fn(anyVersion, "atan", ir.OpAtan, g, g, g)
		b.fn(anyVersion, "pow", ir.OpPow, g, g, g)
		b.fn(anyVersion, "mod", ir.OpMod, g, g, g)
		b.fn(anyVersion, "min", ir.OpMin, g, g, g)
		b.fn(anyVersion, "max", ir.OpMax, g, g, g)
		b.fn(anyVersion, "step", ir.OpStep, g, g, g)
		b.fn(anyVersion, "reflect", ir.OpReflect, g, g, g)
		b.fn(anyVersion, "clamp", ir.OpClamp, g, g, g, g)
		b.fn(anyVersion, "mix", ir.OpMix, g, g, g, g)
		b.fn(anyVersion, "smoothstep", ir.OpSmoothStep, g, g, g, g)
		b.fn(anyVersion, "faceforward", ir.OpFaceForward, g, g, g, g)
		b.fn(anyVersion, "refract", ir.OpRefract, g, g, g, f)
		b.fn(anyVersion, "length", ir.OpLength, f, g)
		b.fn(anyVersion, "distance", ir.OpDistance, f, g, g)
		b.fn(anyVersion, "dot", ir.OpDot, f, g, g)
		if n > 1 {
			b.fn(anyVersion, "mod", ir.OpMod, g, g, f)
			b.fn(anyVersion, "min", ir.OpMin, g, g, f)
			b.fn(anyVersion, "max", ir.OpMax, g, g, f)
			b.fn(anyVersion, "clamp", ir.OpClamp, g, g, f, f)
			b.fn(anyVersion, "mix", ir.OpMix, g, g, g, f)
			b.fn(anyVersion, "step", ir.OpStep, g, f, g)
			b.fn(anyVersion, "smoothstep", ir.OpSmoothStep, g, f, f, g)
		}
	}
	b.fn(anyVersion, "cross", ir.OpCross, vecf(3), vecf(3), vecf(3))
	for n := 2; n <= 4; n++ {
		b.fn(anyVersion, "matrixCompMult", ir.OpMul, mat(n), mat(n), mat(n))
	}
}

func (b *builtinSet) relationalFunctions() {
	ordered := []struct {
		name string
		op   ir.Operator
	}{
		{"lessThan", ir.OpLessThan},
		{"lessThanEqual", ir.OpLessThanEqual},
		{"greaterThan", ir.OpGreaterThan},
		{"greaterThanEqual", ir.OpGreaterThanEqual},
	}
	for n := 2; n <= 4; n++ {
		bv := vecb(n)
		for _, r := range ordered {
			b.fn(anyVersion, r.name, r.op, bv, vecf(n), vecf(n))
			b.fn(anyVersion, r.name, r.op, bv, veci(n), veci(n))
			b.fn(essl3Only, r.name, r.op, bv, vecu(n), vecu(n))
		}
		for _, eq := range []struct {
			name string
			op   ir.Operator
		}{{"equal", ir.OpVectorEqual}, {"notEqual", ir.OpVectorNotEqual}} {
			b.fn(anyVersion, eq.name, eq.op, bv, vecf(n), vecf(n))
			b.fn(anyVersion, eq.name, eq.op, bv, veci(n), veci(n))
			b.fn(anyVersion, eq.name, eq.op, bv, bv, bv)
			b.fn(essl3Only, eq.name, eq.op, bv, vecu(n), vecu(n))
		}
		b.fn(anyVersion, "any", ir.OpAny, vecb(1), bv)
		b.fn(anyVersion, "all", ir.OpAll, vecb(1), bv)
		b.fn(anyVersion, "not", ir.OpVectorLogicalNot, bv, bv)
	}
}

// textureFunctions declares the GLSL ES 1.00 lookup functions. They have
// no operator and are emitted as calls.
func (b *builtinSet) textureFunctions(shader ShaderType, res *Resources) {
	v4 := vecf(4)
	f := vecf(1)
	s2 := sampler(ir.BasicSampler2D)
	sc := sampler(ir.BasicSamplerCube)

	b.fn(essl1Only, "texture2D", ir.OpNull, v4, s2, vecf(2))
	b.fn(essl1Only, "texture2DProj", ir.OpNull, v4, s2, vecf(3))
	b.fn(essl1Only, "texture2DProj", ir.OpNull, v4, s2, vecf(4))
	b.fn(essl1Only, "textureCube", ir.OpNull, v4, sc, vecf(3))

	if res.OESEGLImageExternal {
		o := essl1Only.ext("GL_OES_EGL_image_external")
		se := sampler(ir.BasicSamplerExternalOES)
		b.fn(o, "texture2D", ir.OpNull, v4, se, vecf(2))
		b.fn(o, "texture2DProj", ir.OpNull, v4, se, vecf(3))
		b.fn(o, "texture2DProj", ir.OpNull, v4, se, vecf(4))
	}
	if res.ARBTextureRectangle {
		o := essl1Only.ext("GL_ARB_texture_rectangle")
		sr := sampler(ir.BasicSampler2DRect)
		b.fn(o, "texture2DRect", ir.OpNull, v4, sr, vecf(2))
		b.fn(o, "texture2DRectProj", ir.OpNull, v4, sr, vecf(3))
		b.fn(o, "texture2DRectProj", ir.OpNull, v4, sr, vecf(4))
	}

	switch shader {
	case FragmentShader:
		b.fn(essl1Only, "texture2D", ir.OpNull, v4, s2, vecf(2), f)
		b.fn(essl1Only, "texture2DProj", ir.OpNull, v4, s2, vecf(3), f)
		b.fn(essl1Only, "texture2DProj", ir.OpNull, v4, s2, vecf(4), f)
		b.fn(essl1Only, "textureCube", ir.OpNull, v4, sc, vecf(3), f)

		if res.OESStandardDerivatives {
			o := essl1Only.ext("GL_OES_standard_derivatives")
			for n := 1; n <= 4; n++ {
				g := vecf(n)
				b.fn(o, "dFdx", ir.OpDFdx, g, g)
				b.fn(o, "dFdy", ir.OpDFdy, g, g)
				b.fn(o, "fwidth", ir.OpFwidth, g, g)
			}
		}
		if res.EXTShaderTextureLod {
			o := essl1Only.ext("GL_EXT_shader_texture_lod")
			b.fn(o, "texture2DLodEXT", ir.OpNull, v4, s2, vecf(2), f)
			b.fn(o, "texture2DProjLodEXT", ir.OpNull, v4, s2, vecf(3), f)
			b.fn(o, "texture2DProjLodEXT", ir.OpNull, v4, s2, vecf(4), f)
			b.fn(o, "textureCubeLodEXT", ir.OpNull, v4, sc, vecf(3), f)
		}
	case VertexShader:
		b.fn(essl1Only, "texture2DLod", ir.OpNull, v4, s2, vecf(2), f)
		b.fn(essl1Only, "texture2DProjLod", ir.OpNull, v4, s2, vecf(3), f)
		b.fn(essl1Only, "texture2DProjLod", ir.OpNull, v4, s2, vecf(4), f)
		b.fn(essl1Only, "textureCubeLod", ir.OpNull, v4, sc, vecf(3), f)
	}
}

// essl3Functions declares the GLSL ES 3.00 additions: integer overloads
// of the common functions, core derivatives and the unified lookups.
func (b *builtinSet) essl3Functions(shader ShaderType) {
	for n := 1; n <= 4; n++ {
		gi := veci(n)
		gu := vecu(n)
		b.fn(essl3Only, "abs", ir.OpAbs, gi, gi)
		b.fn(essl3Only, "sign", ir.OpSign, gi, gi)
		for _, g := range []ir.Type{gi, gu} {
			b.fn(essl3Only, "min", ir.OpMin, g, g, g)
			b.fn(essl3Only, "max", ir.OpMax, g, g, g)
			b.fn(essl3Only, "clamp", ir.OpClamp, g, g, g, g)
			if n > 1 {
				s := ir.Scalar(g.Basic, ir.PrecisionUndefined, ir.QualTemporary)
				b.fn(essl3Only, "min", ir.OpMin, g, g, s)
				b.fn(essl3Only, "max", ir.OpMax, g, g, s)
				b.fn(essl3Only, "clamp", ir.OpClamp, g, g, s, s)
			}
		}
		if shader == FragmentShader {
			g := vecf(n)
			b.fn(essl3Only, "dFdx", ir.OpDFdx, g, g)
			b.fn(essl3Only, "dFdy", ir.OpDFdy, g, g)
			b.fn(essl3Only, "fwidth", ir.OpFwidth, g, g)
		}
	}

	lookups := []struct {
		sampler ir.BasicType
		coord   int
		result  ir.Type
		size    int
	}{
		{ir.BasicSampler2D, 2, vecf(4), 2},
		{ir.BasicSampler3D, 3, vecf(4), 3},
		{ir.BasicSamplerCube, 3, vecf(4), 2},
		{ir.BasicSampler2DArray, 3, vecf(4), 3},
		{ir.BasicISampler2D, 2, veci(4), 2},
		{ir.BasicISampler3D, 3, veci(4), 3},
		{ir.BasicISamplerCube, 3, veci(4), 2},
		{ir.BasicISampler2DArray, 3, veci(4), 3},
		{ir.BasicUSampler2D, 2, vecu(4), 2},
		{ir.BasicUSampler3D, 3, vecu(4), 3},
		{ir.BasicUSamplerCube, 3, vecu(4), 2},
		{ir.BasicUSampler2DArray, 3, vecu(4), 3},
		{ir.BasicSampler2DShadow, 3, vecf(1), 2},
		{ir.BasicSamplerCubeShadow, 4, vecf(1), 2},
		{ir.BasicSampler2DArrayShadow, 4, vecf(1), 3},
	}
	f := vecf(1)
	for _, lk := range lookups {
		s := sampler(lk.sampler)
		c := vecf(lk.coord)
		b.fn(essl3Only, "texture", ir.OpNull, lk.result, s, c)
		b.fn(essl3Only, "textureSize", ir.OpNull, veci(lk.size), s, veci(1))
		if lk.sampler != ir.BasicSampler2DArrayShadow && lk.sampler != ir.BasicSamplerCubeShadow {
			b.fn(essl3Only, "textureLod", ir.OpNull, lk.result, s, c, f)
		}
		if shader == FragmentShader {
			b.fn(essl3Only, "texture", ir.OpNull, lk.result, s, c, f)
		}
	}
}

func (b *builtinSet) variable(o fnOpts, name string, t ir.Type) {
	v := NewVariable(name, t)
	v.Extension = o.extension
	b.t.insert(b.l, v, o.minVersion, o.maxVersion)
}

func (b *builtinSet) variables(shader ShaderType, res *Resources) {
	switch shader {
	case FragmentShader:
		b.variable(anyVersion, "gl_FragCoord", ir.Vector(ir.BasicFloat, ir.PrecisionMedium, ir.QualFragCoord, 4))
		b.variable(anyVersion, "gl_FrontFacing", ir.Scalar(ir.BasicBool, ir.PrecisionUndefined, ir.QualFrontFacing))
		b.variable(anyVersion, "gl_PointCoord", ir.Vector(ir.BasicFloat, ir.PrecisionMedium, ir.QualPointCoord, 2))
		b.variable(essl1Only, "gl_FragColor", ir.Vector(ir.BasicFloat, ir.PrecisionMedium, ir.QualFragColor, 4))

		fragData := ir.Vector(ir.BasicFloat, ir.PrecisionMedium, ir.QualFragData, 4)
		fragData.SetArraySize(res.MaxDrawBuffers)
		b.variable(essl1Only, "gl_FragData", fragData)

		if res.EXTFragDepth {
			prec := ir.PrecisionMedium
			if res.FragmentPrecisionHigh {
				prec = ir.PrecisionHigh
			}
			b.variable(essl1Only.ext("GL_EXT_frag_depth"), "gl_FragDepthEXT",
				ir.Scalar(ir.BasicFloat, prec, ir.QualFragDepth))
		}
		b.variable(essl3Only, "gl_FragDepth", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualFragDepth))
	case VertexShader:
		b.variable(anyVersion, "gl_Position", ir.Vector(ir.BasicFloat, ir.PrecisionHigh, ir.QualPosition, 4))
		b.variable(anyVersion, "gl_PointSize", ir.Scalar(ir.BasicFloat, ir.PrecisionMedium, ir.QualPointSize))
	}

	field := func(name string) *ir.Field {
		t := ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualGlobal)
		return &ir.Field{Name: name, Type: &t}
	}
	depthRange := ir.NewStructure("gl_DepthRangeParameters",
		[]*ir.Field{field("near"), field("far"), field("diff")}, NextUniqueID())
	structType := ir.StructType(depthRange)
	b.t.insert(b.l, NewUserType(depthRange.Name, structType), 0, 0)

	uniform := structType
	uniform.Qualifier = ir.QualUniform
	b.variable(anyVersion, "gl_DepthRange", uniform)
}

func (b *builtinSet) constInt(o fnOpts, name string, value int) {
	v := NewVariable(name, ir.Scalar(ir.BasicInt, ir.PrecisionMedium, ir.QualConst))
	v.ShareConstBuffer(ir.SingleConstant(ir.IntConst(int32(value))))
	b.t.insert(b.l, v, o.minVersion, o.maxVersion)
}

func (b *builtinSet) constants(spec Spec, res *Resources) {
	b.constInt(anyVersion, "gl_MaxVertexAttribs", res.MaxVertexAttribs)
	b.constInt(anyVersion, "gl_MaxVertexUniformVectors", res.MaxVertexUniformVectors)
	b.constInt(anyVersion, "gl_MaxVaryingVectors", res.MaxVaryingVectors)
	b.constInt(anyVersion, "gl_MaxVertexTextureImageUnits", res.MaxVertexTextureImageUnits)
	b.constInt(anyVersion, "gl_MaxCombinedTextureImageUnits", res.MaxCombinedTextureImageUnits)
	b.constInt(anyVersion, "gl_MaxTextureImageUnits", res.MaxTextureImageUnits)
	b.constInt(anyVersion, "gl_MaxFragmentUniformVectors", res.MaxFragmentUniformVectors)

	b.constInt(essl3Only, "gl_MaxVertexOutputVectors", res.MaxVertexOutputVectors)
	b.constInt(essl3Only, "gl_MaxFragmentInputVectors", res.MaxFragmentInputVectors)
	b.constInt(essl3Only, "gl_MinProgramTexelOffset", res.MinProgramTexelOffset)
	b.constInt(essl3Only, "gl_MaxProgramTexelOffset", res.MaxProgramTexelOffset)

	if spec != SpecCSSShaders {
		maxDrawBuffers := res.MaxDrawBuffers
		if !res.EXTDrawBuffers {
			maxDrawBuffers = 1
		}
		b.constInt(anyVersion, "gl_MaxDrawBuffers", maxDrawBuffers)
	}
}

func (b *builtinSet) precisions(shader ShaderType) {
	switch shader {
	case FragmentShader:
		b.l.precision[ir.BasicInt] = ir.PrecisionMedium
	case VertexShader:
		b.l.precision[ir.BasicInt] = ir.PrecisionHigh
		b.l.precision[ir.BasicFloat] = ir.PrecisionHigh
	}
	for s := ir.BasicSampler2D; s.IsSampler(); s++ {
		b.l.precision[s] = ir.PrecisionLow
	}
}
