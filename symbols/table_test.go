package symbols

import (
	"sync"
	"testing"

	"github.com/gogpu/essl/ir"
	"github.com/nalgeon/be"
)

func newFragmentTable() *Table {
	t := New()
	t.InitBuiltIns(FragmentShader, SpecGLES2, DefaultResources())
	return t
}

func TestTable_DeclareAndFind(t *testing.T) {
	table := newFragmentTable()
	be.True(t, table.AtGlobalLevel())
	be.True(t, !table.AtBuiltInLevel())

	x := NewVariable("x", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualGlobal))
	be.True(t, table.Declare(x))
	be.True(t, !table.Declare(NewVariable("x", x.Type)))

	sym, builtIn, sameScope := table.Find("x", Version100)
	be.Equal(t, sym, Symbol(x))
	be.True(t, !builtIn)
	be.True(t, sameScope)

	table.Push()
	be.True(t, !table.AtGlobalLevel())
	inner := NewVariable("x", ir.Scalar(ir.BasicInt, ir.PrecisionHigh, ir.QualTemporary))
	be.True(t, table.Declare(inner))

	sym, _, sameScope = table.Find("x", Version100)
	be.Equal(t, sym, Symbol(inner))
	be.True(t, sameScope)

	table.Pop()
	sym, _, _ = table.Find("x", Version100)
	be.Equal(t, sym, Symbol(x))
}

func TestTable_FunctionOverloads(t *testing.T) {
	table := newFragmentTable()
	f1 := NewFunction("f", ir.Scalar(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary), ir.OpNull)
	f1.AddParam(Param{Name: "a", Type: ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualIn)})
	f2 := NewFunction("f", f1.Return, ir.OpNull)
	f2.AddParam(Param{Name: "a", Type: ir.Vector(ir.BasicInt, ir.PrecisionHigh, ir.QualIn, 2)})

	be.Equal(t, f1.MangledName(), "f(f1;")
	be.Equal(t, f2.MangledName(), "f(vi2;")
	be.True(t, table.Declare(f1))
	be.True(t, table.Declare(f2))

	sym, _, _ := table.Find("f(vi2;", Version100)
	be.Equal(t, sym, Symbol(f2))

	be.True(t, !table.Declare(NewVariable("f", f1.Params[0].Type)))

	g := NewVariable("g", f1.Params[0].Type)
	be.True(t, table.Declare(g))
	be.True(t, !table.Declare(NewFunction("g", f1.Return, ir.OpNull)))
}

func TestTable_BuiltInVersions(t *testing.T) {
	table := newFragmentTable()

	sym, builtIn, _ := table.Find("gl_FragColor", Version100)
	be.True(t, sym != nil)
	be.True(t, builtIn)

	sym, _, _ = table.Find("gl_FragColor", Version300)
	be.True(t, sym == nil)

	be.True(t, table.FindBuiltIn("texture2D(s21;vf2;", Version100) != nil)
	be.True(t, table.FindBuiltIn("texture2D(s21;vf2;", Version300) == nil)
	be.True(t, table.FindBuiltIn("texture(s21;vf2;", Version300) != nil)

	fn, ok := table.FindBuiltIn("lessThan(vf3;vf3;", Version100).(*Function)
	be.True(t, ok)
	be.Equal(t, fn.Op, ir.OpLessThan)
	be.Equal(t, fn.Return.NominalSize(), 3)
	be.Equal(t, fn.Return.Basic, ir.BasicBool)

	be.True(t, table.FindBuiltIn("gl_Position", Version100) == nil)
}

func TestTable_BuiltInConstants(t *testing.T) {
	table := New()
	res := DefaultResources()
	res.MaxDrawBuffers = 4
	res.EXTDrawBuffers = true
	table.InitBuiltIns(VertexShader, SpecWebGL, res)

	v, ok := table.FindBuiltIn("gl_MaxDrawBuffers", Version100).(*Variable)
	be.True(t, ok)
	be.Equal(t, v.Type.Qualifier, ir.QualConst)
	be.Equal(t, v.ConstBuffer().At(0).I, int32(4))

	css := New()
	css.InitBuiltIns(VertexShader, SpecCSSShaders, res)
	be.True(t, css.FindBuiltIn("gl_MaxDrawBuffers", Version100) == nil)
}

func TestTable_ExtensionBuiltIns(t *testing.T) {
	res := DefaultResources()
	res.OESStandardDerivatives = true
	res.EXTFragDepth = true
	table := New()
	table.InitBuiltIns(FragmentShader, SpecGLES2, res)

	fn, ok := table.FindBuiltIn("dFdx(vf2;", Version100).(*Function)
	be.True(t, ok)
	be.Equal(t, fn.Extension, "GL_OES_standard_derivatives")

	depth, ok := table.FindBuiltIn("gl_FragDepthEXT", Version100).(*Variable)
	be.True(t, ok)
	be.Equal(t, depth.Extension, "GL_EXT_frag_depth")
	be.Equal(t, depth.Type.Precision, ir.PrecisionMedium)

	plain := newFragmentTable()
	be.True(t, plain.FindBuiltIn("dFdx(f1;", Version100) == nil)
}

func TestTable_DefaultPrecision(t *testing.T) {
	frag := newFragmentTable()
	be.Equal(t, frag.DefaultPrecision(ir.BasicFloat), ir.PrecisionUndefined)
	be.Equal(t, frag.DefaultPrecision(ir.BasicInt), ir.PrecisionMedium)
	be.Equal(t, frag.DefaultPrecision(ir.BasicUInt), ir.PrecisionMedium)
	be.Equal(t, frag.DefaultPrecision(ir.BasicSamplerCube), ir.PrecisionLow)
	be.Equal(t, frag.DefaultPrecision(ir.BasicBool), ir.PrecisionUndefined)

	be.True(t, frag.SetDefaultPrecision(ir.BasicFloat, ir.PrecisionMedium))
	be.True(t, !frag.SetDefaultPrecision(ir.BasicBool, ir.PrecisionMedium))

	frag.Push()
	be.True(t, frag.SetDefaultPrecision(ir.BasicFloat, ir.PrecisionLow))
	be.Equal(t, frag.DefaultPrecision(ir.BasicFloat), ir.PrecisionLow)
	frag.Pop()
	be.Equal(t, frag.DefaultPrecision(ir.BasicFloat), ir.PrecisionMedium)

	vert := New()
	vert.InitBuiltIns(VertexShader, SpecGLES2, DefaultResources())
	be.Equal(t, vert.DefaultPrecision(ir.BasicFloat), ir.PrecisionHigh)
}

func TestTable_UserTypes(t *testing.T) {
	table := newFragmentTable()
	be.True(t, table.IsTypeName("gl_DepthRangeParameters", Version100))

	s := ir.NewStructure("Light", nil, NextUniqueID())
	be.True(t, table.Declare(NewUserType("Light", ir.StructType(s))))
	be.True(t, table.IsTypeName("Light", Version100))
	be.True(t, !table.IsTypeName("gl_FragCoord", Version100))
}

func TestTable_InvariantVaryings(t *testing.T) {
	table := newFragmentTable()
	table.AddInvariantVarying("vColor")
	be.True(t, table.IsInvariantVarying("vColor"))
	be.True(t, !table.IsInvariantVarying("vNormal"))

	table.SetGlobalInvariant()
	be.True(t, table.IsInvariantVarying("vNormal"))
}

func TestVariable_DemoteConst(t *testing.T) {
	v := NewVariable("c", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualConst))
	v.DemoteConst()
	be.Equal(t, v.Type.Qualifier, ir.QualTemporary)

	u := NewVariable("u", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualUniform))
	u.DemoteConst()
	be.Equal(t, u.Type.Qualifier, ir.QualUniform)
}

func TestNextUniqueID_Concurrent(t *testing.T) {
	const workers = 8
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int, perWorker)
			for i := range ids {
				ids[i] = NextUniqueID()
			}
			mu.Lock()
			for _, id := range ids {
				seen[id] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	be.Equal(t, len(seen), workers*perWorker)
}

func TestTable_DeclareOuter(t *testing.T) {
	table := newFragmentTable()
	table.Push()
	fn := NewFunction("g", ir.Scalar(ir.BasicFloat, ir.PrecisionHigh, ir.QualTemporary), ir.OpNull)
	be.True(t, table.DeclareOuter(fn))
	be.True(t, !table.DeclareOuter(NewFunction("g", fn.Return, ir.OpNull)))
	table.Pop()

	sym, builtIn, sameScope := table.Find("g(", Version100)
	be.Equal(t, sym, Symbol(fn))
	be.True(t, !builtIn)
	be.True(t, sameScope)
}

func TestResources_EnableExtension(t *testing.T) {
	r := DefaultResources()
	be.Equal(t, len(r.Extensions()), 0)

	be.True(t, r.EnableExtension("GL_EXT_draw_buffers"))
	be.True(t, r.EnableExtension("GL_OES_standard_derivatives"))
	be.True(t, !r.EnableExtension("GL_FOO_bar"))
	be.Equal(t, r.Extensions(), []string{"GL_OES_standard_derivatives", "GL_EXT_draw_buffers"})
}
