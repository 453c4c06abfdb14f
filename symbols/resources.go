package symbols

// ShaderType is the pipeline stage a shader is compiled for.
type ShaderType uint8

const (
	VertexShader ShaderType = iota
	FragmentShader
)

func (s ShaderType) String() string {
	if s == FragmentShader {
		return "fragment"
	}
	return "vertex"
}

// Spec selects the dialect rules applied on top of GLSL ES.
type Spec uint8

const (
	SpecGLES2 Spec = iota
	SpecWebGL
	SpecCSSShaders
)

func (s Spec) String() string {
	switch s {
	case SpecWebGL:
		return "webgl"
	case SpecCSSShaders:
		return "css"
	}
	return "gles2"
}

// IsWebGLBased reports whether s applies the WebGL restrictions. CSS
// shaders are a WebGL dialect.
func (s Spec) IsWebGLBased() bool {
	return s == SpecWebGL || s == SpecCSSShaders
}

// Shader language versions understood by the front-end.
const (
	Version100 = 100
	Version300 = 300
)

// Resources holds implementation limits exposed as built-in constants
// and the extensions the implementation supports.
type Resources struct {
	MaxVertexAttribs             int
	MaxVertexUniformVectors      int
	MaxVaryingVectors            int
	MaxVertexTextureImageUnits   int
	MaxCombinedTextureImageUnits int
	MaxTextureImageUnits         int
	MaxFragmentUniformVectors    int
	MaxDrawBuffers               int

	MaxVertexOutputVectors  int
	MaxFragmentInputVectors int
	MinProgramTexelOffset   int
	MaxProgramTexelOffset   int

	OESStandardDerivatives bool
	OESEGLImageExternal    bool
	ARBTextureRectangle    bool
	EXTDrawBuffers         bool
	EXTFragDepth           bool
	EXTShaderTextureLod    bool

	// FragmentPrecisionHigh makes highp available in fragment shaders.
	FragmentPrecisionHigh bool
}

// DefaultResources returns the minimum limits required by OpenGL ES 2.0
// with every extension switched off.
func DefaultResources() Resources {
	return Resources{
		MaxVertexAttribs:             8,
		MaxVertexUniformVectors:      128,
		MaxVaryingVectors:            8,
		MaxVertexTextureImageUnits:   0,
		MaxCombinedTextureImageUnits: 8,
		MaxTextureImageUnits:         8,
		MaxFragmentUniformVectors:    16,
		MaxDrawBuffers:               1,
		MaxVertexOutputVectors:       16,
		MaxFragmentInputVectors:      15,
		MinProgramTexelOffset:        -8,
		MaxProgramTexelOffset:        7,
	}
}

// Extensions returns the names of the supported extensions.
func (r *Resources) Extensions() []string {
	var exts []string
	add := func(on bool, name string) {
		if on {
			exts = append(exts, name)
		}
	}
	add(r.OESStandardDerivatives, "GL_OES_standard_derivatives")
	add(r.OESEGLImageExternal, "GL_OES_EGL_image_external")
	add(r.ARBTextureRectangle, "GL_ARB_texture_rectangle")
	add(r.EXTDrawBuffers, "GL_EXT_draw_buffers")
	add(r.EXTFragDepth, "GL_EXT_frag_depth")
	add(r.EXTShaderTextureLod, "GL_EXT_shader_texture_lod")
	return exts
}

// EnableExtension switches on the named extension. It reports false for
// names the front-end does not know.
func (r *Resources) EnableExtension(name string) bool {
	switch name {
	case "GL_OES_standard_derivatives":
		r.OESStandardDerivatives = true
	case "GL_OES_EGL_image_external":
		r.OESEGLImageExternal = true
	case "GL_ARB_texture_rectangle":
		r.ARBTextureRectangle = true
	case "GL_EXT_draw_buffers":
		r.EXTDrawBuffers = true
	case "GL_EXT_frag_depth":
		r.EXTFragDepth = true
	case "GL_EXT_shader_texture_lod":
		r.EXTShaderTextureLod = true
	default:
		return false
	}
	return true
}
