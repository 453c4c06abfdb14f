// Package config handles loading compiler configuration from files.
//
// Configuration is a TOML file named esslc.toml or .esslc.toml. The config
// file is searched for in the current directory and parent directories.
//
//	stage = "fragment"
//	spec = "webgl"
//	validate-limitations = true
//	loglevel = "warn"
//
//	[resources]
//	max-draw-buffers = 4
//	fragment-precision-high = true
//	extensions = ["GL_OES_standard_derivatives"]
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/symbols"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Stage is "vertex" or "fragment"
	Stage *string `toml:"stage"`

	// Spec is "gles2", "webgl" or "css"
	Spec *string `toml:"spec"`

	ValidateLimitations   *bool `toml:"validate-limitations"`
	AllowIndexArithmetic  *bool `toml:"allow-index-arithmetic"`
	ChecksPrecisionErrors *bool `toml:"checks-precision-errors"`
	Debug                 *bool `toml:"debug"`

	// LogLevel is "silent", "error", "warn" or "verbose"
	LogLevel string `toml:"loglevel"`

	Resources *ResourceConfig `toml:"resources"`
}

// ResourceConfig overrides implementation limits. Unset limits keep the
// OpenGL ES 2.0 minimums.
type ResourceConfig struct {
	MaxVertexAttribs             *int `toml:"max-vertex-attribs"`
	MaxVertexUniformVectors      *int `toml:"max-vertex-uniform-vectors"`
	MaxVaryingVectors            *int `toml:"max-varying-vectors"`
	MaxVertexTextureImageUnits   *int `toml:"max-vertex-texture-image-units"`
	MaxCombinedTextureImageUnits *int `toml:"max-combined-texture-image-units"`
	MaxTextureImageUnits         *int `toml:"max-texture-image-units"`
	MaxFragmentUniformVectors    *int `toml:"max-fragment-uniform-vectors"`
	MaxDrawBuffers               *int `toml:"max-draw-buffers"`

	FragmentPrecisionHigh *bool `toml:"fragment-precision-high"`

	// Extensions lists the extensions the implementation supports
	Extensions []string `toml:"extensions"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"esslc.toml",
	".esslc.toml",
}

// LogLevels are the accepted values of loglevel, quietest first.
var LogLevels = []string{"silent", "error", "warn", "verbose"}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := &Config{}
	if err := toml.Unmarshal(buff, cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Stage != nil {
		if _, err := ParseStage(*c.Stage); err != nil {
			return err
		}
	}
	if c.Spec != nil {
		if _, err := ParseSpec(*c.Spec); err != nil {
			return err
		}
	}
	if c.LogLevel != "" {
		if err := checkLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.Resources != nil {
		var r symbols.Resources
		for _, ext := range c.Resources.Extensions {
			if !r.EnableExtension(ext) {
				return errors.Errorf("unknown extension %q", ext)
			}
		}
		if n := c.Resources.MaxDrawBuffers; n != nil && *n < 1 {
			return errors.Errorf("max-draw-buffers must be at least 1, got %d", *n)
		}
	}
	return nil
}

// ParseStage maps a stage name to a shader type.
func ParseStage(s string) (symbols.ShaderType, error) {
	switch strings.ToLower(s) {
	case "vertex", "vert", "vs":
		return symbols.VertexShader, nil
	case "fragment", "frag", "fs":
		return symbols.FragmentShader, nil
	}
	return symbols.VertexShader, errors.Errorf("unknown shader stage %q", s)
}

// ParseSpec maps a dialect name to a spec.
func ParseSpec(s string) (symbols.Spec, error) {
	switch strings.ToLower(s) {
	case "gles2", "gles":
		return symbols.SpecGLES2, nil
	case "webgl":
		return symbols.SpecWebGL, nil
	case "css", "css-shaders":
		return symbols.SpecCSSShaders, nil
	}
	return symbols.SpecGLES2, errors.Errorf("unknown shader spec %q", s)
}

func checkLogLevel(s string) error {
	for _, l := range LogLevels {
		if s == l {
			return nil
		}
	}
	return errors.Errorf("unknown log level %q", s)
}

// StageFromPath guesses the stage from a file extension: .vert and .vs
// are vertex shaders, .frag and .fs fragment shaders.
func StageFromPath(path string) (symbols.ShaderType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".vs":
		return symbols.VertexShader, true
	case ".frag", ".fs":
		return symbols.FragmentShader, true
	}
	return symbols.VertexShader, false
}

// ToOptions converts a Config to essl.Options, using defaults for unset
// fields. A nil Config yields the defaults.
func (c *Config) ToOptions() essl.Options {
	opts := essl.DefaultOptions()
	if c == nil {
		return opts
	}

	if c.Stage != nil {
		opts.ShaderType, _ = ParseStage(*c.Stage)
	}
	if c.Spec != nil {
		opts.Spec, _ = ParseSpec(*c.Spec)
		opts.ValidateLimitations = opts.Spec.IsWebGLBased()
	}
	if c.ValidateLimitations != nil {
		opts.ValidateLimitations = *c.ValidateLimitations
	}
	if c.AllowIndexArithmetic != nil {
		opts.AllowIndexArithmetic = *c.AllowIndexArithmetic
	}
	if c.ChecksPrecisionErrors != nil {
		opts.ChecksPrecisionErrors = *c.ChecksPrecisionErrors
	}
	if c.Debug != nil {
		opts.Debug = *c.Debug
	}
	if c.Resources != nil {
		c.Resources.apply(&opts.Resources)
	}

	return opts
}

func (rc *ResourceConfig) apply(r *symbols.Resources) {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.MaxVertexAttribs, rc.MaxVertexAttribs)
	set(&r.MaxVertexUniformVectors, rc.MaxVertexUniformVectors)
	set(&r.MaxVaryingVectors, rc.MaxVaryingVectors)
	set(&r.MaxVertexTextureImageUnits, rc.MaxVertexTextureImageUnits)
	set(&r.MaxCombinedTextureImageUnits, rc.MaxCombinedTextureImageUnits)
	set(&r.MaxTextureImageUnits, rc.MaxTextureImageUnits)
	set(&r.MaxFragmentUniformVectors, rc.MaxFragmentUniformVectors)
	set(&r.MaxDrawBuffers, rc.MaxDrawBuffers)

	if rc.FragmentPrecisionHigh != nil {
		r.FragmentPrecisionHigh = *rc.FragmentPrecisionHigh
	}
	for _, ext := range rc.Extensions {
		r.EnableExtension(ext)
	}
}

// MergeOptions holds command line overrides. Nil means not specified.
type MergeOptions struct {
	Stage                *symbols.ShaderType
	Spec                 *symbols.Spec
	ValidateLimitations  *bool
	AllowIndexArithmetic *bool
	Debug                bool
	Extensions           []string
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) essl.Options {
	opts := c.ToOptions()

	if cli.Stage != nil {
		opts.ShaderType = *cli.Stage
	}
	if cli.Spec != nil {
		opts.Spec = *cli.Spec
		if cli.ValidateLimitations == nil && (c == nil || c.ValidateLimitations == nil) {
			opts.ValidateLimitations = opts.Spec.IsWebGLBased()
		}
	}
	if cli.ValidateLimitations != nil {
		opts.ValidateLimitations = *cli.ValidateLimitations
	}
	if cli.AllowIndexArithmetic != nil {
		opts.AllowIndexArithmetic = *cli.AllowIndexArithmetic
	}
	if cli.Debug {
		opts.Debug = true
	}
	for _, ext := range cli.Extensions {
		opts.Resources.EnableExtension(ext)
	}

	return opts
}

// LogLevelOr returns the configured log level, or def when none is set.
func (c *Config) LogLevelOr(def string) string {
	if c == nil || c.LogLevel == "" {
		return def
	}
	return c.LogLevel
}
