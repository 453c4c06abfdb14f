package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/pkg/errors"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/config"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/logging"
)

// cliFlags are the compile options given on the command line. Empty
// strings and false mean not given.
type cliFlags struct {
	stage, spec, ext string
	configFile       string
	limits, noLimits bool
	indexArithmetic  bool
	debug            bool
}

func stringArg(result *olive.ArgParseResult, name string) string {
	if v, ok := result.Arguments[name]; ok {
		return v.(string)
	}
	return ""
}

func readFlags(result *olive.ArgParseResult) cliFlags {
	return cliFlags{
		stage:           stringArg(result, "stage"),
		spec:            stringArg(result, "spec"),
		ext:             stringArg(result, "ext"),
		configFile:      stringArg(result, "config"),
		limits:          result.HasFlag("limits"),
		noLimits:        result.HasFlag("no-limits"),
		indexArithmetic: result.HasFlag("index-arithmetic"),
		debug:           result.HasFlag("debug"),
	}
}

// loadConfig reads the config named on the command line, or searches for
// one from startDir upwards. Returns nil when there is none.
func loadConfig(configFile, startDir string) (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.LoadFile(configFile)
		return cfg, configFile, err
	}
	return config.Load(startDir)
}

// buildOptions merges the command line over the config file. The stage
// comes from --stage, then the shader's file extension, then the config.
func buildOptions(cfg *config.Config, f cliFlags, shaderPath string) (essl.Options, error) {
	var cli config.MergeOptions

	if f.stage != "" {
		stage, err := config.ParseStage(f.stage)
		if err != nil {
			return essl.Options{}, err
		}
		cli.Stage = &stage
	} else if stage, ok := config.StageFromPath(shaderPath); ok {
		cli.Stage = &stage
	}

	if f.spec != "" {
		spec, err := config.ParseSpec(f.spec)
		if err != nil {
			return essl.Options{}, err
		}
		cli.Spec = &spec
	}

	if f.limits && f.noLimits {
		return essl.Options{}, errors.New("--limits and --no-limits are exclusive")
	}
	if f.limits || f.noLimits {
		on := f.limits
		cli.ValidateLimitations = &on
	}
	if f.indexArithmetic {
		on := true
		cli.AllowIndexArithmetic = &on
	}
	cli.Debug = f.debug

	for _, ext := range strings.Split(f.ext, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			cli.Extensions = append(cli.Extensions, ext)
		}
	}

	return cfg.Merge(cli), nil
}

// execCheckCommand executes the check and dump subcommands and handles all
// errors
func execCheckCommand(result *olive.ArgParseResult, loglevel string, dump bool) int {
	shaderPath, _ := result.PrimaryArg()
	flags := readFlags(result)

	cfg, configPath, err := loadConfig(flags.configFile, filepath.Dir(shaderPath))
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 1
	}
	logging.Initialize(resolveLogLevel(loglevel, cfg))
	if configPath != "" {
		logging.PrintInfoMessage("Using config", configPath)
	}

	opts, err := buildOptions(cfg, flags, shaderPath)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	output := ""
	if dump {
		output = stringArg(result, "output")
	}
	return checkFile(logging.Default(), shaderPath, opts, dump, output)
}

// checkFile compiles one shader and reports the outcome. With dump set the
// tree is printed, or written to output when it is not empty.
func checkFile(log *logging.Logger, path string, opts essl.Options, dump bool, output string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		log.PrintErrorMessage("File Error", errors.Wrap(err, "reading shader"))
		return 1
	}
	sources := []string{string(source)}

	log.BeginPhase("Checking")
	res, err := essl.Compile(sources, opts)
	log.EndPhase(err == nil)

	if res != nil {
		if opts.Debug {
			log.PrintTrace(res.Debug)
		}
		log.ReportDiagnostics(path, sources, res.Diagnostics)
	}
	if err != nil {
		return 1
	}

	if dump {
		tree := ir.Dump(res.Root)
		if output == "" {
			log.Println(tree)
			return 0
		}
		if err := os.WriteFile(output, []byte(tree), 0644); err != nil {
			log.PrintErrorMessage("File Error", errors.Wrap(err, "writing tree"))
			return 1
		}
		log.PrintInfoMessage("Wrote", output)
	}
	return 0
}

// resolveLogLevel prefers --loglevel, then the config file, then warn.
func resolveLogLevel(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.LogLevelOr("warn")
}
