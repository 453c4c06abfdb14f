// Command esslc is the essl shader checker CLI.
//
// Usage:
//
//	esslc [--loglevel level] <command> [options]
//
// Examples:
//
//	esslc check shader.frag                  # Parse and check
//	esslc check --spec webgl shader.frag     # Check with WebGL restrictions
//	esslc dump -o tree.txt shader.vert       # Write the IR tree to a file
//	esslc repl --stage fragment              # Interactive session
//
// Options not given on the command line are read from an esslc.toml found
// in the shader's directory or one of its parents.
package main

import (
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/pkg/errors"

	"github.com/gogpu/essl/config"
	"github.com/gogpu/essl/logging"
)

const esslcVersion = "0.1.0-dev"

var (
	stageNames = []string{"vertex", "fragment"}
	specNames  = []string{"gles2", "webgl", "css"}
)

func main() {
	os.Exit(execute(os.Args))
}

// execute runs the command line and returns the exit code.
func execute(args []string) int {
	// set up the argument parser and all its commands and arguments
	cli := olive.NewCLI("esslc", "esslc checks OpenGL ES shaders", true)
	// the level defaults to the config file's, then to warn
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, config.LogLevels)

	commands := []struct{ name, desc string }{
		{"check", "parse and check a shader"},
		{"dump", "check a shader and print its tree"},
	}
	for _, c := range commands {
		cmd := cli.AddSubcommand(c.name, c.desc, true)
		cmd.AddPrimaryArg("shader", "the path to the shader source", true)
		cmd.AddSelectorArg("stage", "s", "the shader stage (default: from the file extension)", false, stageNames)
		cmd.AddSelectorArg("spec", "sp", "the shader dialect", false, specNames)
		cmd.AddStringArg("config", "c", "the config file to use", false)
		cmd.AddStringArg("ext", "e", "comma-separated extensions to support", false)
		cmd.AddFlag("limits", "l", "enforce the restricted loop and index profile")
		cmd.AddFlag("no-limits", "nl", "do not enforce the restricted profile")
		cmd.AddFlag("index-arithmetic", "ia", "allow loop index arithmetic in array indices")
		cmd.AddFlag("debug", "d", "print a trace of the semantic checks")
		if c.name == "dump" {
			cmd.AddStringArg("output", "o", "the file to write the tree to", false)
		}
	}

	replCmd := cli.AddSubcommand("repl", "check declarations interactively", true)
	replCmd.AddSelectorArg("stage", "s", "the shader stage", false, stageNames)
	replCmd.AddSelectorArg("spec", "sp", "the shader dialect", false, specNames)
	replCmd.AddStringArg("config", "c", "the config file to use", false)

	cli.AddSubcommand("version", "print the esslc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	loglevel := ""
	if v, ok := result.Arguments["loglevel"]; ok {
		loglevel = v.(string)
	}

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		logging.PrintErrorMessage("CLI Usage Error", errors.New("no command given; try check, dump or repl"))
		return 2
	}

	switch subcmdName {
	case "check":
		return execCheckCommand(subResult, loglevel, false)
	case "dump":
		return execCheckCommand(subResult, loglevel, true)
	case "repl":
		return execReplCommand(subResult, loglevel)
	case "version":
		logging.Initialize(loglevel)
		logging.PrintInfoMessage("esslc version", esslcVersion)
	}
	return 0
}
