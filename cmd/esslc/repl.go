package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ComedicChimera/olive"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/gogpu/essl"
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/logging"
)

const (
	historyFile = ".esslc_history"
	promptMain  = "essl> "
	promptCont  = "  ... "
)

const replBanner = `esslc ` + esslcVersion + ` interactive session
Enter global declarations; each is checked together with the ones before it.
Commands: :source :dump :reset :quit`

// session holds the declarations accepted so far. Each entry is compiled
// as one more source string after them.
type session struct {
	opts  essl.Options
	decls []string
}

// eval checks entry after the accepted declarations and keeps it when it
// is free of errors. Only diagnostics located in entry are returned.
func (s *session) eval(entry string) (*essl.Result, diag.List, error) {
	sources := append(append([]string(nil), s.decls...), entry)
	res, err := essl.Compile(sources, s.opts)

	var own diag.List
	if res != nil {
		for _, d := range res.Diagnostics {
			if d.Loc.File == len(s.decls) {
				own = append(own, d)
			}
		}
	}
	if err == nil {
		s.decls = append(s.decls, entry)
	}
	return res, own, err
}

// dump returns the tree of the accepted declarations.
func (s *session) dump() string {
	if len(s.decls) == 0 {
		return ""
	}
	res, err := essl.Compile(s.decls, s.opts)
	if err != nil || res.Root == nil {
		return ""
	}
	return ir.Dump(res.Root)
}

// isComplete reports whether src can be checked: brackets are balanced and
// it ends a declaration, or it is a directive.
func isComplete(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return true
	}

	depth := 0
	for _, c := range trimmed {
		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	if depth > 0 {
		return false
	}
	last := trimmed[len(trimmed)-1]
	return depth < 0 || last == ';' || last == '}'
}

// execReplCommand executes the repl subcommand
func execReplCommand(result *olive.ArgParseResult, loglevel string) int {
	flags := readFlags(result)
	wd, _ := os.Getwd()

	cfg, _, err := loadConfig(flags.configFile, wd)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 1
	}
	logging.Initialize(resolveLogLevel(loglevel, cfg))

	opts, err := buildOptions(cfg, flags, "")
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return 2
	}
	return runRepl(&session{opts: opts}, logging.Default())
}

func runRepl(s *session, log *logging.Logger) int {
	fmt.Println(replBanner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(entry), ":") {
			if quit := replCommand(s, log, strings.TrimSpace(entry)); quit {
				return 0
			}
			continue
		}

		sources := append(append([]string(nil), s.decls...), entry)
		res, own, err := s.eval(entry)
		log.ReportDiagnostics("<repl>", sources, own)
		if err == nil && res != nil {
			log.PrintInfoMessage("ok", fmt.Sprintf("%d declaration(s) in session", len(s.decls)))
		}
	}
}

// replCommand runs a :command and reports whether the session should end.
func replCommand(s *session, log *logging.Logger, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":reset":
		s.decls = nil
		log.PrintInfoMessage("reset", "session cleared")
	case ":source":
		log.Println(strings.Join(s.decls, "\n"))
	case ":dump":
		log.Println(s.dump())
	default:
		log.PrintErrorMessage("unknown command", errors.Errorf("%s; try :source, :dump, :reset or :quit", cmd))
	}
	return false
}

// readEntry prompts until the input forms a complete entry.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || isComplete(src) {
			return src, true
		}
	}
}
