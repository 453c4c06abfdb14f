// Package logging prints compiler output for the command line: error and
// info messages, shader diagnostics with source excerpts, and phase
// timings. Library packages never log; they report through diag.Sink and
// the command line hands the result to a Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/gogpu/essl/diag"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// Level selects how much a Logger prints.
type Level int

// Enumeration of the different log levels
const (
	LevelSilent  Level = iota // no output at all
	LevelError                // errors only
	LevelWarn                 // errors and warnings
	LevelVerbose              // errors, warnings, phases and traces
)

func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	}
	return "verbose"
}

// ParseLevel maps a level name as given to --loglevel.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "silent":
		return LevelSilent, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "verbose":
		return LevelVerbose, nil
	}
	return LevelVerbose, errors.Errorf("unknown log level %q", name)
}

// Logger prints messages at or below its level to a writer. It is safe
// for concurrent use.
type Logger struct {
	Level Level

	out        io.Writer
	m          sync.Mutex
	errorCount int

	phase      string
	phaseStart time.Time
}

// New returns a logger writing to out.
func New(out io.Writer, level Level) *Logger {
	return &Logger{Level: level, out: out}
}

// std is the logger behind the package-level functions.
var std = New(os.Stdout, LevelVerbose)

// Initialize sets the level of the package logger by name. Invalid names
// select the verbose level.
func Initialize(levelName string) {
	level, _ := ParseLevel(levelName)
	std.m.Lock()
	std.Level = level
	std.m.Unlock()
}

// Default returns the package logger.
func Default() *Logger { return std }

// ErrorCount is the number of errors printed or suppressed so far.
func (l *Logger) ErrorCount() int {
	l.m.Lock()
	defer l.m.Unlock()
	return l.errorCount
}

func (l *Logger) print(s string) {
	io.WriteString(l.out, s)
}

// PrintErrorMessage prints a standard Go error
func (l *Logger) PrintErrorMessage(tag string, err error) {
	l.m.Lock()
	defer l.m.Unlock()
	l.errorCount++
	if l.Level < LevelError {
		return
	}
	l.print(ErrorStyleBG.Sprint(tag) + ErrorColorFG.Sprint(" "+err.Error()) + "\n")
}

// PrintWarningMessage prints a warning message
func (l *Logger) PrintWarningMessage(tag, msg string) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.Level < LevelWarn {
		return
	}
	l.print(WarnStyleBG.Sprint(tag) + WarnColorFG.Sprint(" "+msg) + "\n")
}

// PrintInfoMessage prints an informational message
func (l *Logger) PrintInfoMessage(tag, msg string) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.Level < LevelVerbose {
		return
	}
	l.print(InfoStyleBG.Sprint(tag) + InfoColorFG.Sprint(" "+msg) + "\n")
}

// Println prints plain output regardless of color, unless silent. It is
// used for results the user asked for, such as a tree dump.
func (l *Logger) Println(s string) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.Level == LevelSilent {
		return
	}
	l.print(s + "\n")
}

// PrintTrace prints semantic trace lines at the verbose level.
func (l *Logger) PrintTrace(lines []string) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.Level < LevelVerbose {
		return
	}
	for _, line := range lines {
		l.print(pterm.FgGray.Sprint(line) + "\n")
	}
}

// ReportDiagnostics prints each diagnostic of a compile with a banner and
// the offending source line. file names the shader in banners; sources
// are the strings the shader was compiled from.
func (l *Logger) ReportDiagnostics(file string, sources []string, list diag.List) {
	l.m.Lock()
	defer l.m.Unlock()

	for _, d := range list {
		isError := d.Severity != diag.Warning
		if isError {
			l.errorCount++
			if l.Level < LevelError {
				continue
			}
		} else if l.Level < LevelWarn {
			continue
		}
		l.displayBanner(file, isError)
		l.print(d.FormatWithContext(sources) + "\n")
	}
}

// displayBanner displays the banner on top of each diagnostic
func (l *Logger) displayBanner(file string, isError bool) {
	var kind string
	if isError {
		kind = ErrorStyleBG.Sprint("Shader Error")
	} else {
		kind = WarnStyleBG.Sprint("Shader Warning")
	}
	kindLen := len("Shader Warning")
	if isError {
		kindLen = len("Shader Error")
	}

	name := filepath.Base(file)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(name) - kindLen - 1
	if dashCount < 2 {
		dashCount = 2
	}

	l.print("\n-- " + kind + " " + strings.Repeat("-", dashCount) + " " + InfoColorFG.Sprint(name) + "\n")
}

const maxPhaseLength = len("Validating")

// BeginPhase starts timing a compilation phase.
func (l *Logger) BeginPhase(phase string) {
	l.m.Lock()
	defer l.m.Unlock()
	l.phase = phase
	l.phaseStart = time.Now()
}

// EndPhase prints the outcome of the current phase at the verbose level.
func (l *Logger) EndPhase(success bool) {
	l.m.Lock()
	defer l.m.Unlock()
	if l.phase == "" {
		return
	}
	phase := l.phase
	l.phase = ""
	if l.Level < LevelVerbose {
		return
	}

	pad := maxPhaseLength - len(phase) + 2
	if pad < 1 {
		pad = 1
	}
	elapsed := fmt.Sprintf("(%.3fs)", time.Since(l.phaseStart).Seconds())
	if success {
		l.print(SuccessStyleBG.Sprint("Done") + " " + phase + strings.Repeat(" ", pad) + elapsed + "\n")
	} else {
		l.print(ErrorStyleBG.Sprint("Fail") + " " + phase + strings.Repeat(" ", pad) + elapsed + "\n")
	}
}

// PrintErrorMessage prints an error through the package logger.
func PrintErrorMessage(tag string, err error) { std.PrintErrorMessage(tag, err) }

// PrintWarningMessage prints a warning through the package logger.
func PrintWarningMessage(tag, msg string) { std.PrintWarningMessage(tag, msg) }

// PrintInfoMessage prints an informational message through the package logger.
func PrintInfoMessage(tag, msg string) { std.PrintInfoMessage(tag, msg) }
