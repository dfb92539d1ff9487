// Package logger provides verbose logging for the catalogo CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to show each stage of ingestion and retrieval.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr

	debugLabel   = color.New(color.FgHiBlack)
	infoLabel    = color.New(color.FgCyan)
	warnLabel    = color.New(color.FgYellow)
	errorLabel   = color.New(color.FgRed, color.Bold)
	sectionLabel = color.New(color.Bold)
)

func init() {
	SetColor(!color.NoColor)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetColor forces coloured level labels on or off.
// By default colour follows the terminal and the NO_COLOR variable.
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range []*color.Color{debugLabel, infoLabel, warnLabel, errorLabel, sectionLabel} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(debugLabel, "[DEBUG]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n%s\n", sectionLabel.Sprintf("=== %s ===", name))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(infoLabel, "[INFO]", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(warnLabel, "[WARN]", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, errorLabel.Sprint("[ERROR]")+" "+format+"\n", args...)
}

// logf holds the write lock so concurrent callers never interleave output.
func logf(label *color.Color, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, label.Sprint(tag)+" "+format+"\n", args...)
	}
}
