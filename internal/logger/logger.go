// Package logger provides verbose logging for vkauth.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace the OAuth flow and API calls.
// Credentials must pass through Redact before they are logged.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// logf holds the lock while writing so lines from concurrent callers
// never interleave.
func logf(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// redactKeep is how many leading characters of a secret stay visible.
const redactKeep = 4

// Redact masks a secret for logging, keeping a short prefix so two
// tokens can still be told apart.
func Redact(secret string) string {
	if len(secret) <= redactKeep*2 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:redactKeep] + strings.Repeat("*", len(secret)-redactKeep)
}
