package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a structured logger on stderr so stdout stays clean for machine-readable
// output. Verbose mode enables debug records.
func NewLogger(verbose bool) *slog.Logger {
	return NewLoggerTo(os.Stderr, verbose)
}

// NewLoggerTo is NewLogger with an explicit destination
func NewLoggerTo(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// VerboseLogger provides consistent verbose logging across packages
type VerboseLogger struct {
	verbose bool
	out     io.Writer
}

// NewVerboseLogger creates a new verbose logger writing to stderr
func NewVerboseLogger(verbose bool) *VerboseLogger {
	return &VerboseLogger{verbose: verbose, out: os.Stderr}
}

// WithOutput redirects the logger, mostly for tests.
func (v *VerboseLogger) WithOutput(w io.Writer) *VerboseLogger {
	v.out = w
	return v
}

// Logf logs a formatted message if verbose mode is enabled
func (v *VerboseLogger) Logf(format string, args ...interface{}) {
	if v.verbose {
		fmt.Fprintf(v.out, format, args...)
	}
}

// DebugLogf logs a debug message if verbose mode is enabled (with [DEBUG] prefix)
func (v *VerboseLogger) DebugLogf(format string, args ...interface{}) {
	if v.verbose {
		fmt.Fprintf(v.out, "[DEBUG] "+format, args...)
	}
}
