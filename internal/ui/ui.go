// Package ui provides colored console helpers for the CLI.
//
// Colors respect the --no-color flag and the NO_COLOR environment variable,
// and are disabled automatically when output is not a TTY.
package ui

import (
	"github.com/fatih/color"
)

var (
	// Red is used for error messages and failures.
	Red = color.New(color.FgRed)

	// Yellow is used for warnings.
	Yellow = color.New(color.FgYellow)

	// Green is used for success messages.
	Green = color.New(color.FgGreen)
)

// InitColors configures global color output based on the noColor flag.
// Call early in main after flag parsing.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

func Successf(format string, args ...any) {
	_, _ = Green.Printf("✅ "+format+"\n", args...)
}

func Warningf(format string, args ...any) {
	_, _ = Yellow.Printf("⚠️  "+format+"\n", args...)
}

// Errorf writes to stderr so failures stay visible under --quiet.
func Errorf(format string, args ...any) {
	_, _ = Red.Fprintf(color.Error, "❌ "+format+"\n", args...)
}
