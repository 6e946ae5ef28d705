package main

import (
	"io"
	"os"

	"github.com/crabstar-lang/crabstar/core/astfmt/formatter"
	"github.com/crabstar-lang/crabstar/internal/config"
)

// Re-export color constants from formatter package for convenience
const (
	ColorReset  = formatter.ColorReset
	ColorRed    = formatter.ColorRed
	ColorGreen  = formatter.ColorGreen
	ColorYellow = formatter.ColorYellow
	ColorBlue   = formatter.ColorBlue
	ColorCyan   = formatter.ColorCyan
	ColorGray   = formatter.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
// This is a convenience wrapper around formatter.Colorize
func Colorize(text, color string, useColor bool) string {
	return formatter.Colorize(text, color, useColor)
}

// ShouldUseColor determines if color output should be used.
// "always" and "never" are honored as given; "auto" respects NO_COLOR and
// only colors terminals.
func ShouldUseColor(mode string, lookupEnv func(string) (string, bool), out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if v, ok := lookupEnv("NO_COLOR"); ok && v != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	// Check if the output is a terminal
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
