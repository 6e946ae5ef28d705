package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/crabstar-lang/crabstar/runtime/parser"
)

// errDifferences makes the process exit non-zero without printing anything,
// like diff(1) when its inputs differ.
var errDifferences = errors.New("inputs differ")

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "input", "config", "parse", "watch"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil || errors.Is(err, errDifferences) {
		return
	}

	var cliErr *CLIError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &parseErr):
		formatParseError(w, parseErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatParseError formats a lone parse error without its source snippet
func formatParseError(w io.Writer, err *parser.ParseError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())

	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Suggestion, ColorYellow, useColor))
	}

	if err.Example != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(err.Example, ColorGray, useColor))
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
