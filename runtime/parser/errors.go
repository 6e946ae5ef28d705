package parser

import (
	"fmt"
	"strings"

	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// ErrorKind categorizes a parse error.
type ErrorKind int

const (
	// ErrorStructural means the expected grammar rule was not found.
	ErrorStructural ErrorKind = iota
	// ErrorExhausted means input ended in the middle of a rule.
	ErrorExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorStructural:
		return "syntax error"
	case ErrorExhausted:
		return "unexpected end of input"
	default:
		return "error"
	}
}

// ParseError is a recoverable syntax error. The parser never stops at one: each
// error marks a spot where a placeholder was substituted and parsing continued.
type ParseError struct {
	// Location
	Filename string     // Source filename (empty for stdin/string)
	Span     lexer.Span // Offending input; empty when something was missing

	// Core error info
	Kind    ErrorKind
	Message string   // Clear, specific: "missing ')'"
	Context string   // Innermost grammar rule: "function parameters"
	Labels  []string // Every active rule, outermost first

	// What went wrong
	Expected []string // What would have been valid: "identifier", "':'"
	Got      string   // What was found: "'*'", "end of input"

	// How to fix it
	Suggestion string // Actionable fix: "Did you mean 'let'?"
	Example    string // Valid syntax: "let f :: (a, b): a + b"
	Note       string // Optional explanation
}

// Position returns where the error starts.
func (e ParseError) Position() lexer.Position {
	return e.Span.Start
}

// Error implements the error interface: "file:1:5: missing ')' (in call arguments)".
func (e ParseError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteByte(':')
	}
	b.WriteString(e.Span.Start.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Context != "" {
		b.WriteString(" (in ")
		b.WriteString(e.Context)
		b.WriteByte(')')
	}
	return b.String()
}

// Format renders the error with a source snippet, Rust/Clang style:
//
//	syntax error: expected expression, found '*'
//	  --> 1:8
//	   |
//	 1 | let x: * 2
//	   |        ^
//	   = help: ...
func (e ParseError) Format(source []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Message)
	b.WriteString(snippet(source, e.Filename, e.Span))
	if e.Context != "" {
		fmt.Fprintf(&b, "   = while parsing %s\n", strings.Join(e.Labels, " > "))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "   = help: %s\n", e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "   = example: %s\n", e.Example)
	}
	if e.Note != "" {
		fmt.Fprintf(&b, "   = note: %s\n", e.Note)
	}
	return b.String()
}

// ParseWarning is a non-fatal issue: the parse succeeded but something was
// dropped or degraded.
type ParseWarning struct {
	Filename string
	Span     lexer.Span

	Message    string // "integer literal out of range, using 0"
	Context    string
	Suggestion string
	Note       string
}

// Error renders the warning like ParseError.Error, for logs.
func (w ParseWarning) Error() string {
	loc := w.Span.Start.String()
	if w.Filename != "" {
		loc = w.Filename + ":" + loc
	}
	return loc + ": warning: " + w.Message
}

// Format renders the warning with a source snippet.
func (w ParseWarning) Format(source []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "warning: %s\n", w.Message)
	b.WriteString(snippet(source, w.Filename, w.Span))
	if w.Suggestion != "" {
		fmt.Fprintf(&b, "   = help: %s\n", w.Suggestion)
	}
	if w.Note != "" {
		fmt.Fprintf(&b, "   = note: %s\n", w.Note)
	}
	return b.String()
}

// snippet renders the source line of span with a caret underline.
func snippet(source []byte, filename string, span lexer.Span) string {
	var b strings.Builder
	loc := span.Start.String()
	if filename != "" {
		loc = filename + ":" + loc
	}
	fmt.Fprintf(&b, "  --> %s\n", loc)

	lines := strings.Split(string(source), "\n")
	line := span.Start.Line
	if len(source) == 0 || line < 1 || line > len(lines) {
		return b.String()
	}
	content := strings.TrimRight(lines[line-1], "\r")

	width := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		width = span.End.Column - span.Start.Column
	}
	gutter := len(fmt.Sprint(line))
	pad := strings.Repeat(" ", gutter)

	fmt.Fprintf(&b, " %s |\n", pad)
	fmt.Fprintf(&b, " %d | %s\n", line, content)
	fmt.Fprintf(&b, " %s | %s%s\n", pad, strings.Repeat(" ", span.Start.Column-1), strings.Repeat("^", width))
	return b.String()
}
