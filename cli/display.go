package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/crabstar-lang/crabstar/core/astfmt"
	"github.com/crabstar-lang/crabstar/core/astfmt/formatter"
	"github.com/crabstar-lang/crabstar/internal/config"
	"github.com/crabstar-lang/crabstar/runtime/lexer"
	"github.com/crabstar-lang/crabstar/runtime/parser"
)

// DisplayTree writes the declarations of tree in the given output format.
func DisplayTree(w io.Writer, tree *parser.ParseTree, format string, useColor bool) error {
	name := displayName(tree.Filename)

	switch format {
	case config.FormatTree:
		formatter.FormatTree(w, name, tree.Declarations, useColor)
		return nil
	case config.FormatSexpr:
		for _, d := range tree.Declarations {
			if _, err := fmt.Fprintln(w, formatter.FormatDeclaration(d)); err != nil {
				return err
			}
		}
		return nil
	case config.FormatJSON:
		doc, err := astfmt.NewDocument(tree.Filename, tree.Declarations, Diagnostics(tree))
		if err != nil {
			return err
		}
		return astfmt.WriteJSON(w, doc)
	case config.FormatCBOR:
		data, err := astfmt.MarshalCanonical(tree.Declarations)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("unknown output format %q", format),
			Hint:    "Use one of: tree, sexpr, json, cbor",
		}
	}
}

// DisplayDiagnostics writes every error and warning with its source snippet.
func DisplayDiagnostics(w io.Writer, tree *parser.ParseTree, useColor bool) {
	for _, e := range tree.Errors {
		writeDiagnostic(w, e.Format(tree.Source), ColorRed, useColor)
	}
	for _, warning := range tree.Warnings {
		writeDiagnostic(w, warning.Format(tree.Source), ColorYellow, useColor)
	}
}

// writeDiagnostic colors the headline of a formatted diagnostic.
func writeDiagnostic(w io.Writer, text, color string, useColor bool) {
	head, rest, _ := strings.Cut(text, "\n")
	_, _ = fmt.Fprintf(w, "%s\n%s\n", Colorize(head, color, useColor), rest)
}

// DisplayTelemetry writes a one-line summary of parse metrics.
func DisplayTelemetry(w io.Writer, tree *parser.ParseTree, timing bool) {
	t := tree.Telemetry
	if t == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "telemetry: %s: %d bytes, %d declarations, %d nodes, %d errors, %d warnings, %d recoveries",
		displayName(tree.Filename), t.ByteCount, t.DeclarationCount, t.NodeCount, t.ErrorCount, t.WarningCount, t.RecoveryCount)
	if timing {
		_, _ = fmt.Fprintf(w, ", parsed in %s", t.ParseTime)
	}
	_, _ = fmt.Fprintln(w)
}

// Diagnostics converts the errors and warnings of tree for serialization.
func Diagnostics(tree *parser.ParseTree) []astfmt.Diagnostic {
	var out []astfmt.Diagnostic
	for _, e := range tree.Errors {
		d := diagnostic(astfmt.SeverityError, e.Span, e.Message)
		d.Context = e.Context
		d.Labels = e.Labels
		d.Expected = e.Expected
		d.Got = e.Got
		d.Suggestion = e.Suggestion
		out = append(out, d)
	}
	for _, w := range tree.Warnings {
		d := diagnostic(astfmt.SeverityWarning, w.Span, w.Message)
		d.Context = w.Context
		d.Suggestion = w.Suggestion
		out = append(out, d)
	}
	return out
}

func diagnostic(severity string, span lexer.Span, message string) astfmt.Diagnostic {
	return astfmt.Diagnostic{
		Severity:  severity,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		Offset:    span.Start.Offset,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
		EndOffset: span.End.Offset,
		Message:   message,
	}
}

func displayName(filename string) string {
	if filename == "" {
		return stdinName
	}
	return filename
}
