package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/crabstar-lang/crabstar/core/astfmt"
	"github.com/crabstar-lang/crabstar/core/astfmt/formatter"
	"github.com/crabstar-lang/crabstar/internal/config"
	"github.com/crabstar-lang/crabstar/runtime/parser"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		format     string
		watch      bool
		nestedElif bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the syntax tree of a source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Format = format
			}
			if nestedElif {
				a.cfg.NestedElif = true
			}
			if err := a.cfg.Validate(); err != nil {
				return &CLIError{Type: "input", Message: "invalid flag value", Details: err.Error()}
			}

			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			if !watch {
				return a.runParse(file)
			}

			if file == "" || file == "-" {
				return &CLIError{
					Type:    "watch",
					Message: "--watch needs a file",
					Hint:    "Stdin cannot be watched; pass a path instead",
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watchParse(ctx, file)
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatTree, "Output format: tree, sexpr, json or cbor")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reparse whenever the file changes")
	cmd.Flags().BoolVar(&nestedElif, "nested-elif", false, "Keep every elif and else branch of a chain")
	return cmd
}

func (a *app) runParse(file string) error {
	tree, err := a.parseInput(file)
	if err != nil {
		return err
	}
	if err := DisplayTree(a.stdout, tree, a.cfg.Format, a.useColor); err != nil {
		return err
	}
	DisplayDiagnostics(a.stderr, tree, a.useColor)
	return parseFailure(tree)
}

func (a *app) watchParse(ctx context.Context, file string) error {
	err := watchFile(ctx, file, a.logger, func() {
		if err := a.runParse(file); err != nil && !isParseFailure(err) {
			FormatError(a.stderr, err, a.useColor)
		}
	})
	if err != nil {
		return &CLIError{Type: "watch", Message: "cannot watch " + file, Details: err.Error()}
	}
	return nil
}

// parseFailure turns syntax errors into a command failure.
func parseFailure(tree *parser.ParseTree) error {
	if !tree.HasErrors() {
		return nil
	}
	return &CLIError{
		Type:    "parse",
		Message: fmt.Sprintf("%s: %s", displayName(tree.Filename), plural(len(tree.Errors), "syntax error")),
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax errors and warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{""}
			}

			failed := 0
			for _, file := range args {
				tree, err := a.parseInput(file)
				if err != nil {
					return err
				}
				DisplayDiagnostics(a.stdout, tree, a.useColor)

				name := displayName(tree.Filename)
				switch {
				case tree.HasErrors():
					failed++
					_, _ = fmt.Fprintf(a.stdout, "%s: %s, %s\n", name,
						Colorize(plural(len(tree.Errors), "error"), ColorRed, a.useColor),
						plural(len(tree.Warnings), "warning"))
				case len(tree.Warnings) > 0:
					_, _ = fmt.Fprintf(a.stdout, "%s: %s\n", name,
						Colorize(plural(len(tree.Warnings), "warning"), ColorYellow, a.useColor))
				default:
					_, _ = fmt.Fprintf(a.stdout, "%s: %s\n", name, Colorize("ok", ColorGreen, a.useColor))
				}
			}

			if failed > 0 {
				return &CLIError{
					Type:    "parse",
					Message: fmt.Sprintf("%d of %d inputs have syntax errors", failed, len(args)),
				}
			}
			return nil
		},
	}
}

func newDigestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "digest [file|-]",
		Short: "Print a structural digest that ignores layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			tree, err := a.parseInput(file)
			if err != nil {
				return err
			}
			DisplayDiagnostics(a.stderr, tree, a.useColor)

			digest, err := astfmt.Digest(tree.Declarations)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "%s  %s\n", digest, displayName(tree.Filename))
			return parseFailure(tree)
		},
	}
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare the structure of two sources declaration by declaration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, err := a.parseInput(args[0])
			if err != nil {
				return err
			}
			actual, err := a.parseInput(args[1])
			if err != nil {
				return err
			}
			DisplayDiagnostics(a.stderr, expected, a.useColor)
			DisplayDiagnostics(a.stderr, actual, a.useColor)

			result := formatter.Diff(expected.Declarations, actual.Declarations)
			_, _ = fmt.Fprint(a.stdout, formatter.FormatDiff(result, a.useColor))
			if !result.Empty() {
				return errDifferences
			}
			return nil
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	var validate string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of 'parse --format json' output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validate == "" {
				_, err := a.stdout.Write(astfmt.Schema())
				return err
			}

			data, err := os.ReadFile(validate)
			if err != nil {
				return &CLIError{Type: "input", Message: "error opening file " + validate, Details: err.Error()}
			}
			if err := astfmt.ValidateJSON(data); err != nil {
				return &CLIError{Type: "input", Message: validate + " is not a valid document", Details: err.Error()}
			}
			_, _ = fmt.Fprintf(a.stdout, "%s: %s\n", validate, Colorize("valid", ColorGreen, a.useColor))
			return nil
		},
	}

	cmd.Flags().StringVar(&validate, "validate", "", "Validate a JSON document instead of printing the schema")
	return cmd
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
