package formatter

import (
	"fmt"
	"strings"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// DiffResult represents the differences between two declaration lists.
type DiffResult struct {
	Added    []DeclDiff // Declarations added in actual
	Removed  []DeclDiff // Declarations removed from expected
	Modified []DeclDiff // Declarations that changed
}

// DeclDiff represents a difference in a single declaration.
type DeclDiff struct {
	Index    int    // Declaration number (1-indexed)
	Expected string // Formatted expected declaration (empty for added)
	Actual   string // Formatted actual declaration (empty for removed)
}

// Empty reports whether the two lists had identical structure.
func (r *DiffResult) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Diff compares two declaration lists position by position.
func Diff(expected, actual []*ast.Let) *DiffResult {
	result := &DiffResult{}

	maxDecls := len(expected)
	if len(actual) > maxDecls {
		maxDecls = len(actual)
	}

	for i := 0; i < maxDecls; i++ {
		index := i + 1

		if i >= len(actual) {
			result.Removed = append(result.Removed, DeclDiff{
				Index:    index,
				Expected: FormatDeclaration(expected[i]),
			})
			continue
		}

		if i >= len(expected) {
			result.Added = append(result.Added, DeclDiff{
				Index:  index,
				Actual: FormatDeclaration(actual[i]),
			})
			continue
		}

		expectedStr := FormatDeclaration(expected[i])
		actualStr := FormatDeclaration(actual[i])
		if expectedStr != actualStr {
			result.Modified = append(result.Modified, DeclDiff{
				Index:    index,
				Expected: expectedStr,
				Actual:   actualStr,
			})
		}
	}

	return result
}

// FormatDiff returns a human-readable diff display.
// Shows added, removed, and modified declarations with optional color coding.
func FormatDiff(result *DiffResult, useColor bool) string {
	var b strings.Builder

	red := func(s string) string { return Colorize(s, ColorRed, useColor) }
	green := func(s string) string { return Colorize(s, ColorGreen, useColor) }
	yellow := func(s string) string { return Colorize(s, ColorYellow, useColor) }

	if len(result.Modified) > 0 {
		fmt.Fprintf(&b, "%s\n", yellow("Modified declarations:"))
		for _, diff := range result.Modified {
			fmt.Fprintf(&b, "  decl %d:\n", diff.Index)
			fmt.Fprintf(&b, "    %s\n", red("- "+diff.Expected))
			fmt.Fprintf(&b, "    %s\n", green("+ "+diff.Actual))
		}
		fmt.Fprintln(&b)
	}

	if len(result.Added) > 0 {
		fmt.Fprintf(&b, "%s\n", green("Added declarations:"))
		for _, diff := range result.Added {
			fmt.Fprintf(&b, "  %s\n", green(fmt.Sprintf("+ decl %d: %s", diff.Index, diff.Actual)))
		}
		fmt.Fprintln(&b)
	}

	if len(result.Removed) > 0 {
		fmt.Fprintf(&b, "%s\n", red("Removed declarations:"))
		for _, diff := range result.Removed {
			fmt.Fprintf(&b, "  %s\n", red(fmt.Sprintf("- decl %d: %s", diff.Index, diff.Expected)))
		}
		fmt.Fprintln(&b)
	}

	if result.Empty() {
		fmt.Fprintln(&b, "No differences found.")
	}

	return b.String()
}
