// Package formatter provides human-readable formatting for syntax trees.
// This includes text output, diffs, and tree displays.
package formatter

import (
	"fmt"
	"strings"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// Format returns one line per declaration, numbered from 1.
//
// Format:
//
//	decl 1: (let x 1)
//	decl 2: (let f (a) (+ a 1))
func Format(decls []*ast.Let) string {
	var b strings.Builder
	for i, d := range decls {
		fmt.Fprintf(&b, "decl %d: %s\n", i+1, FormatDeclaration(d))
	}
	return b.String()
}

// FormatDeclaration returns a single declaration as an s-expression.
func FormatDeclaration(d *ast.Let) string {
	if d == nil {
		return "nil"
	}
	return d.String()
}
