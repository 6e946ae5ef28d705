package formatter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crabstar-lang/crabstar/core/ast"
	"github.com/crabstar-lang/crabstar/core/astfmt/formatter"
	"github.com/crabstar-lang/crabstar/runtime/parser"
)

func TestFormatTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatter.FormatTree(&buf, "empty.cs", nil, false)

	expected := "empty.cs:\n(no declarations)\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTree_Function(t *testing.T) {
	tree := parser.ParseString("let f :: (a, b): a + b")

	var buf bytes.Buffer
	formatter.FormatTree(&buf, "test.cs", tree.Declarations, false)

	expected := strings.Join([]string{
		"test.cs:",
		"└─ let f (function)",
		"   ├─ params",
		"   │  ├─ a",
		"   │  └─ b",
		"   └─ +",
		"      ├─ a",
		"      └─ b",
		"",
	}, "\n")
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTree_ControlFlow(t *testing.T) {
	tree := parser.ParseString("let x: 1\nlet l => -2.5\nlet c: if a: g(1) else: ()")

	var buf bytes.Buffer
	formatter.FormatTree(&buf, "in", tree.Declarations, false)

	expected := strings.Join([]string{
		"in:",
		"├─ let x (value)",
		"│  └─ 1",
		"├─ let l (lazy)",
		"│  └─ -",
		"│     └─ 2.5",
		"└─ let c (value)",
		"   └─ if",
		"      ├─ cond: a",
		"      ├─ then: call",
		"      │  ├─ callee: g",
		"      │  └─ 1",
		"      └─ else: block (empty)",
		"",
	}, "\n")
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTree_Color(t *testing.T) {
	decls := []*ast.Let{{Name: "x", Value: &ast.Dummy{}}}

	var buf bytes.Buffer
	formatter.FormatTree(&buf, "c", decls, true)
	output := buf.String()

	if !strings.Contains(output, formatter.ColorCyan+"x"+formatter.ColorReset) {
		t.Errorf("Expected colored name, got:\n%q", output)
	}
	if !strings.Contains(output, formatter.ColorRed+ast.DummyText+formatter.ColorReset) {
		t.Errorf("Expected red dummy, got:\n%q", output)
	}
}

func TestFormatTree_NoColorHasNoEscapes(t *testing.T) {
	tree := parser.ParseString("let b (1, true, not x, f())")

	var buf bytes.Buffer
	formatter.FormatTree(&buf, "n", tree.Declarations, false)

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("Unexpected ANSI escape in:\n%q", buf.String())
	}
}

func TestColorize(t *testing.T) {
	if got := formatter.Colorize("x", formatter.ColorGreen, false); got != "x" {
		t.Errorf("Colorize without color = %q", got)
	}
	if got := formatter.Colorize("x", formatter.ColorGreen, true); got != "\033[32mx\033[0m" {
		t.Errorf("Colorize with color = %q", got)
	}
}
