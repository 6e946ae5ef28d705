package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crabstar-lang/crabstar/core/ast"
)

func TestIfExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Node
	}{
		{
			name:  "if without else",
			input: "if a: 1",
			want:  ifx(id("a"), num(1), nil),
		},
		{
			name:  "if else",
			input: "if a: 1 else: 2",
			want:  ifx(id("a"), num(1), num(2)),
		},
		{
			name:  "block branches",
			input: "if a (1, 2) else (3)",
			want:  ifx(id("a"), block(num(1), num(2)), block(num(3))),
		},
		{
			name:  "colon branch after call condition",
			input: "if f(x): 1",
			want:  ifx(call(id("f"), id("x")), num(1), nil),
		},
		{
			name:  "compound condition",
			input: "if x > 0 and not y: x else: -x",
			want:  ifx(bin("and", bin(">", id("x"), num(0)), not(id("y"))), id("x"), neg(id("x"))),
		},
		{
			name:  "single elif",
			input: "if a: 1 elif b: 2",
			want:  ifx(id("a"), num(1), ifx(id("b"), num(2), nil)),
		},
		{
			name:  "dangling else binds to inner if",
			input: "if a: if b: 1 else: 2",
			want:  ifx(id("a"), ifx(id("b"), num(1), num(2)), nil),
		},
		{
			name:  "branches across lines",
			input: "if a:\n  1\nelse:\n  2",
			want:  ifx(id("a"), num(1), num(2)),
		},
		{
			name:  "elif keyword prefix is an identifier",
			input: "if a: elifant",
			want:  ifx(id("a"), id("elifant"), nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseExpression([]byte(tt.input))
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errorMessages(errs))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// "if x (a, b)" reads x(a, b) as the condition; the argument list is taken
// back as the branch.
func TestIfConditionCallAmbiguity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Node
	}{
		{
			name:  "identifier condition",
			input: "if a (1, 2)",
			want:  ifx(id("a"), block(num(1), num(2)), nil),
		},
		{
			name:  "with else",
			input: "if a (1) else (2)",
			want:  ifx(id("a"), block(num(1)), block(num(2))),
		},
		{
			name:  "empty branch",
			input: "if a ()",
			want:  ifx(id("a"), block(), nil),
		},
		{
			name:  "call condition",
			input: "if f() (1)",
			want:  ifx(call(id("f")), block(num(1)), nil),
		},
		{
			name:  "comparison condition",
			input: "if a < b (1)",
			want:  ifx(bin("<", id("a"), id("b")), block(num(1)), nil),
		},
		{
			name:  "negated condition",
			input: "if not a (1)",
			want:  ifx(not(id("a")), block(num(1)), nil),
		},
		{
			name:  "elif condition",
			input: "if a: 1 elif b (2)",
			want:  ifx(id("a"), num(1), ifx(id("b"), block(num(2)), nil)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseExpression([]byte(tt.input))
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errorMessages(errs))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElifChains(t *testing.T) {
	const input = "let x: if a: 1 elif b: 2 elif c: 3 else: 4"

	tests := []struct {
		name     string
		opts     []ParserOpt
		want     ast.Node
		warnings []string
	}{
		{
			name: "default keeps the last elif and drops else",
			want: ifx(id("a"), num(1), ifx(id("c"), num(3), nil)),
			warnings: []string{
				"elif branch is superseded by the following elif",
				"else branch after elif is discarded",
			},
		},
		{
			name: "nested chains keep every branch",
			opts: []ParserOpt{WithNestedElifChains()},
			want: ifx(id("a"), num(1), ifx(id("b"), num(2), ifx(id("c"), num(3), num(4)))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ParseString(input, tt.opts...)
			if len(tree.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", errorMessages(tree.Errors))
			}
			if diff := cmp.Diff([]*ast.Let{value("x", tt.want)}, tree.Declarations); diff != "" {
				t.Errorf("declarations mismatch (-want +got):\n%s", diff)
			}

			var got []string
			for _, w := range tree.Warnings {
				got = append(got, w.Message)
				if w.Context != "if expression" {
					t.Errorf("warning context = %q, want %q", w.Context, "if expression")
				}
			}
			if diff := cmp.Diff(tt.warnings, got); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElseWithoutElifIsKept(t *testing.T) {
	for _, opts := range [][]ParserOpt{nil, {WithNestedElifChains()}} {
		tree := ParseString("let x: if a: 1 else: 2", opts...)
		if len(tree.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", tree.Warnings)
		}
		want := []*ast.Let{value("x", ifx(id("a"), num(1), num(2)))}
		if diff := cmp.Diff(want, tree.Declarations); diff != "" {
			t.Errorf("declarations mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestIfMissingBranch(t *testing.T) {
	tree := ParseString("let x: if a 1")

	want := []*ast.Let{value("x", ifx(id("a"), dummy(), nil))}
	if diff := cmp.Diff(want, tree.Declarations); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}

	var contexts []string
	for _, e := range tree.Errors {
		contexts = append(contexts, e.Context)
	}
	if diff := cmp.Diff([]string{"if expression", "declaration"}, contexts); diff != "" {
		t.Errorf("error contexts mismatch (-want +got):\n%s", diff)
	}
}
