package formatter_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crabstar-lang/crabstar/core/astfmt/formatter"
	"github.com/crabstar-lang/crabstar/runtime/parser"
)

// TestDiff verifies diff comparison logic
func TestDiff(t *testing.T) {
	tests := []struct {
		name         string
		expected     string
		actual       string
		wantAdded    int
		wantRemoved  int
		wantModified int
	}{
		{
			name:     "identical",
			expected: "let x: 1\nlet f :: (a): a",
			actual:   "let x: 1\nlet f :: (a): a",
		},
		{
			name:     "layout only",
			expected: "let f::(a,b):a+b",
			actual:   "let f :: (a, b):\n  a + b",
		},
		{
			name:         "modified",
			expected:     "let x: 1",
			actual:       "let x: 2",
			wantModified: 1,
		},
		{
			name:      "added",
			expected:  "let x: 1",
			actual:    "let x: 1\nlet y: 2",
			wantAdded: 1,
		},
		{
			name:        "removed",
			expected:    "let x: 1\nlet y: 2\nlet z: 3",
			actual:      "let x: 1",
			wantRemoved: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatter.Diff(
				parser.ParseString(tt.expected).Declarations,
				parser.ParseString(tt.actual).Declarations,
			)

			if len(result.Added) != tt.wantAdded {
				t.Errorf("Added = %d, want %d", len(result.Added), tt.wantAdded)
			}
			if len(result.Removed) != tt.wantRemoved {
				t.Errorf("Removed = %d, want %d", len(result.Removed), tt.wantRemoved)
			}
			if len(result.Modified) != tt.wantModified {
				t.Errorf("Modified = %d, want %d", len(result.Modified), tt.wantModified)
			}
			wantEmpty := tt.wantAdded == 0 && tt.wantRemoved == 0 && tt.wantModified == 0
			if result.Empty() != wantEmpty {
				t.Errorf("Empty() = %v, want %v", result.Empty(), wantEmpty)
			}
		})
	}
}

func TestFormatDiff(t *testing.T) {
	result := formatter.Diff(
		parser.ParseString("let x: 1\nlet y: 2").Declarations,
		parser.ParseString("let x: 3").Declarations,
	)

	expected := strings.Join([]string{
		"Modified declarations:",
		"  decl 1:",
		"    - (let x 1)",
		"    + (let x 3)",
		"",
		"Removed declarations:",
		"  - decl 2: (let y 2)",
		"",
		"",
	}, "\n")
	if diff := cmp.Diff(expected, formatter.FormatDiff(result, false)); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDiff_Added(t *testing.T) {
	result := formatter.Diff(nil, parser.ParseString("let z => 0").Declarations)

	expected := "Added declarations:\n  + decl 1: (let z () 0)\n\n"
	if diff := cmp.Diff(expected, formatter.FormatDiff(result, false)); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDiff_NoDifferences(t *testing.T) {
	decls := parser.ParseString("let x: 1").Declarations
	got := formatter.FormatDiff(formatter.Diff(decls, decls), false)
	if got != "No differences found.\n" {
		t.Errorf("FormatDiff = %q", got)
	}
}

func TestFormatDiff_Color(t *testing.T) {
	result := formatter.Diff(
		parser.ParseString("let x: 1").Declarations,
		parser.ParseString("let x: 2").Declarations,
	)
	got := formatter.FormatDiff(result, true)
	if !strings.Contains(got, formatter.ColorRed+"- (let x 1)"+formatter.ColorReset) {
		t.Errorf("Expected red removal line, got:\n%q", got)
	}
	if !strings.Contains(got, formatter.ColorGreen+"+ (let x 2)"+formatter.ColorReset) {
		t.Errorf("Expected green addition line, got:\n%q", got)
	}
}
