package parser

import (
	"fmt"
	"strings"
	"testing"
)

// Benchmark suite for parser performance analysis.
//
// - BenchmarkParserCore: Performance across syntax complexity levels
// - BenchmarkTelemetryModes: Observability overhead
// - BenchmarkParserScaling: Linear scaling across source sizes
// - BenchmarkRecovery: Cost of parsing broken input

func BenchmarkParserCore(b *testing.B) {
	scenarios := map[string]string{
		"empty":    "",
		"simple":   "let x: 1",
		"function": "let add :: (a, b): a + b * 2",
		"complex":  generateProgram(50),
	}

	for name, input := range scenarios {
		b.Run(name, func(b *testing.B) {
			inputBytes := []byte(input)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				tree := Parse(inputBytes)
				_ = tree
			}
		})
	}
}

func BenchmarkTelemetryModes(b *testing.B) {
	input := []byte(generateProgram(50))

	modes := map[string][]ParserOpt{
		"off":    nil,
		"basic":  {WithTelemetryBasic()},
		"timing": {WithTelemetryTiming()},
		"debug":  {WithDebugPaths()},
	}

	for name, opts := range modes {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Parse(input, opts...)
			}
		})
	}
}

func BenchmarkParserScaling(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		input := []byte(generateProgram(n))
		b.Run(fmt.Sprintf("decls_%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Parse(input)
			}
		})
	}
}

func BenchmarkRecovery(b *testing.B) {
	input := []byte(strings.Repeat("let f :: (a b): (1 +, g(2 3)\nlet x: * 2\n", 50))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Parse(input)
	}
}

// generateProgram builds n declarations mixing every construct.
func generateProgram(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&b, "let v%d: %d + %d * (x - 1)\n", i, i, i+1)
		case 1:
			fmt.Fprintf(&b, "let f%d :: (a, b, c): if a < b and not c: a elif b: f(a)(b) else: c\n", i)
		case 2:
			fmt.Fprintf(&b, "let l%d => g(%d.5, true, false)\n", i, i)
		default:
			fmt.Fprintf(&b, "let b%d (let t: 1, t = 1 or t != 2, -t)\n", i)
		}
	}
	return b.String()
}
