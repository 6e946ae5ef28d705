package parser

import (
	"log/slog"
	"time"
)

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Counts only
	TelemetryTiming                      // Counts + timing
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Rule entry/exit tracing
	DebugDetailed                   // Rule tracing plus recoveries and loop iterations
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	telemetry  TelemetryMode
	debug      DebugLevel
	logger     *slog.Logger
	filename   string
	nestedElif bool
}

// WithTelemetryBasic enables basic telemetry (counts only)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + parse time)
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths enables rule entry/exit tracing (development only)
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// WithDebugDetailed enables detailed tracing (development only)
func WithDebugDetailed() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugDetailed
	}
}

// WithLogger mirrors debug events to logger at debug level. Events are only
// produced when a debug level is enabled.
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// WithFilename attaches a filename to every diagnostic.
func WithFilename(name string) ParserOpt {
	return func(c *ParserConfig) {
		c.filename = name
	}
}

// WithNestedElifChains makes every elif and the final else nest into the
// deepest else slot, so "if a: 1 elif b: 2 elif c: 3 else: 4" keeps all four
// branches. Without it the parser keeps the historical shape, where only the
// last elif survives and an else after any elif is dropped (each loss is
// reported as a warning).
func WithNestedElifChains() ParserOpt {
	return func(c *ParserConfig) {
		c.nestedElif = true
	}
}

// ParseTelemetry holds parser metrics (production-safe)
type ParseTelemetry struct {
	ParseTime        time.Duration // Zero unless TelemetryTiming
	ByteCount        int           // Source size
	DeclarationCount int           // Top-level declarations
	NodeCount        int           // AST nodes across all declarations
	ErrorCount       int
	WarningCount     int
	RecoveryCount    int // Placeholders substituted by recovery
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_if expression", "recover_atom", ...
	Offset    int    // Cursor byte offset
	Context   string // Additional context
}
