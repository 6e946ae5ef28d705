package parser

import (
	"fmt"
	"time"

	"github.com/crabstar-lang/crabstar/core/ast"
	"github.com/crabstar-lang/crabstar/core/invariant"
	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// Names substituted when a declaration name or parameter list cannot be parsed.
const (
	RecoveredName   = "error_name"
	RecoveredParams = "error_params"
)

// ParseTree is the result of parsing one source. Parsing never fails outright:
// Declarations is always usable and any recovery is listed in Errors.
type ParseTree struct {
	Source       []byte
	Filename     string
	Declarations []*ast.Let
	Errors       []ParseError
	Warnings     []ParseWarning
	Telemetry    *ParseTelemetry // nil unless telemetry is enabled
	DebugEvents  []DebugEvent    // nil unless debug is enabled
}

// HasErrors reports whether any recovery took place.
func (t *ParseTree) HasErrors() bool {
	return len(t.Errors) > 0
}

// Nodes returns the declarations as generic nodes.
func (t *ParseTree) Nodes() []ast.Node {
	nodes := make([]ast.Node, len(t.Declarations))
	for i, d := range t.Declarations {
		nodes[i] = d
	}
	return nodes
}

// Parse parses a crabstar source into top-level declarations.
// Takes []byte directly; the slice is never modified.
func Parse(source []byte, opts ...ParserOpt) *ParseTree {
	p, telemetry, start := newParser(source, opts)

	decls := p.file()

	invariant.Postcondition(len(p.labels) == 0, "rule label stack not unwound: %v", p.labels)
	for i, d := range decls {
		invariant.NotNil(d, fmt.Sprintf("declaration %d", i))
	}

	if telemetry != nil {
		telemetry.DeclarationCount = len(decls)
		for _, d := range decls {
			telemetry.NodeCount += ast.Count(d)
		}
	}
	p.finishTelemetry(telemetry, start)

	return &ParseTree{
		Source:       source,
		Filename:     p.config.filename,
		Declarations: decls,
		Errors:       p.errors,
		Warnings:     p.warnings,
		Telemetry:    telemetry,
		DebugEvents:  p.debugEvents,
	}
}

// ParseString is a convenience wrapper for tests
func ParseString(input string, opts ...ParserOpt) *ParseTree {
	return Parse([]byte(input), opts...)
}

// ParseExpression parses source as a single expression. Input left over after
// the expression is reported and skipped.
func ParseExpression(source []byte, opts ...ParserOpt) (ast.Node, []ParseError) {
	p, _, _ := newParser(source, opts)

	expr := p.expression()
	p.cur.SkipSpace()
	if !p.cur.AtEnd() {
		start := p.cur.Mark()
		got := p.cur.Describe()
		p.cur.SkipUntil(func(*lexer.Cursor) bool { return false })
		p.report(ParseError{
			Span:     p.cur.SpanFrom(start),
			Message:  "unexpected " + got + " after expression",
			Expected: []string{"end of input"},
			Got:      got,
		})
	}
	invariant.NotNil(expr, "expression")
	return expr, p.errors
}

// parser holds the state of one parse. It is not reused.
type parser struct {
	cur         *lexer.Cursor
	errors      []ParseError
	warnings    []ParseWarning
	labels      []string // active rule labels, innermost last
	recoveries  int
	config      *ParserConfig
	debugEvents []DebugEvent
}

func newParser(source []byte, opts []ParserOpt) (*parser, *ParseTelemetry, time.Time) {
	config := &ParserConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var telemetry *ParseTelemetry
	var start time.Time
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{ByteCount: len(source)}
		if config.telemetry >= TelemetryTiming {
			start = time.Now()
		}
	}

	p := &parser{
		cur:    lexer.NewCursor(source),
		errors: make([]ParseError, 0, 4), // Most parses have 0-4 errors
		config: config,
	}
	if config.debug > DebugOff {
		p.debugEvents = make([]DebugEvent, 0, 64)
	}
	return p, telemetry, start
}

func (p *parser) finishTelemetry(telemetry *ParseTelemetry, start time.Time) {
	if telemetry == nil {
		return
	}
	telemetry.ErrorCount = len(p.errors)
	telemetry.WarningCount = len(p.warnings)
	telemetry.RecoveryCount = p.recoveries
	if p.config.telemetry >= TelemetryTiming {
		telemetry.ParseTime = time.Since(start)
	}
}

// recordDebugEvent records debug events when debug tracing is enabled
func (p *parser) recordDebugEvent(event, context string) {
	if p.config.debug == DebugOff || p.debugEvents == nil {
		return
	}

	p.debugEvents = append(p.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Offset:    p.cur.Offset(),
		Context:   context,
	})
	if p.config.logger != nil {
		p.config.logger.Debug(event, "offset", p.cur.Offset(), "context", context)
	}
}

// enter pushes a rule label. Errors reported until the matching leave carry it.
func (p *parser) enter(label string) {
	p.labels = append(p.labels, label)
	if p.config.debug > DebugOff {
		p.recordDebugEvent("enter_"+label, p.cur.Pos().String())
	}
}

func (p *parser) leave() {
	label := p.labels[len(p.labels)-1]
	p.labels = p.labels[:len(p.labels)-1]
	if p.config.debug > DebugOff {
		p.recordDebugEvent("exit_"+label, p.cur.Pos().String())
	}
}

// file parses the top level: a sequence of let declarations separated by
// whitespace. Anything else is skipped up to the next declaration.
func (p *parser) file() []*ast.Let {
	if p.config.debug > DebugOff {
		p.recordDebugEvent("enter_source", "parsing source")
	}

	var decls []*ast.Let
	for {
		p.cur.SkipSpace()
		if p.cur.AtEnd() {
			break
		}
		prev := p.cur.Offset()

		if p.config.debug >= DebugDetailed {
			p.recordDebugEvent("file_loop_iteration", fmt.Sprintf("offset: %d, at: %s", prev, p.cur.Describe()))
		}

		if p.atDeclarationStart() {
			decls = append(decls, p.letDecl())
		} else {
			p.skipToDeclaration()
		}

		// INVARIANT: Parser must make progress in each iteration
		invariant.Invariant(p.cur.Offset() > prev, "parser stuck in file() at offset %d - no progress made", prev)
	}

	if p.config.debug > DebugOff {
		p.recordDebugEvent("exit_source", "source complete")
	}
	return decls
}

// atDeclarationStart reports whether a let keyword begins at the cursor.
func (p *parser) atDeclarationStart() bool {
	return atDeclarationStart(p.cur)
}

func atDeclarationStart(c *lexer.Cursor) bool {
	return c.AtWordStart() && c.AtKeyword(lexer.KwLet)
}

// atKeywordAhead skips whitespace and reports whether kw follows. The
// whitespace is only consumed when it does.
func (p *parser) atKeywordAhead(kw string) bool {
	mark := p.cur.Mark()
	p.cur.SkipSpace()
	if p.cur.AtWordStart() && p.cur.AtKeyword(kw) {
		return true
	}
	p.cur.Reset(mark)
	return false
}

// report records a syntax error, filling in rule context from the label stack.
func (p *parser) report(err ParseError) {
	err.Filename = p.config.filename
	if err.Context == "" && len(p.labels) > 0 {
		err.Context = p.labels[len(p.labels)-1]
	}
	if err.Labels == nil && len(p.labels) > 0 {
		err.Labels = append([]string(nil), p.labels...)
	}
	if err.Got == "" {
		err.Got = p.cur.Describe()
	}
	if err.Got == "end of input" {
		err.Kind = ErrorExhausted
	}
	p.errors = append(p.errors, err)

	if p.config.debug >= DebugDetailed {
		p.recordDebugEvent("error", err.Error())
	}
}

// warn records a non-fatal issue.
func (p *parser) warn(w ParseWarning) {
	w.Filename = p.config.filename
	if w.Context == "" && len(p.labels) > 0 {
		w.Context = p.labels[len(p.labels)-1]
	}
	p.warnings = append(p.warnings, w)

	if p.config.debug >= DebugDetailed {
		p.recordDebugEvent("warning", w.Error())
	}
}

// point is an empty span at the cursor, for errors about something missing.
func (p *parser) point() lexer.Span {
	return p.cur.SpanFrom(p.cur.Mark())
}

// unexpected is the span of the rune at the cursor, or an empty span at end of
// input.
func (p *parser) unexpected() lexer.Span {
	mark := p.cur.Mark()
	p.cur.Next()
	span := p.cur.SpanFrom(mark)
	p.cur.Reset(mark)
	return span
}
