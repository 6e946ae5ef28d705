package parser

import (
	"fmt"
	"strings"

	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// skipToDeclaration skips stray top-level input up to the next declaration or
// end of input and reports it as one error. At least one rune is consumed.
func (p *parser) skipToDeclaration() {
	p.enter("declaration")
	defer p.leave()

	start := p.cur.Mark()
	got := p.cur.Describe()
	word := p.cur.PeekIdent()

	p.cur.Next()
	p.cur.SkipUntil(atDeclarationStart)
	skipped := p.cur.SpanFrom(start)

	// Report only the text, not the whitespace before the next declaration.
	text := strings.TrimRight(p.cur.Text(skipped), " \t\r\n")
	span := skipped
	span.End = advance(start, text)

	err := ParseError{
		Span:     span,
		Message:  "expected declaration, found " + got,
		Expected: []string{"'let'"},
		Got:      got,
		Example:  "let x: 1",
		Note:     fmt.Sprintf("skipped %d bytes", len(text)),
	}
	switch kw := suggestKeyword(word); {
	case kw != "":
		err.Suggestion = "Did you mean '" + kw + "'?"
	case word == lexer.KwElif || word == lexer.KwElse:
		err.Suggestion = "'" + word + "' must follow an if branch"
	case word != "" && !lexer.IsKeyword(word):
		err.Suggestion = "Start declarations with 'let'"
		err.Example = "let " + word + ": 1"
	}
	p.report(err)
	p.recoveries++

	if p.config.debug >= DebugDetailed {
		p.recordDebugEvent("recover_declaration", text)
	}
}

// advance returns the position after text, starting at start.
func advance(start lexer.Position, text string) lexer.Position {
	pos := start
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Offset += len(text)
	return pos
}
