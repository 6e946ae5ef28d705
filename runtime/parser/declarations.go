package parser

import (
	"strings"

	"github.com/crabstar-lang/crabstar/core/ast"
	"github.com/crabstar-lang/crabstar/core/invariant"
	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// letDecl parses a declaration in one of three forms:
//
//	let NAME Body              value binding
//	let NAME :: ParamList Body function
//	let NAME => Expr           lazy binding
//
// The cursor must be at the let keyword. A Let is always returned.
func (p *parser) letDecl() *ast.Let {
	invariant.Precondition(p.cur.AtKeyword(lexer.KwLet), "letDecl called at %s", p.cur.Describe())

	p.enter("let declaration")
	defer p.leave()

	p.cur.Keyword(lexer.KwLet)
	p.cur.SkipSpace()
	let := &ast.Let{Name: p.declName()}
	p.cur.SkipSpace()

	switch {
	case p.cur.Consume("::"):
		let.HasParams = true
		let.Params = p.paramList()
		let.Value = p.body()
	case p.cur.Consume("=>"):
		let.HasParams = true
		p.enter("lazy value")
		let.Value = p.expression()
		p.leave()
	default:
		let.Value = p.body()
	}
	return let
}

// declName parses the declared name. When no usable identifier is present, the
// run of text up to the next whitespace or ':', '=', '(' or ')' is taken
// verbatim, or RecoveredName if that run is empty.
func (p *parser) declName() string {
	p.enter("declaration name")
	defer p.leave()

	if word := p.cur.PeekIdent(); word != "" && !lexer.IsKeyword(word) {
		p.cur.Ident()
		return word
	}

	got := p.cur.Describe()
	word := p.cur.PeekIdent()
	span := p.cur.SkipUntil(func(c *lexer.Cursor) bool {
		r := c.Peek()
		return lexer.IsSpace(r) || strings.ContainsRune(":=()", r) || atDeclarationStart(c)
	})

	err := ParseError{
		Span:     span,
		Message:  "expected identifier after 'let', found " + got,
		Expected: []string{"identifier"},
		Got:      got,
		Example:  "let total: 1 + 2",
	}
	if lexer.IsKeyword(word) {
		err.Message = "'" + word + "' is a reserved word and cannot be declared"
		err.Suggestion = "Choose a different name"
	} else {
		err.Suggestion = "Names start with a letter or '_'"
	}
	p.report(err)
	p.recoveries++

	name := p.cur.Text(span)
	if name == "" {
		name = RecoveredName
	}
	return name
}

// paramList parses "(" [Param ("," Param)* [","]] ")". If the list as a whole
// cannot be parsed it is skipped through its closing ')' and replaced by a
// single RecoveredParams identifier.
func (p *parser) paramList() []ast.Node {
	p.enter("function parameters")
	defer p.leave()

	p.cur.SkipSpace()
	if p.cur.Peek() != '(' {
		p.report(ParseError{
			Span:       p.unexpected(),
			Message:    "expected '(' to start the parameter list",
			Expected:   []string{"'('"},
			Suggestion: "Wrap the parameters in parentheses",
			Example:    "let add :: (a, b): a + b",
		})
		p.recoveries++
		return recoveredParams()
	}

	open := p.cur.Mark()
	p.cur.Consume("(")

	var params []ast.Node
	for {
		p.cur.SkipSpace()
		if p.cur.AtEnd() || p.cur.Peek() == ')' {
			break
		}
		param, ok := p.param()
		if !ok {
			return p.recoverParamList(open, []string{"identifier"})
		}
		params = append(params, param)

		p.cur.SkipSpace()
		if !p.cur.Consume(",") {
			break
		}
	}

	if !p.cur.Consume(")") {
		return p.recoverParamList(open, []string{"','", "')'"})
	}
	return params
}

// param parses one parameter name. A malformed name that still occupies some
// input becomes a Dummy; ok is false only when nothing could be consumed.
func (p *parser) param() (node ast.Node, ok bool) {
	p.enter("function parameter")
	defer p.leave()

	if word := p.cur.PeekIdent(); word != "" && !lexer.IsKeyword(word) {
		p.cur.Ident()
		return &ast.Ident{Name: word}, true
	}

	got := p.cur.Describe()
	span := p.cur.SkipUntil(func(c *lexer.Cursor) bool {
		return strings.ContainsRune(",)(:", c.Peek()) || atDeclarationStart(c)
	})
	if span.Empty() {
		return nil, false
	}

	p.report(ParseError{
		Span:       span,
		Message:    "invalid parameter name " + got,
		Expected:   []string{"identifier"},
		Got:        got,
		Suggestion: "Parameter names start with a letter or '_' and cannot be reserved words",
		Example:    "let add :: (a, b): a + b",
	})
	p.recoveries++
	return &ast.Dummy{}, true
}

// recoverParamList reports a broken parameter list and skips through the ')'
// closing the list opened at open.
func (p *parser) recoverParamList(open lexer.Position, expected []string) []ast.Node {
	err := ParseError{
		Span:       p.unexpected(),
		Message:    "malformed parameter list",
		Expected:   expected,
		Suggestion: "Separate parameters with ',' and close the list with ')'",
		Example:    "let add :: (a, b): a + b",
		Note:       "parameter list opened at " + open.String(),
	}
	if p.cur.AtEnd() {
		err.Message = "unclosed parameter list"
	}
	p.report(err)
	p.skipToClose(1)
	p.recoveries++
	return recoveredParams()
}

func recoveredParams() []ast.Node {
	return []ast.Node{&ast.Ident{Name: RecoveredParams}}
}

// body parses a declaration body: ":" Expr, or a parenthesized list which
// always yields a Block. An unrecognizable body is skipped up to the next
// declaration and replaced by a Dummy.
func (p *parser) body() ast.Node {
	p.enter("declaration body")
	defer p.leave()

	p.cur.SkipSpace()
	switch {
	case p.cur.Consume(":"):
		return p.expression()
	case p.cur.Peek() == '(':
		return p.block()
	}

	got := p.cur.Describe()
	start := p.cur.Mark()
	p.cur.SkipUntil(atDeclarationStart)
	p.report(ParseError{
		Span:       p.cur.SpanFrom(start),
		Message:    "expected ':', '::', '=>' or '(' after the declared name, found " + got,
		Expected:   []string{"':'", "'::'", "'=>'", "'('"},
		Got:        got,
		Suggestion: "Use ':' for a value, '::' for a function or '=>' for a lazy binding",
		Example:    "let x: 1",
	})
	p.recoveries++
	return &ast.Dummy{}
}

// block parses "(" Expr,* ")" into a Block, even with one element. The cursor
// must be at '('.
func (p *parser) block() ast.Node {
	items, ok := p.exprList("block")
	if !ok {
		return &ast.Dummy{}
	}
	return &ast.Block{Items: items}
}
