package parser

import (
	"strconv"

	"github.com/crabstar-lang/crabstar/core/ast"
	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// Precedence, loosest first. Every binary level is left-associative.
//
//	or
//	and
//	= !=
//	< <= > >=
//	+ -
//	* / %
//	not -        (prefix, right-recursive)
//	call         f(a)(b)
//	atom

// expression parses a full expression.
func (p *parser) expression() ast.Node {
	return p.or()
}

func (p *parser) or() ast.Node {
	return p.binary(p.and, func() (string, bool) {
		return p.keywordOp(lexer.KwOr)
	})
}

func (p *parser) and() ast.Node {
	return p.binary(p.equality, func() (string, bool) {
		return p.keywordOp(lexer.KwAnd)
	})
}

func (p *parser) equality() ast.Node {
	return p.binary(p.comparison, func() (string, bool) {
		if p.cur.HasPrefix("=>") {
			return "", false
		}
		return p.symbolOp("!=", "=")
	})
}

func (p *parser) comparison() ast.Node {
	return p.binary(p.sum, func() (string, bool) {
		return p.symbolOp("<=", ">=", "<", ">")
	})
}

func (p *parser) sum() ast.Node {
	return p.binary(p.product, func() (string, bool) {
		return p.symbolOp("+", "-")
	})
}

func (p *parser) product() ast.Node {
	return p.binary(p.prefix, func() (string, bool) {
		return p.symbolOp("*", "/", "%")
	})
}

// binary parses operand (op operand)* and folds to the left. op is tried after
// whitespace; when it does not match, the whitespace is left unconsumed.
func (p *parser) binary(operand func() ast.Node, op func() (string, bool)) ast.Node {
	lhs := operand()
	for {
		mark := p.cur.Mark()
		p.cur.SkipSpace()
		symbol, ok := op()
		if !ok {
			p.cur.Reset(mark)
			return lhs
		}
		rhs := operand()
		lhs = &ast.Binary{Op: symbol, Left: lhs, Right: rhs}
	}
}

// symbolOp consumes the first of ops found at the cursor. Longer operators
// must be listed before their prefixes.
func (p *parser) symbolOp(ops ...string) (string, bool) {
	for _, op := range ops {
		if p.cur.Consume(op) {
			return op, true
		}
	}
	return "", false
}

func (p *parser) keywordOp(kw string) (string, bool) {
	if p.cur.AtWordStart() && p.cur.Keyword(kw) {
		return kw, true
	}
	return "", false
}

// prefix parses ("not" | "-")* call.
func (p *parser) prefix() ast.Node {
	p.cur.SkipSpace()
	switch {
	case p.cur.AtKeyword(lexer.KwNot):
		p.enter(lexer.KwNot)
		defer p.leave()
		p.cur.Keyword(lexer.KwNot)
		return &ast.Unary{Op: lexer.KwNot, Operand: p.prefix()}
	case p.cur.Peek() == '-':
		p.enter("-")
		defer p.leave()
		p.cur.Consume("-")
		return &ast.Unary{Op: "-", Operand: p.prefix()}
	}
	return p.call()
}

// call parses an atom followed by any number of argument lists. Each list wraps
// the result so far, so f(1)(2) is Call(Call(f, [1]), [2]).
func (p *parser) call() ast.Node {
	callee := p.atom()
	for {
		mark := p.cur.Mark()
		p.cur.SkipSpace()
		if p.cur.Peek() != '(' {
			p.cur.Reset(mark)
			return callee
		}

		p.enter("call arguments")
		args, ok := p.exprList("call arguments")
		p.leave()
		if !ok {
			args = []ast.Node{&ast.Dummy{}}
		}
		callee = &ast.Call{Callee: callee, Args: args}
	}
}

// atom parses the innermost expression forms. When none applies, the input is
// skipped up to a likely resumption point and a Dummy is returned.
func (p *parser) atom() ast.Node {
	p.cur.SkipSpace()

	switch word := p.cur.PeekIdent(); {
	case word == lexer.KwIf:
		return p.ifExpr()
	case word == lexer.KwLet:
		return p.letDecl()
	case word == lexer.KwTrue || word == lexer.KwFalse:
		p.cur.Keyword(word)
		return &ast.Bool{Value: word == lexer.KwTrue}
	case word != "" && !lexer.IsKeyword(word):
		p.cur.Ident()
		return &ast.Ident{Name: word}
	case word != "":
		// and, or, not in operand position, or a stray elif/else
		return p.recoverAtom()
	}

	switch r := p.cur.Peek(); {
	case lexer.IsDigit(r):
		return p.number()
	case r == '(':
		return p.group()
	}
	return p.recoverAtom()
}

// number parses Digits ["." Digits]. A literal that does not fit is replaced
// by zero with a warning.
func (p *parser) number() ast.Node {
	p.enter("number")
	defer p.leave()

	start := p.cur.Mark()
	whole, _ := p.cur.Digits()

	afterWhole := p.cur.Mark()
	if p.cur.Consume(".") {
		if frac, ok := p.cur.Digits(); ok {
			value, err := strconv.ParseFloat(whole+"."+frac, 64)
			if err != nil {
				p.warn(ParseWarning{
					Span:    p.cur.SpanFrom(start),
					Message: "float literal out of range, using 0.0",
				})
				value = 0
			}
			return &ast.Float{Value: value}
		}
		p.cur.Reset(afterWhole)
	}

	value, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		p.warn(ParseWarning{
			Span:       p.cur.SpanFrom(start),
			Message:    "integer literal out of range, using 0",
			Suggestion: "Integer literals must fit in 64 bits",
		})
		value = 0
	}
	return &ast.Int{Value: value}
}

// group parses a parenthesized list. A single element is returned unwrapped;
// anything else becomes a Block.
func (p *parser) group() ast.Node {
	p.enter("parenthesized expression")
	defer p.leave()

	items, ok := p.exprList("parenthesized expression")
	switch {
	case !ok:
		return &ast.Dummy{}
	case len(items) == 1:
		return items[0]
	default:
		return &ast.Block{Items: items}
	}
}

// exprList parses "(" [Expr ("," Expr)* [","]] ")" with the cursor at '('.
// When the closing paren is missing, the input is skipped through the ')'
// balancing the opening one and ok is false.
func (p *parser) exprList(what string) (items []ast.Node, ok bool) {
	open := p.cur.Mark()
	p.cur.Consume("(")

	for {
		p.cur.SkipSpace()
		if p.cur.AtEnd() || p.cur.Peek() == ')' {
			break
		}
		items = append(items, p.expression())

		p.cur.SkipSpace()
		if !p.cur.Consume(",") {
			break
		}
	}

	if p.cur.Consume(")") {
		return items, true
	}

	err := ParseError{
		Span:       p.unexpected(),
		Message:    "missing ')' to close " + what,
		Expected:   []string{"','", "')'"},
		Suggestion: "Add ')' to close the " + what,
		Note:       "'(' opened at " + open.String(),
	}
	if !p.cur.AtEnd() {
		err.Message = "expected ',' or ')' in " + what + ", found " + p.cur.Describe()
		err.Suggestion = "Separate elements with ','"
	}
	p.report(err)
	p.skipToClose(1)
	p.recoveries++
	return items, false
}

// skipToClose consumes input through the ')' that brings the paren depth to
// zero, counting nested pairs. It stops early, without consuming, before a
// declaration. It reports whether the closing paren was consumed.
func (p *parser) skipToClose(depth int) bool {
	for !p.cur.AtEnd() {
		if p.atDeclarationStart() {
			return false
		}
		switch p.cur.Next() {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// recoverAtom reports a missing expression and skips to the next ')', ',',
// declaration, elif or else, none of which are consumed. The skipped span may
// be empty.
func (p *parser) recoverAtom() ast.Node {
	got := p.cur.Describe()
	word := p.cur.PeekIdent()
	start := p.cur.Mark()

	span := p.cur.SkipUntil(func(c *lexer.Cursor) bool {
		switch c.Peek() {
		case ')', ',':
			return true
		}
		if !c.AtWordStart() {
			return false
		}
		return c.AtKeyword(lexer.KwLet) || c.AtKeyword(lexer.KwElif) || c.AtKeyword(lexer.KwElse)
	})
	if span.Empty() {
		p.cur.Reset(start)
		span = p.unexpected()
	}

	err := ParseError{
		Span:     span,
		Message:  "expected expression, found " + got,
		Expected: []string{"expression"},
		Got:      got,
		Example:  "1 + f(x)",
	}
	if lexer.IsKeyword(word) {
		err.Note = "'" + word + "' is a reserved word"
	}
	p.report(err)
	p.recoveries++

	if p.config.debug >= DebugDetailed {
		p.recordDebugEvent("recover_atom", p.cur.Text(span))
	}
	return &ast.Dummy{}
}
