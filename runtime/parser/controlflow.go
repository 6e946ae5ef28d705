package parser

import (
	"github.com/crabstar-lang/crabstar/core/ast"
	"github.com/crabstar-lang/crabstar/core/invariant"
	"github.com/crabstar-lang/crabstar/runtime/lexer"
)

// ifExpr parses:
//
//	if Cond Branch (elif Cond Branch)* [else Branch]
//	Branch = ":" Expr | "(" Expr,* ")"
//
// By default only the last elif is kept, as the else of the first if, and an
// else after any elif is dropped. WithNestedElifChains keeps the whole chain.
func (p *parser) ifExpr() ast.Node {
	invariant.Precondition(p.cur.AtKeyword(lexer.KwIf), "ifExpr called at %s", p.cur.Describe())

	p.enter("if expression")
	defer p.leave()

	p.cur.Keyword(lexer.KwIf)
	cond, then := p.condBranch()
	root := &ast.If{Cond: cond, Then: then}

	tail := root // deepest If, where nested chains attach
	var lastElif lexer.Position
	elifs := 0

	for p.atKeywordAhead(lexer.KwElif) {
		start := p.cur.Mark()
		p.cur.Keyword(lexer.KwElif)
		cond, then := p.condBranch()
		next := &ast.If{Cond: cond, Then: then}

		if p.config.nestedElif {
			tail.Else = next
			tail = next
		} else {
			if elifs > 0 {
				p.warn(ParseWarning{
					Span:       lexer.Span{Start: lastElif, End: start},
					Message:    "elif branch is superseded by the following elif",
					Suggestion: "Enable nested elif chains to keep every branch",
				})
			}
			root = &ast.If{Cond: root.Cond, Then: root.Then, Else: next}
		}
		lastElif = start
		elifs++
	}

	if p.atKeywordAhead(lexer.KwElse) {
		start := p.cur.Mark()
		p.cur.Keyword(lexer.KwElse)
		p.enter("else branch")
		branch := p.branch()
		p.leave()

		switch {
		case p.config.nestedElif:
			tail.Else = branch
		case elifs == 0:
			root.Else = branch
		default:
			p.warn(ParseWarning{
				Span:       p.cur.SpanFrom(start),
				Message:    "else branch after elif is discarded",
				Suggestion: "Enable nested elif chains to keep the else branch",
			})
		}
	}
	return root
}

// condBranch parses a condition and the branch that follows it.
//
// "if x (a, b)" is ambiguous: the call parser reads x(a, b) as the condition
// and no branch remains. In that case the trailing argument list is taken back
// as the branch block.
func (p *parser) condBranch() (cond, branch ast.Node) {
	p.enter("condition")
	cond = p.expression()
	p.leave()

	mark := p.cur.Mark()
	p.cur.SkipSpace()
	if r := p.cur.Peek(); r == ':' || r == '(' {
		return cond, p.branch()
	}
	p.cur.Reset(mark)

	if head, args, ok := splitTrailingCall(cond); ok {
		return head, &ast.Block{Items: args}
	}

	p.cur.SkipSpace()
	p.report(ParseError{
		Span:       p.unexpected(),
		Message:    "expected ':' or '(' after the condition, found " + p.cur.Describe(),
		Expected:   []string{"':'", "'('"},
		Suggestion: "Add ':' before the branch",
		Example:    "if x < 0: -x else: x",
	})
	p.recoveries++
	return cond, &ast.Dummy{}
}

// branch parses ":" Expr or a parenthesized list, which is always a Block.
func (p *parser) branch() ast.Node {
	p.cur.SkipSpace()
	if p.cur.Peek() == '(' {
		return p.block()
	}
	if !p.cur.Consume(":") {
		p.report(ParseError{
			Span:     p.unexpected(),
			Message:  "expected ':' or '(' to start the branch, found " + p.cur.Describe(),
			Expected: []string{"':'", "'('"},
			Example:  "else: 0",
		})
		p.recoveries++
		return &ast.Dummy{}
	}
	return p.expression()
}

// splitTrailingCall finds the call at the right edge of n (following the right
// operand of binaries and the operand of unaries) and returns n with that call
// replaced by its callee, plus the call's arguments.
func splitTrailingCall(n ast.Node) (head ast.Node, args []ast.Node, ok bool) {
	switch n := n.(type) {
	case *ast.Call:
		return n.Callee, n.Args, true
	case *ast.Binary:
		right, args, ok := splitTrailingCall(n.Right)
		if !ok {
			return n, nil, false
		}
		return &ast.Binary{Op: n.Op, Left: n.Left, Right: right}, args, true
	case *ast.Unary:
		operand, args, ok := splitTrailingCall(n.Operand)
		if !ok {
			return n, nil, false
		}
		return &ast.Unary{Op: n.Op, Operand: operand}, args, true
	}
	return n, nil, false
}
