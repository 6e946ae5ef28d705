// Package ast defines the crabstar syntax tree.
//
// The tree is a closed set of node types behind the Node interface. Nodes are
// plain data: the parser creates them, nothing mutates them afterwards, and
// every child pointer is owned by exactly one parent.
package ast

import (
	"strconv"
	"strings"
)

// Node represents any node in the AST.
type Node interface {
	// String renders the node as a canonical S-expression.
	String() string
	node()
}

// Dummy stands in for any construct the parser could not recognize. It carries
// no information and must never be treated as a successful parse.
type Dummy struct{}

// Int is an integer literal. Literals are never negative: -3 parses as
// Unary("-", Int(3)).
type Int struct {
	Value uint64
}

// Float is a floating point literal, always written with a decimal point.
type Float struct {
	Value float64
}

// Bool is true or false.
type Bool struct {
	Value bool
}

// Ident is a reference to a name.
type Ident struct {
	Name string
}

// Unary is a prefix operator ("not" or "-") applied to one operand.
type Unary struct {
	Op      string
	Operand Node
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Block is a parenthesized, comma-separated sequence of expressions.
type Block struct {
	Items []Node
}

// Let is a named binding.
//
// HasParams distinguishes the three declaration forms:
//
//	let x: 1            HasParams == false          (value binding)
//	let x => 1          HasParams, len(Params) == 0 (lazy binding)
//	let f :: (a): a     HasParams, len(Params) > 0  (function)
type Let struct {
	Name      string
	Params    []Node
	HasParams bool
	Value     Node

	// Next is reserved for a sequencing form ("let ... in ...") the grammar
	// does not have. The parser always leaves it nil.
	Next Node
}

// Call is a function application. Args may be empty.
type Call struct {
	Callee Node
	Args   []Node
}

// If is a conditional. Else is nil when there is no else branch; elif chains
// nest further If nodes in Else.
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (*Dummy) node()  {}
func (*Int) node()    {}
func (*Float) node()  {}
func (*Bool) node()   {}
func (*Ident) node()  {}
func (*Unary) node()  {}
func (*Binary) node() {}
func (*Block) node()  {}
func (*Let) node()    {}
func (*Call) node()   {}
func (*If) node()     {}

// LetKind classifies a declaration by its parameter list.
type LetKind int

const (
	LetValue    LetKind = iota // let x: ...
	LetLazy                    // let x => ...
	LetFunction                // let f :: (a, b) ...
)

func (k LetKind) String() string {
	switch k {
	case LetValue:
		return "value"
	case LetLazy:
		return "lazy"
	case LetFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Kind reports which declaration form l is.
func (l *Let) Kind() LetKind {
	switch {
	case !l.HasParams:
		return LetValue
	case len(l.Params) == 0:
		return LetLazy
	default:
		return LetFunction
	}
}

// IsDummy reports whether n is the recovery placeholder.
func IsDummy(n Node) bool {
	_, ok := n.(*Dummy)
	return ok
}

// DummyText is how a Dummy renders.
const DummyText = "<error>"

func (*Dummy) String() string { return DummyText }

func (n *Int) String() string { return strconv.FormatUint(n.Value, 10) }

func (n *Float) String() string { return FormatFloat(n.Value) }

func (n *Bool) String() string { return strconv.FormatBool(n.Value) }

func (n *Ident) String() string { return n.Name }

func (n *Unary) String() string { return sexpr(n.Op, n.Operand) }

func (n *Binary) String() string { return sexpr(n.Op, n.Left, n.Right) }

func (n *Block) String() string { return sexpr("block", n.Items...) }

func (n *Call) String() string {
	return sexpr("call", append([]Node{n.Callee}, n.Args...)...)
}

func (n *If) String() string {
	if n.Else == nil {
		return sexpr("if", n.Cond, n.Then)
	}
	return sexpr("if", n.Cond, n.Then, n.Else)
}

func (n *Let) String() string {
	var b strings.Builder
	b.WriteString("(let ")
	b.WriteString(n.Name)
	if n.HasParams {
		b.WriteString(" (")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(str(p))
		}
		b.WriteByte(')')
	}
	b.WriteByte(' ')
	b.WriteString(str(n.Value))
	if n.Next != nil {
		b.WriteByte(' ')
		b.WriteString(str(n.Next))
	}
	b.WriteByte(')')
	return b.String()
}

// FormatFloat renders f so that it always contains a decimal point, keeping
// floats distinguishable from integers: 12 -> "12.0", 0.5 -> "0.5".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}

func sexpr(head string, children ...Node) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head)
	for _, c := range children {
		b.WriteByte(' ')
		b.WriteString(str(c))
	}
	b.WriteByte(')')
	return b.String()
}

// str renders a possibly nil child.
func str(n Node) string {
	if n == nil {
		return "nil"
	}
	return n.String()
}
