// Package astfmt serializes crabstar syntax trees.
//
// Trees are flattened into Records, a single tagged struct that JSON and CBOR
// can encode without interface gymnastics. Documents wrap records with
// diagnostics for tooling; the canonical CBOR form backs structural digests.
package astfmt

import (
	"fmt"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// Record kinds, one per node type.
const (
	KindDummy  = "dummy"
	KindInt    = "int"
	KindFloat  = "float"
	KindBool   = "bool"
	KindIdent  = "ident"
	KindUnary  = "unary"
	KindBinary = "binary"
	KindBlock  = "block"
	KindLet    = "let"
	KindCall   = "call"
	KindIf     = "if"
)

// Record is the serializable form of a node.
//
// Children holds the sub-nodes in a kind-specific order:
//
//	unary   [operand]
//	binary  [left, right]
//	block   items
//	call    [callee, args...]
//	if      [cond, then] or [cond, then, else]
//	let     [value] or [value, next]
type Record struct {
	Kind      string   `json:"kind" cbor:"1,keyasint"`
	Name      string   `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	Op        string   `json:"op,omitempty" cbor:"3,keyasint,omitempty"`
	Int       uint64   `json:"int,omitempty" cbor:"4,keyasint,omitempty"`
	Float     float64  `json:"float,omitempty" cbor:"5,keyasint,omitempty"`
	Bool      bool     `json:"bool,omitempty" cbor:"6,keyasint,omitempty"`
	HasParams bool     `json:"has_params,omitempty" cbor:"7,keyasint,omitempty"`
	Params    []Record `json:"params,omitempty" cbor:"8,keyasint,omitempty"`
	Children  []Record `json:"children,omitempty" cbor:"9,keyasint,omitempty"`
}

// FromNode converts a node into its record form.
func FromNode(n ast.Node) Record {
	switch n := n.(type) {
	case *ast.Dummy:
		return Record{Kind: KindDummy}
	case *ast.Int:
		return Record{Kind: KindInt, Int: n.Value}
	case *ast.Float:
		return Record{Kind: KindFloat, Float: n.Value}
	case *ast.Bool:
		return Record{Kind: KindBool, Bool: n.Value}
	case *ast.Ident:
		return Record{Kind: KindIdent, Name: n.Name}
	case *ast.Unary:
		return Record{Kind: KindUnary, Op: n.Op, Children: records(n.Operand)}
	case *ast.Binary:
		return Record{Kind: KindBinary, Op: n.Op, Children: records(n.Left, n.Right)}
	case *ast.Block:
		return Record{Kind: KindBlock, Children: records(n.Items...)}
	case *ast.Call:
		return Record{Kind: KindCall, Children: records(append([]ast.Node{n.Callee}, n.Args...)...)}
	case *ast.If:
		children := records(n.Cond, n.Then)
		if n.Else != nil {
			children = append(children, FromNode(n.Else))
		}
		return Record{Kind: KindIf, Children: children}
	case *ast.Let:
		children := records(n.Value)
		if n.Next != nil {
			children = append(children, FromNode(n.Next))
		}
		return Record{
			Kind:      KindLet,
			Name:      n.Name,
			HasParams: n.HasParams,
			Params:    records(n.Params...),
			Children:  children,
		}
	default:
		panic(fmt.Sprintf("astfmt: unknown node type %T", n))
	}
}

// FromDeclarations converts top-level declarations.
func FromDeclarations(decls []*ast.Let) []Record {
	out := make([]Record, len(decls))
	for i, d := range decls {
		out[i] = FromNode(d)
	}
	return out
}

func records(nodes ...ast.Node) []Record {
	var out []Record
	for _, n := range nodes {
		out = append(out, FromNode(n))
	}
	return out
}

// Node converts the record back into a tree.
func (r Record) Node() (ast.Node, error) {
	children, err := nodes(r.Children)
	if err != nil {
		return nil, err
	}
	arity := func(want ...int) error {
		for _, n := range want {
			if len(children) == n {
				return nil
			}
		}
		return fmt.Errorf("%s record has %d children, want %v", r.Kind, len(children), want)
	}

	switch r.Kind {
	case KindDummy, KindInt, KindFloat, KindBool, KindIdent:
		if err := arity(0); err != nil {
			return nil, err
		}
		return r.leaf()
	case KindUnary:
		if err := arity(1); err != nil {
			return nil, err
		}
		return &ast.Unary{Op: r.Op, Operand: children[0]}, nil
	case KindBinary:
		if err := arity(2); err != nil {
			return nil, err
		}
		return &ast.Binary{Op: r.Op, Left: children[0], Right: children[1]}, nil
	case KindBlock:
		return &ast.Block{Items: children}, nil
	case KindCall:
		if len(children) == 0 {
			return nil, fmt.Errorf("call record without callee")
		}
		var args []ast.Node
		args = append(args, children[1:]...)
		return &ast.Call{Callee: children[0], Args: args}, nil
	case KindIf:
		if err := arity(2, 3); err != nil {
			return nil, err
		}
		n := &ast.If{Cond: children[0], Then: children[1]}
		if len(children) == 3 {
			n.Else = children[2]
		}
		return n, nil
	case KindLet:
		let, err := r.let(children)
		if err != nil {
			return nil, err
		}
		return let, nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}

func (r Record) leaf() (ast.Node, error) {
	switch r.Kind {
	case KindInt:
		return &ast.Int{Value: r.Int}, nil
	case KindFloat:
		return &ast.Float{Value: r.Float}, nil
	case KindBool:
		return &ast.Bool{Value: r.Bool}, nil
	case KindIdent:
		if r.Name == "" {
			return nil, fmt.Errorf("ident record without name")
		}
		return &ast.Ident{Name: r.Name}, nil
	}
	return &ast.Dummy{}, nil
}

func (r Record) let(children []ast.Node) (*ast.Let, error) {
	if len(children) != 1 && len(children) != 2 {
		return nil, fmt.Errorf("let record has %d children, want [1 2]", len(children))
	}
	params, err := nodes(r.Params)
	if err != nil {
		return nil, fmt.Errorf("let %s params: %w", r.Name, err)
	}
	if len(params) > 0 && !r.HasParams {
		return nil, fmt.Errorf("let %s has params but has_params is false", r.Name)
	}
	n := &ast.Let{Name: r.Name, Params: params, HasParams: r.HasParams, Value: children[0]}
	if len(children) == 2 {
		n.Next = children[1]
	}
	return n, nil
}

func nodes(rs []Record) ([]ast.Node, error) {
	var out []ast.Node
	for i, r := range rs {
		n, err := r.Node()
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// ToDeclarations converts records that must all be let declarations.
func ToDeclarations(rs []Record) ([]*ast.Let, error) {
	var out []*ast.Let
	for i, r := range rs {
		if r.Kind != KindLet {
			return nil, fmt.Errorf("declaration %d: kind %q, want %q", i, r.Kind, KindLet)
		}
		children, err := nodes(r.Children)
		if err != nil {
			return nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		let, err := r.let(children)
		if err != nil {
			return nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		out = append(out, let)
	}
	return out, nil
}
