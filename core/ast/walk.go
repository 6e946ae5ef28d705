package ast

// Children returns the direct children of n in source order. Nil slots (an
// absent else branch, an unset Let.Next) are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *Unary:
		add(n.Operand)
	case *Binary:
		add(n.Left)
		add(n.Right)
	case *Block:
		for _, c := range n.Items {
			add(c)
		}
	case *Let:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Value)
		add(n.Next)
	case *Call:
		add(n.Callee)
		for _, c := range n.Args {
			add(c)
		}
	case *If:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first pre-order. If fn
// returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 0
	Inspect(n, func(Node) bool {
		total++
		return true
	})
	return total
}

// CountDummies returns how many recovery placeholders the tree contains.
func CountDummies(n Node) int {
	total := 0
	Inspect(n, func(n Node) bool {
		if IsDummy(n) {
			total++
		}
		return true
	})
	return total
}
