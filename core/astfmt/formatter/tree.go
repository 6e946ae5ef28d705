package formatter

import (
	"fmt"
	"io"

	"github.com/crabstar-lang/crabstar/core/ast"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// branch is one rendered line of the tree with its children.
type branch struct {
	text string
	kids []branch
}

// FormatTree renders declarations as a tree under a heading naming the source.
func FormatTree(w io.Writer, name string, decls []*ast.Let, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s:\n", name)

	if len(decls) == 0 {
		_, _ = fmt.Fprintf(w, "(no declarations)\n")
		return
	}

	for i, d := range decls {
		renderBranch(w, buildBranch(d, useColor), "", i == len(decls)-1)
	}
}

func renderBranch(w io.Writer, b branch, indent string, isLast bool) {
	prefix, next := "├─ ", "│  "
	if isLast {
		prefix, next = "└─ ", "   "
	}
	_, _ = fmt.Fprintf(w, "%s%s%s\n", indent, prefix, b.text)

	for i, kid := range b.kids {
		renderBranch(w, kid, indent+next, i == len(b.kids)-1)
	}
}

func buildBranch(n ast.Node, useColor bool) branch {
	switch n := n.(type) {
	case *ast.Dummy:
		return branch{text: Colorize(ast.DummyText, ColorRed, useColor)}
	case *ast.Int, *ast.Float, *ast.Bool:
		return branch{text: Colorize(n.String(), ColorYellow, useColor)}
	case *ast.Ident:
		return branch{text: n.Name}
	case *ast.Unary:
		return branch{
			text: Colorize(n.Op, ColorBlue, useColor),
			kids: []branch{buildBranch(n.Operand, useColor)},
		}
	case *ast.Binary:
		return branch{
			text: Colorize(n.Op, ColorBlue, useColor),
			kids: []branch{buildBranch(n.Left, useColor), buildBranch(n.Right, useColor)},
		}
	case *ast.Block:
		if len(n.Items) == 0 {
			return branch{text: "block " + Colorize("(empty)", ColorGray, useColor)}
		}
		return branch{text: "block", kids: buildBranches(n.Items, useColor)}
	case *ast.Call:
		kids := []branch{labelled("callee", n.Callee, useColor)}
		kids = append(kids, buildBranches(n.Args, useColor)...)
		return branch{text: "call", kids: kids}
	case *ast.If:
		kids := []branch{
			labelled("cond", n.Cond, useColor),
			labelled("then", n.Then, useColor),
		}
		if n.Else != nil {
			kids = append(kids, labelled("else", n.Else, useColor))
		}
		return branch{text: Colorize("if", ColorBlue, useColor), kids: kids}
	case *ast.Let:
		return letBranch(n, useColor)
	case nil:
		return branch{text: Colorize("nil", ColorGray, useColor)}
	default:
		return branch{text: fmt.Sprintf("(unknown node type: %T)", n)}
	}
}

func letBranch(n *ast.Let, useColor bool) branch {
	text := fmt.Sprintf("let %s %s",
		Colorize(n.Name, ColorCyan, useColor),
		Colorize("("+n.Kind().String()+")", ColorGray, useColor))

	var kids []branch
	if len(n.Params) > 0 {
		kids = append(kids, branch{text: "params", kids: buildBranches(n.Params, useColor)})
	}
	kids = append(kids, buildBranch(n.Value, useColor))
	if n.Next != nil {
		kids = append(kids, labelled("next", n.Next, useColor))
	}
	return branch{text: text, kids: kids}
}

func buildBranches(nodes []ast.Node, useColor bool) []branch {
	out := make([]branch, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, buildBranch(n, useColor))
	}
	return out
}

// labelled prefixes the node's line with a role such as "cond".
func labelled(role string, n ast.Node, useColor bool) branch {
	b := buildBranch(n, useColor)
	b.text = Colorize(role+":", ColorGray, useColor) + " " + b.text
	return b
}
