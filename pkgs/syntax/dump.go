package syntax

import (
	"fmt"
	"strings"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// Dump renders the tree in an indented, kind-per-line form for
// debugging and golden tests. Trivia is omitted; token text is shown
// quoted.
func Dump(t *Tree) string {
	var sb strings.Builder
	dumpNode(&sb, t.root, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s@%s\n", indent, n.kind, n.span)
	for _, c := range n.children {
		switch el := c.(type) {
		case *Node:
			dumpNode(sb, el, depth+1)
		case *Token:
			if el.Type() == lexer.EOF && el.Text() == "" {
				continue
			}
			fmt.Fprintf(sb, "%s  %s %q\n", indent, el.Type(), el.Text())
		}
	}
}
