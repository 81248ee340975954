package syntax

import (
	"strings"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// Span is the byte range type shared with the lexer.
type Span = lexer.Span

// Tree is one parsed document. It is immutable once built; re-parsing
// produces a new tree rather than patching this one.
type Tree struct {
	root   *Node
	source string
}

func (t *Tree) Root() *Node    { return t.root }
func (t *Tree) Source() string { return t.source }

// Text reconstructs the original source from the leaves. For any input
// this equals Source byte-for-byte, malformed input included.
func (t *Tree) Text() string {
	return t.root.Text()
}

// Element is either a *Node or a *Token.
type Element interface {
	Span() Span
	element()
}

// Node is an interior syntax tree node. Nodes own no text; their span
// is the contiguous union of their children's spans.
type Node struct {
	kind     Kind
	parent   *Node
	index    int
	children []Element
	span     Span
}

func (n *Node) element() {}

func (n *Node) Kind() Kind    { return n.kind }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Span() Span    { return n.span }

// Children returns the ordered child elements. The slice is shared;
// callers must not mutate it.
func (n *Node) Children() []Element { return n.children }

// Nodes returns the direct child nodes in order.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Tokens returns the direct child tokens in order.
func (n *Node) Tokens() []*Token {
	var out []*Token
	for _, c := range n.children {
		if child, ok := c.(*Token); ok {
			out = append(out, child)
		}
	}
	return out
}

// FirstNode returns the first direct child node of the given kind.
func (n *Node) FirstNode(kind Kind) *Node {
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind == kind {
			return child
		}
	}
	return nil
}

// NodesOf returns all direct child nodes of the given kind.
func (n *Node) NodesOf(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// FirstToken returns the first direct child token of the given type.
func (n *Node) FirstToken(typ lexer.TokenType) *Token {
	for _, c := range n.children {
		if child, ok := c.(*Token); ok && child.Type() == typ {
			return child
		}
	}
	return nil
}

// TokensOf returns all direct child tokens of the given type.
func (n *Node) TokensOf(typ lexer.TokenType) []*Token {
	var out []*Token
	for _, c := range n.children {
		if child, ok := c.(*Token); ok && child.Type() == typ {
			out = append(out, child)
		}
	}
	return out
}

// NextSibling returns the following sibling node, skipping tokens.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	for i := n.index + 1; i < len(n.parent.children); i++ {
		if sib, ok := n.parent.children[i].(*Node); ok {
			return sib
		}
	}
	return nil
}

// PrevSibling returns the preceding sibling node, skipping tokens.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	for i := n.index - 1; i >= 0; i-- {
		if sib, ok := n.parent.children[i].(*Node); ok {
			return sib
		}
	}
	return nil
}

// FirstTokenDeep returns the leftmost leaf token of the subtree.
func (n *Node) FirstTokenDeep() *Token {
	for _, c := range n.children {
		switch el := c.(type) {
		case *Token:
			return el
		case *Node:
			if t := el.FirstTokenDeep(); t != nil {
				return t
			}
		}
	}
	return nil
}

// LastTokenDeep returns the rightmost leaf token of the subtree.
func (n *Node) LastTokenDeep() *Token {
	for i := len(n.children) - 1; i >= 0; i-- {
		switch el := n.children[i].(type) {
		case *Token:
			return el
		case *Node:
			if t := el.LastTokenDeep(); t != nil {
				return t
			}
		}
	}
	return nil
}

// Text reconstructs the exact source text covered by this node.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		switch el := c.(type) {
		case *Token:
			sb.WriteString(el.tok.FullText())
		case *Node:
			el.writeText(sb)
		}
	}
}

// TokenAtOffset returns the leaf token whose full span (trivia
// included) contains the byte offset, or nil when out of range.
func (n *Node) TokenAtOffset(offset int) *Token {
	if !n.span.Contains(offset) {
		return nil
	}
	for _, c := range n.children {
		switch el := c.(type) {
		case *Token:
			if el.FullSpan().Contains(offset) {
				return el
			}
		case *Node:
			if t := el.TokenAtOffset(offset); t != nil {
				return t
			}
		}
	}
	return nil
}

// CoveringNode returns the deepest node whose span contains the whole
// given span. Used for "what syntax is at this position" queries.
func (n *Node) CoveringNode(span Span) *Node {
	if span.Start < n.span.Start || span.End > n.span.End {
		return nil
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			if inner := child.CoveringNode(span); inner != nil {
				return inner
			}
		}
	}
	return n
}

// Ancestors iterates from the node's parent up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Descendants returns all nodes of the subtree in depth-first order,
// the receiver included.
func (n *Node) Descendants() []*Node {
	out := []*Node{n}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			out = append(out, child.Descendants()...)
		}
	}
	return out
}

// Token is a leaf of the syntax tree wrapping a lexed token.
type Token struct {
	parent *Node
	index  int
	tok    lexer.Token
}

func (t *Token) element() {}

func (t *Token) Parent() *Node         { return t.parent }
func (t *Token) Type() lexer.TokenType { return t.tok.Type }
func (t *Token) Text() string          { return t.tok.Text }
func (t *Token) Span() Span            { return t.tok.Span() }
func (t *Token) FullSpan() Span        { return t.tok.FullSpan() }

// Leading returns the trivia attached before the token text.
func (t *Token) Leading() []lexer.Trivia { return t.tok.Leading }

// Trailing returns the trivia attached after the token text.
func (t *Token) Trailing() []lexer.Trivia { return t.tok.Trailing }

// Raw returns the underlying lexer token.
func (t *Token) Raw() lexer.Token { return t.tok }
