package syntax

import (
	"fmt"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// Builder constructs an immutable syntax tree from a stream of events.
//
// The parser drives it append-only: StartNode/FinishNode bracket child
// sequences, PushToken emits leaves, and Checkpoint/StartNodeAt wrap
// already-emitted siblings into a new parent after the fact. The latter
// is how left-recursive constructs (binary operator chains, postfix
// call/index/dot chains) are built without backtracking.
type Builder struct {
	events []event
	depth  int
}

type eventKind uint8

const (
	evOpen eventKind = iota
	evClose
	evToken
)

type event struct {
	kind eventKind
	node Kind
	tok  lexer.Token
}

// Checkpoint marks a position in the event stream that a later
// StartNodeAt can wrap from.
type Checkpoint int

// NewBuilder returns an empty builder, sized for a typical parse.
func NewBuilder() *Builder {
	return &Builder{events: make([]event, 0, 64)}
}

// StartNode opens a new node of the given kind.
func (b *Builder) StartNode(kind Kind) {
	b.events = append(b.events, event{kind: evOpen, node: kind})
	b.depth++
}

// FinishNode closes the most recently opened node. Calling it without
// a matching StartNode is a bug in the parser, not a recoverable state.
func (b *Builder) FinishNode() {
	if b.depth == 0 {
		panic("syntax: FinishNode without matching StartNode")
	}
	b.events = append(b.events, event{kind: evClose})
	b.depth--
}

// PushToken appends a token to the current node.
func (b *Builder) PushToken(tok lexer.Token) {
	b.events = append(b.events, event{kind: evToken, tok: tok})
}

// Checkpoint returns a marker for the current position.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.events))
}

// StartNodeAt opens a node of the given kind that retroactively
// contains every sibling emitted since the checkpoint.
func (b *Builder) StartNodeAt(cp Checkpoint, kind Kind) {
	at := int(cp)
	if at < 0 || at > len(b.events) {
		panic(fmt.Sprintf("syntax: checkpoint %d out of range", at))
	}
	b.events = append(b.events, event{})
	copy(b.events[at+1:], b.events[at:])
	b.events[at] = event{kind: evOpen, node: kind}
	b.depth++
}

// Finish replays the event stream into an immutable Tree. It panics on
// unbalanced nesting; the parser must emit well-formed events.
func (b *Builder) Finish(source string) *Tree {
	if b.depth != 0 {
		panic(fmt.Sprintf("syntax: Finish with %d unclosed nodes", b.depth))
	}

	var stack []*Node
	var root *Node

	for _, ev := range b.events {
		switch ev.kind {
		case evOpen:
			n := &Node{kind: ev.node}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.parent = parent
				n.index = len(parent.children)
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case evClose:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				if root != nil {
					panic("syntax: multiple root nodes")
				}
				root = top
			}
		case evToken:
			if len(stack) == 0 {
				panic("syntax: token outside any node")
			}
			parent := stack[len(stack)-1]
			t := &Token{parent: parent, index: len(parent.children), tok: ev.tok}
			parent.children = append(parent.children, t)
		}
	}

	if root == nil {
		panic("syntax: no root node emitted")
	}

	assignSpans(root, 0)
	return &Tree{root: root, source: source}
}

// assignSpans computes covering spans bottom-up. Nodes with no leaf
// tokens get a zero-width span at the current cursor so every node has
// a stable position even under heavy error recovery.
func assignSpans(n *Node, cursor int) int {
	n.span.Start = cursor
	for _, c := range n.children {
		switch el := c.(type) {
		case *Node:
			cursor = assignSpans(el, cursor)
		case *Token:
			fs := el.tok.FullSpan()
			if fs.End > cursor {
				cursor = fs.End
			}
		}
	}
	n.span.End = cursor
	return cursor
}
