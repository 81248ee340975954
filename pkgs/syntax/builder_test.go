package syntax

import (
	"testing"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

func TestBuilderBasic(t *testing.T) {
	src := "let x"
	tokens := lexer.Tokenize(src)

	b := NewBuilder()
	b.StartNode(KindRhai)
	b.StartNode(KindStmt)
	b.PushToken(tokens[0]) // let
	b.PushToken(tokens[1]) // x
	b.FinishNode()
	b.FinishNode()
	tree := b.Finish(src)

	root := tree.Root()
	if root.Kind() != KindRhai {
		t.Fatalf("root kind = %s, want RHAI", root.Kind())
	}
	if root.Text() != src {
		t.Errorf("root text = %q, want %q", root.Text(), src)
	}
	if got := root.Span(); got.Start != 0 || got.End != len(src) {
		t.Errorf("root span = %s, want 0..%d", got, len(src))
	}

	stmt := root.FirstNode(KindStmt)
	if stmt == nil {
		t.Fatal("missing STMT child")
	}
	if tok := stmt.FirstToken(lexer.IDENT); tok == nil || tok.Text() != "x" {
		t.Errorf("missing ident token in STMT")
	}
}

// StartNodeAt must wrap everything emitted since the checkpoint, the
// mechanism behind left-recursive constructs like binary expressions.
func TestBuilderCheckpoint(t *testing.T) {
	src := "a+b"
	tokens := lexer.Tokenize(src)

	b := NewBuilder()
	b.StartNode(KindRhai)

	cp := b.Checkpoint()
	b.StartNode(KindExprIdent)
	b.PushToken(tokens[0])
	b.FinishNode()

	// retroactively wrap the ident in a binary expression
	b.StartNodeAt(cp, KindExprBinary)
	b.PushToken(tokens[1])
	b.StartNode(KindExprIdent)
	b.PushToken(tokens[2])
	b.FinishNode()
	b.FinishNode()

	b.FinishNode()
	tree := b.Finish(src)

	bin := tree.Root().FirstNode(KindExprBinary)
	if bin == nil {
		t.Fatal("missing EXPR_BINARY node")
	}
	if got := len(bin.Nodes()); got != 2 {
		t.Fatalf("binary node has %d child nodes, want 2", got)
	}
	if bin.Nodes()[0].Text() != "a" || bin.Nodes()[1].Text() != "b" {
		t.Errorf("operand text = %q, %q", bin.Nodes()[0].Text(), bin.Nodes()[1].Text())
	}
	if bin.Span().Start != 0 || bin.Span().End != 3 {
		t.Errorf("binary span = %s, want 0..3", bin.Span())
	}
}

func TestBuilderEmptyNodeSpan(t *testing.T) {
	src := "x"
	tokens := lexer.Tokenize(src)

	b := NewBuilder()
	b.StartNode(KindRhai)
	b.PushToken(tokens[0])
	b.StartNode(KindError) // recovered, nothing inside
	b.FinishNode()
	b.FinishNode()
	tree := b.Finish(src)

	errNode := tree.Root().FirstNode(KindError)
	if errNode == nil {
		t.Fatal("missing ERROR node")
	}
	if got := errNode.Span(); got.Start != got.End {
		t.Errorf("empty node span = %s, want zero width", got)
	}
}

func TestBuilderUnbalancedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on FinishNode without StartNode")
		}
	}()
	b := NewBuilder()
	b.FinishNode()
}

func TestNodeNavigation(t *testing.T) {
	src := "a b"
	tokens := lexer.Tokenize(src)

	b := NewBuilder()
	b.StartNode(KindRhai)
	b.StartNode(KindExprIdent)
	b.PushToken(tokens[0])
	b.FinishNode()
	b.StartNode(KindExprIdent)
	b.PushToken(tokens[1])
	b.FinishNode()
	b.FinishNode()
	tree := b.Finish(src)

	first := tree.Root().Nodes()[0]
	second := first.NextSibling()
	if second == nil || second.Text() != "b" {
		t.Fatalf("NextSibling = %v", second)
	}
	if prev := second.PrevSibling(); prev != first {
		t.Errorf("PrevSibling mismatch")
	}
	if first.NextSibling().NextSibling() != nil {
		t.Errorf("expected nil past last sibling")
	}

	tok := tree.Root().TokenAtOffset(2)
	if tok == nil || tok.Text() != "b" {
		t.Errorf("TokenAtOffset(2) = %v", tok)
	}
}
