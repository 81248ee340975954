package parser

import (
	"testing"

	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// FuzzParseTotality checks the two properties that hold for every
// input: the tree reproduces the source byte for byte, and parsing is
// deterministic.
func FuzzParseTotality(f *testing.F) {
	f.Add("let x = 1;")
	f.Add("fn add(a, b) { a + b }")
	f.Add("if x { 1 } else { 2 }")
	f.Add("`tpl ${ a + b } end`")
	f.Add("switch v { 1 => \"one\", _ => \"other\" }")

	// malformed seeds
	f.Add("let")
	f.Add("((((")
	f.Add("}")
	f.Add("\"open")
	f.Add("`${`${`${")
	f.Add("\xff\xfe\xfd")

	f.Fuzz(func(t *testing.T, input string) {
		res := Parse(input)
		if res.Tree == nil {
			t.Fatal("nil tree")
		}
		if got := res.Tree.Text(); got != input {
			t.Fatalf("round trip failed:\n want %q\n got  %q", input, got)
		}

		again := Parse(input)
		if syntax.Dump(res.Tree) != syntax.Dump(again.Tree) {
			t.Fatal("parse is not deterministic")
		}
		if len(res.Errors) != len(again.Errors) {
			t.Fatalf("error counts differ: %d vs %d", len(res.Errors), len(again.Errors))
		}
	})
}

func FuzzParseDefTotality(f *testing.F) {
	f.Add("module static;\nfn f(x: int) -> int;")
	f.Add("const A: int;")
	f.Add("op +(int, int) -> int with 150, 151;")
	f.Add("op **(int, int) -> int with (190, 190);")
	f.Add("fn ;;;")
	f.Add("module m { const X: ? }")

	f.Fuzz(func(t *testing.T, input string) {
		res := ParseDef(input)
		if res.Tree == nil {
			t.Fatal("nil tree")
		}
		if got := res.Tree.Text(); got != input {
			t.Fatalf("round trip failed:\n want %q\n got  %q", input, got)
		}
	})
}
