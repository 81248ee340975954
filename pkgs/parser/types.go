package parser

import (
	"fmt"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// Mode selects the grammar at the entry point: executable scripts or
// declaration-only definition files. Both share the lexer.
type Mode int

const (
	ModeScript Mode = iota
	ModeDef
)

func (m Mode) String() string {
	if m == ModeDef {
		return "def"
	}
	return "script"
}

// ParseError is one recoverable syntax error. Parsing never aborts;
// errors accumulate while the parser re-synchronizes.
type ParseError struct {
	Message string
	Span    lexer.Span
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// Result is a complete parse: a tree covering every input byte plus
// the syntax errors encountered. The tree is present even for
// catastrophically malformed input.
type Result struct {
	Tree   *syntax.Tree
	Errors []ParseError
}

// maxParseDepth bounds expression/statement nesting so pathological
// input degrades to a syntax error instead of exhausting the stack.
const maxParseDepth = 512
