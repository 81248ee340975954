package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"

	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// Golden syntax-tree tests. Regenerate with:
//
//	go test ./pkgs/parser -run TestDataDriven -rewrite
func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			var mode Mode
			switch d.Cmd {
			case "parse":
				mode = ModeScript
			case "parse-def":
				mode = ModeDef
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
			}

			input := strings.TrimRight(d.Input, "\n")
			res := ParseWithMode(input, mode)
			require.Equal(t, input, res.Tree.Text(), "tree must cover the input")

			var sb strings.Builder
			sb.WriteString(syntax.Dump(res.Tree))
			for _, e := range res.Errors {
				fmt.Fprintf(&sb, "error: %s\n", e)
			}
			return sb.String()
		})
	})
}
