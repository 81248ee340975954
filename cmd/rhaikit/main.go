package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rhaikit/rhaikit/pkgs/hir"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
	"github.com/rhaikit/rhaikit/pkgs/workspace"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

// Global flags
var (
	defMode bool
	debug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rhaikit",
	Short: "Parse and analyze Rhai scripts",
	Long: `rhaikit is a toolkit for the Rhai scripting language.
It parses scripts into lossless syntax trees, builds a semantic index
over them, and reports syntax errors and semantic diagnostics.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Dump the syntax tree of a script",
	Long: `Parse a file and print its concrete syntax tree.
The tree covers every input byte; syntax errors are listed after it.
Files ending in .d.rhai parse with the definition grammar, or force it
with --def.`,
	Args: cobra.ExactArgs(1),
	RunE: parseCommand,
}

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Report syntax errors and semantic diagnostics",
	Long: `Parse and analyze a set of files together, so imports between
them resolve. Exits non-zero when any file has a syntax error or an
error-severity diagnostic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkCommand,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "List declared symbols with their documentation",
	Args:  cobra.ExactArgs(1),
	RunE:  symbolsCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rhaikit %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	parseCmd.Flags().BoolVar(&defMode, "def", false, "Parse with the definition-file grammar")
	checkCmd.Flags().BoolVar(&defMode, "def", false, "Treat the files as definition files")
	symbolsCmd.Flags().BoolVar(&defMode, "def", false, "Treat the file as a definition file")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(versionCmd)
}

// openAll loads files into one workspace so imports between them
// resolve. The returned URIs parallel paths; --def renames script
// files so the definition grammar applies.
func openAll(paths []string) (*workspace.Workspace, []string, error) {
	w := workspace.New()
	uris := make([]string, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("error reading file %s: %w", p, err)
		}
		uri := p
		if defMode && !workspace.IsDefURI(uri) {
			uri += ".d.rhai"
		}
		uris[i] = uri
		w.Open(uri, 0, string(data))
	}
	return w, uris, nil
}

func parseCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", path, err)
	}

	// the workspace picks the grammar by suffix; --def overrides by
	// giving the text a definition-file name
	uri := path
	if defMode && !workspace.IsDefURI(uri) {
		uri += ".d.rhai"
	}
	w := workspace.New()
	doc := w.Open(uri, 0, string(data))

	fmt.Print(syntax.Dump(doc.Tree))
	for _, e := range doc.Errors {
		pos := doc.Lines.Position(e.Span.Start)
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", path, pos.Line+1, pos.Character+1, e.Message)
	}
	if len(doc.Errors) > 0 {
		return fmt.Errorf("%d syntax errors", len(doc.Errors))
	}
	return nil
}

func checkCommand(cmd *cobra.Command, args []string) error {
	w, uris, err := openAll(args)
	if err != nil {
		return err
	}

	failed := false
	for i, path := range args {
		doc := w.Get(uris[i])
		errs, diags := w.Diagnostics(uris[i])
		for _, e := range errs {
			pos := doc.Lines.Position(e.Span.Start)
			fmt.Printf("%s:%d:%d: error: %s\n", path, pos.Line+1, pos.Character+1, e.Message)
			failed = true
		}
		for _, d := range diags {
			pos := doc.Lines.Position(d.Span.Start)
			sev := "warning"
			if d.Severity == hir.SeverityError {
				sev = "error"
				failed = true
			}
			fmt.Printf("%s:%d:%d: %s: %s\n", path, pos.Line+1, pos.Character+1, sev, d.Message)
		}
	}
	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}

func symbolsCommand(cmd *cobra.Command, args []string) error {
	w, uris, err := openAll(args)
	if err != nil {
		return err
	}
	doc := w.Get(uris[0])

	h := w.Hir()
	h.Symbols(func(_ hir.Symbol, sd *hir.SymbolData) bool {
		if sd.Source != doc.Source || !sd.IsDeclaration() || sd.Name == "" {
			return true
		}
		pos := doc.Lines.Position(sd.SelectionSpan.Start)
		fmt.Printf("%s:%d:%d: %s %s", args[0], pos.Line+1, pos.Character+1, sd.Kind, sd.Name)
		if sd.RetType != "" {
			fmt.Printf(": %s", sd.RetType)
		}
		fmt.Println()
		if sd.Docs != "" {
			fmt.Printf("  %s\n", sd.Docs)
		}
		return true
	})
	return nil
}
