package syntax_test

import (
	"testing"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/parser"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

func parseScript(t *testing.T, src string) *syntax.Rhai {
	t.Helper()
	res := parser.Parse(src)
	if len(res.Errors) != 0 {
		t.Fatalf("parse errors in %q: %v", src, res.Errors)
	}
	file := syntax.CastRhai(res.Tree.Root())
	if file == nil {
		t.Fatalf("root is not a script file")
	}
	return file
}

func TestScriptStatements(t *testing.T) {
	file := parseScript(t, "let a = 1; a + 2;")

	stmts := file.Statements()
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}

	let, ok := stmts[0].Item().Expr().(*syntax.ExprLet)
	if !ok {
		t.Fatalf("first statement is %T, want *ExprLet", stmts[0].Item().Expr())
	}
	if let.IdentToken().Text() != "a" {
		t.Errorf("let ident = %q", let.IdentToken().Text())
	}
	if _, ok := let.Value().(*syntax.ExprLit); !ok {
		t.Errorf("let value is %T, want *ExprLit", let.Value())
	}

	bin, ok := stmts[1].Item().Expr().(*syntax.ExprBinary)
	if !ok {
		t.Fatalf("second statement is %T, want *ExprBinary", stmts[1].Item().Expr())
	}
	if bin.OpToken().Type() != lexer.PLUS {
		t.Errorf("op = %s, want PLUS", bin.OpToken().Type())
	}
}

func TestBinaryOperands(t *testing.T) {
	file := parseScript(t, "x = 1 + 2 * 3;")

	assign := file.Statements()[0].Item().Expr().(*syntax.ExprBinary)
	if assign.OpToken().Type() != lexer.ASSIGN {
		t.Fatalf("top op = %s, want ASSIGN", assign.OpToken().Type())
	}

	sum, ok := assign.Rhs().(*syntax.ExprBinary)
	if !ok || sum.OpToken().Type() != lexer.PLUS {
		t.Fatalf("rhs is not the sum: %T", assign.Rhs())
	}
	prod, ok := sum.Rhs().(*syntax.ExprBinary)
	if !ok || prod.OpToken().Type() != lexer.STAR {
		t.Fatalf("multiplication must bind tighter: %T", sum.Rhs())
	}
	lhs := prod.Lhs().(*syntax.ExprLit).Lit().LitToken()
	rhs := prod.Rhs().(*syntax.ExprLit).Lit().LitToken()
	if lhs.Text() != "2" || rhs.Text() != "3" {
		t.Errorf("product operands = %q, %q", lhs.Text(), rhs.Text())
	}
}

func TestIfElseChain(t *testing.T) {
	file := parseScript(t, "if a { 1 } else if b { 2 } else { 3 }")

	ifExpr, ok := file.Statements()[0].Item().Expr().(*syntax.ExprIf)
	if !ok {
		t.Fatalf("not an if: %T", file.Statements()[0].Item().Expr())
	}
	cond := ifExpr.Condition().(*syntax.ExprIdent)
	if cond.IdentToken().Text() != "a" {
		t.Errorf("condition = %q", cond.IdentToken().Text())
	}
	if ifExpr.ThenBranch() == nil {
		t.Fatal("missing then branch")
	}

	elseIf := ifExpr.ElseIfBranch()
	if elseIf == nil {
		t.Fatal("missing else-if branch")
	}
	if elseIf.Condition().(*syntax.ExprIdent).IdentToken().Text() != "b" {
		t.Errorf("unexpected else-if condition")
	}
	if elseIf.ElseBranch() == nil {
		t.Error("missing final else branch")
	}
	if ifExpr.ElseBranch() != nil {
		t.Error("outer if must not see the final else as its own")
	}
}

func TestRecoveredConditionStaysEmpty(t *testing.T) {
	// when recovery swallows the condition, the accessor must not
	// hand back the branch block in its place
	res := parser.Parse("if @ {}")
	if len(res.Errors) == 0 {
		t.Fatal("expected parse errors")
	}
	ifExpr, ok := syntax.CastRhai(res.Tree.Root()).Statements()[0].Item().Expr().(*syntax.ExprIf)
	if !ok {
		t.Fatal("not an if")
	}
	if ifExpr.ThenBranch() == nil {
		t.Fatal("missing then branch")
	}
	if ifExpr.Condition() != nil {
		t.Errorf("condition = %T, want nil", ifExpr.Condition())
	}

	res = parser.Parse("while @ {}")
	whileExpr, ok := syntax.CastRhai(res.Tree.Root()).Statements()[0].Item().Expr().(*syntax.ExprWhile)
	if !ok {
		t.Fatal("not a while")
	}
	if whileExpr.Body() == nil {
		t.Fatal("missing while body")
	}
	if whileExpr.Condition() != nil {
		t.Errorf("while condition = %T, want nil", whileExpr.Condition())
	}
}

func TestDoConditionFollowsBody(t *testing.T) {
	file := parseScript(t, "do {} while c;")

	doExpr, ok := file.Statements()[0].Item().Expr().(*syntax.ExprDo)
	if !ok {
		t.Fatalf("not a do loop: %T", file.Statements()[0].Item().Expr())
	}
	if doExpr.Body() == nil {
		t.Fatal("missing do body")
	}
	cond, ok := doExpr.Condition().(*syntax.ExprIdent)
	if !ok || cond.IdentToken().Text() != "c" {
		t.Errorf("do condition = %T, want the identifier", doExpr.Condition())
	}
}

func TestFnAndDocs(t *testing.T) {
	file := parseScript(t, "/// Adds two numbers.\n/// Returns the sum.\nfn add(a, b) { a + b }")

	item := file.Statements()[0].Item()
	if got := item.Docs(); got != "Adds two numbers.\nReturns the sum." {
		t.Errorf("docs = %q", got)
	}

	fn := item.Expr().(*syntax.ExprFn)
	if fn.IdentToken().Text() != "add" {
		t.Errorf("fn name = %q", fn.IdentToken().Text())
	}
	if fn.IsPrivate() {
		t.Error("fn is not private")
	}
	params := fn.ParamList().Params()
	if len(params) != 2 {
		t.Fatalf("got %d params, want 2", len(params))
	}
	if params[0].IdentToken().Text() != "a" || params[1].IdentToken().Text() != "b" {
		t.Errorf("param names = %q, %q", params[0].IdentToken().Text(), params[1].IdentToken().Text())
	}
}

func TestDocsBrokenByBlankLine(t *testing.T) {
	file := parseScript(t, "/// orphaned\n\n\nfn f() { }")
	if got := file.Statements()[0].Item().Docs(); got != "" {
		t.Errorf("docs across a blank line = %q, want empty", got)
	}
}

func TestScriptDocs(t *testing.T) {
	file := parseScript(t, "//! Utility helpers.\n//! Second line.\nlet x = 1;")
	if got := file.ScriptDocs(); got != "Utility helpers.\nSecond line." {
		t.Errorf("script docs = %q", got)
	}
}

func TestImportPath(t *testing.T) {
	file := parseScript(t, `import "foo/bar" as fb;`)

	imp := file.Statements()[0].Item().Expr().(*syntax.ExprImport)
	path, ok := imp.ImportPath()
	if !ok || path != "foo/bar" {
		t.Errorf("import path = %q, %v", path, ok)
	}
	if imp.Alias() == nil || imp.Alias().Text() != "fb" {
		t.Errorf("alias = %v", imp.Alias())
	}
}

func TestPathSegments(t *testing.T) {
	file := parseScript(t, "std::math::sqrt;")

	path := file.Statements()[0].Item().Expr().(*syntax.ExprPath).Path()
	var names []string
	for _, seg := range path.Segments() {
		names = append(names, seg.Text())
	}
	if len(names) != 3 || names[0] != "std" || names[2] != "sqrt" {
		t.Errorf("segments = %v", names)
	}
}

func TestTemplateInterpolation(t *testing.T) {
	file := parseScript(t, "`sum: ${a + b}`;")

	lit := file.Statements()[0].Item().Expr().(*syntax.ExprLit).Lit()
	tpl := lit.Template()
	if tpl == nil {
		t.Fatal("missing template")
	}
	interps := tpl.Interpolations()
	if len(interps) != 1 {
		t.Fatalf("got %d interpolations, want 1", len(interps))
	}
	stmts := interps[0].Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements in interpolation, want 1", len(stmts))
	}
	if _, ok := stmts[0].Item().Expr().(*syntax.ExprBinary); !ok {
		t.Errorf("interpolation body is %T", stmts[0].Item().Expr())
	}
}

func TestCallChain(t *testing.T) {
	file := parseScript(t, "obj.method(1)[0];")

	index, ok := file.Statements()[0].Item().Expr().(*syntax.ExprIndex)
	if !ok {
		t.Fatalf("outermost is %T, want *ExprIndex", file.Statements()[0].Item().Expr())
	}
	dot, ok := index.Base().(*syntax.ExprBinary)
	if !ok || dot.OpToken().Type() != lexer.DOT {
		t.Fatalf("index base is %T, want dot access", index.Base())
	}
	call, ok := dot.Rhs().(*syntax.ExprCall)
	if !ok {
		t.Fatalf("dot rhs is %T, want *ExprCall", dot.Rhs())
	}
	if got := len(call.ArgList().Arguments()); got != 1 {
		t.Errorf("got %d args, want 1", got)
	}
}

func TestUnquoteString(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"say \"hi\""`, `say "hi"`},
		{"\"cont\\\ninued\"", "continued"},
		{`'x'`, "x"},
	}
	for _, tt := range tests {
		if got := syntax.UnquoteString(tt.in); got != tt.out {
			t.Errorf("UnquoteString(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestDefFileViews(t *testing.T) {
	src := "module static;\n\n/// Computes a square root.\nfn sqrt(x: float) -> float;\nconst VERSION: String;\nimport \"other\" as o;\n"
	res := parser.ParseDef(src)
	if len(res.Errors) != 0 {
		t.Fatalf("parse errors: %v", res.Errors)
	}

	def := syntax.CastRhaiDef(res.Tree.Root())
	if def == nil {
		t.Fatal("root is not a definition file")
	}
	decl := def.ModuleDecl()
	if decl == nil || !decl.IsStatic() {
		t.Fatalf("module decl = %+v", decl)
	}

	stmts := def.Statements()
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}

	fn := stmts[0].Item().Fn()
	if fn == nil || fn.IdentToken().Text() != "sqrt" {
		t.Fatalf("first def = %+v", fn)
	}
	if got := stmts[0].Item().Docs(); got != "Computes a square root." {
		t.Errorf("fn docs = %q", got)
	}
	params := fn.ParamList().Params()
	if len(params) != 1 || params[0].IdentToken().Text() != "x" {
		t.Fatalf("params = %+v", params)
	}
	ty, ok := params[0].Ty().(*syntax.TypeIdent)
	if !ok || ty.IdentToken().Text() != "float" {
		t.Errorf("param type = %v", params[0].Ty())
	}
	if _, ok := fn.RetTy().(*syntax.TypeIdent); !ok {
		t.Errorf("ret type = %v", fn.RetTy())
	}

	c := stmts[1].Item().Const()
	if c == nil || c.IdentToken().Text() != "VERSION" {
		t.Errorf("const = %+v", c)
	}

	imp := stmts[2].Item().Import()
	if imp == nil {
		t.Fatal("missing import")
	}
	if path, ok := imp.ImportPath(); !ok || path != "other" {
		t.Errorf("import path = %q", path)
	}
	if imp.Alias() == nil || imp.Alias().Text() != "o" {
		t.Errorf("alias = %v", imp.Alias())
	}
}
