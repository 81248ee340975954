package hir_test

import (
	"testing"

	"github.com/rhaikit/rhaikit/pkgs/hir"
	"github.com/rhaikit/rhaikit/pkgs/parser"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

func addScript(t *testing.T, h *hir.Hir, url, src string) hir.Source {
	t.Helper()
	res := parser.Parse(src)
	file := syntax.CastRhai(res.Tree.Root())
	if file == nil {
		t.Fatalf("root of %q is not a script file", url)
	}
	return h.AddScript(url, file)
}

func addDef(t *testing.T, h *hir.Hir, url, src string) hir.Source {
	t.Helper()
	res := parser.ParseDef(src)
	file := syntax.CastRhaiDef(res.Tree.Root())
	if file == nil {
		t.Fatalf("root of %q is not a definition file", url)
	}
	return h.AddDefFile(url, file)
}

// declNamed finds the first live declaration with a name, skipping
// references.
func declNamed(t *testing.T, h *hir.Hir, name string) hir.Symbol {
	t.Helper()
	var found hir.Symbol
	h.Symbols(func(sym hir.Symbol, sd *hir.SymbolData) bool {
		if sd.IsDeclaration() && sd.Name == name {
			found = sym
			return false
		}
		return true
	})
	if found == 0 {
		t.Fatalf("no declaration named %q", name)
	}
	return found
}

func refNamed(t *testing.T, h *hir.Hir, name string) hir.Symbol {
	t.Helper()
	var found hir.Symbol
	h.Symbols(func(sym hir.Symbol, sd *hir.SymbolData) bool {
		if sd.Kind == hir.SymbolReference && sd.Name == name {
			found = sym
			return false
		}
		return true
	})
	if found == 0 {
		t.Fatalf("no reference named %q", name)
	}
	return found
}

func TestShadowingResolvesToLatest(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/a.rhai", "let x = 1; let x = 2; x;")
	h.Resolve()

	ref := refNamed(t, h, "x")
	target := h.Symbol(ref).Target
	if target == 0 {
		t.Fatal("reference did not resolve")
	}
	// the second binding shadows the first
	if got := h.Symbol(target).SelectionSpan.Start; got != 15 {
		t.Errorf("resolved to declaration at %d, want 15", got)
	}
}

func TestHoistedFnVisibleBeforeDeclaration(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/a.rhai", "foo();\nfn foo() {}")
	h.Resolve()

	ref := refNamed(t, h, "foo")
	target := h.Symbol(ref).Target
	if target == 0 {
		t.Fatal("call before declaration did not resolve")
	}
	if got := h.Symbol(target).Kind; got != hir.SymbolFn {
		t.Errorf("resolved to %v, want fn", got)
	}
}

func TestInitializerSeesOuterBinding(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/a.rhai", "let x = 1;\nlet x = x + 1;")
	h.Resolve()

	ref := refNamed(t, h, "x")
	target := h.Symbol(ref).Target
	if target == 0 {
		t.Fatal("initializer reference did not resolve")
	}
	// the initializer of the second x must see the first
	if got := h.Symbol(target).SelectionSpan.Start; got != 4 {
		t.Errorf("resolved to declaration at %d, want 4", got)
	}
}

func TestUnresolvedReferenceIsWarning(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "whatever;")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != hir.DiagUnresolvedReference {
		t.Errorf("kind = %v, want unresolved reference", d.Kind)
	}
	if d.Severity != hir.SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
}

func TestThisIsNeverUnresolved(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn len() { this.inner; }")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestFieldAccessStaysUnresolvedSilently(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "let a = #{}; a.missing; a?.gone();")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
	h.Symbols(func(_ hir.Symbol, sd *hir.SymbolData) bool {
		if sd.FieldAccess && sd.Target != 0 {
			t.Errorf("field access %q resolved statically", sd.Name)
		}
		return true
	})
}

func TestDuplicateFnDefinition(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn a() {}\nfn a() {}")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != hir.DiagDuplicateFnDefinition {
		t.Fatalf("kind = %v, want duplicate fn", d.Kind)
	}
	// reported on the second occurrence, pointing back at the first
	if d.Span.Start != 13 {
		t.Errorf("span starts at %d, want 13", d.Span.Start)
	}
	if d.Related == 0 || h.Symbol(d.Related).SelectionSpan.Start != 3 {
		t.Errorf("related symbol does not point at the first definition")
	}
}

func TestDuplicateFnParameter(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn f(a, b, a) {}")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Kind != hir.DiagDuplicateFnParameter {
		t.Errorf("kind = %v, want duplicate parameter", diags[0].Kind)
	}
}

func TestUnderscoreParamsNeverCollide(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn f(_, _) {}")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestNestedFunction(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn outer() { fn inner() {} }")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != hir.DiagNestedFunction {
		t.Errorf("kind = %v, want nested function", d.Kind)
	}
	if h.Symbol(d.Symbol).Name != "inner" {
		t.Errorf("flagged %q, want inner", h.Symbol(d.Symbol).Name)
	}
}

func TestClosuresAreNotNestedFunctions(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "fn f() { let g = |x| x + 1; g.call(2) }")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestImportResolvesAcrossFiles(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/m.rhai", "export let total = 0;")
	main := addScript(t, h, "/ws/main.rhai", "import \"m\" as m;\nm::total;")
	h.Resolve()

	var imp hir.Symbol
	h.Symbols(func(sym hir.Symbol, sd *hir.SymbolData) bool {
		if sd.Kind == hir.SymbolImport {
			imp = sym
			return false
		}
		return true
	})
	if imp == 0 {
		t.Fatal("no import symbol indexed")
	}
	want := h.ModuleByURL("/ws/m.rhai")
	if want == 0 {
		t.Fatal("imported module not registered")
	}
	if got := h.Symbol(imp).TargetModule; got != want {
		t.Errorf("import target module = %d, want %d", got, want)
	}

	// the leading path segment resolves to the import alias
	ref := refNamed(t, h, "m")
	if h.Symbol(ref).Target != imp {
		t.Errorf("path head resolved to %d, want the import", h.Symbol(ref).Target)
	}
	if diags := h.Diagnostics(main); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestUnresolvedImport(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/main.rhai", "import \"missing\" as mm;")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Kind != hir.DiagUnresolvedImport {
		t.Errorf("kind = %v, want unresolved import", diags[0].Kind)
	}
	if diags[0].Severity != hir.SeverityError {
		t.Errorf("severity = %v, want error", diags[0].Severity)
	}
}

func TestDefFileMergesIntoScriptModule(t *testing.T) {
	h := hir.New()
	script := addScript(t, h, "/ws/foo.rhai", "let r = sqrt(4);")
	h.Resolve()
	if diags := h.Diagnostics(script); len(diags) != 1 {
		t.Fatalf("got %d diagnostics before the def file, want 1", len(diags))
	}

	addDef(t, h, "/ws/foo.d.rhai", "fn sqrt(x: int) -> int;")
	h.Resolve()

	if diags := h.Diagnostics(script); len(diags) != 0 {
		t.Errorf("got diagnostics %+v after the def file, want none", diags)
	}
	ref := refNamed(t, h, "sqrt")
	target := h.Symbol(ref).Target
	if target == 0 {
		t.Fatal("sqrt did not resolve against the def file")
	}
	td := h.Symbol(target)
	if !td.IsDef {
		t.Error("resolved symbol is not marked as a definition")
	}
	if td.RetType != "int" {
		t.Errorf("return type = %q, want int", td.RetType)
	}
	if len(td.ParamTypes) != 1 || td.ParamTypes[0] != "int" {
		t.Errorf("param types = %v, want [int]", td.ParamTypes)
	}
}

func TestSignatureMismatchAgainstDeclaration(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/geo.rhai", "fn area(w, h) { w * h }")
	addDef(t, h, "/ws/geo.d.rhai", "fn area(s: int) -> int;")
	h.Resolve()

	diags := h.Diagnostics(src)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != hir.DiagSignatureMismatch {
		t.Fatalf("kind = %v, want signature mismatch", d.Kind)
	}
	if d.Severity != hir.SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
}

func TestSignatureMatchesAnyOverload(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/geo.rhai", "fn area(w, h) { w * h }")
	addDef(t, h, "/ws/geo.d.rhai", "fn area(s: int) -> int;\nfn area(w: int, h: int) -> int;")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestUndeclaredFnHasNoSignatureDiagnostic(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/geo.rhai", "fn helper(x) { x }")
	addDef(t, h, "/ws/geo.d.rhai", "fn area(w: int, h: int) -> int;")
	h.Resolve()

	if diags := h.Diagnostics(src); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
}

func TestStaticModuleIsVisibleEverywhere(t *testing.T) {
	h := hir.New()
	addDef(t, h, "/ws/globals.d.rhai", "module static;\n\nconst PI: float;")
	script := addScript(t, h, "/ws/main.rhai", "PI * 2;")
	h.Resolve()

	if diags := h.Diagnostics(script); len(diags) != 0 {
		t.Errorf("got diagnostics %+v, want none", diags)
	}
	ref := refNamed(t, h, "PI")
	target := h.Symbol(ref).Target
	if target == 0 {
		t.Fatal("PI did not resolve")
	}
	if got := h.Symbol(target).ParentScope; got != h.Module(h.StaticModule()).Scope {
		t.Error("PI does not live in the static module scope")
	}
}

func TestInlineDefModule(t *testing.T) {
	h := hir.New()
	addDef(t, h, "/ws/lib.d.rhai", "module math {\n  fn abs(x: int) -> int;\n}")
	h.Resolve()

	decl := declNamed(t, h, "math")
	dd := h.Symbol(decl)
	if dd.Kind != hir.SymbolDecl {
		t.Fatalf("math is %v, want decl", dd.Kind)
	}
	md := h.Module(dd.TargetModule)
	if md == nil || md.Kind != hir.ModuleInline {
		t.Fatal("math does not own an inline module")
	}
	if sd := h.Scope(md.Scope); len(sd.Hoisted) != 1 {
		t.Errorf("inline module holds %d functions, want 1", len(sd.Hoisted))
	}
}

func TestReAddReplacesSource(t *testing.T) {
	h := hir.New()
	first := addScript(t, h, "/ws/a.rhai", "let old_name = 1;")
	second := addScript(t, h, "/ws/a.rhai", "let new_name = 2;")
	h.Resolve()

	if first == second {
		t.Fatal("re-adding reused the source handle")
	}
	if h.Source(first) != nil {
		t.Error("previous source still alive")
	}
	if h.SourceByURL("/ws/a.rhai") != second {
		t.Error("URL does not map to the replacement source")
	}
	h.Symbols(func(_ hir.Symbol, sd *hir.SymbolData) bool {
		if sd.Name == "old_name" {
			t.Error("symbol from the replaced source survived")
		}
		return true
	})
	declNamed(t, h, "new_name")
}

func TestRemoveDropsModule(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "let x = 1;")
	module := h.ModuleByURL("/ws/a.rhai")
	if module == 0 {
		t.Fatal("module not registered")
	}

	h.Remove(src)

	if h.Module(module) != nil {
		t.Error("unprotected module survived losing its only source")
	}
	if h.ModuleByURL("/ws/a.rhai") != 0 {
		t.Error("removed module still registered by URL")
	}
	if h.Module(h.StaticModule()) == nil {
		t.Error("static module did not survive")
	}
}

func TestRemoveSeversResolution(t *testing.T) {
	h := hir.New()
	lib := addScript(t, h, "/ws/m.rhai", "export fn helper() {}")
	main := addScript(t, h, "/ws/main.rhai", "import \"m\" as m;")
	h.Resolve()

	var imp *hir.SymbolData
	h.Symbols(func(_ hir.Symbol, sd *hir.SymbolData) bool {
		if sd.Kind == hir.SymbolImport {
			imp = sd
			return false
		}
		return true
	})
	if imp == nil || imp.TargetModule == 0 {
		t.Fatal("import did not resolve before removal")
	}

	h.Remove(lib)
	if imp.TargetModule != 0 {
		t.Error("import still targets the removed module")
	}
	h.Resolve()
	diags := h.Diagnostics(main)
	if len(diags) != 1 || diags[0].Kind != hir.DiagUnresolvedImport {
		t.Errorf("got diagnostics %+v, want one unresolved import", diags)
	}
}

func TestDocsOnDeclarations(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/a.rhai", "/// the answer\nlet answer = 42;\nanswer;")
	h.Resolve()

	decl := declNamed(t, h, "answer")
	if got := h.Symbol(decl).Docs; got != "the answer" {
		t.Errorf("docs = %q, want %q", got, "the answer")
	}
	ref := refNamed(t, h, "answer")
	if got := h.DocsFor(ref); got != "the answer" {
		t.Errorf("docs through reference = %q, want %q", got, "the answer")
	}
}

func TestSymbolQueries(t *testing.T) {
	h := hir.New()
	src := addScript(t, h, "/ws/a.rhai", "let value = 1;\nvalue;")
	h.Resolve()

	decl := declNamed(t, h, "value")
	ref := refNamed(t, h, "value")

	// offset inside the declaration's name
	if got := h.SymbolAt(src, 5); got != decl {
		t.Errorf("SymbolAt(5) = %d, want the declaration %d", got, decl)
	}
	// offset inside the reference
	if got := h.SymbolAt(src, 16); got != ref {
		t.Errorf("SymbolAt(16) = %d, want the reference %d", got, ref)
	}

	if got := h.DefinitionOf(ref); got != decl {
		t.Errorf("DefinitionOf(reference) = %d, want %d", got, decl)
	}
	if got := h.DefinitionOf(decl); got != decl {
		t.Errorf("DefinitionOf(declaration) = %d, want itself", got)
	}
	if refs := h.ReferencesTo(decl); len(refs) != 1 || refs[0] != ref {
		t.Errorf("ReferencesTo = %v, want [%d]", refs, ref)
	}
}

func TestClearResetsEverything(t *testing.T) {
	h := hir.New()
	addScript(t, h, "/ws/a.rhai", "let x = 1;")
	h.Clear()

	count := 0
	h.Symbols(func(hir.Symbol, *hir.SymbolData) bool {
		count++
		return true
	})
	if count != 0 {
		t.Errorf("%d symbols survived Clear", count)
	}
	if h.StaticModule() == 0 || h.Module(h.StaticModule()) == nil {
		t.Error("static module missing after Clear")
	}
}
