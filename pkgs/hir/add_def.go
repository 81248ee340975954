package hir

import (
	"strings"

	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// AddDefFile indexes a definition file. Its symbols carry declared
// types but no bodies and merge into the namespace of the module they
// describe, so a def file can document host-registered functions.
//
// The target module comes from the header: `module static;` targets
// the static module, `module "url";` the module of that URL. Without
// a header the def file describes the script with the same URL minus
// the `.d.rhai` suffix.
func (h *Hir) AddDefFile(url string, file *syntax.RhaiDef) Source {
	h.removeExisting(url)

	module := h.defTargetModule(url, file)
	src := h.newSource(SourceData{URL: url, Kind: SourceDef, Module: module})
	md := h.moduleMut(module)
	md.Sources = append(md.Sources, src)

	if file == nil {
		return src
	}
	if decl := file.ModuleDecl(); decl != nil {
		if docs := decl.Docs(); docs != "" {
			md.Docs = docs
		}
	}

	w := &walker{h: h, source: src, module: module, scope: md.Scope}
	for _, stmt := range file.Statements() {
		w.defStmt(stmt)
	}
	return src
}

func (h *Hir) defTargetModule(url string, file *syntax.RhaiDef) Module {
	if file != nil {
		if decl := file.ModuleDecl(); decl != nil {
			if decl.IsStatic() {
				return h.staticModule
			}
			if lit := decl.LitStrToken(); lit != nil {
				return h.moduleForURL(syntax.UnquoteString(lit.Text()))
			}
		}
	}
	if base, ok := strings.CutSuffix(url, ".d.rhai"); ok {
		return h.moduleForURL(base + ".rhai")
	}
	return h.moduleForURL(url)
}

func (w *walker) defStmt(s *syntax.DefStmt) {
	item := s.Item()
	if item == nil {
		return
	}
	docs := item.Docs()

	switch {
	case item.Fn() != nil:
		w.defFn(item.Fn(), docs)
	case item.Const() != nil:
		d := item.Const()
		sym := w.declare(SymbolConst, d.Syntax(), d.IdentToken(), docs, false)
		w.defType(sym, d.Ty())
	case item.Let() != nil:
		d := item.Let()
		sym := w.declare(SymbolLet, d.Syntax(), d.IdentToken(), docs, false)
		w.defType(sym, d.Ty())
	case item.Import() != nil:
		w.defImport(item.Import(), docs)
	case item.Op() != nil:
		w.defOp(item.Op(), docs)
	case item.TypeAlias() != nil:
		d := item.TypeAlias()
		sym := w.declare(SymbolTypeAlias, d.Syntax(), d.IdentToken(), docs, false)
		w.markDef(sym)
	case item.Module() != nil:
		w.defModule(item.Module(), docs)
	}
}

func (w *walker) markDef(sym Symbol) {
	if sd := w.h.symbolMut(sym); sd != nil {
		sd.IsDef = true
		sd.Exported = true
	}
}

func (w *walker) defType(sym Symbol, ty syntax.Type) {
	w.markDef(sym)
	if ty == nil {
		return
	}
	if sd := w.h.symbolMut(sym); sd != nil {
		sd.RetType = typeText(ty)
	}
}

func (w *walker) defFn(d *syntax.DefFn, docs string) {
	sym := w.declare(SymbolFn, d.Syntax(), d.IdentToken(), docs, true)
	w.markDef(sym)

	prev := w.pushScope(sym)
	w.h.symbolMut(sym).Scope = w.scope
	if params := d.ParamList(); params != nil {
		for _, p := range params.Params() {
			psym := w.declare(SymbolParam, p.Syntax(), p.IdentToken(), "", false)
			w.markDef(psym)
			if ty := p.Ty(); ty != nil {
				w.h.symbolMut(sym).ParamTypes = append(w.h.symbolMut(sym).ParamTypes, typeText(ty))
				w.h.symbolMut(psym).RetType = typeText(ty)
			} else {
				w.h.symbolMut(sym).ParamTypes = append(w.h.symbolMut(sym).ParamTypes, "?")
			}
		}
	}
	w.scope = prev

	if ty := d.RetTy(); ty != nil {
		w.h.symbolMut(sym).RetType = typeText(ty)
	}
}

func (w *walker) defOp(d *syntax.DefOp, docs string) {
	data := SymbolData{
		Kind:        SymbolOp,
		Docs:        docs,
		Source:      w.source,
		ParentScope: w.scope,
		Span:        d.Syntax().Span(),
		IsDef:       true,
		Exported:    true,
	}
	if name := d.NameToken(); name != nil {
		data.Name = name.Text()
		data.SelectionSpan = name.Span()
	} else {
		data.SelectionSpan = data.Span
	}
	if types := d.ParamTypes(); types != nil {
		for _, ty := range types.Types() {
			data.ParamTypes = append(data.ParamTypes, typeText(ty))
		}
	}
	if ty := d.RetTy(); ty != nil {
		data.RetType = typeText(ty)
	}

	sym := w.h.newSymbol(data)
	w.h.insertSymbol(w.scope, sym, false)
}

func (w *walker) defImport(d *syntax.DefImport, docs string) {
	data := SymbolData{
		Kind:        SymbolImport,
		Docs:        docs,
		Source:      w.source,
		ParentScope: w.scope,
		Span:        d.Syntax().Span(),
		IsDef:       true,
	}
	if path, ok := d.ImportPath(); ok {
		data.ImportPath = path
	}
	if alias := d.Alias(); alias != nil {
		data.Name = alias.Text()
		data.SelectionSpan = alias.Span()
	} else {
		data.SelectionSpan = data.Span
	}

	sym := w.h.newSymbol(data)
	w.h.insertSymbol(w.scope, sym, false)
}

// defModule indexes an inline `module name { … }` block as its own
// module with a symbol in the enclosing scope.
func (w *walker) defModule(d *syntax.DefModule, docs string) {
	sym := w.declare(SymbolDecl, d.Syntax(), d.IdentToken(), docs, false)
	w.markDef(sym)

	scope := w.h.newScope(ScopeData{
		Source:       w.source,
		ParentSymbol: sym,
	})
	module := w.h.newModule(ModuleData{
		Scope: scope,
		Kind:  ModuleInline,
		Docs:  docs,
	})
	w.h.scopeMut(scope).Module = module
	sd := w.h.symbolMut(sym)
	sd.Scope = scope
	sd.TargetModule = module

	prevScope, prevModule := w.scope, w.module
	w.scope, w.module = scope, module
	for _, stmt := range d.Statements() {
		w.defStmt(stmt)
	}
	w.scope, w.module = prevScope, prevModule
}

// typeText renders a declared type back to compact source text.
func typeText(ty syntax.Type) string {
	if ty == nil {
		return ""
	}
	var sb strings.Builder
	writeTypeText(&sb, ty)
	return sb.String()
}

func writeTypeText(sb *strings.Builder, ty syntax.Type) {
	switch ty := ty.(type) {
	case *syntax.TypeIdent:
		if tok := ty.IdentToken(); tok != nil {
			sb.WriteString(tok.Text())
		}
	case *syntax.TypeUnknown:
		sb.WriteString("?")
	case *syntax.TypeList:
		sb.WriteString("[")
		for i, el := range ty.Types() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTypeText(sb, el)
		}
		sb.WriteString("]")
	case *syntax.TypeTuple:
		sb.WriteString("(")
		for i, el := range ty.Types() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTypeText(sb, el)
		}
		sb.WriteString(")")
	case *syntax.TypeObject:
		sb.WriteString("#{")
		for i, f := range ty.Fields() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if tok := f.NameToken(); tok != nil {
				sb.WriteString(tok.Text())
			}
			sb.WriteString(": ")
			writeTypeText(sb, f.Ty())
		}
		sb.WriteString("}")
	}
}
