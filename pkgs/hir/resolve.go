package hir

import (
	"path"
	"strings"
)

// ImportResolver turns an `import` path into the URL of the module it
// names, relative to the importing document.
type ImportResolver interface {
	ResolveImport(baseURL, importPath string) (string, bool)
}

// RelativeResolver joins import paths against the directory of the
// importing document, the standard file-based layout.
type RelativeResolver struct{}

func (RelativeResolver) ResolveImport(baseURL, importPath string) (string, bool) {
	if importPath == "" {
		return "", false
	}
	if strings.Contains(importPath, "://") {
		return importPath, true
	}
	p := importPath
	if path.Ext(p) == "" {
		p += ".rhai"
	}
	return path.Join(path.Dir(baseURL), p), true
}

// Resolve links the whole graph: import symbols to modules, then
// reference symbols to declarations. It is idempotent and must run
// after any Add or Remove before queries are meaningful. Unresolved
// names stay unlinked; they surface later as diagnostics, not errors,
// because the embedding host may inject bindings invisible here.
func (h *Hir) Resolve() {
	h.resolveImports()
	h.resolveReferences()
}

func (h *Hir) resolveImports() {
	for i := range h.symbols {
		if !h.symbols[i].alive {
			continue
		}
		sd := &h.symbols[i].data
		if sd.Kind != SymbolImport {
			continue
		}
		sd.TargetModule = 0
		if sd.ImportPath == "" {
			continue
		}
		src := h.Source(sd.Source)
		if src == nil {
			continue
		}
		url, ok := h.resolver.ResolveImport(src.URL, sd.ImportPath)
		if !ok {
			continue
		}
		if m, found := h.modulesByURL[url]; found && h.Module(m) != nil {
			sd.TargetModule = m
		}
	}
}

func (h *Hir) resolveReferences() {
	for i := range h.symbols {
		if !h.symbols[i].alive {
			continue
		}
		sd := &h.symbols[i].data
		if sd.Kind != SymbolReference {
			continue
		}
		if sd.FieldAccess {
			sd.Target = 0
			continue
		}
		sd.Target = h.lookup(Symbol(i+1), sd)
	}
}

// lookup resolves a name from the reference's scope outward:
// enclosing scopes innermost first, then the module root, then the
// static module. Within a scope later declarations win, but only
// declarations textually before the reference count, except hoisted
// functions and def-file symbols which are visible everywhere.
func (h *Hir) lookup(ref Symbol, rd *SymbolData) Symbol {
	scope := rd.ParentScope
	for scope != 0 {
		if found := h.lookupInScope(scope, rd); found != 0 {
			return found
		}
		sd := h.Scope(scope)
		if sd == nil {
			break
		}
		scope = sd.Parent
	}

	// fall back to the global namespace
	static := h.Module(h.staticModule)
	if static != nil && h.Scope(static.Scope) != nil {
		if found := h.lookupInScope(static.Scope, rd); found != 0 {
			return found
		}
	}
	return 0
}

func (h *Hir) lookupInScope(scope Scope, rd *SymbolData) Symbol {
	sd := h.Scope(scope)
	if sd == nil {
		return 0
	}

	for i := len(sd.Symbols) - 1; i >= 0; i-- {
		cand := sd.Symbols[i]
		cd := h.Symbol(cand)
		if cd == nil || !cd.IsDeclaration() || cd.Name != rd.Name {
			continue
		}
		// same-source declarations only count once complete, so the
		// initializer of `let x = x` sees the outer x
		if !cd.IsDef && cd.Source == rd.Source && cd.Span.End > rd.SelectionSpan.Start {
			continue
		}
		return cand
	}
	for i := len(sd.Hoisted) - 1; i >= 0; i-- {
		cand := sd.Hoisted[i]
		cd := h.Symbol(cand)
		if cd != nil && cd.IsDeclaration() && cd.Name == rd.Name {
			return cand
		}
	}
	return 0
}
