package hir

import (
	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// AddScript indexes one parsed script under the given URL. A source
// already registered for the URL is removed first, so re-adding after
// an edit is the incremental rebuild unit.
func (h *Hir) AddScript(url string, file *syntax.Rhai) Source {
	h.removeExisting(url)

	module := h.moduleForURL(url)
	src := h.newSource(SourceData{URL: url, Kind: SourceScript, Module: module})
	md := h.moduleMut(module)
	md.Sources = append(md.Sources, src)

	if file == nil {
		return src
	}
	if docs := file.ScriptDocs(); docs != "" {
		md.Docs = docs
	}

	w := &walker{h: h, source: src, module: module, scope: md.Scope}
	for _, stmt := range file.Statements() {
		w.stmt(stmt)
	}
	return src
}

func (h *Hir) removeExisting(url string) {
	if existing := h.sourcesByURL[url]; existing != 0 && h.Source(existing) != nil {
		h.Remove(existing)
	}
}

// walker indexes one source with an explicit scope stack; the current
// scope is just a field since pops restore the previous value.
type walker struct {
	h      *Hir
	source Source
	module Module
	scope  Scope
}

func (w *walker) pushScope(parentSymbol Symbol) Scope {
	prev := w.scope
	w.scope = w.h.newScope(ScopeData{
		Source:       w.source,
		Parent:       prev,
		ParentSymbol: parentSymbol,
		Module:       w.module,
	})
	return prev
}

func (w *walker) declare(kind SymbolKind, node *syntax.Node, name *syntax.Token, docs string, hoisted bool) Symbol {
	data := SymbolData{
		Kind:        kind,
		Docs:        docs,
		Source:      w.source,
		ParentScope: w.scope,
	}
	if node != nil {
		data.Span = node.Span()
		data.SelectionSpan = node.Span()
	}
	if name != nil {
		data.Name = name.Text()
		data.SelectionSpan = name.Span()
	}
	sym := w.h.newSymbol(data)
	w.h.insertSymbol(w.scope, sym, hoisted)
	return sym
}

func (w *walker) reference(node *syntax.Node, name *syntax.Token, field bool) Symbol {
	if name == nil {
		return 0
	}
	data := SymbolData{
		Kind:          SymbolReference,
		Name:          name.Text(),
		Source:        w.source,
		ParentScope:   w.scope,
		SelectionSpan: name.Span(),
		FieldAccess:   field,
	}
	data.Span = data.SelectionSpan
	if node != nil {
		data.Span = node.Span()
	}
	sym := w.h.newSymbol(data)
	w.h.insertSymbol(w.scope, sym, false)
	return sym
}

func (w *walker) stmt(s *syntax.Stmt) {
	item := s.Item()
	if item == nil {
		return
	}
	w.expr(item.Expr(), item.Docs())
}

// block walks `{ … }` in a fresh scope.
func (w *walker) block(b *syntax.ExprBlock) {
	if b == nil {
		return
	}
	prev := w.pushScope(0)
	for _, stmt := range b.Statements() {
		w.stmt(stmt)
	}
	w.scope = prev
}

// expr indexes one expression. docs is the doc comment of the
// enclosing item and only sticks to declarations.
func (w *walker) expr(e syntax.Expr, docs string) {
	switch e := e.(type) {
	case nil:

	case *syntax.ExprLet:
		// the initializer sees the outer binding: `let x = x`
		w.expr(e.Value(), "")
		w.declare(SymbolLet, e.Syntax(), e.IdentToken(), docs, false)

	case *syntax.ExprConst:
		w.expr(e.Value(), "")
		w.declare(SymbolConst, e.Syntax(), e.IdentToken(), docs, false)

	case *syntax.ExprFn:
		w.fn(e, docs)

	case *syntax.ExprIdent:
		w.reference(e.Syntax(), e.IdentToken(), false)

	case *syntax.ExprPath:
		// only the leading segment names a visible symbol; the rest
		// resolves inside the target module at evaluation time
		if p := e.Path(); p != nil {
			if segs := p.Segments(); len(segs) > 0 {
				w.reference(e.Syntax(), segs[0], false)
			}
		}

	case *syntax.ExprLit:
		w.template(e)

	case *syntax.ExprBinary:
		w.binary(e)

	case *syntax.ExprUnary:
		w.expr(e.Operand(), "")

	case *syntax.ExprParen:
		w.expr(e.Inner(), "")

	case *syntax.ExprArray:
		for _, el := range e.Values() {
			w.expr(el, "")
		}

	case *syntax.ExprIndex:
		w.expr(e.Base(), "")
		w.expr(e.Index(), "")

	case *syntax.ExprObject:
		for _, f := range e.Fields() {
			w.expr(f.Value(), "")
		}

	case *syntax.ExprCall:
		w.expr(e.Expr(), "")
		if args := e.ArgList(); args != nil {
			for _, a := range args.Arguments() {
				w.expr(a, "")
			}
		}

	case *syntax.ExprClosure:
		w.closure(e, docs)

	case *syntax.ExprBlock:
		w.block(e)

	case *syntax.ExprIf:
		w.ifExpr(e)

	case *syntax.ExprWhile:
		w.expr(e.Condition(), "")
		w.block(e.Body())

	case *syntax.ExprLoop:
		w.block(e.Body())

	case *syntax.ExprFor:
		w.forExpr(e)

	case *syntax.ExprDo:
		w.block(e.Body())
		w.expr(e.Condition(), "")

	case *syntax.ExprSwitch:
		w.switchExpr(e)

	case *syntax.ExprTry:
		w.tryExpr(e)

	case *syntax.ExprBreak:
		w.expr(e.Value(), "")

	case *syntax.ExprReturn:
		w.expr(e.Value(), "")

	case *syntax.ExprThrow:
		w.expr(e.Value(), "")

	case *syntax.ExprContinue:

	case *syntax.ExprImport:
		w.importExpr(e, docs)

	case *syntax.ExprExport:
		w.exportExpr(e, docs)
	}
}

func (w *walker) fn(e *syntax.ExprFn, docs string) {
	sym := w.declare(SymbolFn, e.Syntax(), e.IdentToken(), docs, true)

	prev := w.pushScope(sym)
	w.h.symbolMut(sym).Scope = w.scope
	if params := e.ParamList(); params != nil {
		for _, p := range params.Params() {
			w.declare(SymbolParam, p.Syntax(), p.IdentToken(), "", false)
		}
	}
	if body := e.Body(); body != nil {
		for _, stmt := range body.Statements() {
			w.stmt(stmt)
		}
	}
	w.scope = prev
}

func (w *walker) closure(e *syntax.ExprClosure, docs string) {
	sym := w.declare(SymbolFn, e.Syntax(), nil, docs, false)

	prev := w.pushScope(sym)
	w.h.symbolMut(sym).Scope = w.scope
	if params := e.ParamList(); params != nil {
		for _, p := range params.Params() {
			w.declare(SymbolParam, p.Syntax(), p.IdentToken(), "", false)
		}
	}
	w.expr(e.Body(), "")
	w.scope = prev
}

// binary treats `.` and `?.` right-hand identifiers as field
// accesses: they resolve against runtime values, not lexical scope.
func (w *walker) binary(e *syntax.ExprBinary) {
	op := e.OpToken()
	if op == nil || (op.Type() != lexer.DOT && op.Type() != lexer.ELVIS) {
		w.expr(e.Lhs(), "")
		w.expr(e.Rhs(), "")
		return
	}

	w.expr(e.Lhs(), "")
	switch rhs := e.Rhs().(type) {
	case *syntax.ExprIdent:
		w.reference(rhs.Syntax(), rhs.IdentToken(), true)
	case *syntax.ExprCall:
		if callee, ok := rhs.Expr().(*syntax.ExprIdent); ok {
			w.reference(callee.Syntax(), callee.IdentToken(), true)
		} else {
			w.expr(rhs.Expr(), "")
		}
		if args := rhs.ArgList(); args != nil {
			for _, a := range args.Arguments() {
				w.expr(a, "")
			}
		}
	default:
		w.expr(rhs, "")
	}
}

func (w *walker) ifExpr(e *syntax.ExprIf) {
	w.expr(e.Condition(), "")
	w.block(e.ThenBranch())
	if elif := e.ElseIfBranch(); elif != nil {
		w.ifExpr(elif)
	}
	w.block(e.ElseBranch())
}

func (w *walker) forExpr(e *syntax.ExprFor) {
	w.expr(e.Iterable(), "")

	prev := w.pushScope(0)
	if pat := e.Pat(); pat != nil {
		for _, ident := range pat.Idents() {
			if ident.Text() != "_" {
				w.declare(SymbolLet, pat.Syntax(), ident, "", false)
			}
		}
	}
	if body := e.Body(); body != nil {
		for _, stmt := range body.Statements() {
			w.stmt(stmt)
		}
	}
	w.scope = prev
}

func (w *walker) switchExpr(e *syntax.ExprSwitch) {
	w.expr(e.Expr(), "")
	armList := e.ArmList()
	if armList == nil {
		return
	}
	for _, arm := range armList.Arms() {
		w.expr(arm.PatternExpr(), "")
		if cond := arm.Condition(); cond != nil {
			w.expr(cond.Expr(), "")
		}
		w.expr(arm.ValueExpr(), "")
	}
}

func (w *walker) tryExpr(e *syntax.ExprTry) {
	w.block(e.Body())

	prev := w.pushScope(0)
	if params := e.CatchParams(); params != nil {
		for _, p := range params.Params() {
			w.declare(SymbolParam, p.Syntax(), p.IdentToken(), "", false)
		}
	}
	if catch := e.CatchBlock(); catch != nil {
		for _, stmt := range catch.Statements() {
			w.stmt(stmt)
		}
	}
	w.scope = prev
}

func (w *walker) template(e *syntax.ExprLit) {
	lit := e.Lit()
	if lit == nil {
		return
	}
	tpl := lit.Template()
	if tpl == nil {
		return
	}
	for _, interp := range tpl.Interpolations() {
		prev := w.pushScope(0)
		for _, stmt := range interp.Statements() {
			w.stmt(stmt)
		}
		w.scope = prev
	}
}

func (w *walker) importExpr(e *syntax.ExprImport, docs string) {
	data := SymbolData{
		Kind:        SymbolImport,
		Docs:        docs,
		Source:      w.source,
		ParentScope: w.scope,
		Span:        e.Syntax().Span(),
	}
	if path, ok := e.ImportPath(); ok {
		data.ImportPath = path
	}
	if alias := e.Alias(); alias != nil {
		data.Name = alias.Text()
		data.SelectionSpan = alias.Span()
	} else {
		data.SelectionSpan = data.Span
	}

	sym := w.h.newSymbol(data)
	w.h.insertSymbol(w.scope, sym, false)

	// a non-literal import source is a runtime expression; its
	// references still need indexing
	if _, ok := e.ImportPath(); !ok {
		w.expr(e.Expr(), "")
	}
}

func (w *walker) exportExpr(e *syntax.ExprExport, docs string) {
	if inner := e.Target(); inner != nil {
		w.expr(inner, docs)
		if sd := w.h.Scope(w.scope); sd != nil && len(sd.Symbols) > 0 {
			last := sd.Symbols[len(sd.Symbols)-1]
			if ld := w.h.symbolMut(last); ld != nil && ld.IsDeclaration() {
				ld.Exported = true
			}
		}
		return
	}
	if ident := e.ExportIdent(); ident != nil {
		sym := w.reference(ident.Syntax(), ident.IdentToken(), false)
		if sd := w.h.symbolMut(sym); sd != nil {
			sd.Exported = true
		}
	}
}
