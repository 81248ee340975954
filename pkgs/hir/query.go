package hir

// SymbolAt returns the innermost symbol covering an offset in a
// source. Name spans win over whole-declaration spans so hovering a
// declaration's identifier lands on the symbol itself.
func (h *Hir) SymbolAt(source Source, offset int) Symbol {
	var (
		best     Symbol
		bestSize int
		bySel    bool
	)
	h.Symbols(func(sym Symbol, sd *SymbolData) bool {
		if sd.Source != source {
			return true
		}
		if sd.SelectionSpan.Contains(offset) {
			size := sd.SelectionSpan.Len()
			if !bySel || size < bestSize {
				best, bestSize, bySel = sym, size, true
			}
			return true
		}
		if !bySel && sd.Span.Contains(offset) {
			size := sd.Span.Len()
			if best == 0 || size < bestSize {
				best, bestSize = sym, size
			}
		}
		return true
	})
	return best
}

// DefinitionOf follows a reference to its declaration. Declarations
// return themselves so goto-definition is stable on the definition.
func (h *Hir) DefinitionOf(sym Symbol) Symbol {
	sd := h.Symbol(sym)
	if sd == nil {
		return 0
	}
	if sd.Kind == SymbolReference {
		return sd.Target
	}
	return sym
}

// ReferencesTo lists every reference resolved to a declaration, in
// handle order, which matches document order within one source.
func (h *Hir) ReferencesTo(decl Symbol) []Symbol {
	var refs []Symbol
	h.Symbols(func(sym Symbol, sd *SymbolData) bool {
		if sd.Kind == SymbolReference && sd.Target == decl {
			refs = append(refs, sym)
		}
		return true
	})
	return refs
}

// DocsFor returns the documentation attached to a symbol, chasing
// references to their declarations first.
func (h *Hir) DocsFor(sym Symbol) string {
	target := h.DefinitionOf(sym)
	sd := h.Symbol(target)
	if sd == nil {
		return ""
	}
	return sd.Docs
}
