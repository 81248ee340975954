package hir

// Remove drops a source and everything built from it: its symbols,
// the scopes it introduced, and its membership in modules. Modules
// outlive their sources only while another source still feeds them or
// they are protected. Resolution links into the removed slice are
// severed so a following Resolve starts clean.
func (h *Hir) Remove(src Source) {
	sd := h.Source(src)
	if sd == nil {
		return
	}

	removedSymbols := make(map[Symbol]bool)
	for i := range h.symbols {
		if h.symbols[i].alive && h.symbols[i].data.Source == src {
			removedSymbols[Symbol(i+1)] = true
			h.symbols[i].alive = false
		}
	}

	removedModules := make(map[Module]bool)
	for i := range h.modules {
		m := Module(i + 1)
		if !h.modules[i].alive {
			continue
		}
		md := &h.modules[i].data
		md.Sources = removeSource(md.Sources, src)
		if len(md.Sources) == 0 && !md.Protected {
			removedModules[m] = true
			h.modules[i].alive = false
			if h.modulesByURL[md.URL] == m {
				delete(h.modulesByURL, md.URL)
			}
		}
	}

	// scopes owned by the source die; module root scopes persist
	// (Source 0) but shed the removed source's symbols
	for i := range h.scopes {
		if !h.scopes[i].alive {
			continue
		}
		scope := &h.scopes[i].data
		if scope.Source == src || removedModules[scope.Module] {
			h.scopes[i].alive = false
			continue
		}
		scope.Symbols = filterSymbols(scope.Symbols, removedSymbols)
		scope.Hoisted = filterSymbols(scope.Hoisted, removedSymbols)
	}

	// surviving references must not point into freed slots
	for i := range h.symbols {
		if !h.symbols[i].alive {
			continue
		}
		data := &h.symbols[i].data
		if removedSymbols[data.Target] {
			data.Target = 0
		}
		if removedModules[data.TargetModule] {
			data.TargetModule = 0
		}
	}

	if h.sourcesByURL[sd.URL] == src {
		delete(h.sourcesByURL, sd.URL)
	}
	h.sources[src-1].alive = false
}

func removeSource(sources []Source, src Source) []Source {
	out := sources[:0]
	for _, s := range sources {
		if s != src {
			out = append(out, s)
		}
	}
	return out
}

func filterSymbols(syms []Symbol, removed map[Symbol]bool) []Symbol {
	kept := syms[:0]
	for _, s := range syms {
		if !removed[s] {
			kept = append(kept, s)
		}
	}
	return kept
}
