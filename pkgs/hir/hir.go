package hir

// Handle types into the HIR arenas. The zero value is "none".
type (
	Symbol uint32
	Scope  uint32
	Module uint32
	Source uint32
)

// StaticURLScheme prefixes the synthetic URL of the static module,
// the root namespace every script can see.
const StaticURLScheme = "rhai-static"

// SourceKind distinguishes executable scripts from definition files.
type SourceKind int

const (
	SourceScript SourceKind = iota
	SourceDef
)

func (k SourceKind) String() string {
	if k == SourceDef {
		return "def"
	}
	return "script"
}

// ModuleKind mirrors how a module came to exist.
type ModuleKind int

const (
	// ModuleStatic is the root of every script; items defined in it
	// are visible everywhere.
	ModuleStatic ModuleKind = iota
	// ModuleInline is defined inside a definition file block.
	ModuleInline
	// ModuleURL is identified by a document URL.
	ModuleURL
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleStatic:
		return "static"
	case ModuleInline:
		return "inline"
	default:
		return "url"
	}
}

// SourceData describes one added document.
type SourceData struct {
	URL    string
	Kind   SourceKind
	Module Module
}

// ModuleData is a namespace of symbols with a root scope.
type ModuleData struct {
	Scope Scope
	Kind  ModuleKind
	URL   string
	Docs  string
	// Protected modules survive losing their last source.
	Protected bool
	Sources   []Source
}

// ScopeData is one lexical scope. Symbols keep insertion order;
// hoisted symbols (functions) are visible before their declaration.
type ScopeData struct {
	Source       Source
	Parent       Scope
	ParentSymbol Symbol
	Module       Module
	Symbols      []Symbol
	Hoisted      []Symbol
}

// symbolCount reports direct symbols including hoisted ones.
func (s *ScopeData) symbolCount() int {
	return len(s.Symbols) + len(s.Hoisted)
}

// Hir is the project-wide high-level representation: every source,
// module, scope and symbol of a workspace in flat arenas addressed by
// integer handles. It is built per source and linked in a separate
// resolve pass, so single-document edits only rebuild that document's
// slice of the arenas.
type Hir struct {
	symbols []slot[SymbolData]
	scopes  []slot[ScopeData]
	modules []slot[ModuleData]
	sources []slot[SourceData]

	staticModule Module
	modulesByURL map[string]Module
	sourcesByURL map[string]Source

	resolver ImportResolver
}

type slot[T any] struct {
	data  T
	alive bool
}

// New returns an empty Hir containing only the static module.
func New() *Hir {
	h := &Hir{
		modulesByURL: make(map[string]Module),
		sourcesByURL: make(map[string]Source),
		resolver:     RelativeResolver{},
	}
	h.prepare()
	return h
}

func (h *Hir) prepare() {
	scope := h.newScope(ScopeData{})
	h.staticModule = h.newModule(ModuleData{
		Scope:     scope,
		Kind:      ModuleStatic,
		URL:       StaticURLScheme + "://static",
		Protected: true,
	})
	h.scopeMut(scope).Module = h.staticModule
}

// Clear drops everything and recreates the static module.
func (h *Hir) Clear() {
	h.symbols = h.symbols[:0]
	h.scopes = h.scopes[:0]
	h.modules = h.modules[:0]
	h.sources = h.sources[:0]
	h.modulesByURL = make(map[string]Module)
	h.sourcesByURL = make(map[string]Source)
	h.staticModule = 0
	h.prepare()
}

// SetImportResolver replaces the strategy used to turn import paths
// into module URLs during Resolve.
func (h *Hir) SetImportResolver(r ImportResolver) {
	if r != nil {
		h.resolver = r
	}
}

// StaticModule returns the pseudo-module holding global declarations.
func (h *Hir) StaticModule() Module { return h.staticModule }

// Symbol returns the data for a handle, or nil if it was removed.
func (h *Hir) Symbol(s Symbol) *SymbolData {
	if s == 0 || int(s) > len(h.symbols) || !h.symbols[s-1].alive {
		return nil
	}
	return &h.symbols[s-1].data
}

func (h *Hir) Scope(s Scope) *ScopeData {
	if s == 0 || int(s) > len(h.scopes) || !h.scopes[s-1].alive {
		return nil
	}
	return &h.scopes[s-1].data
}

func (h *Hir) Module(m Module) *ModuleData {
	if m == 0 || int(m) > len(h.modules) || !h.modules[m-1].alive {
		return nil
	}
	return &h.modules[m-1].data
}

func (h *Hir) Source(s Source) *SourceData {
	if s == 0 || int(s) > len(h.sources) || !h.sources[s-1].alive {
		return nil
	}
	return &h.sources[s-1].data
}

// Symbols iterates live symbols in handle order.
func (h *Hir) Symbols(fn func(Symbol, *SymbolData) bool) {
	for i := range h.symbols {
		if !h.symbols[i].alive {
			continue
		}
		if !fn(Symbol(i+1), &h.symbols[i].data) {
			return
		}
	}
}

// Modules iterates live modules.
func (h *Hir) Modules(fn func(Module, *ModuleData) bool) {
	for i := range h.modules {
		if !h.modules[i].alive {
			continue
		}
		if !fn(Module(i+1), &h.modules[i].data) {
			return
		}
	}
}

// Sources iterates live sources.
func (h *Hir) Sources(fn func(Source, *SourceData) bool) {
	for i := range h.sources {
		if !h.sources[i].alive {
			continue
		}
		if !fn(Source(i+1), &h.sources[i].data) {
			return
		}
	}
}

// SourceByURL returns the source added under a URL, or 0.
func (h *Hir) SourceByURL(url string) Source {
	return h.sourcesByURL[url]
}

// ModuleByURL returns the module registered for a URL, or 0.
func (h *Hir) ModuleByURL(url string) Module {
	return h.modulesByURL[url]
}

func (h *Hir) newSymbol(data SymbolData) Symbol {
	h.symbols = append(h.symbols, slot[SymbolData]{data: data, alive: true})
	return Symbol(len(h.symbols))
}

func (h *Hir) newScope(data ScopeData) Scope {
	h.scopes = append(h.scopes, slot[ScopeData]{data: data, alive: true})
	return Scope(len(h.scopes))
}

func (h *Hir) newModule(data ModuleData) Module {
	h.modules = append(h.modules, slot[ModuleData]{data: data, alive: true})
	m := Module(len(h.modules))
	if data.URL != "" {
		h.modulesByURL[data.URL] = m
	}
	return m
}

func (h *Hir) newSource(data SourceData) Source {
	h.sources = append(h.sources, slot[SourceData]{data: data, alive: true})
	s := Source(len(h.sources))
	h.sourcesByURL[data.URL] = s
	return s
}

func (h *Hir) symbolMut(s Symbol) *SymbolData { return h.Symbol(s) }
func (h *Hir) scopeMut(s Scope) *ScopeData    { return h.Scope(s) }
func (h *Hir) moduleMut(m Module) *ModuleData { return h.Module(m) }

// moduleForURL returns the module for a document URL, creating it on
// first use.
func (h *Hir) moduleForURL(url string) Module {
	if m, ok := h.modulesByURL[url]; ok && h.Module(m) != nil {
		return m
	}
	scope := h.newScope(ScopeData{})
	m := h.newModule(ModuleData{Scope: scope, Kind: ModuleURL, URL: url})
	h.scopeMut(scope).Module = m
	return m
}
