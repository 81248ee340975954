package hir

import (
	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// SymbolKind discriminates SymbolData.
type SymbolKind int

const (
	SymbolLet SymbolKind = iota
	SymbolConst
	SymbolFn
	SymbolParam
	SymbolImport
	SymbolReference
	SymbolDecl
	SymbolOp
	SymbolTypeAlias
)

var symbolKindNames = [...]string{
	SymbolLet:       "let",
	SymbolConst:     "const",
	SymbolFn:        "fn",
	SymbolParam:     "param",
	SymbolImport:    "import",
	SymbolReference: "reference",
	SymbolDecl:      "decl",
	SymbolOp:        "op",
	SymbolTypeAlias: "type",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// SymbolData is one named entity: a declaration, parameter, import or
// reference. Span covers the whole declaring node, SelectionSpan just
// the name token.
type SymbolData struct {
	Kind          SymbolKind
	Name          string
	Docs          string
	Source        Source
	ParentScope   Scope
	Span          lexer.Span
	SelectionSpan lexer.Span

	// Scope is the child scope introduced by the symbol: a function
	// or closure body, or an inline module block.
	Scope Scope

	// Target links a reference or import after Resolve. For
	// references it is the declaration; for imports the module.
	Target       Symbol
	TargetModule Module

	// ImportPath is the unquoted path of an import symbol.
	ImportPath string

	// FieldAccess marks references on the right side of `.` and
	// `?.`; these resolve against runtime values, never statically.
	FieldAccess bool

	// IsDef marks symbols contributed by definition files; they
	// declare without a body and are exempt from some diagnostics.
	IsDef bool

	// Exported marks symbols reachable through the module from
	// importing scripts.
	Exported bool

	// RetType and ParamTypes carry declared type text from
	// definition files; empty for script symbols.
	RetType    string
	ParamTypes []string
}

// IsParam reports whether the symbol is a function parameter.
func (s *SymbolData) IsParam() bool { return s.Kind == SymbolParam }

// IsDeclaration reports whether the symbol introduces a name.
func (s *SymbolData) IsDeclaration() bool {
	return s.Kind != SymbolReference
}

// insertSymbol places a symbol into a scope, keeping insertion order.
func (h *Hir) insertSymbol(scope Scope, sym Symbol, hoisted bool) {
	sd := h.scopeMut(scope)
	if sd == nil {
		return
	}
	if hoisted {
		sd.Hoisted = append(sd.Hoisted, sym)
	} else {
		sd.Symbols = append(sd.Symbols, sym)
	}
}
