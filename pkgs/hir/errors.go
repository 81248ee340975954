package hir

import (
	"fmt"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// DiagnosticKind enumerates the semantic problems the HIR reports.
type DiagnosticKind int

const (
	DiagUnresolvedReference DiagnosticKind = iota
	DiagUnresolvedImport
	DiagDuplicateFnDefinition
	DiagDuplicateFnParameter
	DiagNestedFunction
	DiagSignatureMismatch
)

// Severity follows LSP conventions: errors block, warnings advise.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one semantic finding tied to a span in a source.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	Message  string
	Source   Source
	Span     lexer.Span
	Symbol   Symbol
	// Related points at the earlier conflicting symbol for
	// duplicate definitions and parameters.
	Related Symbol
}

// Diagnostics computes the findings for one source. Diagnostics are
// derived from symbol state on demand, never stored, so they are
// always consistent with the latest Resolve.
func (h *Hir) Diagnostics(source Source) []Diagnostic {
	var out []Diagnostic
	h.Symbols(func(sym Symbol, sd *SymbolData) bool {
		if sd.Source == source {
			out = h.symbolDiagnostics(sym, sd, out)
		}
		return true
	})
	return out
}

// AllDiagnostics computes findings across every source.
func (h *Hir) AllDiagnostics() []Diagnostic {
	var out []Diagnostic
	h.Symbols(func(sym Symbol, sd *SymbolData) bool {
		out = h.symbolDiagnostics(sym, sd, out)
		return true
	})
	return out
}

func (h *Hir) symbolDiagnostics(sym Symbol, sd *SymbolData, out []Diagnostic) []Diagnostic {
	switch sd.Kind {
	case SymbolReference:
		// unresolved references are warnings: the host can inject
		// bindings that are invisible statically
		if !sd.FieldAccess && sd.Target == 0 && sd.Name != "this" && sd.Name != "" {
			out = append(out, Diagnostic{
				Kind:     DiagUnresolvedReference,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("cannot resolve reference `%s`", sd.Name),
				Source:   sd.Source,
				Span:     sd.SelectionSpan,
				Symbol:   sym,
			})
		}

	case SymbolImport:
		if sd.TargetModule == 0 {
			out = append(out, Diagnostic{
				Kind:     DiagUnresolvedImport,
				Severity: SeverityError,
				Message:  "unresolved import",
				Source:   sd.Source,
				Span:     sd.Span,
				Symbol:   sym,
			})
		}

	case SymbolFn:
		// closures are anonymous and legal anywhere
		if sd.IsDef || sd.Name == "" {
			return out
		}
		out = h.fnDiagnostics(sym, sd, out)
	}
	return out
}

func (h *Hir) fnDiagnostics(sym Symbol, sd *SymbolData, out []Diagnostic) []Diagnostic {
	if !h.isModuleScope(sd.ParentScope) {
		out = append(out, Diagnostic{
			Kind:     DiagNestedFunction,
			Severity: SeverityError,
			Message:  "nested functions are not allowed",
			Source:   sd.Source,
			Span:     sd.SelectionSpan,
			Symbol:   sym,
		})
	}

	// a second definition of the same name in the same scope is a
	// duplicate; variables may shadow, functions may not
	if earlier := h.earlierFn(sym, sd); earlier != 0 {
		out = append(out, Diagnostic{
			Kind:     DiagDuplicateFnDefinition,
			Severity: SeverityError,
			Message:  fmt.Sprintf("duplicate definition of function `%s`", sd.Name),
			Source:   sd.Source,
			Span:     sd.SelectionSpan,
			Symbol:   sym,
			Related:  earlier,
		})
	}

	seen := make(map[string]Symbol)
	if scope := h.Scope(sd.Scope); scope != nil {
		for _, param := range scope.Symbols {
			pd := h.Symbol(param)
			if pd == nil || !pd.IsParam() {
				break
			}
			if pd.Name == "" || pd.Name == "_" {
				continue
			}
			if existing, dup := seen[pd.Name]; dup {
				out = append(out, Diagnostic{
					Kind:     DiagDuplicateFnParameter,
					Severity: SeverityError,
					Message:  fmt.Sprintf("duplicate function parameter `%s`", pd.Name),
					Source:   pd.Source,
					Span:     pd.SelectionSpan,
					Symbol:   param,
					Related:  existing,
				})
			} else {
				seen[pd.Name] = param
			}
		}
	}
	return h.signatureDiagnostics(sym, sd, out)
}

// signatureDiagnostics compares a script function against its
// definition-file declarations in the same scope. Rhai overloads by
// arity, so a mismatch is only reported when no declared arity fits.
func (h *Hir) signatureDiagnostics(sym Symbol, sd *SymbolData, out []Diagnostic) []Diagnostic {
	scope := h.Scope(sd.ParentScope)
	if scope == nil {
		return out
	}
	arity := h.paramCount(sd)
	declared := -1
	for _, cand := range scope.Hoisted {
		cd := h.Symbol(cand)
		if cd == nil || cd.Kind != SymbolFn || !cd.IsDef || cd.Name != sd.Name {
			continue
		}
		if len(cd.ParamTypes) == arity {
			return out
		}
		declared = len(cd.ParamTypes)
	}
	if declared < 0 {
		return out
	}
	out = append(out, Diagnostic{
		Kind:     DiagSignatureMismatch,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("function `%s` takes %d parameters but is declared with %d", sd.Name, arity, declared),
		Source:   sd.Source,
		Span:     sd.SelectionSpan,
		Symbol:   sym,
	})
	return out
}

func (h *Hir) paramCount(sd *SymbolData) int {
	n := 0
	if scope := h.Scope(sd.Scope); scope != nil {
		for _, p := range scope.Symbols {
			pd := h.Symbol(p)
			if pd == nil || !pd.IsParam() {
				break
			}
			n++
		}
	}
	return n
}

func (h *Hir) isModuleScope(scope Scope) bool {
	sd := h.Scope(scope)
	if sd == nil {
		return false
	}
	md := h.Module(sd.Module)
	return md != nil && md.Scope == scope
}

// earlierFn finds a previous same-name function definition hoisted
// into the same scope, skipping def-file declarations.
func (h *Hir) earlierFn(sym Symbol, sd *SymbolData) Symbol {
	scope := h.Scope(sd.ParentScope)
	if scope == nil || sd.Name == "" {
		return 0
	}
	for _, cand := range scope.Hoisted {
		if cand == sym {
			break
		}
		cd := h.Symbol(cand)
		if cd != nil && cd.Kind == SymbolFn && !cd.IsDef && cd.Name == sd.Name {
			return cand
		}
	}
	return 0
}
