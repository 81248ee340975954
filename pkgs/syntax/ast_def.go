package syntax

import "github.com/rhaikit/rhaikit/pkgs/lexer"

// Typed views for the definition-file grammar: the same lexical
// tokens as scripts, but a statement set restricted to declarations.

// RhaiDef is the root of a definition file.
type RhaiDef struct{ node *Node }

func CastRhaiDef(n *Node) *RhaiDef {
	if cast(n, KindRhaiDef) == nil {
		return nil
	}
	return &RhaiDef{n}
}

func (r *RhaiDef) Syntax() *Node { return r.node }

// ModuleDecl returns the `module …;` header, if present.
func (r *RhaiDef) ModuleDecl() *DefModuleDecl {
	if n := r.node.FirstNode(KindDefModuleDecl); n != nil {
		return &DefModuleDecl{n}
	}
	return nil
}

func (r *RhaiDef) Statements() []*DefStmt {
	var out []*DefStmt
	for _, n := range r.node.NodesOf(KindDefStmt) {
		out = append(out, &DefStmt{n})
	}
	return out
}

// DefModuleDecl is the `module`, `module static`, `module name` or
// `module "url"` header of a definition file.
type DefModuleDecl struct{ node *Node }

func (d *DefModuleDecl) Syntax() *Node { return d.node }

func (d *DefModuleDecl) IsStatic() bool {
	return d.node.FirstToken(lexer.KW_STATIC) != nil
}

func (d *DefModuleDecl) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }

func (d *DefModuleDecl) LitStrToken() *Token { return d.node.FirstToken(lexer.LIT_STR) }

func (d *DefModuleDecl) Docs() string { return docsOf(d.node) }

// DefStmt is one definition statement.
type DefStmt struct{ node *Node }

func (s *DefStmt) Syntax() *Node { return s.node }

func (s *DefStmt) Item() *DefItem {
	if n := s.node.FirstNode(KindDefItem); n != nil {
		return &DefItem{n}
	}
	return nil
}

// DefItem wraps one declaration inside a definition statement.
type DefItem struct{ node *Node }

func (i *DefItem) Syntax() *Node { return i.node }

func (i *DefItem) Docs() string { return docsOf(i.node) }

func (i *DefItem) Import() *DefImport {
	if n := i.node.FirstNode(KindDefImport); n != nil {
		return &DefImport{n}
	}
	return nil
}

func (i *DefItem) Const() *DefConst {
	if n := i.node.FirstNode(KindDefConst); n != nil {
		return &DefConst{n}
	}
	return nil
}

func (i *DefItem) Let() *DefLet {
	if n := i.node.FirstNode(KindDefLet); n != nil {
		return &DefLet{n}
	}
	return nil
}

func (i *DefItem) Fn() *DefFn {
	if n := i.node.FirstNode(KindDefFn); n != nil {
		return &DefFn{n}
	}
	return nil
}

func (i *DefItem) Op() *DefOp {
	if n := i.node.FirstNode(KindDefOp); n != nil {
		return &DefOp{n}
	}
	return nil
}

func (i *DefItem) TypeAlias() *DefType {
	if n := i.node.FirstNode(KindDefType); n != nil {
		return &DefType{n}
	}
	return nil
}

func (i *DefItem) Module() *DefModule {
	if n := i.node.FirstNode(KindDefModule); n != nil {
		return &DefModule{n}
	}
	return nil
}

// DefModule is an inline `module name { … }` block.
type DefModule struct{ node *Node }

func (d *DefModule) Syntax() *Node { return d.node }

func (d *DefModule) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }

func (d *DefModule) Statements() []*DefStmt {
	var out []*DefStmt
	for _, n := range d.node.NodesOf(KindDefStmt) {
		out = append(out, &DefStmt{n})
	}
	return out
}

// DefImport is `import "path" as alias;` in a definition file.
type DefImport struct{ node *Node }

func (d *DefImport) Syntax() *Node { return d.node }

func (d *DefImport) LitStrToken() *Token { return d.node.FirstToken(lexer.LIT_STR) }

func (d *DefImport) Alias() *Token { return d.node.FirstToken(lexer.IDENT) }

// ImportPath returns the unquoted import path.
func (d *DefImport) ImportPath() (string, bool) {
	tok := d.LitStrToken()
	if tok == nil {
		return "", false
	}
	return UnquoteString(tok.Text()), true
}

// DefConst is `const name: type;`.
type DefConst struct{ node *Node }

func (d *DefConst) Syntax() *Node      { return d.node }
func (d *DefConst) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }
func (d *DefConst) Ty() Type           { return firstType(d.node) }

// DefLet is `let name: type;`.
type DefLet struct{ node *Node }

func (d *DefLet) Syntax() *Node      { return d.node }
func (d *DefLet) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }
func (d *DefLet) Ty() Type           { return firstType(d.node) }

// DefFn is `fn name(params) -> type;`.
type DefFn struct{ node *Node }

func (d *DefFn) Syntax() *Node { return d.node }

func (d *DefFn) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }

func (d *DefFn) ParamList() *TypedParamList {
	if n := d.node.FirstNode(KindTypedParamList); n != nil {
		return &TypedParamList{n}
	}
	return nil
}

func (d *DefFn) RetTy() Type { return firstType(d.node) }

// DefOp is `op name(types) -> type with (precedence);`.
type DefOp struct{ node *Node }

func (d *DefOp) Syntax() *Node { return d.node }

// NameToken is the operator being declared: an identifier or an
// operator token.
func (d *DefOp) NameToken() *Token {
	for _, c := range d.node.children {
		tok, ok := c.(*Token)
		if !ok {
			continue
		}
		switch tok.Type() {
		case lexer.KW_OP, lexer.LPAREN, lexer.RPAREN, lexer.ARROW, lexer.SEMICOLON:
			continue
		}
		return tok
	}
	return nil
}

func (d *DefOp) ParamTypes() *TypeList {
	if n := d.node.FirstNode(KindTypeList); n != nil {
		return &TypeList{n}
	}
	return nil
}

func (d *DefOp) RetTy() Type { return firstType(d.node) }

func (d *DefOp) Precedence() *DefOpPrecedence {
	if n := d.node.FirstNode(KindDefOpPrecedence); n != nil {
		return &DefOpPrecedence{n}
	}
	return nil
}

// DefOpPrecedence is the `with (lbp, rbp)` clause of an op definition.
type DefOpPrecedence struct{ node *Node }

func (d *DefOpPrecedence) Syntax() *Node { return d.node }

func (d *DefOpPrecedence) BindingPowers() []*Token {
	return d.node.TokensOf(lexer.LIT_INT)
}

// DefType is `type name = type;`.
type DefType struct{ node *Node }

func (d *DefType) Syntax() *Node      { return d.node }
func (d *DefType) IdentToken() *Token { return d.node.FirstToken(lexer.IDENT) }
func (d *DefType) Ty() Type           { return firstType(d.node) }

// TypedParamList is the parenthesized `name: type` parameter list of
// a definition-file function.
type TypedParamList struct{ node *Node }

func (p *TypedParamList) Syntax() *Node { return p.node }

func (p *TypedParamList) Params() []*TypedParam {
	var out []*TypedParam
	for _, n := range p.node.NodesOf(KindTypedParam) {
		out = append(out, &TypedParam{n})
	}
	return out
}

type TypedParam struct{ node *Node }

func (p *TypedParam) Syntax() *Node      { return p.node }
func (p *TypedParam) IdentToken() *Token { return p.node.FirstToken(lexer.IDENT) }
func (p *TypedParam) Ty() Type           { return firstType(p.node) }

// Type is implemented by every type-expression view.
type Type interface {
	Syntax() *Node
	typeNode()
}

// CastType wraps a node in its concrete type view, or nil.
func CastType(n *Node) Type {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindTypeIdent:
		return &TypeIdent{n}
	case KindTypeList:
		return &TypeList{n}
	case KindTypeTuple:
		return &TypeTuple{n}
	case KindTypeObject:
		return &TypeObject{n}
	case KindTypeUnknown:
		return &TypeUnknown{n}
	}
	return nil
}

func isTypeKind(k Kind) bool {
	switch k {
	case KindTypeIdent, KindTypeList, KindTypeTuple, KindTypeObject, KindTypeUnknown:
		return true
	}
	return false
}

func firstType(n *Node) Type {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && isTypeKind(child.kind) {
			return CastType(child)
		}
	}
	return nil
}

func allTypes(n *Node) []Type {
	if n == nil {
		return nil
	}
	var out []Type
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && isTypeKind(child.kind) {
			out = append(out, CastType(child))
		}
	}
	return out
}

// TypeIdent is a named type such as `int` or `String`.
type TypeIdent struct{ node *Node }

func (t *TypeIdent) Syntax() *Node      { return t.node }
func (t *TypeIdent) typeNode()          {}
func (t *TypeIdent) IdentToken() *Token { return t.node.FirstToken(lexer.IDENT) }

// TypeList is a parenthesized list of types, as in op parameters.
type TypeList struct{ node *Node }

func (t *TypeList) Syntax() *Node { return t.node }
func (t *TypeList) typeNode()     {}
func (t *TypeList) Types() []Type { return allTypes(t.node) }

// TypeTuple is `(T, U)`.
type TypeTuple struct{ node *Node }

func (t *TypeTuple) Syntax() *Node { return t.node }
func (t *TypeTuple) typeNode()     {}
func (t *TypeTuple) Types() []Type { return allTypes(t.node) }

// TypeObject is `#{ field: T, … }`.
type TypeObject struct{ node *Node }

func (t *TypeObject) Syntax() *Node { return t.node }
func (t *TypeObject) typeNode()     {}

func (t *TypeObject) Fields() []*TypeObjectField {
	var out []*TypeObjectField
	for _, n := range t.node.NodesOf(KindTypeObjectField) {
		out = append(out, &TypeObjectField{n})
	}
	return out
}

type TypeObjectField struct{ node *Node }

func (f *TypeObjectField) Syntax() *Node     { return f.node }
func (f *TypeObjectField) NameToken() *Token { return f.node.FirstToken(lexer.IDENT) }
func (f *TypeObjectField) Ty() Type          { return firstType(f.node) }

// TypeUnknown is the `?` placeholder type.
type TypeUnknown struct{ node *Node }

func (t *TypeUnknown) Syntax() *Node { return t.node }
func (t *TypeUnknown) typeNode()     {}
