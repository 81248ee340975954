package syntax

import (
	"strings"

	"github.com/rhaikit/rhaikit/pkgs/lexer"
)

// Typed views over untyped nodes. A view is a thin wrapper validated
// by node kind; accessors return nil for children that error recovery
// left out, so callers can navigate partial trees without checks
// against panics. No accessor mutates or re-parses.

// Expr is implemented by every expression view.
type Expr interface {
	Syntax() *Node
	exprNode()
}

// CastExpr wraps a node in its concrete expression view, or returns
// nil when the node is not an expression.
func CastExpr(n *Node) Expr {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindExprIdent:
		return &ExprIdent{n}
	case KindExprPath:
		return &ExprPath{n}
	case KindExprLit:
		return &ExprLit{n}
	case KindExprLet:
		return &ExprLet{n}
	case KindExprConst:
		return &ExprConst{n}
	case KindExprBlock:
		return &ExprBlock{n}
	case KindExprUnary:
		return &ExprUnary{n}
	case KindExprBinary:
		return &ExprBinary{n}
	case KindExprParen:
		return &ExprParen{n}
	case KindExprArray:
		return &ExprArray{n}
	case KindExprIndex:
		return &ExprIndex{n}
	case KindExprObject:
		return &ExprObject{n}
	case KindExprCall:
		return &ExprCall{n}
	case KindExprClosure:
		return &ExprClosure{n}
	case KindExprIf:
		return &ExprIf{n}
	case KindExprLoop:
		return &ExprLoop{n}
	case KindExprFor:
		return &ExprFor{n}
	case KindExprWhile:
		return &ExprWhile{n}
	case KindExprDo:
		return &ExprDo{n}
	case KindExprBreak:
		return &ExprBreak{n}
	case KindExprContinue:
		return &ExprContinue{n}
	case KindExprReturn:
		return &ExprReturn{n}
	case KindExprSwitch:
		return &ExprSwitch{n}
	case KindExprFn:
		return &ExprFn{n}
	case KindExprExport:
		return &ExprExport{n}
	case KindExprImport:
		return &ExprImport{n}
	case KindExprTry:
		return &ExprTry{n}
	case KindExprThrow:
		return &ExprThrow{n}
	}
	return nil
}

func firstExpr(n *Node) Expr {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind.IsExpr() {
			return CastExpr(child)
		}
	}
	return nil
}

func nthExpr(n *Node, idx int) Expr {
	if n == nil {
		return nil
	}
	seen := 0
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind.IsExpr() {
			if seen == idx {
				return CastExpr(child)
			}
			seen++
		}
	}
	return nil
}

// blockNode unwraps an optional block view to its node.
func blockNode(b *ExprBlock) *Node {
	if b == nil {
		return nil
	}
	return b.node
}

// firstExprExcept returns the first expression child other than
// skip. Block-carrying constructs use it so a recovered-away
// condition never aliases to the body block.
func firstExprExcept(n, skip *Node) Expr {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind.IsExpr() && child != skip {
			return CastExpr(child)
		}
	}
	return nil
}

func allExprs(n *Node) []Expr {
	if n == nil {
		return nil
	}
	var out []Expr
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind.IsExpr() {
			out = append(out, CastExpr(child))
		}
	}
	return out
}

func cast(n *Node, kind Kind) *Node {
	if n == nil || n.kind != kind {
		return nil
	}
	return n
}

// Rhai is the root of an executable script.
type Rhai struct{ node *Node }

func CastRhai(n *Node) *Rhai {
	if cast(n, KindRhai) == nil {
		return nil
	}
	return &Rhai{n}
}

func (r *Rhai) Syntax() *Node { return r.node }

func (r *Rhai) Statements() []*Stmt {
	var out []*Stmt
	for _, n := range r.node.NodesOf(KindStmt) {
		out = append(out, &Stmt{n})
	}
	return out
}

// ScriptDocs collects `//!` comments from the top of the file.
func (r *Rhai) ScriptDocs() string {
	first := r.node.FirstTokenDeep()
	if first == nil {
		return ""
	}
	var sb strings.Builder
	for _, tr := range first.Leading() {
		if tr.Type != lexer.COMMENT_LINE {
			continue
		}
		if rest, ok := strings.CutPrefix(tr.Text, "//!"); ok {
			sb.WriteString(strings.TrimSuffix(strings.TrimPrefix(rest, " "), "\r"))
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Stmt is one statement: an item optionally terminated by `;`, or a
// lone `;`.
type Stmt struct{ node *Node }

func CastStmt(n *Node) *Stmt {
	if cast(n, KindStmt) == nil {
		return nil
	}
	return &Stmt{n}
}

func (s *Stmt) Syntax() *Node { return s.node }

func (s *Stmt) Item() *Item {
	if n := s.node.FirstNode(KindItem); n != nil {
		return &Item{n}
	}
	return nil
}

// Item wraps one declaration or expression inside a statement.
type Item struct{ node *Node }

func (i *Item) Syntax() *Node { return i.node }

func (i *Item) Expr() Expr { return firstExpr(i.node) }

// Docs returns the documentation comment run immediately preceding
// the item, already stripped of comment markers.
func (i *Item) Docs() string {
	return docsOf(i.node)
}

// ExprIdent is a bare identifier (or `this`) in expression position.
type ExprIdent struct{ node *Node }

func (e *ExprIdent) Syntax() *Node { return e.node }
func (e *ExprIdent) exprNode()     {}

func (e *ExprIdent) IdentToken() *Token {
	if t := e.node.FirstToken(lexer.IDENT); t != nil {
		return t
	}
	return e.node.FirstToken(lexer.KW_THIS)
}

// ExprPath is a `::`-separated path such as `m::sub::item`.
type ExprPath struct{ node *Node }

func (e *ExprPath) Syntax() *Node { return e.node }
func (e *ExprPath) exprNode()     {}

func (e *ExprPath) Path() *Path {
	if n := e.node.FirstNode(KindPath); n != nil {
		return &Path{n}
	}
	return nil
}

type Path struct{ node *Node }

func (p *Path) Syntax() *Node { return p.node }

// Segments returns the identifier tokens of the path in order.
func (p *Path) Segments() []*Token {
	return p.node.TokensOf(lexer.IDENT)
}

// ExprLit wraps a literal (number, string, char, bool, template).
type ExprLit struct{ node *Node }

func (e *ExprLit) Syntax() *Node { return e.node }
func (e *ExprLit) exprNode()     {}

func (e *ExprLit) Lit() *Lit {
	if n := e.node.FirstNode(KindLit); n != nil {
		return &Lit{n}
	}
	return nil
}

type Lit struct{ node *Node }

func (l *Lit) Syntax() *Node { return l.node }

// LitToken returns the single literal token, or nil for templates.
func (l *Lit) LitToken() *Token {
	toks := l.node.Tokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

func (l *Lit) Template() *LitStrTemplate {
	if n := l.node.FirstNode(KindLitStrTemplate); n != nil {
		return &LitStrTemplate{n}
	}
	return nil
}

// LitStrTemplate is a backtick-delimited interpolated string.
type LitStrTemplate struct{ node *Node }

func (l *LitStrTemplate) Syntax() *Node { return l.node }

func (l *LitStrTemplate) Interpolations() []*LitStrTemplateInterpolation {
	var out []*LitStrTemplateInterpolation
	for _, n := range l.node.NodesOf(KindLitStrTemplateInterpolation) {
		out = append(out, &LitStrTemplateInterpolation{n})
	}
	return out
}

type LitStrTemplateInterpolation struct{ node *Node }

func (l *LitStrTemplateInterpolation) Syntax() *Node { return l.node }

func (l *LitStrTemplateInterpolation) Statements() []*Stmt {
	var out []*Stmt
	for _, n := range l.node.NodesOf(KindStmt) {
		out = append(out, &Stmt{n})
	}
	return out
}

// ExprLet is `let name = value`.
type ExprLet struct{ node *Node }

func (e *ExprLet) Syntax() *Node { return e.node }
func (e *ExprLet) exprNode()     {}

func (e *ExprLet) IdentToken() *Token { return e.node.FirstToken(lexer.IDENT) }
func (e *ExprLet) Value() Expr        { return firstExpr(e.node) }

// ExprConst is `const name = value`.
type ExprConst struct{ node *Node }

func (e *ExprConst) Syntax() *Node { return e.node }
func (e *ExprConst) exprNode()     {}

func (e *ExprConst) IdentToken() *Token { return e.node.FirstToken(lexer.IDENT) }
func (e *ExprConst) Value() Expr        { return firstExpr(e.node) }

// ExprBlock is `{ statements }`.
type ExprBlock struct{ node *Node }

func CastExprBlock(n *Node) *ExprBlock {
	if cast(n, KindExprBlock) == nil {
		return nil
	}
	return &ExprBlock{n}
}

func (e *ExprBlock) Syntax() *Node { return e.node }
func (e *ExprBlock) exprNode()     {}

func (e *ExprBlock) Statements() []*Stmt {
	var out []*Stmt
	for _, n := range e.node.NodesOf(KindStmt) {
		out = append(out, &Stmt{n})
	}
	return out
}

// ExprUnary is a prefix operator application.
type ExprUnary struct{ node *Node }

func (e *ExprUnary) Syntax() *Node { return e.node }
func (e *ExprUnary) exprNode()     {}

func (e *ExprUnary) OpToken() *Token {
	toks := e.node.Tokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

func (e *ExprUnary) Operand() Expr { return firstExpr(e.node) }

// ExprBinary covers binary operators, assignment forms, ranges, and
// `.`/`?.` access chains.
type ExprBinary struct{ node *Node }

func (e *ExprBinary) Syntax() *Node { return e.node }
func (e *ExprBinary) exprNode()     {}

func (e *ExprBinary) Lhs() Expr { return nthExpr(e.node, 0) }
func (e *ExprBinary) Rhs() Expr { return nthExpr(e.node, 1) }

func (e *ExprBinary) OpToken() *Token {
	toks := e.node.Tokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

// ExprParen is `( inner )`.
type ExprParen struct{ node *Node }

func (e *ExprParen) Syntax() *Node { return e.node }
func (e *ExprParen) exprNode()     {}

func (e *ExprParen) Inner() Expr { return firstExpr(e.node) }

// ExprArray is `[ values… ]`.
type ExprArray struct{ node *Node }

func (e *ExprArray) Syntax() *Node { return e.node }
func (e *ExprArray) exprNode()     {}

func (e *ExprArray) Values() []Expr { return allExprs(e.node) }

// ExprIndex is `base[index]`.
type ExprIndex struct{ node *Node }

func (e *ExprIndex) Syntax() *Node { return e.node }
func (e *ExprIndex) exprNode()     {}

func (e *ExprIndex) Base() Expr  { return nthExpr(e.node, 0) }
func (e *ExprIndex) Index() Expr { return nthExpr(e.node, 1) }

// ExprObject is an object map literal `#{ field: value, … }`.
type ExprObject struct{ node *Node }

func (e *ExprObject) Syntax() *Node { return e.node }
func (e *ExprObject) exprNode()     {}

func (e *ExprObject) Fields() []*ObjectField {
	var out []*ObjectField
	for _, n := range e.node.NodesOf(KindObjectField) {
		out = append(out, &ObjectField{n})
	}
	return out
}

type ObjectField struct{ node *Node }

func (f *ObjectField) Syntax() *Node { return f.node }

// PropertyToken is the field name: an identifier or string literal.
func (f *ObjectField) PropertyToken() *Token {
	if t := f.node.FirstToken(lexer.IDENT); t != nil {
		return t
	}
	return f.node.FirstToken(lexer.LIT_STR)
}

func (f *ObjectField) Value() Expr { return firstExpr(f.node) }

// ExprCall is `callee(args…)`.
type ExprCall struct{ node *Node }

func (e *ExprCall) Syntax() *Node { return e.node }
func (e *ExprCall) exprNode()     {}

func (e *ExprCall) Expr() Expr { return firstExpr(e.node) }

func (e *ExprCall) ArgList() *ArgList {
	if n := e.node.FirstNode(KindArgList); n != nil {
		return &ArgList{n}
	}
	return nil
}

type ArgList struct{ node *Node }

func (a *ArgList) Syntax() *Node     { return a.node }
func (a *ArgList) Arguments() []Expr { return allExprs(a.node) }

// ExprClosure is `|params| body`.
type ExprClosure struct{ node *Node }

func (e *ExprClosure) Syntax() *Node { return e.node }
func (e *ExprClosure) exprNode()     {}

func (e *ExprClosure) ParamList() *ParamList {
	if n := e.node.FirstNode(KindParamList); n != nil {
		return &ParamList{n}
	}
	return nil
}

func (e *ExprClosure) Body() Expr { return firstExpr(e.node) }

type ParamList struct{ node *Node }

func (p *ParamList) Syntax() *Node { return p.node }

func (p *ParamList) Params() []*Param {
	var out []*Param
	for _, n := range p.node.NodesOf(KindParam) {
		out = append(out, &Param{n})
	}
	return out
}

type Param struct{ node *Node }

func (p *Param) Syntax() *Node      { return p.node }
func (p *Param) IdentToken() *Token { return p.node.FirstToken(lexer.IDENT) }

// ExprIf is `if cond { … }` with optional `else`/`else if` chains.
type ExprIf struct{ node *Node }

func CastExprIf(n *Node) *ExprIf {
	if cast(n, KindExprIf) == nil {
		return nil
	}
	return &ExprIf{n}
}

func (e *ExprIf) Syntax() *Node { return e.node }
func (e *ExprIf) exprNode()     {}

func (e *ExprIf) Condition() Expr {
	return firstExprExcept(e.node, blockNode(e.ThenBranch()))
}

func (e *ExprIf) ThenBranch() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

// ElseIfBranch returns the chained `else if`, if any.
func (e *ExprIf) ElseIfBranch() *ExprIf {
	then := e.ThenBranch()
	if then == nil {
		return nil
	}
	return CastExprIf(then.Syntax().NextSibling())
}

// ElseBranch returns the final `else` block, if any.
func (e *ExprIf) ElseBranch() *ExprBlock {
	then := e.ThenBranch()
	if then == nil {
		return nil
	}
	return CastExprBlock(then.Syntax().NextSibling())
}

// ExprLoop is `loop { … }`.
type ExprLoop struct{ node *Node }

func (e *ExprLoop) Syntax() *Node { return e.node }
func (e *ExprLoop) exprNode()     {}

func (e *ExprLoop) Body() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

// ExprFor is `for pat in iterable { … }`.
type ExprFor struct{ node *Node }

func (e *ExprFor) Syntax() *Node { return e.node }
func (e *ExprFor) exprNode()     {}

func (e *ExprFor) Pat() *Pat {
	if n := e.node.FirstNode(KindPat); n != nil {
		return &Pat{n}
	}
	return nil
}

func (e *ExprFor) Iterable() Expr {
	return firstExprExcept(e.node, blockNode(e.Body()))
}

func (e *ExprFor) Body() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

// Pat is a binding pattern: a single identifier or a tuple of them.
type Pat struct{ node *Node }

func (p *Pat) Syntax() *Node { return p.node }

// Idents returns every identifier bound by the pattern.
func (p *Pat) Idents() []*Token {
	var out []*Token
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			switch el := c.(type) {
			case *Token:
				if el.Type() == lexer.IDENT {
					out = append(out, el)
				}
			case *Node:
				walk(el)
			}
		}
	}
	walk(p.node)
	return out
}

// ExprWhile is `while cond { … }`.
type ExprWhile struct{ node *Node }

func (e *ExprWhile) Syntax() *Node { return e.node }
func (e *ExprWhile) exprNode()     {}

func (e *ExprWhile) Condition() Expr {
	return firstExprExcept(e.node, blockNode(e.Body()))
}

func (e *ExprWhile) Body() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

// ExprDo is `do { … } while cond` or `do { … } until cond`.
type ExprDo struct{ node *Node }

func (e *ExprDo) Syntax() *Node { return e.node }
func (e *ExprDo) exprNode()     {}

func (e *ExprDo) Body() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

func (e *ExprDo) Condition() Expr {
	return firstExprExcept(e.node, blockNode(e.Body()))
}

// IsUntil reports whether the loop repeats until the condition holds.
func (e *ExprDo) IsUntil() bool {
	return e.node.FirstToken(lexer.KW_UNTIL) != nil
}

// ExprBreak is `break` with an optional value.
type ExprBreak struct{ node *Node }

func (e *ExprBreak) Syntax() *Node { return e.node }
func (e *ExprBreak) exprNode()     {}

func (e *ExprBreak) Value() Expr { return firstExpr(e.node) }

// ExprContinue is `continue`.
type ExprContinue struct{ node *Node }

func (e *ExprContinue) Syntax() *Node { return e.node }
func (e *ExprContinue) exprNode()     {}

// ExprReturn is `return` with an optional value.
type ExprReturn struct{ node *Node }

func (e *ExprReturn) Syntax() *Node { return e.node }
func (e *ExprReturn) exprNode()     {}

func (e *ExprReturn) Value() Expr { return firstExpr(e.node) }

// ExprSwitch is `switch expr { arms }`.
type ExprSwitch struct{ node *Node }

func (e *ExprSwitch) Syntax() *Node { return e.node }
func (e *ExprSwitch) exprNode()     {}

func (e *ExprSwitch) Expr() Expr { return firstExpr(e.node) }

func (e *ExprSwitch) ArmList() *SwitchArmList {
	if n := e.node.FirstNode(KindSwitchArmList); n != nil {
		return &SwitchArmList{n}
	}
	return nil
}

type SwitchArmList struct{ node *Node }

func (s *SwitchArmList) Syntax() *Node { return s.node }

func (s *SwitchArmList) Arms() []*SwitchArm {
	var out []*SwitchArm
	for _, n := range s.node.NodesOf(KindSwitchArm) {
		out = append(out, &SwitchArm{n})
	}
	return out
}

// SwitchArm is `pattern if guard => value`.
type SwitchArm struct{ node *Node }

func (s *SwitchArm) Syntax() *Node { return s.node }

func (s *SwitchArm) PatternExpr() Expr { return nthExpr(s.node, 0) }

// DiscardToken returns the `_` token for a discard arm.
func (s *SwitchArm) DiscardToken() *Token {
	return s.node.FirstToken(lexer.UNDERSCORE)
}

func (s *SwitchArm) Condition() *SwitchArmCondition {
	if n := s.node.FirstNode(KindSwitchArmCondition); n != nil {
		return &SwitchArmCondition{n}
	}
	return nil
}

// ValueExpr returns the expression after `=>`.
func (s *SwitchArm) ValueExpr() Expr {
	var sawArrow bool
	for _, c := range s.node.children {
		switch el := c.(type) {
		case *Token:
			if el.Type() == lexer.FAT_ARROW {
				sawArrow = true
			}
		case *Node:
			if sawArrow && el.kind.IsExpr() {
				return CastExpr(el)
			}
		}
	}
	return nil
}

type SwitchArmCondition struct{ node *Node }

func (s *SwitchArmCondition) Syntax() *Node { return s.node }
func (s *SwitchArmCondition) Expr() Expr    { return firstExpr(s.node) }

// ExprFn is a function definition `fn name(params) { … }`.
type ExprFn struct{ node *Node }

func (e *ExprFn) Syntax() *Node { return e.node }
func (e *ExprFn) exprNode()     {}

func (e *ExprFn) IdentToken() *Token { return e.node.FirstToken(lexer.IDENT) }

func (e *ExprFn) IsPrivate() bool {
	return e.node.FirstToken(lexer.KW_PRIVATE) != nil
}

func (e *ExprFn) ParamList() *ParamList {
	if n := e.node.FirstNode(KindParamList); n != nil {
		return &ParamList{n}
	}
	return nil
}

func (e *ExprFn) Body() *ExprBlock {
	return CastExprBlock(e.node.FirstNode(KindExprBlock))
}

// ExprExport is `export <let|const|ident as alias>`.
type ExprExport struct{ node *Node }

func (e *ExprExport) Syntax() *Node { return e.node }
func (e *ExprExport) exprNode()     {}

func (e *ExprExport) Target() Expr { return firstExpr(e.node) }

func (e *ExprExport) ExportIdent() *ExportIdent {
	if n := e.node.FirstNode(KindExportIdent); n != nil {
		return &ExportIdent{n}
	}
	return nil
}

type ExportIdent struct{ node *Node }

func (e *ExportIdent) Syntax() *Node { return e.node }

func (e *ExportIdent) IdentToken() *Token {
	toks := e.node.TokensOf(lexer.IDENT)
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

// Alias returns the identifier after `as`, if present.
func (e *ExportIdent) Alias() *Token {
	toks := e.node.TokensOf(lexer.IDENT)
	if len(toks) < 2 {
		return nil
	}
	return toks[1]
}

// ExprImport is `import "path" as alias`.
type ExprImport struct{ node *Node }

func (e *ExprImport) Syntax() *Node { return e.node }
func (e *ExprImport) exprNode()     {}

func (e *ExprImport) Expr() Expr { return firstExpr(e.node) }

// Alias returns the identifier after `as`, if present.
func (e *ExprImport) Alias() *Token {
	return e.node.FirstToken(lexer.IDENT)
}

// ImportPath returns the unquoted import path when the source is a
// plain string literal.
func (e *ExprImport) ImportPath() (string, bool) {
	lit, ok := e.Expr().(*ExprLit)
	if !ok || lit.Lit() == nil {
		return "", false
	}
	tok := lit.Lit().LitToken()
	if tok == nil || tok.Type() != lexer.LIT_STR {
		return "", false
	}
	return UnquoteString(tok.Text()), true
}

// ExprTry is `try { … } catch (params) { … }`.
type ExprTry struct{ node *Node }

func (e *ExprTry) Syntax() *Node { return e.node }
func (e *ExprTry) exprNode()     {}

func (e *ExprTry) Body() *ExprBlock {
	blocks := e.node.NodesOf(KindExprBlock)
	if len(blocks) == 0 {
		return nil
	}
	return CastExprBlock(blocks[0])
}

func (e *ExprTry) CatchParams() *ParamList {
	if n := e.node.FirstNode(KindParamList); n != nil {
		return &ParamList{n}
	}
	return nil
}

func (e *ExprTry) CatchBlock() *ExprBlock {
	blocks := e.node.NodesOf(KindExprBlock)
	if len(blocks) < 2 {
		return nil
	}
	return CastExprBlock(blocks[1])
}

// ExprThrow is `throw` with an optional value.
type ExprThrow struct{ node *Node }

func (e *ExprThrow) Syntax() *Node { return e.node }
func (e *ExprThrow) exprNode()     {}

func (e *ExprThrow) Value() Expr { return firstExpr(e.node) }

// UnquoteString strips the surrounding quotes of a string literal and
// resolves simple escapes. Malformed escapes pass through unchanged;
// precise validation is the evaluator's job.
func UnquoteString(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 >= len(text) {
			sb.WriteByte(text[i])
			continue
		}
		i++
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case '\n':
			// escaped newline is a line continuation
		default:
			sb.WriteByte('\\')
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}

// docsOf extracts the contiguous documentation comment run from the
// leading trivia of a node's first token. Plain comments and blank
// lines break the run; only the run ending directly above the node
// attaches.
func docsOf(n *Node) string {
	if n == nil {
		return ""
	}
	first := n.FirstTokenDeep()
	if first == nil {
		return ""
	}

	var run []lexer.Trivia
	blankLines := 0
	for _, tr := range first.Leading() {
		switch tr.Type {
		case lexer.WHITESPACE:
			if tr.EndsLine() {
				blankLines++
			}
		case lexer.COMMENT_LINE_DOC, lexer.COMMENT_BLOCK_DOC:
			if blankLines > 1 {
				run = run[:0]
			}
			run = append(run, tr)
			blankLines = 0
		default:
			run = run[:0]
			blankLines = 0
		}
	}
	if blankLines > 1 {
		return ""
	}

	var sb strings.Builder
	for _, tr := range run {
		switch tr.Type {
		case lexer.COMMENT_LINE_DOC:
			t := strings.TrimPrefix(tr.Text, "///")
			t = strings.TrimPrefix(t, " ")
			sb.WriteString(strings.TrimSuffix(t, "\r"))
			sb.WriteByte('\n')
		case lexer.COMMENT_BLOCK_DOC:
			t := strings.TrimPrefix(tr.Text, "/**")
			t = strings.TrimSuffix(t, "*/")
			sb.WriteString(t)
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), " \t\n")
}
