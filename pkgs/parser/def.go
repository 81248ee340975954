package parser

import (
	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// startsDefStmt reports whether a token can begin a definition
// statement; used as the recovery sync set in definition mode.
func startsDefStmt(typ lexer.TokenType) bool {
	switch typ {
	case lexer.SEMICOLON, lexer.KW_IMPORT, lexer.KW_CONST, lexer.KW_LET,
		lexer.KW_FN, lexer.KW_OP, lexer.KW_TYPE, lexer.KW_MODULE:
		return true
	}
	return false
}

func (p *parser) peekN(n int) lexer.TokenType {
	if p.pos+n >= len(p.tokens) {
		return lexer.EOF
	}
	return p.tokens[p.pos+n].Type
}

// defFile parses a `.d.rhai` definition file: an optional module
// declaration header followed by definition statements.
func (p *parser) defFile() {
	p.b.StartNode(syntax.KindRhaiDef)
	defer p.b.FinishNode()

	if p.at(lexer.KW_MODULE) && p.atModuleDecl() {
		p.moduleDecl()
	}

	for !p.atEnd() {
		p.defStmt()
	}
	p.pushEOF()
}

// atModuleDecl distinguishes the file header `module name;` from an
// inline `module name { … }` block.
func (p *parser) atModuleDecl() bool {
	switch p.peek() {
	case lexer.SEMICOLON, lexer.KW_STATIC, lexer.LIT_STR, lexer.EOF:
		return true
	case lexer.IDENT:
		return p.peekN(2) == lexer.SEMICOLON
	}
	return false
}

func (p *parser) moduleDecl() {
	p.b.StartNode(syntax.KindDefModuleDecl)
	defer p.b.FinishNode()

	p.bump() // module
	switch p.current().Type {
	case lexer.KW_STATIC, lexer.IDENT, lexer.LIT_STR:
		p.bump()
	}
	p.expect(lexer.SEMICOLON, "';'")
}

func (p *parser) defStmt() {
	p.b.StartNode(syntax.KindDefStmt)
	defer p.b.FinishNode()

	if p.at(lexer.SEMICOLON) {
		p.bump()
		return
	}

	p.b.StartNode(syntax.KindDefItem)
	ok := p.defItem()
	p.b.FinishNode()

	if !ok {
		p.errorHere("expected definition")
		p.recoverDef()
		return
	}

	if p.at(lexer.SEMICOLON) {
		p.bump()
	}
}

func (p *parser) recoverDef() {
	p.b.StartNode(syntax.KindError)
	p.bump()
	for !p.atEnd() && !p.at(lexer.RBRACE) && !startsDefStmt(p.current().Type) {
		p.bump()
	}
	p.b.FinishNode()
}

func (p *parser) defItem() bool {
	switch p.current().Type {
	case lexer.KW_IMPORT:
		p.b.StartNode(syntax.KindDefImport)
		p.bump()
		p.expect(lexer.LIT_STR, "import path")
		if p.at(lexer.KW_AS) {
			p.bump()
			p.expect(lexer.IDENT, "import alias")
		}
		p.b.FinishNode()

	case lexer.KW_CONST:
		p.b.StartNode(syntax.KindDefConst)
		p.bump()
		p.expect(lexer.IDENT, "constant name")
		if p.at(lexer.COLON) {
			p.bump()
			if !p.typeExpr() {
				p.errorHere("expected type")
			}
		}
		p.b.FinishNode()

	case lexer.KW_LET:
		p.b.StartNode(syntax.KindDefLet)
		p.bump()
		p.expect(lexer.IDENT, "variable name")
		if p.at(lexer.COLON) {
			p.bump()
			if !p.typeExpr() {
				p.errorHere("expected type")
			}
		}
		p.b.FinishNode()

	case lexer.KW_FN:
		p.b.StartNode(syntax.KindDefFn)
		p.bump()
		p.expect(lexer.IDENT, "function name")
		if p.at(lexer.LPAREN) {
			p.typedParamList()
		} else {
			p.errorHere("expected parameter list")
		}
		if p.at(lexer.ARROW) {
			p.bump()
			if !p.typeExpr() {
				p.errorHere("expected return type")
			}
		}
		p.b.FinishNode()

	case lexer.KW_OP:
		p.defOp()

	case lexer.KW_TYPE:
		p.b.StartNode(syntax.KindDefType)
		p.bump()
		p.expect(lexer.IDENT, "type name")
		if p.expect(lexer.ASSIGN, "'='") {
			if !p.typeExpr() {
				p.errorHere("expected type")
			}
		}
		p.b.FinishNode()

	case lexer.KW_MODULE:
		p.b.StartNode(syntax.KindDefModule)
		p.bump()
		p.expect(lexer.IDENT, "module name")
		if p.expect(lexer.LBRACE, "'{'") {
			for !p.atEnd() && !p.at(lexer.RBRACE) {
				p.defStmt()
			}
			p.expect(lexer.RBRACE, "'}'")
		}
		p.b.FinishNode()

	default:
		return false
	}
	return true
}

// defOp parses `op NAME(types) -> type with lbp rbp;`. The operator
// name may be any single token, identifiers and symbolic operators
// alike.
func (p *parser) defOp() {
	p.b.StartNode(syntax.KindDefOp)
	defer p.b.FinishNode()

	p.bump() // op
	switch p.current().Type {
	case lexer.LPAREN, lexer.SEMICOLON, lexer.EOF:
		p.errorHere("expected operator name")
	default:
		p.bump()
	}

	if p.at(lexer.LPAREN) {
		p.b.StartNode(syntax.KindTypeList)
		p.bump()
		for !p.atEnd() && !p.at(lexer.RPAREN) {
			if !p.typeExpr() {
				p.errorHere("expected type")
				break
			}
			if p.at(lexer.COMMA) {
				p.bump()
			}
		}
		p.expect(lexer.RPAREN, "')'")
		p.b.FinishNode()
	} else {
		p.errorHere("expected operand types")
	}

	if p.at(lexer.ARROW) {
		p.bump()
		if !p.typeExpr() {
			p.errorHere("expected return type")
		}
	}

	if p.at(lexer.IDENT) && p.current().Text == "with" {
		p.b.StartNode(syntax.KindDefOpPrecedence)
		p.bump()
		// binding powers come bare or parenthesized: `with 150, 151`
		// and `with (150, 151)` are both legal
		paren := p.at(lexer.LPAREN)
		if paren {
			p.bump()
		}
		if p.expect(lexer.LIT_INT, "binding power") {
			if p.at(lexer.COMMA) {
				p.bump()
			}
			if p.at(lexer.LIT_INT) {
				p.bump()
			}
		}
		if paren {
			p.expect(lexer.RPAREN, "')'")
		}
		p.b.FinishNode()
	}
}

func (p *parser) typedParamList() {
	p.b.StartNode(syntax.KindTypedParamList)
	defer p.b.FinishNode()

	p.bump() // (
	for !p.atEnd() && !p.at(lexer.RPAREN) {
		if !p.at(lexer.IDENT) && !p.at(lexer.UNDERSCORE) {
			p.errorHere("expected parameter name")
			break
		}
		p.b.StartNode(syntax.KindTypedParam)
		p.bump()
		if p.at(lexer.COLON) {
			p.bump()
			if !p.typeExpr() {
				p.errorHere("expected type")
			}
		}
		p.b.FinishNode()
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	p.expect(lexer.RPAREN, "')'")
}

// typeExpr parses a type expression. Returns false without consuming
// anything when the current token cannot start a type.
func (p *parser) typeExpr() bool {
	switch p.current().Type {
	case lexer.IDENT:
		p.b.StartNode(syntax.KindTypeIdent)
		p.bump()
		p.b.FinishNode()

	case lexer.QUESTION:
		p.b.StartNode(syntax.KindTypeUnknown)
		p.bump()
		p.b.FinishNode()

	case lexer.LBRACKET:
		p.b.StartNode(syntax.KindTypeList)
		p.bump()
		if !p.typeExpr() {
			p.errorHere("expected element type")
		}
		p.expect(lexer.RBRACKET, "']'")
		p.b.FinishNode()

	case lexer.LPAREN:
		p.b.StartNode(syntax.KindTypeTuple)
		p.bump()
		for !p.atEnd() && !p.at(lexer.RPAREN) {
			if !p.typeExpr() {
				p.errorHere("expected type")
				break
			}
			if p.at(lexer.COMMA) {
				p.bump()
			}
		}
		p.expect(lexer.RPAREN, "')'")
		p.b.FinishNode()

	case lexer.HASH_BRACE:
		p.b.StartNode(syntax.KindTypeObject)
		p.bump()
		for !p.atEnd() && !p.at(lexer.RBRACE) {
			if !p.at(lexer.IDENT) && !p.at(lexer.LIT_STR) {
				p.errorHere("expected field name")
				break
			}
			p.b.StartNode(syntax.KindTypeObjectField)
			p.bump()
			if p.expect(lexer.COLON, "':'") {
				if !p.typeExpr() {
					p.errorHere("expected type")
				}
			}
			p.b.FinishNode()
			if p.at(lexer.COMMA) {
				p.bump()
			}
		}
		p.expect(lexer.RBRACE, "'}'")
		p.b.FinishNode()

	default:
		return false
	}
	return true
}
