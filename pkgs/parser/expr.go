package parser

import (
	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// Binding powers follow the Rhai operator table. Left-associative
// operators recurse with lbp+1, right-associative ones (power,
// assignment) with a right power at or below their own.
func binaryPower(typ lexer.TokenType) (lbp, rbp int, ok bool) {
	switch typ {
	case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN, lexer.POW_ASSIGN,
		lexer.SHL_ASSIGN, lexer.SHR_ASSIGN, lexer.AMP_ASSIGN,
		lexer.PIPE_ASSIGN, lexer.CARET_ASSIGN:
		return 2, 1, true
	case lexer.RANGE, lexer.RANGE_INCLUSIVE:
		return 10, 11, true
	case lexer.OR, lexer.PIPE, lexer.CARET:
		return 30, 31, true
	case lexer.AND, lexer.AMP:
		return 60, 61, true
	case lexer.EQ, lexer.NEQ:
		return 90, 91, true
	case lexer.KW_IN:
		return 110, 111, true
	case lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
		return 130, 131, true
	case lexer.COALESCE:
		return 135, 136, true
	case lexer.PLUS, lexer.MINUS:
		return 150, 151, true
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return 180, 181, true
	case lexer.POW:
		return 190, 190, true
	case lexer.SHL, lexer.SHR:
		return 210, 211, true
	case lexer.DOT, lexer.ELVIS:
		return 240, 241, true
	}
	return 0, 0, false
}

// unaryPower binds prefix operators tighter than arithmetic but
// looser than `**`, so -2 ** 3 parses as -(2 ** 3).
const unaryPower = 185

// canStartExpr reports whether a token can begin an expression; used
// for the optional values of return/break/throw.
func canStartExpr(typ lexer.TokenType) bool {
	switch typ {
	case lexer.IDENT, lexer.KW_THIS,
		lexer.LIT_INT, lexer.LIT_FLOAT, lexer.LIT_STR, lexer.LIT_CHAR,
		lexer.KW_TRUE, lexer.KW_FALSE, lexer.BACKTICK,
		lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE, lexer.HASH_BRACE,
		lexer.PIPE, lexer.OR,
		lexer.MINUS, lexer.PLUS, lexer.BANG,
		lexer.KW_LET, lexer.KW_CONST, lexer.KW_FN, lexer.KW_PRIVATE,
		lexer.KW_IF, lexer.KW_WHILE, lexer.KW_FOR, lexer.KW_LOOP, lexer.KW_DO,
		lexer.KW_SWITCH, lexer.KW_TRY, lexer.KW_THROW, lexer.KW_RETURN,
		lexer.KW_BREAK, lexer.KW_CONTINUE, lexer.KW_IMPORT, lexer.KW_EXPORT:
		return true
	}
	return false
}

// expr parses one expression with operator-precedence climbing.
// Postfix call/index and binary operators wrap the already-emitted
// left operand via checkpointing, so chains nest left-to-right.
// Returns false if no expression could be started; in that case
// nothing was consumed.
func (p *parser) expr(minBP int) bool {
	if p.depth >= maxParseDepth {
		p.errorHere("expression nesting too deep")
		p.b.StartNode(syntax.KindError)
		p.bump()
		p.b.FinishNode()
		return true
	}
	p.depth++
	defer func() { p.depth-- }()

	cp := p.b.Checkpoint()
	ok, blockLike := p.primary()
	if !ok {
		return false
	}

	for {
		typ := p.current().Type

		// block-like expressions (if/while/for/loop/do/switch/try,
		// blocks, fn) are complete statements without `;`, so a
		// following `(` or `[` starts a new statement rather than a
		// call or index on the block's value
		if !blockLike {
			switch typ {
			case lexer.LPAREN:
				p.b.StartNodeAt(cp, syntax.KindExprCall)
				p.argList()
				p.b.FinishNode()
				continue
			case lexer.LBRACKET:
				p.b.StartNodeAt(cp, syntax.KindExprIndex)
				p.bump()
				if !p.expr(0) {
					p.errorHere("expected expression")
				}
				p.expect(lexer.RBRACKET, "']'")
				p.b.FinishNode()
				continue
			}
		}

		lbp, rbp, ok := binaryPower(typ)
		if !ok || lbp < minBP {
			break
		}

		p.b.StartNodeAt(cp, syntax.KindExprBinary)
		p.bump()
		if !p.expr(rbp) {
			p.errorHere("expected expression")
		}
		p.b.FinishNode()
	}
	return true
}

func (p *parser) argList() {
	p.b.StartNode(syntax.KindArgList)
	defer p.b.FinishNode()

	p.bump() // (
	for !p.atEnd() && !p.at(lexer.RPAREN) {
		if !p.expr(0) {
			p.errorHere("expected expression")
			break
		}
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	p.expect(lexer.RPAREN, "')'")
}

// blockLikeStart reports tokens that begin expressions forming a
// complete statement without a trailing `;`.
func blockLikeStart(typ lexer.TokenType) bool {
	switch typ {
	case lexer.LBRACE, lexer.KW_IF, lexer.KW_WHILE, lexer.KW_LOOP,
		lexer.KW_FOR, lexer.KW_DO, lexer.KW_SWITCH, lexer.KW_TRY,
		lexer.KW_FN, lexer.KW_PRIVATE:
		return true
	}
	return false
}

// primary parses a single prefix/atom expression. Every branch
// consumes at least one token. blockLike reports whether the parsed
// form is statement-terminating on its own.
func (p *parser) primary() (ok, blockLike bool) {
	start := p.current().Type
	switch start {
	case lexer.LIT_INT, lexer.LIT_FLOAT, lexer.LIT_STR, lexer.LIT_CHAR,
		lexer.KW_TRUE, lexer.KW_FALSE:
		p.b.StartNode(syntax.KindExprLit)
		p.b.StartNode(syntax.KindLit)
		p.bump()
		p.b.FinishNode()
		p.b.FinishNode()

	case lexer.BACKTICK:
		p.b.StartNode(syntax.KindExprLit)
		p.b.StartNode(syntax.KindLit)
		p.template()
		p.b.FinishNode()
		p.b.FinishNode()

	case lexer.IDENT:
		if p.peek() == lexer.COLON2 {
			p.b.StartNode(syntax.KindExprPath)
			p.b.StartNode(syntax.KindPath)
			p.bump()
			for p.at(lexer.COLON2) {
				p.bump()
				if !p.expect(lexer.IDENT, "path segment") {
					break
				}
			}
			p.b.FinishNode()
			p.b.FinishNode()
			break
		}
		p.b.StartNode(syntax.KindExprIdent)
		p.bump()
		p.b.FinishNode()

	case lexer.KW_THIS:
		p.b.StartNode(syntax.KindExprIdent)
		p.bump()
		p.b.FinishNode()

	case lexer.MINUS, lexer.PLUS, lexer.BANG:
		p.b.StartNode(syntax.KindExprUnary)
		p.bump()
		if !p.expr(unaryPower) {
			p.errorHere("expected expression")
		}
		p.b.FinishNode()

	case lexer.LPAREN:
		p.b.StartNode(syntax.KindExprParen)
		p.bump()
		if p.at(lexer.RPAREN) {
			p.bump() // unit ()
		} else {
			if !p.expr(0) {
				p.errorHere("expected expression")
			}
			p.expect(lexer.RPAREN, "')'")
		}
		p.b.FinishNode()

	case lexer.LBRACKET:
		p.b.StartNode(syntax.KindExprArray)
		p.bump()
		for !p.atEnd() && !p.at(lexer.RBRACKET) {
			if !p.expr(0) {
				p.errorHere("expected expression")
				break
			}
			if p.at(lexer.COMMA) {
				p.bump()
			}
		}
		p.expect(lexer.RBRACKET, "']'")
		p.b.FinishNode()

	case lexer.HASH_BRACE:
		p.object()

	case lexer.LBRACE:
		p.block()

	case lexer.PIPE:
		p.b.StartNode(syntax.KindExprClosure)
		p.paramList(lexer.PIPE, lexer.PIPE)
		if !p.expr(0) {
			p.errorHere("expected closure body")
		}
		p.b.FinishNode()

	case lexer.OR:
		// `||` in expression-start position is an empty closure
		// parameter list, not the logical operator
		p.b.StartNode(syntax.KindExprClosure)
		p.b.StartNode(syntax.KindParamList)
		p.bump()
		p.b.FinishNode()
		if !p.expr(0) {
			p.errorHere("expected closure body")
		}
		p.b.FinishNode()

	case lexer.KW_LET:
		p.b.StartNode(syntax.KindExprLet)
		p.bump()
		p.expect(lexer.IDENT, "variable name")
		if p.at(lexer.ASSIGN) {
			p.bump()
			if !p.expr(0) {
				p.errorHere("expected expression")
			}
		}
		p.b.FinishNode()

	case lexer.KW_CONST:
		p.b.StartNode(syntax.KindExprConst)
		p.bump()
		p.expect(lexer.IDENT, "constant name")
		if p.at(lexer.ASSIGN) {
			p.bump()
			if !p.expr(0) {
				p.errorHere("expected expression")
			}
		}
		p.b.FinishNode()

	case lexer.KW_IF:
		p.ifExpr()

	case lexer.KW_WHILE:
		p.b.StartNode(syntax.KindExprWhile)
		p.bump()
		if !p.expr(0) {
			p.errorHere("expected condition")
		}
		p.block()
		p.b.FinishNode()

	case lexer.KW_LOOP:
		p.b.StartNode(syntax.KindExprLoop)
		p.bump()
		p.block()
		p.b.FinishNode()

	case lexer.KW_FOR:
		p.b.StartNode(syntax.KindExprFor)
		p.bump()
		p.pat()
		p.expect(lexer.KW_IN, "'in'")
		if !p.expr(0) {
			p.errorHere("expected expression")
		}
		p.block()
		p.b.FinishNode()

	case lexer.KW_DO:
		p.b.StartNode(syntax.KindExprDo)
		p.bump()
		p.block()
		if p.at(lexer.KW_WHILE) || p.at(lexer.KW_UNTIL) {
			p.bump()
			if !p.expr(0) {
				p.errorHere("expected condition")
			}
		} else {
			p.errorHere("expected 'while' or 'until'")
		}
		p.b.FinishNode()

	case lexer.KW_SWITCH:
		p.switchExpr()

	case lexer.KW_TRY:
		p.b.StartNode(syntax.KindExprTry)
		p.bump()
		p.block()
		if p.expect(lexer.KW_CATCH, "'catch'") {
			if p.at(lexer.LPAREN) {
				p.paramList(lexer.LPAREN, lexer.RPAREN)
			}
			p.block()
		}
		p.b.FinishNode()

	case lexer.KW_THROW:
		p.b.StartNode(syntax.KindExprThrow)
		p.bump()
		if canStartExpr(p.current().Type) {
			p.expr(0)
		}
		p.b.FinishNode()

	case lexer.KW_RETURN:
		p.b.StartNode(syntax.KindExprReturn)
		p.bump()
		if canStartExpr(p.current().Type) {
			p.expr(0)
		}
		p.b.FinishNode()

	case lexer.KW_BREAK:
		p.b.StartNode(syntax.KindExprBreak)
		p.bump()
		if canStartExpr(p.current().Type) {
			p.expr(0)
		}
		p.b.FinishNode()

	case lexer.KW_CONTINUE:
		p.b.StartNode(syntax.KindExprContinue)
		p.bump()
		p.b.FinishNode()

	case lexer.KW_FN, lexer.KW_PRIVATE:
		p.b.StartNode(syntax.KindExprFn)
		if p.at(lexer.KW_PRIVATE) {
			p.bump()
		}
		p.expect(lexer.KW_FN, "'fn'")
		p.expect(lexer.IDENT, "function name")
		if p.at(lexer.LPAREN) {
			p.paramList(lexer.LPAREN, lexer.RPAREN)
		} else {
			p.errorHere("expected parameter list")
		}
		p.block()
		p.b.FinishNode()

	case lexer.KW_IMPORT:
		p.b.StartNode(syntax.KindExprImport)
		p.bump()
		if !p.expr(0) {
			p.errorHere("expected import source")
		}
		if p.at(lexer.KW_AS) {
			p.bump()
			p.expect(lexer.IDENT, "import alias")
		}
		p.b.FinishNode()

	case lexer.KW_EXPORT:
		p.b.StartNode(syntax.KindExprExport)
		p.bump()
		if p.at(lexer.KW_LET) || p.at(lexer.KW_CONST) {
			p.expr(0)
		} else {
			p.b.StartNode(syntax.KindExportIdent)
			p.expect(lexer.IDENT, "identifier")
			if p.at(lexer.KW_AS) {
				p.bump()
				p.expect(lexer.IDENT, "export alias")
			}
			p.b.FinishNode()
		}
		p.b.FinishNode()

	case lexer.ERROR:
		p.errorHere("unexpected token")
		p.b.StartNode(syntax.KindError)
		p.bump()
		p.b.FinishNode()

	default:
		return false, false
	}
	return true, blockLikeStart(start)
}

// ifExpr parses `if cond block (else (if … | block))?`. An else-if
// chain becomes a nested ExprIf child, mirroring the flat sibling
// layout the typed view navigates.
func (p *parser) ifExpr() {
	p.b.StartNode(syntax.KindExprIf)
	p.bump() // if
	if !p.expr(0) {
		p.errorHere("expected condition")
	}
	p.block()
	if p.at(lexer.KW_ELSE) {
		p.bump()
		if p.at(lexer.KW_IF) {
			p.ifExpr()
		} else {
			p.block()
		}
	}
	p.b.FinishNode()
}

func (p *parser) switchExpr() {
	p.b.StartNode(syntax.KindExprSwitch)
	p.bump() // switch
	if !p.expr(0) {
		p.errorHere("expected expression")
	}

	p.b.StartNode(syntax.KindSwitchArmList)
	if p.expect(lexer.LBRACE, "'{'") {
		for !p.atEnd() && !p.at(lexer.RBRACE) {
			p.switchArm()
		}
		p.expect(lexer.RBRACE, "'}'")
	}
	p.b.FinishNode()
	p.b.FinishNode()
}

func (p *parser) switchArm() {
	p.b.StartNode(syntax.KindSwitchArm)
	defer p.b.FinishNode()

	if p.at(lexer.UNDERSCORE) {
		p.bump()
	} else if !p.expr(0) {
		p.errorHere("expected switch pattern")
		p.b.StartNode(syntax.KindError)
		p.bump()
		p.b.FinishNode()
		return
	}

	if p.at(lexer.KW_IF) {
		p.b.StartNode(syntax.KindSwitchArmCondition)
		p.bump()
		if !p.expr(0) {
			p.errorHere("expected guard condition")
		}
		p.b.FinishNode()
	}

	if !p.expect(lexer.FAT_ARROW, "'=>'") {
		return
	}
	if !p.expr(0) {
		p.errorHere("expected expression")
	}
	if p.at(lexer.COMMA) {
		p.bump()
	}
}

func (p *parser) object() {
	p.b.StartNode(syntax.KindExprObject)
	p.bump() // #{
	for !p.atEnd() && !p.at(lexer.RBRACE) {
		p.b.StartNode(syntax.KindObjectField)
		if p.at(lexer.IDENT) || p.at(lexer.LIT_STR) {
			p.bump()
			p.expect(lexer.COLON, "':'")
			if !p.expr(0) {
				p.errorHere("expected expression")
			}
			p.b.FinishNode()
		} else {
			p.errorHere("expected property name")
			p.b.FinishNode()
			break
		}
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	p.b.FinishNode()
}

// template parses a backtick string; each `${ }` segment recursively
// uses the full statement parser.
func (p *parser) template() {
	p.b.StartNode(syntax.KindLitStrTemplate)
	defer p.b.FinishNode()

	p.bump() // opening backtick
	for {
		switch p.current().Type {
		case lexer.TEMPLATE_TEXT:
			p.bump()
		case lexer.DOLLAR_BRACE:
			p.b.StartNode(syntax.KindLitStrTemplateInterpolation)
			p.bump()
			for !p.atEnd() && !p.at(lexer.RBRACE) {
				p.stmt(true)
			}
			p.expect(lexer.RBRACE, "'}'")
			p.b.FinishNode()
		case lexer.BACKTICK:
			p.bump()
			return
		default:
			p.errorHere("unterminated string template")
			return
		}
	}
}
