package parser

import (
	"github.com/rhaikit/rhaikit/pkgs/lexer"
	"github.com/rhaikit/rhaikit/pkgs/syntax"
)

// Parse parses executable Rhai source into a lossless syntax tree.
func Parse(src string) *Result {
	return parse(src, ModeScript)
}

// ParseDef parses a definition file (declarations only, no bodies).
func ParseDef(src string) *Result {
	return parse(src, ModeDef)
}

// ParseWithMode parses with an explicit grammar mode.
func ParseWithMode(src string, mode Mode) *Result {
	return parse(src, mode)
}

func parse(src string, mode Mode) *Result {
	p := &parser{
		src:    src,
		tokens: lexer.Tokenize(src),
		b:      syntax.NewBuilder(),
	}

	if mode == ModeDef {
		p.defFile()
	} else {
		p.file()
	}

	return &Result{
		Tree:   p.b.Finish(src),
		Errors: p.errors,
	}
}

// parser is the internal recursive-descent state. It owns the token
// cursor and drives the tree builder; all recovery happens here.
type parser struct {
	src    string
	tokens []lexer.Token
	pos    int
	b      *syntax.Builder
	errors []ParseError
	depth  int
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF, Offset: len(p.src)}
	}
	return p.tokens[p.pos]
}

func (p *parser) at(typ lexer.TokenType) bool {
	return p.current().Type == typ
}

func (p *parser) atEnd() bool {
	return p.at(lexer.EOF)
}

func (p *parser) peek() lexer.TokenType {
	if p.pos+1 >= len(p.tokens) {
		return lexer.EOF
	}
	return p.tokens[p.pos+1].Type
}

// bump pushes the current token into the tree and advances. The EOF
// token is never bumped; it is pushed once at the end of the root.
func (p *parser) bump() {
	if p.atEnd() {
		return
	}
	p.b.PushToken(p.tokens[p.pos])
	p.pos++
}

// expect bumps a token of the given type or records an error without
// consuming anything.
func (p *parser) expect(typ lexer.TokenType, what string) bool {
	if p.at(typ) {
		p.bump()
		return true
	}
	p.errorHere("expected " + what)
	return false
}

func (p *parser) errorHere(msg string) {
	span := p.current().Span()
	if p.atEnd() {
		span = lexer.Span{Start: len(p.src), End: len(p.src)}
	}
	p.errors = append(p.errors, ParseError{Message: msg, Span: span})
}

// pushEOF appends the EOF token so end-of-file trivia stays in the tree.
func (p *parser) pushEOF() {
	if len(p.tokens) > 0 {
		p.b.PushToken(p.tokens[len(p.tokens)-1])
	}
	p.pos = len(p.tokens)
}

// startsStmt reports whether a token can legally begin a statement;
// these double as panic-mode synchronization points.
func startsStmt(typ lexer.TokenType) bool {
	switch typ {
	case lexer.SEMICOLON,
		lexer.KW_LET, lexer.KW_CONST, lexer.KW_FN, lexer.KW_PRIVATE,
		lexer.KW_IF, lexer.KW_WHILE, lexer.KW_FOR, lexer.KW_LOOP, lexer.KW_DO,
		lexer.KW_SWITCH, lexer.KW_TRY, lexer.KW_RETURN, lexer.KW_THROW,
		lexer.KW_BREAK, lexer.KW_CONTINUE, lexer.KW_IMPORT, lexer.KW_EXPORT:
		return true
	}
	return false
}

// recoverStmt implements panic-mode recovery in statement position:
// the offending token is always consumed, then tokens are skipped
// until a synchronizing token. Skipped tokens live in an ERROR node
// so the tree still covers every byte.
func (p *parser) recoverStmt() {
	p.b.StartNode(syntax.KindError)
	p.bump()
	for !p.atEnd() && !p.at(lexer.RBRACE) && !startsStmt(p.current().Type) {
		p.bump()
	}
	p.b.FinishNode()
}

// file parses an executable script: statements until EOF.
func (p *parser) file() {
	p.b.StartNode(syntax.KindRhai)
	for !p.atEnd() {
		p.stmt(false)
	}
	p.pushEOF()
	p.b.FinishNode()
}

// stmt parses one statement: a lone `;`, or an item followed by an
// optional `;`. Inside template interpolations (inTemplate) a stray
// `}` terminates instead of being an error.
func (p *parser) stmt(inTemplate bool) {
	p.b.StartNode(syntax.KindStmt)
	defer p.b.FinishNode()

	if p.at(lexer.SEMICOLON) {
		p.bump()
		return
	}

	p.b.StartNode(syntax.KindItem)
	ok := p.expr(0)
	p.b.FinishNode()

	if !ok {
		p.errorHere("expected expression")
		if inTemplate && p.at(lexer.RBRACE) {
			return
		}
		p.recoverStmt()
		return
	}

	if p.at(lexer.SEMICOLON) {
		p.bump()
	}
}

// block parses `{ statements }` as an expression-producing block. In
// recovered positions the node may be empty but is always emitted so
// containing constructs keep their shape.
func (p *parser) block() {
	p.b.StartNode(syntax.KindExprBlock)
	defer p.b.FinishNode()

	if !p.expect(lexer.LBRACE, "'{'") {
		return
	}
	for !p.atEnd() && !p.at(lexer.RBRACE) {
		p.stmt(false)
	}
	p.expect(lexer.RBRACE, "'}'")
}

// pat parses a binding pattern: an identifier or a tuple of them.
func (p *parser) pat() {
	p.b.StartNode(syntax.KindPat)
	defer p.b.FinishNode()

	if p.at(lexer.LPAREN) {
		p.b.StartNode(syntax.KindPatTuple)
		p.bump()
		for !p.atEnd() && !p.at(lexer.RPAREN) {
			if !p.at(lexer.IDENT) && !p.at(lexer.UNDERSCORE) {
				p.errorHere("expected identifier")
				break
			}
			p.bump()
			if p.at(lexer.COMMA) {
				p.bump()
			}
		}
		p.expect(lexer.RPAREN, "')'")
		p.b.FinishNode()
		return
	}

	if p.at(lexer.UNDERSCORE) {
		p.bump()
		return
	}
	p.expect(lexer.IDENT, "identifier")
}

// paramList parses a delimited identifier parameter list for
// functions (parentheses) and closures/catch clauses (pipes or
// parentheses).
func (p *parser) paramList(open, close lexer.TokenType) {
	p.b.StartNode(syntax.KindParamList)
	defer p.b.FinishNode()

	if !p.expect(open, "'"+tokenGlyph(open)+"'") {
		return
	}
	for !p.atEnd() && !p.at(close) {
		if !p.at(lexer.IDENT) {
			p.errorHere("expected parameter name")
			break
		}
		p.b.StartNode(syntax.KindParam)
		p.bump()
		p.b.FinishNode()
		if p.at(lexer.COMMA) {
			p.bump()
		}
	}
	p.expect(close, "'"+tokenGlyph(close)+"'")
}

func tokenGlyph(typ lexer.TokenType) string {
	switch typ {
	case lexer.LPAREN:
		return "("
	case lexer.RPAREN:
		return ")"
	case lexer.PIPE:
		return "|"
	case lexer.LBRACE:
		return "{"
	case lexer.RBRACE:
		return "}"
	}
	return typ.String()
}
