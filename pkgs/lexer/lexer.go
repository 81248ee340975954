package lexer

import "unicode/utf8"

// Character classification lookup tables for fast byte-level scanning
var (
	isSpace      [256]bool
	isDigit      [256]bool
	isHexDigit   [256]bool
	isOctDigit   [256]bool
	isIdentStart [256]bool
	isIdentPart  [256]bool
)

func init() {
	for i := 0; i < 256; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
		isDigit[i] = '0' <= ch && ch <= '9'
		isHexDigit[i] = isDigit[i] || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
		isOctDigit[i] = '0' <= ch && ch <= '7'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch >= 0x80
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

// lexerMode tracks the current lexing context. Template strings and
// their interpolation blocks nest arbitrarily, so modes form a stack.
type lexerMode int

const (
	modeNormal lexerMode = iota
	modeTemplate
	modeInterp
)

type modeFrame struct {
	mode   lexerMode
	braces int // open brace depth inside an interpolation block
}

// Lexer tokenizes Rhai source. It is total: any byte sequence produces
// a token stream whose concatenated text equals the input.
type Lexer struct {
	input string
	pos   int
	modes []modeFrame
}

// New creates a lexer for the given source text.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		modes: []modeFrame{{mode: modeNormal}},
	}
}

// Tokenize lexes the entire input. The final token is always EOF; any
// trivia after the last real token attaches to it.
func Tokenize(input string) []Token {
	l := New(input)
	estimated := len(input) / 4
	if estimated < 16 {
		estimated = 16
	}
	tokens := make([]Token, 0, estimated)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	attachTrailing(tokens)
	return tokens
}

func (l *Lexer) top() *modeFrame {
	return &l.modes[len(l.modes)-1]
}

func (l *Lexer) push(m lexerMode) {
	l.modes = append(l.modes, modeFrame{mode: m})
}

func (l *Lexer) pop() {
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

func (l *Lexer) at(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// Next returns the next token with its leading trivia. Trailing trivia
// is assigned later by attachTrailing.
func (l *Lexer) Next() Token {
	if l.top().mode == modeTemplate {
		return l.nextTemplate()
	}

	leading := l.scanTrivia()

	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Offset: start, Leading: leading}
	}

	tok := l.scanToken()
	tok.Leading = leading
	return tok
}

// nextTemplate lexes inside a backtick template string; whitespace is
// string content there, never trivia.
func (l *Lexer) nextTemplate() Token {
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Offset: start}
	}

	switch {
	case l.at(0) == '`':
		l.pos++
		l.pop()
		return Token{Type: BACKTICK, Text: "`", Offset: start}
	case l.at(0) == '$' && l.at(1) == '{':
		l.pos += 2
		l.push(modeInterp)
		return Token{Type: DOLLAR_BRACE, Text: "${", Offset: start}
	}

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '`' || (ch == '$' && l.at(1) == '{') {
			break
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
	}
	return Token{Type: TEMPLATE_TEXT, Text: l.input[start:l.pos], Offset: start}
}

// scanTrivia consumes whitespace and comments. Whitespace runs are
// split after each newline so trailing-trivia attachment can reason
// about line boundaries per piece.
func (l *Lexer) scanTrivia() []Trivia {
	var trivia []Trivia
	for l.pos < len(l.input) {
		start := l.pos
		ch := l.input[l.pos]

		switch {
		case isSpace[ch]:
			for l.pos < len(l.input) && isSpace[l.input[l.pos]] {
				nl := l.input[l.pos] == '\n'
				l.pos++
				if nl {
					break
				}
			}
			trivia = append(trivia, Trivia{Type: WHITESPACE, Text: l.input[start:l.pos], Offset: start})

		case ch == '/' && l.at(1) == '/':
			typ := COMMENT_LINE
			// "///" is a doc comment, "////" and beyond is not
			if l.at(2) == '/' && l.at(3) != '/' {
				typ = COMMENT_LINE_DOC
			}
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			trivia = append(trivia, Trivia{Type: typ, Text: l.input[start:l.pos], Offset: start})

		case ch == '/' && l.at(1) == '*':
			typ := COMMENT_BLOCK
			// "/**/" is an empty plain comment, "/**" opens a doc block
			if l.at(2) == '*' && l.at(3) != '/' {
				typ = COMMENT_BLOCK_DOC
			}
			l.pos += 2
			depth := 1
			for l.pos < len(l.input) && depth > 0 {
				if l.input[l.pos] == '/' && l.at(1) == '*' {
					depth++
					l.pos += 2
				} else if l.input[l.pos] == '*' && l.at(1) == '/' {
					depth--
					l.pos += 2
				} else {
					l.pos++
				}
			}
			// an unterminated comment runs to EOF and stays trivia
			trivia = append(trivia, Trivia{Type: typ, Text: l.input[start:l.pos], Offset: start})

		case ch == '#' && l.at(1) == '!' && l.pos == 0:
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			trivia = append(trivia, Trivia{Type: SHEBANG, Text: l.input[start:l.pos], Offset: start})

		default:
			return trivia
		}
	}
	return trivia
}

func (l *Lexer) scanToken() Token {
	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isIdentStart[ch]:
		return l.scanIdent()
	case isDigit[ch]:
		return l.scanNumber()
	}

	// one- and two-byte punctuation/operators, longest match first
	mk := func(typ TokenType, n int) Token {
		l.pos += n
		return Token{Type: typ, Text: l.input[start : start+n], Offset: start}
	}

	switch ch {
	case '(':
		return mk(LPAREN, 1)
	case ')':
		return mk(RPAREN, 1)
	case '[':
		return mk(LBRACKET, 1)
	case ']':
		return mk(RBRACKET, 1)
	case '{':
		if l.top().mode == modeInterp {
			l.top().braces++
		}
		return mk(LBRACE, 1)
	case '}':
		if l.top().mode == modeInterp {
			if l.top().braces == 0 {
				l.pop() // back into the template string
			} else {
				l.top().braces--
			}
		}
		return mk(RBRACE, 1)
	case ',':
		return mk(COMMA, 1)
	case ';':
		return mk(SEMICOLON, 1)
	case ':':
		if l.at(1) == ':' {
			return mk(COLON2, 2)
		}
		return mk(COLON, 1)
	case '.':
		if l.at(1) == '.' {
			if l.at(2) == '=' {
				return mk(RANGE_INCLUSIVE, 3)
			}
			return mk(RANGE, 2)
		}
		return mk(DOT, 1)
	case '?':
		if l.at(1) == '.' {
			return mk(ELVIS, 2)
		}
		if l.at(1) == '?' {
			return mk(COALESCE, 2)
		}
		return mk(QUESTION, 1)
	case '+':
		if l.at(1) == '=' {
			return mk(PLUS_ASSIGN, 2)
		}
		return mk(PLUS, 1)
	case '-':
		if l.at(1) == '=' {
			return mk(MINUS_ASSIGN, 2)
		}
		if l.at(1) == '>' {
			return mk(ARROW, 2)
		}
		return mk(MINUS, 1)
	case '*':
		if l.at(1) == '*' {
			if l.at(2) == '=' {
				return mk(POW_ASSIGN, 3)
			}
			return mk(POW, 2)
		}
		if l.at(1) == '=' {
			return mk(STAR_ASSIGN, 2)
		}
		return mk(STAR, 1)
	case '/':
		if l.at(1) == '=' {
			return mk(SLASH_ASSIGN, 2)
		}
		return mk(SLASH, 1)
	case '%':
		if l.at(1) == '=' {
			return mk(PERCENT_ASSIGN, 2)
		}
		return mk(PERCENT, 1)
	case '=':
		if l.at(1) == '=' {
			return mk(EQ, 2)
		}
		if l.at(1) == '>' {
			return mk(FAT_ARROW, 2)
		}
		return mk(ASSIGN, 1)
	case '!':
		if l.at(1) == '=' {
			return mk(NEQ, 2)
		}
		return mk(BANG, 1)
	case '<':
		if l.at(1) == '<' {
			if l.at(2) == '=' {
				return mk(SHL_ASSIGN, 3)
			}
			return mk(SHL, 2)
		}
		if l.at(1) == '=' {
			return mk(LTE, 2)
		}
		return mk(LT, 1)
	case '>':
		if l.at(1) == '>' {
			if l.at(2) == '=' {
				return mk(SHR_ASSIGN, 3)
			}
			return mk(SHR, 2)
		}
		if l.at(1) == '=' {
			return mk(GTE, 2)
		}
		return mk(GT, 1)
	case '&':
		if l.at(1) == '&' {
			return mk(AND, 2)
		}
		if l.at(1) == '=' {
			return mk(AMP_ASSIGN, 2)
		}
		return mk(AMP, 1)
	case '|':
		if l.at(1) == '|' {
			return mk(OR, 2)
		}
		if l.at(1) == '=' {
			return mk(PIPE_ASSIGN, 2)
		}
		return mk(PIPE, 1)
	case '^':
		if l.at(1) == '=' {
			return mk(CARET_ASSIGN, 2)
		}
		return mk(CARET, 1)
	case '#':
		if l.at(1) == '{' {
			// the { half counts toward interpolation brace depth
			if l.top().mode == modeInterp {
				l.top().braces++
			}
			return mk(HASH_BRACE, 2)
		}
		return mk(ERROR, 1)
	case '"':
		return l.scanString()
	case '\'':
		return l.scanChar()
	case '`':
		l.push(modeTemplate)
		return mk(BACKTICK, 1)
	}

	return mk(ERROR, 1)
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart[l.input[l.pos]] {
		l.pos++
	}
	text := l.input[start:l.pos]

	typ := IDENT
	if text == "_" {
		typ = UNDERSCORE
	} else if kw, ok := keywords[text]; ok {
		typ = kw
	}
	return Token{Type: typ, Text: text, Offset: start}
}

// scanNumber classifies integers by prefix and floats by fraction or
// exponent. Overflow checking is deferred to evaluation.
func (l *Lexer) scanNumber() Token {
	start := l.pos

	if l.input[l.pos] == '0' {
		switch l.at(1) {
		case 'x', 'X':
			l.pos += 2
			for l.pos < len(l.input) && (isHexDigit[l.input[l.pos]] || l.input[l.pos] == '_') {
				l.pos++
			}
			return Token{Type: LIT_INT, Text: l.input[start:l.pos], Offset: start}
		case 'o', 'O':
			l.pos += 2
			for l.pos < len(l.input) && (isOctDigit[l.input[l.pos]] || l.input[l.pos] == '_') {
				l.pos++
			}
			return Token{Type: LIT_INT, Text: l.input[start:l.pos], Offset: start}
		case 'b', 'B':
			l.pos += 2
			for l.pos < len(l.input) && (l.input[l.pos] == '0' || l.input[l.pos] == '1' || l.input[l.pos] == '_') {
				l.pos++
			}
			return Token{Type: LIT_INT, Text: l.input[start:l.pos], Offset: start}
		}
	}

	typ := LIT_INT
	for l.pos < len(l.input) && (isDigit[l.input[l.pos]] || l.input[l.pos] == '_') {
		l.pos++
	}

	// a fraction only if '.' is followed by a digit, so `1..2` stays a range
	if l.at(0) == '.' && isDigit[l.at(1)] {
		typ = LIT_FLOAT
		l.pos++
		for l.pos < len(l.input) && (isDigit[l.input[l.pos]] || l.input[l.pos] == '_') {
			l.pos++
		}
	}

	if l.at(0) == 'e' || l.at(0) == 'E' {
		next := l.at(1)
		if isDigit[next] || ((next == '+' || next == '-') && isDigit[l.at(2)]) {
			typ = LIT_FLOAT
			l.pos++
			if l.at(0) == '+' || l.at(0) == '-' {
				l.pos++
			}
			for l.pos < len(l.input) && (isDigit[l.input[l.pos]] || l.input[l.pos] == '_') {
				l.pos++
			}
		}
	}

	return Token{Type: typ, Text: l.input[start:l.pos], Offset: start}
}

// scanString lexes a double-quoted string. A backslash escapes the next
// character, including a line break for multi-line continuation; an
// unescaped line break or EOF leaves the literal unterminated and
// produces an ERROR token instead.
func (l *Lexer) scanString() Token {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return Token{Type: LIT_STR, Text: l.input[start:l.pos], Offset: start}
		case '\\':
			l.pos++
			if l.pos < len(l.input) {
				l.pos++
			}
		case '\n':
			return Token{Type: ERROR, Text: l.input[start:l.pos], Offset: start}
		default:
			l.pos++
		}
	}
	return Token{Type: ERROR, Text: l.input[start:l.pos], Offset: start}
}

func (l *Lexer) scanChar() Token {
	start := l.pos
	l.pos++ // opening quote
	runes := 0
	escaped := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '\'':
			l.pos++
			// a char literal holds exactly one logical character;
			// '' and 'ab' are malformed. Escape sequences span
			// several runes, so they are exempt from the count.
			typ := LIT_CHAR
			if !escaped && runes != 1 {
				typ = ERROR
			}
			return Token{Type: typ, Text: l.input[start:l.pos], Offset: start}
		case '\\':
			escaped = true
			l.pos++
			if l.pos < len(l.input) {
				l.pos++
			}
		case '\n':
			return Token{Type: ERROR, Text: l.input[start:l.pos], Offset: start}
		default:
			_, size := utf8.DecodeRuneInString(l.input[l.pos:])
			l.pos += size
			runes++
		}
	}
	return Token{Type: ERROR, Text: l.input[start:l.pos], Offset: start}
}

// attachTrailing moves each token's same-line leading trivia onto the
// previous token as trailing trivia, up to and including the first
// line break.
func attachTrailing(tokens []Token) {
	for i := 1; i < len(tokens); i++ {
		leading := tokens[i].Leading
		if len(leading) == 0 {
			continue
		}
		split := len(leading)
		for j, piece := range leading {
			if piece.EndsLine() {
				split = j + 1
				break
			}
		}
		tokens[i-1].Trailing = leading[:split:split]
		tokens[i].Leading = leading[split:]
	}
}
