package lexer

import "fmt"

// TokenType represents the type of a token in Rhai source.
//
// The lexer is mode-based: normal tokens are produced at the top level
// and inside `${ }` interpolation blocks, while TEMPLATE_TEXT chunks are
// produced inside backtick template strings.
type TokenType int

const (
	// Special tokens
	EOF   TokenType = iota
	ERROR           // unrecognized byte or unterminated literal

	// Identifiers and literals
	IDENT
	LIT_INT
	LIT_FLOAT
	LIT_STR
	LIT_CHAR

	// Template strings
	BACKTICK      // ` - template string delimiter
	TEMPLATE_TEXT // raw text chunk inside a template string
	DOLLAR_BRACE  // ${ - interpolation start (closed by RBRACE)

	// Punctuation
	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	LBRACE     // {
	RBRACE     // }
	HASH_BRACE // #{ - object map literal start
	COMMA      // ,
	SEMICOLON  // ;
	COLON      // :
	COLON2     // ::
	DOT        // .
	ELVIS      // ?.
	COALESCE   // ??
	QUESTION   // ? - unknown type in definition files
	ARROW      // ->
	FAT_ARROW  // =>
	UNDERSCORE // _

	// Operators
	PLUS            // +
	MINUS           // -
	STAR            // *
	SLASH           // /
	PERCENT         // %
	POW             // **
	SHL             // <<
	SHR             // >>
	AMP             // &
	PIPE            // | - also closure parameter delimiter
	CARET           // ^
	AND             // &&
	OR              // ||
	EQ              // ==
	NEQ             // !=
	LT              // <
	LTE             // <=
	GT              // >
	GTE             // >=
	BANG            // !
	RANGE           // ..
	RANGE_INCLUSIVE // ..=

	// Assignment operators
	ASSIGN         // =
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	POW_ASSIGN     // **=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	AMP_ASSIGN     // &=
	PIPE_ASSIGN    // |=
	CARET_ASSIGN   // ^=

	// Keywords
	KW_LET
	KW_CONST
	KW_FN
	KW_IF
	KW_ELSE
	KW_SWITCH
	KW_WHILE
	KW_LOOP
	KW_FOR
	KW_IN
	KW_DO
	KW_UNTIL
	KW_BREAK
	KW_CONTINUE
	KW_RETURN
	KW_THROW
	KW_TRY
	KW_CATCH
	KW_IMPORT
	KW_EXPORT
	KW_AS
	KW_PRIVATE
	KW_TRUE
	KW_FALSE
	KW_THIS
	KW_MODULE
	KW_STATIC
	KW_OP
	KW_TYPE
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:             "EOF",
	ERROR:           "ERROR",
	IDENT:           "IDENT",
	LIT_INT:         "LIT_INT",
	LIT_FLOAT:       "LIT_FLOAT",
	LIT_STR:         "LIT_STR",
	LIT_CHAR:        "LIT_CHAR",
	BACKTICK:        "BACKTICK",
	TEMPLATE_TEXT:   "TEMPLATE_TEXT",
	DOLLAR_BRACE:    "DOLLAR_BRACE",
	LPAREN:          "LPAREN",
	RPAREN:          "RPAREN",
	LBRACKET:        "LBRACKET",
	RBRACKET:        "RBRACKET",
	LBRACE:          "LBRACE",
	RBRACE:          "RBRACE",
	HASH_BRACE:      "HASH_BRACE",
	COMMA:           "COMMA",
	SEMICOLON:       "SEMICOLON",
	COLON:           "COLON",
	COLON2:          "COLON2",
	DOT:             "DOT",
	ELVIS:           "ELVIS",
	COALESCE:        "COALESCE",
	QUESTION:        "QUESTION",
	ARROW:           "ARROW",
	FAT_ARROW:       "FAT_ARROW",
	UNDERSCORE:      "UNDERSCORE",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	STAR:            "STAR",
	SLASH:           "SLASH",
	PERCENT:         "PERCENT",
	POW:             "POW",
	SHL:             "SHL",
	SHR:             "SHR",
	AMP:             "AMP",
	PIPE:            "PIPE",
	CARET:           "CARET",
	AND:             "AND",
	OR:              "OR",
	EQ:              "EQ",
	NEQ:             "NEQ",
	LT:              "LT",
	LTE:             "LTE",
	GT:              "GT",
	GTE:             "GTE",
	BANG:            "BANG",
	RANGE:           "RANGE",
	RANGE_INCLUSIVE: "RANGE_INCLUSIVE",
	ASSIGN:          "ASSIGN",
	PLUS_ASSIGN:     "PLUS_ASSIGN",
	MINUS_ASSIGN:    "MINUS_ASSIGN",
	STAR_ASSIGN:     "STAR_ASSIGN",
	SLASH_ASSIGN:    "SLASH_ASSIGN",
	PERCENT_ASSIGN:  "PERCENT_ASSIGN",
	POW_ASSIGN:      "POW_ASSIGN",
	SHL_ASSIGN:      "SHL_ASSIGN",
	SHR_ASSIGN:      "SHR_ASSIGN",
	AMP_ASSIGN:      "AMP_ASSIGN",
	PIPE_ASSIGN:     "PIPE_ASSIGN",
	CARET_ASSIGN:    "CARET_ASSIGN",
	KW_LET:          "KW_LET",
	KW_CONST:        "KW_CONST",
	KW_FN:           "KW_FN",
	KW_IF:           "KW_IF",
	KW_ELSE:         "KW_ELSE",
	KW_SWITCH:       "KW_SWITCH",
	KW_WHILE:        "KW_WHILE",
	KW_LOOP:         "KW_LOOP",
	KW_FOR:          "KW_FOR",
	KW_IN:           "KW_IN",
	KW_DO:           "KW_DO",
	KW_UNTIL:        "KW_UNTIL",
	KW_BREAK:        "KW_BREAK",
	KW_CONTINUE:     "KW_CONTINUE",
	KW_RETURN:       "KW_RETURN",
	KW_THROW:        "KW_THROW",
	KW_TRY:          "KW_TRY",
	KW_CATCH:        "KW_CATCH",
	KW_IMPORT:       "KW_IMPORT",
	KW_EXPORT:       "KW_EXPORT",
	KW_AS:           "KW_AS",
	KW_PRIVATE:      "KW_PRIVATE",
	KW_TRUE:         "KW_TRUE",
	KW_FALSE:        "KW_FALSE",
	KW_THIS:         "KW_THIS",
	KW_MODULE:       "KW_MODULE",
	KW_STATIC:       "KW_STATIC",
	KW_OP:           "KW_OP",
	KW_TYPE:         "KW_TYPE",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps identifier text to keyword token types
var keywords = map[string]TokenType{
	"let":      KW_LET,
	"const":    KW_CONST,
	"fn":       KW_FN,
	"if":       KW_IF,
	"else":     KW_ELSE,
	"switch":   KW_SWITCH,
	"while":    KW_WHILE,
	"loop":     KW_LOOP,
	"for":      KW_FOR,
	"in":       KW_IN,
	"do":       KW_DO,
	"until":    KW_UNTIL,
	"break":    KW_BREAK,
	"continue": KW_CONTINUE,
	"return":   KW_RETURN,
	"throw":    KW_THROW,
	"try":      KW_TRY,
	"catch":    KW_CATCH,
	"import":   KW_IMPORT,
	"export":   KW_EXPORT,
	"as":       KW_AS,
	"private":  KW_PRIVATE,
	"true":     KW_TRUE,
	"false":    KW_FALSE,
	"this":     KW_THIS,
	"module":   KW_MODULE,
	"static":   KW_STATIC,
	"op":       KW_OP,
	"type":     KW_TYPE,
}

// TriviaType classifies whitespace and comments attached to tokens.
type TriviaType int

const (
	WHITESPACE TriviaType = iota
	COMMENT_LINE
	COMMENT_BLOCK
	COMMENT_LINE_DOC  // ///
	COMMENT_BLOCK_DOC // /** */
	SHEBANG           // #! at byte offset 0 only
)

var triviaNames = [...]string{
	WHITESPACE:        "WHITESPACE",
	COMMENT_LINE:      "COMMENT_LINE",
	COMMENT_BLOCK:     "COMMENT_BLOCK",
	COMMENT_LINE_DOC:  "COMMENT_LINE_DOC",
	COMMENT_BLOCK_DOC: "COMMENT_BLOCK_DOC",
	SHEBANG:           "SHEBANG",
}

func (t TriviaType) String() string {
	if int(t) < len(triviaNames) && int(t) >= 0 {
		return triviaNames[t]
	}
	return fmt.Sprintf("TriviaType(%d)", int(t))
}

// IsDoc reports whether the trivia is a documentation comment.
func (t TriviaType) IsDoc() bool {
	return t == COMMENT_LINE_DOC || t == COMMENT_BLOCK_DOC
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Trivia is a single piece of whitespace or comment text.
// Whitespace runs are split after each line break, so one piece
// contains at most one newline, always at its end.
type Trivia struct {
	Type   TriviaType
	Text   string
	Offset int
}

func (t Trivia) Span() Span {
	return Span{Start: t.Offset, End: t.Offset + len(t.Text)}
}

// EndsLine reports whether this piece terminates a source line.
func (t Trivia) EndsLine() bool {
	return len(t.Text) > 0 && t.Text[len(t.Text)-1] == '\n'
}

// Token is a single lexed token with its surrounding trivia.
//
// Trailing trivia extends up to and including the first line break
// after the token; everything beyond belongs to the next token's
// leading trivia. Concatenating FullText of all tokens in order
// reproduces the source byte-for-byte.
type Token struct {
	Type     TokenType
	Text     string
	Offset   int
	Leading  []Trivia
	Trailing []Trivia
}

// Span returns the byte range of the token text itself, trivia excluded.
func (t Token) Span() Span {
	return Span{Start: t.Offset, End: t.Offset + len(t.Text)}
}

// FullSpan returns the byte range including leading and trailing trivia.
func (t Token) FullSpan() Span {
	s := t.Span()
	if len(t.Leading) > 0 {
		s.Start = t.Leading[0].Offset
	}
	if len(t.Trailing) > 0 {
		last := t.Trailing[len(t.Trailing)-1]
		s.End = last.Offset + len(last.Text)
	}
	return s
}

// FullText returns the token text with all attached trivia.
func (t Token) FullText() string {
	n := len(t.Text)
	for _, tr := range t.Leading {
		n += len(tr.Text)
	}
	for _, tr := range t.Trailing {
		n += len(tr.Text)
	}
	buf := make([]byte, 0, n)
	for _, tr := range t.Leading {
		buf = append(buf, tr.Text...)
	}
	buf = append(buf, t.Text...)
	for _, tr := range t.Trailing {
		buf = append(buf, tr.Text...)
	}
	return string(buf)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Span())
}

// IsAssignOp reports whether the token is an assignment operator.
func (t TokenType) IsAssignOp() bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, POW_ASSIGN, SHL_ASSIGN, SHR_ASSIGN,
		AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN:
		return true
	}
	return false
}
