package parse

import (
	"fmt"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND  // "(" preceded by whitespace
	CLROUND // "(" attached to the token before it (call syntax)
	RROUND  // ")"
	DOT     // "."
	COLON   // ":"
	COMMA   // ","
	ARROW   // "->"
	WALRUS  // ":="
	EQEQ    // "=="

	// Binders
	LAMBDA // "λ" or "\"
	PI     // "Π"

	// Identifiers & keywords
	IDENT
	DEF
	AXIOM
	THEOREM
	EVAL
	EQUIV
)

// keywords map
var keywords = map[string]TokenType{
	"def":     DEF,
	"axiom":   AXIOM,
	"theorem": THEOREM,
	"eval":    EVAL,
	"equiv":   EQUIV,
}

// Token is a lexical token.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

// LexError reports a malformed token with its position.
type LexError struct {
	Name string
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Col, e.Msg)
}

// Lexer scans a source string into tokens. A "(" that directly follows an
// identifier or ")" becomes a call paren, so f(x) reads as a reference with
// arguments while f (x) reads as an application.
type Lexer struct {
	name             string
	src              string
	start            int // start index of current token
	cur              int // current index
	line             int // 1-based
	col              int // 0-based column within line
	tokens           []Token
	whitespaceBefore bool

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source. name labels error
// positions, typically a file path.
func NewLexer(name, src string) *Lexer {
	return &Lexer{
		name: name,
		src:  src,
		line: 1,
		col:  0,
	}
}

// Lex scans the whole source.
func (l *Lexer) Lex() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType) Token {
	tok := Token{
		Type:   tt,
		Lexeme: l.src[l.start:l.cur],
		Line:   l.tokStartLine,
		Col:    l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	l.whitespaceBefore = false
	return tok
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) skipBlanks() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch {
		case ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t':
			l.whitespaceBefore = true
			l.advance()
			l.start = l.cur
		case ch == '-' && l.cur+1 < len(l.src) && l.src[l.cur+1] == '-':
			// "--" comments run to end of line.
			l.whitespaceBefore = true
			for !l.isAtEnd() {
				c, _ := l.peek()
				if c == '\n' {
					break
				}
				l.advance()
			}
			l.start = l.cur
		default:
			return
		}
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentCont(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9') || b == '\''
}

// callable reports whether a "(" directly after this token reads as a call.
func callable(t TokenType) bool {
	return t == IDENT || t == RROUND
}

func (l *Lexer) err(msg string) error {
	return &LexError{Name: l.name, Line: l.line, Col: l.col, Msg: msg}
}

func (l *Lexer) scanToken() (Token, error) {
	l.skipBlanks()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF), nil
	}

	ch, _ := l.advance()
	switch ch {
	case '(':
		prev := l.previousToken()
		if !l.whitespaceBefore && prev != nil && callable(prev.Type) {
			return l.addToken(CLROUND), nil
		}
		return l.addToken(LROUND), nil
	case ')':
		return l.addToken(RROUND), nil
	case '.':
		return l.addToken(DOT), nil
	case ',':
		return l.addToken(COMMA), nil
	case '\\':
		return l.addToken(LAMBDA), nil
	case ':':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(WALRUS), nil
		}
		return l.addToken(COLON), nil
	case '-':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			return l.addToken(ARROW), nil
		}
		return Token{}, l.err("expected '->'")
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQEQ), nil
		}
		return Token{}, l.err("expected '=='")
	}

	if isAlpha(ch) {
		for {
			b, ok := l.peek()
			if !ok || !isIdentCont(b) {
				break
			}
			l.advance()
		}
		word := l.src[l.start:l.cur]
		if kw, ok := keywords[word]; ok {
			return l.addToken(kw), nil
		}
		return l.addToken(IDENT), nil
	}

	// Multi-byte symbols: back up one byte and decode a full rune.
	l.cur--
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	l.col += size - 1
	switch r {
	case 'λ':
		return l.addToken(LAMBDA), nil
	case 'Π':
		return l.addToken(PI), nil
	}
	return Token{}, l.err(fmt.Sprintf("unexpected character %q", r))
}
