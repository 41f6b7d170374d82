package expression

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes numeric expression strings.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // current reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL signifies EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekCharAt returns the character n positions after the current one without advancing.
func (l *Lexer) peekCharAt(n int) byte {
	i := l.pos + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: pos}
	}

	switch {
	case isDigit(l.ch) || l.ch == '.':
		return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: pos}
	case isLetter(l.ch):
		return Token{Type: TokenIdent, Literal: strings.ToLower(l.readIdentifier()), Pos: pos}
	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}
	}

	if typ, ok := operatorTypes[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: typ, Literal: lit, Pos: pos}
	}

	// keep multi-byte characters whole so error messages show them intact
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	lit := l.input[l.pos : l.pos+size]
	for range size {
		l.readChar()
	}
	return Token{Type: TokenIllegal, Literal: lit, Pos: pos}
}

// readNumber reads digits and decimal points, plus a scientific-notation suffix when an
// e/E directly follows and introduces a (signed) integer exponent.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekCharAt(1)
		switch {
		case isDigit(next):
			l.readChar()
		case (next == '+' || next == '-') && isDigit(l.peekCharAt(2)):
			l.readChar()
			l.readChar()
		default:
			return l.input[start:l.pos]
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.ch)) {
		l.readChar()
	}
}

// Tokenize splits input into tokens, without the trailing EOF. It never fails: characters
// outside the grammar become TokenIllegal and are rejected by ToPostfix.
func Tokenize(input string) []Token {
	var tokens []Token
	l := NewLexer(input)
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}
