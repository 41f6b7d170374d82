// Package expression provides numeric expression tokenizing, infix-to-postfix conversion and
// evaluation in exact fraction or floating-point mode.
package expression

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenNumber   // decimal or scientific literal, optionally signed after unary fusion
	TokenFraction // int/int literal
	TokenIdent    // function name or constant

	// Operators
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenCaret  // ^
	TokenNegate // unary minus

	// Delimiters
	TokenLParen // (
	TokenRParen // )
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenNumber:
		return "NUMBER"
	case TokenFraction:
		return "FRACTION"
	case TokenIdent:
		return "IDENT"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenCaret:
		return "^"
	case TokenNegate:
		return "~"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the input
}

// String returns the literal, or "~" for the negate marker.
func (t Token) String() string {
	if t.Type == TokenNegate {
		return "~"
	}
	return t.Literal
}

// IsBinaryOperator reports whether the token is one of + - * / ^.
func (t Token) IsBinaryOperator() bool {
	switch t.Type {
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenCaret:
		return true
	}
	return false
}

// IsOperator reports whether the token is a binary operator or the negate marker.
func (t Token) IsOperator() bool {
	return t.IsBinaryOperator() || t.Type == TokenNegate
}

var operatorTypes = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'^': TokenCaret,
}

// precedence is the shunting-yard binding strength of each operator.
var precedence = map[TokenType]int{
	TokenPlus:   1,
	TokenMinus:  1,
	TokenStar:   2,
	TokenSlash:  2,
	TokenCaret:  3,
	TokenNegate: 4,
}

var functionNames = []string{"sin", "cos", "tan", "log", "ln", "sqrt"}
