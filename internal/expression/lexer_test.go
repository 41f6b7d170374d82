package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_BasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []Token
	}{
		{
			input: "2+3*4",
			expected: []Token{
				{Type: TokenNumber, Literal: "2", Pos: 0},
				{Type: TokenPlus, Literal: "+", Pos: 1},
				{Type: TokenNumber, Literal: "3", Pos: 2},
				{Type: TokenStar, Literal: "*", Pos: 3},
				{Type: TokenNumber, Literal: "4", Pos: 4},
				{Type: TokenEOF, Literal: "", Pos: 5},
			},
		},
		{
			input: "( 1.5 ^ 2 ) / 4",
			expected: []Token{
				{Type: TokenLParen, Literal: "(", Pos: 0},
				{Type: TokenNumber, Literal: "1.5", Pos: 2},
				{Type: TokenCaret, Literal: "^", Pos: 6},
				{Type: TokenNumber, Literal: "2", Pos: 8},
				{Type: TokenRParen, Literal: ")", Pos: 10},
				{Type: TokenSlash, Literal: "/", Pos: 12},
				{Type: TokenNumber, Literal: "4", Pos: 14},
				{Type: TokenEOF, Literal: "", Pos: 15},
			},
		},
		{
			input: "SQRT(Pi)",
			expected: []Token{
				{Type: TokenIdent, Literal: "sqrt", Pos: 0},
				{Type: TokenLParen, Literal: "(", Pos: 4},
				{Type: TokenIdent, Literal: "pi", Pos: 5},
				{Type: TokenRParen, Literal: ")", Pos: 7},
				{Type: TokenEOF, Literal: "", Pos: 8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			for _, expected := range tt.expected {
				tok := lexer.NextToken()
				assert.Equal(t, expected.Type, tok.Type, "token type mismatch")
				assert.Equal(t, expected.Literal, tok.Literal, "token literal mismatch")
				assert.Equal(t, expected.Pos, tok.Pos, "token position mismatch")
			}
		})
	}
}

func TestLexer_ScientificNotation(t *testing.T) {
	tests := []struct {
		input    string
		literals []string
	}{
		{"1e5", []string{"1e5"}},
		{"2.5E-3", []string{"2.5E-3"}},
		{"6e+2*2", []string{"6e+2", "*", "2"}},
		{"2e", []string{"2", "e"}},
		{"2e-x", []string{"2", "e", "-", "x"}},
		{"3*e", []string{"3", "*", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			literals := make([]string, len(tokens))
			for i, tok := range tokens {
				literals[i] = tok.Literal
			}
			assert.Equal(t, tt.literals, literals)
		})
	}
}

func TestLexer_IllegalCharacters(t *testing.T) {
	tokens := Tokenize("2 × 3 % 4")
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenIllegal, tokens[1].Type)
	assert.Equal(t, "×", tokens[1].Literal)
	assert.Equal(t, 2, tokens[1].Pos)
	assert.Equal(t, TokenIllegal, tokens[3].Type)
	assert.Equal(t, "%", tokens[3].Literal)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \t\n"))
}

func TestResolveUnary(t *testing.T) {
	tests := []struct {
		input string
		want  []string
		types []TokenType
	}{
		{"-2+3", []string{"-2", "+", "3"}, []TokenType{TokenNumber, TokenPlus, TokenNumber}},
		{"3-2", []string{"3", "-", "2"}, []TokenType{TokenNumber, TokenMinus, TokenNumber}},
		{"(-2)", []string{"(", "-2", ")"}, []TokenType{TokenLParen, TokenNumber, TokenRParen}},
		{"2*-pi", []string{"2", "*", "-pi"}, []TokenType{TokenNumber, TokenStar, TokenIdent}},
		{"-(1)", []string{"~", "(", "1", ")"}, []TokenType{TokenNegate, TokenLParen, TokenNumber, TokenRParen}},
		{"--3", []string{"~", "-3"}, []TokenType{TokenNegate, TokenNumber}},
		{"-sin(0)", []string{"~", "sin", "(", "0", ")"}, []TokenType{TokenNegate, TokenIdent, TokenLParen, TokenNumber, TokenRParen}},
		{"(1)-2", []string{"(", "1", ")", "-", "2"}, []TokenType{TokenLParen, TokenNumber, TokenRParen, TokenMinus, TokenNumber}},
		{"+4", []string{"4"}, []TokenType{TokenNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := ResolveUnary(Tokenize(tt.input))
			got := make([]string, len(tokens))
			types := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				got[i] = tok.String()
				types[i] = tok.Type
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "NUMBER", TokenNumber.String())
	assert.Equal(t, "~", TokenNegate.String())
	assert.Equal(t, "UNKNOWN", TokenType(99).String())
}
