package expression

// ResolveUnary rewrites unary minus signs. A '-' is unary at the start of the input, after
// an operator or after '('. A unary minus directly before a number, fraction or constant is
// folded into a signed literal; any other unary minus becomes a TokenNegate. A unary '+' is
// dropped.
func ResolveUnary(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != TokenMinus && tok.Type != TokenPlus {
			out = append(out, tok)
			continue
		}
		if !unaryPosition(out) {
			out = append(out, tok)
			continue
		}
		if tok.Type == TokenPlus {
			continue
		}
		if i+1 < len(tokens) && isSignable(tokens[i+1]) {
			next := tokens[i+1]
			out = append(out, Token{Type: next.Type, Literal: "-" + next.Literal, Pos: tok.Pos})
			i++
			continue
		}
		out = append(out, Token{Type: TokenNegate, Literal: "-", Pos: tok.Pos})
	}
	return out
}

// unaryPosition reports whether a sign following the already resolved tokens is unary.
func unaryPosition(resolved []Token) bool {
	if len(resolved) == 0 {
		return true
	}
	prev := resolved[len(resolved)-1]
	return prev.IsOperator() || prev.Type == TokenLParen
}

func isSignable(tok Token) bool {
	switch tok.Type {
	case TokenNumber, TokenFraction:
		return true
	case TokenIdent:
		return isConstant(tok.Literal)
	}
	return false
}

func isConstant(name string) bool {
	return name == "pi" || name == "e"
}
