package expression

import (
	"regexp"

	"github.com/duke-git/lancet/v2/slice"

	"yqhp/calc-engine/pkg/calcerr"
)

var (
	numberPattern   = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	fractionPattern = regexp.MustCompile(`^-?\d+/-?\d+$`)
)

// IsFunction reports whether name is a supported function.
func IsFunction(name string) bool {
	return slice.Contain(functionNames, name)
}

// isOperand reports whether tok can be pushed on the operand stack as is.
func isOperand(tok Token) bool {
	switch tok.Type {
	case TokenNumber:
		return numberPattern.MatchString(tok.Literal)
	case TokenFraction:
		return fractionPattern.MatchString(tok.Literal)
	case TokenIdent:
		name := tok.Literal
		if len(name) > 1 && name[0] == '-' {
			name = name[1:]
		}
		return isConstant(name)
	}
	return false
}

// ToPostfix converts resolved infix tokens to postfix order with the shunting-yard
// algorithm. '^' is right-associative, the other binary operators are left-associative and
// the negate marker is a prefix operator.
func ToPostfix(tokens []Token) ([]Token, error) {
	output := make([]Token, 0, len(tokens))
	var stack []Token

	pop := func() Token {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, tok := range tokens {
		switch {
		case isOperand(tok):
			output = append(output, tok)

		case tok.Type == TokenIdent && IsFunction(tok.Literal):
			stack = append(stack, tok)

		case tok.Type == TokenLParen:
			stack = append(stack, tok)

		case tok.Type == TokenRParen:
			for len(stack) > 0 && stack[len(stack)-1].Type != TokenLParen {
				output = append(output, pop())
			}
			if len(stack) == 0 {
				return nil, calcerr.NewParseError(tok.Pos, "mismatched parentheses: unexpected ')'")
			}
			pop()
			if len(stack) > 0 && isFunctionToken(stack[len(stack)-1]) {
				output = append(output, pop())
			}

		case tok.Type == TokenNegate:
			// prefix operator, never pops
			stack = append(stack, tok)

		case tok.IsBinaryOperator():
			for len(stack) > 0 && shouldPop(stack[len(stack)-1], tok) {
				output = append(output, pop())
			}
			stack = append(stack, tok)

		case tok.Type == TokenNumber:
			return nil, calcerr.NewParseError(tok.Pos, "invalid number %q", tok.Literal)

		default:
			return nil, calcerr.NewParseError(tok.Pos, "unknown token %q", tok.Literal)
		}
	}

	for len(stack) > 0 {
		top := pop()
		if top.Type == TokenLParen {
			return nil, calcerr.NewParseError(top.Pos, "mismatched parentheses: unclosed '('")
		}
		output = append(output, top)
	}
	return output, nil
}

// shouldPop reports whether the stacked token top must be emitted before the incoming
// binary operator in.
func shouldPop(top, in Token) bool {
	if top.Type == TokenLParen {
		return false
	}
	if isFunctionToken(top) {
		return true
	}
	pt, pi := precedence[top.Type], precedence[in.Type]
	if pt > pi {
		return true
	}
	return pt == pi && in.Type != TokenCaret
}

func isFunctionToken(tok Token) bool {
	return tok.Type == TokenIdent && IsFunction(tok.Literal)
}
