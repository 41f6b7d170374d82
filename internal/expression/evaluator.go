package expression

import (
	"math"
	"strconv"
	"strings"

	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/rational"
)

// ExpressionEvaluator evaluates numeric expressions.
type ExpressionEvaluator interface {
	// Evaluate tokenizes, converts and evaluates expr. With preferFraction set the
	// arithmetic runs on exact rationals; otherwise on float64.
	Evaluate(expr string, preferFraction bool, unit AngleUnit) (Value, error)

	// EvaluatePostfix evaluates an already converted postfix sequence.
	EvaluatePostfix(postfix []Token, preferFraction bool, unit AngleUnit) (Value, error)
}

// DefaultEvaluator is the default implementation of ExpressionEvaluator. It holds no
// state between calls and is safe for concurrent use.
type DefaultEvaluator struct {
	maxDenominator int64
}

// EvaluatorOption configures a DefaultEvaluator.
type EvaluatorOption func(*DefaultEvaluator)

// WithMaxDenominator bounds the denominators used when floats are coerced to fractions.
func WithMaxDenominator(n int64) EvaluatorOption {
	return func(e *DefaultEvaluator) {
		if n > 0 {
			e.maxDenominator = n
		}
	}
}

// NewEvaluator creates a new DefaultEvaluator.
func NewEvaluator(opts ...EvaluatorOption) *DefaultEvaluator {
	e := &DefaultEvaluator{maxDenominator: rational.DefaultMaxDenominator}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = NewEvaluator()

// Evaluate evaluates expr with the default evaluator.
func Evaluate(expr string, preferFraction bool, unit AngleUnit) (Value, error) {
	return defaultEvaluator.Evaluate(expr, preferFraction, unit)
}

// Compile tokenizes expr, resolves unary minus signs and returns the postfix sequence.
func Compile(expr string) ([]Token, error) {
	return ToPostfix(ResolveUnary(Tokenize(expr)))
}

// Evaluate tokenizes, converts and evaluates expr. A blank expression evaluates to zero.
func (e *DefaultEvaluator) Evaluate(expr string, preferFraction bool, unit AngleUnit) (Value, error) {
	tokens := Tokenize(strings.TrimSpace(expr))
	if len(tokens) == 0 {
		return zero(preferFraction), nil
	}
	postfix, err := ToPostfix(ResolveUnary(tokens))
	if err != nil {
		return Value{}, err
	}
	return e.EvaluatePostfix(postfix, preferFraction, unit)
}

func zero(preferFraction bool) Value {
	if preferFraction {
		return RationalValue(rational.Zero)
	}
	return FloatValue(0)
}

// EvaluatePostfix walks postfix with an operand stack. The mode flag, not the operand
// kinds, decides whether binary operators use fraction or float arithmetic.
func (e *DefaultEvaluator) EvaluatePostfix(postfix []Token, preferFraction bool, unit AngleUnit) (Value, error) {
	stack := make([]Value, 0, len(postfix))

	for _, tok := range postfix {
		switch {
		case isOperand(tok):
			v, err := parseOperand(tok, preferFraction)
			if err != nil {
				return Value{}, err
			}
			stack = append(stack, v)

		case isFunctionToken(tok):
			if len(stack) < 1 {
				return Value{}, calcerr.NewArityError(tok.Pos, "missing operand for %s", tok.Literal)
			}
			operand := stack[len(stack)-1]
			r, err := ApplyFunction(tok.Literal, operand.Float64(), unit)
			if err != nil {
				return Value{}, err
			}
			stack[len(stack)-1] = FloatValue(r)

		case tok.Type == TokenNegate:
			if len(stack) < 1 {
				return Value{}, calcerr.NewArityError(tok.Pos, "missing operand for unary minus")
			}
			stack[len(stack)-1] = negate(stack[len(stack)-1], preferFraction)

		case tok.IsBinaryOperator():
			if len(stack) < 2 {
				return Value{}, calcerr.NewArityError(tok.Pos, "missing operands for %s", tok.Literal)
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]

			var (
				v   Value
				err error
			)
			if preferFraction {
				v, err = e.applyFraction(tok, a, b)
			} else {
				v, err = applyFloat(tok, a.Float64(), b.Float64())
			}
			if err != nil {
				return Value{}, err
			}
			stack = append(stack, v)

		default:
			return Value{}, calcerr.NewParseError(tok.Pos, "unknown token %q", tok.Literal)
		}
	}

	if len(stack) != 1 {
		return Value{}, calcerr.NewMalformedExpression("expression reduced to %d values instead of 1", len(stack))
	}
	result := stack[0]
	if !preferFraction && result.Kind() == KindRational {
		return FloatValue(result.Float64()), nil
	}
	return result, nil
}

// parseOperand turns an operand token into a value. Constants are floats, fraction
// literals are rationals, whole numbers are rationals only in fraction mode.
func parseOperand(tok Token, preferFraction bool) (Value, error) {
	lit := tok.Literal
	switch lit {
	case "pi":
		return FloatValue(math.Pi), nil
	case "-pi":
		return FloatValue(-math.Pi), nil
	case "e":
		return FloatValue(math.E), nil
	case "-e":
		return FloatValue(-math.E), nil
	}

	if fractionPattern.MatchString(lit) {
		r, err := rational.Parse(lit)
		if err != nil {
			return Value{}, withPosition(err, tok.Pos)
		}
		return RationalValue(r), nil
	}
	if preferFraction && isWholeNumber(lit) {
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Value{}, calcerr.Wrap(calcerr.KindParse, tok.Pos, err, "invalid number %q", lit)
		}
		return RationalValue(rational.FromInt(n)), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, calcerr.Wrap(calcerr.KindParse, tok.Pos, err, "invalid number %q", lit)
	}
	return FloatValue(f), nil
}

func isWholeNumber(lit string) bool {
	lit = strings.TrimPrefix(lit, "-")
	if lit == "" {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if !isDigit(lit[i]) {
			return false
		}
	}
	return true
}

// withPosition fills in the position of an ExpressionError that has none.
func withPosition(err error, pos int) error {
	if ee, ok := err.(*calcerr.ExpressionError); ok && ee.Position < 0 {
		cp := *ee
		cp.Position = pos
		return &cp
	}
	return err
}

func negate(v Value, preferFraction bool) Value {
	if r, ok := v.Rational(); ok && preferFraction {
		return RationalValue(r.Neg())
	}
	return FloatValue(-v.Float64())
}

func applyFloat(op Token, a, b float64) (Value, error) {
	switch op.Type {
	case TokenPlus:
		return FloatValue(a + b), nil
	case TokenMinus:
		return FloatValue(a - b), nil
	case TokenStar:
		return FloatValue(a * b), nil
	case TokenSlash:
		if b == 0 {
			return Value{}, calcerr.NewDivisionByZero("division by zero")
		}
		return FloatValue(a / b), nil
	case TokenCaret:
		return FloatValue(math.Pow(a, b)), nil
	default:
		return Value{}, calcerr.NewParseError(op.Pos, "unknown operator %q", op.Literal)
	}
}

// applyFraction coerces both operands to rationals. A non-integer exponent falls back to
// math.Pow and yields a float.
func (e *DefaultEvaluator) applyFraction(op Token, av, bv Value) (Value, error) {
	a, err := av.toRational(e.maxDenominator)
	if err != nil {
		return Value{}, err
	}
	b, err := bv.toRational(e.maxDenominator)
	if err != nil {
		return Value{}, err
	}

	var r rational.Rational
	switch op.Type {
	case TokenPlus:
		r, err = a.Add(b)
	case TokenMinus:
		r, err = a.Sub(b)
	case TokenStar:
		r, err = a.Mul(b)
	case TokenSlash:
		r, err = a.Div(b)
	case TokenCaret:
		if !b.IsInteger() {
			return FloatValue(math.Pow(a.Float64(), b.Float64())), nil
		}
		r, err = a.PowInt(b.Numerator())
	default:
		return Value{}, calcerr.NewParseError(op.Pos, "unknown operator %q", op.Literal)
	}
	if err != nil {
		return Value{}, err
	}
	return RationalValue(r), nil
}
