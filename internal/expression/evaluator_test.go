package expression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/rational"
)

func postfixString(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

func TestToPostfix(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"2+3*4", []string{"2", "3", "4", "*", "+"}},
		{"(2+3)*4", []string{"2", "3", "+", "4", "*"}},
		{"8-3-2", []string{"8", "3", "-", "2", "-"}},
		{"2^3^2", []string{"2", "3", "2", "^", "^"}},
		{"sin(30)+1", []string{"30", "sin", "1", "+"}},
		{"sqrt(16)*2", []string{"16", "sqrt", "2", "*"}},
		{"-(2+3)", []string{"2", "3", "+", "~"}},
		{"2^-(1)", []string{"2", "1", "~", "^"}},
		{"--3", []string{"-3", "~"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			postfix, err := Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, postfixString(postfix))
		})
	}
}

func TestToPostfix_Errors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"(1+2", 0},
		{"1+2)", 3},
		{"2 $ 3", 2},
		{"foo(1)", 0},
		{"1.2.3+1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Compile(tt.input)
			require.ErrorIs(t, err, calcerr.ErrParse)

			var ee *calcerr.ExpressionError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.pos, ee.Position)
		})
	}
}

func TestEvaluate_Decimal(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"2^3^2", 512},
		{"10/4", 2.5},
		{"-2+3", 1},
		{"3-2", 1},
		{"--3", 3},
		{"-(2+3)*2", -10},
		{"2^-1", 0.5},
		{"1.5e2", 150},
		{"sqrt(16)", 4},
		{"log(1000)", 3},
		{"ln(e)", 1},
		{"2*-pi", -2 * math.Pi},
		{"", 0},
		{"   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Evaluate(tt.input, false, Degrees)
			require.NoError(t, err)
			assert.Equal(t, KindFloat, v.Kind())
			assert.InDelta(t, tt.want, v.Float64(), 1e-9)
		})
	}
}

func TestEvaluate_Fraction(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1/3+1/6", "1/2"},
		{"2/4", "1/2"},
		{"(1/2)^2", "1/4"},
		{"2^-2", "1/4"},
		{"-(3/4)", "-3/4"},
		{"0.5+1/4", "3/4"},
		{"7", "7"},
		{"3^39", "4052555153018976267"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Evaluate(tt.input, true, Degrees)
			require.NoError(t, err)
			r, ok := v.Rational()
			require.True(t, ok, "expected a rational, got %v", v.Kind())
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestEvaluate_FractionDegradesToFloat(t *testing.T) {
	v, err := Evaluate("4^(1/2)", true, Degrees)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
	assert.InDelta(t, 2.0, v.Float64(), 1e-12)

	v, err = Evaluate("sin(30)", true, Degrees)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
	assert.InDelta(t, 0.5, v.Float64(), 1e-12)
}

func TestEvaluate_ModeDecidesArithmetic(t *testing.T) {
	// the fraction literal is exact, but decimal mode still produces a float
	postfix := []Token{
		{Type: TokenFraction, Literal: "1/3"},
		{Type: TokenFraction, Literal: "1/6"},
		{Type: TokenPlus, Literal: "+"},
	}
	e := NewEvaluator()

	v, err := e.EvaluatePostfix(postfix, false, Degrees)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
	assert.InDelta(t, 0.5, v.Float64(), 1e-12)

	v, err = e.EvaluatePostfix(postfix, true, Degrees)
	require.NoError(t, err)
	r, ok := v.Rational()
	require.True(t, ok)
	assert.True(t, r.Equal(mustRational(t, 1, 2)))
}

func mustRational(t *testing.T, num, den int64) rational.Rational {
	t.Helper()
	r, err := rational.New(num, den)
	require.NoError(t, err)
	return r
}

func TestEvaluate_Trigonometry(t *testing.T) {
	tests := []struct {
		input string
		unit  AngleUnit
		want  float64
	}{
		{"sin(30)", Degrees, 0.5},
		{"cos(60)", Degrees, 0.5},
		{"tan(45)", Degrees, 1},
		{"sin(pi/2)", Radians, 1},
		{"cos(pi)", Radians, -1},
		{"tan(0)", Radians, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.unit.String(), func(t *testing.T) {
			v, err := Evaluate(tt.input, false, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v.Float64(), 1e-9)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		input    string
		fraction bool
		unit     AngleUnit
		kind     calcerr.Kind
	}{
		{"sqrt(-1)", false, Degrees, calcerr.KindInvalidDomain},
		{"log(0)", false, Degrees, calcerr.KindInvalidDomain},
		{"ln(-2)", false, Degrees, calcerr.KindInvalidDomain},
		{"tan(90)", false, Degrees, calcerr.KindInvalidDomain},
		{"tan(-270)", false, Degrees, calcerr.KindInvalidDomain},
		{"tan(pi/2)", false, Radians, calcerr.KindInvalidDomain},
		{"1/0", false, Degrees, calcerr.KindDivisionByZero},
		{"1/0", true, Degrees, calcerr.KindDivisionByZero},
		{"0^-1", true, Degrees, calcerr.KindInvalidDomain},
		{"3^40", true, Degrees, calcerr.KindInvalidDomain},
		{"9223372036854775807+1", true, Degrees, calcerr.KindInvalidDomain},
		{"2+", false, Degrees, calcerr.KindArity},
		{"*3", false, Degrees, calcerr.KindArity},
		{"sqrt()", false, Degrees, calcerr.KindArity},
		{"1 2", false, Degrees, calcerr.KindMalformedExpression},
		{"()", false, Degrees, calcerr.KindMalformedExpression},
		{"(1", false, Degrees, calcerr.KindParse},
		{"2 # 3", false, Degrees, calcerr.KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Evaluate(tt.input, tt.fraction, tt.unit)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calcerr.KindOf(err), "error: %v", err)
		})
	}
}

func TestEvaluatePostfix_FractionLiteralPosition(t *testing.T) {
	postfix := []Token{{Type: TokenFraction, Literal: "1/0", Pos: 7}}
	_, err := NewEvaluator().EvaluatePostfix(postfix, true, Degrees)
	require.ErrorIs(t, err, calcerr.ErrDivisionByZero)

	var ee *calcerr.ExpressionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 7, ee.Position)
}

func TestWithMaxDenominator(t *testing.T) {
	e := NewEvaluator(WithMaxDenominator(10))
	v, err := e.Evaluate("pi*1", true, Radians)
	require.NoError(t, err)
	r, ok := v.Rational()
	require.True(t, ok)
	assert.Equal(t, "22/7", r.String())
}

func TestApplyFunction_Unknown(t *testing.T) {
	_, err := ApplyFunction("cot", 1, Radians)
	assert.ErrorIs(t, err, calcerr.ErrParse)
}

func TestParseAngleUnit(t *testing.T) {
	for _, s := range []string{"degrees", "DEG", " Degree "} {
		u, err := ParseAngleUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Degrees, u)
	}
	for _, s := range []string{"radians", "rad", "Radian"} {
		u, err := ParseAngleUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Radians, u)
	}
	_, err := ParseAngleUnit("gradians")
	assert.ErrorIs(t, err, calcerr.ErrParse)
}
