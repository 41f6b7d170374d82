package symbolic

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"yqhp/calc-engine/internal/polynomial"
	"yqhp/calc-engine/pkg/calcerr"
)

func TestEvaluate_Equations(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x^2 - 5x + 6 = 0", "x₁ = 3, x₂ = 2"},
		{"2x + 4 = 0", "x = -2"},
		{"3x = 1", "x = 1/3"},
		{"x = x", "Identity"},
		{"x + 1 = x", "Contradiction"},
		{"x^2 - 2x + 1 = 0", "x = 1 (repeated root)"},
		{"x^2 + 1 = 0", "x = 0 ± 1i"},
		{"x^2 + 2x + 5 = 0", "x = -1 ± 2i"},
		{"x^2 = 2", "x₁ = 1.414214, x₂ = -1.414214"},
		{"2y^2 = 8", "y₁ = 2, y₂ = -2"},
		{"x^2 = x", "x₁ = 1, x₂ = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Expansion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(x+1)(x-1)", "x^2 - 1"},
		{"(x + 2) * (x + 3)", "x^2 + 5x + 6"},
		{"(2x-1)(2x-1)", "4x^2 - 4x + 1"},
		{"3(x+1)", "3x + 3"},
		{"x*(x-4)", "x^2 - 4x"},
		{"(x-1)x", "x^2 - x"},
		{"-2(x+1)", "-2x - 2"},
		{"x^2 * (x+1)", "x^3 + x^2"},
		{"(1+2)(3)", "9"},
		{"(2+3)*0.001", "0.005"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		input string
		kind  calcerr.Kind
	}{
		{"2+3*4", calcerr.KindUnrecognizedSymbolicForm},
		{"x == 1", calcerr.KindUnrecognizedSymbolicForm},
		{"((x+1))(x)", calcerr.KindUnrecognizedSymbolicForm},
		{"(x+1)-2", calcerr.KindUnrecognizedSymbolicForm},
		{"2+(x+1)", calcerr.KindUnrecognizedSymbolicForm},
		{"2x+3(x+1)", calcerr.KindUnrecognizedSymbolicForm},
		{"(x+1)2x-1", calcerr.KindUnrecognizedSymbolicForm},
		{"2+3*(4+1)", calcerr.KindUnrecognizedSymbolicForm},
		{"(1+2)3+4", calcerr.KindUnrecognizedSymbolicForm},
		{"x^3 = 1", calcerr.KindUnsupportedOperation},
		{"x + y = 1", calcerr.KindUnsupportedOperation},
		{"x^-1 = 2", calcerr.KindUnsupportedOperation},
		{"(x+1)(y+1)", calcerr.KindUnsupportedOperation},
		{"x = sin(x)", calcerr.KindParse},
		{"sin(30)", calcerr.KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Evaluate(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calcerr.KindOf(err), "error: %v", err)
		})
	}
}

func TestSolveEquation_RightHandPosition(t *testing.T) {
	_, applicable, err := SolveEquation("x = 2$")
	assert.True(t, applicable)

	var ee *calcerr.ExpressionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 5, ee.Position)
}

func TestRecognizers_NotApplicable(t *testing.T) {
	_, applicable, err := SolveEquation("(x+1)(x+2)")
	assert.False(t, applicable)
	assert.NoError(t, err)

	_, applicable, err = ExpandProduct("x = 1")
	assert.False(t, applicable)
	assert.NoError(t, err)

	_, applicable, err = ExpandProduct("x-1(x+2)")
	assert.False(t, applicable)
	assert.NoError(t, err)
}

// TestExpandProduct_MonomialFactor checks that a bare factor only ever contributes one term.
func TestExpandProduct_MonomialFactor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(1, 9).Draw(t, "a")
		b := rapid.IntRange(1, 9).Draw(t, "b")
		c := rapid.IntRange(1, 9).Draw(t, "c")

		sum := strconv.Itoa(a) + "x+" + strconv.Itoa(b) + "(x+" + strconv.Itoa(c) + ")"
		if _, applicable, _ := ExpandProduct(sum); applicable {
			t.Fatalf("%q was treated as a product", sum)
		}

		got, err := Evaluate(strconv.Itoa(a) + "x(x+" + strconv.Itoa(c) + ")")
		if err != nil {
			t.Fatal(err)
		}
		want := polynomial.New(
			polynomial.NewTerm(float64(a), "x", 2),
			polynomial.NewTerm(float64(a*c), "x", 1),
		).String()
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})
}

func TestSolve_Kinds(t *testing.T) {
	sol, err := Solve(polynomial.MustParse("x^2 - 4"))
	require.NoError(t, err)
	assert.Equal(t, TwoRealRoots, sol.Kind)
	assert.Equal(t, []float64{2, -2}, sol.Roots)
	assert.Equal(t, "two_real_roots", sol.Kind.String())

	sol, err = Solve(polynomial.MustParse("0"))
	require.NoError(t, err)
	assert.Equal(t, Identity, sol.Kind)
}

func TestFormatRoot(t *testing.T) {
	assert.Equal(t, "3", FormatRoot(3))
	assert.Equal(t, "-1/2", FormatRoot(-0.5))
	assert.Equal(t, "2/3", FormatRoot(2.0/3))
	assert.Equal(t, "1.414214", FormatRoot(1.4142135623730951))
	assert.Equal(t, "0", FormatRoot(-0.0))
}

// TestQuadraticRootsSatisfyEquation checks generated quadratics with integer roots.
func TestQuadraticRootsSatisfyEquation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r1 := rapid.IntRange(-20, 20).Draw(t, "r1")
		r2 := rapid.IntRange(-20, 20).Draw(t, "r2")

		// (x - r1)(x - r2) = x^2 - (r1+r2)x + r1*r2
		p := polynomial.New(
			polynomial.NewTerm(1, "x", 2),
			polynomial.NewTerm(float64(-(r1+r2)), "x", 1),
			polynomial.Constant(float64(r1*r2)),
		)
		sol, err := Solve(p)
		if err != nil {
			t.Fatalf("Solve(%s): %v", p, err)
		}
		for _, root := range sol.Roots {
			if v := p.Evaluate(root); v > 1e-6 || v < -1e-6 {
				t.Fatalf("root %v of %s evaluates to %v", root, p, v)
			}
		}
		if r1 == r2 && sol.Kind != RepeatedRoot {
			t.Fatalf("expected a repeated root for %s, got %s", p, sol.Kind)
		}
	})
}
