package symbolic

import (
	"math"
	"strconv"
	"strings"

	"yqhp/calc-engine/internal/polynomial"
	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/rational"
)

// rootMaxDenominator bounds the denominators used to print roots as fractions.
const rootMaxDenominator = 1000

// SolutionKind classifies the outcome of solving an equation.
type SolutionKind int

const (
	Identity SolutionKind = iota
	Contradiction
	SingleRoot
	TwoRealRoots
	RepeatedRoot
	ComplexRoots
)

// String returns the string representation of the solution kind.
func (k SolutionKind) String() string {
	switch k {
	case Identity:
		return "identity"
	case Contradiction:
		return "contradiction"
	case SingleRoot:
		return "single_root"
	case TwoRealRoots:
		return "two_real_roots"
	case RepeatedRoot:
		return "repeated_root"
	case ComplexRoots:
		return "complex_roots"
	default:
		return "unknown"
	}
}

// Solution is the solved form of poly = 0.
type Solution struct {
	Kind     SolutionKind
	Variable string
	// Roots holds the real roots, "+" root first for quadratics.
	Roots []float64
	// Real and Imag describe the conjugate pair Real ± Imag·i of ComplexRoots.
	Real float64
	Imag float64
}

// String renders the solution for display.
func (s Solution) String() string {
	switch s.Kind {
	case Identity:
		return "Identity"
	case Contradiction:
		return "Contradiction"
	case SingleRoot:
		return s.Variable + " = " + FormatRoot(s.Roots[0])
	case RepeatedRoot:
		return s.Variable + " = " + FormatRoot(s.Roots[0]) + " (repeated root)"
	case TwoRealRoots:
		return s.Variable + "₁ = " + FormatRoot(s.Roots[0]) + ", " + s.Variable + "₂ = " + FormatRoot(s.Roots[1])
	case ComplexRoots:
		return s.Variable + " = " + FormatRoot(s.Real) + " ± " + FormatRoot(s.Imag) + "i"
	default:
		return ""
	}
}

// Solve solves p = 0 for polynomials of degree at most two in a single variable.
func Solve(p polynomial.Polynomial) (Solution, error) {
	vars := p.Variables()
	if len(vars) > 1 {
		return Solution{}, calcerr.NewUnsupported("equations in several variables (%s) are not supported",
			strings.Join(vars, ", "))
	}
	if p.HasNegativeExponent() {
		return Solution{}, calcerr.NewUnsupported("equations with negative exponents are not supported")
	}
	v := polynomial.DefaultVariable
	if len(vars) == 1 {
		v = vars[0]
	}

	c := p.Constant()
	switch degree := p.Degree(); degree {
	case 0:
		if math.Abs(c) < polynomial.Epsilon {
			return Solution{Kind: Identity, Variable: v}, nil
		}
		return Solution{Kind: Contradiction, Variable: v}, nil

	case 1:
		a, b := p.Coefficient(v, 1), c
		return Solution{Kind: SingleRoot, Variable: v, Roots: []float64{-b / a}}, nil

	case 2:
		a, b := p.Coefficient(v, 2), p.Coefficient(v, 1)
		disc := b*b - 4*a*c
		switch {
		case math.Abs(disc) < polynomial.Epsilon:
			return Solution{Kind: RepeatedRoot, Variable: v, Roots: []float64{-b / (2 * a)}}, nil
		case disc > 0:
			sq := math.Sqrt(disc)
			return Solution{
				Kind:     TwoRealRoots,
				Variable: v,
				Roots:    []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)},
			}, nil
		default:
			return Solution{
				Kind:     ComplexRoots,
				Variable: v,
				Real:     -b / (2 * a),
				Imag:     math.Sqrt(-disc) / math.Abs(2*a),
			}, nil
		}

	default:
		return Solution{}, calcerr.NewUnsupported("equations of degree %d are not supported", degree)
	}
}

// FormatRoot prints x as a fraction when one with a small denominator reproduces it,
// otherwise with up to six decimals.
func FormatRoot(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if r, err := rational.FromFloat(x, rootMaxDenominator); err == nil && math.Abs(r.Float64()-x) < polynomial.Epsilon {
		return r.String()
	}
	s := strconv.FormatFloat(x, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
