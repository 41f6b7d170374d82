// Package symbolic recognizes the symbolic forms the calculator understands: single
// variable equations of degree at most two, and products of bracketed polynomials.
//
// Each recognizer reports whether it applies separately from whether it succeeded, so
// callers can fall back to numeric evaluation when no form applies.
package symbolic

import (
	"regexp"
	"strings"

	"yqhp/calc-engine/internal/expression"
	"yqhp/calc-engine/internal/polynomial"
	"yqhp/calc-engine/pkg/calcerr"
)

// Recognizer tries one symbolic form. applicable is false when expr is not in that form;
// err is set when expr is in the form but cannot be evaluated.
type Recognizer func(expr string) (result string, applicable bool, err error)

// productPatterns match (p)(q), t(p) and (p)t in that order. The bare factor t is a
// single monomial: besides a leading sign before the bracket, signs may only follow '^', so
// "2+(x)", "2x+3(x+1)" and "(x)-2" stay sums.
var productPatterns = []struct {
	re       *regexp.Regexp
	monomial int // submatch index of the bare factor, 0 when both are bracketed
}{
	{regexp.MustCompile(`^\s*\(([^()]+)\)\s*\*?\s*\(([^()]+)\)\s*$`), 0},
	{regexp.MustCompile(`^\s*([+\-]?(?:[^()\s*+\-^]|\^[+\-]?)+)\s*\*?\s*\(([^()]+)\)\s*$`), 1},
	{regexp.MustCompile(`^\s*\(([^()]+)\)\s*\*?\s*((?:[^()\s*+\-^]|\^[+\-]?)+)\s*$`), 2},
}

// recognizers run in order; the first applicable one wins.
var recognizers = []Recognizer{
	SolveEquation,
	ExpandProduct,
}

// Evaluate runs the recognizers against expr. It fails with UnrecognizedSymbolicForm when
// no recognizer applies.
func Evaluate(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	for _, recognize := range recognizers {
		result, applicable, err := recognize(expr)
		if !applicable {
			continue
		}
		return result, err
	}
	return "", calcerr.NewUnrecognizedSymbolicForm("%q is not an equation or a bracket product", expr)
}

// SolveEquation applies to expressions with exactly one '='. Both sides are parsed as
// polynomials and LHS - RHS = 0 is solved.
func SolveEquation(expr string) (string, bool, error) {
	if strings.Count(expr, "=") != 1 {
		return "", false, nil
	}
	lhsText, rhsText, _ := strings.Cut(expr, "=")

	lhs, err := polynomial.Parse(lhsText)
	if err != nil {
		return "", true, err
	}
	rhs, err := polynomial.Parse(rhsText)
	if err != nil {
		return "", true, shiftPosition(err, len(lhsText)+1)
	}
	sol, err := Solve(lhs.Sub(rhs))
	if err != nil {
		return "", true, err
	}
	return sol.String(), true, nil
}

// ExpandProduct applies to (p)(q), t(p) and (p)t, with an optional '*' between the factors,
// and returns the expanded polynomial. A product of constants is printed as a number.
func ExpandProduct(expr string) (string, bool, error) {
	var (
		m        []int
		monomial int
	)
	for _, pattern := range productPatterns {
		if m = pattern.re.FindStringSubmatchIndex(expr); m != nil {
			monomial = pattern.monomial
			break
		}
	}
	if m == nil {
		return "", false, nil
	}

	factors := make([]polynomial.Polynomial, 2)
	for i := range factors {
		start, end := m[2+2*i], m[3+2*i]
		f, err := polynomial.Parse(expr[start:end])
		if err != nil {
			return "", true, shiftPosition(err, start)
		}
		if i+1 == monomial && f.Len() > 1 {
			return "", false, nil
		}
		factors[i] = f
	}

	product, err := factors[0].Mul(factors[1])
	if err != nil {
		return "", true, err
	}
	if len(product.Variables()) == 0 {
		return expression.FormatFloat(product.Constant()), true, nil
	}
	return product.String(), true, nil
}

// shiftPosition moves the position of a parse error on the right-hand side so it points
// into the whole equation.
func shiftPosition(err error, offset int) error {
	if ee, ok := err.(*calcerr.ExpressionError); ok && ee.Position >= 0 {
		cp := *ee
		cp.Position += offset
		return &cp
	}
	return err
}
