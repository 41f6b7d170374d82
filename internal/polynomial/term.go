// Package polynomial implements single-variable polynomial algebra: terms, canonical
// polynomials, arithmetic and a parser for the "3x^2 + 2x - 5" notation.
package polynomial

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"yqhp/calc-engine/pkg/calcerr"
)

// DefaultVariable is used when a term has an exponent but no variable name.
const DefaultVariable = "x"

// Term is a single monomial coefficient*variable^exponent.
type Term struct {
	coefficient float64
	variable    string
	exponent    int
}

// NewTerm returns a canonical term. A zero coefficient yields the zero constant, an exponent
// of 0 clears the variable, and a non-zero exponent without a variable uses DefaultVariable.
func NewTerm(coefficient float64, variable string, exponent int) Term {
	if coefficient == 0 {
		return Term{}
	}
	if exponent == 0 {
		variable = ""
	} else if variable == "" {
		variable = DefaultVariable
	}
	return Term{coefficient: coefficient, variable: variable, exponent: exponent}
}

// Constant returns the constant term c.
func Constant(c float64) Term {
	return NewTerm(c, "", 0)
}

// Coefficient returns the numeric coefficient.
func (t Term) Coefficient() float64 { return t.coefficient }

// Variable returns the variable name, empty for constants.
func (t Term) Variable() string { return t.variable }

// Exponent returns the exponent, 0 for constants.
func (t Term) Exponent() int { return t.exponent }

// IsConstant reports whether t has no variable.
func (t Term) IsConstant() bool { return t.variable == "" }

// Neg returns -t.
func (t Term) Neg() Term {
	return NewTerm(-t.coefficient, t.variable, t.exponent)
}

// Abs returns t with a non-negative coefficient.
func (t Term) Abs() Term {
	return NewTerm(math.Abs(t.coefficient), t.variable, t.exponent)
}

// Multiply returns t*o. Both terms must share a variable unless one of them is a constant.
func (t Term) Multiply(o Term) (Term, error) {
	if t.variable != "" && o.variable != "" && t.variable != o.variable {
		return Term{}, calcerr.NewUnsupported("multiplying terms in different variables (%s, %s) is not supported",
			t.variable, o.variable)
	}
	variable := t.variable
	if variable == "" {
		variable = o.variable
	}
	return NewTerm(t.coefficient*o.coefficient, variable, t.exponent+o.exponent), nil
}

// Compare orders terms by descending exponent, then by variable name. It returns 0 for
// like terms, which are the terms that merge inside a Polynomial.
func (t Term) Compare(o Term) int {
	if c := cmp.Compare(o.exponent, t.exponent); c != 0 {
		return c
	}
	return strings.Compare(t.variable, o.variable)
}

// String renders the term with its own sign, e.g. "3x^2", "-x", "0.5x", "-7".
func (t Term) String() string {
	if t.coefficient == 0 {
		return "0"
	}

	var sb strings.Builder
	if t.coefficient < 0 {
		sb.WriteByte('-')
	}
	abs := math.Abs(t.coefficient)
	if abs != 1 || t.variable == "" {
		sb.WriteString(formatCoefficient(abs))
	}
	if t.variable != "" {
		sb.WriteString(t.variable)
		if t.exponent != 1 {
			sb.WriteByte('^')
			sb.WriteString(strconv.Itoa(t.exponent))
		}
	}
	return sb.String()
}

// formatCoefficient prints whole numbers without a fraction part and everything else with
// at most two decimals.
func formatCoefficient(abs float64) string {
	if abs == math.Trunc(abs) {
		return strconv.FormatFloat(abs, 'f', 0, 64)
	}
	s := strconv.FormatFloat(abs, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "0" {
		// too small for two decimals
		return strconv.FormatFloat(abs, 'g', 3, 64)
	}
	return s
}
