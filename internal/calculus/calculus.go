// Package calculus differentiates and integrates polynomials given in text form.
//
// Differentiate and Integrate never return errors: any failure is reported inside the
// returned display string. Derivative, Antiderivative and DefiniteIntegral are the typed
// counterparts for callers that want errors.
package calculus

import (
	"errors"
	"math"

	"yqhp/calc-engine/internal/polynomial"
	"yqhp/calc-engine/pkg/calcerr"
)

const (
	couldNotDifferentiate = "Error: Could not differentiate."
	couldNotIntegrate     = "Error: Could not integrate."
)

// LogarithmicTermError reports a c*x^-1 term, whose antiderivative is a logarithm.
type LogarithmicTermError struct {
	Variable string
}

func (e *LogarithmicTermError) Error() string {
	return "Integral of 1/" + e.Variable + " involves ln"
}

// Unwrap classifies the error as an unsupported operation.
func (e *LogarithmicTermError) Unwrap() error {
	return calcerr.NewUnsupported("%s", e.Error())
}

// Derivative returns dp/dx term by term. Constants vanish.
func Derivative(p polynomial.Polynomial) polynomial.Polynomial {
	var d polynomial.Polynomial
	for _, t := range p.Terms() {
		if t.IsConstant() {
			continue
		}
		d.AddTerm(polynomial.NewTerm(t.Coefficient()*float64(t.Exponent()), t.Variable(), t.Exponent()-1))
	}
	return d
}

// Antiderivative returns the antiderivative of p without the constant of integration.
// Terms in x^-1 fail with a LogarithmicTermError.
func Antiderivative(p polynomial.Polynomial) (polynomial.Polynomial, error) {
	variable := polynomial.DefaultVariable
	if vars := p.Variables(); len(vars) > 0 {
		variable = vars[0]
	}

	var res polynomial.Polynomial
	for _, t := range p.Terms() {
		v := t.Variable()
		if v == "" {
			v = variable
		}
		exp := t.Exponent() + 1
		if exp == 0 {
			return polynomial.Polynomial{}, &LogarithmicTermError{Variable: v}
		}
		c := t.Coefficient() / float64(exp)
		if math.Abs(c) > polynomial.Epsilon {
			res.AddTerm(polynomial.NewTerm(c, v, exp))
		}
	}
	return res, nil
}

// Differentiate parses expr and renders its derivative. A blank input yields "0".
func Differentiate(expr string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = couldNotDifferentiate
		}
	}()

	p, err := polynomial.Parse(expr)
	if err != nil {
		return "Error (Diff): " + err.Error()
	}
	return Derivative(p).String()
}

// Integrate parses expr and renders its indefinite integral followed by " + C". The
// integral of zero, including a blank input, is "C".
func Integrate(expr string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = couldNotIntegrate
		}
	}()

	p, err := polynomial.Parse(expr)
	if err != nil {
		return "Error (Integ): " + err.Error()
	}
	integral, err := Antiderivative(p)
	if err != nil {
		var logErr *LogarithmicTermError
		if errors.As(err, &logErr) {
			return "Error: " + logErr.Error()
		}
		return "Error (Integ): " + err.Error()
	}
	if integral.IsZero() {
		return "C"
	}
	return integral.String() + " + C"
}

// DefiniteIntegral returns the integral of expr from a to b.
func DefiniteIntegral(expr string, a, b float64) (float64, error) {
	p, err := polynomial.Parse(expr)
	if err != nil {
		return 0, err
	}
	integral, err := Antiderivative(p)
	if err != nil {
		return 0, err
	}
	return integral.Evaluate(b) - integral.Evaluate(a), nil
}
