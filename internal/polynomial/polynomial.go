package polynomial

import (
	"math"
	"slices"
	"strings"
)

// Epsilon is the magnitude below which a merged coefficient counts as zero.
const Epsilon = 1e-9

// Polynomial is a sum of terms kept in canonical order with unique (variable, exponent)
// keys. The zero value is the zero polynomial.
type Polynomial struct {
	terms []Term
}

// New builds a polynomial by adding each term in turn.
func New(terms ...Term) Polynomial {
	var p Polynomial
	for _, t := range terms {
		p.AddTerm(t)
	}
	return p
}

// AddTerm merges t into p. A like term has its coefficient summed and is removed when the
// sum falls below Epsilon; otherwise t is inserted at its sorted position.
func (p *Polynomial) AddTerm(t Term) {
	if t.coefficient == 0 {
		return
	}
	i, found := slices.BinarySearchFunc(p.terms, t, Term.Compare)
	if !found {
		p.terms = slices.Insert(p.terms, i, t)
		return
	}
	sum := p.terms[i].coefficient + t.coefficient
	if math.Abs(sum) < Epsilon {
		p.terms = slices.Delete(p.terms, i, i+1)
		return
	}
	p.terms[i] = NewTerm(sum, t.variable, t.exponent)
}

// Terms returns a copy of the terms in canonical order.
func (p Polynomial) Terms() []Term {
	return slices.Clone(p.terms)
}

// Len returns the number of terms.
func (p Polynomial) Len() int { return len(p.terms) }

// IsZero reports whether p is the zero polynomial.
func (p Polynomial) IsZero() bool { return len(p.terms) == 0 }

// Clone returns an independent copy of p.
func (p Polynomial) Clone() Polynomial {
	return Polynomial{terms: slices.Clone(p.terms)}
}

// Add returns p + o.
func (p Polynomial) Add(o Polynomial) Polynomial {
	res := p.Clone()
	for _, t := range o.terms {
		res.AddTerm(t)
	}
	return res
}

// Sub returns p - o.
func (p Polynomial) Sub(o Polynomial) Polynomial {
	res := p.Clone()
	for _, t := range o.terms {
		res.AddTerm(t.Neg())
	}
	return res
}

// Mul returns the pairwise product of p and o. It fails with UnsupportedOperation when two
// non-constant terms use different variables.
func (p Polynomial) Mul(o Polynomial) (Polynomial, error) {
	var res Polynomial
	if p.IsZero() || o.IsZero() {
		return res, nil
	}
	for _, a := range p.terms {
		for _, b := range o.terms {
			t, err := a.Multiply(b)
			if err != nil {
				return Polynomial{}, err
			}
			res.AddTerm(t)
		}
	}
	return res, nil
}

// Scale returns p with every coefficient multiplied by k.
func (p Polynomial) Scale(k float64) Polynomial {
	var res Polynomial
	for _, t := range p.terms {
		res.AddTerm(NewTerm(t.coefficient*k, t.variable, t.exponent))
	}
	return res
}

// Degree returns the largest exponent among non-constant terms, or 0 when there are none.
func (p Polynomial) Degree() int {
	degree := 0
	for _, t := range p.terms {
		if t.variable != "" && math.Abs(t.coefficient) > Epsilon && t.exponent > degree {
			degree = t.exponent
		}
	}
	return degree
}

// HasNegativeExponent reports whether any term has an exponent below zero.
func (p Polynomial) HasNegativeExponent() bool {
	return slices.ContainsFunc(p.terms, func(t Term) bool { return t.exponent < 0 })
}

// Coefficient returns the coefficient of variable^exponent, or 0 when absent. An exponent of
// 0 always refers to the constant term.
func (p Polynomial) Coefficient(variable string, exponent int) float64 {
	key := NewTerm(1, variable, exponent)
	if i, found := slices.BinarySearchFunc(p.terms, key, Term.Compare); found {
		return p.terms[i].coefficient
	}
	return 0
}

// Constant returns the constant term.
func (p Polynomial) Constant() float64 {
	return p.Coefficient("", 0)
}

// Variables returns the distinct variable names in lexical order.
func (p Polynomial) Variables() []string {
	var vars []string
	for _, t := range p.terms {
		if t.variable != "" && !slices.Contains(vars, t.variable) {
			vars = append(vars, t.variable)
		}
	}
	slices.Sort(vars)
	return vars
}

// Evaluate substitutes x for the variable and returns the value.
func (p Polynomial) Evaluate(x float64) float64 {
	var sum float64
	for _, t := range p.terms {
		if t.variable == "" {
			sum += t.coefficient
			continue
		}
		sum += t.coefficient * math.Pow(x, float64(t.exponent))
	}
	return sum
}

// String renders p in canonical order, e.g. "3x^2 + 2x - 5". The zero polynomial is "0".
func (p Polynomial) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.terms {
		switch {
		case i == 0:
			sb.WriteString(t.String())
		case t.coefficient > 0:
			sb.WriteString(" + ")
			sb.WriteString(t.String())
		default:
			sb.WriteString(" - ")
			sb.WriteString(t.Abs().String())
		}
	}
	return sb.String()
}
