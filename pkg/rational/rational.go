// Package rational implements exact fractions over int64 with a normalized representation.
//
// A Rational is always stored in lowest terms with a positive denominator, and zero is
// always 0/1. Values are immutable: every operation returns a new normalized value.
package rational

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/duke-git/lancet/v2/mathutil"

	"yqhp/calc-engine/pkg/calcerr"
)

// DefaultMaxDenominator bounds the denominator search of FromFloat when the caller does not
// supply its own bound.
const DefaultMaxDenominator int64 = 1_000_000

// Rational is an exact numerator/denominator pair.
type Rational struct {
	num int64
	den int64
}

var (
	Zero = Rational{num: 0, den: 1}
	One  = Rational{num: 1, den: 1}
)

// New returns num/den in lowest terms.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, calcerr.NewDivisionByZero("denominator cannot be zero")
	}
	return normalize(num, den), nil
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{num: n, den: 1}
}

func normalize(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Zero
	}
	g := mathutil.GCD(abs(num), den)
	return Rational{num: num / g, den: den / g}
}

func overflow(format string, args ...any) error {
	return calcerr.NewInvalidDomain("integer overflow in "+format, args...)
}

// mulInt64 multiplies a and b, reporting false when the product leaves (-2^63, 2^63).
// math.MinInt64 is excluded so results can always be negated.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uabs(a), uabs(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		return -int64(lo), true
	}
	return int64(lo), true
}

// addInt64 adds a and b with the same range as mulInt64.
func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) || s == math.MinInt64 {
		return 0, false
	}
	return s, true
}

func uabs(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Numerator returns the numerator.
func (r Rational) Numerator() int64 { return r.num }

// Denominator returns the denominator, which is always positive.
func (r Rational) Denominator() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

// IsZero reports whether r is 0.
func (r Rational) IsZero() bool { return r.num == 0 }

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool { return r.Denominator() == 1 }

// Sign returns -1, 0 or 1.
func (r Rational) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	default:
		return 0
	}
}

// Add returns r + o. It fails with InvalidDomain when the result does not fit in int64.
func (r Rational) Add(o Rational) (Rational, error) {
	rd, od := r.Denominator(), o.Denominator()
	a, ok1 := mulInt64(r.num, od)
	b, ok2 := mulInt64(o.num, rd)
	den, ok3 := mulInt64(rd, od)
	num, ok4 := addInt64(a, b)
	if !(ok1 && ok2 && ok3 && ok4) {
		return Rational{}, overflow("%s + %s", r, o)
	}
	return normalize(num, den), nil
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) (Rational, error) {
	return r.Add(o.Neg())
}

// Mul returns r * o. It fails with InvalidDomain when the result does not fit in int64.
func (r Rational) Mul(o Rational) (Rational, error) {
	num, ok1 := mulInt64(r.num, o.num)
	den, ok2 := mulInt64(r.Denominator(), o.Denominator())
	if !ok1 || !ok2 {
		return Rational{}, overflow("%s * %s", r, o)
	}
	return normalize(num, den), nil
}

// Div returns r / o. It fails with DivisionByZero when o is zero.
func (r Rational) Div(o Rational) (Rational, error) {
	if o.num == 0 {
		return Rational{}, calcerr.NewDivisionByZero("cannot divide %s by zero", r)
	}
	num, ok1 := mulInt64(r.num, o.Denominator())
	den, ok2 := mulInt64(r.Denominator(), o.num)
	if !ok1 || !ok2 {
		return Rational{}, overflow("%s / %s", r, o)
	}
	return normalize(num, den), nil
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{num: -r.num, den: r.Denominator()}
}

// Inverse returns 1/r.
func (r Rational) Inverse() (Rational, error) {
	return One.Div(r)
}

// PowInt raises r to an integer power by repeated squaring. A zero base with a negative
// exponent, or a result outside int64, fails with InvalidDomain.
func (r Rational) PowInt(exp int64) (Rational, error) {
	if exp == 0 {
		return One, nil
	}
	n := exp
	if n < 0 {
		n = -n
	}
	if r.IsZero() && exp < 0 {
		return Rational{}, calcerr.NewInvalidDomain("zero cannot be raised to a negative power")
	}
	res, base := One, r
	var err error
	// square-and-multiply; base is only squared while higher bits remain
	for {
		if n&1 == 1 {
			if res, err = res.Mul(base); err != nil {
				return Rational{}, err
			}
		}
		n >>= 1
		if n == 0 {
			break
		}
		if base, err = base.Mul(base); err != nil {
			return Rational{}, err
		}
	}
	if exp > 0 {
		return res, nil
	}
	return normalize(res.Denominator(), res.num), nil
}

// Float64 returns the nearest float64.
func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.Denominator())
}

// Equal reports whether r and o are the same value.
func (r Rational) Equal(o Rational) bool {
	return r.num == o.num && r.Denominator() == o.Denominator()
}

// Cmp compares r and o and returns -1, 0 or +1.
func (r Rational) Cmp(o Rational) int {
	d, err := r.Sub(o)
	if err != nil {
		// the difference overflows, so the operands are far enough apart for float64
		switch a, b := r.Float64(), o.Float64(); {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return d.Sign()
}

// String renders "n" for whole numbers and "n/d" otherwise.
func (r Rational) String() string {
	if r.IsInteger() {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.den, 10)
}

// Parse parses "n/d" or "n". Decimal strings are rejected; callers convert those with
// FromFloat.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, calcerr.NewParseError(-1, "cannot parse empty string as a fraction")
	}
	numPart, denPart, isFrac := strings.Cut(s, "/")
	if !isFrac {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Rational{}, calcerr.Wrap(calcerr.KindParse, -1, err, "cannot parse %q as a whole number", s)
		}
		return FromInt(n), nil
	}
	if strings.Contains(denPart, "/") {
		return Rational{}, calcerr.NewParseError(-1, "invalid fraction %q: multiple slashes", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(numPart), 10, 64)
	if err != nil {
		return Rational{}, calcerr.Wrap(calcerr.KindParse, -1, err, "invalid fraction %q", s)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denPart), 10, 64)
	if err != nil {
		return Rational{}, calcerr.Wrap(calcerr.KindParse, -1, err, "invalid fraction %q", s)
	}
	return New(num, den)
}
