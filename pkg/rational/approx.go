package rational

import (
	"math"

	"yqhp/calc-engine/pkg/calcerr"
)

// maxExact is the largest magnitude whose numerator/denominator products stay inside int64
// during the continued fraction expansion.
const maxExact = float64(1 << 62)

// FromFloat returns the rational closest to f whose denominator does not exceed maxDen.
// It walks the continued fraction convergents of f and, once the next convergent would
// exceed maxDen, compares the last convergent against the best semiconvergent.
func FromFloat(f float64, maxDen int64) (Rational, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rational{}, calcerr.NewInvalidDomain("cannot convert %v to a fraction", f)
	}
	if maxDen < 1 {
		maxDen = 1
	}
	if f == 0 {
		return Zero, nil
	}

	var sign int64 = 1
	if f < 0 {
		sign = -1
		f = -f
	}
	if f >= maxExact {
		return Rational{}, calcerr.NewInvalidDomain("%g is too large to represent as a fraction", f)
	}
	if f == math.Floor(f) {
		return FromInt(sign * int64(f)), nil
	}

	// h/k are the numerators/denominators of the last two convergents.
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := f
	for {
		a := math.Floor(x)
		if a*float64(k1)+float64(k0) > float64(maxDen) || a*float64(h1)+float64(h0) >= maxExact {
			if k1 == 0 {
				// f itself is beyond reach; round to the nearest integer
				return FromInt(sign * int64(math.Round(f))), nil
			}
			t := (maxDen - k0) / k1
			if t > 0 {
				sh, sk := t*h1+h0, t*k1+k0
				if math.Abs(f-float64(sh)/float64(sk)) < math.Abs(f-float64(h1)/float64(k1)) {
					h1, k1 = sh, sk
				}
			}
			break
		}
		ai := int64(a)
		h0, h1 = h1, ai*h1+h0
		k0, k1 = k1, ai*k1+k0

		frac := x - a
		if frac == 0 || float64(h1)/float64(k1) == f {
			break
		}
		x = 1 / frac
	}
	return normalize(sign*h1, k1), nil
}
