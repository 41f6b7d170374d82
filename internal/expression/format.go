package expression

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumericError is shown in place of a non-finite floating-point result.
const NumericError = "Error (Num)"

// Format renders a value for display. Rationals print as "n" or "n/d". Floats print as
// whole numbers when integral, otherwise with up to ten decimals, and switch to scientific
// notation when very large, very small or too long.
func Format(v Value) string {
	switch v.Kind() {
	case KindRational:
		r, _ := v.Rational()
		return r.String()
	case KindFloat:
		return FormatFloat(v.Float64())
	default:
		return NumericError
	}
}

// FormatFloat applies the display rules of Format to a float64.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NumericError
	}
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return strconv.FormatInt(int64(f), 10)
	}
	s := trimZeros(strconv.FormatFloat(f, 'f', 10, 64))
	abs := math.Abs(f)
	if len(s) > 18 || abs > 1e12 || (abs < 1e-6 && f != 0) {
		return fmt.Sprintf("%.6E", f)
	}
	return s
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
