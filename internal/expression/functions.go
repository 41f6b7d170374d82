package expression

import (
	"math"

	"github.com/duke-git/lancet/v2/mathutil"

	"yqhp/calc-engine/pkg/calcerr"
)

// cosEpsilon is how close cos(x) may get to zero before tan(x) is treated as undefined.
const cosEpsilon = 1e-12

// ApplyFunction evaluates a unary function. Trigonometric operands are read in the given
// angle unit.
func ApplyFunction(name string, operand float64, unit AngleUnit) (float64, error) {
	x := operand
	switch name {
	case "sin", "cos", "tan":
		if unit == Degrees {
			x = mathutil.AngleToRadian(operand)
		}
	}

	switch name {
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		if unit == Degrees && math.Abs(math.Mod(operand, 180)) == 90 {
			return 0, calcerr.NewInvalidDomain("tan is undefined at %v degrees", operand)
		}
		if math.Abs(math.Cos(x)) < cosEpsilon {
			return 0, calcerr.NewInvalidDomain("tan is undefined at %v radians", x)
		}
		return math.Tan(x), nil
	case "log":
		if operand <= 0 {
			return 0, calcerr.NewInvalidDomain("log is undefined for %v", operand)
		}
		return math.Log10(operand), nil
	case "ln":
		if operand <= 0 {
			return 0, calcerr.NewInvalidDomain("ln is undefined for %v", operand)
		}
		return math.Log(operand), nil
	case "sqrt":
		if operand < 0 {
			return 0, calcerr.NewInvalidDomain("sqrt of negative number %v", operand)
		}
		return math.Sqrt(operand), nil
	default:
		return 0, calcerr.NewParseError(-1, "unknown function %q", name)
	}
}
