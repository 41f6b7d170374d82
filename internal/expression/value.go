package expression

import (
	"fmt"
	"strings"

	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/rational"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindRational ValueKind = iota
	KindFloat
)

// String returns the string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindRational:
		return "rational"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value is the result of a numeric evaluation: either an exact Rational or a float64.
type Value struct {
	kind ValueKind
	rat  rational.Rational
	f    float64
}

// RationalValue wraps r.
func RationalValue(r rational.Rational) Value {
	return Value{kind: KindRational, rat: r}
}

// FloatValue wraps f.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Rational returns the exact value and whether v holds one.
func (v Value) Rational() (rational.Rational, bool) {
	return v.rat, v.kind == KindRational
}

// Float64 converts v to float64 whatever its kind.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindRational:
		return v.rat.Float64()
	case KindFloat:
		return v.f
	default:
		panic(fmt.Sprintf("expression: invalid value kind %d", v.kind))
	}
}

// toRational converts v to a Rational, approximating floats with denominators up to maxDen.
func (v Value) toRational(maxDen int64) (rational.Rational, error) {
	switch v.kind {
	case KindRational:
		return v.rat, nil
	case KindFloat:
		return rational.FromFloat(v.f, maxDen)
	default:
		panic(fmt.Sprintf("expression: invalid value kind %d", v.kind))
	}
}

// String formats v for display.
func (v Value) String() string {
	return Format(v)
}

// AngleUnit selects how trigonometric operands are interpreted.
type AngleUnit int

const (
	Degrees AngleUnit = iota
	Radians
)

// String returns the string representation of the angle unit.
func (u AngleUnit) String() string {
	if u == Radians {
		return "radians"
	}
	return "degrees"
}

// ParseAngleUnit accepts "degrees", "deg", "radians" and "rad" in any case.
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrees", "degree", "deg":
		return Degrees, nil
	case "radians", "radian", "rad":
		return Radians, nil
	default:
		return Degrees, calcerr.NewParseError(-1, "unknown angle unit %q", s)
	}
}
