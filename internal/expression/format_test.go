package expression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"yqhp/calc-engine/pkg/rational"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{14, "14"},
		{-3, "-3"},
		{0, "0"},
		{2.5, "2.5"},
		{1.0 / 3, "0.3333333333"},
		{-0.125, "-0.125"},
		{1e13 + 0.5, "1.000000E+13"},
		{1.2246467991473532e-16, "1.224647E-16"},
		{123456789.123456789, "1.234568E+08"},
		{math.NaN(), NumericError},
		{math.Inf(-1), NumericError},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestFormat_Value(t *testing.T) {
	r, err := rational.New(-6, 8)
	assert.NoError(t, err)

	assert.Equal(t, "-3/4", Format(RationalValue(r)))
	assert.Equal(t, "5", Format(RationalValue(rational.FromInt(5))))
	assert.Equal(t, "0.75", FloatValue(0.75).String())
}
