package calcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpressionError_Message(t *testing.T) {
	err := NewParseError(3, "unexpected %q", "%")
	assert.Equal(t, `ParseError at position 3: unexpected "%"`, err.Error())

	err = NewDivisionByZero("division by zero")
	assert.Equal(t, "DivisionByZero: division by zero", err.Error())
}

func TestExpressionError_Is(t *testing.T) {
	err := fmt.Errorf("evaluate: %w", NewInvalidDomain("sqrt of negative"))

	assert.True(t, errors.Is(err, ErrInvalidDomain))
	assert.False(t, errors.Is(err, ErrDivisionByZero))
	assert.Equal(t, KindInvalidDomain, KindOf(err))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("strconv: bad digit")
	err := Wrap(KindParse, 0, cause, "invalid number %s", "1.2.3")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "strconv: bad digit")
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "Unknown", KindUnknown.String())
}
