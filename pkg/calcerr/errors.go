// Package calcerr defines the error taxonomy shared by every layer of the calculator engine.
package calcerr

import (
	"errors"
	"fmt"
)

// Kind classifies an ExpressionError.
type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindArity
	KindInvalidDomain
	KindDivisionByZero
	KindUnsupportedOperation
	KindUnrecognizedSymbolicForm
	KindMalformedExpression
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindArity:
		return "ArityError"
	case KindInvalidDomain:
		return "InvalidDomain"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindUnsupportedOperation:
		return "UnsupportedOperation"
	case KindUnrecognizedSymbolicForm:
		return "UnrecognizedSymbolicForm"
	case KindMalformedExpression:
		return "MalformedExpression"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. Any ExpressionError matches the sentinel of its own kind.
var (
	ErrParse                    = &ExpressionError{Kind: KindParse, Position: -1}
	ErrArity                    = &ExpressionError{Kind: KindArity, Position: -1}
	ErrInvalidDomain            = &ExpressionError{Kind: KindInvalidDomain, Position: -1}
	ErrDivisionByZero           = &ExpressionError{Kind: KindDivisionByZero, Position: -1}
	ErrUnsupportedOperation     = &ExpressionError{Kind: KindUnsupportedOperation, Position: -1}
	ErrUnrecognizedSymbolicForm = &ExpressionError{Kind: KindUnrecognizedSymbolicForm, Position: -1}
	ErrMalformedExpression      = &ExpressionError{Kind: KindMalformedExpression, Position: -1}
)

// ExpressionError represents an error during expression parsing or evaluation.
type ExpressionError struct {
	Kind     Kind
	Position int    // Position in the expression where the error occurred, -1 if unknown
	Message  string // Error message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Position >= 0 {
		msg = fmt.Sprintf("%s at position %d: %s", e.Kind, e.Position, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ExpressionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of the same kind.
func (e *ExpressionError) Is(target error) bool {
	t, ok := target.(*ExpressionError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Cause == nil
}

func newError(kind Kind, pos int, format string, args ...any) *ExpressionError {
	return &ExpressionError{
		Kind:     kind,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewParseError creates a ParseError at pos.
func NewParseError(pos int, format string, args ...any) *ExpressionError {
	return newError(KindParse, pos, format, args...)
}

// NewArityError creates an ArityError for an operator or function missing operands.
func NewArityError(pos int, format string, args ...any) *ExpressionError {
	return newError(KindArity, pos, format, args...)
}

// NewInvalidDomain creates an InvalidDomain error.
func NewInvalidDomain(format string, args ...any) *ExpressionError {
	return newError(KindInvalidDomain, -1, format, args...)
}

// NewDivisionByZero creates a DivisionByZero error.
func NewDivisionByZero(format string, args ...any) *ExpressionError {
	return newError(KindDivisionByZero, -1, format, args...)
}

// NewUnsupported creates an UnsupportedOperation error.
func NewUnsupported(format string, args ...any) *ExpressionError {
	return newError(KindUnsupportedOperation, -1, format, args...)
}

// NewUnrecognizedSymbolicForm creates an UnrecognizedSymbolicForm error.
func NewUnrecognizedSymbolicForm(format string, args ...any) *ExpressionError {
	return newError(KindUnrecognizedSymbolicForm, -1, format, args...)
}

// NewMalformedExpression creates a MalformedExpression error.
func NewMalformedExpression(format string, args ...any) *ExpressionError {
	return newError(KindMalformedExpression, -1, format, args...)
}

// Wrap creates an ExpressionError of the given kind that keeps cause in its chain.
func Wrap(kind Kind, pos int, cause error, format string, args ...any) *ExpressionError {
	e := newError(kind, pos, format, args...)
	e.Cause = cause
	return e
}

// KindOf returns the kind of the first ExpressionError in err's chain.
func KindOf(err error) Kind {
	var ee *ExpressionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindUnknown
}
