// Package errs defines the typed failures returned by the calculation core.
//
// Every failure carries a Code. Callers branch on the code with HasCode or
// errors.Is against the kind sentinels, never on message text.
package errs

import (
	"errors"
	"fmt"
)

// Code classifies a calculation failure.
type Code string

const (
	// CodeInvalidInput covers non-positive or non-finite dimensions, masses,
	// SSAs, ERVs, unknown lookup keys and unsanctioned mass loadings.
	CodeInvalidInput Code = "invalid_input"

	// CodeDivisionByZero is returned when a formula denominator (object mass,
	// Pb released) is zero or negative.
	CodeDivisionByZero Code = "division_by_zero"
)

// Kind sentinels for errors.Is.
var (
	ErrInvalidInput   = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrDivisionByZero = &Error{Code: CodeDivisionByZero, Message: "division by zero"}
)

// Error is a coded calculation failure. Field names the offending input when known.
type Error struct {
	Code    Code
	Field   string
	Message string
	Value   float64
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New returns a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Field returns a coded error naming the input that caused it.
func Field(code Code, field string, value float64, message string) *Error {
	return &Error{Code: code, Field: field, Value: value, Message: message}
}

// Newf formats a message for a coded error.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err, or anything it wraps, is an Error with code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf returns the code of err, or "" when err is not coded.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
