package types

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel every InputError unwraps to.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a caller-supplied value rejected before any hashing
// or allocation takes place.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInputError constructs an InputError.
func NewInputError(field, value, reason string) error {
	return &InputError{Field: field, Value: value, Reason: reason}
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
