package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched (via errors.Is) by every resolution failure.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which input was rejected and why.
type InputError struct {
	Path   string
	Reason string
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input %s: %s", e.Path, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
