package brackets

import (
	"errors"
	"fmt"
)

// Engine errors. Every error returned by this package wraps exactly one of the first four, so
// callers can classify with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")

	ErrNotPowerOfTwo = fmt.Errorf("%w: size must be a positive power of two", ErrInvalidInput)
	ErrTiedScore     = fmt.Errorf("%w: a match cannot end in a tie", ErrInvalidInput)
)
