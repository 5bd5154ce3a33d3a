package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput wraps every validation failure except reply codes.
var ErrInvalidInput = errors.New("invalid input")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
