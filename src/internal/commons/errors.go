package commons

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

// Validation marks err as a request validation failure.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
