package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad input. Handlers answer 400 with the message.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited is returned once an identity has used its analysis quota.
	ErrRateLimited = errors.New("rate limit exceeded")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
