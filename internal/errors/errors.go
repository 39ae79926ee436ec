package errors

import (
	"errors"
	"fmt"
)

// Common error types for the admin console
var (
	// Session errors
	ErrMalformedToken = errors.New("malformed token")

	// Scope errors
	ErrMissingScope = errors.New("no project scope selected")

	// Flow errors
	ErrInvalidStage = errors.New("operation not valid in current stage")
	ErrNotConfirmed = errors.New("action not confirmed")

	// Validation errors
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
