package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core. Handlers and the client match on these
// with errors.Is; richer context is carried in the wrapped message.
var (
	ErrValidation        = errors.New("validation failed")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrRemoteFailure     = errors.New("remote call failed")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func IllegalTransitionf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrIllegalTransition)...)
}

func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}
