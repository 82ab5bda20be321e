package hojaruta

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidTransition is returned when the lifecycle forbids the change.
	ErrInvalidTransition = errors.New("invalid estado transition")
	// ErrSeccionNotFound is returned for ordinals outside the section list.
	ErrSeccionNotFound = errors.New("seccion not found")
)

// ValidationError lists every problem found in an input.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
