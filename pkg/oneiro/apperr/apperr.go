// Package apperr defines the error taxonomy shared by the tag registry and
// the dream log store. Handlers map these sentinels onto HTTP statuses; any
// error outside this set is an unexpected storage failure and must be masked
// before it reaches a client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("name already exists")
	ErrHasAssociations = errors.New("resource has associations")
	ErrValidation      = errors.New("invalid input")
)

// Error pairs one of the sentinel kinds above with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// WithMessage attaches a user-facing message to a sentinel kind. The result
// still matches the kind under errors.Is.
func WithMessage(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error with a caller-facing message.
func Validation(format string, args ...interface{}) error {
	return WithMessage(ErrValidation, format, args...)
}

// StatusCode maps an error to the HTTP status a handler should respond with.
// Unrecognized errors map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrHasAssociations):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsExpected reports whether err belongs to the taxonomy above. Anything
// unexpected should be logged server-side and replaced with a generic
// message in the response.
func IsExpected(err error) bool {
	return StatusCode(err) != http.StatusInternalServerError
}
