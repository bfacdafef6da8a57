package services

import "errors"

var (
	// ErrForbidden means the caller is not the owning teacher.
	ErrForbidden = errors.New("caller does not own this course")
	// ErrConflict means a conditional write lost a race with a concurrent
	// update. Callers are expected to re-read and retry; nothing retries
	// automatically.
	ErrConflict = errors.New("course was modified concurrently")
)

// ValidationError marks missing or malformed input. The message is safe to
// echo to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(msg string) error {
	return &ValidationError{Message: msg}
}
