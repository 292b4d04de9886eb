package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UnsupportedError marks repository operations the backend does not
// expose. Callers get a typed error instead of a generic failure so the
// unsupported path is recognizable.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation not supported: %s", e.Op)
}

func NewUnsupportedError(op string) *UnsupportedError {
	return &UnsupportedError{Op: op}
}

// IsNotFoundError checks if error represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnsupportedError checks if error represents an unsupported operation.
func IsUnsupportedError(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}
