package transaction

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a transaction does not exist or was deleted.
var ErrNotFound = errors.New("transaction not found")

// ValidationError describes a rejected form field. It is surfaced to the user
// as-is and never treated as fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
