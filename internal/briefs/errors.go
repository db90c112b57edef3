package briefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the brief id did not resolve to a record.
	ErrNotFound = errors.New("brief not found")
	// ErrDuplicateSubmission means the brief was already submitted. Benign:
	// the caller gets a rejection, the stored record is untouched.
	ErrDuplicateSubmission = errors.New("brief has already been submitted")
)

// ValidationError reports malformed or missing input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
