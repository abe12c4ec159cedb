package types

import "fmt"

// ValidationError is a local input failure detected before any request is sent.
// Message is already phrased for the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid returns a *ValidationError with the given user-facing message.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
