package helper

import "fmt"

// Error wraps an original error with a short trace of the failing step.
type Error struct {
	Original error
	Trace    string
}

// NewError creates a new Error. The trace should name the step that failed,
// e.g. "read example file".
func NewError(trace string, original error) error {
	return &Error{
		Original: original,
		Trace:    trace,
	}
}

// Error returns the trace followed by the original error message.
func (e *Error) Error() string {
	if e.Original == nil {
		return e.Trace
	}
	return fmt.Sprintf("%s: %s", e.Trace, e.Original.Error())
}

// Unwrap returns the original error so errors.Is and errors.As keep working.
func (e *Error) Unwrap() error {
	return e.Original
}
