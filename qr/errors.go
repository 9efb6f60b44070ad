package qr

import "fmt"

// InvalidInputError reports text or layout parameters that cannot be encoded.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// InvalidColorError reports a color that is not a #RRGGBB hex string.
type InvalidColorError struct {
	Value  string
	Reason string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color %q: %s", e.Value, e.Reason)
}

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
