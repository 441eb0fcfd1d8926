package calculator

import "fmt"

// ValidationError reports a structurally invalid input record: a NaN or
// negative amount, or a participant link that resolves to nobody. The
// computation that raised it returns nothing partial.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
