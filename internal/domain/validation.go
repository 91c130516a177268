package domain

import (
	"fmt"
	"strings"
)

// Violation is a single business-rule failure discovered during validation
type Violation struct {
	Field   string
	Message string
}

// ValidationError aggregates every violation found while validating an
// operation, so a caller can correct the whole request at once instead of
// replaying it failure by failure.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// HasViolations reports whether any violation was collected
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}
