package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed input before any core operation runs.
// It enumerates the offending fields so the boundary layer can surface
// them individually.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string]string)}
}

// Add records a problem with a field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = message
	}
}

// Fields returns the offending fields and their messages.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// ErrOrNil returns the error if any field was recorded, nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if len(e.fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.fields))
	for field := range e.fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, field := range names {
		parts[i] = fmt.Sprintf("%s: %s", field, e.fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
