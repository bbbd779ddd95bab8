package scenario

import "fmt"

// ValidationError reports an inconsistent or incomplete scenario
// configuration. The message names the offending field and value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MergeConflictError reports two scenario fragments that define the same
// entity with differing fields.
type MergeConflictError struct {
	// Kind is the entity kind, e.g. "repository" or "branch".
	Kind string
	// Key is the formatted identity key, e.g. "alice/demo".
	Key string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("Conflicting %s definition for %s", e.Kind, e.Key)
}
