package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a directory has no manifest file.
	ErrNotFound = errors.New("manifest not found")

	// ErrMalformed is matched by every parse and validation failure.
	ErrMalformed = errors.New("malformed manifest")
)

// ParseError reports a manifest that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing manifest %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrMalformed and the decoder error.
func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// ValidationError reports a manifest that decoded but violates the schema.
type ValidationError struct {
	Path   string
	Issues []ValidationIssue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("invalid manifest %s", e.Path)
	}
	first := e.Issues[0]
	msg := fmt.Sprintf("invalid manifest %s: %s", e.Path, first.Message)
	if first.Path != "" {
		msg = fmt.Sprintf("invalid manifest %s: %s: %s", e.Path, first.Path, first.Message)
	}
	if extra := len(e.Issues) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Unwrap returns ErrMalformed.
func (e *ValidationError) Unwrap() error {
	return ErrMalformed
}
