package solution

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel wrapped by every ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a rejected argument: a missing required value or a
// string containing characters the solution file format reserves.
type ArgumentError struct {
	// Param names the offending parameter (e.g., "key", "solution")
	Param string

	// Reason describes what is wrong with it
	Reason string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Reason)
}

// Unwrap returns ErrInvalidArgument so callers can use errors.Is.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// NewArgumentError creates an ArgumentError for param.
func NewArgumentError(param, reason string) *ArgumentError {
	return &ArgumentError{Param: param, Reason: reason}
}

// ParseError represents an error during solution file parsing
type ParseError struct {
	// FilePath is the path to the file being parsed
	FilePath string

	// Line is the line number where the error occurred
	Line int

	// Message describes what went wrong
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}
