// Package errors provides a lightweight structured error type (BuildError)
// for category-based classification across the docweave CLI and library.
package errors

import (
	"fmt"
)

// Category classifies a BuildError for reporting and exit-code mapping.
type Category string

const (
	// User-facing configuration and input errors
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"

	// External process and builder errors
	CategoryExec   Category = "exec"
	CategorySphinx Category = "sphinx"

	// Source processing errors
	CategoryScan   Category = "scan"
	CategoryLint   Category = "lint"
	CategoryVerify Category = "verify"

	// Runtime and infrastructure errors
	CategoryFileSystem Category = "filesystem"
	CategoryState      Category = "state"
	CategoryEvents     Category = "events"
	CategoryInternal   Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops execution
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded functionality
)

// ContextFields carries structured context for a BuildError.
type ContextFields map[string]any

// BuildError is a structured error with category, severity, and context.
type BuildError struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuildError.
func New(category Category, severity Severity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error.
func Wrap(err error, category Category, severity Severity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// ValidationError creates a configuration-validation error. This is the kind
// raised for unrecognized option values before any external work starts.
func ValidationError(message string) *BuildError {
	return &BuildError{
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// ExecError wraps a subprocess failure.
func ExecError(err error, message string) *BuildError {
	return &BuildError{
		Category: CategoryExec,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// WrapError wraps an existing error at SeverityError.
func WrapError(err error, category Category, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category Category) bool {
	if be, ok := err.(*BuildError); ok {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if it is not a BuildError.
func GetCategory(err error) Category {
	if be, ok := err.(*BuildError); ok {
		return be.Category
	}
	return CategoryInternal
}
