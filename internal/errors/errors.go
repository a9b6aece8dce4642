package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Schema errors (SCHEMA-001 to SCHEMA-099)
	ErrCodeSchemaNotFound    ErrorCode = "SCHEMA-001"
	ErrCodeSchemaInvalid     ErrorCode = "SCHEMA-002"
	ErrCodeSchemaUnmarshal   ErrorCode = "SCHEMA-003"
	ErrCodeSpecEntryInvalid  ErrorCode = "SCHEMA-004"
	ErrCodeSpecEntryConflict ErrorCode = "SCHEMA-005"

	// Resolution errors (RESOLVE-001 to RESOLVE-099)
	ErrCodeResolveFileUnreadable ErrorCode = "RESOLVE-001"
	ErrCodeResolveFragmentDead   ErrorCode = "RESOLVE-002"
	ErrCodeResolveCycle          ErrorCode = "RESOLVE-003"
	ErrCodeResolveIncomplete     ErrorCode = "RESOLVE-004"

	// Traversal errors (TRAVERSE-001 to TRAVERSE-099)
	ErrCodePropertyNotFound ErrorCode = "TRAVERSE-001"
	ErrCodeVariantNotFound  ErrorCode = "TRAVERSE-002"

	// Generation errors (GEN-001 to GEN-099)
	ErrCodeGenUnsupportedNode ErrorCode = "GEN-001"
	ErrCodeGenIdentifier      ErrorCode = "GEN-002"
	ErrCodeBlueprintInvalid   ErrorCode = "GEN-003"

	// Story errors (STORY-001 to STORY-099)
	ErrCodeStoryMalformed ErrorCode = "STORY-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// PipelineError represents an enhanced error with code and suggestions
type PipelineError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// New creates a new PipelineError
func New(code ErrorCode, message string) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PipelineError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PipelineError) WithSuggestions(suggestions ...string) *PipelineError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewSchemaNotFoundError creates a schema file not found error
func NewSchemaNotFoundError(path string) *PipelineError {
	return New(ErrCodeSchemaNotFound, fmt.Sprintf("schema file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Set the schema directory via --schema-dir or SCHEMAPIPE_SCHEMA_DIR")
}

// NewSchemaInvalidError creates a schema validation error
func NewSchemaInvalidError(details string) *PipelineError {
	return New(ErrCodeSchemaInvalid, fmt.Sprintf("invalid schema: %s", details)).
		WithSuggestion("Run 'schemapipe resolve' to see which subtrees fail to resolve")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *PipelineError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Check schemapipe.json for missing or out-of-range values")
}

// NewBlueprintInvalidError creates a blueprint validation error
func NewBlueprintInvalidError(path string, count int) *PipelineError {
	return New(ErrCodeBlueprintInvalid,
		fmt.Sprintf("generated module for %q failed validation with %d error(s)", path, count)).
		WithSuggestion("Run 'schemapipe validate' to see the structured issue list")
}
