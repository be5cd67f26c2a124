package cmdtree

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dzonerzy/go-cmdtree/internal/arena"
	"github.com/dzonerzy/go-cmdtree/internal/dynarray"
)

// ErrorType represents error categories of tree construction and resolution.
// These categories drive exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeInvalidCapacity   ErrorType = "invalid_capacity"
	ErrorTypeOutOfCapacity     ErrorType = "out_of_capacity"
	ErrorTypeAllocationFailure ErrorType = "allocation_failure"
	ErrorTypeNotAGroup         ErrorType = "not_a_group"
	ErrorTypeNotAnAction       ErrorType = "not_an_action"
	ErrorTypeEmptyFlagName     ErrorType = "empty_flag_name"
	ErrorTypeIndexOutOfBounds  ErrorType = "index_out_of_bounds"
	ErrorTypeInvalidNode       ErrorType = "invalid_node"
	ErrorTypeSessionEnded      ErrorType = "session_ended"
	ErrorTypeUnknownCommand    ErrorType = "unknown_command"
	ErrorTypeIncompleteCommand ErrorType = "incomplete_command"
)

// Sentinel causes. Every *Error returned by a Session unwraps to one of
// these, so callers can test with errors.Is.
var (
	ErrInvalidCapacity   = arena.ErrInvalidCapacity
	ErrOutOfCapacity     = arena.ErrOutOfCapacity
	ErrAllocationFailure = dynarray.ErrAllocationFailure
	ErrIndexOutOfBounds  = dynarray.ErrIndexOutOfBounds

	ErrNotAGroup         = errors.New("cmdtree: not a group")
	ErrNotAnAction       = errors.New("cmdtree: not an action")
	ErrEmptyFlagName     = errors.New("cmdtree: empty flag name")
	ErrInvalidNode       = errors.New("cmdtree: invalid node reference")
	ErrSessionEnded      = errors.New("cmdtree: session ended")
	ErrUnknownCommand    = errors.New("cmdtree: unknown command")
	ErrIncompleteCommand = errors.New("cmdtree: incomplete command")
)

// Error is the categorised error returned by Session operations.
type Error struct {
	Type        ErrorType
	Message     string
	Token       string // Offending token, for resolution errors
	Suggestions []string
	Cause       error
	Context     map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Error builders for fluent API

// NewError creates a new Error with the given type and message
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:        typ,
		Message:     message,
		Suggestions: make([]string, 0),
		Context:     make(map[string]any),
	}
}

// WithToken records the token that caused the error
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithCause adds an underlying cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// classify maps a cause from the internal packages to its category.
func classify(err error) ErrorType {
	switch {
	case errors.Is(err, arena.ErrInvalidCapacity):
		return ErrorTypeInvalidCapacity
	case errors.Is(err, arena.ErrOutOfCapacity):
		return ErrorTypeOutOfCapacity
	case errors.Is(err, arena.ErrInvalidHandle), errors.Is(err, ErrInvalidNode):
		return ErrorTypeInvalidNode
	case errors.Is(err, dynarray.ErrAllocationFailure):
		return ErrorTypeAllocationFailure
	case errors.Is(err, dynarray.ErrIndexOutOfBounds):
		return ErrorTypeIndexOutOfBounds
	case errors.Is(err, dynarray.ErrReleased), errors.Is(err, ErrSessionEnded):
		return ErrorTypeSessionEnded
	case errors.Is(err, ErrNotAGroup):
		return ErrorTypeNotAGroup
	case errors.Is(err, ErrNotAnAction):
		return ErrorTypeNotAnAction
	case errors.Is(err, ErrEmptyFlagName):
		return ErrorTypeEmptyFlagName
	default:
		return ErrorTypeInvalidNode
	}
}

// wrapf turns a cause into an *Error, keeping the call stack of the failing
// operation on the wrapped cause. An *Error passes through unchanged.
func wrapf(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	var typed *Error
	if errors.As(cause, &typed) {
		return typed
	}
	msg := fmt.Sprintf(format, args...)
	return NewError(classify(cause), msg+": "+cause.Error()).
		WithCause(errors.Wrap(cause, msg))
}
