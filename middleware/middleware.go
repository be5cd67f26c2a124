// Package middleware provides built-in middleware for go-cmdtree action handlers:
// Logger, Recovery, Timeout and Validator.
package middleware

import (
	"strings"
	"time"
)

// This package defines middleware using interfaces to avoid import cycles.
// The cmdtree package imports it and *cmdtree.Context satisfies Context.

// Context describes what middleware can observe about a resolved action and
// the lifecycle controls it may use. It is implemented by *cmdtree.Context.
type Context interface {
	// Done returns a channel that is closed when the execution context is
	// canceled or times out.
	Done() <-chan struct{}

	// Cancel requests cancellation of the current execution. It is
	// idempotent.
	Cancel()

	// Args returns the options bound to the resolved action, in the order
	// they were encountered. Treat the slice as read-only.
	Args() []string

	// Flags returns the flag names bound to the resolved action with their
	// markers stripped, in the order they were encountered.
	Flags() []string

	// HasFlag reports whether name was among the captured flags.
	HasFlag(name string) bool

	// Set stores a key/value pair in the context metadata. Keys should be
	// namespaced to avoid collisions (e.g., "logger.request_id").
	Set(key string, value any)

	// Get retrieves a value previously stored via Set, or nil.
	Get(key string) any

	// Command returns the resolved action node.
	Command() Command
}

// Command is satisfied by the node descriptor cmdtree hands to middleware.
type Command interface {
	Name() string
	Description() string
}

// ActionFunc represents the handler signature seen by middleware
type ActionFunc func(ctx Context) error

// Middleware defines the middleware function signature
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply applies the middleware chain to an ActionFunc. Middleware are wrapped
// in the order they appear in the chain.
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	return append(chain, middleware...)
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// Error types for middleware

// ValidationError is returned by Validator when a resolved action's flags or
// options violate a rule.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Invocation is the resolved action a middleware error refers to: its name
// and the flags and options it was given.
type Invocation struct {
	Command string
	Flags   []string
	Args    []string
}

func invocationOf(ctx Context) Invocation {
	return Invocation{Command: getCommandName(ctx), Flags: ctx.Flags(), Args: ctx.Args()}
}

// String renders the invocation as the action name followed by its flags
// (with a single marker) and options.
func (inv Invocation) String() string {
	var b strings.Builder
	b.WriteString(inv.Command)
	for _, f := range inv.Flags {
		b.WriteString(" -")
		b.WriteString(f)
	}
	for _, a := range inv.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

// TimeoutError is returned when a handler outlives its deadline. The handler
// may still be running when it is returned.
type TimeoutError struct {
	Invocation
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Duration.String()
}

// RecoveryError carries a panic raised by a handler.
type RecoveryError struct {
	Invocation
	Panic any
	Stack []byte
}

func (e *RecoveryError) Error() string {
	return "command '" + e.Command + "' panicked: " + toString(e.Panic)
}

// Configuration types

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel       LogLevel
	LogOutput      LogOutput
	LogFormat      LogFormat
	IncludeArgs    bool
	IncludeFlags   bool
	PrintStack     bool
	StackSize      int
	DefaultTimeout time.Duration
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogOutput represents log output destinations
type LogOutput int

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// RequestInfo contains information about one handler execution
type RequestInfo struct {
	Command   string
	Args      []string
	Flags     []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
	Metadata  map[string]any
}

// Configuration options

type MiddlewareOption func(config *MiddlewareConfig)

func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:       LogLevelInfo,
		LogOutput:      LogOutputStderr,
		LogFormat:      LogFormatText,
		IncludeArgs:    true,
		IncludeFlags:   true,
		PrintStack:     true,
		StackSize:      4096,
		DefaultTimeout: 30 * time.Second,
	}
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

func WithTimeout(timeout time.Duration) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.DefaultTimeout = timeout
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// Utility functions

func toString(v any) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "<unknown>"
}

func getCommandName(ctx Context) string {
	cmd := ctx.Command()
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}
