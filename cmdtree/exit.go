package cmdtree

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-cmdtree/middleware"
)

// ExitError is a sentinel used to request a specific exit code from inside handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success       int // default: 0
	GeneralError  int // default: 1
	MisusageError int // default: 2
	ResourceError int // default: 3
	InternalError int // default: 4
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ResourceError: 3, InternalError: 4}
}

// ExitCodeManager maps errors and categories to process exit codes.
type ExitCodeManager struct {
	codesByName map[string]int
	codesByType map[reflect.Type]int
	codesByKind map[ErrorType]int
	defaults    ExitCodeDefaults

	// Explicit DefineType/DefineError mappings, re-applied by prewire.
	typeOverrides map[reflect.Type]int
	kindOverrides map[ErrorType]int
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByName: make(map[string]int),
		codesByType: make(map[reflect.Type]int),
		codesByKind: make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),

		typeOverrides: make(map[reflect.Type]int),
		kindOverrides: make(map[ErrorType]int),
	}
	m.prewire()
	return m
}

func (e *ExitCodeManager) prewire() {
	d := e.defaults
	// Usage errors
	e.codesByKind[ErrorTypeUnknownCommand] = d.MisusageError
	e.codesByKind[ErrorTypeIncompleteCommand] = d.MisusageError
	e.codesByKind[ErrorTypeEmptyFlagName] = d.MisusageError
	// Resource exhaustion
	e.codesByKind[ErrorTypeInvalidCapacity] = d.ResourceError
	e.codesByKind[ErrorTypeOutOfCapacity] = d.ResourceError
	e.codesByKind[ErrorTypeAllocationFailure] = d.ResourceError
	// Broken internal invariant
	e.codesByKind[ErrorTypeIndexOutOfBounds] = d.InternalError
	// Programming misuse
	e.codesByKind[ErrorTypeNotAGroup] = d.GeneralError
	e.codesByKind[ErrorTypeNotAnAction] = d.GeneralError
	e.codesByKind[ErrorTypeInvalidNode] = d.GeneralError
	e.codesByKind[ErrorTypeSessionEnded] = d.GeneralError

	// Middleware types
	e.codesByType[reflect.TypeOf(&middleware.TimeoutError{})] = d.GeneralError
	e.codesByType[reflect.TypeOf(&middleware.ValidationError{})] = d.MisusageError
	e.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = d.InternalError

	for t, code := range e.typeOverrides {
		e.codesByType[t] = code
	}
	for kind, code := range e.kindOverrides {
		e.codesByKind[kind] = code
	}
}

// Exit code configuration

// Define registers a named exit-code mapping. The name is user-defined and
// intended for documentation; it does not affect resolution.
func (e *ExitCodeManager) Define(name string, code int) *ExitCodeManager {
	e.codesByName[name] = code
	return e
}

// Lookup returns a code registered with Define.
func (e *ExitCodeManager) Lookup(name string) (int, bool) {
	code, ok := e.codesByName[name]
	return code, ok
}

// DefineError maps a concrete error value (by its dynamic type) to an exit
// code. A matching error type takes precedence over the default codes but is
// secondary to an explicit ExitError and to category mappings.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	t := reflect.TypeOf(err)
	e.codesByType[t] = code
	e.typeOverrides[t] = code
	return e
}

// DefineType overrides the exit code used for an error category.
func (e *ExitCodeManager) DefineType(typ ErrorType, code int) *ExitCodeManager {
	e.codesByKind[typ] = code
	e.kindOverrides[typ] = code
	return e
}

// Default replaces the manager's default codes and re-derives the prewired
// category and type mappings from them. Mappings registered with DefineType
// or DefineError are kept.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	e.prewire()
	return e
}

// Defaults returns the codes currently in effect.
func (e *ExitCodeManager) Defaults() ExitCodeDefaults { return e.defaults }

// resolve converts an error to an exit code according to registered mappings.
// Precedence:
//  1. ExitError (requested code)
//  2. Error category mapping (DefineType)
//  3. Concrete error type mapping (DefineError)
//  4. Default codes
func (e *ExitCodeManager) resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var typed *Error
	if errors.As(err, &typed) {
		if code, ok := e.codesByKind[typed.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}

	return e.defaults.GeneralError
}
