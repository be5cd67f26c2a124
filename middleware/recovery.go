package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// Recovery turns a handler panic into a *RecoveryError naming the action and
// the flags and options it was invoked with. With stack traces enabled (the
// default) the panic and stack are also printed to stderr.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return RecoveryWithHandler(func(_ Context, recovered *RecoveryError) error {
		if config.PrintStack && len(recovered.Stack) > 0 {
			fmt.Fprintf(os.Stderr, "PANIC in '%s': %v\n%s\n", recovered.Invocation, recovered.Panic, recovered.Stack)
		}
		return recovered
	}, options...)
}

// RecoveryWithHandler recovers panics and lets handle decide what the
// handler returns instead. The stack is captured only when stack traces are
// enabled.
func RecoveryWithHandler(handle func(ctx Context, recovered *RecoveryError) error, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err = handle(ctx, &RecoveryError{
					Invocation: invocationOf(ctx),
					Panic:      r,
					Stack:      stackIf(config.PrintStack, config.StackSize),
				})
			}()
			return next(ctx)
		}
	}
}

// RecoveryToError converts panics to errors without printing anything.
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// SafeRecovery is silent like RecoveryToError but always keeps the stack. It
// is also stored in the context metadata as "panic_stack", next to
// "panic_value", for handlers further out in the chain.
func SafeRecovery() Middleware {
	return RecoveryWithHandler(func(ctx Context, recovered *RecoveryError) error {
		ctx.Set("panic_stack", string(recovered.Stack))
		ctx.Set("panic_value", recovered.Panic)
		return recovered
	}, WithStackTrace(true))
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func stackIf(enabled bool, size int) []byte {
	if !enabled {
		return nil
	}
	stack := make([]byte, max(size, 1024))
	return stack[:runtime.Stack(stack, false)]
}
