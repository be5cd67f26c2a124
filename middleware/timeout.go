package middleware

import (
	"context"
	"time"
)

// Timeout fails a handler with *TimeoutError once it has run for longer than
// limit, and cancels the handler context at that point. The handler keeps its
// goroutine until it returns, so long-running handlers should watch
// ctx.Done(). A limit of zero or less disables the check.
func Timeout(limit time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			return runWithDeadline(ctx, next, limit)
		}
	}
}

// TimeoutWithDefault is Timeout with the limit taken from the config
// (DefaultTimeout, 30s unless overridden with WithTimeout).
func TimeoutWithDefault(options ...MiddlewareOption) Middleware {
	return Timeout(newConfig(options).DefaultTimeout)
}

// TimeoutPerCommand picks the limit by the resolved action's name, falling
// back to defaultTimeout. A zero limit disables the check for that action.
func TimeoutPerCommand(commandTimeouts map[string]time.Duration, defaultTimeout time.Duration) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			limit, ok := commandTimeouts[getCommandName(ctx)]
			if !ok {
				limit = defaultTimeout
			}
			return runWithDeadline(ctx, next, limit)
		}
	}
}

// runWithDeadline runs next on its own goroutine and waits for it, the
// deadline, or cancellation of ctx, whichever comes first. The invocation is
// captured before the handler starts so errors never read handler state.
func runWithDeadline(ctx Context, next ActionFunc, limit time.Duration) error {
	if limit <= 0 {
		return next(ctx)
	}

	inv := invocationOf(ctx)
	result := make(chan error, 1)
	go func() {
		result <- callGuarded(ctx, next, inv)
	}()

	deadline := time.NewTimer(limit)
	defer deadline.Stop()

	select {
	case err := <-result:
		return err
	case <-deadline.C:
		ctx.Cancel()
		return &TimeoutError{Invocation: inv, Duration: limit}
	case <-ctx.Done():
		// Canceled by the caller, or by the handler requesting an exit.
		select {
		case err := <-result:
			return err
		default:
			return context.Canceled
		}
	}
}

// callGuarded runs next and converts a panic into a *RecoveryError. A panic on
// the handler goroutine would otherwise escape any Recovery middleware
// installed around Timeout.
func callGuarded(ctx Context, next ActionFunc, inv Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveryError{Invocation: inv, Panic: r}
		}
	}()
	return next(ctx)
}
