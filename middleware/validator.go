package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dzonerzy/go-cmdtree/internal/fuzzy"
)

// ValidatorFunc checks a resolved action before its handler runs. The
// resolver accepts any flag or option, so rules about which ones an action
// expects live here.
type ValidatorFunc func(ctx Context) error

// NamedValidator associates a name with a ValidatorFunc for error reporting.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// Validate composes validators into one Middleware. They run in order and the
// first failure stops execution.
//
// Example:
//
//	session, _ := cmdtree.Begin(cmdtree.DefaultCapacity, cmdtree.WithMiddleware(
//	    middleware.Validate(
//	        middleware.Custom("known_flags", middleware.KnownFlags("v", "loud")),
//	        middleware.Custom("files", middleware.FilesExist()),
//	    ),
//	))
func Validate(validators ...NamedValidator) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			for _, v := range validators {
				if v.Fn == nil {
					continue
				}
				if err := v.Fn(ctx); err != nil {
					validationErr := &ValidationError{}
					if errors.As(err, &validationErr) {
						return validationErr
					}
					return &ValidationError{
						Field:   v.Name,
						Message: "validation failed",
						Cause:   err,
					}
				}
			}
			return next(ctx)
		}
	}
}

// RequireFlags fails unless every named flag was supplied.
func RequireFlags(names ...string) ValidatorFunc {
	return func(ctx Context) error {
		var missing []string
		for _, name := range names {
			if !ctx.HasFlag(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Field:   "flags",
				Value:   missing,
				Message: fmt.Sprintf("missing required flags for '%s': %s", getCommandName(ctx), strings.Join(missing, ", ")),
			}
		}
		return nil
	}
}

// KnownFlags fails on the first flag not in allowed, suggesting the closest
// allowed name when one is near enough.
func KnownFlags(allowed ...string) ValidatorFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[name] = struct{}{}
	}
	return func(ctx Context) error {
		for _, flag := range ctx.Flags() {
			if _, ok := set[flag]; ok {
				continue
			}
			msg := fmt.Sprintf("unknown flag '%s' for '%s'", flag, getCommandName(ctx))
			if best := fuzzy.NewMatcher(2).FindBest(flag, allowed); best != "" {
				msg += fmt.Sprintf(" (did you mean '%s'?)", best)
			}
			return &ValidationError{Field: "flags", Value: flag, Message: msg}
		}
		return nil
	}
}

// OptionCount fails unless the number of options is within [minCount, maxCount].
// A negative maxCount means no upper bound.
func OptionCount(minCount, maxCount int) ValidatorFunc {
	return func(ctx Context) error {
		n := len(ctx.Args())
		if n < minCount || (maxCount >= 0 && n > maxCount) {
			return &ValidationError{
				Field:   "options",
				Value:   n,
				Message: fmt.Sprintf("'%s' takes %s options, got %d", getCommandName(ctx), describeRange(minCount, maxCount), n),
			}
		}
		return nil
	}
}

func describeRange(minCount, maxCount int) string {
	switch {
	case maxCount < 0:
		return fmt.Sprintf("at least %d", minCount)
	case minCount == maxCount:
		return fmt.Sprintf("exactly %d", minCount)
	default:
		return fmt.Sprintf("%d to %d", minCount, maxCount)
	}
}

// FilesExist fails when an option does not name an existing regular file.
func FilesExist() ValidatorFunc {
	return func(ctx Context) error {
		for _, path := range ctx.Args() {
			info, err := os.Stat(path)
			if err != nil {
				return &ValidationError{Field: "options", Value: path, Message: "file does not exist", Cause: err}
			}
			if info.IsDir() {
				return &ValidationError{Field: "options", Value: path, Message: "path is a directory, not a file: " + path}
			}
		}
		return nil
	}
}
