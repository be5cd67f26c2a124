package cmdtree

import (
	"context"
	"errors"
	"fmt"

	"github.com/dzonerzy/go-cmdtree/internal/fuzzy"
	"github.com/dzonerzy/go-cmdtree/middleware"
)

// maxSuggestions bounds the "Did you mean" list of an unknown command.
const maxSuggestions = 3

// Execute resolves tokens from root and acts on the result:
//   - Complete runs the action's handler through the session middleware, or
//     describes the action on stdout when it has none.
//   - Incomplete describes the group on stderr and returns an
//     incomplete_command error.
//   - UnmatchedPath returns an unknown_command error with suggestions taken
//     from the group's children.
//
// Usage errors are also reported through the session logger.
func (s *Session) Execute(ctx context.Context, root NodeRef, tokens []string) error {
	res, err := s.Resolve(root, tokens)
	if err != nil {
		s.report(err)
		return err
	}

	switch r := res.(type) {
	case Complete:
		return s.run(ctx, r)
	case Incomplete:
		return s.incomplete(r)
	case UnmatchedPath:
		return s.unmatched(r)
	default:
		return NewError(ErrorTypeInvalidNode, fmt.Sprintf("unexpected result %T", res))
	}
}

// ExecuteAndGetExitCode runs Execute and maps its error through ExitCodes.
// Useful for embedding in your own main() without os.Exit.
func (s *Session) ExecuteAndGetExitCode(ctx context.Context, root NodeRef, tokens []string) int {
	return s.exitCodes.resolve(s.Execute(ctx, root, tokens))
}

func (s *Session) run(ctx context.Context, r Complete) error {
	n, err := s.lookup(r.Node)
	if err != nil {
		return err
	}
	body := n.body.(*actionBody)
	if body.handler == nil {
		return s.Describe(s.io.Out(), r.Node)
	}

	execCtx := newContext(ctx, s, viewOf(r.Node, n), r.Flags, r.Options)
	defer execCtx.Cancel()

	actionErr := s.wrapHandler(body.handler)(execCtx)

	// An exit requested through the context wins over the returned error,
	// unless the handler was abandoned at its deadline.
	var timeout *middleware.TimeoutError
	if ee := execCtx.exitRequest(); ee != nil && !errors.As(actionErr, &timeout) {
		actionErr = ee
	}
	var ee *ExitError
	if actionErr != nil && (!errors.As(actionErr, &ee) || ee.Err != nil) {
		s.logger.Error("%s: %v", n.name, actionErr)
	}
	return actionErr
}

// wrapHandler wraps the handler with the session middleware
func (s *Session) wrapHandler(handler HandlerFunc) HandlerFunc {
	if len(s.middleware) == 0 {
		return handler
	}

	chain := middleware.Chain(s.middleware...)

	// Convert HandlerFunc to middleware.ActionFunc using an adapter
	action := func(ctx middleware.Context) error {
		c, ok := ctx.(*Context)
		if !ok {
			return NewError(ErrorTypeInvalidNode, "invalid middleware context type")
		}
		return handler(c)
	}

	wrapped := chain.Apply(action)
	return func(ctx *Context) error {
		return wrapped(ctx)
	}
}

func (s *Session) incomplete(r Incomplete) error {
	n, err := s.lookup(r.Node)
	if err != nil {
		return err
	}
	e := NewError(ErrorTypeIncompleteCommand, fmt.Sprintf("'%s' requires a subcommand", n.name)).
		WithCause(ErrIncompleteCommand)
	s.report(e)
	if err := s.Describe(s.io.Err(), r.Node); err != nil {
		return err
	}
	return e
}

func (s *Session) unmatched(r UnmatchedPath) error {
	e := NewError(ErrorTypeUnknownCommand, fmt.Sprintf("unknown command '%s'", r.Token)).
		WithToken(r.Token).
		WithCause(ErrUnknownCommand).
		WithContext("consumed", r.Consumed)

	if s.maxDistance > 0 {
		names, err := s.childNames(r.Node)
		if err != nil {
			return err
		}
		for _, name := range fuzzy.Suggest(r.Token, names, s.maxDistance, maxSuggestions) {
			_ = e.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", name))
		}
	}
	s.report(e)
	return e
}

func (s *Session) childNames(ref NodeRef) ([]string, error) {
	children, err := s.Children(ref)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(children))
	for _, child := range children {
		n, err := s.lookup(child)
		if err != nil {
			return nil, err
		}
		names = append(names, n.name)
	}
	return names, nil
}

// report logs an error and its suggestions on stderr.
func (s *Session) report(err error) {
	s.logger.Error("%v", err)
	var typed *Error
	if errors.As(err, &typed) {
		for _, suggestion := range typed.Suggestions {
			s.logger.Warning("%s", suggestion)
		}
	}
}
