package cmdtree

import (
	"context"
	stdio "io"
	"slices"
	"sync"
	"time"

	treeio "github.com/dzonerzy/go-cmdtree/io"
	"github.com/dzonerzy/go-cmdtree/middleware"
)

// HandlerFunc is the callback attached to an action.
type HandlerFunc func(ctx *Context) error

// Context is what a handler sees of a complete resolution. It implements
// middleware.Context. Metadata and exit requests may be touched from the
// goroutine a Timeout middleware runs the handler on.
type Context struct {
	Session  *Session
	node     Node
	flags    []string
	options  []string
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.RWMutex
	metadata map[string]any
	exit     *ExitError
}

func newContext(parent context.Context, s *Session, n Node, flags, options []string) *Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Context{
		Session:  s,
		node:     n,
		flags:    flags,
		options:  options,
		ctx:      ctx,
		cancel:   cancel,
		metadata: make(map[string]any),
	}
}

// Context methods for accessing the underlying Go context

// Context returns the underlying Go context for cancellation/timeouts
func (c *Context) Context() context.Context {
	return c.ctx
}

// Deadline returns the time when work done on behalf of this context should be canceled
func (c *Context) Deadline() (time.Time, bool) {
	return c.ctx.Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled
func (c *Context) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Err returns a non-nil error value after Done is closed
func (c *Context) Err() error {
	return c.ctx.Err()
}

// Cancel cancels the context
func (c *Context) Cancel() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Context metadata

// Set stores a key-value pair in the context metadata
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	c.metadata[key] = value
	c.mu.Unlock()
}

// Get retrieves a value from the context metadata
func (c *Context) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metadata[key]
}

// Exit requests a specific process exit code. Execute returns it as an
// *ExitError, which ExitCodeManager honors over any other mapping.
func (c *Context) Exit(code int) {
	c.requestExit(&ExitError{Code: code})
}

// ExitWithError is Exit with an error to report.
func (c *Context) ExitWithError(err error, code int) {
	c.requestExit(&ExitError{Code: code, Err: err})
}

func (c *Context) requestExit(ee *ExitError) {
	c.mu.Lock()
	c.exit = ee
	c.mu.Unlock()
	c.Cancel()
}

func (c *Context) exitRequest() *ExitError {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exit
}

// Resolution access

// Command returns the resolved action (implements middleware.Context).
func (c *Context) Command() middleware.Command { return c.node }

// Node returns the resolved action.
func (c *Context) Node() Node { return c.node }

// Flags returns the flag names in the order given, markers stripped.
func (c *Context) Flags() []string { return c.flags }

// HasFlag reports whether name was given as a flag.
func (c *Context) HasFlag(name string) bool { return slices.Contains(c.flags, name) }

// Args returns the options in the order given.
func (c *Context) Args() []string { return c.options }

// NArgs returns the number of options.
func (c *Context) NArgs() int { return len(c.options) }

// Arg returns the i-th option, or "" when out of range.
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.options) {
		return ""
	}
	return c.options[i]
}

// IO accessors
func (c *Context) IO() *treeio.IOManager  { return c.Session.IO() }
func (c *Context) Logger() *treeio.Logger { return c.Session.Logger() }
func (c *Context) Stdout() stdio.Writer   { return c.Session.IO().Out() }
func (c *Context) Stderr() stdio.Writer   { return c.Session.IO().Err() }
func (c *Context) Stdin() stdio.Reader    { return c.Session.IO().In() }
