package cmdtree

import (
	"fmt"
	"os"
	"strconv"

	treeio "github.com/dzonerzy/go-cmdtree/io"
	"github.com/dzonerzy/go-cmdtree/internal/arena"
	"github.com/dzonerzy/go-cmdtree/internal/dynarray"
	"github.com/dzonerzy/go-cmdtree/internal/intern"
	"github.com/dzonerzy/go-cmdtree/internal/pool"
	"github.com/dzonerzy/go-cmdtree/middleware"
)

// DefaultCapacity is the arena size used by the examples: 64 KiB.
const DefaultCapacity = 64 << 10

// CapacityEnvVar is the environment variable the examples read the arena
// capacity from.
const CapacityEnvVar = "CMDTREE_ARENA_CAPACITY"

// Session owns one command tree: the arena holding its nodes and the tracker
// holding every array created while building and resolving it. A Session is
// not goroutine-safe; concurrent work needs one Session per goroutine.
type Session struct {
	nodes   *arena.Arena[node]
	tracker *dynarray.Tracker
	names   *intern.StringInterner

	io         *treeio.IOManager
	logger     *treeio.Logger
	exitCodes  *ExitCodeManager
	middleware []middleware.Middleware

	arrayLimit  int
	maxDistance int
	ended       bool
}

// Option configures a Session at Begin.
type Option func(*Session)

// WithIO routes handler and error output through io.
func WithIO(io *treeio.IOManager) Option {
	return func(s *Session) {
		if io != nil {
			s.io = io
		}
	}
}

// WithArrayLimit caps every array of the session (children, flags, options)
// at n elements. Exceeding it is an allocation failure.
func WithArrayLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.arrayLimit = n
		}
	}
}

// WithSuggestions sets the maximum edit distance for "Did you mean"
// suggestions on unknown commands. Zero disables them.
func WithSuggestions(maxDistance int) Option {
	return func(s *Session) {
		s.maxDistance = max(maxDistance, 0)
	}
}

// WithMiddleware wraps every handler run by Execute.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(s *Session) {
		s.middleware = append(s.middleware, mw...)
	}
}

// Begin starts a session whose arena holds capacity bytes of nodes.
func Begin(capacity int, opts ...Option) (*Session, error) {
	nodes, err := arena.New[node](capacity)
	if err != nil {
		return nil, wrapf(err, "begin session with capacity %d", capacity)
	}

	s := &Session{
		nodes:       nodes,
		tracker:     dynarray.NewTracker(),
		names:       intern.NewStringInterner(32),
		io:          treeio.New(),
		exitCodes:   newExitCodeManager(),
		arrayLimit:  dynarray.MaxLen,
		maxDistance: 2,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.names.PreIntern(intern.CommonFlagNames)
	s.logger = treeio.NewLogger(s.io)
	return s, nil
}

// End releases every tracked array, then the arena. Every NodeRef of the
// session becomes invalid. Slices returned earlier stay valid.
func (s *Session) End() error {
	if s.ended {
		return NewError(ErrorTypeSessionEnded, "session already ended").WithCause(ErrSessionEnded)
	}
	s.ended = true

	err := s.tracker.ReleaseAll()
	s.nodes.Release()
	s.names.Clear()
	if err != nil {
		return wrapf(err, "release tracked arrays")
	}
	return nil
}

// Ended reports whether End has been called.
func (s *Session) Ended() bool { return s.ended }

// IO returns the session's IO manager.
func (s *Session) IO() *treeio.IOManager { return s.io }

// Logger returns the logger used to report usage errors.
func (s *Session) Logger() *treeio.Logger { return s.logger }

// ExitCodes returns the exit-code manager for this session. Use it to
// override defaults or register custom mappings.
func (s *Session) ExitCodes() *ExitCodeManager { return s.exitCodes }

// Tree construction

// CreateGroup allocates a group node with an empty child list.
func (s *Session) CreateGroup(name, description string) (NodeRef, error) {
	if err := s.checkLive(); err != nil {
		return NodeRef{}, err
	}
	children, err := newArray(s, childPool)
	if err != nil {
		return NodeRef{}, wrapf(err, "create group %q", name)
	}
	return s.alloc(name, description, &groupBody{children: children})
}

// CreateAction allocates an action node. Its flag and option arrays are
// created by the first resolution that ends on it.
func (s *Session) CreateAction(name, description string) (NodeRef, error) {
	if err := s.checkLive(); err != nil {
		return NodeRef{}, err
	}
	return s.alloc(name, description, &actionBody{})
}

func (s *Session) alloc(name, description string, body nodeBody) (NodeRef, error) {
	h, n, err := s.nodes.Alloc()
	if err != nil {
		return NodeRef{}, wrapf(err, "allocate %s %q", body.kind(), name)
	}
	n.name = name
	n.description = description
	n.body = body
	return NodeRef{h: h}, nil
}

// AddChild appends child to parent's children. Sibling names should be
// unique; the first registered sibling wins during resolution. The tree is
// left unchanged on error.
func (s *Session) AddChild(parent, child NodeRef) error {
	p, err := s.lookup(parent)
	if err != nil {
		return err
	}
	if _, err = s.lookup(child); err != nil {
		return err
	}
	g, ok := p.body.(*groupBody)
	if !ok {
		return NewError(ErrorTypeNotAGroup, fmt.Sprintf("cannot add a child to action %q", p.name)).
			WithCause(ErrNotAGroup).
			WithContext("parent", p.name)
	}
	if err := g.children.PushBack(child); err != nil {
		return wrapf(err, "add child to %q", p.name)
	}
	return nil
}

// AddGroup creates a group and attaches it to parent.
func (s *Session) AddGroup(parent NodeRef, name, description string) (NodeRef, error) {
	ref, err := s.CreateGroup(name, description)
	if err != nil {
		return NodeRef{}, err
	}
	if err := s.AddChild(parent, ref); err != nil {
		return NodeRef{}, err
	}
	return ref, nil
}

// AddAction creates an action with an optional handler and attaches it to parent.
func (s *Session) AddAction(parent NodeRef, name, description string, handler HandlerFunc) (NodeRef, error) {
	ref, err := s.CreateAction(name, description)
	if err != nil {
		return NodeRef{}, err
	}
	if err := s.AddChild(parent, ref); err != nil {
		return NodeRef{}, err
	}
	if handler != nil {
		if err := s.Handle(ref, handler); err != nil {
			return NodeRef{}, err
		}
	}
	return ref, nil
}

// Handle attaches fn to an action; Execute runs it on a complete resolution.
func (s *Session) Handle(ref NodeRef, fn HandlerFunc) error {
	a, err := s.action(ref)
	if err != nil {
		return err
	}
	a.handler = fn
	return nil
}

// Tree access

// Node returns a view of the node ref refers to.
func (s *Session) Node(ref NodeRef) (Node, error) {
	n, err := s.lookup(ref)
	if err != nil {
		return Node{}, err
	}
	return viewOf(ref, n), nil
}

// Children returns a group's children in registration order.
func (s *Session) Children(ref NodeRef) ([]NodeRef, error) {
	n, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}
	g, ok := n.body.(*groupBody)
	if !ok {
		return nil, NewError(ErrorTypeNotAGroup, fmt.Sprintf("%q is an action", n.name)).WithCause(ErrNotAGroup)
	}
	return g.children.Slice(), nil
}

// Flags returns the flags bound to an action by the last complete
// resolution, or nil if none has ended on it.
func (s *Session) Flags(ref NodeRef) ([]string, error) {
	a, err := s.action(ref)
	if err != nil || a.flags == nil {
		return nil, err
	}
	return a.flags.Slice(), nil
}

// Options returns the options bound to an action by the last complete
// resolution, or nil if none has ended on it.
func (s *Session) Options(ref NodeRef) ([]string, error) {
	a, err := s.action(ref)
	if err != nil || a.options == nil {
		return nil, err
	}
	return a.options.Slice(), nil
}

// Stats summarizes the session's resource usage.
type Stats struct {
	Arena         arena.Metrics
	TrackedArrays int
	InternedNames int
	InternHits    int
}

// Stats reports arena usage, the number of tracked arrays and interner usage.
func (s *Session) Stats() Stats {
	distinct, hits := s.names.Stats()
	return Stats{
		Arena:         s.nodes.Metrics(),
		TrackedArrays: s.tracker.Len(),
		InternedNames: distinct,
		InternHits:    hits,
	}
}

// CapacityFromEnv reads an arena capacity in bytes from the environment
// variable key, falling back when it is unset or not a positive integer.
func CapacityFromEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Internal helpers

func (s *Session) checkLive() error {
	if s.ended {
		return NewError(ErrorTypeSessionEnded, "session has ended").WithCause(ErrSessionEnded)
	}
	return nil
}

func (s *Session) lookup(ref NodeRef) (*node, error) {
	if err := s.checkLive(); err != nil {
		return nil, err
	}
	if !ref.Valid() {
		return nil, NewError(ErrorTypeInvalidNode, "zero node reference").WithCause(ErrInvalidNode)
	}
	n, err := s.nodes.Get(ref.h)
	if err != nil {
		return nil, wrapf(err, "look up node %d", ref.h)
	}
	return n, nil
}

func (s *Session) action(ref NodeRef) (*actionBody, error) {
	n, err := s.lookup(ref)
	if err != nil {
		return nil, err
	}
	a, ok := n.body.(*actionBody)
	if !ok {
		return nil, NewError(ErrorTypeNotAnAction, fmt.Sprintf("%q is a group", n.name)).WithCause(ErrNotAnAction)
	}
	return a, nil
}

// newArray creates an array bounded by the session limit and registers it
// with the tracker.
func newArray[T any](s *Session, p *pool.SlicePool[T]) (*dynarray.Array[T], error) {
	a := dynarray.New(dynarray.WithLimit[T](s.arrayLimit), dynarray.WithPool(p))
	if err := s.tracker.Register(a); err != nil {
		return nil, err
	}
	return a, nil
}
