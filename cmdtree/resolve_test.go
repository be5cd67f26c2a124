//nolint:testpackage // using package name 'cmdtree' to access unexported fields for testing
package cmdtree

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := Begin(DefaultCapacity, opts...)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	t.Cleanup(func() {
		if !s.Ended() {
			if err := s.End(); err != nil {
				t.Errorf("End failed: %v", err)
			}
		}
	})
	return s
}

func mustGroup(t *testing.T, s *Session, name string) NodeRef {
	t.Helper()
	ref, err := s.CreateGroup(name, name+" group")
	if err != nil {
		t.Fatalf("CreateGroup(%q) failed: %v", name, err)
	}
	return ref
}

func mustAction(t *testing.T, s *Session, name string) NodeRef {
	t.Helper()
	ref, err := s.CreateAction(name, name+" action")
	if err != nil {
		t.Fatalf("CreateAction(%q) failed: %v", name, err)
	}
	return ref
}

func mustAdd(t *testing.T, s *Session, parent, child NodeRef) {
	t.Helper()
	if err := s.AddChild(parent, child); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
}

func mustResolve(t *testing.T, s *Session, root NodeRef, tokens ...string) Result {
	t.Helper()
	res, err := s.Resolve(root, tokens)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", tokens, err)
	}
	return res
}

func TestResolveGroupWithoutActionIsIncomplete(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	meow := mustGroup(t, s, "meow")
	mustAdd(t, s, root, meow)

	res := mustResolve(t, s, root, "prog", "meow")

	inc, ok := res.(Incomplete)
	if !ok {
		t.Fatalf("Expected Incomplete, got %T (%v)", res, res)
	}
	if inc.Node != meow {
		t.Errorf("Expected node meow, got %v", inc.Node)
	}
}

func TestResolveCollectsFlagsAndOptions(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	meow := mustAction(t, s, "meow")
	mustAdd(t, s, root, meow)

	res := mustResolve(t, s, root, "prog", "meow", "-v", "--loud", "file.txt")

	c, ok := res.(Complete)
	if !ok {
		t.Fatalf("Expected Complete, got %T (%v)", res, res)
	}
	if c.Node != meow {
		t.Errorf("Expected node meow, got %v", c.Node)
	}
	if !slices.Equal(c.Flags, []string{"v", "loud"}) {
		t.Errorf("Expected flags [v loud], got %v", c.Flags)
	}
	if !slices.Equal(c.Options, []string{"file.txt"}) {
		t.Errorf("Expected options [file.txt], got %v", c.Options)
	}

	// The same values are bound to the node
	flags, _ := s.Flags(meow)
	options, _ := s.Options(meow)
	if !slices.Equal(flags, c.Flags) || !slices.Equal(options, c.Options) {
		t.Errorf("Expected bound flags/options to match result, got %v / %v", flags, options)
	}
}

func TestResolveSentinelSwitchesToOptions(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	res := mustResolve(t, s, root, "prog", "--", "--x", "y")

	c, ok := res.(Complete)
	if !ok {
		t.Fatalf("Expected Complete, got %T", res)
	}
	if len(c.Flags) != 0 {
		t.Errorf("Expected no flags, got %v", c.Flags)
	}
	if !slices.Equal(c.Options, []string{"--x", "y"}) {
		t.Errorf("Expected options [--x y], got %v", c.Options)
	}
}

func TestResolveSentinelIsStoredOnceOnly(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	res := mustResolve(t, s, root, "prog", "-a", "--", "--", "-", "b")

	c := res.(Complete)
	if !slices.Equal(c.Flags, []string{"a"}) {
		t.Errorf("Expected flags [a], got %v", c.Flags)
	}
	// After the sentinel even "--" and "-" are plain options
	if !slices.Equal(c.Options, []string{"--", "-", "b"}) {
		t.Errorf("Expected options [-- - b], got %v", c.Options)
	}
}

func TestResolveUnmatchedGroupStopsImmediately(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	mustAdd(t, s, root, mustAction(t, s, "a"))
	mustAdd(t, s, root, mustAction(t, s, "b"))

	res := mustResolve(t, s, root, "prog", "c", "-v", "file")

	u, ok := res.(UnmatchedPath)
	if !ok {
		t.Fatalf("Expected UnmatchedPath, got %T", res)
	}
	if u.Node != root {
		t.Errorf("Expected node root, got %v", u.Node)
	}
	if len(u.Consumed) != 0 {
		t.Errorf("Expected no consumed tokens, got %v", u.Consumed)
	}
	if u.Token != "c" {
		t.Errorf("Expected token 'c', got %q", u.Token)
	}
	// No arrays were created for flags or options
	if got := s.Stats().TrackedArrays; got != 1 {
		t.Errorf("Expected only the root child array to be tracked, got %d", got)
	}
}

func TestResolveUnmatchedAfterDescent(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	pets, err := s.AddGroup(root, "pets", "pet commands")
	if err != nil {
		t.Fatal(err)
	}
	cats, err := s.AddGroup(pets, "cats", "cat commands")
	if err != nil {
		t.Fatal(err)
	}

	res := mustResolve(t, s, root, "prog", "pets", "cats", "bark")

	u, ok := res.(UnmatchedPath)
	if !ok {
		t.Fatalf("Expected UnmatchedPath, got %T", res)
	}
	if u.Node != cats {
		t.Errorf("Expected node cats, got %v", u.Node)
	}
	if !slices.Equal(u.Consumed, []string{"pets", "cats"}) {
		t.Errorf("Expected consumed [pets cats], got %v", u.Consumed)
	}
}

func TestResolveEmptyFlagName(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	res, err := s.Resolve(root, []string{"prog", "-v", "-"})
	if res != nil {
		t.Errorf("Expected no result, got %v", res)
	}
	if !errors.Is(err, ErrEmptyFlagName) {
		t.Fatalf("Expected ErrEmptyFlagName, got %v", err)
	}

	var typed *Error
	if !errors.As(err, &typed) || typed.Type != ErrorTypeEmptyFlagName || typed.Token != "-" {
		t.Errorf("Expected empty_flag_name error for '-', got %+v", typed)
	}
}

func TestResolveMarkerStripping(t *testing.T) {
	tests := []struct {
		token string
		flag  string
	}{
		{"-v", "v"},
		{"--verbose", "verbose"},
		{"---x", "-x"},
		{"--=", "="},
		{"-ab", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			s := newSession(t)
			root := mustAction(t, s, "prog")

			c := mustResolve(t, s, root, "prog", tt.token).(Complete)
			if !slices.Equal(c.Flags, []string{tt.flag}) {
				t.Errorf("Expected flag %q, got %v", tt.flag, c.Flags)
			}
		})
	}
}

func TestResolveKeepsRawFlagBytes(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	c := mustResolve(t, s, root, "prog", "-\xff", "--\x80", "-\xff").(Complete)

	want := []string{"\xff", "\x80", "\xff"}
	if !slices.Equal(c.Flags, want) {
		t.Fatalf("Expected flags %q, got %q", want, c.Flags)
	}
	for i, flag := range c.Flags {
		if len(flag) != 1 {
			t.Errorf("flag %d: Expected 1 byte, got %d", i, len(flag))
		}
	}
}

func TestResolveExactNameMatch(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	me := mustAction(t, s, "me")
	meow := mustAction(t, s, "meow")
	mustAdd(t, s, root, me)
	mustAdd(t, s, root, meow)

	tests := []struct {
		token string
		want  NodeRef
	}{
		{"me", me},
		{"meow", meow},
	}
	for _, tt := range tests {
		if got := mustResolve(t, s, root, "prog", tt.token).Terminal(); got != tt.want {
			t.Errorf("Token %q: expected %v, got %v", tt.token, tt.want, got)
		}
	}

	for _, token := range []string{"m", "meo", "meowx", "MEOW"} {
		if _, ok := mustResolve(t, s, root, "prog", token).(UnmatchedPath); !ok {
			t.Errorf("Token %q should not match any child", token)
		}
	}
}

func TestResolveFirstRegisteredSiblingWins(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	first := mustAction(t, s, "dup")
	second := mustAction(t, s, "dup")
	mustAdd(t, s, root, first)
	mustAdd(t, s, root, second)

	if got := mustResolve(t, s, root, "prog", "dup").Terminal(); got != first {
		t.Errorf("Expected first sibling, got %v", got)
	}
}

func TestResolveNoTokens(t *testing.T) {
	s := newSession(t)
	group := mustGroup(t, s, "prog")
	action := mustAction(t, s, "solo")

	for _, tokens := range [][]string{nil, {"prog"}} {
		if _, ok := mustResolve(t, s, group, tokens...).(Incomplete); !ok {
			t.Errorf("Tokens %q on a group: expected Incomplete", tokens)
		}
		c, ok := mustResolve(t, s, action, tokens...).(Complete)
		if !ok {
			t.Fatalf("Tokens %q on an action: expected Complete", tokens)
		}
		if len(c.Flags) != 0 || len(c.Options) != 0 {
			t.Errorf("Expected empty flags and options, got %v / %v", c.Flags, c.Options)
		}
	}
}

func TestResolveGroupNamesAfterActionAreOptions(t *testing.T) {
	s := newSession(t)
	root := mustGroup(t, s, "prog")
	run := mustAction(t, s, "run")
	mustAdd(t, s, root, run)

	c := mustResolve(t, s, root, "prog", "run", "run", "", "prog").(Complete)
	if !slices.Equal(c.Options, []string{"run", "", "prog"}) {
		t.Errorf("Expected options [run  prog], got %q", c.Options)
	}
}

func TestResolveIsIdempotentAcrossSessions(t *testing.T) {
	build := func() (*Session, NodeRef) {
		s := newSession(t)
		root := mustGroup(t, s, "prog")
		pets, _ := s.AddGroup(root, "pets", "")
		_, _ = s.AddAction(pets, "meow", "", nil)
		return s, root
	}
	tokens := []string{"prog", "pets", "meow", "-v", "--", "-x", "file"}

	s1, root1 := build()
	s2, root2 := build()
	r1 := mustResolve(t, s1, root1, tokens...)
	r2 := mustResolve(t, s2, root2, tokens...)

	c1, c2 := r1.(Complete), r2.(Complete)
	if c1.Node != c2.Node || !slices.Equal(c1.Flags, c2.Flags) || !slices.Equal(c1.Options, c2.Options) {
		t.Errorf("Expected identical results, got %v and %v", r1, r2)
	}
	if r1.String() != r2.String() {
		t.Errorf("Expected identical descriptions, got %q and %q", r1, r2)
	}
}

func TestResolveRebindsOnSecondResolution(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	first := mustResolve(t, s, root, "prog", "-a", "one").(Complete)
	_ = mustResolve(t, s, root, "prog", "-b")

	flags, _ := s.Flags(root)
	if !slices.Equal(flags, []string{"b"}) {
		t.Errorf("Expected flags [b] after second resolution, got %v", flags)
	}
	if !slices.Equal(first.Flags, []string{"a"}) {
		t.Errorf("Earlier result must not change, got %v", first.Flags)
	}
}

func TestResolveLongTokenListIsIterative(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	const n = 200_000
	tokens := make([]string, 0, n+1)
	tokens = append(tokens, "prog")
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			tokens = append(tokens, "-f")
		} else {
			tokens = append(tokens, fmt.Sprintf("opt%d", i))
		}
	}

	c := mustResolve(t, s, root, tokens...).(Complete)
	if len(c.Flags) != n/2 || len(c.Options) != n/2 {
		t.Errorf("Expected %d flags and options, got %d / %d", n/2, len(c.Flags), len(c.Options))
	}
}

func TestResolveArrayLimit(t *testing.T) {
	s := newSession(t, WithArrayLimit(2))
	root := mustAction(t, s, "prog")

	if _, err := s.Resolve(root, []string{"prog", "a", "b"}); err != nil {
		t.Fatalf("Expected two options to fit, got %v", err)
	}

	_, err := s.Resolve(root, []string{"prog", "a", "b", "c"})
	if !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("Expected ErrAllocationFailure, got %v", err)
	}
	var typed *Error
	if !errors.As(err, &typed) || typed.Type != ErrorTypeAllocationFailure {
		t.Errorf("Expected allocation_failure error, got %v", err)
	}
}

func TestResolveInternsFlagNames(t *testing.T) {
	s := newSession(t)
	root := mustAction(t, s, "prog")

	before := s.Stats()
	_ = mustResolve(t, s, root, "prog", "--colour", "--colour", "--verbose")
	after := s.Stats()

	if after.InternedNames != before.InternedNames+1 {
		t.Errorf("Expected one new interned name, got %d -> %d", before.InternedNames, after.InternedNames)
	}
	if after.InternHits-before.InternHits != 2 {
		t.Errorf("Expected two intern hits, got %d", after.InternHits-before.InternHits)
	}
}
