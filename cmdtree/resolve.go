package cmdtree

import (
	"fmt"

	"github.com/dzonerzy/go-cmdtree/internal/dynarray"
	"github.com/dzonerzy/go-cmdtree/internal/pool"
)

const (
	flagMarker = '-'
	endOfFlags = "--"
)

// resolveState is the cursor of one resolution. index only ever increases.
type resolveState struct {
	ref         NodeRef
	node        *node
	index       int
	flags       *dynarray.Array[string]
	options     *dynarray.Array[string]
	optionsOnly bool
}

// Resolve walks tokens from root and reports where they lead. tokens[0] is
// the program name and is skipped.
//
// Group names are matched exactly against a group's children in registration
// order. Once an action is reached every remaining token is a flag ("-v",
// "--loud", stored without markers) or an option, and "--" makes every later
// token an option. Unmatched or incomplete paths are results, not errors; the
// error is non-nil only for a token that is just "-", for exhausted array
// storage, or for misuse of the session.
func (s *Session) Resolve(root NodeRef, tokens []string) (Result, error) {
	n, err := s.lookup(root)
	if err != nil {
		return nil, err
	}

	st := resolveState{ref: root, node: n, index: 1}
	for st.index < len(tokens) {
		tok := tokens[st.index]

		switch body := st.node.body.(type) {
		case *groupBody:
			child, next, found, err := s.matchChild(body, tok)
			if err != nil {
				return nil, err
			}
			if !found {
				consumed := make([]string, st.index-1)
				copy(consumed, tokens[1:st.index])
				return UnmatchedPath{Node: st.ref, Consumed: consumed, Token: tok}, nil
			}
			st.ref, st.node = child, next

		case *actionBody:
			if err := s.collect(&st, tok); err != nil {
				return nil, err
			}
		}
		st.index++
	}

	return s.finish(&st)
}

// matchChild returns the first child of g whose name equals tok.
func (s *Session) matchChild(g *groupBody, tok string) (NodeRef, *node, bool, error) {
	for i := 0; i < g.children.Len(); i++ {
		ref, err := g.children.Get(i)
		if err != nil {
			return NodeRef{}, nil, false, wrapf(err, "read child %d", i)
		}
		child, err := s.lookup(ref)
		if err != nil {
			return NodeRef{}, nil, false, err
		}
		if child.name == tok {
			return ref, child, true, nil
		}
	}
	return NodeRef{}, nil, false, nil
}

// collect classifies one token while the cursor is on an action.
func (s *Session) collect(st *resolveState, tok string) error {
	if err := s.ensureArrays(st); err != nil {
		return err
	}

	switch {
	case st.optionsOnly:
		return pushString(st.options, tok, "option")
	case tok == endOfFlags:
		st.optionsOnly = true
		return nil
	case len(tok) > 0 && tok[0] == flagMarker:
		name := stripMarkers(tok)
		if name == "" {
			return NewError(ErrorTypeEmptyFlagName, fmt.Sprintf("empty flag name in %q", tok)).
				WithToken(tok).
				WithCause(ErrEmptyFlagName).
				WithContext("index", st.index)
		}
		return pushString(st.flags, s.internFlag(name), "flag")
	default:
		return pushString(st.options, tok, "option")
	}
}

// stripMarkers removes one leading marker, or two when the token starts with two.
func stripMarkers(tok string) string {
	name := tok[1:]
	if len(name) > 0 && name[0] == flagMarker {
		name = name[1:]
	}
	return name
}

func (s *Session) internFlag(name string) string {
	if len(name) == 1 {
		return s.names.InternByte(name[0])
	}
	return s.names.Intern(name)
}

func pushString(a *dynarray.Array[string], v, what string) error {
	if err := a.PushBack(v); err != nil {
		return wrapf(err, "store %s %q", what, v)
	}
	return nil
}

// ensureArrays creates the flag and option arrays the first time the cursor
// sits on an action.
func (s *Session) ensureArrays(st *resolveState) error {
	if st.flags != nil {
		return nil
	}
	flags, err := newArray(s, pool.Strings)
	if err != nil {
		return wrapf(err, "create flag array")
	}
	options, err := newArray(s, pool.Strings)
	if err != nil {
		return wrapf(err, "create option array")
	}
	st.flags, st.options = flags, options
	return nil
}

// finish handles exhausted input: a group is incomplete, an action receives
// the accumulated flags and options.
func (s *Session) finish(st *resolveState) (Result, error) {
	body, ok := st.node.body.(*actionBody)
	if !ok {
		return Incomplete{Node: st.ref}, nil
	}
	if err := s.ensureArrays(st); err != nil {
		return nil, err
	}
	body.flags, body.options = st.flags, st.options
	return Complete{
		Node:    st.ref,
		Flags:   st.flags.Slice(),
		Options: st.options.Slice(),
	}, nil
}
