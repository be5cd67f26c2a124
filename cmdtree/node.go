package cmdtree

import (
	"github.com/dzonerzy/go-cmdtree/internal/arena"
	"github.com/dzonerzy/go-cmdtree/internal/dynarray"
	"github.com/dzonerzy/go-cmdtree/internal/pool"
)

// Kind distinguishes the two node variants.
type Kind uint8

const (
	KindGroup Kind = iota + 1
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindAction:
		return "action"
	default:
		return "invalid"
	}
}

// NodeRef is a non-owning reference to a node in a Session's arena. It is
// valid only until the Session ends. The zero NodeRef refers to nothing.
type NodeRef struct {
	h arena.Handle
}

// Valid reports whether r was produced by a Session.
func (r NodeRef) Valid() bool { return r.h.Valid() }

// node is the arena-resident record. Shared fields are lifted out of the
// variant body.
type node struct {
	name        string
	description string
	body        nodeBody
}

// nodeBody is implemented only by *groupBody and *actionBody.
type nodeBody interface {
	kind() Kind
}

type groupBody struct {
	children *dynarray.Array[NodeRef]
}

func (*groupBody) kind() Kind { return KindGroup }

// actionBody holds the arrays bound by the most recent complete resolution.
// Both are nil until then.
type actionBody struct {
	flags   *dynarray.Array[string]
	options *dynarray.Array[string]
	handler HandlerFunc
}

func (*actionBody) kind() Kind { return KindAction }

// childPool backs group child lists.
var childPool = pool.NewSlicePool[NodeRef](4)

// Node is a read-only view of a tree node. It satisfies middleware.Command.
type Node struct {
	ref         NodeRef
	name        string
	description string
	kind        Kind
	hasHandler  bool
}

func viewOf(ref NodeRef, n *node) Node {
	v := Node{ref: ref, name: n.name, description: n.description, kind: n.body.kind()}
	if a, ok := n.body.(*actionBody); ok {
		v.hasHandler = a.handler != nil
	}
	return v
}

// Ref returns the reference the view was read from.
func (n Node) Ref() NodeRef { return n.ref }

// Name returns the node name.
func (n Node) Name() string { return n.name }

// Description returns the node description.
func (n Node) Description() string { return n.description }

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.kind }

// IsGroup reports whether the node is a group.
func (n Node) IsGroup() bool { return n.kind == KindGroup }

// IsAction reports whether the node is an action.
func (n Node) IsAction() bool { return n.kind == KindAction }

// HasHandler reports whether an action has a handler attached.
func (n Node) HasHandler() bool { return n.hasHandler }
