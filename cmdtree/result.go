package cmdtree

import (
	"fmt"
	"strings"
)

// Result is the outcome of one resolution: Complete, Incomplete or
// UnmatchedPath. Only these three types implement it.
type Result interface {
	// Terminal returns the node the resolution stopped at.
	Terminal() NodeRef
	fmt.Stringer
	resolution()
}

// Complete means the tokens led to an action. Flags and Options are in the
// order encountered and are also bound to the action node.
type Complete struct {
	Node    NodeRef
	Flags   []string
	Options []string
}

// Incomplete means the tokens ran out while the cursor was on a group.
type Incomplete struct {
	Node NodeRef
}

// UnmatchedPath means Token matched no child of the group Node. Consumed
// holds the group names walked before it, program name excluded.
type UnmatchedPath struct {
	Node     NodeRef
	Consumed []string
	Token    string
}

func (r Complete) Terminal() NodeRef      { return r.Node }
func (r Incomplete) Terminal() NodeRef    { return r.Node }
func (r UnmatchedPath) Terminal() NodeRef { return r.Node }

func (Complete) resolution()      {}
func (Incomplete) resolution()    {}
func (UnmatchedPath) resolution() {}

func (r Complete) String() string {
	return fmt.Sprintf("complete flags=[%s] options=[%s]",
		strings.Join(r.Flags, " "), strings.Join(r.Options, " "))
}

func (r Incomplete) String() string { return "incomplete" }

func (r UnmatchedPath) String() string {
	return fmt.Sprintf("unmatched %q after [%s]", r.Token, strings.Join(r.Consumed, " "))
}
