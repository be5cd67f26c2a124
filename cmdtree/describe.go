package cmdtree

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Describe writes "name: description" for ref followed by, for a group, its
// children, or, for an action, the options and flags bound by the last
// complete resolution.
func (s *Session) Describe(w io.Writer, ref NodeRef) error {
	n, err := s.lookup(ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %s\n", s.io.Bold(n.name), n.description)

	switch body := n.body.(type) {
	case *groupBody:
		return s.describeChildren(w, body)
	case *actionBody:
		var flags, options []string
		if body.flags != nil {
			flags, options = body.flags.Slice(), body.options.Slice()
		}
		writeList(w, "OPTIONS", options)
		writeList(w, "FLAGS", flags)
	}
	return nil
}

func (s *Session) describeChildren(w io.Writer, g *groupBody) error {
	if g.children.Len() == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i := 0; i < g.children.Len(); i++ {
		ref, err := g.children.Get(i)
		if err != nil {
			return wrapf(err, "read child %d", i)
		}
		child, err := s.lookup(ref)
		if err != nil {
			return err
		}
		marker := ""
		if child.body.kind() == KindGroup {
			marker = " ..."
		}
		fmt.Fprintf(tw, "  %s%s\t%s\n", child.name, marker, child.description)
	}
	return tw.Flush()
}

func writeList(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "  %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "    %s\n", item)
	}
}
