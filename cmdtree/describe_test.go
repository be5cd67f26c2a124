//nolint:testpackage // using package name 'cmdtree' to access unexported fields for testing
package cmdtree

import (
	"bytes"
	"strings"
	"testing"

	treeio "github.com/dzonerzy/go-cmdtree/io"
)

func TestDescribeGroup(t *testing.T) {
	s := newSession(t, WithIO(treeio.New().NoColor()))
	root := mustGroup(t, s, "prog")
	if _, err := s.AddAction(root, "meow", "make the cat meow", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddGroup(root, "pets", "pet commands"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Describe(&buf, root); err != nil {
		t.Fatal(err)
	}

	want := "prog: prog group\n" +
		"  meow      make the cat meow\n" +
		"  pets ...  pet commands\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestDescribeEmptyGroupAndUnresolvedAction(t *testing.T) {
	s := newSession(t, WithIO(treeio.New().NoColor()))
	group := mustGroup(t, s, "empty")
	action := mustAction(t, s, "leaf")

	var buf bytes.Buffer
	if err := s.Describe(&buf, group); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "empty: empty group\n" {
		t.Errorf("Unexpected group description %q", buf.String())
	}

	buf.Reset()
	if err := s.Describe(&buf, action); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "leaf: leaf action\n  OPTIONS:\n  FLAGS:\n" {
		t.Errorf("Unexpected action description %q", buf.String())
	}
}

func TestDescribeColorsName(t *testing.T) {
	s := newSession(t, WithIO(treeio.New().ForceColor()))
	root := mustAction(t, s, "prog")

	var buf bytes.Buffer
	if err := s.Describe(&buf, root); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b[1mprog\x1b[0m: ") {
		t.Errorf("Expected bold name, got %q", buf.String())
	}
}

func TestDescribeInvalidRef(t *testing.T) {
	s := newSession(t)
	if err := s.Describe(&bytes.Buffer{}, NodeRef{}); err == nil {
		t.Error("Expected error for a zero reference")
	}
}
