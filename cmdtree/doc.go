// Package cmdtree builds a tree of command groups and actions and resolves
// invocation arguments against it.
//
// A Session owns the tree. Nodes live in a fixed-capacity arena and are
// referred to by NodeRef; the arrays holding a group's children and an
// action's flags and options are tracked separately and all released by End.
//
//	s, err := cmdtree.Begin(cmdtree.DefaultCapacity)
//	if err != nil {
//	    return err
//	}
//	defer s.End()
//
//	root, _ := s.CreateGroup("cat", "cat utilities")
//	meow, _ := s.AddAction(root, "meow", "make the cat meow", nil)
//
//	res, err := s.Resolve(root, []string{"cat", "meow", "-v", "--loud", "file.txt"})
//	// res == Complete{Node: meow, Flags: ["v", "loud"], Options: ["file.txt"]}
//
// Resolve only classifies tokens. Execute additionally runs the handler of
// the resolved action, reports usage errors and, through
// ExecuteAndGetExitCode, maps the outcome to a process exit code.
package cmdtree
