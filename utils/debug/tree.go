// Package debug renders hierarchies as indented text for humans.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// Tree accumulates an indented dump of a hierarchy. Lines are added
// through Node handles, each one level below the node it was taken
// from, so call sites nest the way the data does instead of counting
// depth by hand.
type Tree struct {
	buf strings.Builder
}

// Node marks a line of the tree children can be appended under.
type Node struct {
	tree  *Tree
	depth int
}

func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) String() string {
	return t.buf.String()
}

// Root writes a top level line and returns its node.
func (t *Tree) Root(format string, args ...any) Node {
	n := Node{tree: t}
	n.write(format, args...)
	return n
}

// Child writes a line one level below n and returns its node, so
// deeper levels chain naturally.
func (n Node) Child(format string, args ...any) Node {
	c := Node{tree: n.tree, depth: n.depth + 1}
	c.write(format, args...)
	return c
}

// Text writes a labelled free form value one level below n. The value
// is quoted to keep control characters and markup visible.
func (n Node) Text(label, value string) {
	if value != "" {
		value = strconv.Quote(value)
	}
	Node{tree: n.tree, depth: n.depth + 1}.write("%s: %s", label, value)
}

func (n Node) write(format string, args ...any) {
	for range n.depth {
		n.tree.buf.WriteString("  ")
	}
	fmt.Fprintf(&n.tree.buf, format, args...)
	n.tree.buf.WriteByte('\n')
}
