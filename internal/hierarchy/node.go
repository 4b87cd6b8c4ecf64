package hierarchy

import "github.com/goliatone/go-formedit/pkg/schema"

// Node wraps one field with its ordered children and computed depth. Nodes
// are rebuilt from scratch on every change and never patched in place.
type Node struct {
	Field    schema.Field
	Children []*Node
	Depth    int
	// Orphan marks a field whose declared parent does not exist.
	Orphan bool
	// Cycle marks the field chosen to break a parent cycle.
	Cycle bool
}

// ID returns the wrapped field identifier.
func (n *Node) ID() string {
	if n == nil {
		return ""
	}
	return n.Field.ID
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n == nil || len(n.Children) == 0
}

// Result is the output of a build: root nodes in sibling order and an index
// of every node by field identifier.
type Result struct {
	Roots []*Node
	ByID  map[string]*Node
	// Orphans lists fields whose parent did not resolve, sorted.
	Orphans []string
	// Cycles lists the fields promoted to roots to break cycles, sorted.
	Cycles []string
	// Duplicates lists identifiers that appeared more than once; only the
	// first occurrence is projected.
	Duplicates []string
}

// Node returns the node for id, if present.
func (r Result) Node(id string) (*Node, bool) {
	node, ok := r.ByID[id]
	return node, ok
}

// Len returns the number of projected nodes.
func (r Result) Len() int {
	return len(r.ByID)
}
