package hierarchy

import "github.com/goliatone/go-formedit/pkg/schema"

// Walk visits nodes depth-first in sibling order. Returning false from fn
// skips the node's children.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if fn(node) {
			Walk(node.Children, fn)
		}
	}
}

// Flatten returns detached copies of every field in pre-order. ParentID
// values are rewritten to match the tree shape, so Flatten followed by Build
// reproduces the input tree.
func Flatten(roots []*Node) []schema.Field {
	var out []schema.Field
	var visit func(parentID string, nodes []*Node)
	visit = func(parentID string, nodes []*Node) {
		for _, node := range nodes {
			if node == nil {
				continue
			}
			field := node.Field.Clone()
			field.ParentID = parentID
			out = append(out, field)
			visit(field.ID, node.Children)
		}
	}
	visit("", roots)
	return out
}

// Descendants returns every transitive child of id following parent links
// breadth-first. id itself is excluded; cycles are tolerated.
func Descendants(fields []schema.Field, id string) []string {
	if id == "" {
		return nil
	}
	children := make(map[string][]string, len(fields))
	for _, field := range fields {
		if field.ParentID == "" {
			continue
		}
		children[field.ParentID] = append(children[field.ParentID], field.ID)
	}

	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first, stopping at a root,
// an unresolved parent, or a repeated identifier.
func Ancestors(fields []schema.Field, id string) []string {
	parents := make(map[string]string, len(fields))
	for _, field := range fields {
		if _, exists := parents[field.ID]; !exists {
			parents[field.ID] = field.ParentID
		}
	}
	if _, ok := parents[id]; !ok {
		return nil
	}

	visited := map[string]struct{}{id: {}}
	var out []string
	current := parents[id]
	for current != "" {
		if _, ok := parents[current]; !ok {
			break
		}
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}
		out = append(out, current)
		current = parents[current]
	}
	return out
}
