package hierarchy

import (
	"sort"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// Builder converts a module's flat field slice into a tree of nodes.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Less != nil {
		opts.Less = options.Less
	}
	return &Builder{opts: opts}
}

// Build projects module into a tree. It is pure and total: fields whose parent
// does not resolve become roots (flagged Orphan), and for every parent cycle
// the member with the smallest identifier is promoted to a root (flagged
// Cycle). Duplicate identifiers keep their first occurrence only.
func (b *Builder) Build(module schema.Module) Result {
	result := Result{
		ByID: make(map[string]*Node, len(module.Fields)),
	}

	fields := make([]schema.Field, 0, len(module.Fields))
	seenDup := make(map[string]struct{})
	for _, field := range module.Fields {
		if _, exists := result.ByID[field.ID]; exists {
			if _, reported := seenDup[field.ID]; !reported {
				seenDup[field.ID] = struct{}{}
				result.Duplicates = append(result.Duplicates, field.ID)
			}
			continue
		}
		node := &Node{Field: field.Clone()}
		result.ByID[field.ID] = node
		fields = append(fields, field)
	}

	parents := make(map[string]string, len(fields))
	for _, field := range fields {
		if field.ParentID == "" {
			continue
		}
		if _, ok := result.ByID[field.ParentID]; !ok {
			result.ByID[field.ID].Orphan = true
			result.Orphans = append(result.Orphans, field.ID)
			continue
		}
		parents[field.ID] = field.ParentID
	}

	for _, id := range findCycleBreaks(fields, parents) {
		delete(parents, id)
		result.ByID[id].Cycle = true
		result.Cycles = append(result.Cycles, id)
	}

	for _, field := range fields {
		node := result.ByID[field.ID]
		parentID, ok := parents[field.ID]
		if !ok {
			result.Roots = append(result.Roots, node)
			continue
		}
		parent := result.ByID[parentID]
		parent.Children = append(parent.Children, node)
	}

	b.sortNodes(result.Roots)
	for _, node := range result.ByID {
		b.sortNodes(node.Children)
	}
	assignDepth(result.Roots, 0)

	sort.Strings(result.Orphans)
	sort.Strings(result.Cycles)
	sort.Strings(result.Duplicates)
	return result
}

func (b *Builder) sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return b.opts.Less(nodes[i].Field, nodes[j].Field)
	})
}

func assignDepth(nodes []*Node, depth int) {
	for _, node := range nodes {
		node.Depth = depth
		assignDepth(node.Children, depth+1)
	}
}

// findCycleBreaks walks the parent graph (each node has at most one parent, so
// every component holds at most one cycle) and returns, per cycle, the member
// with the smallest identifier.
func findCycleBreaks(fields []schema.Field, parents map[string]string) []string {
	const (
		unvisited = iota
		onPath
		done
	)

	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	sort.Strings(ids)

	state := make(map[string]int, len(ids))
	var breaks []string

	for _, start := range ids {
		if state[start] != unvisited {
			continue
		}
		var path []string
		current := start
		for current != "" && state[current] == unvisited {
			state[current] = onPath
			path = append(path, current)
			current = parents[current]
		}
		if current != "" && state[current] == onPath {
			cut := current
			for i := len(path) - 1; i >= 0; i-- {
				if path[i] < cut {
					cut = path[i]
				}
				if path[i] == current {
					break
				}
			}
			breaks = append(breaks, cut)
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return breaks
}
