package hierarchy

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of roots, one node per line, with labels
// resolved for locale. Orphaned nodes and nodes promoted to break a cycle are
// marked.
func Fprint(w io.Writer, roots []*Node, locale string) error {
	var err error
	Walk(roots, func(node *Node) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintln(w, Line(node, locale))
		return err == nil
	})
	return err
}

// Sprint returns the Fprint outline as a string.
func Sprint(roots []*Node, locale string) string {
	var b strings.Builder
	_ = Fprint(&b, roots, locale)
	return b.String()
}

// Line formats a single node as it appears in the outline.
func Line(node *Node, locale string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", node.Depth))
	b.WriteString(node.ID())
	b.WriteString(" [")
	b.WriteString(node.Field.Type)
	b.WriteString("]")
	if label := node.Field.Label.Get(locale); label != "" {
		b.WriteString(" ")
		b.WriteString(fmt.Sprintf("%q", label))
	}
	if node.Orphan {
		b.WriteString(" (orphan)")
	}
	if node.Cycle {
		b.WriteString(" (cycle)")
	}
	return b.String()
}
