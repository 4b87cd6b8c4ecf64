package condition

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Rule returns the compiled condition for a field's show/hide relationship.
// Fields without a conditional relationship yield nil.
func Rule(field schema.Field) (*Expr, error) {
	if !kindOf(field).Conditional() {
		return nil, nil
	}
	rel := field.Relationship
	expr, err := Parse(rel.Condition)
	if err != nil {
		return nil, fmt.Errorf("condition: field %q: %w", field.ID, err)
	}
	return expr, nil
}

// Visibility reports, for every field of module, whether it is shown given
// values. A show rule displays the field when its condition holds; a hide
// rule removes it. Hidden fields hide their whole subtree. The first
// condition that fails to compile is returned as the error and its field is
// treated as visible.
func Visibility(module schema.Module, values map[string]any) (map[string]bool, error) {
	tree := hierarchy.Build(module)
	out := make(map[string]bool, len(tree.ByID))

	var firstErr error
	var visit func(nodes []*hierarchy.Node, parentVisible bool)
	visit = func(nodes []*hierarchy.Node, parentVisible bool) {
		for _, node := range nodes {
			visible := parentVisible
			if visible {
				own, err := shown(node.Field, values)
				if err != nil && firstErr == nil {
					firstErr = err
				}
				visible = own
			}
			out[node.Field.ID] = visible
			visit(node.Children, visible)
		}
	}
	visit(tree.Roots, true)
	return out, firstErr
}

// Visible returns the identifiers of shown fields in pre-order.
func Visible(module schema.Module, values map[string]any) ([]string, error) {
	states, err := Visibility(module, values)
	var ids []string
	hierarchy.Walk(hierarchy.Build(module).Roots, func(node *hierarchy.Node) bool {
		if states[node.Field.ID] {
			ids = append(ids, node.Field.ID)
		}
		return true
	})
	return ids, err
}

func shown(field schema.Field, values map[string]any) (bool, error) {
	expr, err := Rule(field)
	if err != nil {
		return true, err
	}
	if expr == nil || expr.root == nil {
		return true, nil
	}
	result := expr.Eval(values)
	if kindOf(field) == schema.RelationshipHide {
		return !result, nil
	}
	return result, nil
}

// kindOf resolves aliases so a rule applies even before validation has
// flagged the spelling.
func kindOf(field schema.Field) schema.RelationshipKind {
	if field.Relationship == nil {
		return schema.RelationshipNone
	}
	kind, ok := schema.ParseRelationshipKind(string(field.Relationship.Kind))
	if !ok {
		return field.Relationship.Kind
	}
	return kind
}
