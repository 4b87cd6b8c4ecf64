package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/schema"
)

type shape struct {
	ID       string
	Depth    int
	Children []shape
}

func shapeOf(nodes []*Node) []shape {
	var out []shape
	for _, node := range nodes {
		out = append(out, shape{ID: node.ID(), Depth: node.Depth, Children: shapeOf(node.Children)})
	}
	return out
}

func TestBuild_NestsAndOrdersChildren(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "b", Order: 2},
		{ID: "c", ParentID: "a", Order: 1},
		{ID: "a", Order: 1},
		{ID: "e", ParentID: "a", Order: 0},
		{ID: "d", ParentID: "c", Order: 3},
	}}

	result := New(Options{}).Build(module)

	want := []shape{
		{ID: "a", Depth: 0, Children: []shape{
			{ID: "e", Depth: 1},
			{ID: "c", Depth: 1, Children: []shape{{ID: "d", Depth: 2}}},
		}},
		{ID: "b", Depth: 0},
	}
	if diff := cmp.Diff(want, shapeOf(result.Roots)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if result.Len() != 5 {
		t.Fatalf("expected 5 indexed nodes, got %d", result.Len())
	}
	if node, ok := result.Node("d"); !ok || node.Depth != 2 {
		t.Fatalf("lookup d: ok=%v node=%+v", ok, node)
	}
}

func TestBuild_TieBreaksByIdentifier(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "zeta", Order: 1},
		{ID: "alpha", Order: 1},
		{ID: "mid", Order: 1},
	}}

	for i := 0; i < 5; i++ {
		result := New(Options{}).Build(module)
		got := []string{result.Roots[0].ID(), result.Roots[1].ID(), result.Roots[2].ID()}
		if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, got); diff != "" {
			t.Fatalf("tie-break mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestBuild_MissingParentBecomesRoot(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "a", Order: 1},
		{ID: "lost", ParentID: "ghost", Order: 0},
	}}

	result := New(Options{}).Build(module)

	if len(result.Roots) != 2 || result.Roots[0].ID() != "lost" {
		t.Fatalf("expected orphan promoted to root, got %+v", shapeOf(result.Roots))
	}
	if !result.ByID["lost"].Orphan {
		t.Fatal("expected orphan flag")
	}
	if diff := cmp.Diff([]string{"lost"}, result.Orphans); diff != "" {
		t.Fatalf("orphans mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_BreaksCycles(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "b"},
		{ID: "a", ParentID: "c"},
		{ID: "tail", ParentID: "b", Order: 1},
		{ID: "self", ParentID: "self"},
	}}

	result := New(Options{}).Build(module)

	if diff := cmp.Diff([]string{"a", "self"}, result.Cycles); diff != "" {
		t.Fatalf("cycle breaks mismatch (-want +got):\n%s", diff)
	}
	want := []shape{
		{ID: "a", Children: []shape{
			{ID: "b", Depth: 1, Children: []shape{
				{ID: "c", Depth: 2},
				{ID: "tail", Depth: 2},
			}},
		}},
		{ID: "self"},
	}
	if diff := cmp.Diff(want, shapeOf(result.Roots)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	if result.Len() != 5 {
		t.Fatalf("every field must stay reachable, got %d", result.Len())
	}
}

func TestBuild_DuplicatesKeepFirst(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "a", Type: "first"},
		{ID: "a", Type: "second"},
	}}

	result := New(Options{}).Build(module)

	if len(result.Roots) != 1 || result.Roots[0].Field.Type != "first" {
		t.Fatalf("expected first occurrence only, got %+v", result.Roots)
	}
	if diff := cmp.Diff([]string{"a"}, result.Duplicates); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{{ID: "a", Label: schema.Text("A")}}}
	result := New(Options{}).Build(module)
	result.Roots[0].Field.Label["en"] = "changed"
	if module.Fields[0].Label["en"] != "A" {
		t.Fatal("nodes must hold detached field copies")
	}
}

func TestBuild_CustomLess(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{{ID: "a"}, {ID: "b"}}}
	builder := New(Options{Less: func(a, b schema.Field) bool { return a.ID > b.ID }})
	result := builder.Build(module)
	if result.Roots[0].ID() != "b" {
		t.Fatalf("custom ordering ignored: %+v", shapeOf(result.Roots))
	}
}

func TestFlatten_RoundTrip(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", ParentID: "a", Order: 1},
		{ID: "d", ParentID: "c", Order: 1},
		{ID: "e", ParentID: "c", Order: 1},
	}}
	builder := New(Options{})
	tree := builder.Build(module)

	again := builder.Build(schema.Module{Fields: Flatten(tree.Roots)})

	if diff := cmp.Diff(tree.Roots, again.Roots); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDescendants(t *testing.T) {
	fields := []schema.Field{
		{ID: "a"},
		{ID: "b"},
		{ID: "c", ParentID: "a"},
		{ID: "d", ParentID: "c"},
		{ID: "e", ParentID: "a"},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}

	if diff := cmp.Diff([]string{"c", "e", "d"}, Descendants(fields, "a")); diff != "" {
		t.Fatalf("descendants mismatch (-want +got):\n%s", diff)
	}
	if got := Descendants(fields, "b"); len(got) != 0 {
		t.Fatalf("leaf has no descendants, got %v", got)
	}
	if diff := cmp.Diff([]string{"y"}, Descendants(fields, "x")); diff != "" {
		t.Fatalf("cyclic descendants mismatch (-want +got):\n%s", diff)
	}
}

func TestAncestors(t *testing.T) {
	fields := []schema.Field{
		{ID: "a"},
		{ID: "c", ParentID: "a"},
		{ID: "d", ParentID: "c"},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}
	if diff := cmp.Diff([]string{"c", "a"}, Ancestors(fields, "d")); diff != "" {
		t.Fatalf("ancestors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"y"}, Ancestors(fields, "x")); diff != "" {
		t.Fatalf("cyclic ancestors mismatch (-want +got):\n%s", diff)
	}
	if got := Ancestors(fields, "missing"); got != nil {
		t.Fatalf("unknown id: want nil, got %v", got)
	}
}
