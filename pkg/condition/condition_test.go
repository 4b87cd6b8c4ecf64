package condition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/schema"
)

func TestExprEval(t *testing.T) {
	values := map[string]any{
		"country":   "ca",
		"age":       42,
		"subscribe": true,
		"empty":     "",
		"tags":      []any{"news", "offers"},
		"address":   map[string]any{"city": "Toronto"},
		"score":     "7.5",
		"off":       "false",
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"subscribe", true},
		{"empty", false},
		{"missing", false},
		{"off", false},
		{"!missing", true},
		{"country == 'ca'", true},
		{`country == "us"`, false},
		{"country != 'us'", true},
		{"country == ca", true},
		{"age == 42", true},
		{"age == 42.0", true},
		{"age == '42'", true},
		{"score == 7.5", true},
		{"subscribe == true", true},
		{"subscribe == false", false},
		{"missing == null", true},
		{"country == null", false},
		{"missing != null", false},
		{"tags == 'offers'", true},
		{"tags == 'sports'", false},
		{"address.city == 'Toronto'", true},
		{"address.zip == null", true},
		{"country.city == null", true},
		{"country == 'ca' && age == 42", true},
		{"country == 'us' || age == 42", true},
		{"!(country == 'ca') || empty", false},
		{"country == 'us' || country == 'ca' && subscribe", true},
		{"(country == 'us' || country == 'ca') && !subscribe", false},
		{`note == 'it\'s'`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := expr.Eval(values); got != tt.want {
				t.Fatalf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"country = 'ca'",
		"a & b",
		"a | b",
		"(a == 1",
		"a ==",
		"== 1",
		"a == 'open",
		"a b",
		"a == (1)",
		"a == -",
		"!",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse(%q) error = %v, want *SyntaxError", src, err)
			}
		})
	}
}

func TestExprFields(t *testing.T) {
	expr := MustParse("plan == 'pro' && (seats || address.city == 'x') && !plan")
	want := []string{"address", "plan", "seats"}
	if diff := cmp.Diff(want, expr.Fields()); diff != "" {
		t.Fatalf("Fields mismatch (-want +got):\n%s", diff)
	}
	if got := expr.String(); got != "plan == 'pro' && (seats || address.city == 'x') && !plan" {
		t.Fatalf("String = %q", got)
	}

	var nilExpr *Expr
	if !nilExpr.Eval(nil) || nilExpr.Fields() != nil || nilExpr.String() != "" {
		t.Fatalf("nil Expr should be an always-true empty expression")
	}
}

func TestVisibility(t *testing.T) {
	module := schema.Module{
		Title: schema.Text("Support"),
		Fields: []schema.Field{
			{ID: "topic", Type: "select", Order: 0},
			{ID: "details", Type: "group", Order: 1, Relationship: &schema.Relationship{Kind: schema.RelationshipShow, Condition: "topic == 'billing'"}},
			{ID: "invoice", Type: "textbox", ParentID: "details", Order: 0},
			{ID: "reason", Type: "textarea", ParentID: "details", Order: 1, Relationship: &schema.Relationship{Kind: schema.RelationshipHide, Condition: "invoice"}},
			{ID: "email", Type: "email", Order: 2},
		},
	}

	tests := []struct {
		name   string
		values map[string]any
		want   []string
	}{
		{"no answers", nil, []string{"topic", "email"}},
		{"billing", map[string]any{"topic": "billing"}, []string{"topic", "details", "invoice", "reason", "email"}},
		{"billing with invoice", map[string]any{"topic": "billing", "invoice": "INV-1"}, []string{"topic", "details", "invoice", "email"}},
		{"other topic keeps subtree hidden", map[string]any{"topic": "other", "invoice": ""}, []string{"topic", "email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Visible(module, tt.values)
			if err != nil {
				t.Fatalf("Visible: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("visible mismatch (-want +got):\n%s", diff)
			}
		})
	}

	states, _ := Visibility(module, nil)
	if states["reason"] || states["invoice"] || !states["email"] {
		t.Fatalf("unexpected states %v", states)
	}
}

func TestVisibility_BrokenConditionStaysVisible(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "a", Type: "group"},
		{ID: "b", Type: "textbox", ParentID: "a", Relationship: &schema.Relationship{Kind: schema.RelationshipShow, Condition: "a = 1"}},
	}}
	got, err := Visible(module, nil)
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestRule(t *testing.T) {
	expr, err := Rule(schema.Field{ID: "x", Relationship: &schema.Relationship{Kind: schema.RelationshipCascade, Condition: "bad ="}})
	if err != nil || expr != nil {
		t.Fatalf("non-conditional kinds should be ignored, got %v, %v", expr, err)
	}
	expr, err = Rule(schema.Field{ID: "x", Relationship: &schema.Relationship{Kind: schema.RelationshipShow, Condition: "y"}})
	if err != nil || expr.String() != "y" {
		t.Fatalf("Rule = %v, %v", expr, err)
	}
}

func TestVisibility_AliasKinds(t *testing.T) {
	module := schema.Module{Fields: []schema.Field{
		{ID: "group_1", Type: "group"},
		{ID: "textbox_1", Type: "textbox", ParentID: "group_1", Order: 0, Relationship: &schema.Relationship{Kind: "conditional-show", Condition: "topic == 'x'"}},
		{ID: "textbox_2", Type: "textbox", ParentID: "group_1", Order: 1, Relationship: &schema.Relationship{Kind: "conditional-hide", Condition: "((( broken"}},
	}}

	got, err := Visible(module, nil)
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected the broken condition to surface, got %v", err)
	}
	if diff := cmp.Diff([]string{"group_1", "textbox_2"}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}
