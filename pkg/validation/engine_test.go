package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/schema"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func codes(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.FieldID+":"+issue.Code)
	}
	return out
}

func TestEngine_CleanModuleHasNoIssues(t *testing.T) {
	module := schema.Module{
		Title: schema.Text("Contact"),
		Fields: []schema.Field{
			{ID: "group_1", Type: "group", Label: schema.Text("Person")},
			{ID: "textbox_1", Type: "textbox", ParentID: "group_1", Label: schema.Text("<b>Name</b>")},
			{
				ID:      "dropdown_1",
				Type:    "dropdown",
				Label:   schema.Text("Country"),
				Options: []schema.Option{{Value: "ca"}, {Value: "us"}},
			},
		},
	}

	issues := New(WithTypeRegistry(fieldtypes.NewRegistry())).Validate(module)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestEngine_StructuralIssues(t *testing.T) {
	module := schema.Module{
		Fields: []schema.Field{
			{ID: "a", Label: schema.Text("A"), ParentID: "b"},
			{ID: "b", Label: schema.Text("B"), ParentID: "a"},
			{ID: "c", Label: schema.Text("C"), ParentID: "ghost"},
			{ID: "c", Label: schema.Text("C again")},
		},
	}

	got := codes(New().Validate(module))
	want := []string{
		":" + CodeMissingTitle,
		"c:" + CodeDuplicateID,
		"a:" + CodeCycle,
		"c:" + CodeUnknownParent,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if !HasErrors(New().Validate(module)) {
		t.Fatal("expected HasErrors")
	}
}

func TestEngine_FieldRules(t *testing.T) {
	registry := fieldtypes.NewRegistry()
	module := schema.Module{
		Title: schema.Text("Rules"),
		Fields: []schema.Field{
			{ID: "txt", Type: "textbox", Label: schema.Text("Text")},
		},
	}

	cases := []struct {
		name  string
		field schema.Field
		want  []string
	}{
		{
			name:  "missing label",
			field: schema.Field{ID: "f", Type: "textbox"},
			want:  []string{"f:" + CodeMissingLabel},
		},
		{
			name:  "hidden fields need no label",
			field: schema.Field{ID: "f", Type: "hidden"},
			want:  []string{},
		},
		{
			name:  "unknown type",
			field: schema.Field{ID: "f", Type: "sparkle", Label: schema.Text("x")},
			want:  []string{"f:" + CodeUnknownType},
		},
		{
			name:  "parent not container",
			field: schema.Field{ID: "f", Type: "textbox", ParentID: "txt", Label: schema.Text("x")},
			want:  []string{"f:" + CodeParentNotContainer},
		},
		{
			name:  "choice without options",
			field: schema.Field{ID: "f", Type: "radio", Label: schema.Text("x")},
			want:  []string{"f:" + CodeMissingOptions},
		},
		{
			name: "bad options",
			field: schema.Field{ID: "f", Type: "radio", Label: schema.Text("x"), Options: []schema.Option{
				{Value: "a"}, {Value: " "}, {Value: "a"},
			}},
			want: []string{"f:" + CodeBlankOption, "f:" + CodeDuplicateOption},
		},
		{
			name: "bounds and pattern",
			field: schema.Field{ID: "f", Type: "textbox", Label: schema.Text("x"), Validation: &schema.ValidationRules{
				MinLength: intPtr(5),
				MaxLength: intPtr(2),
				Min:       floatPtr(10),
				Max:       floatPtr(1),
				Pattern:   "([a-z",
			}},
			want: []string{"f:" + CodeInvalidBounds, "f:" + CodeInvalidBounds, "f:" + CodeInvalidPattern},
		},
		{
			name:  "negative min length",
			field: schema.Field{ID: "f", Type: "textbox", Label: schema.Text("x"), Validation: &schema.ValidationRules{MinLength: intPtr(-1)}},
			want:  []string{"f:" + CodeInvalidBounds},
		},
		{
			name: "conditional relationship on root",
			field: schema.Field{ID: "f", Type: "textbox", Label: schema.Text("x"), Relationship: &schema.Relationship{
				Kind: schema.RelationshipShow,
			}},
			want: []string{"f:" + CodeInvalidRelationship, "f:" + CodeMissingCondition},
		},
		{
			name: "condition that does not parse",
			field: schema.Field{ID: "f", Type: "textbox", ParentID: "txt", Label: schema.Text("x"), Relationship: &schema.Relationship{
				Kind:      schema.RelationshipShow,
				Condition: "txt = 'yes'",
			}},
			want: []string{"f:" + CodeParentNotContainer, "f:" + CodeInvalidCondition},
		},
		{
			name: "condition reading unknown fields",
			field: schema.Field{ID: "f", Type: "textbox", ParentID: "txt", Label: schema.Text("x"), Relationship: &schema.Relationship{
				Kind:      schema.RelationshipHide,
				Condition: "txt == 'a' || ghost.value",
			}},
			want: []string{"f:" + CodeParentNotContainer, "f:" + CodeUnknownConditionRef},
		},
		{
			name: "alias relationship kind",
			field: schema.Field{ID: "f", Type: "textbox", ParentID: "txt", Label: schema.Text("x"), Relationship: &schema.Relationship{
				Kind:      "conditional-show",
				Condition: "((( broken",
			}},
			want: []string{"f:" + CodeParentNotContainer, "f:" + CodeInvalidRelationship},
		},
		{
			name: "unknown relationship kind and source",
			field: schema.Field{ID: "f", Type: "textbox", Label: schema.Text("x"), Relationship: &schema.Relationship{
				Kind:        "belongsTo",
				SourceField: "nope",
			}},
			want: []string{"f:" + CodeInvalidRelationship, "f:" + CodeUnknownSource},
		},
		{
			name: "unsafe markup",
			field: schema.Field{
				ID:    "f",
				Type:  "textbox",
				Label: schema.LocalizedText{"en": "Name<script>alert(1)</script>", "fr": "Nom & prénom"},
				Help:  schema.Text(`<a href="javascript:alert(1)">help</a>`),
			},
			want: []string{"f:" + CodeUnsafeMarkup, "f:" + CodeUnsafeMarkup},
		},
	}

	engine := New(WithTypeRegistry(registry))
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := codes(engine.ValidateField(tc.field, module))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_OptionsToggleChecks(t *testing.T) {
	field := schema.Field{ID: "f", Label: schema.Text("<script>x</script>y")}
	module := schema.Module{Fields: []schema.Field{field}}

	engine := New(WithMarkupPolicy(nil), WithRequireTitle(false), WithFieldRule(func(f schema.Field, _ schema.Module) []Issue {
		return []Issue{{Severity: SeverityInfo, FieldID: f.ID, Code: "custom", Message: "seen"}}
	}))

	got := codes(engine.Validate(module))
	if diff := cmp.Diff([]string{"f:custom"}, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestHelpers(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityWarning, FieldID: "a", Code: "x"},
		{Severity: SeverityInfo, FieldID: "b", Code: "y"},
		{Severity: SeverityWarning, Code: "z"},
	}
	if HasErrors(issues) {
		t.Fatal("no error severity present")
	}
	if got := ForField(issues, "a"); len(got) != 1 || got[0].Code != "x" {
		t.Fatalf("ForField mismatch: %v", got)
	}
	if diff := cmp.Diff(map[Severity]int{SeverityWarning: 2, SeverityInfo: 1}, Count(issues)); diff != "" {
		t.Fatalf("count mismatch (-want +got):\n%s", diff)
	}
	if got := (Issue{Severity: SeverityError, FieldID: "a", Message: "bad"}).String(); got != "error: a: bad" {
		t.Fatalf("String: %q", got)
	}
	if got := (Nop{}).Validate(schema.Module{}); got != nil {
		t.Fatalf("Nop must report nothing, got %v", got)
	}
}

func TestValidatorFunc(t *testing.T) {
	var v Validator = ValidatorFunc(func(module schema.Module) []Issue {
		return []Issue{
			{Severity: SeverityError, FieldID: "a", Code: "first"},
			{Severity: SeverityWarning, FieldID: "b", Code: "second"},
			{Severity: SeverityInfo, Code: "module"},
		}
	})

	if got := len(v.Validate(schema.Module{})); got != 3 {
		t.Fatalf("Validate: want 3 issues, got %d", got)
	}
	got := v.ValidateField(schema.Field{ID: "b"}, schema.Module{})
	want := []Issue{{Severity: SeverityWarning, FieldID: "b", Code: "second"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ValidateField mismatch (-want +got):\n%s", diff)
	}
}
