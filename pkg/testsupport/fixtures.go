package testsupport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/store"
)

// SampleModule returns a small contact form exercising groups, choices,
// validation rules and a conditional relationship. Each call returns a fresh
// copy.
func SampleModule() schema.Module {
	minLen, maxLen := 2, 80
	return schema.Module{
		ID:          1,
		Title:       schema.LocalizedText{"en": "Contact", "fr": "Contact"},
		Description: schema.Text("Reach out to the team"),
		Fields: []schema.Field{
			{ID: "group_1", Type: "group", Order: 0, Label: schema.LocalizedText{"en": "Person", "fr": "Personne"}},
			{
				ID:         "textbox_1",
				Type:       "textbox",
				ParentID:   "group_1",
				Order:      0,
				Label:      schema.LocalizedText{"en": "Name", "fr": "Nom"},
				Validation: &schema.ValidationRules{Required: true, MinLength: &minLen, MaxLength: &maxLen},
			},
			{ID: "email_1", Type: "email", ParentID: "group_1", Order: 1, Label: schema.Text("Email")},
			{
				ID:    "dropdown_1",
				Type:  "dropdown",
				Order: 1,
				Label: schema.Text("Topic"),
				Options: []schema.Option{
					{Value: "sales", Label: schema.Text("Sales"), Default: true},
					{Value: "support", Label: schema.Text("Support")},
				},
			},
			{
				ID:           "textarea_1",
				Type:         "textarea",
				ParentID:     "group_1",
				Order:        2,
				Label:        schema.Text("Details"),
				Relationship: &schema.Relationship{Kind: schema.RelationshipShow, Condition: "dropdown_1 == 'support'", SourceField: "dropdown_1"},
			},
		},
	}
}

// LoadModule reads a module fixture. The format is taken from the extension.
func LoadModule(t *testing.T, path string) schema.Module {
	t.Helper()

	module, err := LoadModuleFromPath(path)
	if err != nil {
		t.Fatalf("load module: %v", err)
	}
	return module
}

// LoadModuleFromPath returns a fixture module without requiring testing.T.
func LoadModuleFromPath(path string) (schema.Module, error) {
	if path == "" {
		return schema.Module{}, errors.New("testsupport: module path is required")
	}
	module, err := store.ReadFile(path)
	if err != nil {
		return schema.Module{}, fmt.Errorf("testsupport: %w", err)
	}
	return module, nil
}

// NewEditor returns an editor session with module loaded and a recorder
// subscribed.
func NewEditor(t *testing.T, module schema.Module, options ...editor.Option) (*editor.State, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	options = append([]editor.Option{editor.WithSessionID(t.Name())}, options...)
	state := editor.New(options...)
	state.LoadModule(module)
	state.Subscribe(rec)
	return state, rec
}

// Recorder is an editor observer that keeps every event.
type Recorder struct {
	Events []editor.Event
}

// Notify implements editor.Observer.
func (r *Recorder) Notify(event editor.Event) {
	r.Events = append(r.Events, event)
}

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []editor.EventKind {
	out := make([]editor.EventKind, 0, len(r.Events))
	for _, event := range r.Events {
		out = append(out, event.Kind)
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
