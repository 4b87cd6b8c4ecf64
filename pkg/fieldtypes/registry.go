package fieldtypes

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in type tags.
const (
	TypeTextbox     = "textbox"
	TypeTextarea    = "textarea"
	TypeNumber      = "number"
	TypeEmail       = "email"
	TypeDate        = "date"
	TypeCheckbox    = "checkbox"
	TypeRadio       = "radio"
	TypeDropdown    = "dropdown"
	TypeMultiSelect = "multiselect"
	TypeFile        = "file"
	TypeHidden      = "hidden"
	TypeLabel       = "label"
	TypeGroup       = "group"
	TypeSection     = "section"
	TypeRepeater    = "repeater"
)

// Type describes a registered field type.
type Type struct {
	Tag   string
	Label string
	// Container types may hold child fields.
	Container bool
	// Choice types expect a non-empty option list.
	Choice bool
}

// Labeler supplies the default label for a type tag. The editor depends on
// this contract only.
type Labeler interface {
	DefaultLabel(tag string) string
}

// LabelerFunc adapts a function into a Labeler.
type LabelerFunc func(tag string) string

// DefaultLabel delegates to the underlying function.
func (fn LabelerFunc) DefaultLabel(tag string) string {
	return fn(tag)
}

// Registry stores field types keyed by normalised tag. It is safe for
// concurrent use. Unknown tags fall back to a humanized label.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry constructs a registry with the built-in types registered.
func NewRegistry() *Registry {
	reg := &Registry{types: make(map[string]Type)}
	reg.registerBuiltins()
	return reg
}

// Register adds or replaces a type. The tag is required.
func (r *Registry) Register(t Type) error {
	tag := normalizeTag(t.Tag)
	if tag == "" {
		return fmt.Errorf("fieldtypes: tag is required")
	}
	t.Tag = tag
	if strings.TrimSpace(t.Label) == "" {
		t.Label = Humanize(tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[tag] = t
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(t Type) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered for tag.
func (r *Registry) Lookup(tag string) (Type, bool) {
	if r == nil {
		return Type{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[normalizeTag(tag)]
	return t, ok
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// DefaultLabel implements Labeler.
func (r *Registry) DefaultLabel(tag string) string {
	if t, ok := r.Lookup(tag); ok {
		return t.Label
	}
	return Humanize(tag)
}

// IsContainer reports whether tag may hold children.
func (r *Registry) IsContainer(tag string) bool {
	t, ok := r.Lookup(tag)
	return ok && t.Container
}

// IsChoice reports whether tag expects options.
func (r *Registry) IsChoice(tag string) bool {
	t, ok := r.Lookup(tag)
	return ok && t.Choice
}

// List returns the registered tags sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (r *Registry) registerBuiltins() {
	builtins := []Type{
		{Tag: TypeTextbox, Label: "Text Box"},
		{Tag: TypeTextarea, Label: "Text Area"},
		{Tag: TypeNumber, Label: "Number"},
		{Tag: TypeEmail, Label: "Email"},
		{Tag: TypeDate, Label: "Date"},
		{Tag: TypeCheckbox, Label: "Checkbox"},
		{Tag: TypeRadio, Label: "Radio Group", Choice: true},
		{Tag: TypeDropdown, Label: "Dropdown", Choice: true},
		{Tag: TypeMultiSelect, Label: "Multi Select", Choice: true},
		{Tag: TypeFile, Label: "File Upload"},
		{Tag: TypeHidden, Label: "Hidden"},
		{Tag: TypeLabel, Label: "Label"},
		{Tag: TypeGroup, Label: "Group", Container: true},
		{Tag: TypeSection, Label: "Section", Container: true},
		{Tag: TypeRepeater, Label: "Repeater", Container: true},
	}
	for _, t := range builtins {
		r.MustRegister(t)
	}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
