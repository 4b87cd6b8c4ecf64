package schema

import "sort"

// ValidationRules is the optional constraint sub-record carried by a field.
// Pointer bounds distinguish "unset" from zero.
type ValidationRules struct {
	Required  bool          `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int          `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int          `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min       *float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64      `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   LocalizedText `json:"message,omitempty" yaml:"message,omitempty"`
}

// Clone returns a detached copy of the rules.
func (v *ValidationRules) Clone() *ValidationRules {
	if v == nil {
		return nil
	}
	out := *v
	out.MinLength = cloneInt(v.MinLength)
	out.MaxLength = cloneInt(v.MaxLength)
	out.Min = cloneFloat(v.Min)
	out.Max = cloneFloat(v.Max)
	out.Message = v.Message.Clone()
	return &out
}

// Option is one selectable choice of a choice-type field.
type Option struct {
	Value   string        `json:"value" yaml:"value"`
	Label   LocalizedText `json:"label,omitempty" yaml:"label,omitempty"`
	Default bool          `json:"default,omitempty" yaml:"default,omitempty"`
}

// Field is a single form element definition. ParentID is empty for root
// fields; Order is the sort key among siblings, ties broken by ID.
type Field struct {
	ID           string           `json:"id" yaml:"id"`
	Type         string           `json:"type" yaml:"type"`
	ParentID     string           `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Order        int              `json:"order" yaml:"order"`
	Label        LocalizedText    `json:"label,omitempty" yaml:"label,omitempty"`
	Help         LocalizedText    `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder  LocalizedText    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Validation   *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options      []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Config       map[string]any   `json:"config,omitempty" yaml:"config,omitempty"`
	Relationship *Relationship    `json:"relationship,omitempty" yaml:"relationship,omitempty"`
}

// IsRoot reports whether the field has no parent.
func (f Field) IsRoot() bool {
	return f.ParentID == ""
}

// Clone returns a fully detached copy of the field.
func (f Field) Clone() Field {
	out := f
	out.Label = f.Label.Clone()
	out.Help = f.Help.Clone()
	out.Placeholder = f.Placeholder.Clone()
	out.Validation = f.Validation.Clone()
	out.Relationship = cloneRelationship(f.Relationship)
	if f.Options != nil {
		out.Options = make([]Option, len(f.Options))
		for i, opt := range f.Options {
			opt.Label = opt.Label.Clone()
			out.Options[i] = opt
		}
	}
	out.Config = cloneConfig(f.Config)
	return out
}

// Less orders fields by Order, then by ID so equal orders stay deterministic.
func Less(a, b Field) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.ID < b.ID
}

// SortFields sorts fields in place using Less.
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return Less(fields[i], fields[j])
	})
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneConfig(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneConfig(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}
