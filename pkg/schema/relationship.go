package schema

import "strings"

// RelationshipKind tags why a field is nested under its parent. The set is
// closed; ParseRelationshipKind rejects anything else.
type RelationshipKind string

const (
	RelationshipNone       RelationshipKind = "none"
	RelationshipGroup      RelationshipKind = "group"
	RelationshipShow       RelationshipKind = "show"
	RelationshipHide       RelationshipKind = "hide"
	RelationshipCascade    RelationshipKind = "cascade"
	RelationshipValidation RelationshipKind = "validation"
	RelationshipRepeater   RelationshipKind = "repeater"
)

// RelationshipKinds lists every valid kind in declaration order.
func RelationshipKinds() []RelationshipKind {
	return []RelationshipKind{
		RelationshipNone,
		RelationshipGroup,
		RelationshipShow,
		RelationshipHide,
		RelationshipCascade,
		RelationshipValidation,
		RelationshipRepeater,
	}
}

// ParseRelationshipKind normalises raw (case and a few common aliases) into a
// RelationshipKind.
func ParseRelationshipKind(raw string) (RelationshipKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return RelationshipNone, true
	case "group", "groupcontainer", "group-container":
		return RelationshipGroup, true
	case "show", "conditionalshow", "conditional-show":
		return RelationshipShow, true
	case "hide", "conditionalhide", "conditional-hide":
		return RelationshipHide, true
	case "cascade":
		return RelationshipCascade, true
	case "validation", "validationlink", "validation-link":
		return RelationshipValidation, true
	case "repeater":
		return RelationshipRepeater, true
	default:
		return "", false
	}
}

// Valid reports whether k is one of the canonical constants. Aliases accepted
// by ParseRelationshipKind are not valid until normalised.
func (k RelationshipKind) Valid() bool {
	parsed, ok := ParseRelationshipKind(string(k))
	return ok && parsed == k
}

// UnmarshalText normalises aliases while decoding YAML or JSON. Unknown kinds
// are kept verbatim so validation can report them.
func (k *RelationshipKind) UnmarshalText(text []byte) error {
	raw := string(text)
	if strings.TrimSpace(raw) == "" {
		*k = ""
		return nil
	}
	if parsed, ok := ParseRelationshipKind(raw); ok {
		*k = parsed
		return nil
	}
	*k = RelationshipKind(raw)
	return nil
}

// RequiresParent reports whether the kind only makes sense on a nested field.
func (k RelationshipKind) RequiresParent() bool {
	switch k {
	case RelationshipShow, RelationshipHide, RelationshipCascade, RelationshipValidation, RelationshipRepeater:
		return true
	default:
		return false
	}
}

// Conditional reports whether the kind toggles visibility.
func (k RelationshipKind) Conditional() bool {
	return k == RelationshipShow || k == RelationshipHide
}

// Relationship describes how a field relates to its parent. Condition holds
// the visibility expression for show/hide kinds; SourceField names the
// sibling driving cascade or validation links.
type Relationship struct {
	Kind        RelationshipKind `json:"kind" yaml:"kind"`
	Condition   string           `json:"condition,omitempty" yaml:"condition,omitempty"`
	SourceField string           `json:"sourceField,omitempty" yaml:"sourceField,omitempty"`
}

func cloneRelationship(rel *Relationship) *Relationship {
	if rel == nil {
		return nil
	}
	cloned := *rel
	return &cloned
}
