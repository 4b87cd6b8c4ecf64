package validation

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes emitted by the default engine.
const (
	CodeDuplicateID         = "duplicate-id"
	CodeUnknownParent       = "unknown-parent"
	CodeCycle               = "cycle"
	CodeMissingTitle        = "missing-title"
	CodeMissingLabel        = "missing-label"
	CodeUnknownType         = "unknown-type"
	CodeParentNotContainer  = "parent-not-container"
	CodeInvalidBounds       = "invalid-bounds"
	CodeInvalidPattern      = "invalid-pattern"
	CodeMissingOptions      = "missing-options"
	CodeDuplicateOption     = "duplicate-option"
	CodeBlankOption         = "blank-option"
	CodeInvalidRelationship = "invalid-relationship"
	CodeMissingCondition    = "missing-condition"
	CodeInvalidCondition    = "invalid-condition"
	CodeUnknownConditionRef = "unknown-condition-field"
	CodeUnknownSource       = "unknown-source-field"
	CodeUnsafeMarkup        = "unsafe-markup"
)

// Issue is a single validation finding. FieldID is empty for module-wide
// issues.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	FieldID  string   `json:"fieldId,omitempty" yaml:"fieldId,omitempty"`
	Code     string   `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.FieldID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.FieldID, i.Message)
}

// Validator is the contract the editor consumes.
type Validator interface {
	Validate(module schema.Module) []Issue
	ValidateField(field schema.Field, module schema.Module) []Issue
}

// ValidatorFunc adapts a module-wide check into a Validator. ValidateField
// runs the function and keeps the issues for that field.
type ValidatorFunc func(module schema.Module) []Issue

// Validate implements Validator.
func (fn ValidatorFunc) Validate(module schema.Module) []Issue {
	return fn(module)
}

// ValidateField implements Validator.
func (fn ValidatorFunc) ValidateField(field schema.Field, module schema.Module) []Issue {
	return ForField(fn(module), field.ID)
}

// Nop never reports issues.
type Nop struct{}

// Validate implements Validator.
func (Nop) Validate(schema.Module) []Issue { return nil }

// ValidateField implements Validator.
func (Nop) ValidateField(schema.Field, schema.Module) []Issue { return nil }

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ForField filters issues targeting id.
func ForField(issues []Issue, id string) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.FieldID == id {
			out = append(out, issue)
		}
	}
	return out
}

// Count tallies issues per severity.
func Count(issues []Issue) map[Severity]int {
	out := make(map[Severity]int, 3)
	for _, issue := range issues {
		out[issue.Severity]++
	}
	return out
}
