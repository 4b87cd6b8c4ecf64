package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formedit/pkg/condition"
	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Option customises the Engine.
type Option func(*Engine)

// WithTypeRegistry enables type-aware rules (unknown types, choice types
// without options, children under non-container parents).
func WithTypeRegistry(registry *fieldtypes.Registry) Option {
	return func(e *Engine) {
		e.types = registry
	}
}

// WithMarkupPolicy overrides the bluemonday policy used to detect unsafe
// markup in localized text. Pass nil to disable the check.
func WithMarkupPolicy(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		e.policy = policy
		e.policySpecified = true
	}
}

// WithFieldRule appends a custom per-field rule.
func WithFieldRule(rule FieldRule) Option {
	return func(e *Engine) {
		if rule != nil {
			e.rules = append(e.rules, rule)
		}
	}
}

// WithRequireTitle reports modules whose title is blank.
func WithRequireTitle(enabled bool) Option {
	return func(e *Engine) {
		e.requireTitle = enabled
	}
}

// FieldRule inspects one field in the context of its module.
type FieldRule func(field schema.Field, module schema.Module) []Issue

// Engine is the default Validator.
type Engine struct {
	types           *fieldtypes.Registry
	policy          *bluemonday.Policy
	policySpecified bool
	requireTitle    bool
	rules           []FieldRule
}

var _ Validator = (*Engine)(nil)

// New constructs an Engine. Without options it checks structure, bounds,
// patterns, options, relationships and markup using bluemonday's UGC policy.
func New(options ...Option) *Engine {
	e := &Engine{requireTitle: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if !e.policySpecified {
		e.policy = bluemonday.UGCPolicy()
	}
	return e
}

// Validate reports module-wide structural issues followed by per-field issues
// in field order.
func (e *Engine) Validate(module schema.Module) []Issue {
	var issues []Issue

	if e.requireTitle && module.Title.IsBlank() {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeMissingTitle,
			Message:  "module title is empty",
		})
	}

	tree := hierarchy.Build(module)
	for _, id := range tree.Duplicates {
		issues = append(issues, Issue{
			Severity: SeverityError,
			FieldID:  id,
			Code:     CodeDuplicateID,
			Message:  fmt.Sprintf("field id %q is used more than once", id),
		})
	}
	for _, id := range tree.Cycles {
		issues = append(issues, Issue{
			Severity: SeverityError,
			FieldID:  id,
			Code:     CodeCycle,
			Message:  "field is its own ancestor",
		})
	}

	for _, field := range module.Fields {
		issues = append(issues, e.ValidateField(field, module)...)
	}
	return issues
}

// ValidateField reports issues for a single field.
func (e *Engine) ValidateField(field schema.Field, module schema.Module) []Issue {
	var issues []Issue
	add := func(severity Severity, code, format string, args ...any) {
		issues = append(issues, Issue{
			Severity: severity,
			FieldID:  field.ID,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	var parent schema.Field
	hasParent := false
	if field.ParentID != "" {
		parent, hasParent = module.FieldByID(field.ParentID)
		if !hasParent {
			add(SeverityError, CodeUnknownParent, "parent %q does not exist", field.ParentID)
		}
	}

	if field.Label.IsBlank() && !strings.EqualFold(field.Type, fieldtypes.TypeHidden) {
		add(SeverityWarning, CodeMissingLabel, "label is empty")
	}

	if e.types != nil {
		if !e.types.Has(field.Type) {
			add(SeverityWarning, CodeUnknownType, "type %q is not registered", field.Type)
		}
		if hasParent && e.types.Has(parent.Type) && !e.types.IsContainer(parent.Type) {
			add(SeverityWarning, CodeParentNotContainer, "parent %q of type %q cannot hold fields", parent.ID, parent.Type)
		}
		if e.types.IsChoice(field.Type) && len(field.Options) == 0 {
			add(SeverityError, CodeMissingOptions, "type %q requires at least one option", field.Type)
		}
	}

	seen := make(map[string]struct{}, len(field.Options))
	for idx, opt := range field.Options {
		value := strings.TrimSpace(opt.Value)
		if value == "" {
			add(SeverityError, CodeBlankOption, "option %d has an empty value", idx+1)
			continue
		}
		if _, dup := seen[value]; dup {
			add(SeverityError, CodeDuplicateOption, "option value %q is repeated", value)
			continue
		}
		seen[value] = struct{}{}
	}

	if rules := field.Validation; rules != nil {
		if rules.MinLength != nil && *rules.MinLength < 0 {
			add(SeverityError, CodeInvalidBounds, "minimum length %d is negative", *rules.MinLength)
		}
		if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
			add(SeverityError, CodeInvalidBounds, "minimum length %d exceeds maximum length %d", *rules.MinLength, *rules.MaxLength)
		}
		if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
			add(SeverityError, CodeInvalidBounds, "minimum %g exceeds maximum %g", *rules.Min, *rules.Max)
		}
		if rules.Pattern != "" {
			if _, err := regexp.Compile(rules.Pattern); err != nil {
				add(SeverityError, CodeInvalidPattern, "pattern does not compile: %v", err)
			}
		}
	}

	if rel := field.Relationship; rel != nil {
		canonical, known := schema.ParseRelationshipKind(string(rel.Kind))
		switch {
		case known && canonical != rel.Kind && rel.Kind != "":
			add(SeverityError, CodeInvalidRelationship, "relationship kind %q is an alias, use %q", rel.Kind, canonical)
		case !rel.Kind.Valid():
			add(SeverityError, CodeInvalidRelationship, "relationship kind %q is not recognised", rel.Kind)
		case rel.Kind.RequiresParent() && field.ParentID == "":
			add(SeverityError, CodeInvalidRelationship, "relationship %q requires a parent field", rel.Kind)
		}
		if rel.Kind.Conditional() {
			if strings.TrimSpace(rel.Condition) == "" {
				add(SeverityWarning, CodeMissingCondition, "relationship %q has no condition", rel.Kind)
			} else if expr, err := condition.Parse(rel.Condition); err != nil {
				add(SeverityError, CodeInvalidCondition, "%v", err)
			} else {
				for _, ref := range expr.Fields() {
					if !module.HasField(ref) {
						add(SeverityWarning, CodeUnknownConditionRef, "condition reads unknown field %q", ref)
					}
				}
			}
		}
		if rel.SourceField != "" && !module.HasField(rel.SourceField) {
			add(SeverityError, CodeUnknownSource, "relationship source %q does not exist", rel.SourceField)
		}
	}

	if e.policy != nil {
		texts := []struct {
			name string
			text schema.LocalizedText
		}{
			{"label", field.Label},
			{"help", field.Help},
			{"placeholder", field.Placeholder},
		}
		for _, entry := range texts {
			for _, locale := range entry.text.Locales() {
				if e.unsafe(entry.text[locale]) {
					add(SeverityWarning, CodeUnsafeMarkup, "%s (%s) contains markup that will be stripped", entry.name, locale)
				}
			}
		}
	}

	for _, rule := range e.rules {
		issues = append(issues, rule(field, module)...)
	}
	return issues
}

func (e *Engine) unsafe(value string) bool {
	if !strings.ContainsAny(value, "<>") {
		return false
	}
	sanitized := html.UnescapeString(e.policy.Sanitize(value))
	return sanitized != html.UnescapeString(value)
}
