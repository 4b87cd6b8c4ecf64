package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/validation"
)

// Menu entries, in display order.
const (
	ActionTree      = "Show tree"
	ActionIssues    = "Show issues"
	ActionAdd       = "Add field"
	ActionLabel     = "Edit label"
	ActionDelete    = "Delete field"
	ActionDuplicate = "Duplicate field"
	ActionMoveUp    = "Move up"
	ActionMoveDown  = "Move down"
	ActionReparent  = "Change parent"
	ActionCopy      = "Copy field"
	ActionPaste     = "Paste field"
	ActionUndo      = "Undo"
	ActionRedo      = "Redo"
	ActionSave      = "Save"
	ActionQuit      = "Quit"
)

const rootOption = "(root)"

// SaveFunc persists the edited module.
type SaveFunc func(ctx context.Context, module schema.Module) error

// Session runs a menu loop against one editor state.
type Session struct {
	driver   Driver
	state    *editor.State
	registry *fieldtypes.Registry
	locale   string
	save     SaveFunc
	logger   zerolog.Logger
	dirty    bool
	actions  []action
}

type action struct {
	label string
	run   func(ctx context.Context) error
}

// Option customises a Session.
type Option func(*Session)

// WithLocale selects the locale used to display and edit labels.
func WithLocale(locale string) Option {
	return func(s *Session) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithSave enables the Save action.
func WithSave(fn SaveFunc) Option {
	return func(s *Session) {
		s.save = fn
	}
}

// WithRegistry sets the field types offered by the Add action.
func WithRegistry(registry *fieldtypes.Registry) Option {
	return func(s *Session) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession binds driver to state.
func NewSession(driver Driver, state *editor.State, options ...Option) *Session {
	s := &Session{
		driver:   driver,
		state:    state,
		registry: fieldtypes.NewRegistry(),
		locale:   schema.DefaultLocale,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.actions = []action{
		{ActionTree, s.showTree},
		{ActionIssues, s.showIssues},
		{ActionAdd, s.add},
		{ActionLabel, s.editLabel},
		{ActionDelete, s.delete},
		{ActionDuplicate, s.duplicate},
		{ActionMoveUp, func(ctx context.Context) error { return s.move(ctx, editor.Up) }},
		{ActionMoveDown, func(ctx context.Context) error { return s.move(ctx, editor.Down) }},
		{ActionReparent, s.reparent},
		{ActionCopy, s.copy},
		{ActionPaste, s.paste},
		{ActionUndo, func(context.Context) error { return s.state.Undo() }},
		{ActionRedo, func(context.Context) error { return s.state.Redo() }},
		{ActionSave, s.persist},
	}
	return s
}

// Dirty reports whether the module changed since the session started or was
// last saved.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Run shows the menu until the user quits or aborts. Operation errors are
// reported to the user and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	cancel := s.state.Subscribe(editor.ObserverFunc(func(event editor.Event) {
		if event.Kind == editor.EventModuleChanged {
			s.dirty = true
		}
	}))
	defer cancel()

	labels := make([]string, 0, len(s.actions)+1)
	for _, a := range s.actions {
		labels = append(labels, a.label)
	}
	labels = append(labels, ActionQuit)

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: labels, PageSize: len(labels)})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(labels) {
			return fmt.Errorf("prompt: invalid menu selection %d", idx)
		}
		if labels[idx] == ActionQuit {
			leave, err := s.confirmQuit(ctx)
			if err != nil {
				return err
			}
			if leave {
				return nil
			}
			continue
		}

		chosen := s.actions[idx]
		if err := chosen.run(ctx); err != nil {
			if errors.Is(err, ErrAborted) || ctx.Err() != nil {
				return err
			}
			s.logger.Debug().Str("action", chosen.label).Err(err).Msg("action failed")
			if err := s.driver.Info(ctx, "error: "+err.Error()); err != nil {
				return err
			}
		}
	}
}

func (s *Session) confirmQuit(ctx context.Context) (bool, error) {
	if !s.dirty || s.save == nil {
		return true, nil
	}
	return s.driver.Confirm(ctx, ConfirmConfig{Message: "Discard unsaved changes?", Default: false})
}

func (s *Session) showTree(ctx context.Context) error {
	roots := s.state.Roots()
	if len(roots) == 0 {
		return s.driver.Info(ctx, "(empty)")
	}
	return s.driver.Info(ctx, strings.TrimRight(hierarchy.Sprint(roots, s.locale), "\n"))
}

func (s *Session) showIssues(ctx context.Context) error {
	issues := s.state.Issues()
	if len(issues) == 0 {
		return s.driver.Info(ctx, "no issues")
	}
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, issue.String())
	}
	counts := validation.Count(issues)
	lines = append(lines, fmt.Sprintf("%d error(s), %d warning(s)", counts[validation.SeverityError], counts[validation.SeverityWarning]))
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (s *Session) add(ctx context.Context) error {
	types := s.registry.List()
	options := make([]string, len(types))
	for i, tag := range types {
		options[i] = fmt.Sprintf("%s (%s)", s.registry.DefaultLabel(tag), tag)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field type", Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return fmt.Errorf("prompt: invalid type selection %d", idx)
	}
	parent, err := s.pickField(ctx, "Parent", true)
	if err != nil {
		return err
	}
	id, err := s.state.AddField(types[idx], parent, nil)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, "added "+id)
}

func (s *Session) editLabel(ctx context.Context) error {
	id, err := s.pickField(ctx, "Field", false)
	if err != nil {
		return err
	}
	field, _ := s.state.Field(id)
	label, err := s.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("Label (%s)", s.locale),
		Default: field.Label.Get(s.locale),
	})
	if err != nil {
		return err
	}
	if field.Label == nil {
		field.Label = schema.LocalizedText{}
	}
	field.Label[s.locale] = strings.TrimSpace(label)
	return s.state.UpdateField(field)
}

func (s *Session) delete(ctx context.Context) error {
	id, err := s.pickField(ctx, "Delete", false)
	if err != nil {
		return err
	}
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Delete %s and its children?", id)})
	if err != nil || !ok {
		return err
	}
	return s.state.DeleteField(id)
}

func (s *Session) duplicate(ctx context.Context) error {
	id, err := s.pickField(ctx, "Duplicate", false)
	if err != nil {
		return err
	}
	newID, err := s.state.DuplicateField(id)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, "added "+newID)
}

func (s *Session) move(ctx context.Context, direction editor.Direction) error {
	id, err := s.pickField(ctx, "Move "+direction.String(), false)
	if err != nil {
		return err
	}
	return s.state.MoveField(id, direction)
}

func (s *Session) reparent(ctx context.Context) error {
	id, err := s.pickField(ctx, "Field", false)
	if err != nil {
		return err
	}
	parent, err := s.pickField(ctx, "New parent", true)
	if err != nil {
		return err
	}
	return s.state.ChangeFieldParent(id, parent)
}

func (s *Session) copy(ctx context.Context) error {
	id, err := s.pickField(ctx, "Copy", false)
	if err != nil {
		return err
	}
	return s.state.CopyField(id)
}

func (s *Session) paste(ctx context.Context) error {
	if _, ok := s.state.Clipboard(); !ok {
		return editor.ErrClipboardEmpty
	}
	parent, err := s.pickField(ctx, "Paste under", true)
	if err != nil {
		return err
	}
	id, err := s.state.PasteField(parent)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, "added "+id)
}

func (s *Session) persist(ctx context.Context) error {
	if s.save == nil {
		return errors.New("prompt: saving is not configured")
	}
	module, ok := s.state.Module()
	if !ok {
		return editor.ErrNoModule
	}
	if err := s.save(ctx, module); err != nil {
		return err
	}
	s.dirty = false
	return s.driver.Info(ctx, "saved")
}

// pickField offers the fields in outline order and returns the chosen id.
// With allowRoot the first option selects the root level and yields "".
func (s *Session) pickField(ctx context.Context, message string, allowRoot bool) (string, error) {
	var ids, options []string
	if allowRoot {
		ids = append(ids, "")
		options = append(options, rootOption)
	}
	hierarchy.Walk(s.state.Roots(), func(node *hierarchy.Node) bool {
		ids = append(ids, node.ID())
		options = append(options, hierarchy.Line(node, s.locale))
		return true
	})
	if len(ids) == 0 {
		return "", errors.New("prompt: module has no fields")
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: s.defaultIndex(ids)})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ids) {
		return "", fmt.Errorf("prompt: invalid field selection %d", idx)
	}
	if ids[idx] != "" {
		if err := s.state.SelectField(ids[idx]); err != nil {
			return "", err
		}
	}
	return ids[idx], nil
}

func (s *Session) defaultIndex(ids []string) int {
	selected := s.state.Selected()
	for i, id := range ids {
		if id != "" && id == selected {
			return i
		}
	}
	return 0
}
