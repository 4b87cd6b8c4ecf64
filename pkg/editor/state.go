package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/history"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/validation"
)

// ViewMode is the editor surface currently shown to the user.
type ViewMode string

const (
	ViewDesign  ViewMode = "design"
	ViewPreview ViewMode = "preview"
	ViewSource  ViewMode = "source"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewDesign, ViewPreview, ViewSource:
		return true
	default:
		return false
	}
}

// State is the editing session. Create one per session with New; it is not
// safe for concurrent use.
type State struct {
	sessionID string
	module    *schema.Module
	tree      hierarchy.Result
	selected  string
	clipboard *schema.Field
	issues    []validation.Issue
	view      ViewMode

	builder      hierarchy.Builder
	validator    validation.Validator
	labeler      fieldtypes.Labeler
	history      *history.Manager
	historyLimit int
	logger       zerolog.Logger

	observers        []subscription
	nextSubscription int
}

// New constructs a State. Missing collaborators default to the built-in
// hierarchy builder, validation engine and field type registry.
func New(options ...Option) *State {
	s := &State{
		view:   ViewDesign,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = uuid.New().String()
	}
	s.logger = s.logger.With().Str("session", s.sessionID).Logger()
	s.applyDefaults()
	return s
}

// SessionID identifies the editing session.
func (s *State) SessionID() string {
	return s.sessionID
}

// HasModule reports whether a module is loaded.
func (s *State) HasModule() bool {
	return s.module != nil
}

// Module returns a detached copy of the current module.
func (s *State) Module() (schema.Module, bool) {
	if s.module == nil {
		return schema.Module{}, false
	}
	return s.module.Clone(), true
}

// Field returns a detached copy of the field with id.
func (s *State) Field(id string) (schema.Field, bool) {
	if s.module == nil {
		return schema.Field{}, false
	}
	return s.module.FieldByID(id)
}

// Tree returns the derived hierarchy. Nodes are rebuilt on every change and
// must be treated as read-only.
func (s *State) Tree() hierarchy.Result {
	return s.tree
}

// Roots returns the root nodes in sibling order.
func (s *State) Roots() []*hierarchy.Node {
	return s.tree.Roots
}

// Node returns the hierarchy node for id.
func (s *State) Node(id string) (*hierarchy.Node, bool) {
	return s.tree.Node(id)
}

// Issues returns a copy of the current validation issues.
func (s *State) Issues() []validation.Issue {
	return append([]validation.Issue(nil), s.issues...)
}

// Selected returns the selected field id, or "" when nothing is selected.
func (s *State) Selected() string {
	return s.selected
}

// SelectedField returns a copy of the selected field.
func (s *State) SelectedField() (schema.Field, bool) {
	if s.selected == "" {
		return schema.Field{}, false
	}
	return s.Field(s.selected)
}

// Clipboard returns a copy of the clipboard field.
func (s *State) Clipboard() (schema.Field, bool) {
	if s.clipboard == nil {
		return schema.Field{}, false
	}
	return s.clipboard.Clone(), true
}

// View returns the current view mode.
func (s *State) View() ViewMode {
	return s.view
}

// CanUndo reports whether Undo would succeed.
func (s *State) CanUndo() bool {
	return s.module != nil && s.history.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (s *State) CanRedo() bool {
	return s.module != nil && s.history.CanRedo()
}

// LoadModule replaces the current module without touching history and clears
// the selection.
func (s *State) LoadModule(module schema.Module) {
	s.replace("load", module.Clone(), false)
}

// UpdateModule replaces the current module, recording the previous one for
// undo when a module was loaded. The selection is cleared.
func (s *State) UpdateModule(module schema.Module) {
	s.replace("update-module", module.Clone(), true)
}

func (s *State) replace(op string, module schema.Module, record bool) {
	if record && s.module != nil {
		s.history.Save(*s.module)
	}
	s.module = &module
	selectionChanged := s.selected != ""
	s.selected = ""
	s.refresh()

	s.logger.Debug().Str("op", op).Int64("module", module.ID).Int("fields", len(module.Fields)).Msg("module replaced")

	kinds := []EventKind{EventStateChanged, EventModuleChanged}
	if selectionChanged {
		kinds = append(kinds, EventFieldSelected)
	}
	s.emit(op, kinds...)
}

// Undo restores the previous module snapshot.
func (s *State) Undo() error {
	return s.travel("undo", s.history.Undo)
}

// Redo re-applies the most recently undone snapshot.
func (s *State) Redo() error {
	return s.travel("redo", s.history.Redo)
}

func (s *State) travel(op string, step func(schema.Module) (schema.Module, error)) error {
	if s.module == nil {
		return s.reject(op, ErrNoModule)
	}
	module, err := step(*s.module)
	if err != nil {
		return s.reject(op, err)
	}
	s.module = &module
	s.commit(op, "")
	return nil
}

// RefreshValidation re-runs the validator against the current module.
func (s *State) RefreshValidation() {
	s.revalidate()
	s.emit("validate", EventStateChanged)
}

// Close ends the session: module, selection, clipboard and history are
// dropped. Observers stay subscribed.
func (s *State) Close() {
	s.module = nil
	s.tree = hierarchy.Result{}
	s.issues = nil
	s.selected = ""
	s.clipboard = nil
	s.history.Clear()
	s.logger.Debug().Str("op", "close").Msg("session closed")
	s.emit("close", EventStateChanged, EventModuleChanged)
}

// mutate applies fn to a detached copy of the module. On success the previous
// module is recorded for undo, derived state is rebuilt and observers are
// notified; on failure nothing changes.
func (s *State) mutate(op string, fn func(next *schema.Module) (selectID string, err error)) error {
	if s.module == nil {
		return s.reject(op, ErrNoModule)
	}
	next := s.module.Clone()
	selectID, err := fn(&next)
	if err != nil {
		return s.reject(op, err)
	}
	s.history.Save(*s.module)
	s.module = &next
	s.commit(op, selectID)
	return nil
}

func (s *State) commit(op, selectID string) {
	previous := s.selected
	if selectID != "" {
		s.selected = selectID
	}
	s.refresh()
	if s.selected != "" && !s.module.HasField(s.selected) {
		s.selected = ""
	}

	s.logger.Debug().
		Str("op", op).
		Int("fields", len(s.module.Fields)).
		Int("issues", len(s.issues)).
		Str("selected", s.selected).
		Msg("module changed")

	kinds := []EventKind{EventStateChanged, EventModuleChanged}
	if s.selected != previous {
		kinds = append(kinds, EventFieldSelected)
	}
	s.emit(op, kinds...)
}

func (s *State) reject(op string, err error) error {
	s.logger.Debug().Str("op", op).Err(err).Msg("operation rejected")
	return fmt.Errorf("%s: %w", op, err)
}

func (s *State) refresh() {
	if s.module == nil {
		s.tree = hierarchy.Result{}
		s.issues = nil
		return
	}
	s.tree = s.builder.Build(*s.module)
	s.revalidate()
}

func (s *State) revalidate() {
	if s.module == nil {
		s.issues = nil
		return
	}
	s.issues = s.validator.Validate(*s.module)
}
