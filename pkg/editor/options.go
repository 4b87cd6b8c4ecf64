package editor

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/history"
	"github.com/goliatone/go-formedit/pkg/validation"
)

// Option customises the editor state.
type Option func(*State)

// WithValidator injects the validation engine run after every change.
func WithValidator(validator validation.Validator) Option {
	return func(s *State) {
		s.validator = validator
	}
}

// WithBuilder injects the hierarchy builder.
func WithBuilder(builder hierarchy.Builder) Option {
	return func(s *State) {
		s.builder = builder
	}
}

// WithLabeler injects the source of default labels for new fields.
func WithLabeler(labeler fieldtypes.Labeler) Option {
	return func(s *State) {
		s.labeler = labeler
	}
}

// WithHistoryLimit bounds the undo and redo stacks. Non-positive values keep
// history.DefaultLimit.
func WithHistoryLimit(limit int) Option {
	return func(s *State) {
		s.historyLimit = limit
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

// WithObserver subscribes observer for the lifetime of the session.
func WithObserver(observer Observer) Option {
	return func(s *State) {
		s.Subscribe(observer)
	}
}

// WithSessionID pins the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(s *State) {
		s.sessionID = id
	}
}

// WithViewMode sets the initial view mode.
func WithViewMode(mode ViewMode) Option {
	return func(s *State) {
		if mode.Valid() {
			s.view = mode
		}
	}
}

func (s *State) applyDefaults() {
	if s.builder == nil {
		s.builder = hierarchy.NewBuilder()
	}
	if s.validator == nil {
		registry := fieldtypes.NewRegistry()
		s.validator = validation.New(validation.WithTypeRegistry(registry))
		if s.labeler == nil {
			s.labeler = registry
		}
	}
	if s.labeler == nil {
		s.labeler = fieldtypes.NewRegistry()
	}
	if s.history == nil {
		s.history = history.New(s.historyLimit)
	}
}
