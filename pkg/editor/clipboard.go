package editor

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// CopyField places a detached copy of id on the clipboard, replacing any
// previous content. The module is unchanged.
func (s *State) CopyField(id string) error {
	if s.module == nil {
		return s.reject("copy", ErrNoModule)
	}
	field, ok := s.module.FieldByID(id)
	if !ok {
		return s.reject("copy", fmt.Errorf("%w: %q", ErrFieldNotFound, id))
	}
	s.clipboard = &field
	s.logger.Debug().Str("op", "copy").Str("field", id).Msg("field copied")
	s.emit("copy", EventStateChanged)
	return nil
}

// ClearClipboard empties the clipboard.
func (s *State) ClearClipboard() {
	if s.clipboard == nil {
		return
	}
	s.clipboard = nil
	s.emit("clear-clipboard", EventStateChanged)
}

// PasteField inserts the clipboard field under parentID ("" for a root) with
// a fresh identifier, a "(pasted)" label suffix and an order after the last
// sibling, then selects it. The clipboard keeps its content.
func (s *State) PasteField(parentID string) (string, error) {
	if s.clipboard == nil {
		return "", s.reject("paste", ErrClipboardEmpty)
	}
	source := s.clipboard.Clone()

	var id string
	err := s.mutate("paste", func(next *schema.Module) (string, error) {
		if parentID != "" && !next.HasField(parentID) {
			return "", fmt.Errorf("%w: %q", ErrParentNotFound, parentID)
		}
		pasted := source
		pasted.ID = nextFieldID(*next, source.Type)
		pasted.ParentID = parentID
		pasted.Order = next.NextChildOrder(parentID)
		pasted.Label = source.Label.WithSuffix("(pasted)")
		next.Fields = append(next.Fields, pasted)
		id = pasted.ID
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// SelectField selects id, or clears the selection when id is empty. Only
// EventFieldSelected fires; the hierarchy and issues are not recomputed.
func (s *State) SelectField(id string) error {
	if id != "" {
		if s.module == nil {
			return s.reject("select", ErrNoModule)
		}
		if !s.module.HasField(id) {
			return s.reject("select", fmt.Errorf("%w: %q", ErrFieldNotFound, id))
		}
	}
	if s.selected == id {
		return nil
	}
	s.selected = id
	s.emit("select", EventFieldSelected)
	return nil
}

// SetViewMode switches the view mode. Only EventViewChanged fires.
func (s *State) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return s.reject("view", fmt.Errorf("%w: %q", ErrInvalidView, mode))
	}
	if s.view == mode {
		return nil
	}
	s.view = mode
	s.emit("view", EventViewChanged)
	return nil
}
