package editor

import "errors"

var (
	// ErrNoModule is returned when an operation needs a loaded module.
	ErrNoModule = errors.New("editor: no module loaded")
	// ErrFieldNotFound is returned when the target field does not exist.
	ErrFieldNotFound = errors.New("editor: field not found")
	// ErrParentNotFound is returned when the requested parent does not exist.
	ErrParentNotFound = errors.New("editor: parent field not found")
	// ErrCycle is returned when a reparent would make a field its own ancestor.
	ErrCycle = errors.New("editor: field cannot be nested under itself or its descendants")
	// ErrBoundary is returned when moving the first sibling up or the last
	// sibling down.
	ErrBoundary = errors.New("editor: field is already at the boundary")
	// ErrClipboardEmpty is returned by PasteField when nothing was copied.
	ErrClipboardEmpty = errors.New("editor: clipboard is empty")
	// ErrInvalidType is returned when a field type tag is blank.
	ErrInvalidType = errors.New("editor: field type is required")
	// ErrInvalidView is returned for unknown view modes.
	ErrInvalidView = errors.New("editor: unknown view mode")
)
