// Package history implements bounded whole-module undo/redo stacks. It knows
// nothing about hierarchy or validation; callers rebuild derived state after
// swapping modules.
package history

import (
	"errors"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// DefaultLimit bounds each stack when no explicit limit is supplied.
const DefaultLimit = 50

var (
	// ErrNothingToUndo is returned by Undo when the undo stack is empty.
	ErrNothingToUndo = errors.New("history: nothing to undo")
	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// Manager holds the undo and redo snapshot stacks. Snapshots are cloned on the
// way in and on the way out, so callers can never alias stored history.
type Manager struct {
	limit int
	undo  []schema.Module
	redo  []schema.Module
}

// New returns a Manager bounded at limit entries per stack. Non-positive
// limits fall back to DefaultLimit.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Limit returns the configured bound.
func (m *Manager) Limit() int {
	return m.limit
}

// Save records module as the newest undo snapshot and clears the redo stack.
// The oldest snapshot is evicted once the bound is exceeded.
func (m *Manager) Save(module schema.Module) {
	m.undo = pushBounded(m.undo, module.Clone(), m.limit)
	m.redo = nil
}

// Undo pushes current onto the redo stack and returns the newest undo
// snapshot.
func (m *Manager) Undo(current schema.Module) (schema.Module, error) {
	if len(m.undo) == 0 {
		return schema.Module{}, ErrNothingToUndo
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = pushBounded(m.redo, current.Clone(), m.limit)
	return top.Clone(), nil
}

// Redo pushes current onto the undo stack and returns the newest redo
// snapshot.
func (m *Manager) Redo(current schema.Module) (schema.Module, error) {
	if len(m.redo) == 0 {
		return schema.Module{}, ErrNothingToRedo
	}
	top := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = pushBounded(m.undo, current.Clone(), m.limit)
	return top.Clone(), nil
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// UndoLen returns the number of undo snapshots.
func (m *Manager) UndoLen() int {
	return len(m.undo)
}

// RedoLen returns the number of redo snapshots.
func (m *Manager) RedoLen() int {
	return len(m.redo)
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

func pushBounded(stack []schema.Module, module schema.Module, limit int) []schema.Module {
	stack = append(stack, module)
	if overflow := len(stack) - limit; overflow > 0 {
		stack = append([]schema.Module(nil), stack[overflow:]...)
	}
	return stack
}
