package history

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/schema"
)

func moduleWithVersion(v int) schema.Module {
	return schema.Module{ID: 1, Version: v, Fields: []schema.Field{{ID: "f", Label: schema.Text("v")}}}
}

func TestManager_UndoRedoSequence(t *testing.T) {
	m := New(0)
	if m.Limit() != DefaultLimit {
		t.Fatalf("default limit: want %d, got %d", DefaultLimit, m.Limit())
	}

	m0, m1, m2 := moduleWithVersion(0), moduleWithVersion(1), moduleWithVersion(2)
	m.Save(m0)
	m.Save(m1)
	current := m2

	steps := []struct {
		op   string
		want schema.Module
	}{
		{"undo", m1},
		{"undo", m0},
		{"redo", m1},
		{"redo", m2},
	}
	for _, step := range steps {
		var (
			got schema.Module
			err error
		)
		if step.op == "undo" {
			got, err = m.Undo(current)
		} else {
			got, err = m.Redo(current)
		}
		if err != nil {
			t.Fatalf("%s: %v", step.op, err)
		}
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", step.op, diff)
		}
		current = got
	}
	if m.CanRedo() {
		t.Fatal("redo stack should be exhausted")
	}
	if m.UndoLen() != 2 {
		t.Fatalf("undo len: want 2, got %d", m.UndoLen())
	}
}

func TestManager_EmptyStacks(t *testing.T) {
	m := New(5)
	if _, err := m.Undo(schema.Module{}); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("undo on empty: want ErrNothingToUndo, got %v", err)
	}
	if _, err := m.Redo(schema.Module{}); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("redo on empty: want ErrNothingToRedo, got %v", err)
	}
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("capability flags must be false")
	}
}

func TestManager_SaveClearsRedo(t *testing.T) {
	m := New(5)
	m.Save(moduleWithVersion(0))
	if _, err := m.Undo(moduleWithVersion(1)); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !m.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	m.Save(moduleWithVersion(0))
	if m.CanRedo() {
		t.Fatal("save must clear redo")
	}
	if _, err := m.Redo(moduleWithVersion(2)); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("want ErrNothingToRedo, got %v", err)
	}
}

func TestManager_BoundEvictsOldest(t *testing.T) {
	m := New(3)
	for v := 0; v < 5; v++ {
		m.Save(moduleWithVersion(v))
	}
	if m.UndoLen() != 3 {
		t.Fatalf("undo len: want 3, got %d", m.UndoLen())
	}

	var versions []int
	current := moduleWithVersion(99)
	for m.CanUndo() {
		got, err := m.Undo(current)
		if err != nil {
			t.Fatalf("undo: %v", err)
		}
		versions = append(versions, got.Version)
		current = got
	}
	if diff := cmp.Diff([]int{4, 3, 2}, versions); diff != "" {
		t.Fatalf("eviction mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_DefaultBoundIsFifty(t *testing.T) {
	m := New(DefaultLimit)
	for v := 0; v < 60; v++ {
		m.Save(moduleWithVersion(v))
	}
	if m.UndoLen() != 50 {
		t.Fatalf("undo len: want 50, got %d", m.UndoLen())
	}
}

func TestManager_SnapshotsAreDetached(t *testing.T) {
	m := New(5)
	module := moduleWithVersion(1)
	m.Save(module)
	module.Fields[0].Label["en"] = "mutated"

	got, err := m.Undo(schema.Module{})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got.Fields[0].Label["en"] != "v" {
		t.Fatalf("stored snapshot aliased caller data: %q", got.Fields[0].Label["en"])
	}
}

func TestManager_Clear(t *testing.T) {
	m := New(5)
	m.Save(moduleWithVersion(1))
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("clear must drop both stacks")
	}
}
