package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// stubDriver answers select prompts by option text prefix, so scripts stay
// readable when option lists change.
type stubDriver struct {
	selects  []string
	inputs   []string
	confirms []bool
	info     []string

	selectPos  int
	inputPos   int
	confirmPos int
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selects) {
		return -1, errors.New("no select scripted")
	}
	want := s.selects[s.selectPos]
	s.selectPos++
	for i, option := range cfg.Options {
		if strings.HasPrefix(option, want) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("option %q not offered in %v", want, cfg.Options)
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirms) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func newState() *editor.State {
	state := editor.New()
	state.LoadModule(schema.Module{ID: 3, Title: schema.Text("Profile")})
	return state
}

func TestSession_BuildsModule(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			ActionAdd, "Group (group)", rootOption,
			ActionAdd, "Text Box (textbox)", "group_1",
			ActionLabel, "  textbox_1",
			ActionTree,
			ActionSave,
			ActionQuit,
		},
		inputs: []string{"Full name"},
	}

	var saved []schema.Module
	state := newState()
	session := NewSession(driver, state, WithSave(func(_ context.Context, module schema.Module) error {
		saved = append(saved, module)
		return nil
	}))

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(saved) != 1 {
		t.Fatalf("want one save, got %d", len(saved))
	}
	field, ok := state.Field("textbox_1")
	if !ok || field.ParentID != "group_1" || field.Label.String() != "Full name" {
		t.Fatalf("unexpected field %+v", field)
	}
	if session.Dirty() {
		t.Fatal("session must be clean after save")
	}

	wantInfo := []string{
		"added group_1",
		"added textbox_1",
		"group_1 [group] \"Group\"\n  textbox_1 [textbox] \"Full name\"",
		"saved",
	}
	if diff := cmp.Diff(wantInfo, driver.info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ReportsErrorsAndContinues(t *testing.T) {
	driver := &stubDriver{
		selects: []string{
			ActionUndo,
			ActionPaste,
			ActionDelete,
			ActionQuit,
		},
	}
	session := NewSession(driver, newState())
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.info) != 3 {
		t.Fatalf("want 3 error messages, got %v", driver.info)
	}
	for _, msg := range driver.info {
		if !strings.HasPrefix(msg, "error: ") {
			t.Fatalf("unexpected message %q", msg)
		}
	}
	if !strings.Contains(driver.info[1], "clipboard is empty") {
		t.Fatalf("paste error: %q", driver.info[1])
	}
}

func TestSession_QuitConfirmsUnsavedChanges(t *testing.T) {
	driver := &stubDriver{
		selects:  []string{ActionAdd, "Number (number)", rootOption, ActionQuit, ActionQuit},
		confirms: []bool{false, true},
	}
	saves := 0
	session := NewSession(driver, newState(), WithSave(func(context.Context, schema.Module) error {
		saves++
		return nil
	}))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.confirmPos != 2 || saves != 0 || !session.Dirty() {
		t.Fatalf("expected two confirmations and no save: confirms=%d saves=%d", driver.confirmPos, saves)
	}
}

func TestSession_DeleteAndMove(t *testing.T) {
	state := newState()
	state.UpdateModule(schema.Module{ID: 3, Title: schema.Text("Profile"), Fields: []schema.Field{
		{ID: "a", Type: "textbox", Order: 0},
		{ID: "b", Type: "textbox", Order: 1},
		{ID: "c", Type: "textbox", Order: 2},
	}})
	driver := &stubDriver{
		selects:  []string{ActionMoveUp, "c", ActionDelete, "a", ActionDuplicate, "b", ActionQuit},
		confirms: []bool{true},
	}
	if err := NewSession(driver, state).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var order []string
	for _, node := range state.Roots() {
		order = append(order, node.ID())
	}
	if diff := cmp.Diff([]string{"c", "b", "textbox_1"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AbortStopsLoop(t *testing.T) {
	driver := &abortingDriver{}
	err := NewSession(driver, newState()).Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("want ErrAborted, got %v", err)
	}
}

type abortingDriver struct{ stubDriver }

func (d *abortingDriver) Select(context.Context, SelectConfig) (int, error) {
	return 0, ErrAborted
}
