package script

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Result reports the outcome of one step.
type Result struct {
	Index   int
	Step    Step
	Created string
	Changed bool
	Err     error
}

// Option customises a run.
type Option func(*runner)

// WithLogger logs each step at debug level and failures at warn level.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// StopOnError halts the run at the first failing step.
func StopOnError() Option {
	return func(r *runner) {
		r.stopOnError = true
	}
}

type runner struct {
	state       *editor.State
	logger      zerolog.Logger
	stopOnError bool
	last        string
}

// Run applies steps to state in order and returns one Result per executed
// step. Failing steps leave the module untouched; later steps still run
// unless StopOnError is set.
func Run(state *editor.State, steps []Step, options ...Option) []Result {
	r := &runner{state: state, logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		before, _ := state.Module()
		created, err := r.apply(step)
		after, _ := state.Module()

		result := Result{
			Index:   i,
			Step:    step,
			Created: created,
			Changed: !cmp.Equal(before, after),
			Err:     err,
		}
		results = append(results, result)

		if err != nil {
			r.logger.Warn().Int("step", i+1).Str("op", string(step.Op)).Err(err).Msg("script step failed")
			if r.stopOnError {
				break
			}
			continue
		}
		if created != "" {
			r.last = created
		}
		r.logger.Debug().Int("step", i+1).Str("op", string(step.Op)).Str("created", created).Bool("changed", result.Changed).Msg("script step applied")
	}
	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, result := range results {
		if result.Err != nil {
			out = append(out, result)
		}
	}
	return out
}

func (r *runner) resolve(ref string) string {
	if ref == LastRef {
		return r.last
	}
	return ref
}

func (r *runner) apply(step Step) (string, error) {
	s := r.state
	id := r.resolve(step.ID)
	parent := r.resolve(step.Parent)

	switch step.Op {
	case OpAdd:
		return s.AddField(step.Type, parent, step.Order)
	case OpUpdate:
		return "", r.update(id, step.Field)
	case OpDelete:
		return "", s.DeleteField(id)
	case OpDuplicate:
		return s.DuplicateField(id)
	case OpMove:
		direction, err := editor.ParseDirection(step.Direction)
		if err != nil {
			return "", err
		}
		return "", s.MoveField(id, direction)
	case OpReparent:
		return "", s.ChangeFieldParent(id, parent)
	case OpCopy:
		return "", s.CopyField(id)
	case OpPaste:
		return s.PasteField(parent)
	case OpSelect:
		return "", s.SelectField(id)
	case OpView:
		return "", s.SetViewMode(editor.ViewMode(step.Mode))
	case OpUndo:
		return "", s.Undo()
	case OpRedo:
		return "", s.Redo()
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}
}

// update overlays the keys present in patch onto the current field. The
// identifier cannot be changed through a patch.
func (r *runner) update(id string, patch yaml.Node) error {
	field, ok := r.state.Field(id)
	if !ok {
		return r.state.UpdateField(schema.Field{ID: id})
	}
	if patch.Kind != 0 {
		if err := patch.Decode(&field); err != nil {
			return fmt.Errorf("script: decode field patch for %q: %w", id, err)
		}
	}
	field.ID = id
	return r.state.UpdateField(field)
}
