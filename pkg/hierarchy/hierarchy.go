package hierarchy

import (
	"context"

	internal "github.com/goliatone/go-formedit/internal/hierarchy"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Node re-exports the internal tree node.
type Node = internal.Node

// Result re-exports the internal build result.
type Result = internal.Result

// Builder converts modules into trees.
type Builder interface {
	Build(module schema.Module) Result
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	less func(a, b schema.Field) bool
}

// WithLess overrides sibling ordering. The comparator must never report two
// distinct identifiers as equal or builds lose determinism.
func WithLess(less func(a, b schema.Field) bool) BuilderOption {
	return func(opts *builderOptions) {
		opts.less = less
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return internal.New(internal.Options{Less: cfg.less})
}

// Build projects module using the default builder.
func Build(module schema.Module) Result {
	return internal.New(internal.Options{}).Build(module)
}

// AsyncResult carries the outcome of BuildAsync.
type AsyncResult struct {
	Result Result
	Err    error
}

// BuildAsync runs builder on its own goroutine. The returned channel yields
// exactly one value and is then closed; when ctx ends first the value carries
// ctx.Err(). The module is cloned before the goroutine starts so callers may
// keep mutating their copy.
func BuildAsync(ctx context.Context, builder Builder, module schema.Module) <-chan AsyncResult {
	if builder == nil {
		builder = NewBuilder()
	}
	snapshot := module.Clone()
	out := make(chan AsyncResult, 1)
	done := make(chan Result, 1)

	go func() {
		done <- builder.Build(snapshot)
	}()

	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
			out <- AsyncResult{Err: ctx.Err()}
		case result := <-done:
			out <- AsyncResult{Result: result}
		}
	}()
	return out
}

// Flatten returns the fields of a tree in pre-order.
func Flatten(roots []*Node) []schema.Field {
	return internal.Flatten(roots)
}

// Walk visits nodes depth-first; returning false skips a subtree.
func Walk(roots []*Node, fn func(*Node) bool) {
	internal.Walk(roots, fn)
}

// Descendants returns every transitive child of id, breadth-first.
func Descendants(fields []schema.Field, id string) []string {
	return internal.Descendants(fields, id)
}

// Ancestors returns the parent chain of id, nearest first.
func Ancestors(fields []schema.Field, id string) []string {
	return internal.Ancestors(fields, id)
}
