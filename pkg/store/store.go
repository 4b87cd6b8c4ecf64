package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// ErrNotFound is returned when a module id is unknown to the store.
var ErrNotFound = errors.New("store: module not found")

// Store is the persistence contract used by hosts of the editor.
type Store interface {
	// Load returns the module stored under id.
	Load(ctx context.Context, id int64) (schema.Module, error)
	// Save persists module and returns its id. A zero ID allocates a new
	// one. Every save increments Version and stamps UpdatedAt.
	Save(ctx context.Context, module schema.Module) (int64, error)
	// List returns summaries ordered by id.
	List(ctx context.Context) ([]schema.Summary, error)
	// NextID returns the id the next new module would receive.
	NextID(ctx context.Context) (int64, error)
	// Delete removes the module stored under id.
	Delete(ctx context.Context, id int64) error
}

// Clock supplies save timestamps.
type Clock func() time.Time

func stamp(module schema.Module, id int64, now Clock) schema.Module {
	out := module.Clone()
	out.ID = id
	out.Version++
	out.UpdatedAt = now().UTC()
	return out
}
