package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// MemoryStore keeps modules in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	modules map[int64]schema.Module
	lastID  int64
	now     Clock
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the timestamp source.
func WithMemoryClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(options ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		modules: make(map[int64]schema.Module),
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load returns a copy of the module stored under id.
func (s *MemoryStore) Load(ctx context.Context, id int64) (schema.Module, error) {
	if err := ctx.Err(); err != nil {
		return schema.Module{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	module, ok := s.modules[id]
	if !ok {
		return schema.Module{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return module.Clone(), nil
}

// Save stores a copy of module.
func (s *MemoryStore) Save(ctx context.Context, module schema.Module) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if module.ID < 0 {
		return 0, fmt.Errorf("store: invalid module id %d", module.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := module.ID
	if id == 0 {
		id = s.lastID + 1
	}
	if id > s.lastID {
		s.lastID = id
	}
	s.modules[id] = stamp(module, id, s.now)
	return id, nil
}

// List returns module summaries ordered by id.
func (s *MemoryStore) List(ctx context.Context) ([]schema.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.Summary, 0, len(s.modules))
	for _, module := range s.modules {
		out = append(out, module.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// NextID returns the id the next unsaved module would receive.
func (s *MemoryStore) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID + 1, nil
}

// Delete removes id.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.modules[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.modules, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
