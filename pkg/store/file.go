package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// FileStore keeps one document per module in a directory, named
// "<id>.yaml" or "<id>.json". Documents in either format are read; new
// writes use the configured format and replace a document stored in the
// other one.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	format Format
	now    Clock
	logger zerolog.Logger
}

// FileOption customises a FileStore.
type FileOption func(*FileStore)

// WithFormat sets the encoding used for writes. Defaults to YAML.
func WithFormat(format Format) FileOption {
	return func(s *FileStore) {
		if format != "" {
			s.format = format
		}
	}
}

// WithFileClock overrides the timestamp source.
func WithFileClock(clock Clock) FileOption {
	return func(s *FileStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithFileLogger sets the logger used for skipped documents and writes.
func WithFileLogger(logger zerolog.Logger) FileOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore returns a store rooted at dir, creating it when missing.
func NewFileStore(dir string, options ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: directory is required")
	}
	s := &FileStore{
		dir:    filepath.Clean(dir),
		format: FormatYAML,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.format != FormatYAML && s.format != FormatJSON {
		return nil, fmt.Errorf("store: unsupported format %q", s.format)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", s.dir, err)
	}
	return s, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the document path a save of id would write.
func (s *FileStore) Path(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10)+s.format.Extension())
}

// Load reads and decodes the document for id.
func (s *FileStore) Load(ctx context.Context, id int64) (schema.Module, error) {
	if err := ctx.Err(); err != nil {
		return schema.Module{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, format, err := s.locate(id)
	if err != nil {
		return schema.Module{}, err
	}
	return readModule(path, format)
}

// Save encodes module and writes it atomically.
func (s *FileStore) Save(ctx context.Context, module schema.Module) (int64, error) {
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
		ids, err := s.ids()
		if err != nil {
			return 0, err
		}
		id = maxID(ids) + 1
	}
	stamped := stamp(module, id, s.now)
	data, err := s.format.Encode(stamped)
	if err != nil {
		return 0, err
	}

	path := s.Path(id)
	if err := writeAtomic(path, data); err != nil {
		return 0, err
	}
	other := filepath.Join(s.dir, strconv.FormatInt(id, 10)+otherFormat(s.format).Extension())
	if err := os.Remove(other); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("store: remove stale %s: %w", other, err)
	}
	s.logger.Debug().Int64("module", id).Int("version", stamped.Version).Str("path", path).Msg("module saved")
	return id, nil
}

// List decodes every document in the directory. Unreadable documents are
// skipped and logged.
func (s *FileStore) List(ctx context.Context) ([]schema.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	out := make([]schema.Summary, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, format, err := s.locate(id)
		if err != nil {
			return nil, err
		}
		module, err := readModule(path, format)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable module")
			continue
		}
		out = append(out, module.Summary())
	}
	return out, nil
}

// NextID returns one past the highest stored id.
func (s *FileStore) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ids()
	if err != nil {
		return 0, err
	}
	return maxID(ids) + 1, nil
}

// Delete removes the document for id.
func (s *FileStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, _, err := s.locate(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) locate(id int64) (string, Format, error) {
	base := filepath.Join(s.dir, strconv.FormatInt(id, 10))
	for _, format := range []Format{s.format, otherFormat(s.format)} {
		path := base + format.Extension()
		if _, err := os.Stat(path); err == nil {
			return path, format, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("store: stat %s: %w", path, err)
		}
	}
	if _, err := os.Stat(base + ".yml"); err == nil {
		return base + ".yml", FormatYAML, nil
	}
	return "", "", fmt.Errorf("%w: %d", ErrNotFound, id)
}

// ids returns the sorted, de-duplicated ids of documents in the directory.
func (s *FileStore) ids() ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.dir, err)
	}
	seen := make(map[int64]struct{}, len(entries))
	var ids []int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, err := FormatFromPath(name); err != nil {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, filepath.Ext(name)), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ReadFile decodes a module document, inferring the format from its
// extension.
func ReadFile(path string) (schema.Module, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return schema.Module{}, err
	}
	return readModule(path, format)
}

// WriteFile encodes module to path, inferring the format from its extension.
func WriteFile(path string, module schema.Module) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := format.Encode(module)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func readModule(path string, format Format) (schema.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Module{}, fmt.Errorf("store: read %s: %w", path, err)
	}
	module, err := format.Decode(data)
	if err != nil {
		return schema.Module{}, fmt.Errorf("%s: %w", path, err)
	}
	return module, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".formedit-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

func otherFormat(f Format) Format {
	if f == FormatJSON {
		return FormatYAML
	}
	return FormatJSON
}

func maxID(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

var _ Store = (*FileStore)(nil)
