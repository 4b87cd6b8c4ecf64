// Package watch re-validates a module document whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/store"
	"github.com/goliatone/go-formedit/pkg/validation"
)

// DefaultDebounce coalesces the burst of events editors emit per save.
const DefaultDebounce = 50 * time.Millisecond

// Report is the outcome of one check of the watched document.
type Report struct {
	Path   string
	Module schema.Module
	Issues []validation.Issue
	Err    error
	At     time.Time
}

// Watcher checks a module document on every change.
type Watcher struct {
	mu        sync.Mutex
	path      string
	validator validation.Validator
	logger    zerolog.Logger
	debounce  time.Duration
	onReport  []func(Report)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, validator validation.Validator, options ...Option) (*Watcher, error) {
	if validator == nil {
		return nil, errors.New("watch: validator is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: absolute path: %w", err)
	}
	if _, err := store.FormatFromPath(absPath); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		path:      absPath,
		validator: validator,
		logger:    zerolog.Nop(),
		debounce:  DefaultDebounce,
		stopCh:    make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnReport registers a callback invoked after every check.
func (w *Watcher) OnReport(fn func(Report)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReport = append(w.onReport, fn)
}

// Check reads and validates the document now and notifies listeners.
func (w *Watcher) Check() Report {
	report := Report{Path: w.path, At: time.Now()}
	module, err := store.ReadFile(w.path)
	if err != nil {
		report.Err = err
		w.logger.Error().Err(err).Str("path", w.path).Msg("module check failed")
	} else {
		report.Module = module
		report.Issues = w.validator.Validate(module)
		counts := validation.Count(report.Issues)
		w.logger.Info().
			Str("path", w.path).
			Int("fields", len(module.Fields)).
			Int("errors", counts[validation.SeverityError]).
			Int("warnings", counts[validation.SeverityWarning]).
			Msg("module checked")
	}

	w.mu.Lock()
	listeners := append([]func(Report){}, w.onReport...)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn(report)
	}
	return report
}

// Start begins watching. The parent directory is watched so atomic saves
// (write to temp, rename over) are seen.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch: watch directory: %w", err)
	}
	w.watcher = watcher

	go w.loop()

	w.logger.Info().Str("path", w.path).Msg("watching module for changes")
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}

// Run checks the document once, watches it until ctx is done and then stops.
func (w *Watcher) Run(ctx context.Context) error {
	w.Check()
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	select {
	case <-ctx.Done():
	case <-w.stopCh:
	}
	return nil
}

func (w *Watcher) loop() {
	filename := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("module file changed")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.Check()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
