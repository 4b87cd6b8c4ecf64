// Package config loads the formedit configuration file and turns it into
// editor, store and logger settings.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/history"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/store"
	"github.com/goliatone/go-formedit/pkg/validation"
)

// Config is the root configuration structure.
type Config struct {
	Editor  EditorConfig  `yaml:"editor"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Markup  MarkupConfig  `yaml:"markup"`
}

// EditorConfig configures editing sessions.
type EditorConfig struct {
	HistoryLimit int    `yaml:"history_limit"`
	Locale       string `yaml:"locale"`
	RequireTitle *bool  `yaml:"require_title,omitempty"`
}

// StoreConfig configures the module file store.
type StoreConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "yaml" or "json"
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"` // written after each command when set
}

// MarkupConfig selects the policy used to flag unsafe markup in text.
type MarkupConfig struct {
	Policy string `yaml:"policy"` // "ugc", "strict" or "none"
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded and FORMEDIT_* variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg)
}

// LoadWithFallback loads path when it is set and falls back to defaults
// plus environment overrides otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if strings.TrimSpace(path) != "" {
		return Load(path)
	}
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORMEDIT_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("FORMEDIT_STORE_FORMAT"); v != "" {
		cfg.Store.Format = v
	}
	if v := os.Getenv("FORMEDIT_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Editor.HistoryLimit = n
		}
	}
	if v := os.Getenv("FORMEDIT_LOCALE"); v != "" {
		cfg.Editor.Locale = v
	}
	if v := os.Getenv("FORMEDIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORMEDIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("FORMEDIT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("FORMEDIT_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Editor.HistoryLimit == 0 {
		cfg.Editor.HistoryLimit = history.DefaultLimit
	}
	if cfg.Editor.Locale == "" {
		cfg.Editor.Locale = schema.DefaultLocale
	}
	if cfg.Editor.RequireTitle == nil {
		required := true
		cfg.Editor.RequireTitle = &required
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "forms"
	}
	if cfg.Store.Format == "" {
		cfg.Store.Format = string(store.FormatYAML)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Markup.Policy == "" {
		cfg.Markup.Policy = "ugc"
	}
}

func validate(cfg *Config) error {
	if cfg.Editor.HistoryLimit < 0 {
		return fmt.Errorf("editor.history_limit must not be negative, got %d", cfg.Editor.HistoryLimit)
	}
	if _, err := store.ParseFormat(cfg.Store.Format); err != nil {
		return fmt.Errorf("store.format must be 'yaml' or 'json', got %q", cfg.Store.Format)
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q: %w", cfg.Logging.Level, err)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	validPolicies := map[string]bool{"ugc": true, "strict": true, "none": true}
	if !validPolicies[cfg.Markup.Policy] {
		return fmt.Errorf("markup.policy must be one of: ugc, strict, none")
	}
	return nil
}

// NewLogger builds the logger described by the logging section.
func (c *Config) NewLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// MarkupPolicy returns the sanitizer policy, or nil when markup checks are
// disabled.
func (c *Config) MarkupPolicy() *bluemonday.Policy {
	switch c.Markup.Policy {
	case "none":
		return nil
	case "strict":
		return bluemonday.StrictPolicy()
	default:
		return bluemonday.UGCPolicy()
	}
}

// StoreFormat returns the parsed store format.
func (c *Config) StoreFormat() store.Format {
	format, err := store.ParseFormat(c.Store.Format)
	if err != nil {
		return store.FormatYAML
	}
	return format
}

// OpenStore opens the file store described by the store section.
func (c *Config) OpenStore(logger zerolog.Logger) (*store.FileStore, error) {
	return store.NewFileStore(c.Store.Dir,
		store.WithFormat(c.StoreFormat()),
		store.WithFileLogger(logger),
	)
}

// Validator builds the validation engine for registry.
func (c *Config) Validator(registry *fieldtypes.Registry) validation.Validator {
	requireTitle := c.Editor.RequireTitle == nil || *c.Editor.RequireTitle
	return validation.New(
		validation.WithTypeRegistry(registry),
		validation.WithMarkupPolicy(c.MarkupPolicy()),
		validation.WithRequireTitle(requireTitle),
	)
}

// EditorOptions returns the editor options derived from the configuration.
func (c *Config) EditorOptions(logger zerolog.Logger) []editor.Option {
	registry := fieldtypes.NewRegistry()
	return []editor.Option{
		editor.WithHistoryLimit(c.Editor.HistoryLimit),
		editor.WithLabeler(registry),
		editor.WithValidator(c.Validator(registry)),
		editor.WithLogger(logger),
	}
}
