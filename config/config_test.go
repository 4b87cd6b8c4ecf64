package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/config"
	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/store"
	"github.com/goliatone/go-formedit/pkg/validation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formedit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
editor:
  history_limit: 10
  locale: fr
  require_title: false
store:
  dir: /tmp/forms
  format: json
logging:
  level: debug
  format: json
metrics:
  enabled: true
  textfile: /tmp/formedit.prom
markup:
  policy: strict
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	requireTitle := false
	want := &config.Config{
		Editor:  config.EditorConfig{HistoryLimit: 10, Locale: "fr", RequireTitle: &requireTitle},
		Store:   config.StoreConfig{Dir: "/tmp/forms", Format: "json"},
		Logging: config.LoggingConfig{Level: "debug", Format: "json"},
		Metrics: config.MetricsConfig{Enabled: true, Textfile: "/tmp/formedit.prom"},
		Markup:  config.MarkupConfig{Policy: "strict"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.StoreFormat() != store.FormatJSON {
		t.Fatalf("store format: %q", cfg.StoreFormat())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Editor.HistoryLimit != 50 || cfg.Editor.Locale != "en" || cfg.Store.Dir != "forms" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MarkupPolicy() == nil {
		t.Fatal("default markup policy must be enabled")
	}
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("FORMS_HOME", "/srv/forms")
	t.Setenv("FORMEDIT_LOG_LEVEL", "warn")
	t.Setenv("FORMEDIT_HISTORY_LIMIT", "7")
	t.Setenv("FORMEDIT_METRICS_ENABLED", "yes")

	cfg, err := config.Load(writeConfig(t, "store:\n  dir: ${FORMS_HOME}/data\nlogging:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Store.Dir != "/srv/forms/data" {
		t.Fatalf("env expansion: %q", cfg.Store.Dir)
	}
	if cfg.Logging.Level != "warn" || cfg.Editor.HistoryLimit != 7 || !cfg.Metrics.Enabled {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"format":        "store:\n  format: xml\n",
		"level":         "logging:\n  level: loud\n",
		"log format":    "logging:\n  format: text\n",
		"policy":        "markup:\n  policy: lax\n",
		"history limit": "editor:\n  history_limit: -1\n",
		"yaml":          "editor: [",
	}
	for name, body := range cases {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithFallback_EmptyPath(t *testing.T) {
	t.Setenv("FORMEDIT_STORE_DIR", "/data")
	cfg, err := config.LoadWithFallback("")
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Store.Dir != "/data" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestEditorOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.HistoryLimit = 1
	requireTitle := false
	cfg.Editor.RequireTitle = &requireTitle
	cfg.Markup.Policy = "none"

	var buf bytes.Buffer
	state := editor.New(cfg.EditorOptions(cfg.NewLogger(&buf))...)
	state.LoadModule(schema.Module{Fields: []schema.Field{{ID: "a", Type: "textbox", Label: schema.Text("<script>x</script>")}}})

	if len(state.Issues()) != 0 {
		t.Fatalf("title and markup checks disabled, got %v", state.Issues())
	}
	for i := 0; i < 3; i++ {
		if _, err := state.AddField("textbox", "", nil); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := state.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if state.CanUndo() {
		t.Fatal("history limit 1 must allow a single undo")
	}

	strict := config.Default()
	engine := strict.Validator(nil)
	issues := engine.Validate(schema.Module{Fields: []schema.Field{{ID: "a", Label: schema.Text("<b onclick=x>hi</b>")}}})
	found := false
	for _, issue := range validation.ForField(issues, "a") {
		if issue.Code == validation.CodeUnsafeMarkup {
			found = true
		}
	}
	if !found {
		t.Fatalf("default policy must flag event handlers, got %v", issues)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Dir = filepath.Join(t.TempDir(), "nested", "forms")
	st, err := cfg.OpenStore(cfg.NewLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("OpenStore error: %v", err)
	}
	if st.Dir() != cfg.Store.Dir {
		t.Fatalf("dir: %q", st.Dir())
	}
}
