package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formedit/config"
	"github.com/goliatone/go-formedit/internal/prompt"
	"github.com/goliatone/go-formedit/internal/watch"
	"github.com/goliatone/go-formedit/pkg/editor"
	"github.com/goliatone/go-formedit/pkg/fieldtypes"
	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/metrics"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/script"
	"github.com/goliatone/go-formedit/pkg/store"
	"github.com/goliatone/go-formedit/pkg/validation"
)

const usage = `Usage: %s [flags] <command> [args]

Commands:
  new <title>               create an empty module and print its id
  list                      list stored modules
  tree <id>                 print the field hierarchy
  validate <id|file>        report validation issues (exit 1 on errors)
  preview <id> [f=v ...]    print the fields shown for the given answers
  apply <id> <script.yaml>  run an edit script and save the result
  edit <id>                 edit a module interactively
  watch <file>              re-validate a module file on every change

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	out     io.Writer
	store   *store.FileStore
	metrics *metrics.Collector
	reg     *prometheus.Registry
	driver  prompt.Driver
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runWith(ctx, args, stdout, stderr, nil)
}

// runWith is run with an injectable prompt driver for the edit command.
func runWith(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) int {
	flags := flag.NewFlagSet("formedit", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "configuration file (YAML)")
	storeDir := flags.String("store", "", "module directory (overrides store.dir)")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usage, filepath.Base(os.Args[0]))
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "formedit: %v\n", err)
		return 1
	}
	if *storeDir != "" {
		cfg.Store.Dir = *storeDir
	}

	a := &app{cfg: cfg, logger: cfg.NewLogger(stderr), out: stdout, driver: driver}
	if cfg.Metrics.Enabled {
		a.reg = prometheus.NewRegistry()
		a.metrics = metrics.NewWithRegistry(a.reg)
	}

	command, rest := flags.Arg(0), flags.Args()[1:]
	err = a.dispatch(ctx, command, rest)
	if ferr := a.flushMetrics(); ferr != nil && err == nil {
		err = ferr
	}

	var exit exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return int(exit)
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "formedit: %v\n", err)
		flags.Usage()
		return 2
	default:
		fmt.Fprintf(stderr, "formedit: %v\n", err)
		return 1
	}
}

var errUsage = errors.New("invalid usage")

// exitError carries a non-zero exit status for results already reported.
type exitError int

func (e exitError) Error() string {
	return "exit status " + strconv.Itoa(int(e))
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "new":
		return a.cmdNew(ctx, args)
	case "list":
		return a.cmdList(ctx, args)
	case "tree":
		return a.cmdTree(ctx, args)
	case "validate":
		return a.cmdValidate(ctx, args)
	case "preview":
		return a.cmdPreview(ctx, args)
	case "apply":
		return a.cmdApply(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "watch":
		return a.cmdWatch(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *app) openStore() (*store.FileStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := a.cfg.OpenStore(a.logger)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

func (a *app) newEditor() *editor.State {
	state := editor.New(a.cfg.EditorOptions(a.logger)...)
	if a.metrics != nil {
		a.metrics.Observe(state)
	}
	return state
}

func (a *app) loadModule(ctx context.Context, raw string) (schema.Module, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return schema.Module{}, fmt.Errorf("%w: module id %q must be a positive integer", errUsage, raw)
	}
	st, err := a.openStore()
	if err != nil {
		return schema.Module{}, err
	}
	return st.Load(ctx, id)
}

func (a *app) cmdNew(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: new needs a title", errUsage)
	}
	st, err := a.openStore()
	if err != nil {
		return err
	}
	module := schema.Module{Title: schema.LocalizedText{a.cfg.Editor.Locale: strings.Join(args, " ")}}
	id, err := st.Save(ctx, module)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	summaries, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(a.out, "%d\tv%d\t%d fields\t%s\n", s.ID, s.Version, s.FieldCount, s.Title.Get(a.cfg.Editor.Locale))
	}
	return nil
}

func (a *app) cmdTree(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: tree needs a module id", errUsage)
	}
	module, err := a.loadModule(ctx, args[0])
	if err != nil {
		return err
	}
	return hierarchy.Fprint(a.out, hierarchy.Build(module).Roots, a.cfg.Editor.Locale)
}

func (a *app) cmdValidate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: validate needs a module id or file", errUsage)
	}
	var (
		module schema.Module
		err    error
	)
	if _, ferr := store.FormatFromPath(args[0]); ferr == nil {
		module, err = store.ReadFile(args[0])
	} else {
		module, err = a.loadModule(ctx, args[0])
	}
	if err != nil {
		return err
	}

	issues := a.cfg.Validator(fieldtypes.NewRegistry()).Validate(module)
	return a.reportIssues(issues)
}

func (a *app) reportIssues(issues []validation.Issue) error {
	for _, issue := range issues {
		fmt.Fprintln(a.out, issue.String())
	}
	counts := validation.Count(issues)
	fmt.Fprintf(a.out, "%d error(s), %d warning(s), %d info\n",
		counts[validation.SeverityError], counts[validation.SeverityWarning], counts[validation.SeverityInfo])
	if validation.HasErrors(issues) {
		return exitError(1)
	}
	return nil
}

func (a *app) cmdPreview(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: preview needs a module id", errUsage)
	}
	module, err := a.loadModule(ctx, args[0])
	if err != nil {
		return err
	}
	answers, err := parseAnswers(args[1:])
	if err != nil {
		return err
	}

	state := a.newEditor()
	state.LoadModule(module)
	if err := state.SetViewMode(editor.ViewPreview); err != nil {
		return err
	}
	visible, err := state.Preview(answers)
	if err != nil {
		return err
	}

	shown := make(map[string]bool, len(visible))
	for _, id := range visible {
		shown[id] = true
	}
	hierarchy.Walk(state.Roots(), func(node *hierarchy.Node) bool {
		if !shown[node.Field.ID] {
			return false
		}
		fmt.Fprintln(a.out, hierarchy.Line(node, a.cfg.Editor.Locale))
		return true
	})
	return nil
}

// parseAnswers reads field=value pairs. Repeating a field collects a list.
func parseAnswers(pairs []string) (map[string]any, error) {
	answers := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: answer %q must look like field=value", errUsage, pair)
		}
		switch prev := answers[key].(type) {
		case nil:
			answers[key] = value
		case []any:
			answers[key] = append(prev, value)
		default:
			answers[key] = []any{prev, value}
		}
	}
	return answers, nil
}

func (a *app) cmdApply(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: apply needs a module id and a script", errUsage)
	}
	module, err := a.loadModule(ctx, args[0])
	if err != nil {
		return err
	}
	steps, err := script.ParseFile(args[1])
	if err != nil {
		return err
	}

	state := a.newEditor()
	state.LoadModule(module)
	results := script.Run(state, steps, script.WithLogger(a.logger))

	changed := false
	for _, result := range results {
		status := "ok"
		if result.Err != nil {
			status = "error: " + result.Err.Error()
		}
		line := fmt.Sprintf("%d. %s: %s", result.Index+1, result.Step, status)
		if result.Created != "" {
			line += " (" + result.Created + ")"
		}
		fmt.Fprintln(a.out, line)
		changed = changed || result.Changed
	}

	if changed {
		edited, _ := state.Module()
		if _, err := a.store.Save(ctx, edited); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "saved")
	}
	if len(script.Failed(results)) > 0 {
		return exitError(1)
	}
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: edit needs a module id", errUsage)
	}
	module, err := a.loadModule(ctx, args[0])
	if err != nil {
		return err
	}
	state := a.newEditor()
	state.LoadModule(module)

	driver := a.driver
	if driver == nil {
		driver = prompt.NewSurveyDriver(a.out)
	}
	session := prompt.NewSession(driver, state,
		prompt.WithLocale(a.cfg.Editor.Locale),
		prompt.WithLogger(a.logger),
		prompt.WithSave(func(ctx context.Context, edited schema.Module) error {
			_, err := a.store.Save(ctx, edited)
			return err
		}),
	)
	err = session.Run(ctx)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	return err
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: watch needs a module file", errUsage)
	}
	w, err := watch.New(args[0], a.cfg.Validator(fieldtypes.NewRegistry()), watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	w.OnReport(func(report watch.Report) {
		if report.Err != nil {
			fmt.Fprintf(a.out, "%s: %v\n", report.Path, report.Err)
			return
		}
		fmt.Fprintf(a.out, "%s: %d field(s)\n", report.Path, len(report.Module.Fields))
		_ = a.reportIssues(report.Issues)
	})
	return w.Run(ctx)
}

func (a *app) flushMetrics() error {
	if a.reg == nil || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
