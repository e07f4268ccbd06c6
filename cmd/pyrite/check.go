package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pyrite/internal/cache"
	"pyrite/internal/checker"
	"pyrite/internal/config"
	"pyrite/internal/diag"
	"pyrite/internal/diagfmt"
	"pyrite/internal/discover"
	"pyrite/internal/driver"
	"pyrite/internal/fix"
	"pyrite/internal/observ"
	"pyrite/internal/source"
	"pyrite/internal/trace"
	"pyrite/internal/ui"
	"pyrite/internal/version"
	"pyrite/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Lint Python files and directories",
	Long: `Lint every *.py file under the given paths (default: the current directory).
Exits with status 1 when any file failed or produced diagnostics.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("config", "", "path to pyrite.toml (default: search upwards from the first path)")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().StringSlice("select", nil, "code prefixes to enable (overrides [lint].select)")
	checkCmd.Flags().StringSlice("ignore", nil, "code prefixes to disable (overrides [lint].ignore)")
	checkCmd.Flags().StringSlice("exclude", nil, "extra doublestar exclude globs")
	checkCmd.Flags().Int("jobs", 0, "parallel file analyses (0: [run].jobs or GOMAXPROCS)")
	checkCmd.Flags().Bool("no-cache", false, "analyse every file, ignoring the cache")
	checkCmd.Flags().Bool("fix", false, "apply always-safe fixes and re-check")
	checkCmd.Flags().Bool("watch", false, "re-run on file changes")
	checkCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a watch re-run")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Bool("show-notes", true, "include notes in output")
	checkCmd.Flags().Bool("show-fixes", false, "include suggested fixes in output")
	checkCmd.Flags().Bool("preview", false, "show before/after lines for each fix")
	checkCmd.Flags().Int("context", 0, "source lines shown per diagnostic (0: 5, negative: none)")
	checkCmd.Flags().String("path-mode", "relative", "path display (auto|relative|absolute|basename)")
}

type checkFlags struct {
	configPath string
	format     string
	selectSet  bool
	selects    []string
	ignoreSet  bool
	ignores    []string
	excludes   []string
	jobs       int
	noCache    bool
	fix        bool
	watch      bool
	debounce   time.Duration
	ui         uiMode
	showNotes  bool
	showFixes  bool
	preview    bool
	context    int
	pathMode   diagfmt.PathMode
	color      bool
	quiet      bool
	timings    bool
	maxDiags   int
	maxSet     bool
}

func readCheckFlags(cmd *cobra.Command) (*checkFlags, error) {
	f := &checkFlags{}
	flags := cmd.Flags()
	var err error

	if f.configPath, err = flags.GetString("config"); err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.format, err = flags.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json":
	default:
		return nil, fmt.Errorf("unknown format %q (expected pretty|short|json)", f.format)
	}
	if f.selects, err = flags.GetStringSlice("select"); err != nil {
		return nil, fmt.Errorf("failed to get select flag: %w", err)
	}
	f.selectSet = flags.Changed("select")
	if f.ignores, err = flags.GetStringSlice("ignore"); err != nil {
		return nil, fmt.Errorf("failed to get ignore flag: %w", err)
	}
	f.ignoreSet = flags.Changed("ignore")
	if f.excludes, err = flags.GetStringSlice("exclude"); err != nil {
		return nil, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.jobs < 0 {
		return nil, fmt.Errorf("--jobs must be >= 0, got %d", f.jobs)
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if f.fix, err = flags.GetBool("fix"); err != nil {
		return nil, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if f.watch, err = flags.GetBool("watch"); err != nil {
		return nil, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if f.debounce, err = flags.GetDuration("debounce"); err != nil {
		return nil, fmt.Errorf("failed to get debounce flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	if f.showNotes, err = flags.GetBool("show-notes"); err != nil {
		return nil, fmt.Errorf("failed to get show-notes flag: %w", err)
	}
	if f.showFixes, err = flags.GetBool("show-fixes"); err != nil {
		return nil, fmt.Errorf("failed to get show-fixes flag: %w", err)
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return nil, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.context, err = flags.GetInt("context"); err != nil {
		return nil, fmt.Errorf("failed to get context flag: %w", err)
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if f.pathMode, err = readPathMode(pathMode); err != nil {
		return nil, err
	}
	if f.color, err = readColor(cmd); err != nil {
		return nil, err
	}
	if f.quiet, err = readQuiet(cmd); err != nil {
		return nil, err
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	f.maxSet = cmd.Root().PersistentFlags().Changed("max-diagnostics")
	return f, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	r := &checkRunner{
		flags:  flags,
		roots:  roots,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}
	if err := r.configure(); err != nil {
		return err
	}
	if !flags.watch {
		return r.run(cmd.Context())
	}

	w, err := watch.New(roots, watch.Options{Debounce: flags.debounce})
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(cmd.Context(), func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			fmt.Fprintf(r.stderr, "\n%s: %d file(s) changed, re-checking\n", time.Now().Format("15:04:05"), len(changed))
		}
		if configChanged(changed) {
			if err := r.configure(); err != nil {
				// битый конфиг не останавливает наблюдение
				fmt.Fprintf(r.stderr, "error: %v\n", err)
				return nil
			}
		}
		err := r.run(ctx)
		if errors.Is(err, errFindings) {
			return nil
		}
		return err
	})
}

func configChanged(paths []string) bool {
	for _, p := range paths {
		if filepath.Base(p) == config.FileName {
			return true
		}
	}
	return false
}

// checkRunner holds everything that survives between watch re-runs.
type checkRunner struct {
	flags  *checkFlags
	roots  []string
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	engine *checker.Engine
	store  *cache.Store
}

// configure loads the config, applies flag overrides and opens the cache.
func (r *checkRunner) configure() error {
	var (
		cfg *config.Config
		err error
	)
	if r.flags.configPath != "" {
		cfg, err = config.Load(r.flags.configPath)
	} else {
		cfg, err = config.Discover(r.roots[0])
	}
	if err != nil {
		return err
	}

	if r.flags.selectSet {
		cfg.Lint.Select = r.flags.selects
	}
	if r.flags.ignoreSet {
		cfg.Lint.Ignore = r.flags.ignores
	}
	if unknown := cfg.Selection().Validate(); len(unknown) > 0 {
		return fmt.Errorf("unknown rule selector(s): %v", unknown)
	}
	cfg.Lint.Exclude = append(cfg.Lint.Exclude, r.flags.excludes...)
	if r.flags.maxSet {
		cfg.Lint.MaxDiagnostics = r.flags.maxDiags
	}
	if r.flags.jobs > 0 {
		cfg.Run.Jobs = r.flags.jobs
	}
	if r.flags.noCache {
		cfg.Cache.Enabled = false
	}

	r.cfg = cfg
	r.engine = checker.New(cfg.Selection().Rules())
	r.store = nil
	if cfg.Cache.Enabled {
		store, err := cfg.OpenCache(version.Current().Fingerprint())
		if err != nil {
			// кэш недоступен: работаем без него
			fmt.Fprintf(r.stderr, "warning: cache disabled: %v\n", err)
		} else {
			r.store = store
		}
	}
	return nil
}

func (r *checkRunner) baseDir() string {
	if r.cfg.Root != "" {
		return r.cfg.Root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

func (r *checkRunner) options() *driver.Options {
	mode := cache.ModeFromBool(r.store != nil)
	return &driver.Options{
		Selection:        r.cfg.Selection(),
		PerFileIgnores:   r.cfg.PerFileIgnores(),
		MaxDiagnostics:   r.cfg.Lint.MaxDiagnostics,
		BracketAwareJoin: r.cfg.Lint.BracketAwareJoin,
		EnableTimings:    r.flags.timings,
		Jobs:             r.cfg.Run.Jobs,
		BaseDir:          r.baseDir(),
		Cache:            r.store,
		CacheMode:        mode,
	}
}

// run performs one full check: discover, analyse, optionally fix, report.
func (r *checkRunner) run(ctx context.Context) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	defer span.End("")

	paths, err := discover.Collect(r.roots, discover.Options{Exclude: r.cfg.Lint.Exclude})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if !r.flags.quiet {
			fmt.Fprintln(r.stderr, "no Python files found")
		}
		return nil
	}

	fs, results, err := r.check(ctx, paths)
	if err != nil {
		return err
	}

	if r.flags.fix {
		res, applyErr := fix.Apply(fs, collect(results).Items())
		switch {
		case errors.Is(applyErr, fix.ErrNoFixes):
			if !r.flags.quiet {
				fmt.Fprintln(r.stderr, "no applicable fixes found")
			}
		case applyErr != nil:
			return fmt.Errorf("fix: %w", applyErr)
		default:
			if !r.flags.quiet {
				printApplyResult(r.stderr, res)
			}
			// исправленные файлы перепроверяются, остальные берутся из кэша
			if fs, results, err = r.check(ctx, paths); err != nil {
				return err
			}
		}
	}

	if err := r.report(fs, results); err != nil {
		return err
	}
	summary := driver.Summarize(results)
	if summary.Failed > 0 {
		dumpTraceRing(tracer, r.stderr)
	}
	if !summary.Clean() {
		return errFindings
	}
	return nil
}

// dumpTraceRing prints the events kept by --trace-mode ring|both so a
// failed run can be inspected without a full trace file.
func dumpTraceRing(tracer trace.Tracer, w io.Writer) {
	ring, ok := trace.RingOf(tracer)
	if !ok {
		return
	}
	fmt.Fprintln(w, "trace (most recent events):")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

func (r *checkRunner) check(ctx context.Context, paths []string) (*source.FileSet, []driver.FileResult, error) {
	opts := r.options()
	if !r.flags.ui.enabled(r.flags.format) {
		return driver.Check(ctx, paths, r.engine, opts)
	}

	var (
		fs       *source.FileSet
		results  []driver.FileResult
		checkErr error
	)
	uiErr := runWithUI("checking", paths, func(emit func(ui.Event)) {
		opts.Progress = func(ev driver.ProgressEvent) { emit(ui.CheckEvent(ev)) }
		fs, results, checkErr = driver.Check(ctx, paths, r.engine, opts)
	})
	if checkErr != nil {
		return fs, results, checkErr
	}
	if uiErr != nil {
		return fs, results, fmt.Errorf("progress view: %w", uiErr)
	}
	return fs, results, nil
}

// collect merges per-file bags in discovery order.
func collect(results []driver.FileResult) *diag.Bag {
	bag := diag.NewBag(0)
	for i := range results {
		bag.Merge(results[i].Bag)
	}
	return bag
}

func (r *checkRunner) report(fs *source.FileSet, results []driver.FileResult) error {
	bag := collect(results)
	summary := driver.Summarize(results)

	switch r.flags.format {
	case "json":
		out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         r.flags.pathMode,
			IncludeNotes:     r.flags.showNotes,
			IncludeFixes:     r.flags.showFixes,
			IncludePreviews:  r.flags.preview,
		})
		out.Files = summary.Files
		out.Cached = summary.Cached
		if err := diagfmt.EncodeJSON(r.stdout, out); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	case "short":
		diagfmt.Short(r.stdout, bag, fs, r.flags.showNotes)
	default:
		diagfmt.Pretty(r.stdout, bag, fs, diagfmt.PrettyOpts{
			Color:       r.flags.color,
			Context:     r.flags.context,
			PathMode:    r.flags.pathMode,
			ShowNotes:   r.flags.showNotes,
			ShowFixes:   r.flags.showFixes,
			ShowPreview: r.flags.preview,
		})
	}

	if r.flags.timings {
		printTimings(r.stderr, results)
	}
	if summary.CacheErrors > 0 {
		fmt.Fprintf(r.stderr, "warning: cache unavailable for %d file(s)\n", summary.CacheErrors)
	}
	if !r.flags.quiet && r.flags.format != "json" {
		fmt.Fprintf(r.stderr, "checked %d file(s), %d cached: %d diagnostic(s), %d failed\n",
			summary.Files, summary.Cached, summary.Diagnostics, summary.Failed)
		if summary.Dropped > 0 {
			fmt.Fprintf(r.stderr, "%d diagnostic(s) over --max-diagnostics not shown\n", summary.Dropped)
		}
	}
	return nil
}

func printTimings(w io.Writer, results []driver.FileResult) {
	paths := make([]string, len(results))
	reports := make([]*observ.Report, len(results))
	for i := range results {
		paths[i] = results[i].Path
		reports[i] = results[i].Timings
	}
	agg := observ.Aggregate(reports)
	if agg.Files == 0 {
		fmt.Fprintln(w, "timings: every file came from the cache")
		return
	}
	fmt.Fprint(w, agg.Summary())
	slowest := observ.Slowest(paths, reports, 5)
	if len(slowest) < 2 {
		return
	}
	fmt.Fprintln(w, "slowest files:")
	for _, ft := range slowest {
		fmt.Fprintf(w, "  %7.2f ms  %s\n", ft.TotalMS, ft.Path)
	}
}
