package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pyrite/internal/cache"
	"pyrite/internal/config"
	"pyrite/internal/discover"
	"pyrite/internal/testrun"
	"pyrite/internal/ui"
	"pyrite/internal/version"
)

var testCmd = &cobra.Command{
	Use:   "test [flags] [path...]",
	Short: "Run unittest modules, skipping those unchanged since they last passed",
	Long: `Run every test_*.py / *_test.py module under the given paths with the
configured [test].command. Modules that passed before and did not change
are skipped. Exits with status 1 when any module failed.`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().String("config", "", "path to pyrite.toml (default: search upwards from the first path)")
	testCmd.Flags().Int("jobs", 0, "parallel test runners (0: [run].jobs or GOMAXPROCS)")
	testCmd.Flags().Bool("no-cache", false, "run every module, ignoring previous passes")
	testCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runTest(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := readQuiet(cmd)
	if err != nil {
		return err
	}
	if _, err := readColor(cmd); err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(roots[0])
	}
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = cfg.Run.Jobs
	}

	modules, err := discover.CollectModules(roots, discover.Options{Exclude: cfg.Lint.Exclude, Tests: true})
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no test modules found")
		}
		return nil
	}

	opts := testrun.Options{
		Command:   cfg.Test.Command,
		Jobs:      jobs,
		CacheMode: cache.ModeDisabled,
	}
	if cfg.Cache.Enabled && !noCache {
		store, err := cfg.OpenTestCache(version.Current().Fingerprint())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		} else {
			opts.Cache = store
			opts.CacheMode = cache.ModeEnabled
		}
	}

	var results []testrun.Result
	if mode.enabled("") {
		paths := make([]string, len(modules))
		for i, m := range modules {
			paths[i] = m.Path
		}
		var runErr error
		uiErr := runWithUI("testing", paths, func(emit func(ui.Event)) {
			opts.Progress = func(res testrun.Result) { emit(ui.TestEvent(res)) }
			results, runErr = testrun.Run(cmd.Context(), modules, opts)
		})
		if runErr != nil {
			return runErr
		}
		if uiErr != nil {
			return fmt.Errorf("progress view: %w", uiErr)
		}
	} else {
		results, err = testrun.Run(cmd.Context(), modules, opts)
		if err != nil {
			return err
		}
	}

	failed := printTestResults(cmd.OutOrStdout(), results, quiet)
	if failed > 0 {
		return errFindings
	}
	return nil
}

// printTestResults writes one line per failed module (with the runner's
// stderr for test failures) and a summary; it returns the failure count.
func printTestResults(w io.Writer, results []testrun.Result, quiet bool) int {
	var passed, cached, failed, cacheErrs int
	for _, res := range results {
		if res.CacheErr != nil {
			cacheErrs++
		}
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s\n", res.Module.Rel())
			msg := res.Err.Error()
			if errors.Is(res.Err, testrun.ErrTestsFailed) {
				_, msg, _ = strings.Cut(msg, "\n")
			}
			if msg = strings.TrimRight(msg, "\n"); msg != "" {
				for _, line := range strings.Split(msg, "\n") {
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		case res.Cached:
			cached++
		default:
			passed++
		}
	}
	if cacheErrs > 0 {
		fmt.Fprintf(w, "warning: cache unavailable for %d module(s)\n", cacheErrs)
	}
	if !quiet || failed > 0 {
		fmt.Fprintf(w, "%d passed, %d unchanged, %d failed\n", passed, cached, failed)
	}
	return failed
}
