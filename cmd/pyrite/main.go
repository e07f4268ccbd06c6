package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pyrite/internal/version"
)

// errFindings marks a run that completed but must exit non-zero; the
// command itself already printed everything.
var errFindings = errors.New("findings reported")

var rootCmd = &cobra.Command{
	Use:           "pyrite",
	Short:         "Fast static analysis for Python sources",
	Long:          `Pyrite lints Python files: logical-line style checks, AST rules and an incremental cache`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		traceCleanup = func() {
			cleanup()
			stopProfiling()
		}
		return nil
	},
}

// traceCleanup flushes the tracer and stops the profilers started by the
// pre-run hook.
var traceCleanup func()

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0: from config)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace event format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity in events")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command. Any error, including errFindings, exits
// with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if traceCleanup != nil {
		traceCleanup()
	}
	if err != nil {
		if !errors.Is(err, errFindings) {
			rootCmd.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
