package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyrite/internal/diagfmt"
	"pyrite/internal/fix"
)

// readColor resolves --color against the terminal state of stdout and
// configures fatih/color to match.
func readColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		enabled = isTerminal(os.Stdout)
	case "on", "always":
		enabled = true
	case "off", "never":
		enabled = false
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	color.NoColor = !enabled
	return enabled, nil
}

func readPathMode(value string) (diagfmt.PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto":
		return diagfmt.PathModeAuto, nil
	case "", "relative":
		return diagfmt.PathModeRelative, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid --path-mode value %q (expected auto|relative|absolute|basename)", value)
	}
}

func readQuiet(cmd *cobra.Command) (bool, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return quiet, nil
}

func printApplyResult(w io.Writer, res *fix.ApplyResult) {
	if res == nil {
		return
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(w, "  %s [%s] %s: %s (%d edits)\n", item.Title, item.Code.ID(), location, item.Message, item.EditCount)
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(w, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}
}
