package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrite/internal/ast"
	"pyrite/internal/diag"
	"pyrite/internal/diagfmt"
	"pyrite/internal/driver"
	"pyrite/internal/logical"
	"pyrite/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Dump the token stream of a Python file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var linesCmd = &cobra.Command{
	Use:   "lines [flags] file.py",
	Short: "Dump the logical lines of a Python file",
	Long:  `Lines shows the text style rules see: one entry per logical line, strings muted`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

var parseCmd = &cobra.Command{
	Use:   "parse file.py",
	Short: "Dump the syntax tree of a Python file",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	linesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	linesCmd.Flags().Bool("bracket-aware-join", false, "omit join spaces next to brackets")
}

// debugDiagnostics prints lexer and parser errors of a dump command to
// stderr.
func debugDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag.Len() == 0 {
		return nil
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor, Context: 2})
	return nil
}

func readDebugFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return "", fmt.Errorf("unknown format: %s", format)
	}
	return format, nil
}

func readMaxDiagnostics(cmd *cobra.Command) (int, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return maxDiagnostics, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := readDebugFormat(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := readMaxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := debugDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
}

func runLines(cmd *cobra.Command, args []string) error {
	format, err := readDebugFormat(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := readMaxDiagnostics(cmd)
	if err != nil {
		return err
	}
	bracketAware, err := cmd.Flags().GetBool("bracket-aware-join")
	if err != nil {
		return fmt.Errorf("failed to get bracket-aware-join flag: %w", err)
	}

	result, err := driver.Lines(args[0], logical.Options{BracketAwareJoin: bracketAware}, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := debugDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if format == "json" {
		return diagfmt.FormatLinesJSON(cmd.OutOrStdout(), result.Lines)
	}
	return diagfmt.FormatLinesPretty(cmd.OutOrStdout(), result.Lines)
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := readMaxDiagnostics(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(cmd.Context(), args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := debugDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.Builder == nil {
		return nil
	}
	return ast.Dump(cmd.OutOrStdout(), result.Builder)
}
