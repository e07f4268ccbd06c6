package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyrite/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir [path]",
	Short: "Print the cache directory used for path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cacheConfig(args)
		if err != nil {
			return err
		}
		dir, err := cfg.CacheDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove every cached lint and test result",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cacheConfig(args)
		if err != nil {
			return err
		}
		lint, err := cfg.OpenCache()
		if err != nil {
			return err
		}
		tests, err := cfg.OpenTestCache()
		if err != nil {
			return err
		}
		if err := lint.Clear(); err != nil {
			return err
		}
		if err := tests.Clear(); err != nil {
			return err
		}
		quiet, err := readQuiet(cmd)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", lint.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

func cacheConfig(args []string) (*config.Config, error) {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	return config.Discover(base)
}
