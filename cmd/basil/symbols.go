package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"basil/internal/cache"
	"basil/internal/diagfmt"
	"basil/internal/driver"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] [file.bas|directory]...",
	Short: "Print the document outline of VBA modules",
	Long: `Print the symbols (procedures, properties, variables, types and enums)
declared by each module. With --cache, outlines are memoised on disk keyed by
file content and basil.toml.`,
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	symbolsCmd.Flags().Bool("cache", false, "reuse outlines from the on-disk cache")
	symbolsCmd.Flags().Int("max-lines", 0, "skip documents longer than this (0 = from basil.toml)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	maxLines, err := cmd.Flags().GetInt("max-lines")
	if err != nil {
		return fmt.Errorf("failed to get max-lines flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.OutlineOptions{Jobs: jobs, MaxLines: maxLines}
	if useCache {
		disk, err := cache.OpenDefault("basil")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache.Layered{Memory: cache.NewMemory(64), Disk: disk}
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	started := time.Now()
	res, err := driver.Outlines(cmd.Context(), targets, opts)
	if err != nil {
		return fmt.Errorf("outline failed: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	for i, e := range res.Errs {
		if e == nil {
			continue
		}
		fmt.Fprintf(errOut, "symbols: %s: %v\n", res.Paths[i], e)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatOutlinesJSON(out, res.Outlines)
	} else {
		err = diagfmt.FormatOutlinesPretty(out, res.Outlines)
	}
	if err != nil {
		return err
	}
	if useCache && !quiet {
		fmt.Fprintln(errOut, res.Summary())
	}
	if showTimings {
		fmt.Fprintf(errOut, "wall %.1f ms\n", toMillis(time.Since(started)))
	}
	return nil
}
