package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"basil/internal/driver"
	"basil/internal/fix"
	"basil/internal/trace"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.bas|directory>...",
	Short: "Apply available fixes to VBA source files",
	Long:  "Run diagnostics, surface available fix-its, and apply them according to the chosen strategy.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return errors.New("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return errors.New("--all and --once are mutually exclusive")
	}
	if targetID != "" {
		for _, target := range args {
			if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
				return fmt.Errorf("--id expects file targets, %s is a directory", target)
			}
		}
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	applyOpts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	started := time.Now()
	res, applied, err := driver.Fix(cmd.Context(), args, driver.DiagnoseOptions{
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
		Tracer:         trace.FromContext(cmd.Context()),
	}, applyOpts)
	if res == nil && err != nil {
		return fmt.Errorf("fix: diagnose failed: %w", err)
	}
	report := func() error { return handleApplyResult(cmd.OutOrStdout(), applied, err) }
	if showTimings {
		return timedTail(cmd.ErrOrStderr(), res.Timing, started, report)
	}
	return report()
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}
	var printErr error

	if len(res.Applied) > 0 {
		if _, printErr = fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied)); printErr != nil {
			return printErr
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			_, printErr = fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n",
				item.Title, item.ID, item.Code.ID(), location, item.EditCount, item.Applicability.String())
			if printErr != nil {
				return printErr
			}
		}
	}

	if len(res.FileChanges) > 0 {
		if _, printErr = fmt.Fprintln(out, "Updated files:"); printErr != nil {
			return printErr
		}
		for _, change := range res.FileChanges {
			if _, printErr = fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount); printErr != nil {
				return printErr
			}
		}
	}

	if len(res.Skipped) > 0 {
		if _, printErr = fmt.Fprintln(out, "Skipped fixes:"); printErr != nil {
			return printErr
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				_, printErr = fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, printErr = fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
			if printErr != nil {
				return printErr
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, printErr = fmt.Fprintln(out, "No applicable fixes found.")
			return printErr
		}
		return applyErr
	}

	if len(res.Applied) == 0 {
		_, printErr = fmt.Fprintln(out, "No fixes applied.")
	}
	return printErr
}
