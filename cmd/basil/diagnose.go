package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"basil/internal/diag"
	"basil/internal/diagfmt"
	"basil/internal/driver"
	"basil/internal/project"
	"basil/internal/trace"
	"basil/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.bas|directory]...",
	Short: "Run diagnostics on VBA source files or directories",
	Long: `Run diagnostics to find syntax and semantic issues in VBA modules.
Directories are walked using the [analysis] settings of basil.toml; all
targets are analysed together so references resolve across modules.`,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("watch", false, "re-run diagnostics when sources change")
	diagCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	diagCmd.Flags().Int("max-lines", 0, "skip documents longer than this (0 = from basil.toml)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits without modifying files")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// diagFlags collects everything runDiagnose reads from the command line.
type diagFlags struct {
	format    string
	watch     bool
	ui        uiMode
	quiet     bool
	timings   bool
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	opts      driver.DiagnoseOptions
}

func readDiagFlags(cmd *cobra.Command) (*diagFlags, error) {
	f := &diagFlags{}
	var err error

	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return nil, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return nil, fmt.Errorf("failed to get watch flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	if f.opts.MaxLines, err = cmd.Flags().GetInt("max-lines"); err != nil {
		return nil, fmt.Errorf("failed to get max-lines flag: %w", err)
	}
	if f.opts.IgnoreWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return nil, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.opts.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return nil, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.opts.IgnoreWarnings && f.opts.WarningsAsErrors {
		return nil, errors.New("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return nil, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return nil, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return nil, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return nil, fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if f.opts.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	f.opts.EnableTimings = f.timings
	f.opts.Tracer = trace.FromContext(cmd.Context())
	return f, nil
}

func (f *diagFlags) pathMode() diagfmt.PathMode {
	if f.fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeAuto
}

// runDiagnose executes "diag": it analyses all targets in one workspace,
// prints the diagnostics in the chosen format and fails (silently, the
// report is already printed) when any error was found.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if flags.watch {
		return watchDiagnose(cmd, targets, flags, color)
	}

	failed, err := diagnoseOnce(cmd.Context(), cmd, targets, flags, color, shouldUseTUI(flags.ui, flags.quiet))
	if err != nil {
		return err
	}
	if failed {
		cleanup()
		return failSilently(cmd)
	}
	return nil
}

// diagnoseOnce runs one analysis and prints it. It reports whether any
// error diagnostic was emitted.
func diagnoseOnce(ctx context.Context, cmd *cobra.Command, targets []string, flags *diagFlags, color, tui bool) (bool, error) {
	started := time.Now()
	var (
		result *driver.DiagnoseResult
		err    error
	)
	if tui {
		result, err = runDiagnoseWithUI(ctx, "basil diag", targets[0], targets, flags.opts)
	} else {
		result, err = driver.Diagnose(ctx, targets, flags.opts)
	}
	if err != nil {
		return false, fmt.Errorf("diagnosis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, result, flags, color); err != nil {
		return false, err
	}
	if flags.timings {
		printTimings(cmd.ErrOrStderr(), result.Timing, time.Since(started))
	}
	return result.HasErrors(), nil
}

func writeDiagnostics(out io.Writer, result *driver.DiagnoseResult, flags *diagFlags, color bool) error {
	mode := flags.pathMode()
	showFixes := flags.suggest || flags.preview
	fs := result.FileSet

	switch flags.format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    mode,
			ShowNotes:   flags.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: flags.preview,
		}
		printed := 0
		for _, r := range result.Files {
			if r.Bag.Len() == 0 {
				continue
			}
			if len(result.Files) > 1 {
				if printed > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s ==\n", diagfmt.DisplayPath(r.Path, fs, mode))
			}
			diagfmt.Pretty(out, r.Bag, fs, prettyOpts)
			printed++
		}
	case "short":
		output := diag.FormatShortDiagnostics(result.Bag().Items(), fs, flags.withNotes)
		if output != "" {
			fmt.Fprintln(out, output)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         mode,
			Max:              flags.opts.MaxDiagnostics,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  flags.preview,
		}
		if len(result.Files) == 1 {
			if err := diagfmt.JSON(out, result.Files[0].Bag, fs, jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
			return nil
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(result.Files))
		for _, r := range result.Files {
			data, err := diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
			if err != nil {
				return fmt.Errorf("failed to build diagnostics output: %w", err)
			}
			output[diagfmt.DisplayPath(r.Path, fs, mode)] = data
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "basil",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(out, result.Bag(), fs, meta); err != nil {
			return fmt.Errorf("failed to format sarif: %w", err)
		}
	}
	return nil
}

// watchDiagnose re-runs the analysis after every batch of source changes
// until interrupted. Errors found do not end the session.
func watchDiagnose(cmd *cobra.Command, targets []string, flags *diagFlags, color bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errOut := cmd.ErrOrStderr()
	rerun := func() {
		if _, err := diagnoseOnce(ctx, cmd, targets, flags, color, false); err != nil {
			fmt.Fprintf(errOut, "diag: %v\n", err)
		}
	}
	rerun()
	if !flags.quiet {
		fmt.Fprintln(errOut, "watching for changes (Ctrl+C to stop)")
	}

	var exts []string
	if manifest, err := project.Load(startDirOf(targets[0])); err == nil {
		exts = manifest.Config.Analysis.Extensions
	}
	return driver.Watch(ctx, targets, driver.WatchOptions{Extensions: exts}, func(changed []string) {
		if !flags.quiet {
			fmt.Fprintf(errOut, "\n-- %d file(s) changed --\n", len(changed))
		}
		rerun()
	})
}

// failSilently ends the command with a non-zero status; diagnostics were
// already printed, so cobra must not add anything.
func failSilently(cmd *cobra.Command) error {
	// PersistentPostRun не вызывается при ошибке
	traceCleanup()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errors.New("")
}

// startDirOf returns the directory manifest discovery starts from.
func startDirOf(target string) string {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Dir(target)
	}
	return target
}
