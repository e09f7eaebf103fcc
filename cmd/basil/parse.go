package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"basil/internal/diagfmt"
	"basil/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.bas",
	Short: "Print the parse tree of a VBA source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := reportToStderr(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(out, result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(out, result.Tree, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
