package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basil/internal/diag"
	"basil/internal/diagfmt"
	"basil/internal/driver"
	"basil/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.bas",
	Short: "Tokenize a VBA source file",
	Long:  `Tokenize breaks down a VBA module into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := reportToStderr(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// reportToStderr prints lexer/parser diagnostics next to a dump.
func reportToStderr(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if !bag.HasErrors() && !bag.HasWarnings() {
		return nil
	}
	color, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: color, Context: 2})
	return nil
}
