package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basil/internal/lsp"
	"basil/internal/trace"
	"basil/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the Basil language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-analysing an edited document (0 = 300ms)")
	lspCmd.Flags().Duration("wait-timeout", 0, "how long requests wait for the current document version (0 = 2s)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	waitTimeout, err := cmd.Flags().GetDuration("wait-timeout")
	if err != nil {
		return fmt.Errorf("failed to get wait-timeout flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// stdout занят протоколом, трассировка идёт только в файл или stderr
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       debounce,
		WaitTimeout:    waitTimeout,
		MaxDiagnostics: maxDiagnostics,
		Tracer:         trace.FromContext(cmd.Context()),
		Version:        version.Version,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return errors.New("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
