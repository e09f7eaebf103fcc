package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"basil/internal/cache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the basil outline cache",
	Long:  "Remove every cached document outline written by `basil symbols --cache`.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	disk, err := cache.OpenDefault("basil")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := disk.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", disk.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", disk.Dir())
	return nil
}
