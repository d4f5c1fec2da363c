package main

import (
	"fmt"

	"github.com/DonovanMods/mrunpack/internal/core"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached modloader installers",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached installers",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [name version]",
	Short: "Delete cached installers",
	Long: `Delete every cached installer, or one installer version.

Examples:
  mrunpack cache clean
  mrunpack cache clean forge-installer 1.20.1-47.2.0`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or <name> <version>, got %d", len(args))
		}
		return nil
	},
	RunE: runCacheClean,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	service, err := initService(core.NeverConfirm)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	entries, err := service.Cache().List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Installer cache is empty.")
		return nil
	}

	var total int64
	for _, e := range entries {
		fmt.Fprintf(out, "%-22s %-16s %s\n", e.Name, e.Version, humanize.Bytes(uint64(e.Size)))
		total += e.Size
	}
	fmt.Fprintf(out, "%s in %s\n", humanize.Bytes(uint64(total)), service.Cache().BasePath())
	return nil
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	service, err := initService(core.NeverConfirm)
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	c := service.Cache()
	if len(args) == 2 {
		if !c.Exists(args[0], args[1]) {
			return fmt.Errorf("installer %s %s is not cached", args[0], args[1])
		}
		if err := c.Delete(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s %s\n", colorGreen("✓"), args[0], args[1])
		return nil
	}

	size, err := c.Size()
	if err != nil {
		return err
	}
	if err := c.Clean(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Freed %s\n", colorGreen("✓"), humanize.Bytes(uint64(size)))
	return nil
}
