package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/DonovanMods/mrunpack/internal/core"
	"github.com/DonovanMods/mrunpack/internal/domain"
	"github.com/DonovanMods/mrunpack/internal/storage/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"

	// Global flags
	configDir string
	dataDir   string
	workDir   string
	verbose   bool
	noColor   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mrunpack",
	Short: "Install Modrinth modpacks into the Minecraft launcher",
	Long: `mrunpack unpacks a Modrinth modpack (.mrpack), downloads its mods, installs
the modloader it needs and registers a ready-to-play profile in the official
Minecraft launcher.

Run 'mrunpack install <pack.mrpack>' to get started.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !colorEnabled() {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: $XDG_CONFIG_HOME/mrunpack)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: $XDG_DATA_HOME/mrunpack)")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", ".", "directory for the staging area and dry-run output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
// NO_COLOR: if set (any value), color is disabled per https://no-color.org
func colorEnabled() bool {
	if noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return true
}

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// colorGreen returns s styled green when color is enabled, otherwise s.
func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return greenStyle.Render(s)
}

// colorRed returns s styled red when color is enabled, otherwise s.
func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return redStyle.Render(s)
}

// colorYellow returns s styled yellow when color is enabled, otherwise s.
func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return yellowStyle.Render(s)
}

func colorDim(s string) string {
	if !colorEnabled() {
		return s
	}
	return dimStyle.Render(s)
}

// Execute runs the root command. Exit codes: 0 = success (warnings included), 1 = any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("Error:"), err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, colorDim(hint))
		}
		stop()
		os.Exit(1)
	}
}

// errorHint suggests a next step for well-known failures
func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "Remove the directory yourself, or rerun with --yes to delete it without asking."
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrPathEscape):
		return "Fix the cause and rerun; the directories named above can be deleted once inspected."
	case errors.Is(err, domain.ErrFormat), errors.Is(err, domain.ErrSchema):
		return "The package is not a valid Modrinth modpack."
	case errors.Is(err, domain.ErrCancelled), errors.Is(err, context.Canceled):
		return "Interrupted; rerun to start over."
	}
	return ""
}

// newLogger creates the structured logger handed to the service
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "mrunpack",
		Level:  log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	if !colorEnabled() {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

// initService creates and initializes the core service
func initService(confirm core.Confirmer) (*core.Service, error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, err
	}
	cfg.Confirm = confirm
	cfg.Logger = newLogger()

	// Ensure directories exist
	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	return core.NewService(cfg)
}

// getServiceConfig returns the service configuration with defaults
func getServiceConfig() (core.ServiceConfig, error) {
	cfg := core.ServiceConfig{
		ConfigDir: configDir,
		DataDir:   dataDir,
		WorkDir:   workDir,
	}

	if cfg.ConfigDir == "" {
		cfg.ConfigDir = config.DefaultConfigDir()
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}

	// Check config file for custom cache path
	if appConfig, err := config.Load(cfg.ConfigDir); err == nil && appConfig.CachePath != "" {
		cfg.CacheDir = appConfig.CachePath
	} else if configDir != "" || dataDir != "" {
		cfg.CacheDir = filepath.Join(cfg.DataDir, "cache")
	} else {
		cfg.CacheDir = config.DefaultCacheDir()
	}

	return cfg, nil
}
