// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for continuum.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"continuum-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "continuum",
		Short: "Manage Continuum guideline packs",
		Long: TitleStyle.Render("continuum") + SubtitleStyle.Render(" - Guideline pack manager") + `

continuum keeps versioned guideline packs up to date from the remote
catalog. Packs are fetched over HTTPS, verified against their published
SHA256 digests, and installed atomically into the local per-user store.

` + SubtitleStyle.Render("Examples:") + `
  continuum update            Install new and updated packs
  continuum update --check    Show pending updates without installing
  continuum list              List installed packs and versions
  continuum show core-style   Show a pack's manifest and rule count
  continuum index build docs/packs   Build a catalog index for publishing`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/Continuum/config.yaml)")

	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newConfigCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initLogging installs a charmbracelet handler as the slog default so the
// soft-fail warnings from the internal packages share the CLI's styling.
func initLogging() {
	opts := charmlog.Options{ReportTimestamp: false}
	if verbose {
		opts.Level = charmlog.DebugLevel
	}
	slog.SetDefault(slog.New(charmlog.NewWithOptions(os.Stderr, opts)))
}

// loadConfig resolves the runtime configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
