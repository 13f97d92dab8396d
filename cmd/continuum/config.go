// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"continuum-cli/internal/config"
)

// newConfigCommand creates the `continuum config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage continuum configuration",
		Long: `Manage continuum configuration.

Configuration is stored in:
  - Linux: ~/.config/Continuum/config.yaml
  - macOS: ~/Library/Application Support/Continuum/config.yaml
  - Windows: %APPDATA%\Continuum\config.yaml

Values may be overridden with CONTINUUM_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Configuration"))
			fmt.Fprintf(out, "  index_url:       %s\n", cfg.IndexURL)
			fmt.Fprintf(out, "  store_root:      %s\n", cfg.StoreRoot)
			fmt.Fprintf(out, "  timeout_seconds: %d\n", cfg.TimeoutSeconds)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return fmt.Errorf("resolving config directory: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s.%s\n", dir, config.ConfigFileName, config.ConfigFileExt)
			return nil
		},
	})

	return cfgCmd
}
