// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"continuum-cli/internal/indexer"
)

// newIndexCommand creates the `continuum index` command tree for catalog
// build tooling.
func newIndexCommand() *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Build the pack catalog index for publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	indexCmd.AddCommand(newIndexBuildCommand())

	return indexCmd
}

// newIndexBuildCommand creates `continuum index build`, which scans a packs
// directory and writes the catalog index document.
func newIndexBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <packs-dir>",
		Short: "Build index.json from a directory of packs",
		Long: `Build index.json from a directory of packs.

Each subdirectory of <packs-dir> holding both manifest.json and rules.json
becomes one catalog entry, with SHA256 digests computed from the artifact
bytes. Settings may come from flags or from an indexer.yaml next to the
packs directory; flags win.`,
		Example: `  continuum index build docs/packs --base-url https://example.com/docs

  # With docs/indexer.yaml supplying base_url and output
  continuum index build docs/packs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("base-url")
			output, _ := cmd.Flags().GetString("output")
			settingsPath, _ := cmd.Flags().GetString("settings")

			packsDir := args[0]

			if settingsPath == "" {
				settingsPath = filepath.Join(filepath.Dir(packsDir), "indexer.yaml")
			}
			settings, err := indexer.LoadSettings(settingsPath)
			if err != nil {
				return err
			}

			if baseURL == "" {
				baseURL = settings.BaseURL
			}
			if baseURL == "" {
				return fmt.Errorf("no base URL: pass --base-url or set base_url in %s", settingsPath)
			}
			if output == "" {
				output = settings.Output
			}
			if output == "" {
				output = filepath.Join(filepath.Dir(packsDir), indexer.IndexFileName)
			}

			catalog, err := indexer.Build(packsDir, baseURL)
			if err != nil {
				return fmt.Errorf("building index: %w", err)
			}

			if err := indexer.WriteIndex(output, catalog); err != nil {
				return fmt.Errorf("writing index: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s with %d pack(s).\n",
				SuccessStyle.Render("Done."), output, len(catalog.Packs))
			return nil
		},
	}

	cmd.Flags().String("base-url", "", "Public URL prefix the packs directory is served under")
	cmd.Flags().String("output", "", "Index document path (default: index.json next to the packs dir)")
	cmd.Flags().String("settings", "", "Settings file (default: indexer.yaml next to the packs dir)")

	return cmd
}
