// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"continuum-cli/internal/guidelines"
)

// newListCommand creates the `continuum list` command, which prints the
// locally installed packs and their versions.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed guideline packs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			store, err := guidelines.NewStore(cfg.StoreRoot)
			if err != nil {
				return fmt.Errorf("opening guidelines store: %w", err)
			}

			return runList(cmd.OutOrStdout(), store)
		},
	}
}

// runList prints installed packs in id order.
func runList(out io.Writer, store *guidelines.Store) error {
	installed := store.ListInstalled()
	if len(installed) == 0 {
		fmt.Fprintln(out, "No guideline packs installed.")
		return nil
	}

	ids := make([]string, 0, len(installed))
	for id := range installed {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Fprintln(out, TitleStyle.Render("Installed guideline packs"))
	for _, id := range ids {
		fmt.Fprintf(out, "  %s %s\n", PackIDStyle.Render(id), installed[id])
	}

	return nil
}
