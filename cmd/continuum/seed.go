// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"continuum-cli/internal/guidelines"
)

// newSeedCommand creates the `continuum seed` command, which copies bundled
// packs from a trusted builtin directory into the store.
func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <builtin-dir>",
		Short: "Seed the store from a bundled builtin pack directory",
		Long: `Seed the store from a bundled builtin pack directory.

The builtin directory ships with the application and is trusted by
construction, so no digest verification is performed. The expected layout is
<builtin-dir>/packs/<pack-id>/{manifest.json,rules.json}. Packs already
present in the store are never overwritten, even when the builtin version
is newer: seeding establishes a floor, updates come from 'continuum update'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			store, err := guidelines.NewStore(cfg.StoreRoot)
			if err != nil {
				return fmt.Errorf("opening guidelines store: %w", err)
			}

			if err := store.SeedBuiltins(args[0]); err != nil {
				return fmt.Errorf("seeding builtin packs: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Done.")+" Builtin packs seeded.")
			return nil
		},
	}
}
